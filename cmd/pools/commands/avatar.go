package commands

import (
	"bufio"
	"fmt"
	"net/http"
	"os"

	"github.com/spf13/cobra"
)

// sniffLen is how many bytes http.DetectContentType looks at.
const sniffLen = 512

func avatarCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "avatar",
		Short: "Manage your profile picture",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "set <image-file>",
		Short: "Upload a new profile picture",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer f.Close()

			r := bufio.NewReaderSize(f, sniffLen)
			head, err := r.Peek(sniffLen)
			if err != nil && len(head) == 0 {
				return fmt.Errorf("read %s: %w", args[0], err)
			}

			url, err := rt.Services.Avatars.UploadAvatar(cmd.Context(), http.DetectContentType(head), r)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Avatar uploaded: %s\n", url)
			return nil
		},
	})
	return cmd
}
