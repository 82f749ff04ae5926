package commands

import (
	"fmt"
	"io"

	"github.com/MKhiriev/ubuntu-pools/internal/backend"
	"github.com/MKhiriev/ubuntu-pools/models"
	"github.com/spf13/cobra"
)

func callbackCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "callback [redirect-url]",
		Short: "Finish a sign-in, confirmation or recovery link",
		Long: "Without arguments, serve the local callback page and wait until the link from\n" +
			"the e-mail is opened in a browser. With an argument, adopt the session from a\n" +
			"redirect address copied out of the browser.",
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()

			if len(args) == 1 {
				s, kind, err := rt.Backend.SessionFromURL(cmd.Context(), args[0])
				if err != nil {
					return fmt.Errorf("adopt redirect: %w", err)
				}
				printRedirect(out, s, kind)
				return nil
			}

			fmt.Fprintf(out, "Waiting for the link to be opened at %s (ctrl+c to stop)\n", rt.CallbackURL())
			res, err := rt.WaitForRedirect(cmd.Context())
			if err != nil {
				return err
			}
			printRedirect(out, res.Session, res.Type)
			return nil
		},
	}
}

func printRedirect(w io.Writer, s models.Session, kind string) {
	switch kind {
	case backend.RedirectTypeRecovery:
		fmt.Fprintf(w, "Recovery session active for %s. Run `pools update-password` to choose a new password.\n", s.User.Email)
	case backend.RedirectTypeSignup, backend.RedirectTypeInvite:
		fmt.Fprintf(w, "E-mail %s confirmed. You are signed in.\n", s.User.Email)
	default:
		fmt.Fprintf(w, "Signed in as %s.\n", s.User.Email)
	}
}
