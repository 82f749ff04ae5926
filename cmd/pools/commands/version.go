package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

var (
	buildVersion = "N/A"
	buildDate    = "N/A"
	buildCommit  = "N/A"
)

// SetBuildInfo records the values injected with -ldflags. Empty values
// keep the "N/A" default.
func SetBuildInfo(version, date, commit string) {
	if version != "" {
		buildVersion = version
	}
	if date != "" {
		buildDate = date
	}
	if commit != "" {
		buildCommit = commit
	}
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:         "version",
		Short:       "Print build information",
		Args:        cobra.NoArgs,
		Annotations: map[string]string{annotationNoRuntime: "true"},
		Run: func(cmd *cobra.Command, args []string) {
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Build version: %s\n", buildVersion)
			fmt.Fprintf(out, "Build date: %s\n", buildDate)
			fmt.Fprintf(out, "Build commit: %s\n", buildCommit)
		},
	}
}
