package commands

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/MKhiriev/ubuntu-pools/internal/app"
	"github.com/MKhiriev/ubuntu-pools/internal/client"
	"github.com/MKhiriev/ubuntu-pools/internal/config"
	"github.com/MKhiriev/ubuntu-pools/internal/logger"
	"github.com/MKhiriev/ubuntu-pools/internal/tui"
	"github.com/spf13/cobra"
)

// rt is the client runtime shared by every subcommand. It is set in
// PersistentPreRunE and closed when Execute returns.
var (
	rt  *client.App
	log = logger.Nop()
)

// Execute runs the pools command line and prints the error, if any.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	defer stopRuntime()

	err := newRootCmd().ExecuteContext(ctx)
	if err != nil {
		fmt.Fprintln(os.Stderr, "pools:", err)
	}
	return err
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "pools",
		Short:         "Community savings pools from the terminal",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if skipRuntime(cmd) {
				return nil
			}
			return startRuntime(cmd)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			ui, err := tui.New(rt.Services, log)
			if err != nil {
				return err
			}
			err = ui.Run(cmd.Context())
			if errors.Is(err, tui.ErrUserQuit) {
				return nil
			}
			return err
		},
	}

	config.RegisterFlags(root.PersistentFlags())

	root.AddCommand(
		signInCmd(),
		signUpCmd(),
		signOutCmd(),
		whoAmICmd(),
		resetPasswordCmd(),
		updatePasswordCmd(),
		callbackCmd(),
		poolCmd(),
		avatarCmd(),
		versionCmd(),
	)

	return root
}

// skipRuntime reports whether cmd works offline: help, completion and
// anything annotated with annotationNoRuntime.
func skipRuntime(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		switch {
		case c.Annotations[annotationNoRuntime] == "true":
			return true
		case c.Name() == "help", c.Name() == cobra.ShellCompRequestCmd, c.Name() == "completion":
			return true
		}
	}
	return false
}

const annotationNoRuntime = "no-runtime"

func startRuntime(cmd *cobra.Command) error {
	log = logger.NewClientLogger("ubuntu-pools")

	cfg, err := config.GetClientConfig(cmd.Root().PersistentFlags())
	if errors.Is(err, config.ErrMissingBackendConfig) {
		log.Error().Err(err).Msg("error getting configs")
		return errors.New(app.MsgMissingBackendConfig)
	}
	if err != nil {
		log.Error().Err(err).Msg("error getting configs")
		return fmt.Errorf("read configuration: %w", err)
	}

	rt, err = client.NewApp(cmd.Context(), cfg, log)
	if err != nil {
		log.Error().Err(err).Msg("init client app error")
		return err
	}

	rt.Start(cmd.Context())
	return nil
}

func stopRuntime() {
	if rt != nil {
		rt.Close()
		rt = nil
	}
}
