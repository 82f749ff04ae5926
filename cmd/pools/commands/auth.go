package commands

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"time"

	"github.com/MKhiriev/ubuntu-pools/internal/app"
	"github.com/MKhiriev/ubuntu-pools/internal/service"
	"github.com/MKhiriev/ubuntu-pools/models"
	"github.com/spf13/cobra"
)

func signInCmd() *cobra.Command {
	var email string

	cmd := &cobra.Command{
		Use:   "signin",
		Short: "Sign in with e-mail and password",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			address, err := valueOrPrompt(email, bufio.NewReader(cmd.InOrStdin()), out, "E-mail")
			if err != nil {
				return err
			}
			password, err := promptPassword(out, "Password")
			if err != nil {
				return err
			}

			auth := rt.Services.Auth
			if err = auth.SignIn(cmd.Context(), address, password); err != nil {
				return err
			}
			printProfile(out, auth.Snapshot())
			return nil
		},
	}
	cmd.Flags().StringVarP(&email, "email", "e", "", "account e-mail")
	return cmd
}

func signUpCmd() *cobra.Command {
	var email, name string

	cmd := &cobra.Command{
		Use:   "signup",
		Short: "Create an account",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			in := bufio.NewReader(cmd.InOrStdin())

			displayName, err := valueOrPrompt(name, in, out, "Name")
			if err != nil {
				return err
			}
			address, err := valueOrPrompt(email, in, out, "E-mail")
			if err != nil {
				return err
			}
			password, err := promptNewPassword(out)
			if err != nil {
				return err
			}

			auth := rt.Services.Auth
			if err = auth.SignUp(cmd.Context(), address, password, displayName); err != nil {
				return err
			}
			if auth.Identity() == nil {
				fmt.Fprintln(out, app.MsgSignUpCheckEmail)
				return nil
			}
			printProfile(out, auth.Snapshot())
			return nil
		},
	}
	cmd.Flags().StringVarP(&email, "email", "e", "", "account e-mail")
	cmd.Flags().StringVarP(&name, "name", "n", "", "display name")
	return cmd
}

func signOutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "signout",
		Short: "Sign out and forget the stored session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			auth := rt.Services.Auth
			if auth.Identity() == nil {
				fmt.Fprintln(cmd.OutOrStdout(), app.MsgNotSignedIn)
				return nil
			}
			if err := auth.SignOut(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), app.MsgSignedOut)
			return nil
		},
	}
}

func whoAmICmd() *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the signed-in member",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			auth := rt.Services.Auth
			waitSettled(cmd.Context(), auth)
			printProfile(cmd.OutOrStdout(), auth.Snapshot())
			return nil
		},
	}
}

func resetPasswordCmd() *cobra.Command {
	var email string

	cmd := &cobra.Command{
		Use:   "reset-password",
		Short: "E-mail a password reset link",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			address, err := valueOrPrompt(email, bufio.NewReader(cmd.InOrStdin()), out, "E-mail")
			if err != nil {
				return err
			}
			if err = rt.Services.Auth.ResetPassword(cmd.Context(), address); err != nil {
				return err
			}
			fmt.Fprintf(out, app.MsgResetEmailSent+"\n", address)
			return nil
		},
	}
	cmd.Flags().StringVarP(&email, "email", "e", "", "account e-mail")
	return cmd
}

func updatePasswordCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "update-password",
		Short: "Set a new password for the signed-in member",
		Long: "Set a new password for the signed-in member. After following a reset link,\n" +
			"run `pools callback` first so the recovery session is picked up.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			password, err := promptNewPassword(out)
			if err != nil {
				return err
			}
			if err = rt.Services.Auth.UpdatePassword(cmd.Context(), password); err != nil {
				return err
			}
			fmt.Fprintln(out, app.MsgPasswordUpdated)
			return nil
		},
	}
}

const settlePoll = 50 * time.Millisecond

// waitSettled blocks until the auth manager has no profile fetch in flight.
func waitSettled(ctx context.Context, auth service.AuthService) {
	t := time.NewTicker(settlePoll)
	defer t.Stop()

	for auth.IsLoading() {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
		}
	}
}

// printProfile writes the snapshot as aligned key/value lines.
func printProfile(w io.Writer, snap models.AuthSnapshot) {
	if snap.Identity == nil {
		fmt.Fprintln(w, app.MsgNotSignedIn)
		return
	}

	u := snap.User
	if u == nil {
		fmt.Fprintf(w, "%-12s %s\n", "E-mail:", snap.Identity.Email)
		fmt.Fprintf(w, "%-12s %s\n", "User ID:", snap.Identity.ID)
		fmt.Fprintln(w, "Profile not loaded.")
		return
	}

	phone := "-"
	if u.Phone != nil && *u.Phone != "" {
		phone = *u.Phone
	}
	lastLogin := "-"
	if u.LastLoginAt != nil {
		lastLogin = u.LastLoginAt.Local().Format(time.DateTime)
	}

	rows := [][2]string{
		{"Name:", u.Name},
		{"E-mail:", u.Email},
		{"Phone:", phone},
		{"Wallet:", fmt.Sprintf("R %.2f", u.WalletBalance)},
		{"Savings:", fmt.Sprintf("R %.2f", u.TotalSavings)},
		{"Trust:", fmt.Sprintf("%d (%s)", u.TrustScore.Score, u.TrustScore.Rating)},
		{"Last login:", lastLogin},
		{"User ID:", u.ID},
	}
	for _, r := range rows {
		fmt.Fprintf(w, "%-12s %s\n", r[0], r[1])
	}
}
