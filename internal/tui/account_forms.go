package tui

import (
	"context"
	"fmt"

	"github.com/MKhiriev/ubuntu-pools/internal/app"
	"github.com/MKhiriev/ubuntu-pools/internal/service"
	"github.com/MKhiriev/ubuntu-pools/models"
	tea "github.com/charmbracelet/bubbletea"
)

const passwordMismatch = "Passwords do not match"

func NewSignInModel(ctx context.Context, auth service.AuthService) *FormModel {
	return &FormModel{
		title:  "SIGN IN",
		action: "Sign in",
		back:   pageMenu,
		fields: []formField{
			newField("E-mail", "you@example.com", false),
			newField("Password", "password", true),
		},
		submit: func(v []string) tea.Cmd {
			return func() tea.Msg {
				err := auth.SignIn(ctx, v[0], v[1])
				return formResult{err: err, next: NavigateTo{Page: pageProfile}}
			}
		},
	}
}

// NewSignUpModel opens the profile when the backend signed the new member
// in right away and returns to the menu when e-mail confirmation is pending.
func NewSignUpModel(ctx context.Context, auth service.AuthService) *FormModel {
	return &FormModel{
		title:  "CREATE ACCOUNT",
		action: "Create account",
		back:   pageMenu,
		fields: []formField{
			newField("Name", "full name", false),
			newField("E-mail", "you@example.com", false),
			newField("Password", "password", true),
			newField("Repeat password", "password", true),
		},
		check: func(v []string) string {
			if v[2] != v[3] {
				return passwordMismatch
			}
			return ""
		},
		submit: func(v []string) tea.Cmd {
			return func() tea.Msg {
				if err := auth.SignUp(ctx, v[1], v[2], v[0]); err != nil {
					return formResult{err: err}
				}
				if auth.Identity() == nil {
					return formResult{next: NavigateTo{Page: pageMenu, Payload: Notice{Text: app.MsgSignUpCheckEmail}}}
				}
				return formResult{next: NavigateTo{Page: pageProfile}}
			}
		},
	}
}

func NewResetPasswordModel(ctx context.Context, auth service.AuthService) *FormModel {
	return &FormModel{
		title:  "RESET PASSWORD",
		action: "Send reset link",
		back:   pageMenu,
		fields: []formField{
			newField("E-mail", "you@example.com", false),
		},
		submit: func(v []string) tea.Cmd {
			return func() tea.Msg {
				if err := auth.ResetPassword(ctx, v[0]); err != nil {
					return formResult{err: err}
				}
				notice := Notice{Text: fmt.Sprintf(app.MsgResetEmailSent, v[0])}
				return formResult{next: NavigateTo{Page: pageMenu, Payload: notice}}
			}
		},
	}
}

func NewEditNameModel(ctx context.Context, auth service.AuthService) *FormModel {
	return &FormModel{
		title:  "EDIT PROFILE",
		action: "Save",
		back:   pageProfile,
		fields: []formField{
			newField("Name", "full name", false),
			newOptionalField("Phone", "+27..."),
		},
		prefill: func() []string {
			u := auth.User()
			if u == nil {
				return nil
			}
			phone := ""
			if u.Phone != nil {
				phone = *u.Phone
			}
			return []string{u.Name, phone}
		},
		submit: func(v []string) tea.Cmd {
			return func() tea.Msg {
				update := models.ProfileUpdate{Name: &v[0]}
				if v[1] != "" {
					update.Phone = &v[1]
				}
				if err := auth.UpdateProfile(ctx, update); err != nil {
					return formResult{err: err}
				}
				return formResult{next: NavigateTo{Page: pageProfile, Payload: Notice{Text: app.MsgProfileUpdated}}}
			}
		},
	}
}

func NewChangePasswordModel(ctx context.Context, auth service.AuthService) *FormModel {
	return &FormModel{
		title:  "CHANGE PASSWORD",
		action: "Update password",
		back:   pageProfile,
		fields: []formField{
			newField("New password", "password", true),
			newField("Repeat password", "password", true),
		},
		check: func(v []string) string {
			if v[0] != v[1] {
				return passwordMismatch
			}
			return ""
		},
		submit: func(v []string) tea.Cmd {
			return func() tea.Msg {
				if err := auth.UpdatePassword(ctx, v[0]); err != nil {
					return formResult{err: err}
				}
				return formResult{next: NavigateTo{Page: pageProfile, Payload: Notice{Text: app.MsgPasswordUpdated}}}
			}
		},
	}
}
