package tui

import (
	"context"
	"errors"

	"github.com/MKhiriev/ubuntu-pools/internal/logger"
	"github.com/MKhiriev/ubuntu-pools/internal/service"
	tea "github.com/charmbracelet/bubbletea"
)

var ErrUserQuit = errors.New("user quit")

const (
	pageMenu     = "menu"
	pageSignIn   = "signin"
	pageSignUp   = "signup"
	pageReset    = "reset"
	pageProfile  = "profile"
	pageName     = "name"
	pagePassword = "password"
	pagePools    = "pools"
)

type TUI struct {
	services *service.ClientServices
	logger   *logger.Logger
}

func New(services *service.ClientServices, log *logger.Logger) (*TUI, error) {
	if services == nil || services.Auth == nil {
		return nil, errors.New("tui: auth service is required")
	}
	return &TUI{services: services, logger: log}, nil
}

// Run shows the account screens until the user quits. It returns
// [ErrUserQuit] when the program was left with ctrl+c.
func (t *TUI) Run(ctx context.Context) error {
	root := NewRootModel(t.auth(), buildPages(ctx, t.services))

	finalModel, err := tea.NewProgram(root, tea.WithAltScreen(), tea.WithContext(ctx)).Run()
	if err != nil {
		t.logger.Err(err).Str("func", "TUI.Run").Msg("terminal program failed")
		return err
	}

	result, ok := finalModel.(RootModel)
	if !ok {
		return tea.ErrProgramKilled
	}
	if result.quitByUser {
		return ErrUserQuit
	}
	return nil
}

func (t *TUI) auth() service.AuthService {
	return t.services.Auth
}

func buildPages(ctx context.Context, services *service.ClientServices) map[string]tea.Model {
	auth := services.Auth
	pages := map[string]tea.Model{
		pageMenu:     NewMenuModel(),
		pageSignIn:   NewSignInModel(ctx, auth),
		pageSignUp:   NewSignUpModel(ctx, auth),
		pageReset:    NewResetPasswordModel(ctx, auth),
		pageProfile:  NewProfileModel(ctx, auth, services.Pools != nil),
		pageName:     NewEditNameModel(ctx, auth),
		pagePassword: NewChangePasswordModel(ctx, auth),
	}
	if services.Pools != nil {
		pages[pagePools] = NewPoolsModel(ctx, services.Pools)
	}
	return pages
}
