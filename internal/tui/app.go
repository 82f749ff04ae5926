package tui

import (
	"time"

	"github.com/MKhiriev/ubuntu-pools/internal/service"
	"github.com/MKhiriev/ubuntu-pools/models"
	tea "github.com/charmbracelet/bubbletea"
)

const authPollInterval = 100 * time.Millisecond

// RootModel is a TUI router:
// 1) waits for the persisted session check to finish
// 2) handles global Ctrl+C quit
// 3) handles NavigateTo messages
// 4) delegates all other messages to the active page
type RootModel struct {
	auth    service.AuthService
	pages   map[string]tea.Model
	current tea.Model

	ready      bool
	quitByUser bool
}

// NewRootModel registers all pages. The first page is picked once the auth
// manager has settled: the profile for a restored session, the menu otherwise.
func NewRootModel(auth service.AuthService, pages map[string]tea.Model) RootModel {
	return RootModel{
		auth:  auth,
		pages: pages,
	}
}

func (r RootModel) Init() tea.Cmd {
	return waitForAuth(r.auth, 0)
}

func (r RootModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok && key.String() == "ctrl+c" {
		r.quitByUser = true
		return r, tea.Quit
	}

	switch msg := msg.(type) {
	case authPendingMsg:
		return r, waitForAuth(r.auth, authPollInterval)
	case authReadyMsg:
		r.ready = true
		start := pageMenu
		if r.auth.State() == models.AuthStateAuthenticated {
			start = pageProfile
		}
		return r.navigate(NavigateTo{Page: start})
	case NavigateTo:
		return r.navigate(msg)
	}

	if !r.ready || r.current == nil {
		return r, nil
	}

	updated, cmd := r.current.Update(msg)
	r.current = updated
	return r, cmd
}

func (r RootModel) View() string {
	if !r.ready || r.current == nil {
		return renderPage("UBUNTU POOLS", "Restoring session...", "")
	}
	return r.current.View()
}

func (r RootModel) navigate(nav NavigateTo) (tea.Model, tea.Cmd) {
	next, exists := r.pages[nav.Page]
	if !exists {
		return r, nil
	}
	r.current = next

	if nav.Payload != nil {
		return r, tea.Batch(r.current.Init(), func() tea.Msg { return nav.Payload })
	}
	return r, r.current.Init()
}

// waitForAuth reports authReadyMsg once the manager is no longer
// initializing or loading. The first check runs immediately.
func waitForAuth(auth service.AuthService, delay time.Duration) tea.Cmd {
	check := func(time.Time) tea.Msg {
		if auth.State() == models.AuthStateInitializing || auth.IsLoading() {
			return authPendingMsg{}
		}
		return authReadyMsg{}
	}
	if delay == 0 {
		return func() tea.Msg { return check(time.Now()) }
	}
	return tea.Tick(delay, check)
}
