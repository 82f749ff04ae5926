package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/MKhiriev/ubuntu-pools/internal/app"
	"github.com/MKhiriev/ubuntu-pools/internal/service"
	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

const statusTTL = 2 * time.Second

// ProfileModel shows the signed-in member's profile and account actions.
// It renders straight from the auth manager's snapshot so pushed session
// changes show up on the next frame.
type ProfileModel struct {
	ctx       context.Context
	auth      service.AuthService
	withPools bool

	busy   bool
	status string
	errMsg string

	// copy writes to the system clipboard.
	copy func(string) error
}

func NewProfileModel(ctx context.Context, auth service.AuthService, withPools bool) *ProfileModel {
	return &ProfileModel{
		ctx:       ctx,
		auth:      auth,
		withPools: withPools,
		copy:      clipboard.WriteAll,
	}
}

func (m *ProfileModel) Init() tea.Cmd {
	m.status = ""
	m.errMsg = ""
	return nil
}

func (m *ProfileModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case Notice:
		m.status = msg.Text
		return m, clearStatusAfter(statusTTL)
	case clearStatusMsg:
		m.status = ""
		return m, nil
	case copiedMsg:
		if msg.err != nil {
			m.errMsg = fmt.Sprintf("copy to clipboard: %v", msg.err)
			return m, nil
		}
		m.status = app.MsgCopiedUserID
		return m, clearStatusAfter(statusTTL)
	case profileRefreshedMsg:
		m.busy = false
		m.errMsg = humanizeError(msg.err)
		return m, nil
	case signedOutMsg:
		m.busy = false
		if msg.err != nil {
			m.errMsg = humanizeError(msg.err)
			return m, nil
		}
		return m, func() tea.Msg {
			return NavigateTo{Page: pageMenu, Payload: Notice{Text: app.MsgSignedOut}}
		}
	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m *ProfileModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, keys.quit) {
		return m, tea.Quit
	}
	if m.busy {
		return m, nil
	}

	identity := m.auth.Identity()
	if identity == nil {
		return m, func() tea.Msg {
			return NavigateTo{Page: pageMenu, Payload: Notice{Text: app.MsgNotSignedIn}}
		}
	}

	m.errMsg = ""
	switch {
	case key.Matches(msg, keys.edit):
		if m.auth.User() == nil {
			m.errMsg = service.ErrFetchProfileFailed.Error()
			return m, nil
		}
		return m, func() tea.Msg { return NavigateTo{Page: pageName} }
	case key.Matches(msg, keys.password):
		return m, func() tea.Msg { return NavigateTo{Page: pagePassword} }
	case key.Matches(msg, keys.pools):
		if !m.withPools {
			return m, nil
		}
		return m, func() tea.Msg { return NavigateTo{Page: pagePools} }
	case key.Matches(msg, keys.copyUser):
		id := identity.ID
		copyFn := m.copy
		return m, func() tea.Msg { return copiedMsg{err: copyFn(id)} }
	case key.Matches(msg, keys.refresh):
		m.busy = true
		ctx, auth := m.ctx, m.auth
		return m, func() tea.Msg { return profileRefreshedMsg{err: auth.RefreshProfile(ctx)} }
	case key.Matches(msg, keys.logout):
		m.busy = true
		ctx, auth := m.ctx, m.auth
		return m, func() tea.Msg { return signedOutMsg{err: auth.SignOut(ctx)} }
	}
	return m, nil
}

func (m *ProfileModel) View() string {
	snap := m.auth.Snapshot()

	var b strings.Builder
	switch {
	case snap.Identity == nil:
		b.WriteString(app.MsgNotSignedIn)
		b.WriteString("\n")
	case snap.User == nil && snap.IsLoading:
		b.WriteString("Signed in as ")
		b.WriteString(snap.Identity.Email)
		b.WriteString("\nLoading profile...\n")
	case snap.User == nil:
		b.WriteString("Signed in as ")
		b.WriteString(snap.Identity.Email)
		b.WriteString("\nProfile unavailable, press r to retry.\n")
	default:
		u := snap.User
		rows := [][2]string{
			{"Name", u.Name},
			{"E-mail", u.Email},
			{"Phone", valueOrDash(u.Phone)},
			{"Wallet", formatRand(u.WalletBalance)},
			{"Savings", formatRand(u.TotalSavings)},
			{"Trust score", fmt.Sprintf("%d (%s)", u.TrustScore.Score, u.TrustScore.Rating)},
			{"Member since", formatDate(&u.CreatedAt)},
			{"Last login", formatDate(u.LastLoginAt)},
			{"User ID", u.ID},
		}
		for _, r := range rows {
			b.WriteString(fmt.Sprintf("%-12s │ %s\n", r[0], fitText(r[1], inputWidth+10)))
		}
		if !snap.Identity.IsVerified() {
			b.WriteString("\nE-mail address not confirmed yet.\n")
		}
	}
	if m.busy {
		b.WriteString("\n[working...]\n")
	}
	writeStatus(&b, m.status, m.errMsg)

	hotKeys := "e: edit │ p: password │ u: copy id │ r: refresh │ x: sign out │ q: quit"
	if m.withPools {
		hotKeys = "o: pools │ " + hotKeys
	}
	return renderPage("PROFILE", strings.TrimRight(b.String(), "\n"), hotKeys)
}

func clearStatusAfter(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(time.Time) tea.Msg {
		return clearStatusMsg{}
	})
}
