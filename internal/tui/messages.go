package tui

import (
	"github.com/MKhiriev/ubuntu-pools/models"
	tea "github.com/charmbracelet/bubbletea"
)

// NavigateTo switches the router to Page. Payload, when set, is delivered
// to the new page right after its Init.
type NavigateTo struct {
	Page    string
	Payload tea.Msg
}

// Notice is a one-line confirmation shown on the page it is delivered to.
type Notice struct {
	Text string
}

type authPendingMsg struct{}

type authReadyMsg struct{}

// formResult ends a form submission. On success the form moves to next.
type formResult struct {
	err  error
	next NavigateTo
}

type signedOutMsg struct {
	err error
}

type profileRefreshedMsg struct {
	err error
}

type poolsLoadedMsg struct {
	pools []models.Pool
	total int
	err   error
}

type copiedMsg struct {
	err error
}

type clearStatusMsg struct{}
