package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

const inputWidth = 40

type formField struct {
	label    string
	input    textinput.Model
	optional bool
}

func newField(label, placeholder string, secret bool) formField {
	in := textinput.New()
	in.Placeholder = placeholder
	in.Width = inputWidth
	in.CharLimit = 256
	if secret {
		in.EchoMode = textinput.EchoPassword
		in.EchoCharacter = '*'
	}
	return formField{label: label, input: in}
}

func newOptionalField(label, placeholder string) formField {
	f := newField(label, placeholder, false)
	f.optional = true
	return f
}

// FormModel is a vertical list of text inputs with one async submit action.
// Every account screen is a FormModel configured with its own fields and
// submit command.
type FormModel struct {
	title  string
	action string
	back   string

	fields     []formField
	focus      int
	submitting bool
	errMsg     string
	notice     string

	// prefill returns initial values, one per field, each time the page opens.
	prefill func() []string
	// check validates the trimmed values and returns a message, or "".
	check  func(values []string) string
	submit func(values []string) tea.Cmd
}

func (m *FormModel) Init() tea.Cmd {
	m.reset()
	if m.prefill != nil {
		for i, v := range m.prefill() {
			if i < len(m.fields) {
				m.fields[i].input.SetValue(v)
				m.fields[i].input.CursorEnd()
			}
		}
	}
	return textinput.Blink
}

func (m *FormModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case Notice:
		m.notice = msg.Text
		return m, nil
	case formResult:
		m.submitting = false
		if msg.err != nil {
			m.errMsg = humanizeError(msg.err)
			return m, nil
		}
		m.reset()
		next := msg.next
		return m, func() tea.Msg { return next }
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.esc):
			if m.submitting {
				return m, nil
			}
			back := m.back
			return m, func() tea.Msg { return NavigateTo{Page: back} }
		case key.Matches(msg, keys.tab):
			m.focusNext()
			return m, nil
		case key.Matches(msg, keys.backtab):
			m.focusPrev()
			return m, nil
		case key.Matches(msg, keys.enter):
			if m.submitting {
				return m, nil
			}
			values := m.values()
			if problem := m.validate(values); problem != "" {
				m.errMsg = problem
				return m, nil
			}
			m.errMsg = ""
			m.notice = ""
			m.submitting = true
			return m, m.submit(values)
		}
	}

	var cmd tea.Cmd
	m.fields[m.focus].input, cmd = m.fields[m.focus].input.Update(msg)
	return m, cmd
}

func (m *FormModel) View() string {
	var b strings.Builder

	labelWidth := lipgloss.Width("Field")
	for _, f := range m.fields {
		if w := lipgloss.Width(f.label); w > labelWidth {
			labelWidth = w
		}
	}

	b.WriteString(fmt.Sprintf("%-*s │ Value\n", labelWidth, "Field"))
	b.WriteString(strings.Repeat("─", labelWidth))
	b.WriteString("─┼─")
	b.WriteString(strings.Repeat("─", inputWidth+2))
	b.WriteString("\n")
	for _, f := range m.fields {
		b.WriteString(fmt.Sprintf("%-*s │ [%s]\n", labelWidth, f.label, f.input.View()))
	}

	if m.submitting {
		b.WriteString("\n[" + m.action + "...]\n")
	} else {
		b.WriteString("\n[" + m.action + "]\n")
	}
	writeStatus(&b, m.notice, m.errMsg)

	return renderPage(m.title, strings.TrimRight(b.String(), "\n"), "esc: back │ tab: next field │ enter: submit")
}

func (m *FormModel) values() []string {
	out := make([]string, len(m.fields))
	for i, f := range m.fields {
		if f.input.EchoMode == textinput.EchoPassword {
			out[i] = f.input.Value()
			continue
		}
		out[i] = strings.TrimSpace(f.input.Value())
	}
	return out
}

func (m *FormModel) validate(values []string) string {
	for i, f := range m.fields {
		if !f.optional && values[i] == "" {
			return f.label + " is required"
		}
	}
	if m.check != nil {
		return m.check(values)
	}
	return ""
}

func (m *FormModel) reset() {
	for i := range m.fields {
		m.fields[i].input.Reset()
		m.fields[i].input.Blur()
	}
	m.focus = 0
	m.fields[0].input.Focus()
	m.submitting = false
	m.errMsg = ""
	m.notice = ""
}

func (m *FormModel) focusNext() {
	m.fields[m.focus].input.Blur()
	m.focus = (m.focus + 1) % len(m.fields)
	m.fields[m.focus].input.Focus()
}

func (m *FormModel) focusPrev() {
	m.fields[m.focus].input.Blur()
	m.focus = (m.focus - 1 + len(m.fields)) % len(m.fields)
	m.fields[m.focus].input.Focus()
}
