package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/MKhiriev/ubuntu-pools/internal/service"
	"github.com/MKhiriev/ubuntu-pools/models"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

const poolsPageSize = 10

// PoolsModel lists the pools visible to the signed-in member, one page at a time.
type PoolsModel struct {
	ctx   context.Context
	pools service.PoolService

	items   []models.Pool
	total   int
	page    int
	idx     int
	loading bool
	errMsg  string
}

func NewPoolsModel(ctx context.Context, pools service.PoolService) *PoolsModel {
	return &PoolsModel{ctx: ctx, pools: pools, page: 1}
}

func (m *PoolsModel) Init() tea.Cmd {
	m.page = 1
	m.idx = 0
	return m.load()
}

func (m *PoolsModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case poolsLoadedMsg:
		m.loading = false
		if msg.err != nil {
			m.errMsg = humanizeError(msg.err)
			return m, nil
		}
		m.errMsg = ""
		m.items = msg.pools
		m.total = msg.total
		if m.idx >= len(m.items) {
			m.idx = 0
		}
		return m, nil
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.esc):
			return m, func() tea.Msg { return NavigateTo{Page: pageProfile} }
		case key.Matches(msg, keys.quit):
			return m, tea.Quit
		case key.Matches(msg, keys.up):
			if m.idx > 0 {
				m.idx--
			}
		case key.Matches(msg, keys.down):
			if m.idx < len(m.items)-1 {
				m.idx++
			}
		case key.Matches(msg, keys.nextPage):
			if !m.loading && m.page < m.pageCount() {
				m.page++
				m.idx = 0
				return m, m.load()
			}
		case key.Matches(msg, keys.prevPage):
			if !m.loading && m.page > 1 {
				m.page--
				m.idx = 0
				return m, m.load()
			}
		case key.Matches(msg, keys.refresh):
			if !m.loading {
				return m, m.load()
			}
		}
	}
	return m, nil
}

func (m *PoolsModel) View() string {
	var b strings.Builder

	switch {
	case m.loading && len(m.items) == 0:
		b.WriteString("Loading pools...\n")
	case len(m.items) == 0 && m.errMsg == "":
		b.WriteString("You are not a member of any pool yet.\n")
	case len(m.items) > 0:
		b.WriteString(fmt.Sprintf("  %-24s │ %-11s │ %12s │ %-7s │ %s\n", "Name", "Type", "Contribution", "Members", "Status"))
		b.WriteString(strings.Repeat("─", 80))
		b.WriteString("\n")
		for i, p := range m.items {
			cursor := " "
			if i == m.idx {
				cursor = ">"
			}
			b.WriteString(fmt.Sprintf("%s %-24s │ %-11s │ %12s │ %-7s │ %s\n",
				cursor,
				fitText(p.Name, 24),
				p.Type,
				formatRand(p.ContributionAmount),
				memberCount(p),
				p.Status,
			))
		}
		b.WriteString(fmt.Sprintf("\nPage %d of %d (%d pools)\n", m.page, m.pageCount(), m.total))
	}
	writeStatus(&b, "", m.errMsg)

	return renderPage("MY POOLS", strings.TrimRight(b.String(), "\n"), "↑/↓: select │ ←/→: page │ r: refresh │ esc: back │ q: quit")
}

func (m *PoolsModel) load() tea.Cmd {
	m.loading = true
	ctx, pools, page := m.ctx, m.pools, m.page
	return func() tea.Msg {
		resp, err := pools.ListPools(ctx, models.PaginationParams{
			Page:      page,
			Limit:     poolsPageSize,
			SortBy:    "created_at",
			SortOrder: models.SortDesc,
		})
		if err != nil {
			return poolsLoadedMsg{err: err}
		}
		msg := poolsLoadedMsg{}
		if resp.Data != nil {
			msg.pools = *resp.Data
		}
		msg.total = len(msg.pools)
		if resp.Meta != nil {
			msg.total = resp.Meta.Total
		}
		return msg
	}
}

func (m *PoolsModel) pageCount() int {
	if m.total <= 0 {
		return 1
	}
	return (m.total + poolsPageSize - 1) / poolsPageSize
}

func memberCount(p models.Pool) string {
	if p.MaxMembers == nil {
		return fmt.Sprintf("%d", p.TotalMembers)
	}
	return fmt.Sprintf("%d/%d", p.TotalMembers, *p.MaxMembers)
}
