package view

import (
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/google/uuid"

	"github.com/billfold/billfold/internal/recurring"
)

// Window sizes the view cycles through with "w".
var upcomingWindows = []int{30, 60, 90}

type UpcomingModel struct {
	CommonModel
	svc    *recurring.Service
	userID uuid.UUID

	table     table.Model
	bills     []recurring.UpcomingBill
	windowIdx int

	loading bool
	err     error
	status  string
}

func NewUpcomingModel(svc *recurring.Service, userID uuid.UUID) UpcomingModel {
	columns := []table.Column{
		{Title: "Due", Width: 12},
		{Title: "Category", Width: 15},
		{Title: "Amount", Width: 10},
		{Title: "Note", Width: 35},
		{Title: "Cadence", Width: 10},
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(15),
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		BorderBottom(true).
		Bold(false)
	s.Selected = s.Selected.
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("57")).
		Bold(false)
	t.SetStyles(s)

	return UpcomingModel{
		svc:    svc,
		userID: userID,
		table:  t,
	}
}

func (m UpcomingModel) Title() string { return "Upcoming Bills" }

func (m UpcomingModel) ShortHelp() string {
	return "Esc: back | s: skip occurrence | w: window | r: refresh"
}

func (m UpcomingModel) Init() tea.Cmd {
	return m.loadCmd()
}

func (m UpcomingModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case loadUpcomingMsg:
		m.loading = false
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}

		m.err = nil
		m.bills = msg.bills
		m.refreshTable()

		return m, nil

	case occurrenceSkippedMsg:
		if msg.err != nil {
			m.status = fmt.Sprintf("Error skipping: %v", msg.err)
			return m, nil
		}

		m.status = "Skipped; it will not be posted."

		return m, m.loadCmd()

	case tea.WindowSizeMsg:
		m.table.SetHeight(msg.Height - 10)
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "esc":
			return m, Back
		case "r":
			m.loading = true
			return m, m.loadCmd()
		case "w":
			m.windowIdx = (m.windowIdx + 1) % len(upcomingWindows)
			m.loading = true

			return m, m.loadCmd()
		case "s":
			return m, m.skipCmd()
		}
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)

	return m, cmd
}

func (m UpcomingModel) View() string {
	if m.loading {
		return lipgloss.NewStyle().Padding(2).Render("Loading upcoming bills...")
	}

	if m.err != nil {
		return lipgloss.NewStyle().Padding(2).Render(fmt.Sprintf("Error: %v", m.err))
	}

	header := fmt.Sprintf("Next %s days  |  %d bills due",
		activeStyle(fmt.Sprintf("%d", upcomingWindows[m.windowIdx])), len(m.bills))

	tableView := lipgloss.NewStyle().
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		Render(m.table.View())

	content := lipgloss.JoinVertical(lipgloss.Left,
		lipgloss.NewStyle().PaddingBottom(1).Render(header),
		tableView,
	)

	if m.status != "" {
		content = lipgloss.NewStyle().Faint(true).Render(m.status) + "\n" + content
	}

	return lipgloss.NewStyle().Padding(1).Render(content)
}

func (m *UpcomingModel) refreshTable() {
	rows := make([]table.Row, 0, len(m.bills))

	for _, b := range m.bills {
		rows = append(rows, table.Row{
			FormatDate(b.DueDate),
			string(b.Category),
			FormatAmount(b.AmountCents),
			b.Note,
			string(b.Cadence),
		})
	}

	m.table.SetRows(rows)
}

// Messages

type loadUpcomingMsg struct {
	bills []recurring.UpcomingBill
	err   error
}

func (m UpcomingModel) loadCmd() tea.Cmd {
	days := upcomingWindows[m.windowIdx]

	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		bills, err := m.svc.Upcoming(ctx, m.userID, time.Now().UTC(), days)

		return loadUpcomingMsg{bills: bills, err: err}
	}
}

type occurrenceSkippedMsg struct {
	err error
}

func (m UpcomingModel) skipCmd() tea.Cmd {
	idx := m.table.Cursor()
	if idx < 0 || idx >= len(m.bills) {
		return nil
	}

	bill := m.bills[idx]

	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		return occurrenceSkippedMsg{err: m.svc.Skip(ctx, m.userID, bill.RuleID, bill.DueDate)}
	}
}
