package view

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/google/uuid"

	"github.com/billfold/billfold/internal/expense"
	"github.com/billfold/billfold/internal/recurring"
	"github.com/billfold/billfold/internal/schedule"
)

type expensesState int

const (
	expensesStateBrowse expensesState = iota
	expensesStateEdit
	expensesStateAdd
)

type ExpensesModel struct {
	CommonModel
	svc          *expense.Service
	recurringSvc *recurring.Service
	userID       uuid.UUID

	state    expensesState
	table    table.Model
	month    string
	expenses []*expense.Expense
	summary  *expense.Summary
	form     *huh.Form

	loading bool
	err     error
	status  string

	// Form bindings
	formAmount   string
	formCategory string
	formNote     string
	formDate     string
}

func NewExpensesModel(svc *expense.Service, recurringSvc *recurring.Service, userID uuid.UUID) ExpensesModel {
	columns := []table.Column{
		{Title: "Date", Width: 12},
		{Title: "Category", Width: 15},
		{Title: "Amount", Width: 10},
		{Title: "Note", Width: 40},
		{Title: "", Width: 10},
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

	return ExpensesModel{
		svc:          svc,
		recurringSvc: recurringSvc,
		userID:       userID,
		table:        t,
		month:        schedule.MonthKey(time.Now()),
	}
}

func (m ExpensesModel) Title() string { return "Expenses" }

func (m ExpensesModel) ShortHelp() string {
	if m.state != expensesStateBrowse {
		return "Navigate form | Esc: cancel"
	}

	return "Esc: back | a: add | e: edit | x: delete | [/]: prev/next month | r: refresh"
}

func (m ExpensesModel) Init() tea.Cmd {
	return m.loadCmd()
}

func (m ExpensesModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case loadExpensesMsg:
		m.loading = false
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}

		m.err = nil
		m.expenses = msg.expenses
		m.summary = msg.summary
		m.refreshTable()

		return m, nil

	case expenseSavedMsg:
		if msg.err != nil {
			m.status = fmt.Sprintf("Error saving: %v", msg.err)
		} else {
			m.status = ""
		}

		m.state = expensesStateBrowse
		m.form = nil
		m.table.Focus()

		return m, m.loadCmd()

	case expenseDeletedMsg:
		if msg.err != nil {
			m.status = fmt.Sprintf("Error deleting: %v", msg.err)
			return m, nil
		}

		m.status = "Deleted."
		if msg.skipped {
			m.status = "Deleted. The recurring bill will not be re-posted this cycle."
		}

		return m, m.loadCmd()

	case tea.WindowSizeMsg:
		m.table.SetHeight(msg.Height - 10)
		return m, nil
	}

	switch m.state {
	case expensesStateBrowse:
		return m.updateBrowse(msg)
	case expensesStateEdit, expensesStateAdd:
		return m.updateForm(msg)
	}

	return m, nil
}

func (m ExpensesModel) updateBrowse(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if ok {
		switch keyMsg.String() {
		case "esc":
			return m, Back
		case "r":
			m.loading = true
			return m, m.loadCmd()
		case "a":
			return m.enterAddMode()
		case "e":
			return m.enterEditMode()
		case "x":
			return m, m.deleteCmd()
		case "[":
			m.month = shiftMonth(m.month, -1)
			m.loading = true

			return m, m.loadCmd()
		case "]":
			m.month = shiftMonth(m.month, 1)
			m.loading = true

			return m, m.loadCmd()
		}
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)

	return m, cmd
}

func shiftMonth(month string, months int) string {
	t, err := schedule.ParseMonthKey(month)
	if err != nil {
		return month
	}

	return schedule.MonthKey(t.AddDate(0, months, 0))
}

func (m ExpensesModel) expenseForm() *huh.Form {
	categoryOptions := make([]huh.Option[string], 0, len(expense.Categories()))
	for _, c := range expense.Categories() {
		categoryOptions = append(categoryOptions, huh.NewOption(string(c), string(c)))
	}

	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Key("amount").
				Title("Amount").
				Value(&m.formAmount).
				Validate(validateAmount),

			huh.NewSelect[string]().
				Key("category").
				Title("Category").
				Options(categoryOptions...).
				Value(&m.formCategory),

			huh.NewInput().
				Key("note").
				Title("Note").
				Value(&m.formNote),

			huh.NewInput().
				Key("date").
				Title("Date").
				Placeholder("YYYY-MM-DD").
				Value(&m.formDate).
				Validate(validateDate),
		),
	).WithWidth(45).WithShowHelp(false)
}

func validateAmount(s string) error {
	cents, err := parseAmountInput(s)
	if err != nil {
		return err
	}

	if cents <= 0 {
		return fmt.Errorf("amount must be positive")
	}

	return nil
}

func validateDate(s string) error {
	if _, err := time.Parse(time.DateOnly, strings.TrimSpace(s)); err != nil {
		return fmt.Errorf("use YYYY-MM-DD")
	}

	return nil
}

func (m ExpensesModel) enterAddMode() (tea.Model, tea.Cmd) {
	m.formAmount = ""
	m.formCategory = string(expense.CategoryOther)
	m.formNote = ""
	m.formDate = FormatDate(time.Now())

	m.form = m.expenseForm()
	m.state = expensesStateAdd
	m.table.Blur()

	return m, m.form.Init()
}

func (m ExpensesModel) enterEditMode() (tea.Model, tea.Cmd) {
	idx := m.table.Cursor()
	if idx < 0 || idx >= len(m.expenses) {
		return m, nil
	}

	e := m.expenses[idx]
	m.formAmount = FormatAmount(e.AmountCents)
	m.formCategory = string(e.Category)
	m.formNote = e.Note
	m.formDate = FormatDate(e.Date)

	m.form = m.expenseForm()
	m.state = expensesStateEdit
	m.table.Blur()

	return m, m.form.Init()
}

func (m ExpensesModel) updateForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		if keyMsg.Type == tea.KeyEsc {
			m.state = expensesStateBrowse
			m.form = nil
			m.table.Focus()

			return m, nil
		}
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State != huh.StateCompleted {
		return m, cmd
	}

	if m.state == expensesStateAdd {
		return m, m.createCmd()
	}

	return m, m.saveCmd()
}

func (m ExpensesModel) View() string {
	if m.loading {
		return lipgloss.NewStyle().Padding(2).Render("Loading expenses...")
	}

	if m.err != nil {
		return lipgloss.NewStyle().Padding(2).Render(fmt.Sprintf("Error: %v", m.err))
	}

	header := fmt.Sprintf("%s  |  Total: %s (%d entries)",
		activeStyle(FormatMonth(m.month)),
		m.summaryTotal(), m.summaryCount(),
	)

	tableView := lipgloss.NewStyle().
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		Render(m.table.View())

	content := lipgloss.JoinVertical(lipgloss.Left,
		lipgloss.NewStyle().PaddingBottom(1).Render(header),
		tableView,
	)

	if m.state != expensesStateBrowse && m.form != nil {
		title := "Edit Expense"
		if m.state == expensesStateAdd {
			title = "Add Expense"
		}

		panel := lipgloss.NewStyle().
			Padding(1, 2).
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("63")).
			Width(48).
			Render(fmt.Sprintf("%s\n\n%s", title, m.form.View()))

		content = lipgloss.JoinHorizontal(lipgloss.Top, content, panel)
	}

	if m.status != "" {
		content = lipgloss.NewStyle().Faint(true).Render(m.status) + "\n" + content
	}

	return lipgloss.NewStyle().Padding(1).Render(content)
}

func (m ExpensesModel) summaryTotal() string {
	if m.summary == nil {
		return FormatAmount(0)
	}

	return FormatAmount(m.summary.TotalCents)
}

func (m ExpensesModel) summaryCount() int {
	if m.summary == nil {
		return 0
	}

	return m.summary.Count
}

func activeStyle(s string) string {
	return lipgloss.NewStyle().Foreground(lipgloss.Color("205")).Render(s)
}

func (m *ExpensesModel) refreshTable() {
	rows := make([]table.Row, 0, len(m.expenses))

	for _, e := range m.expenses {
		origin := ""
		if e.Recurring {
			origin = "recurring"
		} else if e.Fingerprint != "" {
			origin = "imported"
		}

		rows = append(rows, table.Row{
			FormatDate(e.Date),
			string(e.Category),
			FormatAmount(e.AmountCents),
			e.Note,
			origin,
		})
	}

	m.table.SetRows(rows)
}

// Messages

type loadExpensesMsg struct {
	expenses []*expense.Expense
	summary  *expense.Summary
	err      error
}

func (m ExpensesModel) loadCmd() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		expenses, err := m.svc.ListByMonth(ctx, m.userID, m.month)
		if err != nil {
			return loadExpensesMsg{err: err}
		}

		summary, err := m.svc.GetSummary(ctx, m.userID, m.month)
		if err != nil {
			return loadExpensesMsg{err: err}
		}

		return loadExpensesMsg{expenses: expenses, summary: summary}
	}
}

type expenseSavedMsg struct {
	err error
}

func (m ExpensesModel) createCmd() tea.Cmd {
	amount := m.formAmount
	category := m.formCategory
	note := m.formNote
	dateStr := m.formDate

	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		cents, err := parseAmountInput(amount)
		if err != nil {
			return expenseSavedMsg{err: err}
		}

		date, err := time.Parse(time.DateOnly, strings.TrimSpace(dateStr))
		if err != nil {
			return expenseSavedMsg{err: err}
		}

		_, err = m.svc.Create(ctx, m.userID, expense.CreateParams{
			AmountCents: cents,
			Category:    expense.ParseCategory(category),
			Note:        note,
			Date:        date,
		})

		return expenseSavedMsg{err: err}
	}
}

func (m ExpensesModel) saveCmd() tea.Cmd {
	idx := m.table.Cursor()
	if idx < 0 || idx >= len(m.expenses) {
		return nil
	}

	e := m.expenses[idx]
	amount := m.formAmount
	category := m.formCategory
	note := m.formNote
	dateStr := m.formDate

	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		cents, err := parseAmountInput(amount)
		if err != nil {
			return expenseSavedMsg{err: err}
		}

		date, err := time.Parse(time.DateOnly, strings.TrimSpace(dateStr))
		if err != nil {
			return expenseSavedMsg{err: err}
		}

		e.AmountCents = cents
		e.Category = expense.ParseCategory(category)
		e.Note = note
		e.Date = date

		return expenseSavedMsg{err: m.svc.Update(ctx, e)}
	}
}

type expenseDeletedMsg struct {
	skipped bool
	err     error
}

func (m ExpensesModel) deleteCmd() tea.Cmd {
	idx := m.table.Cursor()
	if idx < 0 || idx >= len(m.expenses) {
		return nil
	}

	e := m.expenses[idx]

	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		deleted, err := m.svc.Delete(ctx, m.userID, e.ID)
		if err != nil {
			return expenseDeletedMsg{err: err}
		}

		// A deleted occurrence gets a skip marker so auto-posting does
		// not bring it straight back.
		if deleted.RuleID != nil && deleted.OccurrenceKey != "" {
			if err := m.recurringSvc.Skip(ctx, m.userID, *deleted.RuleID, deleted.Date); err != nil {
				return expenseDeletedMsg{err: err}
			}

			return expenseDeletedMsg{skipped: true}
		}

		return expenseDeletedMsg{}
	}
}
