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

type rulesState int

const (
	rulesStateBrowse rulesState = iota
	rulesStateAdd
	rulesStateEdit
)

type RulesModel struct {
	CommonModel
	svc    *recurring.Service
	userID uuid.UUID

	state rulesState
	table table.Model
	rules []*recurring.Rule
	form  *huh.Form

	loading bool
	err     error
	status  string

	// Form bindings
	formAmount    string
	formCategory  string
	formNote      string
	formCadence   string
	formStartDate string
}

func NewRulesModel(svc *recurring.Service, userID uuid.UUID) RulesModel {
	columns := []table.Column{
		{Title: "Note", Width: 30},
		{Title: "Amount", Width: 10},
		{Title: "Category", Width: 15},
		{Title: "Cadence", Width: 10},
		{Title: "Anchor", Width: 12},
		{Title: "Active", Width: 8},
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

	return RulesModel{
		svc:    svc,
		userID: userID,
		table:  t,
	}
}

func (m RulesModel) Title() string { return "Recurring Bills" }

func (m RulesModel) ShortHelp() string {
	if m.state != rulesStateBrowse {
		return "Navigate form | Esc: cancel"
	}

	return "Esc: back | a: add | e: edit | t: toggle | x: delete | p: post due | r: refresh"
}

func (m RulesModel) Init() tea.Cmd {
	return m.loadCmd()
}

func (m RulesModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case loadRulesMsg:
		m.loading = false
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}

		m.err = nil
		m.rules = msg.rules
		m.refreshTable()

		return m, nil

	case ruleSavedMsg:
		if msg.err != nil {
			m.status = fmt.Sprintf("Error saving: %v", msg.err)
		} else {
			m.status = ""
		}

		m.state = rulesStateBrowse
		m.form = nil
		m.table.Focus()

		return m, m.loadCmd()

	case ruleDeletedMsg:
		if msg.err != nil {
			m.status = fmt.Sprintf("Error deleting: %v", msg.err)
			return m, nil
		}

		m.status = fmt.Sprintf("Deleted rule and %d future occurrences.", msg.removedOccurrences)

		return m, m.loadCmd()

	case autoPostDoneMsg:
		if msg.err != nil {
			m.status = fmt.Sprintf("Posted %d entries; some failed: %v", msg.created, msg.err)
		} else {
			m.status = fmt.Sprintf("Posted %d due entries for %s.", msg.created, FormatMonth(msg.month))
		}

		return m, nil

	case tea.WindowSizeMsg:
		m.table.SetHeight(msg.Height - 10)
		return m, nil
	}

	switch m.state {
	case rulesStateBrowse:
		return m.updateBrowse(msg)
	case rulesStateAdd, rulesStateEdit:
		return m.updateForm(msg)
	}

	return m, nil
}

func (m RulesModel) updateBrowse(msg tea.Msg) (tea.Model, tea.Cmd) {
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
		case "t":
			return m, m.toggleCmd()
		case "x":
			return m, m.deleteCmd()
		case "p":
			return m, m.autoPostCmd()
		}
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)

	return m, cmd
}

func (m RulesModel) ruleForm() *huh.Form {
	categoryOptions := make([]huh.Option[string], 0, len(expense.Categories()))
	for _, c := range expense.Categories() {
		categoryOptions = append(categoryOptions, huh.NewOption(string(c), string(c)))
	}

	cadenceOptions := []huh.Option[string]{
		huh.NewOption("monthly", string(schedule.CadenceMonthly)),
		huh.NewOption("weekly", string(schedule.CadenceWeekly)),
		huh.NewOption("daily", string(schedule.CadenceDaily)),
		huh.NewOption("yearly", string(schedule.CadenceYearly)),
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

			huh.NewSelect[string]().
				Key("cadence").
				Title("Cadence").
				Options(cadenceOptions...).
				Value(&m.formCadence),

			huh.NewInput().
				Key("start_date").
				Title("Start date").
				Placeholder("YYYY-MM-DD").
				Value(&m.formStartDate).
				Validate(validateDate),
		),
	).WithWidth(45).WithShowHelp(false)
}

func (m RulesModel) enterAddMode() (tea.Model, tea.Cmd) {
	m.formAmount = ""
	m.formCategory = string(expense.CategoryOther)
	m.formNote = ""
	m.formCadence = string(schedule.CadenceMonthly)
	m.formStartDate = FormatDate(time.Now())

	m.form = m.ruleForm()
	m.state = rulesStateAdd
	m.table.Blur()

	return m, m.form.Init()
}

func (m RulesModel) enterEditMode() (tea.Model, tea.Cmd) {
	idx := m.table.Cursor()
	if idx < 0 || idx >= len(m.rules) {
		return m, nil
	}

	r := m.rules[idx]
	m.formAmount = FormatAmount(r.AmountCents)
	m.formCategory = string(r.Category)
	m.formNote = r.Note
	m.formCadence = string(r.Cadence)
	m.formStartDate = FormatDate(r.StartDate)

	m.form = m.ruleForm()
	m.state = rulesStateEdit
	m.table.Blur()

	return m, m.form.Init()
}

func (m RulesModel) updateForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		if keyMsg.Type == tea.KeyEsc {
			m.state = rulesStateBrowse
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

	if m.state == rulesStateAdd {
		return m, m.createCmd()
	}

	return m, m.saveCmd()
}

func (m RulesModel) View() string {
	if m.loading {
		return lipgloss.NewStyle().Padding(2).Render("Loading recurring bills...")
	}

	if m.err != nil {
		return lipgloss.NewStyle().Padding(2).Render(fmt.Sprintf("Error: %v", m.err))
	}

	tableView := lipgloss.NewStyle().
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		Render(m.table.View())

	content := tableView

	if m.state != rulesStateBrowse && m.form != nil {
		title := "Edit Recurring Bill"
		if m.state == rulesStateAdd {
			title = "Add Recurring Bill"
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

func (m *RulesModel) refreshTable() {
	rows := make([]table.Row, 0, len(m.rules))

	for _, r := range m.rules {
		active := "no"
		if r.Active {
			active = "yes"
		}

		rows = append(rows, table.Row{
			r.Note,
			FormatAmount(r.AmountCents),
			string(r.Category),
			string(r.Cadence),
			FormatDate(r.StartDate),
			active,
		})
	}

	m.table.SetRows(rows)
}

// Messages

type loadRulesMsg struct {
	rules []*recurring.Rule
	err   error
}

func (m RulesModel) loadCmd() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		rules, err := m.svc.List(ctx, m.userID)

		return loadRulesMsg{rules: rules, err: err}
	}
}

type ruleSavedMsg struct {
	err error
}

func (m RulesModel) createCmd() tea.Cmd {
	amount := m.formAmount
	category := m.formCategory
	note := m.formNote
	cadence := m.formCadence
	startDate := m.formStartDate

	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		cents, err := parseAmountInput(amount)
		if err != nil {
			return ruleSavedMsg{err: err}
		}

		start, err := time.Parse(time.DateOnly, strings.TrimSpace(startDate))
		if err != nil {
			return ruleSavedMsg{err: err}
		}

		_, err = m.svc.Create(ctx, m.userID, recurring.CreateParams{
			AmountCents: cents,
			Category:    expense.ParseCategory(category),
			Note:        note,
			Cadence:     schedule.ParseCadence(cadence),
			StartDate:   start,
			Active:      true,
		})

		return ruleSavedMsg{err: err}
	}
}

func (m RulesModel) saveCmd() tea.Cmd {
	idx := m.table.Cursor()
	if idx < 0 || idx >= len(m.rules) {
		return nil
	}

	r := m.rules[idx]
	amount := m.formAmount
	category := m.formCategory
	note := m.formNote
	cadence := m.formCadence
	startDate := m.formStartDate

	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		cents, err := parseAmountInput(amount)
		if err != nil {
			return ruleSavedMsg{err: err}
		}

		start, err := time.Parse(time.DateOnly, strings.TrimSpace(startDate))
		if err != nil {
			return ruleSavedMsg{err: err}
		}

		r.AmountCents = cents
		r.Category = expense.ParseCategory(category)
		r.Note = note
		r.Cadence = schedule.ParseCadence(cadence)
		r.StartDate = start

		return ruleSavedMsg{err: m.svc.Update(ctx, r)}
	}
}

func (m RulesModel) toggleCmd() tea.Cmd {
	idx := m.table.Cursor()
	if idx < 0 || idx >= len(m.rules) {
		return nil
	}

	r := m.rules[idx]

	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		return ruleSavedMsg{err: m.svc.SetActive(ctx, m.userID, r.ID, !r.Active)}
	}
}

type ruleDeletedMsg struct {
	removedOccurrences int
	err                error
}

func (m RulesModel) deleteCmd() tea.Cmd {
	idx := m.table.Cursor()
	if idx < 0 || idx >= len(m.rules) {
		return nil
	}

	r := m.rules[idx]

	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		result, err := m.svc.Delete(ctx, m.userID, r.ID, time.Now().UTC())
		if err != nil {
			return ruleDeletedMsg{err: err}
		}

		return ruleDeletedMsg{removedOccurrences: result.DeletedFutureOccurrences}
	}
}

type autoPostDoneMsg struct {
	month   string
	created int
	err     error
}

func (m RulesModel) autoPostCmd() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		now := time.Now().UTC()
		month := schedule.MonthKey(now)

		created, err := m.svc.AutoPost(ctx, m.userID, month, now)

		return autoPostDoneMsg{month: month, created: created, err: err}
	}
}
