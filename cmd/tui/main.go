package main

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/google/uuid"
	"github.com/joho/godotenv"

	"github.com/billfold/billfold/cmd/tui/internal/view"
	"github.com/billfold/billfold/internal/config"
	"github.com/billfold/billfold/internal/database"
	"github.com/billfold/billfold/internal/expense"
	expenseStore "github.com/billfold/billfold/internal/expense/store"
	"github.com/billfold/billfold/internal/importer"
	"github.com/billfold/billfold/internal/importer/statement"
	"github.com/billfold/billfold/internal/matching"
	matchingStore "github.com/billfold/billfold/internal/matching/store"
	"github.com/billfold/billfold/internal/recurring"
	recurringStore "github.com/billfold/billfold/internal/recurring/store"
	"github.com/billfold/billfold/internal/schedule"
)

type model struct {
	expenseService   *expense.Service
	recurringService *recurring.Service
	matchingService  *matching.Service
	importService    *importer.Service
	userID           uuid.UUID

	currentView View
	startupNote string

	expensesView view.ExpensesModel
	upcomingView view.UpcomingModel
	rulesView    view.RulesModel
	importView   view.ImportModel
}

type View int

const (
	ViewMenu     View = 0
	ViewExpenses View = 1
	ViewUpcoming View = 2
	ViewRules    View = 3
	ViewImport   View = 4
)

func initialModel() model {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	userID, err := uuid.Parse(cfg.TUI.UserID)
	if err != nil {
		slog.Error("TUI_USER_ID must be a valid UUID", "error", err)
		os.Exit(1)
	}

	db, err := database.New(cfg.ConnectionString())
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}

	if err := database.Migrate(db, cfg.DB.MigrationsPath); err != nil {
		slog.Error("failed to run migrations", "error", err)
		os.Exit(1)
	}

	expenseSvc := expense.NewService(expenseStore.New(db))
	recurringSvc := recurring.NewService(recurringStore.New(db), expenseSvc)
	matchingSvc := matching.NewService(matchingStore.New(db))
	importSvc := importer.NewService(statement.NewParser(), expenseSvc, matchingSvc)

	return model{
		expenseService:   expenseSvc,
		recurringService: recurringSvc,
		matchingService:  matchingSvc,
		importService:    importSvc,
		userID:           userID,
		currentView:      ViewMenu,
		expensesView:     view.NewExpensesModel(expenseSvc, recurringSvc, userID),
		upcomingView:     view.NewUpcomingModel(recurringSvc, userID),
		rulesView:        view.NewRulesModel(recurringSvc, userID),
		importView:       view.NewImportModel(importSvc, userID),
	}
}

type startupPostMsg struct {
	created int
	err     error
}

// startupPostCmd posts any recurring bills due in the current month so
// the ledger is current before the user opens a view.
func (m model) startupPostCmd() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := view.DbCtx()
		defer cancel()

		now := time.Now().UTC()

		created, err := m.recurringService.AutoPost(ctx, m.userID, schedule.MonthKey(now), now)

		return startupPostMsg{created: created, err: err}
	}
}

func (m model) Init() tea.Cmd {
	return m.startupPostCmd()
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case startupPostMsg:
		if msg.err != nil {
			m.startupNote = fmt.Sprintf("Posted %d recurring bills; some failed: %v", msg.created, msg.err)
		} else if msg.created > 0 {
			m.startupNote = fmt.Sprintf("Posted %d recurring bills due this month.", msg.created)
		}

		return m, nil

	case tea.KeyMsg:
		if m.currentView == ViewMenu {
			switch msg.String() {
			case "ctrl+c", "q":
				return m, tea.Quit
			case "1":
				m.currentView = ViewExpenses
				m.expensesView = view.NewExpensesModel(m.expenseService, m.recurringService, m.userID)

				return m, m.expensesView.Init()
			case "2":
				m.currentView = ViewUpcoming
				m.upcomingView = view.NewUpcomingModel(m.recurringService, m.userID)

				return m, m.upcomingView.Init()
			case "3":
				m.currentView = ViewRules
				m.rulesView = view.NewRulesModel(m.recurringService, m.userID)

				return m, m.rulesView.Init()
			case "4":
				m.currentView = ViewImport
				m.importView = view.NewImportModel(m.importService, m.userID)

				return m, m.importView.Init()
			}
		}
	case view.BackMsg:
		m.currentView = ViewMenu
		return m, nil
	}

	switch m.currentView {
	case ViewExpenses:
		var newModel tea.Model
		newModel, cmd = m.expensesView.Update(msg)
		m.expensesView = newModel.(view.ExpensesModel)
	case ViewUpcoming:
		var newModel tea.Model
		newModel, cmd = m.upcomingView.Update(msg)
		m.upcomingView = newModel.(view.UpcomingModel)
	case ViewRules:
		var newModel tea.Model
		newModel, cmd = m.rulesView.Update(msg)
		m.rulesView = newModel.(view.RulesModel)
	case ViewImport:
		var newModel tea.Model
		newModel, cmd = m.importView.Update(msg)
		m.importView = newModel.(view.ImportModel)
	}

	return m, cmd
}

func (m model) View() string {
	switch m.currentView {
	case ViewMenu:
		menu := "Billfold\n\n" +
			"1. Expenses\n" +
			"2. Upcoming Bills\n" +
			"3. Recurring Rules\n" +
			"4. Import Statement\n\n" +
			"q. Quit"

		if m.startupNote != "" {
			menu += "\n\n" + lipgloss.NewStyle().Faint(true).Render(m.startupNote)
		}

		return lipgloss.NewStyle().Padding(2).Render(menu)
	case ViewExpenses:
		return m.expensesView.View()
	case ViewUpcoming:
		return m.upcomingView.View()
	case ViewRules:
		return m.rulesView.View()
	case ViewImport:
		return m.importView.View()
	}

	return "Unknown View"
}

func main() {
	p := tea.NewProgram(initialModel())
	if _, err := p.Run(); err != nil {
		slog.Error("failed to run TUI", "error", err)
		os.Exit(1)
	}
}
