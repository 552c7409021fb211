package main

import (
	"fmt"
	"log/slog"
	"net/http"
	"os"

	"github.com/joho/godotenv"

	"github.com/billfold/billfold/internal/banksync"
	bankStore "github.com/billfold/billfold/internal/banksync/store"
	"github.com/billfold/billfold/internal/config"
	"github.com/billfold/billfold/internal/database"
	"github.com/billfold/billfold/internal/expense"
	expenseStore "github.com/billfold/billfold/internal/expense/store"
	billfoldHttp "github.com/billfold/billfold/internal/http"
	bankHandler "github.com/billfold/billfold/internal/http/banksync"
	expenseHandler "github.com/billfold/billfold/internal/http/expense"
	importHandler "github.com/billfold/billfold/internal/http/importstmt"
	matchingHandler "github.com/billfold/billfold/internal/http/matching"
	recurringHandler "github.com/billfold/billfold/internal/http/recurring"
	"github.com/billfold/billfold/internal/importer"
	"github.com/billfold/billfold/internal/importer/statement"
	"github.com/billfold/billfold/internal/matching"
	matchingStore "github.com/billfold/billfold/internal/matching/store"
	"github.com/billfold/billfold/internal/recurring"
	recurringStore "github.com/billfold/billfold/internal/recurring/store"
)

func main() {
	// Local development convenience; the file is optional.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	db, err := database.New(cfg.ConnectionString())
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	if err := database.Migrate(db, cfg.DB.MigrationsPath); err != nil {
		slog.Error("failed to run migrations", "error", err)
		os.Exit(1)
	}

	var (
		expenseService   = expense.NewService(expenseStore.New(db))
		recurringService = recurring.NewService(recurringStore.New(db), expenseService)
		matchingService  = matching.NewService(matchingStore.New(db))
		importService    = importer.NewService(statement.NewParser(), expenseService, matchingService)
		bankClient       = banksync.NewHTTPClient(cfg.Bank.BaseURL, cfg.Bank.ClientID, cfg.Bank.Secret)
		bankService      = banksync.NewService(bankClient, bankStore.New(db), expenseService)
	)

	var (
		expenseH   = expenseHandler.NewHandler(expenseService, recurringService)
		recurringH = recurringHandler.NewHandler(recurringService)
		importH    = importHandler.NewHandler(importService)
		matchingH  = matchingHandler.NewHandler(matchingService)
		bankH      = bankHandler.NewHandler(bankService)
	)

	router := billfoldHttp.New(cfg.Auth.JWTSecret, cfg.Server.AllowedOrigins,
		expenseH, recurringH, importH, matchingH, bankH)

	port := fmt.Sprintf(":%d", cfg.App.Port)
	slog.Info("starting server", "app", cfg.App.Name, "port", port)

	if err := http.ListenAndServe(port, router); err != nil {
		slog.Error("server failed", "error", err)
		os.Exit(1)
	}
}
