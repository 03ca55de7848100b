package main

import (
	"fmt"
	"log/slog"
	"net/http"
	"os"

	"github.com/joho/godotenv"

	"github.com/finlens-dev/finlens/internal/config"
	"github.com/finlens-dev/finlens/internal/database"
	finlensHttp "github.com/finlens-dev/finlens/internal/http"
	uploadHandler "github.com/finlens-dev/finlens/internal/http/statementupload"
	"github.com/finlens-dev/finlens/internal/ledger"
	ledgerStore "github.com/finlens-dev/finlens/internal/ledger/store"
	"github.com/finlens-dev/finlens/internal/statement/registry"
)

func main() {
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

	var (
		parserRegistry = registry.New()
		ledgerService  = ledger.NewService(ledgerStore.New(db))
	)

	statementsH := uploadHandler.NewHandler(parserRegistry, ledgerService, cfg.Upload.MaxBytes)

	router := finlensHttp.New(statementsH)

	port := fmt.Sprintf(":%d", cfg.App.Port)
	slog.Info("starting server", "port", port, "banks", parserRegistry.Banks())

	if err := http.ListenAndServe(port, router); err != nil {
		slog.Error("server failed", "error", err)
		os.Exit(1)
	}
}
