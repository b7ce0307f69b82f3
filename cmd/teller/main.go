package main

import (
	"context"
	"log"
	"os"

	"github.com/joho/godotenv"

	"teller/internal/domain/account"
	"teller/internal/domain/ledger"
	"teller/internal/infrastructure/memory"
	"teller/internal/infrastructure/postgres"
	"teller/internal/shared/config"
)

func main() {
	if err := run(); err != nil {
		log.Fatalf("Application error: %v", err)
	}
}

func run() error {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	ctx := context.Background()

	var accountRepo account.Repository
	var ledgerRepo ledger.Repository
	var units ledger.UnitOfWork

	if cfg.Database.Enabled {
		db, err := postgres.New(cfg.Database.ConnectionString())
		if err != nil {
			return err
		}
		defer db.Close()
		if err := postgres.Bootstrap(ctx, db); err != nil {
			return err
		}
		accountRepo = postgres.NewAccountRepository(db)
		ledgerRepo = postgres.NewLedgerRepository(db)
		units = postgres.NewTxRunner(db)
	} else {
		store := memory.NewStore()
		accountRepo = store
		ledgerRepo = store
		units = store
	}

	accounts := account.NewService(accountRepo)
	engine := ledger.NewEngine(units, ledger.NopPublisher{})
	reader := ledger.NewReader(accountRepo, ledgerRepo)

	shell := NewShell(accounts, engine, reader, os.Stdout)
	return shell.Run(ctx, os.Stdin)
}
