package main

import (
	"context"
	"log"

	"teller/internal/domain/account"
	"teller/internal/domain/ledger"
	"teller/internal/infrastructure/events/kafka"
	"teller/internal/infrastructure/memory"
	"teller/internal/infrastructure/postgres"
	httphandlers "teller/internal/interfaces/http"
	"teller/internal/shared/config"
)

// Dependencies holds all initialized application components.
type Dependencies struct {
	DB        *postgres.DB
	Publisher *kafka.Publisher

	AccountHandler     *httphandlers.AccountHandler
	TransactionHandler *httphandlers.TransactionHandler
	StatementHandler   *httphandlers.StatementHandler
}

// NewDependencies wires the storage backend, the engine, and the handlers.
// Postgres when DB_ENABLED=true, otherwise the in-memory store.
func NewDependencies(ctx context.Context, cfg *config.Config) (*Dependencies, error) {
	deps := &Dependencies{}

	var accountRepo account.Repository
	var ledgerRepo ledger.Repository
	var units ledger.UnitOfWork

	if cfg.Database.Enabled {
		db, err := postgres.New(cfg.Database.ConnectionString())
		if err != nil {
			return nil, err
		}
		if err := postgres.Bootstrap(ctx, db); err != nil {
			db.Close()
			return nil, err
		}
		log.Println("Connected to database")

		deps.DB = db
		accountRepo = postgres.NewAccountRepository(db)
		ledgerRepo = postgres.NewLedgerRepository(db)
		units = postgres.NewTxRunner(db)
	} else {
		log.Println("Using in-memory store (set DB_ENABLED=true for postgres)")
		store := memory.NewStore()
		accountRepo = store
		ledgerRepo = store
		units = store
	}

	var publisher ledger.Publisher = ledger.NopPublisher{}
	if cfg.Kafka.Enabled {
		deps.Publisher = kafka.NewPublisher(cfg.Kafka.Brokers, cfg.Kafka.Topic)
		publisher = deps.Publisher
		log.Printf("Publishing transaction events to %v topic %q", cfg.Kafka.Brokers, cfg.Kafka.Topic)
	}

	accountService := account.NewService(accountRepo)
	engine := ledger.NewEngine(units, publisher)
	reader := ledger.NewReader(accountRepo, ledgerRepo)

	deps.AccountHandler = httphandlers.NewAccountHandler(accountService)
	deps.TransactionHandler = httphandlers.NewTransactionHandler(engine)
	deps.StatementHandler = httphandlers.NewStatementHandler(reader)

	return deps, nil
}

// Close releases external resources.
func (d *Dependencies) Close() {
	if d.Publisher != nil {
		if err := d.Publisher.Close(); err != nil {
			log.Printf("Error closing kafka publisher: %v", err)
		}
	}
	if d.DB != nil {
		if err := d.DB.Close(); err != nil {
			log.Printf("Error closing database: %v", err)
		}
	}
}
