package postgres

import (
	"context"
	"fmt"
)

// schemaStatements is the ledger DDL. operation_date defaults to
// clock_timestamp(), which is evaluated at insert time: now() is frozen at
// BEGIN, so a transaction that waited on the account row lock would stamp
// its entry before the transaction it waited for.
var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS accounts (
		id BIGSERIAL PRIMARY KEY,
		name TEXT NOT NULL UNIQUE,
		balance NUMERIC(20,4) NOT NULL CHECK (balance >= 0),
		created_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE TABLE IF NOT EXISTS ledger_entries (
		id BIGSERIAL PRIMARY KEY,
		account_id BIGINT NOT NULL REFERENCES accounts(id),
		operation_date TIMESTAMPTZ NOT NULL DEFAULT clock_timestamp(),
		description TEXT NOT NULL,
		previous_balance NUMERIC(20,4) NOT NULL,
		current_balance NUMERIC(20,4) NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_ledger_entries_account_date
		ON ledger_entries (account_id, operation_date, id)`,
}

// Bootstrap creates the ledger schema when it does not exist yet. The
// balance check constraint is the storage-level backstop for the
// no-negative-balance invariant; the engine enforces it first.
func Bootstrap(ctx context.Context, db *DB) error {
	for _, stmt := range schemaStatements {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to bootstrap schema: %w", err)
		}
	}
	return nil
}
