package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"teller/internal/domain/account"
	"teller/internal/domain/ledger"
)

// LedgerRepository implements ledger.Repository for PostgreSQL
type LedgerRepository struct {
	db *DB
}

// NewLedgerRepository creates a new PostgreSQL ledger repository
func NewLedgerRepository(db *DB) *LedgerRepository {
	return &LedgerRepository{db: db}
}

var _ ledger.Repository = (*LedgerRepository)(nil)

// GetEntry retrieves a ledger entry by ID
func (r *LedgerRepository) GetEntry(ctx context.Context, id int64) (*ledger.Entry, error) {
	query := `
		SELECT id, account_id, operation_date, description, previous_balance, current_balance
		FROM ledger_entries
		WHERE id = $1
	`

	var entry ledger.Entry
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&entry.ID, &entry.AccountID, &entry.OperationDate,
		&entry.Description, &entry.PreviousBalance, &entry.CurrentBalance,
	)

	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("entry %d: %w", id, ledger.ErrEntryNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get entry %d: %w: %w", id, account.ErrStorage, err)
	}

	return &entry, nil
}

// EntriesInRange returns the account's entries with operation_date inside
// the inclusive range, ascending by date with ties broken by ID.
func (r *LedgerRepository) EntriesInRange(ctx context.Context, accountID int64, since, till time.Time) ([]*ledger.Entry, error) {
	query := `
		SELECT id, account_id, operation_date, description, previous_balance, current_balance
		FROM ledger_entries
		WHERE account_id = $1 AND operation_date >= $2 AND operation_date <= $3
		ORDER BY operation_date, id
	`

	rows, err := r.db.QueryContext(ctx, query, accountID, since, till)
	if err != nil {
		return nil, fmt.Errorf("query entries for account %d: %w: %w", accountID, account.ErrStorage, err)
	}
	defer rows.Close()

	var entries []*ledger.Entry
	for rows.Next() {
		var entry ledger.Entry
		err := rows.Scan(
			&entry.ID, &entry.AccountID, &entry.OperationDate,
			&entry.Description, &entry.PreviousBalance, &entry.CurrentBalance,
		)
		if err != nil {
			return nil, fmt.Errorf("scan entry: %w: %w", account.ErrStorage, err)
		}
		entries = append(entries, &entry)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate entries: %w: %w", account.ErrStorage, err)
	}
	return entries, nil
}
