package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/shopspring/decimal"

	"teller/internal/domain/account"
	"teller/internal/domain/ledger"
)

// TxRunner implements ledger.UnitOfWork on a database transaction. The
// SELECT ... FOR UPDATE in LockAccount holds the row lock until COMMIT or
// ROLLBACK, which is exactly the lock scope the engine requires.
type TxRunner struct {
	db *DB
}

// NewTxRunner creates a unit-of-work runner over the given pool
func NewTxRunner(db *DB) *TxRunner {
	return &TxRunner{db: db}
}

var _ ledger.UnitOfWork = (*TxRunner)(nil)

// Execute runs fn inside a database transaction, committing iff fn returns
// nil. A cancelled context rolls the transaction back cleanly.
func (t *TxRunner) Execute(ctx context.Context, fn func(u ledger.Unit) error) error {
	tx, err := t.db.BeginTx(ctx, &sql.TxOptions{Isolation: sql.LevelReadCommitted})
	if err != nil {
		return fmt.Errorf("begin unit: %w: %w", account.ErrStorage, err)
	}

	if err := fn(&txUnit{tx: tx}); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil && rbErr != sql.ErrTxDone {
			return fmt.Errorf("rollback after %v: %w: %w", err, account.ErrStorage, rbErr)
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit unit: %w: %w", account.ErrStorage, err)
	}
	return nil
}

// txUnit is the write surface of one open transaction.
type txUnit struct {
	tx *sql.Tx
}

// LockAccount takes the exclusive row lock for the named account. A
// concurrent unit holding the lock blocks this call until it commits or
// rolls back; the balance read here is always the post-commit one.
func (u *txUnit) LockAccount(ctx context.Context, name string) (*account.Account, error) {
	query := `SELECT id, name, balance, created_at FROM accounts WHERE name = $1 FOR UPDATE`

	var acct account.Account
	err := u.tx.QueryRowContext(ctx, query, name).Scan(
		&acct.ID, &acct.Name, &acct.Balance, &acct.CreatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("account %q: %w", name, account.ErrAccountNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("lock account %q: %w: %w", name, account.ErrStorage, err)
	}

	return &acct, nil
}

// UpdateBalance replaces the balance of an account locked in this unit
func (u *txUnit) UpdateBalance(ctx context.Context, accountID int64, balance decimal.Decimal) error {
	query := `UPDATE accounts SET balance = $1 WHERE id = $2`

	result, err := u.tx.ExecContext(ctx, query, balance, accountID)
	if err != nil {
		return fmt.Errorf("update balance of account %d: %w: %w", accountID, account.ErrStorage, err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("update balance of account %d: %w: %w", accountID, account.ErrStorage, err)
	}
	if rows == 0 {
		return fmt.Errorf("account %d: %w", accountID, account.ErrAccountNotFound)
	}
	return nil
}

// AppendEntry inserts a ledger entry inside the transaction. The ID comes
// from the sequence and the timestamp from clock_timestamp() at insert
// time, after the row lock was acquired, so per-account entries are
// chronologically ordered by (operation_date, id).
func (u *txUnit) AppendEntry(ctx context.Context, params ledger.EntryParams) (*ledger.Entry, error) {
	query := `
		INSERT INTO ledger_entries (account_id, description, previous_balance, current_balance)
		VALUES ($1, $2, $3, $4)
		RETURNING id, account_id, operation_date, description, previous_balance, current_balance
	`

	var entry ledger.Entry
	err := u.tx.QueryRowContext(ctx, query,
		params.AccountID, params.Description, params.PreviousBalance, params.CurrentBalance,
	).Scan(
		&entry.ID, &entry.AccountID, &entry.OperationDate,
		&entry.Description, &entry.PreviousBalance, &entry.CurrentBalance,
	)
	if err != nil {
		return nil, fmt.Errorf("append entry for account %d: %w: %w", params.AccountID, account.ErrStorage, err)
	}

	return &entry, nil
}
