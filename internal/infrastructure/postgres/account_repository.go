package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"teller/internal/domain/account"
)

// uniqueViolation is the postgres error code for a unique constraint hit.
const uniqueViolation = "23505"

// AccountRepository implements account.Repository for PostgreSQL
type AccountRepository struct {
	db *DB
}

// NewAccountRepository creates a new PostgreSQL account repository
func NewAccountRepository(db *DB) *AccountRepository {
	return &AccountRepository{db: db}
}

var _ account.Repository = (*AccountRepository)(nil)

// Create opens a new account
func (r *AccountRepository) Create(ctx context.Context, params account.CreateParams) (*account.Account, error) {
	query := `
		INSERT INTO accounts (name, balance)
		VALUES ($1, $2)
		RETURNING id, name, balance, created_at
	`

	var acct account.Account
	err := r.db.QueryRowContext(ctx, query, params.Name, params.InitialBalance).Scan(
		&acct.ID, &acct.Name, &acct.Balance, &acct.CreatedAt,
	)

	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
		return nil, fmt.Errorf("create account %q: %w", params.Name, account.ErrDuplicateAccount)
	}
	if err != nil {
		return nil, fmt.Errorf("create account %q: %w: %w", params.Name, account.ErrStorage, err)
	}

	return &acct, nil
}

// GetByName retrieves an account by its unique name
func (r *AccountRepository) GetByName(ctx context.Context, name string) (*account.Account, error) {
	query := `SELECT id, name, balance, created_at FROM accounts WHERE name = $1`

	var acct account.Account
	err := r.db.QueryRowContext(ctx, query, name).Scan(
		&acct.ID, &acct.Name, &acct.Balance, &acct.CreatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("account %q: %w", name, account.ErrAccountNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get account %q: %w: %w", name, account.ErrStorage, err)
	}

	return &acct, nil
}

// GetByID retrieves an account by ID
func (r *AccountRepository) GetByID(ctx context.Context, id int64) (*account.Account, error) {
	query := `SELECT id, name, balance, created_at FROM accounts WHERE id = $1`

	var acct account.Account
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&acct.ID, &acct.Name, &acct.Balance, &acct.CreatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("account %d: %w", id, account.ErrAccountNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get account %d: %w: %w", id, account.ErrStorage, err)
	}

	return &acct, nil
}

// List returns all accounts in creation order
func (r *AccountRepository) List(ctx context.Context) ([]*account.Account, error) {
	query := `SELECT id, name, balance, created_at FROM accounts ORDER BY created_at, id`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list accounts: %w: %w", account.ErrStorage, err)
	}
	defer rows.Close()

	var accounts []*account.Account
	for rows.Next() {
		var acct account.Account
		if err := rows.Scan(&acct.ID, &acct.Name, &acct.Balance, &acct.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan account: %w: %w", account.ErrStorage, err)
		}
		accounts = append(accounts, &acct)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list accounts: %w: %w", account.ErrStorage, err)
	}
	return accounts, nil
}
