package ledger

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"teller/internal/domain/account"
)

// Repository defines read access to the ledger. Writes only happen inside a
// Unit so an entry can never be appended without its balance update.
type Repository interface {
	// GetEntry retrieves a single entry by ID. Returns ErrEntryNotFound
	// if no such entry exists.
	GetEntry(ctx context.Context, id int64) (*Entry, error)

	// EntriesInRange returns the account's entries with
	// since <= operation_date <= till, ascending by operation date, ties
	// broken by ID. Re-querying yields the same result unless new entries
	// were appended.
	EntriesInRange(ctx context.Context, accountID int64, since, till time.Time) ([]*Entry, error)
}

// Unit is the write surface of one atomic unit of work. The account lock
// taken by LockAccount is held until the enclosing unit commits or rolls
// back, serializing concurrent mutations of the same account.
type Unit interface {
	// LockAccount acquires the exclusive lock for the named account and
	// returns its current committed state. Returns
	// account.ErrAccountNotFound if the account does not exist.
	LockAccount(ctx context.Context, name string) (*account.Account, error)

	// UpdateBalance replaces the balance of an account locked in this unit
	UpdateBalance(ctx context.Context, accountID int64, balance decimal.Decimal) error

	// AppendEntry stages a ledger entry. ID and OperationDate are assigned
	// by the store and are only final once the unit commits.
	AppendEntry(ctx context.Context, params EntryParams) (*Entry, error)
}

// UnitOfWork executes a function inside one atomic unit: every write made
// through the Unit is committed iff fn returns nil, otherwise all of them
// are discarded and the account is left untouched.
type UnitOfWork interface {
	Execute(ctx context.Context, fn func(u Unit) error) error
}
