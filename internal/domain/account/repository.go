package account

import "context"

// Repository defines non-locking account data access. Exclusive row locks
// are deliberately absent here: they are only reachable through the ledger
// unit-of-work, so a lock can never outlive its transaction.
type Repository interface {
	// Create opens a new account. Returns ErrDuplicateAccount if the name
	// is already taken.
	Create(ctx context.Context, params CreateParams) (*Account, error)

	// GetByName retrieves an account by its unique name
	GetByName(ctx context.Context, name string) (*Account, error)

	// GetByID retrieves an account by its ID
	GetByID(ctx context.Context, id int64) (*Account, error)

	// List returns all accounts ordered by creation time
	List(ctx context.Context) ([]*Account, error)
}
