package account

import (
	"context"
	"fmt"
)

// Service contains the business logic for account operations
type Service struct {
	repo Repository
}

// NewService creates a new account service
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// CreateAccount opens a new account with business validation. The initial
// balance must be non-negative; it is recorded as-is with no ledger entry,
// so the first entry's previous balance always equals the initial balance.
func (s *Service) CreateAccount(ctx context.Context, params CreateParams) (*Account, error) {
	if err := params.Validate(); err != nil {
		return nil, fmt.Errorf("create account %q: %w", params.Name, err)
	}

	return s.repo.Create(ctx, params)
}

// GetAccount retrieves an account by name
func (s *Service) GetAccount(ctx context.Context, name string) (*Account, error) {
	if name == "" {
		return nil, fmt.Errorf("%w: account name is required", ErrInvalidInput)
	}

	return s.repo.GetByName(ctx, name)
}

// GetAccountByID retrieves an account by ID
func (s *Service) GetAccountByID(ctx context.Context, id int64) (*Account, error) {
	if id <= 0 {
		return nil, fmt.Errorf("%w: valid account ID is required", ErrInvalidInput)
	}

	return s.repo.GetByID(ctx, id)
}

// ListAccounts returns all accounts
func (s *Service) ListAccounts(ctx context.Context) ([]*Account, error) {
	return s.repo.List(ctx)
}
