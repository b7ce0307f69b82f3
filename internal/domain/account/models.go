package account

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Domain errors
var (
	ErrAccountNotFound  = errors.New("account not found")
	ErrDuplicateAccount = errors.New("account already exists")
	ErrInvalidAmount    = errors.New("invalid amount")
	ErrInvalidInput     = errors.New("invalid input")

	// ErrStorage marks infrastructure failures (connection loss, failed
	// commit, lock acquisition). The core never retries these; callers may.
	ErrStorage = errors.New("storage failure")
)

// Account is a client account. Names are unique and case-sensitive; the
// balance is mutated exclusively through the transaction engine and never
// goes negative.
type Account struct {
	ID        int64           `json:"id"`
	Name      string          `json:"name"`
	Balance   decimal.Decimal `json:"balance"`
	CreatedAt time.Time       `json:"createdAt"`
}

// CreateParams contains parameters for opening a new account
type CreateParams struct {
	Name           string
	InitialBalance decimal.Decimal
}

// Validate validates the create parameters
func (p CreateParams) Validate() error {
	if strings.TrimSpace(p.Name) == "" {
		return fmt.Errorf("%w: account name is required", ErrInvalidInput)
	}
	if p.InitialBalance.IsNegative() {
		return fmt.Errorf("%w: initial balance %s is negative", ErrInvalidAmount, p.InitialBalance)
	}
	return nil
}
