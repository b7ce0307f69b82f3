package ledger

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

// Domain errors
var (
	ErrInvalidDescription = errors.New("description must not be empty")
	ErrInsufficientFunds  = errors.New("insufficient funds")
	ErrInvalidRange       = errors.New("invalid statement range")
	ErrEntryNotFound      = errors.New("ledger entry not found")
)

// Entry is one immutable ledger record. For any account the entries form a
// chain: each entry's PreviousBalance equals the CurrentBalance of the
// entry before it (or the initial balance for the first entry).
type Entry struct {
	ID              int64           `json:"id"`
	AccountID       int64           `json:"accountId"`
	OperationDate   time.Time       `json:"operationDate"`
	Description     string          `json:"description"`
	PreviousBalance decimal.Decimal `json:"previousBalance"`
	CurrentBalance  decimal.Decimal `json:"currentBalance"`
}

// Delta returns the signed amount this entry applied to the balance:
// positive for a deposit, negative for a withdrawal.
func (e *Entry) Delta() decimal.Decimal {
	return e.CurrentBalance.Sub(e.PreviousBalance)
}

// EntryParams contains the caller-supplied fields of a new entry. The store
// assigns ID and OperationDate at commit time.
type EntryParams struct {
	AccountID       int64
	Description     string
	PreviousBalance decimal.Decimal
	CurrentBalance  decimal.Decimal
}
