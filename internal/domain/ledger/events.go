package ledger

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// TransactionCompleted is emitted after a deposit or withdrawal commits.
// Amount is signed: positive for deposits, negative for withdrawals.
type TransactionCompleted struct {
	TransactionID   string          `json:"transaction_id"`
	AccountID       int64           `json:"account_id"`
	AccountName     string          `json:"account_name"`
	Amount          decimal.Decimal `json:"amount"`
	Description     string          `json:"description"`
	PreviousBalance decimal.Decimal `json:"previous_balance"`
	CurrentBalance  decimal.Decimal `json:"current_balance"`
	OccurredAt      time.Time       `json:"occurred_at"`
}

// Publisher delivers committed-transaction events to interested consumers.
// Publishing is best-effort: the engine logs failures but never fails a
// committed transaction because of them.
type Publisher interface {
	Publish(ctx context.Context, event TransactionCompleted) error
}

// NopPublisher discards events. Used when no broker is configured.
type NopPublisher struct{}

func (NopPublisher) Publish(ctx context.Context, event TransactionCompleted) error {
	return nil
}
