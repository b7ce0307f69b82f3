package ledger

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"teller/internal/domain/account"
)

var (
	engineTracer = otel.Tracer("teller.ledger")
	engineMeter  = otel.Meter("teller.ledger")

	transactionsTotal = newTransactionsCounter()
)

// newTransactionsCounter creates the commit/reject counter. On failure the
// meter API still hands back a usable no-op instrument, so the error is
// logged rather than propagated.
func newTransactionsCounter() metric.Int64Counter {
	counter, err := engineMeter.Int64Counter("ledger.transactions.total",
		metric.WithDescription("Committed and rejected ledger transactions"),
	)
	if err != nil {
		log.Printf("Failed to create transactions counter: %v", err)
	}
	return counter
}

// Engine is the sole writer path into the account and ledger stores. Each
// deposit or withdrawal runs as one atomic unit: lock the account row,
// validate, mutate the balance, append the ledger entry, commit. Two
// concurrent calls against the same account never interleave; calls against
// different accounts never block each other.
type Engine struct {
	units     UnitOfWork
	publisher Publisher
}

// NewEngine creates a transaction engine. Pass NopPublisher{} when no event
// broker is configured.
func NewEngine(units UnitOfWork, publisher Publisher) *Engine {
	if publisher == nil {
		publisher = NopPublisher{}
	}
	return &Engine{units: units, publisher: publisher}
}

// Deposit adds amount to the named account and appends a ledger entry
// capturing the balance before and after. Returns the new balance.
func (e *Engine) Deposit(ctx context.Context, name string, amount decimal.Decimal, description string) (decimal.Decimal, error) {
	return e.apply(ctx, "deposit", name, amount, description)
}

// Withdraw removes amount from the named account. Fails with
// ErrInsufficientFunds before any mutation if the balance would go
// negative.
func (e *Engine) Withdraw(ctx context.Context, name string, amount decimal.Decimal, description string) (decimal.Decimal, error) {
	return e.apply(ctx, "withdraw", name, amount, description)
}

// apply runs one balance mutation as an atomic unit. On any failure after
// the unit opens, the unit rolls back and the account and ledger are left
// exactly as before the call.
func (e *Engine) apply(ctx context.Context, operation, name string, amount decimal.Decimal, description string) (decimal.Decimal, error) {
	ctx, span := engineTracer.Start(ctx, "ledger."+operation,
		trace.WithAttributes(
			attribute.String("ledger.operation", operation),
			attribute.String("ledger.account", name),
		))
	defer span.End()

	// Validation happens before the unit opens so rejected calls leave
	// zero side effects, not even a started transaction.
	if amount.Sign() <= 0 {
		return decimal.Zero, e.reject(ctx, span, operation,
			fmt.Errorf("%s of %s to %q: %w", operation, amount, name, account.ErrInvalidAmount))
	}
	if strings.TrimSpace(description) == "" {
		return decimal.Zero, e.reject(ctx, span, operation,
			fmt.Errorf("%s to %q: %w", operation, name, ErrInvalidDescription))
	}

	signed := amount
	if operation == "withdraw" {
		signed = amount.Neg()
	}

	var entry *Entry
	var acctID int64

	err := e.units.Execute(ctx, func(u Unit) error {
		acct, err := u.LockAccount(ctx, name)
		if err != nil {
			return err
		}
		acctID = acct.ID

		previous := acct.Balance
		current := previous.Add(signed)
		if current.IsNegative() {
			return fmt.Errorf("withdraw of %s from %q (balance %s): %w",
				amount, name, previous, ErrInsufficientFunds)
		}

		if err := u.UpdateBalance(ctx, acct.ID, current); err != nil {
			return err
		}

		entry, err = u.AppendEntry(ctx, EntryParams{
			AccountID:       acct.ID,
			Description:     description,
			PreviousBalance: previous,
			CurrentBalance:  current,
		})
		return err
	})
	if err != nil {
		return decimal.Zero, e.reject(ctx, span, operation, err)
	}

	transactionsTotal.Add(ctx, 1, metric.WithAttributes(
		attribute.String("operation", operation),
		attribute.String("status", "committed"),
	))
	e.publish(ctx, acctID, name, entry)

	return entry.CurrentBalance, nil
}

// publish emits the committed-transaction event. Failures are logged and
// swallowed: the transaction has already committed.
func (e *Engine) publish(ctx context.Context, accountID int64, name string, entry *Entry) {
	event := TransactionCompleted{
		TransactionID:   uuid.New().String(),
		AccountID:       accountID,
		AccountName:     name,
		Amount:          entry.Delta(),
		Description:     entry.Description,
		PreviousBalance: entry.PreviousBalance,
		CurrentBalance:  entry.CurrentBalance,
		OccurredAt:      entry.OperationDate,
	}
	if err := e.publisher.Publish(ctx, event); err != nil {
		log.Printf("Failed to publish transaction event for account %q: %v", name, err)
	}
}

func (e *Engine) reject(ctx context.Context, span trace.Span, operation string, err error) error {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	transactionsTotal.Add(ctx, 1, metric.WithAttributes(
		attribute.String("operation", operation),
		attribute.String("status", "rejected"),
	))
	return err
}
