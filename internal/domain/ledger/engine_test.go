package ledger

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"teller/internal/domain/account"
)

// fakeUnit is a single-account write surface for engine tests.
type fakeUnit struct {
	account   *account.Account // nil means not found
	lockErr   error
	updateErr error
	appendErr error

	updatedBalance *decimal.Decimal
	appended       *EntryParams
}

func (u *fakeUnit) LockAccount(ctx context.Context, name string) (*account.Account, error) {
	if u.lockErr != nil {
		return nil, u.lockErr
	}
	if u.account == nil || u.account.Name != name {
		return nil, account.ErrAccountNotFound
	}
	copied := *u.account
	return &copied, nil
}

func (u *fakeUnit) UpdateBalance(ctx context.Context, accountID int64, balance decimal.Decimal) error {
	if u.updateErr != nil {
		return u.updateErr
	}
	u.updatedBalance = &balance
	return nil
}

func (u *fakeUnit) AppendEntry(ctx context.Context, params EntryParams) (*Entry, error) {
	if u.appendErr != nil {
		return nil, u.appendErr
	}
	u.appended = &params
	return &Entry{
		ID:              1,
		AccountID:       params.AccountID,
		OperationDate:   time.Now(),
		Description:     params.Description,
		PreviousBalance: params.PreviousBalance,
		CurrentBalance:  params.CurrentBalance,
	}, nil
}

// fakeUnitOfWork commits iff fn returns nil, like the real implementations.
type fakeUnitOfWork struct {
	unit      *fakeUnit
	executed  bool
	committed bool
}

func (f *fakeUnitOfWork) Execute(ctx context.Context, fn func(u Unit) error) error {
	f.executed = true
	if err := fn(f.unit); err != nil {
		return err
	}
	f.committed = true
	return nil
}

// capturePublisher records published events.
type capturePublisher struct {
	events []TransactionCompleted
	err    error
}

func (p *capturePublisher) Publish(ctx context.Context, event TransactionCompleted) error {
	if p.err != nil {
		return p.err
	}
	p.events = append(p.events, event)
	return nil
}

func aliceUnit(balance int64) *fakeUnit {
	return &fakeUnit{
		account: &account.Account{
			ID:      1,
			Name:    "Alice",
			Balance: decimal.NewFromInt(balance),
		},
	}
}

func TestTransactionsCounter(t *testing.T) {
	if transactionsTotal == nil {
		t.Fatal("transactions counter was not created")
	}
}

func TestDeposit(t *testing.T) {
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		uow := &fakeUnitOfWork{unit: aliceUnit(100)}
		pub := &capturePublisher{}
		engine := NewEngine(uow, pub)

		balance, err := engine.Deposit(ctx, "Alice", decimal.NewFromInt(50), "salary")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !balance.Equal(decimal.NewFromInt(150)) {
			t.Errorf("expected balance 150, got %s", balance)
		}
		if !uow.committed {
			t.Error("expected unit to commit")
		}
		if uow.unit.appended == nil {
			t.Fatal("expected a ledger entry")
		}
		if !uow.unit.appended.PreviousBalance.Equal(decimal.NewFromInt(100)) ||
			!uow.unit.appended.CurrentBalance.Equal(decimal.NewFromInt(150)) {
			t.Errorf("expected entry 100 -> 150, got %s -> %s",
				uow.unit.appended.PreviousBalance, uow.unit.appended.CurrentBalance)
		}
		if len(pub.events) != 1 {
			t.Fatalf("expected 1 event, got %d", len(pub.events))
		}
		if !pub.events[0].Amount.Equal(decimal.NewFromInt(50)) {
			t.Errorf("expected event amount 50, got %s", pub.events[0].Amount)
		}
	})

	t.Run("Zero amount rejected before unit opens", func(t *testing.T) {
		uow := &fakeUnitOfWork{unit: aliceUnit(100)}
		pub := &capturePublisher{}
		engine := NewEngine(uow, pub)

		_, err := engine.Deposit(ctx, "Alice", decimal.Zero, "nothing")
		if !errors.Is(err, account.ErrInvalidAmount) {
			t.Fatalf("expected ErrInvalidAmount, got %v", err)
		}
		if uow.executed {
			t.Error("unit must not open for a rejected amount")
		}
		if len(pub.events) != 0 {
			t.Error("no event may be published on rejection")
		}
	})

	t.Run("Negative amount rejected", func(t *testing.T) {
		uow := &fakeUnitOfWork{unit: aliceUnit(100)}
		engine := NewEngine(uow, &capturePublisher{})

		_, err := engine.Deposit(ctx, "Alice", decimal.NewFromInt(-5), "refund")
		if !errors.Is(err, account.ErrInvalidAmount) {
			t.Fatalf("expected ErrInvalidAmount, got %v", err)
		}
		if uow.executed {
			t.Error("unit must not open for a rejected amount")
		}
	})

	t.Run("Blank description rejected", func(t *testing.T) {
		uow := &fakeUnitOfWork{unit: aliceUnit(100)}
		engine := NewEngine(uow, &capturePublisher{})

		_, err := engine.Deposit(ctx, "Alice", decimal.NewFromInt(5), "   ")
		if !errors.Is(err, ErrInvalidDescription) {
			t.Fatalf("expected ErrInvalidDescription, got %v", err)
		}
		if uow.executed {
			t.Error("unit must not open for a rejected description")
		}
	})

	t.Run("Unknown account", func(t *testing.T) {
		uow := &fakeUnitOfWork{unit: aliceUnit(100)}
		pub := &capturePublisher{}
		engine := NewEngine(uow, pub)

		_, err := engine.Deposit(ctx, "Nobody", decimal.NewFromInt(5), "gift")
		if !errors.Is(err, account.ErrAccountNotFound) {
			t.Fatalf("expected ErrAccountNotFound, got %v", err)
		}
		if uow.committed {
			t.Error("unit must abort when the account is missing")
		}
		if len(pub.events) != 0 {
			t.Error("no event may be published on abort")
		}
	})

	t.Run("Append failure aborts the unit", func(t *testing.T) {
		unit := aliceUnit(100)
		unit.appendErr = errors.New("disk full")
		uow := &fakeUnitOfWork{unit: unit}
		pub := &capturePublisher{}
		engine := NewEngine(uow, pub)

		_, err := engine.Deposit(ctx, "Alice", decimal.NewFromInt(5), "salary")
		if err == nil {
			t.Fatal("expected error")
		}
		if uow.committed {
			t.Error("unit must abort when the append fails")
		}
		if len(pub.events) != 0 {
			t.Error("no event may be published on abort")
		}
	})

	t.Run("Publish failure does not fail the committed call", func(t *testing.T) {
		uow := &fakeUnitOfWork{unit: aliceUnit(100)}
		engine := NewEngine(uow, &capturePublisher{err: errors.New("broker down")})

		balance, err := engine.Deposit(ctx, "Alice", decimal.NewFromInt(5), "salary")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !balance.Equal(decimal.NewFromInt(105)) {
			t.Errorf("expected balance 105, got %s", balance)
		}
	})
}

func TestWithdraw(t *testing.T) {
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		uow := &fakeUnitOfWork{unit: aliceUnit(150)}
		pub := &capturePublisher{}
		engine := NewEngine(uow, pub)

		balance, err := engine.Withdraw(ctx, "Alice", decimal.NewFromInt(30), "rent")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !balance.Equal(decimal.NewFromInt(120)) {
			t.Errorf("expected balance 120, got %s", balance)
		}
		if !uow.unit.appended.PreviousBalance.Equal(decimal.NewFromInt(150)) ||
			!uow.unit.appended.CurrentBalance.Equal(decimal.NewFromInt(120)) {
			t.Errorf("expected entry 150 -> 120, got %s -> %s",
				uow.unit.appended.PreviousBalance, uow.unit.appended.CurrentBalance)
		}
		if len(pub.events) != 1 || !pub.events[0].Amount.Equal(decimal.NewFromInt(-30)) {
			t.Errorf("expected one event with amount -30, got %+v", pub.events)
		}
	})

	t.Run("Insufficient funds aborts with the account untouched", func(t *testing.T) {
		uow := &fakeUnitOfWork{unit: aliceUnit(20)}
		pub := &capturePublisher{}
		engine := NewEngine(uow, pub)

		_, err := engine.Withdraw(ctx, "Alice", decimal.NewFromInt(50), "rent")
		if !errors.Is(err, ErrInsufficientFunds) {
			t.Fatalf("expected ErrInsufficientFunds, got %v", err)
		}
		if uow.committed {
			t.Error("unit must abort on insufficient funds")
		}
		if uow.unit.updatedBalance != nil {
			t.Error("balance must not be written before the overdraft check")
		}
		if uow.unit.appended != nil {
			t.Error("no entry may be appended on abort")
		}
		if len(pub.events) != 0 {
			t.Error("no event may be published on abort")
		}
	})

	t.Run("Exact balance withdrawal succeeds", func(t *testing.T) {
		uow := &fakeUnitOfWork{unit: aliceUnit(50)}
		engine := NewEngine(uow, &capturePublisher{})

		balance, err := engine.Withdraw(ctx, "Alice", decimal.NewFromInt(50), "closing out")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !balance.IsZero() {
			t.Errorf("expected balance 0, got %s", balance)
		}
	})

	t.Run("Zero amount rejected", func(t *testing.T) {
		uow := &fakeUnitOfWork{unit: aliceUnit(100)}
		engine := NewEngine(uow, &capturePublisher{})

		_, err := engine.Withdraw(ctx, "Alice", decimal.Zero, "nothing")
		if !errors.Is(err, account.ErrInvalidAmount) {
			t.Fatalf("expected ErrInvalidAmount, got %v", err)
		}
		if uow.executed {
			t.Error("unit must not open for a rejected amount")
		}
	})
}
