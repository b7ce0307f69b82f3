package memory

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"teller/internal/domain/account"
	"teller/internal/domain/ledger"
)

// Store is an in-memory implementation of the account repository, the
// ledger repository, and the unit of work. It is the default backend for
// the CLI and for tests. Row-level locking is a per-account mutex table:
// a unit holds the mutex of every account it locked until it commits or
// rolls back, so units touching different accounts never block each other.
type Store struct {
	mu sync.Mutex // guards everything below; row mutexes are held across units

	byName  map[string]*account.Account
	byID    map[int64]*account.Account
	entries []*ledger.Entry
	locks   map[int64]*sync.Mutex

	nextAccountID int64
	nextEntryID   int64
	lastStamp     time.Time
}

// NewStore creates an empty in-memory store
func NewStore() *Store {
	return &Store{
		byName: make(map[string]*account.Account),
		byID:   make(map[int64]*account.Account),
		locks:  make(map[int64]*sync.Mutex),
	}
}

// Compile-time checks: Store serves all three storage contracts.
var (
	_ account.Repository = (*Store)(nil)
	_ ledger.Repository  = (*Store)(nil)
	_ ledger.UnitOfWork  = (*Store)(nil)
)

// Create opens a new account
func (s *Store) Create(ctx context.Context, params account.CreateParams) (*account.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.byName[params.Name]; exists {
		return nil, fmt.Errorf("create account %q: %w", params.Name, account.ErrDuplicateAccount)
	}

	s.nextAccountID++
	acct := &account.Account{
		ID:        s.nextAccountID,
		Name:      params.Name,
		Balance:   params.InitialBalance,
		CreatedAt: time.Now(),
	}
	s.byName[acct.Name] = acct
	s.byID[acct.ID] = acct
	s.locks[acct.ID] = &sync.Mutex{}

	copied := *acct
	return &copied, nil
}

// GetByName retrieves an account by name
func (s *Store) GetByName(ctx context.Context, name string) (*account.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	acct, exists := s.byName[name]
	if !exists {
		return nil, fmt.Errorf("account %q: %w", name, account.ErrAccountNotFound)
	}
	copied := *acct
	return &copied, nil
}

// GetByID retrieves an account by ID
func (s *Store) GetByID(ctx context.Context, id int64) (*account.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	acct, exists := s.byID[id]
	if !exists {
		return nil, fmt.Errorf("account %d: %w", id, account.ErrAccountNotFound)
	}
	copied := *acct
	return &copied, nil
}

// List returns all accounts in creation order
func (s *Store) List(ctx context.Context) ([]*account.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	accounts := make([]*account.Account, 0, len(s.byID))
	for id := int64(1); id <= s.nextAccountID; id++ {
		if acct, exists := s.byID[id]; exists {
			copied := *acct
			accounts = append(accounts, &copied)
		}
	}
	return accounts, nil
}

// GetEntry retrieves a ledger entry by ID
func (s *Store) GetEntry(ctx context.Context, id int64) (*ledger.Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, entry := range s.entries {
		if entry.ID == id {
			copied := *entry
			return &copied, nil
		}
	}
	return nil, fmt.Errorf("entry %d: %w", id, ledger.ErrEntryNotFound)
}

// EntriesInRange returns the account's entries within the inclusive range.
// Entries are stored in commit order with monotonic timestamps, so append
// order already is (operation_date, id) ascending.
func (s *Store) EntriesInRange(ctx context.Context, accountID int64, since, till time.Time) ([]*ledger.Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var result []*ledger.Entry
	for _, entry := range s.entries {
		if entry.AccountID != accountID {
			continue
		}
		if entry.OperationDate.Before(since) || entry.OperationDate.After(till) {
			continue
		}
		copied := *entry
		result = append(result, &copied)
	}
	return result, nil
}

// Execute runs fn as one atomic unit. Staged writes are applied only when
// fn returns nil and the context is still live; otherwise they are
// discarded. Account locks taken by fn are released after the outcome is
// decided, never earlier.
func (s *Store) Execute(ctx context.Context, fn func(u ledger.Unit) error) error {
	u := &unit{
		store:    s,
		locked:   make(map[int64]*account.Account),
		balances: make(map[int64]decimal.Decimal),
	}
	defer u.release()

	if err := ctx.Err(); err != nil {
		return fmt.Errorf("begin unit: %w: %w", account.ErrStorage, err)
	}
	if err := fn(u); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("commit aborted: %w: %w", account.ErrStorage, err)
	}

	u.commit()
	return nil
}

// unit holds the row locks and staged writes of one atomic unit.
type unit struct {
	store     *Store
	locked    map[int64]*account.Account // snapshots taken under the row lock
	lockOrder []*sync.Mutex
	balances  map[int64]decimal.Decimal
	staged    []*ledger.Entry
}

// LockAccount blocks until the account's row mutex is free, then snapshots
// the committed state. Locking the same account twice in one unit returns
// the existing snapshot instead of deadlocking.
func (u *unit) LockAccount(ctx context.Context, name string) (*account.Account, error) {
	u.store.mu.Lock()
	acct, exists := u.store.byName[name]
	if !exists {
		u.store.mu.Unlock()
		return nil, fmt.Errorf("account %q: %w", name, account.ErrAccountNotFound)
	}
	id := acct.ID
	rowLock := u.store.locks[id]
	u.store.mu.Unlock()

	if snapshot, held := u.locked[id]; held {
		copied := *snapshot
		return &copied, nil
	}

	rowLock.Lock()
	u.lockOrder = append(u.lockOrder, rowLock)

	// Re-read under the row lock: the previous holder may have committed
	// a new balance between our lookup and the acquisition.
	u.store.mu.Lock()
	snapshot := *u.store.byID[id]
	u.store.mu.Unlock()

	u.locked[id] = &snapshot
	copied := snapshot
	return &copied, nil
}

// UpdateBalance stages a balance replacement for an account locked in this unit
func (u *unit) UpdateBalance(ctx context.Context, accountID int64, balance decimal.Decimal) error {
	if _, held := u.locked[accountID]; !held {
		return fmt.Errorf("update balance of account %d: %w: account not locked in this unit",
			accountID, account.ErrStorage)
	}
	u.balances[accountID] = balance
	u.locked[accountID].Balance = balance
	return nil
}

// AppendEntry stages a ledger entry. ID and OperationDate are filled in at
// commit time; the returned pointer is complete once Execute returns nil.
func (u *unit) AppendEntry(ctx context.Context, params ledger.EntryParams) (*ledger.Entry, error) {
	if _, held := u.locked[params.AccountID]; !held {
		return nil, fmt.Errorf("append entry for account %d: %w: account not locked in this unit",
			params.AccountID, account.ErrStorage)
	}
	entry := &ledger.Entry{
		AccountID:       params.AccountID,
		Description:     params.Description,
		PreviousBalance: params.PreviousBalance,
		CurrentBalance:  params.CurrentBalance,
	}
	u.staged = append(u.staged, entry)
	return entry, nil
}

// commit applies staged writes while the row locks are still held.
func (u *unit) commit() {
	u.store.mu.Lock()
	defer u.store.mu.Unlock()

	for id, balance := range u.balances {
		u.store.byID[id].Balance = balance
	}
	for _, entry := range u.staged {
		u.store.nextEntryID++
		entry.ID = u.store.nextEntryID
		entry.OperationDate = u.store.stamp()

		copied := *entry
		u.store.entries = append(u.store.entries, &copied)
	}
	u.staged = nil
	u.balances = map[int64]decimal.Decimal{}
}

func (u *unit) release() {
	for i := len(u.lockOrder) - 1; i >= 0; i-- {
		u.lockOrder[i].Unlock()
	}
	u.lockOrder = nil
}

// stamp returns a strictly increasing commit timestamp. Callers must hold
// store.mu.
func (s *Store) stamp() time.Time {
	now := time.Now()
	if !now.After(s.lastStamp) {
		now = s.lastStamp.Add(time.Nanosecond)
	}
	s.lastStamp = now
	return now
}
