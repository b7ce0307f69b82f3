package ledger

import (
	"context"
	"fmt"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/shopspring/decimal"

	"teller/internal/domain/account"
)

// RangeLayout is the accepted format for statement range bounds.
const RangeLayout = "2006-01-02 15:04:05"

// StatementLine is one row of a bank statement. Exactly one of Withdrawal
// and Deposit is non-zero for entries produced by the engine; both are zero
// only for a zero-delta entry, which contributes to neither total.
type StatementLine struct {
	Date        time.Time       `json:"date"`
	Description string          `json:"description"`
	Withdrawal  decimal.Decimal `json:"withdrawal"`
	Deposit     decimal.Decimal `json:"deposit"`
	Balance     decimal.Decimal `json:"balance"`
}

// BankStatement is the replay of an account's ledger over a date range
// with running totals.
type BankStatement struct {
	AccountName      string          `json:"accountName"`
	Since            time.Time       `json:"since"`
	Till             time.Time       `json:"till"`
	Lines            []StatementLine `json:"lines"`
	TotalWithdrawals decimal.Decimal `json:"totalWithdrawals"`
	TotalDeposits    decimal.Decimal `json:"totalDeposits"`
	ClosingBalance   decimal.Decimal `json:"closingBalance"`
}

// Reader is the read-only consumer of the ledger joined with the account
// store: statements and single-entry lookups.
type Reader struct {
	accounts account.Repository
	entries  Repository
}

// NewReader creates a statement reader
func NewReader(accounts account.Repository, entries Repository) *Reader {
	return &Reader{accounts: accounts, entries: entries}
}

// ParseRange parses the since/till bounds of a statement request. Malformed
// bounds and since > till fail with ErrInvalidRange.
func ParseRange(since, till string) (time.Time, time.Time, error) {
	from, err := time.Parse(RangeLayout, since)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("%w: since %q is not %q", ErrInvalidRange, since, RangeLayout)
	}
	to, err := time.Parse(RangeLayout, till)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("%w: till %q is not %q", ErrInvalidRange, till, RangeLayout)
	}
	if from.After(to) {
		return time.Time{}, time.Time{}, fmt.Errorf("%w: since %q is after till %q", ErrInvalidRange, since, till)
	}
	return from, to, nil
}

// BankStatement replays the account's ledger entries between since and till
// (inclusive, "YYYY-MM-DD HH:MM:SS") in chronological order. The closing
// balance is the last entry's balance, or the account's current balance
// when no entries fall in range.
func (r *Reader) BankStatement(ctx context.Context, name, since, till string) (*BankStatement, error) {
	from, to, err := ParseRange(since, till)
	if err != nil {
		return nil, err
	}

	acct, err := r.accounts.GetByName(ctx, name)
	if err != nil {
		return nil, err
	}

	entries, err := r.entries.EntriesInRange(ctx, acct.ID, from, to)
	if err != nil {
		return nil, err
	}

	stmt := &BankStatement{
		AccountName:    acct.Name,
		Since:          from,
		Till:           to,
		Lines:          make([]StatementLine, 0, len(entries)),
		ClosingBalance: acct.Balance,
	}

	for _, entry := range entries {
		line := StatementLine{
			Date:        entry.OperationDate,
			Description: entry.Description,
			Balance:     entry.CurrentBalance,
		}

		delta := entry.Delta()
		switch delta.Sign() {
		case -1:
			line.Withdrawal = delta.Abs()
			stmt.TotalWithdrawals = stmt.TotalWithdrawals.Add(delta.Abs())
		case 1:
			line.Deposit = delta
			stmt.TotalDeposits = stmt.TotalDeposits.Add(delta)
		}
		// A zero delta counts toward neither total.

		stmt.Lines = append(stmt.Lines, line)
		stmt.ClosingBalance = entry.CurrentBalance
	}

	return stmt, nil
}

// Entry retrieves a single ledger entry by ID
func (r *Reader) Entry(ctx context.Context, id int64) (*Entry, error) {
	if id <= 0 {
		return nil, fmt.Errorf("%w: id %d", ErrEntryNotFound, id)
	}
	return r.entries.GetEntry(ctx, id)
}

// Render formats the statement as the text table shown by the CLI.
func (s *BankStatement) Render() string {
	var b strings.Builder
	w := tabwriter.NewWriter(&b, 2, 4, 2, ' ', tabwriter.Debug)

	fmt.Fprintln(w, "Date\tDescription\tWithdrawals\tDeposits\tBalance")
	for _, line := range s.Lines {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t$%s\n",
			line.Date.Format(RangeLayout),
			line.Description,
			renderAmount(line.Withdrawal),
			renderAmount(line.Deposit),
			line.Balance.StringFixed(2),
		)
	}
	fmt.Fprintf(w, "Totals\t\t%s\t%s\t$%s\n",
		renderAmount(s.TotalWithdrawals),
		renderAmount(s.TotalDeposits),
		s.ClosingBalance.StringFixed(2),
	)

	w.Flush()
	return b.String()
}

// renderAmount leaves zero cells empty, matching the statement layout where
// each row is either a withdrawal or a deposit.
func renderAmount(d decimal.Decimal) string {
	if d.IsZero() {
		return ""
	}
	return "$" + d.StringFixed(2)
}
