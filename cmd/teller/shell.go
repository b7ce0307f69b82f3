package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"teller/internal/domain/account"
	"teller/internal/domain/ledger"
)

const helpText = `Commands:
  create <name> <money_amount>
      Create a client. Example: create John Dillinger 30000
  deposit --client="<name>" --amount=<money_amount> --description="<text>"
  withdraw --client="<name>" --amount=<money_amount> --description="<text>"
  show_bank_statement --client="<name>" --since="<YYYY-MM-DD HH:MM:SS>" --till="<YYYY-MM-DD HH:MM:SS>"
  get_client <name>
  get_all_clients
  get_entry_by_id <id>
  exit

Client names are expected to be unique.`

// Shell is the interactive command loop over the ledger services.
type Shell struct {
	accounts *account.Service
	engine   *ledger.Engine
	reader   *ledger.Reader
	out      io.Writer
}

// NewShell creates the command shell
func NewShell(accounts *account.Service, engine *ledger.Engine, reader *ledger.Reader, out io.Writer) *Shell {
	return &Shell{accounts: accounts, engine: engine, reader: reader, out: out}
}

// Run reads commands until exit or EOF.
func (s *Shell) Run(ctx context.Context, in io.Reader) error {
	fmt.Fprintln(s.out, "Service started! Type help to list commands.")

	scanner := bufio.NewScanner(in)
	for {
		fmt.Fprint(s.out, "> ")
		if !scanner.Scan() {
			return scanner.Err()
		}

		command, args := splitCommand(scanner.Text())
		switch command {
		case "":
			continue
		case "help":
			fmt.Fprintln(s.out, helpText)
		case "create":
			s.create(ctx, args)
		case "deposit":
			s.transact(ctx, "deposit", args, s.engine.Deposit)
		case "withdraw":
			s.transact(ctx, "withdraw", args, s.engine.Withdraw)
		case "show_bank_statement":
			s.showStatement(ctx, args)
		case "get_client":
			s.getClient(ctx, args)
		case "get_all_clients":
			s.listClients(ctx)
		case "get_entry_by_id":
			s.getEntry(ctx, args)
		case "exit":
			fmt.Fprintln(s.out, "Thank you and goodbye!")
			return nil
		default:
			fmt.Fprintf(s.out, "Unknown command %q. Type help to list commands.\n", command)
		}
	}
}

func (s *Shell) create(ctx context.Context, args string) {
	// The amount is the last whitespace-separated token; everything before
	// it is the client name, which may contain spaces.
	cut := strings.LastIndexByte(strings.TrimSpace(args), ' ')
	if cut < 0 {
		fmt.Fprintln(s.out, "Please enter name and money amount separated with whitespace.")
		return
	}
	name := strings.TrimSpace(args[:cut])
	amount, err := decimal.NewFromString(strings.TrimSpace(args[cut:]))
	if err != nil {
		fmt.Fprintln(s.out, "Please enter name and money amount separated with whitespace.")
		return
	}

	acct, err := s.accounts.CreateAccount(ctx, account.CreateParams{
		Name:           name,
		InitialBalance: amount,
	})
	if err != nil {
		fmt.Fprintf(s.out, "Error: %v\n", err)
		return
	}
	fmt.Fprintf(s.out, "Created account. Client's name: %q, client's money: $%s\n",
		acct.Name, acct.Balance.StringFixed(2))
}

type transactionFunc func(ctx context.Context, name string, amount decimal.Decimal, description string) (decimal.Decimal, error)

func (s *Shell) transact(ctx context.Context, verb, args string, operation transactionFunc) {
	usage := fmt.Sprintf("Usage: %s --client=\"<name>\" --amount=<money_amount> --description=\"<text>\"", verb)

	flags, err := parseFlags(args)
	if err == nil {
		err = requireFlags(flags, "client", "amount", "description")
	}
	if err != nil {
		fmt.Fprintf(s.out, "Wrong arguments: %v\n%s\n", err, usage)
		return
	}

	amount, err := decimal.NewFromString(strings.Trim(flags["amount"], `"`))
	if err != nil {
		fmt.Fprintf(s.out, "Wrong arguments: --amount must be a number\n%s\n", usage)
		return
	}

	balance, err := operation(ctx, flags["client"], amount, flags["description"])
	if err != nil {
		fmt.Fprintf(s.out, "Error: %v\n", err)
		return
	}

	label := "Deposit"
	if verb == "withdraw" {
		label = "Withdrawal"
	}
	fmt.Fprintf(s.out, "%s successful! Name: %q, current balance: $%s\n",
		label, flags["client"], balance.StringFixed(2))
}

func (s *Shell) showStatement(ctx context.Context, args string) {
	usage := `Usage: show_bank_statement --client="<name>" --since="<YYYY-MM-DD HH:MM:SS>" --till="<YYYY-MM-DD HH:MM:SS>"`

	flags, err := parseFlags(args)
	if err == nil {
		err = requireFlags(flags, "client", "since", "till")
	}
	if err != nil {
		fmt.Fprintf(s.out, "Wrong arguments: %v\n%s\n", err, usage)
		return
	}

	statement, err := s.reader.BankStatement(ctx, flags["client"], flags["since"], flags["till"])
	if err != nil {
		fmt.Fprintf(s.out, "Error: %v\n", err)
		return
	}
	fmt.Fprint(s.out, statement.Render())
}

func (s *Shell) getClient(ctx context.Context, args string) {
	name := strings.TrimSpace(args)
	if name == "" {
		fmt.Fprintln(s.out, "Usage: get_client <name>")
		return
	}

	acct, err := s.accounts.GetAccount(ctx, name)
	if err != nil {
		fmt.Fprintf(s.out, "Error: %v\n", err)
		return
	}
	fmt.Fprintf(s.out, "%s $%s\n", acct.Name, acct.Balance.StringFixed(2))
}

func (s *Shell) listClients(ctx context.Context) {
	accounts, err := s.accounts.ListAccounts(ctx)
	if err != nil {
		fmt.Fprintf(s.out, "Error: %v\n", err)
		return
	}
	for _, acct := range accounts {
		fmt.Fprintf(s.out, "%s $%s\n", acct.Name, acct.Balance.StringFixed(2))
	}
}

func (s *Shell) getEntry(ctx context.Context, args string) {
	id, err := strconv.ParseInt(strings.TrimSpace(args), 10, 64)
	if err != nil {
		fmt.Fprintln(s.out, "Usage: get_entry_by_id <id>")
		return
	}

	entry, err := s.reader.Entry(ctx, id)
	if err != nil {
		fmt.Fprintf(s.out, "Error: %v\n", err)
		return
	}

	acct, err := s.accounts.GetAccountByID(ctx, entry.AccountID)
	if err != nil {
		fmt.Fprintf(s.out, "Error: %v\n", err)
		return
	}

	fmt.Fprintf(s.out, "entry id: %d\nclient: %s\noperation date: %s\ndescription: %s\nprev balance: $%s\ncurrent balance: $%s\n",
		entry.ID,
		acct.Name,
		entry.OperationDate.Format(ledger.RangeLayout),
		entry.Description,
		entry.PreviousBalance.StringFixed(2),
		entry.CurrentBalance.StringFixed(2),
	)
}

func splitCommand(line string) (command, args string) {
	line = strings.TrimSpace(line)
	if cut := strings.IndexByte(line, ' '); cut >= 0 {
		return line[:cut], strings.TrimSpace(line[cut+1:])
	}
	return line, ""
}
