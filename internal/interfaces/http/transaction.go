package http

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/shopspring/decimal"

	"teller/internal/domain/ledger"
)

// TransactionHandler serves deposits and withdrawals through the engine
type TransactionHandler struct {
	engine *ledger.Engine
}

// NewTransactionHandler creates a new transaction handler
func NewTransactionHandler(engine *ledger.Engine) *TransactionHandler {
	return &TransactionHandler{engine: engine}
}

type TransactionRequest struct {
	Amount      decimal.Decimal `json:"amount"`
	Description string          `json:"description"`
}

type TransactionResponse struct {
	Account string          `json:"account"`
	Balance decimal.Decimal `json:"balance"`
}

type transactionFunc func(ctx context.Context, name string, amount decimal.Decimal, description string) (decimal.Decimal, error)

// HandleDeposit serves POST /api/accounts/{name}/deposit
func (h *TransactionHandler) HandleDeposit(w http.ResponseWriter, r *http.Request) {
	h.handleTransaction(w, r, h.engine.Deposit)
}

// HandleWithdraw serves POST /api/accounts/{name}/withdraw
func (h *TransactionHandler) HandleWithdraw(w http.ResponseWriter, r *http.Request) {
	h.handleTransaction(w, r, h.engine.Withdraw)
}

func (h *TransactionHandler) handleTransaction(w http.ResponseWriter, r *http.Request, operation transactionFunc) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	name := r.PathValue("name")
	if name == "" {
		http.Error(w, "Account name is required", http.StatusBadRequest)
		return
	}

	var req TransactionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	balance, err := operation(r.Context(), name, req.Amount, req.Description)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, TransactionResponse{Account: name, Balance: balance})
}
