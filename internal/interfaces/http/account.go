package http

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/shopspring/decimal"

	"teller/internal/domain/account"
)

// AccountHandler serves account creation and display-only reads
type AccountHandler struct {
	accounts *account.Service
}

// NewAccountHandler creates a new account handler
func NewAccountHandler(accounts *account.Service) *AccountHandler {
	return &AccountHandler{accounts: accounts}
}

// HTTP request/response types (transport layer concerns)
type CreateAccountRequest struct {
	Name           string          `json:"name"`
	InitialBalance decimal.Decimal `json:"initialBalance"`
}

type AccountResponse struct {
	ID        int64           `json:"id"`
	Name      string          `json:"name"`
	Balance   decimal.Decimal `json:"balance"`
	CreatedAt string          `json:"createdAt"`
}

func toAccountResponse(acct *account.Account) AccountResponse {
	return AccountResponse{
		ID:        acct.ID,
		Name:      acct.Name,
		Balance:   acct.Balance,
		CreatedAt: acct.CreatedAt.Format(time.RFC3339),
	}
}

// HandleAccounts serves POST (create) and GET (list) on /api/accounts
func (h *AccountHandler) HandleAccounts(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		h.handleCreate(w, r)
	case http.MethodGet:
		h.handleList(w, r)
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

func (h *AccountHandler) handleCreate(w http.ResponseWriter, r *http.Request) {
	var req CreateAccountRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	acct, err := h.accounts.CreateAccount(r.Context(), account.CreateParams{
		Name:           req.Name,
		InitialBalance: req.InitialBalance,
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, toAccountResponse(acct))
}

func (h *AccountHandler) handleList(w http.ResponseWriter, r *http.Request) {
	accounts, err := h.accounts.ListAccounts(r.Context())
	if err != nil {
		writeDomainError(w, err)
		return
	}

	response := make([]AccountResponse, 0, len(accounts))
	for _, acct := range accounts {
		response = append(response, toAccountResponse(acct))
	}
	writeJSON(w, http.StatusOK, response)
}

// HandleAccountByName serves GET /api/accounts/{name}
func (h *AccountHandler) HandleAccountByName(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	name := r.PathValue("name")
	if name == "" {
		http.Error(w, "Account name is required", http.StatusBadRequest)
		return
	}

	acct, err := h.accounts.GetAccount(r.Context(), name)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toAccountResponse(acct))
}
