package http

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"teller/internal/domain/account"
	"teller/internal/domain/ledger"
)

type errorResponse struct {
	Error string `json:"error"`
}

// writeDomainError maps domain errors to HTTP status codes. Unknown errors
// (including storage failures) become 500 and are logged with context.
func writeDomainError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError

	switch {
	case errors.Is(err, account.ErrInvalidAmount),
		errors.Is(err, account.ErrInvalidInput),
		errors.Is(err, ledger.ErrInvalidDescription),
		errors.Is(err, ledger.ErrInvalidRange):
		status = http.StatusBadRequest
	case errors.Is(err, account.ErrAccountNotFound),
		errors.Is(err, ledger.ErrEntryNotFound):
		status = http.StatusNotFound
	case errors.Is(err, account.ErrDuplicateAccount):
		status = http.StatusConflict
	case errors.Is(err, ledger.ErrInsufficientFunds):
		status = http.StatusUnprocessableEntity
	}

	if status == http.StatusInternalServerError {
		log.Printf("Internal error: %v", err)
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(errorResponse{Error: err.Error()})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}
