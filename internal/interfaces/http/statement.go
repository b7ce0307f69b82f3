package http

import (
	"net/http"
	"strconv"

	"teller/internal/domain/ledger"
)

// StatementHandler serves bank statements and single ledger entries
type StatementHandler struct {
	reader *ledger.Reader
}

// NewStatementHandler creates a new statement handler
func NewStatementHandler(reader *ledger.Reader) *StatementHandler {
	return &StatementHandler{reader: reader}
}

// HandleStatement serves GET /api/accounts/{name}/statement?since=&till=
// with range bounds in "YYYY-MM-DD HH:MM:SS" form.
func (h *StatementHandler) HandleStatement(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	name := r.PathValue("name")
	if name == "" {
		http.Error(w, "Account name is required", http.StatusBadRequest)
		return
	}

	since := r.URL.Query().Get("since")
	till := r.URL.Query().Get("till")

	statement, err := h.reader.BankStatement(r.Context(), name, since, till)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, statement)
}

// HandleEntryByID serves GET /api/entries/{id}
func (h *StatementHandler) HandleEntryByID(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		http.Error(w, "Entry ID must be an integer", http.StatusBadRequest)
		return
	}

	entry, err := h.reader.Entry(r.Context(), id)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, entry)
}
