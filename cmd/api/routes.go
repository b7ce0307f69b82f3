package main

import (
	"net/http"

	httphandlers "teller/internal/interfaces/http"
	"teller/internal/shared/config"
	"teller/internal/shared/middleware"
)

// SetupRoutes configures all HTTP routes and returns the final handler
// with middleware applied.
func SetupRoutes(deps *Dependencies, cfg *config.Config) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("/health", httphandlers.HandleHealth)

	mux.HandleFunc("/api/accounts", deps.AccountHandler.HandleAccounts)
	mux.HandleFunc("/api/accounts/{name}", deps.AccountHandler.HandleAccountByName)
	mux.HandleFunc("/api/accounts/{name}/deposit", deps.TransactionHandler.HandleDeposit)
	mux.HandleFunc("/api/accounts/{name}/withdraw", deps.TransactionHandler.HandleWithdraw)
	mux.HandleFunc("/api/accounts/{name}/statement", deps.StatementHandler.HandleStatement)
	mux.HandleFunc("/api/entries/{id}", deps.StatementHandler.HandleEntryByID)

	handler := middleware.Logging(mux)
	if cfg.Telemetry.Enabled {
		handler = middleware.Telemetry(handler)
	}

	return handler
}
