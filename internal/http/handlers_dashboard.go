package http

import (
	"log/slog"
	"net/http"

	"finanze/internal/core"
	"finanze/internal/services"
)

// handleDashboard computes the dashboard metrics for the current
// filter. Results are cached per query string; any write clears the
// cache.
func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	params, err := ParseFilterParams(r)
	if err != nil {
		writeJSONError(w, http.StatusBadRequest, err.Error())
		return
	}

	cacheKey := r.URL.RawQuery
	if metrics, ok := s.dashboardCache.Get(cacheKey); ok {
		writeJSON(w, http.StatusOK, metrics)
		return
	}

	txs, err := s.store.ListTransactions(r.Context())
	if err != nil {
		slog.ErrorContext(r.Context(), "List transactions failed", "error", err)
		writeDomainError(w, err)
		return
	}
	categories, err := s.store.ListCategories(r.Context())
	if err != nil {
		slog.ErrorContext(r.Context(), "List categories failed", "error", err)
		writeDomainError(w, err)
		return
	}

	// The balance metric only exists for a single concrete account.
	var account *core.Account
	if params.AccountScope != core.AllAccounts {
		a, err := s.store.GetAccount(r.Context(), params.AccountScope)
		if err != nil {
			slog.ErrorContext(r.Context(), "Get account failed", "id", params.AccountScope, "error", err)
			writeDomainError(w, err)
			return
		}
		account = &a
	}

	filtered := services.FilterTransactions(txs, params.AccountScope, params.Filter, params.Type, params.Query, categories)
	metrics := services.Aggregate(filtered, txs, account, params.Filter, categories)

	s.dashboardCache.Set(cacheKey, metrics)
	writeJSON(w, http.StatusOK, metrics)
}
