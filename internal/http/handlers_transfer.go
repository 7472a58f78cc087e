package http

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"finanze/internal/core"
	"finanze/internal/services"
	"finanze/internal/transfer"
)

// handleExport streams the current transaction set as CSV. The same
// filter parameters as the list endpoint apply, so an export matches
// what the user is looking at.
func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	params, err := ParseFilterParams(r)
	if err != nil {
		writeJSONError(w, http.StatusBadRequest, err.Error())
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

	filtered := services.FilterTransactions(txs, params.AccountScope, params.Filter, params.Type, params.Query, categories)

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition",
		fmt.Sprintf("attachment; filename=transactions-%s.csv", time.Now().Format("2006-01-02")))
	if err := transfer.Export(w, filtered, categories); err != nil {
		slog.ErrorContext(r.Context(), "CSV export failed", "error", err)
	}
}

// handleImport reads a CSV body into the account named by the query
// parameter. Rows with known IDs or unparsable content are skipped;
// the response reports both counts.
func (s *Server) handleImport(w http.ResponseWriter, r *http.Request) {
	accountID := r.URL.Query().Get("account")
	if accountID == "" || accountID == core.AllAccounts {
		writeJSONError(w, http.StatusBadRequest, "import requires a concrete account")
		return
	}
	if _, err := s.store.GetAccount(r.Context(), accountID); err != nil {
		writeDomainError(w, err)
		return
	}

	existing, err := s.store.ListTransactions(r.Context())
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

	imported, result, err := transfer.Import(r.Body, accountID, existing, categories)
	if err != nil {
		writeJSONError(w, http.StatusBadRequest, err.Error())
		return
	}

	for _, tx := range imported {
		if err := s.transactions.Create(r.Context(), tx); err != nil {
			slog.ErrorContext(r.Context(), "Failed to persist imported transaction",
				"id", tx.ID, "error", err)
			result.Imported--
			result.Skipped++
		}
	}

	s.invalidate()
	slog.InfoContext(r.Context(), "CSV import completed",
		"account", accountID,
		"imported", result.Imported,
		"skipped", result.Skipped)
	writeJSON(w, http.StatusOK, result)
}
