package http

import (
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	"finanze/internal/core"
	"finanze/internal/services"
)

// handleListTransactions returns the transactions matching the filter
// query parameters, newest first.
func (s *Server) handleListTransactions(w http.ResponseWriter, r *http.Request) {
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
	if filtered == nil {
		filtered = []core.Transaction{}
	}
	writeJSON(w, http.StatusOK, filtered)
}

func (s *Server) handleCreateTransaction(w http.ResponseWriter, r *http.Request) {
	var tx core.Transaction
	if err := decodeJSON(r, &tx); err != nil {
		writeJSONError(w, http.StatusBadRequest, err.Error())
		return
	}
	if tx.ID == "" {
		tx.ID = uuid.NewString()
	}

	if err := s.transactions.Create(r.Context(), tx); err != nil {
		slog.ErrorContext(r.Context(), "Create transaction failed", "error", err)
		writeDomainError(w, err)
		return
	}
	s.invalidate()
	writeJSON(w, http.StatusCreated, tx)
}

func (s *Server) handleUpdateTransaction(w http.ResponseWriter, r *http.Request) {
	var tx core.Transaction
	if err := decodeJSON(r, &tx); err != nil {
		writeJSONError(w, http.StatusBadRequest, err.Error())
		return
	}
	tx.ID = r.PathValue("id")

	if err := s.transactions.Update(r.Context(), tx); err != nil {
		slog.ErrorContext(r.Context(), "Update transaction failed", "id", tx.ID, "error", err)
		writeDomainError(w, err)
		return
	}
	s.invalidate()
	writeJSON(w, http.StatusOK, tx)
}

func (s *Server) handleDeleteTransaction(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if err := s.transactions.Delete(r.Context(), id); err != nil {
		slog.ErrorContext(r.Context(), "Delete transaction failed", "id", id, "error", err)
		writeDomainError(w, err)
		return
	}
	s.invalidate()
	w.WriteHeader(http.StatusNoContent)
}
