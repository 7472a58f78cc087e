package http

import (
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	"finanze/internal/core"
)

func (s *Server) handleListRecurring(w http.ResponseWriter, r *http.Request) {
	defs, err := s.store.ListRecurringTransactions(r.Context())
	if err != nil {
		slog.ErrorContext(r.Context(), "List recurring transactions failed", "error", err)
		writeDomainError(w, err)
		return
	}
	if defs == nil {
		defs = []core.RecurringTransaction{}
	}
	writeJSON(w, http.StatusOK, defs)
}

func (s *Server) handleCreateRecurring(w http.ResponseWriter, r *http.Request) {
	var def core.RecurringTransaction
	if err := decodeJSON(r, &def); err != nil {
		writeJSONError(w, http.StatusBadRequest, err.Error())
		return
	}
	if def.ID == "" {
		def.ID = uuid.NewString()
	}
	// A new definition starts owing its first occurrence on its start
	// date; the catch-up pass materializes from there.
	if def.NextDueDate.IsZero() {
		def.NextDueDate = def.StartDate
	}
	if err := def.Validate(); err != nil {
		writeDomainError(w, err)
		return
	}

	if err := s.store.CreateRecurringTransaction(r.Context(), def); err != nil {
		slog.ErrorContext(r.Context(), "Create recurring transaction failed", "error", err)
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, def)
}

func (s *Server) handleUpdateRecurring(w http.ResponseWriter, r *http.Request) {
	var def core.RecurringTransaction
	if err := decodeJSON(r, &def); err != nil {
		writeJSONError(w, http.StatusBadRequest, err.Error())
		return
	}
	def.ID = r.PathValue("id")
	if def.NextDueDate.IsZero() {
		def.NextDueDate = def.StartDate
	}
	if err := def.Validate(); err != nil {
		writeDomainError(w, err)
		return
	}

	if err := s.store.UpdateRecurringTransaction(r.Context(), def); err != nil {
		slog.ErrorContext(r.Context(), "Update recurring transaction failed", "id", def.ID, "error", err)
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, def)
}

func (s *Server) handleDeleteRecurring(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if err := s.store.DeleteRecurringTransaction(r.Context(), id); err != nil {
		slog.ErrorContext(r.Context(), "Delete recurring transaction failed", "id", id, "error", err)
		writeDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
