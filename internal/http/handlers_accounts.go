package http

import (
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	"finanze/internal/core"
)

func (s *Server) handleListAccounts(w http.ResponseWriter, r *http.Request) {
	accounts, err := s.store.ListAccounts(r.Context())
	if err != nil {
		slog.ErrorContext(r.Context(), "List accounts failed", "error", err)
		writeDomainError(w, err)
		return
	}
	if accounts == nil {
		accounts = []core.Account{}
	}
	writeJSON(w, http.StatusOK, accounts)
}

func (s *Server) handleCreateAccount(w http.ResponseWriter, r *http.Request) {
	var a core.Account
	if err := decodeJSON(r, &a); err != nil {
		writeJSONError(w, http.StatusBadRequest, err.Error())
		return
	}
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	if a.Currency == "" {
		a.Currency = "EUR"
	}
	if err := a.Validate(); err != nil {
		writeDomainError(w, err)
		return
	}

	if err := s.store.CreateAccount(r.Context(), a); err != nil {
		slog.ErrorContext(r.Context(), "Create account failed", "error", err)
		writeDomainError(w, err)
		return
	}
	s.invalidate()
	writeJSON(w, http.StatusCreated, a)
}

func (s *Server) handleUpdateAccount(w http.ResponseWriter, r *http.Request) {
	var a core.Account
	if err := decodeJSON(r, &a); err != nil {
		writeJSONError(w, http.StatusBadRequest, err.Error())
		return
	}
	a.ID = r.PathValue("id")
	if err := a.Validate(); err != nil {
		writeDomainError(w, err)
		return
	}

	if err := s.store.UpdateAccount(r.Context(), a); err != nil {
		slog.ErrorContext(r.Context(), "Update account failed", "id", a.ID, "error", err)
		writeDomainError(w, err)
		return
	}
	s.invalidate()
	writeJSON(w, http.StatusOK, a)
}

// handleDeleteAccount removes the account along with its transactions
// and recurring definitions.
func (s *Server) handleDeleteAccount(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if err := s.store.DeleteAccount(r.Context(), id); err != nil {
		slog.ErrorContext(r.Context(), "Delete account failed", "id", id, "error", err)
		writeDomainError(w, err)
		return
	}
	s.invalidate()
	w.WriteHeader(http.StatusNoContent)
}
