package http

import (
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	"finanze/internal/core"
)

func (s *Server) handleListCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := s.store.ListCategories(r.Context())
	if err != nil {
		slog.ErrorContext(r.Context(), "List categories failed", "error", err)
		writeDomainError(w, err)
		return
	}
	if categories == nil {
		categories = []core.Category{}
	}
	writeJSON(w, http.StatusOK, categories)
}

func (s *Server) handleCreateCategory(w http.ResponseWriter, r *http.Request) {
	var c core.Category
	if err := decodeJSON(r, &c); err != nil {
		writeJSONError(w, http.StatusBadRequest, err.Error())
		return
	}
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	if err := c.Validate(); err != nil {
		writeDomainError(w, err)
		return
	}

	if err := s.store.CreateCategory(r.Context(), c); err != nil {
		slog.ErrorContext(r.Context(), "Create category failed", "error", err)
		writeDomainError(w, err)
		return
	}
	s.invalidate()
	writeJSON(w, http.StatusCreated, c)
}

func (s *Server) handleUpdateCategory(w http.ResponseWriter, r *http.Request) {
	var c core.Category
	if err := decodeJSON(r, &c); err != nil {
		writeJSONError(w, http.StatusBadRequest, err.Error())
		return
	}
	c.ID = r.PathValue("id")
	if err := c.Validate(); err != nil {
		writeDomainError(w, err)
		return
	}

	if err := s.store.UpdateCategory(r.Context(), c); err != nil {
		slog.ErrorContext(r.Context(), "Update category failed", "id", c.ID, "error", err)
		writeDomainError(w, err)
		return
	}
	s.invalidate()
	writeJSON(w, http.StatusOK, c)
}

// handleDeleteCategory removes the category; transactions that pointed
// at it surface under the catch-all bucket from then on.
func (s *Server) handleDeleteCategory(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if err := s.store.DeleteCategory(r.Context(), id); err != nil {
		slog.ErrorContext(r.Context(), "Delete category failed", "id", id, "error", err)
		writeDomainError(w, err)
		return
	}
	s.invalidate()
	w.WriteHeader(http.StatusNoContent)
}
