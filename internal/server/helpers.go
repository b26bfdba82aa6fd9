package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/bryan-buckman/linkpage/internal/auth"
	"github.com/bryan-buckman/linkpage/internal/model"
)

// --- Helpers ---

func (s *Server) render(w http.ResponseWriter, name string, data interface{}) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := s.templates.ExecuteTemplate(w, name, data); err != nil {
		s.logger.Error("template error", "template", name, "error", err)
		http.Error(w, "Render error", http.StatusInternalServerError)
	}
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// writeError maps manager outcomes to status codes.
func (s *Server) writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	msg := "Internal error"
	switch {
	case errors.Is(err, model.ErrForbidden):
		status, msg = http.StatusForbidden, "Admin role required"
	case errors.Is(err, model.ErrNotFound):
		status, msg = http.StatusNotFound, "Not found"
	case errors.Is(err, model.ErrValidation):
		status, msg = http.StatusBadRequest, err.Error()
	case errors.Is(err, model.ErrUpstream):
		status, msg = http.StatusBadGateway, "Storage unavailable"
	}
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed", "status", status, "error", err)
	}
	writeJSON(w, status, map[string]string{"error": msg})
}

// bearer returns the token from the Authorization header.
func bearer(r *http.Request) string {
	return auth.BearerToken(r.Header.Get("Authorization"))
}

// readerRole resolves the role for a read. The categories read is a plain
// navigational GET, so the token may arrive as a query parameter.
func (s *Server) readerRole(r *http.Request) model.Role {
	token := r.URL.Query().Get("token")
	if token == "" {
		token = bearer(r)
	}
	return s.tokens.Role(token)
}
