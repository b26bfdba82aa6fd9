package server

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/bryan-buckman/linkpage/internal/auth"
	"github.com/bryan-buckman/linkpage/internal/model"
	"github.com/bryan-buckman/linkpage/internal/opml"
	"github.com/bryan-buckman/linkpage/internal/site"
)

// multipartOverhead is allowed on top of the image limit for form framing.
const multipartOverhead = 1 << 20

// --- Page Handlers ---

func (s *Server) handleHome(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	cfg, err := s.site.Config(ctx)
	if err != nil {
		s.writeError(w, err)
		return
	}
	cats, err := s.content.Tree(ctx, model.RolePublic)
	if err != nil {
		s.writeError(w, err)
		return
	}
	var background string
	if len(cfg.BackgroundImageURLs) > 0 {
		background = cfg.BackgroundImageURLs[0]
	}
	s.render(w, "index.html", map[string]interface{}{
		"Config":     cfg,
		"Categories": cats,
		"Background": background,
	})
}

func (s *Server) handleBackgroundImage(w http.ResponseWriter, r *http.Request) {
	pos, err := strconv.Atoi(chi.URLParam(r, "position"))
	if err != nil {
		http.Error(w, "Not Found", http.StatusNotFound)
		return
	}
	data, mimeType, err := s.images.Fetch(r.Context(), pos)
	if errors.Is(err, model.ErrNotFound) {
		http.Error(w, "Not Found", http.StatusNotFound)
		return
	}
	if err != nil {
		s.writeError(w, err)
		return
	}
	w.Header().Set("Content-Type", mimeType)
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	w.Write(data)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":   "ok",
		"database": s.db.DatabaseType(),
	})
}

// --- Auth Handlers ---

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	s.login(w, r, model.RoleAdmin)
}

func (s *Server) handleGuestLogin(w http.ResponseWriter, r *http.Request) {
	s.login(w, r, model.RoleGuest)
}

func (s *Server) login(w http.ResponseWriter, r *http.Request, tier model.Role) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Invalid request"})
		return
	}
	token, err := s.tokens.Login(s.creds, tier, req.Username, req.Password)
	if errors.Is(err, auth.ErrInvalidCredentials) {
		s.logger.Warn("login failed", "tier", tier, "username", req.Username)
		writeJSON(w, http.StatusUnauthorized, map[string]interface{}{
			"success": false,
			"message": "Invalid username or password",
		})
		return
	}
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"role":    tier,
		"token":   token,
	})
}

// --- Config Handlers ---

func (s *Server) handleGetConfig(w http.ResponseWriter, r *http.Request) {
	cfg, err := s.site.Config(r.Context())
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, cfg)
}

func (s *Server) handleUpdateConfig(w http.ResponseWriter, r *http.Request) {
	token := bearer(r)
	if !s.tokens.RequireAdmin(token) {
		s.writeError(w, model.ErrForbidden)
		return
	}
	var req struct {
		Title           string `json:"title"`
		Subtitle        string `json:"subtitle"`
		ChineseTitle    string `json:"chineseTitle"`
		ResetBackground bool   `json:"resetBackground"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Invalid request"})
		return
	}
	subtitle := req.Subtitle
	if subtitle == "" {
		subtitle = req.ChineseTitle
	}
	err := s.site.Update(r.Context(), token, site.Update{
		Title:           req.Title,
		Subtitle:        subtitle,
		ResetBackground: req.ResetBackground,
	})
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

// --- Category Handlers ---

func (s *Server) handleGetCategories(w http.ResponseWriter, r *http.Request) {
	cats, err := s.content.Tree(r.Context(), s.readerRole(r))
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, cats)
}

func (s *Server) handleReplaceCategories(w http.ResponseWriter, r *http.Request) {
	token := bearer(r)
	if !s.tokens.RequireAdmin(token) {
		s.writeError(w, model.ErrForbidden)
		return
	}
	var cats []model.Category
	if err := json.NewDecoder(r.Body).Decode(&cats); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Invalid request"})
		return
	}
	if err := s.content.Replace(r.Context(), token, cats); err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

// --- Background Handlers ---

func (s *Server) handleUploadBackground(w http.ResponseWriter, r *http.Request) {
	token := bearer(r)
	if !s.tokens.RequireAdmin(token) {
		s.writeError(w, model.ErrForbidden)
		return
	}

	limit := int64(s.images.MaxBytes()) + multipartOverhead
	r.Body = http.MaxBytesReader(w, r.Body, limit)
	if err := r.ParseMultipartForm(limit); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Invalid upload"})
		return
	}
	file, header, err := r.FormFile("background")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "No file provided"})
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Invalid upload"})
		return
	}
	pos, err := s.images.Append(r.Context(), token, data, header.Header.Get("Content-Type"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success":            true,
		"position":           pos,
		"backgroundImageUrl": site.ImageURL(pos),
	})
}

func (s *Server) handleDeleteBackground(w http.ResponseWriter, r *http.Request) {
	token := bearer(r)
	if !s.tokens.RequireAdmin(token) {
		s.writeError(w, model.ErrForbidden)
		return
	}

	var pos int
	if p := chi.URLParam(r, "position"); p != "" {
		n, err := strconv.Atoi(p)
		if err != nil {
			s.writeError(w, model.ErrNotFound)
			return
		}
		pos = n
	} else {
		var req struct {
			Index *int `json:"index"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Index == nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Invalid request"})
			return
		}
		pos = *req.Index
	}

	if err := s.images.Delete(r.Context(), token, pos); err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

// --- OPML Handlers ---

func (s *Server) handleExportOPML(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	cats, err := s.content.Tree(ctx, s.readerRole(r))
	if err != nil {
		s.writeError(w, err)
		return
	}
	cfg, err := s.site.Config(ctx)
	if err != nil {
		s.writeError(w, err)
		return
	}
	data, err := opml.Export(cfg.Title, cats)
	if err != nil {
		s.writeError(w, err)
		return
	}
	w.Header().Set("Content-Type", "application/xml")
	w.Header().Set("Content-Disposition", "attachment; filename=linkpage.opml")
	w.Write(data)
}

func (s *Server) handleImportOPML(w http.ResponseWriter, r *http.Request) {
	token := bearer(r)
	if !s.tokens.RequireAdmin(token) {
		s.writeError(w, model.ErrForbidden)
		return
	}
	file, _, err := r.FormFile("opml")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "No file provided"})
		return
	}
	defer file.Close()

	cats, err := opml.Parse(file)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Failed to parse OPML: " + err.Error()})
		return
	}
	if err := s.content.Replace(r.Context(), token, cats); err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success":    true,
		"categories": len(cats),
	})
}
