package api

import (
	"encoding/json"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/friendsofgo/errors"

	"bazaar-radar/database"
	models "bazaar-radar/database/models_pkg"
)

func (s *Server) handleListWebhooks(w http.ResponseWriter, r *http.Request) {
	userID := getUintParam(r, "user_id")
	if userID == 0 {
		http.Error(w, "user_id is required", http.StatusBadRequest)
		return
	}

	hooks, err := s.webhooks.ListWebhooks(r.Context(), userID)
	if err != nil {
		s.respondWithError(w, http.StatusInternalServerError, "failed to list webhooks", err)
		return
	}
	respondJSON(w, http.StatusOK, hooks)
}

func (s *Server) handleAddWebhook(w http.ResponseWriter, r *http.Request) {
	var body struct {
		UserID uint   `json:"user_id"`
		Name   string `json:"name"`
		URL    string `json:"url"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	endpoint := strings.TrimSpace(body.URL)
	if body.UserID == 0 || endpoint == "" {
		http.Error(w, "user_id and url are required", http.StatusBadRequest)
		return
	}
	parsed, err := url.Parse(endpoint)
	if err != nil || (parsed.Scheme != "http" && parsed.Scheme != "https") || parsed.Host == "" {
		http.Error(w, "url must be a valid http(s) endpoint", http.StatusBadRequest)
		return
	}

	hook := &models.AlertWebhook{
		UserID:   body.UserID,
		Name:     strings.TrimSpace(body.Name),
		URL:      endpoint,
		IsActive: true,
	}
	if err := s.webhooks.AddWebhook(r.Context(), hook); err != nil {
		s.respondWithError(w, http.StatusInternalServerError, "failed to add webhook", err)
		return
	}

	// The delivery path caches the active-hook list; drop it so the new
	// endpoint receives the next alert.
	s.hookCache.InvalidateCache(r.Context(), body.UserID)
	respondJSON(w, http.StatusCreated, hook)
}

func (s *Server) handleDeleteWebhook(w http.ResponseWriter, r *http.Request) {
	userID := getUintParam(r, "user_id")
	if userID == 0 {
		http.Error(w, "user_id is required", http.StatusBadRequest)
		return
	}

	hookID, err := strconv.ParseUint(r.PathValue("id"), 10, 32)
	if err != nil {
		http.Error(w, "Invalid ID", http.StatusBadRequest)
		return
	}

	err = s.webhooks.DeleteWebhook(r.Context(), userID, uint(hookID))
	if errors.Is(err, database.ErrNotFound) {
		http.Error(w, "webhook not found", http.StatusNotFound)
		return
	}
	if err != nil {
		s.respondWithError(w, http.StatusInternalServerError, "failed to delete webhook", err)
		return
	}

	s.hookCache.InvalidateCache(r.Context(), userID)
	w.WriteHeader(http.StatusNoContent)
}
