package api

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/friendsofgo/errors"

	"bazaar-radar/database"
	models "bazaar-radar/database/models_pkg"
)

func (s *Server) handleListKeywords(w http.ResponseWriter, r *http.Request) {
	userID := getUintParam(r, "user_id")
	if userID == 0 {
		http.Error(w, "user_id is required", http.StatusBadRequest)
		return
	}

	keywords, err := s.users.ListKeywords(r.Context(), userID)
	if err != nil {
		s.respondWithError(w, http.StatusInternalServerError, "failed to list keywords", err)
		return
	}
	respondJSON(w, http.StatusOK, keywords)
}

func (s *Server) handleAddKeyword(w http.ResponseWriter, r *http.Request) {
	var body struct {
		UserID   uint    `json:"user_id"`
		Keyword  string  `json:"keyword"`
		Category *string `json:"category,omitempty"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	// Keywords are matched case-insensitively downstream; normalize on
	// the way in so duplicates collapse.
	keyword := strings.ToLower(strings.TrimSpace(body.Keyword))
	if body.UserID == 0 || keyword == "" {
		http.Error(w, "user_id and keyword are required", http.StatusBadRequest)
		return
	}

	kw := &models.TrackedKeyword{
		UserID:   body.UserID,
		Keyword:  keyword,
		Category: body.Category,
		IsActive: true,
	}
	err := s.users.AddKeyword(r.Context(), kw)
	if errors.Is(err, database.ErrDuplicate) {
		http.Error(w, "keyword already tracked", http.StatusConflict)
		return
	}
	if err != nil {
		s.respondWithError(w, http.StatusInternalServerError, "failed to add keyword", err)
		return
	}
	respondJSON(w, http.StatusCreated, kw)
}

func (s *Server) handleDeleteKeyword(w http.ResponseWriter, r *http.Request) {
	userID := getUintParam(r, "user_id")
	if userID == 0 {
		http.Error(w, "user_id is required", http.StatusBadRequest)
		return
	}

	keywordID, err := strconv.ParseUint(r.PathValue("id"), 10, 32)
	if err != nil {
		http.Error(w, "Invalid ID", http.StatusBadRequest)
		return
	}

	err = s.users.DeleteKeyword(r.Context(), userID, uint(keywordID))
	if errors.Is(err, database.ErrNotFound) {
		http.Error(w, "keyword not found", http.StatusNotFound)
		return
	}
	if err != nil {
		s.respondWithError(w, http.StatusInternalServerError, "failed to delete keyword", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
