package api

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/friendsofgo/errors"

	"bazaar-radar/database"
	models "bazaar-radar/database/models_pkg"
)

// handleHealth returns the health status of the API
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleListAlerts(w http.ResponseWriter, r *http.Request) {
	userID := getUintParam(r, "user_id")
	if userID == 0 {
		http.Error(w, "user_id is required", http.StatusBadRequest)
		return
	}

	status := models.AlertStatus(r.URL.Query().Get("status"))
	limit := getIntParam(r, "limit", 50)

	alerts, err := s.alerts.ListAlerts(r.Context(), userID, status, limit)
	if err != nil {
		s.respondWithError(w, http.StatusInternalServerError, "failed to list alerts", err)
		return
	}
	respondJSON(w, http.StatusOK, alerts)
}

var validStatuses = map[models.AlertStatus]bool{
	models.StatusRead:      true,
	models.StatusActed:     true,
	models.StatusDismissed: true,
}

func (s *Server) handleUpdateAlertStatus(w http.ResponseWriter, r *http.Request) {
	userID := getUintParam(r, "user_id")
	if userID == 0 {
		http.Error(w, "user_id is required", http.StatusBadRequest)
		return
	}

	alertID, err := strconv.ParseUint(r.PathValue("id"), 10, 32)
	if err != nil {
		http.Error(w, "Invalid ID", http.StatusBadRequest)
		return
	}

	var body struct {
		Status models.AlertStatus `json:"status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if !validStatuses[body.Status] {
		http.Error(w, "status must be read, acted or dismissed", http.StatusBadRequest)
		return
	}

	err = s.alerts.UpdateStatus(r.Context(), userID, uint(alertID), body.Status)
	if errors.Is(err, database.ErrNotFound) {
		http.Error(w, "alert not found", http.StatusNotFound)
		return
	}
	if err != nil {
		s.respondWithError(w, http.StatusInternalServerError, "failed to update alert", err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{"id": alertID, "status": body.Status})
}
