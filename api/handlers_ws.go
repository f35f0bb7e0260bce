package api

import (
	"net/http"

	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// Browser clients connect from arbitrary dashboard origins.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// handleAlertStream upgrades the connection and subscribes it to the
// user's alert stream.
func (s *Server) handleAlertStream(w http.ResponseWriter, r *http.Request) {
	userID := getUintParam(r, "user_id")
	if userID == 0 {
		http.Error(w, "user_id is required", http.StatusBadRequest)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warnw("websocket upgrade failed", "error", err)
		return
	}
	s.hub.Register(userID, conn)
}
