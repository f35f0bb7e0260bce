package api

import (
	"encoding/json"
	"net/http"
	"strconv"
)

// getUintParam retrieves an unsigned integer query parameter. Zero means
// absent or malformed.
func getUintParam(r *http.Request, key string) uint {
	valStr := r.URL.Query().Get(key)
	if valStr == "" {
		return 0
	}
	val, err := strconv.ParseUint(valStr, 10, 32)
	if err != nil {
		return 0
	}
	return uint(val)
}

// getIntParam retrieves an integer query parameter with a default value.
func getIntParam(r *http.Request, key string, defaultVal int) int {
	valStr := r.URL.Query().Get(key)
	if valStr == "" {
		return defaultVal
	}
	val, err := strconv.Atoi(valStr)
	if err != nil {
		return defaultVal
	}
	return val
}

// respondJSON writes a JSON response with the given status code.
func respondJSON(w http.ResponseWriter, code int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(payload)
}

// respondWithError logs the error and sends a plain error response without
// exposing internals.
func (s *Server) respondWithError(w http.ResponseWriter, code int, message string, err error) {
	if err != nil {
		s.logger.Warnw("request failed", "status", code, "message", message, "error", err)
	}
	http.Error(w, message, code)
}
