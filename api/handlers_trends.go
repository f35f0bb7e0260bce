package api

import (
	"net/http"

	"github.com/friendsofgo/errors"

	"bazaar-radar/sources"
)

func (s *Server) handleTrendSearch(w http.ResponseWriter, r *http.Request) {
	keyword := r.URL.Query().Get("keyword")
	if keyword == "" {
		http.Error(w, "keyword is required", http.StatusBadRequest)
		return
	}
	country := r.URL.Query().Get("country")
	if country == "" {
		country = "IN"
	}

	trend, err := s.trends.TrendScore(r.Context(), keyword, country)
	switch {
	case errors.Is(err, sources.ErrKeywordTooShort):
		http.Error(w, "keyword too short", http.StatusBadRequest)
		return
	case errors.Is(err, sources.ErrNoTrend):
		respondJSON(w, http.StatusOK, sources.TrendScore{Keyword: keyword, Score: 0, Status: "no_trend"})
		return
	case err != nil:
		s.respondWithError(w, http.StatusBadGateway, "trend source unavailable", err)
		return
	}
	respondJSON(w, http.StatusOK, trend)
}

func (s *Server) handleIndustryTrends(w http.ResponseWriter, r *http.Request) {
	industry := r.PathValue("industry")
	country := r.URL.Query().Get("country")
	if country == "" {
		country = "IN"
	}

	trends, err := s.industry.ScanIndustry(r.Context(), industry, country)
	if err != nil {
		http.Error(w, "unknown industry", http.StatusNotFound)
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"industry": industry,
		"trends":   trends,
	})
}

func (s *Server) handleRunPipeline(w http.ResponseWriter, r *http.Request) {
	created, err := s.pipeline.RunForAllActiveUsers(r.Context())
	if err != nil {
		s.respondWithError(w, http.StatusInternalServerError, "pipeline run failed", err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{"alerts_created": created})
}
