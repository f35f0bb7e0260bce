// Package api exposes the HTTP surface: alert listing and status updates,
// tracked keyword management, trend lookups, pipeline triggering and the
// websocket alert stream.
package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"

	"bazaar-radar/database/alerts"
	models "bazaar-radar/database/models_pkg"
	"bazaar-radar/database/types"
	"bazaar-radar/database/users"
	"bazaar-radar/realtime"
	"bazaar-radar/sources"
)

// Server handles HTTP API requests
type Server struct {
	users     *users.Repository
	alerts    *alerts.Repository
	trends    TrendSource
	industry  IndustryScanner
	pipeline  PipelineRunner
	webhooks  WebhookRegistry
	hookCache HookCacheInvalidator
	hub       *realtime.Hub
	logger    *zap.SugaredLogger

	httpServer *http.Server
}

// TrendSource resolves a trend score for one keyword.
type TrendSource interface {
	TrendScore(ctx context.Context, keyword, country string) (sources.TrendScore, error)
}

// PipelineRunner triggers on-demand pipeline runs.
type PipelineRunner interface {
	RunForAllActiveUsers(ctx context.Context) (int, error)
}

// IndustryScanner scans a market category's lexicon for trending keywords.
type IndustryScanner interface {
	ScanIndustry(ctx context.Context, industry, country string) ([]types.IndustryTrend, error)
}

// WebhookRegistry manages a user's configured webhook endpoints.
type WebhookRegistry interface {
	ListWebhooks(ctx context.Context, userID uint) ([]models.AlertWebhook, error)
	AddWebhook(ctx context.Context, hook *models.AlertWebhook) error
	DeleteWebhook(ctx context.Context, userID, hookID uint) error
}

// HookCacheInvalidator drops the cached active-hook list after webhook
// configuration changes.
type HookCacheInvalidator interface {
	InvalidateCache(ctx context.Context, userID uint)
}

// NewServer creates a new API server instance
func NewServer(
	userRepo *users.Repository,
	alertRepo *alerts.Repository,
	trends TrendSource,
	industry IndustryScanner,
	pipeline PipelineRunner,
	webhooks WebhookRegistry,
	hookCache HookCacheInvalidator,
	hub *realtime.Hub,
	logger *zap.SugaredLogger,
) *Server {
	return &Server{
		users:     userRepo,
		alerts:    alertRepo,
		trends:    trends,
		industry:  industry,
		pipeline:  pipeline,
		webhooks:  webhooks,
		hookCache: hookCache,
		hub:       hub,
		logger:    logger,
	}
}

// Start starts the HTTP server on the specified port and blocks until the
// server stops.
func (s *Server) Start(port int) error {
	mux := http.NewServeMux()

	// Alert routes
	mux.HandleFunc("GET /api/alerts", s.handleListAlerts)
	mux.HandleFunc("PATCH /api/alerts/{id}/status", s.handleUpdateAlertStatus)

	// Tracked keyword routes
	mux.HandleFunc("GET /api/keywords", s.handleListKeywords)
	mux.HandleFunc("POST /api/keywords", s.handleAddKeyword)
	mux.HandleFunc("DELETE /api/keywords/{id}", s.handleDeleteKeyword)

	// Trend routes
	mux.HandleFunc("GET /api/trends/search", s.handleTrendSearch)
	mux.HandleFunc("GET /api/trends/industry/{industry}", s.handleIndustryTrends)

	// Webhook routes
	mux.HandleFunc("GET /api/webhooks", s.handleListWebhooks)
	mux.HandleFunc("POST /api/webhooks", s.handleAddWebhook)
	mux.HandleFunc("DELETE /api/webhooks/{id}", s.handleDeleteWebhook)

	// Pipeline trigger
	mux.HandleFunc("POST /api/pipeline/run", s.handleRunPipeline)

	// Realtime alert stream
	mux.HandleFunc("GET /ws/alerts", s.handleAlertStream)

	mux.HandleFunc("GET /health", s.handleHealth)
	mux.HandleFunc("GET /api/health", s.handleHealth)

	handler := s.corsMiddleware(s.loggingMiddleware(mux))

	s.httpServer = &http.Server{
		Addr:    fmt.Sprintf("0.0.0.0:%d", port),
		Handler: handler,
	}

	s.logger.Infow("api server starting", "addr", s.httpServer.Addr)
	err := s.httpServer.ListenAndServe()
	if err == http.ErrServerClosed {
		return nil
	}
	return err
}

// Shutdown stops the HTTP server gracefully.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.httpServer == nil {
		return nil
	}
	return s.httpServer.Shutdown(ctx)
}

// Middleware
func (s *Server) corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PATCH, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		s.logger.Debugw("request handled", "method", r.Method, "path", r.URL.Path, "duration", time.Since(start))
	})
}
