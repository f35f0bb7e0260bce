package app

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/friendsofgo/errors"
	"go.uber.org/zap"

	"bazaar-radar/api"
	"bazaar-radar/cache"
	"bazaar-radar/config"
	"bazaar-radar/database"
	"bazaar-radar/database/alerts"
	"bazaar-radar/database/signals"
	"bazaar-radar/database/users"
	"bazaar-radar/notifications"
	"bazaar-radar/realtime"
	"bazaar-radar/sources"
)

// App represents the main application
type App struct {
	config *config.Config
	logger *zap.SugaredLogger

	db       *database.Database
	redis    *cache.RedisClient
	pipeline *Pipeline
	hub      *realtime.Hub
	server   *api.Server
}

// New creates a new application instance
func New(cfg *config.Config, logger *zap.SugaredLogger) *App {
	return &App{
		config: cfg,
		logger: logger,
	}
}

// Start wires the application together and blocks until a shutdown signal
// arrives.
func (a *App) Start() error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// 1. Database
	a.logger.Infow("connecting to database")
	db, err := database.Connect(a.config.DatabaseURL, a.config.SQLitePath)
	if err != nil {
		return errors.Wrap(err, "database connection failed")
	}
	a.db = db
	defer a.db.Close()

	if err := a.db.InitSchema(); err != nil {
		return errors.Wrap(err, "schema initialization failed")
	}

	// 2. Redis (optional)
	a.redis = cache.NewRedisClient(a.config.RedisHost, a.config.RedisPort, a.config.RedisPassword, a.logger)
	if a.redis == nil {
		a.logger.Warnw("redis unavailable, caching disabled")
	} else {
		defer a.redis.Close()
	}

	// 3. Repositories
	userRepo := users.NewRepository(a.db.DB())
	alertRepo := alerts.NewRepository(a.db.DB())
	signalRepo := signals.NewRepository(a.db.DB())

	// 4. Signal sources
	timeout := time.Duration(a.config.SourceTimeoutSeconds) * time.Second
	weather := sources.NewWeatherClient(a.config.OpenWeatherAPIKey, timeout, a.redis, a.logger)
	holidays := sources.NewHolidayClient(a.config.CalendarificAPIKey, timeout, a.redis, a.logger)
	gdelt := sources.NewGDELTClient(timeout, a.redis, a.logger)
	newsapi := sources.NewNewsAPIClient(a.config.NewsAPIKey, timeout, a.redis, a.logger)

	collector := NewCollector(weather, holidays, gdelt, newsapi, a.logger)

	// 5. Pipeline stages
	detector := NewDemandDetector(a.logger)
	advisor := NewPromotionTimingAdvisor(a.logger)
	scorer := NewOpportunityScorer(a.config.ModelPath, a.logger)
	dedup := NewDeduplicator(a.logger)

	// 6. Alert sinks
	a.hub = realtime.NewHub(a.logger)
	webhooks := notifications.NewWebhookManager(alertRepo, a.redis, a.logger)

	a.pipeline = NewPipeline(
		collector, detector, advisor, scorer, dedup,
		userRepo, alertRepo, signalRepo,
		[]AlertSink{a.hub, webhooks},
		a.logger,
	)

	// 7. API server
	a.server = api.NewServer(userRepo, alertRepo, collector, collector, a.pipeline, alertRepo, webhooks, a.hub, a.logger)
	go func() {
		if err := a.server.Start(a.config.ServerPort); err != nil {
			a.logger.Errorw("api server failed", "error", err)
			cancel()
		}
	}()

	// 8. Scheduled pipeline sweeps
	go a.runScheduler(ctx)

	// 9. Wait for shutdown
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		a.logger.Infow("shutdown signal received", "signal", sig)
	case <-ctx.Done():
	}

	return a.shutdown()
}

// runScheduler runs the pipeline for all active users on the configured
// interval, starting with an immediate sweep.
func (a *App) runScheduler(ctx context.Context) {
	interval := time.Duration(a.config.AlertCheckIntervalMinutes) * time.Minute
	a.logger.Infow("alert scheduler started", "interval", interval)

	if _, err := a.pipeline.RunForAllActiveUsers(ctx); err != nil {
		a.logger.Errorw("initial pipeline sweep failed", "error", err)
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			a.logger.Infow("alert scheduler stopped")
			return
		case <-ticker.C:
			if _, err := a.pipeline.RunForAllActiveUsers(ctx); err != nil {
				a.logger.Errorw("scheduled pipeline sweep failed", "error", err)
			}
		}
	}
}

func (a *App) shutdown() error {
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := a.server.Shutdown(shutdownCtx); err != nil {
		a.logger.Warnw("api server shutdown failed", "error", err)
	}
	a.hub.Shutdown()
	a.logger.Infow("shutdown complete")
	return nil
}
