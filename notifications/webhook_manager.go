// Package notifications delivers committed alerts to user-configured
// webhook endpoints.
package notifications

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"

	"bazaar-radar/cache"
	models "bazaar-radar/database/models_pkg"
)

const (
	deliveryTimeout = 10 * time.Second
	hookCacheTTL    = time.Hour
)

// WebhookStore loads a user's active webhook endpoints.
type WebhookStore interface {
	ActiveWebhooks(ctx context.Context, userID uint) ([]models.AlertWebhook, error)
}

// WebhookManager posts committed alerts to each of the owning user's
// active webhooks. The active-hook list is cached so the pipeline sweep
// does not hit the database once per alert. It satisfies the pipeline's
// AlertSink.
type WebhookManager struct {
	store  WebhookStore
	redis  *cache.RedisClient
	client *http.Client
	logger *zap.SugaredLogger
}

// NewWebhookManager creates a webhook delivery manager. redis may be nil.
func NewWebhookManager(store WebhookStore, redis *cache.RedisClient, logger *zap.SugaredLogger) *WebhookManager {
	return &WebhookManager{
		store:  store,
		redis:  redis,
		client: &http.Client{Timeout: deliveryTimeout},
		logger: logger,
	}
}

// AlertCreated delivers the alert to the owning user's active webhooks.
// Delivery runs in the background; failures are logged, never retried.
func (m *WebhookManager) AlertCreated(alert *models.Alert) {
	go m.deliver(alert)
}

func (m *WebhookManager) deliver(alert *models.Alert) {
	ctx, cancel := context.WithTimeout(context.Background(), deliveryTimeout)
	defer cancel()

	hooks, err := m.activeHooks(ctx, alert.UserID)
	if err != nil {
		m.logger.Warnw("webhook lookup failed", "user_id", alert.UserID, "error", err)
		return
	}
	if len(hooks) == 0 {
		return
	}

	payload, err := json.Marshal(map[string]interface{}{
		"event": "alert.created",
		"alert": alert,
	})
	if err != nil {
		m.logger.Errorw("webhook payload marshal failed", "alert_id", alert.ID, "error", err)
		return
	}

	for _, hook := range hooks {
		m.post(ctx, hook, payload, alert.ID)
	}
}

func (m *WebhookManager) post(ctx context.Context, hook models.AlertWebhook, payload []byte, alertID uint) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, hook.URL, bytes.NewReader(payload))
	if err != nil {
		m.logger.Warnw("webhook request build failed", "webhook_id", hook.ID, "error", err)
		return
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := m.client.Do(req)
	if err != nil {
		m.logger.Warnw("webhook delivery failed", "webhook_id", hook.ID, "alert_id", alertID, "error", err)
		return
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		m.logger.Warnw("webhook delivery rejected", "webhook_id", hook.ID, "alert_id", alertID, "status", resp.StatusCode)
		return
	}
	m.logger.Debugw("webhook delivered", "webhook_id", hook.ID, "alert_id", alertID)
}

// activeHooks returns the user's active webhooks, served from cache when
// fresh.
func (m *WebhookManager) activeHooks(ctx context.Context, userID uint) ([]models.AlertWebhook, error) {
	cacheKey := fmt.Sprintf("webhooks:active:%d", userID)

	if m.redis != nil {
		var cached []models.AlertWebhook
		if err := m.redis.Get(ctx, cacheKey, &cached); err == nil {
			return cached, nil
		}
	}

	hooks, err := m.store.ActiveWebhooks(ctx, userID)
	if err != nil {
		return nil, err
	}
	if m.redis != nil {
		_ = m.redis.Set(ctx, cacheKey, hooks, hookCacheTTL)
	}
	return hooks, nil
}

// InvalidateCache drops the cached hook list for a user, used after hook
// configuration changes.
func (m *WebhookManager) InvalidateCache(ctx context.Context, userID uint) {
	if m.redis == nil {
		return
	}
	_ = m.redis.Delete(ctx, fmt.Sprintf("webhooks:active:%d", userID))
}
