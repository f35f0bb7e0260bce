// Package alerts provides database operations for persisted alerts and
// alert webhooks.
package alerts

import (
	"context"
	"time"

	"github.com/friendsofgo/errors"
	"gorm.io/gorm"

	"bazaar-radar/database"
	models "bazaar-radar/database/models_pkg"
)

// Repository handles database operations for alerts
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new alerts repository
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// OpenAlerts returns the user's alerts still in "new" status. The
// deduplication gate compares new candidates against this set.
func (r *Repository) OpenAlerts(ctx context.Context, userID uint) ([]models.Alert, error) {
	var alerts []models.Alert
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND status = ?", userID, models.StatusNew).
		Find(&alerts).Error
	if err != nil {
		return nil, errors.Wrap(err, "OpenAlerts")
	}
	return alerts, nil
}

// SaveBatch persists one user's surviving alert batch in a single
// transaction. If any insert fails the whole batch rolls back; the run is
// then reported as zero alerts created for that user and retried on the
// next scheduled run.
func (r *Repository) SaveBatch(ctx context.Context, batch []*models.Alert) error {
	if len(batch) == 0 {
		return nil
	}
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, alert := range batch {
			if err := tx.Create(alert).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return errors.Wrap(err, "SaveBatch")
	}
	return nil
}

// ListAlerts returns a user's alerts, optionally filtered by status,
// newest first.
func (r *Repository) ListAlerts(ctx context.Context, userID uint, status models.AlertStatus, limit int) ([]models.Alert, error) {
	query := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC")
	if status != "" {
		query = query.Where("status = ?", status)
	}
	if limit > 0 {
		query = query.Limit(limit)
	}

	var alerts []models.Alert
	if err := query.Find(&alerts).Error; err != nil {
		return nil, errors.Wrap(err, "ListAlerts")
	}
	return alerts, nil
}

// UpdateStatus transitions an alert to a new lifecycle state, stamping the
// matching timestamp.
func (r *Repository) UpdateStatus(ctx context.Context, userID, alertID uint, status models.AlertStatus) error {
	updates := map[string]interface{}{"status": status}
	now := time.Now()
	switch status {
	case models.StatusRead:
		updates["read_at"] = &now
	case models.StatusActed:
		updates["acted_at"] = &now
	}

	res := r.db.WithContext(ctx).Model(&models.Alert{}).
		Where("id = ? AND user_id = ?", alertID, userID).
		Updates(updates)
	if res.Error != nil {
		return errors.Wrap(res.Error, "UpdateStatus")
	}
	if res.RowsAffected == 0 {
		return database.ErrNotFound
	}
	return nil
}

// ActiveWebhooks returns the user's active alert webhooks.
func (r *Repository) ActiveWebhooks(ctx context.Context, userID uint) ([]models.AlertWebhook, error) {
	var hooks []models.AlertWebhook
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND is_active = ?", userID, true).
		Find(&hooks).Error
	if err != nil {
		return nil, errors.Wrap(err, "ActiveWebhooks")
	}
	return hooks, nil
}

// ListWebhooks returns all of the user's webhooks, active or not.
func (r *Repository) ListWebhooks(ctx context.Context, userID uint) ([]models.AlertWebhook, error) {
	var hooks []models.AlertWebhook
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&hooks).Error
	if err != nil {
		return nil, errors.Wrap(err, "ListWebhooks")
	}
	return hooks, nil
}

// AddWebhook registers a new webhook endpoint for a user.
func (r *Repository) AddWebhook(ctx context.Context, hook *models.AlertWebhook) error {
	if err := r.db.WithContext(ctx).Create(hook).Error; err != nil {
		return errors.Wrap(err, "AddWebhook")
	}
	return nil
}

// DeleteWebhook removes one of the user's webhooks.
func (r *Repository) DeleteWebhook(ctx context.Context, userID, hookID uint) error {
	res := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", hookID, userID).
		Delete(&models.AlertWebhook{})
	if res.Error != nil {
		return errors.Wrap(res.Error, "DeleteWebhook")
	}
	if res.RowsAffected == 0 {
		return database.ErrNotFound
	}
	return nil
}
