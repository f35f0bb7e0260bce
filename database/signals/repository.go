// Package signals provides database operations for historical demand
// signal records.
package signals

import (
	"context"
	"time"

	"github.com/friendsofgo/errors"
	"gorm.io/gorm"

	models "bazaar-radar/database/models_pkg"
)

// Repository handles database operations for demand signal history
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new signals repository
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// RecordRun persists the normalized signals observed during one pipeline
// run. History rows feed later analysis and model training; failures here
// never abort alert generation.
func (r *Repository) RecordRun(ctx context.Context, records []models.DemandSignal) error {
	if len(records) == 0 {
		return nil
	}
	if err := r.db.WithContext(ctx).Create(&records).Error; err != nil {
		return errors.Wrap(err, "RecordRun")
	}
	return nil
}

// RecentSignals returns signal history for a keyword within the lookback
// window, newest first.
func (r *Repository) RecentSignals(ctx context.Context, keyword string, since time.Time, limit int) ([]models.DemandSignal, error) {
	query := r.db.WithContext(ctx).
		Where("keyword = ?", keyword).
		Order("timestamp DESC")
	if !since.IsZero() {
		query = query.Where("timestamp >= ?", since)
	}
	if limit > 0 {
		query = query.Limit(limit)
	}

	var records []models.DemandSignal
	if err := query.Find(&records).Error; err != nil {
		return nil, errors.Wrap(err, "RecentSignals")
	}
	return records, nil
}
