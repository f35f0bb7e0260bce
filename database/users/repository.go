// Package users provides database operations for retailer accounts and
// their tracked keywords.
package users

import (
	"context"

	"github.com/friendsofgo/errors"
	"gorm.io/gorm"

	"bazaar-radar/database"
	models "bazaar-radar/database/models_pkg"
)

// Repository handles database operations for users and tracked keywords
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new users repository
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// ActiveUsers returns all active retailer accounts.
func (r *Repository) ActiveUsers(ctx context.Context) ([]models.User, error) {
	var users []models.User
	if err := r.db.WithContext(ctx).Where("is_active = ?", true).Find(&users).Error; err != nil {
		return nil, errors.Wrap(err, "ActiveUsers")
	}
	return users, nil
}

// GetUser returns a single user by id.
func (r *Repository) GetUser(ctx context.Context, id uint) (*models.User, error) {
	var user models.User
	err := r.db.WithContext(ctx).First(&user, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, database.ErrNotFound
	}
	if err != nil {
		return nil, errors.Wrap(err, "GetUser")
	}
	return &user, nil
}

// ActiveKeywords returns the user's active tracked keywords.
func (r *Repository) ActiveKeywords(ctx context.Context, userID uint) ([]models.TrackedKeyword, error) {
	var keywords []models.TrackedKeyword
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND is_active = ?", userID, true).
		Order("created_at ASC").
		Find(&keywords).Error
	if err != nil {
		return nil, errors.Wrap(err, "ActiveKeywords")
	}
	return keywords, nil
}

// ListKeywords returns all tracked keywords for a user, active or not.
func (r *Repository) ListKeywords(ctx context.Context, userID uint) ([]models.TrackedKeyword, error) {
	var keywords []models.TrackedKeyword
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at ASC").
		Find(&keywords).Error
	if err != nil {
		return nil, errors.Wrap(err, "ListKeywords")
	}
	return keywords, nil
}

// AddKeyword adds a tracked keyword for a user. Adding the same keyword
// twice returns ErrDuplicate.
func (r *Repository) AddKeyword(ctx context.Context, kw *models.TrackedKeyword) error {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.TrackedKeyword{}).
		Where("user_id = ? AND keyword = ?", kw.UserID, kw.Keyword).
		Count(&count).Error
	if err != nil {
		return errors.Wrap(err, "AddKeyword.Count")
	}
	if count > 0 {
		return database.ErrDuplicate
	}

	if err := r.db.WithContext(ctx).Create(kw).Error; err != nil {
		return errors.Wrap(err, "AddKeyword.Create")
	}
	return nil
}

// DeleteKeyword removes a tracked keyword owned by the user.
func (r *Repository) DeleteKeyword(ctx context.Context, userID, keywordID uint) error {
	res := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", keywordID, userID).
		Delete(&models.TrackedKeyword{})
	if res.Error != nil {
		return errors.Wrap(res.Error, "DeleteKeyword")
	}
	if res.RowsAffected == 0 {
		return database.ErrNotFound
	}
	return nil
}
