package repository

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/oggyb/elite-connect/internal/db"
)

// SubscriptionRepository owns the quota counters. Every mutation is a single
// conditional UPDATE so concurrent callers cannot overspend.
type SubscriptionRepository struct {
	db *gorm.DB
}

// NewSubscriptionRepository creates a new repository bound to the given DB connection.
func NewSubscriptionRepository(database *gorm.DB) *SubscriptionRepository {
	return &SubscriptionRepository{db: database}
}

// Ensure inserts the default free subscription unless one already exists.
func (r *SubscriptionRepository) Ensure(ctx context.Context, userID uint64, freeLimit int) error {
	sub := db.Subscription{
		UserID:               userID,
		Type:                 db.SubscriptionFree,
		FreeConnectionsLimit: freeLimit,
	}
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}},
			DoNothing: true,
		}).
		Create(&sub).Error
}

// ExpireIfNeeded demotes an unlimited subscription whose expiry has passed.
// Returns whether a row changed.
func (r *SubscriptionRepository) ExpireIfNeeded(ctx context.Context, userID uint64, now time.Time) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&db.Subscription{}).
		Where("user_id = ? AND expires_at IS NOT NULL AND expires_at < ?", userID, now).
		Where("(is_active = ? OR type <> ?)", true, db.SubscriptionFree).
		Updates(map[string]any{
			"is_active": false,
			"type":      db.SubscriptionFree,
		})
	return res.RowsAffected > 0, res.Error
}

// FindByUserID returns gorm.ErrRecordNotFound when no subscription exists yet.
func (r *SubscriptionRepository) FindByUserID(ctx context.Context, userID uint64) (*db.Subscription, error) {
	var sub db.Subscription
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&sub).Error; err != nil {
		return nil, err
	}
	return &sub, nil
}

// Activate grants the unlimited entitlement from startedAt to expiresAt,
// replacing whatever window was there before.
func (r *SubscriptionRepository) Activate(ctx context.Context, userID uint64, startedAt, expiresAt time.Time) error {
	return r.db.WithContext(ctx).
		Model(&db.Subscription{}).
		Where("user_id = ?", userID).
		Updates(map[string]any{
			"type":       db.SubscriptionMonthlyUnlimited,
			"is_active":  true,
			"started_at": startedAt,
			"expires_at": expiresAt,
		}).Error
}

// ConsumeUnlimited counts one connection against an active, unexpired
// entitlement. Returns false when there was none.
func (r *SubscriptionRepository) ConsumeUnlimited(ctx context.Context, userID uint64, now time.Time) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&db.Subscription{}).
		Where("user_id = ? AND is_active = ? AND expires_at > ?", userID, true, now).
		Update("total_connections_used", gorm.Expr("total_connections_used + 1"))
	return res.RowsAffected > 0, res.Error
}

// ConsumeFree spends one free connection. Returns false when the quota is exhausted.
func (r *SubscriptionRepository) ConsumeFree(ctx context.Context, userID uint64) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&db.Subscription{}).
		Where("user_id = ? AND free_connections_used < free_connections_limit", userID).
		Updates(map[string]any{
			"free_connections_used":  gorm.Expr("free_connections_used + 1"),
			"total_connections_used": gorm.Expr("total_connections_used + 1"),
		})
	return res.RowsAffected > 0, res.Error
}
