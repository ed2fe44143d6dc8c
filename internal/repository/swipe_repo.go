package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/oggyb/elite-connect/internal/db"
	"github.com/oggyb/elite-connect/internal/utils/pagination"
)

// SwipeRepository provides data access for like/pass decisions.
type SwipeRepository struct {
	db *gorm.DB
}

// NewSwipeRepository creates a new repository bound to the given DB connection.
func NewSwipeRepository(database *gorm.DB) *SwipeRepository {
	return &SwipeRepository{db: database}
}

// Create records actor's decision on target.
//
// Behavior:
//   - Swipes are immutable; a second decision on the same pair violates the
//     composite primary key and surfaces as gorm.ErrDuplicatedKey.
//
// Example:
//
//	repo.Create(ctx, 1, 2, db.ActionLike) // user 1 liked user 2
func (r *SwipeRepository) Create(ctx context.Context, actorID, targetID uint64, action db.SwipeAction) error {
	swipe := db.Swipe{
		ActorID:  actorID,
		TargetID: targetID,
		Action:   action,
	}
	return r.db.WithContext(ctx).Create(&swipe).Error
}

// HasLiked checks whether actor has liked target.
//
// Example:
//
//	repo.HasLiked(ctx, 1, 2) // -> true if user 1 liked user 2
func (r *SwipeRepository) HasLiked(ctx context.Context, actorID, targetID uint64) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&db.Swipe{}).
		Where("actor_id = ? AND target_id = ? AND action = ?", actorID, targetID, db.ActionLike).
		Count(&count).Error
	return count > 0, err
}

// SwipedTargets is a subquery selecting every target actor has already
// decided on. Used to exclude them from discovery.
func (r *SwipeRepository) SwipedTargets(actorID uint64) *gorm.DB {
	return r.db.Model(&db.Swipe{}).Select("target_id").Where("actor_id = ?", actorID)
}

// GetLikers returns swipes of people who liked target.
//
// Behavior:
//   - Only likes are returned.
//   - Excludes actors that target explicitly passed.
//   - Ordered by created_at DESC, actor_id DESC.
//   - Keyset pagination; the returned token is empty on the last page.
//
// Example:
//
//	repo.GetLikers(ctx, 42, "", 20) // first 20 people who liked user 42
func (r *SwipeRepository) GetLikers(ctx context.Context, targetID uint64, token string, limit int) ([]db.Swipe, string, error) {
	query := r.likersQuery(ctx, targetID)
	return r.page(query, token, limit)
}

// GetNewLikers is GetLikers minus the people target already liked back.
//
// Example:
//
//	repo.GetNewLikers(ctx, 42, "", 20) // one-way likes waiting for user 42
func (r *SwipeRepository) GetNewLikers(ctx context.Context, targetID uint64, token string, limit int) ([]db.Swipe, string, error) {
	likedBack := r.db.
		Table("swipes s3").
		Select("1").
		Where("s3.actor_id = s.target_id AND s3.target_id = s.actor_id AND s3.action = ?", db.ActionLike)

	query := r.likersQuery(ctx, targetID).Where("NOT EXISTS (?)", likedBack)
	return r.page(query, token, limit)
}

// CountLikers returns how many people liked target, excluding those target passed.
// Used behind the Redis counter (DB is the fallback).
func (r *SwipeRepository) CountLikers(ctx context.Context, targetID uint64) (int64, error) {
	var count int64
	if err := r.likersQuery(ctx, targetID).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *SwipeRepository) likersQuery(ctx context.Context, targetID uint64) *gorm.DB {
	passed := r.db.
		Table("swipes s2").
		Select("1").
		Where("s2.actor_id = ? AND s2.target_id = s.actor_id AND s2.action = ?", targetID, db.ActionPass)

	return r.db.WithContext(ctx).
		Table("swipes s").
		Where("s.target_id = ? AND s.action = ?", targetID, db.ActionLike).
		Where("NOT EXISTS (?)", passed)
}

func (r *SwipeRepository) page(query *gorm.DB, token string, limit int) ([]db.Swipe, string, error) {
	cursor, err := pagination.Decode(token)
	if err != nil {
		return nil, "", err
	}

	if !cursor.IsZero() {
		ts := cursor.CreatedAt()
		query = query.Where(
			"(s.created_at < ? OR (s.created_at = ? AND s.actor_id < ?))",
			ts, ts, cursor.ActorID,
		)
	}

	var swipes []db.Swipe
	err = query.
		Select("s.*").
		Order("s.created_at DESC, s.actor_id DESC").
		Limit(limit + 1).
		Find(&swipes).Error
	if err != nil {
		return nil, "", err
	}

	var next string
	if len(swipes) > limit {
		last := swipes[limit-1]
		next, _ = pagination.Encode(pagination.At(last.CreatedAt, last.ActorID))
		swipes = swipes[:limit]
	}
	return swipes, next, nil
}
