package repository

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/oggyb/elite-connect/internal/db"
)

// UserRepository provides data access for World ID identities.
type UserRepository struct {
	db *gorm.DB
}

// NewUserRepository creates a new repository bound to the given DB connection.
func NewUserRepository(database *gorm.DB) *UserRepository {
	return &UserRepository{db: database}
}

// UpsertByNullifier creates the identity on first verification, otherwise
// refreshes its verification level and last login.
func (r *UserRepository) UpsertByNullifier(
	ctx context.Context,
	nullifier string,
	level db.VerificationLevel,
	now time.Time,
) (*db.User, error) {
	user := db.User{
		NullifierHash:     nullifier,
		VerificationLevel: level,
		LastLoginAt:       now,
	}
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "nullifier_hash"}},
			DoUpdates: clause.AssignmentColumns([]string{"verification_level", "last_login_at"}),
		}).
		Create(&user).Error
	if err != nil {
		return nil, err
	}

	// the generated id is unreliable after an upsert on some drivers
	var stored db.User
	if err := r.db.WithContext(ctx).Where("nullifier_hash = ?", nullifier).First(&stored).Error; err != nil {
		return nil, err
	}
	return &stored, nil
}

// FindByID returns gorm.ErrRecordNotFound for unknown ids.
func (r *UserRepository) FindByID(ctx context.Context, id uint64) (*db.User, error) {
	var user db.User
	if err := r.db.WithContext(ctx).First(&user, id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// Exists reports whether an identity with id is stored.
func (r *UserRepository) Exists(ctx context.Context, id uint64) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&db.User{}).Where("id = ?", id).Count(&count).Error
	return count > 0, err
}

// MarkProfileCompleted flips profile_completed once; later calls are no-ops.
func (r *UserRepository) MarkProfileCompleted(ctx context.Context, id uint64) error {
	return r.db.WithContext(ctx).
		Model(&db.User{}).
		Where("id = ? AND profile_completed = ?", id, false).
		Update("profile_completed", true).Error
}
