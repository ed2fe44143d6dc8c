package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/oggyb/elite-connect/internal/db"
)

// ProfileRepository provides data access for dating profiles.
type ProfileRepository struct {
	db *gorm.DB
}

// NewProfileRepository creates a new repository bound to the given DB connection.
func NewProfileRepository(database *gorm.DB) *ProfileRepository {
	return &ProfileRepository{db: database}
}

// Upsert creates or replaces the owner's profile in one statement.
//
// Behavior:
//   - Conflict on user_id turns the insert into an update of the editable fields.
//   - Images are only overwritten when replaceImages is set.
//   - Returns the stored row.
func (r *ProfileRepository) Upsert(ctx context.Context, p db.Profile, replaceImages bool) (*db.Profile, error) {
	columns := []string{"name", "age", "gender", "bio", "interests", "location", "updated_at"}
	if replaceImages {
		columns = append(columns, "images")
	}

	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}},
			DoUpdates: clause.AssignmentColumns(columns),
		}).
		Create(&p).Error
	if err != nil {
		return nil, err
	}
	return r.FindByUserID(ctx, p.UserID)
}

// FindByUserID returns gorm.ErrRecordNotFound when the owner has no profile.
func (r *ProfileRepository) FindByUserID(ctx context.Context, userID uint64) (*db.Profile, error) {
	var p db.Profile
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&p).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

// FindByUserIDs returns profiles keyed by owner; owners without a profile are absent.
func (r *ProfileRepository) FindByUserIDs(ctx context.Context, userIDs []uint64) (map[uint64]db.Profile, error) {
	out := make(map[uint64]db.Profile, len(userIDs))
	if len(userIDs) == 0 {
		return out, nil
	}
	var profiles []db.Profile
	if err := r.db.WithContext(ctx).Where("user_id IN ?", userIDs).Find(&profiles).Error; err != nil {
		return nil, err
	}
	for _, p := range profiles {
		out[p.UserID] = p
	}
	return out, nil
}

// ListCandidates returns up to limit profiles the owner has not swiped on,
// never the owner's own.
func (r *ProfileRepository) ListCandidates(ctx context.Context, ownerID uint64, swiped *gorm.DB, limit int) ([]db.Profile, error) {
	var profiles []db.Profile
	err := r.db.WithContext(ctx).
		Where("user_id <> ?", ownerID).
		Where("user_id NOT IN (?)", swiped).
		Order("id").
		Limit(limit).
		Find(&profiles).Error
	return profiles, err
}
