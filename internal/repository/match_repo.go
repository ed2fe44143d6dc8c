package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/oggyb/elite-connect/internal/db"
)

// MatchRepository provides data access for mutual-like pairs.
type MatchRepository struct {
	db *gorm.DB
}

// NewMatchRepository creates a new repository bound to the given DB connection.
func NewMatchRepository(database *gorm.DB) *MatchRepository {
	return &MatchRepository{db: database}
}

// CreateMatched stores a matched, chat-locked pair and returns it.
//
// Behavior:
//   - The pair is normalised (User1ID < User2ID) before insert.
//   - If the pair already exists the insert is skipped and the existing row
//     is returned with created=false, so two racing reciprocal likes yield one match.
func (r *MatchRepository) CreateMatched(ctx context.Context, a, b uint64) (match *db.Match, created bool, err error) {
	lo, hi := db.OrderedPair(a, b)
	m := db.Match{
		User1ID: lo,
		User2ID: hi,
		Status:  db.MatchMatched,
	}
	res := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user1_id"}, {Name: "user2_id"}},
			DoNothing: true,
		}).
		Create(&m)
	if res.Error != nil {
		return nil, false, res.Error
	}

	var stored db.Match
	err = r.db.WithContext(ctx).
		Where("user1_id = ? AND user2_id = ?", lo, hi).
		First(&stored).Error
	if err != nil {
		return nil, false, err
	}
	return &stored, res.RowsAffected > 0, nil
}

func (r *MatchRepository) FindByID(ctx context.Context, id uint64) (*db.Match, error) {
	var m db.Match
	if err := r.db.WithContext(ctx).First(&m, id).Error; err != nil {
		return nil, err
	}
	return &m, nil
}

// ListUnlockedForUser returns matched, chat-unlocked matches involving userID,
// newest first.
func (r *MatchRepository) ListUnlockedForUser(ctx context.Context, userID uint64) ([]db.Match, error) {
	var matches []db.Match
	err := r.db.WithContext(ctx).
		Where("(user1_id = ? OR user2_id = ?)", userID, userID).
		Where("status = ? AND chat_unlocked = ?", db.MatchMatched, true).
		Order("created_at DESC, id DESC").
		Find(&matches).Error
	return matches, err
}

// Unlock opens chat on the match. Idempotent.
func (r *MatchRepository) Unlock(ctx context.Context, id uint64) error {
	return r.db.WithContext(ctx).
		Model(&db.Match{}).
		Where("id = ?", id).
		Update("chat_unlocked", true).Error
}
