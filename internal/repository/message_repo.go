package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/oggyb/elite-connect/internal/db"
)

// MessageRepository provides data access for chat messages.
type MessageRepository struct {
	db *gorm.DB
}

// NewMessageRepository creates a new repository bound to the given DB connection.
func NewMessageRepository(database *gorm.DB) *MessageRepository {
	return &MessageRepository{db: database}
}

// Create appends a message to its match.
func (r *MessageRepository) Create(ctx context.Context, m *db.Message) error {
	return r.db.WithContext(ctx).Create(m).Error
}

// ListByMatch returns the conversation oldest first.
func (r *MessageRepository) ListByMatch(ctx context.Context, matchID uint64) ([]db.Message, error) {
	var msgs []db.Message
	err := r.db.WithContext(ctx).
		Where("match_id = ?", matchID).
		Order("created_at ASC, id ASC").
		Find(&msgs).Error
	return msgs, err
}

// LastForMatches returns the newest message of each match, keyed by match id.
// Matches without messages are absent from the map.
func (r *MessageRepository) LastForMatches(ctx context.Context, matchIDs []uint64) (map[uint64]db.Message, error) {
	out := make(map[uint64]db.Message, len(matchIDs))
	if len(matchIDs) == 0 {
		return out, nil
	}

	latest := r.db.
		Model(&db.Message{}).
		Select("MAX(id)").
		Where("match_id IN ?", matchIDs).
		Group("match_id")

	var msgs []db.Message
	if err := r.db.WithContext(ctx).Where("id IN (?)", latest).Find(&msgs).Error; err != nil {
		return nil, err
	}
	for _, m := range msgs {
		out[m.MatchID] = m
	}
	return out, nil
}

// MarkRead flags every unread message in the match not sent by readerID.
func (r *MessageRepository) MarkRead(ctx context.Context, matchID, readerID uint64) (int64, error) {
	res := r.db.WithContext(ctx).
		Model(&db.Message{}).
		Where("match_id = ? AND sender_id <> ? AND is_read = ?", matchID, readerID, false).
		Update("is_read", true)
	return res.RowsAffected, res.Error
}
