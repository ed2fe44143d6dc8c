package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/oggyb/elite-connect/internal/db"
)

// TransactionRepository provides data access for payment intents and receipts.
type TransactionRepository struct {
	db *gorm.DB
}

// NewTransactionRepository creates a new repository bound to the given DB connection.
func NewTransactionRepository(database *gorm.DB) *TransactionRepository {
	return &TransactionRepository{db: database}
}

// Create stores a new pending transaction.
func (r *TransactionRepository) Create(ctx context.Context, tx *db.Transaction) error {
	return r.db.WithContext(ctx).Create(tx).Error
}

// FindByReference looks up a transaction owned by userID.
func (r *TransactionRepository) FindByReference(ctx context.Context, userID uint64, reference string) (*db.Transaction, error) {
	var tx db.Transaction
	err := r.db.WithContext(ctx).
		Where("reference = ? AND user_id = ?", reference, userID).
		First(&tx).Error
	if err != nil {
		return nil, err
	}
	return &tx, nil
}

// MarkVerified moves an unverified transaction to completed. It returns false
// if another request verified it first; the flag never goes back to false.
func (r *TransactionRepository) MarkVerified(ctx context.Context, id uint64, externalID string, now time.Time) (bool, error) {
	updates := map[string]any{
		"status":      db.TransactionCompleted,
		"verified":    true,
		"verified_at": now,
	}
	if externalID != "" {
		updates["external_transaction_id"] = externalID
	}
	res := r.db.WithContext(ctx).
		Model(&db.Transaction{}).
		Where("id = ? AND verified = ?", id, false).
		Updates(updates)
	return res.RowsAffected > 0, res.Error
}

// MarkFailed records a rejected verification. Verified rows are left alone.
func (r *TransactionRepository) MarkFailed(ctx context.Context, id uint64) error {
	return r.db.WithContext(ctx).
		Model(&db.Transaction{}).
		Where("id = ? AND verified = ?", id, false).
		Update("status", db.TransactionFailed).Error
}
