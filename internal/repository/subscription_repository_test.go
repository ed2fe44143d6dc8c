package repository_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oggyb/elite-connect/internal/db"
	svcErr "github.com/oggyb/elite-connect/internal/errors"
	"github.com/oggyb/elite-connect/internal/repository"
	"github.com/oggyb/elite-connect/internal/testutil"
)

func TestSubscriptionFreeQuota(t *testing.T) {
	ctx := context.Background()
	repo := repository.NewSubscriptionRepository(testutil.NewDB(t))

	require.NoError(t, repo.Ensure(ctx, 1, 2))
	require.NoError(t, repo.Ensure(ctx, 1, 5), "second ensure is a no-op")

	sub, err := repo.FindByUserID(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, 2, sub.FreeConnectionsLimit)
	assert.Equal(t, db.SubscriptionFree, sub.Type)

	for i := 0; i < 2; i++ {
		ok, err := repo.ConsumeFree(ctx, 1)
		require.NoError(t, err)
		assert.True(t, ok)
	}
	ok, err := repo.ConsumeFree(ctx, 1)
	require.NoError(t, err)
	assert.False(t, ok, "quota exhausted")

	sub, err = repo.FindByUserID(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, 2, sub.FreeConnectionsUsed)
	assert.Equal(t, 2, sub.TotalConnectionsUsed)
}

func TestSubscriptionZeroLimit(t *testing.T) {
	ctx := context.Background()
	repo := repository.NewSubscriptionRepository(testutil.NewDB(t))

	require.NoError(t, repo.Ensure(ctx, 1, 0))
	sub, err := repo.FindByUserID(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, 0, sub.FreeConnectionsLimit)

	ok, err := repo.ConsumeFree(ctx, 1)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestSubscriptionUnlimitedAndExpiry(t *testing.T) {
	ctx := context.Background()
	repo := repository.NewSubscriptionRepository(testutil.NewDB(t))
	now := time.Now().UTC().Truncate(time.Millisecond)

	require.NoError(t, repo.Ensure(ctx, 1, 2))
	require.NoError(t, repo.Activate(ctx, 1, now, now.Add(time.Hour)))

	ok, err := repo.ConsumeUnlimited(ctx, 1, now)
	require.NoError(t, err)
	assert.True(t, ok)

	changed, err := repo.ExpireIfNeeded(ctx, 1, now)
	require.NoError(t, err)
	assert.False(t, changed, "not yet expired")

	later := now.Add(2 * time.Hour)
	ok, err = repo.ConsumeUnlimited(ctx, 1, later)
	require.NoError(t, err)
	assert.False(t, ok, "expired entitlement cannot be spent")

	changed, err = repo.ExpireIfNeeded(ctx, 1, later)
	require.NoError(t, err)
	assert.True(t, changed)

	sub, err := repo.FindByUserID(ctx, 1)
	require.NoError(t, err)
	assert.False(t, sub.IsActive)
	assert.Equal(t, db.SubscriptionFree, sub.Type)
	assert.Equal(t, 1, sub.TotalConnectionsUsed)
	assert.Equal(t, 0, sub.FreeConnectionsUsed)
}

func TestTransactionVerification(t *testing.T) {
	ctx := context.Background()
	repo := repository.NewTransactionRepository(testutil.NewDB(t))
	now := time.Now().UTC().Truncate(time.Millisecond)

	tx := db.Transaction{
		UserID:    1,
		Reference: "ref1",
		Amount:    decimal.NewFromInt(5),
		Type:      db.TransactionSubscription,
		Status:    db.TransactionPending,
	}
	require.NoError(t, repo.Create(ctx, &tx))

	dup := tx
	dup.ID = 0
	err := repo.Create(ctx, &dup)
	assert.True(t, svcErr.IsDuplicate(err), "reference is unique")

	_, err = repo.FindByReference(ctx, 2, "ref1")
	assert.Error(t, err, "other owners cannot see it")

	ok, err := repo.MarkVerified(ctx, tx.ID, "0xtx", now)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = repo.MarkVerified(ctx, tx.ID, "0xtx", now)
	require.NoError(t, err)
	assert.False(t, ok, "verified at most once")

	require.NoError(t, repo.MarkFailed(ctx, tx.ID))
	got, err := repo.FindByReference(ctx, 1, "ref1")
	require.NoError(t, err)
	assert.True(t, got.Verified)
	assert.Equal(t, db.TransactionCompleted, got.Status)
	require.NotNil(t, got.ExternalTransactionID)
	assert.Equal(t, "0xtx", *got.ExternalTransactionID)
	assert.True(t, got.Amount.Equal(decimal.NewFromInt(5)))
}
