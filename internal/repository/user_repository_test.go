package repository_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/oggyb/elite-connect/internal/db"
	"github.com/oggyb/elite-connect/internal/repository"
	"github.com/oggyb/elite-connect/internal/testutil"
)

func TestUpsertByNullifier(t *testing.T) {
	ctx := context.Background()
	repo := repository.NewUserRepository(testutil.NewDB(t))
	now := time.Now().UTC().Truncate(time.Millisecond)

	first, err := repo.UpsertByNullifier(ctx, "0xabc", db.VerificationDevice, now)
	require.NoError(t, err)
	assert.NotZero(t, first.ID)
	assert.False(t, first.ProfileCompleted)

	second, err := repo.UpsertByNullifier(ctx, "0xabc", db.VerificationOrb, now.Add(time.Minute))
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, db.VerificationOrb, second.VerificationLevel)
	assert.True(t, second.LastLoginAt.After(first.LastLoginAt))

	other, err := repo.UpsertByNullifier(ctx, "0xdef", db.VerificationOrb, now)
	require.NoError(t, err)
	assert.NotEqual(t, first.ID, other.ID)
}

func TestUserLookups(t *testing.T) {
	ctx := context.Background()
	gdb := testutil.NewDB(t)
	repo := repository.NewUserRepository(gdb)
	u := testutil.CreateUser(t, gdb, 1)

	_, err := repo.FindByID(ctx, 999)
	assert.True(t, errors.Is(err, gorm.ErrRecordNotFound))

	ok, err := repo.Exists(ctx, u.ID)
	require.NoError(t, err)
	assert.True(t, ok)

	require.NoError(t, repo.MarkProfileCompleted(ctx, u.ID))
	require.NoError(t, repo.MarkProfileCompleted(ctx, u.ID))
	got, err := repo.FindByID(ctx, u.ID)
	require.NoError(t, err)
	assert.True(t, got.ProfileCompleted)
}
