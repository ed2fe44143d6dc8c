// Package testutil builds isolated dependencies for package tests:
// a shared-cache in-memory SQLite database, a miniredis instance and an
// AppContext wired to both.
package testutil

import (
	"fmt"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/oggyb/elite-connect/internal/app"
	"github.com/oggyb/elite-connect/internal/cache"
	"github.com/oggyb/elite-connect/internal/config"
	"github.com/oggyb/elite-connect/internal/db"
)

const JWTSecret = "test-secret"

var dbNames = strings.NewReplacer("/", "_", " ", "_")

// NewDB opens a fresh in-memory SQLite database named after the test and migrates it.
func NewDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", dbNames.Replace(t.Name()))
	database, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		NowFunc:                func() time.Time { return time.Now().UTC().Truncate(time.Millisecond) },
		SkipDefaultTransaction: true,
		TranslateError:         true,
		Logger:                 gormlogger.Discard,
	})
	require.NoError(t, err)

	sqlDB, err := database.DB()
	require.NoError(t, err)
	// one connection keeps the shared in-memory database alive and serialises writers
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, db.Migrate(database))
	return database
}

// NewRedis starts a miniredis and returns a cache client bound to it.
func NewRedis(t *testing.T) (*cache.RedisCache, *miniredis.Miniredis) {
	t.Helper()

	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	cfg := &config.Config{}
	cfg.Redis.Addr = mr.Addr()
	rc := cache.NewRedisCache(cfg)
	t.Cleanup(func() { _ = rc.Close() })
	return rc, mr
}

// NewConfig returns the default configuration with test-friendly overrides.
func NewConfig() *config.Config {
	cfg := config.New()
	cfg.App.ENV = "test"
	cfg.DB.Driver = "sqlite"
	cfg.Auth.JWTSecret = JWTSecret
	cfg.Auth.TokenTTL = time.Hour
	cfg.World.AppID = "app_test"
	cfg.Quota.FreeConnections = 2
	cfg.Quota.SubscriptionPrice = "5"
	cfg.Quota.SubscriptionDays = 30
	cfg.Payment.Verifier = "stub"
	return cfg
}

// Discard is a logger that drops everything.
func Discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// NewAppContext wires a fresh database, Redis and config into an AppContext.
// Each test gets its own isolated DB + Redis.
func NewAppContext(t *testing.T) *app.AppContext {
	t.Helper()
	rc, _ := NewRedis(t)
	return app.New(NewConfig(), NewDB(t), rc, Discard())
}

// CreateUser inserts an identity with a deterministic nullifier.
func CreateUser(t *testing.T, gdb *gorm.DB, n int) *db.User {
	t.Helper()
	u := db.User{
		NullifierHash:     db.SeedNullifier(n),
		VerificationLevel: db.VerificationOrb,
		LastLoginAt:       time.Now().UTC(),
	}
	require.NoError(t, gdb.Create(&u).Error)
	return &u
}

// CreateUserWithProfile inserts an identity plus a complete profile.
func CreateUserWithProfile(t *testing.T, gdb *gorm.DB, n int, name string) *db.User {
	t.Helper()
	u := CreateUser(t, gdb, n)
	p := db.Profile{
		UserID:    u.ID,
		Name:      name,
		Age:       25,
		Gender:    db.GenderOther,
		Interests: []string{"music"},
		Images:    []string{},
	}
	require.NoError(t, gdb.Create(&p).Error)
	require.NoError(t, gdb.Model(u).Update("profile_completed", true).Error)
	return u
}

// CreateMatch stores a matched pair with the given chat state.
func CreateMatch(t *testing.T, gdb *gorm.DB, a, b uint64, unlocked bool) *db.Match {
	t.Helper()
	lo, hi := db.OrderedPair(a, b)
	m := db.Match{User1ID: lo, User2ID: hi, Status: db.MatchMatched, ChatUnlocked: unlocked}
	require.NoError(t, gdb.Create(&m).Error)
	return &m
}
