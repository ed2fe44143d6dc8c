package app

import (
	"log/slog"
	"time"

	"gorm.io/gorm"

	"github.com/oggyb/elite-connect/internal/auth"
	"github.com/oggyb/elite-connect/internal/cache"
	"github.com/oggyb/elite-connect/internal/config"
	"github.com/oggyb/elite-connect/internal/payment"
)

// AppContext holds shared dependencies (DB, Redis, Logger, verifiers, etc.)
type AppContext struct {
	Config     *config.Config
	DB         *gorm.DB
	RedisCache *cache.RedisCache
	Logger     *slog.Logger

	Tokens   *auth.Issuer
	Proofs   auth.ProofVerifier
	Payments payment.Verifier

	// Now is the clock used for expiries; tests replace it.
	Now func() time.Time
}

// New creates a new AppContext with the external verifiers picked from cfg.
func New(cfg *config.Config, db *gorm.DB, rdb *cache.RedisCache, logger *slog.Logger) *AppContext {
	var proofs auth.ProofVerifier = auth.NewWorldIDVerifier(cfg.World.APIURL, cfg.World.AppID, cfg.World.Action)
	if cfg.Auth.SkipProofVerification {
		proofs = auth.TrustingVerifier{}
	}

	var payments payment.Verifier = payment.StubVerifier{}
	if cfg.Payment.Verifier == "worldcoin" {
		payments = payment.NewWorldcoinVerifier(cfg.World.APIURL, cfg.World.AppID, cfg.World.APIKey)
	}

	return &AppContext{
		Config:     cfg,
		DB:         db,
		RedisCache: rdb,
		Logger:     logger,
		Tokens:     auth.NewIssuer(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL),
		Proofs:     proofs,
		Payments:   payments,
		Now:        func() time.Time { return time.Now().UTC() },
	}
}
