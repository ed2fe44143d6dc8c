package subscription

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/oggyb/elite-connect/internal/app"
	"github.com/oggyb/elite-connect/internal/db"
	svcErr "github.com/oggyb/elite-connect/internal/errors"
	"github.com/oggyb/elite-connect/internal/logger"
	"github.com/oggyb/elite-connect/internal/metrics"
	"github.com/oggyb/elite-connect/internal/payment"
	"github.com/oggyb/elite-connect/internal/repository"
)

const currencyWLD = "WLD"

// Service owns the connection quota and the subscription purchase flow.
// Every operation starts with normalize, which creates the default free
// subscription on first use and demotes an expired unlimited one.
type Service struct {
	appCtx *app.AppContext
	price  decimal.Decimal
}

func NewSubscriptionService(appCtx *app.AppContext) (*Service, error) {
	price, err := decimal.NewFromString(appCtx.Config.Quota.SubscriptionPrice)
	if err != nil || !price.IsPositive() {
		return nil, fmt.Errorf("invalid subscription price %q", appCtx.Config.Quota.SubscriptionPrice)
	}
	return &Service{appCtx: appCtx, price: price}, nil
}

func (s *Service) normalize(ctx context.Context, subs *repository.SubscriptionRepository, ownerID uint64, now time.Time) (*db.Subscription, error) {
	if err := subs.Ensure(ctx, ownerID, s.appCtx.Config.Quota.FreeConnections); err != nil {
		return nil, err
	}
	if expired, err := subs.ExpireIfNeeded(ctx, ownerID, now); err != nil {
		return nil, err
	} else if expired {
		logger.FromContext(ctx, s.appCtx.Logger).Info("subscription expired", "user", ownerID)
	}
	return subs.FindByUserID(ctx, ownerID)
}

// Status returns the owner's quota snapshot.
func (s *Service) Status(ctx context.Context, ownerID uint64) (Status, error) {
	now := s.appCtx.Now()
	sub, err := s.normalize(ctx, repository.NewSubscriptionRepository(s.appCtx.DB), ownerID, now)
	if err != nil {
		return Status{}, svcErr.Map(err)
	}
	return newStatus(sub, now), nil
}

// InitiatePayment creates a pending subscription transaction under a fresh
// reference for the client to pay against.
func (s *Service) InitiatePayment(ctx context.Context, ownerID uint64) (Payment, error) {
	tx := db.Transaction{
		UserID:    ownerID,
		Reference: strings.ReplaceAll(uuid.NewString(), "-", ""),
		Amount:    s.price,
		Type:      db.TransactionSubscription,
		Status:    db.TransactionPending,
	}
	if err := repository.NewTransactionRepository(s.appCtx.DB).Create(ctx, &tx); err != nil {
		return Payment{}, svcErr.Map(err)
	}

	return Payment{
		Reference: tx.Reference,
		Amount:    s.price.String(),
		Currency:  currencyWLD,
		AppID:     s.appCtx.Config.World.AppID,
	}, nil
}

// VerifyPayment confirms a payment and grants the unlimited subscription.
//
// Behavior:
//   - Only the owner's own transactions are visible; others are NotFound.
//   - An already verified transaction returns success without re-applying.
//   - A rejected payment marks the transaction failed and returns Verified=false.
//   - On success the entitlement window restarts at now and lasts the
//     configured number of days, replacing any remaining window.
func (s *Service) VerifyPayment(ctx context.Context, ownerID uint64, req VerifyRequest) (VerifyResult, error) {
	if err := req.Validate(); err != nil {
		return VerifyResult{}, err
	}
	log := logger.FromContext(ctx, s.appCtx.Logger)

	txRepo := repository.NewTransactionRepository(s.appCtx.DB)
	rec, err := txRepo.FindByReference(ctx, ownerID, req.Reference)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return VerifyResult{}, svcErr.NotFound("Transaction not found")
	} else if err != nil {
		return VerifyResult{}, svcErr.Map(err)
	}
	if rec.Verified {
		return VerifyResult{Verified: true, AlreadyVerified: true}, nil
	}

	ok, err := s.appCtx.Payments.Verify(ctx, payment.Request{Reference: rec.Reference, TransactionID: req.TransactionID})
	if err != nil {
		return VerifyResult{}, svcErr.Map(err)
	}
	if !ok {
		if err := txRepo.MarkFailed(ctx, rec.ID); err != nil {
			return VerifyResult{}, svcErr.Map(err)
		}
		metrics.RecordPayment(false)
		log.Warn("payment rejected", "reference", rec.Reference)
		return VerifyResult{}, nil
	}

	now := s.appCtx.Now()
	expires := now.Add(s.appCtx.Config.SubscriptionDuration())
	result := VerifyResult{Verified: true, ExpiresAt: &expires}

	err = s.appCtx.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		changed, err := repository.NewTransactionRepository(tx).MarkVerified(ctx, rec.ID, req.TransactionID, now)
		if err != nil {
			return err
		}
		if !changed {
			// a concurrent request verified it first
			result = VerifyResult{Verified: true, AlreadyVerified: true}
			return nil
		}

		subs := repository.NewSubscriptionRepository(tx)
		if _, err := s.normalize(ctx, subs, ownerID, now); err != nil {
			return err
		}
		return subs.Activate(ctx, ownerID, now, expires)
	})
	if err != nil {
		return VerifyResult{}, svcErr.Map(err)
	}

	if !result.AlreadyVerified {
		metrics.RecordPayment(true)
		log.Info("subscription activated", "reference", rec.Reference, "expires_at", expires)
	}
	return result, nil
}

// UseConnection unlocks chat on a match, spending one connection.
//
// Behavior:
//   - Forbidden when there is neither an active subscription nor free quota.
//   - NotFound for unknown matches; Forbidden when the owner is not a participant.
//   - Spending and unlocking run in one DB transaction with conditional
//     updates, so concurrent calls cannot overspend the free quota.
//   - Free quota is only consumed without an active subscription; the total
//     counter always moves. Unlocking an unlocked match still spends.
func (s *Service) UseConnection(ctx context.Context, ownerID uint64, req UseConnectionRequest) error {
	if err := req.Validate(); err != nil {
		return err
	}
	now := s.appCtx.Now()
	noQuota := svcErr.Forbidden("No connections available")

	var source string
	err := s.appCtx.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		subs := repository.NewSubscriptionRepository(tx)
		matches := repository.NewMatchRepository(tx)

		sub, err := s.normalize(ctx, subs, ownerID, now)
		if err != nil {
			return err
		}
		active := sub.HasActiveEntitlement(now)
		if !active && sub.FreeRemaining() <= 0 {
			return noQuota
		}

		match, err := matches.FindByID(ctx, uint64(req.MatchID))
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return svcErr.NotFound("Match not found")
		} else if err != nil {
			return err
		}
		if !match.HasParticipant(ownerID) {
			return svcErr.Forbidden("Unauthorized")
		}

		spent := false
		if active {
			if spent, err = subs.ConsumeUnlimited(ctx, ownerID, now); err != nil {
				return err
			}
			source = "subscription"
		}
		if !spent {
			if spent, err = subs.ConsumeFree(ctx, ownerID); err != nil {
				return err
			}
			source = "free"
		}
		if !spent {
			return noQuota
		}

		return matches.Unlock(ctx, match.ID)
	})
	if err != nil {
		return svcErr.Map(err)
	}

	metrics.RecordConnection(source)
	logger.FromContext(ctx, s.appCtx.Logger).Info("connection used", "match_id", uint64(req.MatchID), "source", source)
	return nil
}
