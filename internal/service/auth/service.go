package auth

import (
	"context"
	"errors"

	"github.com/oggyb/elite-connect/internal/app"
	idauth "github.com/oggyb/elite-connect/internal/auth"
	"github.com/oggyb/elite-connect/internal/db"
	svcErr "github.com/oggyb/elite-connect/internal/errors"
	"github.com/oggyb/elite-connect/internal/logger"
	"github.com/oggyb/elite-connect/internal/metrics"
	"github.com/oggyb/elite-connect/internal/repository"
)

type Service struct {
	appCtx *app.AppContext
	users  *repository.UserRepository
}

func NewAuthService(appCtx *app.AppContext) *Service {
	return &Service{appCtx: appCtx, users: repository.NewUserRepository(appCtx.DB)}
}

// Verify exchanges a proof of personhood for a session token.
//
// Behavior:
//   - The proof is checked with the configured verifier before anything is stored.
//   - A rejected proof is InvalidToken "Verification failed"; an unreachable
//     verifier is an internal error.
//   - The identity is created on first verification, otherwise its level and
//     last login are refreshed. The nullifier hash is the only identity key.
func (s *Service) Verify(ctx context.Context, req VerifyRequest) (Session, error) {
	if err := req.Validate(); err != nil {
		return Session{}, err
	}
	log := logger.FromContext(ctx, s.appCtx.Logger)

	err := s.appCtx.Proofs.Verify(ctx, idauth.Proof{
		NullifierHash:     req.NullifierHash,
		MerkleRoot:        req.MerkleRoot,
		Proof:             req.Proof,
		VerificationLevel: req.VerificationLevel,
		Signal:            req.Signal,
	})
	if errors.Is(err, idauth.ErrProofRejected) {
		metrics.RecordLogin(false)
		log.Warn("proof rejected", "err", err)
		return Session{}, svcErr.InvalidToken("Verification failed")
	} else if err != nil {
		return Session{}, svcErr.Internal(err)
	}

	user, err := s.users.UpsertByNullifier(ctx, req.NullifierHash, db.VerificationLevel(req.VerificationLevel), s.appCtx.Now())
	if err != nil {
		return Session{}, svcErr.Map(err)
	}

	token, exp, err := s.appCtx.Tokens.Issue(user.ID)
	if err != nil {
		return Session{}, svcErr.Internal(err)
	}

	metrics.RecordLogin(true)
	log.Info("identity verified", "user_id", user.ID, "level", user.VerificationLevel)
	return Session{Token: token, ExpiresAt: exp, User: newIdentity(user)}, nil
}

// Me reloads the caller so profileCompleted reflects the latest write.
func (s *Service) Me(ctx context.Context, userID uint64) (Identity, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return Identity{}, svcErr.Map(err)
	}
	return newIdentity(user), nil
}
