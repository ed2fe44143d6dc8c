package explore

import (
	"context"
	"errors"
	"math/rand"
	"time"

	"github.com/oggyb/elite-connect/internal/app"
	"github.com/oggyb/elite-connect/internal/db"
	svcErr "github.com/oggyb/elite-connect/internal/errors"
	"github.com/oggyb/elite-connect/internal/logger"
	"github.com/oggyb/elite-connect/internal/metrics"
	"github.com/oggyb/elite-connect/internal/repository"
	"github.com/oggyb/elite-connect/internal/respond"
	"github.com/oggyb/elite-connect/internal/utils/pagination"
)

const (
	DefaultCandidateLimit = 20
	MaxCandidateLimit     = 50

	likesPageSize = 20
)

// Service implements discovery: candidate lists, like/pass decisions, mutual
// match detection and the "liked you" views.
type Service struct {
	appCtx      *app.AppContext
	swipeRepo   *repository.SwipeRepository
	profileRepo *repository.ProfileRepository
	userRepo    *repository.UserRepository
	matchRepo   *repository.MatchRepository
}

// NewExploreService creates a new Explore service with dependencies from AppContext.
// Dependencies include:
//   - DB connection (via the swipe, profile, user and match repositories)
//   - RedisCache for "liked you" counters
func NewExploreService(appCtx *app.AppContext) *Service {
	return &Service{
		appCtx:      appCtx,
		swipeRepo:   repository.NewSwipeRepository(appCtx.DB),
		profileRepo: repository.NewProfileRepository(appCtx.DB),
		userRepo:    repository.NewUserRepository(appCtx.DB),
		matchRepo:   repository.NewMatchRepository(appCtx.DB),
	}
}

// ListCandidates returns up to limit profiles the owner has not swiped on yet,
// in random order. Out-of-range limits fall back to DefaultCandidateLimit.
func (s *Service) ListCandidates(ctx context.Context, ownerID uint64, limit int) ([]Candidate, error) {
	if limit <= 0 || limit > MaxCandidateLimit {
		limit = DefaultCandidateLimit
	}

	profiles, err := s.profileRepo.ListCandidates(ctx, ownerID, s.swipeRepo.SwipedTargets(ownerID), limit)
	if err != nil {
		return nil, svcErr.Map(err)
	}

	rand.Shuffle(len(profiles), func(i, j int) { profiles[i], profiles[j] = profiles[j], profiles[i] })

	out := make([]Candidate, 0, len(profiles))
	for _, p := range profiles {
		out = append(out, newCandidate(p))
	}
	return out, nil
}

// Like records owner's like on target and reports a mutual match.
//
// Behavior:
//   - Rejects self-likes and unknown targets.
//   - A second decision on the same target is a Conflict.
//   - The swipe is stored before the reciprocal check, so of two racing
//     mutual likes at least one sees the other; the match row itself is
//     unique per unordered pair.
//   - Drops the target's cached "liked you" count.
//
// Example:
//
//	svc.Like(ctx, 1, 2) // -> {Matched: true, MatchID: 7} if 2 already liked 1
func (s *Service) Like(ctx context.Context, ownerID, targetID uint64) (LikeResult, error) {
	if err := s.recordSwipe(ctx, ownerID, targetID, db.ActionLike); err != nil {
		return LikeResult{}, err
	}
	s.invalidateCount(ctx, targetID)

	reciprocal, err := s.swipeRepo.HasLiked(ctx, targetID, ownerID)
	if err != nil {
		return LikeResult{}, svcErr.Map(err)
	}
	if !reciprocal {
		return LikeResult{}, nil
	}

	match, created, err := s.matchRepo.CreateMatched(ctx, ownerID, targetID)
	if err != nil {
		return LikeResult{}, svcErr.Map(err)
	}
	if created {
		metrics.RecordMatch()
		logger.FromContext(ctx, s.appCtx.Logger).Info("match created", "match_id", match.ID, "target", targetID)
	}
	return LikeResult{Matched: true, MatchID: match.ID}, nil
}

// Pass records owner's pass on target.
// Drops the owner's cached count, since a passed liker no longer counts.
func (s *Service) Pass(ctx context.Context, ownerID, targetID uint64) error {
	if err := s.recordSwipe(ctx, ownerID, targetID, db.ActionPass); err != nil {
		return err
	}
	s.invalidateCount(ctx, ownerID)
	return nil
}

func (s *Service) recordSwipe(ctx context.Context, ownerID, targetID uint64, action db.SwipeAction) error {
	if targetID == 0 {
		return svcErr.Validation("Profile ID required")
	}
	if targetID == ownerID {
		return svcErr.Validation("Cannot swipe on your own profile")
	}

	exists, err := s.userRepo.Exists(ctx, targetID)
	if err != nil {
		return svcErr.Map(err)
	}
	if !exists {
		return svcErr.NotFound("Profile not found")
	}

	if err := s.swipeRepo.Create(ctx, ownerID, targetID, action); err != nil {
		if svcErr.IsDuplicate(err) {
			return svcErr.Conflict("Already swiped on this profile")
		}
		return svcErr.Map(err)
	}
	metrics.RecordSwipe(string(action))
	return nil
}

// ListLikedYou returns people who liked the owner, newest first, excluding
// those the owner passed.
//
// Example:
//
//	svc.ListLikedYou(ctx, 42, "") // first page; pass the returned token for the next
func (s *Service) ListLikedYou(ctx context.Context, ownerID uint64, token string) ([]Liker, string, error) {
	swipes, next, err := s.swipeRepo.GetLikers(ctx, ownerID, token, likesPageSize)
	if err != nil {
		return nil, "", s.pageErr(err)
	}
	likers, err := s.withProfiles(ctx, swipes)
	return likers, next, err
}

// ListNewLikedYou is ListLikedYou minus the people the owner already liked back.
func (s *Service) ListNewLikedYou(ctx context.Context, ownerID uint64, token string) ([]Liker, string, error) {
	swipes, next, err := s.swipeRepo.GetNewLikers(ctx, ownerID, token, likesPageSize)
	if err != nil {
		return nil, "", s.pageErr(err)
	}
	likers, err := s.withProfiles(ctx, swipes)
	return likers, next, err
}

// CountLikedYou returns how many people liked the owner.
// Cache-first strategy:
//  1. Attempts to read from Redis (likes:count:userID), refreshing the TTL.
//  2. On a miss or a Redis failure, falls back to the DB via CountLikers.
//  3. On DB fetch, stores the count in Redis with a 1h TTL.
func (s *Service) CountLikedYou(ctx context.Context, ownerID uint64) (int64, error) {
	log := logger.FromContext(ctx, s.appCtx.Logger)

	if n, ok, err := s.appCtx.RedisCache.GetLikeCount(ctx, ownerID); err != nil {
		log.Warn("like count cache read failed", "err", err)
	} else if ok {
		return n, nil
	}

	count, err := s.swipeRepo.CountLikers(ctx, ownerID)
	if err != nil {
		return 0, svcErr.Map(err)
	}

	if err := s.appCtx.RedisCache.SetLikeCount(ctx, ownerID, count); err != nil {
		log.Warn("like count cache write failed", "err", err)
	}
	return count, nil
}

func (s *Service) invalidateCount(ctx context.Context, userID uint64) {
	if err := s.appCtx.RedisCache.InvalidateLikeCount(ctx, userID); err != nil {
		logger.FromContext(ctx, s.appCtx.Logger).Warn("like count invalidation failed", "user", userID, "err", err)
	}
}

func (s *Service) withProfiles(ctx context.Context, swipes []db.Swipe) ([]Liker, error) {
	ids := make([]uint64, 0, len(swipes))
	for _, sw := range swipes {
		ids = append(ids, sw.ActorID)
	}
	profiles, err := s.profileRepo.FindByUserIDs(ctx, ids)
	if err != nil {
		return nil, svcErr.Map(err)
	}

	out := make([]Liker, 0, len(swipes))
	for _, sw := range swipes {
		l := Liker{UserID: respond.FormatID(sw.ActorID), LikedAt: sw.CreatedAt.UTC().Format(time.RFC3339Nano)}
		if p, ok := profiles[sw.ActorID]; ok {
			c := newCandidate(p)
			l.Profile = &c
		}
		out = append(out, l)
	}
	return out, nil
}

func (s *Service) pageErr(err error) error {
	if errors.Is(err, pagination.ErrInvalidToken) {
		return svcErr.Validation("Invalid cursor")
	}
	return svcErr.Map(err)
}
