package profile

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/oggyb/elite-connect/internal/app"
	"github.com/oggyb/elite-connect/internal/db"
	svcErr "github.com/oggyb/elite-connect/internal/errors"
	"github.com/oggyb/elite-connect/internal/repository"
)

type Service struct {
	appCtx      *app.AppContext
	profileRepo *repository.ProfileRepository
	userRepo    *repository.UserRepository
}

func NewProfileService(appCtx *app.AppContext) *Service {
	return &Service{
		appCtx:      appCtx,
		profileRepo: repository.NewProfileRepository(appCtx.DB),
		userRepo:    repository.NewUserRepository(appCtx.DB),
	}
}

// CreateOrUpdate validates req and upserts the owner's single profile.
//
// Behavior:
//   - Exactly one profile per owner; a repeat call updates it in place.
//   - Omitted bio, interests and location reset to empty; omitted images are kept.
//   - The owner's profile_completed flag is set on the first save.
func (s *Service) CreateOrUpdate(ctx context.Context, ownerID uint64, req UpsertRequest) (Summary, error) {
	if err := req.Validate(); err != nil {
		return Summary{}, err
	}

	p := db.Profile{
		UserID:    ownerID,
		Name:      req.Name,
		Age:       req.Age,
		Gender:    db.Gender(req.Gender),
		Bio:       req.Bio,
		Interests: nonNil(req.Interests),
		Location:  req.Location,
		Images:    []string{},
	}
	if req.Images != nil {
		p.Images = nonNil(*req.Images)
	}

	stored, err := s.profileRepo.Upsert(ctx, p, req.Images != nil)
	if err != nil {
		return Summary{}, svcErr.Map(err)
	}
	if err := s.userRepo.MarkProfileCompleted(ctx, ownerID); err != nil {
		return Summary{}, svcErr.Map(err)
	}
	return newSummary(stored), nil
}

// Get returns the owner's full profile or NotFound.
func (s *Service) Get(ctx context.Context, ownerID uint64) (Detail, error) {
	p, err := s.profileRepo.FindByUserID(ctx, ownerID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return Detail{}, svcErr.NotFound("Profile not found")
	} else if err != nil {
		return Detail{}, svcErr.Map(err)
	}
	return newDetail(p), nil
}
