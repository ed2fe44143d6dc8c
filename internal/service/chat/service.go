package chat

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/oggyb/elite-connect/internal/app"
	"github.com/oggyb/elite-connect/internal/db"
	svcErr "github.com/oggyb/elite-connect/internal/errors"
	"github.com/oggyb/elite-connect/internal/repository"
	"github.com/oggyb/elite-connect/internal/respond"
)

type Service struct {
	appCtx      *app.AppContext
	matchRepo   *repository.MatchRepository
	messageRepo *repository.MessageRepository
	profileRepo *repository.ProfileRepository
}

func NewChatService(appCtx *app.AppContext) *Service {
	return &Service{
		appCtx:      appCtx,
		matchRepo:   repository.NewMatchRepository(appCtx.DB),
		messageRepo: repository.NewMessageRepository(appCtx.DB),
		profileRepo: repository.NewProfileRepository(appCtx.DB),
	}
}

// ListMatches returns the owner's chat-unlocked matches, newest first, each
// with the counterpart's profile summary and the latest message.
func (s *Service) ListMatches(ctx context.Context, ownerID uint64) ([]MatchView, error) {
	matches, err := s.matchRepo.ListUnlockedForUser(ctx, ownerID)
	if err != nil {
		return nil, svcErr.Map(err)
	}

	counterparts := make([]uint64, 0, len(matches))
	matchIDs := make([]uint64, 0, len(matches))
	for _, m := range matches {
		counterparts = append(counterparts, m.Counterpart(ownerID))
		matchIDs = append(matchIDs, m.ID)
	}

	profiles, err := s.profileRepo.FindByUserIDs(ctx, counterparts)
	if err != nil {
		return nil, svcErr.Map(err)
	}
	last, err := s.messageRepo.LastForMatches(ctx, matchIDs)
	if err != nil {
		return nil, svcErr.Map(err)
	}

	out := make([]MatchView, 0, len(matches))
	for _, m := range matches {
		other := m.Counterpart(ownerID)
		view := MatchView{
			MatchID:   respond.FormatID(m.ID),
			Profile:   ProfileSummary{ID: respond.FormatID(other)},
			CreatedAt: m.CreatedAt,
		}
		if p, ok := profiles[other]; ok {
			view.Profile.Name = p.Name
			view.Profile.Age = p.Age
			view.Profile.Gender = string(p.Gender)
		}
		if msg, ok := last[m.ID]; ok {
			view.LastMessage = &LastMessage{Content: msg.Content, CreatedAt: msg.CreatedAt}
		}
		out = append(out, view)
	}
	return out, nil
}

// ListMessages returns the conversation oldest first. Only participants may read it.
func (s *Service) ListMessages(ctx context.Context, ownerID, matchID uint64) ([]MessageView, error) {
	if _, err := s.participantMatch(ctx, ownerID, matchID); err != nil {
		return nil, err
	}

	msgs, err := s.messageRepo.ListByMatch(ctx, matchID)
	if err != nil {
		return nil, svcErr.Map(err)
	}

	out := make([]MessageView, 0, len(msgs))
	for _, m := range msgs {
		out = append(out, newMessageView(m, ownerID))
	}
	return out, nil
}

// Send appends a message to an unlocked match the owner takes part in.
//
// Behavior:
//   - Match id plus content or image are required.
//   - Unknown match → NotFound; not a participant or chat locked → Forbidden.
func (s *Service) Send(ctx context.Context, ownerID uint64, req SendRequest) (SentMessage, error) {
	if err := req.Validate(); err != nil {
		return SentMessage{}, err
	}

	match, err := s.participantMatch(ctx, ownerID, uint64(req.MatchID))
	if err != nil {
		return SentMessage{}, err
	}
	if !match.ChatUnlocked {
		return SentMessage{}, svcErr.Forbidden("Chat not unlocked")
	}

	msg := db.Message{
		MatchID:  match.ID,
		SenderID: ownerID,
		Content:  req.Content,
	}
	if req.ImageURL != "" {
		msg.ImageURL = &req.ImageURL
	}
	if err := s.messageRepo.Create(ctx, &msg); err != nil {
		return SentMessage{}, svcErr.Map(err)
	}

	return SentMessage{
		ID:        respond.FormatID(msg.ID),
		Content:   msg.Content,
		ImageURL:  msg.ImageURL,
		CreatedAt: msg.CreatedAt,
	}, nil
}

// MarkRead flags the counterpart's messages in the match as read and
// returns how many changed.
func (s *Service) MarkRead(ctx context.Context, ownerID, matchID uint64) (int64, error) {
	if _, err := s.participantMatch(ctx, ownerID, matchID); err != nil {
		return 0, err
	}
	n, err := s.messageRepo.MarkRead(ctx, matchID, ownerID)
	if err != nil {
		return 0, svcErr.Map(err)
	}
	return n, nil
}

func (s *Service) participantMatch(ctx context.Context, ownerID, matchID uint64) (*db.Match, error) {
	match, err := s.matchRepo.FindByID(ctx, matchID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, svcErr.NotFound("Match not found")
	} else if err != nil {
		return nil, svcErr.Map(err)
	}
	if !match.HasParticipant(ownerID) {
		return nil, svcErr.Forbidden("Unauthorized")
	}
	return match, nil
}
