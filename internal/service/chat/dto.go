package chat

import (
	"strings"
	"time"
	"unicode/utf8"

	"github.com/oggyb/elite-connect/internal/db"
	svcErr "github.com/oggyb/elite-connect/internal/errors"
	"github.com/oggyb/elite-connect/internal/respond"
)

const MaxContentLength = 2000

// SendRequest is the body of POST /chat/send.
type SendRequest struct {
	MatchID  respond.ID `json:"matchId"`
	Content  string     `json:"content"`
	ImageURL string     `json:"imageUrl"`
}

func (r *SendRequest) Validate() error {
	r.Content = strings.TrimSpace(r.Content)
	r.ImageURL = strings.TrimSpace(r.ImageURL)

	if r.MatchID == 0 || (r.Content == "" && r.ImageURL == "") {
		return svcErr.Validation("Match ID and content or image required")
	}
	if utf8.RuneCountInString(r.Content) > MaxContentLength {
		return svcErr.Validation("Message is too long")
	}
	return nil
}

type ProfileSummary struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Age    int    `json:"age"`
	Gender string `json:"gender"`
}

type LastMessage struct {
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"createdAt"`
}

// MatchView is one open conversation in the match list.
type MatchView struct {
	MatchID     string         `json:"matchId"`
	Profile     ProfileSummary `json:"profile"`
	LastMessage *LastMessage   `json:"lastMessage"`
	CreatedAt   time.Time      `json:"createdAt"`
}

// MessageView is a message as seen by one participant.
type MessageView struct {
	ID        string    `json:"id"`
	Content   string    `json:"content"`
	ImageURL  *string   `json:"imageUrl"`
	IsMine    bool      `json:"isMine"`
	CreatedAt time.Time `json:"createdAt"`
}

// SentMessage is the response of send.
type SentMessage struct {
	ID        string    `json:"id"`
	Content   string    `json:"content"`
	ImageURL  *string   `json:"imageUrl"`
	CreatedAt time.Time `json:"createdAt"`
}

func newMessageView(m db.Message, viewerID uint64) MessageView {
	return MessageView{
		ID:        respond.FormatID(m.ID),
		Content:   m.Content,
		ImageURL:  m.ImageURL,
		IsMine:    m.SenderID == viewerID,
		CreatedAt: m.CreatedAt,
	}
}
