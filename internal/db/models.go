package db

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

type VerificationLevel string

const (
	VerificationOrb    VerificationLevel = "orb"
	VerificationDevice VerificationLevel = "device"
)

// User is the identity record, keyed by the World ID nullifier hash.
type User struct {
	ID                uint64            `gorm:"primaryKey;autoIncrement"`
	NullifierHash     string            `gorm:"uniqueIndex;size:128;not null"`
	VerificationLevel VerificationLevel `gorm:"size:16;not null"`
	ProfileCompleted  bool              `gorm:"not null;default:false"`
	CreatedAt         time.Time         `gorm:"autoCreateTime"`
	LastLoginAt       time.Time
}

type Gender string

const (
	GenderMale      Gender = "male"
	GenderFemale    Gender = "female"
	GenderNonBinary Gender = "non-binary"
	GenderOther     Gender = "other"
)

// Profile is the dating profile attached one-to-one to a User.
type Profile struct {
	ID        uint64                      `gorm:"primaryKey;autoIncrement"`
	UserID    uint64                      `gorm:"uniqueIndex;not null"`
	Name      string                      `gorm:"size:100;not null"`
	Age       int                         `gorm:"not null"`
	Gender    Gender                      `gorm:"size:16;not null"`
	Bio       string                      `gorm:"size:500;not null;default:''"`
	Interests datatypes.JSONSlice[string] `gorm:"not null"`
	Location  string                      `gorm:"size:255;not null;default:''"`
	Images    datatypes.JSONSlice[string] `gorm:"not null"`
	CreatedAt time.Time                   `gorm:"autoCreateTime"`
	UpdatedAt time.Time                   `gorm:"autoUpdateTime"`
}

type SwipeAction string

const (
	ActionLike SwipeAction = "like"
	ActionPass SwipeAction = "pass"
)

// Swipe represents an actor's like/pass decision on a target.
//
// Composite PK: (ActorID, TargetID)
//   - A second decision on the same pair is a unique violation; swipes are immutable.
//
// Indexes:
//   - idx_target_action_created(target_id, action, created_at DESC)
//     Serves "who liked me" lists and counts.
type Swipe struct {
	ActorID   uint64      `gorm:"primaryKey;autoIncrement:false"`
	TargetID  uint64      `gorm:"primaryKey;autoIncrement:false;index:idx_target_action_created,priority:1"`
	Action    SwipeAction `gorm:"size:8;not null;index:idx_target_action_created,priority:2"`
	CreatedAt time.Time   `gorm:"autoCreateTime;index:idx_target_action_created,priority:3,sort:desc"`
}

type MatchStatus string

const (
	MatchPending   MatchStatus = "pending"
	MatchMatched   MatchStatus = "matched"
	MatchUnmatched MatchStatus = "unmatched"
)

// Match is a mutual-like pair. User1ID < User2ID always holds, so the unique
// index covers the unordered pair.
type Match struct {
	ID           uint64      `gorm:"primaryKey;autoIncrement"`
	User1ID      uint64      `gorm:"not null;uniqueIndex:idx_match_pair,priority:1"`
	User2ID      uint64      `gorm:"not null;uniqueIndex:idx_match_pair,priority:2;index"`
	Status       MatchStatus `gorm:"size:16;not null;default:'pending';index"`
	ChatUnlocked bool        `gorm:"not null;default:false"`
	CreatedAt    time.Time   `gorm:"autoCreateTime"`
}

// HasParticipant reports whether userID is one side of the match.
func (m *Match) HasParticipant(userID uint64) bool {
	return m.User1ID == userID || m.User2ID == userID
}

// Counterpart returns the other side of the match for userID.
func (m *Match) Counterpart(userID uint64) uint64 {
	if m.User1ID == userID {
		return m.User2ID
	}
	return m.User1ID
}

// Message is a chat line inside a match.
type Message struct {
	ID        uint64    `gorm:"primaryKey;autoIncrement"`
	MatchID   uint64    `gorm:"not null;index:idx_message_match_created,priority:1"`
	SenderID  uint64    `gorm:"not null;index"`
	Content   string    `gorm:"type:text;not null"`
	ImageURL  *string   `gorm:"size:1024"`
	Read      bool      `gorm:"column:is_read;not null;default:false"`
	CreatedAt time.Time `gorm:"autoCreateTime;index:idx_message_match_created,priority:2"`
}

type SubscriptionType string

const (
	SubscriptionFree             SubscriptionType = "free"
	SubscriptionMonthlyUnlimited SubscriptionType = "monthly_unlimited"
)

// Subscription carries the per-user connection quota and the optional
// time-boxed unlimited entitlement.
type Subscription struct {
	ID                   uint64           `gorm:"primaryKey;autoIncrement"`
	UserID               uint64           `gorm:"uniqueIndex;not null"`
	Type                 SubscriptionType `gorm:"size:32;not null;default:'free'"`
	FreeConnectionsUsed  int              `gorm:"not null;default:0"`
	FreeConnectionsLimit int              `gorm:"not null"`
	StartedAt            *time.Time
	ExpiresAt            *time.Time `gorm:"index"`
	IsActive             bool       `gorm:"not null;default:false"`
	TotalConnectionsUsed int        `gorm:"not null;default:0"`
	CreatedAt            time.Time  `gorm:"autoCreateTime"`
	UpdatedAt            time.Time  `gorm:"autoUpdateTime"`
}

// HasActiveEntitlement is is-active and not yet expired at now.
func (s *Subscription) HasActiveEntitlement(now time.Time) bool {
	return s.IsActive && s.ExpiresAt != nil && now.Before(*s.ExpiresAt)
}

// FreeRemaining can go negative if the limit was lowered after use.
func (s *Subscription) FreeRemaining() int {
	return s.FreeConnectionsLimit - s.FreeConnectionsUsed
}

type TransactionType string

const (
	TransactionSubscription     TransactionType = "subscription"
	TransactionSingleConnection TransactionType = "single_connection"
)

type TransactionStatus string

const (
	TransactionPending   TransactionStatus = "pending"
	TransactionCompleted TransactionStatus = "completed"
	TransactionFailed    TransactionStatus = "failed"
	TransactionCancelled TransactionStatus = "cancelled"
)

// Transaction is a payment intent and, once verified, its receipt.
type Transaction struct {
	ID                    uint64            `gorm:"primaryKey;autoIncrement"`
	UserID                uint64            `gorm:"not null;index:idx_tx_user_status,priority:1"`
	Reference             string            `gorm:"uniqueIndex;size:64;not null"`
	ExternalTransactionID *string           `gorm:"size:128"`
	Amount                decimal.Decimal   `gorm:"type:decimal(20,8);not null"`
	Type                  TransactionType   `gorm:"size:32;not null"`
	Status                TransactionStatus `gorm:"size:16;not null;default:'pending';index:idx_tx_user_status,priority:2"`
	Verified              bool              `gorm:"not null;default:false"`
	VerifiedAt            *time.Time
	CreatedAt             time.Time `gorm:"autoCreateTime;index"`
}

// All lists every model for AutoMigrate.
func All() []any {
	return []any{
		&User{}, &Profile{}, &Swipe{}, &Match{}, &Message{}, &Subscription{}, &Transaction{},
	}
}
