package subscription

import (
	"strings"
	"time"

	"github.com/oggyb/elite-connect/internal/db"
	svcErr "github.com/oggyb/elite-connect/internal/errors"
	"github.com/oggyb/elite-connect/internal/respond"
)

type VerifyRequest struct {
	Reference     string `json:"reference"`
	TransactionID string `json:"transactionId"`
}

func (r *VerifyRequest) Validate() error {
	r.Reference = strings.TrimSpace(r.Reference)
	r.TransactionID = strings.TrimSpace(r.TransactionID)
	if r.Reference == "" {
		return svcErr.Validation("Reference required")
	}
	return nil
}

type UseConnectionRequest struct {
	MatchID respond.ID `json:"matchId"`
}

func (r *UseConnectionRequest) Validate() error {
	if r.MatchID == 0 {
		return svcErr.Validation("Match ID required")
	}
	return nil
}

// Status is the quota snapshot. FreeConnectionsRemaining is null while an
// unlimited subscription is active.
type Status struct {
	HasActiveSubscription    bool       `json:"hasActiveSubscription"`
	FreeConnectionsRemaining *int       `json:"freeConnectionsRemaining"`
	FreeConnectionsLimit     int        `json:"freeConnectionsLimit"`
	FreeConnectionsUsed      int        `json:"freeConnectionsUsed"`
	TotalConnectionsUsed     int        `json:"totalConnectionsUsed"`
	SubscriptionType         string     `json:"subscriptionType"`
	SubscriptionExpiresAt    *time.Time `json:"subscriptionExpiresAt"`
	CanConnect               bool       `json:"canConnect"`
}

func newStatus(sub *db.Subscription, now time.Time) Status {
	active := sub.HasActiveEntitlement(now)
	remaining := sub.FreeRemaining()

	st := Status{
		HasActiveSubscription: active,
		FreeConnectionsLimit:  sub.FreeConnectionsLimit,
		FreeConnectionsUsed:   sub.FreeConnectionsUsed,
		TotalConnectionsUsed:  sub.TotalConnectionsUsed,
		SubscriptionType:      string(sub.Type),
		SubscriptionExpiresAt: sub.ExpiresAt,
		CanConnect:            active || remaining > 0,
	}
	if !active {
		st.FreeConnectionsRemaining = &remaining
	}
	return st
}

// Payment is the response of initiate.
type Payment struct {
	Reference string `json:"reference"`
	Amount    string `json:"amount"`
	Currency  string `json:"currency"`
	AppID     string `json:"appId"`
}

type VerifyResult struct {
	Verified        bool
	AlreadyVerified bool
	ExpiresAt       *time.Time
}
