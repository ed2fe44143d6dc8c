package auth

import (
	"strings"
	"time"

	"github.com/oggyb/elite-connect/internal/db"
	svcErr "github.com/oggyb/elite-connect/internal/errors"
	"github.com/oggyb/elite-connect/internal/respond"
)

type VerifyRequest struct {
	NullifierHash     string `json:"nullifier_hash"`
	MerkleRoot        string `json:"merkle_root"`
	Proof             string `json:"proof"`
	VerificationLevel string `json:"verification_level"`
	Signal            string `json:"signal"`
}

func (r *VerifyRequest) Validate() error {
	r.NullifierHash = strings.TrimSpace(r.NullifierHash)
	r.VerificationLevel = strings.ToLower(strings.TrimSpace(r.VerificationLevel))

	if r.NullifierHash == "" || r.VerificationLevel == "" {
		return svcErr.Validation("Missing required fields")
	}
	switch db.VerificationLevel(r.VerificationLevel) {
	case db.VerificationOrb, db.VerificationDevice:
	default:
		return svcErr.Validation("Invalid verification level")
	}
	return nil
}

// Identity is the public view of a User.
type Identity struct {
	ID                string    `json:"id"`
	VerificationLevel string    `json:"verificationLevel"`
	ProfileCompleted  bool      `json:"profileCompleted"`
	CreatedAt         time.Time `json:"createdAt"`
	LastLoginAt       time.Time `json:"lastLoginAt"`
}

func newIdentity(u *db.User) Identity {
	return Identity{
		ID:                respond.FormatID(u.ID),
		VerificationLevel: string(u.VerificationLevel),
		ProfileCompleted:  u.ProfileCompleted,
		CreatedAt:         u.CreatedAt,
		LastLoginAt:       u.LastLoginAt,
	}
}

// Session is what a successful verification hands back.
type Session struct {
	Token     string
	ExpiresAt time.Time
	User      Identity
}
