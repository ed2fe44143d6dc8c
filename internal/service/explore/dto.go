package explore

import (
	"github.com/oggyb/elite-connect/internal/db"
	"github.com/oggyb/elite-connect/internal/respond"
)

// SwipeRequest is the body of like and pass.
type SwipeRequest struct {
	ProfileID respond.ID `json:"profileId"`
}

// Candidate is a discoverable profile. ID is the owner's identity id, which
// is what like and pass expect back.
type Candidate struct {
	ID        string   `json:"id"`
	Name      string   `json:"name"`
	Age       int      `json:"age"`
	Gender    string   `json:"gender"`
	Bio       string   `json:"bio"`
	Interests []string `json:"interests"`
}

func newCandidate(p db.Profile) Candidate {
	interests := []string(p.Interests)
	if interests == nil {
		interests = []string{}
	}
	return Candidate{
		ID:        respond.FormatID(p.UserID),
		Name:      p.Name,
		Age:       p.Age,
		Gender:    string(p.Gender),
		Bio:       p.Bio,
		Interests: interests,
	}
}

type LikeResult struct {
	Matched bool
	MatchID uint64
}

// Liker is one entry of the "liked you" lists.
type Liker struct {
	UserID  string     `json:"userId"`
	LikedAt string     `json:"likedAt"`
	Profile *Candidate `json:"profile"`
}
