package profile

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/oggyb/elite-connect/internal/db"
	svcErr "github.com/oggyb/elite-connect/internal/errors"
	"github.com/oggyb/elite-connect/internal/respond"
)

const (
	MinAge        = 18
	MaxAge        = 100
	MaxBioLength  = 500
	MaxNameLength = 100
	MaxImages     = 6
)

// UpsertRequest is the body of POST /profile/create. Images is a pointer so
// an update that omits it keeps the stored images.
type UpsertRequest struct {
	Name      string    `json:"name"`
	Age       int       `json:"age"`
	Gender    string    `json:"gender"`
	Bio       string    `json:"bio"`
	Interests []string  `json:"interests"`
	Location  string    `json:"location"`
	Images    *[]string `json:"images"`
}

// Validate normalises whitespace and enforces the profile field rules.
func (r *UpsertRequest) Validate() error {
	r.Name = strings.TrimSpace(r.Name)
	r.Gender = strings.ToLower(strings.TrimSpace(r.Gender))
	r.Bio = strings.TrimSpace(r.Bio)
	r.Location = strings.TrimSpace(r.Location)

	if r.Name == "" || r.Age == 0 || r.Gender == "" {
		return svcErr.Validation("Name, age, and gender are required")
	}
	if utf8.RuneCountInString(r.Name) > MaxNameLength {
		return svcErr.Validation(fmt.Sprintf("Name must be at most %d characters", MaxNameLength))
	}
	if r.Age < MinAge || r.Age > MaxAge {
		return svcErr.Validation(fmt.Sprintf("Age must be between %d and %d", MinAge, MaxAge))
	}
	switch db.Gender(r.Gender) {
	case db.GenderMale, db.GenderFemale, db.GenderNonBinary, db.GenderOther:
	default:
		return svcErr.Validation("Gender must be one of male, female, non-binary, other")
	}
	if utf8.RuneCountInString(r.Bio) > MaxBioLength {
		return svcErr.Validation(fmt.Sprintf("Bio must be at most %d characters", MaxBioLength))
	}
	if r.Images != nil && len(*r.Images) > MaxImages {
		return svcErr.Validation(fmt.Sprintf("At most %d images are allowed", MaxImages))
	}
	return nil
}

// Summary is returned by create-or-update.
type Summary struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Age    int    `json:"age"`
	Gender string `json:"gender"`
	Bio    string `json:"bio"`
}

// Detail is the owner's full profile.
type Detail struct {
	Summary
	Interests []string `json:"interests"`
	Location  string   `json:"location"`
	Images    []string `json:"images"`
}

func newSummary(p *db.Profile) Summary {
	return Summary{
		ID:     respond.FormatID(p.ID),
		Name:   p.Name,
		Age:    p.Age,
		Gender: string(p.Gender),
		Bio:    p.Bio,
	}
}

func newDetail(p *db.Profile) Detail {
	return Detail{
		Summary:   newSummary(p),
		Interests: nonNil(p.Interests),
		Location:  p.Location,
		Images:    nonNil(p.Images),
	}
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
