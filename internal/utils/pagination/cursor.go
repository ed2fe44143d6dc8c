package pagination

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// ErrInvalidToken is returned for tokens this package did not produce.
var ErrInvalidToken = errors.New("invalid pagination token")

// Cursor is the opaque keyset position for "liked you" lists.
// (CreatedNano, ActorID) is unique per target, so the order is total.
// Nanoseconds keep the full stored precision of created_at.
type Cursor struct {
	ActorID     uint64 `json:"a"`
	CreatedNano int64  `json:"t"`
}

// At builds a cursor pointing at (createdAt, actorID).
func At(createdAt time.Time, actorID uint64) Cursor {
	return Cursor{ActorID: actorID, CreatedNano: createdAt.UnixNano()}
}

// CreatedAt returns the position's timestamp in UTC.
func (c Cursor) CreatedAt() time.Time {
	return time.Unix(0, c.CreatedNano).UTC()
}

// IsZero reports whether the cursor points at the first page.
func (c Cursor) IsZero() bool {
	return c.ActorID == 0 && c.CreatedNano == 0
}

// Encode converts a Cursor into a URL-safe Base64 string.
func Encode(c Cursor) (string, error) {
	b, err := json.Marshal(c)
	if err != nil {
		return "", fmt.Errorf("failed to marshal cursor: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}

// Decode parses a token produced by Encode.
// Empty token → zero cursor (first page).
func Decode(token string) (Cursor, error) {
	if token == "" {
		return Cursor{}, nil
	}

	b, err := base64.RawURLEncoding.DecodeString(token)
	if err != nil {
		return Cursor{}, ErrInvalidToken
	}

	var c Cursor
	if err := json.Unmarshal(b, &c); err != nil {
		return Cursor{}, ErrInvalidToken
	}
	// a position needs both halves of the key
	if c.ActorID == 0 || c.CreatedNano <= 0 {
		return Cursor{}, ErrInvalidToken
	}
	return c, nil
}
