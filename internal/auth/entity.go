// AngelaMos | 2026
// entity.go

package auth

import (
	"time"
)

// Claims is what a verified bearer token asserts.
type Claims struct {
	UserID       string
	TokenID      string
	TokenVersion int
	IssuedAt     time.Time
	ExpiresAt    time.Time
}

func (c *Claims) IsExpired(now time.Time) bool {
	return !now.Before(c.ExpiresAt)
}
