package models

import "time"

// RefreshTokenRecord tracks one opaque refresh token. The token value itself
// is the lookup key. A record is consumed exactly once: rotation marks it
// revoked before its replacement is registered.
type RefreshTokenRecord struct {
	Token     string
	UserID    string
	ExpiresAt time.Time
	Revoked   bool
}

// Live reports whether the record is accepted at the given instant.
func (r *RefreshTokenRecord) Live(now time.Time) bool {
	return !r.Revoked && r.ExpiresAt.After(now)
}
