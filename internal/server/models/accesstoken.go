package models

import "time"

// AccessTokenRecord tracks the liveness of one issued access token by its
// jti claim. The record exists only in process memory; losing it on restart
// forces clients to log in again.
type AccessTokenRecord struct {
	JTI       string
	UserID    string
	ExpiresAt time.Time
	Revoked   bool
}

// Live reports whether the record is accepted at the given instant.
func (r *AccessTokenRecord) Live(now time.Time) bool {
	return !r.Revoked && r.ExpiresAt.After(now)
}
