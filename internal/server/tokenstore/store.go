// Package tokenstore implements the token validity store: the authoritative
// revocation/liveness registry for issued tokens, independent of their
// cryptographic validity. A signed token stays verifiable until its natural
// expiry; this store supplies the mutable state that makes revocation and
// single-use refresh rotation possible before that.
//
// The store lives for the process lifetime only. A restart forgets all
// outstanding sessions and forces re-login.
package tokenstore

import "time"

// Store is the token validity registry consumed by the auth service and the
// request gate.
type Store interface {
	// RegisterAccessToken records a newly issued access token by its jti.
	RegisterAccessToken(jti, userID string, expiresAt time.Time)

	// RegisterRefreshToken records a newly issued refresh token by its value.
	RegisterRefreshToken(token, userID string, expiresAt time.Time)

	// IsAccessTokenLive reports whether a record with the given jti exists,
	// is not revoked, and has not expired.
	IsAccessTokenLive(jti string) bool

	// ConsumeRefreshToken atomically checks that the refresh token is live and
	// marks it revoked, returning the owning user id. A token that was never
	// issued, already consumed, expired, or explicitly revoked yields
	// common.ErrTokenRevoked. This is the single-use rotation point: of two
	// concurrent consumers only one can succeed.
	ConsumeRefreshToken(token string) (string, error)

	// RevokeAccessToken marks the access token with the given jti revoked.
	// Revoking an unknown jti is a no-op.
	RevokeAccessToken(jti string)

	// RevokeRefreshToken marks the refresh token revoked.
	// Revoking an unknown token is a no-op.
	RevokeRefreshToken(token string)

	// SweepExpired removes records whose expiry is in the past and returns
	// the number of records removed. Safe to run repeatedly.
	SweepExpired() int
}
