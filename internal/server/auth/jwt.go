// Package auth implements the signed-token codec: HS256 JWT issuance and
// verification for access tokens. Cryptographic validity is a necessary but
// insufficient condition for acceptance; the token validity store decides
// revocation separately, keyed by the jti claim.
package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/tickpulse/tickpulse/internal/common"
)

// Claims carries the access-token payload. Subject holds the user id and ID
// (jti) the revocation lookup key.
type Claims struct {
	jwt.RegisteredClaims
	Email string `json:"email"`
}

// GenerateAccessToken signs an access token for the given user with the
// provided jti and validity duration.
func GenerateAccessToken(userID, email, jti string, secretKey []byte, validityDuration time.Duration) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			ID:        jti,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(validityDuration)),
		},
		Email: email,
	})

	tokenString, err := token.SignedString(secretKey)
	if err != nil {
		return "", err
	}

	return tokenString, nil
}

// ParseAccessToken verifies the signature and registered claims of an access
// token and returns its claims. Failures are classified into
// common.ErrTokenExpired (signature fine, past exp) and common.ErrInvalidToken
// (malformed, wrong algorithm, bad signature).
func ParseAccessToken(tokenString string, secretKey []byte) (*Claims, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return secretKey, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, common.ErrTokenExpired
		}
		return nil, common.ErrInvalidToken
	}

	if !token.Valid {
		return nil, common.ErrInvalidToken
	}

	return claims, nil
}

// DecodeUnverified extracts claims without checking the signature or expiry.
// Used only for revocation on logout, where the token is being invalidated,
// not trusted.
func DecodeUnverified(tokenString string) (*Claims, error) {
	claims := &Claims{}
	parser := jwt.NewParser()
	if _, _, err := parser.ParseUnverified(tokenString, claims); err != nil {
		return nil, common.ErrInvalidToken
	}
	return claims, nil
}
