// Package services contains server-side business logic. This file implements
// AuthService, which handles registration, credential verification, token
// issuance, refresh rotation, logout, and request authentication against the
// token validity store.
package services

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/tickpulse/tickpulse/internal/common"
	"github.com/tickpulse/tickpulse/internal/server/auth"
	"github.com/tickpulse/tickpulse/internal/server/config"
	"github.com/tickpulse/tickpulse/internal/server/models"
	"github.com/tickpulse/tickpulse/internal/server/repositories/repomanager"
	"github.com/tickpulse/tickpulse/internal/server/tokenstore"
)

// TokenPair bundles a short-lived access token and a long-lived refresh token.
type TokenPair struct {
	AccessToken  string
	RefreshToken string
}

// Identity is the public view of an authenticated user.
type Identity struct {
	ID    string
	Email string
}

// AuthService provides authentication-related operations:
//   - Register: create users (no auto-login; login is a separate step)
//   - Login: verify credentials and mint a token pair
//   - Refresh: rotate refresh tokens and mint new pairs
//   - Logout: revoke session artifacts, idempotently
//   - Authenticate: gate inbound bearer tokens
type AuthService struct {
	db                           *sql.DB
	repomanager                  repomanager.RepositoryManager
	tokens                       tokenstore.Store
	accessSecret                 []byte
	accessTokenValidityDuration  time.Duration
	refreshTokenValidityDuration time.Duration
}

// NewAuthService constructs an AuthService using repositories, the token
// validity store, and server config.
func NewAuthService(db *sql.DB, m repomanager.RepositoryManager, tokens tokenstore.Store, cfg *config.Config) *AuthService {
	return &AuthService{
		db:                           db,
		repomanager:                  m,
		tokens:                       tokens,
		accessSecret:                 []byte(cfg.AccessSecretKey),
		accessTokenValidityDuration:  cfg.AccessTokenValidityDuration,
		refreshTokenValidityDuration: cfg.RefreshTokenValidityDuration,
	}
}

// Register creates a new user with a bcrypt-hashed password and a default
// license key. A duplicate email returns common.ErrDuplicateEmail; the
// uniqueness decision is made by the database, not by a racy pre-check.
func (s *AuthService) Register(ctx context.Context, email, password string) (*Identity, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, common.ErrorInternal
	}

	user := &models.User{
		Email:        email,
		PasswordHash: string(hash),
		LicenseKey:   uuid.NewString(),
	}

	repo := s.repomanager.Users(s.db)
	created, err := repo.Create(ctx, user)
	if err != nil {
		if errors.Is(err, common.ErrDuplicateEmail) {
			return nil, common.ErrDuplicateEmail
		}
		return nil, common.ErrorInternal
	}

	return &Identity{ID: created.ID, Email: created.Email}, nil
}

// Login verifies the credentials and, on success, issues a token pair and
// registers it in the validity store. Unknown email and wrong password both
// map to common.ErrInvalidCredentials.
func (s *AuthService) Login(ctx context.Context, email, password string) (*Identity, *TokenPair, error) {
	repo := s.repomanager.Users(s.db)
	user, err := repo.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, nil, common.ErrInvalidCredentials
		}
		return nil, nil, common.ErrorInternal
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, nil, common.ErrInvalidCredentials
	}

	pair, err := s.issueTokenPair(user.ID, user.Email)
	if err != nil {
		return nil, nil, err
	}

	return &Identity{ID: user.ID, Email: user.Email}, pair, nil
}

// Refresh consumes the presented refresh token (single use) and issues a new
// pair. A token that was never issued, already rotated, expired, or revoked
// yields common.ErrTokenRevoked.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*TokenPair, error) {
	if refreshToken == "" {
		return nil, common.ErrNoToken
	}

	userID, err := s.tokens.ConsumeRefreshToken(refreshToken)
	if err != nil {
		return nil, common.ErrTokenRevoked
	}

	repo := s.repomanager.Users(s.db)
	user, err := repo.GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			// user deleted mid-session: the chain dies with it
			return nil, common.ErrTokenRevoked
		}
		return nil, common.ErrorInternal
	}

	return s.issueTokenPair(user.ID, user.Email)
}

// Logout revokes the access token's jti and the refresh token value if
// present. The access token is decoded without signature verification since
// it is being invalidated, not trusted. Logout always succeeds: revoking
// already-invalid or unknown tokens is a no-op.
func (s *AuthService) Logout(ctx context.Context, accessToken, refreshToken string) {
	if accessToken != "" {
		if claims, err := auth.DecodeUnverified(accessToken); err == nil && claims.ID != "" {
			s.tokens.RevokeAccessToken(claims.ID)
		}
	}
	if refreshToken != "" {
		s.tokens.RevokeRefreshToken(refreshToken)
	}
}

// Authenticate gates an inbound bearer token: the signature and expiry are
// checked by the codec, then the jti is checked against the validity store.
// Identity comes from the token claims; the credential store is not consulted.
func (s *AuthService) Authenticate(ctx context.Context, tokenString string) (*Identity, error) {
	if tokenString == "" {
		return nil, common.ErrNoToken
	}

	claims, err := auth.ParseAccessToken(tokenString, s.accessSecret)
	if err != nil {
		return nil, err
	}

	if !s.tokens.IsAccessTokenLive(claims.ID) {
		return nil, common.ErrTokenRevoked
	}

	return &Identity{ID: claims.Subject, Email: claims.Email}, nil
}

// --- helpers below ---

func (s *AuthService) issueTokenPair(userID, email string) (*TokenPair, error) {
	now := time.Now()

	jti := uuid.NewString()
	access, err := auth.GenerateAccessToken(userID, email, jti, s.accessSecret, s.accessTokenValidityDuration)
	if err != nil {
		return nil, common.ErrorInternal
	}

	refresh, err := common.MakeRandHexString(32)
	if err != nil {
		return nil, common.ErrorInternal
	}

	s.tokens.RegisterAccessToken(jti, userID, now.Add(s.accessTokenValidityDuration))
	s.tokens.RegisterRefreshToken(refresh, userID, now.Add(s.refreshTokenValidityDuration))

	return &TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}
