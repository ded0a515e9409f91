package services

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"golang.org/x/crypto/bcrypt"

	"github.com/tickpulse/tickpulse/internal/common"
	"github.com/tickpulse/tickpulse/internal/dbx"
	"github.com/tickpulse/tickpulse/internal/server/config"
	"github.com/tickpulse/tickpulse/internal/server/models"
	usersrepo "github.com/tickpulse/tickpulse/internal/server/repositories/users"
	"github.com/tickpulse/tickpulse/internal/server/tokenstore"
)

// --- helpers ---

func newSQLMockDB(t *testing.T) *sql.DB {
	t.Helper()
	db, _, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return db
}

type fakeUsersRepo struct {
	createOut *models.User
	createErr error

	byEmail map[string]*models.User
	byID    map[string]*models.User
	getErr  error
}

func (f *fakeUsersRepo) Create(ctx context.Context, u *models.User) (*models.User, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	return f.createOut, nil
}

func (f *fakeUsersRepo) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	if u, ok := f.byEmail[email]; ok {
		return u, nil
	}
	return nil, common.ErrorNotFound
}

func (f *fakeUsersRepo) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	if u, ok := f.byID[id]; ok {
		return u, nil
	}
	return nil, common.ErrorNotFound
}

type fakeRepoManager struct {
	u *fakeUsersRepo
}

func (m *fakeRepoManager) RunMigrations(context.Context, *sql.DB) error { return nil }
func (m *fakeRepoManager) Users(db dbx.DBTX) usersrepo.Repository      { return m.u }

func mustHash(t *testing.T, password string) string {
	t.Helper()
	h, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("bcrypt error: %v", err)
	}
	return string(h)
}

func newAuthService(t *testing.T, rm *fakeRepoManager) (*AuthService, *tokenstore.MemoryStore) {
	t.Helper()
	cfg := &config.Config{
		AccessSecretKey:              "access-k",
		RefreshSecretKey:             "refresh-k",
		AccessTokenValidityDuration:  15 * time.Minute,
		RefreshTokenValidityDuration: 2 * time.Hour,
	}
	store := tokenstore.NewMemoryStore()
	return NewAuthService(newSQLMockDB(t), rm, store, cfg), store
}

func aliceRepo(t *testing.T) *fakeUsersRepo {
	t.Helper()
	alice := &models.User{
		ID:           "u-1",
		Email:        "alice@example.com",
		PasswordHash: mustHash(t, "hunter2"),
		LicenseKey:   "lic-1",
	}
	return &fakeUsersRepo{
		byEmail: map[string]*models.User{alice.Email: alice},
		byID:    map[string]*models.User{alice.ID: alice},
	}
}

// --- register ---

func TestRegister_Success(t *testing.T) {
	rm := &fakeRepoManager{u: &fakeUsersRepo{
		createOut: &models.User{ID: "u-9", Email: "bob@example.com"},
	}}
	s, _ := newAuthService(t, rm)

	id, err := s.Register(context.Background(), "bob@example.com", "pw")
	if err != nil {
		t.Fatalf("Register error: %v", err)
	}
	if id.ID != "u-9" || id.Email != "bob@example.com" {
		t.Fatalf("unexpected identity: %+v", id)
	}
}

func TestRegister_DuplicateEmail(t *testing.T) {
	rm := &fakeRepoManager{u: &fakeUsersRepo{createErr: common.ErrDuplicateEmail}}
	s, _ := newAuthService(t, rm)

	_, err := s.Register(context.Background(), "dup@example.com", "pw")
	if !errors.Is(err, common.ErrDuplicateEmail) {
		t.Fatalf("want ErrDuplicateEmail, got %v", err)
	}
}

func TestRegister_RepoError(t *testing.T) {
	rm := &fakeRepoManager{u: &fakeUsersRepo{createErr: errors.New("db down")}}
	s, _ := newAuthService(t, rm)

	_, err := s.Register(context.Background(), "bob@example.com", "pw")
	if !errors.Is(err, common.ErrorInternal) {
		t.Fatalf("want ErrorInternal, got %v", err)
	}
}

// --- login ---

func TestLogin_Success(t *testing.T) {
	s, store := newAuthService(t, &fakeRepoManager{u: aliceRepo(t)})

	id, pair, err := s.Login(context.Background(), "alice@example.com", "hunter2")
	if err != nil {
		t.Fatalf("Login error: %v", err)
	}
	if id.ID != "u-1" || id.Email != "alice@example.com" {
		t.Fatalf("unexpected identity: %+v", id)
	}
	if pair.AccessToken == "" || pair.RefreshToken == "" {
		t.Fatalf("empty tokens: %+v", pair)
	}
	// both tokens must be registered in the validity store
	if store.Len() != 2 {
		t.Fatalf("expected 2 store records, got %d", store.Len())
	}
}

func TestLogin_UnknownEmail(t *testing.T) {
	s, _ := newAuthService(t, &fakeRepoManager{u: aliceRepo(t)})

	_, _, err := s.Login(context.Background(), "ghost@example.com", "hunter2")
	if !errors.Is(err, common.ErrInvalidCredentials) {
		t.Fatalf("want ErrInvalidCredentials, got %v", err)
	}
}

func TestLogin_WrongPassword(t *testing.T) {
	s, _ := newAuthService(t, &fakeRepoManager{u: aliceRepo(t)})

	_, _, err := s.Login(context.Background(), "alice@example.com", "wrong")
	if !errors.Is(err, common.ErrInvalidCredentials) {
		t.Fatalf("want ErrInvalidCredentials, got %v", err)
	}
}

func TestLogin_RepoError(t *testing.T) {
	s, _ := newAuthService(t, &fakeRepoManager{u: &fakeUsersRepo{getErr: errors.New("db down")}})

	_, _, err := s.Login(context.Background(), "alice@example.com", "hunter2")
	if !errors.Is(err, common.ErrorInternal) {
		t.Fatalf("want ErrorInternal, got %v", err)
	}
}

// --- refresh ---

func TestRefresh_RotationInvalidatesOld(t *testing.T) {
	s, _ := newAuthService(t, &fakeRepoManager{u: aliceRepo(t)})

	_, pair, err := s.Login(context.Background(), "alice@example.com", "hunter2")
	if err != nil {
		t.Fatalf("Login error: %v", err)
	}

	next, err := s.Refresh(context.Background(), pair.RefreshToken)
	if err != nil {
		t.Fatalf("Refresh error: %v", err)
	}
	if next.AccessToken == "" || next.RefreshToken == "" {
		t.Fatalf("empty tokens: %+v", next)
	}
	if next.RefreshToken == pair.RefreshToken {
		t.Fatalf("rotation must produce a new refresh token")
	}

	// replaying the consumed token must fail
	if _, err := s.Refresh(context.Background(), pair.RefreshToken); !errors.Is(err, common.ErrTokenRevoked) {
		t.Fatalf("want ErrTokenRevoked on replay, got %v", err)
	}
}

func TestRefresh_OldAccessTokenStaysLive(t *testing.T) {
	s, _ := newAuthService(t, &fakeRepoManager{u: aliceRepo(t)})

	_, pair, err := s.Login(context.Background(), "alice@example.com", "hunter2")
	if err != nil {
		t.Fatalf("Login error: %v", err)
	}

	if _, err := s.Refresh(context.Background(), pair.RefreshToken); err != nil {
		t.Fatalf("Refresh error: %v", err)
	}

	// refresh rotates the refresh token only; the old access token lives
	// until its own expiry unless logout is called
	if _, err := s.Authenticate(context.Background(), pair.AccessToken); err != nil {
		t.Fatalf("old access token must still authenticate, got %v", err)
	}
}

func TestRefresh_NoToken(t *testing.T) {
	s, _ := newAuthService(t, &fakeRepoManager{u: aliceRepo(t)})

	if _, err := s.Refresh(context.Background(), ""); !errors.Is(err, common.ErrNoToken) {
		t.Fatalf("want ErrNoToken, got %v", err)
	}
}

func TestRefresh_UnknownToken(t *testing.T) {
	s, _ := newAuthService(t, &fakeRepoManager{u: aliceRepo(t)})

	if _, err := s.Refresh(context.Background(), "never-issued"); !errors.Is(err, common.ErrTokenRevoked) {
		t.Fatalf("want ErrTokenRevoked, got %v", err)
	}
}

func TestRefresh_UserDeleted(t *testing.T) {
	repo := aliceRepo(t)
	s, store := newAuthService(t, &fakeRepoManager{u: repo})

	store.RegisterRefreshToken("orphan", "u-gone", time.Now().Add(time.Hour))

	if _, err := s.Refresh(context.Background(), "orphan"); !errors.Is(err, common.ErrTokenRevoked) {
		t.Fatalf("want ErrTokenRevoked for deleted user, got %v", err)
	}
}

// --- logout / authenticate ---

func TestLogout_RevokesBothTokens(t *testing.T) {
	s, _ := newAuthService(t, &fakeRepoManager{u: aliceRepo(t)})

	_, pair, err := s.Login(context.Background(), "alice@example.com", "hunter2")
	if err != nil {
		t.Fatalf("Login error: %v", err)
	}

	if _, err := s.Authenticate(context.Background(), pair.AccessToken); err != nil {
		t.Fatalf("pre-logout authenticate failed: %v", err)
	}

	s.Logout(context.Background(), pair.AccessToken, pair.RefreshToken)

	// the access token signature is still valid; revocation is what rejects it
	if _, err := s.Authenticate(context.Background(), pair.AccessToken); !errors.Is(err, common.ErrTokenRevoked) {
		t.Fatalf("want ErrTokenRevoked after logout, got %v", err)
	}
	if _, err := s.Refresh(context.Background(), pair.RefreshToken); !errors.Is(err, common.ErrTokenRevoked) {
		t.Fatalf("want ErrTokenRevoked for refreshing after logout, got %v", err)
	}
}

func TestLogout_Idempotent(t *testing.T) {
	s, _ := newAuthService(t, &fakeRepoManager{u: aliceRepo(t)})

	_, pair, err := s.Login(context.Background(), "alice@example.com", "hunter2")
	if err != nil {
		t.Fatalf("Login error: %v", err)
	}

	s.Logout(context.Background(), pair.AccessToken, pair.RefreshToken)
	s.Logout(context.Background(), pair.AccessToken, pair.RefreshToken)
	s.Logout(context.Background(), "garbage", "")
}

func TestAuthenticate_NoToken(t *testing.T) {
	s, _ := newAuthService(t, &fakeRepoManager{u: aliceRepo(t)})

	if _, err := s.Authenticate(context.Background(), ""); !errors.Is(err, common.ErrNoToken) {
		t.Fatalf("want ErrNoToken, got %v", err)
	}
}

func TestAuthenticate_Malformed(t *testing.T) {
	s, _ := newAuthService(t, &fakeRepoManager{u: aliceRepo(t)})

	if _, err := s.Authenticate(context.Background(), "not.a.jwt"); !errors.Is(err, common.ErrInvalidToken) {
		t.Fatalf("want ErrInvalidToken, got %v", err)
	}
}
