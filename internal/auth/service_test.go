package auth

import (
	"context"
	"io"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	pkgauth "github.com/kwlc-church/kwlc-backend/pkg/auth"
	"github.com/kwlc-church/kwlc-backend/pkg/auth/session"
	"github.com/kwlc-church/kwlc-backend/pkg/config"
	"github.com/kwlc-church/kwlc-backend/pkg/db/models"
	"github.com/kwlc-church/kwlc-backend/pkg/enums"
	pkgerrors "github.com/kwlc-church/kwlc-backend/pkg/errors"
	"github.com/kwlc-church/kwlc-backend/pkg/logger"
	"github.com/kwlc-church/kwlc-backend/pkg/security"
)

type stubUserFinder struct {
	byEmail map[string]*models.User
	byID    map[uuid.UUID]*models.User
	touched []uuid.UUID
}

func (s *stubUserFinder) GetByEmail(_ context.Context, email string) (*models.User, error) {
	if user, ok := s.byEmail[email]; ok {
		return user, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *stubUserFinder) GetByID(_ context.Context, id uuid.UUID) (*models.User, error) {
	if user, ok := s.byID[id]; ok {
		return user, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *stubUserFinder) TouchLastLogin(_ context.Context, id uuid.UUID, _ time.Time) error {
	s.touched = append(s.touched, id)
	return nil
}

type stubSessionManager struct {
	refreshByAccessID map[string]string
	revoked           []string
}

func (s *stubSessionManager) Generate(_ context.Context, accessID string) (string, error) {
	token := "refresh-" + accessID
	s.refreshByAccessID[accessID] = token
	return token, nil
}

func (s *stubSessionManager) Rotate(_ context.Context, oldAccessID, provided string) (string, string, error) {
	stored, ok := s.refreshByAccessID[oldAccessID]
	if !ok || stored != provided {
		return "", "", session.ErrInvalidRefreshToken
	}
	delete(s.refreshByAccessID, oldAccessID)
	newAccessID := session.NewAccessID()
	token := "refresh-" + newAccessID
	s.refreshByAccessID[newAccessID] = token
	return newAccessID, token, nil
}

func (s *stubSessionManager) Revoke(_ context.Context, accessID string) error {
	s.revoked = append(s.revoked, accessID)
	delete(s.refreshByAccessID, accessID)
	return nil
}

func testJWTConfig() config.JWTConfig {
	return config.JWTConfig{
		Secret:                 "test-secret",
		Issuer:                 "kwlc-test",
		ExpirationMinutes:      15,
		RefreshTokenTTLMinutes: 60,
	}
}

func testPasswordConfig() config.PasswordConfig {
	return config.PasswordConfig{
		ArgonMemoryKB:    8,
		ArgonTime:        1,
		ArgonParallelism: 1,
		ArgonSaltLen:     8,
		ArgonKeyLen:      16,
	}
}

func newAuthFixture(t *testing.T, active bool) (Service, *stubUserFinder, *stubSessionManager, *models.User) {
	t.Helper()

	hash, err := security.HashPassword("open-sesame", testPasswordConfig())
	if err != nil {
		t.Fatalf("hashing password: %v", err)
	}

	user := &models.User{
		ID:           uuid.New(),
		Email:        "ada@kwlc.org",
		PasswordHash: hash,
		FirstName:    "Ada",
		LastName:     "Obi",
		Role:         enums.UserRoleAdmin,
		IsActive:     active,
	}
	users := &stubUserFinder{
		byEmail: map[string]*models.User{user.Email: user},
		byID:    map[uuid.UUID]*models.User{user.ID: user},
	}
	sessions := &stubSessionManager{refreshByAccessID: map[string]string{}}
	logg := logger.New(logger.Options{Output: io.Discard})

	svc, err := NewService(users, sessions, testJWTConfig(), logg)
	if err != nil {
		t.Fatalf("building service: %v", err)
	}
	return svc, users, sessions, user
}

func TestLoginIssuesTokenPair(t *testing.T) {
	svc, users, sessions, user := newAuthFixture(t, true)

	result, err := svc.Login(context.Background(), " Ada@KWLC.org ", "open-sesame")
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}
	if result.Tokens.AccessToken == "" || result.Tokens.RefreshToken == "" {
		t.Fatal("expected both tokens to be issued")
	}
	if result.Tokens.ExpiresIn != 15*60 {
		t.Fatalf("unexpected expires_in %d", result.Tokens.ExpiresIn)
	}

	claims, err := pkgauth.ParseAccessToken(testJWTConfig(), result.Tokens.AccessToken)
	if err != nil {
		t.Fatalf("parsing issued token: %v", err)
	}
	if claims.UserID != user.ID {
		t.Fatalf("token carries wrong user id %s", claims.UserID)
	}
	if claims.Role != enums.UserRoleAdmin {
		t.Fatalf("token carries wrong role %s", claims.Role)
	}
	if sessions.refreshByAccessID[claims.ID] != result.Tokens.RefreshToken {
		t.Fatal("refresh token not stored under the token jti")
	}
	if len(users.touched) != 1 || users.touched[0] != user.ID {
		t.Fatal("expected last login to be recorded")
	}
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	svc, _, _, _ := newAuthFixture(t, true)

	_, err := svc.Login(context.Background(), "ada@kwlc.org", "wrong-password")
	if coded := pkgerrors.As(err); coded == nil || coded.Code() != pkgerrors.CodeUnauthorized {
		t.Fatalf("expected unauthorized, got %v", err)
	}

	_, err = svc.Login(context.Background(), "nobody@kwlc.org", "open-sesame")
	if coded := pkgerrors.As(err); coded == nil || coded.Code() != pkgerrors.CodeUnauthorized {
		t.Fatalf("expected unauthorized for unknown email, got %v", err)
	}
}

func TestLoginRejectsDisabledAccount(t *testing.T) {
	svc, _, _, _ := newAuthFixture(t, false)

	_, err := svc.Login(context.Background(), "ada@kwlc.org", "open-sesame")
	if coded := pkgerrors.As(err); coded == nil || coded.Code() != pkgerrors.CodeForbidden {
		t.Fatalf("expected forbidden, got %v", err)
	}
}

func TestRefreshRotatesSession(t *testing.T) {
	svc, _, sessions, _ := newAuthFixture(t, true)

	result, err := svc.Login(context.Background(), "ada@kwlc.org", "open-sesame")
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}

	pair, err := svc.Refresh(context.Background(), result.Tokens.AccessToken, result.Tokens.RefreshToken)
	if err != nil {
		t.Fatalf("refresh failed: %v", err)
	}
	if pair.RefreshToken == result.Tokens.RefreshToken {
		t.Fatal("expected a rotated refresh token")
	}

	// The old refresh token is burned after rotation.
	_, err = svc.Refresh(context.Background(), result.Tokens.AccessToken, result.Tokens.RefreshToken)
	if coded := pkgerrors.As(err); coded == nil || coded.Code() != pkgerrors.CodeUnauthorized {
		t.Fatalf("expected unauthorized for reused refresh token, got %v", err)
	}

	if len(sessions.refreshByAccessID) != 1 {
		t.Fatalf("expected exactly one live session, got %d", len(sessions.refreshByAccessID))
	}
}

func TestLogoutRevokesSession(t *testing.T) {
	svc, _, sessions, _ := newAuthFixture(t, true)

	result, err := svc.Login(context.Background(), "ada@kwlc.org", "open-sesame")
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}
	claims, err := pkgauth.ParseAccessToken(testJWTConfig(), result.Tokens.AccessToken)
	if err != nil {
		t.Fatalf("parsing token: %v", err)
	}

	if err := svc.Logout(context.Background(), claims.ID); err != nil {
		t.Fatalf("logout failed: %v", err)
	}
	if len(sessions.revoked) != 1 || sessions.revoked[0] != claims.ID {
		t.Fatal("expected the session to be revoked")
	}
}
