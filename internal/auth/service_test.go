package auth

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	pkgauth "github.com/tokoluma/luma-backend/pkg/auth"
	"github.com/tokoluma/luma-backend/pkg/auth/session"
	"github.com/tokoluma/luma-backend/pkg/config"
	"github.com/tokoluma/luma-backend/pkg/db/models"
	"github.com/tokoluma/luma-backend/pkg/enums"
	pkgerrors "github.com/tokoluma/luma-backend/pkg/errors"
	"github.com/tokoluma/luma-backend/pkg/security"
)

type stubUserRepo struct {
	byEmail map[string]*models.User
	byID    map[uuid.UUID]*models.User
	created []*models.User
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{
		byEmail: map[string]*models.User{},
		byID:    map[uuid.UUID]*models.User{},
	}
}

func (r *stubUserRepo) add(user *models.User) {
	r.byEmail[user.Email] = user
	r.byID[user.ID] = user
}

func (r *stubUserRepo) Create(ctx context.Context, user *models.User) (*models.User, error) {
	if _, exists := r.byEmail[user.Email]; exists {
		return nil, fmt.Errorf(`duplicate key value violates unique constraint "users_email_key"`)
	}
	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	r.add(user)
	r.created = append(r.created, user)
	return user, nil
}

func (r *stubUserRepo) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	user, ok := r.byEmail[email]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return user, nil
}

func (r *stubUserRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	user, ok := r.byID[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return user, nil
}

func (r *stubUserRepo) UpdateLastLogin(ctx context.Context, id uuid.UUID, at time.Time) error {
	return nil
}

type stubSessionManager struct {
	sessions map[string]string
	revoked  []string
}

func newStubSessionManager() *stubSessionManager {
	return &stubSessionManager{sessions: map[string]string{}}
}

func (m *stubSessionManager) Generate(ctx context.Context, accessID string) (string, error) {
	token := "refresh-" + accessID
	m.sessions[accessID] = token
	return token, nil
}

func (m *stubSessionManager) Rotate(ctx context.Context, oldAccessID, provided string) (string, string, error) {
	stored, ok := m.sessions[oldAccessID]
	if !ok || stored != provided {
		return "", "", session.ErrInvalidRefreshToken
	}
	delete(m.sessions, oldAccessID)
	newID := session.NewAccessID()
	token := "refresh-" + newID
	m.sessions[newID] = token
	return newID, token, nil
}

func (m *stubSessionManager) Revoke(ctx context.Context, accessID string) error {
	delete(m.sessions, accessID)
	m.revoked = append(m.revoked, accessID)
	return nil
}

func testJWTConfig() config.JWTConfig {
	return config.JWTConfig{Secret: "secret", Issuer: "luma", ExpirationMinutes: 30}
}

func testPasswordConfig() config.PasswordConfig {
	return config.PasswordConfig{
		ArgonMemoryKB:    32768,
		ArgonTime:        1,
		ArgonParallelism: 1,
		ArgonSaltLen:     16,
		ArgonKeyLen:      32,
	}
}

func newTestService(t *testing.T, repo *stubUserRepo, sessions *stubSessionManager) Service {
	t.Helper()
	svc, err := NewService(ServiceParams{
		UserRepo:       repo,
		SessionManager: sessions,
		JWTConfig:      testJWTConfig(),
		PasswordConfig: testPasswordConfig(),
	})
	require.NoError(t, err)
	return svc
}

func seedUser(t *testing.T, repo *stubUserRepo, email, password string, active bool) *models.User {
	t.Helper()
	hash, err := security.HashPassword(password, testPasswordConfig())
	require.NoError(t, err)
	user := &models.User{
		ID:           uuid.New(),
		Email:        email,
		PasswordHash: hash,
		Name:         "Dewi",
		Role:         enums.RoleCustomer,
		IsActive:     active,
	}
	repo.add(user)
	return user
}

func assertAuthCode(t *testing.T, err error, code pkgerrors.Code) {
	t.Helper()
	require.Error(t, err)
	coded := pkgerrors.As(err)
	require.NotNil(t, coded, "expected coded error, got %v", err)
	assert.Equal(t, code, coded.Code())
}

func TestRegisterCreatesCustomerAndSignsIn(t *testing.T) {
	repo := newStubUserRepo()
	sessions := newStubSessionManager()
	svc := newTestService(t, repo, sessions)

	resp, err := svc.Register(context.Background(), RegisterRequest{
		Name:     "Dewi Lestari",
		Email:    "Dewi@Example.com",
		Password: "rahasia-banget",
	})
	require.NoError(t, err)
	require.Len(t, repo.created, 1)

	created := repo.created[0]
	assert.Equal(t, "dewi@example.com", created.Email, "email is normalized")
	assert.Equal(t, enums.RoleCustomer, created.Role)
	assert.NotEqual(t, "rahasia-banget", created.PasswordHash)

	assert.NotEmpty(t, resp.AccessToken)
	assert.NotEmpty(t, resp.RefreshToken)

	claims, err := pkgauth.ParseAccessToken(testJWTConfig(), resp.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, created.ID, claims.UserID)
	assert.Equal(t, enums.RoleCustomer, claims.Role)
}

func TestRegisterDuplicateEmailConflicts(t *testing.T) {
	repo := newStubUserRepo()
	svc := newTestService(t, repo, newStubSessionManager())
	seedUser(t, repo, "dewi@example.com", "rahasia-banget", true)

	_, err := svc.Register(context.Background(), RegisterRequest{
		Name:     "Dewi",
		Email:    "dewi@example.com",
		Password: "rahasia-banget",
	})
	assertAuthCode(t, err, pkgerrors.CodeConflict)
}

func TestRegisterShortPassword(t *testing.T) {
	svc := newTestService(t, newStubUserRepo(), newStubSessionManager())
	_, err := svc.Register(context.Background(), RegisterRequest{
		Name:     "Dewi",
		Email:    "dewi@example.com",
		Password: "short",
	})
	assertAuthCode(t, err, pkgerrors.CodeValidation)
}

func TestLoginSucceedsWithValidCredentials(t *testing.T) {
	repo := newStubUserRepo()
	svc := newTestService(t, repo, newStubSessionManager())
	user := seedUser(t, repo, "dewi@example.com", "rahasia-banget", true)

	resp, err := svc.Login(context.Background(), LoginRequest{
		Email:    "DEWI@example.com",
		Password: "rahasia-banget",
	})
	require.NoError(t, err)
	assert.Equal(t, user.ID, resp.User.ID)
	assert.NotEmpty(t, resp.AccessToken)
}

func TestLoginRejectsWrongPassword(t *testing.T) {
	repo := newStubUserRepo()
	svc := newTestService(t, repo, newStubSessionManager())
	seedUser(t, repo, "dewi@example.com", "rahasia-banget", true)

	_, err := svc.Login(context.Background(), LoginRequest{
		Email:    "dewi@example.com",
		Password: "salah",
	})
	assertAuthCode(t, err, pkgerrors.CodeUnauthorized)
}

func TestLoginRejectsInactiveAccount(t *testing.T) {
	repo := newStubUserRepo()
	svc := newTestService(t, repo, newStubSessionManager())
	seedUser(t, repo, "dewi@example.com", "rahasia-banget", false)

	_, err := svc.Login(context.Background(), LoginRequest{
		Email:    "dewi@example.com",
		Password: "rahasia-banget",
	})
	assertAuthCode(t, err, pkgerrors.CodeUnauthorized)
}

func TestLoginRejectsUnknownEmail(t *testing.T) {
	svc := newTestService(t, newStubUserRepo(), newStubSessionManager())
	_, err := svc.Login(context.Background(), LoginRequest{
		Email:    "ghost@example.com",
		Password: "whatever",
	})
	assertAuthCode(t, err, pkgerrors.CodeUnauthorized)
}

func TestRefreshRotatesSession(t *testing.T) {
	repo := newStubUserRepo()
	sessions := newStubSessionManager()
	svc := newTestService(t, repo, sessions)
	seedUser(t, repo, "dewi@example.com", "rahasia-banget", true)

	login, err := svc.Login(context.Background(), LoginRequest{
		Email:    "dewi@example.com",
		Password: "rahasia-banget",
	})
	require.NoError(t, err)

	refreshed, err := svc.Refresh(context.Background(), RefreshRequest{
		AccessToken:  login.AccessToken,
		RefreshToken: login.RefreshToken,
	})
	require.NoError(t, err)
	assert.NotEqual(t, login.RefreshToken, refreshed.RefreshToken)

	// The old pair is single-use.
	_, err = svc.Refresh(context.Background(), RefreshRequest{
		AccessToken:  login.AccessToken,
		RefreshToken: login.RefreshToken,
	})
	assertAuthCode(t, err, pkgerrors.CodeUnauthorized)
}

func TestRefreshRejectsForgedToken(t *testing.T) {
	svc := newTestService(t, newStubUserRepo(), newStubSessionManager())
	_, err := svc.Refresh(context.Background(), RefreshRequest{
		AccessToken:  "not-a-jwt",
		RefreshToken: "whatever",
	})
	assertAuthCode(t, err, pkgerrors.CodeUnauthorized)
}

func TestLogoutRevokesSession(t *testing.T) {
	repo := newStubUserRepo()
	sessions := newStubSessionManager()
	svc := newTestService(t, repo, sessions)
	seedUser(t, repo, "dewi@example.com", "rahasia-banget", true)

	login, err := svc.Login(context.Background(), LoginRequest{
		Email:    "dewi@example.com",
		Password: "rahasia-banget",
	})
	require.NoError(t, err)

	claims, err := pkgauth.ParseAccessToken(testJWTConfig(), login.AccessToken)
	require.NoError(t, err)

	require.NoError(t, svc.Logout(context.Background(), claims.ID))
	assert.Contains(t, sessions.revoked, claims.ID)
}
