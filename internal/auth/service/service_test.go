package service

import (
	"context"
	"testing"
	"time"

	"tourdesk_backend/internal/auth/password"
	"tourdesk_backend/internal/auth/repository"
	"tourdesk_backend/internal/auth/token"
	"tourdesk_backend/internal/events"
	"tourdesk_backend/platform/logger"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

type fakeConfig struct{}

func (fakeConfig) GetJWTAccessSecret() string        { return "test-secret" }
func (fakeConfig) GetAccessTokenTTL() time.Duration  { return 15 * time.Minute }
func (fakeConfig) GetRefreshTokenTTL() time.Duration { return 720 * time.Hour }

type storedToken struct {
	userID    uuid.UUID
	expiresAt time.Time
	revoked   bool
}

type fakeStore struct {
	users  map[uuid.UUID]repository.User
	tokens map[string]*storedToken
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		users:  make(map[uuid.UUID]repository.User),
		tokens: make(map[string]*storedToken),
	}
}

func (f *fakeStore) CreateOrganizationWithAdmin(_ context.Context, p repository.BootstrapParams) (repository.User, error) {
	for _, user := range f.users {
		if user.Email == p.Email {
			return repository.User{}, repository.ErrEmailTaken
		}
	}
	user := repository.User{
		ID:             uuid.New(),
		OrganizationID: uuid.New(),
		Email:          p.Email,
		PasswordHash:   p.PasswordHash,
		FullName:       p.FullName,
		Role:           "admin",
		CreatedAt:      time.Now(),
		UpdatedAt:      time.Now(),
	}
	f.users[user.ID] = user
	return user, nil
}

func (f *fakeStore) GetUserByEmail(_ context.Context, email string) (repository.User, error) {
	for _, user := range f.users {
		if user.Email == email {
			return user, nil
		}
	}
	return repository.User{}, repository.ErrNotFound
}

func (f *fakeStore) GetUserByID(_ context.Context, userID uuid.UUID) (repository.User, error) {
	user, ok := f.users[userID]
	if !ok {
		return repository.User{}, repository.ErrNotFound
	}
	return user, nil
}

func (f *fakeStore) UpdatePassword(_ context.Context, userID uuid.UUID, hash string) error {
	user, ok := f.users[userID]
	if !ok {
		return repository.ErrNotFound
	}
	user.PasswordHash = hash
	f.users[userID] = user
	return nil
}

func (f *fakeStore) CreateRefreshToken(_ context.Context, userID uuid.UUID, tokenHash string, expiresAt time.Time) error {
	f.tokens[tokenHash] = &storedToken{userID: userID, expiresAt: expiresAt}
	return nil
}

func (f *fakeStore) GetRefreshToken(_ context.Context, tokenHash string) (uuid.UUID, time.Time, error) {
	stored, ok := f.tokens[tokenHash]
	if !ok || stored.revoked {
		return uuid.UUID{}, time.Time{}, repository.ErrNotFound
	}
	return stored.userID, stored.expiresAt, nil
}

func (f *fakeStore) RevokeRefreshToken(_ context.Context, tokenHash string) error {
	if stored, ok := f.tokens[tokenHash]; ok {
		stored.revoked = true
	}
	return nil
}

func (f *fakeStore) RevokeAllRefreshTokens(_ context.Context, userID uuid.UUID) error {
	for _, stored := range f.tokens {
		if stored.userID == userID {
			stored.revoked = true
		}
	}
	return nil
}

func newTestService(store *fakeStore) *Service {
	log := logger.New("development")
	return New(store, fakeConfig{}, events.NewInMemoryBus(log), log)
}

func registerTestUser(t *testing.T, svc *Service) (repository.User, TokenPair) {
	t.Helper()
	user, pair, err := svc.Register(context.Background(), RegisterInput{
		OrganizationName: "Anatolia Tours",
		BaseCurrency:     "EUR",
		FullName:         "Deniz Kaya",
		Email:            "deniz@anatolia.example",
		Password:         "Sunny-Road-7",
	})
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	return user, pair
}

func TestRegisterBootstrapsAdmin(t *testing.T) {
	store := newFakeStore()
	svc := newTestService(store)

	user, pair := registerTestUser(t, svc)

	if user.Role != "admin" {
		t.Errorf("expected role admin, got %q", user.Role)
	}
	if user.OrganizationID == uuid.Nil {
		t.Error("expected organization to be created")
	}
	if pair.AccessToken == "" || pair.RefreshToken == "" {
		t.Error("expected both tokens to be issued")
	}
	if user.PasswordHash == "Sunny-Road-7" {
		t.Error("password must not be stored in plaintext")
	}
	if err := password.Compare(user.PasswordHash, "Sunny-Road-7"); err != nil {
		t.Errorf("stored hash does not match password: %v", err)
	}
}

func TestRegisterRejectsDuplicateEmail(t *testing.T) {
	store := newFakeStore()
	svc := newTestService(store)
	registerTestUser(t, svc)

	_, _, err := svc.Register(context.Background(), RegisterInput{
		OrganizationName: "Second Org",
		BaseCurrency:     "USD",
		FullName:         "Someone Else",
		Email:            "deniz@anatolia.example",
		Password:         "Other-Pass-9",
	})
	if err != ErrEmailTaken {
		t.Fatalf("expected ErrEmailTaken, got %v", err)
	}
}

func TestLoginIssuesAccessTokenWithTenantClaims(t *testing.T) {
	store := newFakeStore()
	svc := newTestService(store)
	user, _ := registerTestUser(t, svc)

	_, pair, err := svc.Login(context.Background(), "deniz@anatolia.example", "Sunny-Road-7")
	if err != nil {
		t.Fatalf("login: %v", err)
	}

	parsed, err := jwt.Parse(pair.AccessToken, func(*jwt.Token) (interface{}, error) {
		return []byte("test-secret"), nil
	})
	if err != nil || !parsed.Valid {
		t.Fatalf("access token does not parse: %v", err)
	}

	claims := parsed.Claims.(jwt.MapClaims)
	if claims["type"] != "access" {
		t.Errorf("expected token type access, got %v", claims["type"])
	}
	if claims["sub"] != user.ID.String() {
		t.Errorf("expected sub %s, got %v", user.ID, claims["sub"])
	}
	if claims["tenant_id"] != user.OrganizationID.String() {
		t.Errorf("expected tenant_id %s, got %v", user.OrganizationID, claims["tenant_id"])
	}
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	store := newFakeStore()
	svc := newTestService(store)
	registerTestUser(t, svc)

	tests := []struct {
		name     string
		email    string
		password string
	}{
		{"wrong password", "deniz@anatolia.example", "not-the-password"},
		{"unknown email", "nobody@anatolia.example", "Sunny-Road-7"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, _, err := svc.Login(context.Background(), tt.email, tt.password); err != ErrInvalidCredentials {
				t.Fatalf("expected ErrInvalidCredentials, got %v", err)
			}
		})
	}
}

func TestRefreshRotatesToken(t *testing.T) {
	store := newFakeStore()
	svc := newTestService(store)
	_, pair := registerTestUser(t, svc)

	rotated, err := svc.Refresh(context.Background(), pair.RefreshToken)
	if err != nil {
		t.Fatalf("refresh: %v", err)
	}
	if rotated.RefreshToken == pair.RefreshToken {
		t.Error("expected a new refresh token after rotation")
	}

	// The presented token must be single-use.
	if _, err := svc.Refresh(context.Background(), pair.RefreshToken); err != ErrTokenInvalid {
		t.Fatalf("expected ErrTokenInvalid on replay, got %v", err)
	}

	if _, err := svc.Refresh(context.Background(), rotated.RefreshToken); err != nil {
		t.Fatalf("rotated token should stay valid: %v", err)
	}
}

func TestRefreshRejectsExpiredToken(t *testing.T) {
	store := newFakeStore()
	svc := newTestService(store)
	_, pair := registerTestUser(t, svc)

	hash := token.HashSHA256(pair.RefreshToken)
	store.tokens[hash].expiresAt = time.Now().Add(-time.Minute)

	if _, err := svc.Refresh(context.Background(), pair.RefreshToken); err != ErrTokenExpired {
		t.Fatalf("expected ErrTokenExpired, got %v", err)
	}
	if !store.tokens[hash].revoked {
		t.Error("expired token should be revoked on use")
	}
}

func TestChangePasswordRevokesSessions(t *testing.T) {
	store := newFakeStore()
	svc := newTestService(store)
	user, pair := registerTestUser(t, svc)

	if err := svc.ChangePassword(context.Background(), user.ID, "wrong", "New-Pass-42!"); err != ErrInvalidCredentials {
		t.Fatalf("expected ErrInvalidCredentials for wrong current password, got %v", err)
	}

	if err := svc.ChangePassword(context.Background(), user.ID, "Sunny-Road-7", "New-Pass-42!"); err != nil {
		t.Fatalf("change password: %v", err)
	}

	if _, _, err := svc.Login(context.Background(), user.Email, "New-Pass-42!"); err != nil {
		t.Fatalf("login with new password: %v", err)
	}

	if _, err := svc.Refresh(context.Background(), pair.RefreshToken); err != ErrTokenInvalid {
		t.Fatalf("old sessions should be revoked, got %v", err)
	}
}

func TestLogoutRevokesRefreshToken(t *testing.T) {
	store := newFakeStore()
	svc := newTestService(store)
	_, pair := registerTestUser(t, svc)

	if err := svc.Logout(context.Background(), pair.RefreshToken); err != nil {
		t.Fatalf("logout: %v", err)
	}
	if _, err := svc.Refresh(context.Background(), pair.RefreshToken); err != ErrTokenInvalid {
		t.Fatalf("expected ErrTokenInvalid after logout, got %v", err)
	}
}
