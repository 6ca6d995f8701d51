package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"tourdesk_backend/internal/auth/password"
	"tourdesk_backend/internal/auth/repository"
	"tourdesk_backend/internal/auth/token"
	"tourdesk_backend/internal/events"
	"tourdesk_backend/platform/config"
	"tourdesk_backend/platform/logger"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var ErrInvalidCredentials = errors.New("invalid credentials")
var ErrTokenExpired = errors.New("token expired")
var ErrTokenInvalid = errors.New("token invalid")
var ErrEmailTaken = repository.ErrEmailTaken

const accessTokenType = "access"

// Store is the persistence surface the auth service depends on.
type Store interface {
	CreateOrganizationWithAdmin(ctx context.Context, p repository.BootstrapParams) (repository.User, error)
	GetUserByEmail(ctx context.Context, email string) (repository.User, error)
	GetUserByID(ctx context.Context, userID uuid.UUID) (repository.User, error)
	UpdatePassword(ctx context.Context, userID uuid.UUID, passwordHash string) error
	CreateRefreshToken(ctx context.Context, userID uuid.UUID, tokenHash string, expiresAt time.Time) error
	GetRefreshToken(ctx context.Context, tokenHash string) (uuid.UUID, time.Time, error)
	RevokeRefreshToken(ctx context.Context, tokenHash string) error
	RevokeAllRefreshTokens(ctx context.Context, userID uuid.UUID) error
}

// TokenPair bundles a signed access token with its opaque refresh token.
type TokenPair struct {
	AccessToken  string
	RefreshToken string
}

type Service struct {
	repo Store
	cfg  config.AuthServiceConfig
	bus  events.Bus
	log  *logger.Logger
}

func New(repo Store, cfg config.AuthServiceConfig, bus events.Bus, log *logger.Logger) *Service {
	return &Service{repo: repo, cfg: cfg, bus: bus, log: log}
}

// RegisterInput carries the organization bootstrap request.
type RegisterInput struct {
	OrganizationName string
	BaseCurrency     string
	FullName         string
	Email            string
	Password         string
}

// Register creates a new organization with its first admin user and signs
// the admin in.
func (s *Service) Register(ctx context.Context, in RegisterInput) (repository.User, TokenPair, error) {
	hash, err := password.Hash(in.Password)
	if err != nil {
		return repository.User{}, TokenPair{}, err
	}

	user, err := s.repo.CreateOrganizationWithAdmin(ctx, repository.BootstrapParams{
		OrganizationName: strings.TrimSpace(in.OrganizationName),
		BaseCurrency:     strings.ToUpper(in.BaseCurrency),
		Email:            strings.ToLower(strings.TrimSpace(in.Email)),
		PasswordHash:     hash,
		FullName:         strings.TrimSpace(in.FullName),
	})
	if err != nil {
		return repository.User{}, TokenPair{}, err
	}

	s.bus.Publish(ctx, events.OrganizationCreated{
		BaseEvent:      events.NewBaseEvent(),
		OrganizationID: user.OrganizationID,
		Name:           in.OrganizationName,
		CreatedBy:      user.ID,
	})

	pair, err := s.issueTokens(ctx, user)
	if err != nil {
		return repository.User{}, TokenPair{}, err
	}

	s.log.AuthEvent("register", user.Email, true, "")
	return user, pair, nil
}

func (s *Service) Login(ctx context.Context, email, plainPassword string) (repository.User, TokenPair, error) {
	user, err := s.repo.GetUserByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		return repository.User{}, TokenPair{}, ErrInvalidCredentials
	}

	if err := password.Compare(user.PasswordHash, plainPassword); err != nil {
		s.log.AuthEvent("login", user.Email, false, "password mismatch")
		return repository.User{}, TokenPair{}, ErrInvalidCredentials
	}

	pair, err := s.issueTokens(ctx, user)
	if err != nil {
		return repository.User{}, TokenPair{}, err
	}

	s.log.AuthEvent("login", user.Email, true, "")
	return user, pair, nil
}

// Refresh rotates a refresh token: the presented token is revoked and a new
// pair is issued. Expired tokens are revoked and rejected.
func (s *Service) Refresh(ctx context.Context, refreshToken string) (TokenPair, error) {
	hash := token.HashSHA256(refreshToken)
	userID, expiresAt, err := s.repo.GetRefreshToken(ctx, hash)
	if err != nil {
		return TokenPair{}, ErrTokenInvalid
	}

	if time.Now().After(expiresAt) {
		_ = s.repo.RevokeRefreshToken(ctx, hash)
		return TokenPair{}, ErrTokenExpired
	}

	if err := s.repo.RevokeRefreshToken(ctx, hash); err != nil {
		return TokenPair{}, err
	}

	user, err := s.repo.GetUserByID(ctx, userID)
	if err != nil {
		return TokenPair{}, ErrTokenInvalid
	}

	return s.issueTokens(ctx, user)
}

func (s *Service) Logout(ctx context.Context, refreshToken string) error {
	hash := token.HashSHA256(refreshToken)
	return s.repo.RevokeRefreshToken(ctx, hash)
}

func (s *Service) Me(ctx context.Context, userID uuid.UUID) (repository.User, error) {
	return s.repo.GetUserByID(ctx, userID)
}

// ChangePassword verifies the current password before storing the new hash.
// All refresh tokens are revoked so stolen sessions cannot outlive the change.
func (s *Service) ChangePassword(ctx context.Context, userID uuid.UUID, current, next string) error {
	user, err := s.repo.GetUserByID(ctx, userID)
	if err != nil {
		return err
	}

	if err := password.Compare(user.PasswordHash, current); err != nil {
		return ErrInvalidCredentials
	}

	hash, err := password.Hash(next)
	if err != nil {
		return err
	}

	if err := s.repo.UpdatePassword(ctx, userID, hash); err != nil {
		return err
	}

	return s.repo.RevokeAllRefreshTokens(ctx, userID)
}

func (s *Service) issueTokens(ctx context.Context, user repository.User) (TokenPair, error) {
	accessToken, err := s.signJWT(user, s.cfg.GetAccessTokenTTL())
	if err != nil {
		return TokenPair{}, err
	}

	refreshToken, err := token.GenerateRandomToken(48)
	if err != nil {
		return TokenPair{}, err
	}

	hash := token.HashSHA256(refreshToken)
	expiresAt := time.Now().Add(s.cfg.GetRefreshTokenTTL())
	if err := s.repo.CreateRefreshToken(ctx, user.ID, hash, expiresAt); err != nil {
		return TokenPair{}, err
	}

	return TokenPair{AccessToken: accessToken, RefreshToken: refreshToken}, nil
}

func (s *Service) signJWT(user repository.User, ttl time.Duration) (string, error) {
	claims := jwt.MapClaims{
		"sub":       user.ID.String(),
		"type":      accessTokenType,
		"roles":     []string{user.Role},
		"tenant_id": user.OrganizationID.String(),
		"exp":       time.Now().Add(ttl).Unix(),
		"iat":       time.Now().Unix(),
	}

	tokenObj := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return tokenObj.SignedString([]byte(s.cfg.GetJWTAccessSecret()))
}
