package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"memberflow_backend/internal/domain/entity"
	"memberflow_backend/internal/feature/auth/domain"
)

const (
	// refreshTokenTTL is how long a refresh session stays usable.
	refreshTokenTTL = 7 * 24 * time.Hour

	// maxSessionsPerUser caps concurrent sessions; the oldest is evicted
	// when the cap is reached.
	maxSessionsPerUser = 5
)

// UserRepository abstracts the user lookups the auth flow needs.
// Following Go convention, the interface is defined by the consumer
// (usecase), not the provider (adapters).
type UserRepository interface {
	// FindByEmail retrieves a user with their role materialized.
	FindByEmail(ctx context.Context, email string) (*entity.User, error)

	FindByID(ctx context.Context, id uint) (*entity.User, error)
}

// SessionRepository abstracts the persistence layer for refresh sessions.
type SessionRepository interface {
	Create(ctx context.Context, session *domain.Session) error
	FindByID(ctx context.Context, id string) (*domain.Session, error)
	Revoke(ctx context.Context, id string) error
	RevokeAllByUserID(ctx context.Context, userID uint) error
	CountByUserID(ctx context.Context, userID uint) (int64, error)
	DeleteOldestByUserID(ctx context.Context, userID uint) error
}

// JWTGenerator defines the interface for access-token generation.
type JWTGenerator interface {
	// GenerateToken generates a signed JWT for the given user.
	GenerateToken(userID uint, email, role string) (string, error)
}

// TokenPair is the result of a successful login or refresh.
type TokenPair struct {
	AccessToken  string
	RefreshToken string
}

// AuthUsecase implements login, token refresh and logout over the user store
// and the session store.
type AuthUsecase struct {
	users    UserRepository
	sessions SessionRepository
	jwt      JWTGenerator
}

// NewAuthUsecase creates a new AuthUsecase instance.
func NewAuthUsecase(users UserRepository, sessions SessionRepository, jwt JWTGenerator) *AuthUsecase {
	return &AuthUsecase{users: users, sessions: sessions, jwt: jwt}
}

// Login authenticates a user and returns an access/refresh token pair.
// A bcrypt comparison runs even when the user does not exist, so response
// timing does not reveal which emails are registered.
func (u *AuthUsecase) Login(ctx context.Context, email, password, userAgent, ipAddress string) (*TokenPair, error) {
	user, err := u.users.FindByEmail(ctx, email)

	// Dummy hash keeps bcrypt.CompareHashAndPassword on the unknown-user path.
	passwordHash := "$2a$10$N9qo8uLOickgx2ZMRZoMyeIjZAgcfl7p92ldGxad68LJZdL17lhWy"
	if err == nil {
		passwordHash = user.Password
	}
	compareErr := bcrypt.CompareHashAndPassword([]byte(passwordHash), []byte(password))
	if err != nil || compareErr != nil {
		return nil, ErrInvalidCredentials
	}

	return u.issueTokens(ctx, user, userAgent, ipAddress)
}

// Refresh rotates a refresh session: the presented session is revoked and a
// fresh token pair is issued. Expired and revoked sessions are rejected.
func (u *AuthUsecase) Refresh(ctx context.Context, refreshToken, userAgent, ipAddress string) (*TokenPair, error) {
	session, err := u.sessions.FindByID(ctx, refreshToken)
	if err != nil {
		return nil, err
	}
	if session.IsRevoked() {
		return nil, ErrSessionRevoked
	}
	if session.IsExpired() {
		return nil, ErrSessionExpired
	}

	user, err := u.users.FindByID(ctx, session.UserID)
	if err != nil {
		return nil, err
	}

	if err := u.sessions.Revoke(ctx, session.ID); err != nil {
		return nil, err
	}
	return u.issueTokens(ctx, user, userAgent, ipAddress)
}

// Logout revokes the presented refresh session.
func (u *AuthUsecase) Logout(ctx context.Context, refreshToken string) error {
	return u.sessions.Revoke(ctx, refreshToken)
}

// LogoutAll revokes every session of one user.
func (u *AuthUsecase) LogoutAll(ctx context.Context, userID uint) error {
	return u.sessions.RevokeAllByUserID(ctx, userID)
}

func (u *AuthUsecase) issueTokens(ctx context.Context, user *entity.User, userAgent, ipAddress string) (*TokenPair, error) {
	roleName := ""
	if user.Role != nil {
		roleName = user.Role.Name
	}
	access, err := u.jwt.GenerateToken(user.ID, user.Email, roleName)
	if err != nil {
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}

	// Evict the oldest session when the per-user cap is reached.
	n, err := u.sessions.CountByUserID(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	if n >= maxSessionsPerUser {
		if err := u.sessions.DeleteOldestByUserID(ctx, user.ID); err != nil {
			return nil, err
		}
	}

	now := time.Now()
	session := &domain.Session{
		ID:        uuid.NewString(),
		UserID:    user.ID,
		UserAgent: userAgent,
		IPAddress: ipAddress,
		CreatedAt: now,
		ExpiresAt: now.Add(refreshTokenTTL),
	}
	if err := u.sessions.Create(ctx, session); err != nil {
		return nil, err
	}

	return &TokenPair{AccessToken: access, RefreshToken: session.ID}, nil
}
