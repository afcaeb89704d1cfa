package usecase

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"memberflow_backend/internal/domain/entity"
	"memberflow_backend/internal/feature/auth/domain"
	"memberflow_backend/internal/shared/apperrors"
)

type fakeUserRepo struct {
	byEmail map[string]*entity.User
}

func (r *fakeUserRepo) FindByEmail(ctx context.Context, email string) (*entity.User, error) {
	u, ok := r.byEmail[email]
	if !ok {
		return nil, fmt.Errorf("%w: email %q", apperrors.ErrEntityNotFound, email)
	}
	return u, nil
}

func (r *fakeUserRepo) FindByID(ctx context.Context, id uint) (*entity.User, error) {
	for _, u := range r.byEmail {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, fmt.Errorf("%w: id=%d", apperrors.ErrEntityNotFound, id)
}

type fakeSessionRepo struct {
	sessions map[string]*domain.Session
}

func newFakeSessionRepo() *fakeSessionRepo {
	return &fakeSessionRepo{sessions: make(map[string]*domain.Session)}
}

func (r *fakeSessionRepo) Create(ctx context.Context, s *domain.Session) error {
	r.sessions[s.ID] = s
	return nil
}

func (r *fakeSessionRepo) FindByID(ctx context.Context, id string) (*domain.Session, error) {
	s, ok := r.sessions[id]
	if !ok {
		return nil, ErrSessionNotFound
	}
	return s, nil
}

func (r *fakeSessionRepo) Revoke(ctx context.Context, id string) error {
	s, ok := r.sessions[id]
	if !ok {
		return ErrSessionNotFound
	}
	now := time.Now()
	s.RevokedAt = &now
	return nil
}

func (r *fakeSessionRepo) RevokeAllByUserID(ctx context.Context, userID uint) error {
	for _, s := range r.sessions {
		if s.UserID == userID {
			now := time.Now()
			s.RevokedAt = &now
		}
	}
	return nil
}

func (r *fakeSessionRepo) CountByUserID(ctx context.Context, userID uint) (int64, error) {
	var n int64
	for _, s := range r.sessions {
		if s.UserID == userID && s.IsValid() {
			n++
		}
	}
	return n, nil
}

func (r *fakeSessionRepo) DeleteOldestByUserID(ctx context.Context, userID uint) error {
	var oldest *domain.Session
	for _, s := range r.sessions {
		if s.UserID != userID || !s.IsValid() {
			continue
		}
		if oldest == nil || s.CreatedAt.Before(oldest.CreatedAt) {
			oldest = s
		}
	}
	if oldest != nil {
		delete(r.sessions, oldest.ID)
	}
	return nil
}

type stubJWT struct{}

func (stubJWT) GenerateToken(userID uint, email, role string) (string, error) {
	return fmt.Sprintf("token-%d-%s-%s", userID, email, role), nil
}

func setupAuth(t *testing.T) (*AuthUsecase, *fakeSessionRepo) {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte("secret123"), bcrypt.MinCost)
	require.NoError(t, err)
	users := &fakeUserRepo{byEmail: map[string]*entity.User{
		"ana@example.com": {
			ID:       1,
			Email:    "ana@example.com",
			Password: string(hash),
			Role:     &entity.Role{ID: 1, Name: "ADMIN"},
		},
	}}
	sessions := newFakeSessionRepo()
	return NewAuthUsecase(users, sessions, stubJWT{}), sessions
}

func TestAuthUsecase_Login(t *testing.T) {
	t.Run("valid credentials", func(t *testing.T) {
		uc, sessions := setupAuth(t)

		pair, err := uc.Login(context.Background(), "ana@example.com", "secret123", "agent", "127.0.0.1")

		require.NoError(t, err)
		assert.Equal(t, "token-1-ana@example.com-ADMIN", pair.AccessToken)
		s, err := sessions.FindByID(context.Background(), pair.RefreshToken)
		require.NoError(t, err)
		assert.Equal(t, uint(1), s.UserID)
		assert.Equal(t, "agent", s.UserAgent)
		assert.True(t, s.IsValid())
	})

	t.Run("wrong password", func(t *testing.T) {
		uc, _ := setupAuth(t)

		_, err := uc.Login(context.Background(), "ana@example.com", "wrong", "agent", "127.0.0.1")

		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("unknown email reports the same error", func(t *testing.T) {
		uc, _ := setupAuth(t)

		_, err := uc.Login(context.Background(), "nobody@example.com", "secret123", "agent", "127.0.0.1")

		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("evicts the oldest session at the cap", func(t *testing.T) {
		uc, sessions := setupAuth(t)

		var first string
		for i := 0; i < maxSessionsPerUser; i++ {
			pair, err := uc.Login(context.Background(), "ana@example.com", "secret123", "agent", "127.0.0.1")
			require.NoError(t, err)
			if i == 0 {
				first = pair.RefreshToken
			}
			// CreatedAt must strictly order the sessions for eviction
			sessions.sessions[pair.RefreshToken].CreatedAt = time.Now().Add(time.Duration(i) * time.Minute)
		}

		_, err := uc.Login(context.Background(), "ana@example.com", "secret123", "agent", "127.0.0.1")

		require.NoError(t, err)
		_, err = sessions.FindByID(context.Background(), first)
		assert.ErrorIs(t, err, ErrSessionNotFound)
		n, err := sessions.CountByUserID(context.Background(), 1)
		require.NoError(t, err)
		assert.Equal(t, int64(maxSessionsPerUser), n)
	})
}

func TestAuthUsecase_Refresh(t *testing.T) {
	t.Run("rotates the session", func(t *testing.T) {
		uc, sessions := setupAuth(t)
		pair, err := uc.Login(context.Background(), "ana@example.com", "secret123", "agent", "127.0.0.1")
		require.NoError(t, err)

		fresh, err := uc.Refresh(context.Background(), pair.RefreshToken, "agent", "127.0.0.1")

		require.NoError(t, err)
		assert.NotEqual(t, pair.RefreshToken, fresh.RefreshToken)
		old, err := sessions.FindByID(context.Background(), pair.RefreshToken)
		require.NoError(t, err)
		assert.True(t, old.IsRevoked())
	})

	t.Run("a rotated session cannot be replayed", func(t *testing.T) {
		uc, _ := setupAuth(t)
		pair, err := uc.Login(context.Background(), "ana@example.com", "secret123", "agent", "127.0.0.1")
		require.NoError(t, err)
		_, err = uc.Refresh(context.Background(), pair.RefreshToken, "agent", "127.0.0.1")
		require.NoError(t, err)

		_, err = uc.Refresh(context.Background(), pair.RefreshToken, "agent", "127.0.0.1")

		assert.ErrorIs(t, err, ErrSessionRevoked)
	})

	t.Run("expired session", func(t *testing.T) {
		uc, sessions := setupAuth(t)
		pair, err := uc.Login(context.Background(), "ana@example.com", "secret123", "agent", "127.0.0.1")
		require.NoError(t, err)
		sessions.sessions[pair.RefreshToken].ExpiresAt = time.Now().Add(-time.Minute)

		_, err = uc.Refresh(context.Background(), pair.RefreshToken, "agent", "127.0.0.1")

		assert.ErrorIs(t, err, ErrSessionExpired)
	})

	t.Run("unknown token", func(t *testing.T) {
		uc, _ := setupAuth(t)

		_, err := uc.Refresh(context.Background(), "no-such-token", "agent", "127.0.0.1")

		assert.ErrorIs(t, err, ErrSessionNotFound)
	})
}

func TestAuthUsecase_Logout(t *testing.T) {
	t.Run("revokes the session", func(t *testing.T) {
		uc, sessions := setupAuth(t)
		pair, err := uc.Login(context.Background(), "ana@example.com", "secret123", "agent", "127.0.0.1")
		require.NoError(t, err)

		require.NoError(t, uc.Logout(context.Background(), pair.RefreshToken))

		s, err := sessions.FindByID(context.Background(), pair.RefreshToken)
		require.NoError(t, err)
		assert.True(t, s.IsRevoked())
	})

	t.Run("logout all revokes every session of the user", func(t *testing.T) {
		uc, sessions := setupAuth(t)
		for i := 0; i < 3; i++ {
			_, err := uc.Login(context.Background(), "ana@example.com", "secret123", "agent", "127.0.0.1")
			require.NoError(t, err)
		}

		require.NoError(t, uc.LogoutAll(context.Background(), 1))

		n, err := sessions.CountByUserID(context.Background(), 1)
		require.NoError(t, err)
		assert.Zero(t, n)
	})
}
