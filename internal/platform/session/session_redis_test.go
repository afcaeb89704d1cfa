package session

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/go-redis/redismock/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"memberflow_backend/internal/feature/auth/domain"
	"memberflow_backend/internal/feature/auth/usecase"
)

func TestSessionRedis_FindByID(t *testing.T) {
	t.Run("returns the stored session", func(t *testing.T) {
		client, mock := redismock.NewClientMock()
		repo := NewSessionRedis(client, "session")

		now := time.Now().Truncate(time.Second)
		want := &domain.Session{
			ID:        "tok-1",
			UserID:    7,
			UserAgent: "test-agent",
			IPAddress: "127.0.0.1",
			CreatedAt: now,
			ExpiresAt: now.Add(time.Hour),
		}
		data, err := json.Marshal(want)
		require.NoError(t, err)
		mock.ExpectGet("session:tok-1").SetVal(string(data))

		got, err := repo.FindByID(context.Background(), "tok-1")

		require.NoError(t, err)
		assert.Equal(t, want.UserID, got.UserID)
		assert.True(t, got.IsValid())
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("missing session maps to ErrSessionNotFound", func(t *testing.T) {
		client, mock := redismock.NewClientMock()
		repo := NewSessionRedis(client, "session")

		mock.ExpectGet("session:gone").RedisNil()

		_, err := repo.FindByID(context.Background(), "gone")

		assert.ErrorIs(t, err, usecase.ErrSessionNotFound)
	})
}

func TestSessionRedis_CountByUserID(t *testing.T) {
	t.Run("counts only valid sessions", func(t *testing.T) {
		client, mock := redismock.NewClientMock()
		repo := NewSessionRedis(client, "session")

		now := time.Now()
		active := &domain.Session{ID: "a", UserID: 1, CreatedAt: now, ExpiresAt: now.Add(time.Hour)}
		expired := &domain.Session{ID: "b", UserID: 1, CreatedAt: now.Add(-2 * time.Hour), ExpiresAt: now.Add(-time.Hour)}
		activeData, _ := json.Marshal(active)
		expiredData, _ := json.Marshal(expired)

		mock.ExpectSMembers("session:user:1").SetVal([]string{"a", "b"})
		mock.ExpectGet("session:a").SetVal(string(activeData))
		mock.ExpectGet("session:b").SetVal(string(expiredData))

		n, err := repo.CountByUserID(context.Background(), 1)

		require.NoError(t, err)
		assert.Equal(t, int64(1), n)
	})

	t.Run("expired records are dropped from the user set", func(t *testing.T) {
		client, mock := redismock.NewClientMock()
		repo := NewSessionRedis(client, "session")

		mock.ExpectSMembers("session:user:2").SetVal([]string{"stale"})
		mock.ExpectGet("session:stale").RedisNil()
		mock.ExpectSRem("session:user:2", "stale").SetVal(1)

		n, err := repo.CountByUserID(context.Background(), 2)

		require.NoError(t, err)
		assert.Zero(t, n)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestSessionRedis_RevokeAllByUserID_Empty(t *testing.T) {
	client, mock := redismock.NewClientMock()
	repo := NewSessionRedis(client, "session")

	mock.ExpectSMembers("session:user:3").SetVal([]string{})

	assert.NoError(t, repo.RevokeAllByUserID(context.Background(), 3))
}
