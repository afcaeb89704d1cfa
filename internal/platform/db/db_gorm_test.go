package db

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"memberflow_backend/internal/domain/entity"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	conn, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err, "failed to initialize test database")
	require.NoError(t, Migrate(conn), "failed to migrate schema")

	return conn
}

func TestMigrate(t *testing.T) {
	conn := setupTestDB(t)

	for _, table := range []string{"users", "students", "invoices", "payments", "students_groups"} {
		assert.True(t, conn.Migrator().HasTable(table), "missing table %s", table)
	}
}

func TestTransactor_Commit(t *testing.T) {
	conn := setupTestDB(t)
	tx := NewTransactor(conn)

	err := tx.Transact(context.Background(), func(ctx context.Context) error {
		handle := FromContext(ctx, conn)
		return handle.Create(&entity.Role{Name: "ADMIN"}).Error
	})
	require.NoError(t, err)

	var n int64
	conn.Model(&entity.Role{}).Count(&n)
	assert.Equal(t, int64(1), n)
}

func TestTransactor_RollsBackOnError(t *testing.T) {
	conn := setupTestDB(t)
	tx := NewTransactor(conn)
	boom := errors.New("boom")

	err := tx.Transact(context.Background(), func(ctx context.Context) error {
		handle := FromContext(ctx, conn)
		if err := handle.Create(&entity.Role{Name: "ADMIN"}).Error; err != nil {
			return err
		}
		return boom
	})
	assert.ErrorIs(t, err, boom)

	var n int64
	conn.Model(&entity.Role{}).Count(&n)
	assert.Zero(t, n, "write should have been rolled back")
}

func TestFromContext_FallsBackWithoutTx(t *testing.T) {
	conn := setupTestDB(t)

	got := FromContext(context.Background(), conn)

	assert.Same(t, conn, got)
}
