// Package gormstore implements the generic entity store on GORM. One Store
// instance per entity type backs the crud.Store interface; feature adapters
// embed it and add their business-key queries.
package gormstore

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"memberflow_backend/internal/platform/db"
	"memberflow_backend/internal/shared/apperrors"
)

// Store is a GORM-backed key-value style store for one entity type.
// *Store[T] satisfies crud.Store[*T].
type Store[T any] struct {
	db       *gorm.DB
	preloads []string
}

// New creates a Store for T. The given preloads are applied on every read so
// owned collections arrive materialized.
func New[T any](conn *gorm.DB, preloads ...string) *Store[T] {
	return &Store[T]{db: conn, preloads: preloads}
}

// DB returns the handle for the current call: the context transaction when
// one is active, the base connection otherwise.
func (s *Store[T]) DB(ctx context.Context) *gorm.DB {
	return db.FromContext(ctx, s.db).WithContext(ctx)
}

func (s *Store[T]) reader(ctx context.Context) *gorm.DB {
	tx := s.DB(ctx)
	for _, p := range s.preloads {
		tx = tx.Preload(p)
	}
	return tx
}

// Create inserts the entity and assigns its identity.
func (s *Store[T]) Create(ctx context.Context, entity *T) error {
	return s.DB(ctx).Create(entity).Error
}

// Update merges the entity onto the stored row. Reachable associations are
// upserted along with the root.
func (s *Store[T]) Update(ctx context.Context, entity *T) error {
	return s.DB(ctx).Save(entity).Error
}

// FindByID loads the entity with its configured preloads.
func (s *Store[T]) FindByID(ctx context.Context, id uint) (*T, error) {
	var e T
	if err := s.reader(ctx).First(&e, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: id=%d", apperrors.ErrEntityNotFound, id)
		}
		return nil, err
	}
	return &e, nil
}

// ExistsByID reports whether a row with the given identity exists.
func (s *Store[T]) ExistsByID(ctx context.Context, id uint) (bool, error) {
	var n int64
	if err := s.DB(ctx).Model(new(T)).Where("id = ?", id).Count(&n).Error; err != nil {
		return false, err
	}
	return n > 0, nil
}

// DeleteByID removes the row with the given identity.
func (s *Store[T]) DeleteByID(ctx context.Context, id uint) error {
	return s.DB(ctx).Delete(new(T), id).Error
}

// FindAll returns every row with the configured preloads applied.
func (s *Store[T]) FindAll(ctx context.Context) ([]*T, error) {
	var out []*T
	if err := s.reader(ctx).Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}
