// Package crud provides the generic persistence service every entity usecase
// builds on. It is generic over the entity's pointer type, constrained to the
// Entity capability, and reaches storage only through the Store interface.
package crud

import (
	"context"
	"fmt"
	"log/slog"

	"memberflow_backend/internal/shared/apperrors"
)

// Entity is the capability every persisted type implements: it exposes its
// store-assigned identity. A zero ID means the entity has not been persisted.
type Entity interface {
	comparable
	GetID() uint
}

// Store abstracts the per-entity persistence operations the service needs.
// The GORM-backed store in platform/gormstore is the production
// implementation.
type Store[T Entity] interface {
	// Create persists a new entity and assigns its identity.
	Create(ctx context.Context, entity T) error

	// Update merges the entity's field values onto the stored row, writing
	// through reachable owned associations.
	Update(ctx context.Context, entity T) error

	// FindByID returns the stored entity or apperrors.ErrEntityNotFound.
	FindByID(ctx context.Context, id uint) (T, error)

	// ExistsByID reports whether an entity with the given identity is stored.
	ExistsByID(ctx context.Context, id uint) (bool, error)

	// DeleteByID removes the entity with the given identity.
	DeleteByID(ctx context.Context, id uint) error

	// FindAll returns all stored entities, fully materialized, store order.
	FindAll(ctx context.Context) ([]T, error)
}

// ExistsFunc substitutes a business key (unique name, membership type,
// invoice-keyed payment lookup) for identity-based duplicate detection.
type ExistsFunc[T Entity] func(ctx context.Context, entity T) (bool, error)

// ValidateFunc checks entity data before save and update. It may normalize
// derived fields (an invoice line's subtotal is recomputed here).
type ValidateFunc[T Entity] func(entity T) error

// Service implements save/update/find/delete/list semantics over any entity
// type. Per-entity behavior is composed in through options rather than
// overridden.
type Service[T Entity] struct {
	store    Store[T]
	validate ValidateFunc[T]
	exists   ExistsFunc[T]
}

// Option configures a Service.
type Option[T Entity] func(*Service[T])

// WithValidator sets the validation applied before save and update.
func WithValidator[T Entity](fn ValidateFunc[T]) Option[T] {
	return func(s *Service[T]) { s.validate = fn }
}

// WithExists sets a business-key existence check used for duplicate
// detection before an identity is assigned.
func WithExists[T Entity](fn ExistsFunc[T]) Option[T] {
	return func(s *Service[T]) { s.exists = fn }
}

// NewService creates a Service over the given store.
func NewService[T Entity](store Store[T], opts ...Option[T]) *Service[T] {
	s := &Service[T]{store: store}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Save validates and persists a new entity. It fails with
// apperrors.ErrInvalidArgument on a nil entity and with
// apperrors.ErrDuplicateEntity when the entity already exists, detected by
// business key when one is configured and by identity otherwise.
func (s *Service[T]) Save(ctx context.Context, entity T) (T, error) {
	var zero T
	if entity == zero {
		return zero, fmt.Errorf("%w: entity cannot be nil", apperrors.ErrInvalidArgument)
	}
	if s.validate != nil {
		if err := s.validate(entity); err != nil {
			return zero, err
		}
	}

	dup, err := s.isDuplicate(ctx, entity)
	if err != nil {
		return zero, err
	}
	if dup {
		return zero, fmt.Errorf("%w: id=%d", apperrors.ErrDuplicateEntity, entity.GetID())
	}

	if err := s.store.Create(ctx, entity); err != nil {
		return zero, err
	}
	return entity, nil
}

// Update validates and merges an existing entity. It fails with
// apperrors.ErrInvalidData when the entity carries no identity and with
// apperrors.ErrEntityNotFound when no stored entity has that identity.
func (s *Service[T]) Update(ctx context.Context, entity T) (T, error) {
	var zero T
	if entity == zero {
		return zero, fmt.Errorf("%w: entity cannot be nil", apperrors.ErrInvalidArgument)
	}
	if s.validate != nil {
		if err := s.validate(entity); err != nil {
			return zero, err
		}
	}

	id := entity.GetID()
	if id == 0 {
		return zero, fmt.Errorf("%w: cannot update entity without id", apperrors.ErrInvalidData)
	}
	ok, err := s.store.ExistsByID(ctx, id)
	if err != nil {
		return zero, err
	}
	if !ok {
		return zero, fmt.Errorf("%w: id=%d", apperrors.ErrEntityNotFound, id)
	}

	if err := s.store.Update(ctx, entity); err != nil {
		return zero, err
	}
	return entity, nil
}

// FindByID returns the stored entity for the given identity.
func (s *Service[T]) FindByID(ctx context.Context, id uint) (T, error) {
	var zero T
	if id == 0 {
		return zero, fmt.Errorf("%w: id cannot be zero", apperrors.ErrInvalidData)
	}
	return s.store.FindByID(ctx, id)
}

// DeleteByID removes the entity with the given identity.
func (s *Service[T]) DeleteByID(ctx context.Context, id uint) error {
	if id == 0 {
		return fmt.Errorf("%w: id cannot be zero", apperrors.ErrInvalidData)
	}
	ok, err := s.store.ExistsByID(ctx, id)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("%w: id=%d", apperrors.ErrEntityNotFound, id)
	}
	if err := s.store.DeleteByID(ctx, id); err != nil {
		return err
	}
	slog.Debug("entity deleted", "id", id)
	return nil
}

// FindAll returns every stored entity.
func (s *Service[T]) FindAll(ctx context.Context) ([]T, error) {
	return s.store.FindAll(ctx)
}

// Exists reports whether the entity is already stored, using the configured
// business-key check when present and the identity otherwise.
func (s *Service[T]) Exists(ctx context.Context, entity T) (bool, error) {
	var zero T
	if entity == zero {
		return false, fmt.Errorf("%w: entity cannot be nil", apperrors.ErrInvalidArgument)
	}
	return s.isDuplicate(ctx, entity)
}

func (s *Service[T]) isDuplicate(ctx context.Context, entity T) (bool, error) {
	if s.exists != nil {
		return s.exists(ctx, entity)
	}
	if id := entity.GetID(); id != 0 {
		return s.store.ExistsByID(ctx, id)
	}
	return false, nil
}
