// Package usecase implements the business rules of the classes feature:
// membership tiers, training groups, scheduled sessions and attendance.
package usecase

import (
	"context"
	"fmt"

	"memberflow_backend/internal/domain/entity"
	"memberflow_backend/internal/shared/apperrors"
	"memberflow_backend/internal/shared/crud"
)

// MembershipStore is the persistence surface the membership usecase needs.
type MembershipStore interface {
	crud.Store[*entity.Membership]
	ExistsByType(ctx context.Context, t entity.MembershipType) (bool, error)
	FindByType(ctx context.Context, t entity.MembershipType) (*entity.Membership, error)
	CountStudents(ctx context.Context, membershipID uint) (int64, error)
}

// MembershipUsecase manages membership tiers. At most one membership exists
// per tier, and a tier still assigned to students cannot be deleted.
type MembershipUsecase struct {
	svc   *crud.Service[*entity.Membership]
	store MembershipStore
}

func NewMembershipUsecase(store MembershipStore) *MembershipUsecase {
	uc := &MembershipUsecase{store: store}
	uc.svc = crud.NewService[*entity.Membership](store,
		crud.WithValidator(validateMembership),
		crud.WithExists(func(ctx context.Context, m *entity.Membership) (bool, error) {
			if m.GetID() != 0 {
				return store.ExistsByID(ctx, m.GetID())
			}
			return store.ExistsByType(ctx, m.Type)
		}),
	)
	return uc
}

func validateMembership(m *entity.Membership) error {
	switch m.Type {
	case entity.MembershipBasic, entity.MembershipAdvanced, entity.MembershipPremium, entity.MembershipNoLimit:
	default:
		return fmt.Errorf("%w: unknown membership type %q", apperrors.ErrInvalidData, m.Type)
	}
	if m.StartDate.IsZero() || m.EndDate.IsZero() {
		return fmt.Errorf("%w: membership validity window is required", apperrors.ErrInvalidData)
	}
	if m.EndDate.Before(m.StartDate) {
		return fmt.Errorf("%w: membership end date precedes start date", apperrors.ErrInvalidData)
	}
	return nil
}

// Save stores a new membership tier. The status defaults to ACTIVE.
func (uc *MembershipUsecase) Save(ctx context.Context, m *entity.Membership) (*entity.Membership, error) {
	if m == nil {
		return nil, fmt.Errorf("%w: membership cannot be nil", apperrors.ErrInvalidArgument)
	}
	if m.Status == "" {
		m.Status = entity.StatusActive
	}
	return uc.svc.Save(ctx, m)
}

func (uc *MembershipUsecase) Update(ctx context.Context, m *entity.Membership) (*entity.Membership, error) {
	return uc.svc.Update(ctx, m)
}

func (uc *MembershipUsecase) FindByID(ctx context.Context, id uint) (*entity.Membership, error) {
	return uc.svc.FindByID(ctx, id)
}

func (uc *MembershipUsecase) FindAll(ctx context.Context) ([]*entity.Membership, error) {
	return uc.svc.FindAll(ctx)
}

func (uc *MembershipUsecase) FindByType(ctx context.Context, t entity.MembershipType) (*entity.Membership, error) {
	return uc.store.FindByType(ctx, t)
}

// DeleteByID removes a membership, refusing while any student still holds it.
func (uc *MembershipUsecase) DeleteByID(ctx context.Context, id uint) error {
	n, err := uc.store.CountStudents(ctx, id)
	if err != nil {
		return err
	}
	if n > 0 {
		return fmt.Errorf("%w: membership id=%d is still assigned to %d students", apperrors.ErrInvalidData, id, n)
	}
	return uc.svc.DeleteByID(ctx, id)
}
