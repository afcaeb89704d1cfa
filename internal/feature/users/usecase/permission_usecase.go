package usecase

import (
	"context"
	"fmt"

	"memberflow_backend/internal/domain/entity"
	"memberflow_backend/internal/shared/apperrors"
	"memberflow_backend/internal/shared/crud"
)

// PermissionStore is the persistence surface the permission usecase needs.
type PermissionStore interface {
	crud.Store[*entity.Permission]
	ExistsByName(ctx context.Context, name entity.PermissionName) (bool, error)
	FindByName(ctx context.Context, name entity.PermissionName) (*entity.Permission, error)
}

// PermissionUsecase manages the closed set of permissions.
type PermissionUsecase struct {
	svc   *crud.Service[*entity.Permission]
	store PermissionStore
}

func NewPermissionUsecase(store PermissionStore) *PermissionUsecase {
	uc := &PermissionUsecase{store: store}
	uc.svc = crud.NewService[*entity.Permission](store,
		crud.WithValidator(func(p *entity.Permission) error {
			switch p.Name {
			case entity.PermissionFullAccess, entity.PermissionManageStudents, entity.PermissionViewOwnData:
				return nil
			default:
				return fmt.Errorf("%w: unknown permission %q", apperrors.ErrInvalidData, p.Name)
			}
		}),
		crud.WithExists(func(ctx context.Context, p *entity.Permission) (bool, error) {
			if p.GetID() != 0 {
				return store.ExistsByID(ctx, p.GetID())
			}
			return store.ExistsByName(ctx, p.Name)
		}),
	)
	return uc
}

func (uc *PermissionUsecase) Save(ctx context.Context, p *entity.Permission) (*entity.Permission, error) {
	return uc.svc.Save(ctx, p)
}

func (uc *PermissionUsecase) FindByID(ctx context.Context, id uint) (*entity.Permission, error) {
	return uc.svc.FindByID(ctx, id)
}

func (uc *PermissionUsecase) FindAll(ctx context.Context) ([]*entity.Permission, error) {
	return uc.svc.FindAll(ctx)
}

func (uc *PermissionUsecase) FindByName(ctx context.Context, name entity.PermissionName) (*entity.Permission, error) {
	return uc.store.FindByName(ctx, name)
}

func (uc *PermissionUsecase) DeleteByID(ctx context.Context, id uint) error {
	return uc.svc.DeleteByID(ctx, id)
}
