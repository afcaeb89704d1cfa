package usecase

import (
	"context"
	"fmt"

	"memberflow_backend/internal/domain/entity"
	"memberflow_backend/internal/shared/apperrors"
	"memberflow_backend/internal/shared/crud"
)

// AdminUsecase manages administrator profiles.
type AdminUsecase struct {
	svc *crud.Service[*entity.Admin]
}

func NewAdminUsecase(store crud.Store[*entity.Admin]) *AdminUsecase {
	return &AdminUsecase{
		svc: crud.NewService[*entity.Admin](store,
			crud.WithValidator(func(a *entity.Admin) error {
				if a.UserID == 0 {
					return fmt.Errorf("%w: admin must reference a user", apperrors.ErrInvalidData)
				}
				return nil
			}),
		),
	}
}

func (uc *AdminUsecase) Save(ctx context.Context, a *entity.Admin) (*entity.Admin, error) {
	return uc.svc.Save(ctx, a)
}

func (uc *AdminUsecase) FindByID(ctx context.Context, id uint) (*entity.Admin, error) {
	return uc.svc.FindByID(ctx, id)
}

func (uc *AdminUsecase) FindAll(ctx context.Context) ([]*entity.Admin, error) {
	return uc.svc.FindAll(ctx)
}

func (uc *AdminUsecase) DeleteByID(ctx context.Context, id uint) error {
	return uc.svc.DeleteByID(ctx, id)
}
