package usecase

import (
	"context"
	"fmt"
	"strings"

	"memberflow_backend/internal/domain/entity"
	"memberflow_backend/internal/shared/apperrors"
	"memberflow_backend/internal/shared/crud"
)

// ProductServiceStore is the persistence surface the catalog usecase needs.
type ProductServiceStore interface {
	crud.Store[*entity.ProductService]
	ExistsByName(ctx context.Context, name string) (bool, error)
	CountByIVATypeID(ctx context.Context, ivaTypeID uint) (int64, error)
}

// IVATypeStore is the persistence surface the VAT usecase needs.
type IVATypeStore interface {
	crud.Store[*entity.IVAType]
	ExistsByPercentage(ctx context.Context, percentage float64) (bool, error)
}

// IVAChecker verifies a VAT rate exists before a catalog item references it.
type IVAChecker interface {
	ExistsByID(ctx context.Context, id uint) (bool, error)
}

// ProductServiceUsecase manages the billable catalog. Item names are unique.
type ProductServiceUsecase struct {
	svc      *crud.Service[*entity.ProductService]
	store    ProductServiceStore
	ivaTypes IVAChecker
}

func NewProductServiceUsecase(store ProductServiceStore, ivaTypes IVAChecker) *ProductServiceUsecase {
	uc := &ProductServiceUsecase{store: store, ivaTypes: ivaTypes}
	uc.svc = crud.NewService[*entity.ProductService](store,
		crud.WithValidator(func(p *entity.ProductService) error {
			if strings.TrimSpace(p.Name) == "" {
				return fmt.Errorf("%w: product name is required", apperrors.ErrInvalidData)
			}
			if p.Price < 0 {
				return fmt.Errorf("%w: product price cannot be negative", apperrors.ErrInvalidData)
			}
			if p.IVATypeID == 0 {
				return fmt.Errorf("%w: product must reference a vat rate", apperrors.ErrInvalidData)
			}
			return nil
		}),
		crud.WithExists(func(ctx context.Context, p *entity.ProductService) (bool, error) {
			if p.GetID() != 0 {
				return store.ExistsByID(ctx, p.GetID())
			}
			return store.ExistsByName(ctx, p.Name)
		}),
	)
	return uc
}

// Save stores a new catalog item after verifying its VAT rate exists. The
// status defaults to ACTIVE.
func (uc *ProductServiceUsecase) Save(ctx context.Context, p *entity.ProductService) (*entity.ProductService, error) {
	if p == nil {
		return nil, fmt.Errorf("%w: product cannot be nil", apperrors.ErrInvalidArgument)
	}
	if p.IVATypeID != 0 {
		ok, err := uc.ivaTypes.ExistsByID(ctx, p.IVATypeID)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, fmt.Errorf("%w: vat rate id=%d", apperrors.ErrEntityNotFound, p.IVATypeID)
		}
	}
	if p.Status == "" {
		p.Status = entity.StatusActive
	}
	return uc.svc.Save(ctx, p)
}

func (uc *ProductServiceUsecase) Update(ctx context.Context, p *entity.ProductService) (*entity.ProductService, error) {
	return uc.svc.Update(ctx, p)
}

func (uc *ProductServiceUsecase) FindByID(ctx context.Context, id uint) (*entity.ProductService, error) {
	return uc.svc.FindByID(ctx, id)
}

func (uc *ProductServiceUsecase) FindAll(ctx context.Context) ([]*entity.ProductService, error) {
	return uc.svc.FindAll(ctx)
}

func (uc *ProductServiceUsecase) DeleteByID(ctx context.Context, id uint) error {
	return uc.svc.DeleteByID(ctx, id)
}

// IVATypeUsecase manages VAT rates. The percentage is unique, and a rate
// still referenced by catalog items cannot be deleted.
type IVATypeUsecase struct {
	svc      *crud.Service[*entity.IVAType]
	store    IVATypeStore
	products ProductServiceStore
}

func NewIVATypeUsecase(store IVATypeStore, products ProductServiceStore) *IVATypeUsecase {
	uc := &IVATypeUsecase{store: store, products: products}
	uc.svc = crud.NewService[*entity.IVAType](store,
		crud.WithValidator(func(t *entity.IVAType) error {
			if t.Percentage < 0 || t.Percentage > 100 {
				return fmt.Errorf("%w: vat percentage must be between 0 and 100", apperrors.ErrInvalidData)
			}
			return nil
		}),
		crud.WithExists(func(ctx context.Context, t *entity.IVAType) (bool, error) {
			if t.GetID() != 0 {
				return store.ExistsByID(ctx, t.GetID())
			}
			return store.ExistsByPercentage(ctx, t.Percentage)
		}),
	)
	return uc
}

func (uc *IVATypeUsecase) Save(ctx context.Context, t *entity.IVAType) (*entity.IVAType, error) {
	return uc.svc.Save(ctx, t)
}

func (uc *IVATypeUsecase) Update(ctx context.Context, t *entity.IVAType) (*entity.IVAType, error) {
	return uc.svc.Update(ctx, t)
}

func (uc *IVATypeUsecase) FindByID(ctx context.Context, id uint) (*entity.IVAType, error) {
	return uc.svc.FindByID(ctx, id)
}

func (uc *IVATypeUsecase) FindAll(ctx context.Context) ([]*entity.IVAType, error) {
	return uc.svc.FindAll(ctx)
}

// DeleteByID removes a VAT rate, refusing while any catalog item still
// references it.
func (uc *IVATypeUsecase) DeleteByID(ctx context.Context, id uint) error {
	n, err := uc.products.CountByIVATypeID(ctx, id)
	if err != nil {
		return err
	}
	if n > 0 {
		return fmt.Errorf("%w: vat rate id=%d is referenced by %d catalog items", apperrors.ErrInvalidData, id, n)
	}
	return uc.svc.DeleteByID(ctx, id)
}
