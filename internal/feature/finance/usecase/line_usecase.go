package usecase

import (
	"context"
	"fmt"

	"memberflow_backend/internal/domain/entity"
	"memberflow_backend/internal/shared/apperrors"
	"memberflow_backend/internal/shared/crud"
)

// InvoiceChecker verifies an invoice exists before a line is attached to it.
type InvoiceChecker interface {
	ExistsByID(ctx context.Context, id uint) (bool, error)
}

// ProductChecker verifies a catalog item exists before it is billed.
type ProductChecker interface {
	ExistsByID(ctx context.Context, id uint) (bool, error)
}

// TotalRecalculator re-derives an invoice's total after its lines changed.
type TotalRecalculator interface {
	RecalculateTotal(ctx context.Context, invoiceID uint) (*entity.Invoice, error)
}

// InvoiceLineUsecase manages invoice lines directly. Every save, update or
// delete recomputes the derived subtotal and re-derives the owning invoice's
// total.
type InvoiceLineUsecase struct {
	svc      *crud.Service[*entity.InvoiceLine]
	store    LineStore
	invoices InvoiceChecker
	products ProductChecker
	totals   TotalRecalculator
	tx       Transactor
}

func NewInvoiceLineUsecase(store LineStore, invoices InvoiceChecker, products ProductChecker, totals TotalRecalculator, tx Transactor) *InvoiceLineUsecase {
	uc := &InvoiceLineUsecase{store: store, invoices: invoices, products: products, totals: totals, tx: tx}
	uc.svc = crud.NewService[*entity.InvoiceLine](store,
		crud.WithValidator(func(l *entity.InvoiceLine) error {
			if l.InvoiceID == 0 {
				return fmt.Errorf("%w: line must reference an invoice", apperrors.ErrInvalidData)
			}
			return normalizeLine(l)
		}),
	)
	return uc
}

// Save attaches a new line to an existing invoice and recalculates its
// total, in one transaction.
func (uc *InvoiceLineUsecase) Save(ctx context.Context, l *entity.InvoiceLine) (*entity.InvoiceLine, error) {
	if l == nil {
		return nil, fmt.Errorf("%w: line cannot be nil", apperrors.ErrInvalidArgument)
	}
	if err := uc.checkRefs(ctx, l); err != nil {
		return nil, err
	}
	err := uc.tx.Transact(ctx, func(ctx context.Context) error {
		if _, err := uc.svc.Save(ctx, l); err != nil {
			return err
		}
		_, err := uc.totals.RecalculateTotal(ctx, l.InvoiceID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return l, nil
}

// Update merges a line and recalculates the owning invoice's total, in one
// transaction.
func (uc *InvoiceLineUsecase) Update(ctx context.Context, l *entity.InvoiceLine) (*entity.InvoiceLine, error) {
	if l == nil {
		return nil, fmt.Errorf("%w: line cannot be nil", apperrors.ErrInvalidArgument)
	}
	if err := uc.checkRefs(ctx, l); err != nil {
		return nil, err
	}
	err := uc.tx.Transact(ctx, func(ctx context.Context) error {
		if _, err := uc.svc.Update(ctx, l); err != nil {
			return err
		}
		_, err := uc.totals.RecalculateTotal(ctx, l.InvoiceID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return l, nil
}

func (uc *InvoiceLineUsecase) FindByID(ctx context.Context, id uint) (*entity.InvoiceLine, error) {
	return uc.svc.FindByID(ctx, id)
}

func (uc *InvoiceLineUsecase) FindAllByInvoiceID(ctx context.Context, invoiceID uint) ([]*entity.InvoiceLine, error) {
	return uc.store.FindAllByInvoiceID(ctx, invoiceID)
}

// DeleteByID removes a line and recalculates the owning invoice's total, in
// one transaction.
func (uc *InvoiceLineUsecase) DeleteByID(ctx context.Context, id uint) error {
	l, err := uc.svc.FindByID(ctx, id)
	if err != nil {
		return err
	}
	return uc.tx.Transact(ctx, func(ctx context.Context) error {
		if err := uc.store.DeleteByID(ctx, id); err != nil {
			return err
		}
		_, err := uc.totals.RecalculateTotal(ctx, l.InvoiceID)
		return err
	})
}

func (uc *InvoiceLineUsecase) checkRefs(ctx context.Context, l *entity.InvoiceLine) error {
	if l.InvoiceID != 0 {
		ok, err := uc.invoices.ExistsByID(ctx, l.InvoiceID)
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("%w: invoice id=%d", apperrors.ErrEntityNotFound, l.InvoiceID)
		}
	}
	if l.ProductServiceID != 0 {
		ok, err := uc.products.ExistsByID(ctx, l.ProductServiceID)
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("%w: product id=%d", apperrors.ErrEntityNotFound, l.ProductServiceID)
		}
	}
	return nil
}
