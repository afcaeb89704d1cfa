package usecase

import (
	"context"
	"fmt"
	"time"

	"memberflow_backend/internal/domain/entity"
	"memberflow_backend/internal/shared/apperrors"
	"memberflow_backend/internal/shared/crud"
)

// PaymentStore is the persistence surface the payment usecase needs.
type PaymentStore interface {
	crud.Store[*entity.Payment]
	ExistsByInvoiceID(ctx context.Context, invoiceID uint) (bool, error)
	FindByInvoiceID(ctx context.Context, invoiceID uint) (*entity.Payment, error)
	FindAllByUserID(ctx context.Context, userID uint) ([]*entity.Payment, error)
}

// InvoiceSettler flips an invoice's settlement status as its payment comes
// and goes.
type InvoiceSettler interface {
	FindByID(ctx context.Context, id uint) (*entity.Invoice, error)
	UpdateTotals(ctx context.Context, inv *entity.Invoice) error
}

// PaymentUsecase settles invoices. Creating a payment marks its invoice
// PAID, removing it reverts the invoice to NOT_PAID; both run atomically so
// a payment and its invoice status never diverge.
type PaymentUsecase struct {
	svc      *crud.Service[*entity.Payment]
	store    PaymentStore
	invoices InvoiceSettler
	tx       Transactor
}

func NewPaymentUsecase(store PaymentStore, invoices InvoiceSettler, tx Transactor) *PaymentUsecase {
	uc := &PaymentUsecase{store: store, invoices: invoices, tx: tx}
	uc.svc = crud.NewService[*entity.Payment](store,
		crud.WithValidator(validatePayment),
		crud.WithExists(func(ctx context.Context, p *entity.Payment) (bool, error) {
			if p.GetID() != 0 {
				return store.ExistsByID(ctx, p.GetID())
			}
			return store.ExistsByInvoiceID(ctx, p.InvoiceID)
		}),
	)
	return uc
}

func validatePayment(p *entity.Payment) error {
	if p.InvoiceID == 0 {
		return fmt.Errorf("%w: payment must reference an invoice", apperrors.ErrInvalidData)
	}
	if p.Amount <= 0 {
		return fmt.Errorf("%w: payment amount must be positive", apperrors.ErrInvalidData)
	}
	switch p.PaymentMethod {
	case entity.PaymentCash, entity.PaymentCreditCard, entity.PaymentBankTransfer:
	default:
		return fmt.Errorf("%w: unknown payment method %q", apperrors.ErrInvalidData, p.PaymentMethod)
	}
	if p.PaymentDate.After(time.Now()) {
		return fmt.Errorf("%w: payment date cannot be in the future", apperrors.ErrInvalidData)
	}
	return nil
}

// Save settles an invoice: the payment is created and the invoice flips to
// PAID in the same transaction. A second payment for the same invoice fails
// as a duplicate.
func (uc *PaymentUsecase) Save(ctx context.Context, p *entity.Payment) (*entity.Payment, error) {
	if p == nil {
		return nil, fmt.Errorf("%w: payment cannot be nil", apperrors.ErrInvalidArgument)
	}
	inv, err := uc.invoices.FindByID(ctx, p.InvoiceID)
	if err != nil {
		return nil, err
	}
	if p.PaymentDate.IsZero() {
		p.PaymentDate = time.Now()
	}
	if p.Status == "" {
		p.Status = entity.StatusPaid
	}

	err = uc.tx.Transact(ctx, func(ctx context.Context) error {
		if _, err := uc.svc.Save(ctx, p); err != nil {
			return err
		}
		inv.Status = entity.StatusPaid
		return uc.invoices.UpdateTotals(ctx, inv)
	})
	if err != nil {
		return nil, err
	}
	return p, nil
}

// Update merges a payment, keeping its invoice marked PAID.
func (uc *PaymentUsecase) Update(ctx context.Context, p *entity.Payment) (*entity.Payment, error) {
	if p == nil {
		return nil, fmt.Errorf("%w: payment cannot be nil", apperrors.ErrInvalidArgument)
	}
	inv, err := uc.invoices.FindByID(ctx, p.InvoiceID)
	if err != nil {
		return nil, err
	}
	err = uc.tx.Transact(ctx, func(ctx context.Context) error {
		if _, err := uc.svc.Update(ctx, p); err != nil {
			return err
		}
		if inv.Status != entity.StatusPaid {
			inv.Status = entity.StatusPaid
			return uc.invoices.UpdateTotals(ctx, inv)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return p, nil
}

func (uc *PaymentUsecase) FindByID(ctx context.Context, id uint) (*entity.Payment, error) {
	return uc.svc.FindByID(ctx, id)
}

func (uc *PaymentUsecase) FindAll(ctx context.Context) ([]*entity.Payment, error) {
	return uc.svc.FindAll(ctx)
}

func (uc *PaymentUsecase) FindByInvoiceID(ctx context.Context, invoiceID uint) (*entity.Payment, error) {
	return uc.store.FindByInvoiceID(ctx, invoiceID)
}

// FindAllByUserID returns the payments settling the given user's invoices.
func (uc *PaymentUsecase) FindAllByUserID(ctx context.Context, userID uint) ([]*entity.Payment, error) {
	return uc.store.FindAllByUserID(ctx, userID)
}

// RemovePayment deletes a payment and reverts its invoice to NOT_PAID in the
// same transaction. When either write fails the whole operation rolls back.
func (uc *PaymentUsecase) RemovePayment(ctx context.Context, id uint) error {
	p, err := uc.svc.FindByID(ctx, id)
	if err != nil {
		return err
	}
	inv, err := uc.invoices.FindByID(ctx, p.InvoiceID)
	if err != nil {
		return err
	}
	return uc.tx.Transact(ctx, func(ctx context.Context) error {
		if err := uc.store.DeleteByID(ctx, id); err != nil {
			return err
		}
		inv.Status = entity.StatusNotPaid
		return uc.invoices.UpdateTotals(ctx, inv)
	})
}

// DeleteByID is RemovePayment under the generic name.
func (uc *PaymentUsecase) DeleteByID(ctx context.Context, id uint) error {
	return uc.RemovePayment(ctx, id)
}
