// Package usecase implements the financial engine: invoices with derived
// totals, the invoice↔line relation, payment settlement and the billing
// catalog.
package usecase

import (
	"context"
	"fmt"
	"math"
	"time"

	"memberflow_backend/internal/domain/entity"
	"memberflow_backend/internal/shared/apperrors"
	"memberflow_backend/internal/shared/crud"
)

// InvoiceStore is the persistence surface the invoice usecase needs.
type InvoiceStore interface {
	crud.Store[*entity.Invoice]
	FindAllByUserID(ctx context.Context, userID uint) ([]*entity.Invoice, error)
	UpdateTotals(ctx context.Context, inv *entity.Invoice) error
}

// LineStore is the line persistence surface the invoice usecase needs.
type LineStore interface {
	crud.Store[*entity.InvoiceLine]
	FindAllByInvoiceID(ctx context.Context, invoiceID uint) ([]*entity.InvoiceLine, error)
	DeleteByInvoiceID(ctx context.Context, invoiceID uint) error
}

// PaymentSweeper removes the payment of an invoice during teardown.
type PaymentSweeper interface {
	DeleteByInvoiceID(ctx context.Context, invoiceID uint) error
}

// UserChecker verifies the billed user exists.
type UserChecker interface {
	ExistsByID(ctx context.Context, id uint) (bool, error)
}

// Transactor runs a function as one atomic unit of work.
type Transactor interface {
	Transact(ctx context.Context, fn func(ctx context.Context) error) error
}

// InvoiceUsecase manages invoices and keeps their derived total equal to the
// sum of their lines' subtotals.
type InvoiceUsecase struct {
	svc      *crud.Service[*entity.Invoice]
	store    InvoiceStore
	lines    LineStore
	payments PaymentSweeper
	users    UserChecker
	tx       Transactor
}

func NewInvoiceUsecase(store InvoiceStore, lines LineStore, payments PaymentSweeper, users UserChecker, tx Transactor) *InvoiceUsecase {
	uc := &InvoiceUsecase{store: store, lines: lines, payments: payments, users: users, tx: tx}
	uc.svc = crud.NewService[*entity.Invoice](store, crud.WithValidator(validateInvoice))
	return uc
}

func validateInvoice(inv *entity.Invoice) error {
	if inv.UserID == 0 {
		return fmt.Errorf("%w: invoice must reference a user", apperrors.ErrInvalidData)
	}
	if inv.Date.After(time.Now()) {
		return fmt.Errorf("%w: invoice date cannot be in the future", apperrors.ErrInvalidData)
	}
	if inv.Total <= 0 {
		return fmt.Errorf("%w: invoice total must be positive", apperrors.ErrInvalidData)
	}
	return nil
}

// Save issues a new invoice to an existing user. The issue date defaults to
// now and the status to NOT_PAID. Lines passed along are persisted with the
// invoice, with their subtotals and the total recomputed, never trusted from
// input.
func (uc *InvoiceUsecase) Save(ctx context.Context, inv *entity.Invoice) (*entity.Invoice, error) {
	if inv == nil {
		return nil, fmt.Errorf("%w: invoice cannot be nil", apperrors.ErrInvalidArgument)
	}
	if inv.UserID == 0 {
		return nil, fmt.Errorf("%w: invoice must reference a user", apperrors.ErrInvalidData)
	}
	ok, err := uc.users.ExistsByID(ctx, inv.UserID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("%w: user id=%d", apperrors.ErrEntityNotFound, inv.UserID)
	}
	if inv.Date.IsZero() {
		inv.Date = time.Now()
	}
	if inv.Status == "" {
		inv.Status = entity.StatusNotPaid
	}
	total := 0.0
	for _, l := range inv.Lines {
		if err := normalizeLine(l); err != nil {
			return nil, err
		}
		total += l.Subtotal
	}
	if len(inv.Lines) > 0 {
		inv.Total = round2(total)
	}
	return uc.svc.Save(ctx, inv)
}

func (uc *InvoiceUsecase) Update(ctx context.Context, inv *entity.Invoice) (*entity.Invoice, error) {
	return uc.svc.Update(ctx, inv)
}

func (uc *InvoiceUsecase) FindByID(ctx context.Context, id uint) (*entity.Invoice, error) {
	return uc.svc.FindByID(ctx, id)
}

func (uc *InvoiceUsecase) FindAll(ctx context.Context) ([]*entity.Invoice, error) {
	return uc.svc.FindAll(ctx)
}

func (uc *InvoiceUsecase) FindAllByUserID(ctx context.Context, userID uint) ([]*entity.Invoice, error) {
	return uc.store.FindAllByUserID(ctx, userID)
}

// AddLineToInvoice attaches a line to the invoice and recalculates its
// total, in one transaction. The line's subtotal is recomputed from its unit
// price and quantity.
func (uc *InvoiceUsecase) AddLineToInvoice(ctx context.Context, invoiceID uint, line *entity.InvoiceLine) (*entity.Invoice, error) {
	if line == nil {
		return nil, fmt.Errorf("%w: line cannot be nil", apperrors.ErrInvalidArgument)
	}
	if _, err := uc.svc.FindByID(ctx, invoiceID); err != nil {
		return nil, err
	}
	if err := normalizeLine(line); err != nil {
		return nil, err
	}
	line.InvoiceID = invoiceID

	err := uc.tx.Transact(ctx, func(ctx context.Context) error {
		if err := uc.lines.Create(ctx, line); err != nil {
			return err
		}
		_, err := uc.recalculate(ctx, invoiceID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return uc.svc.FindByID(ctx, invoiceID)
}

// RemoveLineFromInvoice detaches a line and recalculates the total, in one
// transaction. A line not on the invoice is a not-found error.
func (uc *InvoiceUsecase) RemoveLineFromInvoice(ctx context.Context, invoiceID, lineID uint) (*entity.Invoice, error) {
	inv, err := uc.svc.FindByID(ctx, invoiceID)
	if err != nil {
		return nil, err
	}
	attached := false
	for _, l := range inv.Lines {
		if l.ID == lineID {
			attached = true
			break
		}
	}
	if !attached {
		return nil, fmt.Errorf("%w: line id=%d on invoice id=%d", apperrors.ErrEntityNotFound, lineID, invoiceID)
	}

	err = uc.tx.Transact(ctx, func(ctx context.Context) error {
		if err := uc.lines.DeleteByID(ctx, lineID); err != nil {
			return err
		}
		_, err := uc.recalculate(ctx, invoiceID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return uc.svc.FindByID(ctx, invoiceID)
}

// ClearInvoiceLines detaches every line of the invoice and resets its total
// to zero, in one transaction.
func (uc *InvoiceUsecase) ClearInvoiceLines(ctx context.Context, invoiceID uint) (*entity.Invoice, error) {
	if _, err := uc.svc.FindByID(ctx, invoiceID); err != nil {
		return nil, err
	}
	err := uc.tx.Transact(ctx, func(ctx context.Context) error {
		if err := uc.lines.DeleteByInvoiceID(ctx, invoiceID); err != nil {
			return err
		}
		_, err := uc.recalculate(ctx, invoiceID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return uc.svc.FindByID(ctx, invoiceID)
}

// RecalculateTotal recomputes the invoice total as the sum of its lines'
// subtotals and persists it.
func (uc *InvoiceUsecase) RecalculateTotal(ctx context.Context, invoiceID uint) (*entity.Invoice, error) {
	if _, err := uc.svc.FindByID(ctx, invoiceID); err != nil {
		return nil, err
	}
	if _, err := uc.recalculate(ctx, invoiceID); err != nil {
		return nil, err
	}
	return uc.svc.FindByID(ctx, invoiceID)
}

// recalculate writes the derived total directly through the store. A cleared
// invoice legitimately totals zero, which the save validation would reject.
func (uc *InvoiceUsecase) recalculate(ctx context.Context, invoiceID uint) (*entity.Invoice, error) {
	lines, err := uc.lines.FindAllByInvoiceID(ctx, invoiceID)
	if err != nil {
		return nil, err
	}
	total := 0.0
	for _, l := range lines {
		total += l.Subtotal
	}
	inv, err := uc.store.FindByID(ctx, invoiceID)
	if err != nil {
		return nil, err
	}
	inv.Total = round2(total)
	if err := uc.store.UpdateTotals(ctx, inv); err != nil {
		return nil, err
	}
	return inv, nil
}

// DeleteByID removes an invoice with its payment and lines, in one
// transaction.
func (uc *InvoiceUsecase) DeleteByID(ctx context.Context, id uint) error {
	if _, err := uc.svc.FindByID(ctx, id); err != nil {
		return err
	}
	return uc.tx.Transact(ctx, func(ctx context.Context) error {
		return uc.teardown(ctx, id)
	})
}

// DeleteAllByUserID removes every invoice of a user. Called from the user
// teardown, already inside its transaction.
func (uc *InvoiceUsecase) DeleteAllByUserID(ctx context.Context, userID uint) error {
	invoices, err := uc.store.FindAllByUserID(ctx, userID)
	if err != nil {
		return err
	}
	for _, inv := range invoices {
		if err := uc.teardown(ctx, inv.ID); err != nil {
			return err
		}
	}
	return nil
}

func (uc *InvoiceUsecase) teardown(ctx context.Context, invoiceID uint) error {
	if err := uc.payments.DeleteByInvoiceID(ctx, invoiceID); err != nil {
		return err
	}
	if err := uc.lines.DeleteByInvoiceID(ctx, invoiceID); err != nil {
		return err
	}
	return uc.store.DeleteByID(ctx, invoiceID)
}

// normalizeLine validates a line's data and recomputes its derived subtotal.
func normalizeLine(l *entity.InvoiceLine) error {
	if l.ProductServiceID == 0 {
		return fmt.Errorf("%w: line must reference a catalog item", apperrors.ErrInvalidData)
	}
	if l.Quantity <= 0 {
		return fmt.Errorf("%w: line quantity must be positive", apperrors.ErrInvalidData)
	}
	if l.UnitPrice <= 0 {
		return fmt.Errorf("%w: line unit price must be positive", apperrors.ErrInvalidData)
	}
	l.Subtotal = round2(l.UnitPrice * float64(l.Quantity))
	return nil
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
