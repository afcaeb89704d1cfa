// Package adapters provides the GORM-backed stores for the financial engine:
// invoices, invoice lines, payments and the billing catalog.
package adapters

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"memberflow_backend/internal/domain/entity"
	"memberflow_backend/internal/platform/gormstore"
	"memberflow_backend/internal/shared/apperrors"
)

// InvoiceGorm persists Invoice entities with their lines and payment
// materialized.
type InvoiceGorm struct {
	*gormstore.Store[entity.Invoice]
}

func NewInvoiceGorm(conn *gorm.DB) *InvoiceGorm {
	return &InvoiceGorm{Store: gormstore.New[entity.Invoice](conn, "Lines", "Payment")}
}

// FindAllByUserID returns every invoice issued to one user, newest first.
func (r *InvoiceGorm) FindAllByUserID(ctx context.Context, userID uint) ([]*entity.Invoice, error) {
	var out []*entity.Invoice
	err := r.DB(ctx).Preload("Lines").Preload("Payment").
		Where("user_id = ?", userID).Order("date desc").Find(&out).Error
	return out, err
}

// UpdateTotals writes only the derived total and status columns, leaving the
// rest of the row untouched.
func (r *InvoiceGorm) UpdateTotals(ctx context.Context, inv *entity.Invoice) error {
	return r.DB(ctx).Model(&entity.Invoice{}).
		Where("id = ?", inv.ID).
		Updates(map[string]any{"total": inv.Total, "status": inv.Status}).Error
}

// InvoiceLineGorm persists InvoiceLine entities.
type InvoiceLineGorm struct {
	*gormstore.Store[entity.InvoiceLine]
}

func NewInvoiceLineGorm(conn *gorm.DB) *InvoiceLineGorm {
	return &InvoiceLineGorm{Store: gormstore.New[entity.InvoiceLine](conn)}
}

// FindAllByInvoiceID returns the lines of one invoice.
func (r *InvoiceLineGorm) FindAllByInvoiceID(ctx context.Context, invoiceID uint) ([]*entity.InvoiceLine, error) {
	var out []*entity.InvoiceLine
	err := r.DB(ctx).Where("invoice_id = ?", invoiceID).Find(&out).Error
	return out, err
}

// DeleteByInvoiceID removes every line of an invoice.
func (r *InvoiceLineGorm) DeleteByInvoiceID(ctx context.Context, invoiceID uint) error {
	return r.DB(ctx).Where("invoice_id = ?", invoiceID).Delete(&entity.InvoiceLine{}).Error
}

// PaymentGorm persists Payment entities.
type PaymentGorm struct {
	*gormstore.Store[entity.Payment]
}

func NewPaymentGorm(conn *gorm.DB) *PaymentGorm {
	return &PaymentGorm{Store: gormstore.New[entity.Payment](conn)}
}

// ExistsByInvoiceID reports whether the invoice is already settled by a
// payment.
func (r *PaymentGorm) ExistsByInvoiceID(ctx context.Context, invoiceID uint) (bool, error) {
	var n int64
	err := r.DB(ctx).Model(&entity.Payment{}).Where("invoice_id = ?", invoiceID).Count(&n).Error
	return n > 0, err
}

// FindByInvoiceID retrieves the payment settling the given invoice.
func (r *PaymentGorm) FindByInvoiceID(ctx context.Context, invoiceID uint) (*entity.Payment, error) {
	var p entity.Payment
	err := r.DB(ctx).Where("invoice_id = ?", invoiceID).First(&p).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: payment for invoice %d", apperrors.ErrEntityNotFound, invoiceID)
		}
		return nil, err
	}
	return &p, nil
}

// FindAllByUserID returns every payment settling one user's invoices, newest
// first.
func (r *PaymentGorm) FindAllByUserID(ctx context.Context, userID uint) ([]*entity.Payment, error) {
	var out []*entity.Payment
	err := r.DB(ctx).
		Joins("JOIN invoices ON invoices.id = payments.invoice_id").
		Where("invoices.user_id = ?", userID).
		Order("payments.payment_date desc").
		Find(&out).Error
	return out, err
}

// DeleteByInvoiceID removes the payment of an invoice, if any.
func (r *PaymentGorm) DeleteByInvoiceID(ctx context.Context, invoiceID uint) error {
	return r.DB(ctx).Where("invoice_id = ?", invoiceID).Delete(&entity.Payment{}).Error
}
