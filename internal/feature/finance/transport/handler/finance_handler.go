// Package handler provides the HTTP handlers of the financial engine.
package handler

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"memberflow_backend/internal/domain/entity"
	"memberflow_backend/internal/shared/httperr"
)

// InvoiceUsecase defines the invoice operations the handler consumes.
type InvoiceUsecase interface {
	Save(ctx context.Context, inv *entity.Invoice) (*entity.Invoice, error)
	Update(ctx context.Context, inv *entity.Invoice) (*entity.Invoice, error)
	FindByID(ctx context.Context, id uint) (*entity.Invoice, error)
	FindAll(ctx context.Context) ([]*entity.Invoice, error)
	FindAllByUserID(ctx context.Context, userID uint) ([]*entity.Invoice, error)
	AddLineToInvoice(ctx context.Context, invoiceID uint, line *entity.InvoiceLine) (*entity.Invoice, error)
	RemoveLineFromInvoice(ctx context.Context, invoiceID, lineID uint) (*entity.Invoice, error)
	ClearInvoiceLines(ctx context.Context, invoiceID uint) (*entity.Invoice, error)
	RecalculateTotal(ctx context.Context, invoiceID uint) (*entity.Invoice, error)
	DeleteByID(ctx context.Context, id uint) error
}

// InvoiceLineUsecase defines the direct line operations the handler
// consumes.
type InvoiceLineUsecase interface {
	Update(ctx context.Context, l *entity.InvoiceLine) (*entity.InvoiceLine, error)
	FindByID(ctx context.Context, id uint) (*entity.InvoiceLine, error)
	FindAllByInvoiceID(ctx context.Context, invoiceID uint) ([]*entity.InvoiceLine, error)
	DeleteByID(ctx context.Context, id uint) error
}

// PaymentUsecase defines the payment operations the handler consumes.
type PaymentUsecase interface {
	Save(ctx context.Context, p *entity.Payment) (*entity.Payment, error)
	Update(ctx context.Context, p *entity.Payment) (*entity.Payment, error)
	FindByID(ctx context.Context, id uint) (*entity.Payment, error)
	FindAll(ctx context.Context) ([]*entity.Payment, error)
	FindByInvoiceID(ctx context.Context, invoiceID uint) (*entity.Payment, error)
	FindAllByUserID(ctx context.Context, userID uint) ([]*entity.Payment, error)
	RemovePayment(ctx context.Context, id uint) error
}

// FinanceHandler handles the HTTP requests for invoices, lines and payments.
type FinanceHandler struct {
	invoices InvoiceUsecase
	lines    InvoiceLineUsecase
	payments PaymentUsecase
}

func NewFinanceHandler(invoices InvoiceUsecase, lines InvoiceLineUsecase, payments PaymentUsecase) *FinanceHandler {
	return &FinanceHandler{invoices: invoices, lines: lines, payments: payments}
}

func parseID(c *gin.Context, name string) (uint, bool) {
	v, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, httperr.ErrorResponse{Error: "invalid " + name})
		return 0, false
	}
	return uint(v), true
}

func (h *FinanceHandler) CreateInvoice(c *gin.Context) {
	var inv entity.Invoice
	if err := c.ShouldBindJSON(&inv); err != nil {
		c.JSON(http.StatusBadRequest, httperr.ErrorResponse{Error: "invalid request"})
		return
	}
	saved, err := h.invoices.Save(c.Request.Context(), &inv)
	if err != nil {
		httperr.Write(c, err)
		return
	}
	c.JSON(http.StatusCreated, saved)
}

func (h *FinanceHandler) GetInvoice(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	inv, err := h.invoices.FindByID(c.Request.Context(), id)
	if err != nil {
		httperr.Write(c, err)
		return
	}
	c.JSON(http.StatusOK, inv)
}

// UpdateInvoice merges an invoice by id.
func (h *FinanceHandler) UpdateInvoice(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var inv entity.Invoice
	if err := c.ShouldBindJSON(&inv); err != nil {
		c.JSON(http.StatusBadRequest, httperr.ErrorResponse{Error: "invalid request"})
		return
	}
	inv.ID = id
	updated, err := h.invoices.Update(c.Request.Context(), &inv)
	if err != nil {
		httperr.Write(c, err)
		return
	}
	c.JSON(http.StatusOK, updated)
}

// ListInvoices returns all invoices, optionally filtered by user.
func (h *FinanceHandler) ListInvoices(c *gin.Context) {
	if u := c.Query("user"); u != "" {
		userID, err := strconv.ParseUint(u, 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, httperr.ErrorResponse{Error: "invalid user"})
			return
		}
		out, err := h.invoices.FindAllByUserID(c.Request.Context(), uint(userID))
		if err != nil {
			httperr.Write(c, err)
			return
		}
		c.JSON(http.StatusOK, out)
		return
	}
	out, err := h.invoices.FindAll(c.Request.Context())
	if err != nil {
		httperr.Write(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

func (h *FinanceHandler) DeleteInvoice(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	if err := h.invoices.DeleteByID(c.Request.Context(), id); err != nil {
		httperr.Write(c, err)
		return
	}
	c.JSON(http.StatusOK, httperr.MessageResponse{Message: "deleted"})
}

// AddLine attaches a line to an invoice and answers with the recalculated
// invoice.
func (h *FinanceHandler) AddLine(c *gin.Context) {
	invoiceID, ok := parseID(c, "id")
	if !ok {
		return
	}
	var line entity.InvoiceLine
	if err := c.ShouldBindJSON(&line); err != nil {
		c.JSON(http.StatusBadRequest, httperr.ErrorResponse{Error: "invalid request"})
		return
	}
	inv, err := h.invoices.AddLineToInvoice(c.Request.Context(), invoiceID, &line)
	if err != nil {
		httperr.Write(c, err)
		return
	}
	c.JSON(http.StatusOK, inv)
}

func (h *FinanceHandler) RemoveLine(c *gin.Context) {
	invoiceID, ok := parseID(c, "id")
	if !ok {
		return
	}
	lineID, ok := parseID(c, "lineId")
	if !ok {
		return
	}
	inv, err := h.invoices.RemoveLineFromInvoice(c.Request.Context(), invoiceID, lineID)
	if err != nil {
		httperr.Write(c, err)
		return
	}
	c.JSON(http.StatusOK, inv)
}

func (h *FinanceHandler) ClearLines(c *gin.Context) {
	invoiceID, ok := parseID(c, "id")
	if !ok {
		return
	}
	inv, err := h.invoices.ClearInvoiceLines(c.Request.Context(), invoiceID)
	if err != nil {
		httperr.Write(c, err)
		return
	}
	c.JSON(http.StatusOK, inv)
}

func (h *FinanceHandler) Recalculate(c *gin.Context) {
	invoiceID, ok := parseID(c, "id")
	if !ok {
		return
	}
	inv, err := h.invoices.RecalculateTotal(c.Request.Context(), invoiceID)
	if err != nil {
		httperr.Write(c, err)
		return
	}
	c.JSON(http.StatusOK, inv)
}

// ListLines returns the lines of one invoice.
func (h *FinanceHandler) ListLines(c *gin.Context) {
	invoiceID, ok := parseID(c, "id")
	if !ok {
		return
	}
	out, err := h.lines.FindAllByInvoiceID(c.Request.Context(), invoiceID)
	if err != nil {
		httperr.Write(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

// UpdateLine merges a line and recalculates the owning invoice's total.
func (h *FinanceHandler) UpdateLine(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var line entity.InvoiceLine
	if err := c.ShouldBindJSON(&line); err != nil {
		c.JSON(http.StatusBadRequest, httperr.ErrorResponse{Error: "invalid request"})
		return
	}
	line.ID = id
	updated, err := h.lines.Update(c.Request.Context(), &line)
	if err != nil {
		httperr.Write(c, err)
		return
	}
	c.JSON(http.StatusOK, updated)
}

// DeleteLine removes a standalone line and recalculates its invoice.
func (h *FinanceHandler) DeleteLine(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	if err := h.lines.DeleteByID(c.Request.Context(), id); err != nil {
		httperr.Write(c, err)
		return
	}
	c.JSON(http.StatusOK, httperr.MessageResponse{Message: "deleted"})
}

// CreatePayment settles an invoice.
func (h *FinanceHandler) CreatePayment(c *gin.Context) {
	var p entity.Payment
	if err := c.ShouldBindJSON(&p); err != nil {
		c.JSON(http.StatusBadRequest, httperr.ErrorResponse{Error: "invalid request"})
		return
	}
	saved, err := h.payments.Save(c.Request.Context(), &p)
	if err != nil {
		httperr.Write(c, err)
		return
	}
	c.JSON(http.StatusCreated, saved)
}

// UpdatePayment merges a payment by id, re-asserting its invoice as PAID.
func (h *FinanceHandler) UpdatePayment(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var p entity.Payment
	if err := c.ShouldBindJSON(&p); err != nil {
		c.JSON(http.StatusBadRequest, httperr.ErrorResponse{Error: "invalid request"})
		return
	}
	p.ID = id
	updated, err := h.payments.Update(c.Request.Context(), &p)
	if err != nil {
		httperr.Write(c, err)
		return
	}
	c.JSON(http.StatusOK, updated)
}

func (h *FinanceHandler) GetPayment(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	p, err := h.payments.FindByID(c.Request.Context(), id)
	if err != nil {
		httperr.Write(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

// ListPayments returns all payments, narrowed by the invoice or user query
// parameter when present.
func (h *FinanceHandler) ListPayments(c *gin.Context) {
	if u := c.Query("user"); u != "" {
		userID, err := strconv.ParseUint(u, 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, httperr.ErrorResponse{Error: "invalid user"})
			return
		}
		out, err := h.payments.FindAllByUserID(c.Request.Context(), uint(userID))
		if err != nil {
			httperr.Write(c, err)
			return
		}
		c.JSON(http.StatusOK, out)
		return
	}
	if inv := c.Query("invoice"); inv != "" {
		invoiceID, err := strconv.ParseUint(inv, 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, httperr.ErrorResponse{Error: "invalid invoice"})
			return
		}
		p, err := h.payments.FindByInvoiceID(c.Request.Context(), uint(invoiceID))
		if err != nil {
			httperr.Write(c, err)
			return
		}
		c.JSON(http.StatusOK, []*entity.Payment{p})
		return
	}
	out, err := h.payments.FindAll(c.Request.Context())
	if err != nil {
		httperr.Write(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

// DeletePayment removes a payment, reverting its invoice to NOT_PAID.
func (h *FinanceHandler) DeletePayment(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	if err := h.payments.RemovePayment(c.Request.Context(), id); err != nil {
		httperr.Write(c, err)
		return
	}
	c.JSON(http.StatusOK, httperr.MessageResponse{Message: "deleted"})
}
