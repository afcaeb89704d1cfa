package entity

import "time"

// Invoice is a bill issued to a user. Its total is derived from its lines and
// its status flips between NOT_PAID and PAID as its payment is created or
// removed.
type Invoice struct {
	ID uint `gorm:"primaryKey"`

	UserID uint  `gorm:"not null"`
	User   *User `gorm:"foreignKey:UserID"`

	// Date is the issue date. It must not be in the future.
	Date time.Time `gorm:"not null"`

	// Total always equals the sum of the lines' subtotals once lines are
	// attached; recalculation keeps it authoritative.
	Total float64 `gorm:"type:decimal(10,2);not null"`

	Status Status `gorm:"size:20;not null"`

	// Payment is the at-most-one payment settling this invoice.
	Payment *Payment `gorm:"foreignKey:InvoiceID"`

	// Lines are owned and removed with the invoice.
	Lines []*InvoiceLine `gorm:"foreignKey:InvoiceID"`
}

func (i *Invoice) GetID() uint { return i.ID }

// InvoiceLine is one billed item. Subtotal is derived: it is recomputed as
// unit price times quantity on every save and update, never trusted from
// input.
type InvoiceLine struct {
	ID uint `gorm:"primaryKey"`

	InvoiceID uint     `gorm:"not null"`
	Invoice   *Invoice `gorm:"foreignKey:InvoiceID"`

	ProductServiceID uint            `gorm:"not null"`
	ProductService   *ProductService `gorm:"foreignKey:ProductServiceID"`

	Description string  `gorm:"type:text"`
	Quantity    int     `gorm:"not null"`
	UnitPrice   float64 `gorm:"type:decimal(10,2);not null"`
	Subtotal    float64 `gorm:"type:decimal(10,2);not null"`
}

func (l *InvoiceLine) GetID() uint { return l.ID }

// Payment settles an invoice. At most one payment exists per invoice.
type Payment struct {
	ID uint `gorm:"primaryKey"`

	InvoiceID uint     `gorm:"uniqueIndex;not null"`
	Invoice   *Invoice `gorm:"foreignKey:InvoiceID"`

	// PaymentDate must not be in the future.
	PaymentDate time.Time `gorm:"not null"`

	Amount        float64       `gorm:"type:decimal(10,2);not null"`
	PaymentMethod PaymentMethod `gorm:"size:50;not null"`
	Status        Status        `gorm:"size:20;not null"`
}

func (p *Payment) GetID() uint { return p.ID }

// ProductService is a billable catalog item (a product or a service). Its
// name is unique.
type ProductService struct {
	ID uint `gorm:"primaryKey"`

	IVATypeID uint     `gorm:"not null"`
	IVAType   *IVAType `gorm:"foreignKey:IVATypeID"`

	Name        string  `gorm:"uniqueIndex;size:100;not null"`
	Description string  `gorm:"size:250"`
	Price       float64 `gorm:"type:decimal(10,2);not null"`
	Type        string  `gorm:"size:45;not null"`
	Status      Status  `gorm:"size:20;not null"`
}

func (p *ProductService) GetID() uint { return p.ID }

// IVAType is a VAT rate applied to catalog items. It cannot be deleted while
// any product references it, and its percentage is unique.
type IVAType struct {
	ID uint `gorm:"primaryKey"`

	Percentage  float64 `gorm:"type:decimal(5,2);uniqueIndex;not null"`
	Description string  `gorm:"size:50"`
}

func (t *IVAType) GetID() uint { return t.ID }
