package adapters

import (
	"context"

	"gorm.io/gorm"

	"memberflow_backend/internal/domain/entity"
	"memberflow_backend/internal/platform/gormstore"
)

// ProductServiceGorm persists the billable catalog.
type ProductServiceGorm struct {
	*gormstore.Store[entity.ProductService]
}

func NewProductServiceGorm(conn *gorm.DB) *ProductServiceGorm {
	return &ProductServiceGorm{Store: gormstore.New[entity.ProductService](conn, "IVAType")}
}

// ExistsByName reports whether a catalog item with the given name exists.
func (r *ProductServiceGorm) ExistsByName(ctx context.Context, name string) (bool, error) {
	var n int64
	err := r.DB(ctx).Model(&entity.ProductService{}).Where("name = ?", name).Count(&n).Error
	return n > 0, err
}

// CountByIVATypeID counts the catalog items taxed at a given VAT rate.
func (r *ProductServiceGorm) CountByIVATypeID(ctx context.Context, ivaTypeID uint) (int64, error) {
	var n int64
	err := r.DB(ctx).Model(&entity.ProductService{}).Where("iva_type_id = ?", ivaTypeID).Count(&n).Error
	return n, err
}

// IVATypeGorm persists VAT rates.
type IVATypeGorm struct {
	*gormstore.Store[entity.IVAType]
}

func NewIVATypeGorm(conn *gorm.DB) *IVATypeGorm {
	return &IVATypeGorm{Store: gormstore.New[entity.IVAType](conn)}
}

// ExistsByPercentage reports whether a VAT rate with the given percentage
// exists.
func (r *IVATypeGorm) ExistsByPercentage(ctx context.Context, percentage float64) (bool, error) {
	var n int64
	err := r.DB(ctx).Model(&entity.IVAType{}).Where("percentage = ?", percentage).Count(&n).Error
	return n > 0, err
}
