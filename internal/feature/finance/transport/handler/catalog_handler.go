package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"memberflow_backend/internal/domain/entity"
	"memberflow_backend/internal/shared/httperr"
)

// ProductServiceUsecase defines the catalog operations the handler consumes.
type ProductServiceUsecase interface {
	Save(ctx context.Context, p *entity.ProductService) (*entity.ProductService, error)
	Update(ctx context.Context, p *entity.ProductService) (*entity.ProductService, error)
	FindByID(ctx context.Context, id uint) (*entity.ProductService, error)
	FindAll(ctx context.Context) ([]*entity.ProductService, error)
	DeleteByID(ctx context.Context, id uint) error
}

// IVATypeUsecase defines the VAT rate operations the handler consumes.
type IVATypeUsecase interface {
	Save(ctx context.Context, t *entity.IVAType) (*entity.IVAType, error)
	Update(ctx context.Context, t *entity.IVAType) (*entity.IVAType, error)
	FindByID(ctx context.Context, id uint) (*entity.IVAType, error)
	FindAll(ctx context.Context) ([]*entity.IVAType, error)
	DeleteByID(ctx context.Context, id uint) error
}

// CatalogHandler handles the HTTP requests for the billable catalog and its
// VAT rates.
type CatalogHandler struct {
	products ProductServiceUsecase
	ivaTypes IVATypeUsecase
}

func NewCatalogHandler(products ProductServiceUsecase, ivaTypes IVATypeUsecase) *CatalogHandler {
	return &CatalogHandler{products: products, ivaTypes: ivaTypes}
}

func (h *CatalogHandler) CreateProduct(c *gin.Context) {
	var p entity.ProductService
	if err := c.ShouldBindJSON(&p); err != nil {
		c.JSON(http.StatusBadRequest, httperr.ErrorResponse{Error: "invalid request"})
		return
	}
	saved, err := h.products.Save(c.Request.Context(), &p)
	if err != nil {
		httperr.Write(c, err)
		return
	}
	c.JSON(http.StatusCreated, saved)
}

func (h *CatalogHandler) UpdateProduct(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var p entity.ProductService
	if err := c.ShouldBindJSON(&p); err != nil {
		c.JSON(http.StatusBadRequest, httperr.ErrorResponse{Error: "invalid request"})
		return
	}
	p.ID = id
	updated, err := h.products.Update(c.Request.Context(), &p)
	if err != nil {
		httperr.Write(c, err)
		return
	}
	c.JSON(http.StatusOK, updated)
}

func (h *CatalogHandler) GetProduct(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	p, err := h.products.FindByID(c.Request.Context(), id)
	if err != nil {
		httperr.Write(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

func (h *CatalogHandler) ListProducts(c *gin.Context) {
	out, err := h.products.FindAll(c.Request.Context())
	if err != nil {
		httperr.Write(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

func (h *CatalogHandler) DeleteProduct(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	if err := h.products.DeleteByID(c.Request.Context(), id); err != nil {
		httperr.Write(c, err)
		return
	}
	c.JSON(http.StatusOK, httperr.MessageResponse{Message: "deleted"})
}

func (h *CatalogHandler) CreateIVAType(c *gin.Context) {
	var t entity.IVAType
	if err := c.ShouldBindJSON(&t); err != nil {
		c.JSON(http.StatusBadRequest, httperr.ErrorResponse{Error: "invalid request"})
		return
	}
	saved, err := h.ivaTypes.Save(c.Request.Context(), &t)
	if err != nil {
		httperr.Write(c, err)
		return
	}
	c.JSON(http.StatusCreated, saved)
}

func (h *CatalogHandler) UpdateIVAType(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var t entity.IVAType
	if err := c.ShouldBindJSON(&t); err != nil {
		c.JSON(http.StatusBadRequest, httperr.ErrorResponse{Error: "invalid request"})
		return
	}
	t.ID = id
	updated, err := h.ivaTypes.Update(c.Request.Context(), &t)
	if err != nil {
		httperr.Write(c, err)
		return
	}
	c.JSON(http.StatusOK, updated)
}

func (h *CatalogHandler) ListIVATypes(c *gin.Context) {
	out, err := h.ivaTypes.FindAll(c.Request.Context())
	if err != nil {
		httperr.Write(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

// DeleteIVAType removes a VAT rate unless catalog items still reference it.
func (h *CatalogHandler) DeleteIVAType(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	if err := h.ivaTypes.DeleteByID(c.Request.Context(), id); err != nil {
		httperr.Write(c, err)
		return
	}
	c.JSON(http.StatusOK, httperr.MessageResponse{Message: "deleted"})
}
