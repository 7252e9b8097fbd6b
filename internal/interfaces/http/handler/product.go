package handler

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/sunwoo0067/yooni-03-sub011/internal/application/catalog"
)

// ProductHandler serves the collected product catalog
type ProductHandler struct {
	BaseHandler
	products *catalog.ProductService
}

// NewProductHandler creates a new ProductHandler
func NewProductHandler(products *catalog.ProductService) *ProductHandler {
	return &ProductHandler{products: products}
}

// RegisterRoutes registers product routes
func (h *ProductHandler) RegisterRoutes(rg *gin.RouterGroup) {
	group := rg.Group("/products")
	{
		group.GET("", h.List)
		group.GET("/counts", h.Counts)
		group.GET("/:id", h.Get)
		group.GET("/:id/price-history", h.PriceHistory)
		group.PUT("/:id/sale-price", h.SetSalePrice)
		group.POST("/:id/reprice", h.Reprice)
		group.POST("/reprice", h.RepriceAll)
		group.POST("/:id/activate", h.Activate)
		group.POST("/:id/pause", h.Pause)
		group.POST("/:id/delist", h.Delist)
		group.DELETE("/:id", h.Delete)
	}
}

// List returns products with filtering and pagination
func (h *ProductHandler) List(c *gin.Context) {
	var filter catalog.ProductListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	products, total, err := h.products.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, products, total, filter.Page, filter.PageSize)
}

// Counts returns product counts by lifecycle status
func (h *ProductHandler) Counts(c *gin.Context) {
	counts, err := h.products.CountByStatus(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, counts)
}

// Get returns one product
func (h *ProductHandler) Get(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		h.BadRequest(c, "invalid product ID")
		return
	}

	product, err := h.products.GetByID(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, product)
}

// PriceHistory returns the price change log of a product
func (h *ProductHandler) PriceHistory(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		h.BadRequest(c, "invalid product ID")
		return
	}

	var filter catalog.PriceHistoryFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	rows, total, err := h.products.PriceHistory(c.Request.Context(), id, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, rows, total, filter.Page, filter.PageSize)
}

// SetSalePrice sets a manual sale price
func (h *ProductHandler) SetSalePrice(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		h.BadRequest(c, "invalid product ID")
		return
	}

	var req catalog.SetSalePriceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	product, err := h.products.SetSalePrice(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, product)
}

// Reprice recalculates one product's sale price from the pricing rule
func (h *ProductHandler) Reprice(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		h.BadRequest(c, "invalid product ID")
		return
	}

	var req catalog.RepriceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	product, err := h.products.Reprice(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, product)
}

// RepriceAll recalculates sale prices across the active catalog
func (h *ProductHandler) RepriceAll(c *gin.Context) {
	var req catalog.RepriceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	updated, err := h.products.RepriceAll(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, gin.H{"updated": updated})
}

// Activate puts a product on sale
func (h *ProductHandler) Activate(c *gin.Context) {
	h.transition(c, h.products.Activate)
}

// Pause temporarily withholds a product from sale
func (h *ProductHandler) Pause(c *gin.Context) {
	h.transition(c, h.products.Pause)
}

// Delist permanently removes a product from sale
func (h *ProductHandler) Delist(c *gin.Context) {
	h.transition(c, h.products.Delist)
}

// Delete removes a delisted product
func (h *ProductHandler) Delete(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		h.BadRequest(c, "invalid product ID")
		return
	}

	if err := h.products.Delete(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

func (h *ProductHandler) transition(c *gin.Context, fn func(ctx context.Context, id uuid.UUID) (*catalog.ProductResponse, error)) {
	id, ok := parseIDParam(c)
	if !ok {
		h.BadRequest(c, "invalid product ID")
		return
	}

	product, err := fn(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, product)
}
