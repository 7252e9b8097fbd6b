package handler

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/sunwoo0067/yooni-03-sub011/internal/application/collection"
	appsupplier "github.com/sunwoo0067/yooni-03-sub011/internal/application/supplier"
	"github.com/sunwoo0067/yooni-03-sub011/internal/domain/integration"
)

// SupplierHandler serves wholesaler account management and manual
// collection runs
type SupplierHandler struct {
	BaseHandler
	accounts  *appsupplier.AccountService
	collector *collection.Service
}

// NewSupplierHandler creates a new SupplierHandler
func NewSupplierHandler(accounts *appsupplier.AccountService, collector *collection.Service) *SupplierHandler {
	return &SupplierHandler{accounts: accounts, collector: collector}
}

// RegisterRoutes registers supplier routes
func (h *SupplierHandler) RegisterRoutes(rg *gin.RouterGroup) {
	group := rg.Group("/suppliers")
	{
		group.POST("", h.Register)
		group.GET("", h.List)
		group.GET("/:id", h.Get)
		group.PUT("/:id/credentials", h.UpdateCredentials)
		group.POST("/:id/enable", h.Enable)
		group.POST("/:id/disable", h.Disable)
		group.DELETE("/:id", h.Delete)

		group.POST("/collect", h.CollectAll)
		group.POST("/collect/:source", h.CollectSource)
	}
}

// Register connects a wholesaler account
func (h *SupplierHandler) Register(c *gin.Context) {
	var req appsupplier.RegisterAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	account, err := h.accounts.Register(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, account)
}

// List returns all connected wholesaler accounts
func (h *SupplierHandler) List(c *gin.Context) {
	accounts, err := h.accounts.List(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, accounts)
}

// Get returns one wholesaler account
func (h *SupplierHandler) Get(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		h.BadRequest(c, "invalid account ID")
		return
	}

	account, err := h.accounts.GetByID(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, account)
}

// UpdateCredentials replaces the account's API credentials
func (h *SupplierHandler) UpdateCredentials(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		h.BadRequest(c, "invalid account ID")
		return
	}

	var req appsupplier.UpdateCredentialsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	account, err := h.accounts.UpdateCredentials(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, account)
}

// Enable resumes collection from the account
func (h *SupplierHandler) Enable(c *gin.Context) {
	h.transition(c, h.accounts.Enable)
}

// Disable pauses collection from the account
func (h *SupplierHandler) Disable(c *gin.Context) {
	h.transition(c, h.accounts.Disable)
}

// Delete removes a disabled account
func (h *SupplierHandler) Delete(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		h.BadRequest(c, "invalid account ID")
		return
	}

	if err := h.accounts.Delete(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// CollectAll runs product collection against every collectable source
func (h *SupplierHandler) CollectAll(c *gin.Context) {
	results, err := h.collector.RunAll(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, results)
}

// CollectSource runs product collection against one wholesaler
func (h *SupplierHandler) CollectSource(c *gin.Context) {
	source := integration.SourceCode(c.Param("source"))
	if !source.IsValid() {
		h.BadRequest(c, "unknown source code")
		return
	}

	result, err := h.collector.RunSource(c.Request.Context(), source)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}

func (h *SupplierHandler) transition(c *gin.Context, fn func(ctx context.Context, id uuid.UUID) (*appsupplier.AccountResponse, error)) {
	id, ok := parseIDParam(c)
	if !ok {
		h.BadRequest(c, "invalid account ID")
		return
	}

	account, err := fn(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, account)
}
