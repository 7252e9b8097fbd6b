package handler

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/sunwoo0067/yooni-03-sub011/internal/application/marketsync"
	"github.com/sunwoo0067/yooni-03-sub011/internal/domain/integration"
)

// ListingHandler serves marketplace listing management and manual
// listing sync runs
type ListingHandler struct {
	BaseHandler
	listings *marketsync.ListingService
	syncer   *marketsync.SyncService
}

// NewListingHandler creates a new ListingHandler
func NewListingHandler(listings *marketsync.ListingService, syncer *marketsync.SyncService) *ListingHandler {
	return &ListingHandler{listings: listings, syncer: syncer}
}

// RegisterRoutes registers listing routes
func (h *ListingHandler) RegisterRoutes(rg *gin.RouterGroup) {
	group := rg.Group("/listings")
	{
		group.POST("", h.Create)
		group.GET("/:id", h.Get)
		group.GET("/by-product/:id", h.ListByProduct)
		group.GET("/counts/:channel", h.Counts)
		group.POST("/:id/activate", h.Activate)
		group.POST("/:id/deactivate", h.Deactivate)
		group.POST("/:id/enable-sync", h.EnableSync)
		group.POST("/:id/disable-sync", h.DisableSync)
		group.DELETE("/:id", h.Delete)

		group.POST("/sync", h.SyncAll)
		group.POST("/sync/:channel", h.SyncChannel)
	}
}

// Create registers a product on a marketplace channel
func (h *ListingHandler) Create(c *gin.Context) {
	var req marketsync.CreateListingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	listing, err := h.listings.Create(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, listing)
}

// Get returns one listing
func (h *ListingHandler) Get(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		h.BadRequest(c, "invalid listing ID")
		return
	}

	listing, err := h.listings.GetByID(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, listing)
}

// ListByProduct returns every channel listing of a product
func (h *ListingHandler) ListByProduct(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		h.BadRequest(c, "invalid product ID")
		return
	}

	listings, err := h.listings.ListByProduct(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, listings)
}

// Counts returns listing counts by sync status for one channel
func (h *ListingHandler) Counts(c *gin.Context) {
	channel, ok := parseChannelParam(c)
	if !ok {
		h.BadRequest(c, "unknown channel code")
		return
	}

	counts, err := h.listings.CountByStatus(c.Request.Context(), channel)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, counts)
}

// Activate puts the listing live on its channel
func (h *ListingHandler) Activate(c *gin.Context) {
	h.transition(c, h.listings.Activate)
}

// Deactivate withdraws the listing from its channel
func (h *ListingHandler) Deactivate(c *gin.Context) {
	h.transition(c, h.listings.Deactivate)
}

// EnableSync includes the listing in scheduled sync runs
func (h *ListingHandler) EnableSync(c *gin.Context) {
	h.transition(c, h.listings.EnableSync)
}

// DisableSync excludes the listing from scheduled sync runs
func (h *ListingHandler) DisableSync(c *gin.Context) {
	h.transition(c, h.listings.DisableSync)
}

// Delete removes a listing
func (h *ListingHandler) Delete(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		h.BadRequest(c, "invalid listing ID")
		return
	}

	if err := h.listings.Delete(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// SyncAll pushes pending listings to every enabled channel
func (h *ListingHandler) SyncAll(c *gin.Context) {
	results, err := h.syncer.RunAll(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, results)
}

// SyncChannel pushes pending listings to one channel
func (h *ListingHandler) SyncChannel(c *gin.Context) {
	channel, ok := parseChannelParam(c)
	if !ok {
		h.BadRequest(c, "unknown channel code")
		return
	}

	result, err := h.syncer.RunChannel(c.Request.Context(), channel)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}

func (h *ListingHandler) transition(c *gin.Context, fn func(ctx context.Context, id uuid.UUID) (*marketsync.ListingResponse, error)) {
	id, ok := parseIDParam(c)
	if !ok {
		h.BadRequest(c, "invalid listing ID")
		return
	}

	listing, err := fn(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, listing)
}

// parseChannelParam parses the :channel path parameter
func parseChannelParam(c *gin.Context) (integration.ChannelCode, bool) {
	channel := integration.ChannelCode(c.Param("channel"))
	if !channel.IsValid() {
		return "", false
	}
	return channel, true
}
