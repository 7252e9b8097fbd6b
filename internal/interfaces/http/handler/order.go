package handler

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	apporder "github.com/sunwoo0067/yooni-03-sub011/internal/application/order"
)

// OrderHandler serves the order pipeline. Manual pull, forward, and
// tracking runs live here next to the per-order transitions.
type OrderHandler struct {
	BaseHandler
	orders    *apporder.OrderService
	puller    *apporder.PullService
	forwarder *apporder.ForwardService
}

// NewOrderHandler creates a new OrderHandler
func NewOrderHandler(orders *apporder.OrderService, puller *apporder.PullService, forwarder *apporder.ForwardService) *OrderHandler {
	return &OrderHandler{orders: orders, puller: puller, forwarder: forwarder}
}

// RegisterRoutes registers order routes
func (h *OrderHandler) RegisterRoutes(rg *gin.RouterGroup) {
	group := rg.Group("/orders")
	{
		group.GET("", h.List)
		group.GET("/counts", h.Counts)
		group.GET("/:id", h.Get)
		group.GET("/by-channel/:channel/:order_id", h.GetByChannelOrder)
		group.POST("/:id/confirm", h.Confirm)
		group.POST("/:id/cancel", h.Cancel)
		group.POST("/:id/ship", h.MarkShipped)
		group.POST("/:id/delivered", h.MarkDelivered)

		group.POST("/pull/:channel", h.Pull)
		group.POST("/forward", h.Forward)
		group.POST("/refresh-tracking", h.RefreshTracking)
	}
}

// List returns orders with filtering and pagination
func (h *OrderHandler) List(c *gin.Context) {
	var filter apporder.OrderListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	orders, total, err := h.orders.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, orders, total, filter.Page, filter.PageSize)
}

// Counts returns order counts by pipeline status
func (h *OrderHandler) Counts(c *gin.Context) {
	counts, err := h.orders.CountByStatus(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, counts)
}

// Get returns one order with its items
func (h *OrderHandler) Get(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		h.BadRequest(c, "invalid order ID")
		return
	}

	order, err := h.orders.GetByID(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, order)
}

// GetByChannelOrder looks an order up by its marketplace order number
func (h *OrderHandler) GetByChannelOrder(c *gin.Context) {
	channel, ok := parseChannelParam(c)
	if !ok {
		h.BadRequest(c, "unknown channel code")
		return
	}

	order, err := h.orders.GetByChannelOrder(c.Request.Context(), channel, c.Param("order_id"))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, order)
}

// Confirm accepts a received order for fulfillment
func (h *OrderHandler) Confirm(c *gin.Context) {
	h.transition(c, h.orders.Confirm)
}

// Cancel cancels an order with a reason
func (h *OrderHandler) Cancel(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		h.BadRequest(c, "invalid order ID")
		return
	}

	var req apporder.CancelOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	order, err := h.orders.Cancel(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, order)
}

// MarkShipped records shipment details entered by the operator
func (h *OrderHandler) MarkShipped(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		h.BadRequest(c, "invalid order ID")
		return
	}

	var req apporder.MarkShippedRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	order, err := h.orders.MarkShipped(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, order)
}

// MarkDelivered closes a shipped order
func (h *OrderHandler) MarkDelivered(c *gin.Context) {
	h.transition(c, h.orders.MarkDelivered)
}

// Pull ingests new orders from one marketplace channel
func (h *OrderHandler) Pull(c *gin.Context) {
	channel, ok := parseChannelParam(c)
	if !ok {
		h.BadRequest(c, "unknown channel code")
		return
	}

	result, err := h.puller.RunChannel(c.Request.Context(), channel)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}

// Forward places confirmed orders with their wholesalers
func (h *OrderHandler) Forward(c *gin.Context) {
	result, err := h.forwarder.ForwardOrders(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}

// RefreshTracking polls wholesalers for shipment updates
func (h *OrderHandler) RefreshTracking(c *gin.Context) {
	result, err := h.forwarder.RefreshTracking(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}

func (h *OrderHandler) transition(c *gin.Context, fn func(ctx context.Context, id uuid.UUID) (*apporder.OrderResponse, error)) {
	id, ok := parseIDParam(c)
	if !ok {
		h.BadRequest(c, "invalid order ID")
		return
	}

	order, err := fn(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, order)
}
