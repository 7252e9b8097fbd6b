package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/sunwoo0067/yooni-03-sub011/internal/application/analytics"
)

// DashboardHandler serves the aggregated operations dashboard
type DashboardHandler struct {
	BaseHandler
	dashboard *analytics.DashboardService
}

// NewDashboardHandler creates a new DashboardHandler
func NewDashboardHandler(dashboard *analytics.DashboardService) *DashboardHandler {
	return &DashboardHandler{dashboard: dashboard}
}

// RegisterRoutes registers dashboard routes
func (h *DashboardHandler) RegisterRoutes(rg *gin.RouterGroup) {
	group := rg.Group("/dashboard")
	{
		group.GET("", h.Get)
		group.POST("/refresh", h.Refresh)
	}
}

// Get returns the dashboard snapshot, cached between rebuilds
func (h *DashboardHandler) Get(c *gin.Context) {
	snapshot, err := h.dashboard.GetSnapshot(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, snapshot)
}

// Refresh rebuilds the snapshot from live data and pushes it to
// connected dashboards
func (h *DashboardHandler) Refresh(c *gin.Context) {
	snapshot, err := h.dashboard.Rebuild(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, snapshot)
}
