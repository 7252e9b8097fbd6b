package handler

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/sunwoo0067/yooni-03-sub011/internal/application/identity"
)

// UserHandler serves operator account administration. All routes are
// admin only.
type UserHandler struct {
	BaseHandler
	users *identity.UserService
}

// NewUserHandler creates a new UserHandler
func NewUserHandler(users *identity.UserService) *UserHandler {
	return &UserHandler{users: users}
}

// RegisterRoutes registers user administration routes
func (h *UserHandler) RegisterRoutes(rg *gin.RouterGroup) {
	group := rg.Group("/users")
	{
		group.POST("", h.Create)
		group.GET("", h.List)
		group.GET("/:id", h.Get)
		group.PUT("/:id", h.Update)
		group.POST("/:id/reset-password", h.ResetPassword)
		group.POST("/:id/activate", h.Activate)
		group.POST("/:id/deactivate", h.Deactivate)
		group.POST("/:id/unlock", h.Unlock)
		group.DELETE("/:id", h.Delete)
	}
}

// Create creates a new operator account
func (h *UserHandler) Create(c *gin.Context) {
	var req identity.CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	user, err := h.users.Create(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, user)
}

// List returns accounts with pagination
func (h *UserHandler) List(c *gin.Context) {
	var filter identity.UserListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	users, total, err := h.users.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, users, total, filter.Page, filter.PageSize)
}

// Get returns one account
func (h *UserHandler) Get(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		h.BadRequest(c, "invalid user ID")
		return
	}

	user, err := h.users.GetByID(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, user)
}

// Update changes an account's profile or role
func (h *UserHandler) Update(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		h.BadRequest(c, "invalid user ID")
		return
	}

	var req identity.UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	user, err := h.users.Update(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, user)
}

// ResetPassword sets a new password without the old one
func (h *UserHandler) ResetPassword(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		h.BadRequest(c, "invalid user ID")
		return
	}

	var req identity.ResetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	if err := h.users.ResetPassword(c.Request.Context(), id, req); err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, gin.H{"message": "password reset"})
}

// Activate re-enables a deactivated account
func (h *UserHandler) Activate(c *gin.Context) {
	h.transition(c, h.users.Activate)
}

// Deactivate disables an account
func (h *UserHandler) Deactivate(c *gin.Context) {
	h.transition(c, h.users.Deactivate)
}

// Unlock clears a lockout caused by failed login attempts
func (h *UserHandler) Unlock(c *gin.Context) {
	h.transition(c, h.users.Unlock)
}

// Delete removes an account
func (h *UserHandler) Delete(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		h.BadRequest(c, "invalid user ID")
		return
	}

	if err := h.users.Delete(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

func (h *UserHandler) transition(c *gin.Context, fn func(ctx context.Context, id uuid.UUID) (*identity.UserResponse, error)) {
	id, ok := parseIDParam(c)
	if !ok {
		h.BadRequest(c, "invalid user ID")
		return
	}

	user, err := fn(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, user)
}
