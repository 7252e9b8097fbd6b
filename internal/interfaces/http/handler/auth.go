package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/sunwoo0067/yooni-03-sub011/internal/application/identity"
	"github.com/sunwoo0067/yooni-03-sub011/internal/interfaces/http/dto"
	"github.com/sunwoo0067/yooni-03-sub011/internal/interfaces/http/middleware"
)

// AuthHandler serves login, token refresh, and logout
type AuthHandler struct {
	BaseHandler
	auth  *identity.AuthService
	users *identity.UserService
}

// NewAuthHandler creates a new AuthHandler
func NewAuthHandler(auth *identity.AuthService, users *identity.UserService) *AuthHandler {
	return &AuthHandler{auth: auth, users: users}
}

// RegisterPublicRoutes registers the routes that do not require a token
func (h *AuthHandler) RegisterPublicRoutes(rg *gin.RouterGroup) {
	group := rg.Group("/auth")
	{
		group.POST("/login", h.Login)
		group.POST("/refresh", h.Refresh)
	}
}

// RegisterProtectedRoutes registers the routes that require a valid token
func (h *AuthHandler) RegisterProtectedRoutes(rg *gin.RouterGroup) {
	group := rg.Group("/auth")
	{
		group.POST("/logout", h.Logout)
		group.POST("/change-password", h.ChangePassword)
		group.GET("/me", h.Me)
	}
}

// Login authenticates a user and issues a token pair
func (h *AuthHandler) Login(c *gin.Context) {
	var req identity.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	req.ClientIP = c.ClientIP()

	resp, err := h.auth.Login(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// Refresh exchanges a refresh token for a new token pair
func (h *AuthHandler) Refresh(c *gin.Context) {
	var req identity.RefreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	resp, err := h.auth.Refresh(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

type logoutRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

// Logout revokes both tokens of the current session
func (h *AuthHandler) Logout(c *gin.Context) {
	var req logoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	accessToken := extractBearer(c)
	if err := h.auth.Logout(c.Request.Context(), accessToken, req.RefreshToken); err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, gin.H{"message": "logged out"})
}

// ChangePassword changes the caller's own password
func (h *AuthHandler) ChangePassword(c *gin.Context) {
	var req identity.ChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	username := middleware.GetAuthUsername(c)
	if err := h.auth.ChangePassword(c.Request.Context(), username, req); err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, gin.H{"message": "password changed"})
}

// Me returns the authenticated user's profile
func (h *AuthHandler) Me(c *gin.Context) {
	userID, ok := middleware.GetAuthUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, dto.NewErrorResponse(dto.ErrorInfo{
			Code:      "UNAUTHORIZED",
			Message:   "authentication required",
			RequestID: middleware.GetRequestID(c),
		}))
		return
	}

	user, err := h.users.GetByID(c.Request.Context(), userID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, user)
}

func extractBearer(c *gin.Context) string {
	header := c.GetHeader("Authorization")
	if len(header) > 7 {
		return header[7:]
	}
	return ""
}
