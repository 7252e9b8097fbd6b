package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/sunwoo0067/yooni-03-sub011/internal/infrastructure/auth"
	"github.com/sunwoo0067/yooni-03-sub011/internal/interfaces/http/dto"
)

// Context keys set by the Auth middleware
const (
	AuthUserIDKey   = "auth_user_id"
	AuthUsernameKey = "auth_username"
	AuthRoleKey     = "auth_role"
)

// AccessValidator validates an access token and returns its claims.
// Implemented by the identity AuthService so revoked tokens are rejected.
type AccessValidator interface {
	ValidateAccess(ctx context.Context, token string) (*auth.Claims, error)
}

// Auth returns a middleware that authenticates requests with a Bearer
// access token
func Auth(validator AccessValidator) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := extractBearerToken(c)
		if token == "" {
			abortUnauthorized(c, "UNAUTHORIZED", "Authorization header with Bearer token is required")
			return
		}

		claims, err := validator.ValidateAccess(c.Request.Context(), token)
		if err != nil {
			switch {
			case errors.Is(err, auth.ErrExpiredToken):
				abortUnauthorized(c, "TOKEN_EXPIRED", "Access token has expired")
			case errors.Is(err, auth.ErrTokenBlacklisted):
				abortUnauthorized(c, "TOKEN_REVOKED", "Access token has been revoked")
			default:
				abortUnauthorized(c, "UNAUTHORIZED", "Invalid access token")
			}
			return
		}

		c.Set(AuthUserIDKey, claims.UserID)
		c.Set(AuthUsernameKey, claims.Username)
		c.Set(AuthRoleKey, claims.Role)
		c.Next()
	}
}

// RequireRole returns a middleware that allows only the given roles.
// Must run after Auth.
func RequireRole(roles ...string) gin.HandlerFunc {
	allowed := make(map[string]struct{}, len(roles))
	for _, role := range roles {
		allowed[role] = struct{}{}
	}

	return func(c *gin.Context) {
		role := c.GetString(AuthRoleKey)
		if _, ok := allowed[role]; !ok {
			c.AbortWithStatusJSON(http.StatusForbidden, dto.NewErrorResponse(dto.ErrorInfo{
				Code:      "FORBIDDEN",
				Message:   "This action requires a higher privilege level",
				RequestID: GetRequestID(c),
			}))
			return
		}
		c.Next()
	}
}

// GetAuthUserID returns the user ID of the authenticated user
func GetAuthUserID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.GetString(AuthUserIDKey))
	if err != nil {
		return uuid.Nil, false
	}
	return id, true
}

// GetAuthUsername returns the username of the authenticated user
func GetAuthUsername(c *gin.Context) string {
	return c.GetString(AuthUsernameKey)
}

// GetAuthRole returns the role of the authenticated user
func GetAuthRole(c *gin.Context) string {
	return c.GetString(AuthRoleKey)
}

func extractBearerToken(c *gin.Context) string {
	header := c.GetHeader("Authorization")
	if header == "" {
		return ""
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}

func abortUnauthorized(c *gin.Context, code, message string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, dto.NewErrorResponse(dto.ErrorInfo{
		Code:      code,
		Message:   message,
		RequestID: GetRequestID(c),
	}))
}
