package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/sunwoo0067/yooni-03-sub011/internal/interfaces/http/dto"
)

// BodyLimit returns a middleware that limits request body size
func BodyLimit(maxBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.ContentLength > maxBytes {
			c.AbortWithStatusJSON(http.StatusRequestEntityTooLarge, dto.NewErrorResponse(dto.ErrorInfo{
				Code:      "REQUEST_TOO_LARGE",
				Message:   "Request body exceeds maximum allowed size",
				RequestID: GetRequestID(c),
			}))
			return
		}

		// Cap streaming bodies without a Content-Length header too
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		c.Next()
	}
}
