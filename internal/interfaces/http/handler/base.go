// Package handler implements the HTTP endpoints of the API server.
package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/sunwoo0067/yooni-03-sub011/internal/interfaces/http/dto"
	"github.com/sunwoo0067/yooni-03-sub011/internal/interfaces/http/middleware"
)

// BaseHandler provides the shared response helpers
type BaseHandler struct{}

// Success sends a 200 response
func (h *BaseHandler) Success(c *gin.Context, data any) {
	c.JSON(http.StatusOK, dto.NewSuccessResponse(data))
}

// SuccessWithMeta sends a 200 response with pagination meta
func (h *BaseHandler) SuccessWithMeta(c *gin.Context, data any, total int64, page, pageSize int) {
	c.JSON(http.StatusOK, dto.NewSuccessResponseWithMeta(data, total, page, pageSize))
}

// Created sends a 201 response
func (h *BaseHandler) Created(c *gin.Context, data any) {
	c.JSON(http.StatusCreated, dto.NewSuccessResponse(data))
}

// NoContent sends a 204 response
func (h *BaseHandler) NoContent(c *gin.Context) {
	c.Status(http.StatusNoContent)
}

// BadRequest sends a 400 response for malformed input
func (h *BaseHandler) BadRequest(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, dto.NewErrorResponse(dto.ErrorInfo{
		Code:      dto.ErrCodeBadRequest,
		Message:   message,
		RequestID: middleware.GetRequestID(c),
	}))
}

// HandleError converts an error into the matching HTTP error response
func (h *BaseHandler) HandleError(c *gin.Context, err error) {
	info, status := dto.FromError(err, middleware.GetRequestID(c))
	c.JSON(status, dto.NewErrorResponse(info))
}

// parseIDParam parses the :id path parameter as a UUID
func parseIDParam(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return uuid.Nil, false
	}
	return id, true
}
