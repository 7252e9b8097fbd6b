package dto

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/sunwoo0067/yooni-03-sub011/internal/domain/shared"
)

func TestFromError_DomainErrorKeepsMetadata(t *testing.T) {
	info, status := FromError(shared.ErrSupplierUnavailable.WithMessage("ownerclan timed out"), "req-1")

	assert.Equal(t, http.StatusBadGateway, status)
	assert.Equal(t, "SUPPLIER_UNAVAILABLE", info.Code)
	assert.Equal(t, "ownerclan timed out", info.Message)
	assert.Equal(t, "high", info.Severity)
	assert.Equal(t, "retry", info.Recovery)
	assert.Equal(t, "req-1", info.RequestID)
}

func TestFromError_WrappedDomainError(t *testing.T) {
	wrapped := fmt.Errorf("confirm order: %w", shared.ErrInvalidState)
	info, status := FromError(wrapped, "")

	assert.Equal(t, http.StatusUnprocessableEntity, status)
	assert.Equal(t, "INVALID_STATE", info.Code)
}

func TestFromError_UnknownErrorIsOpaque(t *testing.T) {
	info, status := FromError(errors.New("pq: connection refused"), "req-2")

	assert.Equal(t, http.StatusInternalServerError, status)
	assert.Equal(t, ErrCodeInternal, info.Code)
	assert.NotContains(t, info.Message, "pq:")
}

func TestHTTPStatus_UnknownCode(t *testing.T) {
	assert.Equal(t, http.StatusInternalServerError, HTTPStatus("SOMETHING_ELSE"))
	assert.Equal(t, http.StatusNotFound, HTTPStatus("NOT_FOUND"))
}
