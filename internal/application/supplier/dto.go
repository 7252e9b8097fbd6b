package supplier

import (
	"time"

	"github.com/google/uuid"

	"github.com/sunwoo0067/yooni-03-sub011/internal/domain/supplier"
)

// ============================================================================
// Request DTOs
// ============================================================================

// RegisterAccountRequest represents a request to register a wholesaler account
type RegisterAccountRequest struct {
	SourceCode string `json:"source_code" binding:"required,oneof=OWNERCLAN DOMEGGOOK"`
	Label      string `json:"label" binding:"required,max=100"`
	APIKey     string `json:"api_key" binding:"required,max=300"`
	APISecret  string `json:"api_secret" binding:"omitempty,max=300"`
}

// UpdateCredentialsRequest represents a request to replace API credentials
type UpdateCredentialsRequest struct {
	APIKey    string `json:"api_key" binding:"required,max=300"`
	APISecret string `json:"api_secret" binding:"omitempty,max=300"`
}

// ============================================================================
// Response DTOs
// ============================================================================

// AccountResponse represents a wholesaler account in API responses.
// Credentials are masked so they never leave the server.
type AccountResponse struct {
	ID                 uuid.UUID  `json:"id"`
	SourceCode         string     `json:"source_code"`
	Label              string     `json:"label"`
	APIKeyMasked       string     `json:"api_key_masked"`
	Status             string     `json:"status"`
	LastCollectedAt    *time.Time `json:"last_collected_at,omitempty"`
	LastCollectedCount int        `json:"last_collected_count"`
	LastCollectError   string     `json:"last_collect_error,omitempty"`
	CreatedAt          time.Time  `json:"created_at"`
	UpdatedAt          time.Time  `json:"updated_at"`
}

// ============================================================================
// Conversion Functions
// ============================================================================

// ToAccountResponse converts a domain Account to AccountResponse
func ToAccountResponse(a *supplier.Account) AccountResponse {
	return AccountResponse{
		ID:                 a.ID,
		SourceCode:         a.SourceCode.String(),
		Label:              a.Label,
		APIKeyMasked:       maskKey(a.APIKey),
		Status:             string(a.Status),
		LastCollectedAt:    a.LastCollectedAt,
		LastCollectedCount: a.LastCollectedCount,
		LastCollectError:   a.LastCollectError,
		CreatedAt:          a.CreatedAt,
		UpdatedAt:          a.UpdatedAt,
	}
}

// ToAccountResponses converts domain Accounts to responses
func ToAccountResponses(accounts []supplier.Account) []AccountResponse {
	responses := make([]AccountResponse, len(accounts))
	for i := range accounts {
		responses[i] = ToAccountResponse(&accounts[i])
	}
	return responses
}

// maskKey keeps the first four characters of a credential visible
func maskKey(key string) string {
	if len(key) <= 4 {
		return "****"
	}
	return key[:4] + "****"
}
