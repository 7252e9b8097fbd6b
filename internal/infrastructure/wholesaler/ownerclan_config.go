package wholesaler

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"strings"
)

// OwnerClanConfig holds configuration for the OwnerClan open API
type OwnerClanConfig struct {
	// APIKey is the seller API key issued by OwnerClan
	APIKey string
	// APISecret is the secret paired with the API key, used for signing
	APISecret string
	// APIBaseURL is the base URL for the OwnerClan API
	APIBaseURL string
	// TimeoutSeconds is the HTTP request timeout
	TimeoutSeconds int
	// Enabled toggles the adapter without removing credentials
	Enabled bool
}

// OwnerClanProductionAPIURL is the production API endpoint
const OwnerClanProductionAPIURL = "https://api.ownerclan.com"

// Errors for OwnerClan configuration
var (
	ErrOwnerClanConfigMissingAPIKey    = errors.New("ownerclan: API key is required")
	ErrOwnerClanConfigMissingAPISecret = errors.New("ownerclan: API secret is required")
)

// NewOwnerClanConfig creates an OwnerClan configuration with defaults
func NewOwnerClanConfig(apiKey, apiSecret string) *OwnerClanConfig {
	return &OwnerClanConfig{
		APIKey:         apiKey,
		APISecret:      apiSecret,
		APIBaseURL:     OwnerClanProductionAPIURL,
		TimeoutSeconds: 30,
		Enabled:        true,
	}
}

// Validate validates the OwnerClan configuration
func (c *OwnerClanConfig) Validate() error {
	if c.APIKey == "" {
		return ErrOwnerClanConfigMissingAPIKey
	}
	if c.APISecret == "" {
		return ErrOwnerClanConfigMissingAPISecret
	}
	if c.APIBaseURL == "" {
		c.APIBaseURL = OwnerClanProductionAPIURL
	}
	if c.TimeoutSeconds <= 0 {
		c.TimeoutSeconds = 30
	}
	return nil
}

// Sign generates the request signature for an OwnerClan API call.
// The sign string is: api_secret + path + body + timestamp + api_secret,
// hashed with HMAC-SHA256 keyed by the API secret.
func (c *OwnerClanConfig) Sign(path string, body string, timestamp string) string {
	var builder strings.Builder
	builder.WriteString(c.APISecret)
	builder.WriteString(path)
	builder.WriteString(body)
	builder.WriteString(timestamp)
	builder.WriteString(c.APISecret)

	h := hmac.New(sha256.New, []byte(c.APISecret))
	h.Write([]byte(builder.String()))
	return hex.EncodeToString(h.Sum(nil))
}
