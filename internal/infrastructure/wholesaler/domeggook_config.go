package wholesaler

import "errors"

// DomeggookConfig holds configuration for the Domeggook open API.
// Domeggook authenticates with a single API key passed as a query
// parameter, there is no request signing.
type DomeggookConfig struct {
	// APIKey is the open API key issued by Domeggook
	APIKey string
	// APIBaseURL is the base URL for the Domeggook API
	APIBaseURL string
	// APIVersion is the open API version string
	APIVersion string
	// TimeoutSeconds is the HTTP request timeout
	TimeoutSeconds int
	// Enabled toggles the adapter without removing credentials
	Enabled bool
}

const (
	// DomeggookProductionAPIURL is the production API endpoint
	DomeggookProductionAPIURL = "https://domeggook.com/ssl/api"
	// DomeggookDefaultAPIVersion is the open API version this adapter targets
	DomeggookDefaultAPIVersion = "4.1"
)

// ErrDomeggookConfigMissingAPIKey is returned when the API key is not set
var ErrDomeggookConfigMissingAPIKey = errors.New("domeggook: API key is required")

// NewDomeggookConfig creates a Domeggook configuration with defaults
func NewDomeggookConfig(apiKey string) *DomeggookConfig {
	return &DomeggookConfig{
		APIKey:         apiKey,
		APIBaseURL:     DomeggookProductionAPIURL,
		APIVersion:     DomeggookDefaultAPIVersion,
		TimeoutSeconds: 30,
		Enabled:        true,
	}
}

// Validate validates the Domeggook configuration
func (c *DomeggookConfig) Validate() error {
	if c.APIKey == "" {
		return ErrDomeggookConfigMissingAPIKey
	}
	if c.APIBaseURL == "" {
		c.APIBaseURL = DomeggookProductionAPIURL
	}
	if c.APIVersion == "" {
		c.APIVersion = DomeggookDefaultAPIVersion
	}
	if c.TimeoutSeconds <= 0 {
		c.TimeoutSeconds = 30
	}
	return nil
}
