package marketplace

import "errors"

// SmartStoreConfig holds configuration for the Naver Commerce API used by
// SmartStore sellers. Authentication is OAuth2 client credentials, the
// adapter fetches and refreshes the access token itself.
type SmartStoreConfig struct {
	// ClientID is the commerce API application client ID
	ClientID string
	// ClientSecret is the commerce API application client secret
	ClientSecret string
	// APIBaseURL is the base URL for the commerce API
	APIBaseURL string
	// TimeoutSeconds is the HTTP request timeout
	TimeoutSeconds int
	// Enabled toggles the adapter without removing credentials
	Enabled bool
}

// SmartStoreProductionAPIURL is the production API endpoint
const SmartStoreProductionAPIURL = "https://api.commerce.naver.com"

// Errors for SmartStore configuration
var (
	ErrSmartStoreConfigMissingClientID     = errors.New("smartstore: client ID is required")
	ErrSmartStoreConfigMissingClientSecret = errors.New("smartstore: client secret is required")
)

// NewSmartStoreConfig creates a SmartStore configuration with defaults
func NewSmartStoreConfig(clientID, clientSecret string) *SmartStoreConfig {
	return &SmartStoreConfig{
		ClientID:       clientID,
		ClientSecret:   clientSecret,
		APIBaseURL:     SmartStoreProductionAPIURL,
		TimeoutSeconds: 30,
		Enabled:        true,
	}
}

// Validate validates the SmartStore configuration
func (c *SmartStoreConfig) Validate() error {
	if c.ClientID == "" {
		return ErrSmartStoreConfigMissingClientID
	}
	if c.ClientSecret == "" {
		return ErrSmartStoreConfigMissingClientSecret
	}
	if c.APIBaseURL == "" {
		c.APIBaseURL = SmartStoreProductionAPIURL
	}
	if c.TimeoutSeconds <= 0 {
		c.TimeoutSeconds = 30
	}
	return nil
}
