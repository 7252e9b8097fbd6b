package marketplace

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"time"
)

// CoupangConfig holds configuration for the Coupang WING open API
type CoupangConfig struct {
	// AccessKey is the open API access key
	AccessKey string
	// SecretKey is the secret paired with the access key, used for signing
	SecretKey string
	// VendorID is the seller's vendor ID on Coupang
	VendorID string
	// APIBaseURL is the base URL for the Coupang API
	APIBaseURL string
	// TimeoutSeconds is the HTTP request timeout
	TimeoutSeconds int
	// Enabled toggles the adapter without removing credentials
	Enabled bool
}

// CoupangProductionAPIURL is the production API endpoint
const CoupangProductionAPIURL = "https://api-gateway.coupang.com"

// signedDateLayout is the timestamp format Coupang expects in signatures
const signedDateLayout = "060102T150405Z"

// Errors for Coupang configuration
var (
	ErrCoupangConfigMissingAccessKey = errors.New("coupang: access key is required")
	ErrCoupangConfigMissingSecretKey = errors.New("coupang: secret key is required")
	ErrCoupangConfigMissingVendorID  = errors.New("coupang: vendor ID is required")
)

// NewCoupangConfig creates a Coupang configuration with defaults
func NewCoupangConfig(accessKey, secretKey, vendorID string) *CoupangConfig {
	return &CoupangConfig{
		AccessKey:      accessKey,
		SecretKey:      secretKey,
		VendorID:       vendorID,
		APIBaseURL:     CoupangProductionAPIURL,
		TimeoutSeconds: 30,
		Enabled:        true,
	}
}

// Validate validates the Coupang configuration
func (c *CoupangConfig) Validate() error {
	if c.AccessKey == "" {
		return ErrCoupangConfigMissingAccessKey
	}
	if c.SecretKey == "" {
		return ErrCoupangConfigMissingSecretKey
	}
	if c.VendorID == "" {
		return ErrCoupangConfigMissingVendorID
	}
	if c.APIBaseURL == "" {
		c.APIBaseURL = CoupangProductionAPIURL
	}
	if c.TimeoutSeconds <= 0 {
		c.TimeoutSeconds = 30
	}
	return nil
}

// Sign builds the CEA authorization header for a Coupang API call.
// The signed message is: signed_date + method + path + query, hashed
// with HMAC-SHA256 keyed by the secret key.
func (c *CoupangConfig) Sign(method, path, query string, signedAt time.Time) string {
	signedDate := signedAt.UTC().Format(signedDateLayout)

	h := hmac.New(sha256.New, []byte(c.SecretKey))
	h.Write([]byte(signedDate + method + path + query))
	signature := hex.EncodeToString(h.Sum(nil))

	return fmt.Sprintf(
		"CEA algorithm=HmacSHA256, access-key=%s, signed-date=%s, signature=%s",
		c.AccessKey, signedDate, signature,
	)
}
