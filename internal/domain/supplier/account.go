package supplier

import (
	"time"

	"github.com/sunwoo0067/yooni-03-sub011/internal/domain/integration"
	"github.com/sunwoo0067/yooni-03-sub011/internal/domain/shared"
)

// AccountStatus represents the status of a wholesaler account
type AccountStatus string

const (
	AccountStatusActive   AccountStatus = "active"
	AccountStatusDisabled AccountStatus = "disabled"
	// AccountStatusAuthFailed means the last API call was rejected and the
	// credentials need operator attention
	AccountStatusAuthFailed AccountStatus = "auth_failed"
)

// Account is the aggregate root for a wholesaler platform account.
// It carries the API credentials used by the collection pipeline and the
// bookkeeping of the last collection run.
type Account struct {
	shared.BaseAggregateRoot
	SourceCode integration.SourceCode `gorm:"type:varchar(20);not null;uniqueIndex"`
	Label      string                 `gorm:"type:varchar(100);not null"`
	APIKey     string                 `gorm:"type:varchar(300);not null"`
	APISecret  string                 `gorm:"type:varchar(300)"`
	// AccessToken is the short-lived token issued by the wholesaler (if any)
	AccessToken    string `gorm:"type:varchar(1000)"`
	TokenExpiresAt *time.Time
	Status         AccountStatus `gorm:"type:varchar(20);not null;default:'active'"`

	// Last collection run bookkeeping
	LastCollectedAt    *time.Time
	LastCollectedCount int    `gorm:"not null;default:0"`
	LastCollectError   string `gorm:"type:text"`
}

// TableName returns the table name for GORM
func (Account) TableName() string {
	return "supplier_accounts"
}

// NewAccount creates a wholesaler account
func NewAccount(source integration.SourceCode, label, apiKey, apiSecret string) (*Account, error) {
	if !source.IsValid() {
		return nil, shared.ErrInvalidInput.WithMessage("invalid wholesaler source code")
	}
	if label == "" {
		return nil, shared.ErrInvalidInput.WithMessage("account label is required")
	}
	if apiKey == "" {
		return nil, shared.ErrInvalidInput.WithMessage("API key is required")
	}

	return &Account{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		SourceCode:        source,
		Label:             label,
		APIKey:            apiKey,
		APISecret:         apiSecret,
		Status:            AccountStatusActive,
	}, nil
}

// UpdateCredentials replaces the API credentials and clears an auth failure
func (a *Account) UpdateCredentials(apiKey, apiSecret string) error {
	if apiKey == "" {
		return shared.ErrInvalidInput.WithMessage("API key is required")
	}

	a.APIKey = apiKey
	a.APISecret = apiSecret
	a.AccessToken = ""
	a.TokenExpiresAt = nil
	if a.Status == AccountStatusAuthFailed {
		a.Status = AccountStatusActive
	}
	a.UpdatedAt = time.Now()
	a.IncrementVersion()

	return nil
}

// StoreToken saves a newly issued access token
func (a *Account) StoreToken(token string, expiresAt time.Time) {
	a.AccessToken = token
	a.TokenExpiresAt = &expiresAt
	a.UpdatedAt = time.Now()
	a.IncrementVersion()
}

// TokenValid returns true if the stored token can still be used
func (a *Account) TokenValid() bool {
	if a.AccessToken == "" || a.TokenExpiresAt == nil {
		return false
	}
	// Refresh a minute early to avoid racing the expiry
	return time.Now().Add(time.Minute).Before(*a.TokenExpiresAt)
}

// RecordCollection records the outcome of a collection run
func (a *Account) RecordCollection(count int, runErr error) {
	now := time.Now()
	a.LastCollectedAt = &now
	a.LastCollectedCount = count
	if runErr != nil {
		a.LastCollectError = runErr.Error()
	} else {
		a.LastCollectError = ""
	}
	a.UpdatedAt = now
	a.IncrementVersion()
}

// MarkAuthFailed flags the account after an authentication failure
func (a *Account) MarkAuthFailed() {
	a.Status = AccountStatusAuthFailed
	a.AccessToken = ""
	a.TokenExpiresAt = nil
	a.UpdatedAt = time.Now()
	a.IncrementVersion()
}

// Enable re-enables a disabled account
func (a *Account) Enable() error {
	if a.Status == AccountStatusActive {
		return shared.ErrInvalidState.WithMessage("account is already active")
	}

	a.Status = AccountStatusActive
	a.UpdatedAt = time.Now()
	a.IncrementVersion()

	return nil
}

// Disable excludes the account from collection runs
func (a *Account) Disable() error {
	if a.Status == AccountStatusDisabled {
		return shared.ErrInvalidState.WithMessage("account is already disabled")
	}

	a.Status = AccountStatusDisabled
	a.UpdatedAt = time.Now()
	a.IncrementVersion()

	return nil
}

// IsCollectable returns true if the account should be included in runs
func (a *Account) IsCollectable() bool {
	return a.Status == AccountStatusActive
}
