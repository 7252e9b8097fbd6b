package shared

// Severity classifies how serious a domain error is for alerting purposes
type Severity string

const (
	SeverityLow      Severity = "low"
	SeverityMedium   Severity = "medium"
	SeverityHigh     Severity = "high"
	SeverityCritical Severity = "critical"
)

// RecoveryAction tells callers what they can do about an error
type RecoveryAction string

const (
	RecoveryNone        RecoveryAction = "none"
	RecoveryRetry       RecoveryAction = "retry"
	RecoveryRefreshAuth RecoveryAction = "refresh_auth"
	RecoveryFixInput    RecoveryAction = "fix_input"
	RecoveryContact     RecoveryAction = "contact_support"
)

// DomainError represents a domain-level error with severity and
// recovery metadata used by the HTTP layer and alerting
type DomainError struct {
	Code     string         `json:"code"`
	Message  string         `json:"message"`
	Severity Severity       `json:"severity"`
	Recovery RecoveryAction `json:"recovery"`
}

// Error implements the error interface
func (e *DomainError) Error() string {
	return e.Message
}

// WithMessage returns a copy of the error with a more specific message
func (e *DomainError) WithMessage(message string) *DomainError {
	clone := *e
	clone.Message = message
	return &clone
}

// Is matches domain errors by code, so WithMessage copies still compare
// equal to their sentinel under errors.Is
func (e *DomainError) Is(target error) bool {
	t, ok := target.(*DomainError)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

// NewDomainError creates a new domain error with default metadata
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:     code,
		Message:  message,
		Severity: SeverityLow,
		Recovery: RecoveryNone,
	}
}

// NewDomainErrorWithMeta creates a new domain error with explicit metadata
func NewDomainErrorWithMeta(code, message string, severity Severity, recovery RecoveryAction) *DomainError {
	return &DomainError{
		Code:     code,
		Message:  message,
		Severity: severity,
		Recovery: recovery,
	}
}

// Common domain errors
var (
	ErrNotFound            = NewDomainErrorWithMeta("NOT_FOUND", "Resource not found", SeverityLow, RecoveryFixInput)
	ErrAlreadyExists       = NewDomainErrorWithMeta("ALREADY_EXISTS", "Resource already exists", SeverityLow, RecoveryFixInput)
	ErrInvalidInput        = NewDomainErrorWithMeta("INVALID_INPUT", "Invalid input provided", SeverityLow, RecoveryFixInput)
	ErrConcurrencyConflict = NewDomainErrorWithMeta("CONCURRENCY_CONFLICT", "Resource was modified by another process", SeverityMedium, RecoveryRetry)
	ErrUnauthorized        = NewDomainErrorWithMeta("UNAUTHORIZED", "Not authorized to perform this action", SeverityLow, RecoveryRefreshAuth)
	ErrForbidden           = NewDomainErrorWithMeta("FORBIDDEN", "Access to this resource is forbidden", SeverityMedium, RecoveryContact)
	ErrInvalidState        = NewDomainErrorWithMeta("INVALID_STATE", "Operation not allowed in current state", SeverityLow, RecoveryFixInput)
	ErrSupplierUnavailable = NewDomainErrorWithMeta("SUPPLIER_UNAVAILABLE", "Wholesaler platform temporarily unavailable", SeverityHigh, RecoveryRetry)
	ErrChannelUnavailable  = NewDomainErrorWithMeta("CHANNEL_UNAVAILABLE", "Marketplace temporarily unavailable", SeverityHigh, RecoveryRetry)
	ErrOutOfStock          = NewDomainErrorWithMeta("OUT_OF_STOCK", "Supplier stock exhausted", SeverityMedium, RecoveryNone)
	ErrNegativePrice       = NewDomainErrorWithMeta("NEGATIVE_PRICE", "Price cannot be negative", SeverityLow, RecoveryFixInput)
)
