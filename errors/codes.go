package errors

// ErrorCode represents a machine-readable error code.
type ErrorCode string

// Provider lifecycle errors
const (
	// ErrCodeNoProvidersAvailable indicates no candidate passed the applicability filter.
	ErrCodeNoProvidersAvailable ErrorCode = "NO_PROVIDERS_AVAILABLE"
	// ErrCodeAlreadyStarted indicates a coordinator was started more than once.
	ErrCodeAlreadyStarted ErrorCode = "ALREADY_STARTED"
	// ErrCodeProviderNeverReady indicates providers did not report ready before the deadline.
	ErrCodeProviderNeverReady ErrorCode = "PROVIDER_NEVER_READY"
	// ErrCodeProviderInitFailed indicates a provider's initialization returned an error or panicked.
	ErrCodeProviderInitFailed ErrorCode = "PROVIDER_INIT_FAILED"
	// ErrCodeNotReady indicates an operation needs a ready coordinator.
	ErrCodeNotReady ErrorCode = "NOT_READY"
)

// Resource and input errors
const (
	// ErrCodeNotFound indicates the requested resource was not found.
	ErrCodeNotFound ErrorCode = "NOT_FOUND"
	// ErrCodeAlreadyExists indicates the resource already exists.
	ErrCodeAlreadyExists ErrorCode = "ALREADY_EXISTS"
	// ErrCodeInvalidInput indicates the input is invalid.
	ErrCodeInvalidInput ErrorCode = "INVALID_INPUT"
)

// Internal errors
const (
	// ErrCodeTimeout indicates an operation ran out of time.
	ErrCodeTimeout ErrorCode = "TIMEOUT"
	// ErrCodeInternal indicates an unexpected internal error.
	ErrCodeInternal ErrorCode = "INTERNAL_ERROR"
	// ErrCodeExternalService indicates an error from a provider backend.
	ErrCodeExternalService ErrorCode = "EXTERNAL_SERVICE_ERROR"
)

var retryableCodes = map[ErrorCode]bool{
	ErrCodeProviderNeverReady: true,
	ErrCodeProviderInitFailed: true,
	ErrCodeNotReady:           true,
	ErrCodeTimeout:            true,
	ErrCodeExternalService:    true,
}

// IsRetryableCode returns true if the error code indicates a retryable error.
func IsRetryableCode(code ErrorCode) bool {
	return retryableCodes[code]
}
