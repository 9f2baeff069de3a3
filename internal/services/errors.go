package services

import "errors"

// Standard service errors
var (
	// Network and connectivity errors
	ErrNetworkUnavailable = errors.New("network unavailable")
	ErrServiceUnavailable = errors.New("service unavailable")
	ErrRateLimited        = errors.New("rate limited")

	// Session errors
	ErrNotConnected = errors.New("not connected")
	ErrUnauthorized = errors.New("unauthorized access")

	// Data errors
	ErrValidation    = errors.New("invalid input")
	ErrEmailNotFound = errors.New("email not found")
)

// IsRetryableError determines if the user can expect a retry to succeed
func IsRetryableError(err error) bool {
	return errors.Is(err, ErrNetworkUnavailable) ||
		errors.Is(err, ErrServiceUnavailable) ||
		errors.Is(err, ErrRateLimited)
}

// IsPermanentError determines if an error is permanent
func IsPermanentError(err error) bool {
	return errors.Is(err, ErrUnauthorized) ||
		errors.Is(err, ErrNotConnected) ||
		errors.Is(err, ErrValidation) ||
		errors.Is(err, ErrEmailNotFound)
}
