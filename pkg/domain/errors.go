package domain

import "errors"

// error kinds shared across packages, match with errors.Is
var (
	ErrInputMissing      = errors.New("input missing")
	ErrUnsupportedFormat = errors.New("unsupported format")
	ErrModelFailure      = errors.New("model failure")
	ErrDeliveryFailure   = errors.New("delivery failure")
	ErrNotConfigured     = errors.New("not configured")
	ErrNotFound          = errors.New("not found")
)
