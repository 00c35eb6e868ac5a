package alerts_errors

import "errors"

// Common errors
var (
	ErrInvalidInput       = errors.New("invalid input")
	ErrUnknownEventType   = errors.New("unknown event type")
	ErrPublishFailed      = errors.New("publish failed")
	ErrRateLimited        = errors.New("rate limited")
	ErrServiceUnavailable = errors.New("service unavailable")
	ErrUnsupportedDriver  = errors.New("unsupported sink driver")
)
