package service

import "errors"

// Sentinel kinds returned by the service.
var (
	ErrNotStarted   = errors.New("service not started")
	ErrDemoDisabled = errors.New("demo mode disabled")
	ErrInvalidPhone = errors.New("phoneLast4 must be exactly 4 digits")
)
