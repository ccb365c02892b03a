package internalerr

import "errors"

// Sentinel errors for common cases
var (
	ErrInvalidConfig  = errors.New("invalid configuration")
	ErrServiceFailure = errors.New("annotation service failure")
	ErrInvalidInput   = errors.New("invalid input document")
	ErrNotFound       = errors.New("not found")
)
