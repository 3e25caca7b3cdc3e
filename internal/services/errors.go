package services

import "errors"

// Dashboard service errors
var (
	ErrNoDataset          = errors.New("no dataset loaded")
	ErrUnknownChart       = errors.New("unknown chart")
	ErrUnsupportedFormat  = errors.New("unsupported export format")
	ErrInvalidFilter      = errors.New("invalid filter")
	ErrServiceUnavailable = errors.New("service temporarily unavailable")
)
