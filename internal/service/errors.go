package service

import "errors"

// Common service errors
var (
	// ErrNotFound is returned when a record does not exist
	ErrNotFound = errors.New("resource not found")

	// ErrInvalidInput is returned when input fails checks beyond struct validation
	ErrInvalidInput = errors.New("invalid input")

	// ErrArchiveDisabled is returned when archived uploads are requested but no storage is configured
	ErrArchiveDisabled = errors.New("image archive is not enabled")

	// ErrUnknownList is returned for an unknown visitor/enrollment list name
	ErrUnknownList = errors.New("unknown list")
)
