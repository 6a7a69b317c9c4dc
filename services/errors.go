package services

import "errors"

// Error kinds surfaced by the services layer. Controllers translate these to
// HTTP status codes with errors.Is.
var (
	ErrInvalidInput = errors.New("invalid input")
	ErrNotFound     = errors.New("not found")
	ErrConflict     = errors.New("conflict")
	ErrPersistence  = errors.New("persistence failure")
)
