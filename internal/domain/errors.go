package domain

import "errors"

var (
	ErrNotFound            = errors.New("not found")
	ErrUnauthorized        = errors.New("unauthorized")
	ErrValidation          = errors.New("validation failed")
	ErrIncompleteSelection = errors.New("incomplete selection")
	ErrMissingCredential   = errors.New("missing provider credential")
	ErrProviderFailure     = errors.New("provider failure")
	ErrInvalidTransition   = errors.New("invalid status transition")
)
