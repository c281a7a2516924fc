package domain

import "errors"

var (
	ErrNotFound        = errors.New("not found")
	ErrValidation      = errors.New("validation failed")
	ErrDuplicateEmail  = errors.New("duplicate email")
	ErrProviderFailure = errors.New("provider failure")
	ErrMisconfigured   = errors.New("misconfigured environment")
)
