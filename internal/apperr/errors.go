package apperr

import "errors"

var (
	ErrNotFound        = errors.New("not found")
	ErrIOFailure       = errors.New("io failure")
	ErrInvalidDocument = errors.New("invalid document")
)
