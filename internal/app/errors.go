package service

import "errors"

// Sentinel kinds for ingest errors. The HTTP layer maps these to status
// codes; none of them ever leaves a partial mutation behind.
var (
	ErrUnauthorized = errors.New("no principal attached")
	ErrForbidden    = errors.New("forbidden")
	ErrValidation   = errors.New("invalid commentary event")
)
