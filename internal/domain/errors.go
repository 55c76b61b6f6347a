package domain

import "errors"

// Sentinel errors for domain-level error discrimination.
// Services wrap these so handlers can map to HTTP status codes without leaking infrastructure details.
var (
	ErrNotFound     = errors.New("not found")
	ErrNoData       = errors.New("no data available")
	ErrConflict     = errors.New("conflict")
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")
	ErrBadRequest   = errors.New("bad request")

	// ErrInvalidWeight is returned when a similarity weight is negative.
	ErrInvalidWeight = errors.New("invalid weight")

	// ErrInvalidCredential covers a wrong, expired or never-issued one-time code.
	// Callers never learn which of those it was.
	ErrInvalidCredential = errors.New("invalid or expired code")
)
