package service

import "errors"

var (
	// ErrServerMisconfigured wraps deployment errors such as a missing
	// signing secret. Callers show a generic message and log the cause.
	ErrServerMisconfigured = errors.New("server misconfigured")
	ErrInvalidCredentials  = errors.New("invalid credentials")
	ErrPermissionDenied    = errors.New("permission denied")
	ErrNotFound            = errors.New("not found")
	ErrForbidden           = errors.New("forbidden")
	ErrTokenAlreadyIssued  = errors.New("device already has a token")
	ErrEmailTaken          = errors.New("email already registered")
)
