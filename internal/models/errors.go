package models

import "errors"

var (
	ErrNotFound              = errors.New("not found")
	ErrConflict              = errors.New("conflict")
	ErrForbidden             = errors.New("forbidden")
	ErrValidation            = errors.New("validation failed")
	ErrInvalidCredentials    = errors.New("invalid credentials")
	ErrOrganizationSuspended = errors.New("organization suspended")
	ErrLicenseLimit          = errors.New("license limit reached")
	ErrLicenseExpired        = errors.New("license expired")
	ErrFeatureNotLicensed    = errors.New("feature not licensed")
	ErrInvalidTransition     = errors.New("invalid status transition")
	ErrInvalidState          = errors.New("invalid state")
	ErrMissingVariables      = errors.New("unresolved template variables")
)
