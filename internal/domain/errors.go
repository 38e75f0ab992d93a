package domain

import "errors"

var (
	ErrNotFound         = errors.New("resource not found")
	ErrTenantRequired   = errors.New("tenant identifier is required")
	ErrNoFiles          = errors.New("no files provided")
	ErrUnsupportedFile  = errors.New("unsupported file type; only .xlsx is accepted")
	ErrStoreUnavailable = errors.New("transaction store unavailable")
)
