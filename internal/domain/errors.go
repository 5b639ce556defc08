package domain

import "errors"

// Storage-level conditions that the service layer translates into its own errors.
var (
	ErrNotFound  = errors.New("record not found")
	ErrDuplicate = errors.New("record already exists")
)
