package repository

import "errors"

// Sentinel kinds for store errors.
var (
	ErrNotFound        = errors.New("participant not found")
	ErrDuplicateHandle = errors.New("handle already registered")
	ErrNoSnapshot      = errors.New("no snapshot for week")
)
