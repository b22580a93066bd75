package app

import "errors"

// Sentinel kinds for registration outcomes. The HTTP layer maps these to
// the user-facing error strings clients pattern-match on.
var (
	ErrDuplicateHandle = errors.New("leetcode handle already registered")
	ErrUnknownHandle   = errors.New("leetcode handle cannot be resolved")
	ErrInvalidInput    = errors.New("invalid registration input")
)
