package leetcode

import "errors"

// Sentinel kinds for lookup errors.
var (
	// ErrNotFound means the handle does not resolve to a profile with
	// submission stats. Timeouts are reported separately but callers are
	// expected to treat both as "no score this round".
	ErrNotFound = errors.New("leetcode user not found")
	ErrLookup   = errors.New("leetcode lookup failed")
)
