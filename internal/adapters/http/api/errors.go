package api

// User-facing error strings. Clients pattern-match on the first two; do
// not reword them.
const (
	msgDuplicateProfile = "LeetCode profile already exists"
	msgInvalidUsername  = "Invalid LeetCode username"
	msgInvalidSubmit    = "Invalid submission"
	msgInternalError    = "Internal server error"
)
