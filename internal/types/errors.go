package types

import "errors"

// Sentinel errors shared across layers. Services wrap these with context via
// fmt.Errorf("...: %w", err); handlers map them to HTTP statuses with errors.Is.
var (
	ErrNotFound          = errors.New("resource not found")
	ErrUnauthenticated   = errors.New("authentication required")
	ErrBadRequest        = errors.New("invalid request")
	ErrRateLimited       = errors.New("ai gateway rate limit exceeded")
	ErrQuotaExhausted    = errors.New("ai gateway credits exhausted")
	ErrEmptyCompletion   = errors.New("ai gateway returned no completion")
	ErrMalformedResponse = errors.New("ai response did not match expected schema")
	ErrProfileIncomplete = errors.New("profile incomplete: height and weight required")
)
