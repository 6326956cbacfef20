package services

import "errors"

// Verifier failures. All of these collapse to one generic rejection at the
// transport boundary so callers can't probe which check failed.
var (
	ErrMissingToken   = errors.New("access token is required")
	ErrMalformedToken = errors.New("malformed session token")
	ErrInvalidClaim   = errors.New("invalid token claim")
)

// Magic bridge failures.
var (
	ErrMissingAssertion = errors.New("magic DID token is required")
	ErrNotConfigured    = errors.New("magic secret key is not set")
	ErrInvalidAssertion = errors.New("invalid or expired magic token")
	ErrIdentityLookup   = errors.New("failed to fetch magic user metadata")
	ErrInvalidMagicUser = errors.New("magic user has no email")
)
