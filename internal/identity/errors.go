package identity

import "errors"

var (
	// ErrMissingFields indicates a sign-up without email, password or name.
	ErrMissingFields = errors.New("email, password, and name are required")
	// ErrInvalidToken indicates a missing, malformed or expired access token.
	ErrInvalidToken = errors.New("invalid token")
)
