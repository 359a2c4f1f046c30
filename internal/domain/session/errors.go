package session

import "errors"

var (
	// ErrNameRequired indicates an empty display name.
	ErrNameRequired = errors.New("name is required")
	// ErrInvalidEmail indicates an email that doesn't look like an address.
	ErrInvalidEmail = errors.New("please enter a valid email address")
	// ErrWeakPassword indicates a password that fails the password policy.
	ErrWeakPassword = errors.New("password does not meet requirements")
	// ErrEmailTaken indicates the email already belongs to another actor.
	ErrEmailTaken = errors.New("an account with this email already exists")
	// ErrInvalidCredentials indicates a failed sign-in.
	ErrInvalidCredentials = errors.New("invalid email or password")
	// ErrNotSignedIn indicates an operation that needs a current actor.
	ErrNotSignedIn = errors.New("user not authenticated")
	// ErrActorNotFound indicates the actor doesn't exist.
	ErrActorNotFound = errors.New("user not found")
)
