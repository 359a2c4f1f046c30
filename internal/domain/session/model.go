package session

import "time"

// Actor is an authenticated identity that owns projects
type Actor struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
	LastLogin time.Time `json:"last_login"`
}

// Account is an actor together with its stored credential.
type Account struct {
	Actor
	PasswordHash string `json:"-"`
}

// Session pairs an actor with the bearer token used for remote calls
type Session struct {
	Actor       Actor     `json:"user"`
	AccessToken string    `json:"access_token"`
	ExpiresAt   time.Time `json:"expires_at"`
}

// SignUpRequest defines account creation inputs.
type SignUpRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
}

// ProfileUpdate holds the profile fields a caller wants to change.
// Nil fields are left untouched.
type ProfileUpdate struct {
	Name  *string `json:"name,omitempty"`
	Email *string `json:"email,omitempty"`
}

// Apply copies the non-nil fields onto the actor.
func (u ProfileUpdate) Apply(a *Actor) {
	if u.Name != nil && *u.Name != "" {
		a.Name = *u.Name
	}
	if u.Email != nil && *u.Email != "" {
		a.Email = *u.Email
	}
}
