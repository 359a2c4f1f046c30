package client

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/rpggio/pmdash/internal/domain/preference"
	"github.com/rpggio/pmdash/internal/domain/project"
	"github.com/rpggio/pmdash/internal/domain/session"
)

// Failure is an adapter error carrying a message fit to show the user.
// Status is the HTTP status for remote failures and the equivalent status for
// demo failures; zero means the request never got a response.
//
// For a non-2xx response Message is the "error" field when the body is a JSON
// object carrying one, not the whole body; other bodies are used verbatim.
type Failure struct {
	Message string
	Status  int
	Err     error
}

func (f *Failure) Error() string {
	return f.Message
}

func (f *Failure) Unwrap() error {
	return f.Err
}

// failure turns a domain error into a Failure with a user-facing message.
func failure(err error) error {
	if err == nil {
		return nil
	}
	var f *Failure
	if errors.As(err, &f) {
		return err
	}
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, session.ErrInvalidCredentials):
		status = http.StatusBadRequest
	case errors.Is(err, session.ErrNotSignedIn):
		status = http.StatusUnauthorized
	case errors.Is(err, project.ErrProjectNotFound), errors.Is(err, session.ErrActorNotFound):
		status = http.StatusNotFound
	case errors.Is(err, session.ErrEmailTaken):
		status = http.StatusConflict
	case errors.Is(err, project.ErrInvalidInput), errors.Is(err, preference.ErrInvalidInput),
		errors.Is(err, session.ErrInvalidEmail), errors.Is(err, session.ErrWeakPassword),
		errors.Is(err, session.ErrNameRequired):
		status = http.StatusBadRequest
	}
	return &Failure{Message: sentence(err.Error()), Status: status, Err: err}
}

// sentence capitalizes the first letter of msg.
func sentence(msg string) string {
	r, size := utf8.DecodeRuneInString(msg)
	if r == utf8.RuneError {
		return msg
	}
	return string(unicode.ToUpper(r)) + msg[size:]
}

// errorText extracts the message from an API error body: the "error" field of
// a JSON object, or the raw text.
func errorText(body string) string {
	body = strings.TrimSpace(body)
	if body == "" {
		return ""
	}
	var payload struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal([]byte(body), &payload); err == nil && payload.Error != "" {
		return payload.Error
	}
	return body
}
