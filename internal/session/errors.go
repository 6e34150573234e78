package session

import (
	"errors"
	"net/http"
)

var (
	// ErrConflict means the email is already registered.
	ErrConflict = errors.New("conflict")
	// ErrAuthentication means the email and password were rejected.
	ErrAuthentication = errors.New("authentication failed")
	// ErrUnauthenticated means the stored token is missing, expired or revoked.
	ErrUnauthenticated = errors.New("not logged in")
)

const fallbackMessage = "Authentication failed. Please try again."

// APIError is a non-success response from the credential service.
type APIError struct {
	Status  int
	Code    string
	Message string
	Details map[string]string
	login   bool
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fallbackMessage
}

func (e *APIError) Unwrap() error {
	switch {
	case e.Status == http.StatusConflict:
		return ErrConflict
	case e.Status == http.StatusUnauthorized && e.login:
		return ErrAuthentication
	case e.Status == http.StatusUnauthorized:
		return ErrUnauthenticated
	}
	return nil
}
