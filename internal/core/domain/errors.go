package domain

import (
	"errors"
	"fmt"
	"net/http"
)

var ErrInvalidTransition = errors.New("invalid status transition")
var ErrServiceNotFound = errors.New("service request not found")
var ErrForbidden = errors.New("access forbidden")
var ErrNoTechnicianAvailable = errors.New("no technician available")
var ErrRequestInFlight = errors.New("a request with this idempotency key is still being created")

var ErrInvalidCredentials = errors.New("invalid credentials")
var ErrUserNotFound = errors.New("user not found")
var ErrUserExists = errors.New("user already exists")

// Client-side session errors.
var (
	ErrNoActiveSession   = errors.New("no active session")
	ErrIncompleteProfile = errors.New("profile is missing id, email or name")
	ErrMissingUserID     = errors.New("user id not found")
)

// TransportError reports a remote call that never produced an HTTP answer
// (no connectivity, timeout, cancelled) or produced one that could not be
// decoded.
type TransportError struct {
	Op  string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// RemoteRejection reports a non-2xx answer from the backend.
type RemoteRejection struct {
	Op      string
	Status  int
	Message string
}

func (e *RemoteRejection) Error() string {
	return fmt.Sprintf("%s: status %d: %s", e.Op, e.Status, e.Message)
}

// Unauthorized reports whether the backend rejected the credentials or token.
func (e *RemoteRejection) Unauthorized() bool {
	return e.Status == http.StatusUnauthorized || e.Status == http.StatusForbidden
}

// StorageError reports a failure of the local preference medium.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage %s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error { return e.Err }

// UserMessage renders an error the way it is shown to the user: server
// messages verbatim, transport failures as connection errors.
func UserMessage(err error) string {
	if err == nil {
		return ""
	}
	var rej *RemoteRejection
	if errors.As(err, &rej) {
		if rej.Message != "" {
			return rej.Message
		}
		return fmt.Sprintf("request failed with status %d", rej.Status)
	}
	var te *TransportError
	if errors.As(err, &te) {
		return "connection error: " + te.Err.Error()
	}
	var se *StorageError
	if errors.As(err, &se) {
		return "local storage error: " + se.Err.Error()
	}
	return err.Error()
}
