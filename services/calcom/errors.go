package calcom

import (
	"errors"
	"fmt"
	"strings"
)

// ErrorKind classifies a failed remote call.
type ErrorKind string

const (
	KindAuth            ErrorKind = "authError"
	KindNotFound        ErrorKind = "notFound"
	KindValidation      ErrorKind = "validationError"
	KindNoAvailableSlot ErrorKind = "noAvailableSlot"
	KindRemoteServer    ErrorKind = "remoteServerError"
	KindNetwork         ErrorKind = "networkError"
)

// APIError is the translated form of a Cal.com failure. Code carries the
// remote error identifier (e.g. no_available_users_found_error) and is
// never shown to end users directly.
type APIError struct {
	Kind    ErrorKind
	Status  int
	Code    string
	Message string
}

func (e *APIError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("%s (status %d): %s", e.Kind, e.Status, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// Transient reports whether the error is worth retrying: transport
// failures and remote 5xx. User-intent errors (validation, slot conflicts,
// auth, not-found) are never retried.
func (e *APIError) Transient() bool {
	return e.Kind == KindNetwork || e.Kind == KindRemoteServer
}

// KindOf extracts the ErrorKind from err, or "" when err is not an APIError.
func KindOf(err error) ErrorKind {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Kind
	}
	return ""
}

// IsNoAvailableSlot reports whether err is a slot-conflict rejection.
func IsNoAvailableSlot(err error) bool {
	return KindOf(err) == KindNoAvailableSlot
}

// IsNotFound reports whether err is a remote 404.
func IsNotFound(err error) bool {
	return KindOf(err) == KindNotFound
}

// slotConflict recognizes the remote error wordings that mean "this time
// is not bookable" rather than a malformed request.
func slotConflict(body string) bool {
	lower := strings.ToLower(body)
	return strings.Contains(lower, "no_available_users_found_error") ||
		strings.Contains(lower, "invalid event length") ||
		(strings.Contains(lower, "slot") && strings.Contains(lower, "not available"))
}

// translateStatus maps an HTTP status plus remote error body to an APIError.
func translateStatus(status int, code, message string) *APIError {
	kind := KindValidation
	switch {
	case status == 401 || status == 403:
		kind = KindAuth
	case status == 404:
		kind = KindNotFound
	case status >= 500:
		kind = KindRemoteServer
	case slotConflict(code) || slotConflict(message):
		kind = KindNoAvailableSlot
	}
	return &APIError{Kind: kind, Status: status, Code: code, Message: message}
}
