package commerce

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrorKind classifies a failed commerce API interaction so the edge can pick
// the right recovery path. Every error leaving this package carries exactly
// one kind; nothing is surfaced as a raw transport or decoding error.
type ErrorKind string

const (
	// KindValidation marks locally or remotely rejected input. The action is
	// blocked; no retry will help without changing the input.
	KindValidation ErrorKind = "validation"
	// KindAuth marks a 401. The session is invalid; the user is routed to the
	// login collaborator rather than shown a generic failure.
	KindAuth ErrorKind = "auth"
	// KindNotFound marks a missing resource.
	KindNotFound ErrorKind = "not_found"
	// KindNetwork marks transport failures, timeouts and 5xx responses.
	// Recoverable by manual retry only; never retried automatically.
	KindNetwork ErrorKind = "network"
	// KindPayment marks a gateway-reported payment failure. Terminal for the
	// attempt; recovery re-initiates payment, never resubmits the order.
	KindPayment ErrorKind = "payment"
)

// APIError describes a failed commerce API call.
type APIError struct {
	Kind    ErrorKind
	Status  int
	Op      string
	Message string
	Err     error
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("commerce: %s: %s", e.Op, e.Message)
	}
	if e.Err != nil {
		return fmt.Sprintf("commerce: %s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("commerce: %s failed", e.Op)
}

func (e *APIError) Unwrap() error { return e.Err }

// IsAuth reports whether the session must be treated as invalid.
func (e *APIError) IsAuth() bool { return e.Kind == KindAuth }

// IsValidation reports whether the input was rejected.
func (e *APIError) IsValidation() bool { return e.Kind == KindValidation }

// IsNetwork reports whether the failure is retryable by user action.
func (e *APIError) IsNetwork() bool { return e.Kind == KindNetwork }

// IsNotFound reports whether the resource does not exist.
func (e *APIError) IsNotFound() bool { return e.Kind == KindNotFound }

// KindOf extracts the error kind from any error returned by this package,
// defaulting to KindNetwork for unclassified failures.
func KindOf(err error) ErrorKind {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Kind
	}
	return KindNetwork
}

func classifyStatus(status int) ErrorKind {
	switch {
	case status == http.StatusUnauthorized:
		return KindAuth
	case status == http.StatusNotFound:
		return KindNotFound
	case status == http.StatusBadRequest || status == http.StatusUnprocessableEntity:
		return KindValidation
	default:
		return KindNetwork
	}
}
