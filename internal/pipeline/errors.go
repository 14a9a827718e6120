package pipeline

import (
	"fmt"

	"github.com/desertthunder/mcat/internal/shared"
)

// Kind classifies a failed request. Each failure has exactly one kind.
type Kind int

const (
	KindAuthExpired Kind = iota // 401: credential dropped, login required
	KindForbidden               // 403: credential kept
	KindNotFound                // 404
	KindRejected                // any other 4xx; the server message is kept
	KindServer                  // 5xx, network failure or unreadable response
	KindAuthFailed              // 401 from a sign-in endpoint: wrong credentials, nothing dropped
)

func (k Kind) String() string {
	switch k {
	case KindAuthExpired:
		return "auth_expired"
	case KindForbidden:
		return "forbidden"
	case KindNotFound:
		return "not_found"
	case KindRejected:
		return "rejected"
	case KindServer:
		return "server"
	case KindAuthFailed:
		return "auth_failed"
	default:
		return ""
	}
}

func (k Kind) sentinel() error {
	switch k {
	case KindAuthExpired:
		return shared.ErrAuthExpired
	case KindForbidden:
		return shared.ErrForbidden
	case KindNotFound:
		return shared.ErrNotFound
	case KindRejected:
		return shared.ErrAPIRequest
	case KindAuthFailed:
		return shared.ErrAuthFailed
	default:
		return shared.ErrServer
	}
}

// Error is the typed result of a failed request.
//
// It unwraps to the shared sentinel of its kind, so callers match with errors.Is(err, shared.ErrForbidden) and
// similar.
type Error struct {
	Kind    Kind
	Status  int    // HTTP status, 0 for network failures
	Method  string // request method
	Path    string // API path without the /api root
	Message string // server failure message, if any
	Err     error  // underlying transport or decoding error
}

// Error returns the server message verbatim when there is one.
func (e *Error) Error() string {
	if e.Message != "" {
		return e.Message
	}
	if e.Err != nil {
		return fmt.Sprintf("%v: %v", e.Kind.sentinel(), e.Err)
	}
	return fmt.Sprintf("%v (%s %s returned %d)", e.Kind.sentinel(), e.Method, e.Path, e.Status)
}

func (e *Error) Unwrap() []error {
	if e.Err != nil {
		return []error{e.Kind.sentinel(), e.Err}
	}
	return []error{e.Kind.sentinel()}
}

// kindForStatus maps a non-2xx status to its failure kind.
func kindForStatus(status int) Kind {
	switch {
	case status == 401:
		return KindAuthExpired
	case status == 403:
		return KindForbidden
	case status == 404:
		return KindNotFound
	case status >= 400 && status < 500:
		return KindRejected
	default:
		return KindServer
	}
}
