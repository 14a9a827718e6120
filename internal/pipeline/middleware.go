package pipeline

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"

	"github.com/desertthunder/mcat/internal/session"
	"github.com/desertthunder/mcat/internal/shared"
	"golang.org/x/oauth2"
)

// RequestMiddleware transforms an outbound request. Returning an error aborts the call before it is sent.
type RequestMiddleware func(*http.Request) (*http.Request, error)

// ResponseMiddleware inspects an inbound response. Returning an error stops the chain and becomes the result.
type ResponseMiddleware func(*http.Response) error

// Credentials is the credential source consulted on every request.
type Credentials interface {
	Token(actor session.ActorKind) string
	Invalidate(actor session.ActorKind)
}

// Signal is raised for the UI when a response needs user attention.
type Signal int

const (
	SignalLoginRequired    Signal = iota // the actor's credential was dropped after a 401
	SignalPermissionDenied               // the actor may not perform the request
)

func (s Signal) String() string {
	switch s {
	case SignalLoginRequired:
		return "login_required"
	case SignalPermissionDenied:
		return "permission_denied"
	default:
		return ""
	}
}

// Notifier receives signals. It must not block.
type Notifier interface {
	Notify(sig Signal, actor session.ActorKind)
}

// NotifierFunc adapts a function to [Notifier].
type NotifierFunc func(Signal, session.ActorKind)

func (f NotifierFunc) Notify(sig Signal, actor session.ActorKind) { f(sig, actor) }

// RequestID sets a fresh X-Request-ID header unless the caller already set one.
func RequestID() RequestMiddleware {
	return func(req *http.Request) (*http.Request, error) {
		if req.Header.Get("X-Request-ID") == "" {
			req.Header.Set("X-Request-ID", shared.GenerateID())
		}
		return req, nil
	}
}

// UserAgent sets the User-Agent header.
func UserAgent(ua string) RequestMiddleware {
	return func(req *http.Request) (*http.Request, error) {
		if ua != "" {
			req.Header.Set("User-Agent", ua)
		}
		return req, nil
	}
}

// JSON marks the request as accepting, and when it has a body sending, JSON.
func JSON() RequestMiddleware {
	return func(req *http.Request) (*http.Request, error) {
		req.Header.Set("Accept", "application/json")
		if req.Body != nil && req.Body != http.NoBody {
			req.Header.Set("Content-Type", "application/json")
		}
		return req, nil
	}
}

// Bearer attaches the credential of the actor owning the request path. Anonymous requests go out unchanged.
func Bearer(creds Credentials) RequestMiddleware {
	return func(req *http.Request) (*http.Request, error) {
		token := creds.Token(session.ActorForPath(req.URL.Path))
		if token == "" {
			return req, nil
		}
		(&oauth2.Token{AccessToken: token, TokenType: "Bearer"}).SetAuthHeader(req)
		return req, nil
	}
}

// Classify turns non-2xx responses into an [*Error].
//
// A 401 invalidates the path owner's credential and then raises [SignalLoginRequired], both before the error is
// returned. A 401 from a sign-in endpoint is a wrong password, not an expired session: it becomes [KindAuthFailed]
// and touches neither the store nor the notifier. A 403 raises [SignalPermissionDenied] and leaves the credential
// alone.
func Classify(creds Credentials, notifier Notifier) ResponseMiddleware {
	return func(resp *http.Response) error {
		if resp.StatusCode >= 200 && resp.StatusCode < 300 {
			return nil
		}

		actor := session.ActorForPath(resp.Request.URL.Path)
		e := &Error{
			Kind:    kindForStatus(resp.StatusCode),
			Status:  resp.StatusCode,
			Method:  resp.Request.Method,
			Path:    apiPath(resp.Request.URL.Path),
			Message: failureMessage(resp),
		}
		if e.Kind == KindAuthExpired && isLoginPath(e.Path) {
			e.Kind = KindAuthFailed
		}

		switch e.Kind {
		case KindAuthExpired:
			creds.Invalidate(actor)
			if notifier != nil {
				notifier.Notify(SignalLoginRequired, actor)
			}
		case KindForbidden:
			if notifier != nil {
				notifier.Notify(SignalPermissionDenied, actor)
			}
		}
		return e
	}
}

// isLoginPath reports whether path is one of the sign-in endpoints.
func isLoginPath(path string) bool {
	return path == "/auth/login" || path == "/manager/auth/login"
}

const maxFailureBody = 64 << 10

// failureMessage reads the {success:false, message} envelope. The body is restored for later middleware.
func failureMessage(resp *http.Response) string {
	if resp.Body == nil {
		return ""
	}
	body, err := io.ReadAll(io.LimitReader(resp.Body, maxFailureBody))
	resp.Body.Close()
	resp.Body = io.NopCloser(bytes.NewReader(body))
	if err != nil {
		return ""
	}

	var envelope struct {
		Message string `json:"message"`
	}
	if json.Unmarshal(body, &envelope) != nil {
		return ""
	}
	return envelope.Message
}
