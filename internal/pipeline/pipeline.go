// package pipeline is the single path every catalog API call takes: an ordered chain of request and response
// middleware around one HTTP client.
package pipeline

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/mcat/internal/shared"
	"golang.org/x/time/rate"
)

// APIRoot prefixes every API path.
const APIRoot = "/api"

// DefaultTimeout bounds a request when no timeout is configured.
const DefaultTimeout = 10 * time.Second

// Options configures a [Pipeline].
type Options struct {
	BaseURL   string       // server origin, e.g. http://localhost:8080
	Timeout   time.Duration
	RateLimit float64      // requests per second; <= 0 disables limiting
	Burst     int
	UserAgent string
	Client    *http.Client // overrides the default client; its Timeout is left alone
	Logger    *log.Logger
	Notifier  Notifier
}

// Pipeline sends catalog API requests.
//
// Requests pass through the request middleware in order, then the HTTP client, then the response middleware in
// order. The default chain attaches a request ID, the user agent, JSON headers and the bearer credential, and
// classifies failures with [Classify]. No request is retried.
type Pipeline struct {
	base     *url.URL
	client   *http.Client
	limiter  *rate.Limiter
	request  []RequestMiddleware
	response []ResponseMiddleware
	logger   *log.Logger
}

// New creates a [Pipeline] reading credentials from creds.
func New(creds Credentials, opts Options) (*Pipeline, error) {
	if creds == nil {
		return nil, fmt.Errorf("%w: pipeline needs a credential source", shared.ErrInvalidArgument)
	}

	base, err := url.Parse(strings.TrimRight(opts.BaseURL, "/"))
	if err != nil || base.Scheme == "" || base.Host == "" {
		return nil, fmt.Errorf("%w: base URL %q", shared.ErrInvalidConfig, opts.BaseURL)
	}

	client := opts.Client
	if client == nil {
		timeout := opts.Timeout
		if timeout <= 0 {
			timeout = DefaultTimeout
		}
		client = &http.Client{Timeout: timeout}
	}

	limit := rate.Inf
	if opts.RateLimit > 0 {
		limit = rate.Limit(opts.RateLimit)
	}
	burst := max(opts.Burst, 1)

	logger := opts.Logger
	if logger == nil {
		logger = shared.NewLogger(nil)
	}

	return &Pipeline{
		base:     base,
		client:   client,
		limiter:  rate.NewLimiter(limit, burst),
		request:  []RequestMiddleware{RequestID(), UserAgent(opts.UserAgent), JSON(), Bearer(creds)},
		response: []ResponseMiddleware{Classify(creds, opts.Notifier)},
		logger:   logger,
	}, nil
}

// UseRequest appends request middleware to the chain.
func (p *Pipeline) UseRequest(mw ...RequestMiddleware) {
	p.request = append(p.request, mw...)
}

// UseResponse appends response middleware to the chain. They run after classification, on successes only.
func (p *Pipeline) UseResponse(mw ...ResponseMiddleware) {
	p.response = append(p.response, mw...)
}

// Do sends a request to path under the API root. body, when non-nil, is encoded as JSON; a 2xx response body is
// decoded into result when result is non-nil.
//
// Failures are returned as [*Error].
func (p *Pipeline) Do(ctx context.Context, method, path string, body, result any) error {
	if err := p.limiter.Wait(ctx); err != nil {
		return &Error{Kind: KindServer, Method: method, Path: path, Err: err}
	}

	req, err := p.newRequest(ctx, method, path, body)
	if err != nil {
		return err
	}

	for _, mw := range p.request {
		if req, err = mw(req); err != nil {
			return err
		}
	}

	start := time.Now()
	resp, err := p.client.Do(req)
	if err != nil {
		p.logger.Debug("request failed", "method", method, "path", path, "error", err)
		return &Error{Kind: KindServer, Method: method, Path: path, Err: err}
	}
	defer resp.Body.Close()
	if resp.Request == nil {
		resp.Request = req
	}

	p.logger.Debug("request",
		"method", method,
		"path", path,
		"status", resp.StatusCode,
		"duration", time.Since(start),
		"request_id", req.Header.Get("X-Request-ID"),
	)

	for _, mw := range p.response {
		if err := mw(resp); err != nil {
			return err
		}
	}

	if result == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(result); err != nil && !errors.Is(err, io.EOF) {
		return &Error{Kind: KindServer, Status: resp.StatusCode, Method: method, Path: path, Err: fmt.Errorf("failed to decode response: %w", err)}
	}
	return nil
}

// Get is Do with GET and no body.
func (p *Pipeline) Get(ctx context.Context, path string, result any) error {
	return p.Do(ctx, http.MethodGet, path, nil, result)
}

// Post is Do with POST.
func (p *Pipeline) Post(ctx context.Context, path string, body, result any) error {
	return p.Do(ctx, http.MethodPost, path, body, result)
}

// Put is Do with PUT.
func (p *Pipeline) Put(ctx context.Context, path string, body, result any) error {
	return p.Do(ctx, http.MethodPut, path, body, result)
}

// Delete is Do with DELETE and no body.
func (p *Pipeline) Delete(ctx context.Context, path string, result any) error {
	return p.Do(ctx, http.MethodDelete, path, nil, result)
}

// URL returns the absolute URL of path under the API root.
func (p *Pipeline) URL(path string) string {
	return p.base.String() + APIRoot + "/" + strings.TrimLeft(path, "/")
}

func (p *Pipeline) newRequest(ctx context.Context, method, path string, body any) (*http.Request, error) {
	var reader io.Reader = http.NoBody
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to encode request body: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, p.URL(path), reader)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	return req, nil
}

// apiPath strips the API root so errors and actor lookups see the same path the caller passed.
func apiPath(p string) string {
	if rest, ok := strings.CutPrefix(p, APIRoot); ok && (rest == "" || rest[0] == '/') {
		return rest
	}
	return p
}
