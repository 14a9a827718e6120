package services

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/desertthunder/mcat/internal/pipeline"
	"github.com/desertthunder/mcat/internal/shared"
)

// API sends one catalog request. Paths are relative to the API root.
type API interface {
	Do(ctx context.Context, method, path string, body, result any) error
}

// Envelope is the {success, data, message} wrapper of most catalog responses. Success is nil when the response
// leaves the field out.
type Envelope[T any] struct {
	Success *bool  `json:"success"`
	Data    T      `json:"data"`
	Message string `json:"message,omitempty"`
}

// call sends a request and returns the unwrapped envelope data. A 2xx envelope with success set to false is a
// rejection carrying the server message.
func call[T any](ctx context.Context, api API, method, path string, body any) (T, error) {
	var env Envelope[T]
	var zero T
	if err := api.Do(ctx, method, path, body, &env); err != nil {
		return zero, err
	}
	if env.Success != nil && !*env.Success {
		return zero, &pipeline.Error{Kind: pipeline.KindRejected, Method: method, Path: path, Message: env.Message}
	}
	return env.Data, nil
}

// get is call with GET and no body.
func get[T any](ctx context.Context, api API, path string) (T, error) {
	return call[T](ctx, api, http.MethodGet, path, nil)
}

// notFound rewrites a 404 on an entity lookup into an entity message, e.g. `artist "AR9" not found`.
func notFound(err error, entity, id string) error {
	if errors.Is(err, shared.ErrNotFound) {
		return fmt.Errorf("%s %q %w", entity, id, shared.ErrNotFound)
	}
	return err
}
