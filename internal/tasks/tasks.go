// package tasks runs bulk catalog operations with real-time progress reporting.
//
// Operations emit progress updates via channels for non-blocking status reporting to CLI/UI layers.
package tasks

import (
	"context"
	"fmt"

	"github.com/desertthunder/mcat/internal/models"
	"github.com/desertthunder/mcat/internal/services"
	"github.com/desertthunder/mcat/internal/shared"
)

// PlaylistSource loads playlists with their songs.
type PlaylistSource interface {
	Playlist(ctx context.Context, id string) (*models.PlaylistDetail, error)
}

// Manager is the subset of the management API used by bulk operations.
type Manager interface {
	Artists(ctx context.Context) ([]models.Artist, error)
	Providers(ctx context.Context) ([]models.Provider, error)
	Requests(ctx context.Context) ([]models.SongRequest, error)
	Delete(ctx context.Context, e services.Entity, id string) error
}

// EndpointResult is a failed fetch of one inventory endpoint.
type EndpointResult struct {
	Endpoint string
	Error    error
}

// DumpResult is a snapshot of every managed record.
type DumpResult struct {
	Artists   []models.Artist
	Providers []models.Provider
	Requests  []models.SongRequest
	Errors    []EndpointResult // endpoints that could not be fetched
}

// DumpData is the JSON form of a [DumpResult].
type DumpData struct {
	Artists   []models.Artist      `json:"artists"`
	Providers []models.Provider    `json:"providers"`
	Requests  []models.SongRequest `json:"requests"`
	Errors    map[string]string    `json:"errors,omitempty"`
}

// Data converts the result for encoding.
func (r *DumpResult) Data() DumpData {
	d := DumpData{Artists: r.Artists, Providers: r.Providers, Requests: r.Requests}
	for _, e := range r.Errors {
		if d.Errors == nil {
			d.Errors = map[string]string{}
		}
		d.Errors[e.Endpoint] = e.Error.Error()
	}
	return d
}

type inventoryOperation struct {
	name    string
	fetch   func(context.Context) error
	phase   Phase
	message string
}

// Engine runs bulk operations against the catalog.
type Engine struct {
	source  PlaylistSource
	manager Manager
}

// NewEngine creates an [Engine]. Either dependency may be nil when its operations are not used.
func NewEngine(source PlaylistSource, manager Manager) *Engine {
	return &Engine{source: source, manager: manager}
}

// sendProgress sends a progress update through the channel without blocking.
// Uses select with default to ensure progress reporting never blocks execution.
func (e *Engine) sendProgress(progress chan<- ProgressUpdate, update ProgressUpdate) {
	if progress == nil {
		return
	}
	select {
	case progress <- update:
	default:
	}
}

// Dump fetches artists, providers and requests. A failing endpoint is recorded and the rest still run.
func (e *Engine) Dump(ctx context.Context, progress chan<- ProgressUpdate) (*DumpResult, error) {
	if e.manager == nil {
		return nil, fmt.Errorf("%w: management client not initialized", shared.ErrServiceUnavailable)
	}

	result := &DumpResult{}
	ops := []inventoryOperation{
		{
			name:    "artists",
			phase:   FetchArtists,
			message: "Fetching artists...",
			fetch: func(ctx context.Context) (err error) {
				result.Artists, err = e.manager.Artists(ctx)
				return err
			},
		},
		{
			name:    "providers",
			phase:   FetchProviders,
			message: "Fetching providers...",
			fetch: func(ctx context.Context) (err error) {
				result.Providers, err = e.manager.Providers(ctx)
				return err
			},
		},
		{
			name:    "requests",
			phase:   FetchRequests,
			message: "Fetching song requests...",
			fetch: func(ctx context.Context) (err error) {
				result.Requests, err = e.manager.Requests(ctx)
				return err
			},
		},
	}

	for i, op := range ops {
		if err := ctx.Err(); err != nil {
			return result, err
		}

		e.sendProgress(progress, operationUpdate(op, i+1, len(ops)))
		if err := op.fetch(ctx); err != nil {
			result.Errors = append(result.Errors, EndpointResult{Endpoint: op.name, Error: err})
		}
	}
	return result, nil
}
