package services

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/desertthunder/mcat/internal/models"
	"github.com/desertthunder/mcat/internal/search"
	"github.com/desertthunder/mcat/internal/shared"
)

// Results is one page of search hits. Only the slice of the searched domain is filled.
type Results struct {
	Domain     search.Domain     `json:"-"`
	Songs      []models.Song     `json:"songs,omitempty"`
	Playlists  []models.Playlist `json:"playlists,omitempty"`
	Artists    []models.Artist   `json:"artists,omitempty"`
	TotalCount int               `json:"totalCount"`
}

// Len returns the number of hits on this page.
func (r *Results) Len() int {
	switch r.Domain {
	case search.Playlists:
		return len(r.Playlists)
	case search.Artists:
		return len(r.Artists)
	default:
		return len(r.Songs)
	}
}

// CatalogService searches and browses the public catalog.
type CatalogService struct {
	api API
}

// NewCatalogService creates a [CatalogService].
func NewCatalogService(api API) *CatalogService {
	return &CatalogService{api: api}
}

// Search posts a compiled filter to its domain's search endpoint.
func (s *CatalogService) Search(ctx context.Context, f search.Filter) (*Results, error) {
	res, err := call[Results](ctx, s.api, http.MethodPost, f.Domain().Path(), f)
	if err != nil {
		return nil, err
	}
	res.Domain = f.Domain()
	return &res, nil
}

// TopPlaylists returns the ranked playlists of the home page.
func (s *CatalogService) TopPlaylists(ctx context.Context) ([]models.Playlist, error) {
	data, err := get[struct {
		Playlists []models.Playlist `json:"playlists"`
	}](ctx, s.api, "/playlists/top")
	if err != nil {
		return nil, err
	}
	return data.Playlists, nil
}

// Playlist returns one playlist with its songs.
func (s *CatalogService) Playlist(ctx context.Context, id string) (*models.PlaylistDetail, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, fmt.Errorf("%w: playlist id", shared.ErrMissingArgument)
	}

	detail, err := get[models.PlaylistDetail](ctx, s.api, "/playlists/"+url.PathEscape(id))
	if err != nil {
		return nil, notFound(err, "playlist", id)
	}
	return &detail, nil
}
