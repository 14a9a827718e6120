package services

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/desertthunder/mcat/internal/models"
	"github.com/desertthunder/mcat/internal/shared"
)

// Entity names a kind of managed record.
type Entity string

const (
	EntityArtist   Entity = "artist"
	EntityProvider Entity = "provider"
	EntityRequest  Entity = "request"
)

// ParseEntity accepts artist(s), provider(s) or request(s).
func ParseEntity(s string) (Entity, error) {
	switch e := Entity(strings.TrimSuffix(strings.ToLower(strings.TrimSpace(s)), "s")); e {
	case EntityArtist, EntityProvider, EntityRequest:
		return e, nil
	default:
		return "", fmt.Errorf("%w: entity %q (want artists, providers or requests)", shared.ErrInvalidArgument, s)
	}
}

func (e Entity) collection() string {
	return "/manager/" + string(e) + "s"
}

// NewArtist is the body of an artist creation.
type NewArtist struct {
	Name   string   `json:"name" validate:"required,max=100"`
	Gender string   `json:"gender,omitempty" validate:"omitempty,oneof=M F"`
	Roles  []string `json:"roles,omitempty" validate:"dive,oneof=singer composer lyricist"`
}

// NewProvider is the body of a provider creation.
type NewProvider struct {
	Name string `json:"name" validate:"required,max=100"`
	Link string `json:"link" validate:"required,http_url"`
}

// ManagerService drives the management endpoints. Every call uses the administrator credential.
type ManagerService struct {
	api API
}

// NewManagerService creates a [ManagerService].
func NewManagerService(api API) *ManagerService {
	return &ManagerService{api: api}
}

// Artists lists every artist.
func (s *ManagerService) Artists(ctx context.Context) ([]models.Artist, error) {
	data, err := get[struct {
		Artists []models.Artist `json:"artists"`
	}](ctx, s.api, EntityArtist.collection())
	if err != nil {
		return nil, err
	}
	return data.Artists, nil
}

// Artist returns one artist.
func (s *ManagerService) Artist(ctx context.Context, id string) (*models.Artist, error) {
	path, err := entityPath(EntityArtist, id)
	if err != nil {
		return nil, err
	}

	artist, err := get[models.Artist](ctx, s.api, path)
	if err != nil {
		return nil, notFound(err, string(EntityArtist), id)
	}
	return &artist, nil
}

// CreateArtist validates a and creates it.
func (s *ManagerService) CreateArtist(ctx context.Context, a NewArtist) (*models.Artist, error) {
	a.Name = strings.TrimSpace(a.Name)
	if err := shared.ValidateStruct(a); err != nil {
		return nil, err
	}

	artist, err := call[models.Artist](ctx, s.api, http.MethodPost, EntityArtist.collection(), a)
	if err != nil {
		return nil, err
	}
	return &artist, nil
}

// Providers lists every provider.
func (s *ManagerService) Providers(ctx context.Context) ([]models.Provider, error) {
	data, err := get[struct {
		Providers []models.Provider `json:"providers"`
	}](ctx, s.api, EntityProvider.collection())
	if err != nil {
		return nil, err
	}
	return data.Providers, nil
}

// CreateProvider validates p and creates it.
func (s *ManagerService) CreateProvider(ctx context.Context, p NewProvider) (*models.Provider, error) {
	p.Name = strings.TrimSpace(p.Name)
	p.Link = strings.TrimSpace(p.Link)
	if err := shared.ValidateStruct(p); err != nil {
		return nil, err
	}

	provider, err := call[models.Provider](ctx, s.api, http.MethodPost, EntityProvider.collection(), p)
	if err != nil {
		return nil, err
	}
	return &provider, nil
}

// Requests lists pending song requests.
func (s *ManagerService) Requests(ctx context.Context) ([]models.SongRequest, error) {
	data, err := get[struct {
		Requests []models.SongRequest `json:"requests"`
	}](ctx, s.api, EntityRequest.collection())
	if err != nil {
		return nil, err
	}
	return data.Requests, nil
}

// Delete removes one record of kind e.
func (s *ManagerService) Delete(ctx context.Context, e Entity, id string) error {
	path, err := entityPath(e, id)
	if err != nil {
		return err
	}
	if err := s.api.Do(ctx, http.MethodDelete, path, nil, nil); err != nil {
		return notFound(err, string(e), id)
	}
	return nil
}

func entityPath(e Entity, id string) (string, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return "", fmt.Errorf("%w: %s id", shared.ErrMissingArgument, e)
	}
	return e.collection() + "/" + url.PathEscape(id), nil
}
