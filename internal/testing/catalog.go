package testing

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"slices"
	"strings"
	"sync"
	"testing"

	"github.com/desertthunder/mcat/internal/models"
)

// Seeded credentials of [FakeCatalog].
const (
	UserEmail     = "ada@example.com"
	UserPassword  = "hunter2"
	UserToken     = "user-token"
	AdminUsername = "root"
	AdminPassword = "toor"
	AdminToken    = "admin-token"
)

// Middleware wraps a handler of the fake catalog.
type Middleware func(http.Handler) http.Handler

// RecordedRequest is one request received by [FakeCatalog].
type RecordedRequest struct {
	Method string
	Path   string
	Query  string
	Header http.Header
	Body   []byte
}

// FakeCatalog is an in-memory music-catalog API served over httptest.
//
// Requests under /api/user and /api/manager require the matching bearer token. A user token on a manager route is
// answered with 403.
type FakeCatalog struct {
	*httptest.Server

	mu          sync.Mutex
	mux         *http.ServeMux
	middlewares []Middleware
	failures    map[string]failure
	recorded    []RecordedRequest
	tokensLive  bool

	Nickname  string
	Songs     []models.Song
	Playlists []models.PlaylistDetail
	Artists   []models.Artist
	Providers []models.Provider
	Requests  []models.SongRequest
	Comments  []models.Comment
}

type failure struct {
	status  int
	message string
}

// NewFakeCatalog starts a seeded catalog that is closed when the test ends.
func NewFakeCatalog(t *testing.T) *FakeCatalog {
	t.Helper()

	f := &FakeCatalog{
		mux:        http.NewServeMux(),
		failures:   map[string]failure{},
		tokensLive: true,
		Nickname:   "Ada",
		Songs: []models.Song{
			{ID: "S1", Title: "Ditto", Artist: "NewJeans", Length: 185, ReleaseDate: "2022-12-19", Provider: "Spotify"},
			{ID: "S2", Title: "Kitsch", Artist: "IVE", Length: 195, ReleaseDate: "2023-03-27", Provider: "YouTube"},
			{ID: "S3", Title: "Super", Artist: "Seventeen", Length: 201, ReleaseDate: "2023-04-24", Provider: "Apple Music"},
		},
		Artists: []models.Artist{
			{ID: "AR1", Name: "IU", Gender: "F", Roles: []string{"singer", "lyricist"}},
			{ID: "AR2", Name: "Park Hyo-shin", Gender: "M", Roles: []string{"singer"}},
		},
		Providers: []models.Provider{
			{ID: "SC1", Name: "Spotify", Link: "https://spotify.com"},
			{ID: "SC2", Name: "YouTube", Link: "https://youtube.com"},
		},
		Requests: []models.SongRequest{
			{ID: "RQ1", Title: "Ditto", Artist: "NewJeans", RequesterID: "user123", RequestedAt: "2025-11-15 14:30"},
			{ID: "RQ2", Title: "Kitsch", Artist: "IVE", RequesterID: "user456", RequestedAt: "2025-11-16 09:15"},
		},
		Comments: []models.Comment{
			{ID: "C1", PlaylistID: "PL1", PlaylistTitle: "K-Pop Hits", Content: "Great list!", CreatedAt: "2025-11-15"},
		},
	}
	f.Playlists = []models.PlaylistDetail{
		{
			Playlist: models.Playlist{ID: "PL1", Title: "K-Pop Hits", Owner: "Ada", SongCount: 2, CommentCount: 1, Length: 380, Rank: 1},
			Songs:    f.Songs[:2],
		},
		{
			Playlist: models.Playlist{ID: "PL2", Title: "Ballads", Owner: "Grace", SongCount: 1, CommentCount: 0, Length: 201, Rank: 2},
			Songs:    f.Songs[2:],
		},
	}

	f.Use(f.record, f.inject, f.authorize)
	f.routes()

	f.Server = httptest.NewServer(f)
	t.Cleanup(f.Close)
	return f
}

// Use adds middleware, applied in the order added.
func (f *FakeCatalog) Use(mw ...Middleware) {
	f.middlewares = append(f.middlewares, mw...)
}

func (f *FakeCatalog) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var h http.Handler = f.mux
	for i := len(f.middlewares) - 1; i >= 0; i-- {
		h = f.middlewares[i](h)
	}
	h.ServeHTTP(w, r)
}

// Fail makes every following request to method and path answer with status and message.
func (f *FakeCatalog) Fail(method, path string, status int, message string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.failures[method+" "+path] = failure{status: status, message: message}
}

// ExpireTokens makes every bearer token invalid, as if the server restarted.
func (f *FakeCatalog) ExpireTokens() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.tokensLive = false
}

// Recorded returns a copy of every request received so far.
func (f *FakeCatalog) Recorded() []RecordedRequest {
	f.mu.Lock()
	defer f.mu.Unlock()
	return slices.Clone(f.recorded)
}

// Count returns how many requests hit method and path.
func (f *FakeCatalog) Count(method, path string) int {
	n := 0
	for _, r := range f.Recorded() {
		if r.Method == method && r.Path == path {
			n++
		}
	}
	return n
}

// LastBody decodes the JSON body of the latest request to method and path.
func (f *FakeCatalog) LastBody(method, path string) map[string]any {
	recorded := f.Recorded()
	for i := len(recorded) - 1; i >= 0; i-- {
		r := recorded[i]
		if r.Method == method && r.Path == path {
			var out map[string]any
			_ = json.Unmarshal(r.Body, &out)
			return out
		}
	}
	return nil
}

func (f *FakeCatalog) record(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		r.Body = io.NopCloser(strings.NewReader(string(body)))

		f.mu.Lock()
		f.recorded = append(f.recorded, RecordedRequest{
			Method: r.Method,
			Path:   r.URL.Path,
			Query:  r.URL.RawQuery,
			Header: r.Header.Clone(),
			Body:   body,
		})
		f.mu.Unlock()

		next.ServeHTTP(w, r)
	})
}

func (f *FakeCatalog) inject(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		fail, ok := f.failures[r.Method+" "+r.URL.Path]
		f.mu.Unlock()

		if ok {
			writeFailure(w, fail.status, fail.message)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (f *FakeCatalog) authorize(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := f.bearer(r)
		switch {
		case strings.HasPrefix(r.URL.Path, "/api/manager/") && !strings.HasPrefix(r.URL.Path, "/api/manager/auth/login"):
			if token == UserToken {
				writeFailure(w, http.StatusForbidden, "administrator access required")
				return
			}
			if token != AdminToken {
				writeFailure(w, http.StatusUnauthorized, "login required")
				return
			}
		case strings.HasPrefix(r.URL.Path, "/api/user"), r.URL.Path == "/api/auth/logout":
			if token != UserToken {
				writeFailure(w, http.StatusUnauthorized, "login required")
				return
			}
		}
		next.ServeHTTP(w, r)
	})
}

// bearer returns the presented token while tokens are live.
func (f *FakeCatalog) bearer(r *http.Request) string {
	f.mu.Lock()
	defer f.mu.Unlock()
	if !f.tokensLive {
		return ""
	}
	token, _ := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
	return token
}

func (f *FakeCatalog) routes() {
	f.mux.HandleFunc("POST /api/auth/login", f.login)
	f.mux.HandleFunc("POST /api/auth/logout", ok)
	f.mux.HandleFunc("GET /api/auth/session", f.sessionCheck)
	f.mux.HandleFunc("POST /api/manager/auth/login", f.adminLogin)
	f.mux.HandleFunc("POST /api/manager/auth/logout", ok)

	f.mux.HandleFunc("POST /api/songs/search", f.searchSongs)
	f.mux.HandleFunc("POST /api/playlists/search", f.searchPlaylists)
	f.mux.HandleFunc("POST /api/artists/search", f.searchArtists)
	f.mux.HandleFunc("GET /api/playlists/top", f.topPlaylists)
	f.mux.HandleFunc("GET /api/playlists/{id}", f.playlist)

	f.mux.HandleFunc("GET /api/user/playlists", f.userPlaylists)
	f.mux.HandleFunc("GET /api/user/comments", f.userComments)
	f.mux.HandleFunc("PUT /api/user/password", f.changePassword)
	f.mux.HandleFunc("PUT /api/user/nickname", f.changeNickname)
	f.mux.HandleFunc("DELETE /api/user", ok)

	f.mux.HandleFunc("GET /api/manager/artists", f.listArtists)
	f.mux.HandleFunc("GET /api/manager/artists/{id}", f.getArtist)
	f.mux.HandleFunc("POST /api/manager/artists", f.createArtist)
	f.mux.HandleFunc("DELETE /api/manager/artists/{id}", f.deleteArtist)
	f.mux.HandleFunc("GET /api/manager/providers", f.listProviders)
	f.mux.HandleFunc("POST /api/manager/providers", f.createProvider)
	f.mux.HandleFunc("DELETE /api/manager/providers/{id}", f.deleteProvider)
	f.mux.HandleFunc("GET /api/manager/requests", f.listRequests)
	f.mux.HandleFunc("DELETE /api/manager/requests/{id}", f.deleteRequest)
}

func (f *FakeCatalog) login(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	_ = json.NewDecoder(r.Body).Decode(&req)
	if req.Email != UserEmail || req.Password != UserPassword {
		writeFailure(w, http.StatusUnauthorized, "Incorrect email or password")
		return
	}

	f.mu.Lock()
	f.tokensLive = true
	name := f.Nickname
	f.mu.Unlock()
	writeData(w, map[string]any{"userId": "U1", "nickname": name, "token": UserToken})
}

func (f *FakeCatalog) adminLogin(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	_ = json.NewDecoder(r.Body).Decode(&req)
	if req.Username != AdminUsername || req.Password != AdminPassword {
		writeFailure(w, http.StatusUnauthorized, "Incorrect username or password")
		return
	}

	f.mu.Lock()
	f.tokensLive = true
	f.mu.Unlock()
	writeData(w, map[string]any{"token": AdminToken, "username": AdminUsername})
}

func (f *FakeCatalog) sessionCheck(w http.ResponseWriter, r *http.Request) {
	if f.bearer(r) != UserToken {
		writeJSON(w, http.StatusOK, map[string]any{"isLoggedIn": false})
		return
	}

	f.mu.Lock()
	name := f.Nickname
	f.mu.Unlock()
	writeJSON(w, http.StatusOK, map[string]any{
		"isLoggedIn": true,
		"user":       map[string]any{"userId": "U1", "email": UserEmail, "nickname": name},
	})
}

func (f *FakeCatalog) searchSongs(w http.ResponseWriter, r *http.Request) {
	filter := decodeFilter(r)

	f.mu.Lock()
	defer f.mu.Unlock()

	var out []models.Song
	for _, s := range f.Songs {
		if !matchKeyword(filter, "title", s.Title) || !matchKeyword(filter, "artist", s.Artist) ||
			!matchKeyword(filter, "provider", s.Provider) || !inRange(filter, "length", s.Length) {
			continue
		}
		out = append(out, s)
	}
	writeData(w, map[string]any{"songs": out, "totalCount": len(out)})
}

func (f *FakeCatalog) searchPlaylists(w http.ResponseWriter, r *http.Request) {
	filter := decodeFilter(r)

	f.mu.Lock()
	defer f.mu.Unlock()

	var out []models.Playlist
	for _, p := range f.Playlists {
		if !matchKeyword(filter, "title", p.Title) || !matchKeyword(filter, "owner", p.Owner) ||
			!inRange(filter, "songCount", p.SongCount) || !inRange(filter, "commentCount", p.CommentCount) ||
			!inRange(filter, "length", p.Length) {
			continue
		}
		out = append(out, p.Playlist)
	}
	writeData(w, map[string]any{"playlists": out, "totalCount": len(out)})
}

func (f *FakeCatalog) searchArtists(w http.ResponseWriter, r *http.Request) {
	filter := decodeFilter(r)

	f.mu.Lock()
	defer f.mu.Unlock()

	var out []models.Artist
	for _, a := range f.Artists {
		if !matchKeyword(filter, "name", a.Name) {
			continue
		}
		if g, ok := filter["gender"].(string); ok && g != a.Gender {
			continue
		}
		out = append(out, a)
	}
	writeData(w, map[string]any{"artists": out, "totalCount": len(out)})
}

func (f *FakeCatalog) topPlaylists(w http.ResponseWriter, _ *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()

	out := make([]models.Playlist, 0, len(f.Playlists))
	for _, p := range f.Playlists {
		out = append(out, p.Playlist)
	}
	writeData(w, map[string]any{"playlists": out})
}

func (f *FakeCatalog) playlist(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()

	id := r.PathValue("id")
	for _, p := range f.Playlists {
		if p.ID == id {
			writeData(w, p)
			return
		}
	}
	writeFailure(w, http.StatusNotFound, "")
}

func (f *FakeCatalog) userPlaylists(w http.ResponseWriter, r *http.Request) {
	tab := r.URL.Query().Get("tab")
	if tab != "owned" && tab != "shared" && tab != "editable" {
		writeFailure(w, http.StatusBadRequest, "unknown tab")
		return
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	var out []models.Playlist
	for _, p := range f.Playlists {
		if (tab == "owned") == (p.Owner == f.Nickname) {
			out = append(out, p.Playlist)
		}
	}
	writeData(w, map[string]any{"playlists": out})
}

func (f *FakeCatalog) userComments(w http.ResponseWriter, _ *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()
	writeData(w, map[string]any{"comments": f.Comments})
}

func (f *FakeCatalog) changePassword(w http.ResponseWriter, r *http.Request) {
	var req struct {
		CurrentPassword string `json:"currentPassword"`
		NewPassword     string `json:"newPassword"`
	}
	_ = json.NewDecoder(r.Body).Decode(&req)
	if req.CurrentPassword != UserPassword {
		writeFailure(w, http.StatusBadRequest, "current password is incorrect")
		return
	}
	writeData(w, nil)
}

func (f *FakeCatalog) changeNickname(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Nickname string `json:"nickname"`
	}
	_ = json.NewDecoder(r.Body).Decode(&req)

	f.mu.Lock()
	f.Nickname = req.Nickname
	f.mu.Unlock()
	writeData(w, map[string]any{"nickname": req.Nickname})
}

func (f *FakeCatalog) listArtists(w http.ResponseWriter, _ *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()
	writeData(w, map[string]any{"artists": f.Artists})
}

func (f *FakeCatalog) getArtist(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()

	i := slices.IndexFunc(f.Artists, func(a models.Artist) bool { return a.ID == r.PathValue("id") })
	if i < 0 {
		writeFailure(w, http.StatusNotFound, "")
		return
	}
	writeData(w, f.Artists[i])
}

func (f *FakeCatalog) createArtist(w http.ResponseWriter, r *http.Request) {
	var a models.Artist
	_ = json.NewDecoder(r.Body).Decode(&a)

	f.mu.Lock()
	defer f.mu.Unlock()

	a.ID = fmt.Sprintf("AR%d", len(f.Artists)+1)
	f.Artists = append(f.Artists, a)
	writeJSON(w, http.StatusCreated, map[string]any{"success": true, "data": a})
}

func (f *FakeCatalog) deleteArtist(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Artists = deleteByID(w, f.Artists, r.PathValue("id"), func(a models.Artist) string { return a.ID })
}

func (f *FakeCatalog) listProviders(w http.ResponseWriter, _ *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()
	writeData(w, map[string]any{"providers": f.Providers})
}

func (f *FakeCatalog) createProvider(w http.ResponseWriter, r *http.Request) {
	var p models.Provider
	_ = json.NewDecoder(r.Body).Decode(&p)

	f.mu.Lock()
	defer f.mu.Unlock()

	p.ID = fmt.Sprintf("SC%d", len(f.Providers)+1)
	f.Providers = append(f.Providers, p)
	writeJSON(w, http.StatusCreated, map[string]any{"success": true, "data": p})
}

func (f *FakeCatalog) deleteProvider(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Providers = deleteByID(w, f.Providers, r.PathValue("id"), func(p models.Provider) string { return p.ID })
}

func (f *FakeCatalog) listRequests(w http.ResponseWriter, _ *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()
	writeData(w, map[string]any{"requests": f.Requests})
}

func (f *FakeCatalog) deleteRequest(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Requests = deleteByID(w, f.Requests, r.PathValue("id"), func(q models.SongRequest) string { return q.ID })
}

func deleteByID[T any](w http.ResponseWriter, items []T, id string, key func(T) string) []T {
	i := slices.IndexFunc(items, func(item T) bool { return key(item) == id })
	if i < 0 {
		writeFailure(w, http.StatusNotFound, "")
		return items
	}
	writeData(w, nil)
	return slices.Delete(items, i, i+1)
}

func decodeFilter(r *http.Request) map[string]any {
	filter := map[string]any{}
	_ = json.NewDecoder(r.Body).Decode(&filter)
	return filter
}

func matchKeyword(filter map[string]any, name, value string) bool {
	kw, ok := filter[name+"Keyword"].(string)
	if !ok {
		return true
	}
	if exact, _ := filter[name+"Exact"].(bool); exact {
		return strings.EqualFold(kw, value)
	}
	return strings.Contains(strings.ToLower(value), strings.ToLower(kw))
}

func inRange(filter map[string]any, name string, value int) bool {
	if lo, ok := filter[name+"Min"].(float64); ok && float64(value) < lo {
		return false
	}
	if hi, ok := filter[name+"Max"].(float64); ok && float64(value) > hi {
		return false
	}
	return true
}

func ok(w http.ResponseWriter, _ *http.Request) {
	writeData(w, nil)
}

func writeData(w http.ResponseWriter, data any) {
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "data": data})
}

func writeFailure(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]any{"success": false, "message": message})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
