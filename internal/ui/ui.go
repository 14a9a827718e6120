package ui

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/desertthunder/mcat/internal/models"
	"github.com/desertthunder/mcat/internal/pipeline"
	"github.com/desertthunder/mcat/internal/search"
	"github.com/desertthunder/mcat/internal/services"
	"github.com/desertthunder/mcat/internal/session"
	"github.com/desertthunder/mcat/internal/shared"
	"github.com/dustin/go-humanize"
)

// ViewState represents the current view in the TUI.
type ViewState int

const (
	VerifyingView ViewState = iota
	HomeView
	SearchView
	ResultsView
	DetailView
)

// Catalog is the read side of the catalog used by the browser.
type Catalog interface {
	Search(ctx context.Context, f search.Filter) (*services.Results, error)
	TopPlaylists(ctx context.Context) ([]models.Playlist, error)
	Playlist(ctx context.Context, id string) (*models.PlaylistDetail, error)
}

// Deps wires the model to the services it drives.
type Deps struct {
	Catalog  Catalog
	Store    *session.Store
	Verifier session.Verifier
	Signals  Signals // optional; nil disables signal banners
	Logger   *log.Logger
}

// Model represents the TUI application state.
type Model struct {
	ctx    context.Context
	deps   Deps
	logger *log.Logger
	view   ViewState
	prev   ViewState // view to return to from DetailView
	width  int
	height int

	state   session.State
	banner  string
	loading bool
	err     error

	topList    list.Model
	resultList list.Model
	songList   list.Model
	form       searchForm
	tracker    *search.Tracker // searches of the search view
	pages      *search.Tracker // loads of the home and detail views
	topLoaded  bool
	results    *services.Results
	detail     *models.PlaylistDetail
	help       help.Model
	keys       keyMap
}

// NewModel creates a new TUI model with the provided dependencies.
func NewModel(ctx context.Context, deps Deps) *Model {
	logger := deps.Logger
	if logger == nil {
		logger = shared.NewLogger(io.Discard)
	}
	return &Model{
		ctx:        ctx,
		deps:       deps,
		logger:     shared.WithLogger(logger, "component", "ui"),
		view:       VerifyingView,
		topList:    newList("Top Playlists"),
		resultList: newList("Results"),
		songList:   newList("Songs"),
		form:       newSearchForm(search.Songs),
		help:       help.New(),
		keys:       newKeyMap(),
	}
}

func newList(title string) list.Model {
	l := list.New(nil, list.NewDefaultDelegate(), 0, 0)
	l.Title = title
	l.SetShowHelp(false)
	return l
}

// Init verifies the stored session before anything else is shown.
func (m *Model) Init() tea.Cmd {
	return tea.Batch(m.verifySession(), m.waitForSignal())
}

// Update handles incoming messages and updates the model state.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		for _, l := range []*list.Model{&m.topList, &m.resultList, &m.songList} {
			l.SetSize(msg.Width-4, msg.Height-10)
		}
		return m, nil

	case tea.KeyMsg:
		return m.handleKeys(msg)

	case Msg:
		return m.handleMsg(msg)
	}

	return m.updateLists(msg)
}

func (m *Model) handleMsg(msg Msg) (tea.Model, tea.Cmd) {
	switch msg.kind {
	case MsgSessionVerified:
		d := msg.data.(sessionVerified)
		m.state = d.state
		if d.err != nil {
			m.logger.Warn("session verification failed", "error", d.err)
		}
		m.view = HomeView
		m.loading = true
		return m, m.fetchTop()

	case MsgTopFetched:
		d := msg.data.(topFetched)
		applied := d.ticket.Apply(func() {
			m.loading = false
			m.err = d.err
			if d.err == nil {
				m.topList.SetItems(playlistItems(d.playlists))
				m.topLoaded = true
			}
		})
		if !applied {
			m.logger.Debug("dropped stale top playlists response", "seq", d.ticket.Seq())
		}
		return m, nil

	case MsgSearchDone:
		d := msg.data.(searchDone)
		applied := d.ticket.Apply(func() {
			m.loading = false
			if d.err != nil {
				m.err = d.err
				return
			}
			m.err = nil
			m.results = d.results
			m.resultList.Title = fmt.Sprintf("%s (%s)", titleCase(d.results.Domain.String()), summary(d.results))
			m.resultList.SetItems(resultItems(d.results))
			m.resultList.ResetSelected()
			m.view = ResultsView
		})
		if !applied {
			m.logger.Debug("dropped stale search response", "seq", d.ticket.Seq())
		}
		return m, nil

	case MsgDetailFetched:
		d := msg.data.(detailFetched)
		applied := d.ticket.Apply(func() {
			m.loading = false
			if d.err != nil {
				m.err = d.err
				return
			}
			m.err = nil
			m.detail = d.detail
			m.songList.Title = fmt.Sprintf("%s by %s", d.detail.Title, d.detail.Owner)
			m.songList.SetItems(songItems(d.detail.Songs))
			m.songList.ResetSelected()
			m.view = DetailView
		})
		if !applied {
			m.logger.Debug("dropped stale playlist response", "seq", d.ticket.Seq())
		}
		return m, nil

	case MsgSignal:
		ev := msg.data.(signalEvent)
		m.banner = bannerFor(ev)
		if ev.sig == pipeline.SignalLoginRequired && ev.actor == session.EndUser {
			m.state = session.State{}
		}
		return m, m.waitForSignal()
	}
	return m, nil
}

func (m *Model) handleKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		m.leaveSearch()
		m.leavePage()
		return m, tea.Quit
	}

	switch m.view {
	case VerifyingView:
		if key.Matches(msg, m.keys.quit) {
			return m, tea.Quit
		}
		return m, nil
	case SearchView:
		return m.handleSearchKeys(msg)
	}

	// List filtering owns the keyboard until it is done.
	if l := m.activeList(); l != nil && l.FilterState() == list.Filtering {
		return m.updateLists(msg)
	}

	switch {
	case key.Matches(msg, m.keys.quit):
		m.leaveSearch()
		m.leavePage()
		return m, tea.Quit
	case key.Matches(msg, m.keys.dismiss):
		m.banner = ""
		m.err = nil
		return m, nil
	case key.Matches(msg, m.keys.search) && m.view != DetailView:
		m.enterSearch()
		return m, nil
	}

	switch m.view {
	case HomeView:
		switch {
		case key.Matches(msg, m.keys.refresh):
			m.loading = true
			return m, m.fetchTop()
		case key.Matches(msg, m.keys.enter):
			if item, ok := m.topList.SelectedItem().(playlistItem); ok {
				return m, m.openPlaylist(item.playlist.ID)
			}
			return m, nil
		}
	case ResultsView:
		switch {
		case key.Matches(msg, m.keys.back):
			m.leavePage()
			m.view = SearchView
			return m, nil
		case key.Matches(msg, m.keys.enter):
			if item, ok := m.resultList.SelectedItem().(playlistItem); ok {
				return m, m.openPlaylist(item.playlist.ID)
			}
			return m, nil
		}
	case DetailView:
		if key.Matches(msg, m.keys.back) {
			m.leavePage()
			m.view = m.prev
			m.detail = nil
			return m, nil
		}
	}

	return m.updateLists(msg)
}

func (m *Model) handleSearchKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.leaveSearch()
		m.view = HomeView
		if !m.topLoaded {
			m.loading = true
			return m, m.fetchTop()
		}
		return m, nil
	case "tab":
		m.form.nextDomain()
		return m, nil
	case "up", "shift+tab":
		m.form.setFocus(m.form.focus - 1)
		return m, nil
	case "down":
		m.form.setFocus(m.form.focus + 1)
		return m, nil
	case "ctrl+e":
		m.form.exact = !m.form.exact
		return m, nil
	case "enter":
		return m, m.submitSearch()
	}
	return m, m.form.update(msg)
}

// enterSearch opens the search screen with a fresh tracker. Loads of the view being left are abandoned.
func (m *Model) enterSearch() {
	m.leavePage()
	if m.tracker == nil {
		m.tracker = search.NewTracker(m.ctx)
	}
	m.err = nil
	m.view = SearchView
}

// leaveSearch abandons every in-flight search so none of them can apply later.
func (m *Model) leaveSearch() {
	if m.tracker != nil {
		m.tracker.Leave()
		m.tracker = nil
	}
	m.loading = false
}

// submitSearch validates the form locally and only then issues a request.
func (m *Model) submitSearch() tea.Cmd {
	filter, err := m.form.compile()
	if err != nil {
		m.form.err = err
		return nil
	}
	m.form.err = nil
	if m.tracker == nil {
		m.tracker = search.NewTracker(m.ctx)
	}

	ticket := m.tracker.Begin()
	m.loading = true
	catalog := m.deps.Catalog
	m.logger.Debug("search submitted", "domain", filter.Domain(), "keys", filter.Len(), "seq", ticket.Seq())

	return func() tea.Msg {
		results, err := catalog.Search(ticket.Context(), filter)
		return searchDoneMsg(ticket, results, err)
	}
}

func (m *Model) activeList() *list.Model {
	switch m.view {
	case HomeView:
		return &m.topList
	case ResultsView:
		return &m.resultList
	case DetailView:
		return &m.songList
	default:
		return nil
	}
}

func (m *Model) updateLists(msg tea.Msg) (tea.Model, tea.Cmd) {
	l := m.activeList()
	if l == nil {
		return m, nil
	}
	var cmd tea.Cmd
	*l, cmd = l.Update(msg)
	return m, cmd
}

func (m *Model) verifySession() tea.Cmd {
	store, verifier := m.deps.Store, m.deps.Verifier
	return func() tea.Msg {
		if store == nil {
			return sessionVerifiedMsg(session.State{}, nil)
		}
		state, err := session.Bootstrap(m.ctx, store, verifier, session.EndUser)
		return sessionVerifiedMsg(state, err)
	}
}

// beginLoad issues a ticket for a home or detail load. A newer load supersedes it.
func (m *Model) beginLoad() *search.Ticket {
	if m.pages == nil {
		m.pages = search.NewTracker(m.ctx)
	}
	return m.pages.Begin()
}

// leavePage abandons the loads of the view being left so none of them can apply later.
func (m *Model) leavePage() {
	if m.pages != nil {
		m.pages.Leave()
		m.pages = nil
	}
	m.loading = false
}

func (m *Model) fetchTop() tea.Cmd {
	ticket := m.beginLoad()
	catalog := m.deps.Catalog
	return func() tea.Msg {
		playlists, err := catalog.TopPlaylists(ticket.Context())
		return topFetchedMsg(ticket, playlists, err)
	}
}

func (m *Model) openPlaylist(id string) tea.Cmd {
	ticket := m.beginLoad()
	m.prev = m.view
	m.loading = true
	catalog := m.deps.Catalog
	return func() tea.Msg {
		detail, err := catalog.Playlist(ticket.Context(), id)
		return detailFetchedMsg(ticket, detail, err)
	}
}

func (m *Model) waitForSignal() tea.Cmd {
	ch := m.deps.Signals
	if ch == nil {
		return nil
	}
	return func() tea.Msg {
		select {
		case ev := <-ch:
			return signalMsg(ev)
		case <-m.ctx.Done():
			return nil
		}
	}
}

func bannerFor(ev signalEvent) string {
	switch {
	case ev.sig == pipeline.SignalLoginRequired && ev.actor == session.Admin:
		return "Admin session expired. Run `mcat admin auth login` to sign in again."
	case ev.sig == pipeline.SignalLoginRequired:
		return "Your session expired. Run `mcat auth login` to sign in again."
	case ev.sig == pipeline.SignalPermissionDenied:
		return fmt.Sprintf("Permission denied for the %s account.", ev.actor)
	default:
		return ""
	}
}

func summary(r *services.Results) string {
	if r.Len() == r.TotalCount || r.TotalCount == 0 {
		if r.Len() == 1 {
			return "1 result"
		}
		return humanize.Comma(int64(r.Len())) + " results"
	}
	return fmt.Sprintf("%s of %s", humanize.Comma(int64(r.Len())), humanize.Comma(int64(r.TotalCount)))
}

func titleCase(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

// View renders the UI based on the current view state.
func (m *Model) View() string {
	var b strings.Builder
	if m.banner != "" {
		b.WriteString(styles.banner.Render(m.banner))
		b.WriteString("\n")
	}

	switch m.view {
	case VerifyingView:
		b.WriteString(styles.help.Render("Checking session..."))
		return b.String()
	case HomeView:
		b.WriteString(m.header())
		b.WriteString(m.topList.View())
		b.WriteString(m.footer(m.keys.enter, m.keys.search, m.keys.refresh, m.keys.quit))
	case SearchView:
		b.WriteString(styles.title.Render("Search"))
		b.WriteString("\n")
		b.WriteString(m.form.view())
		b.WriteString(m.footer(m.keys.submit, m.keys.domain, m.keys.back))
	case ResultsView:
		b.WriteString(m.header())
		b.WriteString(m.resultList.View())
		b.WriteString(m.footer(m.keys.enter, m.keys.search, m.keys.back, m.keys.quit))
	case DetailView:
		b.WriteString(m.header())
		b.WriteString(m.songList.View())
		if m.detail != nil {
			b.WriteString("\n")
			b.WriteString(styles.help.Render(fmt.Sprintf("%d songs • %s • %s comments",
				len(m.detail.Songs), shared.FormatDuration(m.detail.Length), humanize.Comma(int64(m.detail.CommentCount)))))
		}
		b.WriteString(m.footer(m.keys.back, m.keys.quit))
	}
	return b.String()
}

func (m *Model) header() string {
	var who string
	if m.state.Authenticated {
		who = styles.ok.Render("Signed in as " + m.state.DisplayName)
	} else {
		who = styles.help.Render("Browsing anonymously")
	}
	return who + "\n\n"
}

func (m *Model) footer(bindings ...key.Binding) string {
	var b strings.Builder
	b.WriteString("\n")
	if m.loading {
		b.WriteString(styles.warn.Render("Loading..."))
		b.WriteString("\n")
	}
	if m.err != nil {
		b.WriteString(styles.err.Render("Error: " + m.err.Error()))
		b.WriteString("\n")
	}
	if m.banner != "" || m.err != nil {
		bindings = append(bindings, m.keys.dismiss)
	}
	b.WriteString(m.help.ShortHelpView(bindings))
	return b.String()
}
