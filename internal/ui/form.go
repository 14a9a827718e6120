package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/mcat/internal/search"
)

const (
	inputKeyword = iota
	inputMin
	inputMax
)

// searchForm is the editable state of the search screen. It holds raw text only; [search.Compile] decides
// whether the text is a valid filter.
type searchForm struct {
	domain search.Domain
	exact  bool
	inputs []textinput.Model
	focus  int
	err    error
}

func newSearchForm(domain search.Domain) searchForm {
	inputs := make([]textinput.Model, 3)
	for i := range inputs {
		in := textinput.New()
		in.CharLimit = 64
		inputs[i] = in
	}
	f := searchForm{domain: domain, inputs: inputs}
	f.relabel()
	f.inputs[inputKeyword].Focus()
	return f
}

// rangeField names the range filter offered for the domain, or "" when the domain has none.
func rangeField(d search.Domain) string {
	switch d {
	case search.Songs:
		return "length"
	case search.Playlists:
		return "songs"
	default:
		return ""
	}
}

func (f *searchForm) relabel() {
	schema := search.SchemaFor(f.domain)
	f.inputs[inputKeyword].Prompt = schema.Fields[0].Label + ": "
	f.inputs[inputKeyword].Placeholder = "keyword"

	switch f.domain {
	case search.Songs:
		f.inputs[inputMin].Prompt, f.inputs[inputMax].Prompt = "min length: ", "max length: "
		f.inputs[inputMin].Placeholder, f.inputs[inputMax].Placeholder = "m:ss", "m:ss"
	case search.Playlists:
		f.inputs[inputMin].Prompt, f.inputs[inputMax].Prompt = "min songs: ", "max songs: "
		f.inputs[inputMin].Placeholder, f.inputs[inputMax].Placeholder = "0", "0"
	}
}

// fields returns how many inputs the current domain shows.
func (f searchForm) fields() int {
	if rangeField(f.domain) == "" {
		return 1
	}
	return len(f.inputs)
}

// nextDomain cycles songs, playlists and artists. Typed text is kept.
func (f *searchForm) nextDomain() {
	f.domain = (f.domain + 1) % 3
	f.err = nil
	f.relabel()
	if f.focus >= f.fields() {
		f.setFocus(inputKeyword)
	}
}

func (f *searchForm) setFocus(i int) {
	n := f.fields()
	f.focus = (i%n + n) % n
	for j := range f.inputs {
		if j == f.focus {
			f.inputs[j].Focus()
		} else {
			f.inputs[j].Blur()
		}
	}
}

func (f *searchForm) update(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	f.inputs[f.focus], cmd = f.inputs[f.focus].Update(msg)
	return cmd
}

// compile turns the typed text into a filter. Validation errors are returned without touching the network.
func (f searchForm) compile() (search.Filter, error) {
	schema := search.SchemaFor(f.domain)
	mode := search.Include
	if f.exact {
		mode = search.Exact
	}

	form, err := search.NewForm(schema).With(schema.Fields[0].Name, search.Keyword{
		Text: f.inputs[inputKeyword].Value(),
		Mode: mode,
	})
	if err != nil {
		return search.Filter{}, err
	}

	lo := strings.TrimSpace(f.inputs[inputMin].Value())
	hi := strings.TrimSpace(f.inputs[inputMax].Value())
	switch f.domain {
	case search.Songs:
		form, err = form.With(rangeField(f.domain), search.DurationRange{Min: search.ParseDuration(lo), Max: search.ParseDuration(hi)})
	case search.Playlists:
		form, err = form.With(rangeField(f.domain), search.NumberRange{Min: lo, Max: hi})
	}
	if err != nil {
		return search.Filter{}, err
	}
	return search.Compile(form)
}

func (f searchForm) view() string {
	var b strings.Builder
	for _, d := range []search.Domain{search.Songs, search.Playlists, search.Artists} {
		if d == f.domain {
			b.WriteString(styles.active.Render(d.String()))
		} else {
			b.WriteString(styles.tab.Render(d.String()))
		}
	}
	b.WriteString("\n\n")

	for i := range f.fields() {
		b.WriteString(f.inputs[i].View())
		b.WriteString("\n")
	}

	mode := search.Include
	if f.exact {
		mode = search.Exact
	}
	b.WriteString(styles.help.Render("match: " + mode.String() + " (ctrl+e to toggle)"))
	b.WriteString("\n")

	if f.err != nil {
		b.WriteString("\n")
		b.WriteString(styles.err.Render(f.err.Error()))
		b.WriteString("\n")
	}
	return b.String()
}
