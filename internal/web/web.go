// Package web serves the recommendation form as a server-rendered HTML page.
//
// The page mirrors the terminal form: the catalog is fetched once when the [App] is created,
// GET / renders the form with the catalog as suggestions, and POST / submits exactly one
// recommendation request and renders either the result list or the error banner, keeping
// every field value. In the artist-first variant, changing the artist reloads the page
// through GET / with the current values so the song list narrows to that artist.
//
// Routes
//
//	GET  /        form
//	POST /        submit
//	GET  /healthz liveness
package web

import (
	"bytes"
	"context"
	"embed"
	"fmt"
	"html/template"
	"net/http"
	"net/url"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/lagu/internal/catalog"
	"github.com/desertthunder/lagu/internal/form"
	"github.com/desertthunder/lagu/internal/models"
	"github.com/desertthunder/lagu/internal/server"
	"github.com/dustin/go-humanize"
)

//go:embed templates/*.html
var templates embed.FS

// Field names posted by the form. They match the collaborator's body keys.
const (
	FieldUserID = "user_id"
	FieldTitle  = "judul_lagu"
	FieldArtist = "artis"
	FieldGenre  = "genre"
	FieldCount  = "top_n"
)

// Page is the data rendered by the form template.
type Page struct {
	Values      models.FormState
	ArtistFirst bool
	Songs       []models.Song
	Artists     []string
	Genres      []string
	MinCount    int
	MaxCount    int
	CatalogSize string
	Results     []models.Recommendation
	Error       string
	Notice      string
}

// Options configures an [App].
type Options struct {
	Client       form.Client
	Loader       *catalog.Loader
	Variant      form.Variant
	DefaultCount string
	Logger       *log.Logger
}

// App holds the handlers for the web form.
type App struct {
	client       form.Client
	loader       *catalog.Loader
	variant      form.Variant
	defaultCount string
	logger       *log.Logger
	tmpl         *template.Template
}

// New parses the templates and performs the single catalog fetch.
func New(ctx context.Context, opts Options) (*App, error) {
	tmpl, err := template.ParseFS(templates, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse templates: %w", err)
	}
	if opts.Logger == nil {
		opts.Logger = log.Default()
	}

	app := &App{
		client:       opts.Client,
		loader:       opts.Loader,
		variant:      opts.Variant,
		defaultCount: opts.DefaultCount,
		logger:       opts.Logger,
		tmpl:         tmpl,
	}
	if app.loader != nil {
		app.loader.Load(ctx)
	}
	return app, nil
}

// Register mounts the app's routes on r.
func (a *App) Register(r server.Router) {
	r.HandleFunc(http.MethodGet, "/", a.Form)
	r.HandleFunc(http.MethodPost, "/", a.Submit)
	r.HandleFunc(http.MethodGet, "/healthz", a.Health)
}

// Form renders the form. Query parameters pre-fill the fields.
func (a *App) Form(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}

	f, notice := a.fill(r.URL.Query())
	a.render(w, http.StatusOK, a.page(f, notice))
}

// Submit sends one recommendation request and renders its outcome.
func (a *App) Submit(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}

	f, notice := a.fill(r.PostForm)
	page := a.page(f, notice)
	if notice != "" {
		a.render(w, http.StatusUnprocessableEntity, page)
		return
	}

	machine := form.NewMachine(form.LastArrival)
	sub, err := machine.Submit(f.Values())
	if err != nil {
		page.Notice = err.Error()
		a.render(w, http.StatusUnprocessableEntity, page)
		return
	}

	state, _ := machine.Execute(r.Context(), a.client, sub)
	switch state.Status {
	case form.ShowingResults:
		page.Results = state.Results
	case form.ShowingError:
		a.logger.Warn("recommendation failed", "error", state.Message)
		page.Error = state.Message
	}
	a.render(w, http.StatusOK, page)
}

// Health reports liveness.
func (a *App) Health(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Write([]byte("ok"))
}

// fill applies submitted values to a fresh form the same way the terminal form
// applies keystrokes.
func (a *App) fill(values url.Values) (*form.Form, string) {
	f := form.New(a.variant, a.defaultCount)
	f.SetCatalog(a.snapshot())

	f.SetListenerID(values.Get(FieldUserID))
	if values.Has(FieldCount) {
		f.SetCount(values.Get(FieldCount))
	}

	title := strings.TrimSpace(values.Get(FieldTitle))
	artist := values.Get(FieldArtist)

	var notice string
	if err := f.SetGenre(values.Get(FieldGenre)); err != nil {
		notice = err.Error()
	}

	switch a.variant {
	case form.ArtistFirst:
		f.SetArtist(artist)
		if song, ok := catalog.FindByTitle(f.SongOptions(""), title); ok {
			f.SelectSong(song)
		}
	default:
		if title != "" {
			song, ok := catalog.FindByTitle(f.SongOptions(""), title)
			if !ok {
				song = models.Song{Title: title}
			}
			f.SelectSong(song)
		}
		if artist != "" {
			f.SetArtist(artist)
		}
	}

	return f, notice
}

func (a *App) snapshot() catalog.Snapshot {
	if a.loader == nil {
		return catalog.Snapshot{}
	}
	return a.loader.Snapshot()
}

func (a *App) page(f *form.Form, notice string) Page {
	p := Page{
		Values:      f.Values(),
		ArtistFirst: f.Variant() == form.ArtistFirst,
		Songs:       f.SongOptions(""),
		Artists:     f.ArtistOptions(),
		Genres:      f.GenreOptions(),
		MinCount:    form.MinCount,
		MaxCount:    form.MaxCount,
		Notice:      notice,
	}
	if n := len(a.snapshot().Songs); n > 0 {
		p.CatalogSize = humanize.Comma(int64(n))
	}
	return p
}

func (a *App) render(w http.ResponseWriter, status int, p Page) {
	var buf bytes.Buffer
	if err := a.tmpl.ExecuteTemplate(&buf, "form.html", p); err != nil {
		a.logger.Error("failed to render form", "error", err)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	w.Write(buf.Bytes())
}
