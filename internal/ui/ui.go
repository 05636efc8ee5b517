package ui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/desertthunder/lagu/internal/catalog"
	"github.com/desertthunder/lagu/internal/form"
	"github.com/desertthunder/lagu/internal/models"
	"github.com/desertthunder/lagu/internal/shared"
)

// Field identifies the focused control.
type Field int

const (
	UserField Field = iota
	SongField
	ArtistField
	GenreField
	CountField
	SubmitField
	ResultsField
)

const maxSuggestions = 6

var openURL = shared.OpenBrowser

// Model represents the TUI application state.
type Model struct {
	ctx     context.Context
	client  form.Client
	loader  *catalog.Loader
	form    *form.Form
	machine *form.Machine
	logger  *log.Logger

	width  int
	height int
	focus  Field

	inputs      map[Field]*textinput.Model
	songs       []models.Song
	artists     []string
	cursor      int
	genreIndex  int
	results     list.Model
	spinner     spinner.Model
	notice      string
	help        help.Model
	keys        keyMap
	catalogDone bool
}

// Options configures a [Model].
type Options struct {
	Client  form.Client
	Loader  *catalog.Loader
	Variant form.Variant
	Policy  form.RacePolicy
	Count   string
	Logger  *log.Logger
}

// NewModel creates a new TUI model with the provided dependencies.
func NewModel(ctx context.Context, opts Options) *Model {
	if opts.Logger == nil {
		opts.Logger = log.Default()
	}

	m := &Model{
		ctx:        ctx,
		client:     opts.Client,
		loader:     opts.Loader,
		form:       form.New(opts.Variant, opts.Count),
		machine:    form.NewMachine(opts.Policy),
		logger:     opts.Logger,
		inputs:     map[Field]*textinput.Model{},
		genreIndex: -1,
		results:    newResultList(60, 12),
		spinner:    spinner.New(spinner.WithSpinner(spinner.Dot)),
		help:       help.New(),
		keys:       newKeyMap(),
	}

	for _, f := range []Field{UserField, SongField, ArtistField, GenreField, CountField} {
		ti := textinput.New()
		ti.Prompt = "› "
		m.inputs[f] = &ti
	}
	m.inputs[UserField].Placeholder = "user id"
	m.inputs[SongField].Placeholder = "ketik judul lagu"
	m.inputs[ArtistField].Placeholder = "artis"
	m.inputs[GenreField].Placeholder = "genre"
	m.inputs[CountField].SetValue(m.form.Values().Count)
	if opts.Variant == form.ArtistFirst {
		m.inputs[ArtistField].Placeholder = "ketik nama artis"
		m.inputs[SongField].Placeholder = "pilih artis dulu"
	}

	m.inputs[UserField].Focus()
	return m
}

// Form exposes the underlying form for inspection.
func (m *Model) Form() *form.Form { return m.form }

// State returns the current display state.
func (m *Model) State() form.State { return m.machine.State() }

// Init starts the single catalog fetch.
func (m *Model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.loadCatalog())
}

// Update handles incoming messages and updates the model state.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.results.SetSize(max(msg.Width-4, 20), max(msg.Height/3, 6))
		return m, nil

	case catalogLoadedMsg:
		m.catalogDone = true
		m.form.SetCatalog(msg.snapshot)
		m.refreshSuggestions()
		return m, nil

	case resolvedMsg:
		if msg.applied {
			m.showState(msg.generation, msg.state)
		}
		return m, nil

	case browserOpenedMsg:
		if msg.err != nil {
			m.notice = fmt.Sprintf("gagal membuka %s: %v", msg.url, msg.err)
		}
		return m, nil

	case spinner.TickMsg:
		if !m.machine.State().Busy() {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	return m, nil
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.submit):
		return m, m.submit()
	case key.Matches(msg, m.keys.next):
		return m, m.setFocus(m.nextField(1))
	case key.Matches(msg, m.keys.prev):
		return m, m.setFocus(m.nextField(-1))
	}

	switch m.focus {
	case SongField, ArtistField:
		if handled, cmd := m.handleSuggestionKey(msg); handled {
			return m, cmd
		}
	case GenreField:
		if m.form.Variant() == form.ArtistFirst {
			m.handleGenreKey(msg)
			return m, nil
		}
	case SubmitField:
		if key.Matches(msg, m.keys.choose) {
			return m, m.submit()
		}
		return m, nil
	case ResultsField:
		if key.Matches(msg, m.keys.open, m.keys.choose) {
			return m, m.openSelected()
		}
		var cmd tea.Cmd
		m.results, cmd = m.results.Update(msg)
		return m, cmd
	}

	return m, m.updateInput(msg)
}

// handleSuggestionKey moves through and picks from the option list under the
// song or artist input.
func (m *Model) handleSuggestionKey(msg tea.KeyMsg) (bool, tea.Cmd) {
	count := len(m.songs)
	if m.focus == ArtistField {
		if m.form.Variant() != form.ArtistFirst {
			return false, nil
		}
		count = len(m.artists)
	}

	switch {
	case key.Matches(msg, m.keys.up):
		if m.cursor > 0 {
			m.cursor--
		}
		return true, nil
	case key.Matches(msg, m.keys.down):
		if m.cursor < min(count, maxSuggestions)-1 {
			m.cursor++
		}
		return true, nil
	case key.Matches(msg, m.keys.choose):
		if count == 0 {
			return true, nil
		}
		if m.focus == SongField {
			m.form.SelectSong(m.songs[m.cursor])
		} else {
			m.form.SetArtist(m.artists[m.cursor])
		}
		m.syncInputs()
		return true, m.setFocus(m.nextField(1))
	case key.Matches(msg, m.keys.clear) && m.focus == SongField:
		m.form.ClearSong()
		m.syncInputs()
		return true, nil
	}
	return false, nil
}

func (m *Model) handleGenreKey(msg tea.KeyMsg) {
	genres := m.form.GenreOptions()
	switch {
	case key.Matches(msg, m.keys.right):
		m.genreIndex = (m.genreIndex + 1) % len(genres)
	case key.Matches(msg, m.keys.left):
		if m.genreIndex <= 0 {
			m.genreIndex = len(genres) - 1
		} else {
			m.genreIndex--
		}
	default:
		return
	}
	if err := m.form.SetGenre(genres[m.genreIndex]); err != nil {
		m.notice = err.Error()
	}
}

// updateInput forwards the key to the focused text input and copies its value
// into the form.
func (m *Model) updateInput(msg tea.KeyMsg) tea.Cmd {
	ti, ok := m.inputs[m.focus]
	if !ok {
		return nil
	}

	before := ti.Value()
	updated, cmd := ti.Update(msg)
	*ti = updated
	value := ti.Value()
	if value == before {
		return cmd
	}

	switch m.focus {
	case UserField:
		m.form.SetListenerID(value)
	case SongField:
		if value == "" {
			m.form.ClearSong()
			m.syncInputs()
		}
	case ArtistField:
		if m.form.Variant() == form.TitleFirst {
			m.form.SetArtist(value)
		}
	case GenreField:
		m.form.SetGenre(value)
	case CountField:
		m.form.SetCount(value)
	}

	m.refreshSuggestions()
	return cmd
}

// syncInputs copies derived field values back into the inputs.
func (m *Model) syncInputs() {
	v := m.form.Values()
	m.inputs[SongField].SetValue(v.SongTitle)
	m.inputs[ArtistField].SetValue(v.Artist)
	m.refreshSuggestions()
}

func (m *Model) refreshSuggestions() {
	m.cursor = 0

	query := m.inputs[SongField].Value()
	if query == m.form.Values().SongTitle {
		query = ""
	}
	m.songs = m.form.SongOptions(query)

	m.artists = m.artists[:0]
	if m.form.Variant() == form.ArtistFirst {
		typed := strings.ToLower(m.inputs[ArtistField].Value())
		if typed == strings.ToLower(m.form.Values().Artist) {
			typed = ""
		}
		for _, a := range m.form.ArtistOptions() {
			if strings.HasPrefix(strings.ToLower(a), typed) {
				m.artists = append(m.artists, a)
			}
		}
	}
}

// fields returns the focus order. The artist-first form asks for the artist
// before the song.
func (m *Model) fields() []Field {
	fields := []Field{UserField, SongField, ArtistField, GenreField, CountField, SubmitField}
	if m.form.Variant() == form.ArtistFirst {
		fields[1], fields[2] = ArtistField, SongField
	}
	if m.machine.State().Status == form.ShowingResults {
		fields = append(fields, ResultsField)
	}
	return fields
}

func (m *Model) nextField(step int) Field {
	fields := m.fields()
	idx := 0
	for i, f := range fields {
		if f == m.focus {
			idx = i
		}
	}
	n := len(fields)
	return fields[(idx+step+n)%n]
}

func (m *Model) setFocus(f Field) tea.Cmd {
	if ti, ok := m.inputs[m.focus]; ok {
		ti.Blur()
	}
	m.focus = f
	m.cursor = 0
	if ti, ok := m.inputs[f]; ok {
		return ti.Focus()
	}
	return nil
}

// submit starts a submission. The submit control stays enabled while a request
// is in flight.
func (m *Model) submit() tea.Cmd {
	ticking := m.machine.State().Busy()
	sub, err := m.machine.Submit(m.form.Values())
	if err != nil {
		m.notice = err.Error()
		return nil
	}

	m.notice = ""
	m.results.SetItems(nil)
	if m.focus == ResultsField {
		m.setFocus(SubmitField)
	}
	m.logger.Info("submitting", "generation", sub.Generation, "top_n", sub.Request.TopN)
	if ticking {
		return m.recommend(sub)
	}
	return tea.Batch(m.spinner.Tick, m.recommend(sub))
}

func (m *Model) recommend(sub form.Submission) tea.Cmd {
	return func() tea.Msg {
		state, applied := m.machine.Execute(m.ctx, m.client, sub)
		if state.Status == form.ShowingError {
			m.logger.Warn("recommendation failed", "generation", sub.Generation, "error", state.Message)
		}
		return resolvedMsg{generation: sub.Generation, state: state, applied: applied}
	}
}

func (m *Model) showState(generation uint64, state form.State) {
	if state.Status != form.ShowingResults {
		m.results.SetItems(nil)
		if m.focus == ResultsField {
			m.setFocus(SubmitField)
		}
		return
	}
	m.logger.Debug("showing results", "generation", generation, "count", len(state.Results))
	m.results.SetItems(resultItems(state.Results))
	m.results.Select(0)
}

func (m *Model) loadCatalog() tea.Cmd {
	return func() tea.Msg {
		if m.loader == nil {
			return catalogLoadedMsg{}
		}
		m.loader.Load(m.ctx)
		return catalogLoadedMsg{snapshot: m.loader.Snapshot()}
	}
}

func (m *Model) openSelected() tea.Cmd {
	item, ok := m.results.SelectedItem().(resultItem)
	if !ok || item.rec.SpotifyURL == "" {
		return nil
	}
	url := item.rec.SpotifyURL
	return func() tea.Msg {
		return browserOpenedMsg{url: url, err: openURL(url)}
	}
}

// View renders the form, the submit control, the error banner and the results.
func (m *Model) View() string {
	var b strings.Builder

	b.WriteString(styles.title.Render("SISTEM REKOMENDASI LAGU"))
	b.WriteString("\n")
	b.WriteString(styles.subtitle.Render("SELAMAT MENDENGARKAN"))
	b.WriteString("\n")

	b.WriteString(m.renderInput(UserField, "User ID *"))
	if m.form.Variant() == form.ArtistFirst {
		b.WriteString(m.renderArtistField())
		b.WriteString(m.renderSongField())
	} else {
		b.WriteString(m.renderSongField())
		b.WriteString(m.renderArtistField())
	}
	b.WriteString(m.renderGenreField())
	b.WriteString(m.renderInput(CountField, fmt.Sprintf("Jumlah Rekomendasi (top_n) [%d-%d]", form.MinCount, form.MaxCount)))
	b.WriteString("\n")
	b.WriteString(m.renderButton())
	b.WriteString("\n")

	if m.notice != "" {
		b.WriteString(styles.warn.Render(m.notice))
		b.WriteString("\n")
	}
	if !m.catalogDone {
		b.WriteString(styles.help.Render("memuat daftar lagu..."))
		b.WriteString("\n")
	}

	state := m.machine.State()
	switch state.Status {
	case form.ShowingError:
		b.WriteString("\n")
		b.WriteString(styles.banner.Render(state.Message))
		b.WriteString("\n")
	case form.ShowingResults:
		b.WriteString("\n")
		b.WriteString(m.results.View())
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(m.help.View(m.keys))
	return b.String()
}

func (m *Model) renderLabel(f Field, label string) string {
	if m.focus == f {
		return styles.focused.Render(label)
	}
	return styles.label.Render(label)
}

func (m *Model) renderInput(f Field, label string) string {
	return fmt.Sprintf("%s\n%s\n", m.renderLabel(f, label), m.inputs[f].View())
}

func (m *Model) renderSongField() string {
	out := m.renderInput(SongField, "Judul Lagu *")
	if m.focus != SongField {
		return out
	}

	labels := make([]string, 0, len(m.songs))
	for _, s := range m.songs {
		if m.form.Variant() == form.TitleFirst {
			labels = append(labels, s.String())
		} else {
			labels = append(labels, s.Title)
		}
	}
	return out + m.renderOptions(labels)
}

func (m *Model) renderArtistField() string {
	out := m.renderInput(ArtistField, "Artis *")
	if m.focus != ArtistField || m.form.Variant() != form.ArtistFirst {
		return out
	}
	return out + m.renderOptions(m.artists)
}

func (m *Model) renderGenreField() string {
	if m.form.Variant() == form.TitleFirst {
		return m.renderInput(GenreField, "Genre *")
	}

	value := m.form.Values().Genre
	if value == "" {
		value = styles.help.Render("← pilih genre →")
	} else {
		value = fmt.Sprintf("‹ %s ›", value)
	}
	return fmt.Sprintf("%s\n  %s\n", m.renderLabel(GenreField, "Genre *"), value)
}

func (m *Model) renderOptions(labels []string) string {
	if len(labels) == 0 {
		return styles.help.Render("  (tidak ada pilihan)") + "\n"
	}

	var b strings.Builder
	for i, label := range labels {
		if i == maxSuggestions {
			b.WriteString(styles.help.Render(fmt.Sprintf("  … %d lagi", len(labels)-maxSuggestions)))
			b.WriteString("\n")
			break
		}
		if i == m.cursor {
			b.WriteString(styles.ok.Render("  ▸ " + label))
		} else {
			b.WriteString("    " + label)
		}
		b.WriteString("\n")
	}
	return b.String()
}

func (m *Model) renderButton() string {
	label := "Cari Rekomendasi"
	if m.machine.State().Busy() {
		label = m.spinner.View()
	}
	button := styles.button.Render(label)
	if m.focus == SubmitField {
		button = "▸ " + button
	}
	return button
}
