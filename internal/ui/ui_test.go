package ui

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/lagu/internal/catalog"
	"github.com/desertthunder/lagu/internal/form"
	"github.com/desertthunder/lagu/internal/models"
	"github.com/desertthunder/lagu/internal/shared"
	tu "github.com/desertthunder/lagu/internal/testing"
)

func newTestModel(t *testing.T, variant form.Variant, mock *tu.MockRecommender) *Model {
	t.Helper()

	logger := shared.NewLogger(&bytes.Buffer{})
	m := NewModel(context.Background(), Options{
		Client:  mock,
		Loader:  catalog.NewLoader(mock, logger),
		Variant: variant,
		Policy:  form.LastArrival,
		Logger:  logger,
	})
	m.Update(m.loadCatalog()())
	return m
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func press(m *Model, keys ...tea.KeyMsg) tea.Cmd {
	var cmd tea.Cmd
	for _, k := range keys {
		_, cmd = m.Update(k)
	}
	return cmd
}

// collect runs cmd and flattens batches.
func collect(cmd tea.Cmd) []tea.Msg {
	if cmd == nil {
		return nil
	}
	msg := cmd()
	if batch, ok := msg.(tea.BatchMsg); ok {
		var msgs []tea.Msg
		for _, c := range batch {
			msgs = append(msgs, collect(c)...)
		}
		return msgs
	}
	return []tea.Msg{msg}
}

func deliver(m *Model, cmd tea.Cmd) {
	for _, msg := range collect(cmd) {
		switch msg.(type) {
		case resolvedMsg, browserOpenedMsg:
			m.Update(msg)
		}
	}
}

func catalogMock() *tu.MockRecommender {
	return &tu.MockRecommender{
		CatalogFunc: func(context.Context) ([]models.Song, error) { return tu.SampleSongs(), nil },
	}
}

func fillTitleFirst(m *Model) {
	press(m,
		runes("42"), tea.KeyMsg{Type: tea.KeyTab},
		runes("se"), tea.KeyMsg{Type: tea.KeyDown}, tea.KeyMsg{Type: tea.KeyEnter},
		tea.KeyMsg{Type: tea.KeyTab},
		runes("rock"),
	)
}

func TestModel(t *testing.T) {
	t.Run("Catalog Is Fetched Once", func(t *testing.T) {
		mock := catalogMock()
		m := newTestModel(t, form.TitleFirst, mock)
		m.Update(m.loadCatalog()())

		if mock.CatalogCalls() != 1 {
			t.Errorf("expected 1 catalog fetch, got %d", mock.CatalogCalls())
		}
		if !m.catalogDone {
			t.Error("expected catalog to be marked loaded")
		}
	})

	t.Run("Title First", func(t *testing.T) {
		t.Run("Suggestions Match Title Prefix", func(t *testing.T) {
			m := newTestModel(t, form.TitleFirst, catalogMock())
			press(m, tea.KeyMsg{Type: tea.KeyTab}, runes("SE"))

			if len(m.songs) != 3 {
				t.Fatalf("expected 3 suggestions, got %d", len(m.songs))
			}
			for _, s := range m.songs {
				if !strings.HasPrefix(strings.ToLower(s.Title), "se") {
					t.Errorf("unexpected suggestion %q", s.Title)
				}
			}
		})

		t.Run("Choosing A Song Fills The Artist", func(t *testing.T) {
			m := newTestModel(t, form.TitleFirst, catalogMock())
			fillTitleFirst(m)

			v := m.Form().Values()
			if v.ListenerID != "42" {
				t.Errorf("expected user id 42, got %q", v.ListenerID)
			}
			if v.SongTitle != "Separuh Nafas" {
				t.Errorf("expected Separuh Nafas, got %q", v.SongTitle)
			}
			if v.Artist != "Dewa 19" {
				t.Errorf("expected artist Dewa 19, got %q", v.Artist)
			}
			if v.Genre != "rock" {
				t.Errorf("expected genre rock, got %q", v.Genre)
			}
			if m.inputs[ArtistField].Value() != "Dewa 19" {
				t.Errorf("expected artist input to show Dewa 19, got %q", m.inputs[ArtistField].Value())
			}
		})

		t.Run("Clearing The Song Clears The Artist", func(t *testing.T) {
			m := newTestModel(t, form.TitleFirst, catalogMock())
			fillTitleFirst(m)
			press(m, tea.KeyMsg{Type: tea.KeyShiftTab}, tea.KeyMsg{Type: tea.KeyShiftTab}, tea.KeyMsg{Type: tea.KeyEsc})

			if m.focus != SongField {
				t.Fatalf("expected song field focus, got %d", m.focus)
			}
			v := m.Form().Values()
			if v.SongTitle != "" || v.Artist != "" {
				t.Errorf("expected song and artist cleared, got %+v", v)
			}
		})
	})

	t.Run("Artist First", func(t *testing.T) {
		t.Run("No Songs Until An Artist Is Chosen", func(t *testing.T) {
			m := newTestModel(t, form.ArtistFirst, catalogMock())
			if len(m.songs) != 0 {
				t.Errorf("expected no song options, got %d", len(m.songs))
			}
			if len(m.artists) != 3 {
				t.Errorf("expected 3 unique artists, got %v", m.artists)
			}
		})

		t.Run("Choosing An Artist Narrows Songs", func(t *testing.T) {
			m := newTestModel(t, form.ArtistFirst, catalogMock())
			press(m,
				tea.KeyMsg{Type: tea.KeyTab},
				runes("sh"), tea.KeyMsg{Type: tea.KeyEnter},
			)

			if m.focus != SongField {
				t.Fatalf("expected focus on song field, got %d", m.focus)
			}
			if m.Form().Values().Artist != "Sheila on 7" {
				t.Errorf("expected Sheila on 7, got %q", m.Form().Values().Artist)
			}
			if len(m.songs) != 2 {
				t.Fatalf("expected 2 songs, got %d", len(m.songs))
			}

			press(m, tea.KeyMsg{Type: tea.KeyDown}, tea.KeyMsg{Type: tea.KeyEnter})
			if m.Form().Values().SongTitle != "Kita" {
				t.Errorf("expected Kita, got %q", m.Form().Values().SongTitle)
			}

			press(m, tea.KeyMsg{Type: tea.KeyShiftTab}, tea.KeyMsg{Type: tea.KeyShiftTab}, tea.KeyMsg{Type: tea.KeyDown}, tea.KeyMsg{Type: tea.KeyEnter})
			if m.Form().Values().SongTitle != "" {
				t.Errorf("expected song cleared after artist change, got %q", m.Form().Values().SongTitle)
			}
		})

		t.Run("Genre Cycles Through Fixed Tags", func(t *testing.T) {
			m := newTestModel(t, form.ArtistFirst, catalogMock())
			m.setFocus(GenreField)

			press(m, tea.KeyMsg{Type: tea.KeyRight})
			if got := m.Form().Values().Genre; got != form.Genres[0] {
				t.Errorf("expected %s, got %s", form.Genres[0], got)
			}

			press(m, tea.KeyMsg{Type: tea.KeyLeft})
			if got := m.Form().Values().Genre; got != form.Genres[len(form.Genres)-1] {
				t.Errorf("expected %s, got %s", form.Genres[len(form.Genres)-1], got)
			}

			press(m, runes("metal"))
			if got := m.Form().Values().Genre; got != form.Genres[len(form.Genres)-1] {
				t.Errorf("expected typing to be ignored, got %s", got)
			}
		})
	})

	t.Run("Submit", func(t *testing.T) {
		t.Run("Missing Fields Block Submission", func(t *testing.T) {
			mock := catalogMock()
			m := newTestModel(t, form.TitleFirst, mock)

			cmd := press(m, tea.KeyMsg{Type: tea.KeyCtrlS})
			if cmd != nil {
				t.Error("expected no command")
			}
			if !strings.Contains(m.notice, "User ID") {
				t.Errorf("expected notice naming User ID, got %q", m.notice)
			}
			if len(mock.Requests()) != 0 {
				t.Errorf("expected no requests, got %d", len(mock.Requests()))
			}
		})

		t.Run("Shows Results And Opens Link", func(t *testing.T) {
			mock := catalogMock()
			mock.RecommendFunc = func(context.Context, models.RecommendRequest) ([]models.Recommendation, error) {
				return []models.Recommendation{
					{SongTitle: "Kangen", ArtistName: "Dewa 19", HybridScore: 0.8, SpotifyURL: "https://open.spotify.com/track/k"},
				}, nil
			}
			m := newTestModel(t, form.TitleFirst, mock)
			fillTitleFirst(m)

			cmd := press(m, tea.KeyMsg{Type: tea.KeyCtrlS})
			if !m.State().Busy() {
				t.Fatalf("expected submitting state, got %s", m.State().Status)
			}
			if !strings.Contains(m.View(), m.spinner.View()) {
				t.Error("expected spinner in the submit control")
			}
			deliver(m, cmd)

			reqs := mock.Requests()
			if len(reqs) != 1 {
				t.Fatalf("expected 1 request, got %d", len(reqs))
			}
			if reqs[0].TopN != models.Count(10) {
				t.Errorf("expected top_n 10, got %v", reqs[0].TopN)
			}
			if m.State().Status != form.ShowingResults {
				t.Fatalf("expected showing results, got %s", m.State().Status)
			}
			if !strings.Contains(m.View(), "Kangen - Dewa 19") {
				t.Error("expected result label in view")
			}

			var opened string
			openURL = func(url string) error { opened = url; return nil }
			defer func() { openURL = shared.OpenBrowser }()

			press(m, tea.KeyMsg{Type: tea.KeyTab}, tea.KeyMsg{Type: tea.KeyTab}, tea.KeyMsg{Type: tea.KeyTab})
			if m.focus != ResultsField {
				t.Fatalf("expected results focus, got %d", m.focus)
			}
			deliver(m, press(m, tea.KeyMsg{Type: tea.KeyCtrlO}))
			if opened != "https://open.spotify.com/track/k" {
				t.Errorf("expected spotify url to open, got %q", opened)
			}
		})

		t.Run("Resubmitting While Busy Keeps One Spinner", func(t *testing.T) {
			mock := catalogMock()
			m := newTestModel(t, form.TitleFirst, mock)
			fillTitleFirst(m)

			ticks := func(cmd tea.Cmd) int {
				n := 0
				for _, msg := range collect(cmd) {
					if _, ok := msg.(spinner.TickMsg); ok {
						n++
					}
				}
				return n
			}

			first := press(m, tea.KeyMsg{Type: tea.KeyCtrlS})
			second := press(m, tea.KeyMsg{Type: tea.KeyCtrlS})
			if !m.State().Busy() {
				t.Fatalf("expected submitting state, got %s", m.State().Status)
			}

			if n := ticks(first); n != 1 {
				t.Errorf("expected first submit to start the spinner, got %d ticks", n)
			}
			if n := ticks(second); n != 0 {
				t.Errorf("expected no second tick chain, got %d ticks", n)
			}
			if len(mock.Requests()) != 2 {
				t.Errorf("expected 2 requests, got %d", len(mock.Requests()))
			}
		})

		t.Run("Error Shows Banner", func(t *testing.T) {
			mock := catalogMock()
			mock.RecommendFunc = func(context.Context, models.RecommendRequest) ([]models.Recommendation, error) {
				return nil, errors.New("Lagu tidak ditemukan")
			}
			m := newTestModel(t, form.TitleFirst, mock)
			fillTitleFirst(m)
			deliver(m, press(m, tea.KeyMsg{Type: tea.KeyCtrlS}))

			if m.State().Status != form.ShowingError {
				t.Fatalf("expected showing error, got %s", m.State().Status)
			}
			if !strings.Contains(m.View(), "Lagu tidak ditemukan") {
				t.Error("expected banner text in view")
			}
		})

		t.Run("Empty Results Return To Idle", func(t *testing.T) {
			m := newTestModel(t, form.TitleFirst, catalogMock())
			fillTitleFirst(m)
			deliver(m, press(m, tea.KeyMsg{Type: tea.KeyCtrlS}))

			if m.State().Status != form.Idle {
				t.Errorf("expected idle, got %s", m.State().Status)
			}
		})
	})

	t.Run("View", func(t *testing.T) {
		m := newTestModel(t, form.TitleFirst, catalogMock())
		view := m.View()

		for _, want := range []string{"SISTEM REKOMENDASI LAGU", "SELAMAT MENDENGARKAN", "User ID", "Judul Lagu", "Artis", "Genre", "Jumlah Rekomendasi (top_n)", "Cari Rekomendasi"} {
			if !strings.Contains(view, want) {
				t.Errorf("expected view to contain %q", want)
			}
		}
	})
}
