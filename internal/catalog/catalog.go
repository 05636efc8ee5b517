// Package catalog loads the song catalog once and derives the option lists the form offers.
//
// A failed load is logged and leaves every list empty; it never reaches the user.
package catalog

import (
	"context"
	"strings"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/lagu/internal/models"
)

// Source fetches the full catalog. [services.Recommender] satisfies it.
type Source interface {
	FetchCatalog(ctx context.Context) ([]models.Song, error)
}

// Loader holds the catalog in memory after a single fetch.
type Loader struct {
	source Source
	logger *log.Logger

	once    sync.Once
	mu      sync.RWMutex
	songs   []models.Song
	artists []string
	err     error
}

// NewLoader creates a Loader for the given source.
func NewLoader(source Source, logger *log.Logger) *Loader {
	if logger == nil {
		logger = log.Default()
	}
	return &Loader{source: source, logger: logger}
}

// Load fetches the catalog on the first call; later calls return immediately.
//
// The returned error is informational. Callers that mirror the form ignore it: a
// failed load leaves Songs and Artists empty.
func (l *Loader) Load(ctx context.Context) error {
	l.once.Do(func() {
		songs, err := l.source.FetchCatalog(ctx)

		l.mu.Lock()
		defer l.mu.Unlock()

		if err != nil {
			l.err = err
			l.logger.Warn("Gagal mengambil lagu:", "error", err)
			return
		}

		l.songs = songs
		l.artists = UniqueArtists(songs)
		l.logger.Info("catalog loaded", "songs", len(songs), "artists", len(l.artists))
	})

	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.err
}

// Songs returns a copy of the catalog.
func (l *Loader) Songs() []models.Song {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return append([]models.Song{}, l.songs...)
}

// Snapshot is a copy of the catalog and its derived artist list.
type Snapshot struct {
	Songs   []models.Song
	Artists []string
}

// Snapshot returns both lists under one lock.
func (l *Loader) Snapshot() Snapshot {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return Snapshot{
		Songs:   append([]models.Song{}, l.songs...),
		Artists: append([]string{}, l.artists...),
	}
}

// UniqueArtists returns the distinct artist names in order of first occurrence.
// Names are compared with exact string equality.
func UniqueArtists(songs []models.Song) []string {
	seen := make(map[string]struct{}, len(songs))
	artists := make([]string, 0, len(songs))
	for _, s := range songs {
		if _, ok := seen[s.Artist]; ok {
			continue
		}
		seen[s.Artist] = struct{}{}
		artists = append(artists, s.Artist)
	}
	return artists
}

// FilterByTitlePrefix returns songs whose title starts with prefix, ignoring case.
// An empty prefix matches every song.
func FilterByTitlePrefix(songs []models.Song, prefix string) []models.Song {
	p := strings.ToLower(prefix)
	out := make([]models.Song, 0, len(songs))
	for _, s := range songs {
		if strings.HasPrefix(strings.ToLower(s.Title), p) {
			out = append(out, s)
		}
	}
	return out
}

// FilterByArtist returns songs whose artist equals artist exactly.
func FilterByArtist(songs []models.Song, artist string) []models.Song {
	out := make([]models.Song, 0, len(songs))
	for _, s := range songs {
		if s.Artist == artist {
			out = append(out, s)
		}
	}
	return out
}

// FindByTitle returns the first song with exactly the given title.
func FindByTitle(songs []models.Song, title string) (models.Song, bool) {
	for _, s := range songs {
		if s.Title == title {
			return s, true
		}
	}
	return models.Song{}, false
}
