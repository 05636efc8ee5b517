package form

import (
	"fmt"

	"github.com/desertthunder/lagu/internal/catalog"
	"github.com/desertthunder/lagu/internal/models"
	"github.com/desertthunder/lagu/internal/shared"
)

// Form holds the field values and the option lists derived from the catalog.
//
// A Form is not safe for concurrent use; front ends own one each.
type Form struct {
	variant Variant
	values  models.FormState
	songs   []models.Song
	artists []string
}

// New creates an empty form. An empty defaultCount uses [DefaultCount].
func New(variant Variant, defaultCount string) *Form {
	if defaultCount == "" {
		defaultCount = DefaultCount
	}
	return &Form{
		variant: variant,
		values:  models.FormState{Count: defaultCount},
	}
}

// Variant returns the form's variant.
func (f *Form) Variant() Variant { return f.variant }

// SetCatalog replaces the option lists.
func (f *Form) SetCatalog(snap catalog.Snapshot) {
	f.songs = snap.Songs
	f.artists = snap.Artists
}

// Values returns a copy of the current field values.
func (f *Form) Values() models.FormState { return f.values }

// SetListenerID sets the User ID field.
func (f *Form) SetListenerID(id string) { f.values.ListenerID = id }

// SetCount sets the raw text of the count field.
func (f *Form) SetCount(count string) { f.values.Count = count }

// SetGenre sets the genre. The artist-first form only accepts one of [Genres].
func (f *Form) SetGenre(genre string) error {
	if f.variant == ArtistFirst && genre != "" && !IsGenre(genre) {
		return fmt.Errorf("%w: genre %q is not one of the offered tags", shared.ErrInvalidInput, genre)
	}
	f.values.Genre = genre
	return nil
}

// SetArtist sets the artist.
//
// In the artist-first form a different artist clears the chosen song title.
func (f *Form) SetArtist(artist string) {
	if f.variant == ArtistFirst && artist != f.values.Artist {
		f.values.SongTitle = ""
	}
	f.values.Artist = artist
}

// SelectSong records a chosen song.
//
// The title-first form copies the song's artist into the artist field; the
// artist-first form leaves the artist untouched.
func (f *Form) SelectSong(song models.Song) {
	f.values.SongTitle = song.Title
	if f.variant == TitleFirst {
		f.values.Artist = song.Artist
	}
}

// ClearSong empties the song selection. In the title-first form the artist is
// emptied as well.
func (f *Form) ClearSong() {
	f.values.SongTitle = ""
	if f.variant == TitleFirst {
		f.values.Artist = ""
	}
}

// SongOptions returns the songs the song control offers for the typed query.
//
// Title-first offers every song whose title starts with query. Artist-first
// offers only the chosen artist's songs, narrowed by the same prefix match.
func (f *Form) SongOptions(query string) []models.Song {
	songs := f.songs
	if f.variant == ArtistFirst {
		songs = catalog.FilterByArtist(songs, f.values.Artist)
	}
	return catalog.FilterByTitlePrefix(songs, query)
}

// ArtistOptions returns the unique artist list. Only the artist-first form offers it.
func (f *Form) ArtistOptions() []string {
	if f.variant != ArtistFirst {
		return nil
	}
	return append([]string{}, f.artists...)
}

// GenreOptions returns the fixed genre tags for the artist-first form and nil
// for the free-text title-first form.
func (f *Form) GenreOptions() []string {
	if f.variant != ArtistFirst {
		return nil
	}
	return append([]string{}, Genres...)
}
