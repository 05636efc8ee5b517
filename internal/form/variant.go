package form

import (
	"fmt"
	"slices"

	"github.com/desertthunder/lagu/internal/shared"
)

// Variant selects how the title and artist fields derive from each other.
type Variant int

const (
	TitleFirst Variant = iota
	ArtistFirst
)

func (v Variant) String() string {
	switch v {
	case TitleFirst:
		return "title-first"
	case ArtistFirst:
		return "artist-first"
	default:
		return "unknown"
	}
}

// ParseVariant converts a config or flag value into a Variant.
func ParseVariant(s string) (Variant, error) {
	switch s {
	case "title-first", "title", "a":
		return TitleFirst, nil
	case "artist-first", "artist", "b":
		return ArtistFirst, nil
	default:
		return TitleFirst, fmt.Errorf("%w: unknown form variant %q", shared.ErrInvalidArgument, s)
	}
}

// RacePolicy decides which response wins when submissions overlap.
type RacePolicy int

const (
	// LastArrival lets whichever response resolves last overwrite the display.
	LastArrival RacePolicy = iota
	// LatestSubmission discards responses belonging to an older submission.
	LatestSubmission
)

func (p RacePolicy) String() string {
	switch p {
	case LastArrival:
		return "last-arrival"
	case LatestSubmission:
		return "latest-submission"
	default:
		return "unknown"
	}
}

// ParseRacePolicy converts a config value into a RacePolicy.
func ParseRacePolicy(s string) (RacePolicy, error) {
	switch s {
	case "last-arrival":
		return LastArrival, nil
	case "latest-submission":
		return LatestSubmission, nil
	default:
		return LastArrival, fmt.Errorf("%w: unknown race policy %q", shared.ErrInvalidArgument, s)
	}
}

// Genres is the fixed tag set offered by the artist-first form.
var Genres = []string{
	"pop",
	"rock",
	"jazz",
	"hip hop",
	"r&b",
	"electronic",
	"dangdut",
	"indie",
	"classical",
	"country",
	"k-pop",
}

// IsGenre reports whether tag is one of [Genres].
func IsGenre(tag string) bool {
	return slices.Contains(Genres, tag)
}
