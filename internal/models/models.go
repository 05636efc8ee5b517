// package models defines the data model for the song recommendation client
package models

import (
	"encoding/json"
	"fmt"
	"math"
	"math/big"
	"strconv"
)

// Song is a catalog entry returned by GET /lagu. Additional fields in the payload are ignored.
type Song struct {
	Title  string `json:"title"`
	Artist string `json:"artist"`
}

// String renders the song the way result rows and option lists show it.
func (s Song) String() string {
	return fmt.Sprintf("%s - %s", s.Title, s.Artist)
}

// Recommendation is one ranked row returned by POST /recommend.
type Recommendation struct {
	SongTitle   string  `json:"Judul Lagu"`
	ArtistName  string  `json:"Artis"`
	HybridScore float64 `json:"Skor Hybrid"`
	SpotifyURL  string  `json:"spotify_url"`
}

// Label renders "Title - Artist".
func (r Recommendation) Label() string {
	return fmt.Sprintf("%s - %s", r.SongTitle, r.ArtistName)
}

// Score renders the hybrid score with exactly three decimals.
//
// Rounding works on the exact binary value and sends halves away from zero, so
// 0.0625 is "0.063" while 1.0005, stored just below the half, stays "1.000".
func (r Recommendation) Score() string {
	if math.IsNaN(r.HybridScore) || math.IsInf(r.HybridScore, 0) {
		return strconv.FormatFloat(r.HybridScore, 'f', 3, 64)
	}
	return new(big.Rat).SetFloat64(r.HybridScore).FloatString(3)
}

// FormState is the record bound to the form controls.
//
// Count holds the raw text of the count widget; it is converted to [TopN] only when a request is built.
type FormState struct {
	ListenerID string `json:"user_id"`
	SongTitle  string `json:"judul_lagu"`
	Artist     string `json:"artis"`
	Genre      string `json:"genre"`
	Count      string `json:"top_n"`
}

// TopN is the requested number of recommendations.
//
// A count that does not parse as a number is carried as NaN and encoded as JSON null.
type TopN struct {
	N   int
	NaN bool
}

// NaN returns the "not a number" count.
func NaN() TopN { return TopN{NaN: true} }

// Count returns a numeric count.
func Count(n int) TopN { return TopN{N: n} }

func (t TopN) String() string {
	if t.NaN {
		return "NaN"
	}
	return strconv.Itoa(t.N)
}

func (t TopN) MarshalJSON() ([]byte, error) {
	if t.NaN {
		return []byte("null"), nil
	}
	return json.Marshal(t.N)
}

func (t *TopN) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*t = NaN()
		return nil
	}

	var n int
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("top_n: %w", err)
	}
	*t = Count(n)
	return nil
}

// RecommendRequest is the body of POST /recommend.
type RecommendRequest struct {
	UserID    string `json:"user_id"`
	SongTitle string `json:"judul_lagu"`
	Artist    string `json:"artis"`
	Genre     string `json:"genre"`
	TopN      TopN   `json:"top_n"`
}

// RecommendResponse is the success envelope of POST /recommend.
//
// Recommendations is nil when the field is absent or null; an empty JSON array
// decodes to an empty, non-nil slice.
type RecommendResponse struct {
	Recommendations []Recommendation `json:"recommendations"`
}

// ErrorResponse is the failure envelope of POST /recommend.
type ErrorResponse struct {
	Message string `json:"message"`
}
