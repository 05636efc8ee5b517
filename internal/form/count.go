package form

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"unicode"

	"github.com/desertthunder/lagu/internal/models"
	"github.com/desertthunder/lagu/internal/shared"
)

// Count widget bounds. They are hints for the input controls only; values outside
// the range are sent unchanged.
const (
	MinCount     = 1
	MaxCount     = 20
	DefaultCount = "10"
)

// ParseCount reads the leading base-10 integer of s.
//
// Leading whitespace and one sign character are accepted and anything after the
// digits is ignored, so "12abc" is 12 and "3.7" is 3. Text without leading digits
// yields NaN. A digit run too long for an int is clamped to [math.MaxInt] or
// [math.MinInt]; the collaborator sees a huge count either way.
func ParseCount(s string) models.TopN {
	s = strings.TrimLeftFunc(s, unicode.IsSpace)

	end := 0
	if end < len(s) && (s[end] == '+' || s[end] == '-') {
		end++
	}
	start := end
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	if end == start {
		return models.NaN()
	}

	n, err := strconv.Atoi(s[:end])
	if err != nil && !errors.Is(err, strconv.ErrRange) {
		return models.NaN()
	}
	return models.Count(n)
}

// BuildRequest converts the form record into the POST /recommend body.
func BuildRequest(fs models.FormState) models.RecommendRequest {
	return models.RecommendRequest{
		UserID:    fs.ListenerID,
		SongTitle: fs.SongTitle,
		Artist:    fs.Artist,
		Genre:     fs.Genre,
		TopN:      ParseCount(fs.Count),
	}
}

// Validate checks the required fields. The count is not validated.
func Validate(fs models.FormState) error {
	var missing []string
	if fs.ListenerID == "" {
		missing = append(missing, "User ID")
	}
	if fs.SongTitle == "" {
		missing = append(missing, "Judul Lagu")
	}
	if fs.Artist == "" {
		missing = append(missing, "Artis")
	}
	if fs.Genre == "" {
		missing = append(missing, "Genre")
	}

	if len(missing) > 0 {
		return fmt.Errorf("%w: %s", shared.ErrMissingArgument, strings.Join(missing, ", "))
	}
	return nil
}
