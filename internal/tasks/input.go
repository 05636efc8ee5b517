package tasks

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/desertthunder/lagu/internal/form"
	"github.com/desertthunder/lagu/internal/models"
	"github.com/desertthunder/lagu/internal/shared"
)

var queryColumns = []string{"user_id", "judul_lagu", "artis", "genre", "top_n"}

// ReadQueries parses CSV form records. The header row is required; top_n may be
// omitted, in which case every row uses [form.DefaultCount].
func ReadQueries(r io.Reader) ([]models.FormState, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%w: empty query file", shared.ErrInvalidInput)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrInvalidInput, err)
	}

	index := map[string]int{}
	for i, name := range header {
		index[strings.ToLower(strings.TrimSpace(name))] = i
	}
	for _, col := range queryColumns[:4] {
		if _, ok := index[col]; !ok {
			return nil, fmt.Errorf("%w: missing column %q", shared.ErrInvalidInput, col)
		}
	}

	field := func(record []string, col string) string {
		i, ok := index[col]
		if !ok || i >= len(record) {
			return ""
		}
		return strings.TrimSpace(record[i])
	}

	var queries []models.FormState
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %v", shared.ErrInvalidInput, err)
		}

		count := form.DefaultCount
		if _, ok := index["top_n"]; ok {
			count = field(record, "top_n")
		}

		queries = append(queries, models.FormState{
			ListenerID: field(record, "user_id"),
			SongTitle:  field(record, "judul_lagu"),
			Artist:     field(record, "artis"),
			Genre:      field(record, "genre"),
			Count:      count,
		})
	}

	return queries, nil
}

// ReadQueriesFile opens path and parses it with [ReadQueries].
func ReadQueriesFile(path string) ([]models.FormState, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open query file: %w", err)
	}
	defer f.Close()

	return ReadQueries(f)
}
