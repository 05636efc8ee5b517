// package formatter renders recommendation results as plain text, CSV, Markdown or JSON
package formatter

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/desertthunder/lagu/internal/models"
	"github.com/desertthunder/lagu/internal/shared"
)

// Format names an output format.
type Format string

const (
	FormatText     Format = "text"
	FormatJSON     Format = "json"
	FormatCSV      Format = "csv"
	FormatMarkdown Format = "markdown"
)

// Formats lists the supported formats.
var Formats = []Format{FormatText, FormatJSON, FormatCSV, FormatMarkdown}

// ParseFormat converts a flag value into a Format. "md" is accepted for Markdown.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(s) {
	case "", "text", "txt":
		return FormatText, nil
	case "json":
		return FormatJSON, nil
	case "csv":
		return FormatCSV, nil
	case "markdown", "md":
		return FormatMarkdown, nil
	default:
		return "", fmt.Errorf("%w: unknown format %q", shared.ErrInvalidFlag, s)
	}
}

// Extension returns the file extension for the format, including the dot.
func (f Format) Extension() string {
	switch f {
	case FormatJSON:
		return ".json"
	case FormatCSV:
		return ".csv"
	case FormatMarkdown:
		return ".md"
	default:
		return ".txt"
	}
}

// Report pairs a request with the recommendations it produced.
type Report struct {
	Request         models.RecommendRequest `json:"request"`
	Recommendations []models.Recommendation `json:"recommendations"`
}

// ExportToCSV writes one row per recommendation with columns: Rank, Judul Lagu, Artis, Skor Hybrid, Spotify URL
func ExportToCSV(report *Report) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	headers := []string{"Rank", "Judul Lagu", "Artis", "Skor Hybrid", "Spotify URL"}
	if err := writer.Write(headers); err != nil {
		return nil, fmt.Errorf("failed to write CSV headers: %w", err)
	}

	for i, rec := range report.Recommendations {
		record := []string{
			fmt.Sprint(i + 1),
			rec.SongTitle,
			rec.ArtistName,
			rec.Score(),
			rec.SpotifyURL,
		}
		if err := writer.Write(record); err != nil {
			return nil, fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("CSV writer error: %w", err)
	}

	return buf.Bytes(), nil
}

// ExportToMarkdown renders the request as a header block and the results as a linked, numbered list
func ExportToMarkdown(report *Report) ([]byte, error) {
	var buf bytes.Buffer
	req := report.Request

	buf.WriteString("# Rekomendasi Lagu\n\n")
	buf.WriteString(fmt.Sprintf("**User ID**: %s\n", req.UserID))
	buf.WriteString(fmt.Sprintf("**Judul Lagu**: %s\n", req.SongTitle))
	buf.WriteString(fmt.Sprintf("**Artis**: %s\n", req.Artist))
	buf.WriteString(fmt.Sprintf("**Genre**: %s\n", req.Genre))
	buf.WriteString(fmt.Sprintf("**top_n**: %s\n\n", req.TopN))

	buf.WriteString("## Hasil\n\n")
	if len(report.Recommendations) == 0 {
		buf.WriteString("_Tidak ada rekomendasi._\n")
	}
	for i, rec := range report.Recommendations {
		label := rec.Label()
		if rec.SpotifyURL != "" {
			label = fmt.Sprintf("[%s](%s)", label, rec.SpotifyURL)
		}
		buf.WriteString(fmt.Sprintf("%d. %s (Skor: %s)\n", i+1, label, rec.Score()))
	}

	return buf.Bytes(), nil
}

// ExportToText renders each recommendation as "Title - Artist" followed by its score
func ExportToText(report *Report) ([]byte, error) {
	var buf bytes.Buffer

	for i, rec := range report.Recommendations {
		buf.WriteString(fmt.Sprintf("%d. %s\n", i+1, rec.Label()))
		buf.WriteString(fmt.Sprintf("   Skor: %s\n", rec.Score()))
		if rec.SpotifyURL != "" {
			buf.WriteString(fmt.Sprintf("   %s\n", rec.SpotifyURL))
		}
	}

	return buf.Bytes(), nil
}

// ExportToJSON encodes the report, indented when pretty is set
func ExportToJSON(report *Report, pretty bool) ([]byte, error) {
	var (
		data []byte
		err  error
	)
	if pretty {
		data, err = json.MarshalIndent(report, "", "  ")
	} else {
		data, err = json.Marshal(report)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to marshal JSON: %w", err)
	}
	return append(data, '\n'), nil
}

// Export renders the report in the given format.
func Export(report *Report, format Format) ([]byte, error) {
	switch format {
	case FormatJSON:
		return ExportToJSON(report, true)
	case FormatCSV:
		return ExportToCSV(report)
	case FormatMarkdown:
		return ExportToMarkdown(report)
	case FormatText:
		return ExportToText(report)
	default:
		return nil, fmt.Errorf("%w: unknown format %q", shared.ErrInvalidFlag, format)
	}
}

// WriteExport renders the report and writes it to path, creating parent directories.
//
// An empty path defaults to recommendations{ext} in the working directory.
func WriteExport(report *Report, format Format, path string) (string, error) {
	if path == "" {
		path = "recommendations" + format.Extension()
	}

	data, err := Export(report, format)
	if err != nil {
		return "", fmt.Errorf("failed to generate %s: %w", format, err)
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return "", fmt.Errorf("failed to create directory: %w", err)
		}
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write %s file: %w", format, err)
	}

	return path, nil
}
