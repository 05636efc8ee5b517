// package testing contains shared testing utilities
package testing

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"sync"
	"testing"

	"github.com/desertthunder/lagu/internal/models"
)

// MockRecommender is a test double for [services.Recommender].
//
// Nil funcs return an empty catalog and no recommendations.
type MockRecommender struct {
	CatalogFunc   func(ctx context.Context) ([]models.Song, error)
	RecommendFunc func(ctx context.Context, req models.RecommendRequest) ([]models.Recommendation, error)

	mu           sync.Mutex
	catalogCalls int
	requests     []models.RecommendRequest
}

func (m *MockRecommender) FetchCatalog(ctx context.Context) ([]models.Song, error) {
	m.mu.Lock()
	m.catalogCalls++
	m.mu.Unlock()

	if m.CatalogFunc == nil {
		return []models.Song{}, nil
	}
	return m.CatalogFunc(ctx)
}

func (m *MockRecommender) Recommend(ctx context.Context, req models.RecommendRequest) ([]models.Recommendation, error) {
	m.mu.Lock()
	m.requests = append(m.requests, req)
	m.mu.Unlock()

	if m.RecommendFunc == nil {
		return nil, nil
	}
	return m.RecommendFunc(ctx, req)
}

// CatalogCalls returns how many times FetchCatalog ran.
func (m *MockRecommender) CatalogCalls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.catalogCalls
}

// Requests returns a copy of every request passed to Recommend.
func (m *MockRecommender) Requests() []models.RecommendRequest {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]models.RecommendRequest(nil), m.requests...)
}

// Collaborator is a fake recommendation API served over httptest.
type Collaborator struct {
	*httptest.Server

	// CatalogStatus defaults to 200.
	CatalogStatus int
	Songs         []models.Song
	// Respond produces the status and JSON body for each POST /recommend.
	Respond func(req models.RecommendRequest) (int, any)

	mu     sync.Mutex
	bodies [][]byte
}

// NewCollaborator starts a fake API and closes it when the test ends.
func NewCollaborator(t *testing.T, songs []models.Song) *Collaborator {
	t.Helper()

	c := &Collaborator{CatalogStatus: http.StatusOK, Songs: songs}
	mux := http.NewServeMux()
	mux.HandleFunc("GET /lagu", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, c.CatalogStatus, c.Songs)
	})
	mux.HandleFunc("POST /recommend", func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		c.mu.Lock()
		c.bodies = append(c.bodies, body)
		c.mu.Unlock()

		var req models.RecommendRequest
		_ = json.Unmarshal(body, &req)

		if c.Respond == nil {
			writeJSON(w, http.StatusOK, models.RecommendResponse{Recommendations: []models.Recommendation{}})
			return
		}
		status, payload := c.Respond(req)
		writeJSON(w, status, payload)
	})

	c.Server = httptest.NewServer(mux)
	t.Cleanup(c.Server.Close)
	return c
}

// Bodies returns the raw JSON bodies received on POST /recommend.
func (c *Collaborator) Bodies() [][]byte {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([][]byte(nil), c.bodies...)
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if raw, ok := payload.(string); ok {
		io.WriteString(w, raw)
		return
	}
	json.NewEncoder(w).Encode(payload)
}

// SampleSongs returns a small catalog with a repeated artist.
func SampleSongs() []models.Song {
	return []models.Song{
		{Title: "Sempurna", Artist: "Andra and The Backbone"},
		{Title: "Kangen", Artist: "Dewa 19"},
		{Title: "Separuh Nafas", Artist: "Dewa 19"},
		{Title: "Sephia", Artist: "Sheila on 7"},
		{Title: "Kita", Artist: "Sheila on 7"},
	}
}

// FWriter always returns an error on Write
type FWriter struct{}

func (f *FWriter) Write(p []byte) (n int, err error) {
	return 0, errors.New("write failed")
}

// LimitedWriter fails after a certain number of writes
type LimitedWriter struct {
	maxWrites int
	written   int
	target    io.Writer
}

func (l *LimitedWriter) Write(p []byte) (n int, err error) {
	if l.written >= l.maxWrites {
		return 0, errors.New("write limit exceeded")
	}
	l.written++
	return l.target.Write(p)
}

func NewLimitedWriter(maxWrites, written int, target io.Writer) LimitedWriter {
	return LimitedWriter{maxWrites: maxWrites, written: written, target: target}
}

// MockRoundTripper allows custom HTTP responses for testing
type MockRoundTripper struct {
	response *http.Response
	err      error
}

func NewMockRoundTripper(r *http.Response, e error) *MockRoundTripper {
	return &MockRoundTripper{response: r, err: e}
}

func (m *MockRoundTripper) RoundTrip(*http.Request) (*http.Response, error) {
	return m.response, m.err
}

// FCloser simulates a failure when reading response body
type FCloser struct{}

func (f *FCloser) Read(p []byte) (n int, err error) {
	return 0, errors.New("read failed")
}

func (f *FCloser) Close() error {
	return nil
}

func AssertFileExists(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Errorf("File does not exist: %s", path)
	}
}

func MustReadFile(t *testing.T, path string) string {
	t.Helper()
	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read file %s: %v", path, err)
	}
	return string(content)
}
