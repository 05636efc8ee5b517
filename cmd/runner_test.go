package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/desertthunder/lagu/internal/models"
	"github.com/desertthunder/lagu/internal/shared"
	tu "github.com/desertthunder/lagu/internal/testing"
)

func sampleRecommendations() []models.Recommendation {
	return []models.Recommendation{
		{SongTitle: "Separuh Nafas", ArtistName: "Dewa 19", HybridScore: 0.91234, SpotifyURL: "https://open.spotify.com/track/a"},
		{SongTitle: "Kita", ArtistName: "Sheila on 7", HybridScore: 0.5},
	}
}

// run executes the CLI against a fake collaborator with the default config.
func run(t *testing.T, c *tu.Collaborator, args ...string) (string, error) {
	t.Helper()

	output := &bytes.Buffer{}
	runner := NewRunner(RunnerOpts{
		Config: shared.DefaultConfig(),
		Logger: shared.NewLogger(&bytes.Buffer{}),
		Output: output,
	})

	argv := append([]string{"lagu", "--api-url", c.URL}, args...)
	err := newApp(runner).Run(context.Background(), argv)
	return output.String(), err
}

func TestRunner(t *testing.T) {
	t.Run("NewRunner", func(t *testing.T) {
		t.Run("with all dependencies provided", func(t *testing.T) {
			config := shared.DefaultConfig()
			logger := shared.NewLogger(nil)
			output := &bytes.Buffer{}
			httpClient := &http.Client{}
			client := &tu.MockRecommender{}

			runner := NewRunner(RunnerOpts{
				Config:     config,
				ConfigPath: "/test/path/config.toml",
				Logger:     logger,
				Output:     output,
				HTTPClient: httpClient,
				Client:     client,
			})

			if runner.config != config {
				t.Error("expected config to be set")
			}
			if runner.configPath != "/test/path/config.toml" {
				t.Errorf("expected configPath to be set, got %s", runner.configPath)
			}
			if runner.logger != logger {
				t.Error("expected logger to be set")
			}
			if runner.output != output {
				t.Error("expected output to be set")
			}
			if runner.httpClient != httpClient {
				t.Error("expected httpClient to be set")
			}
			if runner.client != client {
				t.Error("expected client to be set")
			}
			if runner.loader == nil {
				t.Error("expected catalog loader to be built from the client")
			}
		})

		t.Run("with nil logger uses default", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{Logger: nil})

			if runner.logger == nil {
				t.Error("expected default logger to be set")
			}
		})

		t.Run("with nil output uses stdout", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{Output: nil})

			if runner.output != os.Stdout {
				t.Error("expected output to default to os.Stdout")
			}
		})

		t.Run("without client", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{})

			if err := runner.requireClient(); !errors.Is(err, shared.ErrServiceUnavailable) {
				t.Errorf("expected ErrServiceUnavailable, got %v", err)
			}
		})
	})

	t.Run("writeJSON", func(t *testing.T) {
		t.Run("writes formatted JSON successfully", func(t *testing.T) {
			output := &bytes.Buffer{}
			runner := NewRunner(RunnerOpts{Output: output})

			err := runner.writeJSON(map[string]string{"key": "value"}, true)
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}

			result := output.String()
			if !strings.Contains(result, `"key": "value"`) {
				t.Errorf("expected formatted JSON, got %s", result)
			}
			if !strings.HasSuffix(result, "\n") {
				t.Error("expected output to end with newline")
			}
		})

		t.Run("writes compact JSON successfully", func(t *testing.T) {
			output := &bytes.Buffer{}
			runner := NewRunner(RunnerOpts{Output: output})

			if err := runner.writeJSON(map[string]string{"key": "value"}, false); err != nil {
				t.Fatalf("expected no error, got %v", err)
			}

			expected := `{"key":"value"}` + "\n"
			if output.String() != expected {
				t.Errorf("expected %q, got %q", expected, output.String())
			}
		})

		t.Run("handles marshal error with non-serializable data", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{Output: &bytes.Buffer{}})

			err := runner.writeJSON(make(chan int), false)
			if err == nil || !strings.Contains(err.Error(), "failed to marshal JSON") {
				t.Errorf("expected marshal error, got %v", err)
			}
		})

		t.Run("handles write failure", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{Output: &tu.FWriter{}})

			err := runner.writeJSON(map[string]string{"key": "value"}, false)
			if err == nil || !strings.Contains(err.Error(), "failed to write output") {
				t.Errorf("expected write error, got %v", err)
			}
		})

		t.Run("handles newline write failure", func(t *testing.T) {
			limitedWriter := tu.NewLimitedWriter(1, 0, &bytes.Buffer{})
			runner := NewRunner(RunnerOpts{Output: &limitedWriter})

			err := runner.writeJSON(map[string]string{"key": "value"}, false)
			if err == nil || !strings.Contains(err.Error(), "failed to write newline") {
				t.Errorf("expected newline write error, got %v", err)
			}
		})
	})

	t.Run("writePlain", func(t *testing.T) {
		t.Run("writes plain text successfully", func(t *testing.T) {
			output := &bytes.Buffer{}
			runner := NewRunner(RunnerOpts{Output: output})

			if err := runner.writePlain("hello %s", "world"); err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if output.String() != "hello world" {
				t.Errorf("expected 'hello world', got %q", output.String())
			}
		})

		t.Run("handles write failure", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{Output: &tu.FWriter{}})

			err := runner.writePlain("test")
			if err == nil || !strings.Contains(err.Error(), "failed to write output") {
				t.Errorf("expected write error, got %v", err)
			}
		})
	})

	t.Run("register", func(t *testing.T) {
		commands := NewRunner(RunnerOpts{}).register()

		names := map[string]bool{}
		for i, cmd := range commands {
			if cmd == nil {
				t.Fatalf("command at index %d is nil", i)
			}
			names[cmd.Name] = true
		}
		for _, want := range []string{"setup", "catalog", "recommend", "tui", "serve"} {
			if !names[want] {
				t.Errorf("expected %s command to be registered", want)
			}
		}
	})

	t.Run("Before", func(t *testing.T) {
		t.Run("Environment URL Is Used When No Flag", func(t *testing.T) {
			c := tu.NewCollaborator(t, tu.SampleSongs())
			t.Setenv(shared.APIURLEnv, c.URL)

			output := &bytes.Buffer{}
			runner := NewRunner(RunnerOpts{Logger: shared.NewLogger(&bytes.Buffer{}), Output: output})
			config := filepath.Join(t.TempDir(), "missing.toml")

			if err := newApp(runner).Run(context.Background(), []string{"lagu", "-c", config, "catalog"}); err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if runner.config.API.BaseURL != c.URL {
				t.Errorf("expected base url %s, got %s", c.URL, runner.config.API.BaseURL)
			}
		})

		t.Run("Flag Beats Environment", func(t *testing.T) {
			c := tu.NewCollaborator(t, tu.SampleSongs())
			t.Setenv(shared.APIURLEnv, "http://127.0.0.1:1")

			runner := NewRunner(RunnerOpts{Logger: shared.NewLogger(&bytes.Buffer{}), Output: &bytes.Buffer{}})
			config := filepath.Join(t.TempDir(), "missing.toml")

			err := newApp(runner).Run(context.Background(), []string{"lagu", "-c", config, "--api-url", c.URL, "catalog"})
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
		})

		t.Run("Invalid Variant", func(t *testing.T) {
			c := tu.NewCollaborator(t, nil)
			_, err := run(t, c, "--variant", "sideways", "catalog")
			if !errors.Is(err, shared.ErrInvalidConfig) {
				t.Errorf("expected ErrInvalidConfig, got %v", err)
			}
		})
	})

	t.Run("Setup", func(t *testing.T) {
		c := tu.NewCollaborator(t, nil)
		path := filepath.Join(t.TempDir(), "config.toml")

		out, err := run(t, c, "-c", path, "setup")
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		tu.AssertFileExists(t, path)
		if !strings.Contains(out, "Config written") {
			t.Errorf("expected confirmation, got %q", out)
		}

		out, err = run(t, c, "-c", path, "setup")
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if !strings.Contains(out, "already exists") {
			t.Errorf("expected existing-file notice, got %q", out)
		}
	})

	t.Run("Catalog", func(t *testing.T) {
		t.Run("Lists Songs", func(t *testing.T) {
			c := tu.NewCollaborator(t, tu.SampleSongs())

			out, err := run(t, c, "catalog")
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if !strings.Contains(out, "Kangen - Dewa 19") {
				t.Errorf("expected song listing, got %q", out)
			}
			if !strings.Contains(out, "5 lagu") {
				t.Errorf("expected song count, got %q", out)
			}
		})

		t.Run("Unique Artists As JSON", func(t *testing.T) {
			c := tu.NewCollaborator(t, tu.SampleSongs())

			out, err := run(t, c, "catalog", "--artists", "--json")
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			var artists []string
			if err := json.Unmarshal([]byte(out), &artists); err != nil {
				t.Fatalf("expected JSON output, got %q", out)
			}
			if len(artists) != 3 {
				t.Errorf("expected 3 artists, got %v", artists)
			}
		})

		t.Run("Filters", func(t *testing.T) {
			c := tu.NewCollaborator(t, tu.SampleSongs())

			out, err := run(t, c, "catalog", "--artist", "Sheila on 7", "--prefix", "se")
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if !strings.Contains(out, "Sephia") || strings.Contains(out, "Kita") || strings.Contains(out, "Sempurna") {
				t.Errorf("unexpected listing %q", out)
			}
		})

		t.Run("Fetch Failure Is An Error", func(t *testing.T) {
			c := tu.NewCollaborator(t, nil)
			c.CatalogStatus = http.StatusInternalServerError

			if _, err := run(t, c, "catalog"); !errors.Is(err, shared.ErrServiceUnavailable) {
				t.Errorf("expected ErrServiceUnavailable, got %v", err)
			}
		})
	})

	t.Run("Recommend", func(t *testing.T) {
		flags := []string{"recommend", "--no-input", "-u", "42", "-t", "Kangen", "-g", "rock"}

		t.Run("Prints Results", func(t *testing.T) {
			c := tu.NewCollaborator(t, tu.SampleSongs())
			c.Respond = func(models.RecommendRequest) (int, any) {
				return http.StatusOK, models.RecommendResponse{Recommendations: sampleRecommendations()}
			}

			out, err := run(t, c, append(flags, "-n", "3")...)
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if !strings.Contains(out, "1. Separuh Nafas - Dewa 19") || !strings.Contains(out, "Skor: 0.912") {
				t.Errorf("unexpected output %q", out)
			}

			bodies := c.Bodies()
			if len(bodies) != 1 {
				t.Fatalf("expected exactly one POST, got %d", len(bodies))
			}
			var body map[string]any
			json.Unmarshal(bodies[0], &body)
			if body["artis"] != "Dewa 19" {
				t.Errorf("expected artist from catalog, got %v", body["artis"])
			}
			if body["top_n"] != float64(3) {
				t.Errorf("expected top_n 3, got %v", body["top_n"])
			}
		})

		t.Run("Writes Output File", func(t *testing.T) {
			c := tu.NewCollaborator(t, tu.SampleSongs())
			c.Respond = func(models.RecommendRequest) (int, any) {
				return http.StatusOK, models.RecommendResponse{Recommendations: sampleRecommendations()}
			}
			path := filepath.Join(t.TempDir(), "out", "rec.csv")

			if _, err := run(t, c, append(flags, "-f", "csv", "-o", path)...); err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			content := tu.MustReadFile(t, path)
			if !strings.Contains(content, "Separuh Nafas") {
				t.Errorf("expected csv content, got %q", content)
			}
		})

		t.Run("Server Message Is Surfaced", func(t *testing.T) {
			c := tu.NewCollaborator(t, tu.SampleSongs())
			c.Respond = func(models.RecommendRequest) (int, any) {
				return http.StatusNotFound, map[string]string{"message": "Lagu tidak ditemukan"}
			}

			_, err := run(t, c, flags...)
			if !errors.Is(err, shared.ErrAPIRequest) {
				t.Errorf("expected ErrAPIRequest, got %v", err)
			}
			if err == nil || !strings.Contains(err.Error(), "Lagu tidak ditemukan") {
				t.Errorf("expected server message, got %v", err)
			}
		})

		t.Run("Missing Fields Without Prompting", func(t *testing.T) {
			c := tu.NewCollaborator(t, tu.SampleSongs())

			_, err := run(t, c, "recommend", "--no-input", "-u", "42")
			if !errors.Is(err, shared.ErrMissingArgument) {
				t.Errorf("expected ErrMissingArgument, got %v", err)
			}
			if len(c.Bodies()) != 0 {
				t.Errorf("expected no POST, got %d", len(c.Bodies()))
			}
		})

		t.Run("Artist First Rejects Unknown Song", func(t *testing.T) {
			c := tu.NewCollaborator(t, tu.SampleSongs())

			_, err := run(t, c, "--variant", "artist-first", "recommend", "--no-input",
				"-u", "42", "-a", "Dewa 19", "-t", "Kita", "-g", "rock")
			if !errors.Is(err, shared.ErrInvalidArgument) {
				t.Errorf("expected ErrInvalidArgument, got %v", err)
			}
		})

		t.Run("Batch", func(t *testing.T) {
			c := tu.NewCollaborator(t, tu.SampleSongs())
			c.Respond = func(models.RecommendRequest) (int, any) {
				return http.StatusOK, models.RecommendResponse{Recommendations: sampleRecommendations()}
			}

			dir := t.TempDir()
			file := filepath.Join(dir, "queries.csv")
			csv := "user_id,judul_lagu,artis,genre,top_n\n1,Kangen,Dewa 19,rock,2\n2,Kita,Sheila on 7,pop,5\n,,,,\n"
			if err := os.WriteFile(file, []byte(csv), 0644); err != nil {
				t.Fatalf("failed to write queries: %v", err)
			}
			outDir := filepath.Join(dir, "out")

			out, err := run(t, c, "recommend", "batch", "--file", file, "-d", outDir, "--rate", "100")
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if !strings.Contains(out, "Berhasil: 2") || !strings.Contains(out, "Gagal:    1") {
				t.Errorf("unexpected summary %q", out)
			}
			if !strings.Contains(out, "✗ skipped") {
				t.Errorf("expected the invalid row to be reported, got %q", out)
			}
			if strings.Contains(out, "] [") {
				t.Errorf("expected each progress line to carry one counter, got %q", out)
			}
			if len(c.Bodies()) != 2 {
				t.Errorf("expected 2 POSTs, got %d", len(c.Bodies()))
			}
			tu.AssertFileExists(t, filepath.Join(outDir, "manifest.json"))
		})
	})
}
