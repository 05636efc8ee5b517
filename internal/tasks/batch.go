package tasks

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/desertthunder/lagu/internal/form"
	"github.com/desertthunder/lagu/internal/formatter"
	"github.com/desertthunder/lagu/internal/models"
	"github.com/desertthunder/lagu/internal/shared"
	"golang.org/x/time/rate"
)

// BatchOpts contains configuration for batch recommendation runs.
type BatchOpts struct {
	Format     formatter.Format // Per-row export format
	OutputDir  string           // Base output directory (default: recommendations_{epoch})
	NumWorkers int              // Concurrent workers (default: 2, max: 10)
	RateLimit  float64          // Requests per second (default: 2)
}

// BatchJob is one valid form record queued for submission.
type BatchJob struct {
	Index int
	ID    string
	Form  models.FormState
}

// BatchItemResult is the outcome of one form record.
type BatchItemResult struct {
	Index           int                     `json:"index"`
	JobID           string                  `json:"job_id,omitempty"`
	Request         models.RecommendRequest `json:"request"`
	Recommendations []models.Recommendation `json:"recommendations,omitempty"`
	File            string                  `json:"file,omitempty"`
	Success         bool                    `json:"success"`
	Error           string                  `json:"error,omitempty"`
}

// Label names the row by its seed song.
func (r BatchItemResult) Label() string {
	return fmt.Sprintf("#%d %s - %s", r.Index+1, r.Request.SongTitle, r.Request.Artist)
}

// BatchResult summarises a batch run.
type BatchResult struct {
	Total           int               `json:"total"`
	Succeeded       int               `json:"succeeded"`
	Failed          int               `json:"failed"`
	OutputDirectory string            `json:"output_directory"`
	ManifestPath    string            `json:"-"`
	StartedAt       time.Time         `json:"started_at"`
	FinishedAt      time.Time         `json:"finished_at"`
	Results         []BatchItemResult `json:"results"`
}

// Run submits every query with bounded concurrency and rate limiting.
//
// Invalid records are reported as failures without a request. Results in the
// returned value and the manifest are ordered by input row.
func (e *BatchEngine) Run(
	ctx context.Context,
	prog chan<- ProgressUpdate,
	queries []models.FormState,
	opts BatchOpts,
) (*BatchResult, error) {
	if e.client == nil {
		return nil, fmt.Errorf("%w: recommendation client not initialized", shared.ErrServiceUnavailable)
	}
	if len(queries) == 0 {
		return nil, fmt.Errorf("%w: no queries to submit", shared.ErrInvalidInput)
	}

	if opts.OutputDir == "" {
		opts.OutputDir = fmt.Sprintf("recommendations_%d", time.Now().Unix())
	}
	if opts.NumWorkers <= 0 {
		opts.NumWorkers = 2
	}
	if opts.NumWorkers > 10 {
		opts.NumWorkers = 10
	}
	if opts.RateLimit <= 0 {
		opts.RateLimit = 2.0
	}
	if opts.Format == "" {
		opts.Format = formatter.FormatJSON
	}

	if err := os.MkdirAll(opts.OutputDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	result := &BatchResult{
		Total:           len(queries),
		OutputDirectory: opts.OutputDir,
		StartedAt:       time.Now(),
		Results:         make([]BatchItemResult, 0, len(queries)),
	}

	var pending []BatchJob
	for i, q := range queries {
		if err := form.Validate(q); err != nil {
			res := BatchItemResult{Index: i, Request: form.BuildRequest(q), Error: err.Error()}
			result.Results = append(result.Results, res)
			result.Failed++
			e.sendProgress(prog, invalidQueryUpdate(i+1, len(queries), err))
			continue
		}
		pending = append(pending, BatchJob{Index: i, ID: shared.GenerateID(), Form: q})
	}

	limiter := rate.NewLimiter(rate.Limit(opts.RateLimit), 1)

	jobs := make(chan BatchJob, len(pending))
	results := make(chan BatchItemResult, len(pending))

	var wg sync.WaitGroup
	for i := 0; i < opts.NumWorkers; i++ {
		wg.Add(1)
		go e.recommendWorker(ctx, &wg, jobs, results, opts)
	}

	go func() {
		defer close(jobs)
		for i, job := range pending {
			if err := limiter.Wait(ctx); err != nil {
				return
			}
			e.sendProgress(prog, submittingUpdate(i+1, len(pending), job))
			jobs <- job
		}
	}()

	go func() {
		wg.Wait()
		close(results)
	}()

	completed := 0
	for res := range results {
		completed++
		result.Results = append(result.Results, res)

		if res.Success {
			result.Succeeded++
			e.sendProgress(prog, completedUpdate(completed, len(pending), res))
		} else {
			result.Failed++
			e.sendProgress(prog, failedUpdate(completed, len(pending), res))
		}
	}

	e.recordUnsent(ctx, result, pending)
	sort.Slice(result.Results, func(i, j int) bool { return result.Results[i].Index < result.Results[j].Index })
	result.FinishedAt = time.Now()

	manifestPath := filepath.Join(opts.OutputDir, "manifest.json")
	if err := writeManifest(result, manifestPath); err != nil {
		return result, fmt.Errorf("batch completed but failed to write manifest: %w", err)
	}
	result.ManifestPath = manifestPath
	e.sendProgress(prog, manifestUpdate(manifestPath))

	e.logger.Info("batch finished", "total", result.Total, "succeeded", result.Succeeded, "failed", result.Failed)

	if err := ctx.Err(); err != nil {
		return result, fmt.Errorf("batch interrupted: %w", err)
	}
	return result, nil
}

// recordUnsent marks jobs that never reached a worker, or were left in the queue
// after cancellation, as failed so Succeeded+Failed always equals Total.
func (e *BatchEngine) recordUnsent(ctx context.Context, result *BatchResult, pending []BatchJob) {
	seen := make(map[int]bool, len(result.Results))
	for _, res := range result.Results {
		seen[res.Index] = true
	}

	cause := ctx.Err()
	if cause == nil {
		cause = context.Canceled
	}
	for _, job := range pending {
		if seen[job.Index] {
			continue
		}
		result.Results = append(result.Results, BatchItemResult{
			Index:   job.Index,
			JobID:   job.ID,
			Request: form.BuildRequest(job.Form),
			Error:   cause.Error(),
		})
		result.Failed++
	}
}

// recommendWorker submits jobs from the channel until it is closed.
func (e *BatchEngine) recommendWorker(
	ctx context.Context,
	wg *sync.WaitGroup,
	jobs <-chan BatchJob,
	results chan<- BatchItemResult,
	opts BatchOpts,
) {
	defer wg.Done()

	for job := range jobs {
		select {
		case <-ctx.Done():
			return
		default:
		}

		results <- e.recommendOne(ctx, job, opts)
	}
}

func (e *BatchEngine) recommendOne(ctx context.Context, job BatchJob, opts BatchOpts) BatchItemResult {
	res := BatchItemResult{
		Index:   job.Index,
		JobID:   job.ID,
		Request: form.BuildRequest(job.Form),
	}

	recs, err := e.client.Recommend(ctx, res.Request)
	if err != nil {
		e.logger.Warn("batch row failed", "row", job.Index+1, "job_id", job.ID, "error", err)
		res.Error = err.Error()
		return res
	}
	res.Recommendations = recs

	name := fmt.Sprintf("%03d_%s%s", job.Index+1, slug(job.Form.SongTitle), opts.Format.Extension())
	report := &formatter.Report{Request: res.Request, Recommendations: recs}
	path, err := formatter.WriteExport(report, opts.Format, filepath.Join(opts.OutputDir, name))
	if err != nil {
		res.Error = err.Error()
		return res
	}

	res.File = path
	res.Success = true
	return res
}

func writeManifest(result *BatchResult, path string) error {
	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal manifest: %w", err)
	}
	return os.WriteFile(path, data, 0644)
}

var nonSlug = regexp.MustCompile(`[^a-z0-9]+`)

func slug(s string) string {
	out := strings.Trim(nonSlug.ReplaceAllString(strings.ToLower(s), "-"), "-")
	if out == "" {
		return "untitled"
	}
	return out
}
