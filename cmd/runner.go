package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/lagu/internal/catalog"
	"github.com/desertthunder/lagu/internal/form"
	"github.com/desertthunder/lagu/internal/services"
	"github.com/desertthunder/lagu/internal/shared"
	"github.com/urfave/cli/v3"
)

// Runner holds all dependencies for CLI commands and provides methods for each command action.
type Runner struct {
	config     *shared.Config
	configPath string
	client     services.Recommender
	loader     *catalog.Loader
	httpClient *http.Client
	logger     *log.Logger
	output     io.Writer
}

// RunnerOpts contains configuration options for creating a Runner.
//
// A nil Config is resolved from ConfigPath in [Runner.Before]; a nil Client is
// built from the resolved config.
type RunnerOpts struct {
	Config     *shared.Config
	ConfigPath string
	Client     services.Recommender
	HTTPClient *http.Client
	Logger     *log.Logger
	Output     io.Writer
}

// NewRunner creates a new Runner with the provided configuration
func NewRunner(opts RunnerOpts) *Runner {
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}
	if opts.Output == nil {
		opts.Output = os.Stdout
	}

	r := &Runner{
		config:     opts.Config,
		configPath: opts.ConfigPath,
		client:     opts.Client,
		httpClient: opts.HTTPClient,
		logger:     opts.Logger,
		output:     opts.Output,
	}
	if r.client != nil {
		r.loader = catalog.NewLoader(r.client, r.logger)
	}
	return r
}

func (r *Runner) register() []*cli.Command {
	commands := []*cli.Command{}
	for _, fn := range [](func(*Runner) *cli.Command){
		setupCommand, catalogCommand, recommendCommand, tuiCommand, serveCommand,
	} {
		commands = append(commands, fn(r))
	}

	return commands
}

// SetLogger replaces the logger used by the runner and the clients it builds.
func (r *Runner) SetLogger(l *log.Logger) {
	r.logger = l
	if r.client != nil {
		r.loader = catalog.NewLoader(r.client, l)
	}
}

// Before resolves configuration and builds the recommendation client.
//
// Precedence is flag, then LAGU_API_URL, then the config file, then the embedded defaults.
func (r *Runner) Before(ctx context.Context, cmd *cli.Command) (context.Context, error) {
	if cmd.IsSet("config") || r.configPath == "" {
		r.configPath = cmd.String("config")
	}

	if r.config == nil {
		config, err := shared.ResolveConfig(r.configPath)
		if err != nil {
			return ctx, err
		}
		r.config = config
	}

	if cmd.IsSet("api-url") {
		r.config.API.BaseURL = cmd.String("api-url")
	}
	if cmd.IsSet("variant") {
		r.config.Form.Variant = cmd.String("variant")
	}
	if cmd.IsSet("race-policy") {
		r.config.Form.RacePolicy = cmd.String("race-policy")
	}
	if cmd.IsSet("log-level") {
		r.config.Log.Level = cmd.String("log-level")
	}
	if err := r.config.Validate(); err != nil {
		return ctx, err
	}
	if err := shared.SetLogLevel(r.logger, r.config.Log.Level); err != nil {
		return ctx, err
	}

	if r.client == nil {
		r.client = r.newClient()
		r.loader = catalog.NewLoader(r.client, r.logger)
	}
	return ctx, nil
}

func (r *Runner) newClient() *services.RecommenderClient {
	httpClient := r.httpClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: r.config.API.Timeout()}
	}

	api := services.NewAPIService(r.config.API.BaseURL, httpClient).WithUserAgent(r.config.API.UserAgent)
	r.logger.Debug("recommendation api", "base_url", api.BaseURL(), "timeout", r.config.API.Timeout())
	return services.NewRecommenderClient(api, r.logger)
}

func (r *Runner) variant() (form.Variant, error) {
	return form.ParseVariant(r.config.Form.Variant)
}

func (r *Runner) racePolicy() form.RacePolicy {
	policy, err := form.ParseRacePolicy(r.config.Form.RacePolicy)
	if err != nil {
		return form.LastArrival
	}
	return policy
}

func (r *Runner) requireClient() error {
	if r.client == nil || r.loader == nil {
		return fmt.Errorf("%w: recommendation client not initialized", shared.ErrServiceUnavailable)
	}
	return nil
}

func (r *Runner) writeJSON(data any, pretty bool) error {
	var output []byte
	var err error

	if pretty {
		output, err = json.MarshalIndent(data, "", "  ")
	} else {
		output, err = json.Marshal(data)
	}

	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}

	if _, err := r.output.Write(output); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}

	if _, err := r.output.Write([]byte("\n")); err != nil {
		return fmt.Errorf("failed to write newline: %w", err)
	}

	return nil
}

func (r *Runner) writePlain(format string, args ...any) error {
	text := fmt.Sprintf(format, args...)
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func (r *Runner) writePlainln(format string, args ...any) error {
	text := "\n" + fmt.Sprintf(format, args...) + "\n"
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func (r *Runner) writePlainHeader(title string) {
	r.writePlain("═══════════════════════════════════════\n")
	r.writePlain("%v\n", title)
	r.writePlain("═══════════════════════════════════════\n")
}
