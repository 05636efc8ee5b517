package main

import (
	"context"
	"fmt"
	"os"

	"github.com/desertthunder/lagu/internal/shared"
	"github.com/urfave/cli/v3"
)

// Setup writes the example configuration to the --config path.
func (r *Runner) Setup(ctx context.Context, cmd *cli.Command) error {
	path := r.configPath
	if path == "" {
		return fmt.Errorf("%w: --config path is empty", shared.ErrMissingArgument)
	}

	if _, err := os.Stat(path); err == nil {
		if !cmd.Bool("force") {
			r.logger.Info("config file already exists", "path", path)
			r.writePlain("Config already exists at %s (use --force to overwrite)\n", path)
			return nil
		}
		if err := os.Remove(path); err != nil {
			return fmt.Errorf("failed to remove existing config: %w", err)
		}
	}

	r.logger.Info("creating config file from template", "path", path)
	if err := shared.CreateConfigFile(path); err != nil {
		return fmt.Errorf("failed to create config file: %w", err)
	}

	config, err := shared.LoadConfig(path)
	if err != nil {
		return fmt.Errorf("failed to load created config: %w", err)
	}

	r.writePlain("✓ Config written to %s\n", path)
	r.writePlainln("Next steps:")
	r.writePlain("1. Point api.base_url at the recommendation API (currently %s) or set %s\n", config.API.BaseURL, shared.APIURLEnv)
	r.writePlain("2. Run 'lagu catalog' to check the connection\n")
	return nil
}
