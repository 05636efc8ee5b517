// submodule cmd contains command definitions
package main

import (
	"github.com/desertthunder/lagu/internal/form"
	"github.com/urfave/cli/v3"
)

// setupCommand writes the starter configuration file.
func setupCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "setup",
		Usage: "Create config.toml from the bundled example",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "force",
				Usage: "Overwrite an existing config file",
			},
		},
		Action: r.Setup,
	}
}

// catalogCommand prints the song catalog.
func catalogCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "catalog",
		Aliases: []string{"lagu", "songs"},
		Usage:   "List the songs offered by the recommendation API",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "artists",
				Usage: "List unique artists instead of songs",
			},
			&cli.StringFlag{
				Name:  "artist",
				Usage: "Only songs by this artist (exact match)",
			},
			&cli.StringFlag{
				Name:  "prefix",
				Usage: "Only songs whose title starts with this text",
			},
			&cli.BoolFlag{
				Name:  "json",
				Usage: "Output raw JSON",
			},
			&cli.BoolFlag{
				Name:  "pretty",
				Usage: "Pretty-print output",
				Value: true,
			},
		},
		Action: r.Catalog,
	}
}

// recommendCommand submits the form once, or once per row of a CSV file.
func recommendCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "recommend",
		Aliases: []string{"rec"},
		Usage:   "Request song recommendations",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "user",
				Aliases: []string{"u"},
				Usage:   "User ID",
			},
			&cli.StringFlag{
				Name:    "title",
				Aliases: []string{"t"},
				Usage:   "Judul Lagu (seed song title)",
			},
			&cli.StringFlag{
				Name:    "artist",
				Aliases: []string{"a"},
				Usage:   "Artis (seed song artist)",
			},
			&cli.StringFlag{
				Name:    "genre",
				Aliases: []string{"g"},
				Usage:   "Genre",
			},
			&cli.StringFlag{
				Name:    "count",
				Aliases: []string{"n"},
				Usage:   "Jumlah rekomendasi (top_n)",
			},
			&cli.StringFlag{
				Name:    "format",
				Aliases: []string{"f"},
				Usage:   "Output format: text, json, csv, markdown",
				Value:   "text",
			},
			&cli.StringFlag{
				Name:    "output",
				Aliases: []string{"o"},
				Usage:   "Write the result to this file instead of stdout",
			},
			&cli.BoolFlag{
				Name:  "no-input",
				Usage: "Never prompt for missing values",
			},
		},
		Action: r.Recommend,
		Commands: []*cli.Command{
			{
				Name:  "batch",
				Usage: "Submit every row of a CSV file (user_id,judul_lagu,artis,genre,top_n)",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "file",
						Usage:    "CSV file with one form per row",
						Required: true,
					},
					&cli.StringFlag{
						Name:    "format",
						Aliases: []string{"f"},
						Usage:   "Per-row output format: text, json, csv, markdown",
						Value:   "json",
					},
					&cli.StringFlag{
						Name:    "output-dir",
						Aliases: []string{"d"},
						Usage:   "Directory for result files (default: recommendations_{timestamp})",
					},
					&cli.IntFlag{
						Name:  "workers",
						Usage: "Concurrent requests (1-10)",
						Value: 2,
					},
					&cli.FloatFlag{
						Name:  "rate",
						Usage: "Requests per second",
						Value: 2,
					},
				},
				Action: r.RecommendBatch,
			},
		},
	}
}

// tuiCommand returns the top-level TUI command for the interactive form.
func tuiCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "tui",
		Aliases: []string{"interactive", "ui"},
		Usage:   "Launch the interactive recommendation form (" + form.TitleFirst.String() + " by default)",
		Action:  r.TUI,
	}
}

// serveCommand starts the HTML form server.
func serveCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Serve the recommendation form over HTTP",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "host",
				Usage: "Listen host (overrides server.host)",
			},
			&cli.IntFlag{
				Name:    "port",
				Aliases: []string{"p"},
				Usage:   "Listen port (overrides server.port)",
			},
		},
		Action: r.Serve,
	}
}
