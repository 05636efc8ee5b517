package main

import (
	"context"
	"fmt"

	"github.com/desertthunder/lagu/internal/server"
	"github.com/desertthunder/lagu/internal/web"
	"github.com/urfave/cli/v3"
)

// Serve runs the HTML form until the process is interrupted.
func (r *Runner) Serve(ctx context.Context, cmd *cli.Command) error {
	if err := r.requireClient(); err != nil {
		return err
	}
	variant, err := r.variant()
	if err != nil {
		return err
	}

	addr := r.serveAddr(cmd)
	app, err := web.New(ctx, web.Options{
		Client:       r.client,
		Loader:       r.loader,
		Variant:      variant,
		DefaultCount: r.config.Form.DefaultCount,
		Logger:       r.logger,
	})
	if err != nil {
		return fmt.Errorf("failed to create web app: %w", err)
	}

	router := server.NewBasicRouter()
	router.Use(server.WithRequestID(), server.WithLogging(r.logger), server.WithRecover(r.logger))
	app.Register(router)

	r.writePlain("Serving the recommendation form on http://%s\n", addr)
	return server.New(addr, router, r.logger).Run(ctx)
}

func (r *Runner) serveAddr(cmd *cli.Command) string {
	cfg := r.config.Server
	if cmd.IsSet("host") {
		cfg.Host = cmd.String("host")
	}
	if cmd.IsSet("port") {
		cfg.Port = int(cmd.Int("port"))
	}
	return cfg.Addr()
}
