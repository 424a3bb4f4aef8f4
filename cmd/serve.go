package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/desertthunder/gigbuilder/internal/server"
	"github.com/desertthunder/gigbuilder/internal/shared"
	"github.com/urfave/cli/v3"
)

// Serve runs the JSON API for a tablet on stage until interrupted.
func (r *Runner) Serve(ctx context.Context, cmd *cli.Command) error {
	cfg := r.config.Server
	if host := cmd.String("host"); host != "" {
		cfg.Host = host
	}
	if port := int(cmd.Int("port")); port != 0 {
		cfg.Port = port
	}

	session, err := r.newSession(ctx)
	if err != nil {
		return err
	}

	logger := shared.WithLogger(r.logger, "component", "server")
	router := server.NewBasicRouter()
	router.Use(server.Recover(logger), server.Logging(logger))
	router.Handler(server.NewAPIHandler(session, logger))
	for _, pattern := range router.Patterns() {
		logger.Debug("route registered", "pattern", pattern)
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	r.writePlain("→ Serving %d songs on http://%s\n", session.Catalog().Len(), cfg.Addr())
	if err := server.Serve(ctx, cfg.Addr(), server.CORS(router), logger); err != nil {
		return fmt.Errorf("%w: %v", shared.ErrServiceUnavailable, err)
	}
	return nil
}
