package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/Backland-Labs/courier/internal/logger"
	"github.com/Backland-Labs/courier/internal/server"
)

type serveFlags struct {
	port int
}

// newServeCommand creates the serve subcommand
func newServeCommand(deps *Dependencies, configPath *string) *cobra.Command {
	flags := &serveFlags{}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the courier HTTP API",
		Long: `Start an HTTP server that exposes the workflow as a REST API. Runs
started over HTTP stop at each review gate until a decision is posted.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return runServe(ctx, cmd, deps, *configPath, flags)
		},
	}

	cmd.Flags().IntVarP(&flags.port, "port", "p", 0, "Port to run the HTTP server on (default from config)")

	return cmd
}

// runServe starts the HTTP server and blocks until ctx is canceled
func runServe(ctx context.Context, cmd *cobra.Command, deps *Dependencies, configPath string, flags *serveFlags) error {
	settings, err := deps.LoadConfig(configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if err := settings.Validate(); err != nil {
		return err
	}
	logger.InitializeFromConfig(settings)

	port := settings.Server.Port
	if cmd.Flags().Changed("port") {
		port = flags.port
	}

	engine, flush, err := deps.NewEngine(settings)
	if err != nil {
		return err
	}
	defer flush()

	srv := server.NewServer(port, engine)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Infof("Starting courier HTTP server on port %d", port)
		err := srv.Start(gctx)
		if errors.Is(err, http.ErrServerClosed) || errors.Is(err, ctx.Err()) {
			return nil
		}
		return err
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("Shutdown signal received")
		return nil
	})

	return g.Wait()
}
