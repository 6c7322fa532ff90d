package cli

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"

	"github.com/m-mizutani/pitcrew/pkg/server"
	"github.com/m-mizutani/pitcrew/pkg/usecase/assistant"
	"github.com/m-mizutani/pitcrew/pkg/utils/logging"
)

const shutdownTimeout = 15 * time.Second

func serveCommand() *cli.Command {
	var cfg config

	flags := globalFlags(&cfg)
	flags = append(flags, llmFlags(&cfg)...)

	return &cli.Command{
		Name:  "serve",
		Usage: "Start the HTTP API server",
		Flags: flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			// Optional .env file, same as local development setups
			if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
				logging.Default().Warn("failed to load .env file", "error", err)
			}

			logger := logging.New(cfg.logLevel, os.Stderr)
			logging.SetDefault(logger)
			ctx = logging.With(ctx, logger)

			repo, err := cfg.newRepository(ctx)
			if err != nil {
				return err
			}

			gemini, err := cfg.newGemini(ctx)
			if err != nil {
				return err
			}

			uc := assistant.New(repo, gemini)
			engine := server.New(uc, logger)

			srv := &http.Server{
				Addr:    cfg.addr,
				Handler: engine,
			}

			errCh := make(chan error, 1)
			go func() {
				errCh <- srv.ListenAndServe()
			}()

			logger.Info("server started", "addr", cfg.addr)

			sigCtx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
			defer stop()

			select {
			case err := <-errCh:
				if err != nil && !errors.Is(err, http.ErrServerClosed) {
					return goerr.Wrap(err, "server failed")
				}

			case <-sigCtx.Done():
				logger.Info("shutting down")

				shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
				defer cancel()
				if err := srv.Shutdown(shutdownCtx); err != nil {
					return goerr.Wrap(err, "failed to shutdown server")
				}
			}

			if err := repo.Close(); err != nil {
				logger.Warn("failed to close repository", "error", err)
			}

			return nil
		},
	}
}
