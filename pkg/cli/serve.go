package cli

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/mindhaven/mindhaven/pkg/cli/config"
	controller "github.com/mindhaven/mindhaven/pkg/controller/http"
	"github.com/mindhaven/mindhaven/pkg/usecase"
	"github.com/urfave/cli/v3"
)

func cmdServe() *cli.Command {
	var (
		serverCfg config.Server
		bankCfg   config.Bank
		repoCfg   config.Repository
	)

	flags := joinFlags(
		serverCfg.Flags(),
		bankCfg.Flags(),
		repoCfg.Flags(),
	)

	return &cli.Command{
		Name:  "serve",
		Usage: "Start HTTP server",
		Flags: flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			logger := ctxlog.From(ctx)

			logger.Info("Starting mindhaven server",
				slog.Any("server", serverCfg),
				slog.Any("bank", bankCfg),
				slog.Any("repository", repoCfg),
			)

			if err := serverCfg.Validate(); err != nil {
				return goerr.Wrap(err, "invalid server config")
			}

			bank, err := bankCfg.Configure()
			if err != nil {
				return err
			}
			logger.Info("Question bank loaded", slog.Int("testTypes", len(bank.TestTypes)))

			repo, err := repoCfg.Configure(ctx)
			if err != nil {
				return err
			}
			defer repo.Close()

			assessmentUC := usecase.NewAssessment(bank, repo,
				usecase.NewAssessmentConfig(usecase.WithDefaultResultLimit(serverCfg.ResultLimit)))
			trackerUC := usecase.NewTracker(repo)

			server := controller.NewServer(ctx, serverCfg.Controller(), assessmentUC, trackerUC)

			errCh := make(chan error, 1)
			go func() {
				logger.Info("HTTP server starting", slog.String("addr", serverCfg.Addr))
				if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					errCh <- err
				}
			}()

			sigChan := make(chan os.Signal, 1)
			signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
			defer signal.Stop(sigChan)

			select {
			case <-ctx.Done():
				logger.Info("Context cancelled, shutting down...")
			case sig := <-sigChan:
				logger.Info("Signal received, shutting down...", slog.Any("signal", sig))
			case err := <-errCh:
				return goerr.Wrap(err, "HTTP server failed", goerr.V("addr", serverCfg.Addr))
			}

			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()

			if err := server.Shutdown(shutdownCtx); err != nil {
				return goerr.Wrap(err, "failed to shutdown server gracefully")
			}

			logger.Info("Server shutdown complete")
			return nil
		},
	}
}
