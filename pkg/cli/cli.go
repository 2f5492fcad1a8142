package cli

import (
	"context"
	"io"
	"log/slog"
	"os"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/mindhaven/mindhaven/pkg/cli/config"
	"github.com/urfave/cli/v3"
)

// Run runs the CLI application
func Run(ctx context.Context, args []string) error {
	return run(ctx, args, os.Stdin, os.Stdout)
}

func run(ctx context.Context, args []string, in io.Reader, out io.Writer) error {
	var loggerCfg config.Logger

	app := &cli.Command{
		Name:    "mindhaven",
		Usage:   "Mental health self-assessment and wellness tracking service",
		Version: "0.1.0",
		Flags:   loggerCfg.Flags(),
		Reader:  in,
		Writer:  out,
		Before: func(ctx context.Context, c *cli.Command) (context.Context, error) {
			logger, err := loggerCfg.Configure(os.Stderr)
			if err != nil {
				return nil, err
			}

			slog.SetDefault(logger)
			ctx = ctxlog.With(ctx, logger)
			return ctx, nil
		},
		Commands: []*cli.Command{
			cmdServe(),
			cmdTests(),
			cmdTake(),
			cmdScore(),
			cmdValidate(),
		},
	}

	if err := app.Run(ctx, args); err != nil {
		return goerr.Wrap(err, "CLI execution failed")
	}

	return nil
}
