package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/mindhaven/mindhaven/pkg/cli"
)

func main() {
	if err := cli.Run(context.Background(), os.Args); err != nil {
		slog.Error("mindhaven failed", "error", err)
		os.Exit(1)
	}
}
