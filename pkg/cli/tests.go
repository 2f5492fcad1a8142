package cli

import (
	"context"

	"github.com/mindhaven/mindhaven/pkg/cli/config"
	"github.com/urfave/cli/v3"
)

func cmdTests() *cli.Command {
	var bankCfg config.Bank

	return &cli.Command{
		Name:  "tests",
		Usage: "List available assessments",
		Flags: bankCfg.Flags(),
		Action: func(ctx context.Context, c *cli.Command) error {
			bank, err := bankCfg.Configure()
			if err != nil {
				return err
			}

			printTestTypes(c.Root().Writer, bank.TestTypes)
			return nil
		},
	}
}
