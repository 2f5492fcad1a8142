package cli

import (
	"context"
	"fmt"

	"github.com/mindhaven/mindhaven/pkg/cli/config"
	"github.com/urfave/cli/v3"
)

func cmdValidate() *cli.Command {
	var bankCfg config.Bank

	return &cli.Command{
		Name:  "validate",
		Usage: "Validate a question bank file (the built-in bank when none is given)",
		Flags: bankCfg.Flags(),
		Action: func(ctx context.Context, c *cli.Command) error {
			bank, err := bankCfg.Configure()
			if err != nil {
				return err
			}

			questions, scored := 0, 0
			for _, tt := range bank.TestTypes {
				questions += tt.QuestionCount()
				if tt.HasSeverityTable() {
					scored++
				}
			}

			fmt.Fprintf(c.Root().Writer, "OK: %d test types (%d with severity tables), %d questions\n",
				len(bank.TestTypes), scored, questions)
			return nil
		},
	}
}
