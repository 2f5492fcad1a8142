package config

import (
	"log/slog"
	"os"

	"github.com/m-mizutani/goerr/v2"
	"github.com/mindhaven/mindhaven/pkg/bank"
	"github.com/mindhaven/mindhaven/pkg/domain/model"
	"github.com/urfave/cli/v3"
)

// Bank holds question bank configuration
type Bank struct {
	File string
}

// Flags returns CLI flags for Bank configuration
func (b *Bank) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "bank-file",
			Usage:       "YAML question bank replacing the built-in one",
			Category:    "Question Bank",
			Sources:     cli.EnvVars("MINDHAVEN_BANK_FILE"),
			Destination: &b.File,
		},
	}
}

// Configure loads the question bank from the configured file, or the
// built-in bank when no file is set
func (b *Bank) Configure() (*model.Bank, error) {
	if b.File == "" {
		return bank.Default()
	}
	return LoadBankFromFile(b.File)
}

// LoadBankFromFile loads and validates a question bank from a YAML file
func LoadBankFromFile(path string) (*model.Bank, error) {
	if path == "" {
		return nil, goerr.New("question bank file path is required")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, goerr.Wrap(err, "question bank file not found",
				goerr.V("path", path))
		}
		return nil, goerr.Wrap(err, "failed to read question bank file",
			goerr.V("path", path))
	}

	loaded, err := bank.Parse(data)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to load question bank",
			goerr.V("path", path))
	}

	return loaded, nil
}

// LogValue returns structured log value
func (b Bank) LogValue() slog.Value {
	file := b.File
	if file == "" {
		file = "(built-in)"
	}
	return slog.GroupValue(slog.String("file", file))
}
