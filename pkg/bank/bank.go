// Package bank provides the built-in question bank and the YAML decoding
// shared by custom bank files.
package bank

import (
	_ "embed"

	"github.com/m-mizutani/goerr/v2"
	"github.com/mindhaven/mindhaven/pkg/domain/model"
	"gopkg.in/yaml.v3"
)

//go:embed default.yaml
var defaultYAML []byte

// Parse decodes and validates a YAML question bank
func Parse(data []byte) (*model.Bank, error) {
	var b model.Bank
	if err := yaml.Unmarshal(data, &b); err != nil {
		return nil, goerr.Wrap(err, "failed to parse YAML question bank")
	}

	if err := b.Validate(); err != nil {
		return nil, goerr.Wrap(err, "invalid question bank")
	}

	return &b, nil
}

// Default returns the built-in question bank
func Default() (*model.Bank, error) {
	b, err := Parse(defaultYAML)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to load built-in question bank")
	}
	return b, nil
}
