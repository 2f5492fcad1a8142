package model

import (
	"github.com/m-mizutani/goerr/v2"
	"github.com/mindhaven/mindhaven/pkg/domain/types"
)

// Option is one selectable answer of a question. Options are ordered from the
// lowest to the highest severity weight.
type Option struct {
	Value int    `yaml:"value" json:"value"`
	Label string `yaml:"label" json:"label"`
}

// Question is a single item of a test type
type Question struct {
	ID      types.QuestionID `yaml:"id" json:"id"`
	Text    string           `yaml:"text" json:"text"`
	Options []Option         `yaml:"options" json:"options"`
}

// Validate validates the question and its ordinal scale. Option values must
// be 0, 1, 2, ... in the order they are listed.
func (q *Question) Validate() error {
	if q.ID == "" {
		return goerr.New("question ID is required")
	}
	if q.Text == "" {
		return goerr.New("question text is required", goerr.V("id", q.ID))
	}
	if len(q.Options) < 2 {
		return goerr.New("question needs at least two options",
			goerr.V("id", q.ID),
			goerr.V("options", len(q.Options)))
	}

	for i, opt := range q.Options {
		if opt.Value != i {
			return goerr.New("option values must start at 0 and increase by 1",
				goerr.V("id", q.ID),
				goerr.V("index", i),
				goerr.V("value", opt.Value))
		}
		if opt.Label == "" {
			return goerr.New("option label is required",
				goerr.V("id", q.ID),
				goerr.V("index", i))
		}
	}

	return nil
}

// MaxValue returns the highest option value of the question
func (q *Question) MaxValue() int {
	maxValue := 0
	for _, opt := range q.Options {
		if opt.Value > maxValue {
			maxValue = opt.Value
		}
	}
	return maxValue
}

// FindOption returns the option with the given value
func (q *Question) FindOption(value int) *Option {
	for _, opt := range q.Options {
		if opt.Value == value {
			result := opt
			return &result
		}
	}
	return nil
}

// HasOption checks if value is one of the question's options
func (q *Question) HasOption(value int) bool {
	return q.FindOption(value) != nil
}
