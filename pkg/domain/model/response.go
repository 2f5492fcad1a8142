package model

import (
	"strconv"
	"strings"

	"github.com/m-mizutani/goerr/v2"
	"github.com/mindhaven/mindhaven/pkg/domain/types"
)

// ResponseSet holds one selected option value per question
type ResponseSet map[types.QuestionID]int

// NewResponseSet creates an empty response set
func NewResponseSet() ResponseSet {
	return make(ResponseSet)
}

// SetAnswer inserts or overwrites the answer of a question. Values are not
// checked against the question's options here.
func (r ResponseSet) SetAnswer(id types.QuestionID, value int) {
	r[id] = value
}

// HasAnswer returns true if the question has been answered
func (r ResponseSet) HasAnswer(id types.QuestionID) bool {
	_, ok := r[id]
	return ok
}

// Answer returns the selected value of a question
func (r ResponseSet) Answer(id types.QuestionID) (int, bool) {
	v, ok := r[id]
	return v, ok
}

// Score sums every value present. Partial sets are allowed; unanswered
// questions contribute 0.
func (r ResponseSet) Score() int {
	score := 0
	for _, v := range r {
		score += v
	}
	return score
}

// Clone returns a copy of the response set
func (r ResponseSet) Clone() ResponseSet {
	result := make(ResponseSet, len(r))
	for k, v := range r {
		result[k] = v
	}
	return result
}

// ComputeScore sums the values of a response set
func ComputeScore(r ResponseSet) int {
	return r.Score()
}

// ParseOptionValue parses a string-encoded option value
func ParseOptionValue(s string) (int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, goerr.New("answer is empty", goerr.T(ErrTagInvalidArgument))
	}

	v, err := strconv.Atoi(s)
	if err != nil {
		return 0, goerr.Wrap(err, "answer is not a number",
			goerr.V("value", s),
			goerr.T(ErrTagInvalidArgument))
	}
	if v < 0 {
		return 0, goerr.New("answer must not be negative",
			goerr.V("value", v),
			goerr.T(ErrTagInvalidArgument))
	}

	return v, nil
}

// ParseResponses converts string-encoded answers into a response set
func ParseResponses(raw map[string]string) (ResponseSet, error) {
	result := make(ResponseSet, len(raw))
	for id, s := range raw {
		v, err := ParseOptionValue(s)
		if err != nil {
			return nil, goerr.Wrap(err, "invalid answer", goerr.V("questionID", id))
		}
		result[types.QuestionID(id)] = v
	}
	return result, nil
}
