package model

import (
	"github.com/m-mizutani/goerr/v2"
	"github.com/mindhaven/mindhaven/pkg/domain/types"
)

// Navigator walks a test taker through the questions of one test, strictly in
// order. States are SelectingTest -> Answering(index) -> Completed.
type Navigator struct {
	State types.NavigationState `json:"state"`
	Index int                   `json:"index"`
}

// NewNavigator returns a navigator in the SelectingTest state
func NewNavigator() Navigator {
	return Navigator{State: types.NavigationSelectingTest}
}

// Current returns the question at the current index, or nil outside the
// Answering state
func (n *Navigator) Current(questions []Question) *Question {
	if n.State != types.NavigationAnswering || n.Index < 0 || n.Index >= len(questions) {
		return nil
	}
	result := questions[n.Index]
	return &result
}

// Next advances the navigator. From SelectingTest it enters the first
// question. From Answering(i) it requires an answer for question i and moves
// to i+1, or to Completed after the last question.
func (n *Navigator) Next(questions []Question, responses ResponseSet) error {
	switch n.State {
	case types.NavigationSelectingTest:
		if len(questions) == 0 {
			return goerr.New("test has no questions", goerr.T(ErrTagInvalidTransition))
		}
		n.State = types.NavigationAnswering
		n.Index = 0
		return nil

	case types.NavigationAnswering:
		current := n.Current(questions)
		if current == nil {
			return goerr.New("navigator index is out of range",
				goerr.V("index", n.Index),
				goerr.V("questions", len(questions)),
				goerr.T(ErrTagInvalidTransition))
		}
		if !responses.HasAnswer(current.ID) {
			return goerr.Wrap(ErrAnswerRequired, "cannot move to next question",
				goerr.V("questionID", current.ID))
		}
		if n.Index == len(questions)-1 {
			n.State = types.NavigationCompleted
			return nil
		}
		n.Index++
		return nil

	case types.NavigationCompleted:
		return goerr.New("assessment is already completed", goerr.T(ErrTagInvalidTransition))

	default:
		return goerr.New("invalid navigation state",
			goerr.V("state", n.State),
			goerr.T(ErrTagInvalidTransition))
	}
}

// Previous moves back one step. Answering(0) returns to SelectingTest and
// Completed returns to the last question so it can be changed.
func (n *Navigator) Previous(questions []Question) error {
	switch n.State {
	case types.NavigationAnswering:
		if n.Index == 0 {
			n.State = types.NavigationSelectingTest
			return nil
		}
		n.Index--
		return nil

	case types.NavigationCompleted:
		n.State = types.NavigationAnswering
		n.Index = len(questions) - 1
		return nil

	case types.NavigationSelectingTest:
		return goerr.New("no test in progress", goerr.T(ErrTagInvalidTransition))

	default:
		return goerr.New("invalid navigation state",
			goerr.V("state", n.State),
			goerr.T(ErrTagInvalidTransition))
	}
}

// IsCompleted returns true once every question has been answered in order
func (n *Navigator) IsCompleted() bool {
	return n.State == types.NavigationCompleted
}
