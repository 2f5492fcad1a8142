package model_test

import (
	"errors"
	"testing"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/gt"
	"github.com/mindhaven/mindhaven/pkg/domain/model"
	"github.com/mindhaven/mindhaven/pkg/domain/types"
)

func TestNewAssessmentSession(t *testing.T) {
	t.Run("starts at the first question", func(t *testing.T) {
		tt := newTestType()
		s, err := model.NewAssessmentSession("user-1", tt)
		gt.NoError(t, err).Required()

		gt.NotEqual(t, s.ID, types.AssessmentSessionID(""))
		gt.Equal(t, s.TestTypeID, tt.ID)
		gt.Equal(t, s.Navigator.State, types.NavigationAnswering)
		gt.Equal(t, s.CurrentQuestion(tt).ID, types.QuestionID("s-1"))
		gt.Equal(t, len(s.Responses), 0)
	})

	t.Run("error with empty user", func(t *testing.T) {
		_, err := model.NewAssessmentSession("", newTestType())
		gt.Error(t, err)
		gt.B(t, goerr.HasTag(err, model.ErrTagInvalidArgument)).True()
	})

	t.Run("error without test type", func(t *testing.T) {
		_, err := model.NewAssessmentSession("user-1", nil)
		gt.Error(t, err)
	})
}

func TestAssessmentSessionAnswer(t *testing.T) {
	tt := newTestType()

	t.Run("records valid option", func(t *testing.T) {
		s, err := model.NewAssessmentSession("user-1", tt)
		gt.NoError(t, err).Required()
		gt.NoError(t, s.Answer(tt, "s-1", 2))
		v, ok := s.Responses.Answer("s-1")
		gt.True(t, ok)
		gt.Equal(t, v, 2)
	})

	t.Run("rejects a question ahead of the current one", func(t *testing.T) {
		s, err := model.NewAssessmentSession("user-1", tt)
		gt.NoError(t, err).Required()
		err = s.Answer(tt, "s-3", 1)
		gt.Error(t, err)
		gt.B(t, goerr.HasTag(err, model.ErrTagInvalidTransition)).True()
		gt.False(t, s.Responses.HasAnswer("s-3"))
	})

	t.Run("rejects a question behind the current one", func(t *testing.T) {
		s, err := model.NewAssessmentSession("user-1", tt)
		gt.NoError(t, err).Required()
		gt.NoError(t, s.Answer(tt, "s-1", 1)).Required()
		gt.NoError(t, s.Next(tt)).Required()

		err = s.Answer(tt, "s-1", 2)
		gt.B(t, goerr.HasTag(err, model.ErrTagInvalidTransition)).True()
		v, _ := s.Responses.Answer("s-1")
		gt.Equal(t, v, 1)
	})

	t.Run("rejects answers while selecting a test", func(t *testing.T) {
		s, err := model.NewAssessmentSession("user-1", tt)
		gt.NoError(t, err).Required()
		gt.NoError(t, s.Previous(tt)).Required()

		err = s.Answer(tt, "s-1", 1)
		gt.B(t, goerr.HasTag(err, model.ErrTagInvalidTransition)).True()
		gt.Equal(t, len(s.Responses), 0)
	})

	t.Run("rejects answers once completed", func(t *testing.T) {
		s, err := model.NewAssessmentSession("user-1", tt)
		gt.NoError(t, err).Required()
		for _, q := range tt.Questions {
			gt.NoError(t, s.Answer(tt, q.ID, 0)).Required()
			gt.NoError(t, s.Next(tt)).Required()
		}

		err = s.Answer(tt, "s-3", 2)
		gt.B(t, goerr.HasTag(err, model.ErrTagInvalidTransition)).True()
	})

	t.Run("rejects value outside the scale", func(t *testing.T) {
		s, err := model.NewAssessmentSession("user-1", tt)
		gt.NoError(t, err).Required()
		err = s.Answer(tt, "s-1", 3)
		gt.Error(t, err)
		gt.B(t, goerr.HasTag(err, model.ErrTagInvalidArgument)).True()
		gt.False(t, s.Responses.HasAnswer("s-1"))
	})

	t.Run("rejects question of another test", func(t *testing.T) {
		s, err := model.NewAssessmentSession("user-1", tt)
		gt.NoError(t, err).Required()
		err = s.Answer(tt, "dep-1", 0)
		gt.Error(t, err)
		gt.B(t, goerr.HasTag(err, model.ErrTagNotFound)).True()
	})
}

func TestAssessmentSessionWalkthrough(t *testing.T) {
	tt := newTestType()
	s, err := model.NewAssessmentSession("user-1", tt)
	gt.NoError(t, err).Required()

	err = s.Next(tt)
	gt.True(t, errors.Is(err, model.ErrAnswerRequired))

	for _, q := range tt.Questions {
		gt.NoError(t, s.Answer(tt, q.ID, 2)).Required()
		gt.NoError(t, s.Next(tt)).Required()
	}
	gt.True(t, s.Navigator.IsCompleted())
	gt.Equal(t, s.Responses.Score(), 6)

	gt.NoError(t, s.Previous(tt))
	gt.Equal(t, s.CurrentQuestion(tt).ID, types.QuestionID("s-3"))
}

func TestAssessmentSessionClone(t *testing.T) {
	tt := newTestType()
	s, err := model.NewAssessmentSession("user-1", tt)
	gt.NoError(t, err).Required()
	gt.NoError(t, s.Answer(tt, "s-1", 1)).Required()

	c := s.Clone()
	c.Responses.SetAnswer("s-2", 2)
	gt.Equal(t, len(s.Responses), 1)
	gt.Equal(t, len(c.Responses), 2)
}

func TestNewAssessmentResult(t *testing.T) {
	tt := newTestType()

	t.Run("classifies the total score", func(t *testing.T) {
		r := model.NewResponseSet()
		r.SetAnswer("s-1", 2)
		r.SetAnswer("s-2", 2)
		r.SetAnswer("s-3", 1)

		result := model.NewAssessmentResult("user-1", tt, r)
		gt.Equal(t, result.Score, 5)
		gt.Equal(t, result.MaxScore, 6)
		gt.Equal(t, result.Range.Severity, model.SeveritySevere)
		gt.True(t, result.IsComplete())
		gt.NotEqual(t, result.ID, types.ResultID(""))
	})

	t.Run("ignores answers to other questions", func(t *testing.T) {
		r := model.NewResponseSet()
		r.SetAnswer("s-1", 1)
		r.SetAnswer("dep-1", 3)

		result := model.NewAssessmentResult("", tt, r)
		gt.Equal(t, result.Score, 1)
		gt.Equal(t, result.Answered, 1)
		gt.False(t, result.IsComplete())
		gt.Equal(t, result.Range.Severity, model.SeverityMinimal)
	})

	t.Run("unknown range without severity table", func(t *testing.T) {
		noTable := newTestType()
		noTable.Severities = nil
		result := model.NewAssessmentResult("user-1", noTable, model.NewResponseSet())
		gt.True(t, result.Range.IsUnknown())
		gt.Equal(t, result.Range.Label, "Unknown")
	})
}
