package model_test

import (
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/mindhaven/mindhaven/pkg/domain/model"
	"github.com/mindhaven/mindhaven/pkg/domain/types"
)

func threePointOptions() []model.Option {
	return []model.Option{
		{Value: 0, Label: "Never"},
		{Value: 1, Label: "Sometimes"},
		{Value: 2, Label: "Often"},
	}
}

// newTestType returns a three question test scored 0-6
func newTestType() *model.TestType {
	return &model.TestType{
		ID:    "sample",
		Title: "Sample Test",
		Questions: []model.Question{
			{ID: "s-1", Text: "First", Options: threePointOptions()},
			{ID: "s-2", Text: "Second", Options: threePointOptions()},
			{ID: "s-3", Text: "Third", Options: threePointOptions()},
		},
		Severities: model.SeverityTable{
			{Min: 0, Max: 1, Severity: model.SeverityMinimal, Label: "Minimal"},
			{Min: 2, Max: 4, Severity: model.SeverityMild, Label: "Mild"},
			{Min: 5, Max: 6, Severity: model.SeveritySevere, Label: "Severe"},
		},
	}
}

func TestQuestionValidate(t *testing.T) {
	t.Run("valid question", func(t *testing.T) {
		q := model.Question{ID: "q", Text: "text", Options: threePointOptions()}
		gt.NoError(t, q.Validate())
		gt.Equal(t, q.MaxValue(), 2)
		gt.True(t, q.HasOption(1))
		gt.False(t, q.HasOption(3))
		gt.Equal(t, q.FindOption(2).Label, "Often")
	})

	t.Run("error when option values do not start at zero", func(t *testing.T) {
		q := model.Question{ID: "q", Text: "text", Options: []model.Option{
			{Value: 1, Label: "a"},
			{Value: 2, Label: "b"},
		}}
		gt.Error(t, q.Validate())
	})

	t.Run("error when option values skip", func(t *testing.T) {
		q := model.Question{ID: "q", Text: "text", Options: []model.Option{
			{Value: 0, Label: "a"},
			{Value: 2, Label: "b"},
		}}
		gt.Error(t, q.Validate())
	})

	t.Run("error with a single option", func(t *testing.T) {
		q := model.Question{ID: "q", Text: "text", Options: []model.Option{{Value: 0, Label: "a"}}}
		gt.Error(t, q.Validate())
	})

	t.Run("error when text is empty", func(t *testing.T) {
		q := model.Question{ID: "q", Options: threePointOptions()}
		gt.Error(t, q.Validate())
	})
}

func TestTestTypeValidate(t *testing.T) {
	t.Run("valid test type", func(t *testing.T) {
		tt := newTestType()
		gt.NoError(t, tt.Validate())
		gt.Equal(t, tt.QuestionCount(), 3)
		gt.Equal(t, tt.MaxOptionValue(), 2)
		gt.Equal(t, tt.MaxScore(), 6)
		gt.True(t, tt.HasSeverityTable())
	})

	t.Run("valid without severity table", func(t *testing.T) {
		tt := newTestType()
		tt.Severities = nil
		gt.NoError(t, tt.Validate())
		gt.False(t, tt.HasSeverityTable())
		gt.True(t, tt.ClassifyWithFallback(3).IsUnknown())
	})

	t.Run("error when questions use different scales", func(t *testing.T) {
		tt := newTestType()
		tt.Questions[1].Options = tt.Questions[1].Options[:2]
		gt.Error(t, tt.Validate())
	})

	t.Run("error on duplicate question ID", func(t *testing.T) {
		tt := newTestType()
		tt.Questions[2].ID = "s-1"
		gt.Error(t, tt.Validate())
	})

	t.Run("error when table does not match max score", func(t *testing.T) {
		tt := newTestType()
		tt.Questions = tt.Questions[:2]
		gt.Error(t, tt.Validate())
	})

	t.Run("error without questions", func(t *testing.T) {
		tt := newTestType()
		tt.Questions = nil
		tt.Severities = nil
		gt.Error(t, tt.Validate())
	})
}

func TestTestTypeFindQuestion(t *testing.T) {
	tt := newTestType()
	gt.Equal(t, tt.QuestionIndex("s-2"), 1)
	gt.Equal(t, tt.QuestionIndex("other"), -1)
	gt.Equal(t, tt.FindQuestion("s-3").Text, "Third")
	gt.Nil(t, tt.FindQuestion("other"))
}

func TestBankValidate(t *testing.T) {
	t.Run("valid bank", func(t *testing.T) {
		bank := &model.Bank{TestTypes: []model.TestType{*newTestType()}}
		gt.NoError(t, bank.Validate())
	})

	t.Run("error when empty", func(t *testing.T) {
		bank := &model.Bank{}
		gt.Error(t, bank.Validate())
	})

	t.Run("error on duplicate test type ID", func(t *testing.T) {
		a := newTestType()
		b := newTestType()
		for i := range b.Questions {
			b.Questions[i].ID = types.QuestionID("other-" + b.Questions[i].ID.String())
		}
		bank := &model.Bank{TestTypes: []model.TestType{*a, *b}}
		gt.Error(t, bank.Validate())
	})

	t.Run("error when question ID is shared across test types", func(t *testing.T) {
		a := newTestType()
		b := newTestType()
		b.ID = "other"
		bank := &model.Bank{TestTypes: []model.TestType{*a, *b}}
		gt.Error(t, bank.Validate())
	})
}

func TestBankLookup(t *testing.T) {
	bank := &model.Bank{TestTypes: []model.TestType{*newTestType()}}

	t.Run("find test type", func(t *testing.T) {
		tt := bank.FindTestType("sample")
		gt.NotNil(t, tt)
		gt.Equal(t, tt.Title, "Sample Test")
	})

	t.Run("unknown test type", func(t *testing.T) {
		gt.Nil(t, bank.FindTestType("missing"))
	})

	t.Run("questions of unknown test type are empty", func(t *testing.T) {
		questions := bank.Questions("missing")
		gt.NotNil(t, questions)
		gt.Equal(t, len(questions), 0)
	})

	t.Run("questions keep their order", func(t *testing.T) {
		questions := bank.Questions("sample")
		gt.Equal(t, len(questions), 3)
		gt.Equal(t, questions[0].ID, types.QuestionID("s-1"))
		gt.Equal(t, questions[2].ID, types.QuestionID("s-3"))
	})

	t.Run("classify", func(t *testing.T) {
		r, ok := bank.Classify("sample", 4)
		gt.True(t, ok)
		gt.Equal(t, r.Severity, model.SeverityMild)

		_, ok = bank.Classify("sample", 7)
		gt.False(t, ok)

		_, ok = bank.Classify("missing", 0)
		gt.False(t, ok)
	})

	t.Run("classify with fallback", func(t *testing.T) {
		gt.Equal(t, bank.ClassifyWithFallback("sample", 6).Severity, model.SeveritySevere)
		gt.True(t, bank.ClassifyWithFallback("missing", 0).IsUnknown())
	})
}
