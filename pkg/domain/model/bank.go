package model

import (
	"github.com/m-mizutani/goerr/v2"
	"github.com/mindhaven/mindhaven/pkg/domain/types"
)

// TestType is one assessment instrument with its questions and, when
// available, the severity table used to interpret its total score
type TestType struct {
	ID               types.TestTypeID `yaml:"id" json:"id"`
	Title            string           `yaml:"title" json:"title"`
	Description      string           `yaml:"description" json:"description"`
	ExpectedDuration string           `yaml:"expected_duration" json:"expected_duration"`
	Questions        []Question       `yaml:"questions" json:"questions,omitempty"`
	Severities       SeverityTable    `yaml:"severities,omitempty" json:"severities,omitempty"`
}

// QuestionCount returns the number of questions
func (t *TestType) QuestionCount() int {
	return len(t.Questions)
}

// MaxOptionValue returns the highest option value on the test's scale
func (t *TestType) MaxOptionValue() int {
	if len(t.Questions) == 0 {
		return 0
	}
	return t.Questions[0].MaxValue()
}

// MaxScore returns questionCount x maxOptionValue
func (t *TestType) MaxScore() int {
	return t.QuestionCount() * t.MaxOptionValue()
}

// HasSeverityTable returns true if scores of this test can be classified
func (t *TestType) HasSeverityTable() bool {
	return len(t.Severities) > 0
}

// QuestionIndex returns the position of the question or -1
func (t *TestType) QuestionIndex(id types.QuestionID) int {
	for i := range t.Questions {
		if t.Questions[i].ID == id {
			return i
		}
	}
	return -1
}

// FindQuestion finds a question of this test by its ID
func (t *TestType) FindQuestion(id types.QuestionID) *Question {
	if i := t.QuestionIndex(id); i >= 0 {
		result := t.Questions[i]
		return &result
	}
	return nil
}

// Classify returns the severity range containing score, or nil when the test
// has no table or the score is not covered
func (t *TestType) Classify(score int) *SeverityRange {
	return t.Severities.Find(score)
}

// ClassifyWithFallback returns the matching range or the unknown range
func (t *TestType) ClassifyWithFallback(score int) *SeverityRange {
	return t.Severities.FindWithFallback(score)
}

// Validate validates the test type. All questions must share the same
// option cardinality, and the severity table (if any) must cover
// [0, MaxScore()].
func (t *TestType) Validate() error {
	if t.ID == "" {
		return goerr.New("test type ID is required")
	}
	if t.Title == "" {
		return goerr.New("test type title is required", goerr.V("id", t.ID))
	}
	if len(t.Questions) == 0 {
		return goerr.New("at least one question is required", goerr.V("id", t.ID))
	}

	idMap := make(map[types.QuestionID]bool)
	cardinality := len(t.Questions[0].Options)
	for i, q := range t.Questions {
		if err := q.Validate(); err != nil {
			return goerr.Wrap(err, "invalid question at index",
				goerr.V("testType", t.ID),
				goerr.V("index", i))
		}
		if idMap[q.ID] {
			return goerr.New("duplicate question ID",
				goerr.V("testType", t.ID),
				goerr.V("id", q.ID))
		}
		idMap[q.ID] = true

		if len(q.Options) != cardinality {
			return goerr.New("all questions of a test must share the same scale",
				goerr.V("testType", t.ID),
				goerr.V("id", q.ID),
				goerr.V("expected", cardinality),
				goerr.V("actual", len(q.Options)))
		}
	}

	if t.HasSeverityTable() {
		if err := t.Severities.Validate(t.MaxScore()); err != nil {
			return goerr.Wrap(err, "invalid severity table", goerr.V("testType", t.ID))
		}
	}

	return nil
}

// Bank is the process-wide, read-only catalogue of test types
type Bank struct {
	TestTypes []TestType `yaml:"test_types"`
}

// Validate validates the entire bank
func (b *Bank) Validate() error {
	if len(b.TestTypes) == 0 {
		return goerr.New("at least one test type is required")
	}

	testTypeIDs := make(map[types.TestTypeID]bool)
	questionIDs := make(map[types.QuestionID]types.TestTypeID)
	for i := range b.TestTypes {
		tt := &b.TestTypes[i]
		if err := tt.Validate(); err != nil {
			return goerr.Wrap(err, "invalid test type at index",
				goerr.V("index", i),
				goerr.V("id", tt.ID))
		}

		if testTypeIDs[tt.ID] {
			return goerr.New("duplicate test type ID", goerr.V("id", tt.ID))
		}
		testTypeIDs[tt.ID] = true

		// Question IDs key response sets, so they must be unique bank-wide
		for _, q := range tt.Questions {
			if owner, exists := questionIDs[q.ID]; exists {
				return goerr.New("question ID is used by more than one test type",
					goerr.V("id", q.ID),
					goerr.V("testType", tt.ID),
					goerr.V("otherTestType", owner))
			}
			questionIDs[q.ID] = tt.ID
		}
	}

	return nil
}

// FindTestType finds a test type by its ID
func (b *Bank) FindTestType(id types.TestTypeID) *TestType {
	for _, tt := range b.TestTypes {
		if tt.ID == id {
			result := tt
			return &result
		}
	}
	return nil
}

// Questions returns the ordered questions of a test type. An unknown test
// type yields an empty list.
func (b *Bank) Questions(id types.TestTypeID) []Question {
	tt := b.FindTestType(id)
	if tt == nil {
		return []Question{}
	}
	return tt.Questions
}

// Classify maps (test type, score) to a severity range. The second return
// value is false when the test type is unknown, has no table, or the score
// is not covered.
func (b *Bank) Classify(id types.TestTypeID, score int) (*SeverityRange, bool) {
	tt := b.FindTestType(id)
	if tt == nil {
		return nil, false
	}
	r := tt.Classify(score)
	return r, r != nil
}

// ClassifyWithFallback maps (test type, score) to a severity range, using the
// unknown range when no range matches
func (b *Bank) ClassifyWithFallback(id types.TestTypeID, score int) *SeverityRange {
	if r, ok := b.Classify(id, score); ok {
		return r
	}
	return UnknownSeverityRange()
}
