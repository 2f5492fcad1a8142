package model

import (
	"time"

	"github.com/mindhaven/mindhaven/pkg/domain/types"
)

// AssessmentResult is the classified outcome of one submitted test
type AssessmentResult struct {
	ID            types.ResultID   `json:"id"`
	UserID        types.UserID     `json:"user_id,omitempty"`
	TestTypeID    types.TestTypeID `json:"test_type_id"`
	Score         int              `json:"score"`
	MaxScore      int              `json:"max_score"`
	Answered      int              `json:"answered"`
	QuestionCount int              `json:"question_count"`
	Range         SeverityRange    `json:"range"`
	Timestamp     time.Time        `json:"timestamp"`
}

// NewAssessmentResult scores responses against a test type and classifies
// the total. Responses to questions outside the test are ignored.
func NewAssessmentResult(userID types.UserID, testType *TestType, responses ResponseSet) *AssessmentResult {
	scoped := make(ResponseSet, len(responses))
	for _, q := range testType.Questions {
		if v, ok := responses.Answer(q.ID); ok {
			scoped.SetAnswer(q.ID, v)
		}
	}

	score := scoped.Score()
	return &AssessmentResult{
		ID:            types.NewResultID(),
		UserID:        userID,
		TestTypeID:    testType.ID,
		Score:         score,
		MaxScore:      testType.MaxScore(),
		Answered:      len(scoped),
		QuestionCount: testType.QuestionCount(),
		Range:         *testType.ClassifyWithFallback(score),
		Timestamp:     time.Now(),
	}
}

// IsComplete returns true if every question contributed to the score
func (r *AssessmentResult) IsComplete() bool {
	return r.Answered == r.QuestionCount
}

// Clone returns a deep copy of the result
func (r *AssessmentResult) Clone() *AssessmentResult {
	result := *r
	result.Range.Recommendations = append([]string(nil), r.Range.Recommendations...)
	return &result
}
