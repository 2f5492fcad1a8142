package types

import (
	"github.com/google/uuid"
	"github.com/m-mizutani/goerr/v2"
)

// TestTypeID identifies an assessment instrument (e.g. "depression")
type TestTypeID string

// String returns the string representation
func (id TestTypeID) String() string {
	return string(id)
}

// QuestionID identifies a question. It is unique across the whole bank.
type QuestionID string

// String returns the string representation
func (id QuestionID) String() string {
	return string(id)
}

// UserID represents a user identifier
type UserID string

// String returns the string representation
func (id UserID) String() string {
	return string(id)
}

// Validate checks that the user ID is not empty
func (id UserID) Validate() error {
	if id == "" {
		return goerr.New("user ID is empty")
	}
	return nil
}

// AssessmentSessionID represents an in-progress assessment identifier
type AssessmentSessionID string

// String returns the string representation
func (id AssessmentSessionID) String() string {
	return string(id)
}

// NewAssessmentSessionID creates a new AssessmentSessionID using UUID v7
func NewAssessmentSessionID() (AssessmentSessionID, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return "", err
	}
	return AssessmentSessionID(id.String()), nil
}

// ResultID represents an assessment result identifier
type ResultID string

// String returns the string representation
func (id ResultID) String() string {
	return string(id)
}

// NewResultID creates a new ResultID
func NewResultID() ResultID {
	return ResultID(uuid.New().String())
}

// MoodEntryID represents a mood entry identifier
type MoodEntryID string

// String returns the string representation
func (id MoodEntryID) String() string {
	return string(id)
}

// NewMoodEntryID creates a new MoodEntryID
func NewMoodEntryID() MoodEntryID {
	return MoodEntryID(uuid.New().String())
}

// GoalID represents a goal identifier
type GoalID string

// String returns the string representation
func (id GoalID) String() string {
	return string(id)
}

// NewGoalID creates a new GoalID
func NewGoalID() GoalID {
	return GoalID(uuid.New().String())
}
