package usecase

import (
	"context"
	"time"

	"github.com/mindhaven/mindhaven/pkg/domain/model"
	"github.com/mindhaven/mindhaven/pkg/domain/types"
)

// AssessmentUseCase defines the interface for taking and scoring tests
type AssessmentUseCase interface {
	// ListTestTypes returns every test type of the bank in catalogue order
	ListTestTypes(ctx context.Context) []model.TestType

	// GetTestType returns one test type
	GetTestType(ctx context.Context, id types.TestTypeID) (*model.TestType, error)

	// GetQuestions returns the ordered questions of a test type. Unknown test
	// types yield an empty list.
	GetQuestions(ctx context.Context, id types.TestTypeID) []model.Question

	// Score scores a (possibly partial) response set without storing anything
	Score(ctx context.Context, id types.TestTypeID, responses model.ResponseSet) (*model.AssessmentResult, error)

	// StartSession starts a test for a user at its first question
	StartSession(ctx context.Context, userID types.UserID, id types.TestTypeID) (*SessionState, error)

	// GetSession returns the current state of a session
	GetSession(ctx context.Context, sessionID types.AssessmentSessionID) (*SessionState, error)

	// Answer records the answer of one question of the session's test
	Answer(ctx context.Context, sessionID types.AssessmentSessionID, questionID types.QuestionID, value int) (*SessionState, error)

	// Next moves to the next question; the current one must be answered
	Next(ctx context.Context, sessionID types.AssessmentSessionID) (*SessionState, error)

	// Previous moves back one question
	Previous(ctx context.Context, sessionID types.AssessmentSessionID) (*SessionState, error)

	// Submit classifies a completed session, stores the result and closes the session
	Submit(ctx context.Context, sessionID types.AssessmentSessionID) (*model.AssessmentResult, error)

	// Abandon discards a session
	Abandon(ctx context.Context, sessionID types.AssessmentSessionID) error

	// ListResults returns a user's results, newest first
	ListResults(ctx context.Context, userID types.UserID, limit int) ([]*model.AssessmentResult, error)

	// GetResult returns one result
	GetResult(ctx context.Context, id types.ResultID) (*model.AssessmentResult, error)
}

// TrackerUseCase defines the interface for mood and goal tracking
type TrackerUseCase interface {
	RecordMood(ctx context.Context, userID types.UserID, mood model.Mood, note string, tags []string) (*model.MoodEntry, error)
	ListMoods(ctx context.Context, userID types.UserID, limit int) ([]*model.MoodEntry, error)
	MoodSummary(ctx context.Context, userID types.UserID, since time.Time) (*model.MoodSummary, error)

	CreateGoal(ctx context.Context, userID types.UserID, req GoalRequest) (*model.Goal, error)
	UpdateGoalProgress(ctx context.Context, goalID types.GoalID, progress int) (*model.Goal, error)
	CompleteGoal(ctx context.Context, goalID types.GoalID) (*model.Goal, error)
	ListGoals(ctx context.Context, userID types.UserID) ([]*model.Goal, error)
	DeleteGoal(ctx context.Context, goalID types.GoalID) error
}
