package interfaces

import (
	"context"

	"github.com/mindhaven/mindhaven/pkg/domain/model"
	"github.com/mindhaven/mindhaven/pkg/domain/types"
)

// Repository defines the interface for data persistence
type Repository interface {
	// Assessment session operations
	PutAssessmentSession(ctx context.Context, session *model.AssessmentSession) error
	GetAssessmentSession(ctx context.Context, id types.AssessmentSessionID) (*model.AssessmentSession, error)
	DeleteAssessmentSession(ctx context.Context, id types.AssessmentSessionID) error

	// Assessment result operations. Results are listed newest first.
	PutResult(ctx context.Context, result *model.AssessmentResult) error
	GetResult(ctx context.Context, id types.ResultID) (*model.AssessmentResult, error)
	ListResults(ctx context.Context, userID types.UserID, limit int) ([]*model.AssessmentResult, error)

	// Mood entry operations. Entries are listed newest first.
	PutMoodEntry(ctx context.Context, entry *model.MoodEntry) error
	ListMoodEntries(ctx context.Context, userID types.UserID, limit int) ([]*model.MoodEntry, error)

	// Goal operations. Goals are listed oldest first.
	PutGoal(ctx context.Context, goal *model.Goal) error
	GetGoal(ctx context.Context, id types.GoalID) (*model.Goal, error)
	ListGoals(ctx context.Context, userID types.UserID) ([]*model.Goal, error)
	DeleteGoal(ctx context.Context, id types.GoalID) error

	// Close closes the repository connection
	Close() error
}
