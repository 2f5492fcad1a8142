package usecase

import (
	"context"
	"time"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/mindhaven/mindhaven/pkg/domain/interfaces"
	"github.com/mindhaven/mindhaven/pkg/domain/model"
	"github.com/mindhaven/mindhaven/pkg/domain/types"
)

// GoalRequest carries the fields of a new goal
type GoalRequest struct {
	Title       string
	Description string
	Category    string
	TargetDate  *time.Time
}

// Tracker implements TrackerUseCase
type Tracker struct {
	repo interfaces.Repository
}

// NewTracker creates a new Tracker instance
func NewTracker(repo interfaces.Repository) *Tracker {
	return &Tracker{repo: repo}
}

// RecordMood stores a mood check-in
func (u *Tracker) RecordMood(ctx context.Context, userID types.UserID, mood model.Mood, note string, tags []string) (*model.MoodEntry, error) {
	entry, err := model.NewMoodEntry(userID, mood, note, tags)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create mood entry")
	}

	if err := u.repo.PutMoodEntry(ctx, entry); err != nil {
		return nil, goerr.Wrap(err, "failed to save mood entry")
	}

	ctxlog.From(ctx).Debug("Mood recorded", "userID", userID, "mood", mood)
	return entry, nil
}

// ListMoods returns a user's mood entries, newest first
func (u *Tracker) ListMoods(ctx context.Context, userID types.UserID, limit int) ([]*model.MoodEntry, error) {
	if err := userID.Validate(); err != nil {
		return nil, goerr.Wrap(err, "invalid user ID", goerr.T(model.ErrTagInvalidArgument))
	}

	entries, err := u.repo.ListMoodEntries(ctx, userID, limit)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to list mood entries")
	}
	if entries == nil {
		entries = []*model.MoodEntry{}
	}
	return entries, nil
}

// MoodSummary aggregates a user's mood entries recorded since the given time
func (u *Tracker) MoodSummary(ctx context.Context, userID types.UserID, since time.Time) (*model.MoodSummary, error) {
	if err := userID.Validate(); err != nil {
		return nil, goerr.Wrap(err, "invalid user ID", goerr.T(model.ErrTagInvalidArgument))
	}

	entries, err := u.repo.ListMoodEntries(ctx, userID, 0)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to list mood entries")
	}

	return model.SummarizeMoods(entries, since), nil
}

// CreateGoal creates a new active goal
func (u *Tracker) CreateGoal(ctx context.Context, userID types.UserID, req GoalRequest) (*model.Goal, error) {
	goal, err := model.NewGoal(userID, req.Title, req.Description, req.Category, req.TargetDate)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create goal")
	}

	if err := u.repo.PutGoal(ctx, goal); err != nil {
		return nil, goerr.Wrap(err, "failed to save goal")
	}

	ctxlog.From(ctx).Info("Goal created", "goalID", goal.ID, "userID", userID)
	return goal, nil
}

// UpdateGoalProgress sets the progress of a goal; 100 completes it
func (u *Tracker) UpdateGoalProgress(ctx context.Context, goalID types.GoalID, progress int) (*model.Goal, error) {
	goal, err := u.repo.GetGoal(ctx, goalID)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to get goal")
	}

	if err := goal.SetProgress(progress); err != nil {
		return nil, goerr.Wrap(err, "failed to update progress", goerr.V("goalID", goalID))
	}

	if err := u.repo.PutGoal(ctx, goal); err != nil {
		return nil, goerr.Wrap(err, "failed to save goal")
	}
	return goal, nil
}

// CompleteGoal marks a goal as completed
func (u *Tracker) CompleteGoal(ctx context.Context, goalID types.GoalID) (*model.Goal, error) {
	goal, err := u.repo.GetGoal(ctx, goalID)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to get goal")
	}

	if err := goal.Complete(); err != nil {
		return nil, goerr.Wrap(err, "failed to complete goal")
	}

	if err := u.repo.PutGoal(ctx, goal); err != nil {
		return nil, goerr.Wrap(err, "failed to save goal")
	}

	ctxlog.From(ctx).Info("Goal completed", "goalID", goalID, "userID", goal.UserID)
	return goal, nil
}

// ListGoals returns a user's goals, oldest first
func (u *Tracker) ListGoals(ctx context.Context, userID types.UserID) ([]*model.Goal, error) {
	if err := userID.Validate(); err != nil {
		return nil, goerr.Wrap(err, "invalid user ID", goerr.T(model.ErrTagInvalidArgument))
	}

	goals, err := u.repo.ListGoals(ctx, userID)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to list goals")
	}
	if goals == nil {
		goals = []*model.Goal{}
	}
	return goals, nil
}

// DeleteGoal deletes a goal
func (u *Tracker) DeleteGoal(ctx context.Context, goalID types.GoalID) error {
	if err := u.repo.DeleteGoal(ctx, goalID); err != nil {
		return goerr.Wrap(err, "failed to delete goal")
	}
	return nil
}

var _ TrackerUseCase = (*Tracker)(nil)
