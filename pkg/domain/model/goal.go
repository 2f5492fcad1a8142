package model

import (
	"strings"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/mindhaven/mindhaven/pkg/domain/types"
)

// GoalStatus represents the status of a goal
type GoalStatus string

const (
	// GoalStatusActive represents a goal still being worked on
	GoalStatusActive GoalStatus = "active"
	// GoalStatusCompleted represents a reached goal
	GoalStatusCompleted GoalStatus = "completed"
)

// IsValid checks if the goal status is valid
func (s GoalStatus) IsValid() bool {
	switch s {
	case GoalStatusActive, GoalStatusCompleted:
		return true
	default:
		return false
	}
}

// Goal is a personal wellbeing goal
type Goal struct {
	ID          types.GoalID `json:"id"`
	UserID      types.UserID `json:"user_id"`
	Title       string       `json:"title"`
	Description string       `json:"description,omitempty"`
	Category    string       `json:"category,omitempty"`
	TargetDate  *time.Time   `json:"target_date,omitempty"`
	Progress    int          `json:"progress"` // 0-100
	Status      GoalStatus   `json:"status"`
	CreatedAt   time.Time    `json:"created_at"`
	UpdatedAt   time.Time    `json:"updated_at"`
	CompletedAt *time.Time   `json:"completed_at,omitempty"`
}

// NewGoal creates a new active goal
func NewGoal(userID types.UserID, title, description, category string, targetDate *time.Time) (*Goal, error) {
	if err := userID.Validate(); err != nil {
		return nil, goerr.Wrap(err, "invalid user ID", goerr.T(ErrTagInvalidArgument))
	}
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, goerr.New("goal title is required", goerr.T(ErrTagInvalidArgument))
	}

	now := time.Now()
	return &Goal{
		ID:          types.NewGoalID(),
		UserID:      userID,
		Title:       title,
		Description: strings.TrimSpace(description),
		Category:    strings.TrimSpace(category),
		TargetDate:  cloneTime(targetDate),
		Progress:    0,
		Status:      GoalStatusActive,
		CreatedAt:   now,
		UpdatedAt:   now,
	}, nil
}

// SetProgress updates the progress percentage. Reaching 100 completes the
// goal; lowering the progress of a completed goal reopens it.
func (g *Goal) SetProgress(progress int) error {
	if progress < 0 || progress > 100 {
		return goerr.New("progress must be between 0 and 100",
			goerr.V("progress", progress),
			goerr.T(ErrTagInvalidArgument))
	}

	now := time.Now()
	g.Progress = progress
	g.UpdatedAt = now

	switch {
	case progress == 100 && g.Status != GoalStatusCompleted:
		g.Status = GoalStatusCompleted
		g.CompletedAt = &now
	case progress < 100 && g.Status == GoalStatusCompleted:
		g.Status = GoalStatusActive
		g.CompletedAt = nil
	}
	return nil
}

// Complete marks the goal as completed
func (g *Goal) Complete() error {
	if g.Status == GoalStatusCompleted {
		return goerr.New("goal is already completed",
			goerr.V("goalID", g.ID),
			goerr.T(ErrTagInvalidTransition))
	}

	now := time.Now()
	g.Status = GoalStatusCompleted
	g.Progress = 100
	g.CompletedAt = &now
	g.UpdatedAt = now
	return nil
}

// IsCompleted returns true if the goal is completed
func (g *Goal) IsCompleted() bool {
	return g.Status == GoalStatusCompleted
}

// IsOverdue returns true if an active goal has passed its target date
func (g *Goal) IsOverdue(now time.Time) bool {
	return g.Status == GoalStatusActive && g.TargetDate != nil && now.After(*g.TargetDate)
}

// Clone returns a deep copy of the goal
func (g *Goal) Clone() *Goal {
	goal := *g
	goal.TargetDate = cloneTime(g.TargetDate)
	goal.CompletedAt = cloneTime(g.CompletedAt)
	return &goal
}

func cloneTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	v := *t
	return &v
}
