package repository

import (
	"context"
	"sync"

	"github.com/m-mizutani/goerr/v2"
	"github.com/mindhaven/mindhaven/pkg/domain/interfaces"
	"github.com/mindhaven/mindhaven/pkg/domain/model"
	"github.com/mindhaven/mindhaven/pkg/domain/types"
)

// Memory implements Repository interface with in-memory storage
type Memory struct {
	mu       sync.RWMutex
	sessions map[types.AssessmentSessionID]*model.AssessmentSession
	results  map[types.ResultID]*model.AssessmentResult
	moods    map[types.MoodEntryID]*model.MoodEntry
	goals    map[types.GoalID]*model.Goal
}

// NewMemory creates a new memory repository
func NewMemory() interfaces.Repository {
	return &Memory{
		sessions: make(map[types.AssessmentSessionID]*model.AssessmentSession),
		results:  make(map[types.ResultID]*model.AssessmentResult),
		moods:    make(map[types.MoodEntryID]*model.MoodEntry),
		goals:    make(map[types.GoalID]*model.Goal),
	}
}

// PutAssessmentSession creates or replaces a session
func (m *Memory) PutAssessmentSession(ctx context.Context, session *model.AssessmentSession) error {
	if session == nil {
		return goerr.New("session is nil")
	}
	if session.ID == "" {
		return goerr.New("session ID is empty")
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.sessions[session.ID] = session.Clone()
	return nil
}

// GetAssessmentSession retrieves a session by ID
func (m *Memory) GetAssessmentSession(ctx context.Context, id types.AssessmentSessionID) (*model.AssessmentSession, error) {
	if id == "" {
		return nil, goerr.New("session ID is empty")
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	session, exists := m.sessions[id]
	if !exists {
		return nil, goerr.Wrap(model.ErrSessionNotFound, "no such session", goerr.V("sessionID", id))
	}

	return session.Clone(), nil
}

// DeleteAssessmentSession deletes a session
func (m *Memory) DeleteAssessmentSession(ctx context.Context, id types.AssessmentSessionID) error {
	if id == "" {
		return goerr.New("session ID is empty")
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.sessions[id]; !exists {
		return goerr.Wrap(model.ErrSessionNotFound, "no such session", goerr.V("sessionID", id))
	}
	delete(m.sessions, id)
	return nil
}

// PutResult saves an assessment result
func (m *Memory) PutResult(ctx context.Context, result *model.AssessmentResult) error {
	if result == nil {
		return goerr.New("result is nil")
	}
	if result.ID == "" {
		return goerr.New("result ID is empty")
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.results[result.ID] = result.Clone()
	return nil
}

// GetResult retrieves a result by ID
func (m *Memory) GetResult(ctx context.Context, id types.ResultID) (*model.AssessmentResult, error) {
	if id == "" {
		return nil, goerr.New("result ID is empty")
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	result, exists := m.results[id]
	if !exists {
		return nil, goerr.Wrap(model.ErrResultNotFound, "no such result", goerr.V("resultID", id))
	}

	return result.Clone(), nil
}

// ListResults lists results of a user, newest first
func (m *Memory) ListResults(ctx context.Context, userID types.UserID, limit int) ([]*model.AssessmentResult, error) {
	if userID == "" {
		return nil, goerr.New("user ID is empty")
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	var results []*model.AssessmentResult
	for _, result := range m.results {
		if result.UserID == userID {
			results = append(results, result.Clone())
		}
	}

	return newestResultsFirst(results, limit), nil
}

// PutMoodEntry saves a mood entry
func (m *Memory) PutMoodEntry(ctx context.Context, entry *model.MoodEntry) error {
	if entry == nil {
		return goerr.New("mood entry is nil")
	}
	if entry.ID == "" {
		return goerr.New("mood entry ID is empty")
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.moods[entry.ID] = entry.Clone()
	return nil
}

// ListMoodEntries lists mood entries of a user, newest first
func (m *Memory) ListMoodEntries(ctx context.Context, userID types.UserID, limit int) ([]*model.MoodEntry, error) {
	if userID == "" {
		return nil, goerr.New("user ID is empty")
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	var entries []*model.MoodEntry
	for _, entry := range m.moods {
		if entry.UserID == userID {
			entries = append(entries, entry.Clone())
		}
	}

	return newestMoodsFirst(entries, limit), nil
}

// PutGoal creates or replaces a goal
func (m *Memory) PutGoal(ctx context.Context, goal *model.Goal) error {
	if goal == nil {
		return goerr.New("goal is nil")
	}
	if goal.ID == "" {
		return goerr.New("goal ID is empty")
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.goals[goal.ID] = goal.Clone()
	return nil
}

// GetGoal retrieves a goal by ID
func (m *Memory) GetGoal(ctx context.Context, id types.GoalID) (*model.Goal, error) {
	if id == "" {
		return nil, goerr.New("goal ID is empty")
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	goal, exists := m.goals[id]
	if !exists {
		return nil, goerr.Wrap(model.ErrGoalNotFound, "no such goal", goerr.V("goalID", id))
	}

	return goal.Clone(), nil
}

// ListGoals lists goals of a user, oldest first
func (m *Memory) ListGoals(ctx context.Context, userID types.UserID) ([]*model.Goal, error) {
	if userID == "" {
		return nil, goerr.New("user ID is empty")
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	var goals []*model.Goal
	for _, goal := range m.goals {
		if goal.UserID == userID {
			goals = append(goals, goal.Clone())
		}
	}

	return oldestGoalsFirst(goals), nil
}

// DeleteGoal deletes a goal
func (m *Memory) DeleteGoal(ctx context.Context, id types.GoalID) error {
	if id == "" {
		return goerr.New("goal ID is empty")
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.goals[id]; !exists {
		return goerr.Wrap(model.ErrGoalNotFound, "no such goal", goerr.V("goalID", id))
	}
	delete(m.goals, id)
	return nil
}

// Close is a no-op for memory repository
func (m *Memory) Close() error {
	return nil
}
