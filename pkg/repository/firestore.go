package repository

import (
	"context"

	"cloud.google.com/go/firestore"
	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/mindhaven/mindhaven/pkg/domain/interfaces"
	"github.com/mindhaven/mindhaven/pkg/domain/model"
	"github.com/mindhaven/mindhaven/pkg/domain/types"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

const (
	// Collection names
	sessionsCollection = "assessment_sessions"
	resultsCollection  = "assessment_results"
	moodsCollection    = "mood_entries"
	goalsCollection    = "goals"

	// Field names match Go struct field names
	fieldUserID = "UserID"
)

// Firestore implements Repository interface with Firestore
type Firestore struct {
	client *firestore.Client
}

// NewFirestore creates a new Firestore repository
func NewFirestore(ctx context.Context, projectID, databaseID string) (interfaces.Repository, error) {
	logger := ctxlog.From(ctx)

	client, err := firestore.NewClientWithDatabase(ctx, projectID, databaseID)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create firestore client")
	}

	// Fail fast on a wrong project or missing permissions
	_, err = client.Collection(resultsCollection).Limit(1).Documents(ctx).Next()
	if err != nil && err != iterator.Done {
		if status.Code(err) == codes.PermissionDenied || status.Code(err) == codes.Unauthenticated {
			_ = client.Close()
			return nil, goerr.Wrap(err, "failed to connect to firestore project",
				goerr.V("firestore error code", status.Code(err).String()),
			)
		}
		logger.Debug("Firestore connection test returned error (may be empty collection)",
			"error", err,
			"errorCode", status.Code(err).String(),
		)
	}

	logger.Info("Firestore repository initialized successfully",
		"projectID", projectID,
		"databaseID", databaseID,
	)

	return &Firestore{
		client: client,
	}, nil
}

// PutAssessmentSession creates or replaces a session
func (f *Firestore) PutAssessmentSession(ctx context.Context, session *model.AssessmentSession) error {
	if session == nil {
		return goerr.New("session is nil")
	}
	if session.ID == "" {
		return goerr.New("session ID is empty")
	}

	if _, err := f.client.Collection(sessionsCollection).Doc(session.ID.String()).Set(ctx, session); err != nil {
		return goerr.Wrap(err, "failed to save session to firestore", goerr.V("sessionID", session.ID))
	}
	return nil
}

// GetAssessmentSession retrieves a session by ID
func (f *Firestore) GetAssessmentSession(ctx context.Context, id types.AssessmentSessionID) (*model.AssessmentSession, error) {
	if id == "" {
		return nil, goerr.New("session ID is empty")
	}

	doc, err := f.client.Collection(sessionsCollection).Doc(id.String()).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, goerr.Wrap(model.ErrSessionNotFound, "no such session", goerr.V("sessionID", id))
		}
		return nil, goerr.Wrap(err, "failed to get session from firestore", goerr.V("sessionID", id))
	}

	var session model.AssessmentSession
	if err := doc.DataTo(&session); err != nil {
		return nil, goerr.Wrap(err, "failed to decode session", goerr.V("sessionID", id))
	}
	if session.Responses == nil {
		session.Responses = model.NewResponseSet()
	}

	return &session, nil
}

// DeleteAssessmentSession deletes a session
func (f *Firestore) DeleteAssessmentSession(ctx context.Context, id types.AssessmentSessionID) error {
	if id == "" {
		return goerr.New("session ID is empty")
	}

	ref := f.client.Collection(sessionsCollection).Doc(id.String())
	// Delete on a missing document succeeds, so check existence first
	if _, err := ref.Get(ctx); err != nil {
		if status.Code(err) == codes.NotFound {
			return goerr.Wrap(model.ErrSessionNotFound, "no such session", goerr.V("sessionID", id))
		}
		return goerr.Wrap(err, "failed to get session from firestore", goerr.V("sessionID", id))
	}

	if _, err := ref.Delete(ctx); err != nil {
		return goerr.Wrap(err, "failed to delete session from firestore", goerr.V("sessionID", id))
	}
	return nil
}

// PutResult saves an assessment result
func (f *Firestore) PutResult(ctx context.Context, result *model.AssessmentResult) error {
	if result == nil {
		return goerr.New("result is nil")
	}
	if result.ID == "" {
		return goerr.New("result ID is empty")
	}

	if _, err := f.client.Collection(resultsCollection).Doc(result.ID.String()).Set(ctx, result); err != nil {
		return goerr.Wrap(err, "failed to save result to firestore", goerr.V("resultID", result.ID))
	}
	return nil
}

// GetResult retrieves a result by ID
func (f *Firestore) GetResult(ctx context.Context, id types.ResultID) (*model.AssessmentResult, error) {
	if id == "" {
		return nil, goerr.New("result ID is empty")
	}

	doc, err := f.client.Collection(resultsCollection).Doc(id.String()).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, goerr.Wrap(model.ErrResultNotFound, "no such result", goerr.V("resultID", id))
		}
		return nil, goerr.Wrap(err, "failed to get result from firestore", goerr.V("resultID", id))
	}

	var result model.AssessmentResult
	if err := doc.DataTo(&result); err != nil {
		return nil, goerr.Wrap(err, "failed to decode result", goerr.V("resultID", id))
	}

	return &result, nil
}

// ListResults lists results of a user, newest first
func (f *Firestore) ListResults(ctx context.Context, userID types.UserID, limit int) ([]*model.AssessmentResult, error) {
	if userID == "" {
		return nil, goerr.New("user ID is empty")
	}

	// Sorted in memory to avoid requiring a composite index
	iter := f.client.Collection(resultsCollection).
		Where(fieldUserID, "==", userID.String()).
		Documents(ctx)
	defer iter.Stop()

	var results []*model.AssessmentResult
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, goerr.Wrap(err, "failed to iterate results", goerr.V("userID", userID))
		}

		var result model.AssessmentResult
		if err := doc.DataTo(&result); err != nil {
			return nil, goerr.Wrap(err, "failed to decode result", goerr.V("docID", doc.Ref.ID))
		}
		results = append(results, &result)
	}

	return newestResultsFirst(results, limit), nil
}

// PutMoodEntry saves a mood entry
func (f *Firestore) PutMoodEntry(ctx context.Context, entry *model.MoodEntry) error {
	if entry == nil {
		return goerr.New("mood entry is nil")
	}
	if entry.ID == "" {
		return goerr.New("mood entry ID is empty")
	}

	if _, err := f.client.Collection(moodsCollection).Doc(entry.ID.String()).Set(ctx, entry); err != nil {
		return goerr.Wrap(err, "failed to save mood entry to firestore", goerr.V("moodEntryID", entry.ID))
	}
	return nil
}

// ListMoodEntries lists mood entries of a user, newest first
func (f *Firestore) ListMoodEntries(ctx context.Context, userID types.UserID, limit int) ([]*model.MoodEntry, error) {
	if userID == "" {
		return nil, goerr.New("user ID is empty")
	}

	iter := f.client.Collection(moodsCollection).
		Where(fieldUserID, "==", userID.String()).
		Documents(ctx)
	defer iter.Stop()

	var entries []*model.MoodEntry
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, goerr.Wrap(err, "failed to iterate mood entries", goerr.V("userID", userID))
		}

		var entry model.MoodEntry
		if err := doc.DataTo(&entry); err != nil {
			return nil, goerr.Wrap(err, "failed to decode mood entry", goerr.V("docID", doc.Ref.ID))
		}
		entries = append(entries, &entry)
	}

	return newestMoodsFirst(entries, limit), nil
}

// PutGoal creates or replaces a goal
func (f *Firestore) PutGoal(ctx context.Context, goal *model.Goal) error {
	if goal == nil {
		return goerr.New("goal is nil")
	}
	if goal.ID == "" {
		return goerr.New("goal ID is empty")
	}

	if _, err := f.client.Collection(goalsCollection).Doc(goal.ID.String()).Set(ctx, goal); err != nil {
		return goerr.Wrap(err, "failed to save goal to firestore", goerr.V("goalID", goal.ID))
	}
	return nil
}

// GetGoal retrieves a goal by ID
func (f *Firestore) GetGoal(ctx context.Context, id types.GoalID) (*model.Goal, error) {
	if id == "" {
		return nil, goerr.New("goal ID is empty")
	}

	doc, err := f.client.Collection(goalsCollection).Doc(id.String()).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, goerr.Wrap(model.ErrGoalNotFound, "no such goal", goerr.V("goalID", id))
		}
		return nil, goerr.Wrap(err, "failed to get goal from firestore", goerr.V("goalID", id))
	}

	var goal model.Goal
	if err := doc.DataTo(&goal); err != nil {
		return nil, goerr.Wrap(err, "failed to decode goal", goerr.V("goalID", id))
	}

	return &goal, nil
}

// ListGoals lists goals of a user, oldest first
func (f *Firestore) ListGoals(ctx context.Context, userID types.UserID) ([]*model.Goal, error) {
	if userID == "" {
		return nil, goerr.New("user ID is empty")
	}

	iter := f.client.Collection(goalsCollection).
		Where(fieldUserID, "==", userID.String()).
		Documents(ctx)
	defer iter.Stop()

	var goals []*model.Goal
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, goerr.Wrap(err, "failed to iterate goals", goerr.V("userID", userID))
		}

		var goal model.Goal
		if err := doc.DataTo(&goal); err != nil {
			return nil, goerr.Wrap(err, "failed to decode goal", goerr.V("docID", doc.Ref.ID))
		}
		goals = append(goals, &goal)
	}

	return oldestGoalsFirst(goals), nil
}

// DeleteGoal deletes a goal
func (f *Firestore) DeleteGoal(ctx context.Context, id types.GoalID) error {
	if id == "" {
		return goerr.New("goal ID is empty")
	}

	ref := f.client.Collection(goalsCollection).Doc(id.String())
	if _, err := ref.Get(ctx); err != nil {
		if status.Code(err) == codes.NotFound {
			return goerr.Wrap(model.ErrGoalNotFound, "no such goal", goerr.V("goalID", id))
		}
		return goerr.Wrap(err, "failed to get goal from firestore", goerr.V("goalID", id))
	}

	if _, err := ref.Delete(ctx); err != nil {
		return goerr.Wrap(err, "failed to delete goal from firestore", goerr.V("goalID", id))
	}
	return nil
}

// Close closes the Firestore client
func (f *Firestore) Close() error {
	return f.client.Close()
}
