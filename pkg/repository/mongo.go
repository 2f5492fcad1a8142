package repository

import (
	"context"
	"errors"
	"time"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/mindhaven/mindhaven/pkg/domain/interfaces"
	"github.com/mindhaven/mindhaven/pkg/domain/model"
	"github.com/mindhaven/mindhaven/pkg/domain/types"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// mongoRecord wraps a domain record with the fields used for lookup and
// ordering, so model types carry no bson tags
type mongoRecord[T any] struct {
	ID     string    `bson:"_id"`
	UserID string    `bson:"user_id,omitempty"`
	SortAt time.Time `bson:"sort_at"`
	Data   T         `bson:"data"`
}

// Mongo implements Repository interface with MongoDB
type Mongo struct {
	client   *mongo.Client
	sessions *mongo.Collection
	results  *mongo.Collection
	moods    *mongo.Collection
	goals    *mongo.Collection
}

// NewMongo creates a new MongoDB repository
func NewMongo(ctx context.Context, uri, database string) (interfaces.Repository, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create mongodb client")
	}

	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, goerr.Wrap(err, "failed to connect to mongodb", goerr.V("database", database))
	}

	db := client.Database(database)
	m := &Mongo{
		client:   client,
		sessions: db.Collection(sessionsCollection),
		results:  db.Collection(resultsCollection),
		moods:    db.Collection(moodsCollection),
		goals:    db.Collection(goalsCollection),
	}

	ctxlog.From(ctx).Info("MongoDB repository initialized successfully", "database", database)
	return m, nil
}

func mongoUpsert[T any](ctx context.Context, c *mongo.Collection, rec mongoRecord[T]) error {
	_, err := c.ReplaceOne(ctx, bson.M{"_id": rec.ID}, rec, options.Replace().SetUpsert(true))
	return err
}

// mongoGet decodes one record. The bool result is false when it does not exist.
func mongoGet[T any](ctx context.Context, c *mongo.Collection, id string) (*T, bool, error) {
	var rec mongoRecord[T]
	err := c.FindOne(ctx, bson.M{"_id": id}).Decode(&rec)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return &rec.Data, true, nil
}

// mongoList returns the records of a user ordered by sort_at. A non-positive
// limit returns everything.
func mongoList[T any](ctx context.Context, c *mongo.Collection, userID types.UserID, ascending bool, limit int) ([]*T, error) {
	order := -1
	if ascending {
		order = 1
	}
	opts := options.Find().SetSort(bson.D{{Key: "sort_at", Value: order}})
	if limit > 0 {
		opts.SetLimit(int64(limit))
	}

	cursor, err := c.Find(ctx, bson.M{"user_id": userID.String()}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var recs []mongoRecord[T]
	if err := cursor.All(ctx, &recs); err != nil {
		return nil, err
	}

	result := make([]*T, len(recs))
	for i := range recs {
		result[i] = &recs[i].Data
	}
	return result, nil
}

func mongoDelete(ctx context.Context, c *mongo.Collection, id string) (bool, error) {
	res, err := c.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return false, err
	}
	return res.DeletedCount > 0, nil
}

// PutAssessmentSession creates or replaces a session
func (m *Mongo) PutAssessmentSession(ctx context.Context, session *model.AssessmentSession) error {
	if session == nil {
		return goerr.New("session is nil")
	}
	if session.ID == "" {
		return goerr.New("session ID is empty")
	}

	rec := mongoRecord[model.AssessmentSession]{
		ID:     session.ID.String(),
		UserID: session.UserID.String(),
		SortAt: session.CreatedAt,
		Data:   *session,
	}
	if err := mongoUpsert(ctx, m.sessions, rec); err != nil {
		return goerr.Wrap(err, "failed to save session to mongodb", goerr.V("sessionID", session.ID))
	}
	return nil
}

// GetAssessmentSession retrieves a session by ID
func (m *Mongo) GetAssessmentSession(ctx context.Context, id types.AssessmentSessionID) (*model.AssessmentSession, error) {
	if id == "" {
		return nil, goerr.New("session ID is empty")
	}

	session, found, err := mongoGet[model.AssessmentSession](ctx, m.sessions, id.String())
	if err != nil {
		return nil, goerr.Wrap(err, "failed to get session from mongodb", goerr.V("sessionID", id))
	}
	if !found {
		return nil, goerr.Wrap(model.ErrSessionNotFound, "no such session", goerr.V("sessionID", id))
	}
	if session.Responses == nil {
		session.Responses = model.NewResponseSet()
	}

	return session, nil
}

// DeleteAssessmentSession deletes a session
func (m *Mongo) DeleteAssessmentSession(ctx context.Context, id types.AssessmentSessionID) error {
	if id == "" {
		return goerr.New("session ID is empty")
	}

	deleted, err := mongoDelete(ctx, m.sessions, id.String())
	if err != nil {
		return goerr.Wrap(err, "failed to delete session from mongodb", goerr.V("sessionID", id))
	}
	if !deleted {
		return goerr.Wrap(model.ErrSessionNotFound, "no such session", goerr.V("sessionID", id))
	}
	return nil
}

// PutResult saves an assessment result
func (m *Mongo) PutResult(ctx context.Context, result *model.AssessmentResult) error {
	if result == nil {
		return goerr.New("result is nil")
	}
	if result.ID == "" {
		return goerr.New("result ID is empty")
	}

	rec := mongoRecord[model.AssessmentResult]{
		ID:     result.ID.String(),
		UserID: result.UserID.String(),
		SortAt: result.Timestamp,
		Data:   *result,
	}
	if err := mongoUpsert(ctx, m.results, rec); err != nil {
		return goerr.Wrap(err, "failed to save result to mongodb", goerr.V("resultID", result.ID))
	}
	return nil
}

// GetResult retrieves a result by ID
func (m *Mongo) GetResult(ctx context.Context, id types.ResultID) (*model.AssessmentResult, error) {
	if id == "" {
		return nil, goerr.New("result ID is empty")
	}

	result, found, err := mongoGet[model.AssessmentResult](ctx, m.results, id.String())
	if err != nil {
		return nil, goerr.Wrap(err, "failed to get result from mongodb", goerr.V("resultID", id))
	}
	if !found {
		return nil, goerr.Wrap(model.ErrResultNotFound, "no such result", goerr.V("resultID", id))
	}
	return result, nil
}

// ListResults lists results of a user, newest first
func (m *Mongo) ListResults(ctx context.Context, userID types.UserID, limit int) ([]*model.AssessmentResult, error) {
	if userID == "" {
		return nil, goerr.New("user ID is empty")
	}

	results, err := mongoList[model.AssessmentResult](ctx, m.results, userID, false, limit)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to list results from mongodb", goerr.V("userID", userID))
	}
	return results, nil
}

// PutMoodEntry saves a mood entry
func (m *Mongo) PutMoodEntry(ctx context.Context, entry *model.MoodEntry) error {
	if entry == nil {
		return goerr.New("mood entry is nil")
	}
	if entry.ID == "" {
		return goerr.New("mood entry ID is empty")
	}

	rec := mongoRecord[model.MoodEntry]{
		ID:     entry.ID.String(),
		UserID: entry.UserID.String(),
		SortAt: entry.RecordedAt,
		Data:   *entry,
	}
	if err := mongoUpsert(ctx, m.moods, rec); err != nil {
		return goerr.Wrap(err, "failed to save mood entry to mongodb", goerr.V("moodEntryID", entry.ID))
	}
	return nil
}

// ListMoodEntries lists mood entries of a user, newest first
func (m *Mongo) ListMoodEntries(ctx context.Context, userID types.UserID, limit int) ([]*model.MoodEntry, error) {
	if userID == "" {
		return nil, goerr.New("user ID is empty")
	}

	entries, err := mongoList[model.MoodEntry](ctx, m.moods, userID, false, limit)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to list mood entries from mongodb", goerr.V("userID", userID))
	}
	return entries, nil
}

// PutGoal creates or replaces a goal
func (m *Mongo) PutGoal(ctx context.Context, goal *model.Goal) error {
	if goal == nil {
		return goerr.New("goal is nil")
	}
	if goal.ID == "" {
		return goerr.New("goal ID is empty")
	}

	rec := mongoRecord[model.Goal]{
		ID:     goal.ID.String(),
		UserID: goal.UserID.String(),
		SortAt: goal.CreatedAt,
		Data:   *goal,
	}
	if err := mongoUpsert(ctx, m.goals, rec); err != nil {
		return goerr.Wrap(err, "failed to save goal to mongodb", goerr.V("goalID", goal.ID))
	}
	return nil
}

// GetGoal retrieves a goal by ID
func (m *Mongo) GetGoal(ctx context.Context, id types.GoalID) (*model.Goal, error) {
	if id == "" {
		return nil, goerr.New("goal ID is empty")
	}

	goal, found, err := mongoGet[model.Goal](ctx, m.goals, id.String())
	if err != nil {
		return nil, goerr.Wrap(err, "failed to get goal from mongodb", goerr.V("goalID", id))
	}
	if !found {
		return nil, goerr.Wrap(model.ErrGoalNotFound, "no such goal", goerr.V("goalID", id))
	}
	return goal, nil
}

// ListGoals lists goals of a user, oldest first
func (m *Mongo) ListGoals(ctx context.Context, userID types.UserID) ([]*model.Goal, error) {
	if userID == "" {
		return nil, goerr.New("user ID is empty")
	}

	goals, err := mongoList[model.Goal](ctx, m.goals, userID, true, 0)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to list goals from mongodb", goerr.V("userID", userID))
	}
	return goals, nil
}

// DeleteGoal deletes a goal
func (m *Mongo) DeleteGoal(ctx context.Context, id types.GoalID) error {
	if id == "" {
		return goerr.New("goal ID is empty")
	}

	deleted, err := mongoDelete(ctx, m.goals, id.String())
	if err != nil {
		return goerr.Wrap(err, "failed to delete goal from mongodb", goerr.V("goalID", id))
	}
	if !deleted {
		return goerr.Wrap(model.ErrGoalNotFound, "no such goal", goerr.V("goalID", id))
	}
	return nil
}

// Close disconnects the MongoDB client
func (m *Mongo) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return m.client.Disconnect(ctx)
}
