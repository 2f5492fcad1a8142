package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/goccy/go-json"
	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/mindhaven/mindhaven/pkg/domain/interfaces"
	"github.com/mindhaven/mindhaven/pkg/domain/model"
	"github.com/mindhaven/mindhaven/pkg/domain/types"
	"github.com/redis/go-redis/v9"
)

const redisKeyPrefix = "mindhaven"

// Redis implements Repository interface with Redis. Records are stored as
// JSON strings and per-user sorted sets index them by time.
type Redis struct {
	client     *redis.Client
	sessionTTL time.Duration
}

// RedisOption configures the Redis repository
type RedisOption func(*Redis)

// WithSessionTTL expires abandoned assessment sessions after ttl. Zero keeps
// them forever.
func WithSessionTTL(ttl time.Duration) RedisOption {
	return func(r *Redis) {
		r.sessionTTL = ttl
	}
}

// NewRedis creates a new Redis repository
func NewRedis(ctx context.Context, addr, password string, db int, opts ...RedisOption) (interfaces.Repository, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, goerr.Wrap(err, "failed to connect to redis", goerr.V("addr", addr))
	}

	r := &Redis{client: client}
	for _, opt := range opts {
		opt(r)
	}

	ctxlog.From(ctx).Info("Redis repository initialized successfully",
		"addr", addr,
		"db", db,
		"sessionTTL", r.sessionTTL,
	)

	return r, nil
}

func redisKey(kind, id string) string {
	return fmt.Sprintf("%s:%s:%s", redisKeyPrefix, kind, id)
}

func redisUserIndex(userID types.UserID, kind string) string {
	return fmt.Sprintf("%s:user:%s:%s", redisKeyPrefix, userID, kind)
}

func (r *Redis) getJSON(ctx context.Context, key string, v any) (bool, error) {
	data, err := r.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, goerr.Wrap(err, "failed to get from redis", goerr.V("key", key))
	}
	if err := json.Unmarshal(data, v); err != nil {
		return false, goerr.Wrap(err, "failed to decode redis value", goerr.V("key", key))
	}
	return true, nil
}

// indexedValues resolves the members of a user index into raw JSON values.
// Members whose record is gone are skipped and returned as dangling.
func (r *Redis) indexedValues(ctx context.Context, index, kind string, ids []string) ([][]byte, []string, error) {
	if len(ids) == 0 {
		return nil, nil, nil
	}

	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = redisKey(kind, id)
	}

	values, err := r.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, nil, goerr.Wrap(err, "failed to get indexed records", goerr.V("index", index))
	}

	var (
		result   [][]byte
		dangling []string
	)
	for i, v := range values {
		s, ok := v.(string)
		if !ok {
			dangling = append(dangling, ids[i])
			continue
		}
		result = append(result, []byte(s))
	}
	return result, dangling, nil
}

// pruneIndex removes dangling members from a user index. Failure only costs
// a later retry, so it is logged and not returned.
func (r *Redis) pruneIndex(ctx context.Context, index string, dangling []string) {
	if len(dangling) == 0 {
		return
	}

	members := make([]any, len(dangling))
	for i, id := range dangling {
		members[i] = id
	}
	if err := r.client.ZRem(ctx, index, members...).Err(); err != nil {
		ctxlog.From(ctx).Warn("Failed to prune redis index", "index", index, "error", err)
		return
	}
	ctxlog.From(ctx).Debug("Pruned dangling index members", "index", index, "count", len(dangling))
}

// listNewest returns up to limit live records of a user index, newest first.
// It keeps reading past dangling members so they never shorten the result.
// A non-positive limit returns everything.
func (r *Redis) listNewest(ctx context.Context, index, kind string, limit int) ([][]byte, error) {
	var (
		result   [][]byte
		dangling []string
		offset   int64
	)
	defer func() { r.pruneIndex(ctx, index, dangling) }()

	for {
		stop := int64(-1)
		if limit > 0 {
			stop = offset + int64(limit-len(result)) - 1
		}

		ids, err := r.client.ZRevRange(ctx, index, offset, stop).Result()
		if err != nil {
			return nil, goerr.Wrap(err, "failed to read index", goerr.V("index", index))
		}

		values, gone, err := r.indexedValues(ctx, index, kind, ids)
		if err != nil {
			return nil, err
		}
		result = append(result, values...)
		dangling = append(dangling, gone...)

		if stop < 0 || len(gone) == 0 || int64(len(ids)) < stop-offset+1 {
			return result, nil
		}
		offset += int64(len(ids))
	}
}

// PutAssessmentSession creates or replaces a session
func (r *Redis) PutAssessmentSession(ctx context.Context, session *model.AssessmentSession) error {
	if session == nil {
		return goerr.New("session is nil")
	}
	if session.ID == "" {
		return goerr.New("session ID is empty")
	}

	data, err := json.Marshal(session)
	if err != nil {
		return goerr.Wrap(err, "failed to encode session", goerr.V("sessionID", session.ID))
	}

	if err := r.client.Set(ctx, redisKey("session", session.ID.String()), data, r.sessionTTL).Err(); err != nil {
		return goerr.Wrap(err, "failed to save session to redis", goerr.V("sessionID", session.ID))
	}
	return nil
}

// GetAssessmentSession retrieves a session by ID
func (r *Redis) GetAssessmentSession(ctx context.Context, id types.AssessmentSessionID) (*model.AssessmentSession, error) {
	if id == "" {
		return nil, goerr.New("session ID is empty")
	}

	var session model.AssessmentSession
	found, err := r.getJSON(ctx, redisKey("session", id.String()), &session)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, goerr.Wrap(model.ErrSessionNotFound, "no such session", goerr.V("sessionID", id))
	}
	if session.Responses == nil {
		session.Responses = model.NewResponseSet()
	}

	return &session, nil
}

// DeleteAssessmentSession deletes a session
func (r *Redis) DeleteAssessmentSession(ctx context.Context, id types.AssessmentSessionID) error {
	if id == "" {
		return goerr.New("session ID is empty")
	}

	n, err := r.client.Del(ctx, redisKey("session", id.String())).Result()
	if err != nil {
		return goerr.Wrap(err, "failed to delete session from redis", goerr.V("sessionID", id))
	}
	if n == 0 {
		return goerr.Wrap(model.ErrSessionNotFound, "no such session", goerr.V("sessionID", id))
	}
	return nil
}

// PutResult saves an assessment result. Anonymous results are not indexed.
func (r *Redis) PutResult(ctx context.Context, result *model.AssessmentResult) error {
	if result == nil {
		return goerr.New("result is nil")
	}
	if result.ID == "" {
		return goerr.New("result ID is empty")
	}

	data, err := json.Marshal(result)
	if err != nil {
		return goerr.Wrap(err, "failed to encode result", goerr.V("resultID", result.ID))
	}

	_, err = r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, redisKey("result", result.ID.String()), data, 0)
		if result.UserID != "" {
			pipe.ZAdd(ctx, redisUserIndex(result.UserID, "results"), redis.Z{
				Score:  float64(result.Timestamp.UnixMilli()),
				Member: result.ID.String(),
			})
		}
		return nil
	})
	if err != nil {
		return goerr.Wrap(err, "failed to save result to redis", goerr.V("resultID", result.ID))
	}
	return nil
}

// GetResult retrieves a result by ID
func (r *Redis) GetResult(ctx context.Context, id types.ResultID) (*model.AssessmentResult, error) {
	if id == "" {
		return nil, goerr.New("result ID is empty")
	}

	var result model.AssessmentResult
	found, err := r.getJSON(ctx, redisKey("result", id.String()), &result)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, goerr.Wrap(model.ErrResultNotFound, "no such result", goerr.V("resultID", id))
	}

	return &result, nil
}

// ListResults lists results of a user, newest first
func (r *Redis) ListResults(ctx context.Context, userID types.UserID, limit int) ([]*model.AssessmentResult, error) {
	if userID == "" {
		return nil, goerr.New("user ID is empty")
	}

	values, err := r.listNewest(ctx, redisUserIndex(userID, "results"), "result", limit)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to list results from redis", goerr.V("userID", userID))
	}

	results := make([]*model.AssessmentResult, 0, len(values))
	for _, data := range values {
		var result model.AssessmentResult
		if err := json.Unmarshal(data, &result); err != nil {
			return nil, goerr.Wrap(err, "failed to decode result", goerr.V("userID", userID))
		}
		results = append(results, &result)
	}
	return results, nil
}

// PutMoodEntry saves a mood entry
func (r *Redis) PutMoodEntry(ctx context.Context, entry *model.MoodEntry) error {
	if entry == nil {
		return goerr.New("mood entry is nil")
	}
	if entry.ID == "" {
		return goerr.New("mood entry ID is empty")
	}

	data, err := json.Marshal(entry)
	if err != nil {
		return goerr.Wrap(err, "failed to encode mood entry", goerr.V("moodEntryID", entry.ID))
	}

	_, err = r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, redisKey("mood", entry.ID.String()), data, 0)
		pipe.ZAdd(ctx, redisUserIndex(entry.UserID, "moods"), redis.Z{
			Score:  float64(entry.RecordedAt.UnixMilli()),
			Member: entry.ID.String(),
		})
		return nil
	})
	if err != nil {
		return goerr.Wrap(err, "failed to save mood entry to redis", goerr.V("moodEntryID", entry.ID))
	}
	return nil
}

// ListMoodEntries lists mood entries of a user, newest first
func (r *Redis) ListMoodEntries(ctx context.Context, userID types.UserID, limit int) ([]*model.MoodEntry, error) {
	if userID == "" {
		return nil, goerr.New("user ID is empty")
	}

	values, err := r.listNewest(ctx, redisUserIndex(userID, "moods"), "mood", limit)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to list mood entries from redis", goerr.V("userID", userID))
	}

	entries := make([]*model.MoodEntry, 0, len(values))
	for _, data := range values {
		var entry model.MoodEntry
		if err := json.Unmarshal(data, &entry); err != nil {
			return nil, goerr.Wrap(err, "failed to decode mood entry", goerr.V("userID", userID))
		}
		entries = append(entries, &entry)
	}
	return entries, nil
}

// PutGoal creates or replaces a goal
func (r *Redis) PutGoal(ctx context.Context, goal *model.Goal) error {
	if goal == nil {
		return goerr.New("goal is nil")
	}
	if goal.ID == "" {
		return goerr.New("goal ID is empty")
	}

	data, err := json.Marshal(goal)
	if err != nil {
		return goerr.Wrap(err, "failed to encode goal", goerr.V("goalID", goal.ID))
	}

	_, err = r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, redisKey("goal", goal.ID.String()), data, 0)
		pipe.ZAdd(ctx, redisUserIndex(goal.UserID, "goals"), redis.Z{
			Score:  float64(goal.CreatedAt.UnixMilli()),
			Member: goal.ID.String(),
		})
		return nil
	})
	if err != nil {
		return goerr.Wrap(err, "failed to save goal to redis", goerr.V("goalID", goal.ID))
	}
	return nil
}

// GetGoal retrieves a goal by ID
func (r *Redis) GetGoal(ctx context.Context, id types.GoalID) (*model.Goal, error) {
	if id == "" {
		return nil, goerr.New("goal ID is empty")
	}

	var goal model.Goal
	found, err := r.getJSON(ctx, redisKey("goal", id.String()), &goal)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, goerr.Wrap(model.ErrGoalNotFound, "no such goal", goerr.V("goalID", id))
	}

	return &goal, nil
}

// ListGoals lists goals of a user, oldest first
func (r *Redis) ListGoals(ctx context.Context, userID types.UserID) ([]*model.Goal, error) {
	if userID == "" {
		return nil, goerr.New("user ID is empty")
	}

	index := redisUserIndex(userID, "goals")
	ids, err := r.client.ZRange(ctx, index, 0, -1).Result()
	if err != nil {
		return nil, goerr.Wrap(err, "failed to read goal index", goerr.V("userID", userID))
	}

	values, dangling, err := r.indexedValues(ctx, index, "goal", ids)
	if err != nil {
		return nil, err
	}
	r.pruneIndex(ctx, index, dangling)

	goals := make([]*model.Goal, 0, len(values))
	for _, data := range values {
		var goal model.Goal
		if err := json.Unmarshal(data, &goal); err != nil {
			return nil, goerr.Wrap(err, "failed to decode goal", goerr.V("userID", userID))
		}
		goals = append(goals, &goal)
	}
	return goals, nil
}

// DeleteGoal deletes a goal and removes it from its owner's index
func (r *Redis) DeleteGoal(ctx context.Context, id types.GoalID) error {
	goal, err := r.GetGoal(ctx, id)
	if err != nil {
		return err
	}

	_, err = r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Del(ctx, redisKey("goal", id.String()))
		pipe.ZRem(ctx, redisUserIndex(goal.UserID, "goals"), id.String())
		return nil
	})
	if err != nil {
		return goerr.Wrap(err, "failed to delete goal from redis", goerr.V("goalID", id))
	}
	return nil
}

// Close closes the Redis client
func (r *Redis) Close() error {
	return r.client.Close()
}
