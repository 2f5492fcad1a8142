package usecase

import (
	"context"
	"sync"

	"github.com/cespare/xxhash/v2"
	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/mindhaven/mindhaven/pkg/domain/interfaces"
	"github.com/mindhaven/mindhaven/pkg/domain/model"
	"github.com/mindhaven/mindhaven/pkg/domain/types"
)

// AssessmentConfig holds configuration for Assessment use case
type AssessmentConfig struct {
	defaultResultLimit int
}

// AssessmentOption is a functional option for configuring Assessment
type AssessmentOption func(*AssessmentConfig)

// WithDefaultResultLimit sets how many results ListResults returns when the
// caller does not ask for a specific number
func WithDefaultResultLimit(limit int) AssessmentOption {
	return func(c *AssessmentConfig) {
		c.defaultResultLimit = limit
	}
}

// NewAssessmentConfig creates a new AssessmentConfig with default values and optional settings
func NewAssessmentConfig(opts ...AssessmentOption) *AssessmentConfig {
	config := &AssessmentConfig{
		defaultResultLimit: 50,
	}
	for _, opt := range opts {
		opt(config)
	}
	return config
}

// SessionState is a session together with what a client needs to render it
type SessionState struct {
	Session       *model.AssessmentSession `json:"session"`
	TestTitle     string                   `json:"test_title"`
	Current       *model.Question          `json:"current_question,omitempty"`
	QuestionCount int                      `json:"question_count"`
	Answered      int                      `json:"answered"`
}

func newSessionState(session *model.AssessmentSession, testType *model.TestType) *SessionState {
	answered := 0
	for _, q := range testType.Questions {
		if session.Responses.HasAnswer(q.ID) {
			answered++
		}
	}

	return &SessionState{
		Session:       session,
		TestTitle:     testType.Title,
		Current:       session.CurrentQuestion(testType),
		QuestionCount: testType.QuestionCount(),
		Answered:      answered,
	}
}

// Assessment implements AssessmentUseCase
type Assessment struct {
	bank   *model.Bank
	repo   interfaces.Repository
	config *AssessmentConfig

	// Serializes read-modify-write of a single session within this process.
	// Sessions share a fixed set of mutexes so unknown IDs allocate nothing.
	locks [sessionLockCount]sync.Mutex
}

const sessionLockCount = 256

// NewAssessment creates a new Assessment instance. The bank must already be
// validated and is never modified.
func NewAssessment(bank *model.Bank, repo interfaces.Repository, config *AssessmentConfig) *Assessment {
	if config == nil {
		config = NewAssessmentConfig()
	}
	return &Assessment{
		bank:   bank,
		repo:   repo,
		config: config,
	}
}

func (u *Assessment) lockSession(id types.AssessmentSessionID) func() {
	mu := &u.locks[xxhash.Sum64String(id.String())%sessionLockCount]
	mu.Lock()
	return mu.Unlock
}

func (u *Assessment) testType(id types.TestTypeID) (*model.TestType, error) {
	testType := u.bank.FindTestType(id)
	if testType == nil {
		return nil, goerr.Wrap(model.ErrTestTypeNotFound, "unknown test type", goerr.V("testTypeID", id))
	}
	return testType, nil
}

// ListTestTypes returns every test type of the bank
func (u *Assessment) ListTestTypes(ctx context.Context) []model.TestType {
	return u.bank.TestTypes
}

// GetTestType returns one test type
func (u *Assessment) GetTestType(ctx context.Context, id types.TestTypeID) (*model.TestType, error) {
	return u.testType(id)
}

// GetQuestions returns the questions of a test type, empty if it is unknown
func (u *Assessment) GetQuestions(ctx context.Context, id types.TestTypeID) []model.Question {
	return u.bank.Questions(id)
}

// Score scores a response set against a test type. Every answered question
// must belong to the test and carry one of its option values; unanswered
// questions contribute 0.
func (u *Assessment) Score(ctx context.Context, id types.TestTypeID, responses model.ResponseSet) (*model.AssessmentResult, error) {
	testType, err := u.testType(id)
	if err != nil {
		return nil, err
	}

	for qid, value := range responses {
		q := testType.FindQuestion(qid)
		if q == nil {
			return nil, goerr.New("question does not belong to this test",
				goerr.V("testTypeID", id),
				goerr.V("questionID", qid),
				goerr.T(model.ErrTagInvalidArgument))
		}
		if !q.HasOption(value) {
			return nil, goerr.New("value is not an option of the question",
				goerr.V("questionID", qid),
				goerr.V("value", value),
				goerr.T(model.ErrTagInvalidArgument))
		}
	}

	result := model.NewAssessmentResult("", testType, responses)
	ctxlog.From(ctx).Debug("Scored responses",
		"testTypeID", id,
		"score", result.Score,
		"severity", result.Range.Severity,
		"answered", result.Answered,
	)
	return result, nil
}

// StartSession starts a test for a user
func (u *Assessment) StartSession(ctx context.Context, userID types.UserID, id types.TestTypeID) (*SessionState, error) {
	testType, err := u.testType(id)
	if err != nil {
		return nil, err
	}

	session, err := model.NewAssessmentSession(userID, testType)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create session")
	}

	if err := u.repo.PutAssessmentSession(ctx, session); err != nil {
		return nil, goerr.Wrap(err, "failed to save session")
	}

	ctxlog.From(ctx).Info("Assessment session started",
		"sessionID", session.ID,
		"userID", userID,
		"testTypeID", id,
	)
	return newSessionState(session, testType), nil
}

// loadSession fetches a session and the test type it belongs to
func (u *Assessment) loadSession(ctx context.Context, sessionID types.AssessmentSessionID) (*model.AssessmentSession, *model.TestType, error) {
	session, err := u.repo.GetAssessmentSession(ctx, sessionID)
	if err != nil {
		return nil, nil, goerr.Wrap(err, "failed to get session")
	}

	testType, err := u.testType(session.TestTypeID)
	if err != nil {
		// The bank was replaced and no longer has this test
		return nil, nil, goerr.Wrap(err, "session refers to a test type that is not in the bank",
			goerr.V("sessionID", sessionID))
	}

	return session, testType, nil
}

// updateSession applies fn to a session and stores the result
func (u *Assessment) updateSession(ctx context.Context, sessionID types.AssessmentSessionID, fn func(*model.AssessmentSession, *model.TestType) error) (*SessionState, error) {
	unlock := u.lockSession(sessionID)
	defer unlock()

	session, testType, err := u.loadSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	if err := fn(session, testType); err != nil {
		return nil, err
	}

	if err := u.repo.PutAssessmentSession(ctx, session); err != nil {
		return nil, goerr.Wrap(err, "failed to save session")
	}

	return newSessionState(session, testType), nil
}

// GetSession returns the current state of a session
func (u *Assessment) GetSession(ctx context.Context, sessionID types.AssessmentSessionID) (*SessionState, error) {
	session, testType, err := u.loadSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	return newSessionState(session, testType), nil
}

// Answer records the answer of the current question. Any other question,
// including one already passed, is refused until the navigator is moved there.
func (u *Assessment) Answer(ctx context.Context, sessionID types.AssessmentSessionID, questionID types.QuestionID, value int) (*SessionState, error) {
	return u.updateSession(ctx, sessionID, func(s *model.AssessmentSession, tt *model.TestType) error {
		if err := s.Answer(tt, questionID, value); err != nil {
			return goerr.Wrap(err, "failed to record answer", goerr.V("sessionID", sessionID))
		}
		return nil
	})
}

// Next moves to the next question
func (u *Assessment) Next(ctx context.Context, sessionID types.AssessmentSessionID) (*SessionState, error) {
	return u.updateSession(ctx, sessionID, func(s *model.AssessmentSession, tt *model.TestType) error {
		if err := s.Next(tt); err != nil {
			return goerr.Wrap(err, "failed to move to next question", goerr.V("sessionID", sessionID))
		}
		return nil
	})
}

// Previous moves back one question
func (u *Assessment) Previous(ctx context.Context, sessionID types.AssessmentSessionID) (*SessionState, error) {
	return u.updateSession(ctx, sessionID, func(s *model.AssessmentSession, tt *model.TestType) error {
		if err := s.Previous(tt); err != nil {
			return goerr.Wrap(err, "failed to move to previous question", goerr.V("sessionID", sessionID))
		}
		return nil
	})
}

// Submit classifies a completed session, stores the result and deletes the
// session
func (u *Assessment) Submit(ctx context.Context, sessionID types.AssessmentSessionID) (*model.AssessmentResult, error) {
	unlock := u.lockSession(sessionID)
	defer unlock()

	session, testType, err := u.loadSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	if !session.Navigator.IsCompleted() {
		return nil, goerr.Wrap(model.ErrAssessmentNotReady, "cannot submit session",
			goerr.V("sessionID", sessionID),
			goerr.V("state", session.Navigator.State),
			goerr.V("index", session.Navigator.Index))
	}

	result := model.NewAssessmentResult(session.UserID, testType, session.Responses)
	if err := u.repo.PutResult(ctx, result); err != nil {
		return nil, goerr.Wrap(err, "failed to save result")
	}

	if err := u.repo.DeleteAssessmentSession(ctx, sessionID); err != nil {
		return nil, goerr.Wrap(err, "failed to delete submitted session")
	}

	ctxlog.From(ctx).Info("Assessment submitted",
		"sessionID", sessionID,
		"resultID", result.ID,
		"testTypeID", testType.ID,
		"score", result.Score,
		"severity", result.Range.Severity,
	)
	return result, nil
}

// Abandon discards a session
func (u *Assessment) Abandon(ctx context.Context, sessionID types.AssessmentSessionID) error {
	unlock := u.lockSession(sessionID)
	defer unlock()

	if err := u.repo.DeleteAssessmentSession(ctx, sessionID); err != nil {
		return goerr.Wrap(err, "failed to delete session")
	}

	ctxlog.From(ctx).Info("Assessment abandoned", "sessionID", sessionID)
	return nil
}

// ListResults returns a user's results, newest first
func (u *Assessment) ListResults(ctx context.Context, userID types.UserID, limit int) ([]*model.AssessmentResult, error) {
	if err := userID.Validate(); err != nil {
		return nil, goerr.Wrap(err, "invalid user ID", goerr.T(model.ErrTagInvalidArgument))
	}
	if limit <= 0 {
		limit = u.config.defaultResultLimit
	}

	results, err := u.repo.ListResults(ctx, userID, limit)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to list results")
	}
	if results == nil {
		results = []*model.AssessmentResult{}
	}
	return results, nil
}

// GetResult returns one result
func (u *Assessment) GetResult(ctx context.Context, id types.ResultID) (*model.AssessmentResult, error) {
	result, err := u.repo.GetResult(ctx, id)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to get result")
	}
	return result, nil
}

var _ AssessmentUseCase = (*Assessment)(nil)
