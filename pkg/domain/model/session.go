package model

import (
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/mindhaven/mindhaven/pkg/domain/types"
)

// AssessmentSession is one user's in-progress run through a test type. It
// exclusively owns its response set.
type AssessmentSession struct {
	ID         types.AssessmentSessionID `json:"id"`
	UserID     types.UserID              `json:"user_id"`
	TestTypeID types.TestTypeID          `json:"test_type_id"`
	Navigator  Navigator                 `json:"navigator"`
	Responses  ResponseSet               `json:"responses"`
	CreatedAt  time.Time                 `json:"created_at"`
	UpdatedAt  time.Time                 `json:"updated_at"`
}

// NewAssessmentSession starts a test for a user. Selecting the test moves the
// navigator straight to the first question.
func NewAssessmentSession(userID types.UserID, testType *TestType) (*AssessmentSession, error) {
	if err := userID.Validate(); err != nil {
		return nil, goerr.Wrap(err, "invalid user ID", goerr.T(ErrTagInvalidArgument))
	}
	if testType == nil {
		return nil, goerr.New("test type is required", goerr.T(ErrTagInvalidArgument))
	}

	id, err := types.NewAssessmentSessionID()
	if err != nil {
		return nil, goerr.Wrap(err, "failed to generate session ID")
	}

	now := time.Now()
	session := &AssessmentSession{
		ID:         id,
		UserID:     userID,
		TestTypeID: testType.ID,
		Navigator:  NewNavigator(),
		Responses:  NewResponseSet(),
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := session.Navigator.Next(testType.Questions, session.Responses); err != nil {
		return nil, goerr.Wrap(err, "failed to enter first question", goerr.V("testType", testType.ID))
	}

	return session, nil
}

// Answer records an answer. The question must belong to the session's test,
// the value must be one of its options and the question must be the one the
// navigator is on. Questions are answered strictly in order.
func (s *AssessmentSession) Answer(testType *TestType, questionID types.QuestionID, value int) error {
	q := testType.FindQuestion(questionID)
	if q == nil {
		return goerr.New("question does not belong to this test",
			goerr.V("testType", testType.ID),
			goerr.V("questionID", questionID),
			goerr.T(ErrTagNotFound))
	}
	if !q.HasOption(value) {
		return goerr.New("value is not an option of the question",
			goerr.V("questionID", questionID),
			goerr.V("value", value),
			goerr.T(ErrTagInvalidArgument))
	}

	current := s.CurrentQuestion(testType)
	if current == nil {
		return goerr.New("no question is being answered",
			goerr.V("questionID", questionID),
			goerr.V("state", s.Navigator.State),
			goerr.T(ErrTagInvalidTransition))
	}
	if current.ID != questionID {
		return goerr.New("only the current question can be answered",
			goerr.V("questionID", questionID),
			goerr.V("currentQuestionID", current.ID),
			goerr.T(ErrTagInvalidTransition))
	}

	if s.Responses == nil {
		s.Responses = NewResponseSet()
	}
	s.Responses.SetAnswer(questionID, value)
	s.UpdatedAt = time.Now()
	return nil
}

// Next moves to the next question
func (s *AssessmentSession) Next(testType *TestType) error {
	if err := s.Navigator.Next(testType.Questions, s.Responses); err != nil {
		return err
	}
	s.UpdatedAt = time.Now()
	return nil
}

// Previous moves to the previous question
func (s *AssessmentSession) Previous(testType *TestType) error {
	if err := s.Navigator.Previous(testType.Questions); err != nil {
		return err
	}
	s.UpdatedAt = time.Now()
	return nil
}

// CurrentQuestion returns the question being answered, if any
func (s *AssessmentSession) CurrentQuestion(testType *TestType) *Question {
	return s.Navigator.Current(testType.Questions)
}

// Clone returns a deep copy of the session
func (s *AssessmentSession) Clone() *AssessmentSession {
	result := *s
	result.Responses = s.Responses.Clone()
	return &result
}
