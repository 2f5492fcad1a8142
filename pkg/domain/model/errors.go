package model

import "github.com/m-mizutani/goerr/v2"

// Error tags used to classify domain failures
var (
	ErrTagNotFound          = goerr.NewTag("not_found")
	ErrTagInvalidArgument   = goerr.NewTag("invalid_argument")
	ErrTagAnswerRequired    = goerr.NewTag("answer_required")
	ErrTagInvalidTransition = goerr.NewTag("invalid_transition")
	ErrTagNotCompleted      = goerr.NewTag("not_completed")
)

// Sentinel errors for domain operations
var (
	ErrTestTypeNotFound   = goerr.New("test type not found", goerr.T(ErrTagNotFound))
	ErrSessionNotFound    = goerr.New("assessment session not found", goerr.T(ErrTagNotFound))
	ErrResultNotFound     = goerr.New("assessment result not found", goerr.T(ErrTagNotFound))
	ErrGoalNotFound       = goerr.New("goal not found", goerr.T(ErrTagNotFound))
	ErrAnswerRequired     = goerr.New("current question must be answered before moving on", goerr.T(ErrTagAnswerRequired))
	ErrAssessmentNotReady = goerr.New("assessment is not completed", goerr.T(ErrTagNotCompleted))
)
