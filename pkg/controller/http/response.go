package http

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/goccy/go-json"
	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/mindhaven/mindhaven/pkg/domain/model"
	"github.com/mindhaven/mindhaven/pkg/utils/apperr"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	if err := v.RegisterValidation("mood", func(fl validator.FieldLevel) bool {
		return model.Mood(fl.Field().String()).IsValid()
	}); err != nil {
		panic(err)
	}
	return v
}

// errorResponse is the body of every failed request
type errorResponse struct {
	Error string `json:"error"`
}

// decodeRequest decodes a JSON body into req and validates it
func decodeRequest(r *http.Request, req any) error {
	if err := json.NewDecoder(r.Body).Decode(req); err != nil {
		return goerr.Wrap(err, "invalid request body", goerr.T(model.ErrTagInvalidArgument))
	}
	if err := validate.Struct(req); err != nil {
		return goerr.Wrap(err, "request validation failed", goerr.T(model.ErrTagInvalidArgument))
	}
	return nil
}

// queryInt reads an optional integer query parameter
func queryInt(r *http.Request, name string, defaultValue int) (int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return defaultValue, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v < 0 {
		return 0, goerr.New("query parameter must be a non-negative integer",
			goerr.V("name", name),
			goerr.V("value", raw),
			goerr.T(model.ErrTagInvalidArgument))
	}
	return v, nil
}

// writeJSON writes a JSON response
func writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		ctxlog.From(r.Context()).Error("Failed to encode response", "error", err)
	}
}

// writeError writes an error response
func writeError(w http.ResponseWriter, r *http.Request, err error, status int) {
	var message string
	if goErr := goerr.Unwrap(err); goErr != nil {
		message = goErr.Error()
	} else {
		message = err.Error()
	}
	writeJSON(w, r, status, errorResponse{Error: message})
}

// statusOf maps a domain error to its HTTP status code
func statusOf(err error) int {
	switch {
	case goerr.HasTag(err, model.ErrTagNotFound),
		errors.Is(err, model.ErrTestTypeNotFound),
		errors.Is(err, model.ErrSessionNotFound),
		errors.Is(err, model.ErrResultNotFound),
		errors.Is(err, model.ErrGoalNotFound):
		return http.StatusNotFound

	case goerr.HasTag(err, model.ErrTagInvalidArgument):
		return http.StatusBadRequest

	case goerr.HasTag(err, model.ErrTagAnswerRequired),
		goerr.HasTag(err, model.ErrTagInvalidTransition),
		goerr.HasTag(err, model.ErrTagNotCompleted),
		errors.Is(err, model.ErrAnswerRequired),
		errors.Is(err, model.ErrAssessmentNotReady):
		return http.StatusConflict

	default:
		return http.StatusInternalServerError
	}
}

// handleError writes the response for a failed use case call. Unexpected
// errors are reported and hidden from the client.
func handleError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusOf(err)
	if status == http.StatusInternalServerError {
		apperr.Handle(r.Context(), err)
		writeJSON(w, r, status, errorResponse{Error: "internal server error"})
		return
	}

	ctxlog.From(r.Context()).Debug("Request rejected", "status", status, "error", err)
	writeError(w, r, err, status)
}
