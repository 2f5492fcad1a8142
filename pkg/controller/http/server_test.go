package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/gt"
	"github.com/mindhaven/mindhaven/pkg/bank"
	controller "github.com/mindhaven/mindhaven/pkg/controller/http"
	"github.com/mindhaven/mindhaven/pkg/domain/model"
	"github.com/mindhaven/mindhaven/pkg/repository"
	"github.com/mindhaven/mindhaven/pkg/usecase"
)

func newTestServer(t *testing.T, cfg controller.Config) *controller.Server {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))
	ctx := ctxlog.With(context.Background(), logger)

	b, err := bank.Default()
	gt.NoError(t, err).Required()
	repo := repository.NewMemory()

	return controller.NewServer(ctx, cfg,
		usecase.NewAssessment(b, repo, usecase.NewAssessmentConfig()),
		usecase.NewTracker(repo),
	)
}

func doRequest(t *testing.T, server *controller.Server, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		gt.NoError(t, json.NewEncoder(&buf).Encode(body)).Required()
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	server.Server.Handler.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	gt.NoError(t, json.Unmarshal(w.Body.Bytes(), &v)).Required()
	return v
}

func TestServerHealthCheck(t *testing.T) {
	server := newTestServer(t, controller.Config{})

	w := doRequest(t, server, http.MethodGet, "/health", nil)
	gt.Equal(t, w.Code, http.StatusOK)
	gt.S(t, w.Body.String()).Contains("healthy")
	gt.S(t, w.Body.String()).Contains("mindhaven")
}

func TestServerCatalogue(t *testing.T) {
	server := newTestServer(t, controller.Config{})

	t.Run("list test types", func(t *testing.T) {
		w := doRequest(t, server, http.MethodGet, "/api/tests", nil)
		gt.Equal(t, w.Code, http.StatusOK)

		summaries := decode[[]map[string]any](t, w)
		gt.Equal(t, len(summaries), 12)
		gt.Equal(t, summaries[0]["id"], any("depression"))
		gt.Equal(t, summaries[0]["has_severity_table"], any(true))
	})

	t.Run("get test type", func(t *testing.T) {
		w := doRequest(t, server, http.MethodGet, "/api/tests/adhd", nil)
		gt.Equal(t, w.Code, http.StatusOK)
		tt := decode[model.TestType](t, w)
		gt.Equal(t, tt.QuestionCount(), 10)
		gt.Equal(t, len(tt.Severities), 4)
	})

	t.Run("unknown test type is 404", func(t *testing.T) {
		w := doRequest(t, server, http.MethodGet, "/api/tests/unknown", nil)
		gt.Equal(t, w.Code, http.StatusNotFound)
	})

	t.Run("questions of unknown test type are empty", func(t *testing.T) {
		w := doRequest(t, server, http.MethodGet, "/api/tests/unknown/questions", nil)
		gt.Equal(t, w.Code, http.StatusOK)
		questions := decode[[]model.Question](t, w)
		gt.Equal(t, len(questions), 0)
	})
}

func TestServerScore(t *testing.T) {
	server := newTestServer(t, controller.Config{})

	t.Run("ADHD all fours is severe", func(t *testing.T) {
		responses := map[string]any{}
		for i := 1; i <= 10; i++ {
			responses[fmt.Sprintf("adhd-%d", i)] = "4"
		}
		w := doRequest(t, server, http.MethodPost, "/api/tests/adhd/score", map[string]any{"responses": responses})
		gt.Equal(t, w.Code, http.StatusOK)

		result := decode[model.AssessmentResult](t, w)
		gt.Equal(t, result.Score, 40)
		gt.Equal(t, result.Range.Severity, model.SeveritySevere)
	})

	t.Run("numeric values are accepted", func(t *testing.T) {
		body := map[string]any{"responses": map[string]any{"dep-1": 2, "dep-2": "3"}}
		w := doRequest(t, server, http.MethodPost, "/api/tests/depression/score", body)
		gt.Equal(t, w.Code, http.StatusOK)
		result := decode[model.AssessmentResult](t, w)
		gt.Equal(t, result.Score, 5)
		gt.Equal(t, result.Range.Severity, model.SeverityMild)
	})

	t.Run("test without table is unknown", func(t *testing.T) {
		body := map[string]any{"responses": map[string]any{}}
		w := doRequest(t, server, http.MethodPost, "/api/tests/stress/score", body)
		gt.Equal(t, w.Code, http.StatusOK)
		result := decode[model.AssessmentResult](t, w)
		gt.Equal(t, result.Range.Label, "Unknown")
	})

	t.Run("non numeric value is 400", func(t *testing.T) {
		body := map[string]any{"responses": map[string]any{"dep-1": "often"}}
		w := doRequest(t, server, http.MethodPost, "/api/tests/depression/score", body)
		gt.Equal(t, w.Code, http.StatusBadRequest)
	})

	t.Run("missing responses is 400", func(t *testing.T) {
		w := doRequest(t, server, http.MethodPost, "/api/tests/depression/score", map[string]any{})
		gt.Equal(t, w.Code, http.StatusBadRequest)
	})
}

func TestServerSessionFlow(t *testing.T) {
	server := newTestServer(t, controller.Config{})

	w := doRequest(t, server, http.MethodPost, "/api/sessions", map[string]any{
		"user_id":      "user-1",
		"test_type_id": "anxiety",
	})
	gt.Equal(t, w.Code, http.StatusCreated)
	state := decode[usecase.SessionState](t, w)
	sessionID := state.Session.ID.String()
	gt.Equal(t, state.Current.ID.String(), "anx-1")

	// next without an answer is a conflict
	w = doRequest(t, server, http.MethodPost, "/api/sessions/"+sessionID+"/next", nil)
	gt.Equal(t, w.Code, http.StatusConflict)

	// submit before completion is a conflict
	w = doRequest(t, server, http.MethodPost, "/api/sessions/"+sessionID+"/submit", nil)
	gt.Equal(t, w.Code, http.StatusConflict)

	// value outside the scale is rejected
	w = doRequest(t, server, http.MethodPut, "/api/sessions/"+sessionID+"/answers/anx-1", map[string]any{"value": "9"})
	gt.Equal(t, w.Code, http.StatusBadRequest)

	// questions are answered in order
	w = doRequest(t, server, http.MethodPut, "/api/sessions/"+sessionID+"/answers/anx-3", map[string]any{"value": "2"})
	gt.Equal(t, w.Code, http.StatusConflict)

	for i := 1; i <= 7; i++ {
		w = doRequest(t, server, http.MethodPut, fmt.Sprintf("/api/sessions/%s/answers/anx-%d", sessionID, i), map[string]any{"value": "1"})
		gt.Equal(t, w.Code, http.StatusOK)
		w = doRequest(t, server, http.MethodPost, "/api/sessions/"+sessionID+"/next", nil)
		gt.Equal(t, w.Code, http.StatusOK)
	}

	state = decode[usecase.SessionState](t, w)
	gt.True(t, state.Session.Navigator.IsCompleted())
	gt.Equal(t, state.Answered, 7)

	w = doRequest(t, server, http.MethodPost, "/api/sessions/"+sessionID+"/submit", nil)
	gt.Equal(t, w.Code, http.StatusCreated)
	result := decode[model.AssessmentResult](t, w)
	gt.Equal(t, result.Score, 7)
	gt.Equal(t, result.Range.Severity, model.SeverityMild)

	w = doRequest(t, server, http.MethodGet, "/api/sessions/"+sessionID, nil)
	gt.Equal(t, w.Code, http.StatusNotFound)

	w = doRequest(t, server, http.MethodGet, "/api/results/"+result.ID.String(), nil)
	gt.Equal(t, w.Code, http.StatusOK)

	w = doRequest(t, server, http.MethodGet, "/api/users/user-1/results?limit=5", nil)
	gt.Equal(t, w.Code, http.StatusOK)
	results := decode[[]model.AssessmentResult](t, w)
	gt.Equal(t, len(results), 1)

	w = doRequest(t, server, http.MethodGet, "/api/users/user-1/results?limit=abc", nil)
	gt.Equal(t, w.Code, http.StatusBadRequest)
}

func TestServerSessionErrors(t *testing.T) {
	server := newTestServer(t, controller.Config{})

	t.Run("unknown test type", func(t *testing.T) {
		w := doRequest(t, server, http.MethodPost, "/api/sessions", map[string]any{
			"user_id":      "user-1",
			"test_type_id": "unknown",
		})
		gt.Equal(t, w.Code, http.StatusNotFound)
	})

	t.Run("missing user", func(t *testing.T) {
		w := doRequest(t, server, http.MethodPost, "/api/sessions", map[string]any{"test_type_id": "ocd"})
		gt.Equal(t, w.Code, http.StatusBadRequest)
	})

	t.Run("broken body", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/sessions", bytes.NewBufferString("{"))
		w := httptest.NewRecorder()
		server.Server.Handler.ServeHTTP(w, req)
		gt.Equal(t, w.Code, http.StatusBadRequest)
	})

	t.Run("abandon", func(t *testing.T) {
		w := doRequest(t, server, http.MethodPost, "/api/sessions", map[string]any{
			"user_id":      "user-1",
			"test_type_id": "ocd",
		})
		gt.Equal(t, w.Code, http.StatusCreated)
		state := decode[usecase.SessionState](t, w)

		w = doRequest(t, server, http.MethodDelete, "/api/sessions/"+state.Session.ID.String(), nil)
		gt.Equal(t, w.Code, http.StatusNoContent)

		w = doRequest(t, server, http.MethodDelete, "/api/sessions/"+state.Session.ID.String(), nil)
		gt.Equal(t, w.Code, http.StatusNotFound)
	})
}

func TestServerTracker(t *testing.T) {
	server := newTestServer(t, controller.Config{})

	t.Run("moods", func(t *testing.T) {
		w := doRequest(t, server, http.MethodPost, "/api/users/user-2/moods", map[string]any{
			"mood": "good",
			"note": "nice walk",
			"tags": []string{"Outdoors"},
		})
		gt.Equal(t, w.Code, http.StatusCreated)
		entry := decode[model.MoodEntry](t, w)
		gt.Equal(t, entry.Tags, []string{"outdoors"})

		w = doRequest(t, server, http.MethodPost, "/api/users/user-2/moods", map[string]any{"mood": "ecstatic"})
		gt.Equal(t, w.Code, http.StatusBadRequest)

		w = doRequest(t, server, http.MethodGet, "/api/users/user-2/moods", nil)
		gt.Equal(t, w.Code, http.StatusOK)
		gt.Equal(t, len(decode[[]model.MoodEntry](t, w)), 1)

		w = doRequest(t, server, http.MethodGet, "/api/users/user-2/moods/summary?days=3", nil)
		gt.Equal(t, w.Code, http.StatusOK)
		summary := decode[model.MoodSummary](t, w)
		gt.Equal(t, summary.Count, 1)
		gt.Equal(t, summary.Average, 4.0)
	})

	t.Run("goals", func(t *testing.T) {
		w := doRequest(t, server, http.MethodPost, "/api/users/user-2/goals", map[string]any{
			"title":    "Sleep eight hours",
			"category": "sleep",
		})
		gt.Equal(t, w.Code, http.StatusCreated)
		goal := decode[model.Goal](t, w)

		w = doRequest(t, server, http.MethodPut, "/api/goals/"+goal.ID.String()+"/progress", map[string]any{"progress": 120})
		gt.Equal(t, w.Code, http.StatusBadRequest)

		w = doRequest(t, server, http.MethodPut, "/api/goals/"+goal.ID.String()+"/progress", map[string]any{"progress": 100})
		gt.Equal(t, w.Code, http.StatusOK)
		completed := decode[model.Goal](t, w)
		gt.True(t, completed.IsCompleted())

		w = doRequest(t, server, http.MethodPost, "/api/goals/"+goal.ID.String()+"/complete", nil)
		gt.Equal(t, w.Code, http.StatusConflict)

		w = doRequest(t, server, http.MethodGet, "/api/users/user-2/goals", nil)
		gt.Equal(t, w.Code, http.StatusOK)
		gt.Equal(t, len(decode[[]model.Goal](t, w)), 1)

		w = doRequest(t, server, http.MethodDelete, "/api/goals/"+goal.ID.String(), nil)
		gt.Equal(t, w.Code, http.StatusNoContent)

		w = doRequest(t, server, http.MethodDelete, "/api/goals/"+goal.ID.String(), nil)
		gt.Equal(t, w.Code, http.StatusNotFound)
	})
}

func TestServerMiddleware(t *testing.T) {
	t.Run("rate limit", func(t *testing.T) {
		server := newTestServer(t, controller.Config{RateLimit: 1})

		w := doRequest(t, server, http.MethodGet, "/health", nil)
		gt.Equal(t, w.Code, http.StatusOK)
		w = doRequest(t, server, http.MethodGet, "/health", nil)
		gt.Equal(t, w.Code, http.StatusTooManyRequests)
	})

	t.Run("cors preflight", func(t *testing.T) {
		server := newTestServer(t, controller.Config{AllowedOrigins: []string{"https://app.example.com"}})

		req := httptest.NewRequest(http.MethodOptions, "/api/tests", nil)
		req.Header.Set("Origin", "https://app.example.com")
		req.Header.Set("Access-Control-Request-Method", http.MethodGet)
		w := httptest.NewRecorder()
		server.Server.Handler.ServeHTTP(w, req)

		gt.Equal(t, w.Header().Get("Access-Control-Allow-Origin"), "https://app.example.com")
	})
}

func TestServerAnswerWhileSelectingTest(t *testing.T) {
	server := newTestServer(t, controller.Config{})

	w := doRequest(t, server, http.MethodPost, "/api/sessions", map[string]any{
		"user_id":      "user-1",
		"test_type_id": "depression",
	})
	gt.Equal(t, w.Code, http.StatusCreated)
	sessionID := decode[usecase.SessionState](t, w).Session.ID.String()

	w = doRequest(t, server, http.MethodPost, "/api/sessions/"+sessionID+"/previous", nil)
	gt.Equal(t, w.Code, http.StatusOK)

	w = doRequest(t, server, http.MethodPut, "/api/sessions/"+sessionID+"/answers/dep-5", map[string]any{"value": "2"})
	gt.Equal(t, w.Code, http.StatusConflict)

	w = doRequest(t, server, http.MethodGet, "/api/sessions/"+sessionID, nil)
	gt.Equal(t, w.Code, http.StatusOK)
	gt.Equal(t, decode[usecase.SessionState](t, w).Answered, 0)
}
