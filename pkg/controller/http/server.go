package http

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/mindhaven/mindhaven/pkg/usecase"
)

// Config holds HTTP server settings
type Config struct {
	Addr           string
	RateLimit      int
	AllowedOrigins []string
}

// Server represents the HTTP server
type Server struct {
	*http.Server
	router chi.Router
}

// NewServer creates a new HTTP server
func NewServer(ctx context.Context, cfg Config, assessmentUC usecase.AssessmentUseCase, trackerUC usecase.TrackerUseCase) *Server {
	router := chi.NewRouter()

	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(LoggingMiddleware(ctx))
	router.Use(middleware.Recoverer)
	router.Use(CORSMiddleware(cfg.AllowedOrigins))
	router.Use(RateLimitMiddleware(cfg.RateLimit))

	assessment := &assessmentHandler{uc: assessmentUC}
	tracker := &trackerHandler{uc: trackerUC}

	router.Get("/health", handleHealth)

	router.Route("/api", func(r chi.Router) {
		r.Route("/tests", func(r chi.Router) {
			r.Get("/", assessment.listTestTypes)
			r.Get("/{testTypeID}", assessment.getTestType)
			r.Get("/{testTypeID}/questions", assessment.getQuestions)
			r.Post("/{testTypeID}/score", assessment.score)
		})

		r.Route("/sessions", func(r chi.Router) {
			r.Post("/", assessment.startSession)
			r.Get("/{sessionID}", assessment.getSession)
			r.Delete("/{sessionID}", assessment.abandon)
			r.Put("/{sessionID}/answers/{questionID}", assessment.answer)
			r.Post("/{sessionID}/next", assessment.next)
			r.Post("/{sessionID}/previous", assessment.previous)
			r.Post("/{sessionID}/submit", assessment.submit)
		})

		r.Get("/results/{resultID}", assessment.getResult)

		r.Route("/users/{userID}", func(r chi.Router) {
			r.Get("/results", assessment.listResults)
			r.Post("/moods", tracker.recordMood)
			r.Get("/moods", tracker.listMoods)
			r.Get("/moods/summary", tracker.moodSummary)
			r.Post("/goals", tracker.createGoal)
			r.Get("/goals", tracker.listGoals)
		})

		r.Route("/goals/{goalID}", func(r chi.Router) {
			r.Put("/progress", tracker.updateProgress)
			r.Post("/complete", tracker.complete)
			r.Delete("/", tracker.deleteGoal)
		})
	})

	return &Server{
		Server: &http.Server{
			Addr:              cfg.Addr,
			Handler:           router,
			ReadHeaderTimeout: 15 * time.Second,
		},
		router: router,
	}
}

// handleHealth handles health check requests
func handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, http.StatusOK, map[string]string{
		"status":  "healthy",
		"service": "mindhaven",
	})
}
