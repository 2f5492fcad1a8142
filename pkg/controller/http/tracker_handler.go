package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/mindhaven/mindhaven/pkg/domain/model"
	"github.com/mindhaven/mindhaven/pkg/domain/types"
	"github.com/mindhaven/mindhaven/pkg/usecase"
)

const defaultSummaryDays = 7

type trackerHandler struct {
	uc usecase.TrackerUseCase
}

type moodRequest struct {
	Mood string   `json:"mood" validate:"required,mood"`
	Note string   `json:"note" validate:"max=1000"`
	Tags []string `json:"tags" validate:"max=20,dive,max=32"`
}

type goalRequest struct {
	Title       string     `json:"title" validate:"required,max=200"`
	Description string     `json:"description" validate:"max=2000"`
	Category    string     `json:"category" validate:"max=64"`
	TargetDate  *time.Time `json:"target_date"`
}

type progressRequest struct {
	Progress *int `json:"progress" validate:"required,min=0,max=100"`
}

func userIDParam(r *http.Request) types.UserID {
	return types.UserID(chi.URLParam(r, "userID"))
}

func goalIDParam(r *http.Request) types.GoalID {
	return types.GoalID(chi.URLParam(r, "goalID"))
}

func (h *trackerHandler) recordMood(w http.ResponseWriter, r *http.Request) {
	var req moodRequest
	if err := decodeRequest(r, &req); err != nil {
		handleError(w, r, err)
		return
	}

	entry, err := h.uc.RecordMood(r.Context(), userIDParam(r), model.Mood(req.Mood), req.Note, req.Tags)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusCreated, entry)
}

func (h *trackerHandler) listMoods(w http.ResponseWriter, r *http.Request) {
	limit, err := queryInt(r, "limit", 0)
	if err != nil {
		handleError(w, r, err)
		return
	}

	entries, err := h.uc.ListMoods(r.Context(), userIDParam(r), limit)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, entries)
}

func (h *trackerHandler) moodSummary(w http.ResponseWriter, r *http.Request) {
	days, err := queryInt(r, "days", defaultSummaryDays)
	if err != nil {
		handleError(w, r, err)
		return
	}
	if days == 0 {
		days = defaultSummaryDays
	}

	since := time.Now().AddDate(0, 0, -days)
	summary, err := h.uc.MoodSummary(r.Context(), userIDParam(r), since)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, summary)
}

func (h *trackerHandler) createGoal(w http.ResponseWriter, r *http.Request) {
	var req goalRequest
	if err := decodeRequest(r, &req); err != nil {
		handleError(w, r, err)
		return
	}

	goal, err := h.uc.CreateGoal(r.Context(), userIDParam(r), usecase.GoalRequest{
		Title:       req.Title,
		Description: req.Description,
		Category:    req.Category,
		TargetDate:  req.TargetDate,
	})
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusCreated, goal)
}

func (h *trackerHandler) listGoals(w http.ResponseWriter, r *http.Request) {
	goals, err := h.uc.ListGoals(r.Context(), userIDParam(r))
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, goals)
}

func (h *trackerHandler) updateProgress(w http.ResponseWriter, r *http.Request) {
	var req progressRequest
	if err := decodeRequest(r, &req); err != nil {
		handleError(w, r, err)
		return
	}

	goal, err := h.uc.UpdateGoalProgress(r.Context(), goalIDParam(r), *req.Progress)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, goal)
}

func (h *trackerHandler) complete(w http.ResponseWriter, r *http.Request) {
	goal, err := h.uc.CompleteGoal(r.Context(), goalIDParam(r))
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, goal)
}

func (h *trackerHandler) deleteGoal(w http.ResponseWriter, r *http.Request) {
	if err := h.uc.DeleteGoal(r.Context(), goalIDParam(r)); err != nil {
		handleError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
