package http

import (
	"bytes"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/goccy/go-json"
	"github.com/mindhaven/mindhaven/pkg/domain/model"
	"github.com/mindhaven/mindhaven/pkg/domain/types"
	"github.com/mindhaven/mindhaven/pkg/usecase"
)

type assessmentHandler struct {
	uc usecase.AssessmentUseCase
}

// optionValue is an answer value sent either as "2" or as 2
type optionValue string

func (v *optionValue) UnmarshalJSON(data []byte) error {
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*v = optionValue(s)
		return nil
	}
	if bytes.Equal(data, []byte("null")) {
		*v = ""
		return nil
	}
	*v = optionValue(data)
	return nil
}

type testTypeSummary struct {
	ID               types.TestTypeID `json:"id"`
	Title            string           `json:"title"`
	Description      string           `json:"description"`
	ExpectedDuration string           `json:"expected_duration"`
	QuestionCount    int              `json:"question_count"`
	HasSeverityTable bool             `json:"has_severity_table"`
}

type scoreRequest struct {
	Responses map[string]optionValue `json:"responses" validate:"required"`
}

type startSessionRequest struct {
	UserID     string `json:"user_id" validate:"required,max=128"`
	TestTypeID string `json:"test_type_id" validate:"required,max=64"`
}

type answerRequest struct {
	Value optionValue `json:"value" validate:"required"`
}

func (h *assessmentHandler) listTestTypes(w http.ResponseWriter, r *http.Request) {
	testTypes := h.uc.ListTestTypes(r.Context())

	summaries := make([]testTypeSummary, 0, len(testTypes))
	for i := range testTypes {
		tt := &testTypes[i]
		summaries = append(summaries, testTypeSummary{
			ID:               tt.ID,
			Title:            tt.Title,
			Description:      tt.Description,
			ExpectedDuration: tt.ExpectedDuration,
			QuestionCount:    tt.QuestionCount(),
			HasSeverityTable: tt.HasSeverityTable(),
		})
	}
	writeJSON(w, r, http.StatusOK, summaries)
}

func (h *assessmentHandler) getTestType(w http.ResponseWriter, r *http.Request) {
	tt, err := h.uc.GetTestType(r.Context(), types.TestTypeID(chi.URLParam(r, "testTypeID")))
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, tt)
}

func (h *assessmentHandler) getQuestions(w http.ResponseWriter, r *http.Request) {
	questions := h.uc.GetQuestions(r.Context(), types.TestTypeID(chi.URLParam(r, "testTypeID")))
	writeJSON(w, r, http.StatusOK, questions)
}

func (h *assessmentHandler) score(w http.ResponseWriter, r *http.Request) {
	var req scoreRequest
	if err := decodeRequest(r, &req); err != nil {
		handleError(w, r, err)
		return
	}

	raw := make(map[string]string, len(req.Responses))
	for id, v := range req.Responses {
		raw[id] = string(v)
	}
	responses, err := model.ParseResponses(raw)
	if err != nil {
		handleError(w, r, err)
		return
	}

	result, err := h.uc.Score(r.Context(), types.TestTypeID(chi.URLParam(r, "testTypeID")), responses)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, result)
}

func (h *assessmentHandler) startSession(w http.ResponseWriter, r *http.Request) {
	var req startSessionRequest
	if err := decodeRequest(r, &req); err != nil {
		handleError(w, r, err)
		return
	}

	state, err := h.uc.StartSession(r.Context(), types.UserID(req.UserID), types.TestTypeID(req.TestTypeID))
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusCreated, state)
}

func sessionIDParam(r *http.Request) types.AssessmentSessionID {
	return types.AssessmentSessionID(chi.URLParam(r, "sessionID"))
}

func (h *assessmentHandler) getSession(w http.ResponseWriter, r *http.Request) {
	state, err := h.uc.GetSession(r.Context(), sessionIDParam(r))
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, state)
}

func (h *assessmentHandler) answer(w http.ResponseWriter, r *http.Request) {
	var req answerRequest
	if err := decodeRequest(r, &req); err != nil {
		handleError(w, r, err)
		return
	}

	value, err := model.ParseOptionValue(string(req.Value))
	if err != nil {
		handleError(w, r, err)
		return
	}

	questionID := types.QuestionID(chi.URLParam(r, "questionID"))
	state, err := h.uc.Answer(r.Context(), sessionIDParam(r), questionID, value)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, state)
}

func (h *assessmentHandler) next(w http.ResponseWriter, r *http.Request) {
	state, err := h.uc.Next(r.Context(), sessionIDParam(r))
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, state)
}

func (h *assessmentHandler) previous(w http.ResponseWriter, r *http.Request) {
	state, err := h.uc.Previous(r.Context(), sessionIDParam(r))
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, state)
}

func (h *assessmentHandler) submit(w http.ResponseWriter, r *http.Request) {
	result, err := h.uc.Submit(r.Context(), sessionIDParam(r))
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusCreated, result)
}

func (h *assessmentHandler) abandon(w http.ResponseWriter, r *http.Request) {
	if err := h.uc.Abandon(r.Context(), sessionIDParam(r)); err != nil {
		handleError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *assessmentHandler) listResults(w http.ResponseWriter, r *http.Request) {
	limit, err := queryInt(r, "limit", 0)
	if err != nil {
		handleError(w, r, err)
		return
	}

	results, err := h.uc.ListResults(r.Context(), types.UserID(chi.URLParam(r, "userID")), limit)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, results)
}

func (h *assessmentHandler) getResult(w http.ResponseWriter, r *http.Request) {
	result, err := h.uc.GetResult(r.Context(), types.ResultID(chi.URLParam(r, "resultID")))
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, result)
}
