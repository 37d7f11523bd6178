package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/formpulse/formpulse/auth"
	"github.com/formpulse/formpulse/db"
	"github.com/formpulse/formpulse/httpx"
	"github.com/formpulse/formpulse/models"
	"github.com/formpulse/formpulse/service"
	"github.com/google/uuid"
)

// SubmitResponse handles POST /api/surveys/{id}/responses. The caller's
// identity comes from the session; the survey from the path.
func SubmitResponse(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserID(r.Context())
	if !ok {
		httpx.WriteError(w, httpx.Errorf(httpx.CodeUnauthorized, "authentication required"))
		return
	}

	surveyID, err := pathID(r, "id")
	if err != nil {
		httpx.WriteError(w, err)
		return
	}

	var input struct {
		Answers []service.AnswerInput `json:"answers"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		httpx.WriteError(w, httpx.Errorf(httpx.CodeValidationFailed, "invalid request body"))
		return
	}

	response, err := service.SubmitResponse(db.GetDB(), userID, surveyID, input.Answers)
	if err != nil {
		httpx.WriteError(w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusCreated, response)
}

func ListMyResponses(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserID(r.Context())
	if !ok {
		httpx.WriteError(w, httpx.Errorf(httpx.CodeUnauthorized, "authentication required"))
		return
	}

	responses, err := service.ListUserResponses(db.GetDB(), userID)
	if err != nil {
		httpx.WriteError(w, err)
		return
	}

	type summary struct {
		ID          uuid.UUID     `json:"id"`
		CreatedAt   time.Time     `json:"createdAt"`
		Survey      models.Survey `json:"survey"`
		AnswerCount int           `json:"answerCount"`
	}
	summaries := make([]summary, 0, len(responses))
	for _, resp := range responses {
		summaries = append(summaries, summary{
			ID:          resp.ID,
			CreatedAt:   resp.CreatedAt,
			Survey:      *resp.Survey,
			AnswerCount: len(resp.Answers),
		})
	}
	httpx.WriteJSON(w, http.StatusOK, summaries)
}

// answerDetail is one answer joined to its question definition, with
// the stored value resolved for display.
type answerDetail struct {
	ID           uuid.UUID       `json:"id"`
	Question     models.Question `json:"question"`
	Value        string          `json:"value"`
	DisplayValue string          `json:"displayValue"`
}

func GetResponseDetail(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserID(r.Context())
	if !ok {
		httpx.WriteError(w, httpx.Errorf(httpx.CodeUnauthorized, "authentication required"))
		return
	}

	responseID, err := pathID(r, "id")
	if err != nil {
		httpx.WriteError(w, err)
		return
	}

	response, err := service.GetResponseDetail(db.GetDB(), responseID, userID)
	if err != nil {
		httpx.WriteError(w, err)
		return
	}

	answers := make([]answerDetail, 0, len(response.Answers))
	for _, a := range response.Answers {
		answers = append(answers, answerDetail{
			ID:           a.ID,
			Question:     *a.Question,
			Value:        a.Value,
			DisplayValue: a.DisplayValue(),
		})
	}

	httpx.WriteJSON(w, http.StatusOK, map[string]any{
		"id":        response.ID,
		"createdAt": response.CreatedAt,
		"survey":    response.Survey,
		"user":      response.User,
		"answers":   answers,
	})
}

// ListSurveyResponses lets an authenticated caller review every
// submission to one survey.
func ListSurveyResponses(w http.ResponseWriter, r *http.Request) {
	surveyID, err := pathID(r, "id")
	if err != nil {
		httpx.WriteError(w, err)
		return
	}

	if _, err := service.GetSurvey(db.GetDB(), surveyID); err != nil {
		httpx.WriteError(w, err)
		return
	}

	responses, err := service.ListSurveyResponses(db.GetDB(), surveyID)
	if err != nil {
		httpx.WriteError(w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, responses)
}
