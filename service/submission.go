package service

import (
	"errors"
	"strings"

	"github.com/formpulse/formpulse/httpx"
	"github.com/formpulse/formpulse/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// AnswerInput is one submitted {questionId, value} pair.
type AnswerInput struct {
	QuestionID uuid.UUID `json:"questionId"`
	Value      string    `json:"value"`
}

// SubmitResponse validates a submission against the survey definition
// and persists the response with all its answers in one transaction, so
// a half-written response can never be observed.
//
// Validation happens server-side as well as in the client flow: every
// submitted question must belong to the survey, and every required
// question needs a non-blank value.
func SubmitResponse(db *gorm.DB, userID, surveyID uuid.UUID, answers []AnswerInput) (*models.Response, error) {
	var survey models.Survey
	err := db.Preload("Questions").First(&survey, "id = ?", surveyID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, httpx.Errorf(httpx.CodeNotFound, "survey not found")
		}
		return nil, err
	}

	questions := make(map[uuid.UUID]models.Question, len(survey.Questions))
	for _, q := range survey.Questions {
		questions[q.ID] = q
	}

	answered := make(map[uuid.UUID]string, len(answers))
	for _, in := range answers {
		if _, ok := questions[in.QuestionID]; !ok {
			return nil, httpx.Errorf(httpx.CodeValidationFailed,
				"question %s does not belong to this survey", in.QuestionID)
		}
		answered[in.QuestionID] = in.Value
	}

	for _, q := range survey.Questions {
		if q.Required && strings.TrimSpace(answered[q.ID]) == "" {
			return nil, httpx.Errorf(httpx.CodeValidationFailed,
				"required question %q is unanswered", q.Title)
		}
	}

	response := &models.Response{
		UserID:   userID,
		SurveyID: surveyID,
	}
	err = db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(response).Error; err != nil {
			return err
		}
		for _, in := range answers {
			answer := models.Answer{
				ResponseID: response.ID,
				QuestionID: in.QuestionID,
				Value:      in.Value,
			}
			if err := tx.Create(&answer).Error; err != nil {
				return err
			}
			response.Answers = append(response.Answers, answer)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return response, nil
}
