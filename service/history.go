package service

import (
	"errors"

	"github.com/formpulse/formpulse/httpx"
	"github.com/formpulse/formpulse/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ListUserResponses returns the caller's submissions, newest first,
// each with its survey and answers.
func ListUserResponses(db *gorm.DB, userID uuid.UUID) ([]models.Response, error) {
	var responses []models.Response
	err := db.
		Where("user_id = ?", userID).
		Preload("Survey").
		Preload("Answers", func(tx *gorm.DB) *gorm.DB {
			return tx.Order("created_at ASC")
		}).
		Preload("Answers.Question").
		Order("created_at DESC").
		Find(&responses).Error
	if err != nil {
		return nil, err
	}
	return responses, nil
}

// GetResponseDetail reconstructs one past submission: the response with
// its survey, owner and answers joined back to their questions and
// options. Only the owner may view it; anyone else gets FORBIDDEN even
// when the response exists.
func GetResponseDetail(db *gorm.DB, responseID, callerID uuid.UUID) (*models.Response, error) {
	var response models.Response
	err := db.
		Preload("Survey").
		Preload("User").
		Preload("Answers", func(tx *gorm.DB) *gorm.DB {
			return tx.Order("created_at ASC")
		}).
		Preload("Answers.Question").
		Preload("Answers.Question.Options", func(tx *gorm.DB) *gorm.DB {
			return tx.Order(`"order" ASC, created_at ASC`)
		}).
		First(&response, "id = ?", responseID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, httpx.Errorf(httpx.CodeNotFound, "response not found")
		}
		return nil, err
	}

	if response.UserID != callerID {
		return nil, httpx.Errorf(httpx.CodeForbidden, "you don't have access to this response")
	}
	return &response, nil
}

// ListSurveyResponses returns every submission to one survey, newest
// first, with respondents and resolved answers. Used by survey authors.
func ListSurveyResponses(db *gorm.DB, surveyID uuid.UUID) ([]models.Response, error) {
	var responses []models.Response
	err := db.
		Where("survey_id = ?", surveyID).
		Preload("User").
		Preload("Answers", func(tx *gorm.DB) *gorm.DB {
			return tx.Order("created_at ASC")
		}).
		Preload("Answers.Question").
		Preload("Answers.Question.Options").
		Order("created_at DESC").
		Find(&responses).Error
	if err != nil {
		return nil, err
	}
	return responses, nil
}
