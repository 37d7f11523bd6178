// Package service implements the server-side survey operations: the
// read-only catalog, the atomic submission transaction and the response
// history. Every operation takes the database handle and, where
// identity matters, the caller's user ID explicitly.
package service

import (
	"errors"

	"github.com/formpulse/formpulse/httpx"
	"github.com/formpulse/formpulse/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ListSurveys returns all surveys, newest first.
func ListSurveys(db *gorm.DB) ([]models.Survey, error) {
	var surveys []models.Survey
	if err := db.Order("created_at DESC").Find(&surveys).Error; err != nil {
		return nil, err
	}
	return surveys, nil
}

// GetSurvey returns a survey with its questions and options in display
// order. Question order ties are broken by creation time.
func GetSurvey(db *gorm.DB, id uuid.UUID) (*models.Survey, error) {
	var survey models.Survey
	err := db.
		Preload("Questions", func(tx *gorm.DB) *gorm.DB {
			return tx.Order(`"order" ASC, created_at ASC`)
		}).
		Preload("Questions.Options", func(tx *gorm.DB) *gorm.DB {
			return tx.Order(`"order" ASC, created_at ASC`)
		}).
		First(&survey, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, httpx.Errorf(httpx.CodeNotFound, "survey not found")
		}
		return nil, err
	}
	return &survey, nil
}

// CreateSurveyInput is the authoring payload: a survey with its nested
// questions and options.
type CreateSurveyInput struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Questions   []struct {
		Title       string              `json:"title"`
		Description string              `json:"description"`
		Required    bool                `json:"required"`
		Type        models.QuestionType `json:"type"`
		Order       int                 `json:"order"`
		Options     []struct {
			Label string `json:"label"`
			Value string `json:"value"`
			Order int    `json:"order"`
		} `json:"options"`
	} `json:"questions"`
}

// CreateSurvey persists a survey and its questions/options in one
// transaction.
func CreateSurvey(db *gorm.DB, input CreateSurveyInput) (*models.Survey, error) {
	if input.Title == "" {
		return nil, httpx.Errorf(httpx.CodeValidationFailed, "title is required")
	}
	for _, q := range input.Questions {
		if !q.Type.Valid() {
			return nil, httpx.Errorf(httpx.CodeValidationFailed, "unknown question type %q", q.Type)
		}
		if q.Title == "" {
			return nil, httpx.Errorf(httpx.CodeValidationFailed, "question title is required")
		}
	}

	survey := &models.Survey{
		Title:       input.Title,
		Description: input.Description,
	}
	for _, q := range input.Questions {
		question := models.Question{
			Title:       q.Title,
			Description: q.Description,
			Required:    q.Required,
			Type:        q.Type,
			Order:       q.Order,
		}
		for _, o := range q.Options {
			question.Options = append(question.Options, models.QuestionOption{
				Label: o.Label,
				Value: o.Value,
				Order: o.Order,
			})
		}
		survey.Questions = append(survey.Questions, question)
	}

	if err := db.Transaction(func(tx *gorm.DB) error {
		return tx.Create(survey).Error
	}); err != nil {
		return nil, err
	}
	return survey, nil
}

// DeleteSurvey removes a survey; questions, options, responses and
// answers go with it via the cascade constraints.
func DeleteSurvey(db *gorm.DB, id uuid.UUID) error {
	result := db.Delete(&models.Survey{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return httpx.Errorf(httpx.CodeNotFound, "survey not found")
	}
	return nil
}
