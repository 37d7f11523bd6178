package flow

import (
	"context"

	"github.com/formpulse/formpulse/models"
	"github.com/formpulse/formpulse/service"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// DirectSubmitter submits straight to the submission service, binding
// the authenticated user's identity.
type DirectSubmitter struct {
	DB     *gorm.DB
	UserID uuid.UUID
}

func (d DirectSubmitter) Submit(ctx context.Context, surveyID uuid.UUID, answers []service.AnswerInput) (*models.Response, error) {
	return service.SubmitResponse(d.DB.WithContext(ctx), d.UserID, surveyID, answers)
}
