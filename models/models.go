package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Base holds the columns shared by every table: a UUID primary key and
// the created/updated timestamps.
type Base struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (b *Base) BeforeCreate(tx *gorm.DB) error {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	return nil
}

// QuestionType tags a question with its input kind. Options are only
// meaningful for QuestionSelect.
type QuestionType string

const (
	QuestionSelect   QuestionType = "select"
	QuestionTextarea QuestionType = "textarea"
	QuestionText     QuestionType = "text"
)

func (t QuestionType) Valid() bool {
	switch t {
	case QuestionSelect, QuestionTextarea, QuestionText:
		return true
	}
	return false
}

type User struct {
	Base
	Email        string     `gorm:"uniqueIndex;not null" json:"email"`
	Name         string     `gorm:"not null" json:"name"`
	PasswordHash string     `json:"-"`
	GoogleID     *string    `gorm:"uniqueIndex" json:"-"`
	Picture      string     `json:"picture,omitempty"`
	Responses    []Response `gorm:"constraint:OnDelete:CASCADE" json:"-"`
}

type Survey struct {
	Base
	Title       string     `gorm:"not null" json:"title"`
	Description string     `json:"description"`
	Questions   []Question `gorm:"constraint:OnDelete:CASCADE" json:"questions,omitempty"`
	Responses   []Response `gorm:"constraint:OnDelete:CASCADE" json:"-"`
}

type Question struct {
	Base
	SurveyID    uuid.UUID        `gorm:"type:uuid;index;not null" json:"surveyId"`
	Title       string           `gorm:"not null" json:"title"`
	Description string           `json:"description"`
	Required    bool             `json:"required"`
	Type        QuestionType     `gorm:"not null" json:"type"`
	Order       int              `gorm:"not null" json:"order"`
	Options     []QuestionOption `gorm:"foreignKey:QuestionID;constraint:OnDelete:CASCADE" json:"options,omitempty"`
	Answers     []Answer         `gorm:"constraint:OnDelete:CASCADE" json:"-"`
}

type QuestionOption struct {
	Base
	QuestionID uuid.UUID `gorm:"type:uuid;index;not null" json:"questionId"`
	Label      string    `gorm:"not null" json:"label"`
	Value      string    `gorm:"not null" json:"value"`
	Order      int       `json:"order"`
}

// Response is one user's completed submission to a survey. It is
// created together with its answers in a single transaction and never
// mutated afterwards.
type Response struct {
	Base
	UserID   uuid.UUID `gorm:"type:uuid;index;not null" json:"userId"`
	SurveyID uuid.UUID `gorm:"type:uuid;index;not null" json:"surveyId"`
	User     *User     `json:"user,omitempty"`
	Survey   *Survey   `json:"survey,omitempty"`
	Answers  []Answer  `gorm:"constraint:OnDelete:CASCADE" json:"answers,omitempty"`
}

type Answer struct {
	Base
	ResponseID uuid.UUID `gorm:"type:uuid;index;not null" json:"responseId"`
	QuestionID uuid.UUID `gorm:"type:uuid;index;not null" json:"questionId"`
	Value      string    `gorm:"not null" json:"value"`
	Question   *Question `gorm:"foreignKey:QuestionID" json:"question,omitempty"`
}

// DisplayValue resolves the stored value for display. For a select
// question it returns the label of the option whose value matches; a
// stored value with no matching option (the option set may change after
// submission) falls back to the raw value. Requires Question and its
// Options to be preloaded; without them the raw value is returned.
func (a Answer) DisplayValue() string {
	if a.Question == nil || a.Question.Type != QuestionSelect {
		return a.Value
	}
	for _, opt := range a.Question.Options {
		if opt.Value == a.Value {
			return opt.Label
		}
	}
	return a.Value
}
