// Package flow drives a user through a survey one question at a time
// and assembles the submission payload. A Session is an explicit state
// object (step index + answer map) so the whole flow is unit-testable
// without any rendering environment. Sessions are single-user and not
// goroutine-safe.
package flow

import (
	"context"
	"errors"
	"strings"

	"github.com/formpulse/formpulse/models"
	"github.com/formpulse/formpulse/service"
	"github.com/google/uuid"
)

var (
	// ErrAnswerRequired is returned by Advance when the current question
	// is required and has no answer yet.
	ErrAnswerRequired = errors.New("answer required")

	// ErrMissingRequired is returned by Submit when at least one
	// required question is unanswered. The submitter is never called in
	// that case.
	ErrMissingRequired = errors.New("missing required answers")

	// ErrNoQuestions is returned when a session is started on a survey
	// without questions.
	ErrNoQuestions = errors.New("survey has no questions")
)

// Submitter hands a completed submission to the submission service.
// The caller's identity is bound by the submitter, not the session.
type Submitter interface {
	Submit(ctx context.Context, surveyID uuid.UUID, answers []service.AnswerInput) (*models.Response, error)
}

// Session steps through a survey's questions in display order,
// collecting answers.
type Session struct {
	survey  *models.Survey
	step    int
	answers map[uuid.UUID]string
	done    bool
}

// NewSession starts a take-survey session at the first question. The
// survey's Questions must already be in display order, as returned by
// the catalog.
func NewSession(survey *models.Survey) (*Session, error) {
	if len(survey.Questions) == 0 {
		return nil, ErrNoQuestions
	}
	return &Session{
		survey:  survey,
		answers: make(map[uuid.UUID]string),
	}, nil
}

// Step is the zero-based index of the current question.
func (s *Session) Step() int {
	return s.step
}

// Current returns the question at the current step.
func (s *Session) Current() models.Question {
	return s.survey.Questions[s.step]
}

// TotalSteps is the number of questions in the survey.
func (s *Session) TotalSteps() int {
	return len(s.survey.Questions)
}

// AtLastStep reports whether the current question is the final one.
func (s *Session) AtLastStep() bool {
	return s.step == len(s.survey.Questions)-1
}

// Done reports whether the submission was acknowledged.
func (s *Session) Done() bool {
	return s.done
}

// Progress reports (step+1)/total, a value in (0, 1].
func (s *Session) Progress() float64 {
	return float64(s.step+1) / float64(len(s.survey.Questions))
}

// Answer returns the recorded value for a question, if any.
func (s *Session) Answer(questionID uuid.UUID) (string, bool) {
	v, ok := s.answers[questionID]
	return v, ok
}

// Answered is the number of questions with a recorded answer.
func (s *Session) Answered() int {
	return len(s.answers)
}

// RecordAnswer upserts the answer for a question. There is no
// validation at keystroke time; it always succeeds.
func (s *Session) RecordAnswer(questionID uuid.UUID, value string) {
	s.answers[questionID] = value
}

// Retreat steps back one question. It is a no-op at the first step.
func (s *Session) Retreat() {
	if s.step > 0 {
		s.step--
	}
}

// Advance moves to the next question. A required current question with
// a blank answer fails with ErrAnswerRequired and leaves the state
// unchanged. On the last step it submits instead, returning the created
// response.
func (s *Session) Advance(ctx context.Context, svc Submitter) (*models.Response, error) {
	current := s.Current()
	if current.Required && strings.TrimSpace(s.answers[current.ID]) == "" {
		return nil, ErrAnswerRequired
	}
	if !s.AtLastStep() {
		s.step++
		return nil, nil
	}
	return s.Submit(ctx, svc)
}

// Submit re-validates required completeness, then flattens the answer
// map into {questionId, value} pairs and hands them to the submitter.
// When a required question is unanswered it fails with
// ErrMissingRequired before any call is made. A submitter failure
// leaves the session at the last step with answers intact so the user
// can resubmit.
func (s *Session) Submit(ctx context.Context, svc Submitter) (*models.Response, error) {
	for _, q := range s.survey.Questions {
		if q.Required && strings.TrimSpace(s.answers[q.ID]) == "" {
			return nil, ErrMissingRequired
		}
	}

	inputs := make([]service.AnswerInput, 0, len(s.answers))
	for questionID, value := range s.answers {
		inputs = append(inputs, service.AnswerInput{
			QuestionID: questionID,
			Value:      value,
		})
	}

	response, err := svc.Submit(ctx, s.survey.ID, inputs)
	if err != nil {
		return nil, err
	}
	s.done = true
	return response, nil
}
