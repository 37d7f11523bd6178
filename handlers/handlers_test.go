package handlers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/formpulse/formpulse/auth"
	"github.com/formpulse/formpulse/db"
	"github.com/formpulse/formpulse/httpx"
	"github.com/formpulse/formpulse/models"
	"github.com/formpulse/formpulse/service"
	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL not set, skipping database tests")
	}

	testDB, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	require.NoError(t, err, "failed to connect to test database")
	require.NoError(t, db.Migrate(testDB), "failed to migrate test database")

	require.NoError(t, testDB.Exec(
		"TRUNCATE TABLE answers, responses, question_options, questions, surveys, users CASCADE",
	).Error)

	db.DB = testDB
	t.Cleanup(func() {
		sqlDB, _ := testDB.DB()
		sqlDB.Close()
	})
	return testDB
}

func testRouter() *mux.Router {
	r := mux.NewRouter()
	r.HandleFunc("/register", RegisterHandler).Methods("POST")
	r.HandleFunc("/api/surveys", ListSurveys).Methods("GET")
	r.HandleFunc("/api/surveys", CreateSurvey).Methods("POST")
	r.HandleFunc("/api/surveys/{id}", GetSurvey).Methods("GET")
	r.HandleFunc("/api/surveys/{id}", DeleteSurvey).Methods("DELETE")
	r.HandleFunc("/api/surveys/{id}/responses", SubmitResponse).Methods("POST")
	r.HandleFunc("/api/responses", ListMyResponses).Methods("GET")
	r.HandleFunc("/api/responses/{id}", GetResponseDetail).Methods("GET")
	return r
}

func asUser(req *http.Request, userID uuid.UUID) *http.Request {
	return req.WithContext(auth.WithUser(req.Context(), userID))
}

func decodeError(t *testing.T, body *bytes.Buffer) httpx.Error {
	t.Helper()
	var apiErr httpx.Error
	require.NoError(t, json.Unmarshal(body.Bytes(), &apiErr))
	return apiErr
}

func createUser(t *testing.T, testDB *gorm.DB, email string) *models.User {
	t.Helper()
	user := &models.User{Email: email, Name: "Test User"}
	require.NoError(t, testDB.Create(user).Error)
	return user
}

func createSurvey(t *testing.T, testDB *gorm.DB) *models.Survey {
	t.Helper()
	survey := &models.Survey{
		Title: "Customer Satisfaction Survey",
		Questions: []models.Question{
			{
				Title:    "How satisfied are you?",
				Type:     models.QuestionSelect,
				Required: true,
				Order:    1,
				Options: []models.QuestionOption{
					{Label: "Very Satisfied", Value: "very_satisfied", Order: 1},
					{Label: "Neutral", Value: "neutral", Order: 2},
				},
			},
			{Title: "Anything to add?", Type: models.QuestionTextarea, Order: 2},
		},
	}
	require.NoError(t, testDB.Create(survey).Error)
	return survey
}

func TestRegisterHandler(t *testing.T) {
	setupTestDB(t)
	router := testRouter()

	payload := func() *bytes.Buffer {
		body, _ := json.Marshal(map[string]string{
			"name":     "New User",
			"email":    "new@example.com",
			"password": "secret123",
		})
		return bytes.NewBuffer(body)
	}

	req, _ := http.NewRequest("POST", "/register", payload())
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusCreated, rr.Code)
	var created models.User
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &created))
	assert.Equal(t, "new@example.com", created.Email)

	t.Run("DuplicateEmailConflicts", func(t *testing.T) {
		req, _ := http.NewRequest("POST", "/register", payload())
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusConflict, rr.Code)
		assert.Equal(t, httpx.CodeConflict, decodeError(t, rr.Body).Code)
	})

	t.Run("ShortPasswordRejected", func(t *testing.T) {
		body, _ := json.Marshal(map[string]string{
			"name":     "Short",
			"email":    "short@example.com",
			"password": "abc",
		})
		req, _ := http.NewRequest("POST", "/register", bytes.NewBuffer(body))
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusBadRequest, rr.Code)
		assert.Equal(t, httpx.CodeValidationFailed, decodeError(t, rr.Body).Code)
	})
}

func TestGetSurveyHandler(t *testing.T) {
	testDB := setupTestDB(t)
	router := testRouter()
	survey := createSurvey(t, testDB)

	req, _ := http.NewRequest("GET", fmt.Sprintf("/api/surveys/%s", survey.ID), nil)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	var got models.Survey
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &got))
	assert.Equal(t, survey.ID, got.ID)
	require.Len(t, got.Questions, 2)
	assert.Len(t, got.Questions[0].Options, 2)

	t.Run("UnknownSurveyIsNotFound", func(t *testing.T) {
		req, _ := http.NewRequest("GET", fmt.Sprintf("/api/surveys/%s", uuid.New()), nil)
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusNotFound, rr.Code)
		assert.Equal(t, httpx.CodeNotFound, decodeError(t, rr.Body).Code)
	})
}

func TestCreateSurveyHandler(t *testing.T) {
	setupTestDB(t)
	router := testRouter()

	input := service.CreateSurveyInput{
		Title:       "Feedback",
		Description: "Quick feedback form",
	}
	body, _ := json.Marshal(input)
	req, _ := http.NewRequest("POST", "/api/surveys", bytes.NewBuffer(body))
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, asUser(req, uuid.New()))

	assert.Equal(t, http.StatusCreated, rr.Code)
	var created models.Survey
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &created))
	assert.NotEqual(t, uuid.Nil, created.ID)
	assert.Equal(t, "Feedback", created.Title)

	t.Run("BadQuestionTypeRejected", func(t *testing.T) {
		raw := `{"title":"Bad","questions":[{"title":"q","type":"checkbox","order":1}]}`
		req, _ := http.NewRequest("POST", "/api/surveys", bytes.NewBufferString(raw))
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, asUser(req, uuid.New()))

		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})
}

func TestSubmitResponseHandler(t *testing.T) {
	testDB := setupTestDB(t)
	router := testRouter()
	user := createUser(t, testDB, "respondent@example.com")
	survey := createSurvey(t, testDB)

	payload := map[string]any{
		"answers": []map[string]string{
			{"questionId": survey.Questions[0].ID.String(), "value": "very_satisfied"},
		},
	}
	body, _ := json.Marshal(payload)
	req, _ := http.NewRequest("POST", fmt.Sprintf("/api/surveys/%s/responses", survey.ID), bytes.NewBuffer(body))
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, asUser(req, user.ID))

	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
	var created struct {
		ID        uuid.UUID `json:"id"`
		CreatedAt time.Time `json:"createdAt"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &created))
	assert.NotEqual(t, uuid.Nil, created.ID)
	assert.False(t, created.CreatedAt.IsZero())

	t.Run("MissingRequiredRejected", func(t *testing.T) {
		body, _ := json.Marshal(map[string]any{"answers": []map[string]string{}})
		req, _ := http.NewRequest("POST", fmt.Sprintf("/api/surveys/%s/responses", survey.ID), bytes.NewBuffer(body))
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, asUser(req, user.ID))

		assert.Equal(t, http.StatusBadRequest, rr.Code)
		assert.Equal(t, httpx.CodeValidationFailed, decodeError(t, rr.Body).Code)
	})

	t.Run("UnknownSurveyIsNotFound", func(t *testing.T) {
		body, _ := json.Marshal(payload)
		req, _ := http.NewRequest("POST", fmt.Sprintf("/api/surveys/%s/responses", uuid.New()), bytes.NewBuffer(body))
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, asUser(req, user.ID))

		assert.Equal(t, http.StatusNotFound, rr.Code)
	})
}

func TestResponseHistoryHandlers(t *testing.T) {
	testDB := setupTestDB(t)
	router := testRouter()
	owner := createUser(t, testDB, "owner@example.com")
	stranger := createUser(t, testDB, "stranger@example.com")
	survey := createSurvey(t, testDB)

	response, err := service.SubmitResponse(testDB, owner.ID, survey.ID, []service.AnswerInput{
		{QuestionID: survey.Questions[0].ID, Value: "very_satisfied"},
	})
	require.NoError(t, err)

	t.Run("ListMyResponses", func(t *testing.T) {
		req, _ := http.NewRequest("GET", "/api/responses", nil)
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, asUser(req, owner.ID))

		require.Equal(t, http.StatusOK, rr.Code)
		var summaries []struct {
			ID          uuid.UUID     `json:"id"`
			Survey      models.Survey `json:"survey"`
			AnswerCount int           `json:"answerCount"`
		}
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &summaries))
		require.Len(t, summaries, 1)
		assert.Equal(t, response.ID, summaries[0].ID)
		assert.Equal(t, survey.Title, summaries[0].Survey.Title)
		assert.Equal(t, 1, summaries[0].AnswerCount)
	})

	t.Run("DetailResolvesOptionLabel", func(t *testing.T) {
		req, _ := http.NewRequest("GET", fmt.Sprintf("/api/responses/%s", response.ID), nil)
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, asUser(req, owner.ID))

		require.Equal(t, http.StatusOK, rr.Code)
		var detail struct {
			Answers []struct {
				Value        string `json:"value"`
				DisplayValue string `json:"displayValue"`
			} `json:"answers"`
		}
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &detail))
		require.Len(t, detail.Answers, 1)
		assert.Equal(t, "very_satisfied", detail.Answers[0].Value)
		assert.Equal(t, "Very Satisfied", detail.Answers[0].DisplayValue)
	})

	t.Run("StrangerIsForbidden", func(t *testing.T) {
		req, _ := http.NewRequest("GET", fmt.Sprintf("/api/responses/%s", response.ID), nil)
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, asUser(req, stranger.ID))

		assert.Equal(t, http.StatusForbidden, rr.Code)
		assert.Equal(t, httpx.CodeForbidden, decodeError(t, rr.Body).Code)
	})
}

func TestDeleteSurveyHandler(t *testing.T) {
	testDB := setupTestDB(t)
	router := testRouter()
	survey := createSurvey(t, testDB)

	req, _ := http.NewRequest("DELETE", fmt.Sprintf("/api/surveys/%s", survey.ID), nil)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, asUser(req, uuid.New()))

	assert.Equal(t, http.StatusNoContent, rr.Code)

	var gone models.Survey
	err := testDB.First(&gone, "id = ?", survey.ID).Error
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}
