package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/formpulse/formpulse/db"
	"github.com/formpulse/formpulse/httpx"
	"github.com/formpulse/formpulse/service"
	"github.com/google/uuid"
	"github.com/gorilla/mux"
)

func ListSurveys(w http.ResponseWriter, r *http.Request) {
	surveys, err := service.ListSurveys(db.GetDB())
	if err != nil {
		httpx.WriteError(w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, surveys)
}

func GetSurvey(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		httpx.WriteError(w, err)
		return
	}
	survey, err := service.GetSurvey(db.GetDB(), id)
	if err != nil {
		httpx.WriteError(w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, survey)
}

func CreateSurvey(w http.ResponseWriter, r *http.Request) {
	var input service.CreateSurveyInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		httpx.WriteError(w, httpx.Errorf(httpx.CodeValidationFailed, "invalid request body"))
		return
	}
	survey, err := service.CreateSurvey(db.GetDB(), input)
	if err != nil {
		httpx.WriteError(w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusCreated, survey)
}

func DeleteSurvey(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		httpx.WriteError(w, err)
		return
	}
	if err := service.DeleteSurvey(db.GetDB(), id); err != nil {
		httpx.WriteError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func pathID(r *http.Request, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(mux.Vars(r)[name])
	if err != nil {
		return uuid.Nil, httpx.Errorf(httpx.CodeValidationFailed, "invalid %s", name)
	}
	return id, nil
}
