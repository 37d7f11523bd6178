package handlers

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/formpulse/formpulse/auth"
	"github.com/formpulse/formpulse/config"
	"github.com/formpulse/formpulse/db"
	"github.com/formpulse/formpulse/httpx"
)

func RegisterHandler(w http.ResponseWriter, r *http.Request) {
	var input struct {
		Name     string `json:"name"`
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		httpx.WriteError(w, httpx.Errorf(httpx.CodeValidationFailed, "invalid request body"))
		return
	}
	if input.Email == "" {
		httpx.WriteError(w, httpx.Errorf(httpx.CodeValidationFailed, "email is required"))
		return
	}
	if len(input.Name) < 2 {
		httpx.WriteError(w, httpx.Errorf(httpx.CodeValidationFailed, "name must be at least 2 characters"))
		return
	}
	if len(input.Password) < 6 {
		httpx.WriteError(w, httpx.Errorf(httpx.CodeValidationFailed, "password must be at least 6 characters"))
		return
	}

	user, err := auth.CreateUser(db.GetDB(), input.Email, input.Name, input.Password)
	if err != nil {
		httpx.WriteError(w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusCreated, user)
}

func LoginHandler(w http.ResponseWriter, r *http.Request) {
	var credentials struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&credentials); err != nil {
		httpx.WriteError(w, httpx.Errorf(httpx.CodeValidationFailed, "invalid request body"))
		return
	}

	user, err := auth.Authenticate(db.GetDB(), credentials.Email, credentials.Password)
	if err != nil {
		httpx.WriteError(w, err)
		return
	}

	if err := auth.SignIn(w, r, user.ID); err != nil {
		httpx.WriteError(w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, user)
}

func LogoutHandler(w http.ResponseWriter, r *http.Request) {
	if err := auth.SignOut(w, r); err != nil {
		httpx.WriteError(w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, map[string]string{"message": "logged out"})
}

func MeHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserID(r.Context())
	if !ok {
		httpx.WriteError(w, httpx.Errorf(httpx.CodeUnauthorized, "authentication required"))
		return
	}
	user, err := auth.GetUser(db.GetDB(), userID)
	if err != nil {
		httpx.WriteError(w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, user)
}

// GoogleLoginHandler starts the OAuth dance.
func GoogleLoginHandler(cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if cfg.GoogleOauth.ClientID == "" || cfg.GoogleOauth.ClientSecret == "" {
			log.Println("Google OAuth ClientID or ClientSecret is empty")
			httpx.WriteError(w, httpx.Errorf(httpx.CodeInternal, "OAuth is not configured"))
			return
		}
		state := config.GenerateStateOauthCookie(w)
		http.Redirect(w, r, cfg.GoogleOauth.AuthCodeURL(state), http.StatusTemporaryRedirect)
	}
}

func GoogleCallbackHandler(cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := config.VerifyStateOauthCookie(r); err != nil {
			httpx.WriteError(w, httpx.Errorf(httpx.CodeUnauthorized, "invalid oauth state"))
			return
		}

		token, err := cfg.GoogleOauth.Exchange(r.Context(), r.FormValue("code"))
		if err != nil {
			httpx.WriteError(w, httpx.Errorf(httpx.CodeUnauthorized, "failed to exchange token"))
			return
		}

		info, err := auth.GetGoogleUserInfo(token.AccessToken)
		if err != nil {
			httpx.WriteError(w, err)
			return
		}

		user, err := auth.UpsertGoogleUser(db.GetDB(), info)
		if err != nil {
			httpx.WriteError(w, err)
			return
		}

		if err := auth.SignIn(w, r, user.ID); err != nil {
			httpx.WriteError(w, err)
			return
		}
		http.Redirect(w, r, cfg.FrontendURL+"/dashboard", http.StatusSeeOther)
	}
}
