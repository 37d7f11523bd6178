package auth

import (
	"net/http"

	"github.com/antonlindstrom/pgstore"
	"github.com/gorilla/sessions"
)

const (
	SessionName = "formpulse-session"

	// Sessions live for 30 days; the middleware re-saves the cookie on
	// every authenticated request, making the window sliding.
	sessionMaxAge = 30 * 24 * 60 * 60
)

var Store *pgstore.PGStore

// InitStore opens the Postgres-backed session store.
func InitStore(databaseURL, sessionKey string) error {
	store, err := pgstore.NewPGStore(databaseURL, []byte(sessionKey))
	if err != nil {
		return err
	}
	store.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   sessionMaxAge,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}
	Store = store
	return nil
}
