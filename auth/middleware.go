package auth

import (
	"context"
	"log"
	"net/http"

	"github.com/formpulse/formpulse/httpx"
	"github.com/google/uuid"
)

type contextKey int

const userIDKey contextKey = iota

// RequireAuth rejects unauthenticated requests and injects the caller's
// user ID into the request context. Handlers read it back with UserID
// and pass it explicitly into service calls.
func RequireAuth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		session, err := Store.Get(r, SessionName)
		if err != nil {
			httpx.WriteError(w, httpx.Errorf(httpx.CodeUnauthorized, "invalid session"))
			return
		}

		authenticated, _ := session.Values["authenticated"].(bool)
		rawID, _ := session.Values["user_id"].(string)
		if !authenticated || rawID == "" {
			httpx.WriteError(w, httpx.Errorf(httpx.CodeUnauthorized, "authentication required"))
			return
		}

		userID, err := uuid.Parse(rawID)
		if err != nil {
			httpx.WriteError(w, httpx.Errorf(httpx.CodeUnauthorized, "invalid session"))
			return
		}

		// Re-save to slide the 30-day expiry window.
		if err := session.Save(r, w); err != nil {
			log.Printf("failed to refresh session: %v", err)
		}

		next.ServeHTTP(w, r.WithContext(WithUser(r.Context(), userID)))
	}
}

// WithUser returns a context carrying the authenticated user's ID.
func WithUser(ctx context.Context, userID uuid.UUID) context.Context {
	return context.WithValue(ctx, userIDKey, userID)
}

// UserID returns the authenticated user's ID placed in the context by
// RequireAuth.
func UserID(ctx context.Context) (uuid.UUID, bool) {
	id, ok := ctx.Value(userIDKey).(uuid.UUID)
	return id, ok
}

// SignIn marks the session as authenticated for the given user.
func SignIn(w http.ResponseWriter, r *http.Request, userID uuid.UUID) error {
	session, err := Store.New(r, SessionName)
	if err != nil {
		return err
	}
	session.Values["authenticated"] = true
	session.Values["user_id"] = userID.String()
	return session.Save(r, w)
}

// SignOut clears the session.
func SignOut(w http.ResponseWriter, r *http.Request) error {
	session, err := Store.Get(r, SessionName)
	if err != nil {
		return err
	}
	session.Values = make(map[interface{}]interface{})
	session.Options.MaxAge = -1
	return session.Save(r, w)
}
