package auth

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/wonny/alphaweek/backend/pkg/logger"
)

// HeaderUserID carries the caller's user id.
// A trusted edge proxy terminates real authentication and forwards the
// resolved id; this layer only validates and resolves it.
const HeaderUserID = "X-User-Id"

// UserVerifier checks that a user id resolves to a known user
type UserVerifier interface {
	UserExists(ctx context.Context, userID int64) (bool, error)
}

type contextKey int

const userIDKey contextKey = iota

// UserID extracts the authenticated user id from a request context
func UserID(ctx context.Context) (int64, bool) {
	id, ok := ctx.Value(userIDKey).(int64)
	return id, ok
}

// WithUserID returns a context carrying the given user id.
// Exposed for handler tests.
func WithUserID(ctx context.Context, userID int64) context.Context {
	return context.WithValue(ctx, userIDKey, userID)
}

// Middleware authenticates requests via the user id header
// ⭐ SSOT: request identity resolution lives here and only here
//
// Missing, malformed, or unknown ids are rejected with 401 before the
// handler runs. The response never distinguishes the three cases.
func Middleware(verifier UserVerifier, log *logger.Logger) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw := r.Header.Get(HeaderUserID)
			if raw == "" {
				unauthorized(w)
				return
			}

			userID, err := strconv.ParseInt(raw, 10, 64)
			if err != nil || userID <= 0 {
				log.WithField("header", raw).Debug("Malformed user id header")
				unauthorized(w)
				return
			}

			exists, err := verifier.UserExists(r.Context(), userID)
			if err != nil {
				log.WithError(err).Error("User lookup failed")
				http.Error(w, `{"error":"Internal server error"}`, http.StatusInternalServerError)
				return
			}
			if !exists {
				unauthorized(w)
				return
			}

			next.ServeHTTP(w, r.WithContext(WithUserID(r.Context(), userID)))
		})
	}
}

func unauthorized(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	w.Write([]byte(`{"error":"Unauthorized"}`))
}
