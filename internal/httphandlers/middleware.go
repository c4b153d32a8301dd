package httphandlers

import (
	"context"
	"crypto/subtle"
	"net/http"
	"strings"

	"github.com/pkg/errors"

	"mongovault/internal/auth"
)

type contextKey string

const userContextKey contextKey = "mongovault.user"

// RequireUser resolves the bearer token through the auth collaborator and
// stores the user on the request context.
func RequireUser(verifier auth.TokenVerifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			token := strings.TrimPrefix(header, "Bearer ")
			if token == "" || token == header {
				unauthorized(w, errors.New("missing bearer token"))
				return
			}

			user, err := verifier.ResolveUser(r.Context(), token)
			if err != nil {
				serverError(w, err)
				return
			}
			if user == nil {
				unauthorized(w, errors.New("invalid token"))
				return
			}

			ctx := context.WithValue(r.Context(), userContextKey, user)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireCronSecret guards the trigger endpoint with the shared secret the
// external timer carries.
func RequireCronSecret(secret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			provided := r.Header.Get("X-Cron-Secret")
			if secret == "" || subtle.ConstantTimeCompare([]byte(provided), []byte(secret)) != 1 {
				unauthorized(w, errors.New("invalid cron secret"))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func userFrom(r *http.Request) *auth.User {
	user, _ := r.Context().Value(userContextKey).(*auth.User)
	return user
}
