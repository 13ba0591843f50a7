package middleware

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/mmuslimabdulj/roomchat/internal/domain"
)

// Identifier resolves the user behind a request
type Identifier interface {
	Identify(r *http.Request) (*domain.User, error)
}

// RequireUser protects page routes: anonymous requests are redirected to /login
func RequireUser(id Identifier) func(http.HandlerFunc) http.HandlerFunc {
	return func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			user, err := id.Identify(r)
			if err != nil {
				LoggerFrom(r.Context()).Debug("anonymous page request", "path", r.URL.Path, "error", err)
				http.Redirect(w, r, "/login", http.StatusSeeOther)
				return
			}
			next(w, r.WithContext(WithUser(r.Context(), user)))
		}
	}
}

// RequireAPIUser protects JSON routes: anonymous requests get a 401
func RequireAPIUser(id Identifier) func(http.HandlerFunc) http.HandlerFunc {
	return func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			user, err := id.Identify(r)
			if err != nil {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusUnauthorized)
				_ = json.NewEncoder(w).Encode(map[string]string{"error": "unauthenticated"})
				return
			}
			next(w, r.WithContext(WithUser(r.Context(), user)))
		}
	}
}

// WithUser stores the authenticated user on ctx
func WithUser(ctx context.Context, user *domain.User) context.Context {
	return context.WithValue(ctx, userKey, user)
}

// UserFrom returns the user stored by RequireUser, if any
func UserFrom(ctx context.Context) (*domain.User, bool) {
	user, ok := ctx.Value(userKey).(*domain.User)
	return user, ok && user != nil
}
