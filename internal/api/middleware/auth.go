package middleware

import (
	"context"
	"log"
	"net/http"
	"strings"

	"github.com/avolkov/ipod-store/internal/api/respond"
	"github.com/avolkov/ipod-store/internal/domain"
	"github.com/avolkov/ipod-store/internal/service"
)

type contextKey string

const userKey contextKey = "user"

// Authenticate resolves the bearer token to a live account and attaches
// it to the request context. The account is re-read from storage on
// every request, so deactivation and role changes apply immediately
// even to unexpired tokens.
func Authenticate(users *service.UserService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			if header == "" {
				respond.Error(w, domain.ErrMissingToken)
				return
			}

			parts := strings.SplitN(header, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
				respond.Error(w, domain.ErrMissingToken)
				return
			}

			user, err := users.ResolveToken(r.Context(), parts[1])
			if err != nil {
				log.Printf("ERROR [middleware.Authenticate] %v", err)
				respond.Error(w, err)
				return
			}

			ctx := context.WithValue(r.Context(), userKey, user)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireAdmin must run after Authenticate.
func RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, ok := CurrentUser(r.Context())
		if !ok || !user.IsAdmin() {
			respond.Error(w, domain.ErrForbidden)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func CurrentUser(ctx context.Context) (*domain.User, bool) {
	user, ok := ctx.Value(userKey).(*domain.User)
	return user, ok
}
