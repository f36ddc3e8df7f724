package middleware

import (
	"context"
	"log"
	"net/http"

	"fleet-backend/internal/auth"
	"fleet-backend/pkg/utils"
)

type contextKey string

const UserContextKey contextKey = "user"

// Auth resolves the caller from the session cookie. It authenticates only;
// each route decides which roles it accepts. A session past half its lifetime
// is re-issued so active users are not logged out mid-shift.
func Auth(codec *auth.SessionCodec) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			identity, raw, ok := codec.FromRequest(r)
			if !ok {
				log.Printf("❌ No valid session: %s %s", r.Method, r.URL.Path)
				utils.RespondError(w, http.StatusUnauthorized, "Unauthorized")
				return
			}

			if codec.NeedsRefresh(raw) {
				if cookie, err := codec.Cookie(identity); err == nil {
					http.SetCookie(w, cookie)
				} else {
					log.Printf("⚠️  Failed to refresh session for %s: %v", identity.Email, err)
				}
			}

			ctx := context.WithValue(r.Context(), UserContextKey, identity)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireRole rejects callers whose role is not listed (must be used after Auth)
func RequireRole(roles ...auth.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			identity, ok := GetUserFromContext(r)
			if !ok {
				log.Println("❌ User not found in context")
				utils.RespondError(w, http.StatusUnauthorized, "Unauthorized")
				return
			}

			for _, role := range roles {
				if identity.Role == role {
					next.ServeHTTP(w, r)
					return
				}
			}

			log.Printf("❌ Insufficient permissions: required %v, got %s", roles, identity.Role)
			utils.RespondError(w, http.StatusForbidden, "Forbidden")
		})
	}
}

// GetUserFromContext extracts the caller placed there by Auth
func GetUserFromContext(r *http.Request) (auth.Identity, bool) {
	identity, ok := r.Context().Value(UserContextKey).(auth.Identity)
	return identity, ok
}

// WithUser is used by tests and by handlers that build sub-requests.
func WithUser(ctx context.Context, identity auth.Identity) context.Context {
	return context.WithValue(ctx, UserContextKey, identity)
}
