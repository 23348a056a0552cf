package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/rmachado/fleet-manager/internal/auth"
	"github.com/rmachado/fleet-manager/internal/domain"
)

// Identity is the authenticated caller extracted from a bearer token.
type Identity struct {
	UserID   uuid.UUID
	Username string
	Role     domain.Role
}

// ctxKey is a private type so nothing outside this package can collide with
// the identity context key.
type ctxKey struct{}

// IdentityFrom returns the Identity stored by NewAuthenticator, if any.
func IdentityFrom(ctx context.Context) (Identity, bool) {
	id, ok := ctx.Value(ctxKey{}).(Identity)
	return id, ok
}

// NewAuthenticator returns a middleware that requires a valid
// "Authorization: Bearer <token>" header, verifies the JWT, and injects the
// caller's Identity into the request context.
//
// Missing or invalid credentials get 401 with a {"detail": ...} body, the
// shape login failures use, so clients handle both identically.
func NewAuthenticator(jwtSecret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			tokenString, ok := strings.CutPrefix(header, "Bearer ")
			if !ok || tokenString == "" {
				writeDetail(w, http.StatusUnauthorized, "authentication credentials were not provided")
				return
			}

			claims, userID, err := auth.ParseAccessToken(jwtSecret, tokenString)
			if err != nil {
				writeDetail(w, http.StatusUnauthorized, "token is invalid or expired")
				return
			}

			identity := Identity{UserID: userID, Username: claims.Username, Role: claims.Role}
			next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), ctxKey{}, identity)))
		})
	}
}

// RequireManager rejects authenticated callers whose role is not MANAGER.
// Wire it after NewAuthenticator on write routes; operators keep read access.
func RequireManager(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		identity, ok := IdentityFrom(r.Context())
		if !ok {
			writeDetail(w, http.StatusUnauthorized, "authentication credentials were not provided")
			return
		}
		if identity.Role != domain.RoleManager {
			writeDetail(w, http.StatusForbidden, "you do not have permission to perform this action")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// writeDetail writes the {"detail": ...} error body used for auth failures.
func writeDetail(w http.ResponseWriter, status int, detail string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"detail": detail})
}
