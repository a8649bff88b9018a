package auth

import (
	"context"
	"encoding/json"
	"net/http"
)

// Identity is the authenticated principal attached to the request context.
type Identity struct {
	ID      string
	Role    string
	IsAdmin bool
}

type ctxKey struct{}

func FromContext(ctx context.Context) (Identity, bool) {
	id, ok := ctx.Value(ctxKey{}).(Identity)
	return id, ok
}

// WithIdentity attaches an identity to the context. Exposed for handlers
// under test that bypass the Authenticate middleware.
func WithIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, ctxKey{}, id)
}

func deny(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"message": msg})
}

// Authenticate resolves the session cookie into an Identity. Requests
// without a valid token are rejected with 401.
func (t *Tokens) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		cookie, err := r.Cookie(CookieName)
		if err != nil || cookie.Value == "" {
			deny(w, http.StatusUnauthorized, "authentication required")
			return
		}
		claims, err := t.Parse(cookie.Value)
		if err != nil {
			deny(w, http.StatusUnauthorized, "invalid or expired session")
			return
		}
		id := Identity{Role: claims.Role}
		if claims.AdminID != "" {
			id.ID = claims.AdminID
			id.IsAdmin = true
		} else {
			id.ID = claims.UserID
		}
		next.ServeHTTP(w, r.WithContext(WithIdentity(r.Context(), id)))
	})
}

// RequireRole admits only identities carrying one of the given roles.
func RequireRole(roles ...string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id, ok := FromContext(r.Context())
			if !ok {
				deny(w, http.StatusUnauthorized, "authentication required")
				return
			}
			for _, role := range roles {
				if id.Role == role {
					next.ServeHTTP(w, r)
					return
				}
			}
			deny(w, http.StatusForbidden, "insufficient permissions")
		})
	}
}

func RequireCustomer() func(http.Handler) http.Handler {
	return RequireRole("customer")
}

func RequireSuperAdmin() func(http.Handler) http.Handler {
	return RequireRole("superadmin")
}
