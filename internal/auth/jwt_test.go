package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func TestIssueAndParseUser(t *testing.T) {
	tokens := &Tokens{Secret: "test-secret", Now: fixedClock(time.Now())}

	raw, err := tokens.IssueUser("user-1", "customer")
	require.NoError(t, err)

	claims, err := tokens.Parse(raw)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.UserID)
	assert.Empty(t, claims.AdminID)
	assert.Equal(t, "customer", claims.Role)
}

func TestParseRejectsWrongSecret(t *testing.T) {
	issuer := &Tokens{Secret: "secret-a"}
	verifier := &Tokens{Secret: "secret-b"}

	raw, err := issuer.IssueUser("user-1", "customer")
	require.NoError(t, err)

	_, err = verifier.Parse(raw)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestParseRejectsExpiredToken(t *testing.T) {
	issued := time.Now().Add(-8 * 24 * time.Hour)
	issuer := &Tokens{Secret: "test-secret", Now: fixedClock(issued)}
	verifier := &Tokens{Secret: "test-secret"}

	raw, err := issuer.IssueAdmin("admin-1", "superadmin")
	require.NoError(t, err)

	_, err = verifier.Parse(raw)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestAuthenticateMiddleware(t *testing.T) {
	tokens := &Tokens{Secret: "test-secret"}
	raw, err := tokens.IssueAdmin("admin-1", "superadmin")
	require.NoError(t, err)

	var got Identity
	handler := tokens.Authenticate(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got, _ = FromContext(r.Context())
	}))

	t.Run("valid cookie", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.AddCookie(&http.Cookie{Name: CookieName, Value: raw})
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, Identity{ID: "admin-1", Role: "superadmin", IsAdmin: true}, got)
	})

	t.Run("missing cookie", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("garbage token", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.AddCookie(&http.Cookie{Name: CookieName, Value: "not-a-jwt"})
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}

func TestRequireRole(t *testing.T) {
	ok := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {})

	t.Run("matching role passes", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req = req.WithContext(WithIdentity(req.Context(), Identity{ID: "u1", Role: "customer"}))
		rec := httptest.NewRecorder()
		RequireCustomer()(ok).ServeHTTP(rec, req)
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("wrong role is forbidden", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req = req.WithContext(WithIdentity(req.Context(), Identity{ID: "a1", Role: "product-manager", IsAdmin: true}))
		rec := httptest.NewRecorder()
		RequireSuperAdmin()(ok).ServeHTTP(rec, req)
		assert.Equal(t, http.StatusForbidden, rec.Code)
	})

	t.Run("no identity is unauthorized", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		rec := httptest.NewRecorder()
		RequireCustomer()(ok).ServeHTTP(rec, req)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}
