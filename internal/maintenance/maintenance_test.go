package maintenance

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/shoppee/shoppee-backend/internal/auth"
)

type stubReader struct {
	setting *Setting
	err     error
}

func (s *stubReader) Get(ctx context.Context) (*Setting, error) {
	return s.setting, s.err
}

func serveGate(t *testing.T, reader Reader, id *auth.Identity) *httptest.ResponseRecorder {
	t.Helper()
	handler := Gate(reader)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if id != nil {
		req = req.WithContext(auth.WithIdentity(req.Context(), *id))
	}
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func TestGateInactivePasses(t *testing.T) {
	rec := serveGate(t, &stubReader{setting: &Setting{IsActive: false}}, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestGateActiveBlocks(t *testing.T) {
	rec := serveGate(t, &stubReader{setting: &Setting{IsActive: true, Message: "back soon"}}, nil)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Contains(t, rec.Body.String(), "back soon")
}

func TestGateSuperadminExemptWhenAllowed(t *testing.T) {
	reader := &stubReader{setting: &Setting{IsActive: true, AllowAdmin: true, Message: "down"}}
	admin := &auth.Identity{ID: "a1", Role: "superadmin", IsAdmin: true}
	assert.Equal(t, http.StatusOK, serveGate(t, reader, admin).Code)

	customer := &auth.Identity{ID: "u1", Role: "customer"}
	assert.Equal(t, http.StatusServiceUnavailable, serveGate(t, reader, customer).Code)
}

func TestGateSuperadminBlockedWhenNotAllowed(t *testing.T) {
	reader := &stubReader{setting: &Setting{IsActive: true, AllowAdmin: false}}
	admin := &auth.Identity{ID: "a1", Role: "superadmin", IsAdmin: true}
	assert.Equal(t, http.StatusServiceUnavailable, serveGate(t, reader, admin).Code)
}

func TestGateFailsOpenOnReadError(t *testing.T) {
	rec := serveGate(t, &stubReader{err: errors.New("redis down")}, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}
