package sessions

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memSessions struct {
	mu       sync.Mutex
	sessions map[string]*Session // keyed by user_id + "|" + user_agent
	visits   []string
}

func newMemSessions() *memSessions {
	return &memSessions{sessions: make(map[string]*Session)}
}

func (m *memSessions) Upsert(ctx context.Context, s *Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	key := s.UserID + "|" + s.UserAgent
	if existing, ok := m.sessions[key]; ok {
		existing.IP = s.IP
		existing.City = s.City
		existing.Country = s.Country
		existing.LastSeenAt = time.Now()
		*s = *existing
		return nil
	}
	s.ID = key
	s.CreatedAt = time.Now()
	s.LastSeenAt = s.CreatedAt
	cp := *s
	m.sessions[key] = &cp
	return nil
}

func (m *memSessions) RecentDevices(ctx context.Context, userID string, limit int) ([]Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []Session
	for _, s := range m.sessions {
		if s.UserID == userID {
			out = append(out, *s)
		}
	}
	return out, nil
}

func (m *memSessions) InsertVisit(ctx context.Context, userID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.visits = append(m.visits, userID)
	return nil
}

type fixedGeo struct{ loc Location }

func (f fixedGeo) Locate(ctx context.Context, ip string) (Location, error) {
	return f.loc, nil
}

const chromeLinuxUA = "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0.0.0 Safari/537.36"
const iphoneUA = "Mozilla/5.0 (iPhone; CPU iPhone OS 17_0 like Mac OS X) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/17.0 Mobile/15E148 Safari/604.1"

func TestRecordLoginParsesAgentAndLocation(t *testing.T) {
	store := newMemSessions()
	svc := &Service{Store: store, Geo: fixedGeo{Location{City: "Mumbai", Country: "India"}}}

	sess, err := svc.RecordLogin(context.Background(), "u1", chromeLinuxUA, "203.0.113.9")
	require.NoError(t, err)
	assert.Contains(t, sess.Browser, "Chrome")
	assert.Contains(t, sess.OS, "Linux")
	assert.Equal(t, "Desktop", sess.Device)
	assert.Equal(t, "Mumbai", sess.City)
	assert.Equal(t, "India", sess.Country)
}

func TestRecordLoginMobileDevice(t *testing.T) {
	svc := &Service{Store: newMemSessions()}

	sess, err := svc.RecordLogin(context.Background(), "u1", iphoneUA, "")
	require.NoError(t, err)
	assert.Equal(t, "Mobile", sess.Device)
}

func TestRecordLoginDedupesByAgent(t *testing.T) {
	store := newMemSessions()
	svc := &Service{Store: store}

	_, err := svc.RecordLogin(context.Background(), "u1", chromeLinuxUA, "10.0.0.1")
	require.NoError(t, err)
	_, err = svc.RecordLogin(context.Background(), "u1", chromeLinuxUA, "10.0.0.2")
	require.NoError(t, err)
	_, err = svc.RecordLogin(context.Background(), "u1", iphoneUA, "10.0.0.3")
	require.NoError(t, err)

	devices, err := svc.RecentDevices(context.Background(), "u1")
	require.NoError(t, err)
	assert.Len(t, devices, 2)
}

func TestLogVisitWithoutCacheStillWrites(t *testing.T) {
	store := newMemSessions()
	svc := &Service{Store: store}

	require.NoError(t, svc.LogVisit(context.Background(), "u1", time.Now()))
	assert.Equal(t, []string{"u1"}, store.visits)
}

func TestClientIPPrefersForwardedFor(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "10.0.0.5:4321"
	assert.Equal(t, "10.0.0.5", ClientIP(req))

	req.Header.Set("X-Forwarded-For", "203.0.113.7, 10.0.0.1")
	assert.Equal(t, "203.0.113.7", ClientIP(req))
}
