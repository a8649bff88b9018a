package sessions

import (
	"context"
	"fmt"
	"log"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/mileusna/useragent"
	"github.com/redis/go-redis/v9"

	"github.com/shoppee/shoppee-backend/internal/auth"
	"github.com/shoppee/shoppee-backend/internal/redisx"
)

// SessionStore is the persistence surface the service needs.
type SessionStore interface {
	Upsert(ctx context.Context, s *Session) error
	RecentDevices(ctx context.Context, userID string, limit int) ([]Session, error)
	InsertVisit(ctx context.Context, userID string) error
}

type Service struct {
	Store SessionStore
	Geo   Geolocator
	Cache *redis.Client
}

// ClientIP extracts the originating address, preferring the first
// X-Forwarded-For hop set by the reverse proxy.
func ClientIP(r *http.Request) string {
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		parts := strings.Split(fwd, ",")
		return strings.TrimSpace(parts[0])
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

// RecordLogin captures the device a user signed in from. Geolocation
// failures are logged and ignored.
func (s *Service) RecordLogin(ctx context.Context, userID, rawUA, ip string) (*Session, error) {
	ua := useragent.Parse(rawUA)
	device := "Desktop"
	switch {
	case ua.Mobile:
		device = "Mobile"
	case ua.Tablet:
		device = "Tablet"
	case ua.Bot:
		device = "Bot"
	}

	sess := &Session{
		UserID:    userID,
		UserAgent: rawUA,
		Browser:   strings.TrimSpace(ua.Name + " " + ua.Version),
		OS:        strings.TrimSpace(ua.OS + " " + ua.OSVersion),
		Device:    device,
		IP:        ip,
	}
	if s.Geo != nil {
		if loc, err := s.Geo.Locate(ctx, ip); err != nil {
			log.Printf("sessions: geolocate %s failed: %v", ip, err)
		} else {
			sess.City = loc.City
			sess.Country = loc.Country
		}
	}
	if err := s.Store.Upsert(ctx, sess); err != nil {
		return nil, err
	}
	return sess, nil
}

func (s *Service) RecentDevices(ctx context.Context, userID string) ([]Session, error) {
	return s.Store.RecentDevices(ctx, userID, 10)
}

// LogVisit records at most one visit per user per hour. The Redis SETNX
// guard carries the dedup; when Redis is unavailable the visit is still
// written so analytics over-count instead of silently losing traffic.
func (s *Service) LogVisit(ctx context.Context, userID string, now time.Time) error {
	if s.Cache != nil {
		key := fmt.Sprintf(redisx.KeyVisitorHour, userID, now.UTC().Format("2006-01-02T15"))
		fresh, err := s.Cache.SetNX(ctx, key, 1, redisx.TTLVisitorHour).Result()
		if err == nil && !fresh {
			return nil
		}
		if err != nil {
			log.Printf("sessions: visit dedup unavailable: %v", err)
		}
	}
	return s.Store.InsertVisit(ctx, userID)
}

// TrackVisits is request middleware that logs authenticated customer
// traffic. It never fails the request.
func (s *Service) TrackVisits(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if id, ok := auth.FromContext(r.Context()); ok && !id.IsAdmin {
			if err := s.LogVisit(r.Context(), id.ID, time.Now()); err != nil {
				log.Printf("sessions: visit log failed for %s: %v", id.ID, err)
			}
		}
		next.ServeHTTP(w, r)
	})
}
