// Package maintenance controls the store-wide maintenance gate.
package maintenance

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/shoppee/shoppee-backend/internal/auth"
	"github.com/shoppee/shoppee-backend/internal/redisx"
)

// Setting is the single persisted maintenance row. AllowAdmin keeps the
// admin surface reachable while customers are locked out.
type Setting struct {
	IsActive   bool      `json:"isActive"`
	Message    string    `json:"message"`
	AllowAdmin bool      `json:"allowAdmin"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

const defaultMessage = "We are currently performing maintenance. Please check back soon."

type Store struct {
	DB    *pgxpool.Pool
	Cache *redis.Client
}

// Get returns the current setting, preferring the short-lived cache so the
// per-request gate does not hit Postgres on every call.
func (s *Store) Get(ctx context.Context) (*Setting, error) {
	if s.Cache != nil {
		if raw, err := s.Cache.Get(ctx, redisx.KeyMaintenance).Result(); err == nil {
			var cached Setting
			if json.Unmarshal([]byte(raw), &cached) == nil {
				return &cached, nil
			}
		}
	}

	var st Setting
	err := s.DB.QueryRow(ctx, `
		SELECT is_active, message, allow_admin, updated_at
		FROM maintenance_settings WHERE id = 1
	`).Scan(&st.IsActive, &st.Message, &st.AllowAdmin, &st.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		st = Setting{Message: defaultMessage}
	} else if err != nil {
		return nil, err
	}

	if s.Cache != nil {
		if raw, err := json.Marshal(st); err == nil {
			s.Cache.Set(ctx, redisx.KeyMaintenance, raw, redisx.TTLMaintenance)
		}
	}
	return &st, nil
}

// Set upserts the single row and drops the cache so the change is visible
// within one gate read.
func (s *Store) Set(ctx context.Context, st Setting) (*Setting, error) {
	if st.Message == "" {
		st.Message = defaultMessage
	}
	err := s.DB.QueryRow(ctx, `
		INSERT INTO maintenance_settings (id, is_active, message, allow_admin, updated_at)
		VALUES (1, $1, $2, $3, now())
		ON CONFLICT (id) DO UPDATE SET
			is_active = EXCLUDED.is_active,
			message = EXCLUDED.message,
			allow_admin = EXCLUDED.allow_admin,
			updated_at = now()
		RETURNING updated_at
	`, st.IsActive, st.Message, st.AllowAdmin).Scan(&st.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if s.Cache != nil {
		s.Cache.Del(ctx, redisx.KeyMaintenance)
	}
	return &st, nil
}

// Reader is the view of the store the gate needs.
type Reader interface {
	Get(ctx context.Context) (*Setting, error)
}

// Gate returns 503 with the configured message while maintenance is active.
// Superadmins stay exempt when AllowAdmin is set. A failed read lets the
// request through so a flaky cache cannot take the store down.
func Gate(store Reader) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			st, err := store.Get(r.Context())
			if err != nil {
				log.Printf("maintenance: read failed, letting request through: %v", err)
				next.ServeHTTP(w, r)
				return
			}
			if !st.IsActive {
				next.ServeHTTP(w, r)
				return
			}
			if st.AllowAdmin {
				if id, ok := auth.FromContext(r.Context()); ok && id.IsAdmin && id.Role == "superadmin" {
					next.ServeHTTP(w, r)
					return
				}
			}
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusServiceUnavailable)
			json.NewEncoder(w).Encode(map[string]any{
				"maintenance": true,
				"message":     st.Message,
			})
		})
	}
}
