package sessions

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Repo struct {
	DB *pgxpool.Pool
}

// Upsert records a login device. A repeat login from the same (user, agent)
// pair refreshes last_seen_at and the network details instead of adding a row.
func (r *Repo) Upsert(ctx context.Context, s *Session) error {
	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	return r.DB.QueryRow(ctx, `
		INSERT INTO user_sessions
			(id, user_id, user_agent, browser, os, device, ip, city, country, last_seen_at, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, now(), now())
		ON CONFLICT (user_id, user_agent) DO UPDATE SET
			ip = EXCLUDED.ip,
			city = EXCLUDED.city,
			country = EXCLUDED.country,
			last_seen_at = now()
		RETURNING id, last_seen_at, created_at
	`, s.ID, s.UserID, s.UserAgent, s.Browser, s.OS, s.Device, s.IP, s.City, s.Country).
		Scan(&s.ID, &s.LastSeenAt, &s.CreatedAt)
}

// RecentDevices lists a user's known devices, most recently seen first.
func (r *Repo) RecentDevices(ctx context.Context, userID string, limit int) ([]Session, error) {
	if limit <= 0 {
		limit = 10
	}
	rows, err := r.DB.Query(ctx, `
		SELECT id, user_id, user_agent, browser, os, device, ip, city, country, last_seen_at, created_at
		FROM user_sessions
		WHERE user_id = $1
		ORDER BY last_seen_at DESC
		LIMIT $2
	`, userID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Session
	for rows.Next() {
		var s Session
		if err := rows.Scan(&s.ID, &s.UserID, &s.UserAgent, &s.Browser, &s.OS, &s.Device,
			&s.IP, &s.City, &s.Country, &s.LastSeenAt, &s.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// InsertVisit appends one visitor-log row. Hourly dedup happens in the
// middleware before this is called.
func (r *Repo) InsertVisit(ctx context.Context, userID string) error {
	_, err := r.DB.Exec(ctx, `
		INSERT INTO visitor_logs (id, user_id, visited_at)
		VALUES ($1, $2, now())
	`, uuid.NewString(), userID)
	return err
}
