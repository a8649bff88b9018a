// Package sessions records login devices and per-hour visitor activity
// that the analytics dashboards aggregate.
package sessions

import "time"

// Session is one known device for a user, keyed by (user, user agent).
// Repeated logins from the same device refresh LastSeenAt.
type Session struct {
	ID         string    `json:"id"`
	UserID     string    `json:"userId"`
	UserAgent  string    `json:"-"`
	Browser    string    `json:"browser"`
	OS         string    `json:"os"`
	Device     string    `json:"device"`
	IP         string    `json:"ip"`
	City       string    `json:"city"`
	Country    string    `json:"country"`
	LastSeenAt time.Time `json:"lastSeenAt"`
	CreatedAt  time.Time `json:"createdAt"`
}

// VisitorLog is one deduplicated visit bucket: at most one row per user
// per hour.
type VisitorLog struct {
	ID        string
	UserID    string
	VisitedAt time.Time
}

// Location is a resolved IP geolocation. Zero values mean unresolved.
type Location struct {
	City    string
	Country string
}
