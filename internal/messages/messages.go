// Package messages is the customer support inbox: complaint messages
// from users, replies from admins.
package messages

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var (
	ErrNotFound       = errors.New("message not found")
	ErrAlreadyReplied = errors.New("a replied message can no longer be edited")
)

// DefaultSubject is applied when a customer submits a message without one.
const DefaultSubject = "Support Query"

type Message struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user"`
	Subject   string    `json:"subject"`
	Content   string    `json:"content"`
	IsRead    bool      `json:"isRead"`
	Replied   bool      `json:"replied"`
	Reply     string    `json:"reply,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Sender is the author summary attached to the admin inbox view.
type Sender struct {
	Name   string `json:"name"`
	Email  string `json:"email"`
	Avatar string `json:"avatar,omitempty"`
}

// InboxEntry is one admin-inbox row: the message plus its sender.
type InboxEntry struct {
	Message
	Sender Sender `json:"sender"`
}

// Store is the persistence surface the handlers need.
type Store interface {
	Create(ctx context.Context, m *Message) error
	ListByUser(ctx context.Context, userID string) ([]Message, error)
	ListAll(ctx context.Context) ([]InboxEntry, error)
	UpdateOwn(ctx context.Context, userID, id string, subject, content string) (*Message, error)
	MarkRead(ctx context.Context, id string) (*Message, error)
	Reply(ctx context.Context, id, reply string) (*Message, error)
	Delete(ctx context.Context, id string) error
	DeleteMany(ctx context.Context, ids []string) (int64, error)
}

type Repo struct {
	DB *pgxpool.Pool
}

const messageCols = `id, user_id, subject, content, is_read, replied, reply, created_at, updated_at`

func (r *Repo) Create(ctx context.Context, m *Message) error {
	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	if m.Subject == "" {
		m.Subject = DefaultSubject
	}
	now := time.Now().UTC()
	m.CreatedAt, m.UpdatedAt = now, now
	_, err := r.DB.Exec(ctx, `
		INSERT INTO messages(id, user_id, subject, content, is_read, replied, reply, created_at, updated_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)`,
		m.ID, m.UserID, m.Subject, m.Content, m.IsRead, m.Replied, m.Reply, m.CreatedAt, m.UpdatedAt)
	return err
}

func scanMessage(row pgx.Row) (*Message, error) {
	var m Message
	err := row.Scan(&m.ID, &m.UserID, &m.Subject, &m.Content, &m.IsRead, &m.Replied,
		&m.Reply, &m.CreatedAt, &m.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func (r *Repo) ListByUser(ctx context.Context, userID string) ([]Message, error) {
	rows, err := r.DB.Query(ctx, `
		SELECT `+messageCols+` FROM messages
		WHERE user_id=$1 ORDER BY created_at DESC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []Message{}
	for rows.Next() {
		m, err := scanMessage(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *m)
	}
	return out, rows.Err()
}

// ListAll is the admin inbox: every message, newest first, with the
// sender expanded.
func (r *Repo) ListAll(ctx context.Context) ([]InboxEntry, error) {
	rows, err := r.DB.Query(ctx, `
		SELECT m.id, m.user_id, m.subject, m.content, m.is_read, m.replied, m.reply,
		       m.created_at, m.updated_at, u.name, u.email, u.avatar
		FROM messages m
		JOIN users u ON u.id = m.user_id
		ORDER BY m.created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []InboxEntry{}
	for rows.Next() {
		var e InboxEntry
		if err := rows.Scan(&e.ID, &e.UserID, &e.Subject, &e.Content, &e.IsRead, &e.Replied,
			&e.Reply, &e.CreatedAt, &e.UpdatedAt,
			&e.Sender.Name, &e.Sender.Email, &e.Sender.Avatar); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

// UpdateOwn edits a user's own message. A message the support team has
// already replied to is frozen.
func (r *Repo) UpdateOwn(ctx context.Context, userID, id string, subject, content string) (*Message, error) {
	m, err := scanMessage(r.DB.QueryRow(ctx, `
		SELECT `+messageCols+` FROM messages WHERE id=$1 AND user_id=$2`, id, userID))
	if err != nil {
		return nil, err
	}
	if m.Replied {
		return nil, ErrAlreadyReplied
	}
	if subject != "" {
		m.Subject = subject
	}
	if content != "" {
		m.Content = content
	}
	m.UpdatedAt = time.Now().UTC()
	_, err = r.DB.Exec(ctx, `
		UPDATE messages SET subject=$2, content=$3, updated_at=$4 WHERE id=$1`,
		m.ID, m.Subject, m.Content, m.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return m, nil
}

func (r *Repo) MarkRead(ctx context.Context, id string) (*Message, error) {
	return scanMessage(r.DB.QueryRow(ctx, `
		UPDATE messages SET is_read=true, updated_at=now()
		WHERE id=$1
		RETURNING `+messageCols, id))
}

func (r *Repo) Reply(ctx context.Context, id, reply string) (*Message, error) {
	return scanMessage(r.DB.QueryRow(ctx, `
		UPDATE messages SET reply=$2, replied=true, is_read=true, updated_at=now()
		WHERE id=$1
		RETURNING `+messageCols, id, reply))
}

func (r *Repo) Delete(ctx context.Context, id string) error {
	ct, err := r.DB.Exec(ctx, `DELETE FROM messages WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *Repo) DeleteMany(ctx context.Context, ids []string) (int64, error) {
	ct, err := r.DB.Exec(ctx, `DELETE FROM messages WHERE id = ANY($1)`, ids)
	if err != nil {
		return 0, err
	}
	return ct.RowsAffected(), nil
}
