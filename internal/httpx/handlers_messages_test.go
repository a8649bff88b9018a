package httpx

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shoppee/shoppee-backend/internal/messages"
)

type memMessages struct {
	byID map[string]*messages.Message
	next int
}

func newMemMessages() *memMessages {
	return &memMessages{byID: map[string]*messages.Message{}}
}

func (s *memMessages) Create(ctx context.Context, m *messages.Message) error {
	s.next++
	m.ID = "m" + strconv.Itoa(s.next)
	cp := *m
	s.byID[m.ID] = &cp
	return nil
}

func (s *memMessages) ListByUser(ctx context.Context, userID string) ([]messages.Message, error) {
	var out []messages.Message
	for _, m := range s.byID {
		if m.UserID == userID {
			out = append(out, *m)
		}
	}
	return out, nil
}

func (s *memMessages) ListAll(ctx context.Context) ([]messages.InboxEntry, error) {
	var out []messages.InboxEntry
	for _, m := range s.byID {
		out = append(out, messages.InboxEntry{Message: *m})
	}
	return out, nil
}

func (s *memMessages) UpdateOwn(ctx context.Context, userID, id, subject, content string) (*messages.Message, error) {
	m, ok := s.byID[id]
	if !ok || m.UserID != userID {
		return nil, messages.ErrNotFound
	}
	if m.Replied {
		return nil, messages.ErrAlreadyReplied
	}
	if subject != "" {
		m.Subject = subject
	}
	if content != "" {
		m.Content = content
	}
	cp := *m
	return &cp, nil
}

func (s *memMessages) MarkRead(ctx context.Context, id string) (*messages.Message, error) {
	m, ok := s.byID[id]
	if !ok {
		return nil, messages.ErrNotFound
	}
	m.IsRead = true
	cp := *m
	return &cp, nil
}

func (s *memMessages) Reply(ctx context.Context, id, reply string) (*messages.Message, error) {
	m, ok := s.byID[id]
	if !ok {
		return nil, messages.ErrNotFound
	}
	m.Replied, m.IsRead, m.Reply = true, true, reply
	cp := *m
	return &cp, nil
}

func (s *memMessages) Delete(ctx context.Context, id string) error {
	if _, ok := s.byID[id]; !ok {
		return messages.ErrNotFound
	}
	delete(s.byID, id)
	return nil
}

func (s *memMessages) DeleteMany(ctx context.Context, ids []string) (int64, error) {
	var n int64
	for _, id := range ids {
		if _, ok := s.byID[id]; ok {
			delete(s.byID, id)
			n++
		}
	}
	return n, nil
}

func TestCreateMessage(t *testing.T) {
	h := &messageHandler{store: newMemMessages()}

	t.Run("missing subject falls back to the default", func(t *testing.T) {
		body := strings.NewReader(`{"content":"my order arrived damaged"}`)
		req := asCustomer(httptest.NewRequest(http.MethodPost, "/messages", body), "u1")
		rec := httptest.NewRecorder()
		h.create(rec, req)

		require.Equal(t, http.StatusCreated, rec.Code)
		var m messages.Message
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &m))
		assert.Equal(t, messages.DefaultSubject, m.Subject)
		assert.Equal(t, "u1", m.UserID)
	})

	t.Run("empty content is rejected", func(t *testing.T) {
		body := strings.NewReader(`{"subject":"hi"}`)
		req := asCustomer(httptest.NewRequest(http.MethodPost, "/messages", body), "u1")
		rec := httptest.NewRecorder()
		h.create(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestUpdateMessageGuards(t *testing.T) {
	store := newMemMessages()
	h := &messageHandler{store: store}

	open := &messages.Message{UserID: "u1", Subject: "sizing", Content: "is the M true to size?"}
	require.NoError(t, store.Create(context.Background(), open))
	answered := &messages.Message{UserID: "u1", Content: "late delivery", Replied: true, Reply: "on its way"}
	require.NoError(t, store.Create(context.Background(), answered))

	t.Run("owner can edit an unanswered message", func(t *testing.T) {
		body := strings.NewReader(`{"content":"is the L true to size?"}`)
		req := asCustomer(httptest.NewRequest(http.MethodPut, "/messages/"+open.ID, body), "u1")
		req = withURLParam(req, "id", open.ID)
		rec := httptest.NewRecorder()
		h.updateMine(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)
		var m messages.Message
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &m))
		assert.Equal(t, "is the L true to size?", m.Content)
		assert.Equal(t, "sizing", m.Subject)
	})

	t.Run("replied message can no longer be edited", func(t *testing.T) {
		body := strings.NewReader(`{"content":"never mind"}`)
		req := asCustomer(httptest.NewRequest(http.MethodPut, "/messages/"+answered.ID, body), "u1")
		req = withURLParam(req, "id", answered.ID)
		rec := httptest.NewRecorder()
		h.updateMine(rec, req)

		assert.Equal(t, http.StatusForbidden, rec.Code)
	})

	t.Run("someone else's message reads as missing", func(t *testing.T) {
		body := strings.NewReader(`{"content":"hijack"}`)
		req := asCustomer(httptest.NewRequest(http.MethodPut, "/messages/"+open.ID, body), "u2")
		req = withURLParam(req, "id", open.ID)
		rec := httptest.NewRecorder()
		h.updateMine(rec, req)

		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestReplyMessage(t *testing.T) {
	store := newMemMessages()
	h := &messageHandler{store: store}
	m := &messages.Message{UserID: "u1", Content: "where is my refund?"}
	require.NoError(t, store.Create(context.Background(), m))

	t.Run("reply marks the message answered and read", func(t *testing.T) {
		body := strings.NewReader(`{"reply":"refund issued today"}`)
		req := httptest.NewRequest(http.MethodPut, "/messages/"+m.ID+"/reply", body)
		req = withURLParam(req, "id", m.ID)
		rec := httptest.NewRecorder()
		h.reply(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)
		var got messages.Message
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
		assert.True(t, got.Replied)
		assert.True(t, got.IsRead)
		assert.Equal(t, "refund issued today", got.Reply)
	})

	t.Run("empty reply is rejected", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPut, "/messages/"+m.ID+"/reply", strings.NewReader(`{}`))
		req = withURLParam(req, "id", m.ID)
		rec := httptest.NewRecorder()
		h.reply(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("unknown message is not found", func(t *testing.T) {
		body := strings.NewReader(`{"reply":"hello"}`)
		req := httptest.NewRequest(http.MethodPut, "/messages/nope/reply", body)
		req = withURLParam(req, "id", "nope")
		rec := httptest.NewRecorder()
		h.reply(rec, req)

		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestBulkDeleteMessages(t *testing.T) {
	store := newMemMessages()
	h := &messageHandler{store: store}
	for _, c := range []string{"a", "b", "c"} {
		require.NoError(t, store.Create(context.Background(), &messages.Message{UserID: "u1", Content: c}))
	}

	t.Run("deletes only the ids that exist", func(t *testing.T) {
		body := strings.NewReader(`{"ids":["m1","m3","ghost"]}`)
		req := httptest.NewRequest(http.MethodPost, "/messages/bulk-delete", body)
		rec := httptest.NewRecorder()
		h.bulkDelete(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), "2 message(s) deleted")
		assert.Len(t, store.byID, 1)
	})

	t.Run("empty id list is rejected", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/messages/bulk-delete", strings.NewReader(`{"ids":[]}`))
		rec := httptest.NewRecorder()
		h.bulkDelete(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}
