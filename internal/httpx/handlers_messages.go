package httpx

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/shoppee/shoppee-backend/internal/auth"
	"github.com/shoppee/shoppee-backend/internal/messages"
)

type messageHandler struct {
	store messages.Store
}

type createMessageRequest struct {
	Subject string `json:"subject"`
	Content string `json:"content"`
}

func (h *messageHandler) create(w http.ResponseWriter, r *http.Request) {
	id, _ := auth.FromContext(r.Context())
	var req createMessageRequest
	if !decode(w, r, &req) {
		return
	}
	if req.Content == "" {
		writeMessage(w, http.StatusBadRequest, "content is required")
		return
	}
	if req.Subject == "" {
		req.Subject = messages.DefaultSubject
	}
	m := &messages.Message{UserID: id.ID, Subject: req.Subject, Content: req.Content}
	if err := h.store.Create(r.Context(), m); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, m)
}

func (h *messageHandler) listMine(w http.ResponseWriter, r *http.Request) {
	id, _ := auth.FromContext(r.Context())
	list, err := h.store.ListByUser(r.Context(), id.ID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

func (h *messageHandler) updateMine(w http.ResponseWriter, r *http.Request) {
	id, _ := auth.FromContext(r.Context())
	var req createMessageRequest
	if !decode(w, r, &req) {
		return
	}
	m, err := h.store.UpdateOwn(r.Context(), id.ID, chi.URLParam(r, "id"), req.Subject, req.Content)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, m)
}

// admin inbox

func (h *messageHandler) listAll(w http.ResponseWriter, r *http.Request) {
	list, err := h.store.ListAll(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

func (h *messageHandler) markRead(w http.ResponseWriter, r *http.Request) {
	m, err := h.store.MarkRead(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, m)
}

type replyRequest struct {
	Reply string `json:"reply"`
}

func (h *messageHandler) reply(w http.ResponseWriter, r *http.Request) {
	var req replyRequest
	if !decode(w, r, &req) {
		return
	}
	if req.Reply == "" {
		writeMessage(w, http.StatusBadRequest, "reply is required")
		return
	}
	m, err := h.store.Reply(r.Context(), chi.URLParam(r, "id"), req.Reply)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, m)
}

func (h *messageHandler) delete(w http.ResponseWriter, r *http.Request) {
	if err := h.store.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeError(w, err)
		return
	}
	writeMessage(w, http.StatusOK, "message deleted")
}

type bulkDeleteRequest struct {
	IDs []string `json:"ids"`
}

func (h *messageHandler) bulkDelete(w http.ResponseWriter, r *http.Request) {
	var req bulkDeleteRequest
	if !decode(w, r, &req) {
		return
	}
	if len(req.IDs) == 0 {
		writeMessage(w, http.StatusBadRequest, "no ids provided")
		return
	}
	n, err := h.store.DeleteMany(r.Context(), req.IDs)
	if err != nil {
		writeError(w, err)
		return
	}
	writeMessage(w, http.StatusOK, fmt.Sprintf("%d message(s) deleted", n))
}
