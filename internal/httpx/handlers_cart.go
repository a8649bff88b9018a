package httpx

import (
	"net/http"

	"github.com/shoppee/shoppee-backend/internal/auth"
	"github.com/shoppee/shoppee-backend/internal/cart"
)

type cartHandler struct {
	carts *cart.Service
	store cart.Store
}

type cartItemRequest struct {
	ProductID string       `json:"product"`
	Quantity  int          `json:"quantity"`
	Variant   cart.Variant `json:"selectedVariant"`
}

func (h *cartHandler) add(w http.ResponseWriter, r *http.Request) {
	id, _ := auth.FromContext(r.Context())
	var req cartItemRequest
	if !decode(w, r, &req) {
		return
	}
	if req.ProductID == "" {
		writeMessage(w, http.StatusBadRequest, "product is required")
		return
	}
	c, err := h.carts.Add(r.Context(), id.ID, req.ProductID, req.Quantity, req.Variant)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, c)
}

func (h *cartHandler) get(w http.ResponseWriter, r *http.Request) {
	id, _ := auth.FromContext(r.Context())
	c, err := h.store.Get(r.Context(), id.ID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, c)
}

func (h *cartHandler) updateQuantity(w http.ResponseWriter, r *http.Request) {
	id, _ := auth.FromContext(r.Context())
	var req cartItemRequest
	if !decode(w, r, &req) {
		return
	}
	if req.Quantity < 1 {
		writeMessage(w, http.StatusBadRequest, "quantity must be at least 1")
		return
	}
	c, err := h.store.UpdateQuantity(r.Context(), id.ID, req.Variant, req.ProductID, req.Quantity)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, c)
}

func (h *cartHandler) remove(w http.ResponseWriter, r *http.Request) {
	id, _ := auth.FromContext(r.Context())
	var req cartItemRequest
	if !decode(w, r, &req) {
		return
	}
	c, err := h.store.RemoveItem(r.Context(), id.ID, req.Variant, req.ProductID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, c)
}

func (h *cartHandler) clear(w http.ResponseWriter, r *http.Request) {
	id, _ := auth.FromContext(r.Context())
	if err := h.store.Clear(r.Context(), id.ID); err != nil {
		writeError(w, err)
		return
	}
	writeMessage(w, http.StatusOK, "cart cleared")
}
