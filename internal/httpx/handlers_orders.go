package httpx

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/redis/go-redis/v9"

	"github.com/shoppee/shoppee-backend/internal/auth"
	"github.com/shoppee/shoppee-backend/internal/invoice"
	"github.com/shoppee/shoppee-backend/internal/orders"
	"github.com/shoppee/shoppee-backend/internal/redisx"
)

type orderHandler struct {
	orders *orders.Service
	cache  *redis.Client // optional, payment replay fast path
}

func (h *orderHandler) checkoutCOD(w http.ResponseWriter, r *http.Request) {
	id, _ := auth.FromContext(r.Context())
	var in orders.CheckoutInput
	if !decode(w, r, &in) {
		return
	}
	o, err := h.orders.CreateCOD(r.Context(), id.ID, in)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, o)
}

func (h *orderHandler) createGatewayOrder(w http.ResponseWriter, r *http.Request) {
	var in orders.CheckoutInput
	if !decode(w, r, &in) {
		return
	}
	intent, err := h.orders.CreateIntent(r.Context(), in)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, intent)
}

type placeOrderRequest struct {
	orders.CheckoutInput
	orders.GatewayConfirmation
}

func (h *orderHandler) placeAfterPayment(w http.ResponseWriter, r *http.Request) {
	id, _ := auth.FromContext(r.Context())
	var req placeOrderRequest
	if !decode(w, r, &req) {
		return
	}
	if req.GatewayConfirmation.OrderID == "" || req.PaymentID == "" || req.Signature == "" {
		writeMessage(w, http.StatusBadRequest, "razorpay_order_id, razorpay_payment_id and razorpay_signature are required")
		return
	}

	// fast path: a gateway order already consumed is a replay
	idemKey := fmt.Sprintf(redisx.KeyIdemPayment, req.GatewayConfirmation.OrderID)
	if h.cache != nil {
		if _, err := h.cache.Get(r.Context(), idemKey).Result(); err == nil {
			writeError(w, orders.ErrDuplicatePayment)
			return
		}
	}

	o, err := h.orders.PlaceAfterPayment(r.Context(), id.ID, req.CheckoutInput, req.GatewayConfirmation)
	if err != nil {
		writeError(w, err)
		return
	}
	if h.cache != nil {
		h.cache.Set(r.Context(), idemKey, o.ID, redisx.TTLIdempotency)
	}
	writeJSON(w, http.StatusCreated, o)
}

func (h *orderHandler) myOrders(w http.ResponseWriter, r *http.Request) {
	id, _ := auth.FromContext(r.Context())
	list, err := h.orders.Store.ListByUser(r.Context(), id.ID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

// getOrder serves both the customer's own-order view and the admin view.
func (h *orderHandler) getOrder(w http.ResponseWriter, r *http.Request) {
	o, ok := h.loadVisible(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, o)
}

// loadVisible fetches the order and enforces owner-or-admin access. On
// failure the response is already written.
func (h *orderHandler) loadVisible(w http.ResponseWriter, r *http.Request) (*orders.Order, bool) {
	id, _ := auth.FromContext(r.Context())
	o, err := h.orders.Store.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return nil, false
	}
	if !id.IsAdmin && o.UserID != id.ID {
		writeMessage(w, http.StatusForbidden, "not your order")
		return nil, false
	}
	return o, true
}

func (h *orderHandler) listAll(w http.ResponseWriter, r *http.Request) {
	list, err := h.orders.Store.ListAll(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

func (h *orderHandler) updateStatus(w http.ResponseWriter, r *http.Request) {
	var u orders.StatusUpdate
	if !decode(w, r, &u) {
		return
	}
	o, err := h.orders.UpdateStatus(r.Context(), chi.URLParam(r, "id"), u)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, o)
}

// downloadInvoice streams the PDF for a paid and delivered order.
func (h *orderHandler) downloadInvoice(w http.ResponseWriter, r *http.Request) {
	id, _ := auth.FromContext(r.Context())
	if id.IsAdmin && id.Role != "superadmin" {
		writeMessage(w, http.StatusForbidden, "insufficient permissions")
		return
	}
	o, ok := h.loadVisible(w, r)
	if !ok {
		return
	}
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%s", invoice.Filename(o)))
	if err := invoice.Render(w, o); err != nil {
		// nothing has been written yet when the readiness check fails
		w.Header().Del("Content-Type")
		w.Header().Del("Content-Disposition")
		writeError(w, err)
	}
}
