// Package httpx assembles the HTTP surface: routing, request decoding,
// and the JSON error contract.
package httpx

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/shoppee/shoppee-backend/internal/accounts"
	"github.com/shoppee/shoppee-backend/internal/cart"
	"github.com/shoppee/shoppee-backend/internal/catalog"
	"github.com/shoppee/shoppee-backend/internal/invoice"
	"github.com/shoppee/shoppee-backend/internal/messages"
	"github.com/shoppee/shoppee-backend/internal/orders"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v != nil {
		if err := json.NewEncoder(w).Encode(v); err != nil {
			log.Printf("httpx: encode response: %v", err)
		}
	}
}

func writeMessage(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"message": msg})
}

// writeError maps domain errors onto the response taxonomy. Anything
// unrecognized is a 500 with a generic body; the detail goes to the log.
func writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, orders.ErrNoItems),
		errors.Is(err, orders.ErrInvalidQuantity),
		errors.Is(err, orders.ErrInvalidAddress),
		errors.Is(err, orders.ErrPaymentVerification),
		errors.Is(err, orders.ErrInvalidStatus),
		errors.Is(err, orders.ErrInvalidPayStatus),
		errors.Is(err, catalog.ErrInvalidWindow),
		errors.Is(err, accounts.ErrTooManyAddresses):
		writeMessage(w, http.StatusBadRequest, err.Error())

	case errors.Is(err, invoice.ErrNotReady),
		errors.Is(err, messages.ErrAlreadyReplied):
		writeMessage(w, http.StatusForbidden, err.Error())

	case errors.Is(err, catalog.ErrNotFound),
		errors.Is(err, orders.ErrNotFound),
		errors.Is(err, orders.ErrProductNotFound),
		errors.Is(err, accounts.ErrNotFound),
		errors.Is(err, cart.ErrCartNotFound),
		errors.Is(err, cart.ErrItemNotFound),
		errors.Is(err, messages.ErrNotFound):
		writeMessage(w, http.StatusNotFound, err.Error())

	case errors.Is(err, catalog.ErrSlugTaken),
		errors.Is(err, accounts.ErrEmailTaken),
		errors.Is(err, orders.ErrDuplicatePayment):
		writeMessage(w, http.StatusConflict, err.Error())

	default:
		log.Printf("httpx: internal error: %v", err)
		writeMessage(w, http.StatusInternalServerError, "something went wrong")
	}
}

// decode reads a JSON body; a malformed body is a 400 already written
// to the client.
func decode(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeMessage(w, http.StatusBadRequest, "invalid request body")
		return false
	}
	return true
}
