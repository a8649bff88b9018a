package httpx

import (
	"net/http"
	"time"

	"github.com/shoppee/shoppee-backend/internal/analytics"
	"github.com/shoppee/shoppee-backend/internal/maintenance"
)

type analyticsHandler struct {
	repo *analytics.Repo
}

func (h *analyticsHandler) salesOverview(w http.ResponseWriter, r *http.Request) {
	overview, err := h.repo.SalesOverview(r.Context(), time.Now().UTC())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, overview)
}

func (h *analyticsHandler) categorySales(w http.ResponseWriter, r *http.Request) {
	period := r.URL.Query().Get("period")
	if period == "" {
		period = "day"
	}
	report, err := h.repo.SalesByRootCategory(r.Context(), period, time.Now().UTC())
	if err != nil {
		writeMessage(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, report)
}

func (h *analyticsHandler) visitors(w http.ResponseWriter, r *http.Request) {
	bucket := r.URL.Query().Get("bucket")
	if bucket == "" {
		bucket = "day"
	}
	since := time.Now().UTC().AddDate(0, 0, -30)
	if bucket == "hour" {
		since = time.Now().UTC().AddDate(0, 0, -1)
	}
	points, err := h.repo.Visitors(r.Context(), bucket, since)
	if err != nil {
		writeMessage(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, points)
}

func (h *analyticsHandler) sessionsByCountry(w http.ResponseWriter, r *http.Request) {
	out, err := h.repo.SessionsByCountry(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *analyticsHandler) sessionsByDevice(w http.ResponseWriter, r *http.Request) {
	out, err := h.repo.SessionsByDevice(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *analyticsHandler) latestCustomers(w http.ResponseWriter, r *http.Request) {
	out, err := h.repo.LatestCustomers(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *analyticsHandler) transactions(w http.ResponseWriter, r *http.Request) {
	out, err := h.repo.Transactions(r.Context(), 20)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

type maintenanceHandler struct {
	store *maintenance.Store
}

func (h *maintenanceHandler) get(w http.ResponseWriter, r *http.Request) {
	st, err := h.store.Get(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, st)
}

type maintenanceRequest struct {
	IsActive   bool   `json:"isActive"`
	Message    string `json:"message"`
	AllowAdmin bool   `json:"allowAdmin"`
}

func (h *maintenanceHandler) set(w http.ResponseWriter, r *http.Request) {
	var req maintenanceRequest
	if !decode(w, r, &req) {
		return
	}
	st, err := h.store.Set(r.Context(), maintenance.Setting{
		IsActive:   req.IsActive,
		Message:    req.Message,
		AllowAdmin: req.AllowAdmin,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, st)
}
