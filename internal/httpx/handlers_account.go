package httpx

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/shoppee/shoppee-backend/internal/accounts"
	"github.com/shoppee/shoppee-backend/internal/auth"
	"github.com/shoppee/shoppee-backend/internal/sessions"
)

type accountHandler struct {
	users     *accounts.UserRepo
	admins    *accounts.AdminRepo
	addresses *accounts.AddressRepo
	sessions  *sessions.Service // optional
}

func (h *accountHandler) profile(w http.ResponseWriter, r *http.Request) {
	id, _ := auth.FromContext(r.Context())
	u, err := h.users.Get(r.Context(), id.ID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, u)
}

type profileUpdateRequest struct {
	Name   *string `json:"name"`
	Phone  *string `json:"phone"`
	Avatar *string `json:"avatar"`
}

// updateProfile changes display fields only. Role and email are not
// reachable through this endpoint.
func (h *accountHandler) updateProfile(w http.ResponseWriter, r *http.Request) {
	id, _ := auth.FromContext(r.Context())
	var req profileUpdateRequest
	if !decode(w, r, &req) {
		return
	}
	u, err := h.users.UpdateProfile(r.Context(), id.ID, accounts.UserProfileUpdate{
		Name:   req.Name,
		Phone:  req.Phone,
		Avatar: req.Avatar,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, u)
}

type changePasswordRequest struct {
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword"`
}

func (h *accountHandler) changePassword(w http.ResponseWriter, r *http.Request) {
	id, _ := auth.FromContext(r.Context())
	var req changePasswordRequest
	if !decode(w, r, &req) {
		return
	}
	if len(req.NewPassword) < 6 {
		writeMessage(w, http.StatusBadRequest, "new password must be at least 6 characters")
		return
	}
	u, err := h.users.Get(r.Context(), id.ID)
	if err != nil {
		writeError(w, err)
		return
	}
	if !accounts.CheckPassword(u.PasswordHash, req.CurrentPassword) {
		writeMessage(w, http.StatusUnauthorized, "current password is incorrect")
		return
	}
	hash, err := accounts.HashPassword(req.NewPassword)
	if err != nil {
		writeError(w, err)
		return
	}
	if err := h.users.UpdatePassword(r.Context(), id.ID, hash); err != nil {
		writeError(w, err)
		return
	}
	writeMessage(w, http.StatusOK, "password updated")
}

func (h *accountHandler) recentDevices(w http.ResponseWriter, r *http.Request) {
	id, _ := auth.FromContext(r.Context())
	devices, err := h.sessions.RecentDevices(r.Context(), id.ID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, devices)
}

// addresses

func (h *accountHandler) addAddress(w http.ResponseWriter, r *http.Request) {
	id, _ := auth.FromContext(r.Context())
	var a accounts.Address
	if !decode(w, r, &a) {
		return
	}
	if a.FullName == "" || a.Phone == "" || a.AddressLine1 == "" || a.City == "" ||
		a.PostalCode == "" || a.Country == "" {
		writeMessage(w, http.StatusBadRequest, "fullName, phone, addressLine1, city, postalCode and country are required")
		return
	}
	a.ID = uuid.NewString()
	a.UserID = id.ID
	if err := h.addresses.Add(r.Context(), &a); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, a)
}

func (h *accountHandler) listAddresses(w http.ResponseWriter, r *http.Request) {
	id, _ := auth.FromContext(r.Context())
	list, err := h.addresses.List(r.Context(), id.ID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

type addressUpdateRequest struct {
	FullName     *string `json:"fullName"`
	Phone        *string `json:"phone"`
	AddressLine1 *string `json:"addressLine1"`
	AddressLine2 *string `json:"addressLine2"`
	City         *string `json:"city"`
	State        *string `json:"state"`
	PostalCode   *string `json:"postalCode"`
	Country      *string `json:"country"`
}

func (h *accountHandler) updateAddress(w http.ResponseWriter, r *http.Request) {
	id, _ := auth.FromContext(r.Context())
	var req addressUpdateRequest
	if !decode(w, r, &req) {
		return
	}
	a, err := h.addresses.Update(r.Context(), id.ID, chi.URLParam(r, "id"), accounts.AddressUpdate{
		FullName:     req.FullName,
		Phone:        req.Phone,
		AddressLine1: req.AddressLine1,
		AddressLine2: req.AddressLine2,
		City:         req.City,
		State:        req.State,
		PostalCode:   req.PostalCode,
		Country:      req.Country,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, a)
}

func (h *accountHandler) deleteAddress(w http.ResponseWriter, r *http.Request) {
	id, _ := auth.FromContext(r.Context())
	if err := h.addresses.Delete(r.Context(), id.ID, chi.URLParam(r, "id")); err != nil {
		writeError(w, err)
		return
	}
	writeMessage(w, http.StatusOK, "address deleted")
}

func (h *accountHandler) setDefaultAddress(w http.ResponseWriter, r *http.Request) {
	id, _ := auth.FromContext(r.Context())
	a, err := h.addresses.SetDefault(r.Context(), id.ID, chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, a)
}

// admin user management

func (h *accountHandler) listUsers(w http.ResponseWriter, r *http.Request) {
	list, err := h.users.List(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

func (h *accountHandler) getUser(w http.ResponseWriter, r *http.Request) {
	u, err := h.users.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, u)
}

func (h *accountHandler) adminUpdateUser(w http.ResponseWriter, r *http.Request) {
	var req profileUpdateRequest
	if !decode(w, r, &req) {
		return
	}
	u, err := h.users.UpdateProfile(r.Context(), chi.URLParam(r, "id"), accounts.UserProfileUpdate{
		Name:   req.Name,
		Phone:  req.Phone,
		Avatar: req.Avatar,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, u)
}

func (h *accountHandler) deleteUser(w http.ResponseWriter, r *http.Request) {
	if err := h.users.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeError(w, err)
		return
	}
	writeMessage(w, http.StatusOK, "user deleted")
}

func (h *accountHandler) adminProfile(w http.ResponseWriter, r *http.Request) {
	id, _ := auth.FromContext(r.Context())
	a, err := h.admins.Get(r.Context(), id.ID)
	if err != nil {
		if errors.Is(err, accounts.ErrNotFound) {
			writeMessage(w, http.StatusNotFound, "admin not found")
			return
		}
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, a)
}

type adminProfileUpdateRequest struct {
	FirstName    *string `json:"firstName"`
	LastName     *string `json:"lastName"`
	PhoneNumber  *string `json:"phoneNumber"`
	ProfileImage *string `json:"profileImage"`
	Department   *string `json:"department"`
	Organization *string `json:"organization"`
}

// updateAdminProfile changes display fields only; role and email stay
// fixed, same as the customer profile endpoint.
func (h *accountHandler) updateAdminProfile(w http.ResponseWriter, r *http.Request) {
	id, _ := auth.FromContext(r.Context())
	var req adminProfileUpdateRequest
	if !decode(w, r, &req) {
		return
	}
	a, err := h.admins.UpdateProfile(r.Context(), id.ID, accounts.AdminProfileUpdate{
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		PhoneNumber:  req.PhoneNumber,
		ProfileImage: req.ProfileImage,
		Department:   req.Department,
		Organization: req.Organization,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, a)
}

func (h *accountHandler) changeAdminPassword(w http.ResponseWriter, r *http.Request) {
	id, _ := auth.FromContext(r.Context())
	var req changePasswordRequest
	if !decode(w, r, &req) {
		return
	}
	if len(req.NewPassword) < 6 {
		writeMessage(w, http.StatusBadRequest, "new password must be at least 6 characters")
		return
	}
	a, err := h.admins.Get(r.Context(), id.ID)
	if err != nil {
		writeError(w, err)
		return
	}
	if !accounts.CheckPassword(a.PasswordHash, req.CurrentPassword) {
		writeMessage(w, http.StatusUnauthorized, "current password is incorrect")
		return
	}
	hash, err := accounts.HashPassword(req.NewPassword)
	if err != nil {
		writeError(w, err)
		return
	}
	if err := h.admins.UpdatePassword(r.Context(), id.ID, hash); err != nil {
		writeError(w, err)
		return
	}
	writeMessage(w, http.StatusOK, "password updated")
}
