package httpx

import (
	"errors"
	"log"
	"net/http"

	"github.com/google/uuid"

	"github.com/shoppee/shoppee-backend/internal/accounts"
	"github.com/shoppee/shoppee-backend/internal/auth"
	"github.com/shoppee/shoppee-backend/internal/sessions"
)

type authHandler struct {
	users    *accounts.UserRepo
	admins   *accounts.AdminRepo
	tokens   *auth.Tokens
	sessions *sessions.Service // optional, records login devices
}

type registerUserRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Phone    string `json:"phone"`
	Role     string `json:"role"`
}

func (h *authHandler) registerUser(w http.ResponseWriter, r *http.Request) {
	var req registerUserRequest
	if !decode(w, r, &req) {
		return
	}
	if req.Name == "" || req.Email == "" || len(req.Password) < 6 {
		writeMessage(w, http.StatusBadRequest, "name, email and a password of at least 6 characters are required")
		return
	}
	role := accounts.UserRole(req.Role)
	if req.Role == "" {
		role = accounts.RoleCustomer
	}
	if !role.Valid() {
		writeMessage(w, http.StatusBadRequest, "invalid role")
		return
	}

	hash, err := accounts.HashPassword(req.Password)
	if err != nil {
		writeError(w, err)
		return
	}
	u := &accounts.User{
		ID:           uuid.NewString(),
		Name:         req.Name,
		Email:        req.Email,
		PasswordHash: hash,
		Phone:        req.Phone,
		Role:         role,
	}
	if err := h.users.Create(r.Context(), u); err != nil {
		writeError(w, err)
		return
	}
	if err := h.issueUserCookie(w, r, u); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, u)
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *authHandler) loginUser(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if !decode(w, r, &req) {
		return
	}
	u, err := h.users.GetByEmail(r.Context(), req.Email)
	if err != nil {
		if errors.Is(err, accounts.ErrNotFound) {
			writeMessage(w, http.StatusUnauthorized, "invalid email or password")
			return
		}
		writeError(w, err)
		return
	}
	if !accounts.CheckPassword(u.PasswordHash, req.Password) {
		writeMessage(w, http.StatusUnauthorized, "invalid email or password")
		return
	}
	if err := h.issueUserCookie(w, r, u); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, u)
}

func (h *authHandler) issueUserCookie(w http.ResponseWriter, r *http.Request, u *accounts.User) error {
	token, err := h.tokens.IssueUser(u.ID, string(u.Role))
	if err != nil {
		return err
	}
	h.tokens.SetCookie(w, token)
	if h.sessions != nil {
		// best effort, a failed device log never fails the login
		if _, err := h.sessions.RecordLogin(r.Context(), u.ID, r.UserAgent(), sessions.ClientIP(r)); err != nil {
			log.Printf("httpx: record login device for %s: %v", u.ID, err)
		}
	}
	return nil
}

func (h *authHandler) logout(w http.ResponseWriter, r *http.Request) {
	h.tokens.ClearCookie(w)
	writeMessage(w, http.StatusOK, "logged out")
}

type registerAdminRequest struct {
	FirstName    string `json:"firstName"`
	LastName     string `json:"lastName"`
	Email        string `json:"email"`
	Password     string `json:"password"`
	PhoneNumber  string `json:"phoneNumber"`
	Department   string `json:"department"`
	Organization string `json:"organization"`
	Role         string `json:"role"`
}

func (h *authHandler) registerAdmin(w http.ResponseWriter, r *http.Request) {
	var req registerAdminRequest
	if !decode(w, r, &req) {
		return
	}
	if req.FirstName == "" || req.Email == "" || len(req.Password) < 6 {
		writeMessage(w, http.StatusBadRequest, "firstName, email and a password of at least 6 characters are required")
		return
	}
	role := accounts.AdminRole(req.Role)
	if !role.Valid() {
		writeMessage(w, http.StatusBadRequest, "invalid admin role")
		return
	}

	hash, err := accounts.HashPassword(req.Password)
	if err != nil {
		writeError(w, err)
		return
	}
	a := &accounts.Admin{
		ID:           uuid.NewString(),
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		Email:        req.Email,
		PasswordHash: hash,
		PhoneNumber:  req.PhoneNumber,
		Department:   req.Department,
		Organization: req.Organization,
		Role:         role,
	}
	if err := h.admins.Create(r.Context(), a); err != nil {
		writeError(w, err)
		return
	}
	token, err := h.tokens.IssueAdmin(a.ID, string(a.Role))
	if err != nil {
		writeError(w, err)
		return
	}
	h.tokens.SetCookie(w, token)
	writeJSON(w, http.StatusCreated, a)
}

func (h *authHandler) loginAdmin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if !decode(w, r, &req) {
		return
	}
	a, err := h.admins.GetByEmail(r.Context(), req.Email)
	if err != nil {
		if errors.Is(err, accounts.ErrNotFound) {
			writeMessage(w, http.StatusUnauthorized, "invalid email or password")
			return
		}
		writeError(w, err)
		return
	}
	if !accounts.CheckPassword(a.PasswordHash, req.Password) {
		writeMessage(w, http.StatusUnauthorized, "invalid email or password")
		return
	}
	token, err := h.tokens.IssueAdmin(a.ID, string(a.Role))
	if err != nil {
		writeError(w, err)
		return
	}
	h.tokens.SetCookie(w, token)
	writeJSON(w, http.StatusOK, a)
}
