package http

import (
	"net/http"

	"github.com/lodestarhq/lodestar/internal/domain/user"
	"github.com/lodestarhq/lodestar/internal/middleware"
)

// Login handles POST /api/v1/auth/login
func (h *Handlers) Login(w http.ResponseWriter, r *http.Request) {
	req, ok := readJSON[user.LoginRequest](w, r)
	if !ok {
		return
	}

	resp, err := h.Auth.Login(r.Context(), req)
	if err != nil {
		writeError(w, http.StatusUnauthorized, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// GetCurrentUser handles GET /api/v1/auth/me
func (h *Handlers) GetCurrentUser(w http.ResponseWriter, r *http.Request) {
	u := middleware.UserFromContext(r.Context())
	if u == nil {
		writeError(w, http.StatusUnauthorized, "authorization required")
		return
	}
	writeJSON(w, http.StatusOK, u)
}

type changePasswordRequest struct {
	OldPassword string `json:"old_password"`
	NewPassword string `json:"new_password"`
}

// ChangePassword handles POST /api/v1/auth/change-password
func (h *Handlers) ChangePassword(w http.ResponseWriter, r *http.Request) {
	u := middleware.UserFromContext(r.Context())
	if u == nil {
		writeError(w, http.StatusUnauthorized, "authorization required")
		return
	}

	req, ok := readJSON[changePasswordRequest](w, r)
	if !ok {
		return
	}

	if err := h.Auth.ChangePassword(r.Context(), u.ID, req.OldPassword, req.NewPassword); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ListUsersHandler handles GET /api/v1/users (admin only)
func (h *Handlers) ListUsersHandler(w http.ResponseWriter, r *http.Request) {
	handleList(h.Auth.ListUsers)(w, r)
}

// CreateUserHandler handles POST /api/v1/users (admin only)
func (h *Handlers) CreateUserHandler(w http.ResponseWriter, r *http.Request) {
	req, ok := readJSON[user.CreateRequest](w, r)
	if !ok {
		return
	}

	u, err := h.Auth.Register(r.Context(), &req)
	if err != nil {
		writeDomainError(w, err, "user creation failed")
		return
	}
	writeJSON(w, http.StatusCreated, u)
}

// UpdateUserHandler handles PUT /api/v1/users/{id} (admin only)
func (h *Handlers) UpdateUserHandler(w http.ResponseWriter, r *http.Request) {
	handleUpdate(h.Auth.UpdateUser, "user not found")(w, r)
}

// DeleteUserHandler handles DELETE /api/v1/users/{id} (admin only)
func (h *Handlers) DeleteUserHandler(w http.ResponseWriter, r *http.Request) {
	u := middleware.UserFromContext(r.Context())
	if u != nil && u.ID == urlParam(r, "id") {
		writeError(w, http.StatusBadRequest, "cannot delete your own account")
		return
	}
	handleDelete(h.Auth.DeleteUser, "user not found")(w, r)
}
