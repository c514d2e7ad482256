package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/avolkov/ipod-store/internal/api/middleware"
	"github.com/avolkov/ipod-store/internal/api/respond"
	"github.com/avolkov/ipod-store/internal/domain"
	"github.com/avolkov/ipod-store/internal/service"
)

type AuthHandler struct {
	users *service.UserService
}

func NewAuthHandler(users *service.UserService) *AuthHandler {
	return &AuthHandler{users: users}
}

type RegisterRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginResponse struct {
	Message string       `json:"message"`
	User    *domain.User `json:"user"`
	Token   string       `json:"token"`
}

func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.Error(w, fmt.Errorf("%w: malformed request body", domain.ErrInvalidInput))
		return
	}
	if req.Email == "" || req.Password == "" {
		respond.Error(w, fmt.Errorf("%w: email and password are required", domain.ErrInvalidInput))
		return
	}

	user, err := h.users.Register(r.Context(), service.RegisterInput{
		Email:    req.Email,
		Password: req.Password,
		Name:     req.Name,
	})
	if err != nil {
		respond.Error(w, err)
		return
	}

	respond.JSON(w, http.StatusCreated, map[string]any{
		"message": "User registered successfully",
		"user":    user,
	})
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.Error(w, fmt.Errorf("%w: malformed request body", domain.ErrInvalidInput))
		return
	}
	if req.Email == "" || req.Password == "" {
		respond.Error(w, fmt.Errorf("%w: email and password are required", domain.ErrInvalidInput))
		return
	}

	user, token, err := h.users.Authenticate(r.Context(), req.Email, req.Password)
	if err != nil {
		respond.Error(w, err)
		return
	}

	respond.JSON(w, http.StatusOK, LoginResponse{
		Message: "Login successful",
		User:    user,
		Token:   token,
	})
}

func (h *AuthHandler) Profile(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.CurrentUser(r.Context())
	if !ok {
		respond.Error(w, domain.ErrInvalidToken)
		return
	}
	respond.JSON(w, http.StatusOK, user)
}

type UpdateProfileRequest struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

func (h *AuthHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.CurrentUser(r.Context())
	if !ok {
		respond.Error(w, domain.ErrInvalidToken)
		return
	}

	var req UpdateProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.Error(w, fmt.Errorf("%w: malformed request body", domain.ErrInvalidInput))
		return
	}

	updated, err := h.users.UpdateProfile(r.Context(), user.ID, req.Name, req.Email)
	if err != nil {
		respond.Error(w, err)
		return
	}

	respond.JSON(w, http.StatusOK, map[string]any{
		"message": "Profile updated successfully",
		"user":    updated,
	})
}

type ChangePasswordRequest struct {
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword"`
}

func (h *AuthHandler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.CurrentUser(r.Context())
	if !ok {
		respond.Error(w, domain.ErrInvalidToken)
		return
	}

	var req ChangePasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.Error(w, fmt.Errorf("%w: malformed request body", domain.ErrInvalidInput))
		return
	}
	if req.CurrentPassword == "" || req.NewPassword == "" {
		respond.Error(w, fmt.Errorf("%w: current password and new password are required", domain.ErrInvalidInput))
		return
	}

	if err := h.users.ChangePassword(r.Context(), user.ID, req.CurrentPassword, req.NewPassword); err != nil {
		respond.Error(w, err)
		return
	}

	respond.JSON(w, http.StatusOK, map[string]string{"message": "Password changed successfully"})
}

// Verify lets the front end check session validity at load time. The
// auth gate has already resolved the account, so reaching this handler
// means the token is good.
func (h *AuthHandler) Verify(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.CurrentUser(r.Context())
	if !ok {
		respond.Error(w, domain.ErrInvalidToken)
		return
	}

	respond.JSON(w, http.StatusOK, map[string]any{
		"valid": true,
		"user":  user,
	})
}

// Logout is client-side only: tokens are stateless and there is no
// server-side denylist, a deliberate trade-off.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	respond.JSON(w, http.StatusOK, map[string]string{"message": "Logged out successfully"})
}
