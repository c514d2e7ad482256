package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/avolkov/ipod-store/internal/api/middleware"
	"github.com/avolkov/ipod-store/internal/api/respond"
	"github.com/avolkov/ipod-store/internal/domain"
	"github.com/avolkov/ipod-store/internal/repository"
	"github.com/avolkov/ipod-store/internal/service"
	"github.com/go-chi/chi/v5"
)

type AdminHandler struct {
	users    *service.UserService
	products *service.ProductService
}

func NewAdminHandler(users *service.UserService, products *service.ProductService) *AdminHandler {
	return &AdminHandler{users: users, products: products}
}

type AdminStatsResponse struct {
	Products struct {
		Total      int64                     `json:"total"`
		ByCategory []repository.CategoryStat `json:"byCategory"`
	} `json:"products"`
	Users struct {
		Total  int `json:"total"`
		Admins int `json:"admins"`
		Active int `json:"active"`
	} `json:"users"`
}

func (h *AdminHandler) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.products.CategoryStats(r.Context())
	if err != nil {
		respond.Error(w, err)
		return
	}

	users, err := h.users.List(r.Context())
	if err != nil {
		respond.Error(w, err)
		return
	}

	var resp AdminStatsResponse
	resp.Products.ByCategory = stats
	for _, stat := range stats {
		resp.Products.Total += stat.Count
	}
	resp.Users.Total = len(users)
	for _, u := range users {
		if u.IsAdmin() {
			resp.Users.Admins++
		}
		if u.Active {
			resp.Users.Active++
		}
	}

	respond.JSON(w, http.StatusOK, resp)
}

func (h *AdminHandler) Users(w http.ResponseWriter, r *http.Request) {
	users, err := h.users.List(r.Context())
	if err != nil {
		respond.Error(w, err)
		return
	}
	respond.JSON(w, http.StatusOK, users)
}

type SetRoleRequest struct {
	Role domain.Role `json:"role"`
}

func (h *AdminHandler) SetRole(w http.ResponseWriter, r *http.Request) {
	id, err := userID(r)
	if err != nil {
		respond.Error(w, err)
		return
	}

	var req SetRoleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.Error(w, fmt.Errorf("%w: malformed request body", domain.ErrInvalidInput))
		return
	}

	user, err := h.users.SetRole(r.Context(), id, req.Role)
	if err != nil {
		respond.Error(w, err)
		return
	}

	respond.JSON(w, http.StatusOK, map[string]any{
		"message": "Role updated successfully",
		"user":    user,
	})
}

type SetActiveRequest struct {
	Active *bool `json:"isActive"`
}

func (h *AdminHandler) SetActive(w http.ResponseWriter, r *http.Request) {
	id, err := userID(r)
	if err != nil {
		respond.Error(w, err)
		return
	}

	var req SetActiveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Active == nil {
		respond.Error(w, fmt.Errorf("%w: isActive is required", domain.ErrInvalidInput))
		return
	}

	user, err := h.users.SetActive(r.Context(), id, *req.Active)
	if err != nil {
		respond.Error(w, err)
		return
	}

	respond.JSON(w, http.StatusOK, map[string]any{
		"message": "Account updated successfully",
		"user":    user,
	})
}

// ChangePassword rotates the calling administrator's own password.
func (h *AdminHandler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	admin, ok := middleware.CurrentUser(r.Context())
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

	if err := h.users.ChangePassword(r.Context(), admin.ID, req.CurrentPassword, req.NewPassword); err != nil {
		respond.Error(w, err)
		return
	}

	respond.JSON(w, http.StatusOK, map[string]string{"message": "Admin password changed successfully"})
}

func userID(r *http.Request) (uint, error) {
	raw := chi.URLParam(r, "id")
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: invalid user id %q", domain.ErrInvalidInput, raw)
	}
	return uint(id), nil
}
