package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/avolkov/ipod-store/internal/api/respond"
	"github.com/avolkov/ipod-store/internal/domain"
	"github.com/avolkov/ipod-store/internal/service"
	"github.com/go-chi/chi/v5"
)

type ProductHandler struct {
	products *service.ProductService
}

func NewProductHandler(products *service.ProductService) *ProductHandler {
	return &ProductHandler{products: products}
}

type ProductRequest struct {
	Title       string  `json:"title"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
	Category    string  `json:"category"`
	Image       string  `json:"image"`
	InStock     *bool   `json:"inStock"`
}

func (req ProductRequest) toInput() service.ProductInput {
	return service.ProductInput{
		Title:       req.Title,
		Description: req.Description,
		Price:       req.Price,
		Category:    req.Category,
		Image:       req.Image,
		InStock:     req.InStock,
	}
}

func (h *ProductHandler) List(w http.ResponseWriter, r *http.Request) {
	products, err := h.products.List(r.Context())
	if err != nil {
		respond.Error(w, err)
		return
	}
	respond.JSON(w, http.StatusOK, products)
}

func (h *ProductHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := productID(r)
	if err != nil {
		respond.Error(w, err)
		return
	}

	product, err := h.products.Get(r.Context(), id)
	if err != nil {
		respond.Error(w, err)
		return
	}
	respond.JSON(w, http.StatusOK, product)
}

func (h *ProductHandler) ByCategory(w http.ResponseWriter, r *http.Request) {
	category := chi.URLParam(r, "category")
	products, err := h.products.ListByCategory(r.Context(), category)
	if err != nil {
		respond.Error(w, err)
		return
	}
	respond.JSON(w, http.StatusOK, products)
}

func (h *ProductHandler) Search(w http.ResponseWriter, r *http.Request) {
	products, err := h.products.Search(r.Context(), r.URL.Query().Get("q"))
	if err != nil {
		respond.Error(w, err)
		return
	}
	respond.JSON(w, http.StatusOK, products)
}

func (h *ProductHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req ProductRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.Error(w, fmt.Errorf("%w: malformed request body", domain.ErrInvalidInput))
		return
	}

	product, err := h.products.Create(r.Context(), req.toInput())
	if err != nil {
		respond.Error(w, err)
		return
	}
	respond.JSON(w, http.StatusCreated, product)
}

func (h *ProductHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := productID(r)
	if err != nil {
		respond.Error(w, err)
		return
	}

	var req ProductRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.Error(w, fmt.Errorf("%w: malformed request body", domain.ErrInvalidInput))
		return
	}

	product, err := h.products.Update(r.Context(), id, req.toInput())
	if err != nil {
		respond.Error(w, err)
		return
	}
	respond.JSON(w, http.StatusOK, product)
}

func (h *ProductHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := productID(r)
	if err != nil {
		respond.Error(w, err)
		return
	}

	product, err := h.products.Delete(r.Context(), id)
	if err != nil {
		respond.Error(w, err)
		return
	}

	respond.JSON(w, http.StatusOK, map[string]any{
		"message": "Product deleted successfully",
		"product": product,
	})
}

func (h *ProductHandler) CategoryStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.products.CategoryStats(r.Context())
	if err != nil {
		respond.Error(w, err)
		return
	}
	respond.JSON(w, http.StatusOK, stats)
}

type CategoryResponse struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Count int64  `json:"count"`
}

// Categories derives the storefront category list from product stats.
func (h *ProductHandler) Categories(w http.ResponseWriter, r *http.Request) {
	stats, err := h.products.CategoryStats(r.Context())
	if err != nil {
		respond.Error(w, err)
		return
	}

	categories := make([]CategoryResponse, 0, len(stats))
	for _, stat := range stats {
		categories = append(categories, CategoryResponse{
			ID:    stat.Category,
			Name:  categoryDisplayName(stat.Category),
			Count: stat.Count,
		})
	}
	respond.JSON(w, http.StatusOK, categories)
}

// categoryDisplayName keeps the storefront labels the SPA expects.
func categoryDisplayName(category string) string {
	switch category {
	case "ipod":
		return "iPod"
	case "headphones":
		return "Headphones"
	default:
		if category == "" {
			return category
		}
		return strings.ToUpper(category[:1]) + category[1:]
	}
}

func productID(r *http.Request) (uint, error) {
	raw := chi.URLParam(r, "id")
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: invalid product id %q", domain.ErrInvalidInput, raw)
	}
	return uint(id), nil
}
