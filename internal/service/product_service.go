package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/avolkov/ipod-store/internal/domain"
	"github.com/avolkov/ipod-store/internal/repository"
	"gorm.io/gorm"
)

type ProductService struct {
	products repository.ProductRepository
}

func NewProductService(products repository.ProductRepository) *ProductService {
	return &ProductService{products: products}
}

type ProductInput struct {
	Title       string
	Description string
	Price       float64
	Category    string
	Image       string
	InStock     *bool
}

func (in ProductInput) validate() error {
	if in.Title == "" || in.Description == "" || in.Category == "" {
		return fmt.Errorf("%w: title, description and category are required", domain.ErrInvalidInput)
	}
	if in.Price <= 0 {
		return fmt.Errorf("%w: price must be a positive number", domain.ErrInvalidInput)
	}
	return nil
}

func (in ProductInput) inStock() bool {
	if in.InStock == nil {
		return true
	}
	return *in.InStock
}

func (s *ProductService) Create(ctx context.Context, input ProductInput) (*domain.Product, error) {
	if err := input.validate(); err != nil {
		return nil, err
	}

	product := &domain.Product{
		Title:       input.Title,
		Description: input.Description,
		Price:       input.Price,
		Category:    input.Category,
		Image:       input.Image,
		InStock:     input.inStock(),
	}
	if err := s.products.Create(ctx, product); err != nil {
		return nil, err
	}
	return product, nil
}

func (s *ProductService) Get(ctx context.Context, id uint) (*domain.Product, error) {
	product, err := s.products.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrProductNotFound
		}
		return nil, err
	}
	return product, nil
}

func (s *ProductService) List(ctx context.Context) ([]*domain.Product, error) {
	return s.products.List(ctx)
}

func (s *ProductService) ListByCategory(ctx context.Context, category string) ([]*domain.Product, error) {
	return s.products.ListByCategory(ctx, category)
}

func (s *ProductService) Search(ctx context.Context, query string) ([]*domain.Product, error) {
	if strings.TrimSpace(query) == "" {
		return nil, fmt.Errorf("%w: search query is required", domain.ErrInvalidInput)
	}
	return s.products.Search(ctx, query)
}

func (s *ProductService) Update(ctx context.Context, id uint, input ProductInput) (*domain.Product, error) {
	if err := input.validate(); err != nil {
		return nil, err
	}

	product, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	product.Title = input.Title
	product.Description = input.Description
	product.Price = input.Price
	product.Category = input.Category
	product.Image = input.Image
	product.InStock = input.inStock()

	if err := s.products.Update(ctx, product); err != nil {
		return nil, err
	}
	return product, nil
}

// Delete removes a product and returns the removed record.
func (s *ProductService) Delete(ctx context.Context, id uint) (*domain.Product, error) {
	product, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := s.products.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrProductNotFound
		}
		return nil, err
	}
	return product, nil
}

func (s *ProductService) CategoryStats(ctx context.Context) ([]repository.CategoryStat, error) {
	return s.products.CategoryStats(ctx)
}
