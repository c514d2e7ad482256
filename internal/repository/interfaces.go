package repository

import (
	"context"
	"time"

	"github.com/avolkov/ipod-store/internal/domain"
)

type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, id uint) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	List(ctx context.Context) ([]*domain.User, error)
	UpdateProfile(ctx context.Context, id uint, name, email string) error
	UpdatePasswordHash(ctx context.Context, id uint, hash string) error
	UpdateLastLogin(ctx context.Context, id uint, at time.Time) error
	SetRole(ctx context.Context, id uint, role domain.Role) error
	SetActive(ctx context.Context, id uint, active bool) error
}

// CategoryStat is an aggregate over products in one category.
type CategoryStat struct {
	Category     string  `json:"category"`
	Count        int64   `json:"count"`
	InStockCount int64   `json:"inStockCount"`
	AvgPrice     float64 `json:"avgPrice"`
}

type ProductRepository interface {
	Create(ctx context.Context, product *domain.Product) error
	GetByID(ctx context.Context, id uint) (*domain.Product, error)
	List(ctx context.Context) ([]*domain.Product, error)
	ListByCategory(ctx context.Context, category string) ([]*domain.Product, error)
	Search(ctx context.Context, query string) ([]*domain.Product, error)
	Update(ctx context.Context, product *domain.Product) error
	Delete(ctx context.Context, id uint) error
	CategoryStats(ctx context.Context) ([]CategoryStat, error)
}

type Repositories struct {
	Users    UserRepository
	Products ProductRepository
}
