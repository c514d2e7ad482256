package sqlstore

import (
	"context"

	"github.com/avolkov/ipod-store/internal/domain"
	"github.com/avolkov/ipod-store/internal/repository"
	"gorm.io/gorm"
)

type productRepository struct {
	db *gorm.DB
}

func NewProductRepository(db *gorm.DB) *productRepository {
	return &productRepository{db: db}
}

func (r *productRepository) Create(ctx context.Context, product *domain.Product) error {
	return r.db.WithContext(ctx).Create(product).Error
}

func (r *productRepository) GetByID(ctx context.Context, id uint) (*domain.Product, error) {
	var product domain.Product
	if err := r.db.WithContext(ctx).First(&product, id).Error; err != nil {
		return nil, err
	}
	return &product, nil
}

func (r *productRepository) List(ctx context.Context) ([]*domain.Product, error) {
	var products []*domain.Product
	err := r.db.WithContext(ctx).
		Order("created_at DESC, id DESC").
		Find(&products).Error
	if err != nil {
		return nil, err
	}
	return products, nil
}

func (r *productRepository) ListByCategory(ctx context.Context, category string) ([]*domain.Product, error) {
	var products []*domain.Product
	err := r.db.WithContext(ctx).
		Where("category = ?", category).
		Order("created_at DESC, id DESC").
		Find(&products).Error
	if err != nil {
		return nil, err
	}
	return products, nil
}

func (r *productRepository) Search(ctx context.Context, query string) ([]*domain.Product, error) {
	pattern := "%" + query + "%"
	var products []*domain.Product
	err := r.db.WithContext(ctx).
		Where("title LIKE ? OR description LIKE ?", pattern, pattern).
		Order("created_at DESC, id DESC").
		Find(&products).Error
	if err != nil {
		return nil, err
	}
	return products, nil
}

func (r *productRepository) Update(ctx context.Context, product *domain.Product) error {
	return r.db.WithContext(ctx).Save(product).Error
}

func (r *productRepository) Delete(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Delete(&domain.Product{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *productRepository) CategoryStats(ctx context.Context) ([]repository.CategoryStat, error) {
	var stats []repository.CategoryStat
	err := r.db.WithContext(ctx).
		Model(&domain.Product{}).
		Select("category, COUNT(*) AS count, SUM(CASE WHEN in_stock THEN 1 ELSE 0 END) AS in_stock_count, AVG(price) AS avg_price").
		Group("category").
		Order("category").
		Scan(&stats).Error
	if err != nil {
		return nil, err
	}
	return stats, nil
}
