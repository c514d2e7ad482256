package sqlstore

import (
	"context"
	"time"

	"github.com/avolkov/ipod-store/internal/domain"
	"gorm.io/gorm"
)

type userRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *userRepository {
	return &userRepository{db: db}
}

func (r *userRepository) Create(ctx context.Context, user *domain.User) error {
	return r.db.WithContext(ctx).Create(user).Error
}

func (r *userRepository) GetByID(ctx context.Context, id uint) (*domain.User, error) {
	var user domain.User
	if err := r.db.WithContext(ctx).First(&user, id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	var user domain.User
	err := r.db.WithContext(ctx).
		Where("email = ?", email).
		First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) List(ctx context.Context) ([]*domain.User, error) {
	var users []*domain.User
	err := r.db.WithContext(ctx).
		Order("created_at DESC, id DESC").
		Find(&users).Error
	if err != nil {
		return nil, err
	}
	return users, nil
}

func (r *userRepository) UpdateProfile(ctx context.Context, id uint, name, email string) error {
	return r.updateColumns(ctx, id, map[string]any{"name": name, "email": email})
}

func (r *userRepository) UpdatePasswordHash(ctx context.Context, id uint, hash string) error {
	return r.updateColumns(ctx, id, map[string]any{"password_hash": hash})
}

func (r *userRepository) UpdateLastLogin(ctx context.Context, id uint, at time.Time) error {
	return r.updateColumns(ctx, id, map[string]any{"last_login_at": at})
}

func (r *userRepository) SetRole(ctx context.Context, id uint, role domain.Role) error {
	return r.updateColumns(ctx, id, map[string]any{"role": role})
}

func (r *userRepository) SetActive(ctx context.Context, id uint, active bool) error {
	return r.updateColumns(ctx, id, map[string]any{"active": active})
}

// updateColumns performs a single-statement column update, which both
// backends apply atomically.
func (r *userRepository) updateColumns(ctx context.Context, id uint, cols map[string]any) error {
	res := r.db.WithContext(ctx).
		Model(&domain.User{}).
		Where("id = ?", id).
		Updates(cols)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
