package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/avolkov/ipod-store/internal/auth"
	"github.com/avolkov/ipod-store/internal/config"
	"github.com/avolkov/ipod-store/internal/domain"
	"github.com/avolkov/ipod-store/internal/repository"
	"gorm.io/gorm"
)

const minPasswordLength = 6

// UserService is the user directory: it owns account records and is the
// only component that touches password hashes, roles, active flags and
// login timestamps.
type UserService struct {
	users  repository.UserRepository
	hasher *auth.Hasher
	tokens *auth.TokenService
	store  storeCaller
	cfg    *config.Config

	mu    sync.Mutex
	locks map[uint]*sync.Mutex
}

func NewUserService(users repository.UserRepository, hasher *auth.Hasher, tokens *auth.TokenService, cfg *config.Config) *UserService {
	return &UserService{
		users:  users,
		hasher: hasher,
		tokens: tokens,
		store:  storeCaller{timeout: cfg.StorageTimeout},
		cfg:    cfg,
		locks:  make(map[uint]*sync.Mutex),
	}
}

// accountLock serializes read-modify-write cycles for one account.
// SQLite gives us atomic single statements but nothing across the
// verify-then-update window of a password change. The map keeps one
// mutex per account for the life of the process and is never pruned;
// a mutex is a few words, so even millions of accounts stay cheap.
func (s *UserService) accountLock(id uint) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()

	lock, ok := s.locks[id]
	if !ok {
		lock = &sync.Mutex{}
		s.locks[id] = lock
	}
	return lock
}

type RegisterInput struct {
	Email    string
	Password string
	Name     string
}

func (s *UserService) Register(ctx context.Context, input RegisterInput) (*domain.User, error) {
	email := strings.TrimSpace(input.Email)
	if email == "" {
		return nil, fmt.Errorf("%w: email is required", domain.ErrInvalidInput)
	}
	if len(input.Password) < minPasswordLength {
		return nil, domain.ErrWeakPassword
	}

	if _, err := s.getByEmail(ctx, email); err == nil {
		return nil, domain.ErrDuplicateEmail
	} else if !errors.Is(err, domain.ErrUserNotFound) {
		return nil, err
	}

	hash, err := s.hasher.Hash(input.Password)
	if err != nil {
		return nil, err
	}

	user := &domain.User{
		Email:        email,
		PasswordHash: hash,
		Name:         input.Name,
		Role:         domain.RoleUser,
		Active:       true,
	}
	err = s.store.call(ctx, func(c context.Context) error {
		return s.users.Create(c, user)
	})
	if err != nil {
		// Lost the race against a concurrent registration for the same
		// email; the unique index is the authority.
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, domain.ErrDuplicateEmail
		}
		return nil, err
	}
	return user, nil
}

// Authenticate verifies credentials and issues a session token. Unknown
// email, inactive account and wrong password are indistinguishable in
// the response. Response timing is not masked: failures that skip the
// bcrypt comparison return faster than a wrong password.
func (s *UserService) Authenticate(ctx context.Context, email, password string) (*domain.User, string, error) {
	user, err := s.getByEmail(ctx, strings.TrimSpace(email))
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, "", domain.ErrInvalidCredentials
		}
		return nil, "", err
	}

	if !user.Active || !s.hasher.Verify(password, user.PasswordHash) {
		return nil, "", domain.ErrInvalidCredentials
	}

	now := time.Now()
	err = s.store.call(ctx, func(c context.Context) error {
		return s.users.UpdateLastLogin(c, user.ID, now)
	})
	if err != nil {
		return nil, "", err
	}
	user.LastLoginAt = &now

	token, err := s.tokens.Issue(user)
	if err != nil {
		return nil, "", err
	}
	return user, token, nil
}

// ChangePassword swaps the stored hash after verifying the current
// password. The account lock keeps a concurrent change from verifying
// against a hash that is about to be replaced.
func (s *UserService) ChangePassword(ctx context.Context, userID uint, current, newPassword string) error {
	if len(newPassword) < minPasswordLength {
		return domain.ErrWeakPassword
	}

	lock := s.accountLock(userID)
	lock.Lock()
	defer lock.Unlock()

	user, err := s.GetByID(ctx, userID)
	if err != nil {
		return err
	}

	if !s.hasher.Verify(current, user.PasswordHash) {
		return domain.ErrInvalidCredentials
	}

	hash, err := s.hasher.Hash(newPassword)
	if err != nil {
		return err
	}

	return s.store.call(ctx, func(c context.Context) error {
		return s.users.UpdatePasswordHash(c, userID, hash)
	})
}

func (s *UserService) GetByID(ctx context.Context, id uint) (*domain.User, error) {
	var user *domain.User
	err := s.store.callWithRetry(ctx, func(c context.Context) error {
		var err error
		user, err = s.users.GetByID(c, id)
		return err
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}

// List returns all accounts, most recently created first, with password
// hashes blanked.
func (s *UserService) List(ctx context.Context) ([]*domain.User, error) {
	var users []*domain.User
	err := s.store.callWithRetry(ctx, func(c context.Context) error {
		var err error
		users, err = s.users.List(c)
		return err
	})
	if err != nil {
		return nil, err
	}
	for _, u := range users {
		u.PasswordHash = ""
	}
	return users, nil
}

// SetRole changes an account's access tier. Authorization is the auth
// gate's concern; there is deliberately no self-service path here.
func (s *UserService) SetRole(ctx context.Context, userID uint, role domain.Role) (*domain.User, error) {
	if !role.Valid() {
		return nil, fmt.Errorf("%w: unknown role %q", domain.ErrInvalidInput, role)
	}

	err := s.store.call(ctx, func(c context.Context) error {
		return s.users.SetRole(c, userID, role)
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrUserNotFound
		}
		return nil, err
	}
	return s.GetByID(ctx, userID)
}

// SetActive toggles the active flag. A deactivated account fails the
// auth gate's re-fetch on its next request, regardless of token expiry.
func (s *UserService) SetActive(ctx context.Context, userID uint, active bool) (*domain.User, error) {
	err := s.store.call(ctx, func(c context.Context) error {
		return s.users.SetActive(c, userID, active)
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrUserNotFound
		}
		return nil, err
	}
	return s.GetByID(ctx, userID)
}

// UpdateProfile changes name and/or email. Empty arguments keep the
// stored value.
func (s *UserService) UpdateProfile(ctx context.Context, userID uint, name, email string) (*domain.User, error) {
	name = strings.TrimSpace(name)
	email = strings.TrimSpace(email)
	if name == "" && email == "" {
		return nil, fmt.Errorf("%w: no data to update", domain.ErrInvalidInput)
	}

	user, err := s.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if name == "" {
		name = user.Name
	}
	if email == "" {
		email = user.Email
	}
	if email != user.Email {
		if _, err := s.getByEmail(ctx, email); err == nil {
			return nil, domain.ErrDuplicateEmail
		} else if !errors.Is(err, domain.ErrUserNotFound) {
			return nil, err
		}
	}

	err = s.store.call(ctx, func(c context.Context) error {
		return s.users.UpdateProfile(c, userID, name, email)
	})
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, domain.ErrDuplicateEmail
		}
		return nil, err
	}

	user.Name = name
	user.Email = email
	return user, nil
}

// ResolveToken verifies a session token and re-fetches the account from
// storage. The re-fetch is what makes deactivation and role changes
// take effect before the token expires. A missing or inactive account
// reads exactly like a bad token, so the response never leaks account
// lifecycle state.
func (s *UserService) ResolveToken(ctx context.Context, token string) (*domain.User, error) {
	claims, err := s.tokens.Verify(token)
	if err != nil {
		return nil, domain.ErrInvalidToken
	}

	user, err := s.GetByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.ErrInvalidToken
		}
		return nil, err
	}
	if !user.Active {
		return nil, domain.ErrInvalidToken
	}
	return user, nil
}

// EnsureAdmin guarantees the configured administrator account exists.
// It runs before the server accepts requests and any failure aborts
// startup: a store without an administrator is not worth serving.
func (s *UserService) EnsureAdmin(ctx context.Context) error {
	if s.cfg.AdminPassword == "" {
		return fmt.Errorf("admin bootstrap: password is not configured")
	}

	existing, err := s.getByEmail(ctx, s.cfg.AdminEmail)
	switch {
	case err == nil:
		if existing.Role != domain.RoleAdmin {
			return fmt.Errorf("admin bootstrap: account %s exists with role %q", s.cfg.AdminEmail, existing.Role)
		}
		return nil
	case !errors.Is(err, domain.ErrUserNotFound):
		return fmt.Errorf("admin bootstrap: %w", err)
	}

	hash, err := s.hasher.Hash(s.cfg.AdminPassword)
	if err != nil {
		return fmt.Errorf("admin bootstrap: %w", err)
	}

	admin := &domain.User{
		Email:        s.cfg.AdminEmail,
		PasswordHash: hash,
		Name:         "Administrator",
		Role:         domain.RoleAdmin,
		Active:       true,
	}
	err = s.store.call(ctx, func(c context.Context) error {
		return s.users.Create(c, admin)
	})
	if err != nil {
		return fmt.Errorf("admin bootstrap: %w", err)
	}

	log.Printf("admin bootstrap: created administrator account %s", s.cfg.AdminEmail)
	return nil
}

func (s *UserService) getByEmail(ctx context.Context, email string) (*domain.User, error) {
	var user *domain.User
	err := s.store.callWithRetry(ctx, func(c context.Context) error {
		var err error
		user, err = s.users.GetByEmail(c, email)
		return err
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}
