package testutil

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/avolkov/ipod-store/internal/domain"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// UserBuilder creates test users with a builder pattern
type UserBuilder struct {
	email    string
	password string
	name     string
	role     domain.Role
	active   bool
}

// NewUserBuilder creates a new UserBuilder with default values
func NewUserBuilder() *UserBuilder {
	return &UserBuilder{
		email:    fmt.Sprintf("user_%s@example.com", uuid.New().String()[:8]),
		password: "testpassword123",
		role:     domain.RoleUser,
		active:   true,
	}
}

func (b *UserBuilder) WithEmail(email string) *UserBuilder {
	b.email = email
	return b
}

func (b *UserBuilder) WithPassword(password string) *UserBuilder {
	b.password = password
	return b
}

func (b *UserBuilder) WithName(name string) *UserBuilder {
	b.name = name
	return b
}

func (b *UserBuilder) WithRole(role domain.Role) *UserBuilder {
	b.role = role
	return b
}

func (b *UserBuilder) Inactive() *UserBuilder {
	b.active = false
	return b
}

// Build creates the user in the database and returns it along with the
// raw password.
func (b *UserBuilder) Build(t *testing.T, db *gorm.DB) (*domain.User, string) {
	t.Helper()

	hashed, err := bcrypt.GenerateFromPassword([]byte(b.password), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}

	user := &domain.User{
		Email:        b.email,
		PasswordHash: string(hashed),
		Name:         b.name,
		Role:         b.role,
		Active:       b.active,
		CreatedAt:    time.Now(),
	}

	if err := db.Create(user).Error; err != nil {
		t.Fatalf("failed to create user: %v", err)
	}

	return user, b.password
}

// LoginResponse matches the API login response
type LoginResponse struct {
	User  *domain.User `json:"user"`
	Token string       `json:"token"`
}

// BuildAndLogin creates the user directly in the database, then logs in
// through the API. This is the only way to obtain a token for admin or
// inactive fixtures, which cannot be created through registration.
func (b *UserBuilder) BuildAndLogin(t *testing.T, ts *TestServer) (*domain.User, string) {
	t.Helper()

	user, password := b.Build(t, ts.DB.DB)
	return user, Login(t, ts, user.Email, password)
}

// Login authenticates through the API and returns the session token.
func Login(t *testing.T, ts *TestServer, email, password string) string {
	t.Helper()

	body, _ := json.Marshal(map[string]string{"email": email, "password": password})
	resp, err := http.Post(ts.APIURL("/auth/login"), "application/json", bytes.NewBuffer(body))
	if err != nil {
		t.Fatalf("failed to log in: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("unexpected login status: %d", resp.StatusCode)
	}

	var loginResp LoginResponse
	if err := json.NewDecoder(resp.Body).Decode(&loginResp); err != nil {
		t.Fatalf("failed to decode login response: %v", err)
	}
	return loginResp.Token
}

// ProductBuilder creates test products
type ProductBuilder struct {
	title       string
	description string
	price       float64
	category    string
	inStock     bool
}

// NewProductBuilder creates a new ProductBuilder with default values
func NewProductBuilder() *ProductBuilder {
	return &ProductBuilder{
		title:       fmt.Sprintf("Test Product %s", uuid.New().String()[:8]),
		description: "A product used in tests",
		price:       199.99,
		category:    "ipod",
		inStock:     true,
	}
}

func (b *ProductBuilder) WithTitle(title string) *ProductBuilder {
	b.title = title
	return b
}

func (b *ProductBuilder) WithDescription(description string) *ProductBuilder {
	b.description = description
	return b
}

func (b *ProductBuilder) WithPrice(price float64) *ProductBuilder {
	b.price = price
	return b
}

func (b *ProductBuilder) WithCategory(category string) *ProductBuilder {
	b.category = category
	return b
}

func (b *ProductBuilder) OutOfStock() *ProductBuilder {
	b.inStock = false
	return b
}

// Build creates the product in the database
func (b *ProductBuilder) Build(t *testing.T, db *gorm.DB) *domain.Product {
	t.Helper()

	product := &domain.Product{
		Title:       b.title,
		Description: b.description,
		Price:       b.price,
		Category:    b.category,
		InStock:     b.inStock,
		CreatedAt:   time.Now(),
	}

	if err := db.Create(product).Error; err != nil {
		t.Fatalf("failed to create product: %v", err)
	}

	return product
}

// CreateAuthenticatedRequest creates an HTTP request with auth token
func CreateAuthenticatedRequest(t *testing.T, method, url string, body interface{}, token string) *http.Request {
	t.Helper()

	var bodyReader *bytes.Buffer
	if body != nil {
		jsonBody, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("failed to marshal body: %v", err)
		}
		bodyReader = bytes.NewBuffer(jsonBody)
	} else {
		bodyReader = bytes.NewBuffer(nil)
	}

	req, err := http.NewRequestWithContext(context.Background(), method, url, bodyReader)
	if err != nil {
		t.Fatalf("failed to create request: %v", err)
	}

	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	return req
}

// DoAuthenticatedRequest builds, sends and returns the response for an
// authenticated request.
func DoAuthenticatedRequest(t *testing.T, method, url string, body interface{}, token string) *http.Response {
	t.Helper()

	req := CreateAuthenticatedRequest(t, method, url, body, token)
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	return resp
}
