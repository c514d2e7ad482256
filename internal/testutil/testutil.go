package testutil

import (
	"fmt"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/avolkov/ipod-store/internal/api"
	"github.com/avolkov/ipod-store/internal/config"
	"github.com/avolkov/ipod-store/internal/domain"
	"github.com/avolkov/ipod-store/internal/repository"
	"github.com/avolkov/ipod-store/internal/repository/sqlstore"
	"github.com/avolkov/ipod-store/internal/service"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// TestDB wraps an in-memory SQLite database, the same engine the server
// runs by default. Each test gets its own uniquely named database.
type TestDB struct {
	DB *gorm.DB
}

func NewTestDB(t *testing.T) *TestDB {
	t.Helper()

	dsn := fmt.Sprintf("file:test_%s?mode=memory&cache=shared", uuid.New().String())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	// Run migrations
	if err := db.AutoMigrate(&domain.User{}, &domain.Product{}); err != nil {
		t.Fatalf("failed to run migrations: %v", err)
	}

	return &TestDB{DB: db}
}

// Truncate clears all tables for test isolation
func (tdb *TestDB) Truncate(t *testing.T) {
	t.Helper()

	for _, table := range []string{"products", "users"} {
		if err := tdb.DB.Exec("DELETE FROM " + table).Error; err != nil {
			t.Logf("warning: failed to truncate %s: %v", table, err)
		}
	}
}

// TestConfig returns a configuration suitable for testing
func TestConfig() *config.Config {
	return &config.Config{
		Port:           "0",
		Environment:    "test",
		AllowedOrigins: []string{"*"},
		StorageTimeout: 5 * time.Second,
		JWTSecret:      "test-jwt-secret-key-for-testing-only",
		TokenTTL:       time.Hour,
		BcryptCost:     bcrypt.MinCost, // keep hashing fast in tests
		AdminEmail:     "admin@test.local",
		AdminPassword:  "admin-test-password",
	}
}

// TestServer holds all components for integration testing
type TestServer struct {
	Server   *httptest.Server
	DB       *TestDB
	Repos    *repository.Repositories
	Services *service.Services
	Config   *config.Config
}

// NewTestServer creates a complete test server with all dependencies
func NewTestServer(t *testing.T) *TestServer {
	t.Helper()

	testDB := NewTestDB(t)
	cfg := TestConfig()

	repos := sqlstore.NewRepositories(testDB.DB)
	services := service.NewServices(repos, cfg)
	router := api.NewRouter(services, cfg)

	server := httptest.NewServer(router)

	ts := &TestServer{
		Server:   server,
		DB:       testDB,
		Repos:    repos,
		Services: services,
		Config:   cfg,
	}

	t.Cleanup(func() {
		server.Close()
	})

	return ts
}

// APIURL returns the full API URL for a given path
func (ts *TestServer) APIURL(path string) string {
	return fmt.Sprintf("%s/api%s", ts.Server.URL, path)
}
