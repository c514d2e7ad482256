package sqlstore_test

import (
	"context"
	"testing"
	"time"

	"github.com/avolkov/ipod-store/internal/domain"
	"github.com/avolkov/ipod-store/internal/repository"
	"github.com/avolkov/ipod-store/internal/repository/sqlstore"
	"github.com/avolkov/ipod-store/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newRepos(t *testing.T) (*repository.Repositories, *testutil.TestDB) {
	t.Helper()

	testDB := testutil.NewTestDB(t)
	return sqlstore.NewRepositories(testDB.DB), testDB
}

func TestUserRepository_UniqueEmail(t *testing.T) {
	repos, _ := newRepos(t)
	ctx := context.Background()

	first := &domain.User{Email: "dup@example.com", PasswordHash: "hash-a", Role: domain.RoleUser, Active: true}
	require.NoError(t, repos.Users.Create(ctx, first))

	second := &domain.User{Email: "dup@example.com", PasswordHash: "hash-b", Role: domain.RoleUser, Active: true}
	err := repos.Users.Create(ctx, second)
	assert.ErrorIs(t, err, gorm.ErrDuplicatedKey)
}

func TestUserRepository_GetByEmail(t *testing.T) {
	repos, testDB := newRepos(t)
	ctx := context.Background()

	created, _ := testutil.NewUserBuilder().WithEmail("lookup@example.com").Build(t, testDB.DB)

	got, err := repos.Users.GetByEmail(ctx, "lookup@example.com")
	require.NoError(t, err)
	assert.Equal(t, created.ID, got.ID)

	_, err = repos.Users.GetByEmail(ctx, "missing@example.com")
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestUserRepository_UpdatesUnknownID(t *testing.T) {
	repos, _ := newRepos(t)
	ctx := context.Background()

	tests := []struct {
		name string
		op   func() error
	}{
		{name: "password hash", op: func() error { return repos.Users.UpdatePasswordHash(ctx, 99999, "hash") }},
		{name: "role", op: func() error { return repos.Users.SetRole(ctx, 99999, domain.RoleAdmin) }},
		{name: "active flag", op: func() error { return repos.Users.SetActive(ctx, 99999, false) }},
		{name: "last login", op: func() error { return repos.Users.UpdateLastLogin(ctx, 99999, time.Now()) }},
		{name: "profile", op: func() error { return repos.Users.UpdateProfile(ctx, 99999, "Name", "x@example.com") }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.ErrorIs(t, tt.op(), gorm.ErrRecordNotFound)
		})
	}
}

func TestUserRepository_UpdatePasswordHash(t *testing.T) {
	repos, testDB := newRepos(t)
	ctx := context.Background()

	user, _ := testutil.NewUserBuilder().Build(t, testDB.DB)

	require.NoError(t, repos.Users.UpdatePasswordHash(ctx, user.ID, "new-hash"))

	got, err := repos.Users.GetByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "new-hash", got.PasswordHash)
}

func TestUserRepository_UpdateLastLogin(t *testing.T) {
	repos, testDB := newRepos(t)
	ctx := context.Background()

	user, _ := testutil.NewUserBuilder().Build(t, testDB.DB)
	require.Nil(t, user.LastLoginAt)

	at := time.Now()
	require.NoError(t, repos.Users.UpdateLastLogin(ctx, user.ID, at))

	got, err := repos.Users.GetByID(ctx, user.ID)
	require.NoError(t, err)
	require.NotNil(t, got.LastLoginAt)
	assert.WithinDuration(t, at, *got.LastLoginAt, time.Second)
}
