package auth_test

import (
	"testing"
	"time"

	"github.com/avolkov/ipod-store/internal/auth"
	"github.com/avolkov/ipod-store/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testUser() *domain.User {
	return &domain.User{
		ID:     42,
		Email:  "alice@example.com",
		Name:   "Alice",
		Role:   domain.RoleUser,
		Active: true,
	}
}

func TestTokenService_RoundTrip(t *testing.T) {
	tokens := auth.NewTokenService([]byte("secret"), time.Hour)

	token, err := tokens.Issue(testUser())
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := tokens.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, uint(42), claims.UserID)
	assert.Equal(t, "alice@example.com", claims.Email)
	assert.Equal(t, domain.RoleUser, claims.Role)
	assert.Equal(t, "Alice", claims.Name)
}

func TestTokenService_Expired(t *testing.T) {
	tokens := auth.NewTokenService([]byte("secret"), time.Hour)

	token, err := tokens.IssueWithTTL(testUser(), -time.Minute)
	require.NoError(t, err)

	_, err = tokens.Verify(token)
	assert.ErrorIs(t, err, domain.ErrInvalidToken)
}

func TestTokenService_WrongSecret(t *testing.T) {
	issuer := auth.NewTokenService([]byte("secret-a"), time.Hour)
	verifier := auth.NewTokenService([]byte("secret-b"), time.Hour)

	token, err := issuer.Issue(testUser())
	require.NoError(t, err)

	_, err = verifier.Verify(token)
	assert.ErrorIs(t, err, domain.ErrInvalidToken)
}

func TestTokenService_Malformed(t *testing.T) {
	tokens := auth.NewTokenService([]byte("secret"), time.Hour)

	tests := []struct {
		name  string
		token string
	}{
		{name: "empty", token: ""},
		{name: "garbage", token: "notavalidjwt"},
		{name: "wrong segment count", token: "a.b"},
		{name: "unsigned", token: "eyJhbGciOiJub25lIn0.eyJ1aWQiOjQyfQ."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tokens.Verify(tt.token)
			assert.ErrorIs(t, err, domain.ErrInvalidToken)
		})
	}
}

func TestNewTokenService_DefaultTTL(t *testing.T) {
	tokens := auth.NewTokenService([]byte("secret"), 0)

	token, err := tokens.Issue(testUser())
	require.NoError(t, err)

	claims, err := tokens.Verify(token)
	require.NoError(t, err)

	expected := time.Now().Add(auth.DefaultTokenTTL)
	assert.WithinDuration(t, expected, claims.ExpiresAt.Time, time.Minute)
}
