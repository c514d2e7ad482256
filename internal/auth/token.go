package auth

import (
	"fmt"
	"strconv"
	"time"

	"github.com/avolkov/ipod-store/internal/domain"
	"github.com/golang-jwt/jwt/v5"
)

// DefaultTokenTTL applies when no lifetime is configured.
const DefaultTokenTTL = 7 * 24 * time.Hour

// Claims is the identity payload embedded in a session token.
type Claims struct {
	jwt.RegisteredClaims
	UserID uint        `json:"uid"`
	Email  string      `json:"email"`
	Role   domain.Role `json:"role"`
	Name   string      `json:"name,omitempty"`
}

// TokenService issues and verifies signed, time-limited session tokens.
// It holds no persisted state: a token is valid until its expiry elapses
// or the signing secret changes. Revocation before expiry is the auth
// gate's job, which re-checks the account on every request.
type TokenService struct {
	secret []byte
	ttl    time.Duration
}

func NewTokenService(secret []byte, ttl time.Duration) *TokenService {
	if ttl == 0 {
		ttl = DefaultTokenTTL
	}
	return &TokenService{secret: secret, ttl: ttl}
}

func (s *TokenService) Issue(user *domain.User) (string, error) {
	return s.IssueWithTTL(user, s.ttl)
}

func (s *TokenService) IssueWithTTL(user *domain.User, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatUint(uint64(user.ID), 10),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
		UserID: user.ID,
		Email:  user.Email,
		Role:   user.Role,
		Name:   user.Name,
	}

	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
}

// Verify parses and validates a token string. Malformed, forged and
// expired tokens all map to domain.ErrInvalidToken.
func (s *TokenService) Verify(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidToken, err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, domain.ErrInvalidToken
	}
	return claims, nil
}
