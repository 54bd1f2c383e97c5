// Package token issues and verifies the signed session credential. A token
// is self-contained: the server stores nothing for active sessions, only the
// identifiers of revoked ones.
package token

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/devlog-hq/devlog/internal/auth/revocation"
	"github.com/devlog-hq/devlog/internal/core/domain"
)

// ErrInvalidToken covers every verification failure: malformed, bad
// signature, expired, or revoked. Callers must not distinguish between them.
var ErrInvalidToken = errors.New("invalid token")

// Claims is the session assertion: subject is the user id, jti is the unique
// token identifier checked against the revocation registry.
type Claims struct {
	Email    string `json:"email"`
	Username string `json:"username"`
	jwt.RegisteredClaims
}

// UserID parses the subject claim.
func (c *Claims) UserID() (int64, error) {
	id, err := strconv.ParseInt(c.Subject, 10, 64)
	if err != nil {
		return 0, ErrInvalidToken
	}
	return id, nil
}

// Manager signs and verifies session tokens with a server-held HS256 secret.
type Manager struct {
	secret   []byte
	ttl      time.Duration
	registry revocation.Registry
	now      func() time.Time
}

func NewManager(secret string, ttl time.Duration, registry revocation.Registry) *Manager {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &Manager{
		secret:   []byte(secret),
		ttl:      ttl,
		registry: registry,
		now:      time.Now,
	}
}

// TTL returns the configured session lifetime.
func (m *Manager) TTL() time.Duration {
	return m.ttl
}

// Issue mints a session token for user, valid for the configured TTL.
func (m *Manager) Issue(user *domain.User) (string, *Claims, error) {
	now := m.now().UTC()
	claims := &Claims{
		Email:    user.Email,
		Username: user.Username,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatInt(user.ID, 10),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.ttl)),
			ID:        uuid.NewString(),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
	if err != nil {
		return "", nil, err
	}
	return signed, claims, nil
}

// Verify parses and validates a token string. It rejects tokens with a
// non-HS256 signing method, an invalid signature, a past expiry, or an
// identifier present in the revocation registry.
func (m *Manager) Verify(ctx context.Context, tokenString string) (*Claims, error) {
	claims := &Claims{}
	parsed, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if t.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, jwt.ErrTokenSignatureInvalid
		}
		return m.secret, nil
	})
	if err != nil || !parsed.Valid {
		return nil, ErrInvalidToken
	}

	revoked, err := m.registry.IsRevoked(ctx, claims.ID)
	if err != nil {
		return nil, err
	}
	if revoked {
		return nil, ErrInvalidToken
	}

	return claims, nil
}
