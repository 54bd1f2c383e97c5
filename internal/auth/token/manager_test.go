package token

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/devlog-hq/devlog/internal/auth/revocation"
	"github.com/devlog-hq/devlog/internal/core/domain"
)

func testUser() *domain.User {
	return &domain.User{ID: 42, Username: "alice", Email: "alice@example.com"}
}

func TestManager_IssueAndVerify(t *testing.T) {
	m := NewManager("secret", time.Hour, revocation.NewMemoryRegistry())

	signed, issued, err := m.Issue(testUser())
	if err != nil {
		t.Fatalf("issue failed: %v", err)
	}
	if issued.ID == "" {
		t.Fatalf("expected jti to be set")
	}

	claims, err := m.Verify(context.Background(), signed)
	if err != nil {
		t.Fatalf("verify failed: %v", err)
	}
	userID, err := claims.UserID()
	if err != nil || userID != 42 {
		t.Fatalf("expected subject 42, got %d (err %v)", userID, err)
	}
	if claims.Username != "alice" || claims.Email != "alice@example.com" {
		t.Fatalf("unexpected claims: %+v", claims)
	}
	if claims.ID != issued.ID {
		t.Fatalf("jti changed between issue and verify")
	}
}

func TestManager_Verify_WrongSecret(t *testing.T) {
	registry := revocation.NewMemoryRegistry()
	m := NewManager("secret", time.Hour, registry)
	other := NewManager("different", time.Hour, registry)

	signed, _, err := m.Issue(testUser())
	if err != nil {
		t.Fatalf("issue failed: %v", err)
	}

	if _, err := other.Verify(context.Background(), signed); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}

func TestManager_Verify_Tampered(t *testing.T) {
	m := NewManager("secret", time.Hour, revocation.NewMemoryRegistry())

	signed, _, err := m.Issue(testUser())
	if err != nil {
		t.Fatalf("issue failed: %v", err)
	}

	tampered := signed[:len(signed)-2] + "xx"
	if _, err := m.Verify(context.Background(), tampered); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
	if _, err := m.Verify(context.Background(), "not-a-token"); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken for garbage, got %v", err)
	}
}

// Tokens signed with alg=none must never pass, even with a valid payload.
func TestManager_Verify_RejectsUnsignedAlg(t *testing.T) {
	m := NewManager("secret", time.Hour, revocation.NewMemoryRegistry())

	unsigned := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.MapClaims{"sub": "42"})
	signed, err := unsigned.SignedString(jwt.UnsafeAllowNoneSignatureType)
	if err != nil {
		t.Fatalf("sign failed: %v", err)
	}

	if _, err := m.Verify(context.Background(), signed); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}

func TestManager_Verify_Expired(t *testing.T) {
	m := NewManager("secret", time.Hour, revocation.NewMemoryRegistry())
	m.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }

	signed, _, err := m.Issue(testUser())
	if err != nil {
		t.Fatalf("issue failed: %v", err)
	}

	// Verification happens at real time, two hours after the backdated
	// issue; the one-hour TTL has passed.
	if _, err := m.Verify(context.Background(), signed); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken for expired token, got %v", err)
	}
}

func TestManager_Verify_Revoked(t *testing.T) {
	registry := revocation.NewMemoryRegistry()
	m := NewManager("secret", time.Hour, registry)

	signed, claims, err := m.Issue(testUser())
	if err != nil {
		t.Fatalf("issue failed: %v", err)
	}

	if _, err := m.Verify(context.Background(), signed); err != nil {
		t.Fatalf("verify before revocation failed: %v", err)
	}

	if err := registry.Revoke(context.Background(), claims.ID, time.Hour); err != nil {
		t.Fatalf("revoke failed: %v", err)
	}

	if _, err := m.Verify(context.Background(), signed); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken after revocation, got %v", err)
	}
}

func TestManager_IssuesUniqueIdentifiers(t *testing.T) {
	m := NewManager("secret", time.Hour, revocation.NewMemoryRegistry())

	_, first, err := m.Issue(testUser())
	if err != nil {
		t.Fatalf("issue failed: %v", err)
	}
	_, second, err := m.Issue(testUser())
	if err != nil {
		t.Fatalf("issue failed: %v", err)
	}
	if first.ID == second.ID {
		t.Fatalf("expected distinct jtis, both %s", first.ID)
	}
}
