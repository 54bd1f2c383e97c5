package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/devlog-hq/devlog/internal/api/handler"
	"github.com/devlog-hq/devlog/internal/auth/revocation"
	"github.com/devlog-hq/devlog/internal/auth/token"
	"github.com/devlog-hq/devlog/internal/core/domain"
)

func issueToken(t *testing.T, m *token.Manager) (string, *token.Claims) {
	t.Helper()
	signed, claims, err := m.Issue(&domain.User{ID: 7, Username: "alice", Email: "alice@example.com"})
	if err != nil {
		t.Fatalf("issue token: %v", err)
	}
	return signed, claims
}

func TestAuthMiddleware_ValidCookie(t *testing.T) {
	e := echo.New()
	tokens := token.NewManager("secret", time.Hour, revocation.NewMemoryRegistry())
	signed, claims := issueToken(t, tokens)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: handler.SessionCookieName, Value: signed})
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	called := false
	mw := Auth(tokens)
	h := mw(func(c echo.Context) error {
		called = true
		if c.Get(handler.CtxUserID) != int64(7) {
			t.Fatalf("user_id not set")
		}
		if c.Get(handler.CtxUsername) != "alice" {
			t.Fatalf("username not set")
		}
		if c.Get(handler.CtxEmail) != "alice@example.com" {
			t.Fatalf("email not set")
		}
		if c.Get(handler.CtxTokenID) != claims.ID {
			t.Fatalf("jti not set")
		}
		if _, ok := c.Get(handler.CtxTokenExpires).(time.Time); !ok {
			t.Fatalf("token expiry not set")
		}
		return c.NoContent(http.StatusOK)
	})

	if err := h(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if !called {
		t.Fatalf("next not called")
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func runRejected(t *testing.T, tokens *token.Manager, req *http.Request) {
	t.Helper()
	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	mw := Auth(tokens)
	h := mw(func(c echo.Context) error {
		t.Fatalf("should not reach next")
		return nil
	})

	if err := h(c); err != nil {
		e.HTTPErrorHandler(err, c)
	}
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

func TestAuthMiddleware_MissingCookie(t *testing.T) {
	tokens := token.NewManager("secret", time.Hour, revocation.NewMemoryRegistry())
	runRejected(t, tokens, httptest.NewRequest(http.MethodGet, "/", nil))
}

func TestAuthMiddleware_GarbageToken(t *testing.T) {
	tokens := token.NewManager("secret", time.Hour, revocation.NewMemoryRegistry())
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: handler.SessionCookieName, Value: "not-a-token"})
	runRejected(t, tokens, req)
}

func TestAuthMiddleware_WrongSecret(t *testing.T) {
	registry := revocation.NewMemoryRegistry()
	other := token.NewManager("different", time.Hour, registry)
	signed, _ := issueToken(t, other)

	tokens := token.NewManager("secret", time.Hour, registry)
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: handler.SessionCookieName, Value: signed})
	runRejected(t, tokens, req)
}

// A revoked token must be rejected at the guard, with the same 401 as every
// other failure mode.
func TestAuthMiddleware_RevokedToken(t *testing.T) {
	registry := revocation.NewMemoryRegistry()
	tokens := token.NewManager("secret", time.Hour, registry)
	signed, claims := issueToken(t, tokens)

	if err := registry.Revoke(context.Background(), claims.ID, time.Hour); err != nil {
		t.Fatalf("revoke failed: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: handler.SessionCookieName, Value: signed})
	runRejected(t, tokens, req)
}
