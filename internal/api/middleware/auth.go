package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/devlog-hq/devlog/internal/api/handler"
	"github.com/devlog-hq/devlog/internal/auth/token"
)

// Auth extracts the session cookie, verifies it through the token manager
// (signature, expiry, revocation) and injects the identity into the echo
// context. Every failure mode gets the same 401 so a caller cannot tell a
// revoked token from a forged one.
func Auth(tokens *token.Manager) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			cookie, err := c.Cookie(handler.SessionCookieName)
			if err != nil || cookie.Value == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "authentication required")
			}

			claims, err := tokens.Verify(c.Request().Context(), cookie.Value)
			if err != nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "authentication required")
			}

			userID, err := claims.UserID()
			if err != nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "authentication required")
			}

			c.Set(handler.CtxUserID, userID)
			c.Set(handler.CtxUsername, claims.Username)
			c.Set(handler.CtxEmail, claims.Email)
			c.Set(handler.CtxTokenID, claims.ID)
			c.Set(handler.CtxTokenExpires, claims.ExpiresAt.Time)

			return next(c)
		}
	}
}
