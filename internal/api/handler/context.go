package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
)

// Context keys populated by the Auth middleware.
const (
	CtxUserID       = "user_id"
	CtxUsername     = "username"
	CtxEmail        = "email"
	CtxTokenID      = "jti"
	CtxTokenExpires = "token_expires"
)

// ctxIdentity extracts the authenticated identity injected by the Auth
// middleware and fast-fails with 401 when it is absent, which means the
// route was registered without the guard.
func ctxIdentity(c echo.Context) (userID int64, err error) {
	userID, ok := c.Get(CtxUserID).(int64)
	if !ok || userID == 0 {
		return 0, echo.NewHTTPError(http.StatusUnauthorized, "missing authentication claims")
	}
	return userID, nil
}

// ctxToken extracts the token identifier and expiry of the presented
// credential, needed by operations that revoke it.
func ctxToken(c echo.Context) (jti string, expiresAt time.Time, err error) {
	jti, _ = c.Get(CtxTokenID).(string)
	expiresAt, _ = c.Get(CtxTokenExpires).(time.Time)
	if jti == "" || expiresAt.IsZero() {
		return "", time.Time{}, echo.NewHTTPError(http.StatusUnauthorized, "missing authentication claims")
	}
	return jti, expiresAt, nil
}
