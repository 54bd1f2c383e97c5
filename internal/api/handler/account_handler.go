package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/devlog-hq/devlog/internal/core/ports"
)

// AccountHandler handles operations on the authenticated account itself.
type AccountHandler struct {
	authService ports.AuthService
}

func NewAccountHandler(authService ports.AuthService) *AccountHandler {
	return &AccountHandler{authService: authService}
}

// Whoami returns the identity of the authenticated caller.
//
// @Summary      Current user
// @Tags         account
// @Produce      json
// @Success      200  {object}  whoamiResponse
// @Failure      401  {object}  errorResponse
// @Router       /whoami [get]
func (h *AccountHandler) Whoami(c echo.Context) error {
	userID, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	user, err := h.authService.Whoami(c.Request().Context(), userID)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, whoamiResponse{
		UserID:   user.ID,
		Username: user.Username,
		Email:    user.Email,
	})
}

// ChangeUsername renames the authenticated account.
//
// @Summary      Change username
// @Tags         account
// @Accept       json
// @Produce      json
// @Param        body  body      changeUsernameRequest  true  "New username"
// @Success      200   {object}  messageResponse
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Router       /account/username [put]
func (h *AccountHandler) ChangeUsername(c echo.Context) error {
	userID, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	var req changeUsernameRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	if err := h.authService.ChangeUsername(c.Request().Context(), userID, req.Username); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, messageResponse{Message: "username updated"})
}

// ChangePassword replaces the account password after re-verifying both the
// current password and a fresh TOTP code.
//
// @Summary      Change password
// @Tags         account
// @Accept       json
// @Produce      json
// @Param        body  body      changePasswordRequest  true  "Current credentials and new password"
// @Success      200   {object}  messageResponse
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Router       /account/password [put]
func (h *AccountHandler) ChangePassword(c echo.Context) error {
	userID, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	var req changePasswordRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	if err := h.authService.ChangePassword(c.Request().Context(), userID, req.CurrentPassword, req.TOTPCode, req.NewPassword); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, messageResponse{Message: "password updated"})
}

// DeleteAccount removes the authenticated account, its projects and log
// entries, revokes the session and clears the cookie.
//
// @Summary      Delete account
// @Tags         account
// @Produce      json
// @Success      200  {object}  messageResponse
// @Failure      401  {object}  errorResponse
// @Router       /account [delete]
func (h *AccountHandler) DeleteAccount(c echo.Context) error {
	userID, err := ctxIdentity(c)
	if err != nil {
		return err
	}
	jti, expiresAt, err := ctxToken(c)
	if err != nil {
		return err
	}

	if err := h.authService.DeleteAccount(c.Request().Context(), userID, jti, expiresAt); err != nil {
		return err
	}

	clearSessionCookie(c)
	return c.JSON(http.StatusOK, messageResponse{Message: "account deleted"})
}
