package handler

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/devlog-hq/devlog/internal/core/ports"
)

// AuthHandler handles registration, the two-phase login flow and logout.
// Domain errors propagate to the central HTTP error handler.
type AuthHandler struct {
	authService ports.AuthService
}

func NewAuthHandler(authService ports.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// Register creates an account and returns its TOTP enrollment artifacts.
// No session is issued; the caller must confirm enrollment first.
//
// @Summary      Register a new account
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      registerRequest  true  "Registration details"
// @Success      201   {object}  registerResponse
// @Failure      400   {object}  errorResponse
// @Failure      500   {object}  errorResponse
// @Router       /register [post]
func (h *AuthHandler) Register(c echo.Context) error {
	var req registerRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	result, err := h.authService.Register(c.Request().Context(), req.Email, req.Username, req.Password)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, registerResponse{
		UserID:          result.User.ID,
		Username:        result.User.Username,
		Email:           result.User.Email,
		TOTPSecret:      result.TOTPSecret,
		ProvisioningURI: result.ProvisioningURI,
		QRCodePNG:       result.QRCodePNG,
	})
}

// VerifyRegister2FA confirms the authenticator was provisioned and issues
// the account's first session cookie.
//
// @Summary      Confirm TOTP enrollment
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      verify2FARequest  true  "User id and current TOTP code"
// @Success      200   {object}  messageResponse
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Router       /register/verify_2fa [post]
func (h *AuthHandler) VerifyRegister2FA(c echo.Context) error {
	return h.verify2FA(c, h.authService.VerifyEnrollment, "two-factor enrollment complete")
}

// Login is phase one of login: password check only. The response tells the
// caller to continue with the TOTP challenge; no cookie is set yet.
//
// @Summary      Login (phase one, password)
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      loginRequest  true  "Login credentials"
// @Success      200   {object}  loginResponse
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Router       /login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	result, err := h.authService.Login(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, loginResponse{
		UserID:      result.UserID,
		Requires2FA: result.Requires2FA,
	})
}

// VerifyLogin2FA is phase two of login: the TOTP challenge. On success the
// session cookie is set.
//
// @Summary      Login (phase two, TOTP)
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      verify2FARequest  true  "User id and current TOTP code"
// @Success      200   {object}  messageResponse
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Router       /login/verify_2fa [post]
func (h *AuthHandler) VerifyLogin2FA(c echo.Context) error {
	return h.verify2FA(c, h.authService.VerifyLogin, "login successful")
}

// verify2FA binds the shared challenge payload, runs the given verification
// step and turns the resulting session into a cookie.
func (h *AuthHandler) verify2FA(c echo.Context, verify func(ctx context.Context, userID int64, code string) (*ports.Session, error), message string) error {
	var req verify2FARequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	session, err := verify(c.Request().Context(), req.UserID, req.TOTPCode)
	if err != nil {
		return err
	}

	setSessionCookie(c, session.Token, session.ExpiresAt)
	return c.JSON(http.StatusOK, messageResponse{Message: message})
}

// Logout revokes the presented token and clears the session cookie.
//
// @Summary      Logout
// @Tags         auth
// @Produce      json
// @Success      200  {object}  messageResponse
// @Failure      401  {object}  errorResponse
// @Router       /logout [post]
func (h *AuthHandler) Logout(c echo.Context) error {
	jti, expiresAt, err := ctxToken(c)
	if err != nil {
		return err
	}

	if err := h.authService.Logout(c.Request().Context(), jti, expiresAt); err != nil {
		return err
	}

	clearSessionCookie(c)
	return c.JSON(http.StatusOK, messageResponse{Message: "logged out"})
}

// Ping is an unauthenticated connectivity check.
//
// @Summary      Ping
// @Tags         meta
// @Produce      plain
// @Success      200  {string}  string  "Pong!"
// @Router       /ping [get]
func (h *AuthHandler) Ping(c echo.Context) error {
	return c.String(http.StatusOK, "Pong!")
}
