package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/staybook/portal/internal/core/domain"
	"github.com/staybook/portal/internal/core/ports"
)

// AuthHandler exposes the auth flows to the browser. Domain outcomes are
// answered with HTTP 200 and the backend envelope; only transport failures
// surface as errors.
type AuthHandler struct {
	gateway ports.AuthGateway
}

func NewAuthHandler(gateway ports.AuthGateway) *AuthHandler {
	return &AuthHandler{gateway: gateway}
}

// Register creates an account awaiting email verification.
//
// @Summary      Register a new user
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      registerRequest  true  "Registration details"
// @Success      200   {object}  domain.Envelope[domain.Empty]
// @Failure      400   {object}  domain.Envelope[domain.Empty]
// @Failure      502   {object}  domain.Envelope[domain.Empty]
// @Router       /api/auth/register [post]
func (h *AuthHandler) Register(c echo.Context) error {
	var req registerRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	env, err := h.gateway.Register(c.Request().Context(), req.toRegistration())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, env)
}

// VerifyEmail confirms an email address with the code sent to it.
//
// @Summary      Verify email
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      verifyEmailRequest  true  "Email and verification code"
// @Success      200   {object}  domain.Envelope[domain.Empty]
// @Router       /api/auth/verify-email [post]
func (h *AuthHandler) VerifyEmail(c echo.Context) error {
	var req verifyEmailRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	env, err := h.gateway.VerifyEmail(c.Request().Context(), req.Email, req.Code)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, env)
}

// ResendVerification sends a new verification code.
//
// @Summary      Resend verification code
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      emailRequest  true  "Email"
// @Success      200   {object}  domain.Envelope[domain.Empty]
// @Router       /api/auth/resend-verification [post]
func (h *AuthHandler) ResendVerification(c echo.Context) error {
	var req emailRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	env, err := h.gateway.ResendVerificationCode(c.Request().Context(), req.Email)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, env)
}

// Login signs the client in. The bearer token stays server-side and is
// stripped from the response.
//
// @Summary      Login
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      loginRequest  true  "Login credentials"
// @Success      200   {object}  domain.Envelope[domain.LoginData]
// @Failure      400   {object}  domain.Envelope[domain.Empty]
// @Failure      502   {object}  domain.Envelope[domain.Empty]
// @Router       /api/auth/login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	sess, err := clientSession(c)
	if err != nil {
		return err
	}

	env, err := h.gateway.Login(c.Request().Context(), sess, req.Email, req.Password)
	if err != nil {
		return err
	}
	if env.ReturnData != nil {
		env.ReturnData = &domain.LoginData{User: env.ReturnData.User}
	}
	return c.JSON(http.StatusOK, env)
}

// ForgotPassword requests a password reset email.
//
// @Summary      Forgot password
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      emailRequest  true  "Email"
// @Success      200   {object}  domain.Envelope[domain.Empty]
// @Router       /api/auth/forgot-password [post]
func (h *AuthHandler) ForgotPassword(c echo.Context) error {
	var req emailRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	env, err := h.gateway.ForgotPassword(c.Request().Context(), req.Email)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, env)
}

// ResetPassword sets a new password using a reset token.
//
// @Summary      Reset password
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      resetPasswordRequest  true  "Reset token and new password"
// @Success      200   {object}  domain.Envelope[domain.Empty]
// @Router       /api/auth/reset-password [post]
func (h *AuthHandler) ResetPassword(c echo.Context) error {
	var req resetPasswordRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	env, err := h.gateway.ResetPassword(c.Request().Context(), req.Token, req.NewPassword)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, env)
}

// Logout signs the client out. Calling it while signed out succeeds.
//
// @Summary      Logout
// @Tags         auth
// @Produce      json
// @Success      200   {object}  domain.Envelope[domain.Empty]
// @Router       /api/auth/logout [post]
func (h *AuthHandler) Logout(c echo.Context) error {
	sess, err := clientSession(c)
	if err != nil {
		return err
	}
	if err := sess.Logout(c.Request().Context(), h.gateway); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, success[domain.Empty]("Logged out successfully", nil))
}
