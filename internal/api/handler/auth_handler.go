package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/crud-app/records-api/internal/api/metrics"
	"github.com/crud-app/records-api/internal/api/middleware"
	"github.com/crud-app/records-api/internal/core/domain"
	"github.com/crud-app/records-api/internal/core/ports"
)

const forgotPasswordMessage = "If an account with that email exists, a password reset link has been sent."

// SessionManager opens and closes server-side sessions for a request.
type SessionManager interface {
	Start(c echo.Context, user domain.SessionUser) error
	End(c echo.Context) error
}

type AuthHandler struct {
	authService ports.AuthService
	sessions    SessionManager
}

func NewAuthHandler(authService ports.AuthService, sessions SessionManager) *AuthHandler {
	return &AuthHandler{authService: authService, sessions: sessions}
}

// SignUp registers an unverified account and sends the verification code.
//
// @Summary      Sign up
// @Tags         auth
// @Accept       json,x-www-form-urlencoded
// @Produce      json
// @Param        body  body      signUpRequest  true  "Account details"
// @Success      201   {object}  signUpResponse
// @Failure      400   {object}  map[string]string
// @Failure      409   {object}  map[string]string
// @Failure      422   {object}  map[string]string
// @Failure      500   {object}  map[string]string
// @Router       /auth/signup [post]
func (h *AuthHandler) SignUp(c echo.Context) error {
	var req signUpRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}

	user, err := h.authService.SignUp(c.Request().Context(), req.Name, req.Email, req.Password)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, signUpResponse{
		Message: "Account created. Check your email for the verification code.",
		Email:   user.Email,
	})
}

// VerifyEmail activates the account and signs the user in.
//
// @Summary      Verify email
// @Tags         auth
// @Accept       json,x-www-form-urlencoded
// @Produce      json
// @Param        body  body      verifyEmailRequest  true  "Email and 6-digit code"
// @Success      200   {object}  sessionResponse
// @Failure      400   {object}  map[string]string
// @Failure      404   {object}  map[string]string
// @Failure      422   {object}  map[string]string
// @Router       /auth/verify-email [post]
func (h *AuthHandler) VerifyEmail(c echo.Context) error {
	var req verifyEmailRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}

	user, err := h.authService.VerifyEmail(c.Request().Context(), req.Email, req.OTP)
	if err != nil {
		return err
	}

	identity := user.Session()
	if err := h.sessions.Start(c, identity); err != nil {
		return err
	}

	return c.JSON(http.StatusOK, sessionResponse{
		Message: "Email verified successfully",
		User:    &identity,
	})
}

// ResendOTP issues a fresh verification code.
//
// @Summary      Resend verification code
// @Tags         auth
// @Accept       json,x-www-form-urlencoded
// @Produce      json
// @Param        body  body      emailRequest  true  "Email"
// @Success      200   {object}  messageResponse
// @Failure      400   {object}  map[string]string
// @Failure      404   {object}  map[string]string
// @Router       /auth/resend-otp [post]
func (h *AuthHandler) ResendOTP(c echo.Context) error {
	var req emailRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}

	if err := h.authService.ResendOTP(c.Request().Context(), req.Email); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, messageResponse{Message: "A new verification code has been sent"})
}

// SignIn checks credentials and opens a session.
//
// @Summary      Sign in
// @Tags         auth
// @Accept       json,x-www-form-urlencoded
// @Produce      json
// @Param        body  body      signInRequest  true  "Credentials"
// @Success      200   {object}  sessionResponse
// @Failure      401   {object}  map[string]string
// @Failure      422   {object}  map[string]string
// @Router       /auth/signin [post]
func (h *AuthHandler) SignIn(c echo.Context) error {
	var req signInRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}

	res, err := h.authService.SignIn(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		return err
	}

	identity := res.User.Session()
	if err := h.sessions.Start(c, identity); err != nil {
		return err
	}

	return c.JSON(http.StatusOK, sessionResponse{
		Message: "Welcome back!",
		User:    &identity,
		Token:   res.Token,
	})
}

// Logout destroys the session. Served on GET and POST.
//
// @Summary      Log out
// @Tags         auth
// @Produce      json
// @Success      200  {object}  messageResponse
// @Router       /auth/logout [post]
// @Router       /auth/logout [get]
func (h *AuthHandler) Logout(c echo.Context) error {
	if err := h.sessions.End(c); err != nil {
		return err
	}
	metrics.AuthEventsTotal.WithLabelValues("logout").Inc()
	return c.JSON(http.StatusOK, messageResponse{Message: "Logged out successfully"})
}

// ForgotPassword emails a reset link. Unknown addresses get the same answer
// as registered ones.
//
// @Summary      Request a password reset
// @Tags         auth
// @Accept       json,x-www-form-urlencoded
// @Produce      json
// @Param        body  body      emailRequest  true  "Email"
// @Success      200   {object}  forgotPasswordResponse
// @Failure      400   {object}  map[string]string
// @Failure      422   {object}  map[string]string
// @Failure      500   {object}  map[string]string
// @Router       /auth/forgot-password [post]
func (h *AuthHandler) ForgotPassword(c echo.Context) error {
	var req emailRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}

	res, err := h.authService.ForgotPassword(c.Request().Context(), req.Email)
	if err != nil {
		return err
	}

	resp := forgotPasswordResponse{Message: forgotPasswordMessage}
	if res != nil {
		resp.ResetURL = res.ResetURL
	}
	return c.JSON(http.StatusOK, resp)
}

// ResetPassword sets a new password from a reset token. The token may come in
// the body or as the last path segment of the emailed link.
//
// @Summary      Reset password
// @Tags         auth
// @Accept       json,x-www-form-urlencoded
// @Produce      json
// @Param        body  body      resetPasswordRequest  true  "Token and new password"
// @Success      200   {object}  messageResponse
// @Failure      400   {object}  map[string]string
// @Router       /auth/reset-password [post]
// @Router       /auth/reset-password/{token} [post]
func (h *AuthHandler) ResetPassword(c echo.Context) error {
	var req resetPasswordRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}

	if err := h.authService.ResetPassword(c.Request().Context(), req.Token, req.Password, req.ConfirmPassword); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, messageResponse{Message: "Password has been reset. You can now sign in."})
}

// Me returns the caller's identity.
//
// @Summary      Current user
// @Tags         auth
// @Produce      json
// @Success      200  {object}  meResponse
// @Failure      401  {object}  map[string]string
// @Router       /auth/me [get]
func (h *AuthHandler) Me(c echo.Context) error {
	user := middleware.CurrentUser(c)
	if user == nil {
		return domain.ErrUnauthenticated
	}
	return c.JSON(http.StatusOK, meResponse{User: user})
}
