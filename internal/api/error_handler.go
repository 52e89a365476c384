package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/crud-app/records-api/internal/core/domain"
)

// errorResponse is the canonical error envelope for all API errors.
type errorResponse struct {
	Error string `json:"error"`
}

// ErrorReporter receives server-side failures. Implemented by the Sentry service.
type ErrorReporter interface {
	CaptureRequestError(err error, method, path, requestID string)
}

// NewHTTPErrorHandler returns an echo.HTTPErrorHandler that:
//   - Maps known domain errors to their appropriate HTTP status codes.
//   - Logs and reports unexpected errors without leaking details to the client.
//   - Renders a consistent JSON envelope: {"error": "<message>"}.
func NewHTTPErrorHandler(log zerolog.Logger, reporter ErrorReporter) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		code, msg := resolveError(err)
		if code >= http.StatusInternalServerError {
			req := c.Request()
			requestID := c.Response().Header().Get(echo.HeaderXRequestID)
			log.Error().
				Err(err).
				Str("method", req.Method).
				Str("path", c.Path()).
				Str("request_id", requestID).
				Msg("unhandled error")
			if reporter != nil {
				reporter.CaptureRequestError(err, req.Method, c.Path(), requestID)
			}
		}

		if req := c.Request(); req.Method == http.MethodHead {
			_ = c.NoContent(code)
			return
		}
		_ = c.JSON(code, errorResponse{Error: msg})
	}
}

func resolveError(err error) (int, string) {
	// Echo's own errors (bind failures, 404 from router, etc.)
	var he *echo.HTTPError
	if errors.As(err, &he) {
		return he.Code, fmt.Sprintf("%v", he.Message)
	}

	switch {
	case errors.Is(err, domain.ErrInvalidRecord):
		return http.StatusBadRequest, domain.PublicMessage(err, domain.ErrInvalidRecord)
	case errors.Is(err, domain.ErrSelfModification):
		return http.StatusBadRequest, domain.PublicMessage(err, domain.ErrSelfModification)
	case errors.Is(err, domain.ErrInvalidSignUp):
		return http.StatusBadRequest, domain.PublicMessage(err, domain.ErrInvalidSignUp)
	case errors.Is(err, domain.ErrInvalidID),
		errors.Is(err, domain.ErrPasswordTooShort),
		errors.Is(err, domain.ErrPasswordMismatch),
		errors.Is(err, domain.ErrResetTokenMissing),
		errors.Is(err, domain.ErrInvalidResetToken),
		errors.Is(err, domain.ErrInvalidOTP),
		errors.Is(err, domain.ErrAlreadyVerified),
		errors.Is(err, domain.ErrResetNotAllowed),
		errors.Is(err, domain.ErrInvalidRole):
		return http.StatusBadRequest, sentinelMessage(err)

	case errors.Is(err, domain.ErrInvalidCredentials),
		errors.Is(err, domain.ErrEmailNotVerified),
		errors.Is(err, domain.ErrAccountInactive),
		errors.Is(err, domain.ErrUnauthenticated):
		return http.StatusUnauthorized, sentinelMessage(err)

	case errors.Is(err, domain.ErrForbidden):
		return http.StatusForbidden, domain.ErrForbidden.Error()

	case errors.Is(err, domain.ErrUserNotFound),
		errors.Is(err, domain.ErrRecordNotFound):
		return http.StatusNotFound, sentinelMessage(err)

	case errors.Is(err, domain.ErrUserExists):
		return http.StatusConflict, domain.ErrUserExists.Error()

	// Mail delivery failures keep their message but still count as server errors.
	case errors.Is(err, domain.ErrVerificationEmail):
		return http.StatusInternalServerError, domain.ErrVerificationEmail.Error()
	case errors.Is(err, domain.ErrResetEmail):
		return http.StatusInternalServerError, domain.ErrResetEmail.Error()
	}

	return http.StatusInternalServerError, "internal server error"
}

// sentinelMessage returns the message of the first known sentinel err wraps,
// so wrapping context added by services never reaches the client.
func sentinelMessage(err error) string {
	for _, s := range clientSentinels {
		if errors.Is(err, s) {
			return s.Error()
		}
	}
	return err.Error()
}

var clientSentinels = []error{
	domain.ErrInvalidID,
	domain.ErrPasswordTooShort,
	domain.ErrPasswordMismatch,
	domain.ErrResetTokenMissing,
	domain.ErrInvalidResetToken,
	domain.ErrInvalidOTP,
	domain.ErrAlreadyVerified,
	domain.ErrResetNotAllowed,
	domain.ErrInvalidRole,
	domain.ErrInvalidCredentials,
	domain.ErrEmailNotVerified,
	domain.ErrAccountInactive,
	domain.ErrUnauthenticated,
	domain.ErrUserNotFound,
	domain.ErrRecordNotFound,
}
