package middleware

import (
	"errors"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/crud-app/records-api/internal/core/domain"
	"github.com/crud-app/records-api/internal/core/ports"
)

const (
	userKey      = "session_user"
	sessionIDKey = "session_id"
)

// TokenParser validates bearer tokens. Implemented by the auth service.
type TokenParser interface {
	ParseToken(token string) (*domain.SessionUser, error)
}

// Sessions attaches identities to requests and manages the session cookie.
type Sessions struct {
	store  ports.SessionStore
	tokens TokenParser
	cookie SessionCookie
	log    zerolog.Logger
}

func NewSessions(store ports.SessionStore, tokens TokenParser, cookie SessionCookie, log zerolog.Logger) *Sessions {
	return &Sessions{store: store, tokens: tokens, cookie: cookie, log: log}
}

// Load resolves the caller from the signed session cookie and falls back to a
// bearer token (Authorization header or token cookie). Anonymous requests
// pass through untouched.
func (s *Sessions) Load() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if id, ok := s.cookie.read(c); ok {
				user, err := s.store.Get(c.Request().Context(), id)
				switch {
				case err == nil:
					c.Set(userKey, user)
					c.Set(sessionIDKey, id)
					return next(c)
				case !errors.Is(err, domain.ErrUnauthenticated):
					return err
				}
			}

			if token := bearerToken(c); token != "" && s.tokens != nil {
				if user, err := s.tokens.ParseToken(token); err == nil {
					c.Set(userKey, user)
				}
			}
			return next(c)
		}
	}
}

// RequireAuth rejects requests without an identity.
func RequireAuth() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if CurrentUser(c) == nil {
				return domain.ErrUnauthenticated
			}
			return next(c)
		}
	}
}

// Start opens a new session for user and sets the cookie. Any session the
// request already carried is destroyed first.
func (s *Sessions) Start(c echo.Context, user domain.SessionUser) error {
	ctx := c.Request().Context()
	if old, ok := c.Get(sessionIDKey).(string); ok && old != "" {
		if err := s.store.Destroy(ctx, old); err != nil {
			s.log.Warn().Err(err).Msg("failed to destroy previous session")
		}
	}

	id, err := s.store.Create(ctx, user)
	if err != nil {
		return err
	}
	s.cookie.write(c, id)
	c.Set(userKey, &user)
	c.Set(sessionIDKey, id)
	return nil
}

// End destroys the current session, if any, and expires both auth cookies.
func (s *Sessions) End(c echo.Context) error {
	id, ok := c.Get(sessionIDKey).(string)
	if !ok {
		id, _ = s.cookie.read(c)
	}
	if err := s.store.Destroy(c.Request().Context(), id); err != nil {
		return err
	}
	s.cookie.clear(c, SessionCookieName)
	s.cookie.clear(c, TokenCookieName)
	c.Set(userKey, nil)
	c.Set(sessionIDKey, "")
	return nil
}

// CurrentUser returns the identity attached by Load, or nil.
func CurrentUser(c echo.Context) *domain.SessionUser {
	u, _ := c.Get(userKey).(*domain.SessionUser)
	return u
}

func bearerToken(c echo.Context) string {
	if h := c.Request().Header.Get(echo.HeaderAuthorization); h != "" {
		parts := strings.SplitN(h, " ", 2)
		if len(parts) == 2 && strings.EqualFold(parts[0], "bearer") {
			return strings.TrimSpace(parts[1])
		}
		return ""
	}
	if ck, err := c.Cookie(TokenCookieName); err == nil {
		return ck.Value
	}
	return ""
}
