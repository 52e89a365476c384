package middleware

import (
	"context"

	"github.com/labstack/echo/v4"

	"github.com/crud-app/records-api/internal/core/domain"
)

const adminKey = "admin_user"

// AdminAuthorizer loads a user fresh from storage and checks the admin role.
type AdminAuthorizer interface {
	Authorize(ctx context.Context, userID string) (*domain.User, error)
}

// AdminOnly requires an identity whose stored role is admin. The role in the
// session is not trusted, so demotions apply immediately.
func AdminOnly(authz AdminAuthorizer) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			user := CurrentUser(c)
			if user == nil {
				return domain.ErrUnauthenticated
			}
			admin, err := authz.Authorize(c.Request().Context(), user.ID)
			if err != nil {
				return err
			}
			c.Set(adminKey, admin)
			return next(c)
		}
	}
}

// AdminUser returns the admin loaded by AdminOnly, or nil.
func AdminUser(c echo.Context) *domain.User {
	u, _ := c.Get(adminKey).(*domain.User)
	return u
}
