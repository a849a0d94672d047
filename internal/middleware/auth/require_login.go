package auth

import (
	"strings"

	"github.com/labstack/echo/v4"

	"vidhub/internal/apperr"
	"vidhub/internal/models"
	"vidhub/internal/repo"
	"vidhub/internal/tokens"
)

const userContextKey = "authenticatedUser"

// Middleware is the request authenticator: it pulls the access token from
// the accessToken cookie or the Authorization header, verifies it against
// the access secret and attaches the referenced user to the context.
type Middleware struct {
	Repo         *repo.Repo
	AccessSecret []byte
}

func (m *Middleware) RequireLogin(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		raw := ExtractToken(c)
		if raw == "" {
			return apperr.ErrUnauthorized
		}

		claims, err := tokens.ParseAccessToken(raw, m.AccessSecret)
		if err != nil {
			return apperr.ErrUnauthorized
		}
		userID, err := tokens.UserID(&claims.RegisteredClaims)
		if err != nil {
			return apperr.ErrUnauthorized
		}

		user, err := m.Repo.GetUserByID(c.Request().Context(), userID)
		if err != nil {
			return apperr.ErrUnauthorized
		}

		c.Set(userContextKey, user)
		return next(c)
	}
}

func ExtractToken(c echo.Context) string {
	if cookie, err := c.Cookie("accessToken"); err == nil && cookie.Value != "" {
		return cookie.Value
	}
	header := c.Request().Header.Get(echo.HeaderAuthorization)
	if strings.HasPrefix(header, "Bearer ") {
		return strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
	}
	return ""
}

// CurrentUser returns the authenticated user placed by RequireLogin.
func CurrentUser(c echo.Context) (*models.User, bool) {
	user, ok := c.Get(userContextKey).(*models.User)
	return user, ok
}
