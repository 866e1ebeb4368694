package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// ContextKey is a custom type for context keys to avoid collisions
type ContextKey string

const (
	// UsernameKey is the context key for storing the authenticated username
	UsernameKey ContextKey = "username"

	// RemoteUserHeader is set by the trusted reverse proxy after it has
	// authenticated the caller. The service itself performs no
	// authentication; it only trusts this header.
	RemoteUserHeader = "X-Remote-User"
)

// ExtractUsername requires the trusted remote-user header and stores the
// username in the request context. Requests without it are rejected
// before any handler runs.
func ExtractUsername() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			username := c.Request().Header.Get(RemoteUserHeader)

			if username == "" {
				return c.JSON(http.StatusUnauthorized, map[string]interface{}{
					"error": "X-Remote-User header is required",
				})
			}

			c.Set(string(UsernameKey), username)
			return next(c)
		}
	}
}

// GetUsername retrieves the username from the request context
// Returns empty string if not set
func GetUsername(c echo.Context) string {
	username := c.Get(string(UsernameKey))
	if username == nil {
		return ""
	}
	return username.(string)
}

// RequireUsername ensures a username exists in context
// Returns an error response if not found
func RequireUsername(c echo.Context) (string, error) {
	username := GetUsername(c)
	if username == "" {
		return "", echo.NewHTTPError(http.StatusUnauthorized, "authentication required (X-Remote-User header missing)")
	}
	return username, nil
}
