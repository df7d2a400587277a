package auth

import (
	"github.com/labstack/echo/v4"
)

// Context keys for auth data stored on the request.
const (
	UserKey            = "auth_user"
	IsAuthenticatedKey = "is_authenticated"
)

// SetContext records the resolved user on the request context.
func SetContext(c echo.Context, user *AuthUser) {
	c.Set(UserKey, user)
	c.Set(IsAuthenticatedKey, user != nil)
}

// GetUser returns the user resolved for this request, if any.
func GetUser(c echo.Context) (*AuthUser, bool) {
	user, ok := c.Get(UserKey).(*AuthUser)
	return user, ok && user != nil
}

// IsAuthenticated reports whether this request carries an authenticated user.
func IsAuthenticated(c echo.Context) bool {
	isAuth, _ := c.Get(IsAuthenticatedKey).(bool)
	return isAuth
}
