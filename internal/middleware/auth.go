package middleware

import (
	"crypto/subtle"

	"github.com/labstack/echo/v4"
	echoMw "github.com/labstack/echo/v4/middleware"
)

// AdminAuth guards the admin surface with a static bearer token. With no
// token configured, admin routes are rejected outright rather than left
// open.
func AdminAuth(token string) echo.MiddlewareFunc {
	return echoMw.KeyAuthWithConfig(echoMw.KeyAuthConfig{
		KeyLookup:  "header:Authorization",
		AuthScheme: "Bearer",
		Validator: func(key string, c echo.Context) (bool, error) {
			if token == "" {
				return false, nil
			}
			return subtle.ConstantTimeCompare([]byte(key), []byte(token)) == 1, nil
		},
	})
}
