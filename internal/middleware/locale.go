package middleware

import (
	"marketplace-api/internal/locale"

	"github.com/labstack/echo/v4"
)

// LocaleMiddleware negotiates the response locale from the Accept-Language
// header. Only the first two characters count; unsupported values silently
// fall back to the default.
func LocaleMiddleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		c.Set("locale", locale.Negotiate(c.Request().Header.Get("Accept-Language")))
		return next(c)
	}
}

// Locale returns the negotiated locale for this request
func Locale(c echo.Context) string {
	loc, ok := c.Get("locale").(string)
	if !ok {
		return locale.DefaultLocale
	}
	return loc
}

// T translates a message key in the request's locale
func T(c echo.Context, key string) string {
	return locale.T(Locale(c), key)
}
