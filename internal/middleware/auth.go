package middleware

import (
	"net/http"
	"strings"

	"marketplace-api/internal/model"
	"marketplace-api/pkg/database"
	"marketplace-api/pkg/jwtutil"
	"marketplace-api/pkg/logger"
	"marketplace-api/prometheus"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// AuthMiddleware validates the bearer token and loads the acting user into
// the context. Handlers read the actor with CurrentUser rather than reaching
// for ambient state.
func AuthMiddleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		log := logger.FromEcho(c)

		authHeader := c.Request().Header.Get("Authorization")
		if authHeader == "" {
			log.Warn("Missing authorization header")
			prometheus.RecordAuthError("missing_header")
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": "Missing authorization header"})
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			log.Warn("Invalid authorization header format")
			prometheus.RecordAuthError("invalid_header")
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": "Invalid authorization header format"})
		}

		claims, err := jwtutil.ValidateToken(parts[1])
		if err != nil {
			log.Warn("Invalid or expired token", zap.Error(err))
			prometheus.RecordAuthError("invalid_token")
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": "Invalid or expired token"})
		}

		var user model.User
		if result := database.GetDB().First(&user, claims.UserID); result.Error != nil {
			log.Warn("Token subject no longer exists", zap.Uint("user_id", claims.UserID))
			prometheus.RecordAuthError("unknown_subject")
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": "Invalid or expired token"})
		}

		c.Set("claims", claims)
		c.Set("actor", &user)
		log.Debug("JWT token validated successfully",
			zap.Uint("user_id", claims.UserID),
			zap.String("email", claims.Email))

		return next(c)
	}
}

// CurrentUser returns the authenticated actor loaded by AuthMiddleware
func CurrentUser(c echo.Context) (*model.User, bool) {
	user, ok := c.Get("actor").(*model.User)
	return user, ok
}
