package middleware

import (
	"errors"
	"net/http"
	"strings"

	"wellbeing-service/internal/identity"
	"wellbeing-service/internal/model"
	"wellbeing-service/pkg/jwtutil"
	"wellbeing-service/pkg/logger"
	"wellbeing-service/prometheus"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// Context keys populated by AuthMiddleware for downstream handlers.
const (
	ContextKeyUser      = "user"
	ContextKeyUserID    = "user_id"
	ContextKeyEmail     = "email"
	ContextKeyCompanyID = "company_id"
	ContextKeyRole      = "user_role"
)

// AuthMiddleware guards every protected route. It validates the bearer
// token, re-resolves the subject against current store state, and
// attaches the resolved user to the request context. It must complete
// before any tenant-scoped read runs and mutates nothing itself.
//
// Client responses stay deliberately generic; missing, tampered,
// expired, and stale credentials are only told apart in logs and
// metrics.
func AuthMiddleware(resolver identity.Resolver) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			log := logger.FromContext(c)

			// Get the Authorization header
			authHeader := c.Request().Header.Get("Authorization")
			if authHeader == "" {
				log.Error("Missing Authorization header")
				prometheus.RecordAuthError("missing_token")
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "missing authorization token"})
			}

			// Check if it's a Bearer token
			parts := strings.Split(authHeader, " ")
			if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
				log.Error("Invalid Authorization header format")
				prometheus.RecordAuthError("invalid_auth_format")
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid authorization format, expected Bearer token"})
			}

			// Validate signature and expiry
			claims, err := jwtutil.ValidateToken(parts[1])
			if err != nil {
				log.Error("Invalid JWT token", zap.Error(err))
				prometheus.RecordAuthError("invalid_token")
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid or expired token"})
			}

			// Resolve the subject against current state. An account
			// deleted or deactivated after issuance loses access here,
			// on its next request, regardless of the token's expiry.
			user, err := resolver.ResolveUser(claims.UserID)
			if err != nil {
				if errors.Is(err, identity.ErrUserNotFound) {
					log.Error("Token subject no longer resolvable", zap.Uint("user_id", claims.UserID))
					prometheus.RecordAuthError("stale_token")
					return c.JSON(http.StatusUnauthorized, echo.Map{"error": "credential no longer valid"})
				}
				log.Error("Failed to resolve token subject", zap.Error(err))
				prometheus.RecordAuthError("resolver_error")
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "credential no longer valid"})
			}

			if !user.IsActive() {
				log.Error("Token subject is inactive", zap.Uint("user_id", user.ID))
				prometheus.RecordAuthError("stale_token")
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "credential no longer valid"})
			}

			// Store the resolved identity in context for later use
			c.Set(ContextKeyUser, user)
			c.Set(ContextKeyUserID, user.ID)
			c.Set(ContextKeyEmail, user.Email)
			c.Set(ContextKeyCompanyID, user.CompanyID)
			c.Set(ContextKeyRole, user.Role)

			return next(c)
		}
	}
}

// UserFromContext returns the identity attached by AuthMiddleware.
func UserFromContext(c echo.Context) (*model.User, bool) {
	user, ok := c.Get(ContextKeyUser).(*model.User)
	return user, ok
}
