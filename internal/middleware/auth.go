package middleware

import (
	"context"
	"strings"

	"shutterdesk/internal/common"
	"shutterdesk/internal/services"

	"github.com/labstack/echo/v4"
)

// AuthMiddleware validates the bearer token and stores the caller identity
// on the request context. Any validation failure is a 401; no partial
// identity is ever attached.
func AuthMiddleware(tokenSvc services.TokenService) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authHeader := c.Request().Header.Get("Authorization")
			if authHeader == "" {
				return common.SendUnauthorizedError(c, "Missing authorization header")
			}

			tokenString := strings.TrimPrefix(authHeader, "Bearer ")
			if tokenString == authHeader || tokenString == "" {
				return common.SendUnauthorizedError(c, "Invalid authorization header format")
			}

			identity, err := tokenSvc.Validate(tokenString)
			if err != nil {
				return common.SendUnauthorizedError(c, "Invalid or expired token")
			}

			ctx := context.WithValue(c.Request().Context(), common.UserIDKey, identity.UserID)
			ctx = context.WithValue(ctx, common.UserEmailKey, identity.Email)
			ctx = context.WithValue(ctx, common.UserRoleKey, identity.Role)
			c.SetRequest(c.Request().WithContext(ctx))

			return next(c)
		}
	}
}

// RequireAdmin gates admin-only routes. It runs after AuthMiddleware.
func RequireAdmin() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			role, ok := common.GetUserRoleFromContext(c.Request().Context())
			if !ok || role != "admin" {
				return common.SendForbiddenError(c, "Admin access required")
			}
			return next(c)
		}
	}
}
