package middleware

import (
	"fmt"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/menuhub/menu-api/internal/core/domain"
)

// BearerTokenKey is the echo context key RequireBearer stores the raw token under.
const BearerTokenKey = "bearer_token"

// RequireBearer extracts the token from "Authorization: Bearer <token>".
// It does not validate the token; protected handlers pass it to the
// Authorizer before doing any work.
func RequireBearer() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authHeader := c.Request().Header.Get(echo.HeaderAuthorization)
			if authHeader == "" {
				return fmt.Errorf("%w: missing authorization header", domain.ErrUnauthorized)
			}

			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") || strings.TrimSpace(parts[1]) == "" {
				return fmt.Errorf("%w: invalid authorization header", domain.ErrUnauthorized)
			}

			c.Set(BearerTokenKey, strings.TrimSpace(parts[1]))
			return next(c)
		}
	}
}

// BearerToken returns the token stored by RequireBearer, or "".
func BearerToken(c echo.Context) string {
	tok, _ := c.Get(BearerTokenKey).(string)
	return tok
}
