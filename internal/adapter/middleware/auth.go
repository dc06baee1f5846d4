package middleware

import (
	"errors"
	"net/http"
	"strings"

	"agrolend-backend/internal/domain/user"
	"agrolend-backend/internal/security"

	"github.com/labstack/echo/v4"
)

const principalKey = "principal"

// Principal is the verified caller of a request.
type Principal struct {
	UserID string
	Role   user.Role
}

// PrincipalFrom returns the caller stored by JWTAuth.
func PrincipalFrom(c echo.Context) (Principal, bool) {
	p, ok := c.Get(principalKey).(Principal)
	return p, ok
}

// SetPrincipal stores p on the request context.
func SetPrincipal(c echo.Context, p Principal) { c.Set(principalKey, p) }

// JWTAuth requires a valid "Authorization: Bearer <token>" header.
func JWTAuth(tokens security.TokenManager) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			raw := c.Request().Header.Get(echo.HeaderAuthorization)
			scheme, token, ok := strings.Cut(raw, " ")
			if !ok || !strings.EqualFold(scheme, "Bearer") || strings.TrimSpace(token) == "" {
				return c.JSON(http.StatusUnauthorized, map[string]string{"error": "missing bearer token"})
			}
			claims, err := tokens.ValidateToken(strings.TrimSpace(token))
			if err != nil {
				msg := "invalid token"
				if errors.Is(err, security.ErrExpiredToken) {
					msg = "token has expired"
				}
				return c.JSON(http.StatusUnauthorized, map[string]string{"error": msg})
			}
			role := user.Role(claims.Role)
			if !role.Valid() {
				return c.JSON(http.StatusUnauthorized, map[string]string{"error": "invalid token"})
			}
			SetPrincipal(c, Principal{UserID: claims.UserID, Role: role})
			return next(c)
		}
	}
}

// RequireRole rejects callers whose role is not listed. It must run after JWTAuth.
func RequireRole(roles ...user.Role) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			p, ok := PrincipalFrom(c)
			if !ok {
				return c.JSON(http.StatusUnauthorized, map[string]string{"error": "not authenticated"})
			}
			for _, r := range roles {
				if p.Role == r {
					return next(c)
				}
			}
			return c.JSON(http.StatusForbidden, map[string]string{"error": "access denied for role " + string(p.Role)})
		}
	}
}
