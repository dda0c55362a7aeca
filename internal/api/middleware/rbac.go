package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

const MsgRoleForbidden = "access to this resource is not allowed"

// RBAC lets the request through when the caller is granted at least one of
// allowedRoles, role hierarchy included. It must run after Auth.
func RBAC(allowedRoles ...string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			p, ok := PrincipalFrom(c)
			if !ok {
				return echo.NewHTTPError(http.StatusUnauthorized, MsgTokenMissing)
			}
			for _, r := range allowedRoles {
				if p.HasRole(r) {
					return next(c)
				}
			}
			return echo.NewHTTPError(http.StatusForbidden, MsgRoleForbidden)
		}
	}
}
