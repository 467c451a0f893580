package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/grupo8/reparafacil/internal/contract"
	"github.com/grupo8/reparafacil/internal/core/domain"
)

// RBAC enforces role-based access control. It must run after Auth.
func RBAC(allowedRoles ...domain.Role) echo.MiddlewareFunc {
	allowed := make(map[domain.Role]struct{}, len(allowedRoles))
	for _, r := range allowedRoles {
		allowed[r] = struct{}{}
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			role, _ := c.Get(ContextRole).(domain.Role)
			if _, ok := allowed[role]; !ok {
				return c.JSON(http.StatusForbidden, contract.ErrorResponse{Error: "forbidden"})
			}
			return next(c)
		}
	}
}
