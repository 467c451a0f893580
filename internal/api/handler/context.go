package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/grupo8/reparafacil/internal/api/middleware"
	"github.com/grupo8/reparafacil/internal/core/domain"
	"github.com/grupo8/reparafacil/internal/core/ports"
)

// callerFrom extracts the identity injected by the Auth middleware and
// fails fast when it is missing.
func callerFrom(c echo.Context) (ports.Caller, error) {
	userID, _ := c.Get(middleware.ContextUserID).(int64)
	role, _ := c.Get(middleware.ContextRole).(domain.Role)
	if userID <= 0 || role == "" {
		return ports.Caller{}, echo.NewHTTPError(http.StatusUnauthorized, "missing authentication claims")
	}
	return ports.Caller{UserID: userID, Role: role}, nil
}

func idParam(c echo.Context) (int64, error) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, echo.NewHTTPError(http.StatusBadRequest, "invalid service id")
	}
	return id, nil
}
