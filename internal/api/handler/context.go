package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/righttechcentre/lms-api/internal/api/middleware"
	"github.com/righttechcentre/lms-api/internal/core/domain"
)

// actorFrom extracts the identity injected by the Auth middleware and
// fails fast when it is absent.
func actorFrom(c echo.Context) (domain.Actor, error) {
	userID, _ := c.Get(middleware.ContextUserID).(string)
	role, _ := c.Get(middleware.ContextRole).(string)
	if userID == "" || role == "" {
		return domain.Actor{}, echo.NewHTTPError(http.StatusUnauthorized, "missing authentication claims")
	}
	return domain.Actor{UserID: userID, Role: domain.Role(role)}, nil
}

// bindAndValidate decodes the body into req and runs struct validation.
func bindAndValidate(c echo.Context, req any) error {
	if err := c.Bind(req); err != nil {
		return domain.NewValidationError("invalid payload")
	}
	if err := c.Validate(req); err != nil {
		return err
	}
	return nil
}
