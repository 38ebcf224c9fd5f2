package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/righttechcentre/lms-api/internal/core/ports"
)

type AnalyticsHandler struct {
	analytics ports.AnalyticsService
}

func NewAnalyticsHandler(analytics ports.AnalyticsService) *AnalyticsHandler {
	return &AnalyticsHandler{analytics: analytics}
}

// Overview handles GET /analytics/overview.
//
// @Summary      Platform totals
// @Tags         analytics
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  analyticsResponse
// @Failure      403  {object}  errorResponse
// @Router       /analytics/overview [get]
func (h *AnalyticsHandler) Overview(c echo.Context) error {
	a, err := h.analytics.Overview(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toAnalyticsResponse(a))
}
