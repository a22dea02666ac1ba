package handlers

import (
	"errors"
	"net/http"

	"shutterdesk/internal/analytics"
	"shutterdesk/internal/common"
	"shutterdesk/internal/services"

	"github.com/labstack/echo/v4"
)

type UsageHandlers struct {
	entitlementSvc services.EntitlementService
	dashboardSvc   *analytics.DashboardService
}

func NewUsageHandlers(entitlementSvc services.EntitlementService, dashboardSvc *analytics.DashboardService) *UsageHandlers {
	return &UsageHandlers{
		entitlementSvc: entitlementSvc,
		dashboardSvc:   dashboardSvc,
	}
}

// Usage reports live counts against the caller's plan ceilings.
func (h *UsageHandlers) Usage(c echo.Context) error {
	ctx := c.Request().Context()

	userID, ok := common.GetUserIDFromContext(ctx)
	if !ok {
		return common.SendUnauthorizedError(c, "")
	}

	snapshot, err := h.entitlementSvc.Snapshot(ctx, userID)
	if err != nil {
		if errors.Is(err, services.ErrPlanUnresolved) {
			return common.SendForbiddenError(c, "Plan could not be resolved")
		}
		return common.SendServerError(c, "Failed to compute usage")
	}

	return c.JSON(http.StatusOK, snapshot)
}

// Dashboard returns the aggregated business stats.
func (h *UsageHandlers) Dashboard(c echo.Context) error {
	ctx := c.Request().Context()

	userID, ok := common.GetUserIDFromContext(ctx)
	if !ok {
		return common.SendUnauthorizedError(c, "")
	}

	stats, err := h.dashboardSvc.GetStats(ctx, userID)
	if err != nil {
		return common.SendServerError(c, "Failed to compute dashboard stats")
	}

	return c.JSON(http.StatusOK, stats)
}
