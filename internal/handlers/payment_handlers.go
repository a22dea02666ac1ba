package handlers

import (
	"net/http"

	"shutterdesk/internal/common"
	"shutterdesk/internal/services"

	"github.com/labstack/echo/v4"
)

type PaymentHandlers struct {
	paymentService services.PaymentService
	dashboard      DashboardInvalidator
}

func NewPaymentHandlers(paymentService services.PaymentService, dashboard DashboardInvalidator) *PaymentHandlers {
	return &PaymentHandlers{
		paymentService: paymentService,
		dashboard:      dashboard,
	}
}

// CreateSchedule adds an installment to an invoice.
func (h *PaymentHandlers) CreateSchedule(c echo.Context) error {
	ctx := c.Request().Context()

	userID, ok := common.GetUserIDFromContext(ctx)
	if !ok {
		return common.SendUnauthorizedError(c, "")
	}

	invoiceID, err := common.ValidateUUID(c.Param("id"), "invoice id")
	if err != nil {
		return common.SendValidationError(c, "id", err.Error())
	}

	var req services.CreateScheduleRequest
	if err := c.Bind(&req); err != nil {
		return common.SendClientError(c, "Invalid request format")
	}

	schedule, err := h.paymentService.CreateSchedule(ctx, userID, invoiceID, &req)
	if err != nil {
		return common.SendClientError(c, err.Error())
	}

	h.dashboard.Invalidate(ctx, userID)
	return c.JSON(http.StatusCreated, schedule)
}

func (h *PaymentHandlers) ListByInvoice(c echo.Context) error {
	ctx := c.Request().Context()

	userID, ok := common.GetUserIDFromContext(ctx)
	if !ok {
		return common.SendUnauthorizedError(c, "")
	}

	invoiceID, err := common.ValidateUUID(c.Param("id"), "invoice id")
	if err != nil {
		return common.SendValidationError(c, "id", err.Error())
	}

	schedules, err := h.paymentService.ListByInvoice(ctx, userID, invoiceID)
	if err != nil {
		return common.SendServerError(c, "Failed to list payment schedules")
	}

	return c.JSON(http.StatusOK, schedules)
}

// MarkPaid settles an installment; the invoice flips to paid when it was the
// last pending one.
func (h *PaymentHandlers) MarkPaid(c echo.Context) error {
	ctx := c.Request().Context()

	userID, ok := common.GetUserIDFromContext(ctx)
	if !ok {
		return common.SendUnauthorizedError(c, "")
	}

	scheduleID, err := common.ValidateUUID(c.Param("id"), "schedule id")
	if err != nil {
		return common.SendValidationError(c, "id", err.Error())
	}

	if err := h.paymentService.MarkPaid(ctx, userID, scheduleID); err != nil {
		return common.SendClientError(c, err.Error())
	}

	h.dashboard.Invalidate(ctx, userID)
	return c.NoContent(http.StatusNoContent)
}
