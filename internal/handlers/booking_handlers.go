package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"shutterdesk/internal/common"
	"shutterdesk/internal/services"

	"github.com/labstack/echo/v4"
)

type BookingHandlers struct {
	bookingService services.BookingService
	dashboard      DashboardInvalidator
}

func NewBookingHandlers(bookingService services.BookingService, dashboard DashboardInvalidator) *BookingHandlers {
	return &BookingHandlers{
		bookingService: bookingService,
		dashboard:      dashboard,
	}
}

func (h *BookingHandlers) Create(c echo.Context) error {
	ctx := c.Request().Context()

	userID, ok := common.GetUserIDFromContext(ctx)
	if !ok {
		return common.SendUnauthorizedError(c, "")
	}

	var req services.CreateBookingRequest
	if err := c.Bind(&req); err != nil {
		return common.SendClientError(c, "Invalid request format")
	}

	booking, err := h.bookingService.Create(ctx, userID, &req)
	if err != nil {
		if errors.Is(err, services.ErrLimitReached) {
			return common.SendLimitReachedError(c, "bookings")
		}
		if errors.Is(err, services.ErrPlanUnresolved) {
			return common.SendForbiddenError(c, "Plan could not be resolved")
		}
		return common.SendClientError(c, err.Error())
	}

	h.dashboard.Invalidate(ctx, userID)
	return c.JSON(http.StatusCreated, booking)
}

func (h *BookingHandlers) Get(c echo.Context) error {
	ctx := c.Request().Context()

	userID, ok := common.GetUserIDFromContext(ctx)
	if !ok {
		return common.SendUnauthorizedError(c, "")
	}

	bookingID, err := common.ValidateUUID(c.Param("id"), "booking id")
	if err != nil {
		return common.SendValidationError(c, "id", err.Error())
	}

	booking, err := h.bookingService.GetByID(ctx, userID, bookingID)
	if err != nil {
		return common.SendNotFoundError(c, "Booking")
	}

	return c.JSON(http.StatusOK, booking)
}

func (h *BookingHandlers) List(c echo.Context) error {
	ctx := c.Request().Context()

	userID, ok := common.GetUserIDFromContext(ctx)
	if !ok {
		return common.SendUnauthorizedError(c, "")
	}

	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	offset, _ := strconv.Atoi(c.QueryParam("offset"))
	limit, offset = common.ValidatePaginationParams(limit, offset)

	bookings, err := h.bookingService.List(ctx, userID, limit, offset)
	if err != nil {
		return common.SendServerError(c, "Failed to list bookings")
	}

	return c.JSON(http.StatusOK, bookings)
}

func (h *BookingHandlers) Update(c echo.Context) error {
	ctx := c.Request().Context()

	userID, ok := common.GetUserIDFromContext(ctx)
	if !ok {
		return common.SendUnauthorizedError(c, "")
	}

	bookingID, err := common.ValidateUUID(c.Param("id"), "booking id")
	if err != nil {
		return common.SendValidationError(c, "id", err.Error())
	}

	booking, err := h.bookingService.GetByID(ctx, userID, bookingID)
	if err != nil {
		return common.SendNotFoundError(c, "Booking")
	}

	var req services.CreateBookingRequest
	if err := c.Bind(&req); err != nil {
		return common.SendClientError(c, "Invalid request format")
	}

	booking.Title = req.Title
	booking.Location = req.Location
	booking.StartsAt = req.StartsAt
	booking.EndsAt = req.EndsAt
	booking.Price = req.Price
	booking.Notes = req.Notes

	if err := h.bookingService.Update(ctx, booking); err != nil {
		return common.SendClientError(c, err.Error())
	}

	h.dashboard.Invalidate(ctx, userID)
	return c.JSON(http.StatusOK, booking)
}

// UpdateStatusRequest carries the target status for a transition.
type UpdateStatusRequest struct {
	Status string `json:"status"`
}

func (h *BookingHandlers) UpdateStatus(c echo.Context) error {
	ctx := c.Request().Context()

	userID, ok := common.GetUserIDFromContext(ctx)
	if !ok {
		return common.SendUnauthorizedError(c, "")
	}

	bookingID, err := common.ValidateUUID(c.Param("id"), "booking id")
	if err != nil {
		return common.SendValidationError(c, "id", err.Error())
	}

	var req UpdateStatusRequest
	if err := c.Bind(&req); err != nil {
		return common.SendClientError(c, "Invalid request format")
	}

	if err := h.bookingService.UpdateStatus(ctx, userID, bookingID, req.Status); err != nil {
		if errors.Is(err, services.ErrInvalidTransition) {
			return common.SendClientError(c, err.Error())
		}
		return common.SendNotFoundError(c, "Booking")
	}

	h.dashboard.Invalidate(ctx, userID)
	return c.NoContent(http.StatusNoContent)
}

func (h *BookingHandlers) Delete(c echo.Context) error {
	ctx := c.Request().Context()

	userID, ok := common.GetUserIDFromContext(ctx)
	if !ok {
		return common.SendUnauthorizedError(c, "")
	}

	bookingID, err := common.ValidateUUID(c.Param("id"), "booking id")
	if err != nil {
		return common.SendValidationError(c, "id", err.Error())
	}

	if _, err := h.bookingService.GetByID(ctx, userID, bookingID); err != nil {
		return common.SendNotFoundError(c, "Booking")
	}

	if err := h.bookingService.Delete(ctx, userID, bookingID); err != nil {
		return common.SendServerError(c, "Failed to delete booking")
	}

	h.dashboard.Invalidate(ctx, userID)
	return c.NoContent(http.StatusNoContent)
}
