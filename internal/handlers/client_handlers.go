package handlers

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"shutterdesk/internal/common"
	"shutterdesk/internal/services"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// DashboardInvalidator drops a user's cached dashboard entries after a write
// to one of its inputs. Satisfied by analytics.DashboardService.
type DashboardInvalidator interface {
	Invalidate(ctx context.Context, userID uuid.UUID)
}

type ClientHandlers struct {
	clientService services.ClientService
	dashboard     DashboardInvalidator
}

func NewClientHandlers(clientService services.ClientService, dashboard DashboardInvalidator) *ClientHandlers {
	return &ClientHandlers{
		clientService: clientService,
		dashboard:     dashboard,
	}
}

func (h *ClientHandlers) Create(c echo.Context) error {
	ctx := c.Request().Context()

	userID, ok := common.GetUserIDFromContext(ctx)
	if !ok {
		return common.SendUnauthorizedError(c, "")
	}

	var req services.CreateClientRequest
	if err := c.Bind(&req); err != nil {
		return common.SendClientError(c, "Invalid request format")
	}

	client, err := h.clientService.Create(ctx, userID, &req)
	if err != nil {
		if errors.Is(err, services.ErrLimitReached) {
			return common.SendLimitReachedError(c, "clients")
		}
		if errors.Is(err, services.ErrPlanUnresolved) {
			return common.SendForbiddenError(c, "Plan could not be resolved")
		}
		return common.SendClientError(c, err.Error())
	}

	h.dashboard.Invalidate(ctx, userID)
	return c.JSON(http.StatusCreated, client)
}

func (h *ClientHandlers) Get(c echo.Context) error {
	ctx := c.Request().Context()

	userID, ok := common.GetUserIDFromContext(ctx)
	if !ok {
		return common.SendUnauthorizedError(c, "")
	}

	clientID, err := common.ValidateUUID(c.Param("id"), "client id")
	if err != nil {
		return common.SendValidationError(c, "id", err.Error())
	}

	client, err := h.clientService.GetByID(ctx, userID, clientID)
	if err != nil {
		return common.SendNotFoundError(c, "Client")
	}

	return c.JSON(http.StatusOK, client)
}

func (h *ClientHandlers) List(c echo.Context) error {
	ctx := c.Request().Context()

	userID, ok := common.GetUserIDFromContext(ctx)
	if !ok {
		return common.SendUnauthorizedError(c, "")
	}

	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	offset, _ := strconv.Atoi(c.QueryParam("offset"))
	limit, offset = common.ValidatePaginationParams(limit, offset)

	clients, err := h.clientService.List(ctx, userID, limit, offset)
	if err != nil {
		return common.SendServerError(c, "Failed to list clients")
	}

	return c.JSON(http.StatusOK, clients)
}

func (h *ClientHandlers) Update(c echo.Context) error {
	ctx := c.Request().Context()

	userID, ok := common.GetUserIDFromContext(ctx)
	if !ok {
		return common.SendUnauthorizedError(c, "")
	}

	clientID, err := common.ValidateUUID(c.Param("id"), "client id")
	if err != nil {
		return common.SendValidationError(c, "id", err.Error())
	}

	client, err := h.clientService.GetByID(ctx, userID, clientID)
	if err != nil {
		return common.SendNotFoundError(c, "Client")
	}

	var req services.CreateClientRequest
	if err := c.Bind(&req); err != nil {
		return common.SendClientError(c, "Invalid request format")
	}

	client.Name = req.Name
	client.Email = req.Email
	client.Phone = req.Phone
	client.Notes = req.Notes

	if err := h.clientService.Update(ctx, client); err != nil {
		return common.SendClientError(c, err.Error())
	}

	h.dashboard.Invalidate(ctx, userID)
	return c.JSON(http.StatusOK, client)
}

func (h *ClientHandlers) Delete(c echo.Context) error {
	ctx := c.Request().Context()

	userID, ok := common.GetUserIDFromContext(ctx)
	if !ok {
		return common.SendUnauthorizedError(c, "")
	}

	clientID, err := common.ValidateUUID(c.Param("id"), "client id")
	if err != nil {
		return common.SendValidationError(c, "id", err.Error())
	}

	if _, err := h.clientService.GetByID(ctx, userID, clientID); err != nil {
		return common.SendNotFoundError(c, "Client")
	}

	if err := h.clientService.Delete(ctx, userID, clientID); err != nil {
		return common.SendServerError(c, "Failed to delete client")
	}

	h.dashboard.Invalidate(ctx, userID)
	return c.NoContent(http.StatusNoContent)
}
