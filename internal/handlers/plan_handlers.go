package handlers

import (
	"net/http"
	"strconv"
	"time"

	"shutterdesk/internal/common"
	"shutterdesk/internal/models"
	"shutterdesk/internal/repositories"

	"github.com/labstack/echo/v4"
)

type PlanHandlers struct {
	planRepo repositories.PlanRepository
	userRepo repositories.UserRepository
}

func NewPlanHandlers(planRepo repositories.PlanRepository, userRepo repositories.UserRepository) *PlanHandlers {
	return &PlanHandlers{
		planRepo: planRepo,
		userRepo: userRepo,
	}
}

// List is public so the pricing page can render without auth.
func (h *PlanHandlers) List(c echo.Context) error {
	plans, err := h.planRepo.List(c.Request().Context())
	if err != nil {
		return common.SendServerError(c, "Failed to list plans")
	}
	return c.JSON(http.StatusOK, plans)
}

// PlanRequest represents the admin create/update payload.
type PlanRequest struct {
	Name         string  `json:"name"`
	MaxClients   *int    `json:"max_clients"`
	MaxBookings  *int    `json:"max_bookings"`
	PriceMonthly float64 `json:"price_monthly"`
}

func (h *PlanHandlers) Create(c echo.Context) error {
	var req PlanRequest
	if err := c.Bind(&req); err != nil {
		return common.SendClientError(c, "Invalid request format")
	}
	if req.Name == "" {
		return common.SendValidationError(c, "name", "Plan name is required")
	}

	plan := &models.AccessPlan{
		Name:         req.Name,
		MaxClients:   req.MaxClients,
		MaxBookings:  req.MaxBookings,
		PriceMonthly: req.PriceMonthly,
	}

	if err := h.planRepo.Create(c.Request().Context(), plan); err != nil {
		return common.SendServerError(c, "Failed to create plan")
	}

	return c.JSON(http.StatusCreated, plan)
}

func (h *PlanHandlers) Update(c echo.Context) error {
	planID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return common.SendValidationError(c, "id", "Plan id must be an integer")
	}

	plan, err := h.planRepo.GetByID(c.Request().Context(), planID)
	if err != nil {
		return common.SendNotFoundError(c, "Plan")
	}

	var req PlanRequest
	if err := c.Bind(&req); err != nil {
		return common.SendClientError(c, "Invalid request format")
	}
	if req.Name == "" {
		return common.SendValidationError(c, "name", "Plan name is required")
	}

	plan.Name = req.Name
	plan.MaxClients = req.MaxClients
	plan.MaxBookings = req.MaxBookings
	plan.PriceMonthly = req.PriceMonthly

	if err := h.planRepo.Update(c.Request().Context(), plan); err != nil {
		return common.SendServerError(c, "Failed to update plan")
	}

	return c.JSON(http.StatusOK, plan)
}

// AssignPlanRequest moves a user onto a plan, optionally with an expiry.
type AssignPlanRequest struct {
	PlanID    int        `json:"plan_id"`
	ExpiresAt *time.Time `json:"expires_at"`
}

// AssignToUser is admin-only; billing webhooks would call this in production.
func (h *PlanHandlers) AssignToUser(c echo.Context) error {
	ctx := c.Request().Context()

	userID, err := common.ValidateUUID(c.Param("id"), "user id")
	if err != nil {
		return common.SendValidationError(c, "id", err.Error())
	}

	var req AssignPlanRequest
	if err := c.Bind(&req); err != nil {
		return common.SendClientError(c, "Invalid request format")
	}

	if _, err := h.planRepo.GetByID(ctx, req.PlanID); err != nil {
		return common.SendNotFoundError(c, "Plan")
	}
	if _, err := h.userRepo.GetByID(ctx, userID); err != nil {
		return common.SendNotFoundError(c, "User")
	}

	if err := h.userRepo.SetPlan(ctx, userID, req.PlanID, req.ExpiresAt); err != nil {
		return common.SendServerError(c, "Failed to assign plan")
	}

	return c.NoContent(http.StatusNoContent)
}
