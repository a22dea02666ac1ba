package services

import (
	"context"
	"errors"
	"fmt"

	"shutterdesk/internal/models"
	"shutterdesk/internal/repositories"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// ResourceKind names a plan-limited resource.
type ResourceKind string

const (
	ResourceClient  ResourceKind = "client"
	ResourceBooking ResourceKind = "booking"
)

// EntitlementService enforces plan ceilings. Usage is recomputed from live
// row counts on every call; nothing here is cached.
type EntitlementService interface {
	CanCreate(ctx context.Context, userID uuid.UUID, kind ResourceKind) (bool, error)
	// Bound resolves the caller's plan and returns the ceiling for the given
	// resource kind. Nil means unlimited. Fails closed with ErrPlanUnresolved.
	Bound(ctx context.Context, userID uuid.UUID, kind ResourceKind) (*int, error)
	Snapshot(ctx context.Context, userID uuid.UUID) (*models.UsageSnapshot, error)
}

type entitlementService struct {
	planRepo    repositories.PlanRepository
	clientRepo  repositories.ClientRepository
	bookingRepo repositories.BookingRepository
}

func NewEntitlementService(
	planRepo repositories.PlanRepository,
	clientRepo repositories.ClientRepository,
	bookingRepo repositories.BookingRepository,
) EntitlementService {
	return &entitlementService{
		planRepo:    planRepo,
		clientRepo:  clientRepo,
		bookingRepo: bookingRepo,
	}
}

func (s *entitlementService) resolvePlan(ctx context.Context, userID uuid.UUID) (*models.AccessPlan, error) {
	plan, err := s.planRepo.GetByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrPlanUnresolved
		}
		return nil, fmt.Errorf("failed to resolve plan: %w", err)
	}
	return plan, nil
}

func (s *entitlementService) Bound(ctx context.Context, userID uuid.UUID, kind ResourceKind) (*int, error) {
	plan, err := s.resolvePlan(ctx, userID)
	if err != nil {
		return nil, err
	}

	switch kind {
	case ResourceClient:
		return plan.MaxClients, nil
	case ResourceBooking:
		return plan.MaxBookings, nil
	default:
		return nil, fmt.Errorf("unknown resource kind: %s", kind)
	}
}

// CanCreate is true iff the live count is strictly below the bound. A nil
// bound means unlimited.
func (s *entitlementService) CanCreate(ctx context.Context, userID uuid.UUID, kind ResourceKind) (bool, error) {
	bound, err := s.Bound(ctx, userID, kind)
	if err != nil {
		return false, err
	}
	if bound == nil {
		return true, nil
	}

	var count int
	switch kind {
	case ResourceClient:
		count, err = s.clientRepo.CountByUser(ctx, userID)
	case ResourceBooking:
		count, err = s.bookingRepo.CountByUser(ctx, userID)
	}
	if err != nil {
		return false, fmt.Errorf("failed to count %ss: %w", kind, err)
	}

	return count < *bound, nil
}

// Snapshot reports current usage against the plan for the frontend's plan
// progress display.
func (s *entitlementService) Snapshot(ctx context.Context, userID uuid.UUID) (*models.UsageSnapshot, error) {
	plan, err := s.resolvePlan(ctx, userID)
	if err != nil {
		return nil, err
	}

	clientCount, err := s.clientRepo.CountByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to count clients: %w", err)
	}
	bookingCount, err := s.bookingRepo.CountByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to count bookings: %w", err)
	}

	return &models.UsageSnapshot{
		PlanName:         plan.Name,
		MaxClients:       plan.MaxClients,
		MaxBookings:      plan.MaxBookings,
		ClientCount:      clientCount,
		BookingCount:     bookingCount,
		CanCreateClient:  plan.MaxClients == nil || clientCount < *plan.MaxClients,
		CanCreateBooking: plan.MaxBookings == nil || bookingCount < *plan.MaxBookings,
	}, nil
}
