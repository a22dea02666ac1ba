package services

import (
	"context"
	"fmt"
	"time"

	"shutterdesk/internal/models"
	"shutterdesk/internal/repositories"

	"github.com/google/uuid"
)

const (
	BookingStatusPending   = "pending"
	BookingStatusConfirmed = "confirmed"
	BookingStatusCompleted = "completed"
	BookingStatusCancelled = "cancelled"
)

// bookingTransitions is the linear status machine: pending and confirmed may
// be cancelled; completed and cancelled are terminal.
var bookingTransitions = map[string][]string{
	BookingStatusPending:   {BookingStatusConfirmed, BookingStatusCancelled},
	BookingStatusConfirmed: {BookingStatusCompleted, BookingStatusCancelled},
}

type CreateBookingRequest struct {
	ClientID uuid.UUID `json:"client_id"`
	Title    string    `json:"title"`
	Location *string   `json:"location"`
	StartsAt time.Time `json:"starts_at"`
	EndsAt   time.Time `json:"ends_at"`
	Price    float64   `json:"price"`
	Notes    *string   `json:"notes"`
}

type BookingService interface {
	Create(ctx context.Context, userID uuid.UUID, req *CreateBookingRequest) (*models.Booking, error)
	GetByID(ctx context.Context, userID, bookingID uuid.UUID) (*models.Booking, error)
	List(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*models.Booking, error)
	Update(ctx context.Context, booking *models.Booking) error
	UpdateStatus(ctx context.Context, userID, bookingID uuid.UUID, status string) error
	Delete(ctx context.Context, userID, bookingID uuid.UUID) error
}

type bookingService struct {
	bookingRepo  repositories.BookingRepository
	clientRepo   repositories.ClientRepository
	entitlements EntitlementService
}

func NewBookingService(
	bookingRepo repositories.BookingRepository,
	clientRepo repositories.ClientRepository,
	entitlements EntitlementService,
) BookingService {
	return &bookingService{
		bookingRepo:  bookingRepo,
		clientRepo:   clientRepo,
		entitlements: entitlements,
	}
}

func (s *bookingService) Create(ctx context.Context, userID uuid.UUID, req *CreateBookingRequest) (*models.Booking, error) {
	if req.Title == "" {
		return nil, fmt.Errorf("booking title is required")
	}
	if req.ClientID == uuid.Nil {
		return nil, fmt.Errorf("client_id is required")
	}
	if !req.EndsAt.After(req.StartsAt) {
		return nil, fmt.Errorf("ends_at must be after starts_at")
	}

	// The client must belong to the caller.
	if _, err := s.clientRepo.GetByID(ctx, userID, req.ClientID); err != nil {
		return nil, fmt.Errorf("client not found: %w", err)
	}

	bound, err := s.entitlements.Bound(ctx, userID, ResourceBooking)
	if err != nil {
		return nil, err
	}

	booking := &models.Booking{
		ID:       uuid.New(),
		UserID:   userID,
		ClientID: req.ClientID,
		Title:    req.Title,
		Location: req.Location,
		StartsAt: req.StartsAt,
		EndsAt:   req.EndsAt,
		Status:   BookingStatusPending,
		Price:    req.Price,
		Notes:    req.Notes,
	}

	inserted, err := s.bookingRepo.CreateWithinLimit(ctx, booking, bound)
	if err != nil {
		return nil, fmt.Errorf("failed to create booking: %w", err)
	}
	if !inserted {
		return nil, ErrLimitReached
	}

	return booking, nil
}

func (s *bookingService) GetByID(ctx context.Context, userID, bookingID uuid.UUID) (*models.Booking, error) {
	return s.bookingRepo.GetByID(ctx, userID, bookingID)
}

func (s *bookingService) List(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*models.Booking, error) {
	if limit <= 0 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}
	return s.bookingRepo.List(ctx, userID, limit, offset)
}

func (s *bookingService) Update(ctx context.Context, booking *models.Booking) error {
	if booking.Title == "" {
		return fmt.Errorf("booking title is required")
	}
	if !booking.EndsAt.After(booking.StartsAt) {
		return fmt.Errorf("ends_at must be after starts_at")
	}
	return s.bookingRepo.Update(ctx, booking)
}

func (s *bookingService) UpdateStatus(ctx context.Context, userID, bookingID uuid.UUID, status string) error {
	booking, err := s.bookingRepo.GetByID(ctx, userID, bookingID)
	if err != nil {
		return err
	}

	if !transitionAllowed(bookingTransitions, booking.Status, status) {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, booking.Status, status)
	}

	return s.bookingRepo.UpdateStatus(ctx, userID, bookingID, status)
}

func (s *bookingService) Delete(ctx context.Context, userID, bookingID uuid.UUID) error {
	return s.bookingRepo.Delete(ctx, userID, bookingID)
}

func transitionAllowed(transitions map[string][]string, from, to string) bool {
	for _, allowed := range transitions[from] {
		if allowed == to {
			return true
		}
	}
	return false
}
