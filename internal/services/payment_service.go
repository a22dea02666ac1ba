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
	PaymentStatusPending = "pending"
	PaymentStatusPaid    = "paid"
)

type CreateScheduleRequest struct {
	Amount  float64   `json:"amount"`
	DueDate time.Time `json:"due_date"`
}

type PaymentService interface {
	CreateSchedule(ctx context.Context, userID, invoiceID uuid.UUID, req *CreateScheduleRequest) (*models.PaymentSchedule, error)
	ListByInvoice(ctx context.Context, userID, invoiceID uuid.UUID) ([]*models.PaymentSchedule, error)
	MarkPaid(ctx context.Context, userID, scheduleID uuid.UUID) error
}

type paymentService struct {
	paymentRepo repositories.PaymentRepository
	invoiceRepo repositories.InvoiceRepository
}

func NewPaymentService(paymentRepo repositories.PaymentRepository, invoiceRepo repositories.InvoiceRepository) PaymentService {
	return &paymentService{
		paymentRepo: paymentRepo,
		invoiceRepo: invoiceRepo,
	}
}

func (s *paymentService) CreateSchedule(ctx context.Context, userID, invoiceID uuid.UUID, req *CreateScheduleRequest) (*models.PaymentSchedule, error) {
	if req.Amount <= 0 {
		return nil, fmt.Errorf("payment amount must be positive")
	}

	if _, err := s.invoiceRepo.GetByID(ctx, userID, invoiceID); err != nil {
		return nil, fmt.Errorf("invoice not found: %w", err)
	}

	schedule := &models.PaymentSchedule{
		ID:        uuid.New(),
		InvoiceID: invoiceID,
		UserID:    userID,
		Amount:    req.Amount,
		DueDate:   req.DueDate,
		Status:    PaymentStatusPending,
	}

	if err := s.paymentRepo.Create(ctx, schedule); err != nil {
		return nil, fmt.Errorf("failed to create payment schedule: %w", err)
	}
	return schedule, nil
}

func (s *paymentService) ListByInvoice(ctx context.Context, userID, invoiceID uuid.UUID) ([]*models.PaymentSchedule, error) {
	return s.paymentRepo.ListByInvoice(ctx, userID, invoiceID)
}

// MarkPaid settles one installment. When no pending installments remain the
// parent invoice is marked paid as well.
func (s *paymentService) MarkPaid(ctx context.Context, userID, scheduleID uuid.UUID) error {
	schedule, err := s.paymentRepo.GetByID(ctx, userID, scheduleID)
	if err != nil {
		return err
	}
	if schedule.Status == PaymentStatusPaid {
		return fmt.Errorf("payment schedule already paid")
	}

	now := time.Now()
	if err := s.paymentRepo.MarkPaid(ctx, userID, scheduleID, now); err != nil {
		return fmt.Errorf("failed to mark payment paid: %w", err)
	}

	pending, err := s.paymentRepo.CountPendingByInvoice(ctx, userID, schedule.InvoiceID)
	if err != nil {
		return fmt.Errorf("failed to count pending payments: %w", err)
	}
	if pending == 0 {
		invoice, err := s.invoiceRepo.GetByID(ctx, userID, schedule.InvoiceID)
		if err != nil {
			return err
		}
		if invoice.Status == InvoiceStatusSent || invoice.Status == InvoiceStatusOverdue {
			return s.invoiceRepo.UpdateStatus(ctx, userID, schedule.InvoiceID, InvoiceStatusPaid, &now)
		}
	}

	return nil
}
