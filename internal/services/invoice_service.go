package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"shutterdesk/internal/models"
	"shutterdesk/internal/repositories"

	"github.com/google/uuid"
)

const (
	InvoiceStatusDraft   = "draft"
	InvoiceStatusSent    = "sent"
	InvoiceStatusPaid    = "paid"
	InvoiceStatusOverdue = "overdue"
)

var invoiceTransitions = map[string][]string{
	InvoiceStatusDraft:   {InvoiceStatusSent},
	InvoiceStatusSent:    {InvoiceStatusPaid, InvoiceStatusOverdue},
	InvoiceStatusOverdue: {InvoiceStatusPaid},
}

type CreateInvoiceRequest struct {
	ClientID  uuid.UUID  `json:"client_id"`
	BookingID *uuid.UUID `json:"booking_id"`
	Amount    float64    `json:"amount"`
	DueDate   time.Time  `json:"due_date"`
}

type InvoiceService interface {
	Create(ctx context.Context, userID uuid.UUID, req *CreateInvoiceRequest) (*models.Invoice, error)
	GetByID(ctx context.Context, userID, invoiceID uuid.UUID) (*models.Invoice, error)
	List(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*models.Invoice, error)
	ListUnpaid(ctx context.Context, userID uuid.UUID) ([]*models.Invoice, error)
	Update(ctx context.Context, invoice *models.Invoice) error
	UpdateStatus(ctx context.Context, userID, invoiceID uuid.UUID, status string) error
	Delete(ctx context.Context, userID, invoiceID uuid.UUID) error
}

type invoiceService struct {
	invoiceRepo repositories.InvoiceRepository
	clientRepo  repositories.ClientRepository
}

func NewInvoiceService(invoiceRepo repositories.InvoiceRepository, clientRepo repositories.ClientRepository) InvoiceService {
	return &invoiceService{
		invoiceRepo: invoiceRepo,
		clientRepo:  clientRepo,
	}
}

func (s *invoiceService) Create(ctx context.Context, userID uuid.UUID, req *CreateInvoiceRequest) (*models.Invoice, error) {
	if req.Amount <= 0 {
		return nil, fmt.Errorf("invoice amount must be positive")
	}
	if req.ClientID == uuid.Nil {
		return nil, fmt.Errorf("client_id is required")
	}

	if _, err := s.clientRepo.GetByID(ctx, userID, req.ClientID); err != nil {
		return nil, fmt.Errorf("client not found: %w", err)
	}

	now := time.Now()
	id := uuid.New()
	invoice := &models.Invoice{
		ID:            id,
		UserID:        userID,
		ClientID:      req.ClientID,
		BookingID:     req.BookingID,
		InvoiceNumber: generateInvoiceNumber(now, id),
		Amount:        req.Amount,
		Status:        InvoiceStatusDraft,
		IssuedDate:    now,
		DueDate:       req.DueDate,
	}

	if err := s.invoiceRepo.Create(ctx, invoice); err != nil {
		return nil, fmt.Errorf("failed to create invoice: %w", err)
	}
	return invoice, nil
}

func (s *invoiceService) GetByID(ctx context.Context, userID, invoiceID uuid.UUID) (*models.Invoice, error) {
	return s.invoiceRepo.GetByID(ctx, userID, invoiceID)
}

func (s *invoiceService) List(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*models.Invoice, error) {
	if limit <= 0 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}
	return s.invoiceRepo.List(ctx, userID, limit, offset)
}

func (s *invoiceService) ListUnpaid(ctx context.Context, userID uuid.UUID) ([]*models.Invoice, error) {
	return s.invoiceRepo.ListUnpaid(ctx, userID)
}

func (s *invoiceService) Update(ctx context.Context, invoice *models.Invoice) error {
	if invoice.Amount <= 0 {
		return fmt.Errorf("invoice amount must be positive")
	}

	existing, err := s.invoiceRepo.GetByID(ctx, invoice.UserID, invoice.ID)
	if err != nil {
		return err
	}
	if existing.Status != InvoiceStatusDraft {
		return fmt.Errorf("only draft invoices can be edited")
	}

	return s.invoiceRepo.Update(ctx, invoice)
}

func (s *invoiceService) UpdateStatus(ctx context.Context, userID, invoiceID uuid.UUID, status string) error {
	invoice, err := s.invoiceRepo.GetByID(ctx, userID, invoiceID)
	if err != nil {
		return err
	}

	if !transitionAllowed(invoiceTransitions, invoice.Status, status) {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, invoice.Status, status)
	}

	var paidDate *time.Time
	if status == InvoiceStatusPaid {
		now := time.Now()
		paidDate = &now
	}

	return s.invoiceRepo.UpdateStatus(ctx, userID, invoiceID, status, paidDate)
}

func (s *invoiceService) Delete(ctx context.Context, userID, invoiceID uuid.UUID) error {
	invoice, err := s.invoiceRepo.GetByID(ctx, userID, invoiceID)
	if err != nil {
		return err
	}
	if invoice.Status != InvoiceStatusDraft {
		return fmt.Errorf("only draft invoices can be deleted")
	}
	return s.invoiceRepo.Delete(ctx, userID, invoiceID)
}

func generateInvoiceNumber(now time.Time, id uuid.UUID) string {
	suffix := strings.ToUpper(strings.ReplaceAll(id.String(), "-", "")[:8])
	return fmt.Sprintf("INV-%s-%s", now.Format("20060102"), suffix)
}
