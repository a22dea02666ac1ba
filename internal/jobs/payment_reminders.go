package jobs

import (
	"context"
	"fmt"
	"log"
	"time"

	"shutterdesk/internal/repositories"
	"shutterdesk/internal/services"
)

const reminderWindow = 72 * time.Hour

// PaymentReminderService emails clients' photographers about installments
// coming due in the next three days.
type PaymentReminderService struct {
	paymentRepo     repositories.PaymentRepository
	invoiceRepo     repositories.InvoiceRepository
	userRepo        repositories.UserRepository
	notificationSvc services.NotificationService
}

func NewPaymentReminderService(paymentRepo repositories.PaymentRepository, invoiceRepo repositories.InvoiceRepository,
	userRepo repositories.UserRepository, notificationSvc services.NotificationService) *PaymentReminderService {
	return &PaymentReminderService{
		paymentRepo:     paymentRepo,
		invoiceRepo:     invoiceRepo,
		userRepo:        userRepo,
		notificationSvc: notificationSvc,
	}
}

// Run sends one reminder per pending installment due within the window.
// Failures on one schedule are logged and do not block the rest.
func (s *PaymentReminderService) Run(ctx context.Context) (int, error) {
	cutoff := time.Now().Add(reminderWindow)
	schedules, err := s.paymentRepo.ListDueBefore(ctx, cutoff)
	if err != nil {
		return 0, fmt.Errorf("failed to list due payments: %w", err)
	}

	sent := 0
	for _, schedule := range schedules {
		user, err := s.userRepo.GetByID(ctx, schedule.UserID)
		if err != nil {
			log.Printf("Reminder skipped, user %s not found: %v", schedule.UserID, err)
			continue
		}

		invoice, err := s.invoiceRepo.GetByID(ctx, schedule.UserID, schedule.InvoiceID)
		if err != nil {
			log.Printf("Reminder skipped, invoice %s not found: %v", schedule.InvoiceID, err)
			continue
		}

		data := map[string]interface{}{
			"FirstName":     user.FirstName,
			"Amount":        schedule.Amount,
			"InvoiceNumber": invoice.InvoiceNumber,
			"DueDate":       schedule.DueDate.Format("2006-01-02"),
			"BusinessName":  user.BusinessName,
		}

		subject := fmt.Sprintf("Payment reminder for invoice %s", invoice.InvoiceNumber)
		if err := s.notificationSvc.SendEmail(ctx, user.Email, subject, "payment_reminder", data); err != nil {
			log.Printf("Failed to send reminder for schedule %s: %v", schedule.ID, err)
			continue
		}
		sent++
	}

	return sent, nil
}
