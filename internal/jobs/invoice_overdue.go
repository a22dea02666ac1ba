package jobs

import (
	"context"
	"log"

	"shutterdesk/internal/repositories"
)

// InvoiceOverdueService sweeps sent invoices past their due date into the
// overdue state.
type InvoiceOverdueService struct {
	invoiceRepo repositories.InvoiceRepository
}

func NewInvoiceOverdueService(invoiceRepo repositories.InvoiceRepository) *InvoiceOverdueService {
	return &InvoiceOverdueService{invoiceRepo: invoiceRepo}
}

func (s *InvoiceOverdueService) Run(ctx context.Context) (int64, error) {
	affected, err := s.invoiceRepo.MarkOverdue(ctx)
	if err != nil {
		log.Printf("Failed to mark overdue invoices: %v", err)
		return 0, err
	}
	if affected > 0 {
		log.Printf("Marked %d invoices overdue", affected)
	}
	return affected, nil
}
