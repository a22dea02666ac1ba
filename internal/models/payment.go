package models

import (
	"time"

	"github.com/google/uuid"
)

// PaymentSchedule is one installment toward an invoice.
type PaymentSchedule struct {
	ID        uuid.UUID  `json:"id" db:"id"`
	InvoiceID uuid.UUID  `json:"invoice_id" db:"invoice_id"`
	UserID    uuid.UUID  `json:"user_id" db:"user_id"`
	Amount    float64    `json:"amount" db:"amount"`
	DueDate   time.Time  `json:"due_date" db:"due_date"`
	Status    string     `json:"status" db:"status"`
	PaidDate  *time.Time `json:"paid_date" db:"paid_date"`
	CreatedAt time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt time.Time  `json:"updated_at" db:"updated_at"`
}
