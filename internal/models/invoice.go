package models

import (
	"time"

	"github.com/google/uuid"
)

type Invoice struct {
	ID            uuid.UUID  `json:"id" db:"id"`
	UserID        uuid.UUID  `json:"user_id" db:"user_id"`
	ClientID      uuid.UUID  `json:"client_id" db:"client_id"`
	BookingID     *uuid.UUID `json:"booking_id" db:"booking_id"`
	InvoiceNumber string     `json:"invoice_number" db:"invoice_number"`
	Amount        float64    `json:"amount" db:"amount"`
	Status        string     `json:"status" db:"status"`
	IssuedDate    time.Time  `json:"issued_date" db:"issued_date"`
	DueDate       time.Time  `json:"due_date" db:"due_date"`
	PaidDate      *time.Time `json:"paid_date" db:"paid_date"`
	CreatedAt     time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at" db:"updated_at"`
}
