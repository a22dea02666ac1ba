package models

import (
	"time"

	"github.com/google/uuid"
)

type User struct {
	ID            uuid.UUID  `json:"id" db:"id"`
	Email         string     `json:"email" db:"email"`
	PasswordHash  string     `json:"-" db:"password_hash"` // Never serialize in JSON
	FirstName     string     `json:"first_name" db:"first_name"`
	LastName      string     `json:"last_name" db:"last_name"`
	BusinessName  string     `json:"business_name" db:"business_name"`
	Role          string     `json:"role" db:"role"`
	Status        string     `json:"status" db:"status"`
	PlanID        int        `json:"plan_id" db:"plan_id"`
	PlanExpiresAt *time.Time `json:"plan_expires_at" db:"plan_expires_at"`
	CreatedAt     time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at" db:"updated_at"`
}
