package models

import "time"

// AccessPlan defines the entitlement ceilings for a subscription tier.
// Nil bounds mean unlimited.
type AccessPlan struct {
	ID           int       `json:"id" db:"id"`
	Name         string    `json:"name" db:"name"`
	MaxClients   *int      `json:"max_clients" db:"max_clients"`
	MaxBookings  *int      `json:"max_bookings" db:"max_bookings"`
	PriceMonthly float64   `json:"price_monthly" db:"price_monthly"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time `json:"updated_at" db:"updated_at"`
}
