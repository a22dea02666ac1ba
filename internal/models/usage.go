package models

// UsageSnapshot is computed from live row counts on every request and is
// never persisted. Nil bounds mean unlimited.
type UsageSnapshot struct {
	PlanName         string `json:"plan_name"`
	MaxClients       *int   `json:"max_clients"`
	MaxBookings      *int   `json:"max_bookings"`
	ClientCount      int    `json:"client_count"`
	BookingCount     int    `json:"booking_count"`
	CanCreateClient  bool   `json:"can_create_client"`
	CanCreateBooking bool   `json:"can_create_booking"`
}
