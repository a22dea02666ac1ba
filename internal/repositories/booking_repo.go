package repositories

import (
	"context"

	"shutterdesk/internal/models"

	"github.com/google/uuid"
)

type BookingRepository interface {
	// CreateWithinLimit mirrors ClientRepository.CreateWithinLimit for
	// bookings: the owner row is locked so concurrent creations serialize
	// against the ceiling.
	CreateWithinLimit(ctx context.Context, booking *models.Booking, maxBookings *int) (bool, error)
	GetByID(ctx context.Context, userID, id uuid.UUID) (*models.Booking, error)
	List(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*models.Booking, error)
	Update(ctx context.Context, booking *models.Booking) error
	UpdateStatus(ctx context.Context, userID, id uuid.UUID, status string) error
	Delete(ctx context.Context, userID, id uuid.UUID) error
	CountByUser(ctx context.Context, userID uuid.UUID) (int, error)
	CountUpcoming(ctx context.Context, userID uuid.UUID) (int, error)
}

type bookingRepo struct {
	db Database
}

func NewBookingRepo(db Database) BookingRepository {
	return &bookingRepo{db: db}
}

const bookingColumns = `id, user_id, client_id, title, location, starts_at, ends_at, status, price, notes, created_at, updated_at`

func (r *bookingRepo) CreateWithinLimit(ctx context.Context, booking *models.Booking, maxBookings *int) (bool, error) {
	if maxBookings == nil {
		query := `
			INSERT INTO bookings (id, user_id, client_id, title, location, starts_at, ends_at, status, price, notes, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, NOW(), NOW())
		`
		if _, err := r.db.Exec(ctx, query, booking.ID, booking.UserID, booking.ClientID, booking.Title, booking.Location, booking.StartsAt, booking.EndsAt, booking.Status, booking.Price, booking.Notes); err != nil {
			return false, err
		}
		return true, nil
	}

	tx, err := r.db.Begin(ctx)
	if err != nil {
		return false, err
	}
	defer tx.Rollback(ctx)

	var ownerID uuid.UUID
	if err := tx.QueryRow(ctx, `SELECT id FROM users WHERE id = $1 FOR UPDATE`, booking.UserID).Scan(&ownerID); err != nil {
		return false, err
	}

	query := `
		INSERT INTO bookings (id, user_id, client_id, title, location, starts_at, ends_at, status, price, notes, created_at, updated_at)
		SELECT $1, $2, $3, $4, $5, $6, $7, $8, $9, $10, NOW(), NOW()
		WHERE (SELECT COUNT(*) FROM bookings WHERE user_id = $2) < $11
	`
	tag, err := tx.Exec(ctx, query, booking.ID, booking.UserID, booking.ClientID, booking.Title, booking.Location, booking.StartsAt, booking.EndsAt, booking.Status, booking.Price, booking.Notes, *maxBookings)
	if err != nil {
		return false, err
	}
	if err := tx.Commit(ctx); err != nil {
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}

func (r *bookingRepo) GetByID(ctx context.Context, userID, id uuid.UUID) (*models.Booking, error) {
	booking := &models.Booking{}
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE user_id = $1 AND id = $2`
	err := r.db.QueryRow(ctx, query, userID, id).Scan(&booking.ID, &booking.UserID, &booking.ClientID, &booking.Title, &booking.Location, &booking.StartsAt, &booking.EndsAt, &booking.Status, &booking.Price, &booking.Notes, &booking.CreatedAt, &booking.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return booking, nil
}

func (r *bookingRepo) List(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*models.Booking, error) {
	query := `
		SELECT ` + bookingColumns + `
		FROM bookings
		WHERE user_id = $1
		ORDER BY starts_at DESC
		LIMIT $2 OFFSET $3
	`
	rows, err := r.db.Query(ctx, query, userID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var bookings []*models.Booking
	for rows.Next() {
		booking := &models.Booking{}
		if err := rows.Scan(&booking.ID, &booking.UserID, &booking.ClientID, &booking.Title, &booking.Location, &booking.StartsAt, &booking.EndsAt, &booking.Status, &booking.Price, &booking.Notes, &booking.CreatedAt, &booking.UpdatedAt); err != nil {
			return nil, err
		}
		bookings = append(bookings, booking)
	}
	return bookings, rows.Err()
}

func (r *bookingRepo) Update(ctx context.Context, booking *models.Booking) error {
	query := `
		UPDATE bookings
		SET client_id = $1, title = $2, location = $3, starts_at = $4, ends_at = $5, price = $6, notes = $7, updated_at = NOW()
		WHERE user_id = $8 AND id = $9
	`
	_, err := r.db.Exec(ctx, query, booking.ClientID, booking.Title, booking.Location, booking.StartsAt, booking.EndsAt, booking.Price, booking.Notes, booking.UserID, booking.ID)
	return err
}

func (r *bookingRepo) UpdateStatus(ctx context.Context, userID, id uuid.UUID, status string) error {
	query := `UPDATE bookings SET status = $1, updated_at = NOW() WHERE user_id = $2 AND id = $3`
	_, err := r.db.Exec(ctx, query, status, userID, id)
	return err
}

func (r *bookingRepo) Delete(ctx context.Context, userID, id uuid.UUID) error {
	query := `DELETE FROM bookings WHERE user_id = $1 AND id = $2`
	_, err := r.db.Exec(ctx, query, userID, id)
	return err
}

func (r *bookingRepo) CountByUser(ctx context.Context, userID uuid.UUID) (int, error) {
	var count int
	query := `SELECT COUNT(*) FROM bookings WHERE user_id = $1`
	err := r.db.QueryRow(ctx, query, userID).Scan(&count)
	return count, err
}

func (r *bookingRepo) CountUpcoming(ctx context.Context, userID uuid.UUID) (int, error) {
	var count int
	query := `SELECT COUNT(*) FROM bookings WHERE user_id = $1 AND starts_at > NOW() AND status IN ('pending', 'confirmed')`
	err := r.db.QueryRow(ctx, query, userID).Scan(&count)
	return count, err
}
