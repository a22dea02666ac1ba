package repositories

import (
	"context"
	"time"

	"shutterdesk/internal/models"

	"github.com/google/uuid"
)

type PaymentRepository interface {
	Create(ctx context.Context, schedule *models.PaymentSchedule) error
	GetByID(ctx context.Context, userID, id uuid.UUID) (*models.PaymentSchedule, error)
	ListByInvoice(ctx context.Context, userID, invoiceID uuid.UUID) ([]*models.PaymentSchedule, error)
	MarkPaid(ctx context.Context, userID, id uuid.UUID, paidDate time.Time) error
	CountPendingByInvoice(ctx context.Context, userID, invoiceID uuid.UUID) (int, error)
	ListDueBefore(ctx context.Context, cutoff time.Time) ([]*models.PaymentSchedule, error)
	Delete(ctx context.Context, userID, id uuid.UUID) error
}

type paymentRepo struct {
	db Database
}

func NewPaymentRepo(db Database) PaymentRepository {
	return &paymentRepo{db: db}
}

const paymentColumns = `id, invoice_id, user_id, amount, due_date, status, paid_date, created_at, updated_at`

func (r *paymentRepo) Create(ctx context.Context, schedule *models.PaymentSchedule) error {
	query := `
		INSERT INTO payment_schedules (id, invoice_id, user_id, amount, due_date, status, paid_date, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, NOW(), NOW())
	`
	_, err := r.db.Exec(ctx, query, schedule.ID, schedule.InvoiceID, schedule.UserID, schedule.Amount, schedule.DueDate, schedule.Status, schedule.PaidDate)
	return err
}

func (r *paymentRepo) GetByID(ctx context.Context, userID, id uuid.UUID) (*models.PaymentSchedule, error) {
	schedule := &models.PaymentSchedule{}
	query := `SELECT ` + paymentColumns + ` FROM payment_schedules WHERE user_id = $1 AND id = $2`
	err := r.db.QueryRow(ctx, query, userID, id).Scan(&schedule.ID, &schedule.InvoiceID, &schedule.UserID, &schedule.Amount, &schedule.DueDate, &schedule.Status, &schedule.PaidDate, &schedule.CreatedAt, &schedule.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return schedule, nil
}

func (r *paymentRepo) ListByInvoice(ctx context.Context, userID, invoiceID uuid.UUID) ([]*models.PaymentSchedule, error) {
	query := `
		SELECT ` + paymentColumns + `
		FROM payment_schedules
		WHERE user_id = $1 AND invoice_id = $2
		ORDER BY due_date ASC
	`
	rows, err := r.db.Query(ctx, query, userID, invoiceID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var schedules []*models.PaymentSchedule
	for rows.Next() {
		schedule := &models.PaymentSchedule{}
		if err := rows.Scan(&schedule.ID, &schedule.InvoiceID, &schedule.UserID, &schedule.Amount, &schedule.DueDate, &schedule.Status, &schedule.PaidDate, &schedule.CreatedAt, &schedule.UpdatedAt); err != nil {
			return nil, err
		}
		schedules = append(schedules, schedule)
	}
	return schedules, rows.Err()
}

func (r *paymentRepo) MarkPaid(ctx context.Context, userID, id uuid.UUID, paidDate time.Time) error {
	query := `UPDATE payment_schedules SET status = 'paid', paid_date = $1, updated_at = NOW() WHERE user_id = $2 AND id = $3 AND status = 'pending'`
	_, err := r.db.Exec(ctx, query, paidDate, userID, id)
	return err
}

func (r *paymentRepo) CountPendingByInvoice(ctx context.Context, userID, invoiceID uuid.UUID) (int, error) {
	var count int
	query := `SELECT COUNT(*) FROM payment_schedules WHERE user_id = $1 AND invoice_id = $2 AND status = 'pending'`
	err := r.db.QueryRow(ctx, query, userID, invoiceID).Scan(&count)
	return count, err
}

// ListDueBefore feeds the reminder job; unscoped by owner. Only installments
// coming due between now and the cutoff qualify, so an installment that was
// never settled is not re-mailed every day after its due date passes.
func (r *paymentRepo) ListDueBefore(ctx context.Context, cutoff time.Time) ([]*models.PaymentSchedule, error) {
	query := `
		SELECT ` + paymentColumns + `
		FROM payment_schedules
		WHERE status = 'pending' AND due_date BETWEEN NOW() AND $1
		ORDER BY due_date ASC
	`
	rows, err := r.db.Query(ctx, query, cutoff)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var schedules []*models.PaymentSchedule
	for rows.Next() {
		schedule := &models.PaymentSchedule{}
		if err := rows.Scan(&schedule.ID, &schedule.InvoiceID, &schedule.UserID, &schedule.Amount, &schedule.DueDate, &schedule.Status, &schedule.PaidDate, &schedule.CreatedAt, &schedule.UpdatedAt); err != nil {
			return nil, err
		}
		schedules = append(schedules, schedule)
	}
	return schedules, rows.Err()
}

func (r *paymentRepo) Delete(ctx context.Context, userID, id uuid.UUID) error {
	query := `DELETE FROM payment_schedules WHERE user_id = $1 AND id = $2`
	_, err := r.db.Exec(ctx, query, userID, id)
	return err
}
