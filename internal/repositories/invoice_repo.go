package repositories

import (
	"context"
	"time"

	"shutterdesk/internal/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type InvoiceRepository interface {
	Create(ctx context.Context, invoice *models.Invoice) error
	GetByID(ctx context.Context, userID, id uuid.UUID) (*models.Invoice, error)
	List(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*models.Invoice, error)
	ListUnpaid(ctx context.Context, userID uuid.UUID) ([]*models.Invoice, error)
	Update(ctx context.Context, invoice *models.Invoice) error
	UpdateStatus(ctx context.Context, userID, id uuid.UUID, status string, paidDate *time.Time) error
	Delete(ctx context.Context, userID, id uuid.UUID) error
	MarkOverdue(ctx context.Context) (int64, error)
	SumOutstanding(ctx context.Context, userID uuid.UUID) (float64, error)
	SumPaidSince(ctx context.Context, userID uuid.UUID, since time.Time) (float64, error)
}

type invoiceRepo struct {
	db Database
}

func NewInvoiceRepo(db Database) InvoiceRepository {
	return &invoiceRepo{db: db}
}

const invoiceColumns = `id, user_id, client_id, booking_id, invoice_number, amount, status, issued_date, due_date, paid_date, created_at, updated_at`

func (r *invoiceRepo) Create(ctx context.Context, invoice *models.Invoice) error {
	query := `
		INSERT INTO invoices (id, user_id, client_id, booking_id, invoice_number, amount, status, issued_date, due_date, paid_date, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, NOW(), NOW())
	`
	_, err := r.db.Exec(ctx, query, invoice.ID, invoice.UserID, invoice.ClientID, invoice.BookingID, invoice.InvoiceNumber, invoice.Amount, invoice.Status, invoice.IssuedDate, invoice.DueDate, invoice.PaidDate)
	return err
}

func (r *invoiceRepo) GetByID(ctx context.Context, userID, id uuid.UUID) (*models.Invoice, error) {
	invoice := &models.Invoice{}
	query := `SELECT ` + invoiceColumns + ` FROM invoices WHERE user_id = $1 AND id = $2`
	err := r.db.QueryRow(ctx, query, userID, id).Scan(&invoice.ID, &invoice.UserID, &invoice.ClientID, &invoice.BookingID, &invoice.InvoiceNumber, &invoice.Amount, &invoice.Status, &invoice.IssuedDate, &invoice.DueDate, &invoice.PaidDate, &invoice.CreatedAt, &invoice.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return invoice, nil
}

func (r *invoiceRepo) List(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*models.Invoice, error) {
	query := `
		SELECT ` + invoiceColumns + `
		FROM invoices
		WHERE user_id = $1
		ORDER BY issued_date DESC
		LIMIT $2 OFFSET $3
	`
	rows, err := r.db.Query(ctx, query, userID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanInvoices(rows)
}

func (r *invoiceRepo) ListUnpaid(ctx context.Context, userID uuid.UUID) ([]*models.Invoice, error) {
	query := `
		SELECT ` + invoiceColumns + `
		FROM invoices
		WHERE user_id = $1 AND status IN ('sent', 'overdue')
		ORDER BY due_date ASC
	`
	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanInvoices(rows)
}

func (r *invoiceRepo) Update(ctx context.Context, invoice *models.Invoice) error {
	query := `
		UPDATE invoices
		SET client_id = $1, booking_id = $2, amount = $3, due_date = $4, updated_at = NOW()
		WHERE user_id = $5 AND id = $6
	`
	_, err := r.db.Exec(ctx, query, invoice.ClientID, invoice.BookingID, invoice.Amount, invoice.DueDate, invoice.UserID, invoice.ID)
	return err
}

func (r *invoiceRepo) UpdateStatus(ctx context.Context, userID, id uuid.UUID, status string, paidDate *time.Time) error {
	query := `UPDATE invoices SET status = $1, paid_date = $2, updated_at = NOW() WHERE user_id = $3 AND id = $4`
	_, err := r.db.Exec(ctx, query, status, paidDate, userID, id)
	return err
}

func (r *invoiceRepo) Delete(ctx context.Context, userID, id uuid.UUID) error {
	query := `DELETE FROM invoices WHERE user_id = $1 AND id = $2`
	_, err := r.db.Exec(ctx, query, userID, id)
	return err
}

// MarkOverdue flips sent invoices past their due date. Runs from the
// background sweep, unscoped by owner.
func (r *invoiceRepo) MarkOverdue(ctx context.Context) (int64, error) {
	query := `UPDATE invoices SET status = 'overdue', updated_at = NOW() WHERE status = 'sent' AND due_date < NOW()`
	tag, err := r.db.Exec(ctx, query)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

func (r *invoiceRepo) SumOutstanding(ctx context.Context, userID uuid.UUID) (float64, error) {
	var total float64
	query := `SELECT COALESCE(SUM(amount), 0) FROM invoices WHERE user_id = $1 AND status IN ('sent', 'overdue')`
	err := r.db.QueryRow(ctx, query, userID).Scan(&total)
	return total, err
}

func (r *invoiceRepo) SumPaidSince(ctx context.Context, userID uuid.UUID, since time.Time) (float64, error) {
	var total float64
	query := `SELECT COALESCE(SUM(amount), 0) FROM invoices WHERE user_id = $1 AND status = 'paid' AND paid_date >= $2`
	err := r.db.QueryRow(ctx, query, userID, since).Scan(&total)
	return total, err
}

func scanInvoices(rows pgx.Rows) ([]*models.Invoice, error) {
	var invoices []*models.Invoice
	for rows.Next() {
		invoice := &models.Invoice{}
		if err := rows.Scan(&invoice.ID, &invoice.UserID, &invoice.ClientID, &invoice.BookingID, &invoice.InvoiceNumber, &invoice.Amount, &invoice.Status, &invoice.IssuedDate, &invoice.DueDate, &invoice.PaidDate, &invoice.CreatedAt, &invoice.UpdatedAt); err != nil {
			return nil, err
		}
		invoices = append(invoices, invoice)
	}
	return invoices, rows.Err()
}
