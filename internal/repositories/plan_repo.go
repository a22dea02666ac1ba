package repositories

import (
	"context"

	"shutterdesk/internal/models"

	"github.com/google/uuid"
)

type PlanRepository interface {
	Create(ctx context.Context, plan *models.AccessPlan) error
	GetByID(ctx context.Context, id int) (*models.AccessPlan, error)
	GetByUserID(ctx context.Context, userID uuid.UUID) (*models.AccessPlan, error)
	Update(ctx context.Context, plan *models.AccessPlan) error
	List(ctx context.Context) ([]*models.AccessPlan, error)
}

type planRepo struct {
	db Database
}

func NewPlanRepo(db Database) PlanRepository {
	return &planRepo{db: db}
}

func (r *planRepo) Create(ctx context.Context, plan *models.AccessPlan) error {
	query := `
		INSERT INTO access_plans (name, max_clients, max_bookings, price_monthly, created_at, updated_at)
		VALUES ($1, $2, $3, $4, NOW(), NOW())
		RETURNING id
	`
	return r.db.QueryRow(ctx, query, plan.Name, plan.MaxClients, plan.MaxBookings, plan.PriceMonthly).Scan(&plan.ID)
}

func (r *planRepo) GetByID(ctx context.Context, id int) (*models.AccessPlan, error) {
	plan := &models.AccessPlan{}
	query := `
		SELECT id, name, max_clients, max_bookings, price_monthly, created_at, updated_at
		FROM access_plans
		WHERE id = $1
	`
	err := r.db.QueryRow(ctx, query, id).Scan(&plan.ID, &plan.Name, &plan.MaxClients, &plan.MaxBookings, &plan.PriceMonthly, &plan.CreatedAt, &plan.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return plan, nil
}

// GetByUserID resolves the plan assigned to a user. Returns pgx.ErrNoRows
// when the user has no resolvable plan; callers must treat that as a denial.
func (r *planRepo) GetByUserID(ctx context.Context, userID uuid.UUID) (*models.AccessPlan, error) {
	plan := &models.AccessPlan{}
	query := `
		SELECT p.id, p.name, p.max_clients, p.max_bookings, p.price_monthly, p.created_at, p.updated_at
		FROM access_plans p
		JOIN users u ON u.plan_id = p.id
		WHERE u.id = $1
	`
	err := r.db.QueryRow(ctx, query, userID).Scan(&plan.ID, &plan.Name, &plan.MaxClients, &plan.MaxBookings, &plan.PriceMonthly, &plan.CreatedAt, &plan.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return plan, nil
}

func (r *planRepo) Update(ctx context.Context, plan *models.AccessPlan) error {
	query := `
		UPDATE access_plans
		SET name = $1, max_clients = $2, max_bookings = $3, price_monthly = $4, updated_at = NOW()
		WHERE id = $5
	`
	_, err := r.db.Exec(ctx, query, plan.Name, plan.MaxClients, plan.MaxBookings, plan.PriceMonthly, plan.ID)
	return err
}

func (r *planRepo) List(ctx context.Context) ([]*models.AccessPlan, error) {
	query := `
		SELECT id, name, max_clients, max_bookings, price_monthly, created_at, updated_at
		FROM access_plans
		ORDER BY price_monthly ASC
	`
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var plans []*models.AccessPlan
	for rows.Next() {
		plan := &models.AccessPlan{}
		if err := rows.Scan(&plan.ID, &plan.Name, &plan.MaxClients, &plan.MaxBookings, &plan.PriceMonthly, &plan.CreatedAt, &plan.UpdatedAt); err != nil {
			return nil, err
		}
		plans = append(plans, plan)
	}
	return plans, rows.Err()
}
