package jobs

import (
	"context"
	"fmt"
	"log"

	"shutterdesk/internal/repositories"
)

// PlanDowngradeService moves users whose paid plan has lapsed back to the
// free plan. The count and the update run inside one transaction so a
// concurrent renewal cannot land between them.
type PlanDowngradeService struct {
	db         repositories.Database
	freePlanID int
}

func NewPlanDowngradeService(db repositories.Database, freePlanID int) *PlanDowngradeService {
	return &PlanDowngradeService{
		db:         db,
		freePlanID: freePlanID,
	}
}

// Run downgrades all expired users and returns how many were affected.
func (s *PlanDowngradeService) Run(ctx context.Context) (int, error) {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to begin downgrade transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	var affected int
	countQuery := `
		SELECT COUNT(*)
		FROM users
		WHERE plan_expires_at IS NOT NULL AND plan_expires_at < NOW() AND plan_id <> $1
	`
	if err := tx.QueryRow(ctx, countQuery, s.freePlanID).Scan(&affected); err != nil {
		return 0, fmt.Errorf("failed to count expired plans: %w", err)
	}

	if affected == 0 {
		return 0, tx.Commit(ctx)
	}

	updateQuery := `
		UPDATE users
		SET plan_id = $1, plan_expires_at = NULL, updated_at = NOW()
		WHERE plan_expires_at IS NOT NULL AND plan_expires_at < NOW() AND plan_id <> $1
	`
	if _, err := tx.Exec(ctx, updateQuery, s.freePlanID); err != nil {
		return 0, fmt.Errorf("failed to downgrade expired plans: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("failed to commit downgrade transaction: %w", err)
	}

	log.Printf("Downgraded %d users to plan %d", affected, s.freePlanID)
	return affected, nil
}
