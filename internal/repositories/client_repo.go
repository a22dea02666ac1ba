package repositories

import (
	"context"

	"shutterdesk/internal/models"

	"github.com/google/uuid"
)

type ClientRepository interface {
	// CreateWithinLimit inserts the client only while the owner's row count is
	// below maxClients. The owner row is locked for the transaction so
	// concurrent creations serialize and cannot both slip past the limit.
	// A nil bound means unlimited. Returns false when the ceiling blocked the
	// insert.
	CreateWithinLimit(ctx context.Context, client *models.Client, maxClients *int) (bool, error)
	GetByID(ctx context.Context, userID, id uuid.UUID) (*models.Client, error)
	List(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*models.Client, error)
	Update(ctx context.Context, client *models.Client) error
	Delete(ctx context.Context, userID, id uuid.UUID) error
	CountByUser(ctx context.Context, userID uuid.UUID) (int, error)
}

type clientRepo struct {
	db Database
}

func NewClientRepo(db Database) ClientRepository {
	return &clientRepo{db: db}
}

func (r *clientRepo) CreateWithinLimit(ctx context.Context, client *models.Client, maxClients *int) (bool, error) {
	if maxClients == nil {
		query := `
			INSERT INTO clients (id, user_id, name, email, phone, notes, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6, NOW(), NOW())
		`
		if _, err := r.db.Exec(ctx, query, client.ID, client.UserID, client.Name, client.Email, client.Phone, client.Notes); err != nil {
			return false, err
		}
		return true, nil
	}

	tx, err := r.db.Begin(ctx)
	if err != nil {
		return false, err
	}
	defer tx.Rollback(ctx)

	// The count below is only trustworthy while the owner row is locked:
	// without it, two concurrent inserts each read a pre-insert count under
	// READ COMMITTED and both pass the guard.
	var ownerID uuid.UUID
	if err := tx.QueryRow(ctx, `SELECT id FROM users WHERE id = $1 FOR UPDATE`, client.UserID).Scan(&ownerID); err != nil {
		return false, err
	}

	query := `
		INSERT INTO clients (id, user_id, name, email, phone, notes, created_at, updated_at)
		SELECT $1, $2, $3, $4, $5, $6, NOW(), NOW()
		WHERE (SELECT COUNT(*) FROM clients WHERE user_id = $2) < $7
	`
	tag, err := tx.Exec(ctx, query, client.ID, client.UserID, client.Name, client.Email, client.Phone, client.Notes, *maxClients)
	if err != nil {
		return false, err
	}
	if err := tx.Commit(ctx); err != nil {
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}

func (r *clientRepo) GetByID(ctx context.Context, userID, id uuid.UUID) (*models.Client, error) {
	client := &models.Client{}
	query := `
		SELECT id, user_id, name, email, phone, notes, created_at, updated_at
		FROM clients
		WHERE user_id = $1 AND id = $2
	`
	err := r.db.QueryRow(ctx, query, userID, id).Scan(&client.ID, &client.UserID, &client.Name, &client.Email, &client.Phone, &client.Notes, &client.CreatedAt, &client.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return client, nil
}

func (r *clientRepo) List(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*models.Client, error) {
	query := `
		SELECT id, user_id, name, email, phone, notes, created_at, updated_at
		FROM clients
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`
	rows, err := r.db.Query(ctx, query, userID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var clients []*models.Client
	for rows.Next() {
		client := &models.Client{}
		if err := rows.Scan(&client.ID, &client.UserID, &client.Name, &client.Email, &client.Phone, &client.Notes, &client.CreatedAt, &client.UpdatedAt); err != nil {
			return nil, err
		}
		clients = append(clients, client)
	}
	return clients, rows.Err()
}

func (r *clientRepo) Update(ctx context.Context, client *models.Client) error {
	query := `
		UPDATE clients
		SET name = $1, email = $2, phone = $3, notes = $4, updated_at = NOW()
		WHERE user_id = $5 AND id = $6
	`
	_, err := r.db.Exec(ctx, query, client.Name, client.Email, client.Phone, client.Notes, client.UserID, client.ID)
	return err
}

func (r *clientRepo) Delete(ctx context.Context, userID, id uuid.UUID) error {
	query := `DELETE FROM clients WHERE user_id = $1 AND id = $2`
	_, err := r.db.Exec(ctx, query, userID, id)
	return err
}

func (r *clientRepo) CountByUser(ctx context.Context, userID uuid.UUID) (int, error) {
	var count int
	query := `SELECT COUNT(*) FROM clients WHERE user_id = $1`
	err := r.db.QueryRow(ctx, query, userID).Scan(&count)
	return count, err
}
