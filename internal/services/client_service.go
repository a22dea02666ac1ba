package services

import (
	"context"
	"fmt"

	"shutterdesk/internal/models"
	"shutterdesk/internal/repositories"

	"github.com/google/uuid"
)

type CreateClientRequest struct {
	Name  string  `json:"name"`
	Email *string `json:"email"`
	Phone *string `json:"phone"`
	Notes *string `json:"notes"`
}

type ClientService interface {
	Create(ctx context.Context, userID uuid.UUID, req *CreateClientRequest) (*models.Client, error)
	GetByID(ctx context.Context, userID, clientID uuid.UUID) (*models.Client, error)
	List(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*models.Client, error)
	Update(ctx context.Context, client *models.Client) error
	Delete(ctx context.Context, userID, clientID uuid.UUID) error
}

type clientService struct {
	clientRepo   repositories.ClientRepository
	entitlements EntitlementService
}

func NewClientService(clientRepo repositories.ClientRepository, entitlements EntitlementService) ClientService {
	return &clientService{
		clientRepo:   clientRepo,
		entitlements: entitlements,
	}
}

// Create inserts the client under the caller's plan ceiling. The bound is
// resolved first (fail-closed), then enforced atomically by the conditional
// insert, so concurrent creations cannot both pass the check.
func (s *clientService) Create(ctx context.Context, userID uuid.UUID, req *CreateClientRequest) (*models.Client, error) {
	if req.Name == "" {
		return nil, fmt.Errorf("client name is required")
	}

	bound, err := s.entitlements.Bound(ctx, userID, ResourceClient)
	if err != nil {
		return nil, err
	}

	client := &models.Client{
		ID:     uuid.New(),
		UserID: userID,
		Name:   req.Name,
		Email:  req.Email,
		Phone:  req.Phone,
		Notes:  req.Notes,
	}

	inserted, err := s.clientRepo.CreateWithinLimit(ctx, client, bound)
	if err != nil {
		return nil, fmt.Errorf("failed to create client: %w", err)
	}
	if !inserted {
		return nil, ErrLimitReached
	}

	return client, nil
}

func (s *clientService) GetByID(ctx context.Context, userID, clientID uuid.UUID) (*models.Client, error) {
	return s.clientRepo.GetByID(ctx, userID, clientID)
}

func (s *clientService) List(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*models.Client, error) {
	if limit <= 0 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}
	return s.clientRepo.List(ctx, userID, limit, offset)
}

func (s *clientService) Update(ctx context.Context, client *models.Client) error {
	if client.Name == "" {
		return fmt.Errorf("client name is required")
	}
	return s.clientRepo.Update(ctx, client)
}

func (s *clientService) Delete(ctx context.Context, userID, clientID uuid.UUID) error {
	return s.clientRepo.Delete(ctx, userID, clientID)
}
