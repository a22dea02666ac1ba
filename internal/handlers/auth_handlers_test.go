package handlers

import (
	"context"
	"net/http"
	"testing"
	"time"

	"shutterdesk/internal/models"
	"shutterdesk/internal/services"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, user *models.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) Update(ctx context.Context, user *models.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) SetPlan(ctx context.Context, userID uuid.UUID, planID int, expiresAt *time.Time) error {
	args := m.Called(ctx, userID, planID, expiresAt)
	return args.Error(0)
}

func (m *MockUserRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func newAuthHandlers(t *testing.T, userRepo *MockUserRepository) *AuthHandlers {
	t.Helper()

	tokenSvc, err := services.NewTokenService("handler-test-secret")
	require.NoError(t, err)
	notificationSvc := services.NewNotificationService("log", "", "no-reply@example.com")

	return NewAuthHandlers(tokenSvc, userRepo, notificationSvc, 1)
}

// A concurrent signup can slip past the pre-check; the unique index on email
// must still surface as the friendly duplicate message, not a 500.
func TestSignupUniqueViolationIsDuplicateEmail(t *testing.T) {
	userRepo := new(MockUserRepository)
	h := newAuthHandlers(t, userRepo)

	userRepo.On("GetByEmail", mock.Anything, "ada@example.com").Return(nil, pgx.ErrNoRows)
	userRepo.On("Create", mock.Anything, mock.AnythingOfType("*models.User")).
		Return(&pgconn.PgError{Code: "23505", ConstraintName: "users_email_key"})

	c, rec := newHandlerContext(t, http.MethodPost, "/v1/auth/signup",
		`{"email":"ada@example.com","password":"correct-horse","first_name":"Ada"}`, uuid.Nil)
	assert.NoError(t, h.Signup(c))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "already exists")
}

func TestSignupRejectsShortPassword(t *testing.T) {
	userRepo := new(MockUserRepository)
	h := newAuthHandlers(t, userRepo)

	c, rec := newHandlerContext(t, http.MethodPost, "/v1/auth/signup",
		`{"email":"ada@example.com","password":"short","first_name":"Ada"}`, uuid.Nil)
	assert.NoError(t, h.Signup(c))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), `"VALIDATION_ERROR"`)
	userRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestSignupIssuesTokenOnSuccess(t *testing.T) {
	userRepo := new(MockUserRepository)
	h := newAuthHandlers(t, userRepo)

	userRepo.On("GetByEmail", mock.Anything, "ada@example.com").Return(nil, pgx.ErrNoRows)
	userRepo.On("Create", mock.Anything, mock.AnythingOfType("*models.User")).Return(nil)

	c, rec := newHandlerContext(t, http.MethodPost, "/v1/auth/signup",
		`{"email":"Ada@Example.com","password":"correct-horse","first_name":"Ada"}`, uuid.Nil)
	assert.NoError(t, h.Signup(c))

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Contains(t, rec.Body.String(), `"access_token"`)
	// Email is normalized before storage and lookup.
	assert.Contains(t, rec.Body.String(), `"ada@example.com"`)
}
