package handlers

import (
	"errors"
	"log"
	"net/http"
	"strings"

	"shutterdesk/internal/common"
	"shutterdesk/internal/models"
	"shutterdesk/internal/repositories"
	"shutterdesk/internal/services"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/labstack/echo/v4"
	"golang.org/x/crypto/bcrypt"
)

// uniqueViolation is the PostgreSQL error code for a unique constraint hit.
const uniqueViolation = "23505"

// AuthHandlers handles signup, login, and the current-user endpoint.
type AuthHandlers struct {
	tokenSvc        services.TokenService
	userRepo        repositories.UserRepository
	notificationSvc services.NotificationService
	freePlanID      int
}

func NewAuthHandlers(tokenSvc services.TokenService, userRepo repositories.UserRepository,
	notificationSvc services.NotificationService, freePlanID int) *AuthHandlers {
	return &AuthHandlers{
		tokenSvc:        tokenSvc,
		userRepo:        userRepo,
		notificationSvc: notificationSvc,
		freePlanID:      freePlanID,
	}
}

// SignupRequest represents the signup request payload
type SignupRequest struct {
	Email        string `json:"email"`
	Password     string `json:"password"`
	FirstName    string `json:"first_name"`
	LastName     string `json:"last_name"`
	BusinessName string `json:"business_name"`
}

// LoginRequest represents the login request payload
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// AuthResponse pairs the issued token with the user record.
type AuthResponse struct {
	models.TokenResponse
	User *models.User `json:"user"`
}

// Signup registers a photographer on the free plan and logs them in.
func (h *AuthHandlers) Signup(c echo.Context) error {
	ctx := c.Request().Context()

	var req SignupRequest
	if err := c.Bind(&req); err != nil {
		return common.SendClientError(c, "Invalid request format")
	}

	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if req.Email == "" || !strings.Contains(req.Email, "@") {
		return common.SendValidationError(c, "email", "A valid email is required")
	}
	if len(req.Password) < 8 {
		return common.SendValidationError(c, "password", "Password must be at least 8 characters")
	}
	if req.FirstName == "" {
		return common.SendValidationError(c, "first_name", "First name is required")
	}

	if existing, err := h.userRepo.GetByEmail(ctx, req.Email); err == nil && existing != nil {
		return common.SendClientError(c, "An account with this email already exists")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return common.SendServerError(c, "Failed to process password")
	}

	user := &models.User{
		ID:           uuid.New(),
		Email:        req.Email,
		PasswordHash: string(hash),
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		BusinessName: req.BusinessName,
		Role:         "photographer",
		Status:       "active",
		PlanID:       h.freePlanID,
	}

	if err := h.userRepo.Create(ctx, user); err != nil {
		// The pre-check above races with concurrent signups; the unique index
		// on email is the authority.
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return common.SendClientError(c, "An account with this email already exists")
		}
		log.Printf("Failed to create user: %v", err)
		return common.SendServerError(c, "Failed to create account")
	}

	tokenResponse, err := h.tokenSvc.Issue(services.Identity{
		UserID: user.ID,
		Email:  user.Email,
		Role:   user.Role,
	})
	if err != nil {
		return common.SendServerError(c, "Failed to issue token")
	}

	if err := h.notificationSvc.SendEmail(ctx, user.Email, "Welcome to ShutterDesk", "welcome", map[string]interface{}{
		"FirstName": user.FirstName,
	}); err != nil {
		log.Printf("Failed to send welcome email to %s: %v", user.Email, err)
	}

	return c.JSON(http.StatusCreated, AuthResponse{TokenResponse: *tokenResponse, User: user})
}

// Login authenticates with email and password.
func (h *AuthHandlers) Login(c echo.Context) error {
	ctx := c.Request().Context()

	var req LoginRequest
	if err := c.Bind(&req); err != nil {
		return common.SendClientError(c, "Invalid request format")
	}

	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if req.Email == "" || req.Password == "" {
		return common.SendClientError(c, "Email and password are required")
	}

	user, err := h.userRepo.GetByEmail(ctx, req.Email)
	if err != nil || user == nil {
		return common.SendUnauthorizedError(c, "Invalid email or password")
	}

	if user.Status != "active" {
		return common.SendUnauthorizedError(c, "Account is disabled")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return common.SendUnauthorizedError(c, "Invalid email or password")
	}

	tokenResponse, err := h.tokenSvc.Issue(services.Identity{
		UserID: user.ID,
		Email:  user.Email,
		Role:   user.Role,
	})
	if err != nil {
		return common.SendServerError(c, "Failed to issue token")
	}

	return c.JSON(http.StatusOK, AuthResponse{TokenResponse: *tokenResponse, User: user})
}

// Me returns the authenticated user's profile.
func (h *AuthHandlers) Me(c echo.Context) error {
	ctx := c.Request().Context()

	userID, ok := common.GetUserIDFromContext(ctx)
	if !ok {
		return common.SendUnauthorizedError(c, "")
	}

	user, err := h.userRepo.GetByID(ctx, userID)
	if err != nil {
		return common.SendNotFoundError(c, "User")
	}

	return c.JSON(http.StatusOK, user)
}
