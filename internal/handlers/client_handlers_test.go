package handlers

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"shutterdesk/internal/common"
	"shutterdesk/internal/models"
	"shutterdesk/internal/services"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type MockClientService struct {
	mock.Mock
}

func (m *MockClientService) Create(ctx context.Context, userID uuid.UUID, req *services.CreateClientRequest) (*models.Client, error) {
	args := m.Called(ctx, userID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Client), args.Error(1)
}

func (m *MockClientService) GetByID(ctx context.Context, userID, clientID uuid.UUID) (*models.Client, error) {
	args := m.Called(ctx, userID, clientID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Client), args.Error(1)
}

func (m *MockClientService) List(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*models.Client, error) {
	args := m.Called(ctx, userID, limit, offset)
	return args.Get(0).([]*models.Client), args.Error(1)
}

func (m *MockClientService) Update(ctx context.Context, client *models.Client) error {
	args := m.Called(ctx, client)
	return args.Error(0)
}

func (m *MockClientService) Delete(ctx context.Context, userID, clientID uuid.UUID) error {
	args := m.Called(ctx, userID, clientID)
	return args.Error(0)
}

type MockDashboardInvalidator struct {
	mock.Mock
}

func (m *MockDashboardInvalidator) Invalidate(ctx context.Context, userID uuid.UUID) {
	m.Called(ctx, userID)
}

// newHandlerContext builds an echo context carrying an authenticated user,
// the way AuthMiddleware leaves the request.
func newHandlerContext(t *testing.T, method, target, body string, userID uuid.UUID) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()

	e := echo.New()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}

	ctx := context.WithValue(req.Context(), common.UserIDKey, userID)
	req = req.WithContext(ctx)

	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func TestCreateClientLimitReachedCode(t *testing.T) {
	clientSvc := new(MockClientService)
	invalidator := new(MockDashboardInvalidator)
	h := NewClientHandlers(clientSvc, invalidator)
	userID := uuid.New()

	clientSvc.On("Create", mock.Anything, userID, mock.Anything).Return(nil, services.ErrLimitReached)

	c, rec := newHandlerContext(t, http.MethodPost, "/v1/clients", `{"name":"Ada Lovelace"}`, userID)
	assert.NoError(t, h.Create(c))

	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Contains(t, rec.Body.String(), `"LIMIT_REACHED"`)
	invalidator.AssertNotCalled(t, "Invalidate", mock.Anything, mock.Anything)
}

func TestCreateClientPlanUnresolvedCode(t *testing.T) {
	clientSvc := new(MockClientService)
	invalidator := new(MockDashboardInvalidator)
	h := NewClientHandlers(clientSvc, invalidator)
	userID := uuid.New()

	clientSvc.On("Create", mock.Anything, userID, mock.Anything).Return(nil, services.ErrPlanUnresolved)

	c, rec := newHandlerContext(t, http.MethodPost, "/v1/clients", `{"name":"Ada Lovelace"}`, userID)
	assert.NoError(t, h.Create(c))

	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Contains(t, rec.Body.String(), `"FORBIDDEN"`)
	assert.NotContains(t, rec.Body.String(), `"LIMIT_REACHED"`)
}

func TestCreateClientSuccessInvalidatesDashboard(t *testing.T) {
	clientSvc := new(MockClientService)
	invalidator := new(MockDashboardInvalidator)
	h := NewClientHandlers(clientSvc, invalidator)
	userID := uuid.New()

	created := &models.Client{ID: uuid.New(), UserID: userID, Name: "Ada Lovelace"}
	clientSvc.On("Create", mock.Anything, userID, mock.Anything).Return(created, nil)
	invalidator.On("Invalidate", mock.Anything, userID).Return()

	c, rec := newHandlerContext(t, http.MethodPost, "/v1/clients", `{"name":"Ada Lovelace"}`, userID)
	assert.NoError(t, h.Create(c))

	assert.Equal(t, http.StatusCreated, rec.Code)
	invalidator.AssertCalled(t, "Invalidate", mock.Anything, userID)
}

func TestGetClientRejectsMalformedID(t *testing.T) {
	clientSvc := new(MockClientService)
	h := NewClientHandlers(clientSvc, new(MockDashboardInvalidator))
	userID := uuid.New()

	c, rec := newHandlerContext(t, http.MethodGet, "/v1/clients/not-a-uuid", "", userID)
	c.SetParamNames("id")
	c.SetParamValues("not-a-uuid")
	assert.NoError(t, h.Get(c))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), `"VALIDATION_ERROR"`)
	clientSvc.AssertNotCalled(t, "GetByID", mock.Anything, mock.Anything, mock.Anything)
}

func TestDeleteClientInvalidatesDashboard(t *testing.T) {
	clientSvc := new(MockClientService)
	invalidator := new(MockDashboardInvalidator)
	h := NewClientHandlers(clientSvc, invalidator)
	userID := uuid.New()
	clientID := uuid.New()

	clientSvc.On("GetByID", mock.Anything, userID, clientID).
		Return(&models.Client{ID: clientID, UserID: userID, Name: "Ada Lovelace"}, nil)
	clientSvc.On("Delete", mock.Anything, userID, clientID).Return(nil)
	invalidator.On("Invalidate", mock.Anything, userID).Return()

	c, rec := newHandlerContext(t, http.MethodDelete, "/v1/clients/"+clientID.String(), "", userID)
	c.SetParamNames("id")
	c.SetParamValues(clientID.String())
	assert.NoError(t, h.Delete(c))

	assert.Equal(t, http.StatusNoContent, rec.Code)
	invalidator.AssertCalled(t, "Invalidate", mock.Anything, userID)
}
