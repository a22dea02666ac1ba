package services

import (
	"context"
	"testing"
	"time"

	"shutterdesk/internal/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

type MockInvoiceRepository struct {
	mock.Mock
}

func (m *MockInvoiceRepository) Create(ctx context.Context, invoice *models.Invoice) error {
	args := m.Called(ctx, invoice)
	return args.Error(0)
}

func (m *MockInvoiceRepository) GetByID(ctx context.Context, userID, id uuid.UUID) (*models.Invoice, error) {
	args := m.Called(ctx, userID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Invoice), args.Error(1)
}

func (m *MockInvoiceRepository) List(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*models.Invoice, error) {
	args := m.Called(ctx, userID, limit, offset)
	return args.Get(0).([]*models.Invoice), args.Error(1)
}

func (m *MockInvoiceRepository) ListUnpaid(ctx context.Context, userID uuid.UUID) ([]*models.Invoice, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).([]*models.Invoice), args.Error(1)
}

func (m *MockInvoiceRepository) Update(ctx context.Context, invoice *models.Invoice) error {
	args := m.Called(ctx, invoice)
	return args.Error(0)
}

func (m *MockInvoiceRepository) UpdateStatus(ctx context.Context, userID, id uuid.UUID, status string, paidDate *time.Time) error {
	args := m.Called(ctx, userID, id, status, paidDate)
	return args.Error(0)
}

func (m *MockInvoiceRepository) Delete(ctx context.Context, userID, id uuid.UUID) error {
	args := m.Called(ctx, userID, id)
	return args.Error(0)
}

func (m *MockInvoiceRepository) MarkOverdue(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockInvoiceRepository) SumOutstanding(ctx context.Context, userID uuid.UUID) (float64, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(float64), args.Error(1)
}

func (m *MockInvoiceRepository) SumPaidSince(ctx context.Context, userID uuid.UUID, since time.Time) (float64, error) {
	args := m.Called(ctx, userID, since)
	return args.Get(0).(float64), args.Error(1)
}

type InvoiceServiceTestSuite struct {
	suite.Suite
	invoiceRepo *MockInvoiceRepository
	clientRepo  *MockClientRepository
	svc         InvoiceService
	userID      uuid.UUID
	clientID    uuid.UUID
	ctx         context.Context
}

func (suite *InvoiceServiceTestSuite) SetupTest() {
	suite.invoiceRepo = new(MockInvoiceRepository)
	suite.clientRepo = new(MockClientRepository)
	suite.svc = NewInvoiceService(suite.invoiceRepo, suite.clientRepo)
	suite.userID = uuid.New()
	suite.clientID = uuid.New()
	suite.ctx = context.Background()
}

func (suite *InvoiceServiceTestSuite) TestCreateAssignsNumberAndDraftStatus() {
	suite.clientRepo.On("GetByID", suite.ctx, suite.userID, suite.clientID).
		Return(&models.Client{ID: suite.clientID, UserID: suite.userID, Name: "Ada"}, nil)
	suite.invoiceRepo.On("Create", suite.ctx, mock.AnythingOfType("*models.Invoice")).Return(nil)

	invoice, err := suite.svc.Create(suite.ctx, suite.userID, &CreateInvoiceRequest{
		ClientID: suite.clientID,
		Amount:   500,
		DueDate:  time.Now().AddDate(0, 0, 14),
	})
	require.NoError(suite.T(), err)
	assert.Equal(suite.T(), InvoiceStatusDraft, invoice.Status)
	assert.Regexp(suite.T(), `^INV-\d{8}-[0-9A-F]{8}$`, invoice.InvoiceNumber)
}

func (suite *InvoiceServiceTestSuite) TestCreateRejectsNonPositiveAmount() {
	invoice, err := suite.svc.Create(suite.ctx, suite.userID, &CreateInvoiceRequest{
		ClientID: suite.clientID,
		Amount:   0,
	})
	assert.Nil(suite.T(), invoice)
	assert.Error(suite.T(), err)
}

func (suite *InvoiceServiceTestSuite) TestStatusTransitions() {
	invoiceID := uuid.New()

	cases := []struct {
		from    string
		to      string
		allowed bool
	}{
		{InvoiceStatusDraft, InvoiceStatusSent, true},
		{InvoiceStatusDraft, InvoiceStatusPaid, false},
		{InvoiceStatusSent, InvoiceStatusPaid, true},
		{InvoiceStatusSent, InvoiceStatusOverdue, true},
		{InvoiceStatusSent, InvoiceStatusDraft, false},
		{InvoiceStatusOverdue, InvoiceStatusPaid, true},
		{InvoiceStatusPaid, InvoiceStatusSent, false},
		{InvoiceStatusPaid, InvoiceStatusDraft, false},
	}

	for _, tc := range cases {
		suite.SetupTest()
		suite.invoiceRepo.On("GetByID", suite.ctx, suite.userID, invoiceID).
			Return(&models.Invoice{ID: invoiceID, UserID: suite.userID, Status: tc.from}, nil)
		if tc.allowed {
			suite.invoiceRepo.On("UpdateStatus", suite.ctx, suite.userID, invoiceID, tc.to, mock.Anything).
				Return(nil)
		}

		err := suite.svc.UpdateStatus(suite.ctx, suite.userID, invoiceID, tc.to)
		if tc.allowed {
			assert.NoError(suite.T(), err, "%s -> %s", tc.from, tc.to)
		} else {
			assert.ErrorIs(suite.T(), err, ErrInvalidTransition, "%s -> %s", tc.from, tc.to)
		}
	}
}

func (suite *InvoiceServiceTestSuite) TestTransitionToPaidSetsPaidDate() {
	invoiceID := uuid.New()
	suite.invoiceRepo.On("GetByID", suite.ctx, suite.userID, invoiceID).
		Return(&models.Invoice{ID: invoiceID, UserID: suite.userID, Status: InvoiceStatusSent}, nil)
	suite.invoiceRepo.On("UpdateStatus", suite.ctx, suite.userID, invoiceID, InvoiceStatusPaid,
		mock.MatchedBy(func(paidDate *time.Time) bool { return paidDate != nil })).
		Return(nil)

	err := suite.svc.UpdateStatus(suite.ctx, suite.userID, invoiceID, InvoiceStatusPaid)
	assert.NoError(suite.T(), err)
	suite.invoiceRepo.AssertExpectations(suite.T())
}

func (suite *InvoiceServiceTestSuite) TestOnlyDraftsCanBeDeleted() {
	invoiceID := uuid.New()
	suite.invoiceRepo.On("GetByID", suite.ctx, suite.userID, invoiceID).
		Return(&models.Invoice{ID: invoiceID, UserID: suite.userID, Status: InvoiceStatusSent}, nil)

	err := suite.svc.Delete(suite.ctx, suite.userID, invoiceID)
	assert.Error(suite.T(), err)
	suite.invoiceRepo.AssertNotCalled(suite.T(), "Delete", mock.Anything, mock.Anything, mock.Anything)
}

func TestInvoiceServiceTestSuite(t *testing.T) {
	suite.Run(t, new(InvoiceServiceTestSuite))
}
