package repositories

import (
	"context"
	"testing"
	"time"

	"shutterdesk/internal/models"

	"github.com/google/uuid"
	pgx "github.com/jackc/pgx/v5"
	pgxmock "github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
)

type PlanRepoTestSuite struct {
	suite.Suite
	mock    pgxmock.PgxPoolIface
	repo    PlanRepository
	context context.Context
}

func (suite *PlanRepoTestSuite) SetupTest() {
	mock, err := pgxmock.NewPool()
	assert.NoError(suite.T(), err)
	suite.mock = mock

	suite.repo = NewPlanRepo(mock)
	suite.context = context.Background()
}

func (suite *PlanRepoTestSuite) TearDownTest() {
	suite.mock.Close()
}

func TestPlanRepoTestSuite(t *testing.T) {
	suite.Run(t, new(PlanRepoTestSuite))
}

func (suite *PlanRepoTestSuite) planRows() *pgxmock.Rows {
	now := time.Now()
	return pgxmock.NewRows([]string{"id", "name", "max_clients", "max_bookings", "price_monthly", "created_at", "updated_at"}).
		AddRow(1, "free", intPtr(10), intPtr(20), 0.0, now, now)
}

func (suite *PlanRepoTestSuite) TestCreateReturnsGeneratedID() {
	plan := &models.AccessPlan{
		Name:         "pro",
		MaxClients:   nil,
		MaxBookings:  nil,
		PriceMonthly: 29.0,
	}

	suite.mock.ExpectQuery("INSERT INTO access_plans").
		WithArgs(plan.Name, plan.MaxClients, plan.MaxBookings, plan.PriceMonthly).
		WillReturnRows(pgxmock.NewRows([]string{"id"}).AddRow(3))

	err := suite.repo.Create(suite.context, plan)
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), 3, plan.ID)
}

func (suite *PlanRepoTestSuite) TestGetByUserID_ResolvesViaJoin() {
	userID := uuid.New()

	suite.mock.ExpectQuery("SELECT (.+) FROM access_plans p").
		WithArgs(userID).
		WillReturnRows(suite.planRows())

	plan, err := suite.repo.GetByUserID(suite.context, userID)
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), "free", plan.Name)
	assert.Equal(suite.T(), 10, *plan.MaxClients)
	assert.Equal(suite.T(), 20, *plan.MaxBookings)
}

func (suite *PlanRepoTestSuite) TestGetByUserID_NoPlanRow() {
	userID := uuid.New()

	suite.mock.ExpectQuery("SELECT (.+) FROM access_plans p").
		WithArgs(userID).
		WillReturnError(pgx.ErrNoRows)

	plan, err := suite.repo.GetByUserID(suite.context, userID)
	assert.Nil(suite.T(), plan)
	assert.ErrorIs(suite.T(), err, pgx.ErrNoRows)
}

func (suite *PlanRepoTestSuite) TestList_OrderedByPrice() {
	now := time.Now()
	rows := pgxmock.NewRows([]string{"id", "name", "max_clients", "max_bookings", "price_monthly", "created_at", "updated_at"}).
		AddRow(1, "free", intPtr(10), intPtr(20), 0.0, now, now).
		AddRow(2, "pro", (*int)(nil), (*int)(nil), 29.0, now, now)

	suite.mock.ExpectQuery("SELECT (.+) FROM access_plans").
		WillReturnRows(rows)

	plans, err := suite.repo.List(suite.context)
	assert.NoError(suite.T(), err)
	assert.Len(suite.T(), plans, 2)
	assert.Nil(suite.T(), plans[1].MaxClients)
}
