package jobs

import (
	"context"
	"errors"
	"testing"

	pgxmock "github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
)

type PlanDowngradeTestSuite struct {
	suite.Suite
	mock    pgxmock.PgxPoolIface
	svc     *PlanDowngradeService
	context context.Context
}

func (suite *PlanDowngradeTestSuite) SetupTest() {
	mock, err := pgxmock.NewPool()
	assert.NoError(suite.T(), err)
	suite.mock = mock

	suite.svc = NewPlanDowngradeService(mock, 1)
	suite.context = context.Background()
}

func (suite *PlanDowngradeTestSuite) TearDownTest() {
	suite.mock.Close()
}

func TestPlanDowngradeTestSuite(t *testing.T) {
	suite.Run(t, new(PlanDowngradeTestSuite))
}

func (suite *PlanDowngradeTestSuite) TestRun_DowngradesExpiredUsers() {
	suite.mock.ExpectBegin()
	suite.mock.ExpectQuery("SELECT COUNT\\(\\*\\)").
		WithArgs(1).
		WillReturnRows(pgxmock.NewRows([]string{"count"}).AddRow(3))
	suite.mock.ExpectExec("UPDATE users").
		WithArgs(1).
		WillReturnResult(pgxmock.NewResult("UPDATE", 3))
	suite.mock.ExpectCommit()

	affected, err := suite.svc.Run(suite.context)
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), 3, affected)
	assert.NoError(suite.T(), suite.mock.ExpectationsWereMet())
}

func (suite *PlanDowngradeTestSuite) TestRun_NothingExpiredSkipsUpdate() {
	suite.mock.ExpectBegin()
	suite.mock.ExpectQuery("SELECT COUNT\\(\\*\\)").
		WithArgs(1).
		WillReturnRows(pgxmock.NewRows([]string{"count"}).AddRow(0))
	suite.mock.ExpectCommit()

	affected, err := suite.svc.Run(suite.context)
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), 0, affected)
	assert.NoError(suite.T(), suite.mock.ExpectationsWereMet())
}

func (suite *PlanDowngradeTestSuite) TestRun_UpdateFailureRollsBack() {
	suite.mock.ExpectBegin()
	suite.mock.ExpectQuery("SELECT COUNT\\(\\*\\)").
		WithArgs(1).
		WillReturnRows(pgxmock.NewRows([]string{"count"}).AddRow(2))
	suite.mock.ExpectExec("UPDATE users").
		WithArgs(1).
		WillReturnError(errors.New("deadlock detected"))
	suite.mock.ExpectRollback()

	affected, err := suite.svc.Run(suite.context)
	assert.Error(suite.T(), err)
	assert.Equal(suite.T(), 0, affected)
	assert.NoError(suite.T(), suite.mock.ExpectationsWereMet())
}

func (suite *PlanDowngradeTestSuite) TestRun_BeginFailure() {
	suite.mock.ExpectBegin().WillReturnError(errors.New("connection refused"))

	affected, err := suite.svc.Run(suite.context)
	assert.Error(suite.T(), err)
	assert.Equal(suite.T(), 0, affected)
}
