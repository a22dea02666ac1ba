package repositories

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	pgxmock "github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
)

type PaymentRepoTestSuite struct {
	suite.Suite
	mock    pgxmock.PgxPoolIface
	repo    PaymentRepository
	userID  uuid.UUID
	context context.Context
}

func (suite *PaymentRepoTestSuite) SetupTest() {
	mock, err := pgxmock.NewPool()
	assert.NoError(suite.T(), err)
	suite.mock = mock

	suite.repo = NewPaymentRepo(mock)
	suite.userID = uuid.New()
	suite.context = context.Background()
}

func (suite *PaymentRepoTestSuite) TearDownTest() {
	suite.mock.Close()
}

func TestPaymentRepoTestSuite(t *testing.T) {
	suite.Run(t, new(PaymentRepoTestSuite))
}

func (suite *PaymentRepoTestSuite) TestListDueBefore_WindowIsBounded() {
	cutoff := time.Now().Add(72 * time.Hour)
	now := time.Now()

	rows := pgxmock.NewRows([]string{"id", "invoice_id", "user_id", "amount", "due_date", "status", "paid_date", "created_at", "updated_at"}).
		AddRow(uuid.New(), uuid.New(), suite.userID, 200.0, now.Add(48*time.Hour), "pending", (*time.Time)(nil), now, now)

	// The lower bound keeps long-overdue installments out of the daily run.
	suite.mock.ExpectQuery("WHERE status = 'pending' AND due_date BETWEEN NOW\\(\\) AND").
		WithArgs(cutoff).
		WillReturnRows(rows)

	schedules, err := suite.repo.ListDueBefore(suite.context, cutoff)
	assert.NoError(suite.T(), err)
	assert.Len(suite.T(), schedules, 1)
	assert.Equal(suite.T(), "pending", schedules[0].Status)
	assert.NoError(suite.T(), suite.mock.ExpectationsWereMet())
}

func (suite *PaymentRepoTestSuite) TestMarkPaid_OnlyTouchesPendingRows() {
	scheduleID := uuid.New()
	paidDate := time.Now()

	suite.mock.ExpectExec("UPDATE payment_schedules SET status = 'paid'(.+)status = 'pending'").
		WithArgs(paidDate, suite.userID, scheduleID).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	err := suite.repo.MarkPaid(suite.context, suite.userID, scheduleID, paidDate)
	assert.NoError(suite.T(), err)
	assert.NoError(suite.T(), suite.mock.ExpectationsWereMet())
}
