package calls

import (
	"testing"

	"denku-backend/models"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func newMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })

	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{
		SkipDefaultTransaction: true,
	})
	require.NoError(t, err)
	return db, mock
}

func countRows(n int64) *sqlmock.Rows {
	return sqlmock.NewRows([]string{"count"}).AddRow(n)
}

func TestDeriveOutcome(t *testing.T) {
	base := models.Call{Id: 7, OrgId: "org1", Status: models.CallStatusEnded, DurationSecs: 120}

	tests := []struct {
		name         string
		call         models.Call
		appointments int64
		tickets      int64
		skipTickets  bool
		expected     string
	}{
		{
			name:         "appointment wins",
			call:         base,
			appointments: 1,
			skipTickets:  true,
			expected:     models.OutcomeAppointmentBooked,
		},
		{
			name:     "ticket second",
			call:     base,
			tickets:  2,
			expected: models.OutcomeTicketRaised,
		},
		{
			name:     "live call is in progress",
			call:     models.Call{Id: 7, OrgId: "org1", Status: models.CallStatusInProgress},
			expected: models.OutcomeInProgress,
		},
		{
			name:     "short ended call is missed",
			call:     models.Call{Id: 7, OrgId: "org1", Status: models.CallStatusEnded, DurationSecs: 4},
			expected: models.OutcomeMissed,
		},
		{
			name:     "threshold boundary counts as completed",
			call:     models.Call{Id: 7, OrgId: "org1", Status: models.CallStatusEnded, DurationSecs: MissedThresholdSecs},
			expected: models.OutcomeCompleted,
		},
		{
			name:     "normal ended call completed",
			call:     base,
			expected: models.OutcomeCompleted,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock := newMockDB(t)

			mock.ExpectQuery(`SELECT count\(\*\) FROM "appointments"`).
				WithArgs(tt.call.OrgId, tt.call.Id).
				WillReturnRows(countRows(tt.appointments))
			if !tt.skipTickets {
				mock.ExpectQuery(`SELECT count\(\*\) FROM "tickets"`).
					WithArgs(tt.call.OrgId, tt.call.Id).
					WillReturnRows(countRows(tt.tickets))
			}

			call := tt.call
			got, err := DeriveOutcome(db, &call)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestBackfillOutcomePersists(t *testing.T) {
	db, mock := newMockDB(t)
	call := models.Call{Id: 7, OrgId: "org1", Status: models.CallStatusEnded, DurationSecs: 90}

	mock.ExpectQuery(`SELECT count\(\*\) FROM "appointments"`).
		WillReturnRows(countRows(0))
	mock.ExpectQuery(`SELECT count\(\*\) FROM "tickets"`).
		WillReturnRows(countRows(0))
	mock.ExpectExec(`UPDATE "calls" SET "outcome"`).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, BackfillOutcome(db, &call))
	assert.Equal(t, models.OutcomeCompleted, call.Outcome)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBackfillOutcomeSkipsUnchanged(t *testing.T) {
	db, mock := newMockDB(t)
	call := models.Call{
		Id: 7, OrgId: "org1",
		Status: models.CallStatusEnded, DurationSecs: 90,
		Outcome: models.OutcomeCompleted,
	}

	mock.ExpectQuery(`SELECT count\(\*\) FROM "appointments"`).
		WillReturnRows(countRows(0))
	mock.ExpectQuery(`SELECT count\(\*\) FROM "tickets"`).
		WillReturnRows(countRows(0))
	// No UPDATE expected.

	require.NoError(t, BackfillOutcome(db, &call))
	assert.NoError(t, mock.ExpectationsWereMet())
}
