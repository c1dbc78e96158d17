package workspace

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"denku-backend/models"
	"denku-backend/vapi"

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

func settingsRows(status, reason string) *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "org_id", "plan_id", "workspace_status", "paused_reason"}).
		AddRow(1, "org1", "growth", status, reason)
}

func agentRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "org_id", "name", "provider_assistant_id", "phone_line_id", "active"}).
		AddRow("agent-1", "org1", "Reception", "asst_123", 5, true)
}

func lineRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "org_id", "number", "provider_number_id"}).
		AddRow(5, "org1", "+14155552671", "pn_42")
}

func auditInsert(mock sqlmock.Sqlmock) {
	mock.ExpectQuery(`INSERT INTO "audit_logs"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(1))
}

func providerStub(t *testing.T, status int, record *[]string) *vapi.Client {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if record != nil {
			*record = append(*record, r.Method+" "+r.URL.Path)
		}
		w.WriteHeader(status)
	}))
	t.Cleanup(srv.Close)
	return &vapi.Client{BaseURL: srv.URL, APIKey: "k", HTTPClient: &http.Client{Timeout: 5 * time.Second}}
}

func TestPauseUnbindsNumbers(t *testing.T) {
	db, mock := newMockDB(t)
	var calls []string
	client := providerStub(t, http.StatusOK, &calls)

	mock.ExpectQuery(`SELECT .* FROM "organization_settings"`).
		WillReturnRows(settingsRows(models.WorkspaceActive, ""))
	mock.ExpectExec(`UPDATE "organization_settings"`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(`SELECT .* FROM "agents"`).
		WillReturnRows(agentRows())
	mock.ExpectQuery(`SELECT .* FROM "phone_lines"`).
		WillReturnRows(lineRows())
	auditInsert(mock)

	err := Pause(db, client, "org1", models.PauseReasonManual, "user-1")
	require.NoError(t, err)

	assert.Equal(t, []string{"PATCH /phone-number/pn_42"}, calls)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPausePartialFailureNamesNumbers(t *testing.T) {
	db, mock := newMockDB(t)
	client := providerStub(t, http.StatusBadGateway, nil)

	mock.ExpectQuery(`SELECT .* FROM "organization_settings"`).
		WillReturnRows(settingsRows(models.WorkspaceActive, ""))
	mock.ExpectExec(`UPDATE "organization_settings"`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(`SELECT .* FROM "agents"`).
		WillReturnRows(agentRows())
	mock.ExpectQuery(`SELECT .* FROM "phone_lines"`).
		WillReturnRows(lineRows())
	auditInsert(mock)

	err := Pause(db, client, "org1", models.PauseReasonManual, "user-1")
	require.Error(t, err)
	// DB already shows paused; the error names the numbers still routing.
	assert.Contains(t, err.Error(), "+14155552671")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPauseSkipsUnroutableAgents(t *testing.T) {
	db, mock := newMockDB(t)
	var calls []string
	client := providerStub(t, http.StatusOK, &calls)

	noLine := sqlmock.NewRows([]string{"id", "org_id", "name", "provider_assistant_id", "phone_line_id", "active"}).
		AddRow("agent-2", "org1", "Draft", "", nil, true)

	mock.ExpectQuery(`SELECT .* FROM "organization_settings"`).
		WillReturnRows(settingsRows(models.WorkspaceActive, ""))
	mock.ExpectExec(`UPDATE "organization_settings"`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(`SELECT .* FROM "agents"`).
		WillReturnRows(noLine)
	auditInsert(mock)

	require.NoError(t, Pause(db, client, "org1", models.PauseReasonManual, "user-1"))
	assert.Empty(t, calls)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPauseKeepsManualReasonOnBillingEvent(t *testing.T) {
	db, mock := newMockDB(t)
	var calls []string
	client := providerStub(t, http.StatusOK, &calls)

	mock.ExpectQuery(`SELECT .* FROM "organization_settings"`).
		WillReturnRows(settingsRows(models.WorkspacePaused, models.PauseReasonManual))
	// Re-pausing must not touch paused_reason or paused_at.
	mock.ExpectExec(`UPDATE "organization_settings" SET "workspace_status"=\$1,"updated_at"=\$2 WHERE`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(`SELECT .* FROM "agents"`).
		WillReturnRows(agentRows())
	mock.ExpectQuery(`SELECT .* FROM "phone_lines"`).
		WillReturnRows(lineRows())
	auditInsert(mock)

	require.NoError(t, Pause(db, client, "org1", models.PauseReasonBillingDelinquent, "system"))
	assert.NoError(t, mock.ExpectationsWereMet())

	// The reason on record stays manual, so a later payment_succeeded (which
	// only lifts billing pauses) leaves the workspace paused.
	kept := models.OrganizationSettings{
		WorkspaceStatus: models.WorkspacePaused,
		PausedReason:    models.PauseReasonManual,
	}
	assert.False(t, kept.IsBillingPause())
}

func TestResumeRefusesBillingPause(t *testing.T) {
	db, mock := newMockDB(t)
	client := providerStub(t, http.StatusOK, nil)

	mock.ExpectQuery(`SELECT .* FROM "organization_settings"`).
		WillReturnRows(settingsRows(models.WorkspacePaused, models.PauseReasonBillingDelinquent))

	err := Resume(db, client, "org1", "user-1", false)
	require.ErrorIs(t, err, ErrBillingPause)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestResumeForceLiftsBillingPause(t *testing.T) {
	db, mock := newMockDB(t)
	var calls []string
	client := providerStub(t, http.StatusOK, &calls)

	mock.ExpectQuery(`SELECT .* FROM "organization_settings"`).
		WillReturnRows(settingsRows(models.WorkspacePaused, models.PauseReasonBillingDelinquent))
	mock.ExpectExec(`UPDATE "organization_settings"`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(`SELECT .* FROM "agents"`).
		WillReturnRows(agentRows())
	mock.ExpectQuery(`SELECT .* FROM "phone_lines"`).
		WillReturnRows(lineRows())
	auditInsert(mock)

	require.NoError(t, Resume(db, client, "org1", "system", true))
	assert.Equal(t, []string{"PATCH /phone-number/pn_42"}, calls)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestResumeOnActiveWorkspaceIsNoop(t *testing.T) {
	db, mock := newMockDB(t)
	client := providerStub(t, http.StatusOK, nil)

	mock.ExpectQuery(`SELECT .* FROM "organization_settings"`).
		WillReturnRows(settingsRows(models.WorkspaceActive, ""))

	require.NoError(t, Resume(db, client, "org1", "user-1", false))
	assert.NoError(t, mock.ExpectationsWereMet())
}
