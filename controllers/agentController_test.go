package controllers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"denku-backend/middlewares"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gofiber/fiber/v2"
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

// testApp mounts a handler behind locals the auth/tx middlewares would set.
func testApp(db *gorm.DB, org string, method, path string, handler fiber.Handler) *fiber.App {
	app := fiber.New(fiber.Config{ErrorHandler: middlewares.ErrorHandler})
	app.Add(method, path, func(c *fiber.Ctx) error {
		c.Locals("tx", db)
		c.Locals("orgID", org)
		c.Locals("userID", "user-1")
		return c.Next()
	}, handler)
	return app
}

func expectCapacityQueries(mock sqlmock.Sqlmock, concurrencyBase int, attachedAgents int64) {
	mock.ExpectQuery(`SELECT .* FROM "organization_settings"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "org_id", "plan_id", "workspace_status"}).
			AddRow(1, "org1", "free", "active"))
	mock.ExpectQuery(`SELECT .* FROM "plans"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "concurrency_base", "phone_number_base", "monthly_minutes"}).
			AddRow("free", "Free", concurrencyBase, 1, 60))
	mock.ExpectQuery(`SELECT .* FROM "plan_addons"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "org_id", "kind", "quantity", "active"}))
	mock.ExpectQuery(`SELECT count\(\*\) FROM "agents"`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(attachedAgents))
}

func TestCreateAgentRefusedAtConcurrencyLimit(t *testing.T) {
	db, mock := newMockDB(t)
	app := testApp(db, "org1", fiber.MethodPost, "/agent", CreateAgent)

	mock.ExpectQuery(`SELECT .* FROM "phone_lines"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "org_id", "number", "provider_number_id"}).
			AddRow(5, "org1", "+14155552671", "pn_42"))
	expectCapacityQueries(mock, 1, 1)

	body := `{"name":"Desk","provider_assistant_id":"asst_9","phone_line_id":5}`
	req := httptest.NewRequest(http.MethodPost, "/agent", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	var out map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	assert.Equal(t, "concurrency limit reached", out["message"])
	// No INSERT may have been issued.
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCheckAgentCapacityUnderLimit(t *testing.T) {
	db, mock := newMockDB(t)

	expectCapacityQueries(mock, 2, 1)

	require.NoError(t, checkAgentCapacity(db, "org1"))
	assert.NoError(t, mock.ExpectationsWereMet())
}
