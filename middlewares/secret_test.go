package middlewares

import (
	"encoding/base64"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ok(c *fiber.Ctx) error { return c.JSON(fiber.Map{"message": "ok"}) }

func TestSharedSecret(t *testing.T) {
	t.Setenv("TOOL_SECRET", "s3cret")

	app := fiber.New(fiber.Config{ErrorHandler: ErrorHandler})
	app.Post("/t", SharedSecret("X-Tool-Secret", "TOOL_SECRET"), ok)

	tests := []struct {
		name     string
		secret   string
		expected int
	}{
		{name: "missing header", secret: "", expected: http.StatusUnauthorized},
		{name: "wrong secret", secret: "nope", expected: http.StatusUnauthorized},
		{name: "correct secret", secret: "s3cret", expected: http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/t", nil)
			if tt.secret != "" {
				req.Header.Set("X-Tool-Secret", tt.secret)
			}
			resp, err := app.Test(req)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, resp.StatusCode)
		})
	}
}

func TestSharedSecretFailsClosedWhenUnset(t *testing.T) {
	t.Setenv("UNSET_SECRET_KEY", "")

	app := fiber.New(fiber.Config{ErrorHandler: ErrorHandler})
	app.Post("/t", SharedSecret("X-Tool-Secret", "UNSET_SECRET_KEY"), ok)

	req := httptest.NewRequest(http.MethodPost, "/t", nil)
	req.Header.Set("X-Tool-Secret", "anything")
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
}

func TestBasicAdmin(t *testing.T) {
	t.Setenv("ADMIN_BASIC_USER", "admin")
	t.Setenv("ADMIN_BASIC_PASSWORD", "hunter2")

	app := fiber.New(fiber.Config{ErrorHandler: ErrorHandler})
	app.Get("/r", BasicAdmin(), ok)

	creds := func(u, p string) string {
		return "Basic " + base64.StdEncoding.EncodeToString([]byte(u+":"+p))
	}

	tests := []struct {
		name     string
		header   string
		expected int
	}{
		{name: "no header", header: "", expected: http.StatusUnauthorized},
		{name: "not basic", header: "Bearer abc", expected: http.StatusUnauthorized},
		{name: "bad base64", header: "Basic %%%", expected: http.StatusUnauthorized},
		{name: "wrong password", header: creds("admin", "wrong"), expected: http.StatusUnauthorized},
		{name: "wrong user", header: creds("root", "hunter2"), expected: http.StatusUnauthorized},
		{name: "correct", header: creds("admin", "hunter2"), expected: http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/r", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			resp, err := app.Test(req)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, resp.StatusCode)
		})
	}
}

func TestBasicAdminChallengesWithRealm(t *testing.T) {
	t.Setenv("ADMIN_BASIC_USER", "admin")
	t.Setenv("ADMIN_BASIC_PASSWORD", "hunter2")

	app := fiber.New(fiber.Config{ErrorHandler: ErrorHandler})
	app.Get("/r", BasicAdmin(), ok)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/r", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("WWW-Authenticate"), "Basic")
}
