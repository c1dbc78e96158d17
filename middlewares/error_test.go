package middlewares

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type validatedDTO struct {
	Email string `json:"email" validate:"required,email"`
	Name  string `json:"name" validate:"required"`
}

func TestErrorHandler(t *testing.T) {
	app := fiber.New(fiber.Config{ErrorHandler: ErrorHandler})
	app.Get("/fiber-error", func(c *fiber.Ctx) error {
		return fiber.NewError(fiber.StatusConflict, "already exists")
	})
	app.Get("/validation-error", func(c *fiber.Ctx) error {
		return ValidateStruct(validatedDTO{Email: "not-an-email"})
	})
	app.Get("/unknown-error", func(c *fiber.Ctx) error {
		return errors.New("pq: connection refused")
	})

	t.Run("fiber error keeps code and message", func(t *testing.T) {
		resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/fiber-error", nil))
		require.NoError(t, err)
		assert.Equal(t, http.StatusConflict, resp.StatusCode)

		var body map[string]any
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
		assert.Equal(t, "already exists", body["message"])
	})

	t.Run("validation error maps to 422 with fields", func(t *testing.T) {
		resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/validation-error", nil))
		require.NoError(t, err)
		assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)

		var body struct {
			Message string            `json:"message"`
			Errors  map[string]string `json:"errors"`
		}
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
		assert.Equal(t, "validation failed", body.Message)
		assert.Equal(t, "email", body.Errors["Email"])
		assert.Equal(t, "required", body.Errors["Name"])
	})

	t.Run("unknown error is sanitized to 500", func(t *testing.T) {
		resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/unknown-error", nil))
		require.NoError(t, err)
		assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)

		var body map[string]any
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
		// The driver error never leaks to the client.
		assert.Equal(t, "internal server error", body["message"])
	})
}
