package middlewares

import (
	"crypto/subtle"
	"encoding/base64"
	"os"
	"strings"

	"github.com/gofiber/fiber/v2"
)

func secretEqual(a, b string) bool {
	return subtle.ConstantTimeCompare([]byte(a), []byte(b)) == 1
}

// SharedSecret gates provider-facing endpoints (tool callbacks, webhooks) on a
// shared secret header. The expected value comes from envKey; an unset secret
// fails closed.
func SharedSecret(header, envKey string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		want := strings.TrimSpace(os.Getenv(envKey))
		if want == "" {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"message": "endpoint secret not configured",
			})
		}
		got := strings.TrimSpace(c.Get(header))
		if got == "" || !secretEqual(got, want) {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "invalid secret"})
		}
		return c.Next()
	}
}

// BasicAdmin enforces HTTP Basic Auth against ADMIN_BASIC_USER /
// ADMIN_BASIC_PASSWORD for the read-only reporting endpoints.
func BasicAdmin() fiber.Handler {
	return func(c *fiber.Ctx) error {
		user := os.Getenv("ADMIN_BASIC_USER")
		pass := os.Getenv("ADMIN_BASIC_PASSWORD")
		if user == "" || pass == "" {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"message": "admin auth not configured",
			})
		}

		h := c.Get(authHeader)
		const prefix = "Basic "
		if !strings.HasPrefix(h, prefix) {
			c.Set("WWW-Authenticate", `Basic realm="admin"`)
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "authentication required"})
		}
		raw, err := base64.StdEncoding.DecodeString(h[len(prefix):])
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "invalid credentials"})
		}
		gotUser, gotPass, ok := strings.Cut(string(raw), ":")
		if !ok || !secretEqual(gotUser, user) || !secretEqual(gotPass, pass) {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "invalid credentials"})
		}
		return c.Next()
	}
}
