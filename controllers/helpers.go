package controllers

import (
	"sync"

	"denku-backend/vapi"

	"github.com/gofiber/fiber/v2"
)

func orgID(c *fiber.Ctx) string {
	v, _ := c.Locals("orgID").(string)
	return v
}

func userID(c *fiber.Ctx) string {
	v, _ := c.Locals("userID").(string)
	return v
}

var (
	vapiOnce   sync.Once
	vapiShared *vapi.Client
)

// vapiClient returns the shared provider client, built lazily so
// database.Connect's godotenv.Load has run first.
func vapiClient() *vapi.Client {
	vapiOnce.Do(func() {
		vapiShared = vapi.NewFromEnv()
	})
	return vapiShared
}

// SetVapiClient overrides the shared provider client. Test hook.
func SetVapiClient(c *vapi.Client) {
	vapiOnce.Do(func() {})
	vapiShared = c
}
