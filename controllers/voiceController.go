package controllers

import (
	"os"

	"denku-backend/database"
	"denku-backend/models"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// VoiceSession returns the assistant id (and the provider's public key) the
// browser SDK needs to start a web call. Pass agent_id to pick a specific
// agent; defaults to the org's first active one. 409 while paused.
func VoiceSession(c *fiber.Ctx) error {
	db, err := database.FromCtx(c)
	if err != nil {
		return err
	}
	org := orgID(c)

	var settings models.OrganizationSettings
	if err := db.Where("org_id = ?", org).First(&settings).Error; err != nil {
		return err
	}
	if settings.WorkspaceStatus == models.WorkspacePaused {
		return fiber.NewError(fiber.StatusConflict, "workspace is paused")
	}

	q := db.Where("org_id = ? AND active = ? AND provider_assistant_id <> ''", org, true)
	if agentID := c.Query("agent_id"); agentID != "" {
		q = q.Where("id = ?", agentID)
	}

	var agent models.Agent
	err = q.Order("created_at").First(&agent).Error
	if err == gorm.ErrRecordNotFound {
		return fiber.NewError(fiber.StatusNotFound, "no active agent with a provider assistant")
	}
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"assistant_id": agent.ProviderAssistantID,
		"public_key":   os.Getenv("VAPI_PUBLIC_KEY"),
		"agent": fiber.Map{
			"id":   agent.Id,
			"name": agent.Name,
		},
	})
}
