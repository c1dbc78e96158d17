package controllers

import (
	"errors"

	"denku-backend/database"
	"denku-backend/middlewares"
	"denku-backend/models"
	"denku-backend/workspace"

	"github.com/gofiber/fiber/v2"
)

type pauseDTO struct {
	Reason string `json:"reason" validate:"omitempty,max=200"`
}

// PauseWorkspace stops inbound routing for the org. Owner/admin only
// (enforced in routes).
func PauseWorkspace(c *fiber.Ctx) error {
	// Body is optional; pause without a reason is the common case.
	var data pauseDTO
	if len(c.Body()) > 0 {
		if err := middlewares.BindAndValidate(c, &data); err != nil {
			return err
		}
	}
	reason := data.Reason
	if reason == "" {
		reason = models.PauseReasonManual
	}

	// Pause runs its own writes on the shared connection: the status flip must
	// be durable before provider calls, independent of the request TX.
	err := workspace.Pause(database.DB, vapiClient(), orgID(c), reason, userID(c))
	if err != nil {
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{
			"message": "workspace paused with errors",
			"error":   err.Error(),
		})
	}
	return c.JSON(fiber.Map{"message": "success", "workspace_status": models.WorkspacePaused})
}

func ResumeWorkspace(c *fiber.Ctx) error {
	err := workspace.Resume(database.DB, vapiClient(), orgID(c), userID(c), false)
	if errors.Is(err, workspace.ErrBillingPause) {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"message": "workspace is paused for billing; resolve billing to resume",
		})
	}
	if err != nil {
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{
			"message": "workspace resumed with errors",
			"error":   err.Error(),
		})
	}
	return c.JSON(fiber.Map{"message": "success", "workspace_status": models.WorkspaceActive})
}

// GetWorkspace returns the org's settings row for the settings page.
func GetWorkspace(c *fiber.Ctx) error {
	db, err := database.FromCtx(c)
	if err != nil {
		return err
	}

	var settings models.OrganizationSettings
	if err := db.Where("org_id = ?", orgID(c)).First(&settings).Error; err != nil {
		return err
	}
	return c.JSON(settings)
}
