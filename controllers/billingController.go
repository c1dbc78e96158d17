package controllers

import (
	"denku-backend/billing"
	"denku-backend/database"
	"denku-backend/middlewares"
	"denku-backend/models"
	"denku-backend/utils"
	"denku-backend/workspace"

	"github.com/gofiber/fiber/v2"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// GetBillingLimits returns the org's plan, active add-ons, effective limits
// and current usage for the billing settings page.
func GetBillingLimits(c *fiber.Ctx) error {
	db, err := database.FromCtx(c)
	if err != nil {
		return err
	}
	org := orgID(c)

	var settings models.OrganizationSettings
	if err := db.Where("org_id = ?", org).First(&settings).Error; err != nil {
		return err
	}
	var plan models.Plan
	if err := db.Where("id = ?", settings.PlanID).First(&plan).Error; err != nil && err != gorm.ErrRecordNotFound {
		return err
	}
	var addons []models.PlanAddon
	if err := db.Where("org_id = ? AND active = ?", org, true).Find(&addons).Error; err != nil {
		return err
	}

	limits := billing.EffectiveLimits(plan, addons)

	var lineCount, agentCount int64
	if err := db.Model(&models.PhoneLine{}).Where("org_id = ?", org).Count(&lineCount).Error; err != nil {
		return err
	}
	if err := db.Model(&models.Agent{}).Where("org_id = ? AND active = ?", org, true).Count(&agentCount).Error; err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"plan":   plan,
		"addons": addons,
		"limits": limits,
		"usage": fiber.Map{
			"phone_numbers": lineCount,
			"active_agents": agentCount,
		},
		"workspace_status": settings.WorkspaceStatus,
		"message":          "success",
	})
}

type billingWebhookDTO struct {
	Event    string         `json:"event" validate:"required,oneof=payment_failed payment_succeeded plan_changed"`
	OrgID    string         `json:"org_id" validate:"required"`
	PlanID   string         `json:"plan_id" validate:"omitempty,max=40"`
	Customer string         `json:"customer" validate:"omitempty,max=64"`
	Payload  datatypes.JSON `json:"payload"`
}

// BillingWebhook applies payment-provider events. Gated by the webhook shared
// secret; Idempotency-Key makes replays no-ops.
//
// payment_failed pauses the workspace with the billing reason (unbinding
// phone numbers); payment_succeeded lifts a billing pause; plan_changed swaps
// the plan id.
func BillingWebhook(c *fiber.Ctx) error {
	var data billingWebhookDTO
	if err := middlewares.BindAndValidate(c, &data); err != nil {
		return err
	}

	var settings models.OrganizationSettings
	err := database.DB.Where("org_id = ?", data.OrgID).First(&settings).Error
	if err == gorm.ErrRecordNotFound {
		return fiber.NewError(fiber.StatusNotFound, "unknown organization")
	}
	if err != nil {
		return err
	}

	utils.Audit(database.DB, data.OrgID, "system", "billing."+data.Event, "organization_settings", fiber.Map{
		"payload": data.Payload,
	})

	switch data.Event {
	case "payment_failed":
		err := workspace.Pause(database.DB, vapiClient(), data.OrgID, models.PauseReasonBillingDelinquent, "system")
		if err != nil {
			// DB shows paused; some numbers may still route. Surface it so the
			// billing provider retries.
			return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{
				"message": "paused with errors",
				"error":   err.Error(),
			})
		}

	case "payment_succeeded":
		if settings.IsBillingPause() {
			err := workspace.Resume(database.DB, vapiClient(), data.OrgID, "system", true)
			if err != nil {
				return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{
					"message": "resumed with errors",
					"error":   err.Error(),
				})
			}
		}

	case "plan_changed":
		if data.PlanID == "" {
			return fiber.NewError(fiber.StatusBadRequest, "plan_changed requires plan_id")
		}
		var plan models.Plan
		if err := database.DB.Where("id = ?", data.PlanID).First(&plan).Error; err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "unknown plan id")
		}
		updates := map[string]any{"plan_id": data.PlanID}
		if data.Customer != "" {
			updates["billing_customer"] = data.Customer
		}
		if err := database.DB.Model(&models.OrganizationSettings{}).
			Where("org_id = ?", data.OrgID).Updates(updates).Error; err != nil {
			return err
		}
	}

	return c.JSON(fiber.Map{"message": "success"})
}
