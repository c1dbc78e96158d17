package controllers

import (
	"time"

	"denku-backend/calls"
	"denku-backend/database"
	"denku-backend/middlewares"
	"denku-backend/models"
	"denku-backend/utils"

	"github.com/gofiber/fiber/v2"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

func GetCalls(c *fiber.Ctx) error {
	db, err := database.FromCtx(c)
	if err != nil {
		return err
	}

	q := db.Model(&models.Call{}).Where("org_id = ?", orgID(c))
	if agent := c.Query("agent_id"); agent != "" {
		q = q.Where("agent_id = ?", agent)
	}
	if status := c.Query("status"); status != "" {
		q = q.Where("status = ?", status)
	}
	if from := c.Query("from"); from != "" {
		if t, err := time.Parse(time.RFC3339, from); err == nil {
			q = q.Where("started_at >= ?", t)
		}
	}
	if to := c.Query("to"); to != "" {
		if t, err := time.Parse(time.RFC3339, to); err == nil {
			q = q.Where("started_at < ?", t)
		}
	}

	limit := utils.ParseIntDefault(c.Query("limit"), 50)
	if limit > 200 {
		limit = 200
	}
	offset := utils.ParseIntDefault(c.Query("offset"), 0)

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return err
	}

	var rows []models.Call
	if err := q.Order("started_at DESC").Limit(limit).Offset(offset).Find(&rows).Error; err != nil {
		return err
	}
	return c.JSON(fiber.Map{"calls": rows, "total": total, "message": "success"})
}

func GetCall(c *fiber.Ctx) error {
	db, err := database.FromCtx(c)
	if err != nil {
		return err
	}

	var call models.Call
	err = db.Preload("Agent").
		Where("org_id = ? AND id = ?", orgID(c), c.Params("id")).
		First(&call).Error
	if err == gorm.ErrRecordNotFound {
		return fiber.NewError(fiber.StatusNotFound, "call not found")
	}
	if err != nil {
		return err
	}

	// Rows written before outcome derivation get one lazily.
	if call.Outcome == "" {
		if err := calls.BackfillOutcome(db, &call); err != nil {
			return err
		}
	}
	return c.JSON(call)
}

type callWebhookDTO struct {
	Event          string         `json:"event" validate:"required,oneof=call.started call.ended"`
	OrgID          string         `json:"org_id" validate:"required"`
	ProviderCallID string         `json:"call_id" validate:"required,max=64"`
	AssistantID    string         `json:"assistant_id" validate:"omitempty,max=64"`
	Direction      string         `json:"direction" validate:"omitempty,oneof=inbound outbound web"`
	CallerNumber   string         `json:"caller_number" validate:"omitempty,max=40"`
	StartedAt      time.Time      `json:"started_at"`
	EndedAt        *time.Time     `json:"ended_at"`
	EndedReason    string         `json:"ended_reason" validate:"omitempty,max=60"`
	Transcript     datatypes.JSON `json:"transcript"`
	Metadata       datatypes.JSON `json:"metadata"`
}

// CallWebhook ingests the provider's call lifecycle events. Gated by the
// webhook shared secret; upserts on provider call id so replays are harmless.
func CallWebhook(c *fiber.Ctx) error {
	var data callWebhookDTO
	if err := middlewares.BindAndValidate(c, &data); err != nil {
		return err
	}

	var org models.Organization
	if err := database.DB.Where("id = ?", data.OrgID).First(&org).Error; err != nil {
		return fiber.NewError(fiber.StatusNotFound, "unknown organization")
	}

	caller := data.CallerNumber
	if caller != "" {
		if p, err := utils.NormalizePhone(caller); err == nil {
			caller = p
		}
	}

	// Map the provider assistant id back to our agent.
	agentID := ""
	if data.AssistantID != "" {
		var agent models.Agent
		if err := database.DB.Where("org_id = ? AND provider_assistant_id = ?", data.OrgID, data.AssistantID).
			First(&agent).Error; err == nil {
			agentID = agent.Id
		}
	}

	var call models.Call
	err := database.DB.Where("provider_call_id = ?", data.ProviderCallID).First(&call).Error
	if err == gorm.ErrRecordNotFound {
		call = models.Call{
			OrgId:          data.OrgID,
			AgentId:        agentID,
			ProviderCallID: data.ProviderCallID,
			Direction:      data.Direction,
			CallerNumber:   caller,
			Status:         models.CallStatusInProgress,
			StartedAt:      data.StartedAt,
		}
		if err := database.DB.Create(&call).Error; err != nil {
			return err
		}
	} else if err != nil {
		return err
	}

	if data.Event == "call.ended" {
		updates := map[string]any{
			"status":       models.CallStatusEnded,
			"ended_at":     data.EndedAt,
			"ended_reason": data.EndedReason,
		}
		if data.EndedAt != nil && !call.StartedAt.IsZero() {
			updates["duration_secs"] = int(data.EndedAt.Sub(call.StartedAt).Seconds())
		}
		if len(data.Transcript) > 0 {
			updates["transcript"] = data.Transcript
		}
		if len(data.Metadata) > 0 {
			updates["metadata"] = data.Metadata
		}
		if err := database.DB.Model(&models.Call{}).Where("id = ?", call.Id).Updates(updates).Error; err != nil {
			return err
		}

		if err := database.DB.First(&call, call.Id).Error; err != nil {
			return err
		}
		if err := calls.BackfillOutcome(database.DB, &call); err != nil {
			return err
		}
	}

	return c.JSON(fiber.Map{"message": "success", "call_id": call.Id})
}
