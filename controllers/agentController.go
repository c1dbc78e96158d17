package controllers

import (
	"denku-backend/billing"
	"denku-backend/database"
	"denku-backend/middlewares"
	"denku-backend/models"
	"denku-backend/utils"
	"denku-backend/vapi"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type createAgentDTO struct {
	Name                string `json:"name" validate:"required,max=120"`
	Language            string `json:"language" validate:"omitempty,max=10"`
	Voice               string `json:"voice" validate:"omitempty,max=40"`
	SystemPrompt        string `json:"system_prompt" validate:"omitempty,max=20000"`
	FirstMessage        string `json:"first_message" validate:"omitempty,max=1000"`
	ProviderAssistantID string `json:"provider_assistant_id" validate:"omitempty,max=64"`
	PhoneLineId         *uint  `json:"phone_line_id"`
}

type updateAgentDTO struct {
	Name                *string `json:"name" validate:"omitempty,max=120"`
	Language            *string `json:"language" validate:"omitempty,max=10"`
	Voice               *string `json:"voice" validate:"omitempty,max=40"`
	SystemPrompt        *string `json:"system_prompt" validate:"omitempty,max=20000"`
	FirstMessage        *string `json:"first_message" validate:"omitempty,max=1000"`
	ProviderAssistantID *string `json:"provider_assistant_id" validate:"omitempty,max=64"`
	PhoneLineId         *uint   `json:"phone_line_id"`
	Active              *bool   `json:"active"`
}

func CreateAgent(c *fiber.Ctx) error {
	var data createAgentDTO
	if err := middlewares.BindAndValidate(c, &data); err != nil {
		return err
	}
	utils.NormalizeDTO(&data)

	db, err := database.FromCtx(c)
	if err != nil {
		return err
	}
	org := orgID(c)

	agent := models.Agent{
		OrgId:               org,
		Name:                data.Name,
		Language:            data.Language,
		Voice:               data.Voice,
		SystemPrompt:        data.SystemPrompt,
		FirstMessage:        data.FirstMessage,
		ProviderAssistantID: data.ProviderAssistantID,
		Active:              true,
	}

	if data.PhoneLineId != nil {
		line, err := orgPhoneLine(db, org, *data.PhoneLineId)
		if err != nil {
			return err
		}
		if err := checkAgentCapacity(db, org); err != nil {
			return err
		}
		agent.PhoneLineId = &line.Id
	}

	if err := db.Create(&agent).Error; err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "could not create agent",
			"error":   err.Error(),
		})
	}

	// Route inbound calls to the new assistant when a line is attached.
	if agent.Routable() {
		var line models.PhoneLine
		if err := db.First(&line, *agent.PhoneLineId).Error; err == nil {
			if err := vapi.BindPhoneNumber(c.Context(), vapiClient(), line.ProviderNumberID, agent.ProviderAssistantID); err != nil {
				return fiber.NewError(fiber.StatusBadGateway, "agent created but phone number binding failed")
			}
		}
	}

	return c.Status(fiber.StatusCreated).JSON(agent)
}

func GetAgents(c *fiber.Ctx) error {
	db, err := database.FromCtx(c)
	if err != nil {
		return err
	}

	var agents []models.Agent
	if err := db.Preload("PhoneLine").Where("org_id = ?", orgID(c)).Order("created_at").Find(&agents).Error; err != nil {
		return err
	}
	return c.JSON(fiber.Map{"agents": agents, "message": "success"})
}

func GetAgent(c *fiber.Ctx) error {
	db, err := database.FromCtx(c)
	if err != nil {
		return err
	}

	var agent models.Agent
	err = db.Preload("PhoneLine").
		Where("org_id = ? AND id = ?", orgID(c), c.Params("id")).
		First(&agent).Error
	if err == gorm.ErrRecordNotFound {
		return fiber.NewError(fiber.StatusNotFound, "agent not found")
	}
	if err != nil {
		return err
	}
	return c.JSON(agent)
}

func UpdateAgent(c *fiber.Ctx) error {
	var data updateAgentDTO
	if err := middlewares.BindAndValidate(c, &data); err != nil {
		return err
	}
	utils.NormalizePtrDTO(&data)

	db, err := database.FromCtx(c)
	if err != nil {
		return err
	}
	org := orgID(c)

	var agent models.Agent
	err = db.Preload("PhoneLine").
		Where("org_id = ? AND id = ?", org, c.Params("id")).
		First(&agent).Error
	if err == gorm.ErrRecordNotFound {
		return fiber.NewError(fiber.StatusNotFound, "agent not found")
	}
	if err != nil {
		return err
	}

	lineChanged := data.PhoneLineId != nil &&
		(agent.PhoneLineId == nil || *agent.PhoneLineId != *data.PhoneLineId)
	if lineChanged && *data.PhoneLineId != 0 {
		if _, err := orgPhoneLine(db, org, *data.PhoneLineId); err != nil {
			return err
		}
		// Attaching a line to a previously unattached agent consumes a
		// concurrency slot; swapping lines does not.
		if agent.PhoneLineId == nil {
			if err := checkAgentCapacity(db, org); err != nil {
				return err
			}
		}
	}

	updates := utils.UpdatesFromPtrDTO(&data, nil)
	if data.PhoneLineId != nil && *data.PhoneLineId == 0 {
		// phone_line_id=0 detaches the line.
		updates["phone_line_id"] = nil
	}
	if len(updates) == 0 {
		return c.JSON(agent)
	}

	if err := db.Model(&models.Agent{}).Where("id = ?", agent.Id).Updates(updates).Error; err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "could not update agent",
			"error":   err.Error(),
		})
	}

	// Rewire provider routing when the line, assistant id, or active flag moved.
	if err := syncAgentBinding(c, db, org, agent.Id, agent.PhoneLine); err != nil {
		return err
	}

	var updated models.Agent
	if err := db.Preload("PhoneLine").First(&updated, "id = ?", agent.Id).Error; err != nil {
		return err
	}
	return c.JSON(updated)
}

func DeleteAgent(c *fiber.Ctx) error {
	db, err := database.FromCtx(c)
	if err != nil {
		return err
	}
	org := orgID(c)

	var agent models.Agent
	err = db.Preload("PhoneLine").
		Where("org_id = ? AND id = ?", org, c.Params("id")).
		First(&agent).Error
	if err == gorm.ErrRecordNotFound {
		return fiber.NewError(fiber.StatusNotFound, "agent not found")
	}
	if err != nil {
		return err
	}

	if agent.Routable() && agent.PhoneLine != nil {
		if err := vapi.UnbindPhoneNumber(c.Context(), vapiClient(), agent.PhoneLine.ProviderNumberID); err != nil {
			return fiber.NewError(fiber.StatusBadGateway, "phone number unbind failed; agent not deleted")
		}
	}

	if err := db.Delete(&models.Agent{}, "id = ?", agent.Id).Error; err != nil {
		return err
	}
	return c.JSON(fiber.Map{"message": "success"})
}

// checkAgentCapacity enforces the effective concurrency cap: each active agent
// with an attached line occupies one slot.
func checkAgentCapacity(db *gorm.DB, org string) error {
	limits, err := billing.LimitsForOrg(db, org)
	if err != nil {
		return err
	}
	var n int64
	err = db.Model(&models.Agent{}).
		Where("org_id = ? AND active = ? AND phone_line_id IS NOT NULL", org, true).
		Count(&n).Error
	if err != nil {
		return err
	}
	if int(n) >= limits.Concurrency {
		return fiber.NewError(fiber.StatusForbidden, "concurrency limit reached")
	}
	return nil
}

// orgPhoneLine loads a line and 404s on cross-org ids.
func orgPhoneLine(db *gorm.DB, org string, id uint) (*models.PhoneLine, error) {
	var line models.PhoneLine
	err := db.Where("org_id = ? AND id = ?", org, id).First(&line).Error
	if err == gorm.ErrRecordNotFound {
		return nil, fiber.NewError(fiber.StatusNotFound, "phone line not found")
	}
	if err != nil {
		return nil, err
	}
	return &line, nil
}

// syncAgentBinding reconciles the provider binding after an agent update:
// unbind the previous line when it was detached or swapped, bind the current
// line when the agent is routable and active.
func syncAgentBinding(c *fiber.Ctx, db *gorm.DB, org, agentID string, prevLine *models.PhoneLine) error {
	var agent models.Agent
	if err := db.Preload("PhoneLine").First(&agent, "id = ?", agentID).Error; err != nil {
		return err
	}

	if prevLine != nil && (agent.PhoneLineId == nil || *agent.PhoneLineId != prevLine.Id || !agent.Active) {
		if err := vapi.UnbindPhoneNumber(c.Context(), vapiClient(), prevLine.ProviderNumberID); err != nil {
			return fiber.NewError(fiber.StatusBadGateway, "previous phone number unbind failed")
		}
	}
	if agent.Active && agent.Routable() && agent.PhoneLine != nil {
		if err := vapi.BindPhoneNumber(c.Context(), vapiClient(), agent.PhoneLine.ProviderNumberID, agent.ProviderAssistantID); err != nil {
			return fiber.NewError(fiber.StatusBadGateway, "phone number binding failed")
		}
	}
	return nil
}
