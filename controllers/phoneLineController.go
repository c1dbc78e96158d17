package controllers

import (
	"denku-backend/billing"
	"denku-backend/database"
	"denku-backend/middlewares"
	"denku-backend/models"
	"denku-backend/utils"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type createPhoneLineDTO struct {
	Number           string `json:"number" validate:"required,max=40"`
	ProviderNumberID string `json:"provider_number_id" validate:"required,max=64"`
	Label            string `json:"label" validate:"omitempty,max=120"`
}

// CreatePhoneLine registers a provider phone number with the org, enforcing
// the effective phone-number cap.
func CreatePhoneLine(c *fiber.Ctx) error {
	var data createPhoneLineDTO
	if err := middlewares.BindAndValidate(c, &data); err != nil {
		return err
	}
	utils.NormalizeDTO(&data)

	number, err := utils.NormalizePhone(data.Number)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "invalid phone number",
			"error":   err.Error(),
		})
	}

	db, err := database.FromCtx(c)
	if err != nil {
		return err
	}
	org := orgID(c)

	limits, err := billing.LimitsForOrg(db, org)
	if err != nil {
		return err
	}
	var count int64
	if err := db.Model(&models.PhoneLine{}).Where("org_id = ?", org).Count(&count).Error; err != nil {
		return err
	}
	if int(count) >= limits.PhoneNumbers {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"message": "phone number limit reached",
			"limit":   limits.PhoneNumbers,
		})
	}

	line := models.PhoneLine{
		OrgId:            org,
		Number:           number,
		ProviderNumberID: data.ProviderNumberID,
		Label:            data.Label,
	}
	if err := db.Create(&line).Error; err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "could not create phone line",
			"error":   err.Error(),
		})
	}
	return c.Status(fiber.StatusCreated).JSON(line)
}

func GetPhoneLines(c *fiber.Ctx) error {
	db, err := database.FromCtx(c)
	if err != nil {
		return err
	}

	var lines []models.PhoneLine
	if err := db.Where("org_id = ?", orgID(c)).Order("created_at").Find(&lines).Error; err != nil {
		return err
	}
	return c.JSON(fiber.Map{"phone_lines": lines, "message": "success"})
}

// DeletePhoneLine removes a line. Refused while an agent still references it;
// the dashboard detaches first.
func DeletePhoneLine(c *fiber.Ctx) error {
	db, err := database.FromCtx(c)
	if err != nil {
		return err
	}
	org := orgID(c)

	var line models.PhoneLine
	err = db.Where("org_id = ? AND id = ?", org, c.Params("id")).First(&line).Error
	if err == gorm.ErrRecordNotFound {
		return fiber.NewError(fiber.StatusNotFound, "phone line not found")
	}
	if err != nil {
		return err
	}

	var inUse int64
	if err := db.Model(&models.Agent{}).Where("phone_line_id = ?", line.Id).Count(&inUse).Error; err != nil {
		return err
	}
	if inUse > 0 {
		return fiber.NewError(fiber.StatusConflict, "phone line is attached to an agent")
	}

	if err := db.Delete(&models.PhoneLine{}, line.Id).Error; err != nil {
		return err
	}
	return c.JSON(fiber.Map{"message": "success"})
}
