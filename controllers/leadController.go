package controllers

import (
	"denku-backend/database"
	"denku-backend/middlewares"
	"denku-backend/models"
	"denku-backend/utils"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type createLeadDTO struct {
	Name   string `json:"name" validate:"required,max=120"`
	Email  string `json:"email" validate:"omitempty,email"`
	Phone  string `json:"phone" validate:"omitempty,max=40"`
	Source string `json:"source" validate:"omitempty,max=40"`
	Notes  string `json:"notes" validate:"omitempty,max=4000"`
}

type updateLeadDTO struct {
	Name   *string `json:"name" validate:"omitempty,max=120"`
	Email  *string `json:"email" validate:"omitempty,email"`
	Phone  *string `json:"phone" validate:"omitempty,max=40"`
	Status *string `json:"status" validate:"omitempty,oneof=new contacted qualified closed"`
	Notes  *string `json:"notes" validate:"omitempty,max=4000"`
}

func CreateLead(c *fiber.Ctx) error {
	var data createLeadDTO
	if err := middlewares.BindAndValidate(c, &data); err != nil {
		return err
	}
	utils.NormalizeDTO(&data)

	phone := ""
	if data.Phone != "" {
		p, err := utils.NormalizePhone(data.Phone)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"message": "invalid phone number",
				"error":   err.Error(),
			})
		}
		phone = p
	}

	db, err := database.FromCtx(c)
	if err != nil {
		return err
	}

	lead := models.Lead{
		OrgId:  orgID(c),
		Name:   data.Name,
		Email:  data.Email,
		Phone:  phone,
		Source: data.Source,
		Status: models.LeadNew,
		Notes:  data.Notes,
	}
	if err := db.Create(&lead).Error; err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "could not create lead",
			"error":   err.Error(),
		})
	}
	return c.Status(fiber.StatusCreated).JSON(lead)
}

func GetLeads(c *fiber.Ctx) error {
	db, err := database.FromCtx(c)
	if err != nil {
		return err
	}

	q := db.Where("org_id = ?", orgID(c))
	if status := c.Query("status"); status != "" {
		q = q.Where("status = ?", status)
	}

	var leads []models.Lead
	if err := q.Order("created_at DESC").Find(&leads).Error; err != nil {
		return err
	}
	return c.JSON(fiber.Map{"leads": leads, "message": "success"})
}

func UpdateLead(c *fiber.Ctx) error {
	var data updateLeadDTO
	if err := middlewares.BindAndValidate(c, &data); err != nil {
		return err
	}
	utils.NormalizePtrDTO(&data)

	if data.Phone != nil && *data.Phone != "" {
		p, err := utils.NormalizePhone(*data.Phone)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"message": "invalid phone number",
				"error":   err.Error(),
			})
		}
		data.Phone = &p
	}

	db, err := database.FromCtx(c)
	if err != nil {
		return err
	}

	var lead models.Lead
	err = db.Where("org_id = ? AND id = ?", orgID(c), c.Params("id")).First(&lead).Error
	if err == gorm.ErrRecordNotFound {
		return fiber.NewError(fiber.StatusNotFound, "lead not found")
	}
	if err != nil {
		return err
	}

	updates := utils.UpdatesFromPtrDTO(&data, nil)
	if len(updates) == 0 {
		return c.JSON(lead)
	}
	if err := db.Model(&lead).Updates(updates).Error; err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "could not update lead",
			"error":   err.Error(),
		})
	}
	return c.JSON(lead)
}
