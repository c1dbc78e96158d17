package controllers

import (
	"denku-backend/database"
	"denku-backend/middlewares"
	"denku-backend/models"
	"denku-backend/utils"

	"github.com/gofiber/fiber/v2"
)

type contactDTO struct {
	Name    string `json:"name" validate:"required,max=120"`
	Email   string `json:"email" validate:"required,email"`
	Company string `json:"company" validate:"max=120"`
	Phone   string `json:"phone" validate:"max=40"`
	Message string `json:"message" validate:"max=4000"`
}

// CreateContactRequest handles the public marketing-site lead form.
func CreateContactRequest(c *fiber.Ctx) error {
	var data contactDTO
	if err := middlewares.BindAndValidate(c, &data); err != nil {
		return err
	}
	utils.NormalizeDTO(&data)

	phone := ""
	if data.Phone != "" {
		// Form phone is optional and free-text; keep it only when it
		// normalizes cleanly.
		if p, err := utils.NormalizePhone(data.Phone); err == nil {
			phone = p
		}
	}

	req := models.ContactRequest{
		Name:    data.Name,
		Email:   data.Email,
		Company: data.Company,
		Phone:   phone,
		Message: data.Message,
	}
	if err := database.DB.Create(&req).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "could not save contact request",
		})
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"message": "success"})
}
