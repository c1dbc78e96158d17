package controllers

import (
	"denku-backend/database"
	"denku-backend/middlewares"
	"denku-backend/models"
	"denku-backend/utils"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type createTicketDTO struct {
	CallId      *uint  `json:"call_id"`
	Subject     string `json:"subject" validate:"required,max=200"`
	Description string `json:"description" validate:"omitempty,max=8000"`
	Priority    string `json:"priority" validate:"omitempty,oneof=low normal high urgent"`
}

type updateTicketDTO struct {
	Subject     *string `json:"subject" validate:"omitempty,max=200"`
	Description *string `json:"description" validate:"omitempty,max=8000"`
	Priority    *string `json:"priority" validate:"omitempty,oneof=low normal high urgent"`
	Status      *string `json:"status" validate:"omitempty,oneof=open in_progress resolved closed"`
}

func CreateTicket(c *fiber.Ctx) error {
	var data createTicketDTO
	if err := middlewares.BindAndValidate(c, &data); err != nil {
		return err
	}
	utils.NormalizeDTO(&data)

	db, err := database.FromCtx(c)
	if err != nil {
		return err
	}
	org := orgID(c)

	if data.CallId != nil {
		var n int64
		if err := db.Model(&models.Call{}).Where("org_id = ? AND id = ?", org, *data.CallId).Count(&n).Error; err != nil {
			return err
		}
		if n == 0 {
			return fiber.NewError(fiber.StatusNotFound, "call not found")
		}
	}

	priority := data.Priority
	if priority == "" {
		priority = "normal"
	}

	ticket := models.Ticket{
		OrgId:       org,
		CallId:      data.CallId,
		Subject:     data.Subject,
		Description: data.Description,
		Priority:    priority,
		Status:      models.TicketOpen,
	}
	if err := db.Create(&ticket).Error; err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "could not create ticket",
			"error":   err.Error(),
		})
	}
	return c.Status(fiber.StatusCreated).JSON(ticket)
}

func GetTickets(c *fiber.Ctx) error {
	db, err := database.FromCtx(c)
	if err != nil {
		return err
	}

	q := db.Where("org_id = ?", orgID(c))
	if status := c.Query("status"); status != "" {
		q = q.Where("status = ?", status)
	}

	var tickets []models.Ticket
	if err := q.Order("created_at DESC").Find(&tickets).Error; err != nil {
		return err
	}
	return c.JSON(fiber.Map{"tickets": tickets, "message": "success"})
}

func UpdateTicket(c *fiber.Ctx) error {
	var data updateTicketDTO
	if err := middlewares.BindAndValidate(c, &data); err != nil {
		return err
	}
	utils.NormalizePtrDTO(&data)

	db, err := database.FromCtx(c)
	if err != nil {
		return err
	}

	var ticket models.Ticket
	err = db.Where("org_id = ? AND id = ?", orgID(c), c.Params("id")).First(&ticket).Error
	if err == gorm.ErrRecordNotFound {
		return fiber.NewError(fiber.StatusNotFound, "ticket not found")
	}
	if err != nil {
		return err
	}

	updates := utils.UpdatesFromPtrDTO(&data, nil)
	if len(updates) == 0 {
		return c.JSON(ticket)
	}
	if err := db.Model(&ticket).Updates(updates).Error; err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "could not update ticket",
			"error":   err.Error(),
		})
	}
	return c.JSON(ticket)
}
