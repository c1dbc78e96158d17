package controllers

import (
	"time"

	"denku-backend/database"
	"denku-backend/middlewares"
	"denku-backend/models"
	"denku-backend/utils"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type toolAppointmentDTO struct {
	OrgID          string `json:"org_id" validate:"required"`
	ProviderCallID string `json:"call_id" validate:"omitempty,max=64"`
	CustomerName   string `json:"customer_name" validate:"required,max=120"`
	Phone          string `json:"phone" validate:"required,max=40"`
	Date           string `json:"date" validate:"required,max=120"`
	Note           string `json:"note" validate:"omitempty,max=2000"`
}

// ToolCreateAppointment is invoked by the voice provider's tool call while a
// call is live. Gated by the tool shared secret; Idempotency-Key honored.
func ToolCreateAppointment(c *fiber.Ctx) error {
	var data toolAppointmentDTO
	if err := middlewares.BindAndValidate(c, &data); err != nil {
		return err
	}
	utils.NormalizeDTO(&data)

	var org models.Organization
	if err := database.DB.Where("id = ?", data.OrgID).First(&org).Error; err != nil {
		return fiber.NewError(fiber.StatusNotFound, "unknown organization")
	}

	phone, err := utils.NormalizePhone(data.Phone)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "invalid phone number",
			"error":   err.Error(),
		})
	}

	startsAt, err := utils.ParseNaturalDate(data.Date, time.Now())
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "could not parse date",
			"error":   err.Error(),
		})
	}

	// Link to our call row when the provider passed a call id.
	var callID *uint
	if data.ProviderCallID != "" {
		var call models.Call
		if err := database.DB.Where("provider_call_id = ?", data.ProviderCallID).First(&call).Error; err == nil {
			callID = &call.Id
		}
	}

	appt := models.Appointment{
		OrgId:        data.OrgID,
		CallId:       callID,
		CustomerName: data.CustomerName,
		Phone:        phone,
		StartsAt:     startsAt,
		Note:         data.Note,
		Status:       models.AppointmentScheduled,
	}
	if err := database.DB.Create(&appt).Error; err != nil {
		return err
	}

	utils.Audit(database.DB, data.OrgID, "system", "appointment.tool_create", "appointment", fiber.Map{
		"appointment_id": appt.Id,
		"starts_at":      appt.StartsAt,
	})

	return c.Status(fiber.StatusCreated).JSON(appt)
}

func GetAppointments(c *fiber.Ctx) error {
	db, err := database.FromCtx(c)
	if err != nil {
		return err
	}

	q := db.Where("org_id = ?", orgID(c))
	if status := c.Query("status"); status != "" {
		q = q.Where("status = ?", status)
	}
	if from := c.Query("from"); from != "" {
		if t, err := time.Parse(time.RFC3339, from); err == nil {
			q = q.Where("starts_at >= ?", t)
		}
	}

	var appts []models.Appointment
	if err := q.Order("starts_at").Find(&appts).Error; err != nil {
		return err
	}
	return c.JSON(fiber.Map{"appointments": appts, "message": "success"})
}

type updateAppointmentDTO struct {
	CustomerName *string `json:"customer_name" validate:"omitempty,max=120"`
	Note         *string `json:"note" validate:"omitempty,max=2000"`
	Status       *string `json:"status" validate:"omitempty,oneof=scheduled completed cancelled"`
	StartsAt     *string `json:"starts_at" validate:"omitempty,max=120"`
}

func UpdateAppointment(c *fiber.Ctx) error {
	var data updateAppointmentDTO
	if err := middlewares.BindAndValidate(c, &data); err != nil {
		return err
	}
	utils.NormalizePtrDTO(&data)

	db, err := database.FromCtx(c)
	if err != nil {
		return err
	}

	var appt models.Appointment
	err = db.Where("org_id = ? AND id = ?", orgID(c), c.Params("id")).First(&appt).Error
	if err == gorm.ErrRecordNotFound {
		return fiber.NewError(fiber.StatusNotFound, "appointment not found")
	}
	if err != nil {
		return err
	}

	updates := utils.UpdatesFromPtrDTO(&data, nil)
	if data.StartsAt != nil {
		t, err := utils.ParseNaturalDate(*data.StartsAt, time.Now())
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"message": "could not parse date",
				"error":   err.Error(),
			})
		}
		updates["starts_at"] = t
	}
	if len(updates) == 0 {
		return c.JSON(appt)
	}
	if err := db.Model(&appt).Updates(updates).Error; err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "could not update appointment",
			"error":   err.Error(),
		})
	}
	return c.JSON(appt)
}
