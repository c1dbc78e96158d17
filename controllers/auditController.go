package controllers

import (
	"denku-backend/database"
	"denku-backend/models"
	"denku-backend/utils"

	"github.com/gofiber/fiber/v2"
)

// GetAuditLogs lists the org's audit trail, newest first. Owner/admin only
// (enforced in routes).
func GetAuditLogs(c *fiber.Ctx) error {
	db, err := database.FromCtx(c)
	if err != nil {
		return err
	}

	limit := utils.ParseIntDefault(c.Query("limit"), 50)
	if limit > 200 {
		limit = 200
	}
	offset := utils.ParseIntDefault(c.Query("offset"), 0)

	q := db.Where("org_id = ?", orgID(c))
	if action := c.Query("action"); action != "" {
		q = q.Where("action = ?", action)
	}

	var logs []models.AuditLog
	if err := q.Order("created_at DESC").Limit(limit).Offset(offset).Find(&logs).Error; err != nil {
		return err
	}
	return c.JSON(fiber.Map{"audit_logs": logs, "message": "success"})
}
