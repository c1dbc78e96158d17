package controllers

import (
	"time"

	"denku-backend/database"
	"denku-backend/models"

	"github.com/gofiber/fiber/v2"
)

// AdminReport is the Basic-Auth-gated read-only cross-org report.
func AdminReport(c *fiber.Ctx) error {
	var orgs, paused, leads, tickets int64
	if err := database.DB.Model(&models.Organization{}).Count(&orgs).Error; err != nil {
		return err
	}
	err := database.DB.Model(&models.OrganizationSettings{}).
		Where("workspace_status = ?", models.WorkspacePaused).
		Count(&paused).Error
	if err != nil {
		return err
	}
	if err := database.DB.Model(&models.Lead{}).Count(&leads).Error; err != nil {
		return err
	}
	if err := database.DB.Model(&models.Ticket{}).Count(&tickets).Error; err != nil {
		return err
	}

	since := time.Now().AddDate(0, 0, -30)
	var recentCalls int64
	err = database.DB.Model(&models.Call{}).
		Where("started_at >= ?", since).
		Count(&recentCalls).Error
	if err != nil {
		return err
	}

	var contactRequests int64
	if err := database.DB.Model(&models.ContactRequest{}).Count(&contactRequests).Error; err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"organizations":    orgs,
		"paused":           paused,
		"calls_last_30d":   recentCalls,
		"leads":            leads,
		"tickets":          tickets,
		"contact_requests": contactRequests,
		"generated_at":     time.Now().UTC(),
	})
}
