package controllers

import (
	"time"

	"denku-backend/database"
	"denku-backend/models"
	"denku-backend/utils"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// GetAnalyticsSummary aggregates the org's activity over an optional from/to
// window: entity counts, call duration totals, and the outcome breakdown.
func GetAnalyticsSummary(c *fiber.Ctx) error {
	db, err := database.FromCtx(c)
	if err != nil {
		return err
	}
	org := orgID(c)

	var from, to time.Time
	if v := c.Query("from"); v != "" {
		if t, err := time.Parse(time.RFC3339, v); err == nil {
			from = t
		}
	}
	if v := c.Query("to"); v != "" {
		if t, err := time.Parse(time.RFC3339, v); err == nil {
			to = t
		}
	}

	window := func(q *gorm.DB, col string) *gorm.DB {
		if !from.IsZero() {
			q = q.Where(col+" >= ?", from)
		}
		if !to.IsZero() {
			q = q.Where(col+" < ?", to)
		}
		return q
	}

	var callCount, leadCount, ticketCount, apptCount int64
	if err := window(db.Model(&models.Call{}).Where("org_id = ?", org), "started_at").Count(&callCount).Error; err != nil {
		return err
	}
	if err := window(db.Model(&models.Lead{}).Where("org_id = ?", org), "created_at").Count(&leadCount).Error; err != nil {
		return err
	}
	if err := window(db.Model(&models.Ticket{}).Where("org_id = ?", org), "created_at").Count(&ticketCount).Error; err != nil {
		return err
	}
	if err := window(db.Model(&models.Appointment{}).Where("org_id = ?", org), "created_at").Count(&apptCount).Error; err != nil {
		return err
	}

	var totalSecs int64
	row := window(db.Model(&models.Call{}).Where("org_id = ?", org), "started_at").
		Select("COALESCE(SUM(duration_secs), 0)").Row()
	if err := row.Scan(&totalSecs); err != nil {
		return err
	}

	avgSecs := 0.0
	if callCount > 0 {
		avgSecs = utils.Round2(float64(totalSecs) / float64(callCount))
	}

	type outcomeRow struct {
		Outcome string
		N       int64
	}
	var outcomeRows []outcomeRow
	err = window(db.Model(&models.Call{}).Where("org_id = ? AND outcome <> ''", org), "started_at").
		Select("outcome, COUNT(*) AS n").
		Group("outcome").
		Scan(&outcomeRows).Error
	if err != nil {
		return err
	}
	outcomes := make(map[string]int64, len(outcomeRows))
	for _, r := range outcomeRows {
		outcomes[r.Outcome] = r.N
	}

	return c.JSON(fiber.Map{
		"calls":              callCount,
		"leads":              leadCount,
		"tickets":            ticketCount,
		"appointments":       apptCount,
		"call_minutes_total": utils.Round2(float64(totalSecs) / 60),
		"call_secs_avg":      avgSecs,
		"outcomes":           outcomes,
		"message":            "success",
	})
}
