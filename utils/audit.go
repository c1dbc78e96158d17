package utils

import (
	"encoding/json"

	"denku-backend/logger"
	"denku-backend/models"

	"gorm.io/gorm"
)

// Audit writes an audit_logs row. detail is marshalled to jsonb; failures are
// logged but never fail the calling operation.
func Audit(db *gorm.DB, orgID, actor, action, entity string, detail any) {
	var blob []byte
	if detail != nil {
		b, err := json.Marshal(detail)
		if err != nil {
			logger.L().Warn().Err(err).Str("action", action).Msg("audit detail marshal failed")
		} else {
			blob = b
		}
	}
	entry := models.AuditLog{
		OrgId:  orgID,
		Actor:  actor,
		Action: action,
		Entity: entity,
		Detail: blob,
	}
	if err := db.Create(&entry).Error; err != nil {
		logger.L().Warn().Err(err).Str("action", action).Str("org", orgID).Msg("audit write failed")
	}
}
