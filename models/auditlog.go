package models

import (
	"time"

	"gorm.io/datatypes"
)

// AuditLog records sensitive operations: signup, pause/resume, billing events,
// tool callbacks. Actor is a profile id, or "system" for webhook-driven writes.
type AuditLog struct {
	Id        uint           `json:"id" gorm:"primaryKey"`
	OrgId     string         `json:"org_id" gorm:"index"`
	Actor     string         `json:"actor" gorm:"size:64"`
	Action    string         `json:"action" gorm:"size:60;not null;index"`
	Entity    string         `json:"entity" gorm:"size:60"`
	Detail    datatypes.JSON `json:"detail" gorm:"type:jsonb"`
	CreatedAt time.Time      `json:"created_at"`
}
