package models

import "time"

// Lead statuses used by the dashboard pipeline view.
const (
	LeadNew       = "new"
	LeadContacted = "contacted"
	LeadQualified = "qualified"
	LeadClosed    = "closed"
)

type Lead struct {
	Id        uint      `json:"id" gorm:"primaryKey"`
	OrgId     string    `json:"org_id" gorm:"index;not null"`
	Name      string    `json:"name" gorm:"not null"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone" gorm:"size:20"` // normalized E.164
	Source    string    `json:"source" gorm:"size:40"`
	Status    string    `json:"status" gorm:"size:20;not null;default:new"`
	Notes     string    `json:"notes" gorm:"type:text"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ContactRequest is a marketing-site form submission. Not org-scoped; the
// public /api/contact endpoint writes these.
type ContactRequest struct {
	Id        uint      `json:"id" gorm:"primaryKey"`
	Name      string    `json:"name" gorm:"not null"`
	Email     string    `json:"email" gorm:"not null"`
	Company   string    `json:"company"`
	Phone     string    `json:"phone" gorm:"size:20"`
	Message   string    `json:"message" gorm:"type:text"`
	CreatedAt time.Time `json:"created_at"`
}
