package models

import "time"

const (
	TicketOpen       = "open"
	TicketInProgress = "in_progress"
	TicketResolved   = "resolved"
	TicketClosed     = "closed"
)

type Ticket struct {
	Id          uint      `json:"id" gorm:"primaryKey"`
	OrgId       string    `json:"org_id" gorm:"index;not null"`
	CallId      *uint     `json:"call_id" gorm:"index"`
	Subject     string    `json:"subject" gorm:"not null"`
	Description string    `json:"description" gorm:"type:text"`
	Priority    string    `json:"priority" gorm:"size:10;default:normal"`
	Status      string    `json:"status" gorm:"size:20;not null;default:open"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
