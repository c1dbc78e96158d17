package models

import "time"

const (
	AppointmentScheduled = "scheduled"
	AppointmentCompleted = "completed"
	AppointmentCancelled = "cancelled"
)

// Appointment rows are written by the voice provider's tool callback while a
// call is live, and managed afterwards from the dashboard.
type Appointment struct {
	Id           uint      `json:"id" gorm:"primaryKey"`
	OrgId        string    `json:"org_id" gorm:"index;not null"`
	CallId       *uint     `json:"call_id" gorm:"index"`
	CustomerName string    `json:"customer_name" gorm:"not null"`
	Phone        string    `json:"phone" gorm:"size:20"` // normalized E.164
	StartsAt     time.Time `json:"starts_at" gorm:"not null;index"`
	Note         string    `json:"note"`
	Status       string    `json:"status" gorm:"size:20;not null;default:scheduled"`
	CreatedAt    time.Time `json:"created_at"`
}
