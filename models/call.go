package models

import (
	"time"

	"gorm.io/datatypes"
)

// Call directions and statuses as reported by the provider webhook.
const (
	CallInbound  = "inbound"
	CallOutbound = "outbound"
	CallWeb      = "web"

	CallStatusRinging    = "ringing"
	CallStatusInProgress = "in_progress"
	CallStatusEnded      = "ended"
)

// Derived outcomes, see calls.DeriveOutcome for the cascade.
const (
	OutcomeAppointmentBooked = "appointment_booked"
	OutcomeTicketRaised      = "ticket_raised"
	OutcomeInProgress        = "in_progress"
	OutcomeMissed            = "missed"
	OutcomeCompleted         = "completed"
)

type Call struct {
	Id             uint   `json:"id" gorm:"primaryKey"`
	OrgId          string `json:"org_id" gorm:"index;not null"`
	AgentId        string `json:"agent_id" gorm:"index"`
	Agent          *Agent `json:"agent,omitempty" gorm:"foreignKey:AgentId;references:Id"`
	ProviderCallID string `json:"provider_call_id" gorm:"size:64;uniqueIndex;not null"`

	Direction    string     `json:"direction" gorm:"size:10"`
	CallerNumber string     `json:"caller_number" gorm:"size:20"`
	Status       string     `json:"status" gorm:"size:20;index"`
	EndedReason  string     `json:"ended_reason" gorm:"size:60"`
	StartedAt    time.Time  `json:"started_at"`
	EndedAt      *time.Time `json:"ended_at"`
	DurationSecs int        `json:"duration_secs"`

	Transcript datatypes.JSON `json:"transcript" gorm:"type:jsonb"`
	Metadata   datatypes.JSON `json:"metadata" gorm:"type:jsonb"`

	// Outcome is backfilled when the call ends; empty while live.
	Outcome   string    `json:"outcome" gorm:"size:30;index"`
	CreatedAt time.Time `json:"created_at"`
}
