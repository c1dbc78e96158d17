package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Agent is a configured voice assistant. ProviderAssistantID is the id the
// telephony provider knows it by; PhoneLineId (optional) routes inbound calls.
type Agent struct {
	Id                  string `json:"id" gorm:"primaryKey"`
	OrgId               string `json:"org_id" gorm:"index;not null"`
	Name                string `json:"name" gorm:"not null"`
	Language            string `json:"language" gorm:"size:10;default:en"`
	Voice               string `json:"voice" gorm:"size:40"`
	SystemPrompt        string `json:"system_prompt" gorm:"type:text"`
	FirstMessage        string `json:"first_message"`
	ProviderAssistantID string `json:"provider_assistant_id" gorm:"size:64;index"`

	PhoneLineId *uint      `json:"phone_line_id"`
	PhoneLine   *PhoneLine `json:"phone_line,omitempty" gorm:"foreignKey:PhoneLineId;references:Id"`

	Active    bool      `json:"active" gorm:"default:true"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (a *Agent) BeforeCreate(tx *gorm.DB) (err error) {
	// UUID version 4
	a.Id = uuid.NewString()
	return
}

// Routable reports whether the agent can receive inbound calls: it needs a
// provider assistant id and an attached phone line.
func (a *Agent) Routable() bool {
	return a.ProviderAssistantID != "" && a.PhoneLineId != nil
}
