package models

import "time"

// PhoneLine is a provider phone number owned by an org. ProviderNumberID is
// the id used against the telephony provider's phone-number API.
type PhoneLine struct {
	Id               uint      `json:"id" gorm:"primaryKey"`
	OrgId            string    `json:"org_id" gorm:"index;not null"`
	Number           string    `json:"number" gorm:"size:20;not null"` // E.164
	ProviderNumberID string    `json:"provider_number_id" gorm:"size:64;uniqueIndex;not null"`
	Label            string    `json:"label"`
	CreatedAt        time.Time `json:"created_at"`
}
