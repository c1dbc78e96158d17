package models

import "time"

// Plan is a catalog row. Id is the plan slug referenced by
// OrganizationSettings.PlanID.
type Plan struct {
	Id              string `json:"id" gorm:"primaryKey;size:40"`
	Name            string `json:"name" gorm:"not null"`
	ConcurrencyBase int    `json:"concurrency_base" gorm:"not null"`
	PhoneNumberBase int    `json:"phone_number_base" gorm:"not null"`
	MonthlyMinutes  int    `json:"monthly_minutes" gorm:"not null"`
}

// Add-on kinds. Quantity of an active add-on is summed on top of the plan base.
const (
	AddonConcurrency = "concurrency"
	AddonPhoneNumber = "phone_number"
)

type PlanAddon struct {
	Id        uint      `json:"id" gorm:"primaryKey"`
	OrgId     string    `json:"org_id" gorm:"index;not null"`
	Kind      string    `json:"kind" gorm:"size:20;not null"`
	Quantity  int       `json:"quantity" gorm:"not null"`
	Active    bool      `json:"active" gorm:"default:true"`
	CreatedAt time.Time `json:"created_at"`
}
