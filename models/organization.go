package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Workspace status values stored on OrganizationSettings.
const (
	WorkspaceActive = "active"
	WorkspacePaused = "paused"
)

// Pause reasons. Billing pauses can only be lifted by the billing webhook,
// never through the dashboard resume endpoint.
const (
	PauseReasonManual            = "manual"
	PauseReasonBillingDelinquent = "billing_delinquent"
)

type Organization struct {
	Id        string    `json:"id" gorm:"primaryKey"`
	Name      string    `json:"name" gorm:"not null"`
	Slug      string    `json:"slug" gorm:"unique;not null"`
	CreatedAt time.Time `json:"created_at"`

	Settings OrganizationSettings `json:"settings" gorm:"foreignKey:OrgId;references:Id"`
}

func (org *Organization) BeforeCreate(tx *gorm.DB) (err error) {
	// UUID version 4
	org.Id = uuid.NewString()
	return
}

// OrganizationSettings carries the billing/workspace state for one org.
// WorkspaceStatus drives call routing: a paused workspace has its phone
// numbers unbound at the telephony provider.
type OrganizationSettings struct {
	ID              uint       `json:"-" gorm:"primaryKey"`
	OrgId           string     `json:"org_id" gorm:"uniqueIndex;not null"`
	PlanID          string     `json:"plan_id" gorm:"size:40;not null;default:free"`
	WorkspaceStatus string     `json:"workspace_status" gorm:"size:20;not null;default:active"`
	PausedReason    string     `json:"paused_reason" gorm:"size:40"`
	PausedAt        *time.Time `json:"paused_at"`
	BillingEmail    string     `json:"billing_email"`
	BillingCustomer string     `json:"-" gorm:"size:64"` // payment provider customer ref
	UpdatedAt       time.Time  `json:"updated_at"`
}

// IsBillingPause reports whether the current pause was applied by the
// billing webhook rather than a dashboard user.
func (s *OrganizationSettings) IsBillingPause() bool {
	return s.WorkspaceStatus == WorkspacePaused && s.PausedReason == PauseReasonBillingDelinquent
}
