// Package billing computes the effective caps an org operates under: plan
// base limits plus active add-on quantities.
package billing

import (
	"denku-backend/models"

	"gorm.io/gorm"
)

// Limits are the effective caps for one org.
type Limits struct {
	Concurrency    int `json:"concurrency"`
	PhoneNumbers   int `json:"phone_numbers"`
	MonthlyMinutes int `json:"monthly_minutes"`
}

// EffectiveLimits sums plan base limits and active add-on quantities.
// Inactive add-ons are ignored; results are floored at zero.
func EffectiveLimits(plan models.Plan, addons []models.PlanAddon) Limits {
	l := Limits{
		Concurrency:    plan.ConcurrencyBase,
		PhoneNumbers:   plan.PhoneNumberBase,
		MonthlyMinutes: plan.MonthlyMinutes,
	}
	for _, a := range addons {
		if !a.Active {
			continue
		}
		switch a.Kind {
		case models.AddonConcurrency:
			l.Concurrency += a.Quantity
		case models.AddonPhoneNumber:
			l.PhoneNumbers += a.Quantity
		}
	}
	if l.Concurrency < 0 {
		l.Concurrency = 0
	}
	if l.PhoneNumbers < 0 {
		l.PhoneNumbers = 0
	}
	if l.MonthlyMinutes < 0 {
		l.MonthlyMinutes = 0
	}
	return l
}

// LimitsForOrg loads the org's plan and add-ons and returns the effective
// limits. Falls back to the free plan when the settings row references an
// unknown plan id.
func LimitsForOrg(db *gorm.DB, orgID string) (Limits, error) {
	var settings models.OrganizationSettings
	if err := db.Where("org_id = ?", orgID).First(&settings).Error; err != nil {
		return Limits{}, err
	}

	var plan models.Plan
	err := db.Where("id = ?", settings.PlanID).First(&plan).Error
	if err == gorm.ErrRecordNotFound {
		if err = db.Where("id = ?", "free").First(&plan).Error; err != nil {
			return Limits{}, err
		}
	} else if err != nil {
		return Limits{}, err
	}

	var addons []models.PlanAddon
	if err := db.Where("org_id = ? AND active = ?", orgID, true).Find(&addons).Error; err != nil {
		return Limits{}, err
	}

	return EffectiveLimits(plan, addons), nil
}
