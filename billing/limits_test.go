package billing

import (
	"testing"

	"denku-backend/models"

	"github.com/stretchr/testify/assert"
)

func TestEffectiveLimits(t *testing.T) {
	growth := models.Plan{Id: "growth", ConcurrencyBase: 5, PhoneNumberBase: 5, MonthlyMinutes: 2000}

	tests := []struct {
		name     string
		plan     models.Plan
		addons   []models.PlanAddon
		expected Limits
	}{
		{
			name:     "no addons",
			plan:     growth,
			expected: Limits{Concurrency: 5, PhoneNumbers: 5, MonthlyMinutes: 2000},
		},
		{
			name: "addons sum onto base",
			plan: growth,
			addons: []models.PlanAddon{
				{Kind: models.AddonConcurrency, Quantity: 3, Active: true},
				{Kind: models.AddonPhoneNumber, Quantity: 2, Active: true},
				{Kind: models.AddonConcurrency, Quantity: 1, Active: true},
			},
			expected: Limits{Concurrency: 9, PhoneNumbers: 7, MonthlyMinutes: 2000},
		},
		{
			name: "inactive addons ignored",
			plan: growth,
			addons: []models.PlanAddon{
				{Kind: models.AddonConcurrency, Quantity: 10, Active: false},
			},
			expected: Limits{Concurrency: 5, PhoneNumbers: 5, MonthlyMinutes: 2000},
		},
		{
			name: "unknown addon kind ignored",
			plan: growth,
			addons: []models.PlanAddon{
				{Kind: "storage", Quantity: 10, Active: true},
			},
			expected: Limits{Concurrency: 5, PhoneNumbers: 5, MonthlyMinutes: 2000},
		},
		{
			name: "never negative",
			plan: models.Plan{Id: "weird", ConcurrencyBase: 1, PhoneNumberBase: 0, MonthlyMinutes: 0},
			addons: []models.PlanAddon{
				{Kind: models.AddonConcurrency, Quantity: -5, Active: true},
				{Kind: models.AddonPhoneNumber, Quantity: -1, Active: true},
			},
			expected: Limits{Concurrency: 0, PhoneNumbers: 0, MonthlyMinutes: 0},
		},
		{
			name:     "zero plan",
			plan:     models.Plan{},
			expected: Limits{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, EffectiveLimits(tt.plan, tt.addons))
		})
	}
}
