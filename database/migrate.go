package database

import (
	"fmt"

	"gorm.io/gorm"
)

// EnsureConstraints applies the idempotent index/constraint migrations that
// AutoMigrate's struct tags can't express:
// - composite indexes for the dashboard list queries
// - CHECK constraints keeping limit/quantity arithmetic non-negative
func EnsureConstraints() error {
	return DB.Transaction(func(tx *gorm.DB) error {
		indexes := []string{
			`CREATE INDEX IF NOT EXISTS idx_calls_org_started_at ON calls (org_id, started_at)`,
			`CREATE INDEX IF NOT EXISTS idx_calls_org_outcome ON calls (org_id, outcome)`,
			`CREATE INDEX IF NOT EXISTS idx_appointments_org_starts_at ON appointments (org_id, starts_at)`,
			`CREATE INDEX IF NOT EXISTS idx_leads_org_status ON leads (org_id, status)`,
			`CREATE INDEX IF NOT EXISTS idx_tickets_org_status ON tickets (org_id, status)`,
			`CREATE INDEX IF NOT EXISTS idx_audit_logs_org_created_at ON audit_logs (org_id, created_at)`,
		}
		for _, stmt := range indexes {
			if err := tx.Exec(stmt).Error; err != nil {
				return fmt.Errorf("index migration failed on: %s - %w", stmt, err)
			}
		}

		checks := []string{
			`DO $$
			BEGIN
				IF NOT EXISTS (
					SELECT 1 FROM pg_constraint
					WHERE conrelid = 'plans'::regclass
					  AND conname  = 'chk_plans_limits_nonneg'
				) THEN
					ALTER TABLE plans
					ADD CONSTRAINT chk_plans_limits_nonneg
					CHECK (concurrency_base >= 0 AND phone_number_base >= 0 AND monthly_minutes >= 0);
				END IF;
			END $$;`,
			`DO $$
			BEGIN
				IF NOT EXISTS (
					SELECT 1 FROM pg_constraint
					WHERE conrelid = 'plan_addons'::regclass
					  AND conname  = 'chk_plan_addons_quantity_nonneg'
				) THEN
					ALTER TABLE plan_addons
					ADD CONSTRAINT chk_plan_addons_quantity_nonneg
					CHECK (quantity >= 0);
				END IF;
			END $$;`,
			`DO $$
			BEGIN
				IF NOT EXISTS (
					SELECT 1 FROM pg_constraint
					WHERE conrelid = 'calls'::regclass
					  AND conname  = 'chk_calls_duration_nonneg'
				) THEN
					ALTER TABLE calls
					ADD CONSTRAINT chk_calls_duration_nonneg
					CHECK (duration_secs >= 0);
				END IF;
			END $$;`,
		}
		for _, stmt := range checks {
			if err := tx.Exec(stmt).Error; err != nil {
				return fmt.Errorf("check constraint migration failed: %w", err)
			}
		}

		return nil
	})
}
