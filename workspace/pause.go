// Package workspace coordinates an org's workspace status with the telephony
// provider's phone-number bindings, so billing state and call routing stay
// consistent.
package workspace

import (
	"context"
	"fmt"
	"strings"
	"time"

	"denku-backend/logger"
	"denku-backend/models"
	"denku-backend/utils"
	"denku-backend/vapi"

	"gorm.io/gorm"
)

// ErrBillingPause is returned when Resume is called on a billing-paused
// workspace. Only the billing webhook may lift that pause.
var ErrBillingPause = fmt.Errorf("workspace paused for billing; resume via billing only")

// Pause sets workspace_status='paused' and unbinds every routable agent's
// phone number at the provider so inbound calls stop routing.
//
// The DB write commits first; provider unbinds then run as a best-effort
// sequential loop. On partial failure the DB already shows paused but some
// numbers may still ring — the error names them so the caller can retry.
func Pause(db *gorm.DB, client *vapi.Client, orgID, reason, actor string) error {
	var settings models.OrganizationSettings
	if err := db.Where("org_id = ?", orgID).First(&settings).Error; err != nil {
		return err
	}

	// An already-paused workspace keeps its original reason and timestamp, so
	// a billing event can never relabel (and later lift) a manual pause.
	updates := map[string]any{"workspace_status": models.WorkspacePaused}
	if settings.WorkspaceStatus != models.WorkspacePaused {
		now := time.Now().UTC()
		updates["paused_reason"] = reason
		updates["paused_at"] = &now
	}
	err := db.Model(&models.OrganizationSettings{}).
		Where("org_id = ?", orgID).
		Updates(updates).Error
	if err != nil {
		return err
	}

	failed, err := forEachRoutableAgent(db, orgID, func(ctx context.Context, agent models.Agent, line models.PhoneLine) error {
		return vapi.UnbindPhoneNumber(ctx, client, line.ProviderNumberID)
	})
	if err != nil {
		return err
	}

	utils.Audit(db, orgID, actor, "workspace.pause", "organization_settings", map[string]any{
		"reason":         reason,
		"failed_numbers": failed,
	})

	if len(failed) > 0 {
		logger.L().Error().
			Str("org", orgID).
			Strs("numbers", failed).
			Msg("workspace paused but some numbers are still routing")
		return fmt.Errorf("workspace paused but unbind failed for: %s", strings.Join(failed, ", "))
	}
	return nil
}

// Resume flips the workspace back to active and re-binds each phone number to
// its agent's assistant. Billing pauses are refused unless force is set (the
// billing webhook path).
func Resume(db *gorm.DB, client *vapi.Client, orgID, actor string, force bool) error {
	var settings models.OrganizationSettings
	if err := db.Where("org_id = ?", orgID).First(&settings).Error; err != nil {
		return err
	}
	if settings.WorkspaceStatus != models.WorkspacePaused {
		return nil // already active, nothing to do
	}
	if settings.IsBillingPause() && !force {
		return ErrBillingPause
	}

	err := db.Model(&models.OrganizationSettings{}).
		Where("org_id = ?", orgID).
		Updates(map[string]any{
			"workspace_status": models.WorkspaceActive,
			"paused_reason":    "",
			"paused_at":        nil,
		}).Error
	if err != nil {
		return err
	}

	failed, err := forEachRoutableAgent(db, orgID, func(ctx context.Context, agent models.Agent, line models.PhoneLine) error {
		return vapi.BindPhoneNumber(ctx, client, line.ProviderNumberID, agent.ProviderAssistantID)
	})
	if err != nil {
		return err
	}

	utils.Audit(db, orgID, actor, "workspace.resume", "organization_settings", map[string]any{
		"failed_numbers": failed,
	})

	if len(failed) > 0 {
		logger.L().Error().
			Str("org", orgID).
			Strs("numbers", failed).
			Msg("workspace resumed but some numbers are not routing")
		return fmt.Errorf("workspace resumed but rebind failed for: %s", strings.Join(failed, ", "))
	}
	return nil
}

// forEachRoutableAgent runs fn for every active agent that has both a
// provider assistant id and an attached phone line. Failures don't stop the
// loop; the affected numbers are collected and returned.
func forEachRoutableAgent(db *gorm.DB, orgID string, fn func(ctx context.Context, agent models.Agent, line models.PhoneLine) error) ([]string, error) {
	var agents []models.Agent
	err := db.Preload("PhoneLine").
		Where("org_id = ? AND active = ?", orgID, true).
		Find(&agents).Error
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	var failed []string
	for _, agent := range agents {
		if !agent.Routable() || agent.PhoneLine == nil {
			continue
		}
		if err := fn(ctx, agent, *agent.PhoneLine); err != nil {
			failed = append(failed, agent.PhoneLine.Number)
		}
	}
	return failed, nil
}
