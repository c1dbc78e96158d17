// Package calls derives the dashboard-facing outcome label for a call.
package calls

import (
	"denku-backend/models"

	"gorm.io/gorm"
)

// MissedThresholdSecs: an ended call shorter than this counts as missed.
const MissedThresholdSecs = 10

// DeriveOutcome evaluates the outcome cascade for one call. First match wins:
//
//  1. an appointment row references the call  -> appointment_booked
//  2. a ticket row references the call        -> ticket_raised
//  3. the call has not ended                  -> in_progress
//  4. duration below MissedThresholdSecs     -> missed
//  5. otherwise                               -> completed
func DeriveOutcome(db *gorm.DB, call *models.Call) (string, error) {
	var n int64

	if err := db.Model(&models.Appointment{}).
		Where("org_id = ? AND call_id = ?", call.OrgId, call.Id).
		Count(&n).Error; err != nil {
		return "", err
	}
	if n > 0 {
		return models.OutcomeAppointmentBooked, nil
	}

	if err := db.Model(&models.Ticket{}).
		Where("org_id = ? AND call_id = ?", call.OrgId, call.Id).
		Count(&n).Error; err != nil {
		return "", err
	}
	if n > 0 {
		return models.OutcomeTicketRaised, nil
	}

	if call.Status != models.CallStatusEnded {
		return models.OutcomeInProgress, nil
	}
	if call.DurationSecs < MissedThresholdSecs {
		return models.OutcomeMissed, nil
	}
	return models.OutcomeCompleted, nil
}

// BackfillOutcome derives and persists the outcome onto the row. Called when
// the provider reports the call ended, and lazily from the detail endpoint
// for rows that predate outcome derivation.
func BackfillOutcome(db *gorm.DB, call *models.Call) error {
	outcome, err := DeriveOutcome(db, call)
	if err != nil {
		return err
	}
	if outcome == call.Outcome {
		return nil
	}
	call.Outcome = outcome
	return db.Model(&models.Call{}).Where("id = ?", call.Id).
		Update("outcome", outcome).Error
}
