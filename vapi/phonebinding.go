package vapi

import (
	"context"

	"denku-backend/logger"
)

// BindPhoneNumber points the provider phone number at the assistant so
// inbound calls route to it. Logs the outcome either way.
func BindPhoneNumber(ctx context.Context, c *Client, numberID, assistantID string) error {
	err := c.UpdatePhoneNumberAssistant(ctx, numberID, &assistantID)
	if err != nil {
		logger.L().Error().Err(err).
			Str("phone_number_id", numberID).
			Str("assistant_id", assistantID).
			Msg("phone number bind failed")
		return err
	}
	logger.L().Info().
		Str("phone_number_id", numberID).
		Str("assistant_id", assistantID).
		Msg("phone number bound")
	return nil
}

// UnbindPhoneNumber nulls the number's assistantId so inbound calls stop
// routing. Logs the outcome either way.
func UnbindPhoneNumber(ctx context.Context, c *Client, numberID string) error {
	err := c.UpdatePhoneNumberAssistant(ctx, numberID, nil)
	if err != nil {
		logger.L().Error().Err(err).
			Str("phone_number_id", numberID).
			Msg("phone number unbind failed")
		return err
	}
	logger.L().Info().
		Str("phone_number_id", numberID).
		Msg("phone number unbound")
	return nil
}
