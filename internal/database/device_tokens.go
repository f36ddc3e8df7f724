package database

import (
	"context"
	"fmt"
)

// UpsertDeviceToken moves token to driverID if another driver registered it
// on the same phone before.
func (s *Store) UpsertDeviceToken(ctx context.Context, driverID int64, token, platform string) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO device_tokens (driver_id, token, platform, updated_at)
		VALUES ($1, $2, $3, NOW())
		ON CONFLICT (token)
		DO UPDATE SET driver_id = EXCLUDED.driver_id, platform = EXCLUDED.platform, updated_at = NOW()
	`, driverID, token, platform)
	if err != nil {
		return translate(err, "Device token", "")
	}
	return nil
}

func (s *Store) DeviceTokensForDriver(ctx context.Context, driverID int64) ([]string, error) {
	tokens := []string{}
	err := s.db.SelectContext(ctx, &tokens, `
		SELECT token FROM device_tokens WHERE driver_id = $1 ORDER BY updated_at DESC
	`, driverID)
	if err != nil {
		return nil, fmt.Errorf("device tokens for driver %d: %w", driverID, err)
	}
	return tokens, nil
}
