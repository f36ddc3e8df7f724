package database

import (
	"context"
	"fmt"

	"fleet-backend/internal/models"
)

const runSelect = `
	SELECT r.id, r.run_number, r.driver_id, d.first_name || ' ' || d.last_name AS driver_name,
		r.vehicle_id, v.plate AS vehicle_plate, r.order_id, o.order_number,
		r.starts_on, r.ends_on, r.status, r.note, r.active, r.created_at
	FROM runs r
	LEFT JOIN drivers d ON d.id = r.driver_id
	LEFT JOIN vehicles v ON v.id = r.vehicle_id
	LEFT JOIN orders o ON o.id = r.order_id
`

const runConflict = "A run with this number already exists"

// RunFilter narrows ListRuns. A nil DriverID means every driver.
type RunFilter struct {
	DriverID *int64
	Status   string
}

func (s *Store) ListRuns(ctx context.Context, f RunFilter) ([]models.Run, error) {
	query := runSelect + ` WHERE r.active = TRUE`
	args := []interface{}{}
	if f.DriverID != nil {
		args = append(args, *f.DriverID)
		query += fmt.Sprintf(` AND r.driver_id = $%d`, len(args))
	}
	if f.Status != "" {
		args = append(args, f.Status)
		query += fmt.Sprintf(` AND r.status = $%d`, len(args))
	}
	query += ` ORDER BY r.starts_on DESC, r.id DESC`

	runs := []models.Run{}
	if err := s.db.SelectContext(ctx, &runs, query, args...); err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	return runs, nil
}

func (s *Store) GetRun(ctx context.Context, id int64) (*models.Run, error) {
	var r models.Run
	if err := s.db.GetContext(ctx, &r, runSelect+` WHERE r.id = $1 AND r.active = TRUE`, id); err != nil {
		return nil, translate(err, "Run", "")
	}
	return &r, nil
}

func (s *Store) CreateRun(ctx context.Context, r *models.Run) (int64, error) {
	if r.Status == "" {
		r.Status = models.RunStatusInProgress
	}
	var id int64
	err := s.db.GetContext(ctx, &id, `
		INSERT INTO runs (run_number, driver_id, vehicle_id, order_id, starts_on, ends_on, status, note)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id
	`, r.RunNumber, r.DriverID, r.VehicleID, r.OrderID, r.StartsOn, r.EndsOn, r.Status, r.Note)
	if err != nil {
		return 0, translate(err, "Run", runConflict)
	}
	return id, nil
}

// UpdateRun writes every column of r.
func (s *Store) UpdateRun(ctx context.Context, r *models.Run) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE runs
		SET run_number = $1, driver_id = $2, vehicle_id = $3, order_id = $4,
			starts_on = $5, ends_on = $6, status = $7, note = $8
		WHERE id = $9 AND active = TRUE
	`, r.RunNumber, r.DriverID, r.VehicleID, r.OrderID, r.StartsOn, r.EndsOn, r.Status, r.Note, r.ID)
	if err != nil {
		return translate(err, "Run", runConflict)
	}
	return expectOneRow(res, "Run")
}
