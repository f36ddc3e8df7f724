package database

import (
	"context"
	"fmt"

	"fleet-backend/internal/models"

	"github.com/lib/pq"
)

const vehicleSelect = `
	SELECT v.id, v.plate, v.make, v.model, v.year, v.capacity_tonnes, v.vehicle_type,
		v.odometer_km, v.registered_on, v.inspection_due, v.assigned_driver_id,
		CASE WHEN d.id IS NULL THEN NULL ELSE d.first_name || ' ' || d.last_name END AS driver_name,
		v.active, v.created_at
	FROM vehicles v
	LEFT JOIN drivers d ON d.id = v.assigned_driver_id
`

const plateConflict = "A vehicle with this plate already exists"

func (s *Store) ListVehicles(ctx context.Context) ([]models.Vehicle, error) {
	vehicles := []models.Vehicle{}
	query := vehicleSelect + ` WHERE v.active = TRUE ORDER BY v.plate`
	if err := s.db.SelectContext(ctx, &vehicles, query); err != nil {
		return nil, fmt.Errorf("list vehicles: %w", err)
	}
	return vehicles, nil
}

// ListVehiclesByIDs returns the active vehicles among ids, lowest id first.
func (s *Store) ListVehiclesByIDs(ctx context.Context, ids []int64) ([]models.Vehicle, error) {
	vehicles := []models.Vehicle{}
	if len(ids) == 0 {
		return vehicles, nil
	}
	query := vehicleSelect + ` WHERE v.active = TRUE AND v.id = ANY($1) ORDER BY v.id`
	if err := s.db.SelectContext(ctx, &vehicles, query, pq.Array(ids)); err != nil {
		return nil, fmt.Errorf("list vehicles by id: %w", err)
	}
	return vehicles, nil
}

func (s *Store) GetVehicle(ctx context.Context, id int64) (*models.Vehicle, error) {
	var v models.Vehicle
	query := vehicleSelect + ` WHERE v.id = $1 AND v.active = TRUE`
	if err := s.db.GetContext(ctx, &v, query, id); err != nil {
		return nil, translate(err, "Vehicle", "")
	}
	return &v, nil
}

func (s *Store) CreateVehicle(ctx context.Context, in models.VehicleInput) (int64, error) {
	var id int64
	err := s.db.GetContext(ctx, &id, `
		INSERT INTO vehicles (plate, make, model, year, capacity_tonnes, vehicle_type,
			odometer_km, registered_on, inspection_due, assigned_driver_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id
	`, in.Plate, in.Make, in.Model, in.Year, in.CapacityTonnes, in.VehicleType,
		in.OdometerKm, in.RegisteredOn, in.InspectionDue, nullableID(in.DriverID))
	if err != nil {
		return 0, translate(err, "Vehicle", plateConflict)
	}
	return id, nil
}

func (s *Store) UpdateVehicle(ctx context.Context, id int64, in models.VehicleInput) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE vehicles
		SET plate = $1, make = $2, model = $3, year = $4, capacity_tonnes = $5, vehicle_type = $6,
			odometer_km = $7, registered_on = $8, inspection_due = $9, assigned_driver_id = $10
		WHERE id = $11 AND active = TRUE
	`, in.Plate, in.Make, in.Model, in.Year, in.CapacityTonnes, in.VehicleType,
		in.OdometerKm, in.RegisteredOn, in.InspectionDue, nullableID(in.DriverID), id)
	if err != nil {
		return translate(err, "Vehicle", plateConflict)
	}
	return expectOneRow(res, "Vehicle")
}
