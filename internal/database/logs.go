package database

import (
	"context"
	"fmt"

	"fleet-backend/internal/models"

	"github.com/lib/pq"
)

const fuelSelect = `
	SELECT f.id, f.vehicle_id, v.plate AS vehicle_plate, f.driver_id, f.fueled_on, f.liters,
		f.total_cost, f.odometer_km, f.station, f.note, f.active, f.created_at
	FROM fuel_logs f
	LEFT JOIN vehicles v ON v.id = f.vehicle_id
`

const serviceSelect = `
	SELECT s.id, s.vehicle_id, v.plate AS vehicle_plate, s.admin_id, s.serviced_on, s.service_type,
		s.description, s.cost, s.odometer_km, s.workshop, s.active, s.created_at
	FROM service_logs s
	LEFT JOIN vehicles v ON v.id = s.vehicle_id
`

// ListFuelLogs returns every active entry when vehicleIDs is nil, otherwise
// only entries for those vehicles.
func (s *Store) ListFuelLogs(ctx context.Context, vehicleIDs []int64) ([]models.FuelLog, error) {
	logs := []models.FuelLog{}
	query := fuelSelect + ` WHERE f.active = TRUE`
	args := []interface{}{}
	if vehicleIDs != nil {
		query += ` AND f.vehicle_id = ANY($1)`
		args = append(args, pq.Array(vehicleIDs))
	}
	query += ` ORDER BY f.fueled_on DESC, f.id DESC`
	if err := s.db.SelectContext(ctx, &logs, query, args...); err != nil {
		return nil, fmt.Errorf("list fuel logs: %w", err)
	}
	return logs, nil
}

func (s *Store) GetFuelLog(ctx context.Context, id int64) (*models.FuelLog, error) {
	var f models.FuelLog
	if err := s.db.GetContext(ctx, &f, fuelSelect+` WHERE f.id = $1 AND f.active = TRUE`, id); err != nil {
		return nil, translate(err, "Fuel log", "")
	}
	return &f, nil
}

func (s *Store) CreateFuelLog(ctx context.Context, in models.FuelLogInput) (int64, error) {
	fueledOn := models.Today()
	if in.FueledOn != nil {
		fueledOn = *in.FueledOn
	}
	var id int64
	err := s.db.GetContext(ctx, &id, `
		INSERT INTO fuel_logs (vehicle_id, driver_id, fueled_on, liters, total_cost, odometer_km, station, note)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id
	`, in.VehicleID, nullableID(in.DriverID), fueledOn, in.Liters, in.TotalCost, in.OdometerKm, in.Station, in.Note)
	if err != nil {
		return 0, translate(err, "Fuel log", "")
	}
	return id, nil
}

func (s *Store) UpdateFuelLog(ctx context.Context, id int64, in models.FuelLogInput) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE fuel_logs
		SET vehicle_id = $1, driver_id = $2, fueled_on = COALESCE($3, fueled_on), liters = $4,
			total_cost = $5, odometer_km = $6, station = $7, note = $8
		WHERE id = $9 AND active = TRUE
	`, in.VehicleID, nullableID(in.DriverID), in.FueledOn, in.Liters, in.TotalCost, in.OdometerKm, in.Station, in.Note, id)
	if err != nil {
		return translate(err, "Fuel log", "")
	}
	return expectOneRow(res, "Fuel log")
}

// ListServiceLogs follows the same vehicle filter as ListFuelLogs.
func (s *Store) ListServiceLogs(ctx context.Context, vehicleIDs []int64) ([]models.ServiceLog, error) {
	logs := []models.ServiceLog{}
	query := serviceSelect + ` WHERE s.active = TRUE`
	args := []interface{}{}
	if vehicleIDs != nil {
		query += ` AND s.vehicle_id = ANY($1)`
		args = append(args, pq.Array(vehicleIDs))
	}
	query += ` ORDER BY s.serviced_on DESC, s.id DESC`
	if err := s.db.SelectContext(ctx, &logs, query, args...); err != nil {
		return nil, fmt.Errorf("list service logs: %w", err)
	}
	return logs, nil
}

func (s *Store) GetServiceLog(ctx context.Context, id int64) (*models.ServiceLog, error) {
	var l models.ServiceLog
	if err := s.db.GetContext(ctx, &l, serviceSelect+` WHERE s.id = $1 AND s.active = TRUE`, id); err != nil {
		return nil, translate(err, "Service log", "")
	}
	return &l, nil
}

func (s *Store) CreateServiceLog(ctx context.Context, in models.ServiceLogInput) (int64, error) {
	servicedOn := models.Today()
	if in.ServicedOn != nil {
		servicedOn = *in.ServicedOn
	}
	var id int64
	err := s.db.GetContext(ctx, &id, `
		INSERT INTO service_logs (vehicle_id, admin_id, serviced_on, service_type, description, cost, odometer_km, workshop)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id
	`, in.VehicleID, nullableID(in.AdminID), servicedOn, in.ServiceType, in.Description, in.Cost, in.OdometerKm, in.Workshop)
	if err != nil {
		return 0, translate(err, "Service log", "")
	}
	return id, nil
}

func (s *Store) UpdateServiceLog(ctx context.Context, id int64, in models.ServiceLogInput) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE service_logs
		SET vehicle_id = $1, serviced_on = COALESCE($2, serviced_on), service_type = $3,
			description = $4, cost = $5, odometer_km = $6, workshop = $7
		WHERE id = $8 AND active = TRUE
	`, in.VehicleID, in.ServicedOn, in.ServiceType, in.Description, in.Cost, in.OdometerKm, in.Workshop, id)
	if err != nil {
		return translate(err, "Service log", "")
	}
	return expectOneRow(res, "Service log")
}
