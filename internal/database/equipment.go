package database

import (
	"context"
	"fmt"

	"fleet-backend/internal/models"
)

const equipmentSelect = `
	SELECT e.id, e.name, e.kind, e.vehicle_id, v.plate AS vehicle_plate, e.capacity, e.condition,
		e.acquired_on, e.last_checked_on, e.note, e.active, e.created_at
	FROM equipment e
	LEFT JOIN vehicles v ON v.id = e.vehicle_id
`

func (s *Store) ListEquipment(ctx context.Context) ([]models.Equipment, error) {
	items := []models.Equipment{}
	if err := s.db.SelectContext(ctx, &items, equipmentSelect+` WHERE e.active = TRUE ORDER BY e.name`); err != nil {
		return nil, fmt.Errorf("list equipment: %w", err)
	}
	return items, nil
}

func (s *Store) GetEquipment(ctx context.Context, id int64) (*models.Equipment, error) {
	var e models.Equipment
	if err := s.db.GetContext(ctx, &e, equipmentSelect+` WHERE e.id = $1 AND e.active = TRUE`, id); err != nil {
		return nil, translate(err, "Equipment", "")
	}
	return &e, nil
}

func (s *Store) CreateEquipment(ctx context.Context, in models.EquipmentInput) (int64, error) {
	var id int64
	err := s.db.GetContext(ctx, &id, `
		INSERT INTO equipment (name, kind, vehicle_id, capacity, condition, acquired_on, last_checked_on, note)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id
	`, in.Name, in.Kind, nullableID(in.VehicleID), in.Capacity, in.Condition, in.AcquiredOn, in.LastCheckedOn, in.Note)
	if err != nil {
		return 0, translate(err, "Equipment", "")
	}
	return id, nil
}

func (s *Store) UpdateEquipment(ctx context.Context, id int64, in models.EquipmentInput) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE equipment
		SET name = $1, kind = $2, vehicle_id = $3, capacity = $4, condition = $5,
			acquired_on = $6, last_checked_on = $7, note = $8
		WHERE id = $9 AND active = TRUE
	`, in.Name, in.Kind, nullableID(in.VehicleID), in.Capacity, in.Condition, in.AcquiredOn, in.LastCheckedOn, in.Note, id)
	if err != nil {
		return translate(err, "Equipment", "")
	}
	return expectOneRow(res, "Equipment")
}
