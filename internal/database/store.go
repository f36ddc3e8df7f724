package database

import (
	"context"
	"fmt"

	"fleet-backend/internal/apperrors"

	"github.com/jmoiron/sqlx"
)

// Store runs every query against the shared pool.
type Store struct {
	db *sqlx.DB
}

func NewStore(db *sqlx.DB) *Store {
	return &Store{db: db}
}

func (s *Store) DB() *sqlx.DB { return s.db }

// Entity names a table that soft-deletes through its active flag.
type Entity string

const (
	EntityAdmin      Entity = "admins"
	EntityDriver     Entity = "drivers"
	EntityVehicle    Entity = "vehicles"
	EntityClient     Entity = "clients"
	EntityOrder      Entity = "orders"
	EntityRun        Entity = "runs"
	EntityFuelLog    Entity = "fuel_logs"
	EntityServiceLog Entity = "service_logs"
	EntityEquipment  Entity = "equipment"
)

var entityLabels = map[Entity]string{
	EntityAdmin:      "Admin",
	EntityDriver:     "Driver",
	EntityVehicle:    "Vehicle",
	EntityClient:     "Client",
	EntityOrder:      "Order",
	EntityRun:        "Run",
	EntityFuelLog:    "Fuel log",
	EntityServiceLog: "Service log",
	EntityEquipment:  "Equipment",
}

func (e Entity) Label() string {
	if l, ok := entityLabels[e]; ok {
		return l
	}
	return string(e)
}

// SetActive soft-deletes (active=false) or restores a row. The row keeps its
// data either way.
func (s *Store) SetActive(ctx context.Context, entity Entity, id int64, active bool) error {
	if _, ok := entityLabels[entity]; !ok {
		return fmt.Errorf("unknown entity %q", entity)
	}
	// entity is one of the constants above, never user input.
	query := fmt.Sprintf(`UPDATE %s SET active = $1 WHERE id = $2`, entity)
	res, err := s.db.ExecContext(ctx, query, active, id)
	if err != nil {
		return fmt.Errorf("set %s active=%v: %w", entity, active, err)
	}
	return expectOneRow(res, entity.Label())
}

type rowsAffecter interface {
	RowsAffected() (int64, error)
}

func expectOneRow(res rowsAffecter, what string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: rows affected: %w", what, err)
	}
	if n == 0 {
		return apperrors.NotFound(what + " not found")
	}
	return nil
}

// nullableID treats 0 as "no reference".
func nullableID(id *int64) *int64 {
	if id == nil || *id == 0 {
		return nil
	}
	return id
}
