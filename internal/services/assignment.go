package services

import (
	"context"
	"fmt"
	"log"
	"sort"

	"fleet-backend/internal/database"

	"golang.org/x/sync/errgroup"
)

// Querier is the slice of *sqlx.DB the resolver needs.
type Querier interface {
	SelectContext(ctx context.Context, dest interface{}, query string, args ...interface{}) error
}

// assignmentStrategy is one way a driver can be linked to a vehicle.
type assignmentStrategy struct {
	name  string
	query string
}

// Every strategy runs on every call. The mapping tables only exist on
// databases migrated from older releases.
var assignmentStrategies = []assignmentStrategy{
	{
		name:  "driver.vehicle_id",
		query: `SELECT vehicle_id FROM drivers WHERE id = $1 AND vehicle_id IS NOT NULL`,
	},
	{
		name:  "vehicle.assigned_driver_id",
		query: `SELECT id FROM vehicles WHERE assigned_driver_id = $1 AND active = TRUE`,
	},
	{
		name:  "driver_vehicles",
		query: `SELECT vehicle_id FROM driver_vehicles WHERE driver_id = $1`,
	},
	{
		name:  "vehicle_drivers",
		query: `SELECT vehicle_id FROM vehicle_drivers WHERE driver_id = $1`,
	},
}

// AssignmentResolver answers "which vehicles does this driver drive".
type AssignmentResolver struct {
	db Querier
}

func NewAssignmentResolver(db Querier) *AssignmentResolver {
	return &AssignmentResolver{db: db}
}

// ResolveVehicles returns the deduplicated union of every strategy, sorted
// ascending. An empty result is not an error.
func (r *AssignmentResolver) ResolveVehicles(ctx context.Context, driverID int64) ([]int64, error) {
	results := make([][]int64, len(assignmentStrategies))

	g, gctx := errgroup.WithContext(ctx)
	for i, strategy := range assignmentStrategies {
		g.Go(func() error {
			ids := []int64{}
			if err := r.db.SelectContext(gctx, &ids, strategy.query, driverID); err != nil {
				if database.IsUndefinedRelation(err) {
					log.Printf("⚠️  Assignment source %s not present, treating as empty", strategy.name)
					return nil
				}
				return fmt.Errorf("resolve vehicles via %s: %w", strategy.name, err)
			}
			results[i] = ids
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	seen := make(map[int64]struct{})
	vehicles := []int64{}
	for _, ids := range results {
		for _, id := range ids {
			if _, dup := seen[id]; dup {
				continue
			}
			seen[id] = struct{}{}
			vehicles = append(vehicles, id)
		}
	}
	sort.Slice(vehicles, func(a, b int) bool { return vehicles[a] < vehicles[b] })
	return vehicles, nil
}
