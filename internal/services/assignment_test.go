package services

import (
	"context"
	"errors"
	"reflect"
	"strings"
	"sync"
	"testing"

	"github.com/lib/pq"
)

// fakeQuerier answers each strategy by the table its query reads from.
type fakeQuerier struct {
	mu     sync.Mutex
	rows   map[string][]int64
	errs   map[string]error
	called map[string]bool
}

func (f *fakeQuerier) SelectContext(ctx context.Context, dest interface{}, query string, args ...interface{}) error {
	table := tableOf(query)
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.called == nil {
		f.called = map[string]bool{}
	}
	f.called[table] = true
	if err := f.errs[table]; err != nil {
		return err
	}
	out := dest.(*[]int64)
	*out = append(*out, f.rows[table]...)
	return nil
}

func tableOf(query string) string {
	fields := strings.Fields(query[strings.Index(query, "FROM")+len("FROM"):])
	return fields[0]
}

var undefinedTable = &pq.Error{Code: "42P01", Message: `relation "driver_vehicles" does not exist`}

func TestResolveVehiclesUnionsEverySource(t *testing.T) {
	q := &fakeQuerier{rows: map[string][]int64{
		"drivers":         {3},
		"vehicles":        {3, 5},
		"driver_vehicles": {9},
		"vehicle_drivers": {5, 1},
	}}
	got, err := NewAssignmentResolver(q).ResolveVehicles(context.Background(), 42)
	if err != nil {
		t.Fatalf("ResolveVehicles: %v", err)
	}
	if want := []int64{1, 3, 5, 9}; !reflect.DeepEqual(got, want) {
		t.Fatalf("got %v, want %v", got, want)
	}
}

func TestResolveVehiclesOnlyMappingTable(t *testing.T) {
	q := &fakeQuerier{rows: map[string][]int64{
		"driver_vehicles": {7, 8},
	}}
	got, err := NewAssignmentResolver(q).ResolveVehicles(context.Background(), 42)
	if err != nil {
		t.Fatalf("ResolveVehicles: %v", err)
	}
	if want := []int64{7, 8}; !reflect.DeepEqual(got, want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for _, table := range []string{"drivers", "vehicles", "driver_vehicles", "vehicle_drivers"} {
		if !q.called[table] {
			t.Fatalf("strategy reading %s was skipped", table)
		}
	}
}

func TestResolveVehiclesMissingTablesAreEmpty(t *testing.T) {
	q := &fakeQuerier{
		rows: map[string][]int64{"vehicles": {4}},
		errs: map[string]error{
			"driver_vehicles": undefinedTable,
			"vehicle_drivers": &pq.Error{Code: "42P01"},
			"drivers":         &pq.Error{Code: "42703", Message: `column "vehicle_id" does not exist`},
		},
	}
	got, err := NewAssignmentResolver(q).ResolveVehicles(context.Background(), 42)
	if err != nil {
		t.Fatalf("ResolveVehicles: %v", err)
	}
	if want := []int64{4}; !reflect.DeepEqual(got, want) {
		t.Fatalf("got %v, want %v", got, want)
	}
}

func TestResolveVehiclesNoAssignment(t *testing.T) {
	got, err := NewAssignmentResolver(&fakeQuerier{}).ResolveVehicles(context.Background(), 42)
	if err != nil {
		t.Fatalf("ResolveVehicles: %v", err)
	}
	if len(got) != 0 || got == nil {
		t.Fatalf("expected empty non-nil slice, got %#v", got)
	}
}

func TestResolveVehiclesPropagatesOtherErrors(t *testing.T) {
	boom := errors.New("connection refused")
	q := &fakeQuerier{
		rows: map[string][]int64{"drivers": {1}},
		errs: map[string]error{"vehicles": boom},
	}
	_, err := NewAssignmentResolver(q).ResolveVehicles(context.Background(), 42)
	if !errors.Is(err, boom) {
		t.Fatalf("expected wrapped connection error, got %v", err)
	}
}
