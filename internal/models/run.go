package models

import (
	"strings"
	"time"
)

const (
	RunStatusPlanned    = "planned"
	RunStatusInProgress = "in_progress"
	RunStatusCompleted  = "completed"
	RunStatusCancelled  = "cancelled"
)

var RunStatuses = map[string]bool{
	RunStatusPlanned:    true,
	RunStatusInProgress: true,
	RunStatusCompleted:  true,
	RunStatusCancelled:  true,
}

// Run is one trip of a driver and vehicle carrying an order.
type Run struct {
	ID           int64     `json:"id" db:"id"`
	RunNumber    string    `json:"run_number" db:"run_number"`
	DriverID     int64     `json:"driver_id" db:"driver_id"`
	DriverName   *string   `json:"driver_name,omitempty" db:"driver_name"`
	VehicleID    int64     `json:"vehicle_id" db:"vehicle_id"`
	VehiclePlate *string   `json:"vehicle_plate,omitempty" db:"vehicle_plate"`
	OrderID      int64     `json:"order_id" db:"order_id"`
	OrderNumber  *string   `json:"order_number,omitempty" db:"order_number"`
	StartsOn     Date      `json:"starts_on" db:"starts_on"`
	EndsOn       *Date     `json:"ends_on,omitempty" db:"ends_on"`
	Status       string    `json:"status" db:"status"`
	Note         *string   `json:"note,omitempty" db:"note"`
	Active       bool      `json:"active" db:"active"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
}

// RunInput fields are pointers so an update can tell "absent" from "empty".
// ends_on and note may also be sent as null to clear them.
type RunInput struct {
	RunNumber *string          `json:"run_number"`
	DriverID  *int64           `json:"driver_id"`
	VehicleID *int64           `json:"vehicle_id"`
	OrderID   *int64           `json:"order_id"`
	StartsOn  *Date            `json:"starts_on"`
	EndsOn    Nullable[Date]   `json:"ends_on"`
	Status    *string          `json:"status"`
	Note      Nullable[string] `json:"note"`
}

// Apply copies every present field of in onto r.
func (r *Run) Apply(in RunInput) {
	if in.RunNumber != nil {
		r.RunNumber = *in.RunNumber
	}
	if in.DriverID != nil {
		r.DriverID = *in.DriverID
	}
	if in.VehicleID != nil {
		r.VehicleID = *in.VehicleID
	}
	if in.OrderID != nil {
		r.OrderID = *in.OrderID
	}
	if in.StartsOn != nil {
		r.StartsOn = *in.StartsOn
	}
	if in.EndsOn.Set {
		r.EndsOn = in.EndsOn.Value
	}
	if in.Status != nil {
		r.Status = *in.Status
	}
	if in.Note.Set {
		r.Note = nil
		if in.Note.Value != nil {
			if note := strings.TrimSpace(*in.Note.Value); note != "" {
				r.Note = &note
			}
		}
	}
}

// OnlyDriverFields reports whether in touches nothing but status and note.
func (in RunInput) OnlyDriverFields() bool {
	return in.RunNumber == nil && in.DriverID == nil && in.VehicleID == nil &&
		in.OrderID == nil && in.StartsOn == nil && !in.EndsOn.Set
}
