package models

import "time"

type Vehicle struct {
	ID               int64     `json:"id" db:"id"`
	Plate            string    `json:"plate" db:"plate"`
	Make             string    `json:"make" db:"make"`
	Model            string    `json:"model" db:"model"`
	Year             *int      `json:"year,omitempty" db:"year"`
	CapacityTonnes   *float64  `json:"capacity_tonnes,omitempty" db:"capacity_tonnes"`
	VehicleType      *string   `json:"vehicle_type,omitempty" db:"vehicle_type"`
	OdometerKm       *int64    `json:"odometer_km,omitempty" db:"odometer_km"`
	RegisteredOn     *Date     `json:"registered_on,omitempty" db:"registered_on"`
	InspectionDue    *Date     `json:"inspection_due,omitempty" db:"inspection_due"`
	AssignedDriverID *int64    `json:"driver_id,omitempty" db:"assigned_driver_id"`
	DriverName       *string   `json:"driver_name,omitempty" db:"driver_name"`
	Active           bool      `json:"active" db:"active"`
	CreatedAt        time.Time `json:"created_at" db:"created_at"`
}

type VehicleInput struct {
	Plate          string   `json:"plate"`
	Make           string   `json:"make"`
	Model          string   `json:"model"`
	Year           *int     `json:"year"`
	CapacityTonnes *float64 `json:"capacity_tonnes"`
	VehicleType    *string  `json:"vehicle_type"`
	OdometerKm     *int64   `json:"odometer_km"`
	RegisteredOn   *Date    `json:"registered_on"`
	InspectionDue  *Date    `json:"inspection_due"`
	DriverID       *int64   `json:"driver_id"` // 0 or absent means unassigned
}
