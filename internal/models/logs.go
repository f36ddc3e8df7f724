package models

import "time"

type FuelLog struct {
	ID           int64     `json:"id" db:"id"`
	VehicleID    int64     `json:"vehicle_id" db:"vehicle_id"`
	VehiclePlate *string   `json:"vehicle_plate,omitempty" db:"vehicle_plate"`
	DriverID     *int64    `json:"driver_id,omitempty" db:"driver_id"`
	FueledOn     Date      `json:"fueled_on" db:"fueled_on"`
	Liters       float64   `json:"liters" db:"liters"`
	TotalCost    float64   `json:"total_cost" db:"total_cost"`
	OdometerKm   *int64    `json:"odometer_km,omitempty" db:"odometer_km"`
	Station      *string   `json:"station,omitempty" db:"station"`
	Note         *string   `json:"note,omitempty" db:"note"`
	Active       bool      `json:"active" db:"active"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
}

type FuelLogInput struct {
	VehicleID  int64   `json:"vehicle_id"`
	DriverID   *int64  `json:"driver_id"`
	FueledOn   *Date   `json:"fueled_on"`
	Liters     float64 `json:"liters"`
	TotalCost  float64 `json:"total_cost"`
	OdometerKm *int64  `json:"odometer_km"`
	Station    *string `json:"station"`
	Note       *string `json:"note"`
}

type ServiceLog struct {
	ID           int64     `json:"id" db:"id"`
	VehicleID    int64     `json:"vehicle_id" db:"vehicle_id"`
	VehiclePlate *string   `json:"vehicle_plate,omitempty" db:"vehicle_plate"`
	AdminID      *int64    `json:"admin_id,omitempty" db:"admin_id"`
	ServicedOn   Date      `json:"serviced_on" db:"serviced_on"`
	ServiceType  string    `json:"service_type" db:"service_type"`
	Description  *string   `json:"description,omitempty" db:"description"`
	Cost         float64   `json:"cost" db:"cost"`
	OdometerKm   *int64    `json:"odometer_km,omitempty" db:"odometer_km"`
	Workshop     *string   `json:"workshop,omitempty" db:"workshop"`
	Active       bool      `json:"active" db:"active"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
}

type ServiceLogInput struct {
	VehicleID   int64   `json:"vehicle_id"`
	ServicedOn  *Date   `json:"serviced_on"`
	ServiceType string  `json:"service_type"`
	Description *string `json:"description"`
	Cost        float64 `json:"cost"`
	OdometerKm  *int64  `json:"odometer_km"`
	Workshop    *string `json:"workshop"`

	// Recorded from the session, never from the body.
	AdminID *int64 `json:"-"`
}

type Equipment struct {
	ID            int64     `json:"id" db:"id"`
	Name          string    `json:"name" db:"name"`
	Kind          *string   `json:"kind,omitempty" db:"kind"`
	VehicleID     *int64    `json:"vehicle_id,omitempty" db:"vehicle_id"`
	VehiclePlate  *string   `json:"vehicle_plate,omitempty" db:"vehicle_plate"`
	Capacity      *string   `json:"capacity,omitempty" db:"capacity"`
	Condition     *string   `json:"condition,omitempty" db:"condition"`
	AcquiredOn    *Date     `json:"acquired_on,omitempty" db:"acquired_on"`
	LastCheckedOn *Date     `json:"last_checked_on,omitempty" db:"last_checked_on"`
	Note          *string   `json:"note,omitempty" db:"note"`
	Active        bool      `json:"active" db:"active"`
	CreatedAt     time.Time `json:"created_at" db:"created_at"`
}

type EquipmentInput struct {
	Name          string  `json:"name"`
	Kind          *string `json:"kind"`
	VehicleID     *int64  `json:"vehicle_id"`
	Capacity      *string `json:"capacity"`
	Condition     *string `json:"condition"`
	AcquiredOn    *Date   `json:"acquired_on"`
	LastCheckedOn *Date   `json:"last_checked_on"`
	Note          *string `json:"note"`
}

type DeviceToken struct {
	DriverID  int64     `json:"driver_id" db:"driver_id"`
	Token     string    `json:"token" db:"token"`
	Platform  string    `json:"platform" db:"platform"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}
