package models

import "time"

const OrderStatusNew = "new"

var OrderStatuses = map[string]bool{
	OrderStatusNew: true,
	"confirmed":    true,
	"in_transit":   true,
	"delivered":    true,
	"cancelled":    true,
}

type Order struct {
	ID               int64     `json:"id" db:"id"`
	OrderNumber      string    `json:"order_number" db:"order_number"`
	ClientID         int64     `json:"client_id" db:"client_id"`
	ClientName       *string   `json:"client_name,omitempty" db:"client_name"`
	OrderedOn        Date      `json:"ordered_on" db:"ordered_on"`
	DeliveryDue      *Date     `json:"delivery_due,omitempty" db:"delivery_due"`
	Cargo            *string   `json:"cargo,omitempty" db:"cargo"`
	Quantity         *float64  `json:"quantity,omitempty" db:"quantity"`
	Unit             *string   `json:"unit,omitempty" db:"unit"`
	PickupLocation   *string   `json:"pickup_location,omitempty" db:"pickup_location"`
	DeliveryLocation *string   `json:"delivery_location,omitempty" db:"delivery_location"`
	Note             *string   `json:"note,omitempty" db:"note"`
	Status           string    `json:"status" db:"status"`
	Active           bool      `json:"active" db:"active"`
	CreatedAt        time.Time `json:"created_at" db:"created_at"`
}

type OrderInput struct {
	OrderNumber      string   `json:"order_number"`
	ClientID         int64    `json:"client_id"`
	OrderedOn        *Date    `json:"ordered_on"`
	DeliveryDue      *Date    `json:"delivery_due"`
	Cargo            *string  `json:"cargo"`
	Quantity         *float64 `json:"quantity"`
	Unit             *string  `json:"unit"`
	PickupLocation   *string  `json:"pickup_location"`
	DeliveryLocation *string  `json:"delivery_location"`
	Note             *string  `json:"note"`
	Status           string   `json:"status"`
}
