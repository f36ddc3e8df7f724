package database

import (
	"context"
	"fmt"

	"fleet-backend/internal/models"
)

const orderSelect = `
	SELECT o.id, o.order_number, o.client_id, c.company_name AS client_name, o.ordered_on,
		o.delivery_due, o.cargo, o.quantity, o.unit, o.pickup_location, o.delivery_location,
		o.note, o.status, o.active, o.created_at
	FROM orders o
	LEFT JOIN clients c ON c.id = o.client_id
`

const orderConflict = "An order with this number already exists"

func (s *Store) ListOrders(ctx context.Context) ([]models.Order, error) {
	orders := []models.Order{}
	query := orderSelect + ` WHERE o.active = TRUE ORDER BY o.ordered_on DESC, o.id DESC`
	if err := s.db.SelectContext(ctx, &orders, query); err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	return orders, nil
}

func (s *Store) GetOrder(ctx context.Context, id int64) (*models.Order, error) {
	var o models.Order
	query := orderSelect + ` WHERE o.id = $1 AND o.active = TRUE`
	if err := s.db.GetContext(ctx, &o, query, id); err != nil {
		return nil, translate(err, "Order", "")
	}
	return &o, nil
}

func (s *Store) CreateOrder(ctx context.Context, in models.OrderInput) (int64, error) {
	orderedOn := models.Today()
	if in.OrderedOn != nil {
		orderedOn = *in.OrderedOn
	}
	status := in.Status
	if status == "" {
		status = models.OrderStatusNew
	}

	var id int64
	err := s.db.GetContext(ctx, &id, `
		INSERT INTO orders (order_number, client_id, ordered_on, delivery_due, cargo, quantity,
			unit, pickup_location, delivery_location, note, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING id
	`, in.OrderNumber, in.ClientID, orderedOn, in.DeliveryDue, in.Cargo, in.Quantity,
		in.Unit, in.PickupLocation, in.DeliveryLocation, in.Note, status)
	if err != nil {
		return 0, translate(err, "Order", orderConflict)
	}
	return id, nil
}

func (s *Store) UpdateOrder(ctx context.Context, id int64, in models.OrderInput) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE orders
		SET order_number = $1, client_id = $2, ordered_on = COALESCE($3, ordered_on),
			delivery_due = $4, cargo = $5, quantity = $6, unit = $7, pickup_location = $8,
			delivery_location = $9, note = $10, status = COALESCE(NULLIF($11, ''), status)
		WHERE id = $12 AND active = TRUE
	`, in.OrderNumber, in.ClientID, in.OrderedOn, in.DeliveryDue, in.Cargo, in.Quantity,
		in.Unit, in.PickupLocation, in.DeliveryLocation, in.Note, in.Status, id)
	if err != nil {
		return translate(err, "Order", orderConflict)
	}
	return expectOneRow(res, "Order")
}
