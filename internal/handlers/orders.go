package handlers

import (
	"context"
	"net/http"
	"strings"

	"fleet-backend/internal/apperrors"
	"fleet-backend/internal/models"
	"fleet-backend/pkg/utils"
)

type OrderStore interface {
	ActiveSetter
	ListOrders(ctx context.Context) ([]models.Order, error)
	GetOrder(ctx context.Context, id int64) (*models.Order, error)
	CreateOrder(ctx context.Context, in models.OrderInput) (int64, error)
	UpdateOrder(ctx context.Context, id int64, in models.OrderInput) error
}

func validateOrder(in *models.OrderInput) error {
	in.OrderNumber = strings.TrimSpace(in.OrderNumber)
	if in.OrderNumber == "" || in.ClientID <= 0 {
		return apperrors.Invalid("Order number and client are required")
	}
	if in.Status != "" && !models.OrderStatuses[in.Status] {
		return apperrors.Invalid("Invalid order status")
	}
	if in.Quantity != nil && *in.Quantity < 0 {
		return apperrors.Invalid("Quantity cannot be negative")
	}
	return nil
}

func ListOrders(store OrderStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		orders, err := store.ListOrders(r.Context())
		if err != nil {
			utils.RespondAppError(w, r, err)
			return
		}
		utils.RespondData(w, http.StatusOK, orders)
	}
}

func GetOrder(store OrderStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := idParam(r)
		if err != nil {
			utils.RespondAppError(w, r, err)
			return
		}
		order, err := store.GetOrder(r.Context(), id)
		if err != nil {
			utils.RespondAppError(w, r, err)
			return
		}
		utils.RespondData(w, http.StatusOK, order)
	}
}

func CreateOrder(store OrderStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var in models.OrderInput
		if err := decodeJSON(w, r, &in); err != nil {
			utils.RespondAppError(w, r, err)
			return
		}
		if err := validateOrder(&in); err != nil {
			utils.RespondAppError(w, r, err)
			return
		}
		id, err := store.CreateOrder(r.Context(), in)
		if err != nil {
			utils.RespondAppError(w, r, err)
			return
		}
		utils.RespondCreated(w, "Order created", id)
	}
}

func UpdateOrder(store OrderStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := idParam(r)
		if err != nil {
			utils.RespondAppError(w, r, err)
			return
		}
		var in models.OrderInput
		if err := decodeJSON(w, r, &in); err != nil {
			utils.RespondAppError(w, r, err)
			return
		}
		if err := validateOrder(&in); err != nil {
			utils.RespondAppError(w, r, err)
			return
		}
		if err := store.UpdateOrder(r.Context(), id, in); err != nil {
			utils.RespondAppError(w, r, err)
			return
		}
		utils.RespondMessage(w, http.StatusOK, "Order updated")
	}
}
