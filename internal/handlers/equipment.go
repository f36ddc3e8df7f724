package handlers

import (
	"context"
	"net/http"
	"strings"

	"fleet-backend/internal/apperrors"
	"fleet-backend/internal/models"
	"fleet-backend/pkg/utils"
)

type EquipmentStore interface {
	ActiveSetter
	ListEquipment(ctx context.Context) ([]models.Equipment, error)
	GetEquipment(ctx context.Context, id int64) (*models.Equipment, error)
	CreateEquipment(ctx context.Context, in models.EquipmentInput) (int64, error)
	UpdateEquipment(ctx context.Context, id int64, in models.EquipmentInput) error
}

func validateEquipment(in *models.EquipmentInput) error {
	in.Name = strings.TrimSpace(in.Name)
	if in.Name == "" {
		return apperrors.Invalid("Name is required")
	}
	in.Kind = trimmed(in.Kind)
	in.Capacity = trimmed(in.Capacity)
	in.Condition = trimmed(in.Condition)
	in.Note = trimmed(in.Note)
	return nil
}

func ListEquipment(store EquipmentStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		items, err := store.ListEquipment(r.Context())
		if err != nil {
			utils.RespondAppError(w, r, err)
			return
		}
		utils.RespondData(w, http.StatusOK, items)
	}
}

func GetEquipment(store EquipmentStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := idParam(r)
		if err != nil {
			utils.RespondAppError(w, r, err)
			return
		}
		item, err := store.GetEquipment(r.Context(), id)
		if err != nil {
			utils.RespondAppError(w, r, err)
			return
		}
		utils.RespondData(w, http.StatusOK, item)
	}
}

func CreateEquipment(store EquipmentStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var in models.EquipmentInput
		if err := decodeJSON(w, r, &in); err != nil {
			utils.RespondAppError(w, r, err)
			return
		}
		if err := validateEquipment(&in); err != nil {
			utils.RespondAppError(w, r, err)
			return
		}
		id, err := store.CreateEquipment(r.Context(), in)
		if err != nil {
			utils.RespondAppError(w, r, err)
			return
		}
		utils.RespondCreated(w, "Equipment created", id)
	}
}

func UpdateEquipment(store EquipmentStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := idParam(r)
		if err != nil {
			utils.RespondAppError(w, r, err)
			return
		}
		var in models.EquipmentInput
		if err := decodeJSON(w, r, &in); err != nil {
			utils.RespondAppError(w, r, err)
			return
		}
		if err := validateEquipment(&in); err != nil {
			utils.RespondAppError(w, r, err)
			return
		}
		if err := store.UpdateEquipment(r.Context(), id, in); err != nil {
			utils.RespondAppError(w, r, err)
			return
		}
		utils.RespondMessage(w, http.StatusOK, "Equipment updated")
	}
}
