package handlers

import (
	"context"
	"net/http"
	"strings"

	"fleet-backend/internal/apperrors"
	"fleet-backend/internal/models"
	"fleet-backend/pkg/utils"
)

type VehicleStore interface {
	ActiveSetter
	ListVehicles(ctx context.Context) ([]models.Vehicle, error)
	ListVehiclesByIDs(ctx context.Context, ids []int64) ([]models.Vehicle, error)
	GetVehicle(ctx context.Context, id int64) (*models.Vehicle, error)
	CreateVehicle(ctx context.Context, in models.VehicleInput) (int64, error)
	UpdateVehicle(ctx context.Context, id int64, in models.VehicleInput) error
}

// ListVehicles returns the whole fleet to admins and the resolved vehicles
// to drivers.
func ListVehicles(store VehicleStore, resolver VehicleResolver) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user := currentUser(r)
		if user.IsAdmin() {
			vehicles, err := store.ListVehicles(r.Context())
			if err != nil {
				utils.RespondAppError(w, r, err)
				return
			}
			utils.RespondData(w, http.StatusOK, vehicles)
			return
		}

		ids, err := resolver.ResolveVehicles(r.Context(), user.ID)
		if err != nil {
			utils.RespondAppError(w, r, err)
			return
		}
		if len(ids) == 0 {
			utils.RespondJSON(w, http.StatusOK, map[string]interface{}{
				"success": true,
				"data":    []models.Vehicle{},
				"message": "No vehicles assigned",
			})
			return
		}
		vehicles, err := store.ListVehiclesByIDs(r.Context(), ids)
		if err != nil {
			utils.RespondAppError(w, r, err)
			return
		}
		utils.RespondData(w, http.StatusOK, vehicles)
	}
}

func GetVehicle(store VehicleStore, resolver VehicleResolver) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := idParam(r)
		if err != nil {
			utils.RespondAppError(w, r, err)
			return
		}

		user := currentUser(r)
		if user.IsDriver() {
			ids, err := resolver.ResolveVehicles(r.Context(), user.ID)
			if err != nil {
				utils.RespondAppError(w, r, err)
				return
			}
			if !containsID(ids, id) {
				utils.RespondAppError(w, r, apperrors.Forbidden("This vehicle is not assigned to you"))
				return
			}
		}

		vehicle, err := store.GetVehicle(r.Context(), id)
		if err != nil {
			utils.RespondAppError(w, r, err)
			return
		}
		utils.RespondData(w, http.StatusOK, vehicle)
	}
}

// MyVehicle returns the driver's lowest-id resolved vehicle that is still
// active.
func MyVehicle(store VehicleStore, resolver VehicleResolver) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ids, err := resolver.ResolveVehicles(r.Context(), currentUser(r).ID)
		if err != nil {
			utils.RespondAppError(w, r, err)
			return
		}
		if len(ids) == 0 {
			utils.RespondAppError(w, r, apperrors.NotFound("No vehicle assigned"))
			return
		}

		vehicles, err := store.ListVehiclesByIDs(r.Context(), ids)
		if err != nil {
			utils.RespondAppError(w, r, err)
			return
		}
		if len(vehicles) == 0 {
			utils.RespondAppError(w, r, apperrors.NotFound("No vehicle assigned"))
			return
		}
		utils.RespondData(w, http.StatusOK, vehicles[0])
	}
}

func validateVehicle(in *models.VehicleInput) error {
	in.Plate = strings.ToUpper(strings.TrimSpace(in.Plate))
	in.Make = strings.TrimSpace(in.Make)
	in.Model = strings.TrimSpace(in.Model)
	if in.Plate == "" || in.Make == "" || in.Model == "" {
		return apperrors.Invalid("Plate, make and model are required")
	}
	if in.Year != nil && (*in.Year < 1900 || *in.Year > 2100) {
		return apperrors.Invalid("Invalid year")
	}
	if in.CapacityTonnes != nil && *in.CapacityTonnes < 0 {
		return apperrors.Invalid("Capacity cannot be negative")
	}
	if in.OdometerKm != nil && *in.OdometerKm < 0 {
		return apperrors.Invalid("Odometer cannot be negative")
	}
	in.VehicleType = trimmed(in.VehicleType)
	return nil
}

func CreateVehicle(store VehicleStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var in models.VehicleInput
		if err := decodeJSON(w, r, &in); err != nil {
			utils.RespondAppError(w, r, err)
			return
		}
		if err := validateVehicle(&in); err != nil {
			utils.RespondAppError(w, r, err)
			return
		}

		id, err := store.CreateVehicle(r.Context(), in)
		if err != nil {
			utils.RespondAppError(w, r, err)
			return
		}
		utils.RespondCreated(w, "Vehicle created", id)
	}
}

func UpdateVehicle(store VehicleStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := idParam(r)
		if err != nil {
			utils.RespondAppError(w, r, err)
			return
		}
		var in models.VehicleInput
		if err := decodeJSON(w, r, &in); err != nil {
			utils.RespondAppError(w, r, err)
			return
		}
		if err := validateVehicle(&in); err != nil {
			utils.RespondAppError(w, r, err)
			return
		}

		if err := store.UpdateVehicle(r.Context(), id, in); err != nil {
			utils.RespondAppError(w, r, err)
			return
		}
		utils.RespondMessage(w, http.StatusOK, "Vehicle updated")
	}
}
