package handlers

import (
	"context"
	"net/http"
	"strings"

	"fleet-backend/internal/apperrors"
	"fleet-backend/internal/models"
	"fleet-backend/pkg/utils"
)

type FuelLogStore interface {
	ActiveSetter
	ListFuelLogs(ctx context.Context, vehicleIDs []int64) ([]models.FuelLog, error)
	GetFuelLog(ctx context.Context, id int64) (*models.FuelLog, error)
	CreateFuelLog(ctx context.Context, in models.FuelLogInput) (int64, error)
	UpdateFuelLog(ctx context.Context, id int64, in models.FuelLogInput) error
}

type ServiceLogStore interface {
	ActiveSetter
	ListServiceLogs(ctx context.Context, vehicleIDs []int64) ([]models.ServiceLog, error)
	GetServiceLog(ctx context.Context, id int64) (*models.ServiceLog, error)
	CreateServiceLog(ctx context.Context, in models.ServiceLogInput) (int64, error)
	UpdateServiceLog(ctx context.Context, id int64, in models.ServiceLogInput) error
}

// visibleVehicles is nil for admins (no filter) and the resolved set for
// drivers, never nil for a driver so an empty set filters everything out.
func visibleVehicles(r *http.Request, resolver VehicleResolver) ([]int64, error) {
	user := currentUser(r)
	if user.IsAdmin() {
		return nil, nil
	}
	ids, err := resolver.ResolveVehicles(r.Context(), user.ID)
	if err != nil {
		return nil, err
	}
	if ids == nil {
		ids = []int64{}
	}
	return ids, nil
}

func ListFuelLogs(store FuelLogStore, resolver VehicleResolver) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ids, err := visibleVehicles(r, resolver)
		if err != nil {
			utils.RespondAppError(w, r, err)
			return
		}
		logs, err := store.ListFuelLogs(r.Context(), ids)
		if err != nil {
			utils.RespondAppError(w, r, err)
			return
		}
		utils.RespondData(w, http.StatusOK, logs)
	}
}

func GetFuelLog(store FuelLogStore, resolver VehicleResolver) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := idParam(r)
		if err != nil {
			utils.RespondAppError(w, r, err)
			return
		}
		entry, err := store.GetFuelLog(r.Context(), id)
		if err != nil {
			utils.RespondAppError(w, r, err)
			return
		}
		if err := checkVehicleAccess(r, resolver, entry.VehicleID); err != nil {
			utils.RespondAppError(w, r, err)
			return
		}
		utils.RespondData(w, http.StatusOK, entry)
	}
}

func checkVehicleAccess(r *http.Request, resolver VehicleResolver, vehicleID int64) error {
	ids, err := visibleVehicles(r, resolver)
	if err != nil {
		return err
	}
	if ids != nil && !containsID(ids, vehicleID) {
		return apperrors.Forbidden("This vehicle is not assigned to you")
	}
	return nil
}

func validateFuelLog(in *models.FuelLogInput) error {
	if in.VehicleID <= 0 {
		return apperrors.Invalid("Vehicle is required")
	}
	if in.Liters <= 0 {
		return apperrors.Invalid("Liters must be greater than zero")
	}
	if in.TotalCost < 0 {
		return apperrors.Invalid("Total cost cannot be negative")
	}
	if in.OdometerKm != nil && *in.OdometerKm < 0 {
		return apperrors.Invalid("Odometer cannot be negative")
	}
	in.Station = trimmed(in.Station)
	in.Note = trimmed(in.Note)
	return nil
}

func CreateFuelLog(store FuelLogStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var in models.FuelLogInput
		if err := decodeJSON(w, r, &in); err != nil {
			utils.RespondAppError(w, r, err)
			return
		}
		if err := validateFuelLog(&in); err != nil {
			utils.RespondAppError(w, r, err)
			return
		}
		id, err := store.CreateFuelLog(r.Context(), in)
		if err != nil {
			utils.RespondAppError(w, r, err)
			return
		}
		utils.RespondCreated(w, "Fuel log created", id)
	}
}

func UpdateFuelLog(store FuelLogStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := idParam(r)
		if err != nil {
			utils.RespondAppError(w, r, err)
			return
		}
		var in models.FuelLogInput
		if err := decodeJSON(w, r, &in); err != nil {
			utils.RespondAppError(w, r, err)
			return
		}
		if err := validateFuelLog(&in); err != nil {
			utils.RespondAppError(w, r, err)
			return
		}
		if err := store.UpdateFuelLog(r.Context(), id, in); err != nil {
			utils.RespondAppError(w, r, err)
			return
		}
		utils.RespondMessage(w, http.StatusOK, "Fuel log updated")
	}
}

func ListServiceLogs(store ServiceLogStore, resolver VehicleResolver) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ids, err := visibleVehicles(r, resolver)
		if err != nil {
			utils.RespondAppError(w, r, err)
			return
		}
		logs, err := store.ListServiceLogs(r.Context(), ids)
		if err != nil {
			utils.RespondAppError(w, r, err)
			return
		}
		utils.RespondData(w, http.StatusOK, logs)
	}
}

func GetServiceLog(store ServiceLogStore, resolver VehicleResolver) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := idParam(r)
		if err != nil {
			utils.RespondAppError(w, r, err)
			return
		}
		entry, err := store.GetServiceLog(r.Context(), id)
		if err != nil {
			utils.RespondAppError(w, r, err)
			return
		}
		if err := checkVehicleAccess(r, resolver, entry.VehicleID); err != nil {
			utils.RespondAppError(w, r, err)
			return
		}
		utils.RespondData(w, http.StatusOK, entry)
	}
}

func validateServiceLog(in *models.ServiceLogInput) error {
	in.ServiceType = strings.TrimSpace(in.ServiceType)
	if in.VehicleID <= 0 || in.ServiceType == "" {
		return apperrors.Invalid("Vehicle and service type are required")
	}
	if in.Cost < 0 {
		return apperrors.Invalid("Cost cannot be negative")
	}
	if in.OdometerKm != nil && *in.OdometerKm < 0 {
		return apperrors.Invalid("Odometer cannot be negative")
	}
	in.Description = trimmed(in.Description)
	in.Workshop = trimmed(in.Workshop)
	return nil
}

// CreateServiceLog records the admin who entered the log.
func CreateServiceLog(store ServiceLogStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var in models.ServiceLogInput
		if err := decodeJSON(w, r, &in); err != nil {
			utils.RespondAppError(w, r, err)
			return
		}
		if err := validateServiceLog(&in); err != nil {
			utils.RespondAppError(w, r, err)
			return
		}
		adminID := currentUser(r).ID
		in.AdminID = &adminID

		id, err := store.CreateServiceLog(r.Context(), in)
		if err != nil {
			utils.RespondAppError(w, r, err)
			return
		}
		utils.RespondCreated(w, "Service log created", id)
	}
}

func UpdateServiceLog(store ServiceLogStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := idParam(r)
		if err != nil {
			utils.RespondAppError(w, r, err)
			return
		}
		var in models.ServiceLogInput
		if err := decodeJSON(w, r, &in); err != nil {
			utils.RespondAppError(w, r, err)
			return
		}
		if err := validateServiceLog(&in); err != nil {
			utils.RespondAppError(w, r, err)
			return
		}
		if err := store.UpdateServiceLog(r.Context(), id, in); err != nil {
			utils.RespondAppError(w, r, err)
			return
		}
		utils.RespondMessage(w, http.StatusOK, "Service log updated")
	}
}
