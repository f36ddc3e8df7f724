package handlers

import (
	"context"
	"log"
	"net/http"
	"strings"

	"fleet-backend/internal/apperrors"
	"fleet-backend/internal/auth"
	"fleet-backend/internal/database"
	"fleet-backend/internal/models"
	"fleet-backend/internal/websocket"
	"fleet-backend/pkg/utils"
)

type RunStore interface {
	ActiveSetter
	ListRuns(ctx context.Context, f database.RunFilter) ([]models.Run, error)
	GetRun(ctx context.Context, id int64) (*models.Run, error)
	CreateRun(ctx context.Context, r *models.Run) (int64, error)
	UpdateRun(ctx context.Context, r *models.Run) error
	DeviceTokensForDriver(ctx context.Context, driverID int64) ([]string, error)
}

// RunHandler groups the run endpoints, which share the live feed and the
// push notifier. Notifier may be nil when push is not configured.
type RunHandler struct {
	Store    RunStore
	Hub      Broadcaster
	Notifier RunNotifier
}

// List returns runs, limited to the caller's own when the caller is a driver.
func (h *RunHandler) List(w http.ResponseWriter, r *http.Request) {
	filter := database.RunFilter{Status: r.URL.Query().Get("status")}
	if filter.Status != "" && !models.RunStatuses[filter.Status] {
		utils.RespondAppError(w, r, apperrors.Invalid("Invalid run status"))
		return
	}
	if user := currentUser(r); user.IsDriver() {
		filter.DriverID = &user.ID
	}

	runs, err := h.Store.ListRuns(r.Context(), filter)
	if err != nil {
		utils.RespondAppError(w, r, err)
		return
	}
	utils.RespondData(w, http.StatusOK, runs)
}

func (h *RunHandler) Get(w http.ResponseWriter, r *http.Request) {
	run, err := h.load(r)
	if err != nil {
		utils.RespondAppError(w, r, err)
		return
	}
	utils.RespondData(w, http.StatusOK, run)
}

// load fetches the run named in the URL and enforces driver ownership.
func (h *RunHandler) load(r *http.Request) (*models.Run, error) {
	id, err := idParam(r)
	if err != nil {
		return nil, err
	}
	run, err := h.Store.GetRun(r.Context(), id)
	if err != nil {
		return nil, err
	}
	if user := currentUser(r); user.IsDriver() && run.DriverID != user.ID {
		return nil, apperrors.Forbidden("This run is not assigned to you")
	}
	return run, nil
}

func validateRun(run *models.Run) error {
	run.RunNumber = strings.TrimSpace(run.RunNumber)
	if run.RunNumber == "" || run.DriverID <= 0 || run.VehicleID <= 0 || run.OrderID <= 0 || run.StartsOn.IsZero() {
		return apperrors.Invalid("Run number, driver, vehicle, order and start date are required")
	}
	if run.Status != "" && !models.RunStatuses[run.Status] {
		return apperrors.Invalid("Invalid run status")
	}
	if run.EndsOn != nil && run.EndsOn.Before(run.StartsOn.Time) {
		return apperrors.Invalid("End date cannot be before start date")
	}
	return nil
}

// Create inserts a run and tells its driver about it.
func (h *RunHandler) Create(w http.ResponseWriter, r *http.Request) {
	var in models.RunInput
	if err := decodeJSON(w, r, &in); err != nil {
		utils.RespondAppError(w, r, err)
		return
	}
	var run models.Run
	run.Apply(in)
	if err := validateRun(&run); err != nil {
		utils.RespondAppError(w, r, err)
		return
	}

	id, err := h.Store.CreateRun(r.Context(), &run)
	if err != nil {
		utils.RespondAppError(w, r, err)
		return
	}
	run.ID = id

	log.Printf("🚚 Run %s created for driver %d (vehicle %d)", run.RunNumber, run.DriverID, run.VehicleID)
	h.announceAssignment(r.Context(), &run)
	utils.RespondCreated(w, "Run created", id)
}

// Update lets an admin change any field. A driver may only move the status
// or note of their own run.
func (h *RunHandler) Update(w http.ResponseWriter, r *http.Request) {
	var in models.RunInput
	if err := decodeJSON(w, r, &in); err != nil {
		utils.RespondAppError(w, r, err)
		return
	}
	run, err := h.load(r)
	if err != nil {
		utils.RespondAppError(w, r, err)
		return
	}

	user := currentUser(r)
	if user.IsDriver() && !in.OnlyDriverFields() {
		utils.RespondAppError(w, r, apperrors.Forbidden("Drivers may only change the status and note of a run"))
		return
	}

	previousStatus := run.Status
	previousDriver := run.DriverID
	run.Apply(in)
	if err := validateRun(run); err != nil {
		utils.RespondAppError(w, r, err)
		return
	}

	if err := h.Store.UpdateRun(r.Context(), run); err != nil {
		utils.RespondAppError(w, r, err)
		return
	}

	if run.Status != previousStatus {
		log.Printf("🔄 Run %s: %s -> %s (by %s %d)", run.RunNumber, previousStatus, run.Status, user.Role, user.ID)
		h.Hub.BroadcastToRole(auth.RoleAdmin, websocket.Event{
			Type: "run_status_changed",
			Data: map[string]interface{}{
				"run_id":          run.ID,
				"run_number":      run.RunNumber,
				"previous_status": previousStatus,
				"status":          run.Status,
				"driver_id":       run.DriverID,
			},
		})
	}
	if run.DriverID != previousDriver {
		h.announceAssignment(r.Context(), run)
	}

	utils.RespondMessage(w, http.StatusOK, "Run updated")
}

// announceAssignment pushes the run to the driver's open dashboard and
// devices. Failures are logged only; the run is already stored.
func (h *RunHandler) announceAssignment(ctx context.Context, run *models.Run) {
	// reload for the joined driver, vehicle and order fields
	if stored, err := h.Store.GetRun(ctx, run.ID); err == nil {
		run = stored
	} else {
		log.Printf("⚠️  Could not reload run %d before announcing it: %v", run.ID, err)
	}

	h.Hub.BroadcastToUser(auth.RoleDriver, run.DriverID, websocket.Event{Type: "run_assigned", Data: run})

	if h.Notifier == nil {
		return
	}
	tokens, err := h.Store.DeviceTokensForDriver(ctx, run.DriverID)
	if err != nil {
		log.Printf("⚠️  Could not load device tokens for driver %d: %v", run.DriverID, err)
		return
	}
	if err := h.Notifier.NotifyRunAssigned(ctx, tokens, run); err != nil {
		log.Printf("⚠️  Push notification for run %s failed: %v", run.RunNumber, err)
	}
}
