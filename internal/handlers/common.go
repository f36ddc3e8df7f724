package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"fleet-backend/internal/apperrors"
	"fleet-backend/internal/auth"
	"fleet-backend/internal/database"
	"fleet-backend/internal/middleware"
	"fleet-backend/internal/models"
	"fleet-backend/pkg/utils"

	"github.com/go-chi/chi/v5"
)

// VehicleResolver finds every vehicle assigned to a driver.
type VehicleResolver interface {
	ResolveVehicles(ctx context.Context, driverID int64) ([]int64, error)
}

// Broadcaster pushes live events to connected dashboards.
type Broadcaster interface {
	BroadcastToRole(role auth.Role, data interface{})
	BroadcastToUser(role auth.Role, id int64, data interface{})
}

// RunNotifier sends push notifications about runs to driver devices.
type RunNotifier interface {
	NotifyRunAssigned(ctx context.Context, tokens []string, run *models.Run) error
}

// ActiveSetter soft-deletes and restores rows.
type ActiveSetter interface {
	SetActive(ctx context.Context, entity database.Entity, id int64, active bool) error
}

const maxJSONBody = 1 << 20

func decodeJSON(w http.ResponseWriter, r *http.Request, dst interface{}) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxJSONBody)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return apperrors.Invalid("Invalid request body")
	}
	return nil
}

func idParam(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, apperrors.Invalid("Invalid id")
	}
	return id, nil
}

// currentUser is only called behind middleware.Auth, which guarantees the
// identity is present.
func currentUser(r *http.Request) auth.Identity {
	id, _ := middleware.GetUserFromContext(r)
	return id
}

// Deactivate soft-deletes a row of entity.
func Deactivate(store ActiveSetter, entity database.Entity) http.HandlerFunc {
	return setActive(store, entity, false)
}

// Restore flips a soft-deleted row back to active.
func Restore(store ActiveSetter, entity database.Entity) http.HandlerFunc {
	return setActive(store, entity, true)
}

func setActive(store ActiveSetter, entity database.Entity, active bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := idParam(r)
		if err != nil {
			utils.RespondAppError(w, r, err)
			return
		}
		if err := store.SetActive(r.Context(), entity, id, active); err != nil {
			utils.RespondAppError(w, r, err)
			return
		}
		verb := "deactivated"
		if active {
			verb = "restored"
		}
		utils.RespondMessage(w, http.StatusOK, entity.Label()+" "+verb)
	}
}

func containsID(ids []int64, id int64) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}

func trimmed(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil
	}
	return &v
}
