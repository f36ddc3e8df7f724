package handlers

import (
	"context"
	"log"
	"net/http"
	"net/mail"
	"strings"

	"fleet-backend/internal/apperrors"
	"fleet-backend/internal/auth"
	"fleet-backend/internal/database"
	"fleet-backend/internal/models"
	"fleet-backend/pkg/utils"
)

type StaffStore interface {
	ActiveSetter
	ListStaff(ctx context.Context, role auth.Role) ([]models.Staff, error)
	GetStaff(ctx context.Context, role auth.Role, id int64) (*models.Staff, error)
	CreateStaff(ctx context.Context, role auth.Role, in models.StaffInput) (int64, error)
	UpdateStaff(ctx context.Context, role auth.Role, id int64, in models.StaffInput) error
}

func staffRole(s string) (auth.Role, error) {
	role, ok := auth.ParseRole(s)
	if !ok {
		return "", apperrors.Invalid("Staff type must be 'admin' or 'driver'")
	}
	return role, nil
}

func staffEntity(role auth.Role) database.Entity {
	if role == auth.RoleAdmin {
		return database.EntityAdmin
	}
	return database.EntityDriver
}

// ListStaff returns one table when ?type= is given, otherwise both.
func ListStaff(store StaffStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if t := r.URL.Query().Get("type"); t != "" {
			role, err := staffRole(t)
			if err != nil {
				utils.RespondAppError(w, r, err)
				return
			}
			staff, err := store.ListStaff(r.Context(), role)
			if err != nil {
				utils.RespondAppError(w, r, err)
				return
			}
			utils.RespondData(w, http.StatusOK, staff)
			return
		}

		admins, err := store.ListStaff(r.Context(), auth.RoleAdmin)
		if err != nil {
			utils.RespondAppError(w, r, err)
			return
		}
		drivers, err := store.ListStaff(r.Context(), auth.RoleDriver)
		if err != nil {
			utils.RespondAppError(w, r, err)
			return
		}
		utils.RespondData(w, http.StatusOK, map[string]interface{}{
			"admins":  admins,
			"drivers": drivers,
		})
	}
}

func GetStaff(store StaffStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		role, err := staffRole(r.URL.Query().Get("type"))
		if err != nil {
			utils.RespondAppError(w, r, err)
			return
		}
		id, err := idParam(r)
		if err != nil {
			utils.RespondAppError(w, r, err)
			return
		}
		member, err := store.GetStaff(r.Context(), role, id)
		if err != nil {
			utils.RespondAppError(w, r, err)
			return
		}
		utils.RespondData(w, http.StatusOK, member)
	}
}

func validateStaff(in *models.StaffInput, passwordRequired bool) error {
	in.FirstName = strings.TrimSpace(in.FirstName)
	in.LastName = strings.TrimSpace(in.LastName)
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	if in.FirstName == "" || in.LastName == "" || in.Email == "" {
		return apperrors.Invalid("First name, last name and email are required")
	}
	if _, err := mail.ParseAddress(in.Email); err != nil {
		return apperrors.Invalid("Invalid email address")
	}
	if in.Salary != nil && *in.Salary < 0 {
		return apperrors.Invalid("Salary cannot be negative")
	}
	if in.Password == "" {
		if passwordRequired {
			return apperrors.Invalid("Password is required")
		}
		return nil
	}
	hash, err := auth.HashPassword(in.Password)
	if err != nil {
		return err
	}
	in.PasswordHash = hash
	return nil
}

// CreateStaff creates an admin or a driver
// Requires admin authentication
func CreateStaff(store StaffStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var in models.StaffInput
		if err := decodeJSON(w, r, &in); err != nil {
			utils.RespondAppError(w, r, err)
			return
		}
		role, err := staffRole(in.Type)
		if err != nil {
			utils.RespondAppError(w, r, err)
			return
		}
		if err := validateStaff(&in, true); err != nil {
			utils.RespondAppError(w, r, err)
			return
		}

		id, err := store.CreateStaff(r.Context(), role, in)
		if err != nil {
			utils.RespondAppError(w, r, err)
			return
		}

		log.Printf("✅ %s created: %s (id %d)", role, in.Email, id)
		utils.RespondCreated(w, "Staff member created", id)
	}
}

// UpdateStaff rotates the password only when one is supplied.
func UpdateStaff(store StaffStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := idParam(r)
		if err != nil {
			utils.RespondAppError(w, r, err)
			return
		}
		var in models.StaffInput
		if err := decodeJSON(w, r, &in); err != nil {
			utils.RespondAppError(w, r, err)
			return
		}
		if in.Type == "" {
			in.Type = r.URL.Query().Get("type")
		}
		role, err := staffRole(in.Type)
		if err != nil {
			utils.RespondAppError(w, r, err)
			return
		}
		if err := validateStaff(&in, false); err != nil {
			utils.RespondAppError(w, r, err)
			return
		}

		if err := store.UpdateStaff(r.Context(), role, id, in); err != nil {
			utils.RespondAppError(w, r, err)
			return
		}
		if in.PasswordHash != "" {
			log.Printf("🔑 Password rotated for %s %d", role, id)
		}
		utils.RespondMessage(w, http.StatusOK, "Staff member updated")
	}
}

// DeactivateStaff and RestoreStaff pick the table from ?type=.
func DeactivateStaff(store StaffStore) http.HandlerFunc {
	return staffActive(store, false)
}

func RestoreStaff(store StaffStore) http.HandlerFunc {
	return staffActive(store, true)
}

func staffActive(store StaffStore, active bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		role, err := staffRole(r.URL.Query().Get("type"))
		if err != nil {
			utils.RespondAppError(w, r, err)
			return
		}
		if !active {
			if me := currentUser(r); me.Role == role && chiID(r) == me.ID {
				utils.RespondError(w, http.StatusBadRequest, "You cannot deactivate your own account")
				return
			}
		}
		setActive(store, staffEntity(role), active)(w, r)
	}
}

func chiID(r *http.Request) int64 {
	id, _ := idParam(r)
	return id
}
