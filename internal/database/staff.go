package database

import (
	"context"
	"fmt"
	"strings"

	"fleet-backend/internal/auth"
	"fleet-backend/internal/models"
)

const (
	adminColumns  = `id, first_name, last_name, email, password_hash, phone, active, created_at`
	driverColumns = `id, first_name, last_name, email, password_hash, phone, license_number,
		license_category, hired_on, salary, completed_runs, balance, vehicle_id, active, created_at`
)

func staffTable(role auth.Role) (table, columns string, err error) {
	switch role {
	case auth.RoleAdmin:
		return "admins", adminColumns, nil
	case auth.RoleDriver:
		return "drivers", driverColumns, nil
	}
	return "", "", fmt.Errorf("unknown staff role %q", role)
}

// FindActiveCredential looks only at the table owned by role.
func (s *Store) FindActiveCredential(ctx context.Context, role auth.Role, email string) (*auth.Credential, error) {
	table, _, err := staffTable(role)
	if err != nil {
		return nil, err
	}
	query := fmt.Sprintf(`
		SELECT id, first_name, last_name, email, password_hash
		FROM %s
		WHERE LOWER(email) = LOWER($1) AND active = TRUE
	`, table)

	var cred auth.Credential
	if err := s.db.GetContext(ctx, &cred, query, strings.TrimSpace(email)); err != nil {
		return nil, translate(err, "Credential", "")
	}
	return &cred, nil
}

// ListStaff returns active and inactive rows so deactivated staff can be
// restored.
func (s *Store) ListStaff(ctx context.Context, role auth.Role) ([]models.Staff, error) {
	table, columns, err := staffTable(role)
	if err != nil {
		return nil, err
	}
	query := fmt.Sprintf(`SELECT %s FROM %s ORDER BY active DESC, last_name, first_name`, columns, table)

	staff := []models.Staff{}
	if err := s.db.SelectContext(ctx, &staff, query); err != nil {
		return nil, fmt.Errorf("list %s: %w", table, err)
	}
	for i := range staff {
		staff[i].Type = string(role)
	}
	return staff, nil
}

func (s *Store) GetStaff(ctx context.Context, role auth.Role, id int64) (*models.Staff, error) {
	table, columns, err := staffTable(role)
	if err != nil {
		return nil, err
	}
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE id = $1 AND active = TRUE`, columns, table)

	var member models.Staff
	if err := s.db.GetContext(ctx, &member, query, id); err != nil {
		return nil, translate(err, "Staff member", "")
	}
	member.Type = string(role)
	return &member, nil
}

// CreateStaff expects in.PasswordHash to be set.
func (s *Store) CreateStaff(ctx context.Context, role auth.Role, in models.StaffInput) (int64, error) {
	in.Email = normalizeEmail(in.Email)
	var id int64
	var err error
	switch role {
	case auth.RoleAdmin:
		err = s.db.GetContext(ctx, &id, `
			INSERT INTO admins (first_name, last_name, email, password_hash, phone)
			VALUES ($1, $2, $3, $4, $5)
			RETURNING id
		`, in.FirstName, in.LastName, in.Email, in.PasswordHash, in.Phone)
	case auth.RoleDriver:
		err = s.db.GetContext(ctx, &id, `
			INSERT INTO drivers (first_name, last_name, email, password_hash, phone,
				license_number, license_category, hired_on, salary, vehicle_id)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
			RETURNING id
		`, in.FirstName, in.LastName, in.Email, in.PasswordHash, in.Phone,
			in.LicenseNumber, in.LicenseCategory, in.HiredOn, in.Salary, nullableID(in.VehicleID))
	default:
		return 0, fmt.Errorf("unknown staff role %q", role)
	}
	if err != nil {
		return 0, translate(err, "Staff member", "A "+string(role)+" with this email already exists")
	}
	return id, nil
}

// UpdateStaff rotates the password only when in.PasswordHash is non-empty.
func (s *Store) UpdateStaff(ctx context.Context, role auth.Role, id int64, in models.StaffInput) error {
	in.Email = normalizeEmail(in.Email)
	var query string
	var args []interface{}
	switch role {
	case auth.RoleAdmin:
		query = `
			UPDATE admins
			SET first_name = $1, last_name = $2, email = $3, phone = $4,
				password_hash = COALESCE(NULLIF($5, ''), password_hash)
			WHERE id = $6 AND active = TRUE
		`
		args = []interface{}{in.FirstName, in.LastName, in.Email, in.Phone, in.PasswordHash, id}
	case auth.RoleDriver:
		query = `
			UPDATE drivers
			SET first_name = $1, last_name = $2, email = $3, phone = $4,
				password_hash = COALESCE(NULLIF($5, ''), password_hash),
				license_number = $6, license_category = $7, hired_on = $8, salary = $9, vehicle_id = $10
			WHERE id = $11 AND active = TRUE
		`
		args = []interface{}{in.FirstName, in.LastName, in.Email, in.Phone, in.PasswordHash,
			in.LicenseNumber, in.LicenseCategory, in.HiredOn, in.Salary, nullableID(in.VehicleID), id}
	default:
		return fmt.Errorf("unknown staff role %q", role)
	}

	res, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return translate(err, "Staff member", "A "+string(role)+" with this email already exists")
	}
	return expectOneRow(res, "Staff member")
}

// Emails are unique per table regardless of case; they are stored lower-cased.
func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
