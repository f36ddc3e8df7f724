package models

import "time"

// Staff is a row of either the admins or the drivers table. Driver-only
// columns stay nil for admins.
type Staff struct {
	ID              int64     `json:"id" db:"id"`
	Type            string    `json:"type" db:"-"`
	FirstName       string    `json:"first_name" db:"first_name"`
	LastName        string    `json:"last_name" db:"last_name"`
	Email           string    `json:"email" db:"email"`
	PasswordHash    string    `json:"-" db:"password_hash"` // Never return password in JSON
	Phone           *string   `json:"phone,omitempty" db:"phone"`
	LicenseNumber   *string   `json:"license_number,omitempty" db:"license_number"`
	LicenseCategory *string   `json:"license_category,omitempty" db:"license_category"`
	HiredOn         *Date     `json:"hired_on,omitempty" db:"hired_on"`
	Salary          *float64  `json:"salary,omitempty" db:"salary"`
	CompletedRuns   *int      `json:"completed_runs,omitempty" db:"completed_runs"`
	Balance         *float64  `json:"balance,omitempty" db:"balance"`
	VehicleID       *int64    `json:"vehicle_id,omitempty" db:"vehicle_id"`
	Active          bool      `json:"active" db:"active"`
	CreatedAt       time.Time `json:"created_at" db:"created_at"`
}

// StaffInput is the create/update payload. Password is optional on update.
type StaffInput struct {
	Type            string   `json:"type"`
	FirstName       string   `json:"first_name"`
	LastName        string   `json:"last_name"`
	Email           string   `json:"email"`
	Password        string   `json:"password"`
	Phone           *string  `json:"phone"`
	LicenseNumber   *string  `json:"license_number"`
	LicenseCategory *string  `json:"license_category"`
	HiredOn         *Date    `json:"hired_on"`
	Salary          *float64 `json:"salary"`
	VehicleID       *int64   `json:"vehicle_id"`

	// Set by the handler after hashing Password.
	PasswordHash string `json:"-"`
}

type StaffResponse struct {
	ID        int64  `json:"id"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
	Role      string `json:"role"`
}

func (s *Staff) ToStaffResponse() StaffResponse {
	return StaffResponse{
		ID:        s.ID,
		FirstName: s.FirstName,
		LastName:  s.LastName,
		Email:     s.Email,
		Role:      s.Type,
	}
}
