package database

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"

	"fleet-backend/internal/apperrors"
	"fleet-backend/internal/auth"
	"fleet-backend/internal/models"

	"github.com/goccy/go-yaml"
)

// SeedData is the fixture format read by `fleetctl seed`.
type SeedData struct {
	Admins   []SeedStaff   `yaml:"admins"`
	Drivers  []SeedStaff   `yaml:"drivers"`
	Vehicles []SeedVehicle `yaml:"vehicles"`
	Clients  []SeedClient  `yaml:"clients"`
}

type SeedStaff struct {
	FirstName       string `yaml:"first_name"`
	LastName        string `yaml:"last_name"`
	Email           string `yaml:"email"`
	Password        string `yaml:"password"`
	Phone           string `yaml:"phone"`
	LicenseNumber   string `yaml:"license_number"`
	LicenseCategory string `yaml:"license_category"`
}

type SeedVehicle struct {
	Plate       string `yaml:"plate"`
	Make        string `yaml:"make"`
	Model       string `yaml:"model"`
	Year        int    `yaml:"year"`
	DriverEmail string `yaml:"driver_email"`
}

type SeedClient struct {
	CompanyName string `yaml:"company_name"`
	City        string `yaml:"city"`
	Country     string `yaml:"country"`
	Email       string `yaml:"email"`
	Phone       string `yaml:"phone"`
}

type SeedReport struct {
	Created int
	Skipped int
}

func LoadSeedFile(path string) (*SeedData, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read seed file: %w", err)
	}
	var data SeedData
	if err := yaml.Unmarshal(raw, &data); err != nil {
		return nil, fmt.Errorf("parse seed file %s: %w", path, err)
	}
	return &data, nil
}

// Seed inserts the fixture. Records that already exist are skipped, so it is
// safe to run repeatedly.
func (s *Store) Seed(ctx context.Context, data *SeedData) (SeedReport, error) {
	var report SeedReport
	count := func(err error, what string) error {
		switch {
		case err == nil:
			report.Created++
			log.Printf("  ✓ Created %s", what)
			return nil
		case errors.Is(err, apperrors.ErrConflict):
			report.Skipped++
			log.Printf("  ✓ %s already exists, skipping...", what)
			return nil
		}
		return fmt.Errorf("seed %s: %w", what, err)
	}

	for role, members := range map[auth.Role][]SeedStaff{auth.RoleAdmin: data.Admins, auth.RoleDriver: data.Drivers} {
		for _, m := range members {
			in, err := m.input()
			if err != nil {
				return report, fmt.Errorf("seed %s %s: %w", role, m.Email, err)
			}
			_, err = s.CreateStaff(ctx, role, in)
			if err := count(err, string(role)+" "+m.Email); err != nil {
				return report, err
			}
		}
	}

	for _, c := range data.Clients {
		_, err := s.CreateClient(ctx, models.ClientInput{
			CompanyName: c.CompanyName,
			City:        optional(c.City),
			Country:     optional(c.Country),
			Email:       optional(c.Email),
			Phone:       optional(c.Phone),
		})
		if err := count(err, "client "+c.CompanyName); err != nil {
			return report, err
		}
	}

	for _, v := range data.Vehicles {
		in := models.VehicleInput{Plate: v.Plate, Make: v.Make, Model: v.Model}
		if v.Year != 0 {
			year := v.Year
			in.Year = &year
		}
		if v.DriverEmail != "" {
			cred, err := s.FindActiveCredential(ctx, auth.RoleDriver, v.DriverEmail)
			if err != nil {
				return report, fmt.Errorf("seed vehicle %s: driver %s: %w", v.Plate, v.DriverEmail, err)
			}
			in.DriverID = &cred.ID
		}
		_, err := s.CreateVehicle(ctx, in)
		if err := count(err, "vehicle "+v.Plate); err != nil {
			return report, err
		}
	}

	return report, nil
}

func (m SeedStaff) input() (models.StaffInput, error) {
	hash, err := auth.HashPassword(m.Password)
	if err != nil {
		return models.StaffInput{}, err
	}
	return models.StaffInput{
		FirstName:       m.FirstName,
		LastName:        m.LastName,
		Email:           m.Email,
		Phone:           optional(m.Phone),
		LicenseNumber:   optional(m.LicenseNumber),
		LicenseCategory: optional(m.LicenseCategory),
		PasswordHash:    hash,
	}, nil
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
