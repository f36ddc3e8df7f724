package database

import (
	"context"
	"fmt"

	"fleet-backend/internal/models"
)

const clientColumns = `id, company_name, address, city, postal_code, country, contact_person,
	email, phone, fax, tax_number, bank_name, bank_account, active, created_at`

const companyConflict = "A client with this company name already exists"

func (s *Store) ListClients(ctx context.Context) ([]models.Client, error) {
	clients := []models.Client{}
	query := `SELECT ` + clientColumns + ` FROM clients WHERE active = TRUE ORDER BY company_name`
	if err := s.db.SelectContext(ctx, &clients, query); err != nil {
		return nil, fmt.Errorf("list clients: %w", err)
	}
	return clients, nil
}

func (s *Store) GetClient(ctx context.Context, id int64) (*models.Client, error) {
	var c models.Client
	query := `SELECT ` + clientColumns + ` FROM clients WHERE id = $1 AND active = TRUE`
	if err := s.db.GetContext(ctx, &c, query, id); err != nil {
		return nil, translate(err, "Client", "")
	}
	return &c, nil
}

func (s *Store) CreateClient(ctx context.Context, in models.ClientInput) (int64, error) {
	var id int64
	err := s.db.GetContext(ctx, &id, `
		INSERT INTO clients (company_name, address, city, postal_code, country, contact_person,
			email, phone, fax, tax_number, bank_name, bank_account)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING id
	`, in.CompanyName, in.Address, in.City, in.PostalCode, in.Country, in.ContactPerson,
		in.Email, in.Phone, in.Fax, in.TaxNumber, in.BankName, in.BankAccount)
	if err != nil {
		return 0, translate(err, "Client", companyConflict)
	}
	return id, nil
}

func (s *Store) UpdateClient(ctx context.Context, id int64, in models.ClientInput) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE clients
		SET company_name = $1, address = $2, city = $3, postal_code = $4, country = $5,
			contact_person = $6, email = $7, phone = $8, fax = $9, tax_number = $10,
			bank_name = $11, bank_account = $12
		WHERE id = $13 AND active = TRUE
	`, in.CompanyName, in.Address, in.City, in.PostalCode, in.Country, in.ContactPerson,
		in.Email, in.Phone, in.Fax, in.TaxNumber, in.BankName, in.BankAccount, id)
	if err != nil {
		return translate(err, "Client", companyConflict)
	}
	return expectOneRow(res, "Client")
}
