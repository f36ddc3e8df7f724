package models

import "time"

type Client struct {
	ID            int64     `json:"id" db:"id"`
	CompanyName   string    `json:"company_name" db:"company_name"`
	Address       *string   `json:"address,omitempty" db:"address"`
	City          *string   `json:"city,omitempty" db:"city"`
	PostalCode    *string   `json:"postal_code,omitempty" db:"postal_code"`
	Country       *string   `json:"country,omitempty" db:"country"`
	ContactPerson *string   `json:"contact_person,omitempty" db:"contact_person"`
	Email         *string   `json:"email,omitempty" db:"email"`
	Phone         *string   `json:"phone,omitempty" db:"phone"`
	Fax           *string   `json:"fax,omitempty" db:"fax"`
	TaxNumber     *string   `json:"tax_number,omitempty" db:"tax_number"`
	BankName      *string   `json:"bank_name,omitempty" db:"bank_name"`
	BankAccount   *string   `json:"bank_account,omitempty" db:"bank_account"`
	Active        bool      `json:"active" db:"active"`
	CreatedAt     time.Time `json:"created_at" db:"created_at"`
}

type ClientInput struct {
	CompanyName   string  `json:"company_name"`
	Address       *string `json:"address"`
	City          *string `json:"city"`
	PostalCode    *string `json:"postal_code"`
	Country       *string `json:"country"`
	ContactPerson *string `json:"contact_person"`
	Email         *string `json:"email"`
	Phone         *string `json:"phone"`
	Fax           *string `json:"fax"`
	TaxNumber     *string `json:"tax_number"`
	BankName      *string `json:"bank_name"`
	BankAccount   *string `json:"bank_account"`
}
