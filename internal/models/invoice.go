package models

import "time"

// Invoice rows are hard-deleted; DocumentPath is relative to the upload
// directory.
type Invoice struct {
	ID            int64     `json:"id" db:"id"`
	RunID         int64     `json:"run_id" db:"run_id"`
	RunNumber     *string   `json:"run_number,omitempty" db:"run_number"`
	OrderNumber   *string   `json:"order_number,omitempty" db:"order_number"`
	ClientName    *string   `json:"client_name,omitempty" db:"client_name"`
	InvoiceNumber string    `json:"invoice_number" db:"invoice_number"`
	IssuedOn      Date      `json:"issued_on" db:"issued_on"`
	Amount        float64   `json:"amount" db:"amount"`
	DocumentPath  *string   `json:"document_path,omitempty" db:"document_path"`
	CreatedAt     time.Time `json:"created_at" db:"created_at"`
}
