package database

import (
	"context"
	"fmt"

	"fleet-backend/internal/models"
)

const invoiceSelect = `
	SELECT i.id, i.run_id, r.run_number, o.order_number, c.company_name AS client_name,
		i.invoice_number, i.issued_on, i.amount, i.document_path, i.created_at
	FROM invoices i
	LEFT JOIN runs r ON r.id = i.run_id
	LEFT JOIN orders o ON o.id = r.order_id
	LEFT JOIN clients c ON c.id = o.client_id
`

const invoiceConflict = "An invoice with this number already exists"

func (s *Store) ListInvoices(ctx context.Context) ([]models.Invoice, error) {
	invoices := []models.Invoice{}
	if err := s.db.SelectContext(ctx, &invoices, invoiceSelect+` ORDER BY i.issued_on DESC, i.id DESC`); err != nil {
		return nil, fmt.Errorf("list invoices: %w", err)
	}
	return invoices, nil
}

func (s *Store) GetInvoice(ctx context.Context, id int64) (*models.Invoice, error) {
	var inv models.Invoice
	if err := s.db.GetContext(ctx, &inv, invoiceSelect+` WHERE i.id = $1`, id); err != nil {
		return nil, translate(err, "Invoice", "")
	}
	return &inv, nil
}

func (s *Store) CreateInvoice(ctx context.Context, inv *models.Invoice) (int64, error) {
	var id int64
	err := s.db.GetContext(ctx, &id, `
		INSERT INTO invoices (run_id, invoice_number, issued_on, amount, document_path)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`, inv.RunID, inv.InvoiceNumber, inv.IssuedOn, inv.Amount, inv.DocumentPath)
	if err != nil {
		return 0, translate(err, "Invoice", invoiceConflict)
	}
	return id, nil
}

func (s *Store) UpdateInvoice(ctx context.Context, inv *models.Invoice) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE invoices
		SET run_id = $1, invoice_number = $2, issued_on = $3, amount = $4, document_path = $5
		WHERE id = $6
	`, inv.RunID, inv.InvoiceNumber, inv.IssuedOn, inv.Amount, inv.DocumentPath, inv.ID)
	if err != nil {
		return translate(err, "Invoice", invoiceConflict)
	}
	return expectOneRow(res, "Invoice")
}

// DeleteInvoice removes the row for good; invoices have no active flag.
func (s *Store) DeleteInvoice(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM invoices WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete invoice: %w", err)
	}
	return expectOneRow(res, "Invoice")
}
