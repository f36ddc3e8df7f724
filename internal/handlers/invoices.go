package handlers

import (
	"context"
	"errors"
	"io"
	"log"
	"mime/multipart"
	"net/http"
	"os"
	"path"
	"strconv"
	"strings"

	"fleet-backend/internal/apperrors"
	"fleet-backend/internal/models"
	"fleet-backend/pkg/utils"
)

const (
	maxUploadSize   = 20 << 20
	invoiceFolder   = "invoices"
	invoiceFilename = "invoice"
)

type InvoiceStore interface {
	ListInvoices(ctx context.Context) ([]models.Invoice, error)
	GetInvoice(ctx context.Context, id int64) (*models.Invoice, error)
	CreateInvoice(ctx context.Context, inv *models.Invoice) (int64, error)
	UpdateInvoice(ctx context.Context, inv *models.Invoice) error
	DeleteInvoice(ctx context.Context, id int64) error
}

// DocumentStorage keeps uploaded files; paths are relative to its root.
type DocumentStorage interface {
	Save(folder, prefix, originalName string, src io.Reader) (string, error)
	Open(rel string) (*os.File, error)
	Remove(rel string) error
}

type InvoiceHandler struct {
	Store     InvoiceStore
	Documents DocumentStorage
}

func (h *InvoiceHandler) List(w http.ResponseWriter, r *http.Request) {
	invoices, err := h.Store.ListInvoices(r.Context())
	if err != nil {
		utils.RespondAppError(w, r, err)
		return
	}
	utils.RespondData(w, http.StatusOK, invoices)
}

func (h *InvoiceHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		utils.RespondAppError(w, r, err)
		return
	}
	inv, err := h.Store.GetInvoice(r.Context(), id)
	if err != nil {
		utils.RespondAppError(w, r, err)
		return
	}
	utils.RespondData(w, http.StatusOK, inv)
}

// Create accepts multipart form data. The document is optional and is
// stored before the row is inserted.
func (h *InvoiceHandler) Create(w http.ResponseWriter, r *http.Request) {
	if err := parseForm(w, r); err != nil {
		utils.RespondAppError(w, r, err)
		return
	}
	var inv models.Invoice
	if err := invoiceFromForm(r, &inv); err != nil {
		utils.RespondAppError(w, r, err)
		return
	}

	docPath, err := h.saveDocument(r)
	if err != nil {
		utils.RespondAppError(w, r, err)
		return
	}
	inv.DocumentPath = docPath

	id, err := h.Store.CreateInvoice(r.Context(), &inv)
	if err != nil {
		if docPath != nil {
			h.removeDocument(*docPath)
		}
		utils.RespondAppError(w, r, err)
		return
	}

	utils.RespondJSON(w, http.StatusCreated, map[string]interface{}{
		"success":       true,
		"message":       "Invoice created",
		"id":            id,
		"document_path": docPath,
	})
}

// Update replaces the fields and, when a new document is attached, the
// stored file. The old file is removed after the row points at the new one.
func (h *InvoiceHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		utils.RespondAppError(w, r, err)
		return
	}
	if err := parseForm(w, r); err != nil {
		utils.RespondAppError(w, r, err)
		return
	}
	inv, err := h.Store.GetInvoice(r.Context(), id)
	if err != nil {
		utils.RespondAppError(w, r, err)
		return
	}
	if err := invoiceFromForm(r, inv); err != nil {
		utils.RespondAppError(w, r, err)
		return
	}

	newPath, err := h.saveDocument(r)
	if err != nil {
		utils.RespondAppError(w, r, err)
		return
	}
	oldPath := inv.DocumentPath
	if newPath != nil {
		inv.DocumentPath = newPath
	}

	if err := h.Store.UpdateInvoice(r.Context(), inv); err != nil {
		if newPath != nil {
			h.removeDocument(*newPath)
		}
		utils.RespondAppError(w, r, err)
		return
	}
	if newPath != nil && oldPath != nil {
		h.removeDocument(*oldPath)
	}

	utils.RespondMessage(w, http.StatusOK, "Invoice updated")
}

// Delete removes the row for good, then its document. A failed file
// removal is logged and does not fail the request.
func (h *InvoiceHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		utils.RespondAppError(w, r, err)
		return
	}
	inv, err := h.Store.GetInvoice(r.Context(), id)
	if err != nil {
		utils.RespondAppError(w, r, err)
		return
	}
	if err := h.Store.DeleteInvoice(r.Context(), id); err != nil {
		utils.RespondAppError(w, r, err)
		return
	}
	if inv.DocumentPath != nil {
		h.removeDocument(*inv.DocumentPath)
	}

	log.Printf("🗑️  Invoice %s deleted", inv.InvoiceNumber)
	utils.RespondMessage(w, http.StatusOK, "Invoice deleted")
}

// Document streams the stored file of an invoice.
func (h *InvoiceHandler) Document(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		utils.RespondAppError(w, r, err)
		return
	}
	inv, err := h.Store.GetInvoice(r.Context(), id)
	if err != nil {
		utils.RespondAppError(w, r, err)
		return
	}
	if inv.DocumentPath == nil {
		utils.RespondAppError(w, r, apperrors.NotFound("Invoice has no document"))
		return
	}

	f, err := h.Documents.Open(*inv.DocumentPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			utils.RespondAppError(w, r, apperrors.NotFound("Document file is missing"))
			return
		}
		utils.RespondAppError(w, r, err)
		return
	}
	defer f.Close()

	stat, err := f.Stat()
	if err != nil {
		utils.RespondAppError(w, r, err)
		return
	}
	name := path.Base(*inv.DocumentPath)
	w.Header().Set("Content-Disposition", `inline; filename="`+name+`"`)
	http.ServeContent(w, r, name, stat.ModTime(), f)
}

func (h *InvoiceHandler) saveDocument(r *http.Request) (*string, error) {
	file, header, err := formFile(r, "document", "file")
	if err != nil || file == nil {
		return nil, err
	}
	defer file.Close()

	rel, err := h.Documents.Save(invoiceFolder, invoiceFilename, header.Filename, file)
	if err != nil {
		return nil, err
	}
	log.Printf("📄 Stored invoice document %s (%d bytes)", rel, header.Size)
	return &rel, nil
}

func (h *InvoiceHandler) removeDocument(rel string) {
	if err := h.Documents.Remove(rel); err != nil {
		log.Printf("⚠️  Could not remove invoice document %s: %v", rel, err)
	}
}

// parseForm reads multipart bodies and falls back to url-encoded ones.
func parseForm(w http.ResponseWriter, r *http.Request) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadSize)
	err := r.ParseMultipartForm(maxUploadSize)
	if errors.Is(err, http.ErrNotMultipart) {
		err = r.ParseForm()
	}
	if err != nil {
		return apperrors.Invalid("Invalid form data")
	}
	return nil
}

// formFile returns the first of names present in the form, or a nil file.
func formFile(r *http.Request, names ...string) (multipart.File, *multipart.FileHeader, error) {
	for _, name := range names {
		file, header, err := r.FormFile(name)
		if errors.Is(err, http.ErrMissingFile) {
			continue
		}
		if err != nil {
			return nil, nil, apperrors.Invalid("Invalid file upload")
		}
		return file, header, nil
	}
	return nil, nil, nil
}

func invoiceFromForm(r *http.Request, inv *models.Invoice) error {
	runID, err := strconv.ParseInt(strings.TrimSpace(r.FormValue("run_id")), 10, 64)
	number := strings.TrimSpace(r.FormValue("invoice_number"))
	issued := r.FormValue("issued_on")
	amountRaw := strings.TrimSpace(r.FormValue("amount"))
	if err != nil || runID <= 0 || number == "" || strings.TrimSpace(issued) == "" || amountRaw == "" {
		return apperrors.Invalid("Run, invoice number, issue date and amount are required")
	}

	issuedOn, err := models.NormalizeDate(issued)
	if err != nil {
		return apperrors.Invalid("Invalid issue date")
	}
	amount, err := strconv.ParseFloat(strings.Replace(amountRaw, ",", ".", 1), 64)
	if err != nil || amount < 0 {
		return apperrors.Invalid("Amount must be a non-negative number")
	}

	inv.RunID = runID
	inv.InvoiceNumber = number
	inv.IssuedOn = issuedOn
	inv.Amount = amount
	return nil
}
