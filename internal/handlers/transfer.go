package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"fleet-backend/internal/apperrors"
	"fleet-backend/internal/csvio"
	"fleet-backend/internal/models"
	"fleet-backend/pkg/utils"

	"github.com/go-chi/chi/v5"
)

// TransferStore is what import and export need from the database.
type TransferStore interface {
	ListClients(ctx context.Context) ([]models.Client, error)
	CreateClient(ctx context.Context, in models.ClientInput) (int64, error)
	ListFuelLogs(ctx context.Context, vehicleIDs []int64) ([]models.FuelLog, error)
	CreateFuelLog(ctx context.Context, in models.FuelLogInput) (int64, error)
	ListServiceLogs(ctx context.Context, vehicleIDs []int64) ([]models.ServiceLog, error)
	CreateServiceLog(ctx context.Context, in models.ServiceLogInput) (int64, error)
}

// dataset describes one importable/exportable table. Column names double as
// JSON keys so an exported file can be imported again.
type dataset struct {
	jsonKey string
	export  func(ctx context.Context, s TransferStore) (csvio.Table, error)
	insert  func(ctx context.Context, s TransferStore, admin int64, rec csvio.Record) error
}

var datasets = map[string]dataset{
	"clients":      {jsonKey: "clients", export: exportClients, insert: importClient},
	"fuel":         {jsonKey: "fuel", export: exportFuel, insert: importFuel},
	"service-logs": {jsonKey: "service_logs", export: exportServiceLogs, insert: importServiceLog},
}

func lookupDataset(r *http.Request) (string, dataset, error) {
	name := chi.URLParam(r, "dataset")
	ds, ok := datasets[name]
	if !ok {
		return "", dataset{}, apperrors.NotFound("Unknown dataset")
	}
	return name, ds, nil
}

// Export writes a dataset as CSV (default) or XLSX.
func Export(store TransferStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		name, ds, err := lookupDataset(r)
		if err != nil {
			utils.RespondAppError(w, r, err)
			return
		}
		format := r.URL.Query().Get("format")
		if format == "" {
			format = "csv"
		}
		if format != "csv" && format != "xlsx" {
			utils.RespondAppError(w, r, apperrors.Invalid("Format must be csv or xlsx"))
			return
		}

		table, err := ds.export(r.Context(), store)
		if err != nil {
			utils.RespondAppError(w, r, err)
			return
		}

		var buf bytes.Buffer
		contentType := "text/csv; charset=utf-8"
		if format == "xlsx" {
			contentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
			err = csvio.WriteXLSX(&buf, table)
		} else {
			err = csvio.WriteCSV(&buf, table)
		}
		if err != nil {
			utils.RespondAppError(w, r, err)
			return
		}

		filename := fmt.Sprintf("%s_%s.%s", name, time.Now().Format(models.DateLayout), format)
		w.Header().Set("Content-Type", contentType)
		w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`"`)
		w.WriteHeader(http.StatusOK)
		w.Write(buf.Bytes())
	}
}

// Import inserts records one at a time. A failed record is counted and
// logged; earlier inserts stay.
func Import(store TransferStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		name, ds, err := lookupDataset(r)
		if err != nil {
			utils.RespondAppError(w, r, err)
			return
		}
		records, err := readImport(w, r, ds.jsonKey)
		if err != nil {
			utils.RespondAppError(w, r, err)
			return
		}

		admin := currentUser(r).ID
		imported, failed := 0, 0
		for i, rec := range records {
			if err := ds.insert(r.Context(), store, admin, rec); err != nil {
				failed++
				log.Printf("⚠️  Import %s record %d skipped: %v", name, i+1, err)
				continue
			}
			imported++
		}

		log.Printf("📥 Import %s: %d imported, %d errors", name, imported, failed)
		utils.RespondJSON(w, http.StatusOK, map[string]interface{}{
			"success":  true,
			"message":  fmt.Sprintf("Imported %d of %d records", imported, len(records)),
			"imported": imported,
			"errors":   failed,
		})
	}
}

// readImport accepts a multipart CSV under "file" or a JSON object holding
// an array under key.
func readImport(w http.ResponseWriter, r *http.Request, key string) ([]csvio.Record, error) {
	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/") {
		if err := parseForm(w, r); err != nil {
			return nil, err
		}
		file, _, err := formFile(r, "file")
		if err != nil {
			return nil, err
		}
		if file == nil {
			return nil, apperrors.Invalid("No file uploaded")
		}
		defer file.Close()

		records, err := csvio.ReadCSV(file)
		if errors.Is(err, csvio.ErrNoRows) {
			return nil, apperrors.Invalid("The file contains no data rows")
		}
		if err != nil {
			return nil, apperrors.Invalid("Invalid CSV file")
		}
		return records, nil
	}

	var body map[string][]map[string]interface{}
	if err := decodeJSON(w, r, &body); err != nil {
		return nil, err
	}
	items := body[key]
	if len(items) == 0 {
		return nil, apperrors.Invalid(fmt.Sprintf("Expected a non-empty %q array", key))
	}
	records := make([]csvio.Record, 0, len(items))
	for _, item := range items {
		rec := csvio.Record{}
		for k, v := range item {
			rec[strings.ToLower(k)] = jsonScalar(v)
		}
		records = append(records, rec)
	}
	return records, nil
}

func jsonScalar(v interface{}) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(x)
	}
	b, _ := json.Marshal(v)
	return string(b)
}

func optionalField(rec csvio.Record, name string) *string {
	v := rec.Get(name)
	if v == "" {
		return nil
	}
	return &v
}

func floatField(rec csvio.Record, name string) (float64, error) {
	v := strings.Replace(rec.Get(name), ",", ".", 1)
	if v == "" {
		return 0, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, fmt.Errorf("%s: not a number", name)
	}
	return f, nil
}

func idField(rec csvio.Record, name string) (*int64, error) {
	v := rec.Get(name)
	if v == "" {
		return nil, nil
	}
	id, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("%s: not an id", name)
	}
	return &id, nil
}

func formatFloat(f float64) string { return strconv.FormatFloat(f, 'f', -1, 64) }

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func formatOptionalInt(v *int64) string {
	if v == nil {
		return ""
	}
	return strconv.FormatInt(*v, 10)
}

func formatOptionalDate(d *models.Date) string {
	if d == nil {
		return ""
	}
	return d.String()
}

var clientColumns = []string{"company_name", "address", "city", "postal_code", "country",
	"contact_person", "email", "phone", "fax", "tax_number", "bank_name", "bank_account"}

func exportClients(ctx context.Context, s TransferStore) (csvio.Table, error) {
	clients, err := s.ListClients(ctx)
	if err != nil {
		return csvio.Table{}, err
	}
	t := csvio.Table{Name: "Clients", Header: clientColumns}
	for _, c := range clients {
		t.Rows = append(t.Rows, []string{c.CompanyName, deref(c.Address), deref(c.City),
			deref(c.PostalCode), deref(c.Country), deref(c.ContactPerson), deref(c.Email),
			deref(c.Phone), deref(c.Fax), deref(c.TaxNumber), deref(c.BankName), deref(c.BankAccount)})
	}
	return t, nil
}

func importClient(ctx context.Context, s TransferStore, _ int64, rec csvio.Record) error {
	in := models.ClientInput{
		CompanyName:   rec.Get("company_name"),
		Address:       optionalField(rec, "address"),
		City:          optionalField(rec, "city"),
		PostalCode:    optionalField(rec, "postal_code"),
		Country:       optionalField(rec, "country"),
		ContactPerson: optionalField(rec, "contact_person"),
		Email:         optionalField(rec, "email"),
		Phone:         optionalField(rec, "phone"),
		Fax:           optionalField(rec, "fax"),
		TaxNumber:     optionalField(rec, "tax_number"),
		BankName:      optionalField(rec, "bank_name"),
		BankAccount:   optionalField(rec, "bank_account"),
	}
	if err := normalizeClient(&in); err != nil {
		return err
	}
	_, err := s.CreateClient(ctx, in)
	return err
}

func exportFuel(ctx context.Context, s TransferStore) (csvio.Table, error) {
	logs, err := s.ListFuelLogs(ctx, nil)
	if err != nil {
		return csvio.Table{}, err
	}
	t := csvio.Table{
		Name:   "Fuel",
		Header: []string{"vehicle_id", "vehicle_plate", "driver_id", "fueled_on", "liters", "total_cost", "odometer_km", "station", "note"},
	}
	for _, f := range logs {
		t.Rows = append(t.Rows, []string{strconv.FormatInt(f.VehicleID, 10), deref(f.VehiclePlate),
			formatOptionalInt(f.DriverID), f.FueledOn.String(), formatFloat(f.Liters),
			formatFloat(f.TotalCost), formatOptionalInt(f.OdometerKm), deref(f.Station), deref(f.Note)})
	}
	return t, nil
}

func importFuel(ctx context.Context, s TransferStore, _ int64, rec csvio.Record) error {
	vehicleID, err := idField(rec, "vehicle_id")
	if err != nil {
		return err
	}
	if vehicleID == nil {
		return apperrors.Invalid("vehicle_id is required")
	}
	driverID, err := idField(rec, "driver_id")
	if err != nil {
		return err
	}
	odometer, err := idField(rec, "odometer_km")
	if err != nil {
		return err
	}
	fueledOn, err := models.ParseOptionalDate(rec.Get("fueled_on"))
	if err != nil {
		return err
	}
	liters, err := floatField(rec, "liters")
	if err != nil {
		return err
	}
	cost, err := floatField(rec, "total_cost")
	if err != nil {
		return err
	}

	in := models.FuelLogInput{
		VehicleID:  *vehicleID,
		DriverID:   driverID,
		FueledOn:   fueledOn,
		Liters:     liters,
		TotalCost:  cost,
		OdometerKm: odometer,
		Station:    optionalField(rec, "station"),
		Note:       optionalField(rec, "note"),
	}
	if err := validateFuelLog(&in); err != nil {
		return err
	}
	_, err = s.CreateFuelLog(ctx, in)
	return err
}

func exportServiceLogs(ctx context.Context, s TransferStore) (csvio.Table, error) {
	logs, err := s.ListServiceLogs(ctx, nil)
	if err != nil {
		return csvio.Table{}, err
	}
	t := csvio.Table{
		Name:   "Service",
		Header: []string{"vehicle_id", "vehicle_plate", "serviced_on", "service_type", "description", "cost", "odometer_km", "workshop"},
	}
	for _, l := range logs {
		t.Rows = append(t.Rows, []string{strconv.FormatInt(l.VehicleID, 10), deref(l.VehiclePlate),
			l.ServicedOn.String(), l.ServiceType, deref(l.Description), formatFloat(l.Cost),
			formatOptionalInt(l.OdometerKm), deref(l.Workshop)})
	}
	return t, nil
}

func importServiceLog(ctx context.Context, s TransferStore, admin int64, rec csvio.Record) error {
	vehicleID, err := idField(rec, "vehicle_id")
	if err != nil {
		return err
	}
	if vehicleID == nil {
		return apperrors.Invalid("vehicle_id is required")
	}
	odometer, err := idField(rec, "odometer_km")
	if err != nil {
		return err
	}
	servicedOn, err := models.ParseOptionalDate(rec.Get("serviced_on"))
	if err != nil {
		return err
	}
	cost, err := floatField(rec, "cost")
	if err != nil {
		return err
	}

	in := models.ServiceLogInput{
		VehicleID:   *vehicleID,
		ServicedOn:  servicedOn,
		ServiceType: rec.Get("service_type"),
		Description: optionalField(rec, "description"),
		Cost:        cost,
		OdometerKm:  odometer,
		Workshop:    optionalField(rec, "workshop"),
		AdminID:     &admin,
	}
	if err := validateServiceLog(&in); err != nil {
		return err
	}
	_, err = s.CreateServiceLog(ctx, in)
	return err
}
