package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"fleet-backend/internal/apperrors"
	"fleet-backend/internal/auth"
	"fleet-backend/internal/middleware"
	"fleet-backend/internal/models"

	"github.com/go-chi/chi/v5"
	"github.com/xuri/excelize/v2"
)

type fakeTransferStore struct {
	clients []models.ClientInput
	fuel    []models.FuelLogInput
	service []models.ServiceLogInput
}

func (f *fakeTransferStore) ListClients(ctx context.Context) ([]models.Client, error) {
	city := "Rijeka"
	return []models.Client{
		{ID: 1, CompanyName: "Šibenik Prijevoz", City: &city, Active: true},
		{ID: 2, CompanyName: "Lučka uprava", Active: true},
	}, nil
}

func (f *fakeTransferStore) CreateClient(ctx context.Context, in models.ClientInput) (int64, error) {
	for _, c := range f.clients {
		if c.CompanyName == in.CompanyName {
			return 0, apperrors.Conflict("A client with this company name already exists")
		}
	}
	f.clients = append(f.clients, in)
	return int64(len(f.clients)), nil
}

func (f *fakeTransferStore) ListFuelLogs(ctx context.Context, vehicleIDs []int64) ([]models.FuelLog, error) {
	return []models.FuelLog{{ID: 1, VehicleID: 4, FueledOn: models.Today(), Liters: 120.5, TotalCost: 180}}, nil
}

func (f *fakeTransferStore) CreateFuelLog(ctx context.Context, in models.FuelLogInput) (int64, error) {
	f.fuel = append(f.fuel, in)
	return int64(len(f.fuel)), nil
}

func (f *fakeTransferStore) ListServiceLogs(ctx context.Context, vehicleIDs []int64) ([]models.ServiceLog, error) {
	return []models.ServiceLog{}, nil
}

func (f *fakeTransferStore) CreateServiceLog(ctx context.Context, in models.ServiceLogInput) (int64, error) {
	f.service = append(f.service, in)
	return int64(len(f.service)), nil
}

var testAdmin = auth.Identity{ID: 5, GivenName: "Ivo", FamilyName: "Horvat", Email: "boss@fleet.test", Role: auth.RoleAdmin}

func transferRouter(store TransferStore) http.Handler {
	r := chi.NewRouter()
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			next.ServeHTTP(w, r.WithContext(middleware.WithUser(r.Context(), testAdmin)))
		})
	})
	r.Get("/export/{dataset}", Export(store))
	r.Post("/import/{dataset}", Import(store))
	return r
}

type importResult struct {
	Imported int    `json:"imported"`
	Errors   int    `json:"errors"`
	Error    string `json:"error"`
}

func decodeImport(t *testing.T, rec *httptest.ResponseRecorder) importResult {
	t.Helper()
	var res importResult
	if err := json.Unmarshal(rec.Body.Bytes(), &res); err != nil {
		t.Fatalf("decode %q: %v", rec.Body.String(), err)
	}
	return res
}

func TestExportClientsCSV(t *testing.T) {
	rec := httptest.NewRecorder()
	transferRouter(&fakeTransferStore{}).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/export/clients", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	body := rec.Body.String()
	if !strings.HasPrefix(body, "\ufeffcompany_name,address,city") {
		t.Fatalf("export does not start with BOM and header: %q", body)
	}
	if !strings.Contains(body, "Šibenik Prijevoz,,Rijeka") {
		t.Errorf("client row missing: %q", body)
	}
	disp := rec.Header().Get("Content-Disposition")
	if !strings.HasPrefix(disp, `attachment; filename="clients_`) || !strings.HasSuffix(disp, `.csv"`) {
		t.Errorf("Content-Disposition = %q", disp)
	}
}

func TestExportFuelXLSX(t *testing.T) {
	rec := httptest.NewRecorder()
	transferRouter(&fakeTransferStore{}).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/export/fuel?format=xlsx", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body.String())
	}

	f, err := excelize.OpenReader(bytes.NewReader(rec.Body.Bytes()))
	if err != nil {
		t.Fatalf("open workbook: %v", err)
	}
	defer f.Close()
	rows, err := f.GetRows("Fuel")
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != 2 || rows[0][0] != "vehicle_id" || rows[1][4] != "120.5" {
		t.Fatalf("rows = %v", rows)
	}
}

func TestExportRejectsUnknownDatasetAndFormat(t *testing.T) {
	h := transferRouter(&fakeTransferStore{})
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/export/payroll", nil))
	if rec.Code != http.StatusNotFound {
		t.Errorf("unknown dataset = %d, want 404", rec.Code)
	}
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/export/clients?format=pdf", nil))
	if rec.Code != http.StatusBadRequest {
		t.Errorf("unknown format = %d, want 400", rec.Code)
	}
}

func TestImportClientsJSONCountsFailures(t *testing.T) {
	store := &fakeTransferStore{}
	body := `{"clients":[{"company_name":"Alfa"},{"company_name":""},{"company_name":"Alfa"},{"company_name":"Beta","email":"not-an-email"},{"company_name":"Gama","phone":38521123}]}`
	rec := httptest.NewRecorder()
	transferRouter(store).ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/import/clients", strings.NewReader(body)))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body.String())
	}
	res := decodeImport(t, rec)
	if res.Imported != 2 || res.Errors != 3 {
		t.Fatalf("imported=%d errors=%d, want 2/3", res.Imported, res.Errors)
	}
	if got := *store.clients[1].Phone; got != "38521123" {
		t.Errorf("numeric phone imported as %q", got)
	}
}

func TestImportRejectsEmptyPayload(t *testing.T) {
	for _, body := range []string{`{"clients":[]}`, `{"fuel":[{"liters":1}]}`, `not json`} {
		rec := httptest.NewRecorder()
		transferRouter(&fakeTransferStore{}).ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/import/clients", strings.NewReader(body)))
		if rec.Code != http.StatusBadRequest {
			t.Errorf("body %s: status = %d, want 400", body, rec.Code)
		}
	}
}

func multipartCSV(t *testing.T, content string) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile("file", "fuel.csv")
	if err != nil {
		t.Fatal(err)
	}
	fw.Write([]byte(content))
	mw.Close()
	return &buf, mw.FormDataContentType()
}

func TestImportFuelCSVWithBOMAndSemicolons(t *testing.T) {
	store := &fakeTransferStore{}
	csv := "\ufeffVehicle_ID;Fueled_On;Liters;Total_Cost;Station\n" +
		"4;15.03.2024;120,5;180,75;INA Split\n" +
		";;;;\n" +
		"x;2024-03-16;10;10;\n" +
		"5;2024-03-17;0;10;\n"
	body, ct := multipartCSV(t, csv)
	req := httptest.NewRequest(http.MethodPost, "/import/fuel", body)
	req.Header.Set("Content-Type", ct)
	rec := httptest.NewRecorder()
	transferRouter(store).ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body.String())
	}
	res := decodeImport(t, rec)
	if res.Imported != 1 || res.Errors != 2 {
		t.Fatalf("imported=%d errors=%d, want 1/2", res.Imported, res.Errors)
	}
	got := store.fuel[0]
	if got.VehicleID != 4 || got.Liters != 120.5 || got.TotalCost != 180.75 || got.FueledOn.String() != "2024-03-15" || *got.Station != "INA Split" {
		t.Errorf("imported fuel log = %+v", got)
	}
}

func TestImportServiceLogsRecordsAdmin(t *testing.T) {
	store := &fakeTransferStore{}
	body := `{"service_logs":[{"vehicle_id":"3","service_type":"Oil change","cost":"90"}]}`
	rec := httptest.NewRecorder()
	transferRouter(store).ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/import/service-logs", strings.NewReader(body)))

	if res := decodeImport(t, rec); res.Imported != 1 {
		t.Fatalf("imported = %d: %s", res.Imported, rec.Body.String())
	}
	if a := store.service[0].AdminID; a == nil || *a != testAdmin.ID {
		t.Errorf("admin id = %v, want %d", a, testAdmin.ID)
	}
}
