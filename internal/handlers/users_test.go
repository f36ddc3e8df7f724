package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"fleet-backend/internal/apperrors"
	"fleet-backend/internal/auth"
	"fleet-backend/internal/database"
	"fleet-backend/internal/middleware"
	"fleet-backend/internal/models"

	"github.com/go-chi/chi/v5"
)

type fakeStaffStore struct {
	created []models.StaffInput
	updated map[int64]models.StaffInput
	active  map[string]bool
}

func newFakeStaffStore() *fakeStaffStore {
	return &fakeStaffStore{updated: map[int64]models.StaffInput{}, active: map[string]bool{}}
}

func (f *fakeStaffStore) SetActive(ctx context.Context, entity database.Entity, id int64, active bool) error {
	f.active[string(entity)+":"+itoa(id)] = active
	return nil
}

func (f *fakeStaffStore) ListStaff(ctx context.Context, role auth.Role) ([]models.Staff, error) {
	return []models.Staff{{ID: 1, Type: string(role), Email: string(role) + "@fleet.test"}}, nil
}

func (f *fakeStaffStore) GetStaff(ctx context.Context, role auth.Role, id int64) (*models.Staff, error) {
	return nil, apperrors.NotFound("Staff member not found")
}

func (f *fakeStaffStore) CreateStaff(ctx context.Context, role auth.Role, in models.StaffInput) (int64, error) {
	for _, c := range f.created {
		if c.Email == in.Email {
			return 0, apperrors.Conflict("A staff member with this email already exists")
		}
	}
	f.created = append(f.created, in)
	return int64(len(f.created)), nil
}

func (f *fakeStaffStore) UpdateStaff(ctx context.Context, role auth.Role, id int64, in models.StaffInput) error {
	f.updated[id] = in
	return nil
}

func itoa(id int64) string {
	b, _ := json.Marshal(id)
	return string(b)
}

func staffRouter(store StaffStore, as auth.Identity) http.Handler {
	r := chi.NewRouter()
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			next.ServeHTTP(w, r.WithContext(middleware.WithUser(r.Context(), as)))
		})
	})
	r.Get("/staff", ListStaff(store))
	r.Get("/staff/{id}", GetStaff(store))
	r.Post("/staff", CreateStaff(store))
	r.Put("/staff/{id}", UpdateStaff(store))
	r.Delete("/staff/{id}", DeactivateStaff(store))
	r.Post("/staff/{id}/restore", RestoreStaff(store))
	return r
}

func send(h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(method, path, strings.NewReader(body)))
	return rec
}

func TestCreateStaffHashesPassword(t *testing.T) {
	store := newFakeStaffStore()
	h := staffRouter(store, testAdmin)

	rec := send(h, http.MethodPost, "/staff", `{"type":"driver","first_name":" Ana ","last_name":"Kovač","email":"ana@fleet.test","password":"long-enough-1","salary":1800}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body.String())
	}
	in := store.created[0]
	if in.FirstName != "Ana" {
		t.Errorf("first name not trimmed: %q", in.FirstName)
	}
	if in.PasswordHash == "" || in.PasswordHash == in.Password || !auth.VerifyPassword("long-enough-1", in.PasswordHash) {
		t.Error("password was not hashed")
	}
}

func TestCreateStaffValidation(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{"unknown type", `{"type":"manager","first_name":"A","last_name":"B","email":"a@b.hr","password":"password1"}`, "Staff type must be 'admin' or 'driver'"},
		{"short password", `{"type":"admin","first_name":"A","last_name":"B","email":"a@b.hr","password":"short"}`, auth.ErrWeakPassword.Error()},
		{"missing password", `{"type":"admin","first_name":"A","last_name":"B","email":"a@b.hr"}`, "Password is required"},
		{"bad email", `{"type":"admin","first_name":"A","last_name":"B","email":"nope","password":"password1"}`, "Invalid email address"},
		{"negative salary", `{"type":"driver","first_name":"A","last_name":"B","email":"a@b.hr","password":"password1","salary":-1}`, "Salary cannot be negative"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := send(staffRouter(newFakeStaffStore(), testAdmin), http.MethodPost, "/staff", tt.body)
			if rec.Code != http.StatusBadRequest {
				t.Fatalf("status = %d, want 400", rec.Code)
			}
			if !strings.Contains(rec.Body.String(), tt.want) {
				t.Errorf("body %s does not mention %q", rec.Body.String(), tt.want)
			}
		})
	}
}

func TestCreateStaffDuplicateEmail(t *testing.T) {
	store := newFakeStaffStore()
	h := staffRouter(store, testAdmin)
	body := `{"type":"admin","first_name":"A","last_name":"B","email":"dup@fleet.test","password":"password1"}`
	send(h, http.MethodPost, "/staff", body)
	rec := send(h, http.MethodPost, "/staff", body)
	if rec.Code != http.StatusBadRequest || !strings.Contains(rec.Body.String(), "already exists") {
		t.Fatalf("duplicate = %d %s", rec.Code, rec.Body.String())
	}
}

func TestCreateStaffEmailIsCaseInsensitive(t *testing.T) {
	store := newFakeStaffStore()
	h := staffRouter(store, testAdmin)
	first := send(h, http.MethodPost, "/staff",
		`{"type":"driver","first_name":"Ana","last_name":"Horvat","email":" Ana@Fleet.Test ","password":"password1"}`)
	if first.Code != http.StatusCreated {
		t.Fatalf("create = %d %s", first.Code, first.Body.String())
	}
	rec := send(h, http.MethodPost, "/staff",
		`{"type":"driver","first_name":"Ana","last_name":"Dup","email":"ana@fleet.test","password":"password1"}`)
	if rec.Code != http.StatusBadRequest || !strings.Contains(rec.Body.String(), "already exists") {
		t.Fatalf("mixed-case duplicate = %d %s", rec.Code, rec.Body.String())
	}
	if len(store.created) != 1 || store.created[0].Email != "ana@fleet.test" {
		t.Fatalf("stored = %+v", store.created)
	}
}

func TestUpdateStaffKeepsPasswordWhenOmitted(t *testing.T) {
	store := newFakeStaffStore()
	h := staffRouter(store, testAdmin)
	rec := send(h, http.MethodPut, "/staff/9?type=driver", `{"first_name":"Ana","last_name":"K","email":"ana@fleet.test"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body.String())
	}
	if store.updated[9].PasswordHash != "" {
		t.Error("password hash set although no password was sent")
	}
}

func TestListStaffWithoutTypeReturnsBothTables(t *testing.T) {
	rec := send(staffRouter(newFakeStaffStore(), testAdmin), http.MethodGet, "/staff", "")
	var body struct {
		Data map[string][]models.Staff `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatal(err)
	}
	if len(body.Data["admins"]) != 1 || len(body.Data["drivers"]) != 1 {
		t.Fatalf("data = %+v", body.Data)
	}
	if strings.Contains(rec.Body.String(), "password") {
		t.Error("staff listing leaks a password field")
	}
}

func TestGetStaffMissingIs404(t *testing.T) {
	rec := send(staffRouter(newFakeStaffStore(), testAdmin), http.MethodGet, "/staff/3?type=admin", "")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
}

func TestDeactivateStaff(t *testing.T) {
	store := newFakeStaffStore()
	h := staffRouter(store, testAdmin)

	if rec := send(h, http.MethodDelete, "/staff/12?type=driver", ""); rec.Code != http.StatusOK {
		t.Fatalf("deactivate = %d", rec.Code)
	}
	if active, ok := store.active["drivers:12"]; !ok || active {
		t.Fatalf("driver 12 not deactivated: %v", store.active)
	}

	self := "/staff/" + itoa(testAdmin.ID) + "?type=admin"
	if rec := send(h, http.MethodDelete, self, ""); rec.Code != http.StatusBadRequest {
		t.Errorf("self deactivation = %d, want 400", rec.Code)
	}

	if rec := send(h, http.MethodPost, "/staff/12/restore?type=driver", ""); rec.Code != http.StatusOK || !store.active["drivers:12"] {
		t.Errorf("restore = %d, active = %v", rec.Code, store.active["drivers:12"])
	}
}
