package router_test

import (
	"context"
	"sort"
	"sync"

	"fleet-backend/internal/apperrors"
	"fleet-backend/internal/database"
	"fleet-backend/internal/models"
	"fleet-backend/internal/router"
)

// memStore keeps just enough rows in memory for the HTTP scenarios. Methods
// the scenarios never reach fall through to the nil embedded interface.
type memStore struct {
	router.Store

	mu       sync.Mutex
	nextID   int64
	clients  map[int64]*models.Client
	vehicles map[int64]*models.Vehicle
	runs     map[int64]*models.Run
	invoices map[int64]*models.Invoice
	tokens   map[int64][]string
}

func newMemStore() *memStore {
	return &memStore{
		clients:  map[int64]*models.Client{},
		vehicles: map[int64]*models.Vehicle{},
		runs:     map[int64]*models.Run{},
		invoices: map[int64]*models.Invoice{},
		tokens:   map[int64][]string{},
	}
}

func (m *memStore) id() int64 {
	m.nextID++
	return m.nextID
}

func (m *memStore) SetActive(ctx context.Context, entity database.Entity, id int64, active bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	switch entity {
	case database.EntityClient:
		if c, ok := m.clients[id]; ok {
			c.Active = active
			return nil
		}
	case database.EntityVehicle:
		if v, ok := m.vehicles[id]; ok {
			v.Active = active
			return nil
		}
	case database.EntityRun:
		if r, ok := m.runs[id]; ok {
			r.Active = active
			return nil
		}
	}
	return apperrors.NotFound(entity.Label() + " not found")
}

func (m *memStore) ListClients(ctx context.Context) ([]models.Client, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []models.Client{}
	for _, c := range m.clients {
		if c.Active {
			out = append(out, *c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *memStore) GetClient(ctx context.Context, id int64) (*models.Client, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.clients[id]
	if !ok || !c.Active {
		return nil, apperrors.NotFound("Client not found")
	}
	cp := *c
	return &cp, nil
}

// CreateClient mirrors the unique index on company_name, which covers
// inactive rows too.
func (m *memStore) CreateClient(ctx context.Context, in models.ClientInput) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, c := range m.clients {
		if c.CompanyName == in.CompanyName {
			return 0, apperrors.Conflict("A client with this company name already exists")
		}
	}
	c := &models.Client{ID: m.id(), CompanyName: in.CompanyName, City: in.City, Email: in.Email, Active: true}
	m.clients[c.ID] = c
	return c.ID, nil
}

func (m *memStore) addVehicle(plate string) int64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	v := &models.Vehicle{ID: m.id(), Plate: plate, Make: "MAN", Model: "TGX", Active: true}
	m.vehicles[v.ID] = v
	return v.ID
}

func (m *memStore) ListVehicles(ctx context.Context) ([]models.Vehicle, error) {
	return m.ListVehiclesByIDs(ctx, nil)
}

// ListVehiclesByIDs treats a nil ids slice as "all" for ListVehicles.
func (m *memStore) ListVehiclesByIDs(ctx context.Context, ids []int64) ([]models.Vehicle, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []models.Vehicle{}
	for _, v := range m.vehicles {
		if !v.Active {
			continue
		}
		if ids != nil && !contains(ids, v.ID) {
			continue
		}
		out = append(out, *v)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *memStore) GetVehicle(ctx context.Context, id int64) (*models.Vehicle, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.vehicles[id]
	if !ok || !v.Active {
		return nil, apperrors.NotFound("Vehicle not found")
	}
	cp := *v
	return &cp, nil
}

func (m *memStore) ListRuns(ctx context.Context, f database.RunFilter) ([]models.Run, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []models.Run{}
	for _, r := range m.runs {
		if !r.Active || (f.DriverID != nil && r.DriverID != *f.DriverID) || (f.Status != "" && r.Status != f.Status) {
			continue
		}
		out = append(out, *r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *memStore) GetRun(ctx context.Context, id int64) (*models.Run, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.runs[id]
	if !ok || !r.Active {
		return nil, apperrors.NotFound("Run not found")
	}
	cp := *r
	if v, ok := m.vehicles[cp.VehicleID]; ok {
		plate := v.Plate
		cp.VehiclePlate = &plate
	}
	return &cp, nil
}

func (m *memStore) CreateRun(ctx context.Context, r *models.Run) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if r.Status == "" {
		r.Status = models.RunStatusInProgress
	}
	cp := *r
	cp.ID = m.id()
	cp.Active = true
	m.runs[cp.ID] = &cp
	return cp.ID, nil
}

func (m *memStore) UpdateRun(ctx context.Context, r *models.Run) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.runs[r.ID]; !ok {
		return apperrors.NotFound("Run not found")
	}
	cp := *r
	m.runs[r.ID] = &cp
	return nil
}

func (m *memStore) DeviceTokensForDriver(ctx context.Context, driverID int64) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string{}, m.tokens[driverID]...), nil
}

func (m *memStore) ListInvoices(ctx context.Context) ([]models.Invoice, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []models.Invoice{}
	for _, inv := range m.invoices {
		out = append(out, *inv)
	}
	return out, nil
}

func (m *memStore) GetInvoice(ctx context.Context, id int64) (*models.Invoice, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	inv, ok := m.invoices[id]
	if !ok {
		return nil, apperrors.NotFound("Invoice not found")
	}
	cp := *inv
	return &cp, nil
}

func (m *memStore) CreateInvoice(ctx context.Context, inv *models.Invoice) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.invoices {
		if existing.InvoiceNumber == inv.InvoiceNumber {
			return 0, apperrors.Conflict("An invoice with this number already exists")
		}
	}
	cp := *inv
	cp.ID = m.id()
	m.invoices[cp.ID] = &cp
	return cp.ID, nil
}

func (m *memStore) UpdateInvoice(ctx context.Context, inv *models.Invoice) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.invoices[inv.ID]; !ok {
		return apperrors.NotFound("Invoice not found")
	}
	cp := *inv
	m.invoices[inv.ID] = &cp
	return nil
}

func (m *memStore) DeleteInvoice(ctx context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.invoices[id]; !ok {
		return apperrors.NotFound("Invoice not found")
	}
	delete(m.invoices, id)
	return nil
}

func contains(ids []int64, id int64) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}

type fakeResolver map[int64][]int64

func (f fakeResolver) ResolveVehicles(ctx context.Context, driverID int64) ([]int64, error) {
	ids := f[driverID]
	if ids == nil {
		return []int64{}, nil
	}
	return ids, nil
}

type fakeNotifier struct {
	mu     sync.Mutex
	calls  []string
	plates []string
}

func (n *fakeNotifier) NotifyRunAssigned(ctx context.Context, tokens []string, run *models.Run) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.calls = append(n.calls, run.RunNumber)
	if run.VehiclePlate != nil {
		n.plates = append(n.plates, *run.VehiclePlate)
	}
	return nil
}
