package services

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/joshua-takyi/courtdesk/internal/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// memStore is an in-memory stand-in for the Mongo repository.
type memStore struct {
	mu           sync.Mutex
	courts       map[primitive.ObjectID]*models.Court
	customers    map[primitive.ObjectID]*models.Customer
	reservations map[primitive.ObjectID]*models.Reservation
	settings     *models.Configuration

	// findDelay widens the window between availability check and insert.
	findDelay time.Duration
	writes    int
	failWith  error
}

func newMemStore() *memStore {
	return &memStore{
		courts:       map[primitive.ObjectID]*models.Court{},
		customers:    map[primitive.ObjectID]*models.Customer{},
		reservations: map[primitive.ObjectID]*models.Reservation{},
	}
}

func (m *memStore) addCourt(price float64) *models.Court {
	c := &models.Court{
		ID:          primitive.NewObjectID(),
		Name:        "Court " + primitive.NewObjectID().Hex()[18:],
		Category:    models.CategorySoccer5,
		HourlyPrice: price,
		Status:      models.CourtAvailable,
		OpeningTime: "08:00",
		ClosingTime: "22:00",
		Days:        models.AllWeekdays(),
	}
	m.mu.Lock()
	m.courts[c.ID] = c
	m.mu.Unlock()
	return c
}

func (m *memStore) addCustomer(first, last string) *models.Customer {
	c := &models.Customer{ID: primitive.NewObjectID(), FirstName: first, LastName: last}
	m.mu.Lock()
	m.customers[c.ID] = c
	m.mu.Unlock()
	return c
}

func (m *memStore) addReservation(r models.Reservation) *models.Reservation {
	r.BeforeCreate()
	m.mu.Lock()
	m.reservations[r.ID] = &r
	m.mu.Unlock()
	return &r
}

func (m *memStore) reservation(id primitive.ObjectID) *models.Reservation {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.reservations[id]
	if !ok {
		return nil
	}
	cp := *r
	return &cp
}

func (m *memStore) writeCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.writes
}

func (m *memStore) allReservations() []models.Reservation {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]models.Reservation, 0, len(m.reservations))
	for _, r := range m.reservations {
		out = append(out, *r)
	}
	return out
}

// courts

func (m *memStore) CreateCourt(_ context.Context, court *models.Court) (*models.Court, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	court.BeforeCreate()
	cp := *court
	m.courts[court.ID] = &cp
	m.writes++
	return court, nil
}

func (m *memStore) GetCourtByID(_ context.Context, id primitive.ObjectID) (*models.Court, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.courts[id]
	if !ok {
		return nil, models.ErrNotFound
	}
	cp := *c
	return &cp, nil
}

func (m *memStore) ListCourts(_ context.Context, filter models.CourtFilter) ([]*models.Court, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*models.Court
	for _, c := range m.courts {
		if filter.Category != "" && c.Category != filter.Category {
			continue
		}
		if filter.Status != "" && c.Status != filter.Status {
			continue
		}
		cp := *c
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (m *memStore) UpdateCourt(_ context.Context, court *models.Court) (*models.Court, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.courts[court.ID]; !ok {
		return nil, models.ErrNotFound
	}
	court.UpdatedAt = time.Now().UTC()
	cp := *court
	m.courts[court.ID] = &cp
	m.writes++
	return court, nil
}

func (m *memStore) SetCourtStatus(_ context.Context, id primitive.ObjectID, status models.CourtStatus) (*models.Court, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.courts[id]
	if !ok {
		return nil, models.ErrNotFound
	}
	c.Status = status
	m.writes++
	cp := *c
	return &cp, nil
}

func (m *memStore) DeleteCourt(_ context.Context, id primitive.ObjectID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.courts[id]; !ok {
		return models.ErrNotFound
	}
	delete(m.courts, id)
	m.writes++
	return nil
}

// customers

func (m *memStore) phoneTaken(phone string, except primitive.ObjectID) bool {
	if phone == "" {
		return false
	}
	for id, c := range m.customers {
		if id != except && c.Phone == phone {
			return true
		}
	}
	return false
}

func (m *memStore) CreateCustomer(_ context.Context, customer *models.Customer) (*models.Customer, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.phoneTaken(customer.Phone, primitive.NilObjectID) {
		return nil, &models.DuplicateKeyError{Fields: []string{"phone"}}
	}
	customer.BeforeCreate()
	cp := *customer
	m.customers[customer.ID] = &cp
	m.writes++
	return customer, nil
}

func (m *memStore) GetCustomerByID(_ context.Context, id primitive.ObjectID) (*models.Customer, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.customers[id]
	if !ok {
		return nil, models.ErrNotFound
	}
	cp := *c
	return &cp, nil
}

func (m *memStore) ListCustomers(_ context.Context, term string, offset, limit int) ([]*models.Customer, int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	term = strings.ToLower(term)
	var matched []*models.Customer
	for _, c := range m.customers {
		hay := strings.ToLower(c.FirstName + " " + c.LastName + " " + c.Email)
		if term != "" && !strings.Contains(hay, term) {
			continue
		}
		cp := *c
		matched = append(matched, &cp)
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i].LastName < matched[j].LastName })
	total := len(matched)
	if offset > total {
		offset = total
	}
	end := offset + limit
	if end > total {
		end = total
	}
	return matched[offset:end], total, nil
}

func (m *memStore) ReplaceCustomer(_ context.Context, customer *models.Customer) (*models.Customer, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.customers[customer.ID]; !ok {
		return nil, models.ErrNotFound
	}
	if m.phoneTaken(customer.Phone, customer.ID) {
		return nil, &models.DuplicateKeyError{Fields: []string{"phone"}}
	}
	cp := *customer
	m.customers[customer.ID] = &cp
	m.writes++
	return customer, nil
}

func (m *memStore) DeleteCustomer(_ context.Context, id primitive.ObjectID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.customers[id]; !ok {
		return models.ErrNotFound
	}
	delete(m.customers, id)
	m.writes++
	return nil
}

// reservations

func (m *memStore) FindConflict(_ context.Context, courtID primitive.ObjectID, start, end time.Time, excludeID *primitive.ObjectID) (*models.Reservation, error) {
	if m.failWith != nil {
		return nil, m.failWith
	}
	m.mu.Lock()
	var found *models.Reservation
	for _, r := range m.reservations {
		if r.Court != courtID || !r.Occupies() {
			continue
		}
		if excludeID != nil && r.ID == *excludeID {
			continue
		}
		if Overlaps(start, end, r.StartTime, r.EndTime) {
			cp := *r
			found = &cp
			break
		}
	}
	m.mu.Unlock()

	if m.findDelay > 0 {
		time.Sleep(m.findDelay)
	}
	return found, nil
}

func (m *memStore) CreateReservation(_ context.Context, r *models.Reservation) (*models.Reservation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	r.BeforeCreate()
	cp := *r
	m.reservations[r.ID] = &cp
	m.writes++
	return r, nil
}

func (m *memStore) GetReservationByID(_ context.Context, id primitive.ObjectID) (*models.Reservation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.reservations[id]
	if !ok {
		return nil, models.ErrNotFound
	}
	cp := *r
	return &cp, nil
}

func (m *memStore) viewLocked(r *models.Reservation) *models.ReservationView {
	v := &models.ReservationView{Reservation: *r}
	if c, ok := m.courts[r.Court]; ok {
		v.CourtInfo = &models.CourtSummary{ID: c.ID, Name: c.Name, Category: c.Category}
	}
	if c, ok := m.customers[r.Customer]; ok {
		v.CustomerInfo = &models.CustomerSummary{ID: c.ID, FirstName: c.FirstName, LastName: c.LastName, Email: c.Email}
	}
	return v
}

func (m *memStore) GetReservationView(_ context.Context, id primitive.ObjectID) (*models.ReservationView, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.reservations[id]
	if !ok {
		return nil, models.ErrNotFound
	}
	return m.viewLocked(r), nil
}

func (m *memStore) ListReservations(_ context.Context, f models.ReservationFilter) ([]*models.ReservationView, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*models.ReservationView
	for _, r := range m.reservations {
		if f.Court != nil && r.Court != *f.Court {
			continue
		}
		if f.Customer != nil && r.Customer != *f.Customer {
			continue
		}
		if f.Status != "" && r.Status != f.Status {
			continue
		}
		if f.From != nil && r.StartTime.Before(*f.From) {
			continue
		}
		if f.To != nil && !r.StartTime.Before(*f.To) {
			continue
		}
		out = append(out, m.viewLocked(r))
	}
	sort.Slice(out, func(i, j int) bool {
		if f.Ascending {
			return out[i].StartTime.Before(out[j].StartTime)
		}
		return out[i].StartTime.After(out[j].StartTime)
	})
	return out, nil
}

func (m *memStore) ReplaceReservation(_ context.Context, r *models.Reservation) (*models.Reservation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	stored, ok := m.reservations[r.ID]
	if !ok {
		return nil, models.ErrNotFound
	}
	if stored.Version != r.Version {
		return nil, models.ErrStaleWrite
	}
	next := *r
	next.Version++
	next.UpdatedAt = time.Now().UTC()
	cp := next
	m.reservations[r.ID] = &cp
	m.writes++
	return &next, nil
}

func (m *memStore) SetReservationStatus(_ context.Context, id primitive.ObjectID, status models.ReservationStatus) (*models.Reservation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.reservations[id]
	if !ok {
		return nil, models.ErrNotFound
	}
	r.Status = status
	r.Version++
	r.UpdatedAt = time.Now().UTC()
	m.writes++
	cp := *r
	return &cp, nil
}

func (m *memStore) MarkReservationPaid(_ context.Context, id primitive.ObjectID) (*models.Reservation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.reservations[id]
	if !ok {
		return nil, models.ErrNotFound
	}
	r.Paid = true
	r.Version++
	r.UpdatedAt = time.Now().UTC()
	m.writes++
	cp := *r
	return &cp, nil
}

func (m *memStore) DeleteReservation(_ context.Context, id primitive.ObjectID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.reservations[id]; !ok {
		return models.ErrNotFound
	}
	delete(m.reservations, id)
	m.writes++
	return nil
}

func (m *memStore) CountActiveReservations(_ context.Context, customerID primitive.ObjectID) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var n int64
	for _, r := range m.reservations {
		if r.Customer == customerID && (r.Status == models.ReservationPending || r.Status == models.ReservationConfirmed) {
			n++
		}
	}
	return n, nil
}

func (m *memStore) CompleteEndedReservations(_ context.Context, before time.Time) (int64, error) {
	if m.failWith != nil {
		return 0, m.failWith
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	var n int64
	for _, r := range m.reservations {
		if (r.Status == models.ReservationPending || r.Status == models.ReservationConfirmed) && !r.EndTime.After(before) {
			r.Status = models.ReservationCompleted
			r.Version++
			n++
		}
	}
	return n, nil
}

func (m *memStore) RunAtomically(ctx context.Context, _ primitive.ObjectID, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

// configuration

func (m *memStore) GetConfiguration(_ context.Context) (*models.Configuration, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.settings == nil {
		m.settings = models.DefaultConfiguration()
		m.settings.ID = primitive.NewObjectID()
	}
	cp := *m.settings
	return &cp, nil
}

func (m *memStore) SaveConfiguration(_ context.Context, cfg *models.Configuration) (*models.Configuration, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *cfg
	m.settings = &cp
	m.writes++
	return cfg, nil
}

func (m *memStore) ResetConfiguration(_ context.Context) (*models.Configuration, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.settings = models.DefaultConfiguration()
	m.settings.ID = primitive.NewObjectID()
	cp := *m.settings
	return &cp, nil
}

var errStoreDown = errors.New("connection refused")
