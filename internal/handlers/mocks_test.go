package handlers

import (
	"context"

	"github.com/joshua-takyi/courtdesk/internal/models"
	"github.com/joshua-takyi/courtdesk/internal/services"
	"github.com/stretchr/testify/mock"
)

type mockReservations struct {
	mock.Mock
}

func (m *mockReservations) CreateReservation(ctx context.Context, in services.CreateReservationInput) (*models.ReservationView, error) {
	args := m.Called(ctx, in)
	v, _ := args.Get(0).(*models.ReservationView)
	return v, args.Error(1)
}

func (m *mockReservations) UpdateReservation(ctx context.Context, id string, in services.UpdateReservationInput) (*models.ReservationView, error) {
	args := m.Called(ctx, id, in)
	v, _ := args.Get(0).(*models.ReservationView)
	return v, args.Error(1)
}

func (m *mockReservations) CancelReservation(ctx context.Context, id string) (*models.ReservationView, error) {
	args := m.Called(ctx, id)
	v, _ := args.Get(0).(*models.ReservationView)
	return v, args.Error(1)
}

func (m *mockReservations) MarkReservationPaid(ctx context.Context, id string) (*models.ReservationView, error) {
	args := m.Called(ctx, id)
	v, _ := args.Get(0).(*models.ReservationView)
	return v, args.Error(1)
}

func (m *mockReservations) DeleteReservation(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

func (m *mockReservations) GetReservation(ctx context.Context, id string) (*models.ReservationView, error) {
	args := m.Called(ctx, id)
	v, _ := args.Get(0).(*models.ReservationView)
	return v, args.Error(1)
}

func (m *mockReservations) ListReservations(ctx context.Context, in services.ListReservationsInput) ([]*models.ReservationView, error) {
	args := m.Called(ctx, in)
	v, _ := args.Get(0).([]*models.ReservationView)
	return v, args.Error(1)
}

func (m *mockReservations) ReservationsForDay(ctx context.Context, date string) (*services.DayReservations, error) {
	args := m.Called(ctx, date)
	v, _ := args.Get(0).(*services.DayReservations)
	return v, args.Error(1)
}

func (m *mockReservations) CheckAvailability(ctx context.Context, q services.AvailabilityQuery) (services.ConflictReport, error) {
	args := m.Called(ctx, q)
	return args.Get(0).(services.ConflictReport), args.Error(1)
}

type mockCourts struct {
	mock.Mock
}

func (m *mockCourts) CreateCourt(ctx context.Context, in services.CourtInput) (*models.Court, error) {
	args := m.Called(ctx, in)
	v, _ := args.Get(0).(*models.Court)
	return v, args.Error(1)
}

func (m *mockCourts) UpdateCourt(ctx context.Context, id string, in services.CourtInput) (*models.Court, error) {
	args := m.Called(ctx, id, in)
	v, _ := args.Get(0).(*models.Court)
	return v, args.Error(1)
}

func (m *mockCourts) SetCourtStatus(ctx context.Context, id string, status models.CourtStatus) (*models.Court, error) {
	args := m.Called(ctx, id, status)
	v, _ := args.Get(0).(*models.Court)
	return v, args.Error(1)
}

func (m *mockCourts) GetCourt(ctx context.Context, id string) (*models.Court, error) {
	args := m.Called(ctx, id)
	v, _ := args.Get(0).(*models.Court)
	return v, args.Error(1)
}

func (m *mockCourts) ListCourts(ctx context.Context, filter models.CourtFilter) ([]*models.Court, error) {
	args := m.Called(ctx, filter)
	v, _ := args.Get(0).([]*models.Court)
	return v, args.Error(1)
}

func (m *mockCourts) DeleteCourt(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

type mockCustomers struct {
	mock.Mock
}

func (m *mockCustomers) CreateCustomer(ctx context.Context, in services.CustomerInput) (*models.Customer, error) {
	args := m.Called(ctx, in)
	v, _ := args.Get(0).(*models.Customer)
	return v, args.Error(1)
}

func (m *mockCustomers) UpdateCustomer(ctx context.Context, id string, in services.CustomerInput) (*models.Customer, error) {
	args := m.Called(ctx, id, in)
	v, _ := args.Get(0).(*models.Customer)
	return v, args.Error(1)
}

func (m *mockCustomers) GetCustomer(ctx context.Context, id string) (*models.Customer, error) {
	args := m.Called(ctx, id)
	v, _ := args.Get(0).(*models.Customer)
	return v, args.Error(1)
}

func (m *mockCustomers) ListCustomers(ctx context.Context, in services.ListCustomersInput) (*services.CustomerPage, error) {
	args := m.Called(ctx, in)
	v, _ := args.Get(0).(*services.CustomerPage)
	return v, args.Error(1)
}

func (m *mockCustomers) DeleteCustomer(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

type mockConfiguration struct {
	mock.Mock
}

func (m *mockConfiguration) GetConfiguration(ctx context.Context) (*models.Configuration, error) {
	args := m.Called(ctx)
	v, _ := args.Get(0).(*models.Configuration)
	return v, args.Error(1)
}

func (m *mockConfiguration) UpdateConfiguration(ctx context.Context, in services.ConfigurationInput) (*models.Configuration, error) {
	args := m.Called(ctx, in)
	v, _ := args.Get(0).(*models.Configuration)
	return v, args.Error(1)
}

func (m *mockConfiguration) ResetConfiguration(ctx context.Context) (*models.Configuration, error) {
	args := m.Called(ctx)
	v, _ := args.Get(0).(*models.Configuration)
	return v, args.Error(1)
}
