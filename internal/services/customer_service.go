package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/joshua-takyi/courtdesk/internal/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	defaultCustomerPageSize = 50
	maxCustomerPageSize     = 200
)

// CustomerInput uses pointers so an update can tell "not sent" from "clear".
type CustomerInput struct {
	FirstName  *string `json:"first_name" validate:"omitempty,max=100"`
	LastName   *string `json:"last_name" validate:"omitempty,max=100"`
	Email      *string `json:"email" validate:"omitempty,max=254"`
	Phone      *string `json:"phone" validate:"omitempty,max=40"`
	Address    *string `json:"address" validate:"omitempty,max=300"`
	City       *string `json:"city" validate:"omitempty,max=100"`
	PostalCode *string `json:"postal_code" validate:"omitempty,max=20"`
	Notes      *string `json:"notes" validate:"omitempty,max=2000"`
}

func (in CustomerInput) apply(c *models.Customer) {
	set := func(dst *string, src *string) {
		if src != nil {
			*dst = *src
		}
	}
	set(&c.FirstName, in.FirstName)
	set(&c.LastName, in.LastName)
	set(&c.Email, in.Email)
	set(&c.Phone, in.Phone)
	set(&c.Address, in.Address)
	set(&c.City, in.City)
	set(&c.PostalCode, in.PostalCode)
	set(&c.Notes, in.Notes)
}

type ListCustomersInput struct {
	Query  string `form:"q"`
	Offset int    `form:"offset"`
	Limit  int    `form:"limit"`
}

type CustomerPage struct {
	Customers []*models.Customer `json:"customers"`
	Total     int                `json:"total"`
	Offset    int                `json:"offset"`
	Limit     int                `json:"limit"`
}

// ActiveReservationCounter reports pending or confirmed reservations held by a customer.
type ActiveReservationCounter interface {
	CountActiveReservations(ctx context.Context, customerID primitive.ObjectID) (int64, error)
}

type CustomerService struct {
	customers    models.CustomersRepo
	reservations ActiveReservationCounter
}

func NewCustomerService(customers models.CustomersRepo, reservations ActiveReservationCounter) *CustomerService {
	return &CustomerService{
		customers:    customers,
		reservations: reservations,
	}
}

func (cs *CustomerService) CreateCustomer(ctx context.Context, in CustomerInput) (*models.Customer, error) {
	if err := models.Validate.Struct(in); err != nil {
		return nil, validationErrorFrom(err)
	}
	customer := &models.Customer{}
	in.apply(customer)
	customer.Sanitize()
	if err := checkCustomer(customer); err != nil {
		return nil, err
	}

	created, err := cs.customers.CreateCustomer(ctx, customer)
	if err != nil {
		return nil, storeError(err, "customer")
	}
	return created, nil
}

func (cs *CustomerService) UpdateCustomer(ctx context.Context, id string, in CustomerInput) (*models.Customer, error) {
	customerID, err := parseID("id", id)
	if err != nil {
		return nil, err
	}
	if err := models.Validate.Struct(in); err != nil {
		return nil, validationErrorFrom(err)
	}

	customer, err := cs.customers.GetCustomerByID(ctx, customerID)
	if err != nil {
		return nil, storeError(err, "customer")
	}
	in.apply(customer)
	customer.Sanitize()
	if err := checkCustomer(customer); err != nil {
		return nil, err
	}

	updated, err := cs.customers.ReplaceCustomer(ctx, customer)
	if err != nil {
		return nil, storeError(err, "customer")
	}
	return updated, nil
}

func (cs *CustomerService) GetCustomer(ctx context.Context, id string) (*models.Customer, error) {
	customerID, err := parseID("id", id)
	if err != nil {
		return nil, err
	}
	customer, err := cs.customers.GetCustomerByID(ctx, customerID)
	if err != nil {
		return nil, storeError(err, "customer")
	}
	return customer, nil
}

func (cs *CustomerService) ListCustomers(ctx context.Context, in ListCustomersInput) (*CustomerPage, error) {
	if in.Offset < 0 {
		in.Offset = 0
	}
	switch {
	case in.Limit <= 0:
		in.Limit = defaultCustomerPageSize
	case in.Limit > maxCustomerPageSize:
		in.Limit = maxCustomerPageSize
	}

	customers, total, err := cs.customers.ListCustomers(ctx, strings.TrimSpace(in.Query), in.Offset, in.Limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list customers: %w", err)
	}
	return &CustomerPage{
		Customers: customers,
		Total:     total,
		Offset:    in.Offset,
		Limit:     in.Limit,
	}, nil
}

// DeleteCustomer refuses while the customer still holds pending or confirmed reservations.
func (cs *CustomerService) DeleteCustomer(ctx context.Context, id string) error {
	customerID, err := parseID("id", id)
	if err != nil {
		return err
	}
	if _, err := cs.customers.GetCustomerByID(ctx, customerID); err != nil {
		return storeError(err, "customer")
	}

	active, err := cs.reservations.CountActiveReservations(ctx, customerID)
	if err != nil {
		return fmt.Errorf("failed to count reservations: %w", err)
	}
	if active > 0 {
		return &InUseError{Resource: "customer", Count: active}
	}
	return storeError(cs.customers.DeleteCustomer(ctx, customerID), "customer")
}

func checkCustomer(c *models.Customer) error {
	fields := map[string]string{}
	if c.FirstName == "" {
		fields["first_name"] = "is required"
	}
	if c.LastName == "" {
		fields["last_name"] = "is required"
	}
	if c.Email != "" && !models.IsEmail(c.Email) {
		fields["email"] = "must be a valid email address"
	}
	if len(fields) > 0 {
		return &ValidationError{Fields: fields}
	}
	return nil
}
