package models

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// Email and Phone are omitted from the document when empty so the sparse
// phone index never sees null values.
type Customer struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	FirstName  string             `bson:"first_name" json:"first_name"`
	LastName   string             `bson:"last_name" json:"last_name"`
	Email      string             `bson:"email,omitempty" json:"email,omitempty"`
	Phone      string             `bson:"phone,omitempty" json:"phone,omitempty"`
	Address    string             `bson:"address,omitempty" json:"address,omitempty"`
	City       string             `bson:"city,omitempty" json:"city,omitempty"`
	PostalCode string             `bson:"postal_code,omitempty" json:"postal_code,omitempty"`
	Notes      string             `bson:"notes,omitempty" json:"notes,omitempty"`
	CreatedAt  time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt  time.Time          `bson:"updated_at" json:"updated_at"`
}

type CustomerSummary struct {
	ID        primitive.ObjectID `bson:"_id" json:"id"`
	FirstName string             `bson:"first_name" json:"first_name"`
	LastName  string             `bson:"last_name" json:"last_name"`
	Email     string             `bson:"email,omitempty" json:"email,omitempty"`
}

type CustomersRepo interface {
	CreateCustomer(ctx context.Context, customer *Customer) (*Customer, error)
	GetCustomerByID(ctx context.Context, id primitive.ObjectID) (*Customer, error)
	ListCustomers(ctx context.Context, term string, offset, limit int) ([]*Customer, int, error)
	ReplaceCustomer(ctx context.Context, customer *Customer) (*Customer, error)
	DeleteCustomer(ctx context.Context, id primitive.ObjectID) error
}

func (c *Customer) FullName() string {
	return strings.TrimSpace(c.FirstName + " " + c.LastName)
}

// Sanitize trims every text field and lower-cases the email.
func (c *Customer) Sanitize() {
	c.FirstName = strings.TrimSpace(c.FirstName)
	c.LastName = strings.TrimSpace(c.LastName)
	c.Email = strings.ToLower(strings.TrimSpace(c.Email))
	c.Phone = strings.TrimSpace(c.Phone)
	c.Address = strings.TrimSpace(c.Address)
	c.City = strings.TrimSpace(c.City)
	c.PostalCode = strings.TrimSpace(c.PostalCode)
	c.Notes = strings.TrimSpace(c.Notes)
}

func IsEmail(s string) bool {
	return emailPattern.MatchString(s)
}

func (c *Customer) BeforeCreate() {
	if c.ID.IsZero() {
		c.ID = primitive.NewObjectID()
	}
	now := time.Now().UTC()
	c.CreatedAt = now
	c.UpdatedAt = now
}

func customerSearchFilter(term string) bson.M {
	term = strings.TrimSpace(term)
	if term == "" {
		return bson.M{}
	}
	pattern := primitive.Regex{Pattern: regexp.QuoteMeta(term), Options: "i"}
	return bson.M{"$or": bson.A{
		bson.M{"first_name": pattern},
		bson.M{"last_name": pattern},
		bson.M{"email": pattern},
	}}
}

func (mdb *MongodbRepo) CreateCustomer(ctx context.Context, customer *Customer) (*Customer, error) {
	col, err := mdb.GetCollection(ctx, CustomersColName)
	if err != nil {
		return nil, fmt.Errorf("error getting collection: %w", err)
	}
	customer.BeforeCreate()
	if _, err := col.InsertOne(ctx, customer); err != nil {
		return nil, fmt.Errorf("error inserting customer: %w", mapStoreError(err))
	}
	return customer, nil
}

func (mdb *MongodbRepo) GetCustomerByID(ctx context.Context, id primitive.ObjectID) (*Customer, error) {
	col, err := mdb.GetCollection(ctx, CustomersColName)
	if err != nil {
		return nil, fmt.Errorf("error getting collection: %w", err)
	}
	var customer Customer
	if err := col.FindOne(ctx, bson.M{"_id": id}).Decode(&customer); err != nil {
		return nil, mapStoreError(err)
	}
	return &customer, nil
}

func (mdb *MongodbRepo) ListCustomers(ctx context.Context, term string, offset, limit int) ([]*Customer, int, error) {
	col, err := mdb.GetCollection(ctx, CustomersColName)
	if err != nil {
		return nil, 0, fmt.Errorf("error getting collection: %w", err)
	}

	filter := customerSearchFilter(term)
	total, err := col.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("error counting customers: %w", err)
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "first_name", Value: 1}, {Key: "last_name", Value: 1}}).
		SetSkip(int64(offset)).
		SetLimit(int64(limit))
	cursor, err := col.Find(ctx, filter, opts)
	if err != nil {
		return nil, 0, fmt.Errorf("error finding customers: %w", err)
	}
	defer cursor.Close(ctx)

	customers := []*Customer{}
	if err := cursor.All(ctx, &customers); err != nil {
		return nil, 0, fmt.Errorf("error decoding customers: %w", err)
	}
	return customers, int(total), nil
}

// ReplaceCustomer writes the whole document, so cleared optional fields are removed rather than nulled.
func (mdb *MongodbRepo) ReplaceCustomer(ctx context.Context, customer *Customer) (*Customer, error) {
	col, err := mdb.GetCollection(ctx, CustomersColName)
	if err != nil {
		return nil, fmt.Errorf("error getting collection: %w", err)
	}
	customer.UpdatedAt = time.Now().UTC()
	res, err := col.ReplaceOne(ctx, bson.M{"_id": customer.ID}, customer)
	if err != nil {
		return nil, fmt.Errorf("error replacing customer: %w", mapStoreError(err))
	}
	if res.MatchedCount == 0 {
		return nil, ErrNotFound
	}
	return customer, nil
}

func (mdb *MongodbRepo) DeleteCustomer(ctx context.Context, id primitive.ObjectID) error {
	col, err := mdb.GetCollection(ctx, CustomersColName)
	if err != nil {
		return fmt.Errorf("error getting collection: %w", err)
	}
	res, err := col.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("error deleting customer: %w", err)
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}
