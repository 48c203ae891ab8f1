package models

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// EnsureIndexes creates the indexes the repositories rely on. Safe to call on every start.
func (mdb *MongodbRepo) EnsureIndexes(ctx context.Context) error {
	indexes := map[string][]mongo.IndexModel{
		CustomersColName: {
			// sparse: customers without a phone never collide
			{
				Keys: bson.D{{Key: "phone", Value: 1}},
				Options: options.Index().
					SetUnique(true).
					SetSparse(true).
					SetName("customer_phone_unique"),
			},
			{
				Keys:    bson.D{{Key: "first_name", Value: 1}, {Key: "last_name", Value: 1}},
				Options: options.Index().SetName("customer_name_idx"),
			},
		},
		ReservationsColName: {
			// serves the overlap query
			{
				Keys: bson.D{
					{Key: "court", Value: 1},
					{Key: "start_time", Value: 1},
					{Key: "end_time", Value: 1},
				},
				Options: options.Index().SetName("reservation_court_interval_idx"),
			},
			{
				Keys:    bson.D{{Key: "customer", Value: 1}},
				Options: options.Index().SetName("reservation_customer_idx"),
			},
			{
				Keys:    bson.D{{Key: "status", Value: 1}, {Key: "end_time", Value: 1}},
				Options: options.Index().SetName("reservation_status_end_idx"),
			},
		},
		CourtsColName: {
			{
				Keys:    bson.D{{Key: "name", Value: 1}},
				Options: options.Index().SetName("court_name_idx"),
			},
		},
	}

	for colName, models := range indexes {
		col, err := mdb.GetCollection(ctx, colName)
		if err != nil {
			return fmt.Errorf("error getting collection: %w", err)
		}
		if _, err := col.Indexes().CreateMany(ctx, models); err != nil {
			return fmt.Errorf("error creating %s indexes: %w", colName, err)
		}
	}
	return nil
}
