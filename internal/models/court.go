package models

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type CourtCategory string

const (
	CategorySoccer5    CourtCategory = "soccer5"
	CategorySoccer7    CourtCategory = "soccer7"
	CategorySoccer11   CourtCategory = "soccer11"
	CategoryTennis     CourtCategory = "tennis"
	CategoryPadel      CourtCategory = "padel"
	CategoryBasketball CourtCategory = "basketball"
	CategoryVolleyball CourtCategory = "volleyball"
	CategoryHockey     CourtCategory = "hockey"
	CategoryOther      CourtCategory = "other"
)

type CourtStatus string

const (
	CourtAvailable   CourtStatus = "available"
	CourtMaintenance CourtStatus = "maintenance"
	CourtInactive    CourtStatus = "inactive"
)

type Court struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name        string             `bson:"name" json:"name"`
	Category    CourtCategory      `bson:"category" json:"category"`
	HourlyPrice float64            `bson:"hourly_price" json:"hourly_price"`
	Status      CourtStatus        `bson:"status" json:"status"`
	OpeningTime string             `bson:"opening_time" json:"opening_time"`
	ClosingTime string             `bson:"closing_time" json:"closing_time"`
	Days        WeekdaySet         `bson:"days_available" json:"days_available"`
	Description string             `bson:"description,omitempty" json:"description,omitempty"`
	CreatedAt   time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt   time.Time          `bson:"updated_at" json:"updated_at"`
}

// CourtSummary is the court projection joined onto reservations for display.
type CourtSummary struct {
	ID       primitive.ObjectID `bson:"_id" json:"id"`
	Name     string             `bson:"name" json:"name"`
	Category CourtCategory      `bson:"category" json:"category"`
}

type CourtFilter struct {
	Category CourtCategory
	Status   CourtStatus
}

type CourtsRepo interface {
	CreateCourt(ctx context.Context, court *Court) (*Court, error)
	GetCourtByID(ctx context.Context, id primitive.ObjectID) (*Court, error)
	ListCourts(ctx context.Context, filter CourtFilter) ([]*Court, error)
	UpdateCourt(ctx context.Context, court *Court) (*Court, error)
	SetCourtStatus(ctx context.Context, id primitive.ObjectID, status CourtStatus) (*Court, error)
	DeleteCourt(ctx context.Context, id primitive.ObjectID) error
}

func (c *Court) BeforeCreate() {
	if c.ID.IsZero() {
		c.ID = primitive.NewObjectID()
	}
	now := time.Now().UTC()
	c.CreatedAt = now
	c.UpdatedAt = now
}

func (mdb *MongodbRepo) CreateCourt(ctx context.Context, court *Court) (*Court, error) {
	col, err := mdb.GetCollection(ctx, CourtsColName)
	if err != nil {
		return nil, fmt.Errorf("error getting collection: %w", err)
	}
	court.BeforeCreate()
	if _, err := col.InsertOne(ctx, court); err != nil {
		return nil, fmt.Errorf("error inserting court: %w", mapStoreError(err))
	}
	return court, nil
}

func (mdb *MongodbRepo) GetCourtByID(ctx context.Context, id primitive.ObjectID) (*Court, error) {
	col, err := mdb.GetCollection(ctx, CourtsColName)
	if err != nil {
		return nil, fmt.Errorf("error getting collection: %w", err)
	}
	var court Court
	if err := col.FindOne(ctx, bson.M{"_id": id}).Decode(&court); err != nil {
		return nil, mapStoreError(err)
	}
	return &court, nil
}

func (mdb *MongodbRepo) ListCourts(ctx context.Context, filter CourtFilter) ([]*Court, error) {
	col, err := mdb.GetCollection(ctx, CourtsColName)
	if err != nil {
		return nil, fmt.Errorf("error getting collection: %w", err)
	}

	query := bson.M{}
	if filter.Category != "" {
		query["category"] = filter.Category
	}
	if filter.Status != "" {
		query["status"] = filter.Status
	}

	opts := options.Find().SetSort(bson.D{{Key: "name", Value: 1}})
	cursor, err := col.Find(ctx, query, opts)
	if err != nil {
		return nil, fmt.Errorf("error finding courts: %w", err)
	}
	defer cursor.Close(ctx)

	courts := []*Court{}
	if err := cursor.All(ctx, &courts); err != nil {
		return nil, fmt.Errorf("error decoding courts: %w", err)
	}
	return courts, nil
}

func (mdb *MongodbRepo) UpdateCourt(ctx context.Context, court *Court) (*Court, error) {
	col, err := mdb.GetCollection(ctx, CourtsColName)
	if err != nil {
		return nil, fmt.Errorf("error getting collection: %w", err)
	}

	court.UpdatedAt = time.Now().UTC()
	set := bson.M{
		"name":           court.Name,
		"category":       court.Category,
		"hourly_price":   court.HourlyPrice,
		"status":         court.Status,
		"opening_time":   court.OpeningTime,
		"closing_time":   court.ClosingTime,
		"days_available": court.Days,
		"updated_at":     court.UpdatedAt,
	}
	update := bson.M{"$set": set}
	if court.Description == "" {
		update["$unset"] = bson.M{"description": ""}
	} else {
		set["description"] = court.Description
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var updated Court
	if err := col.FindOneAndUpdate(ctx, bson.M{"_id": court.ID}, update, opts).Decode(&updated); err != nil {
		return nil, mapStoreError(err)
	}
	return &updated, nil
}

func (mdb *MongodbRepo) SetCourtStatus(ctx context.Context, id primitive.ObjectID, status CourtStatus) (*Court, error) {
	col, err := mdb.GetCollection(ctx, CourtsColName)
	if err != nil {
		return nil, fmt.Errorf("error getting collection: %w", err)
	}

	update := bson.M{"$set": bson.M{"status": status, "updated_at": time.Now().UTC()}}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var updated Court
	if err := col.FindOneAndUpdate(ctx, bson.M{"_id": id}, update, opts).Decode(&updated); err != nil {
		return nil, mapStoreError(err)
	}
	return &updated, nil
}

func (mdb *MongodbRepo) DeleteCourt(ctx context.Context, id primitive.ObjectID) error {
	col, err := mdb.GetCollection(ctx, CourtsColName)
	if err != nil {
		return fmt.Errorf("error getting collection: %w", err)
	}
	res, err := col.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("error deleting court: %w", err)
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// touchCourt bumps the court's booking_version inside a transaction so two writers
// booking the same court collide on this document.
func (mdb *MongodbRepo) touchCourt(ctx context.Context, id primitive.ObjectID) error {
	col, err := mdb.GetCollection(ctx, CourtsColName)
	if err != nil {
		return fmt.Errorf("error getting collection: %w", err)
	}
	res, err := col.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$inc": bson.M{"booking_version": 1}})
	if err != nil {
		return fmt.Errorf("error locking court: %w", err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}
