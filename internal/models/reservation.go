package models

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type ReservationStatus string

const (
	ReservationPending   ReservationStatus = "pending"
	ReservationConfirmed ReservationStatus = "confirmed"
	ReservationCancelled ReservationStatus = "cancelled"
	ReservationCompleted ReservationStatus = "completed"
)

func (s ReservationStatus) Valid() bool {
	switch s {
	case ReservationPending, ReservationConfirmed, ReservationCancelled, ReservationCompleted:
		return true
	}
	return false
}

// Reservation occupies [StartTime, EndTime) on Court unless cancelled.
// Price is a snapshot taken at write time, not a reference to the court's rate.
type Reservation struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Court     primitive.ObjectID `bson:"court" json:"court"`
	Customer  primitive.ObjectID `bson:"customer" json:"customer"`
	StartTime time.Time          `bson:"start_time" json:"start_time"`
	EndTime   time.Time          `bson:"end_time" json:"end_time"`
	Status    ReservationStatus  `bson:"status" json:"status"`
	Price     float64            `bson:"price" json:"price"`
	Paid      bool               `bson:"paid" json:"paid"`
	Notes     string             `bson:"notes,omitempty" json:"notes,omitempty"`
	CreatedAt time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time          `bson:"updated_at" json:"updated_at"`
	// Version is bumped by every write; ReplaceReservation only succeeds
	// against the version it was read at.
	Version int64 `bson:"version" json:"-"`
}

// ReservationView is a reservation with the court and customer summaries joined in.
type ReservationView struct {
	Reservation  `bson:",inline"`
	CourtInfo    *CourtSummary    `bson:"court_info,omitempty" json:"court_info,omitempty"`
	CustomerInfo *CustomerSummary `bson:"customer_info,omitempty" json:"customer_info,omitempty"`
}

type ReservationFilter struct {
	Court     *primitive.ObjectID
	Customer  *primitive.ObjectID
	Status    ReservationStatus
	From      *time.Time // start_time >= From
	To        *time.Time // start_time < To
	Ascending bool
}

type ReservationsRepo interface {
	FindConflict(ctx context.Context, courtID primitive.ObjectID, start, end time.Time, excludeID *primitive.ObjectID) (*Reservation, error)
	CreateReservation(ctx context.Context, r *Reservation) (*Reservation, error)
	GetReservationByID(ctx context.Context, id primitive.ObjectID) (*Reservation, error)
	GetReservationView(ctx context.Context, id primitive.ObjectID) (*ReservationView, error)
	ListReservations(ctx context.Context, filter ReservationFilter) ([]*ReservationView, error)
	ReplaceReservation(ctx context.Context, r *Reservation) (*Reservation, error)
	SetReservationStatus(ctx context.Context, id primitive.ObjectID, status ReservationStatus) (*Reservation, error)
	MarkReservationPaid(ctx context.Context, id primitive.ObjectID) (*Reservation, error)
	DeleteReservation(ctx context.Context, id primitive.ObjectID) error
	CountActiveReservations(ctx context.Context, customerID primitive.ObjectID) (int64, error)
	CompleteEndedReservations(ctx context.Context, before time.Time) (int64, error)
	RunAtomically(ctx context.Context, courtID primitive.ObjectID, fn func(ctx context.Context) error) error
}

func (r *Reservation) BeforeCreate() {
	if r.ID.IsZero() {
		r.ID = primitive.NewObjectID()
	}
	if r.Status == "" {
		r.Status = ReservationPending
	}
	now := time.Now().UTC()
	r.CreatedAt = now
	r.UpdatedAt = now
}

// Occupies reports whether the reservation takes part in overlap checks.
func (r *Reservation) Occupies() bool {
	return r.Status != ReservationCancelled
}

// overlapFilter matches non-cancelled reservations on courtID whose interval
// intersects [start, end). Touching intervals do not match.
func overlapFilter(courtID primitive.ObjectID, start, end time.Time, excludeID *primitive.ObjectID) bson.M {
	filter := bson.M{
		"court":      courtID,
		"status":     bson.M{"$ne": ReservationCancelled},
		"start_time": bson.M{"$lt": end},
		"end_time":   bson.M{"$gt": start},
	}
	if excludeID != nil {
		filter["_id"] = bson.M{"$ne": *excludeID}
	}
	return filter
}

func reservationFilterQuery(f ReservationFilter) bson.M {
	query := bson.M{}
	if f.Court != nil {
		query["court"] = *f.Court
	}
	if f.Customer != nil {
		query["customer"] = *f.Customer
	}
	if f.Status != "" {
		query["status"] = f.Status
	}
	if f.From != nil || f.To != nil {
		window := bson.M{}
		if f.From != nil {
			window["$gte"] = *f.From
		}
		if f.To != nil {
			window["$lt"] = *f.To
		}
		query["start_time"] = window
	}
	return query
}

func reservationViewPipeline(match bson.M, sortOrder int) mongo.Pipeline {
	return mongo.Pipeline{
		{{Key: "$match", Value: match}},
		{{Key: "$sort", Value: bson.D{{Key: "start_time", Value: sortOrder}}}},
		{{Key: "$lookup", Value: bson.M{
			"from":         CourtsColName,
			"localField":   "court",
			"foreignField": "_id",
			"as":           "court_info",
		}}},
		{{Key: "$unwind", Value: bson.M{"path": "$court_info", "preserveNullAndEmptyArrays": true}}},
		{{Key: "$lookup", Value: bson.M{
			"from":         CustomersColName,
			"localField":   "customer",
			"foreignField": "_id",
			"as":           "customer_info",
		}}},
		{{Key: "$unwind", Value: bson.M{"path": "$customer_info", "preserveNullAndEmptyArrays": true}}},
	}
}

func (mdb *MongodbRepo) FindConflict(ctx context.Context, courtID primitive.ObjectID, start, end time.Time, excludeID *primitive.ObjectID) (*Reservation, error) {
	col, err := mdb.GetCollection(ctx, ReservationsColName)
	if err != nil {
		return nil, fmt.Errorf("error getting collection: %w", err)
	}

	var conflict Reservation
	err = col.FindOne(ctx, overlapFilter(courtID, start, end, excludeID)).Decode(&conflict)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("error checking availability: %w", err)
	}
	return &conflict, nil
}

func (mdb *MongodbRepo) CreateReservation(ctx context.Context, r *Reservation) (*Reservation, error) {
	col, err := mdb.GetCollection(ctx, ReservationsColName)
	if err != nil {
		return nil, fmt.Errorf("error getting collection: %w", err)
	}
	r.BeforeCreate()
	if _, err := col.InsertOne(ctx, r); err != nil {
		return nil, fmt.Errorf("error inserting reservation: %w", mapStoreError(err))
	}
	return r, nil
}

func (mdb *MongodbRepo) GetReservationByID(ctx context.Context, id primitive.ObjectID) (*Reservation, error) {
	col, err := mdb.GetCollection(ctx, ReservationsColName)
	if err != nil {
		return nil, fmt.Errorf("error getting collection: %w", err)
	}
	var r Reservation
	if err := col.FindOne(ctx, bson.M{"_id": id}).Decode(&r); err != nil {
		return nil, mapStoreError(err)
	}
	return &r, nil
}

func (mdb *MongodbRepo) GetReservationView(ctx context.Context, id primitive.ObjectID) (*ReservationView, error) {
	views, err := mdb.aggregateViews(ctx, bson.M{"_id": id}, -1)
	if err != nil {
		return nil, err
	}
	if len(views) == 0 {
		return nil, ErrNotFound
	}
	return views[0], nil
}

func (mdb *MongodbRepo) ListReservations(ctx context.Context, filter ReservationFilter) ([]*ReservationView, error) {
	order := -1
	if filter.Ascending {
		order = 1
	}
	return mdb.aggregateViews(ctx, reservationFilterQuery(filter), order)
}

func (mdb *MongodbRepo) aggregateViews(ctx context.Context, match bson.M, order int) ([]*ReservationView, error) {
	col, err := mdb.GetCollection(ctx, ReservationsColName)
	if err != nil {
		return nil, fmt.Errorf("error getting collection: %w", err)
	}

	cursor, err := col.Aggregate(ctx, reservationViewPipeline(match, order))
	if err != nil {
		return nil, fmt.Errorf("error aggregating reservations: %w", err)
	}
	defer cursor.Close(ctx)

	views := []*ReservationView{}
	if err := cursor.All(ctx, &views); err != nil {
		return nil, fmt.Errorf("error decoding reservations: %w", err)
	}
	return views, nil
}

// versionFilter matches r at the version it was read at. Documents written
// before versioning have no field and count as version 0.
func versionFilter(id primitive.ObjectID, version int64) bson.M {
	if version == 0 {
		return bson.M{"_id": id, "version": bson.M{"$in": bson.A{0, nil}}}
	}
	return bson.M{"_id": id, "version": version}
}

// ReplaceReservation writes r over the stored document only if nothing else
// wrote it since r was read; otherwise it returns ErrStaleWrite.
func (mdb *MongodbRepo) ReplaceReservation(ctx context.Context, r *Reservation) (*Reservation, error) {
	col, err := mdb.GetCollection(ctx, ReservationsColName)
	if err != nil {
		return nil, fmt.Errorf("error getting collection: %w", err)
	}
	next := *r
	next.Version = r.Version + 1
	next.UpdatedAt = time.Now().UTC()

	res, err := col.ReplaceOne(ctx, versionFilter(r.ID, r.Version), &next)
	if err != nil {
		return nil, fmt.Errorf("error replacing reservation: %w", mapStoreError(err))
	}
	if res.MatchedCount == 0 {
		n, err := col.CountDocuments(ctx, bson.M{"_id": r.ID})
		if err != nil {
			return nil, fmt.Errorf("error checking reservation: %w", err)
		}
		if n == 0 {
			return nil, ErrNotFound
		}
		return nil, ErrStaleWrite
	}
	return &next, nil
}

func (mdb *MongodbRepo) setReservationFields(ctx context.Context, id primitive.ObjectID, set bson.M) (*Reservation, error) {
	col, err := mdb.GetCollection(ctx, ReservationsColName)
	if err != nil {
		return nil, fmt.Errorf("error getting collection: %w", err)
	}
	set["updated_at"] = time.Now().UTC()
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var updated Reservation
	update := bson.M{"$set": set, "$inc": bson.M{"version": 1}}
	if err := col.FindOneAndUpdate(ctx, bson.M{"_id": id}, update, opts).Decode(&updated); err != nil {
		return nil, mapStoreError(err)
	}
	return &updated, nil
}

func (mdb *MongodbRepo) SetReservationStatus(ctx context.Context, id primitive.ObjectID, status ReservationStatus) (*Reservation, error) {
	return mdb.setReservationFields(ctx, id, bson.M{"status": status})
}

func (mdb *MongodbRepo) MarkReservationPaid(ctx context.Context, id primitive.ObjectID) (*Reservation, error) {
	return mdb.setReservationFields(ctx, id, bson.M{"paid": true})
}

func (mdb *MongodbRepo) DeleteReservation(ctx context.Context, id primitive.ObjectID) error {
	col, err := mdb.GetCollection(ctx, ReservationsColName)
	if err != nil {
		return fmt.Errorf("error getting collection: %w", err)
	}
	res, err := col.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("error deleting reservation: %w", err)
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// CountActiveReservations counts pending and confirmed reservations held by a customer.
func (mdb *MongodbRepo) CountActiveReservations(ctx context.Context, customerID primitive.ObjectID) (int64, error) {
	col, err := mdb.GetCollection(ctx, ReservationsColName)
	if err != nil {
		return 0, fmt.Errorf("error getting collection: %w", err)
	}
	n, err := col.CountDocuments(ctx, bson.M{
		"customer": customerID,
		"status":   bson.M{"$in": bson.A{ReservationPending, ReservationConfirmed}},
	})
	if err != nil {
		return 0, fmt.Errorf("error counting reservations: %w", err)
	}
	return n, nil
}

func (mdb *MongodbRepo) CompleteEndedReservations(ctx context.Context, before time.Time) (int64, error) {
	col, err := mdb.GetCollection(ctx, ReservationsColName)
	if err != nil {
		return 0, fmt.Errorf("error getting collection: %w", err)
	}
	res, err := col.UpdateMany(ctx,
		bson.M{
			"status":   bson.M{"$in": bson.A{ReservationPending, ReservationConfirmed}},
			"end_time": bson.M{"$lte": before},
		},
		bson.M{
			"$set": bson.M{"status": ReservationCompleted, "updated_at": time.Now().UTC()},
			"$inc": bson.M{"version": 1},
		},
	)
	if err != nil {
		return 0, fmt.Errorf("error completing reservations: %w", err)
	}
	return res.ModifiedCount, nil
}

// RunAtomically runs fn inside a multi-document transaction that first writes
// the court document, so concurrent check-and-write sequences on one court
// conflict and are retried by the driver. Without transactions fn runs as is.
func (mdb *MongodbRepo) RunAtomically(ctx context.Context, courtID primitive.ObjectID, fn func(ctx context.Context) error) error {
	if !mdb.transactions {
		return fn(ctx)
	}
	if mdb.mongodbClient == nil {
		return fmt.Errorf("mongodb client is not initialized")
	}

	session, err := mdb.mongodbClient.StartSession()
	if err != nil {
		return fmt.Errorf("error starting session: %w", err)
	}
	defer session.EndSession(ctx)

	_, err = session.WithTransaction(ctx, func(sessCtx mongo.SessionContext) (interface{}, error) {
		if err := mdb.touchCourt(sessCtx, courtID); err != nil {
			return nil, err
		}
		return nil, fn(sessCtx)
	})
	return err
}
