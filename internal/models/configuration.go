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

// Configuration is the singleton business settings document. Opening hours and
// operating days are only defaults for new courts.
type Configuration struct {
	ID              primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	BusinessName    string             `bson:"business_name" json:"business_name"`
	Logo            string             `bson:"logo" json:"logo"`
	PrimaryColor    string             `bson:"primary_color" json:"primary_color"`
	BackgroundColor string             `bson:"background_color" json:"background_color"`
	TextColor       string             `bson:"text_color" json:"text_color"`
	Currency        string             `bson:"currency" json:"currency"`
	TaxRate         float64            `bson:"tax_rate" json:"tax_rate"`
	OpeningTime     string             `bson:"opening_time" json:"opening_time"`
	ClosingTime     string             `bson:"closing_time" json:"closing_time"`
	OperatingDays   WeekdaySet         `bson:"operating_days" json:"operating_days"`
	UpdatedAt       time.Time          `bson:"updated_at" json:"updated_at"`
}

type ConfigurationRepo interface {
	GetConfiguration(ctx context.Context) (*Configuration, error)
	SaveConfiguration(ctx context.Context, cfg *Configuration) (*Configuration, error)
	ResetConfiguration(ctx context.Context) (*Configuration, error)
}

func DefaultConfiguration() *Configuration {
	return &Configuration{
		BusinessName:    "SportWare",
		PrimaryColor:    "#0D9F6F",
		BackgroundColor: "#000000",
		TextColor:       "#FFFFFF",
		Currency:        "$",
		TaxRate:         21,
		OpeningTime:     "08:00",
		ClosingTime:     "22:00",
		OperatingDays:   AllWeekdays(),
		UpdatedAt:       time.Now().UTC(),
	}
}

// GetConfiguration returns the stored settings, inserting the defaults on first use.
func (mdb *MongodbRepo) GetConfiguration(ctx context.Context) (*Configuration, error) {
	col, err := mdb.GetCollection(ctx, ConfigurationColName)
	if err != nil {
		return nil, fmt.Errorf("error getting collection: %w", err)
	}

	var cfg Configuration
	err = col.FindOne(ctx, bson.M{}).Decode(&cfg)
	if err == nil {
		return &cfg, nil
	}
	if err != mongo.ErrNoDocuments {
		return nil, fmt.Errorf("error finding configuration: %w", err)
	}

	def := DefaultConfiguration()
	def.ID = primitive.NewObjectID()
	if _, err := col.InsertOne(ctx, def); err != nil {
		return nil, fmt.Errorf("error inserting default configuration: %w", err)
	}
	return def, nil
}

func (mdb *MongodbRepo) SaveConfiguration(ctx context.Context, cfg *Configuration) (*Configuration, error) {
	col, err := mdb.GetCollection(ctx, ConfigurationColName)
	if err != nil {
		return nil, fmt.Errorf("error getting collection: %w", err)
	}
	if cfg.ID.IsZero() {
		cfg.ID = primitive.NewObjectID()
	}
	cfg.UpdatedAt = time.Now().UTC()

	opts := options.Replace().SetUpsert(true)
	if _, err := col.ReplaceOne(ctx, bson.M{"_id": cfg.ID}, cfg, opts); err != nil {
		return nil, fmt.Errorf("error saving configuration: %w", err)
	}
	return cfg, nil
}

func (mdb *MongodbRepo) ResetConfiguration(ctx context.Context) (*Configuration, error) {
	col, err := mdb.GetCollection(ctx, ConfigurationColName)
	if err != nil {
		return nil, fmt.Errorf("error getting collection: %w", err)
	}
	if _, err := col.DeleteMany(ctx, bson.M{}); err != nil {
		return nil, fmt.Errorf("error clearing configuration: %w", err)
	}

	def := DefaultConfiguration()
	def.ID = primitive.NewObjectID()
	if _, err := col.InsertOne(ctx, def); err != nil {
		return nil, fmt.Errorf("error inserting default configuration: %w", err)
	}
	return def, nil
}
