package models

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"go.mongodb.org/mongo-driver/mongo"
)

const (
	CourtsColName        = "courts"
	CustomersColName     = "customers"
	ReservationsColName  = "reservations"
	ConfigurationColName = "configuration"
)

// ErrNotFound is returned by every repository lookup that matched no document.
var ErrNotFound = errors.New("document not found")

// ErrStaleWrite means the document changed between read and conditional write.
var ErrStaleWrite = errors.New("document was modified concurrently")

// DuplicateKeyError reports a unique index violation and the fields that collided.
type DuplicateKeyError struct {
	Fields []string
}

func (e *DuplicateKeyError) Error() string {
	return fmt.Sprintf("duplicate value in %s", strings.Join(e.Fields, ", "))
}

// index name -> document fields, for indexes created by EnsureIndexes
var uniqueIndexFields = map[string][]string{
	"customer_phone_unique": {"phone"},
}

var dupIndexPattern = regexp.MustCompile(`index: (\S+)`)

type MongodbRepo struct {
	mongodbClient *mongo.Client
	dbName        string
	transactions  bool
}

func MongodbNewRepo(mongodbClient *mongo.Client, dbName string, transactions bool) *MongodbRepo {
	return &MongodbRepo{
		mongodbClient: mongodbClient,
		dbName:        dbName,
		transactions:  transactions,
	}
}

func (mdb *MongodbRepo) GetCollection(ctx context.Context, colName string) (*mongo.Collection, error) {
	if mdb.mongodbClient == nil {
		return nil, fmt.Errorf("mongodb client is not initialized")
	}
	return mdb.mongodbClient.Database(mdb.dbName).Collection(colName), nil
}

func mapStoreError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, mongo.ErrNoDocuments) {
		return ErrNotFound
	}
	if mongo.IsDuplicateKeyError(err) {
		return &DuplicateKeyError{Fields: duplicateFields(err)}
	}
	return err
}

func duplicateFields(err error) []string {
	m := dupIndexPattern.FindStringSubmatch(err.Error())
	if len(m) < 2 {
		return []string{"unknown"}
	}
	if fields, ok := uniqueIndexFields[m[1]]; ok {
		return fields
	}
	// default index names are field_1[_field_-1...]; field names may contain underscores
	var fields, name []string
	for _, part := range strings.Split(m[1], "_") {
		if part == "1" || part == "-1" {
			if len(name) > 0 {
				fields = append(fields, strings.Join(name, "_"))
			}
			name = name[:0]
			continue
		}
		name = append(name, part)
	}
	if len(fields) == 0 {
		return []string{m[1]}
	}
	return fields
}
