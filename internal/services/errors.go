package services

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/joshua-takyi/courtdesk/internal/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	CodeValidation = "VALIDATION_ERROR"
	CodeNotFound   = "NOT_FOUND"
	CodeConflict   = "RESERVATION_CONFLICT"
	CodeDuplicate  = "VALIDATION_DUPLICATE"
	CodeInUse      = "RESOURCE_IN_USE"
	CodeServer     = "SERVER_ERROR"
)

// ValidationError lists per-field problems found before any store call.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+" "+e.Fields[k])
	}
	return "invalid input: " + strings.Join(parts, "; ")
}

func invalidField(field, msg string) *ValidationError {
	return &ValidationError{Fields: map[string]string{field: msg}}
}

type NotFoundError struct {
	Resource string
}

func (e *NotFoundError) Error() string {
	return e.Resource + " not found"
}

// ConflictError carries the reservations blocking a create or update.
type ConflictError struct {
	Report ConflictReport
}

func (e *ConflictError) Error() string {
	return e.Report.Reason
}

type DuplicateKeyError struct {
	Fields []string
}

func (e *DuplicateKeyError) Error() string {
	return fmt.Sprintf("duplicate value in %s", strings.Join(e.Fields, ", "))
}

// InUseError blocks deleting a record that active reservations still reference.
type InUseError struct {
	Resource string
	Count    int64
}

func (e *InUseError) Error() string {
	return fmt.Sprintf("%s has %d active reservation(s)", e.Resource, e.Count)
}

// ErrorCode returns the machine readable code for err.
func ErrorCode(err error) string {
	var (
		verr *ValidationError
		nerr *NotFoundError
		cerr *ConflictError
		derr *DuplicateKeyError
		uerr *InUseError
	)
	switch {
	case errors.As(err, &verr):
		return CodeValidation
	case errors.As(err, &nerr):
		return CodeNotFound
	case errors.As(err, &cerr):
		return CodeConflict
	case errors.As(err, &derr):
		return CodeDuplicate
	case errors.As(err, &uerr):
		return CodeInUse
	default:
		return CodeServer
	}
}

// storeError translates repository errors into the service taxonomy.
func storeError(err error, resource string) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, models.ErrNotFound) {
		return &NotFoundError{Resource: resource}
	}
	var dup *models.DuplicateKeyError
	if errors.As(err, &dup) {
		return &DuplicateKeyError{Fields: dup.Fields}
	}
	return err
}

func validationErrorFrom(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return invalidField("body", err.Error())
	}
	fields := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		fields[fe.Field()] = describeFieldError(fe)
	}
	return &ValidationError{Fields: fields}
}

func describeFieldError(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "objectid":
		return "must be a valid id"
	case "hhmm":
		return "must be a time of day in HH:MM format"
	case "oneof":
		return "must be one of: " + fe.Param()
	case "gte":
		return "must be greater than or equal to " + fe.Param()
	case "lte":
		return "must be less than or equal to " + fe.Param()
	case "min":
		return "must not be empty"
	case "max":
		return "must be at most " + fe.Param() + " characters"
	case "hexcolor":
		return "must be a hex color"
	default:
		return "is invalid"
	}
}

func parseID(field, value string) (primitive.ObjectID, error) {
	id, err := primitive.ObjectIDFromHex(strings.Trim(strings.TrimSpace(value), "\"'"))
	if err != nil {
		return primitive.NilObjectID, invalidField(field, "must be a valid id")
	}
	return id, nil
}
