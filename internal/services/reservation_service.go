package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/joshua-takyi/courtdesk/internal/metrics"
	"github.com/joshua-takyi/courtdesk/internal/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type CreateReservationInput struct {
	Court     string                   `json:"court" validate:"required,objectid"`
	Customer  string                   `json:"customer" validate:"required,objectid"`
	StartTime string                   `json:"start_time" validate:"required"`
	EndTime   string                   `json:"end_time" validate:"required"`
	Status    models.ReservationStatus `json:"status" validate:"omitempty,oneof=pending confirmed"`
	Price     *float64                 `json:"price" validate:"omitempty,gte=0"`
	Paid      bool                     `json:"paid"`
	Notes     string                   `json:"notes" validate:"max=1000"`
}

// UpdateReservationInput is a patch: nil fields keep the stored value.
type UpdateReservationInput struct {
	Court     *string                   `json:"court" validate:"omitempty,objectid"`
	Customer  *string                   `json:"customer" validate:"omitempty,objectid"`
	StartTime *string                   `json:"start_time"`
	EndTime   *string                   `json:"end_time"`
	Status    *models.ReservationStatus `json:"status" validate:"omitempty,oneof=pending confirmed cancelled completed"`
	Price     *float64                  `json:"price" validate:"omitempty,gte=0"`
	Paid      *bool                     `json:"paid"`
	Notes     *string                   `json:"notes" validate:"omitempty,max=1000"`
}

type AvailabilityQuery struct {
	Court     string `form:"court" json:"court" validate:"required,objectid"`
	StartTime string `form:"start" json:"start" validate:"required"`
	EndTime   string `form:"end" json:"end" validate:"required"`
	Exclude   string `form:"exclude" json:"exclude" validate:"omitempty,objectid"`
}

type ListReservationsInput struct {
	Date     string `form:"date" json:"date"`
	Court    string `form:"court" json:"court" validate:"omitempty,objectid"`
	Customer string `form:"customer" json:"customer" validate:"omitempty,objectid"`
	Status   string `form:"status" json:"status" validate:"omitempty,oneof=pending confirmed cancelled completed"`
}

type DayReservations struct {
	Date            string                    `json:"date"`
	Reservations    []*models.ReservationView `json:"reservations"`
	ActiveCustomers int                       `json:"active_customers"`
}

// ReservationService owns every reservation mutation. Writes that can create an
// overlap run check-then-write under a per-court lock, and inside a store
// transaction when the repository has transactions enabled.
type ReservationService struct {
	reservations models.ReservationsRepo
	courts       models.CourtsRepo
	customers    models.CustomersRepo
	checker      *AvailabilityChecker
	locks        *courtLocks
	loc          *time.Location
	logger       *slog.Logger
}

func NewReservationService(
	reservations models.ReservationsRepo,
	courts models.CourtsRepo,
	customers models.CustomersRepo,
	loc *time.Location,
	logger *slog.Logger,
) *ReservationService {
	if loc == nil {
		loc = time.Local
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &ReservationService{
		reservations: reservations,
		courts:       courts,
		customers:    customers,
		checker:      NewAvailabilityChecker(reservations),
		locks:        newCourtLocks(),
		loc:          loc,
		logger:       logger,
	}
}

func (rs *ReservationService) CreateReservation(ctx context.Context, in CreateReservationInput) (*models.ReservationView, error) {
	in.Court = strings.TrimSpace(in.Court)
	in.Customer = strings.TrimSpace(in.Customer)
	if err := models.Validate.Struct(in); err != nil {
		return nil, validationErrorFrom(err)
	}

	courtID, _ := primitive.ObjectIDFromHex(in.Court)
	customerID, _ := primitive.ObjectIDFromHex(in.Customer)
	start, end, err := parseInterval(in.StartTime, in.EndTime, rs.loc)
	if err != nil {
		return nil, err
	}

	court, err := rs.courts.GetCourtByID(ctx, courtID)
	if err != nil {
		return nil, storeError(err, "court")
	}
	if _, err := rs.customers.GetCustomerByID(ctx, customerID); err != nil {
		return nil, storeError(err, "customer")
	}

	status := in.Status
	if status == "" {
		status = models.ReservationPending
	}
	price := ReservationPrice(court.HourlyPrice, start, end)
	if in.Price != nil {
		price = *in.Price
	}

	reservation := &models.Reservation{
		Court:     courtID,
		Customer:  customerID,
		StartTime: start,
		EndTime:   end,
		Status:    status,
		Price:     price,
		Paid:      in.Paid,
		Notes:     strings.TrimSpace(in.Notes),
	}

	err = rs.guardedWrite(ctx, courtID, func(ctx context.Context) error {
		if err := rs.ensureAvailable(ctx, courtID, start, end, nil); err != nil {
			return err
		}
		_, err := rs.reservations.CreateReservation(ctx, reservation)
		return err
	})
	if err != nil {
		return nil, rs.writeFailure("create", "court", err)
	}

	metrics.RecordReservationCreated(string(reservation.Status))
	rs.logger.Info("reservation created",
		"reservation_id", reservation.ID.Hex(),
		"court_id", courtID.Hex(),
		"start", start,
		"end", end,
	)
	return rs.view(ctx, reservation)
}

// maxUpdateAttempts bounds how often an update is re-applied after losing a
// race with another write to the same reservation.
const maxUpdateAttempts = 3

func (rs *ReservationService) UpdateReservation(ctx context.Context, id string, in UpdateReservationInput) (*models.ReservationView, error) {
	reservationID, err := parseID("id", id)
	if err != nil {
		return nil, err
	}
	in.normalize()
	if err := models.Validate.Struct(in); err != nil {
		return nil, validationErrorFrom(err)
	}

	for attempt := 1; ; attempt++ {
		existing, err := rs.reservations.GetReservationByID(ctx, reservationID)
		if err != nil {
			return nil, storeError(err, "reservation")
		}
		next, err := rs.applyUpdate(ctx, existing, in)
		if err != nil {
			return nil, err
		}

		var updated *models.Reservation
		write := func(ctx context.Context) error {
			if next.Occupies() {
				if err := rs.ensureAvailable(ctx, next.Court, next.StartTime, next.EndTime, &next.ID); err != nil {
					return err
				}
			}
			var err error
			updated, err = rs.reservations.ReplaceReservation(ctx, next)
			return err
		}
		if next.Occupies() {
			err = rs.guardedWrite(ctx, next.Court, write)
		} else {
			err = write(ctx)
		}
		if errors.Is(err, models.ErrStaleWrite) && attempt < maxUpdateAttempts {
			rs.logger.Debug("reservation changed during update, retrying",
				"reservation_id", reservationID.Hex(),
				"attempt", attempt,
			)
			continue
		}
		if err != nil {
			return nil, rs.writeFailure("update", "reservation", err)
		}

		if updated.Status == models.ReservationCancelled && existing.Status != models.ReservationCancelled {
			metrics.RecordReservationCancellation()
		}
		return rs.view(ctx, updated)
	}
}

// applyUpdate merges in over existing and returns the document to write.
func (rs *ReservationService) applyUpdate(ctx context.Context, existing *models.Reservation, in UpdateReservationInput) (*models.Reservation, error) {
	var err error
	next := *existing
	if in.Court != nil {
		next.Court, _ = primitive.ObjectIDFromHex(*in.Court)
	}
	if in.Customer != nil {
		next.Customer, _ = primitive.ObjectIDFromHex(*in.Customer)
	}
	if in.StartTime != nil {
		if next.StartTime, err = parseTimestamp("start_time", *in.StartTime, rs.loc); err != nil {
			return nil, err
		}
	}
	if in.EndTime != nil {
		if next.EndTime, err = parseTimestamp("end_time", *in.EndTime, rs.loc); err != nil {
			return nil, err
		}
	}
	if !next.EndTime.After(next.StartTime) {
		return nil, invalidField("end_time", "must be after start_time")
	}
	if in.Status != nil {
		if err := checkTransition(existing.Status, *in.Status); err != nil {
			return nil, err
		}
		next.Status = *in.Status
	}
	if in.Paid != nil {
		next.Paid = *in.Paid
	}
	if in.Notes != nil {
		next.Notes = strings.TrimSpace(*in.Notes)
	}

	courtChanged := next.Court != existing.Court
	intervalChanged := !next.StartTime.Equal(existing.StartTime) || !next.EndTime.Equal(existing.EndTime)

	if courtChanged || (intervalChanged && in.Price == nil) {
		court, err := rs.courts.GetCourtByID(ctx, next.Court)
		if err != nil {
			return nil, storeError(err, "court")
		}
		next.Price = ReservationPrice(court.HourlyPrice, next.StartTime, next.EndTime)
	}
	if in.Price != nil {
		next.Price = *in.Price
	}
	if next.Customer != existing.Customer {
		if _, err := rs.customers.GetCustomerByID(ctx, next.Customer); err != nil {
			return nil, storeError(err, "customer")
		}
	}
	return &next, nil
}

// CancelReservation is idempotent: an already cancelled reservation is returned unchanged.
func (rs *ReservationService) CancelReservation(ctx context.Context, id string) (*models.ReservationView, error) {
	reservationID, err := parseID("id", id)
	if err != nil {
		return nil, err
	}
	existing, err := rs.reservations.GetReservationByID(ctx, reservationID)
	if err != nil {
		return nil, storeError(err, "reservation")
	}
	if existing.Status == models.ReservationCancelled {
		return rs.view(ctx, existing)
	}

	updated, err := rs.reservations.SetReservationStatus(ctx, reservationID, models.ReservationCancelled)
	if err != nil {
		return nil, storeError(err, "reservation")
	}
	metrics.RecordReservationCancellation()
	rs.logger.Info("reservation cancelled", "reservation_id", reservationID.Hex())
	return rs.view(ctx, updated)
}

// MarkReservationPaid sets paid regardless of status; refunds are handled elsewhere.
func (rs *ReservationService) MarkReservationPaid(ctx context.Context, id string) (*models.ReservationView, error) {
	reservationID, err := parseID("id", id)
	if err != nil {
		return nil, err
	}
	existing, err := rs.reservations.GetReservationByID(ctx, reservationID)
	if err != nil {
		return nil, storeError(err, "reservation")
	}
	if existing.Paid {
		return rs.view(ctx, existing)
	}

	updated, err := rs.reservations.MarkReservationPaid(ctx, reservationID)
	if err != nil {
		return nil, storeError(err, "reservation")
	}
	return rs.view(ctx, updated)
}

func (rs *ReservationService) DeleteReservation(ctx context.Context, id string) error {
	reservationID, err := parseID("id", id)
	if err != nil {
		return err
	}
	if err := rs.reservations.DeleteReservation(ctx, reservationID); err != nil {
		return storeError(err, "reservation")
	}
	rs.logger.Info("reservation deleted", "reservation_id", reservationID.Hex())
	return nil
}

func (rs *ReservationService) GetReservation(ctx context.Context, id string) (*models.ReservationView, error) {
	reservationID, err := parseID("id", id)
	if err != nil {
		return nil, err
	}
	view, err := rs.reservations.GetReservationView(ctx, reservationID)
	if err != nil {
		return nil, storeError(err, "reservation")
	}
	return view, nil
}

func (rs *ReservationService) ListReservations(ctx context.Context, in ListReservationsInput) ([]*models.ReservationView, error) {
	if err := models.Validate.Struct(in); err != nil {
		return nil, validationErrorFrom(err)
	}

	filter := models.ReservationFilter{Status: models.ReservationStatus(in.Status)}
	if in.Court != "" {
		id, _ := primitive.ObjectIDFromHex(in.Court)
		filter.Court = &id
	}
	if in.Customer != "" {
		id, _ := primitive.ObjectIDFromHex(in.Customer)
		filter.Customer = &id
	}
	if in.Date != "" {
		from, to, err := dayWindow(in.Date, rs.loc)
		if err != nil {
			return nil, err
		}
		filter.From, filter.To = &from, &to
		filter.Ascending = true
	}

	views, err := rs.reservations.ListReservations(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list reservations: %w", err)
	}
	return views, nil
}

// ReservationsForDay lists a day's reservations in start order with the number
// of distinct customers holding a non-cancelled booking that day.
func (rs *ReservationService) ReservationsForDay(ctx context.Context, date string) (*DayReservations, error) {
	views, err := rs.ListReservations(ctx, ListReservationsInput{Date: date})
	if err != nil {
		return nil, err
	}

	customers := make(map[primitive.ObjectID]struct{})
	for _, v := range views {
		if v.Occupies() {
			customers[v.Customer] = struct{}{}
		}
	}
	return &DayReservations{
		Date:            strings.TrimSpace(date),
		Reservations:    views,
		ActiveCustomers: len(customers),
	}, nil
}

// CheckAvailability is the pre-submission "is this slot free" query.
func (rs *ReservationService) CheckAvailability(ctx context.Context, q AvailabilityQuery) (ConflictReport, error) {
	q.Court = strings.TrimSpace(q.Court)
	q.Exclude = strings.TrimSpace(q.Exclude)
	if err := models.Validate.Struct(q); err != nil {
		return ConflictReport{}, validationErrorFrom(err)
	}

	courtID, _ := primitive.ObjectIDFromHex(q.Court)
	start, end, err := parseInterval(q.StartTime, q.EndTime, rs.loc)
	if err != nil {
		return ConflictReport{}, err
	}
	var exclude *primitive.ObjectID
	if q.Exclude != "" {
		id, _ := primitive.ObjectIDFromHex(q.Exclude)
		exclude = &id
	}

	if _, err := rs.courts.GetCourtByID(ctx, courtID); err != nil {
		return ConflictReport{}, storeError(err, "court")
	}

	availability, err := rs.checker.Check(ctx, courtID, start, end, exclude)
	if err != nil {
		return ConflictReport{}, err
	}
	return ReportAvailability(availability), nil
}

func (rs *ReservationService) ensureAvailable(ctx context.Context, courtID primitive.ObjectID, start, end time.Time, exclude *primitive.ObjectID) error {
	availability, err := rs.checker.Check(ctx, courtID, start, end, exclude)
	if err != nil {
		return err
	}
	if !availability.Available {
		return &ConflictError{Report: ReportAvailability(availability)}
	}
	return nil
}

func (rs *ReservationService) guardedWrite(ctx context.Context, courtID primitive.ObjectID, fn func(ctx context.Context) error) error {
	unlock := rs.locks.Lock(courtID.Hex())
	defer unlock()
	return rs.reservations.RunAtomically(ctx, courtID, fn)
}

func (rs *ReservationService) writeFailure(operation, resource string, err error) error {
	var conflict *ConflictError
	if errors.As(err, &conflict) {
		metrics.RecordReservationConflict(operation)
		rs.logger.Info("reservation rejected",
			"operation", operation,
			"reason", conflict.Report.Reason,
			"conflict_id", conflict.Report.Conflict.ID.Hex(),
		)
		return conflict
	}
	var verr *ValidationError
	if errors.As(err, &verr) {
		return verr
	}
	if errors.Is(err, models.ErrNotFound) {
		return &NotFoundError{Resource: resource}
	}
	rs.logger.Error("reservation write failed", "operation", operation, "error", err)
	return fmt.Errorf("failed to %s reservation: %w", operation, err)
}

func (rs *ReservationService) view(ctx context.Context, r *models.Reservation) (*models.ReservationView, error) {
	view, err := rs.reservations.GetReservationView(ctx, r.ID)
	if err != nil {
		return nil, storeError(err, "reservation")
	}
	return view, nil
}

// checkTransition enforces pending <-> confirmed, anything -> cancelled, and
// nothing out of cancelled. completed is only reached through the sweeper.
func checkTransition(from, to models.ReservationStatus) error {
	if from == to {
		return nil
	}
	switch {
	case from == models.ReservationCancelled:
		return invalidField("status", "a cancelled reservation cannot be reactivated")
	case to == models.ReservationCompleted:
		return invalidField("status", "reservations are completed automatically once they end")
	case from == models.ReservationCompleted && to != models.ReservationCancelled:
		return invalidField("status", "a completed reservation can only be cancelled")
	}
	return nil
}

func (in *UpdateReservationInput) normalize() {
	for _, field := range []**string{&in.Court, &in.Customer, &in.StartTime, &in.EndTime} {
		if *field == nil {
			continue
		}
		v := strings.TrimSpace(**field)
		if v == "" {
			*field = nil
			continue
		}
		*field = &v
	}
}
