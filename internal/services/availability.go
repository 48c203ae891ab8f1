package services

import (
	"context"
	"fmt"
	"time"

	"github.com/joshua-takyi/courtdesk/internal/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Overlaps is the half-open interval test used for every booking decision:
// [aStart, aEnd) and [bStart, bEnd) share at least one instant.
func Overlaps(aStart, aEnd, bStart, bEnd time.Time) bool {
	return aStart.Before(bEnd) && aEnd.After(bStart)
}

type ConflictFinder interface {
	FindConflict(ctx context.Context, courtID primitive.ObjectID, start, end time.Time, excludeID *primitive.ObjectID) (*models.Reservation, error)
}

type Availability struct {
	Available bool
	Conflict  *models.Reservation
}

// AvailabilityChecker answers whether a court is free for an interval. It has no side effects.
type AvailabilityChecker struct {
	finder ConflictFinder
}

func NewAvailabilityChecker(finder ConflictFinder) *AvailabilityChecker {
	return &AvailabilityChecker{finder: finder}
}

// Check returns the first non-cancelled reservation on courtID overlapping
// [start, end), ignoring excludeID. Court existence is the caller's concern.
func (ac *AvailabilityChecker) Check(ctx context.Context, courtID primitive.ObjectID, start, end time.Time, excludeID *primitive.ObjectID) (Availability, error) {
	if !end.After(start) {
		return Availability{}, invalidField("end_time", "must be after start_time")
	}

	conflict, err := ac.finder.FindConflict(ctx, courtID, start, end, excludeID)
	if err != nil {
		return Availability{}, fmt.Errorf("failed to check availability: %w", err)
	}
	if conflict == nil {
		return Availability{Available: true}, nil
	}
	return Availability{Available: false, Conflict: conflict}, nil
}
