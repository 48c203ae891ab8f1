package services

import "github.com/joshua-takyi/courtdesk/internal/models"

const UnavailableReason = "court unavailable for requested interval"

// ConflictReport is the payload shared by create, update and the availability query.
type ConflictReport struct {
	Available               bool                  `json:"available"`
	Reason                  string                `json:"reason,omitempty"`
	Conflict                *models.Reservation   `json:"conflict"`
	ConflictingReservations []*models.Reservation `json:"conflicting_reservations,omitempty"`
}

func ReportConflict(conflicts ...*models.Reservation) ConflictReport {
	blocking := make([]*models.Reservation, 0, len(conflicts))
	for _, c := range conflicts {
		if c != nil {
			blocking = append(blocking, c)
		}
	}
	if len(blocking) == 0 {
		return ConflictReport{Available: true}
	}
	return ConflictReport{
		Available:               false,
		Reason:                  UnavailableReason,
		Conflict:                blocking[0],
		ConflictingReservations: blocking,
	}
}

func ReportAvailability(a Availability) ConflictReport {
	if a.Available {
		return ConflictReport{Available: true}
	}
	return ReportConflict(a.Conflict)
}
