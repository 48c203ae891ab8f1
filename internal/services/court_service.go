package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/joshua-takyi/courtdesk/internal/models"
)

// CourtInput is shared by create and update. On update, empty fields keep the stored value.
type CourtInput struct {
	Name        string               `json:"name" validate:"omitempty,max=100"`
	Category    models.CourtCategory `json:"category" validate:"omitempty,oneof=soccer5 soccer7 soccer11 tennis padel basketball volleyball hockey other"`
	HourlyPrice *float64             `json:"hourly_price" validate:"omitempty,gte=0"`
	Status      models.CourtStatus   `json:"status" validate:"omitempty,oneof=available maintenance inactive"`
	OpeningTime string               `json:"opening_time" validate:"omitempty,hhmm"`
	ClosingTime string               `json:"closing_time" validate:"omitempty,hhmm"`
	Days        models.WeekdaySet    `json:"days_available"`
	Description *string              `json:"description" validate:"omitempty,max=2000"`
}

type CourtService struct {
	courts   models.CourtsRepo
	settings models.ConfigurationRepo
}

func NewCourtService(courts models.CourtsRepo, settings models.ConfigurationRepo) *CourtService {
	return &CourtService{
		courts:   courts,
		settings: settings,
	}
}

func (cs *CourtService) CreateCourt(ctx context.Context, in CourtInput) (*models.Court, error) {
	in.Name = strings.TrimSpace(in.Name)
	if err := models.Validate.Struct(in); err != nil {
		return nil, validationErrorFrom(err)
	}
	missing := map[string]string{}
	if in.Name == "" {
		missing["name"] = "is required"
	}
	if in.HourlyPrice == nil {
		missing["hourly_price"] = "is required"
	}
	if len(missing) > 0 {
		return nil, &ValidationError{Fields: missing}
	}

	// opening hours fall back to the business defaults
	settings, err := cs.settings.GetConfiguration(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	court := &models.Court{
		Name:        in.Name,
		Category:    in.Category,
		HourlyPrice: *in.HourlyPrice,
		Status:      in.Status,
		OpeningTime: in.OpeningTime,
		ClosingTime: in.ClosingTime,
		Days:        in.Days,
	}
	if court.Category == "" {
		court.Category = models.CategorySoccer5
	}
	if court.Status == "" {
		court.Status = models.CourtAvailable
	}
	if court.OpeningTime == "" {
		court.OpeningTime = settings.OpeningTime
	}
	if court.ClosingTime == "" {
		court.ClosingTime = settings.ClosingTime
	}
	if court.Days == nil {
		court.Days = settings.OperatingDays
	}
	if in.Description != nil {
		court.Description = strings.TrimSpace(*in.Description)
	}
	if err := checkOpeningHours(court); err != nil {
		return nil, err
	}

	created, err := cs.courts.CreateCourt(ctx, court)
	if err != nil {
		return nil, storeError(err, "court")
	}
	return created, nil
}

func (cs *CourtService) UpdateCourt(ctx context.Context, id string, in CourtInput) (*models.Court, error) {
	courtID, err := parseID("id", id)
	if err != nil {
		return nil, err
	}
	in.Name = strings.TrimSpace(in.Name)
	if err := models.Validate.Struct(in); err != nil {
		return nil, validationErrorFrom(err)
	}

	court, err := cs.courts.GetCourtByID(ctx, courtID)
	if err != nil {
		return nil, storeError(err, "court")
	}
	if in.Name != "" {
		court.Name = in.Name
	}
	if in.Category != "" {
		court.Category = in.Category
	}
	if in.HourlyPrice != nil {
		court.HourlyPrice = *in.HourlyPrice
	}
	if in.Status != "" {
		court.Status = in.Status
	}
	if in.OpeningTime != "" {
		court.OpeningTime = in.OpeningTime
	}
	if in.ClosingTime != "" {
		court.ClosingTime = in.ClosingTime
	}
	if in.Days != nil {
		court.Days = in.Days
	}
	if in.Description != nil {
		court.Description = strings.TrimSpace(*in.Description)
	}
	if err := checkOpeningHours(court); err != nil {
		return nil, err
	}

	updated, err := cs.courts.UpdateCourt(ctx, court)
	if err != nil {
		return nil, storeError(err, "court")
	}
	return updated, nil
}

// SetCourtStatus changes the operating status only; existing reservations are untouched.
func (cs *CourtService) SetCourtStatus(ctx context.Context, id string, status models.CourtStatus) (*models.Court, error) {
	courtID, err := parseID("id", id)
	if err != nil {
		return nil, err
	}
	switch status {
	case models.CourtAvailable, models.CourtMaintenance, models.CourtInactive:
	case "":
		return nil, invalidField("status", "is required")
	default:
		return nil, invalidField("status", "must be one of: available maintenance inactive")
	}

	court, err := cs.courts.SetCourtStatus(ctx, courtID, status)
	if err != nil {
		return nil, storeError(err, "court")
	}
	return court, nil
}

func (cs *CourtService) GetCourt(ctx context.Context, id string) (*models.Court, error) {
	courtID, err := parseID("id", id)
	if err != nil {
		return nil, err
	}
	court, err := cs.courts.GetCourtByID(ctx, courtID)
	if err != nil {
		return nil, storeError(err, "court")
	}
	return court, nil
}

func (cs *CourtService) ListCourts(ctx context.Context, filter models.CourtFilter) ([]*models.Court, error) {
	courts, err := cs.courts.ListCourts(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list courts: %w", err)
	}
	return courts, nil
}

// DeleteCourt does not cascade to reservations.
func (cs *CourtService) DeleteCourt(ctx context.Context, id string) error {
	courtID, err := parseID("id", id)
	if err != nil {
		return err
	}
	return storeError(cs.courts.DeleteCourt(ctx, courtID), "court")
}

func checkOpeningHours(c *models.Court) error {
	if !models.IsClock(c.OpeningTime) {
		return invalidField("opening_time", "must be a time of day in HH:MM format")
	}
	if !models.IsClock(c.ClosingTime) {
		return invalidField("closing_time", "must be a time of day in HH:MM format")
	}
	// HH:MM strings order lexically
	if c.ClosingTime <= c.OpeningTime {
		return invalidField("closing_time", "must be after opening_time")
	}
	if c.HourlyPrice < 0 {
		return invalidField("hourly_price", "must be greater than or equal to 0")
	}
	return nil
}
