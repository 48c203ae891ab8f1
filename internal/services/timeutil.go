package services

import (
	"math"
	"strings"
	"time"
)

// layouts accepted for reservation timestamps; zone-less values use the business time zone
var localLayouts = []string{
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
}

func parseTimestamp(field, value string, loc *time.Location) (time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, invalidField(field, "is required")
	}
	if t, err := time.Parse(time.RFC3339Nano, value); err == nil {
		return normalizeInstant(t), nil
	}
	for _, layout := range localLayouts {
		if t, err := time.ParseInLocation(layout, value, loc); err == nil {
			return normalizeInstant(t), nil
		}
	}
	return time.Time{}, invalidField(field, "must be a valid timestamp")
}

// normalizeInstant matches what the store keeps: UTC with millisecond precision.
func normalizeInstant(t time.Time) time.Time {
	return t.UTC().Truncate(time.Millisecond)
}

func parseInterval(startRaw, endRaw string, loc *time.Location) (time.Time, time.Time, error) {
	start, err := parseTimestamp("start_time", startRaw, loc)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	end, err := parseTimestamp("end_time", endRaw, loc)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	if !end.After(start) {
		return time.Time{}, time.Time{}, invalidField("end_time", "must be after start_time")
	}
	return start, end, nil
}

// dayWindow returns [midnight, next midnight) of a YYYY-MM-DD date in loc.
func dayWindow(date string, loc *time.Location) (time.Time, time.Time, error) {
	day, err := time.ParseInLocation("2006-01-02", strings.TrimSpace(date), loc)
	if err != nil {
		return time.Time{}, time.Time{}, invalidField("date", "must use the YYYY-MM-DD format")
	}
	return day.UTC(), day.AddDate(0, 0, 1).UTC(), nil
}

// ReservationPrice is hourly rate times duration in hours, rounded to cents.
func ReservationPrice(hourlyPrice float64, start, end time.Time) float64 {
	hours := end.Sub(start).Hours()
	return math.Round(hourlyPrice*hours*100) / 100
}
