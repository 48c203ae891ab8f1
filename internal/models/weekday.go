package models

import (
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"
)

type Weekday string

const (
	Monday    Weekday = "monday"
	Tuesday   Weekday = "tuesday"
	Wednesday Weekday = "wednesday"
	Thursday  Weekday = "thursday"
	Friday    Weekday = "friday"
	Saturday  Weekday = "saturday"
	Sunday    Weekday = "sunday"
)

var weekOrder = map[Weekday]int{
	Monday: 0, Tuesday: 1, Wednesday: 2, Thursday: 3, Friday: 4, Saturday: 5, Sunday: 6,
}

// names accepted from older clients, including the Spanish day names the desktop UI used
var weekdayAliases = map[string]Weekday{
	"monday": Monday, "mon": Monday, "lunes": Monday,
	"tuesday": Tuesday, "tue": Tuesday, "martes": Tuesday,
	"wednesday": Wednesday, "wed": Wednesday, "miercoles": Wednesday, "miércoles": Wednesday,
	"thursday": Thursday, "thu": Thursday, "jueves": Thursday,
	"friday": Friday, "fri": Friday, "viernes": Friday,
	"saturday": Saturday, "sat": Saturday, "sabado": Saturday, "sábado": Saturday,
	"sunday": Sunday, "sun": Sunday, "domingo": Sunday,
}

// WeekdayOf maps time.Weekday (Sunday == 0) to its canonical name.
func WeekdayOf(d time.Weekday) Weekday {
	return [...]Weekday{Sunday, Monday, Tuesday, Wednesday, Thursday, Friday, Saturday}[d]
}

func ParseWeekday(s string) (Weekday, error) {
	key := strings.ToLower(strings.TrimSpace(s))
	if d, ok := weekdayAliases[key]; ok {
		return d, nil
	}
	if n, err := strconv.Atoi(key); err == nil && n >= 0 && n <= 6 {
		return WeekdayOf(time.Weekday(n)), nil
	}
	return "", fmt.Errorf("unknown weekday %q", s)
}

// WeekdaySet is stored and rendered as an ordered list of canonical day names.
// JSON input may be a list of names, a list of 0-6 indices (Sunday == 0) or a {day: bool} map.
type WeekdaySet []Weekday

func AllWeekdays() WeekdaySet {
	return WeekdaySet{Monday, Tuesday, Wednesday, Thursday, Friday, Saturday, Sunday}
}

func NewWeekdaySet(days ...Weekday) WeekdaySet {
	seen := make(map[Weekday]bool, len(days))
	set := make(WeekdaySet, 0, len(days))
	for _, d := range days {
		if _, ok := weekOrder[d]; !ok || seen[d] {
			continue
		}
		seen[d] = true
		set = append(set, d)
	}
	sort.Slice(set, func(i, j int) bool { return weekOrder[set[i]] < weekOrder[set[j]] })
	return set
}

func (s WeekdaySet) Contains(d Weekday) bool {
	for _, x := range s {
		if x == d {
			return true
		}
	}
	return false
}

func (s *WeekdaySet) UnmarshalJSON(data []byte) error {
	var raw interface{}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	var days []Weekday
	switch v := raw.(type) {
	case nil:
		*s = nil
		return nil
	case []interface{}:
		for _, item := range v {
			d, err := weekdayFromJSON(item)
			if err != nil {
				return err
			}
			days = append(days, d)
		}
	case map[string]interface{}:
		for key, enabled := range v {
			on, ok := enabled.(bool)
			if !ok {
				return fmt.Errorf("weekday %q must map to a boolean", key)
			}
			if !on {
				continue
			}
			d, err := ParseWeekday(key)
			if err != nil {
				return err
			}
			days = append(days, d)
		}
	default:
		return fmt.Errorf("unsupported weekday set %s", string(data))
	}

	*s = NewWeekdaySet(days...)
	return nil
}

func weekdayFromJSON(item interface{}) (Weekday, error) {
	switch v := item.(type) {
	case string:
		return ParseWeekday(v)
	case float64:
		if v != float64(int(v)) || v < 0 || v > 6 {
			return "", fmt.Errorf("weekday index %v out of range", v)
		}
		return WeekdayOf(time.Weekday(int(v))), nil
	default:
		return "", fmt.Errorf("unsupported weekday value %v", item)
	}
}
