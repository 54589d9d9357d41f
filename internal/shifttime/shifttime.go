// Package shifttime turns wall-clock shift definitions into absolute instants.
// All functions are pure and interpret clocks in the location of the
// reference date.
package shifttime

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/akyairhashvil/shiftbell/internal/config"
	"github.com/akyairhashvil/shiftbell/internal/models"
)

const (
	dateKeyLayout        = "2006-01-02"
	compactDateKeyLayout = "20060102"
)

// Timestamps are the concrete instants of one shift occurrence.
type Timestamps struct {
	Start       time.Time
	OfficeEnd   time.Time
	End         time.Time
	IsOvernight bool
}

// ParseClock converts "HH:MM" into hours and minutes.
func ParseClock(v string) (hour, minute int, err error) {
	parts := strings.Split(strings.TrimSpace(v), ":")
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("clock %q is not HH:MM", v)
	}
	hour, err = strconv.Atoi(parts[0])
	if err != nil || hour < 0 || hour > 23 {
		return 0, 0, fmt.Errorf("clock %q has invalid hour", v)
	}
	minute, err = strconv.Atoi(parts[1])
	if err != nil || minute < 0 || minute > 59 {
		return 0, 0, fmt.Errorf("clock %q has invalid minute", v)
	}
	return hour, minute, nil
}

// Minutes returns minutes since midnight, or -1 for malformed clocks.
func Minutes(v string) int {
	h, m, err := ParseClock(v)
	if err != nil {
		return -1
	}
	return h*60 + m
}

// IsOvernight reports whether the shift ends on the day after it starts,
// that is whether its end clock is earlier than its start clock. The
// shift's own IsNightShift flag is not consulted.
func IsOvernight(shift models.Shift) bool {
	start, end := Minutes(shift.StartTime), Minutes(shift.EndTime)
	return start >= 0 && end >= 0 && end < start
}

// Midnight returns the start of t's calendar day in t's location.
func Midnight(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// AddDays moves a calendar date by n days, keeping wall-clock midnight
// across DST changes.
func AddDays(date time.Time, n int) time.Time {
	y, m, d := date.Date()
	return time.Date(y, m, d+n, 0, 0, 0, 0, date.Location())
}

// At places a "HH:MM" clock on the calendar date of date. Malformed clocks
// resolve to midnight.
func At(date time.Time, clock string) time.Time {
	h, m, err := ParseClock(clock)
	if err != nil {
		h, m = 0, 0
	}
	y, mo, d := date.Date()
	return time.Date(y, mo, d, h, m, 0, 0, date.Location())
}

// BuildScheduledTimestamps resolves the shift occurrence that starts on
// referenceDate. Office-end and end move to the next day for overnight shifts.
func BuildScheduledTimestamps(shift models.Shift, referenceDate time.Time) Timestamps {
	overnight := IsOvernight(shift)
	endDay := referenceDate
	if overnight {
		endDay = AddDays(referenceDate, 1)
	}
	return Timestamps{
		Start:       At(referenceDate, shift.StartTime),
		OfficeEnd:   At(endDay, shift.OfficeEndTime),
		End:         At(endDay, shift.EndTime),
		IsOvernight: overnight,
	}
}

// DepartureAt is the departure instant for the occurrence on referenceDate.
// For overnight shifts departing at 20:00 or later it belongs to the evening
// before referenceDate.
func DepartureAt(shift models.Shift, referenceDate time.Time) time.Time {
	h, _, err := ParseClock(shift.DepartureTime)
	if err == nil && h >= config.NightDepartureHour && IsOvernight(shift) {
		return At(AddDays(referenceDate, -1), shift.DepartureTime)
	}
	return At(referenceDate, shift.DepartureTime)
}

// DepartureBeforeStart is the departure on the same physical night as the
// start of the occurrence on date: the departure clock on date, or on the
// day before when that clock falls after the start.
func DepartureBeforeStart(shift models.Shift, date time.Time) time.Time {
	start := At(date, shift.StartTime)
	dep := At(date, shift.DepartureTime)
	if dep.After(start) {
		dep = At(AddDays(date, -1), shift.DepartureTime)
	}
	return dep
}

// ResetBoundary is the instant the button starts the work date date.
func ResetBoundary(shift models.Shift, date time.Time) time.Time {
	return DepartureBeforeStart(shift, date).Add(-config.ResetBeforeDeparture)
}

// WorksOn reports whether date is one of the shift's work days.
func WorksOn(shift models.Shift, date time.Time) bool {
	return shift.WorksOn(date.Weekday())
}

// WorkDate is the calendar date whose logs the button reflects at now: the
// latest date (today always, tomorrow or a past day only when it is a work
// day) whose reset boundary has passed.
func WorkDate(shift models.Shift, now time.Time) time.Time {
	today := Midnight(now)
	for offset := 1; offset >= -7; offset-- {
		d := AddDays(today, offset)
		if offset != 0 && !WorksOn(shift, d) {
			continue
		}
		if !now.Before(ResetBoundary(shift, d)) {
			return d
		}
	}
	return today
}

// NextResetBoundary is the first reset boundary of a work day after now.
func NextResetBoundary(shift models.Shift, now time.Time) (time.Time, bool) {
	today := Midnight(now)
	for offset := -1; offset <= config.ScanDays; offset++ {
		d := AddDays(today, offset)
		if !WorksOn(shift, d) {
			continue
		}
		if b := ResetBoundary(shift, d); b.After(now) {
			return b, true
		}
	}
	return time.Time{}, false
}

// DateKey formats a date as "YYYY-MM-DD".
func DateKey(t time.Time) string {
	return t.Format(dateKeyLayout)
}

// CompactDateKey formats a date as "yyyymmdd".
func CompactDateKey(t time.Time) string {
	return t.Format(compactDateKeyLayout)
}

// ParseDateKey parses a "YYYY-MM-DD" key in loc.
func ParseDateKey(key string, loc *time.Location) (time.Time, error) {
	return time.ParseInLocation(dateKeyLayout, key, loc)
}
