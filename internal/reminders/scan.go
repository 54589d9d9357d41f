package reminders

import (
	"time"

	"github.com/akyairhashvil/shiftbell/internal/config"
	"github.com/akyairhashvil/shiftbell/internal/models"
	"github.com/akyairhashvil/shiftbell/internal/shifttime"
)

// Candidate is the occurrence a reminder kind should be scheduled for.
type Candidate struct {
	Kind    models.ReminderKind
	Date    time.Time // shift start date
	Trigger time.Time
	Anchor  time.Time // shift instant the delivery window is measured from
}

// ID is the deterministic alarm id "{kind}-{yyyymmdd}".
func (c Candidate) ID() string {
	return c.Kind.IDPrefix() + shifttime.CompactDateKey(c.Date)
}

// FallbackID is the id used when the mirror rejects ID.
func (c Candidate) FallbackID() string {
	return "shift_" + string(c.Kind) + "_" + shifttime.CompactDateKey(c.Date)
}

// Trigger computes when the kind's reminder fires for the occurrence
// starting on date, and its anchor.
func Trigger(kind models.ReminderKind, shift models.Shift, date time.Time) (trigger, anchor time.Time) {
	ts := shifttime.BuildScheduledTimestamps(shift, date)
	switch kind {
	case models.ReminderDeparture:
		trigger = shifttime.DepartureAt(shift, date).Add(-config.DepartureLead)
		return trigger, trigger
	case models.ReminderCheckIn:
		lead := max(config.MinCheckInLead, shift.RemindBeforeStart)
		return ts.Start.Add(-time.Duration(lead) * time.Minute), ts.Start
	default:
		lag := config.DefaultCheckOutLag
		if shift.RemindAfterEnd > 0 {
			lag = max(config.MinCheckOutLag, shift.RemindAfterEnd)
		}
		return ts.OfficeEnd.Add(time.Duration(lag) * time.Minute), ts.OfficeEnd
	}
}

// Satisfied reports whether the log a reminder of kind asks for was already
// recorded for the occurrence starting on date. A departure also counts
// when go_work landed on the work date in effect at the departure instant,
// which for late-evening departures of night shifts is the day before.
func Satisfied(kind models.ReminderKind, shift models.Shift, date time.Time, logs models.AttendanceLogs) bool {
	want := kind.SatisfiedBy()
	if models.Has(logs[shifttime.DateKey(date)], want) {
		return true
	}
	if kind != models.ReminderDeparture {
		return false
	}
	at := shifttime.WorkDate(shift, shifttime.DepartureAt(shift, date))
	return models.Has(logs[shifttime.DateKey(at)], want)
}

// FindCandidate scans forward from today for the first work day whose
// trigger is strictly after now, inside the scheduling horizon and not yet
// satisfied. Overnight shifts also look at yesterday's occurrence, whose
// check-out may still be ahead.
func FindCandidate(kind models.ReminderKind, shift models.Shift, logs models.AttendanceLogs, now time.Time) (Candidate, bool) {
	today := shifttime.Midnight(now)
	horizon := now.Add(config.ScheduleHorizon)
	first := 0
	if shifttime.IsOvernight(shift) {
		first = -1
	}
	for offset := first; offset < config.ScanDays; offset++ {
		date := shifttime.AddDays(today, offset)
		if !shifttime.WorksOn(shift, date) {
			continue
		}
		trigger, anchor := Trigger(kind, shift, date)
		if !trigger.After(now) || trigger.After(horizon) {
			continue
		}
		if Satisfied(kind, shift, date, logs) {
			continue
		}
		return Candidate{Kind: kind, Date: date, Trigger: trigger, Anchor: anchor}, true
	}
	return Candidate{}, false
}

// FindCandidates returns at most one candidate per reminder kind.
func FindCandidates(shift models.Shift, logs models.AttendanceLogs, now time.Time) []Candidate {
	var out []Candidate
	for _, kind := range models.ReminderKinds {
		if c, ok := FindCandidate(kind, shift, logs, now); ok {
			out = append(out, c)
		}
	}
	return out
}
