package attendance

import (
	"math"
	"time"

	"github.com/akyairhashvil/shiftbell/internal/models"
	"github.com/akyairhashvil/shiftbell/internal/shifttime"
	"github.com/akyairhashvil/shiftbell/internal/util"
)

const (
	nightStartClock = "22:00"
	nightEndClock   = "06:00"
)

// ComputeStatus derives the work status of date from its logs.
func ComputeStatus(shift models.Shift, date time.Time, logs []models.AttendanceLog, now time.Time) models.DailyWorkStatus {
	ts := shifttime.BuildScheduledTimestamps(shift, date)
	st := models.DailyWorkStatus{
		Date:           shifttime.DateKey(date),
		ShiftID:        shift.ID,
		ScheduledHours: hours(ts.OfficeEnd.Sub(ts.Start)),
		UpdatedAt:      now,
	}

	checkIn, hasIn := models.Find(logs, models.LogCheckIn)
	checkOut, hasOut := models.FindLast(logs, models.LogCheckOut)

	switch {
	case len(logs) == 0:
		switch {
		case !shifttime.WorksOn(shift, date):
			st.Status = models.WorkStatusDayOff
		case now.After(ts.End):
			st.Status = models.WorkStatusAbsent
		default:
			st.Status = models.WorkStatusPending
		}
		return st

	case !hasIn && models.Has(logs, models.LogComplete):
		// Simple mode: one press stands for the whole scheduled day.
		goWork, _ := models.Find(logs, models.LogGoWork)
		st.CheckIn = util.Ptr(goWork.Time)
		st.StandardHours = st.ScheduledHours
		st.TotalHours = st.ScheduledHours
		if date.Weekday() == time.Sunday {
			st.SundayHours = st.TotalHours
		}
		st.Status = models.WorkStatusOnTime
		return st

	case !hasIn:
		if now.After(ts.End) {
			st.Status = models.WorkStatusAbsent
		} else {
			st.Status = models.WorkStatusPending
		}
		return st
	}

	st.CheckIn = util.Ptr(checkIn.Time)
	st.LateMinutes = positiveMinutes(checkIn.Time.Sub(ts.Start))
	if !hasOut {
		st.Status = models.WorkStatusIncomplete
		return st
	}

	st.CheckOut = util.Ptr(checkOut.Time)
	st.EarlyMinutes = positiveMinutes(ts.OfficeEnd.Sub(checkOut.Time))
	st.StandardHours = hours(overlap(checkIn.Time, checkOut.Time, ts.Start, ts.OfficeEnd))
	st.OvertimeHours = hours(overlap(checkIn.Time, checkOut.Time, ts.OfficeEnd, ts.End))
	st.TotalHours = hours(positive(checkOut.Time.Sub(checkIn.Time)))
	if date.Weekday() == time.Sunday {
		st.SundayHours = st.TotalHours
	}
	st.NightHours = hours(nightOverlap(checkIn.Time, checkOut.Time, date))

	switch {
	case st.LateMinutes > 0 && st.EarlyMinutes > 0:
		st.Status = models.WorkStatusLateEarly
	case st.LateMinutes > 0:
		st.Status = models.WorkStatusLate
	case st.EarlyMinutes > 0:
		st.Status = models.WorkStatusEarly
	default:
		st.Status = models.WorkStatusOnTime
	}
	return st
}

func nightOverlap(from, to, date time.Time) time.Duration {
	var total time.Duration
	for offset := -1; offset <= 1; offset++ {
		d := shifttime.AddDays(date, offset)
		total += overlap(from, to, shifttime.At(d, nightStartClock), shifttime.At(shifttime.AddDays(d, 1), nightEndClock))
	}
	return total
}

func overlap(aStart, aEnd, bStart, bEnd time.Time) time.Duration {
	start := aStart
	if bStart.After(start) {
		start = bStart
	}
	end := aEnd
	if bEnd.Before(end) {
		end = bEnd
	}
	return positive(end.Sub(start))
}

func positive(d time.Duration) time.Duration {
	if d < 0 {
		return 0
	}
	return d
}

func positiveMinutes(d time.Duration) int {
	if d <= 0 {
		return 0
	}
	return int(d / time.Minute)
}

func hours(d time.Duration) float64 {
	return math.Round(d.Hours()*100) / 100
}
