package config

import "time"

// Reminder lead times.
const (
	DepartureLead        = 30 * time.Minute
	MinCheckInLead       = 5
	MinCheckOutLag       = 5
	DefaultCheckOutLag   = 10
	NightDepartureHour   = 20
	ResetBeforeDeparture = time.Hour
)

// Scan bounds for the reminder engine.
const (
	ScanDays        = 14
	ScheduleHorizon = 7 * 24 * time.Hour
)

// Delivery gate tolerances. These values are tuned; change them together.
const (
	DeliveryJitter       = 60 * time.Second
	RescheduleRaceGuard  = 2 * time.Minute
	DepartureWindow      = 15 * time.Minute
	CheckInWindow        = 30 * time.Minute
	CheckOutWindowBefore = 15 * time.Minute
	CheckOutWindowAfter  = 60 * time.Minute
)

// Default timings, overridable through Config.
const (
	DefaultAlarmTick           = 30 * time.Second
	DefaultStateTick           = time.Minute
	DefaultSettleDelay         = 500 * time.Millisecond
	DefaultStormDelay          = 5 * time.Minute
	DefaultDebounce            = time.Second
	DefaultRapidPressThreshold = 120 * time.Second
	DefaultSnoozeMinutes       = 5
)

// Database/application settings.
const (
	AppName               = "shiftbell"
	DBFileName            = "shiftbell.db"
	LogFileName           = "shiftbell.log"
	MaxPassphraseAttempts = 3
)
