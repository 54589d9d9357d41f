package reminders

// ScheduleOutcome is what scheduleKind did with a candidate.
type ScheduleOutcome int

const (
	OutcomeScheduled ScheduleOutcome = iota
	// OutcomeMirrorFallback means the alarm is scheduled and the mirror only
	// accepted it under the fallback id.
	OutcomeMirrorFallback
	// OutcomeMirrorFailed means the alarm is scheduled but not mirrored.
	OutcomeMirrorFailed
	// OutcomeStale means the trigger passed before it could be written.
	OutcomeStale
	OutcomeFailed
)

func (o ScheduleOutcome) String() string {
	switch o {
	case OutcomeScheduled:
		return "scheduled"
	case OutcomeMirrorFallback:
		return "mirror_fallback"
	case OutcomeMirrorFailed:
		return "mirror_failed"
	case OutcomeStale:
		return "stale"
	default:
		return "failed"
	}
}

// Scheduled reports whether the alarm made it into the store.
func (o ScheduleOutcome) Scheduled() bool {
	return o == OutcomeScheduled || o == OutcomeMirrorFallback || o == OutcomeMirrorFailed
}
