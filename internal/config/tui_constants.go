package config

// Layout constants.
const (
	// MinPanelWidth is the narrowest the main panel is rendered.
	MinPanelWidth = 40

	// ProgressWidth is the preferred width of the shift progress bar.
	ProgressWidth = 30
)

// Display limits.
const (
	// MaxVisibleAlarms limits pending alarms listed on the dashboard.
	MaxVisibleAlarms = 6

	// MaxVisibleLogs limits the day's log lines shown.
	MaxVisibleLogs = 8

	// TruncationSuffix appended to truncated strings.
	TruncationSuffix = "…"
)

// Input constraints.
const (
	// MaxReasonLength is the maximum manual override reason length.
	MaxReasonLength = 120
)
