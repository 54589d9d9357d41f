package tui

import (
	"sort"

	"github.com/charmbracelet/lipgloss"
)

type Theme struct {
	Name      string
	Base      lipgloss.Style
	Border    lipgloss.Color
	Header    lipgloss.Style
	GoWork    lipgloss.Style
	CheckIn   lipgloss.Style
	CheckOut  lipgloss.Style
	Completed lipgloss.Style
	Alert     lipgloss.Style
	Input     lipgloss.Style
	Good      lipgloss.Style
	Warn      lipgloss.Style
	Bad       lipgloss.Style
	Focused   lipgloss.Style
	Dim       lipgloss.Style
	Highlight lipgloss.Style
}

var Themes = map[string]Theme{
	"default": {
		Name:      "Default",
		Base:      lipgloss.NewStyle().Margin(1, 2),
		Border:    lipgloss.Color("63"),
		Header:    lipgloss.NewStyle().Foreground(lipgloss.Color("205")).Bold(true),
		GoWork:    lipgloss.NewStyle().Foreground(lipgloss.Color("81")).Bold(true),
		CheckIn:   lipgloss.NewStyle().Foreground(lipgloss.Color("46")).Bold(true),
		CheckOut:  lipgloss.NewStyle().Foreground(lipgloss.Color("208")).Bold(true),
		Completed: lipgloss.NewStyle().Foreground(lipgloss.Color("240")).Strikethrough(true),
		Alert:     lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true),
		Input:     lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("205")).Padding(0, 1).Width(50),
		Good:      lipgloss.NewStyle().Foreground(lipgloss.Color("10")),
		Warn:      lipgloss.NewStyle().Foreground(lipgloss.Color("11")),
		Bad:       lipgloss.NewStyle().Foreground(lipgloss.Color("196")),
		Focused:   lipgloss.NewStyle().Foreground(lipgloss.Color("205")).Bold(true),
		Dim:       lipgloss.NewStyle().Foreground(lipgloss.Color("240")),
		Highlight: lipgloss.NewStyle().Foreground(lipgloss.Color("63")),
	},
	"dracula": {
		Name:      "Dracula",
		Base:      lipgloss.NewStyle().Margin(1, 2),
		Border:    lipgloss.Color("62"),                                            // Purple
		Header:    lipgloss.NewStyle().Foreground(lipgloss.Color("50")).Bold(true), // Cyan
		GoWork:    lipgloss.NewStyle().Foreground(lipgloss.Color("117")).Bold(true),
		CheckIn:   lipgloss.NewStyle().Foreground(lipgloss.Color("120")).Bold(true), // Green
		CheckOut:  lipgloss.NewStyle().Foreground(lipgloss.Color("215")).Bold(true), // Orange
		Completed: lipgloss.NewStyle().Foreground(lipgloss.Color("60")).Strikethrough(true),
		Alert:     lipgloss.NewStyle().Foreground(lipgloss.Color("210")).Bold(true),
		Input:     lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("50")).Padding(0, 1).Width(50),
		Good:      lipgloss.NewStyle().Foreground(lipgloss.Color("120")),
		Warn:      lipgloss.NewStyle().Foreground(lipgloss.Color("228")),
		Bad:       lipgloss.NewStyle().Foreground(lipgloss.Color("203")),
		Focused:   lipgloss.NewStyle().Foreground(lipgloss.Color("212")).Bold(true), // Pink
		Dim:       lipgloss.NewStyle().Foreground(lipgloss.Color("60")),
		Highlight: lipgloss.NewStyle().Foreground(lipgloss.Color("62")),
	},
}

// CurrentTheme holds the currently active theme.
var CurrentTheme = Themes["default"]

func SetTheme(name string) {
	if t, ok := Themes[name]; ok {
		CurrentTheme = t
	}
}

// ThemeNames lists the theme keys in a stable order.
func ThemeNames() []string {
	names := make([]string, 0, len(Themes))
	for k := range Themes {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

func nextTheme(current string) string {
	names := ThemeNames()
	for i, n := range names {
		if n == current {
			return names[(i+1)%len(names)]
		}
	}
	return names[0]
}
