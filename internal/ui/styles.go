package ui

import "github.com/charmbracelet/lipgloss"

// Styling constants
var (
	// Colors
	primaryColor   = lipgloss.Color("#AB8BFF") // light violet accent
	secondaryColor = lipgloss.Color("#F5F5F1") // light cream
	mutedColor     = lipgloss.Color("#9CA4AB")
	borderColor    = lipgloss.Color("#564D4D")

	// Text styles
	logoStyle = lipgloss.NewStyle().
			Foreground(primaryColor).
			Bold(true).
			MarginTop(1).
			MarginBottom(1)

	subtitleStyle = lipgloss.NewStyle().
			Foreground(secondaryColor).
			Bold(true)

	accentStyle = lipgloss.NewStyle().
			Foreground(primaryColor).
			Bold(true)

	mutedTextStyle = lipgloss.NewStyle().
			Foreground(mutedColor)

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#EF4444")).
			Bold(true)

	// Component styles
	inputStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(primaryColor).
			Padding(0, 1)

	cardStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(borderColor).
			Padding(0, 1)

	selectedCardStyle = cardStyle.
				BorderForeground(primaryColor)

	cardTitleStyle = lipgloss.NewStyle().
			Foreground(secondaryColor).
			Bold(true)

	helpStyle = lipgloss.NewStyle().
			Foreground(mutedColor).
			MarginTop(1)
)
