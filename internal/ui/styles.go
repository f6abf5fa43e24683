package ui

import "github.com/charmbracelet/lipgloss"

var (
	// Adaptive colors for dark/light terminals
	colorPrimary = lipgloss.AdaptiveColor{Light: "#0087AF", Dark: "#00D7FF"}
	colorTitle   = lipgloss.AdaptiveColor{Light: "#AF8700", Dark: "#FFD700"}
	colorDim     = lipgloss.AdaptiveColor{Light: "#9B9B9B", Dark: "#626262"}
	colorSource  = lipgloss.AdaptiveColor{Light: "#005FD7", Dark: "#5FAFFF"}
	colorBorder  = lipgloss.AdaptiveColor{Light: "#DBDBDB", Dark: "#383838"}
	colorGreen   = lipgloss.AdaptiveColor{Light: "#04B575", Dark: "#25D366"}
	colorWarn    = lipgloss.AdaptiveColor{Light: "#AF5F00", Dark: "#FFAF00"}
	colorErr     = lipgloss.AdaptiveColor{Light: "#D70000", Dark: "#FF5F5F"}

	bannerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorPrimary)

	subtitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorTitle)

	tableTitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorGreen)

	headerCellStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorPrimary)

	indexCellStyle = lipgloss.NewStyle().
			Foreground(colorPrimary)

	titleCellStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorTitle)

	dateCellStyle = lipgloss.NewStyle().
			Foreground(colorDim)

	sourceCellStyle = lipgloss.NewStyle().
			Foreground(colorSource)

	panelStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorBorder).
			Padding(0, 1)

	hintStyle = lipgloss.NewStyle().
			Foreground(colorDim)

	infoStyle = lipgloss.NewStyle().
			Foreground(colorGreen)

	warnStyle = lipgloss.NewStyle().
			Foreground(colorWarn)

	errStyle = lipgloss.NewStyle().
			Foreground(colorErr)
)
