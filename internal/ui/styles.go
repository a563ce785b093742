package ui

import "github.com/charmbracelet/lipgloss"

var (
	docStyle    = lipgloss.NewStyle().Margin(1, 2)
	titleStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("228")).Bold(true)
	statusStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("252")).MarginTop(1)
	boxStyle    = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	selfStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("213")).Bold(true)
	hostStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("220"))
	dimStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	nextStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("46")).Bold(true)

	cellStyle = lipgloss.NewStyle().
			Width(4).Align(lipgloss.Center).
			Foreground(lipgloss.Color("252"))
	markedCellStyle = lipgloss.NewStyle().
			Width(4).Align(lipgloss.Center).
			Foreground(lipgloss.Color("0")).
			Background(lipgloss.Color("46")).
			Bold(true)

	keyOnStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	keyOffStyle = dimStyle
)
