package tui

import "github.com/charmbracelet/lipgloss"

var (
	titleStyle          = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	subtitleStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	badgeOKStyle        = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	badgeErrStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	viewportStyle       = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	promptStyle         = lipgloss.NewStyle().Foreground(lipgloss.Color("12")).Bold(true)
	spinnerStyle        = lipgloss.NewStyle().Foreground(lipgloss.Color("13"))
	hintStyle           = lipgloss.NewStyle().Foreground(lipgloss.Color("13")).Italic(true)
	statusStyle         = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	userLabelStyle      = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("14"))
	assistantLabelStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("11"))
)
