package terminal

import "github.com/charmbracelet/lipgloss"

var (
	baseFg    = lipgloss.Color("#E6E6E6")
	baseDimFg = lipgloss.AdaptiveColor{Light: "#6B7280", Dark: "#6B7280"}
	accentFg  = lipgloss.Color("#7C3AED")
	pinFg     = lipgloss.Color("#2563EB")
	popupBg   = lipgloss.Color("#F9FAFB")
	popupFg   = lipgloss.Color("#111827")

	mapStyle      = lipgloss.NewStyle()
	pinStyle      = lipgloss.NewStyle().Foreground(pinFg).Bold(true)
	tooltipStyle  = lipgloss.NewStyle().Foreground(baseFg).Bold(true)
	selectedStyle = lipgloss.NewStyle().Foreground(accentFg).Bold(true).Underline(true)
	popupStyle    = lipgloss.NewStyle().Foreground(popupFg).Background(popupBg)

	titleStyle = lipgloss.NewStyle().Foreground(accentFg).Bold(true)
	dimStyle   = lipgloss.NewStyle().Foreground(baseDimFg)
)
