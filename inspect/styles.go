package inspect

import "github.com/charmbracelet/lipgloss"

// Styles used by the register dump.
type Styles struct {
	register lipgloss.Style
	address  lipgloss.Style
	field    lipgloss.Style
	value    lipgloss.Style
	zero     lipgloss.Style
	err      lipgloss.Style
}

// ANSI Color reference
// 0	Black
// 1	Red
// 2	Green
// 3	Yellow
// 4	Blue
// 5	Magenta
// 6	Cyan
// 7	White
// 8	Bright Black (Gray)

// NewStyles returns the colored styles for terminal output.
func NewStyles() Styles {
	return Styles{
		register: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.ANSIColor(3)),
		address:  lipgloss.NewStyle().Foreground(lipgloss.ANSIColor(4)),
		field:    lipgloss.NewStyle().Foreground(lipgloss.ANSIColor(6)),
		value:    lipgloss.NewStyle().Bold(true).Foreground(lipgloss.ANSIColor(7)),
		zero:     lipgloss.NewStyle().Foreground(lipgloss.ANSIColor(8)),
		err:      lipgloss.NewStyle().Bold(true).Foreground(lipgloss.ANSIColor(7)).Background(lipgloss.ANSIColor(1)),
	}
}

// PlainStyles returns styles that render text unchanged.
func PlainStyles() Styles {
	plain := lipgloss.NewStyle()
	return Styles{
		register: plain,
		address:  plain,
		field:    plain,
		value:    plain,
		zero:     plain,
		err:      plain,
	}
}
