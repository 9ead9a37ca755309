package report

import "github.com/charmbracelet/lipgloss"

// Theme decorates report lines for the terminal.
type Theme struct {
	Banner  func(string) string
	Heading func(string) string
	Warning func(string) string
	Muted   func(string) string
}

func plain(s string) string { return s }

// PlainTheme leaves text untouched. Files, the clipboard and the HTTP API use it.
var PlainTheme = Theme{Banner: plain, Heading: plain, Warning: plain, Muted: plain}

// One Dark palette.
var (
	colorBlue    = lipgloss.Color("#61AFEF")
	colorMagenta = lipgloss.Color("#C678DD")
	colorYellow  = lipgloss.Color("#E5C07B")
	colorComment = lipgloss.Color("#5C6370")
)

// ColorTheme styles banners, task headings and warnings with lipgloss.
func ColorTheme() Theme {
	banner := lipgloss.NewStyle().Foreground(colorMagenta).Bold(true)
	heading := lipgloss.NewStyle().Foreground(colorBlue).Bold(true)
	warning := lipgloss.NewStyle().Foreground(colorYellow)
	muted := lipgloss.NewStyle().Foreground(colorComment)

	return Theme{
		Banner:  render(banner),
		Heading: render(heading),
		Warning: render(warning),
		Muted:   render(muted),
	}
}

func render(style lipgloss.Style) func(string) string {
	return func(s string) string { return style.Render(s) }
}
