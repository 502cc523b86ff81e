package ui

import "github.com/charmbracelet/lipgloss"

// channel color tags are opaque to the core; this is where they become real
// terminal colors. Unknown tags render in the default foreground.
var colorTags = map[string]lipgloss.Color{
	"black":         lipgloss.Color("0"),
	"red":           lipgloss.Color("1"),
	"green":         lipgloss.Color("2"),
	"yellow":        lipgloss.Color("3"),
	"blue":          lipgloss.Color("4"),
	"magenta":       lipgloss.Color("5"),
	"cyan":          lipgloss.Color("6"),
	"white":         lipgloss.Color("7"),
	"brightred":     lipgloss.Color("9"),
	"brightgreen":   lipgloss.Color("10"),
	"brightyellow":  lipgloss.Color("11"),
	"brightblue":    lipgloss.Color("12"),
	"brightmagenta": lipgloss.Color("13"),
	"brightcyan":    lipgloss.Color("14"),
}

func tagColor(tag string) lipgloss.Color {
	if c, ok := colorTags[tag]; ok {
		return c
	}
	return lipgloss.Color(tag) // allow raw ANSI/hex values in config
}

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)

	panelStyle = lipgloss.NewStyle().
			Border(lipgloss.NormalBorder()).
			BorderForeground(lipgloss.Color("8"))

	focusedPanelStyle = lipgloss.NewStyle().
				Border(lipgloss.NormalBorder()).
				BorderForeground(lipgloss.Color("3")).
				Bold(true)

	labelStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	statsStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("7"))
	latestStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true)
	historyX    = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	historyY    = lipgloss.NewStyle().Foreground(lipgloss.Color("6"))
	lockStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	helpStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("8")).Padding(0, 1)
	statusStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("3")).Padding(0, 1)
)
