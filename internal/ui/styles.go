package ui

import "github.com/charmbracelet/lipgloss"

// Category colors for the card border and badge
var categoryColors = map[string]lipgloss.Color{
	"代码":   lipgloss.Color("#58a6ff"), // blue
	"事业":   lipgloss.Color("#d2a8ff"), // purple
	"健康":   lipgloss.Color("#7ee787"), // green
	"财运":   lipgloss.Color("#ffa657"), // orange
	"生活":   lipgloss.Color("#f778ba"), // pink
	"code": lipgloss.Color("#58a6ff"),
	"life": lipgloss.Color("#f778ba"),
}

var defaultCategoryColor = lipgloss.Color("#8b949e")

func categoryColor(category string) lipgloss.Color {
	if c, ok := categoryColors[category]; ok {
		return c
	}
	return defaultCategoryColor
}

var (
	titleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#f85149")).
			Bold(true)

	blessingStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#ffffff")).
			Bold(true)

	badgeFgStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#0d1117")).
			Padding(0, 1)

	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#8b949e"))

	faintStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#484f58"))

	statusStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#d29922")).
			Italic(true)

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#f85149")).
			Bold(true)

	selectedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#ffffff")).
			Background(lipgloss.Color("#1f3a5f")).
			Bold(true)

	linkStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#58a6ff")).
			Underline(true)

	completeStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#3fb950")).
			Bold(true)
)

// cardStyle builds the blessing card container in the category's color.
func cardStyle(category string, width int) lipgloss.Style {
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(categoryColor(category)).
		Padding(1, 3).
		Width(width)
}
