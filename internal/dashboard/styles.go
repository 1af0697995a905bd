package dashboard

import (
	"github.com/charmbracelet/lipgloss"
)

// MinSideWidth is the minimum character width for the highlights pane.
const MinSideWidth = 28

// Type badge colors keyed by elemental type. Unknown types render gray.
var typeColors = map[string]lipgloss.AdaptiveColor{
	"normal":   {Light: "244", Dark: "250"},
	"fire":     {Light: "160", Dark: "203"},
	"water":    {Light: "26", Dark: "75"},
	"electric": {Light: "136", Dark: "220"},
	"grass":    {Light: "28", Dark: "114"},
	"ice":      {Light: "31", Dark: "117"},
	"fighting": {Light: "124", Dark: "167"},
	"poison":   {Light: "90", Dark: "170"},
	"ground":   {Light: "130", Dark: "179"},
	"flying":   {Light: "61", Dark: "147"},
	"psychic":  {Light: "162", Dark: "205"},
	"bug":      {Light: "64", Dark: "148"},
	"rock":     {Light: "94", Dark: "180"},
	"ghost":    {Light: "55", Dark: "141"},
	"dragon":   {Light: "57", Dark: "99"},
	"dark":     {Light: "238", Dark: "245"},
	"steel":    {Light: "66", Dark: "152"},
	"fairy":    {Light: "168", Dark: "218"},
}

var defaultTypeColor = lipgloss.AdaptiveColor{Light: "240", Dark: "245"}

// TypeBadge returns a styled type label.
func TypeBadge(name string) string {
	color, ok := typeColors[name]
	if !ok {
		color = defaultTypeColor
	}
	return lipgloss.NewStyle().Foreground(color).Render(name)
}

var (
	accentColor = lipgloss.AdaptiveColor{Light: "4", Dark: "12"}

	mutedText    = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "240", Dark: "245"})
	titleText    = lipgloss.NewStyle().Bold(true)
	selectedText = lipgloss.NewStyle().Foreground(accentColor).Bold(true)
	errorText    = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "1", Dark: "9"})
	noticeText   = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "130", Dark: "214"})
	currentPage  = lipgloss.NewStyle().Foreground(accentColor).Bold(true)

	popoverStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.AdaptiveColor{Light: "136", Dark: "220"}).
			Padding(0, 1)
)

// FocusedBorder returns a lipgloss style with an accent-colored rounded border.
func FocusedBorder() lipgloss.Style {
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(accentColor)
}

// UnfocusedBorder returns a lipgloss style with a dim rounded border.
func UnfocusedBorder() lipgloss.Style {
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.AdaptiveColor{Light: "240", Dark: "240"})
}

// PaneWidths calculates the card and highlights pane widths from a total
// width. The highlights pane gets 1/3 (minimum MinSideWidth), cards get the rest.
func PaneWidths(totalWidth int) (cards, side int) {
	if totalWidth <= 0 {
		return 0, 0
	}
	side = totalWidth / 3
	if side < MinSideWidth {
		side = MinSideWidth
	}
	cards = totalWidth - side
	if cards < 0 {
		cards = 0
	}
	return cards, side
}
