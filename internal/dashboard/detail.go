package dashboard

import (
	"fmt"
	"maps"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/smileynet/dexterm/internal/catalog"
	"github.com/smileynet/dexterm/internal/detail"
)

// infoColumnWidth is the width of the detail overlay's left column.
const infoColumnWidth = 34

// movesHeader is the number of lines above the move list.
const movesHeader = 2

// popoverState is the open move popover, anchored below its row.
type popoverState struct {
	row  int
	move detail.MoveView
}

// detailState is the detail overlay for one record: the info column, the
// scrollable move list with its cursor, per-row busy guards, and at most one
// popover.
type detailState struct {
	record   *catalog.DetailRecord
	view     detail.View
	cursor   int
	busy     map[int]bool
	popover  *popoverState
	viewport viewport.Model
	width    int
}

func newDetailState(rec *catalog.DetailRecord, width, height int) detailState {
	ds := detailState{
		record:   rec,
		view:     detail.Build(rec),
		busy:     map[int]bool{},
		viewport: viewport.New(0, 0),
	}
	return ds.resize(width, height)
}

// resize fits the overlay to width x height of pane content.
func (ds detailState) resize(width, height int) detailState {
	ds.width = width
	ds.viewport.Width = ds.movesWidth()
	ds.viewport.Height = max(1, height-movesHeader)
	return ds.sync()
}

func (ds detailState) movesWidth() int {
	return max(0, ds.width-infoColumnWidth-1)
}

// Update processes messages for the detail overlay.
func (ds detailState) Update(msg tea.Msg) (detailState, tea.Cmd) {
	switch msg := msg.(type) {
	case MoveMsg:
		if msg.Row < 0 || msg.Row >= len(ds.view.Moves) || ds.view.Moves[msg.Row].Locator != msg.Locator {
			return ds, nil
		}
		ds.busy = maps.Clone(ds.busy)
		delete(ds.busy, msg.Row)
		if msg.Err == nil && msg.Move != nil {
			ds.popover = &popoverState{row: msg.Row, move: detail.BuildMove(msg.Move)}
		}
		return ds.sync(), nil

	case tea.MouseMsg:
		// Coordinates are relative to the overlay's top-left cell.
		if msg.Action == tea.MouseActionPress && ds.popover != nil && !ds.hitsPopover(msg.X, msg.Y) {
			ds.popover = nil
			return ds.sync(), nil
		}
		return ds, nil

	case tea.KeyMsg:
		return ds.handleKey(msg)
	}
	return ds, nil
}

func (ds detailState) handleKey(msg tea.KeyMsg) (detailState, tea.Cmd) {
	switch msg.String() {
	case "up", "k":
		if ds.cursor > 0 {
			ds.cursor--
		}
		ds.popover = nil
		return ds.sync(), nil

	case "down", "j":
		if ds.cursor < len(ds.view.Moves)-1 {
			ds.cursor++
		}
		ds.popover = nil
		return ds.sync(), nil

	case "enter":
		if len(ds.view.Moves) == 0 || ds.busy[ds.cursor] {
			return ds, nil
		}
		row, ref := ds.cursor, ds.view.Moves[ds.cursor]
		ds.busy = maps.Clone(ds.busy)
		ds.busy[row] = true
		return ds.sync(), func() tea.Msg { return MoveRequestMsg{Row: row, Locator: ref.Locator} }

	case "esc":
		if ds.popover != nil {
			ds.popover = nil
			return ds.sync(), nil
		}
		return ds, func() tea.Msg { return CloseDetailMsg{} }
	}
	return ds, nil
}

// Busy reports whether the move on row is being fetched.
func (ds detailState) Busy(row int) bool {
	return ds.busy[row]
}

// sync re-renders the move list into the viewport and scrolls so the cursor
// row and any popover below it are visible.
func (ds detailState) sync() detailState {
	lines := ds.moveLines()
	ds.viewport.SetContent(strings.Join(lines, "\n"))

	first := ds.cursor
	if ds.popover != nil && ds.popover.row < ds.cursor {
		first += ds.popoverHeight()
	}
	last := first
	if ds.popover != nil && ds.popover.row == ds.cursor {
		last += ds.popoverHeight()
	}
	top := ds.viewport.YOffset
	if first < top {
		top = first
	}
	if last >= top+ds.viewport.Height {
		top = last - ds.viewport.Height + 1
	}
	ds.viewport.SetYOffset(top)
	return ds
}

func (ds detailState) moveLines() []string {
	var lines []string
	for i, m := range ds.view.Moves {
		prefix := "  "
		name := m.Name
		if i == ds.cursor {
			prefix = CursorMarker
			name = selectedText.Render(name)
		}
		line := prefix + name
		if ds.busy[i] {
			line += " " + mutedText.Render("Loading...")
		}
		lines = append(lines, line)
		if ds.popover != nil && ds.popover.row == i {
			lines = append(lines, ds.popoverLines(ds.popoverAnchor())...)
		}
	}
	if ds.view.MovesTruncated > 0 {
		lines = append(lines, mutedText.Render(fmt.Sprintf("  … %d more not shown", ds.view.MovesTruncated)))
	}
	return lines
}

func (ds detailState) popoverWidth() int {
	return min(detail.PopoverWidth, max(12, ds.movesWidth()))
}

// popoverLines renders the popover, shifted right toward anchorX but never
// past the right edge of the move column.
func (ds detailState) popoverLines(anchorX int) []string {
	box := ds.popoverBox()
	pad := strings.Repeat(" ", ds.popoverOffset(anchorX, box))

	lines := strings.Split(box, "\n")
	for i := range lines {
		lines[i] = pad + lines[i]
	}
	return lines
}

func (ds detailState) popoverBox() string {
	mv := ds.popover.move
	var b strings.Builder
	b.WriteString(titleText.Render(mv.Name))
	b.WriteString("\n" + mutedText.Render(mv.Subtitle()))
	fmt.Fprintf(&b, "\nPower: %s • Accuracy: %s • PP: %s", mv.Power, mv.Accuracy, mv.PP)
	if mv.HasEffect {
		b.WriteString("\n" + mutedText.Render(mv.Effect))
	}
	b.WriteString("\n" + mutedText.Render("esc to close"))

	width := ds.popoverWidth()
	return popoverStyle.Width(width - popoverStyle.GetHorizontalFrameSize()).Render(b.String())
}

func (ds detailState) popoverOffset(anchorX int, box string) int {
	return detail.PlacePopover(anchorX, lipgloss.Width(box), ds.movesWidth())
}

func (ds detailState) popoverAnchor() int {
	return lipgloss.Width(CursorMarker) + lipgloss.Width(ds.view.Moves[ds.popover.row].Name)
}

// popoverRect returns the visible cells of the popover relative to the
// overlay's top-left cell: x0 and y0 inclusive, x1 and y1 exclusive. ok is
// false when no popover is open or it is scrolled out of view.
func (ds detailState) popoverRect() (x0, y0, x1, y1 int, ok bool) {
	if ds.popover == nil {
		return 0, 0, 0, 0, false
	}
	box := ds.popoverBox()
	x0 = infoColumnWidth + 1 + ds.popoverOffset(ds.popoverAnchor(), box)
	x1 = x0 + lipgloss.Width(box)

	// The popover's lines follow its row in the move list.
	first := ds.popover.row + 1
	last := first + lipgloss.Height(box)
	top, bottom := ds.viewport.YOffset, ds.viewport.YOffset+ds.viewport.Height
	first, last = max(first, top), min(last, bottom)
	if first >= last {
		return 0, 0, 0, 0, false
	}
	return x0, movesHeader + first - top, x1, movesHeader + last - top, true
}

// hitsPopover reports whether the overlay cell x, y lies on the popover.
func (ds detailState) hitsPopover(x, y int) bool {
	x0, y0, x1, y1, ok := ds.popoverRect()
	return ok && x >= x0 && x < x1 && y >= y0 && y < y1
}

func (ds detailState) popoverHeight() int {
	if ds.popover == nil {
		return 0
	}
	return lipgloss.Height(ds.popoverBox())
}

// View renders the overlay: info column on the left, moves on the right.
func (ds detailState) View() string {
	moves := titleText.Render(fmt.Sprintf("Moves (%d)", len(ds.view.Moves)+ds.view.MovesTruncated)) +
		"\n\n" + ds.viewport.View()
	info := lipgloss.NewStyle().Width(infoColumnWidth).Render(ds.viewInfo())
	return lipgloss.JoinHorizontal(lipgloss.Top, info, " ", moves)
}

func (ds detailState) viewInfo() string {
	v := ds.view
	var b strings.Builder
	b.WriteString(titleText.Render(v.Name) + " " + mutedText.Render(v.DisplayID))
	if v.Sprite != "" {
		b.WriteString("\n" + mutedText.Render(truncate(v.Sprite, infoColumnWidth)))
	} else {
		b.WriteString("\n" + mutedText.Render("(no artwork)"))
	}
	badges := make([]string, len(v.Types))
	for i, t := range v.Types {
		badges[i] = TypeBadge(t)
	}
	b.WriteString("\n" + strings.Join(badges, " "))

	b.WriteString("\n\n" + titleText.Render("Abilities"))
	for _, a := range v.Abilities {
		name := a.Name
		if a.Hidden {
			name += " (hidden)"
		}
		fmt.Fprintf(&b, "\n%-24s %s", name, mutedText.Render(fmt.Sprint(a.Slot)))
	}

	b.WriteString("\n\n" + titleText.Render("Base Stats"))
	for _, s := range v.Stats {
		fmt.Fprintf(&b, "\n%-16s %3d %s", s.Name, s.Value, statBar(s.Value))
	}

	fmt.Fprintf(&b, "\n\n%s\n%s", mutedText.Render("Height: "+v.Height), mutedText.Render("Weight: "+v.Weight))
	b.WriteString("\n" + mutedText.Render("Base Experience: "+v.BaseExperience))
	return b.String()
}

// statBar draws one block per 20 points, capped at 12 cells.
func statBar(value int) string {
	return mutedText.Render(strings.Repeat("▮", min(12, max(0, value/20))))
}

func truncate(s string, width int) string {
	if lipgloss.Width(s) <= width || width < 2 {
		return s
	}
	r := []rune(s)
	return string(r[:width-1]) + "…"
}
