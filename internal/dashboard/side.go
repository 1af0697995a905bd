package dashboard

import (
	"fmt"
	"slices"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/smileynet/dexterm/internal/detail"
	"github.com/smileynet/dexterm/internal/highlights"
)

// sideState is the highlights pane: curated entries shown as soon as the
// table loads, each filled in by its own fetch.
type sideState struct {
	cards    []highlights.Card
	cursor   int
	loading  bool
	tableErr error
	started  bool // Per-entry fetches have been issued.
}

func newSideState() sideState {
	return sideState{loading: true}
}

// Update processes messages for the highlights pane.
func (ss sideState) Update(msg tea.Msg) (sideState, tea.Cmd) {
	switch msg := msg.(type) {
	case HighlightsMsg:
		ss.loading = false
		ss.tableErr = msg.Err
		ss.cards = highlights.Pending(msg.Entries)
		ss.cursor = 0
		ss.started = false
		return ss, nil

	case HighlightMsg:
		if msg.Index < 0 || msg.Index >= len(ss.cards) ||
			ss.cards[msg.Index].Highlight.Name != msg.Card.Highlight.Name {
			return ss, nil
		}
		ss.cards = slices.Clone(ss.cards)
		ss.cards[msg.Index] = msg.Card
		return ss, nil

	case tea.KeyMsg:
		if len(ss.cards) == 0 {
			return ss, nil
		}
		switch msg.String() {
		case "up", "k":
			ss.cursor = (ss.cursor - 1 + len(ss.cards)) % len(ss.cards)
		case "down", "j":
			ss.cursor = (ss.cursor + 1) % len(ss.cards)
		case "enter":
			card := ss.cards[ss.cursor]
			if card.Record == nil {
				return ss, nil
			}
			return ss, func() tea.Msg { return OpenDetailMsg{Record: card.Record} }
		}
	}
	return ss, nil
}

// ready reports whether the table is loaded but its entries not yet fetched.
func (ss sideState) ready() bool {
	return !ss.loading && !ss.started && len(ss.cards) > 0
}

// View renders the pane. spinnerView is the current spinner frame.
func (ss sideState) View(width int, spinnerView string) string {
	var b strings.Builder
	b.WriteString(titleText.Render("Highlights"))
	switch {
	case ss.loading:
		fmt.Fprintf(&b, "\n\n%s Loading...", spinnerView)
		return b.String()
	case ss.tableErr != nil:
		b.WriteString("\n\n" + errorText.Render("Highlights unavailable."))
		return b.String()
	case len(ss.cards) == 0:
		b.WriteString("\n\n" + mutedText.Render("Nothing curated yet."))
		return b.String()
	}

	for i, c := range ss.cards {
		b.WriteString("\n\n")
		marker := "  "
		name := c.Highlight.Name
		if i == ss.cursor {
			marker = CursorMarker
			name = selectedText.Render(name)
		}
		b.WriteString(marker + name)
		if c.Record != nil {
			b.WriteString(" " + mutedText.Render(detail.FormatID(c.Record.ID)))
		}
		b.WriteString("\n  " + mutedText.Render(c.Highlight.Owner))
		b.WriteString("\n  " + truncate(c.Highlight.Note, max(8, width-2)))
		switch {
		case c.Err != nil:
			b.WriteString("\n  " + errorText.Render("details unavailable"))
		case c.Pending():
			fmt.Fprintf(&b, "\n  %s %s", spinnerView, mutedText.Render("Loading..."))
		}
	}
	return b.String()
}
