package dashboard

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/smileynet/dexterm/internal/catalog"
	"github.com/smileynet/dexterm/internal/highlights"
)

// loadIndex returns a tea.Cmd that fetches the catalog index.
func loadIndex(ctx context.Context, src Source) tea.Cmd {
	return func() tea.Msg {
		entries, err := src.Index(ctx)
		return IndexMsg{Entries: entries, Err: err}
	}
}

// loadPage returns a tea.Cmd that resolves every entry of one page and
// delivers the settled cards stamped with gen.
func loadPage(ctx context.Context, src Source, gen int, entries []catalog.IndexEntry) tea.Cmd {
	return func() tea.Msg {
		return PageMsg{Gen: gen, Cards: src.Page(ctx, entries)}
	}
}

// runSearch returns a tea.Cmd that evaluates query against index.
func runSearch(ctx context.Context, src Source, seq int, query string, index []catalog.IndexEntry) tea.Cmd {
	return func() tea.Msg {
		return SearchMsg{Seq: seq, Query: query, Result: src.Search(ctx, query, index)}
	}
}

// loadMove returns a tea.Cmd that fetches the move for one detail row.
func loadMove(ctx context.Context, src Source, row int, locator string) tea.Cmd {
	return func() tea.Msg {
		mv, err := src.Move(ctx, locator)
		return MoveMsg{Row: row, Locator: locator, Move: mv, Err: err}
	}
}

// loadHighlights returns a tea.Cmd that reads the highlights table.
func loadHighlights(ctx context.Context, src Source) tea.Cmd {
	return func() tea.Msg {
		entries, err := src.HighlightTable(ctx)
		return HighlightsMsg{Entries: entries, Err: err}
	}
}

// resolveHighlights returns one tea.Cmd per entry so a slow entry never
// holds back the others.
func resolveHighlights(ctx context.Context, src Source, cards []highlights.Card) []tea.Cmd {
	cmds := make([]tea.Cmd, len(cards))
	for i, c := range cards {
		h := c.Highlight
		cmds[i] = func() tea.Msg {
			return HighlightMsg{Index: i, Card: src.ResolveHighlight(ctx, h)}
		}
	}
	return cmds
}

// clearNoticeAfter returns a tea.Cmd that clears notice seq after d.
func clearNoticeAfter(d time.Duration, seq int) tea.Cmd {
	return tea.Tick(d, func(time.Time) tea.Msg { return clearNoticeMsg{Seq: seq} })
}
