// Package dashboard implements the interactive catalog browser: a paged card
// list with search, a highlights pane, and a detail overlay with on-demand
// move details.
package dashboard

import (
	"context"

	"github.com/smileynet/dexterm/internal/cache"
	"github.com/smileynet/dexterm/internal/catalog"
	"github.com/smileynet/dexterm/internal/highlights"
	"github.com/smileynet/dexterm/internal/search"
)

// Mode represents the current dashboard view mode.
type Mode int

const (
	ModeBrowse Mode = iota // Card list with highlights pane.
	ModeDetail             // Detail overlay for one record.
)

// Focus represents which pane has keyboard focus in browse mode.
type Focus int

const (
	PaneCards      Focus = iota // Card list has focus.
	PaneHighlights              // Highlights pane has focus.
)

// --- Consumer-side interfaces ---

// Source is everything the dashboard asks of the catalog. Every method may
// block on the network and is called from a tea.Cmd goroutine.
type Source interface {
	Index(ctx context.Context) ([]catalog.IndexEntry, error)
	Page(ctx context.Context, entries []catalog.IndexEntry) []cache.Card
	Search(ctx context.Context, raw string, index []catalog.IndexEntry) search.Result
	Move(ctx context.Context, locator string) (*catalog.MoveDetail, error)
	HighlightTable(ctx context.Context) ([]catalog.Highlight, error)
	ResolveHighlight(ctx context.Context, h catalog.Highlight) highlights.Card
}

// --- tea.Msg types ---

// IndexMsg carries the result of loading the catalog index.
type IndexMsg struct {
	Entries []catalog.IndexEntry
	Err     error
}

// PageRequestMsg asks the model to load the current page. browseState emits
// it; Model.Update intercepts it, stamps a generation, and calls loadPage.
type PageRequestMsg struct{}

// PageMsg carries the settled cards of one page load.
type PageMsg struct {
	Gen   int
	Cards []cache.Card
}

// searchTickMsg fires when the search debounce interval elapses.
type searchTickMsg struct {
	Seq int
}

// SearchMsg carries the result of evaluating a query.
type SearchMsg struct {
	Seq    int
	Query  string
	Result search.Result
}

// OpenDetailMsg asks the model to open the detail overlay for a record.
type OpenDetailMsg struct {
	Record *catalog.DetailRecord
}

// CloseDetailMsg returns from the detail overlay to browse mode.
type CloseDetailMsg struct{}

// MoveRequestMsg asks the model to fetch the move on a detail row.
type MoveRequestMsg struct {
	Row     int
	Locator string
}

// MoveMsg carries the result of a move fetch for one detail row.
type MoveMsg struct {
	Row     int
	Locator string
	Move    *catalog.MoveDetail
	Err     error
}

// HighlightsMsg carries the highlights table before any entry is resolved.
type HighlightsMsg struct {
	Entries []catalog.Highlight
	Err     error
}

// HighlightMsg carries the resolution of the highlights entry at Index.
type HighlightMsg struct {
	Index int
	Card  highlights.Card
}

// clearNoticeMsg clears the status notice if it is still the one shown.
type clearNoticeMsg struct {
	Seq int
}
