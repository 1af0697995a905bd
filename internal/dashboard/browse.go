package dashboard

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/smileynet/dexterm/internal/cache"
	"github.com/smileynet/dexterm/internal/catalog"
	"github.com/smileynet/dexterm/internal/detail"
	"github.com/smileynet/dexterm/internal/paginate"
	"github.com/smileynet/dexterm/internal/report"
)

// CursorMarker is the prefix shown on the selected row.
const CursorMarker = "▸ "

// browseChrome is the number of card-pane lines that are not cards: search,
// summary, and a blank line above the list; a blank line and the page footer
// below it.
const browseChrome = 5

// browseState manages the index, the active filter, the current page, and its
// settled cards for the card pane.
type browseState struct {
	index     []catalog.IndexEntry
	filtered  []catalog.IndexEntry // nil when no filter applies.
	searchErr error

	page     int // Requested page; clamped on use.
	pageSize int
	sizes    []int

	cards  []cache.Card
	cursor int

	loadingIndex bool
	loadingPage  bool
	indexErr     error
}

// newBrowseState returns a browseState waiting for the index.
func newBrowseState(pageSize int, sizes []int) browseState {
	if len(sizes) == 0 {
		sizes = []int{paginate.DefaultPageSize}
	}
	if !slices.Contains(sizes, pageSize) {
		pageSize = sizes[0]
	}
	return browseState{
		page:         1,
		pageSize:     pageSize,
		sizes:        slices.Clone(sizes),
		loadingIndex: true,
	}
}

// requestPage returns a command asking the model to load the current page.
func requestPage() tea.Cmd {
	return func() tea.Msg { return PageRequestMsg{} }
}

// Update processes messages for the browse state.
func (bs browseState) Update(msg tea.Msg) (browseState, tea.Cmd) {
	switch msg := msg.(type) {
	case IndexMsg:
		bs.loadingIndex = false
		if msg.Err != nil {
			bs.indexErr = msg.Err
			bs.index = nil
			return bs, nil
		}
		bs.indexErr = nil
		bs.index = msg.Entries
		bs.page = 1
		return bs, requestPage()

	case SearchMsg:
		if msg.Result.All {
			bs.filtered = nil
		} else {
			bs.filtered = msg.Result.Entries
			if bs.filtered == nil {
				bs.filtered = []catalog.IndexEntry{}
			}
		}
		bs.searchErr = msg.Result.Err
		bs.page = 1
		return bs, requestPage()

	case PageMsg:
		bs.loadingPage = false
		bs.cards = msg.Cards
		bs.cursor = max(0, min(bs.cursor, len(bs.cards)-1))
		return bs, nil

	case tea.KeyMsg:
		if bs.loadingIndex || bs.indexErr != nil {
			return bs, nil
		}
		return bs.handleKey(msg)
	}

	return bs, nil
}

// startLoading marks the page as loading and clears its cards.
func (bs browseState) startLoading() browseState {
	bs.loadingPage = true
	bs.cards = nil
	bs.cursor = 0
	return bs
}

func (bs browseState) handleKey(msg tea.KeyMsg) (browseState, tea.Cmd) {
	switch msg.String() {
	case "up", "k":
		if len(bs.cards) > 0 {
			bs.cursor--
			if bs.cursor < 0 {
				bs.cursor = len(bs.cards) - 1
			}
		}
		return bs, nil

	case "down", "j":
		if len(bs.cards) > 0 {
			bs.cursor++
			if bs.cursor >= len(bs.cards) {
				bs.cursor = 0
			}
		}
		return bs, nil

	case "left", "h":
		p := bs.current()
		if !p.HasPrev() {
			return bs, nil
		}
		bs.page = p.Effective - 1
		return bs, requestPage()

	case "right", "l":
		p := bs.current()
		if !p.HasNext() {
			return bs, nil
		}
		bs.page = p.Effective + 1
		return bs, requestPage()

	case "+", "=":
		return bs.cycleSize(1), requestPage()

	case "-":
		return bs.cycleSize(-1), requestPage()

	case "enter":
		card, ok := bs.Selected()
		if !ok || card.Placeholder() {
			return bs, nil
		}
		return bs, func() tea.Msg { return OpenDetailMsg{Record: card.Record} }
	}

	return bs, nil
}

// cycleSize moves to the next (dir > 0) or previous page size option,
// wrapping, and resets to page 1.
func (bs browseState) cycleSize(dir int) browseState {
	i := slices.Index(bs.sizes, bs.pageSize)
	i = (i + dir + len(bs.sizes)) % len(bs.sizes)
	bs.pageSize = bs.sizes[i]
	bs.page = 1
	return bs
}

// list returns the entries the pager works over: the filter result when one
// applies, otherwise the whole index.
func (bs browseState) list() []catalog.IndexEntry {
	if bs.filtered != nil {
		return bs.filtered
	}
	return bs.index
}

// current returns the page being shown.
func (bs browseState) current() paginate.Page {
	return paginate.Paginate(len(bs.list()), bs.pageSize, bs.page)
}

// visible returns the entries on the current page.
func (bs browseState) visible() []catalog.IndexEntry {
	return paginate.Slice(bs.list(), bs.current())
}

// Selected returns the card under the cursor.
func (bs browseState) Selected() (cache.Card, bool) {
	if len(bs.cards) == 0 || bs.cursor < 0 || bs.cursor >= len(bs.cards) {
		return cache.Card{}, false
	}
	return bs.cards[bs.cursor], true
}

// View renders the card pane for the given dimensions.
// spinnerView is the current spinner frame; searchView is the search field.
func (bs browseState) View(width, height int, spinnerView, searchView string) string {
	var b strings.Builder
	b.WriteString(searchView)
	b.WriteByte('\n')

	if bs.loadingIndex {
		fmt.Fprintf(&b, "%s Loading catalog...", spinnerView)
		return b.String()
	}
	if bs.indexErr != nil {
		b.WriteString(errorText.Render("Failed to load the catalog. Try restarting."))
		fmt.Fprintf(&b, "\n\n%s", mutedText.Render(bs.indexErr.Error()))
		return b.String()
	}

	list := bs.list()
	p := bs.current()
	b.WriteString(mutedText.Render(fmt.Sprintf("%s · %d per page", report.Showing(p, len(list)), bs.pageSize)))
	b.WriteString("\n\n")

	switch {
	case bs.searchErr != nil:
		b.WriteString(searchErrorText(bs.searchErr))
		return b.String()
	case len(list) == 0:
		b.WriteString(mutedText.Render("No creatures found."))
		return b.String()
	case bs.loadingPage:
		fmt.Fprintf(&b, "%s Loading page %d...", spinnerView, p.Effective)
	default:
		b.WriteString(bs.viewCards(width, height-browseChrome))
	}

	b.WriteString("\n\n")
	b.WriteString(pageFooter(p))
	return b.String()
}

// viewCards renders up to rows cards, scrolled so the cursor stays visible.
func (bs browseState) viewCards(width, rows int) string {
	rows = max(1, rows)
	start := 0
	if bs.cursor >= rows {
		start = bs.cursor - rows + 1
	}
	end := min(start+rows, len(bs.cards))

	nameWidth := max(8, min(24, width-20))
	var b strings.Builder
	for i := start; i < end; i++ {
		if i > start {
			b.WriteByte('\n')
		}
		card := bs.cards[i]
		if i == bs.cursor {
			b.WriteString(CursorMarker)
		} else {
			b.WriteString("  ")
		}
		if card.Placeholder() {
			b.WriteString(mutedText.Render(fmt.Sprintf("%-5s %s", "", card.Entry.Name)))
			continue
		}
		name := fmt.Sprintf("%-*s", nameWidth, card.Record.Name)
		if i == bs.cursor {
			name = selectedText.Render(name)
		}
		badges := make([]string, len(card.Record.Types))
		for j, t := range card.Record.Types {
			badges[j] = TypeBadge(t)
		}
		fmt.Fprintf(&b, "%-5s %s %s", detail.FormatID(card.Record.ID), name, strings.Join(badges, " "))
	}
	return b.String()
}

// pageFooter renders "‹ Prev 3 4 [5] 6 7 Next ›" with the unavailable
// direction dimmed.
func pageFooter(p paginate.Page) string {
	var parts []string
	if p.HasPrev() {
		parts = append(parts, "‹ Prev")
	} else {
		parts = append(parts, mutedText.Render("‹ Prev"))
	}
	for _, n := range paginate.Window(p.Effective, p.Total, paginate.DefaultWindow) {
		if n == p.Effective {
			parts = append(parts, currentPage.Render(fmt.Sprintf("[%d]", n)))
		} else {
			parts = append(parts, fmt.Sprint(n))
		}
	}
	if p.HasNext() {
		parts = append(parts, "Next ›")
	} else {
		parts = append(parts, mutedText.Render("Next ›"))
	}
	return strings.Join(parts, " ")
}

func searchErrorText(err error) string {
	if errors.Is(err, catalog.ErrNotFound) {
		return mutedText.Render("No creature with that id.")
	}
	return errorText.Render("Search failed: " + err.Error())
}
