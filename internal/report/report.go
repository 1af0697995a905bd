// Package report renders catalog pages and records as plain text for
// non-interactive commands.
package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/dustin/go-humanize"

	"github.com/smileynet/dexterm/internal/cache"
	"github.com/smileynet/dexterm/internal/detail"
	"github.com/smileynet/dexterm/internal/highlights"
	"github.com/smileynet/dexterm/internal/paginate"
)

// Showing returns the "Showing a–b of n creatures" line for page p of n items.
func Showing(p paginate.Page, n int) string {
	first, last := p.Range()
	return fmt.Sprintf("Showing %s–%s of %s creatures",
		humanize.Comma(int64(first)), humanize.Comma(int64(last)), humanize.Comma(int64(n)))
}

// Footer returns the page-number window, marking the current page and the
// availability of Prev and Next.
func Footer(p paginate.Page) string {
	var b strings.Builder
	if p.HasPrev() {
		b.WriteString("‹ Prev")
	} else {
		b.WriteString("  ····")
	}
	for _, n := range paginate.Window(p.Effective, p.Total, paginate.DefaultWindow) {
		if n == p.Effective {
			fmt.Fprintf(&b, " [%d]", n)
		} else {
			fmt.Fprintf(&b, " %d", n)
		}
	}
	if p.HasNext() {
		b.WriteString(" Next ›")
	}
	return b.String()
}

// WritePage writes one page of cards with its header and footer.
func WritePage(w io.Writer, n int, p paginate.Page, cards []cache.Card) {
	_, _ = fmt.Fprintln(w, Showing(p, n))
	if len(cards) == 0 {
		_, _ = fmt.Fprintln(w, "No creatures found.")
		return
	}
	for _, c := range cards {
		if c.Placeholder() {
			_, _ = fmt.Fprintf(w, "  %-6s %s\n", "", c.Entry.Name)
			continue
		}
		_, _ = fmt.Fprintf(w, "  %-6s %-24s %s\n", detail.FormatID(c.Record.ID), c.Record.Name, strings.Join(c.Record.Types, "/"))
	}
	_, _ = fmt.Fprintln(w, Footer(p))
}

// WriteDetail writes a full detail view.
func WriteDetail(w io.Writer, v detail.View) {
	_, _ = fmt.Fprintf(w, "%s %s\n", v.Name, v.DisplayID)
	if len(v.Types) > 0 {
		_, _ = fmt.Fprintf(w, "Types: %s\n", strings.Join(v.Types, ", "))
	}
	if v.Sprite != "" {
		_, _ = fmt.Fprintf(w, "Sprite: %s\n", v.Sprite)
	}

	_, _ = fmt.Fprintln(w, "\nAbilities")
	for _, a := range v.Abilities {
		hidden := ""
		if a.Hidden {
			hidden = " (hidden)"
		}
		_, _ = fmt.Fprintf(w, "  %-24s %d\n", a.Name+hidden, a.Slot)
	}

	_, _ = fmt.Fprintln(w, "\nBase Stats")
	for _, s := range v.Stats {
		_, _ = fmt.Fprintf(w, "  %-24s %d\n", s.Name, s.Value)
	}

	_, _ = fmt.Fprintf(w, "\nMoves (%s)\n", humanize.Comma(int64(len(v.Moves)+v.MovesTruncated)))
	for _, m := range v.Moves {
		_, _ = fmt.Fprintf(w, "  %s\n", m.Name)
	}
	if v.MovesTruncated > 0 {
		_, _ = fmt.Fprintf(w, "  … %s more not shown\n", humanize.Comma(int64(v.MovesTruncated)))
	}

	_, _ = fmt.Fprintf(w, "\nHeight: %s • Weight: %s\n", v.Height, v.Weight)
	_, _ = fmt.Fprintf(w, "Base Experience: %s\n", v.BaseExperience)
}

// WriteMove writes a move's details.
func WriteMove(w io.Writer, v detail.MoveView) {
	_, _ = fmt.Fprintln(w, v.Name)
	_, _ = fmt.Fprintln(w, v.Subtitle())
	_, _ = fmt.Fprintf(w, "Power: %s • Accuracy: %s • PP: %s\n", v.Power, v.Accuracy, v.PP)
	if v.HasEffect {
		_, _ = fmt.Fprintf(w, "\n%s\n", v.Effect)
	}
}

// WriteHighlights writes the resolved highlights table.
func WriteHighlights(w io.Writer, cards []highlights.Card) {
	for i, c := range cards {
		if i > 0 {
			_, _ = fmt.Fprintln(w)
		}
		id := ""
		if c.Record != nil {
			id = " " + detail.FormatID(c.Record.ID)
		}
		_, _ = fmt.Fprintf(w, "%s%s\n", c.Highlight.Name, id)
		_, _ = fmt.Fprintf(w, "  %s\n", c.Highlight.Owner)
		_, _ = fmt.Fprintf(w, "  %s\n", c.Highlight.Note)
		if c.Highlight.FirstAppearance != "" {
			_, _ = fmt.Fprintf(w, "  First appearance: %s\n", c.Highlight.FirstAppearance)
		}
		if c.Err != nil {
			_, _ = fmt.Fprintf(w, "  (details unavailable: %v)\n", c.Err)
		}
	}
}
