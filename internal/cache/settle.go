package cache

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/smileynet/dexterm/internal/catalog"
)

// Card is the settled outcome of resolving one index entry.
type Card struct {
	Entry  catalog.IndexEntry
	Record *catalog.DetailRecord
	Err    error
}

// Placeholder reports whether the card has no record and renders name-only.
func (c Card) Placeholder() bool {
	return c.Record == nil
}

// FetchAll resolves every entry concurrently and waits for all of them to
// settle. A failed entry yields a placeholder card; it never aborts the others.
// limit caps concurrent fetches; zero or less means unbounded.
func (c *Detail) FetchAll(ctx context.Context, entries []catalog.IndexEntry, limit int) []Card {
	cards := make([]Card, len(entries))

	var g errgroup.Group
	if limit > 0 {
		g.SetLimit(limit)
	}
	for i, entry := range entries {
		g.Go(func() error {
			rec, err := c.GetEntry(ctx, entry)
			cards[i] = Card{Entry: entry, Record: rec, Err: err}
			return nil
		})
	}
	_ = g.Wait()
	return cards
}
