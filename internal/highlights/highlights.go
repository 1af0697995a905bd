// Package highlights loads the curated partner table and resolves each entry
// to a catalog record.
package highlights

import (
	"bytes"
	"context"
	"fmt"
	"io/fs"

	"golang.org/x/sync/errgroup"
	"gopkg.in/yaml.v3"

	"github.com/smileynet/dexterm/internal/cache"
	"github.com/smileynet/dexterm/internal/catalog"
)

// FileName is the table's name inside the data filesystem.
const FileName = "highlights.yaml"

type file struct {
	Highlights []catalog.Highlight `yaml:"highlights"`
}

// Load reads and validates the table from fsys.
func Load(fsys fs.FS) ([]catalog.Highlight, error) {
	data, err := fs.ReadFile(fsys, FileName)
	if err != nil {
		return nil, fmt.Errorf("highlights: reading %s: %w", FileName, err)
	}
	return Parse(data)
}

// Parse decodes a highlights table. Unknown fields are rejected and every
// entry needs a name.
func Parse(data []byte) ([]catalog.Highlight, error) {
	var f file
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil {
		return nil, fmt.Errorf("highlights: parsing: %w", err)
	}
	for i, h := range f.Highlights {
		if h.Name == "" {
			return nil, fmt.Errorf("highlights: entry %d has no name", i+1)
		}
	}
	return f.Highlights, nil
}

// Fetcher resolves a creature through the detail cache.
type Fetcher interface {
	GetOrFetch(ctx context.Context, key cache.Key) (*catalog.DetailRecord, error)
}

// Card is one highlight and its resolution. Both Record and Err are nil
// while the entry is still being fetched.
type Card struct {
	Highlight catalog.Highlight
	Record    *catalog.DetailRecord
	Err       error
}

// Pending reports whether the card has not been resolved yet.
func (c Card) Pending() bool {
	return c.Record == nil && c.Err == nil
}

// Pending returns one unresolved card per entry, in order.
func Pending(entries []catalog.Highlight) []Card {
	cards := make([]Card, len(entries))
	for i, h := range entries {
		cards[i].Highlight = h
	}
	return cards
}

// ResolveOne fetches a single entry by name.
func ResolveOne(ctx context.Context, h catalog.Highlight, f Fetcher) Card {
	rec, err := f.GetOrFetch(ctx, cache.ByName(h.Name))
	if err != nil {
		return Card{Highlight: h, Err: fmt.Errorf("highlight %s: %w", h.Name, err)}
	}
	return Card{Highlight: h, Record: rec}
}

// Resolve fetches every entry concurrently and waits for all of them. Entries
// fail independently; the result always has one card per entry, in order.
func Resolve(ctx context.Context, entries []catalog.Highlight, f Fetcher) []Card {
	cards := Pending(entries)
	var g errgroup.Group
	for i, h := range entries {
		g.Go(func() error {
			cards[i] = ResolveOne(ctx, h, f)
			return nil
		})
	}
	_ = g.Wait()
	return cards
}

// Failed counts cards that did not resolve.
func Failed(cards []Card) int {
	n := 0
	for _, c := range cards {
		if c.Err != nil {
			n++
		}
	}
	return n
}
