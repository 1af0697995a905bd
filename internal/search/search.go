// Package search filters the catalog index by a raw query string.
package search

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/smileynet/dexterm/internal/cache"
	"github.com/smileynet/dexterm/internal/catalog"
)

var idPattern = regexp.MustCompile(`^#?(\d+)$`)

// Resolver is the slice of the detail cache the engine needs. Peek is the
// snapshot consulted for id matches; GetOrFetch backs the one-shot fallback.
type Resolver interface {
	Peek(key cache.Key) (*catalog.DetailRecord, bool)
	GetOrFetch(ctx context.Context, key cache.Key) (*catalog.DetailRecord, error)
}

// Result is the outcome of a query. All means no filter applies and the caller
// should show the full index; Entries is meaningless in that case.
type Result struct {
	All     bool
	Entries []catalog.IndexEntry
	Err     error
}

// Apply evaluates raw against index. Rules in order: blank means everything;
// a bare or '#'-prefixed number searches by id; anything else is a
// case-insensitive substring match on name, in index order.
func Apply(ctx context.Context, raw string, index []catalog.IndexEntry, resolver Resolver) Result {
	q := strings.ToLower(strings.TrimSpace(raw))
	if q == "" {
		return Result{All: true}
	}
	if m := idPattern.FindStringSubmatch(q); m != nil {
		return byID(ctx, m[1], index, resolver)
	}
	return Result{Entries: bySubstring(q, index)}
}

func bySubstring(q string, index []catalog.IndexEntry) []catalog.IndexEntry {
	out := make([]catalog.IndexEntry, 0)
	for _, e := range index {
		if strings.Contains(strings.ToLower(e.Name), q) {
			out = append(out, e)
		}
	}
	return out
}

func byID(ctx context.Context, digits string, index []catalog.IndexEntry, resolver Resolver) Result {
	id, err := strconv.Atoi(digits)
	if err != nil || id <= 0 {
		return Result{
			Entries: []catalog.IndexEntry{},
			Err:     catalog.NewError(catalog.ErrNotFound, "search", digits, errors.New("no such id")),
		}
	}

	matches := make([]catalog.IndexEntry, 0)
	for _, e := range index {
		if rec, ok := peekEntry(resolver, e); ok && rec.ID == id {
			matches = append(matches, e)
		}
	}
	if len(matches) > 0 {
		return Result{Entries: matches}
	}

	rec, err := resolver.GetOrFetch(ctx, cache.ByID(id))
	if err != nil {
		return Result{Entries: []catalog.IndexEntry{}, Err: fmt.Errorf("search id %d: %w", id, err)}
	}
	for _, e := range index {
		if strings.EqualFold(e.Name, rec.Name) {
			return Result{Entries: []catalog.IndexEntry{e}}
		}
	}
	return Result{Entries: []catalog.IndexEntry{rec.Entry()}}
}

func peekEntry(resolver Resolver, e catalog.IndexEntry) (*catalog.DetailRecord, bool) {
	if rec, ok := resolver.Peek(cache.ByName(e.Name)); ok {
		return rec, true
	}
	if e.Locator == "" {
		return nil, false
	}
	return resolver.Peek(cache.ByLocator(e.Locator))
}
