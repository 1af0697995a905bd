// Package cache holds the session's creature and move caches. Both are
// append-only for the life of the process and safe for concurrent use.
// Concurrent lookups of the same resource share a single upstream fetch.
package cache

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"

	"golang.org/x/sync/singleflight"

	"github.com/smileynet/dexterm/internal/catalog"
	"github.com/smileynet/dexterm/internal/metrics"
)

// DetailFetcher fetches a creature by locator or identifier.
type DetailFetcher interface {
	FetchDetail(ctx context.Context, ref string) (*catalog.DetailRecord, error)
}

// Option configures a cache.
type Option func(*options)

type options struct {
	log        *slog.Logger
	metrics    *metrics.Metrics
	locatorFor func(id int) string
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) { o.log = l }
}

// WithMetrics records lookups on m.
func WithMetrics(m *metrics.Metrics) Option {
	return func(o *options) { o.metrics = m }
}

// WithLocatorFunc sets how a numeric id maps to its canonical locator, so
// lookups by id join in-flight fetches by locator.
func WithLocatorFunc(fn func(id int) string) Option {
	return func(o *options) { o.locatorFor = fn }
}

func buildOptions(component string, opts []Option) options {
	o := options{log: slog.New(slog.NewTextHandler(io.Discard, nil))}
	for _, opt := range opts {
		opt(&o)
	}
	o.log = o.log.With("component", component)
	return o
}

// Detail caches DetailRecords. Records live in one canonical store keyed by
// canonical locator; ids, names, and non-canonical request locators are
// secondary indexes that resolve to the canonical locator. Names learned from
// the index map to their locators before anything is fetched.
type Detail struct {
	fetcher DetailFetcher
	opts    options
	group   singleflight.Group

	mu        sync.RWMutex
	records   map[string]*catalog.DetailRecord
	byID      map[int]string
	byName    map[string]string
	byLocator map[string]string
	indexed   map[string]string
}

// NewDetail creates an empty Detail cache backed by fetcher.
func NewDetail(fetcher DetailFetcher, opts ...Option) *Detail {
	return &Detail{
		fetcher:   fetcher,
		opts:      buildOptions("detail-cache", opts),
		records:   make(map[string]*catalog.DetailRecord),
		byID:      make(map[int]string),
		byName:    make(map[string]string),
		byLocator: make(map[string]string),
		indexed:   make(map[string]string),
	}
}

// Peek returns the cached record for key without fetching.
func (c *Detail) Peek(key Key) (*catalog.DetailRecord, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	var canonical string
	switch key.kind {
	case kindLocator:
		if rec, ok := c.records[key.locator]; ok {
			return rec, true
		}
		canonical = c.byLocator[key.locator]
	case kindID:
		canonical = c.byID[key.id]
	case kindName:
		canonical = c.byName[key.name]
	}
	if canonical == "" {
		return nil, false
	}
	rec, ok := c.records[canonical]
	return rec, ok
}

// Learn records the name to locator mapping of every index entry.
func (c *Detail) Learn(entries []catalog.IndexEntry) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, e := range entries {
		if e.Name != "" && e.Locator != "" {
			c.indexed[e.Name] = e.Locator
		}
	}
}

// flight returns the in-flight registry key and the fetch reference for key.
// Ids and learned names are rewritten to their locator so every alias of one
// resource shares a flight.
func (c *Detail) flight(key Key) (string, string) {
	switch key.kind {
	case kindID:
		if c.opts.locatorFor != nil {
			loc := c.opts.locatorFor(key.id)
			return ByLocator(loc).String(), loc
		}
	case kindName:
		c.mu.RLock()
		loc, ok := c.indexed[key.name]
		c.mu.RUnlock()
		if ok {
			return ByLocator(loc).String(), loc
		}
	}
	return key.String(), key.ref()
}

// GetOrFetch returns the record for key, fetching and storing it under all of
// its aliases on a miss. A caller arriving while a fetch for the same resource
// is in flight waits for that fetch instead of issuing another.
func (c *Detail) GetOrFetch(ctx context.Context, key Key) (*catalog.DetailRecord, error) {
	if !key.valid() {
		return nil, catalog.NewError(catalog.ErrInvalidArgument, "detail", "", errors.New("empty cache key"))
	}
	if rec, ok := c.Peek(key); ok {
		c.opts.metrics.ObserveLookup("detail", metrics.ResultHit)
		return rec, nil
	}

	flightKey, ref := c.flight(key)
	v, err, shared := c.group.Do(flightKey, func() (any, error) {
		// A flight that finished between Peek and Do has already stored it.
		if rec, ok := c.Peek(key); ok {
			return rec, nil
		}
		rec, err := c.fetcher.FetchDetail(ctx, ref)
		if err != nil {
			return nil, err
		}
		return c.store(key, rec), nil
	})

	if shared {
		c.opts.metrics.ObserveLookup("detail", metrics.ResultShared)
	} else {
		c.opts.metrics.ObserveLookup("detail", metrics.ResultMiss)
	}
	if err != nil {
		c.opts.log.DebugContext(ctx, "detail fetch failed", "key", key.String(), "error", err)
		return nil, err
	}
	return v.(*catalog.DetailRecord), nil
}

// store records rec under its canonical locator, id, and name, plus the alias
// it was requested by. When the resource is already stored (a different alias
// raced this one), the existing instance wins and is returned.
func (c *Detail) store(key Key, rec *catalog.DetailRecord) *catalog.DetailRecord {
	c.mu.Lock()
	defer c.mu.Unlock()

	canonical := rec.Locator
	if canonical == "" {
		canonical = key.String()
	}
	if existing, ok := c.records[canonical]; ok {
		rec = existing
	} else {
		c.records[canonical] = rec
	}

	c.byID[rec.ID] = canonical
	c.byName[rec.Name] = canonical
	switch key.kind {
	case kindLocator:
		if key.locator != canonical {
			c.byLocator[key.locator] = canonical
		}
	case kindName:
		c.byName[key.name] = canonical
	}

	c.opts.log.Debug("detail cached", "id", rec.ID, "name", rec.Name, "locator", canonical)
	return rec
}

// GetEntry resolves an index entry, trying its name alias before fetching by
// locator.
func (c *Detail) GetEntry(ctx context.Context, entry catalog.IndexEntry) (*catalog.DetailRecord, error) {
	if rec, ok := c.Peek(ByName(entry.Name)); ok {
		c.opts.metrics.ObserveLookup("detail", metrics.ResultHit)
		return rec, nil
	}
	if entry.Locator == "" {
		return c.GetOrFetch(ctx, ByName(entry.Name))
	}
	return c.GetOrFetch(ctx, ByLocator(entry.Locator))
}

// size returns the number of distinct records cached.
func (c *Detail) size() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.records)
}
