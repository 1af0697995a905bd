package main

import (
	"context"
	"io/fs"
	"log/slog"
	"strconv"
	"strings"

	"github.com/smileynet/dexterm"
	"github.com/smileynet/dexterm/internal/cache"
	"github.com/smileynet/dexterm/internal/catalog"
	"github.com/smileynet/dexterm/internal/config"
	"github.com/smileynet/dexterm/internal/highlights"
	"github.com/smileynet/dexterm/internal/metrics"
	"github.com/smileynet/dexterm/internal/pokeapi"
	"github.com/smileynet/dexterm/internal/search"
)

// catalogSource wires the upstream client and the session caches into the
// dashboard.Source and catalogReader interfaces. One instance lives for the
// whole session so every surface shares its caches.
type catalogSource struct {
	client      *pokeapi.Client
	details     *cache.Detail
	moves       *cache.Moves
	highlights  fs.FS
	concurrency int
	log         *slog.Logger
}

func newCatalogSource(cfg *config.Config, log *slog.Logger, m *metrics.Metrics) *catalogSource {
	client := pokeapi.New(cfg.API.BaseURL,
		pokeapi.WithTimeout(cfg.API.Timeout),
		pokeapi.WithIndexLimit(cfg.API.IndexLimit),
		pokeapi.WithLogger(log),
		pokeapi.WithMetrics(m),
	)
	return &catalogSource{
		client:      client,
		details:     cache.NewDetail(client, cache.WithLogger(log), cache.WithMetrics(m), cache.WithLocatorFunc(client.LocatorFor)),
		moves:       cache.NewMoves(client, cache.WithLogger(log), cache.WithMetrics(m)),
		highlights:  dexterm.OverlayFS(cfg.Highlights.Dir, dexterm.Data),
		concurrency: cfg.Browse.FetchConcurrency,
		log:         log,
	}
}

// Index fetches the index and teaches the detail cache each name's locator.
func (s *catalogSource) Index(ctx context.Context) ([]catalog.IndexEntry, error) {
	entries, err := s.client.FetchIndex(ctx)
	if err != nil {
		return nil, err
	}
	s.details.Learn(entries)
	return entries, nil
}

func (s *catalogSource) Page(ctx context.Context, entries []catalog.IndexEntry) []cache.Card {
	return s.details.FetchAll(ctx, entries, s.concurrency)
}

func (s *catalogSource) Search(ctx context.Context, raw string, index []catalog.IndexEntry) search.Result {
	return search.Apply(ctx, raw, index, s.details)
}

func (s *catalogSource) Move(ctx context.Context, locator string) (*catalog.MoveDetail, error) {
	return s.moves.GetOrFetch(ctx, locator)
}

// HighlightTable reads the highlights table without resolving it.
func (s *catalogSource) HighlightTable(ctx context.Context) ([]catalog.Highlight, error) {
	entries, err := highlights.Load(s.highlights)
	if err != nil {
		s.log.WarnContext(ctx, "highlights unavailable", slog.String("error", err.Error()))
		return nil, err
	}
	return entries, nil
}

// ResolveHighlight resolves one highlights entry through the detail cache.
func (s *catalogSource) ResolveHighlight(ctx context.Context, h catalog.Highlight) highlights.Card {
	return highlights.ResolveOne(ctx, h, s.details)
}

// LoadHighlights reads the highlights table and resolves every entry.
func (s *catalogSource) LoadHighlights(ctx context.Context) ([]highlights.Card, error) {
	entries, err := s.HighlightTable(ctx)
	if err != nil {
		return nil, err
	}
	return highlights.Resolve(ctx, entries, s.details), nil
}

// Lookup resolves a name, numeric id, or locator to a record.
func (s *catalogSource) Lookup(ctx context.Context, ref string) (*catalog.DetailRecord, error) {
	return s.details.GetOrFetch(ctx, keyFor(ref))
}

// MoveLocator resolves a move name or locator into a locator.
func (s *catalogSource) MoveLocator(ref string) string {
	return s.client.MoveLocator(ref)
}

// keyFor picks the cache key form for a user-supplied reference.
func keyFor(ref string) cache.Key {
	ref = strings.TrimSpace(ref)
	if pokeapi.IsLocator(ref) {
		return cache.ByLocator(ref)
	}
	if id, err := strconv.Atoi(strings.TrimPrefix(ref, "#")); err == nil {
		return cache.ByID(id)
	}
	return cache.ByName(ref)
}
