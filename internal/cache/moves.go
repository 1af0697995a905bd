package cache

import (
	"context"
	"errors"
	"strings"
	"sync"

	"golang.org/x/sync/singleflight"

	"github.com/smileynet/dexterm/internal/catalog"
	"github.com/smileynet/dexterm/internal/metrics"
)

// MoveFetcher fetches a move by locator.
type MoveFetcher interface {
	FetchMove(ctx context.Context, locator string) (*catalog.MoveDetail, error)
}

// Moves caches MoveDetails by locator.
type Moves struct {
	fetcher MoveFetcher
	opts    options
	group   singleflight.Group

	mu      sync.RWMutex
	records map[string]*catalog.MoveDetail
}

// NewMoves creates an empty Moves cache backed by fetcher.
func NewMoves(fetcher MoveFetcher, opts ...Option) *Moves {
	return &Moves{
		fetcher: fetcher,
		opts:    buildOptions("move-cache", opts),
		records: make(map[string]*catalog.MoveDetail),
	}
}

// Peek returns the cached move for locator without fetching.
func (c *Moves) Peek(locator string) (*catalog.MoveDetail, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	mv, ok := c.records[locator]
	return mv, ok
}

// GetOrFetch returns the move at locator, fetching it once on a miss.
func (c *Moves) GetOrFetch(ctx context.Context, locator string) (*catalog.MoveDetail, error) {
	locator = strings.TrimSpace(locator)
	if locator == "" {
		return nil, catalog.NewError(catalog.ErrInvalidArgument, "move", "", errors.New("empty locator"))
	}
	if mv, ok := c.Peek(locator); ok {
		c.opts.metrics.ObserveLookup("move", metrics.ResultHit)
		return mv, nil
	}

	v, err, shared := c.group.Do(locator, func() (any, error) {
		if mv, ok := c.Peek(locator); ok {
			return mv, nil
		}
		mv, err := c.fetcher.FetchMove(ctx, locator)
		if err != nil {
			return nil, err
		}
		c.mu.Lock()
		c.records[locator] = mv
		c.mu.Unlock()
		return mv, nil
	})

	if shared {
		c.opts.metrics.ObserveLookup("move", metrics.ResultShared)
	} else {
		c.opts.metrics.ObserveLookup("move", metrics.ResultMiss)
	}
	if err != nil {
		c.opts.log.DebugContext(ctx, "move fetch failed", "locator", locator, "error", err)
		return nil, err
	}
	return v.(*catalog.MoveDetail), nil
}
