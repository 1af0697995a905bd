// Package pokeapi fetches the creature index, creature details, and move details
// from the PokeAPI v2 REST API. It performs no retries: a failed attempt
// surfaces to the caller immediately.
package pokeapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/smileynet/dexterm/internal/catalog"
	"github.com/smileynet/dexterm/internal/metrics"
)

// DefaultBaseURL is the public PokeAPI v2 root.
const DefaultBaseURL = "https://pokeapi.co/api/v2"

// DefaultIndexLimit is large enough to return every creature in one page.
const DefaultIndexLimit = 2000

// Request labels, used for logging and metrics.
const (
	opIndex  = "index"
	opDetail = "detail"
	opMove   = "move"
)

// Client calls the PokeAPI endpoints.
type Client struct {
	baseURL    string
	indexLimit int
	httpClient *http.Client
	timeout    time.Duration
	log        *slog.Logger
	metrics    *metrics.Metrics
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithTimeout sets a per-request timeout. Zero means no timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.timeout = d }
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(c *Client) { c.log = l.With("adapter", "pokeapi") }
}

// WithMetrics records every fetch on m.
func WithMetrics(m *metrics.Metrics) Option {
	return func(c *Client) { c.metrics = m }
}

// WithIndexLimit sets how many entries FetchIndex requests.
func WithIndexLimit(n int) Option {
	return func(c *Client) {
		if n > 0 {
			c.indexLimit = n
		}
	}
}

// New creates a Client rooted at baseURL (DefaultBaseURL when empty).
func New(baseURL string, opts ...Option) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		indexLimit: DefaultIndexLimit,
		httpClient: &http.Client{},
		log:        slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.timeout > 0 {
		// Copy so a shared client such as http.DefaultClient is never modified.
		hc := *c.httpClient
		hc.Timeout = c.timeout
		c.httpClient = &hc
	}
	return c
}

// LocatorFor returns the canonical locator of the creature with the given id.
// It matches the form the index endpoint uses.
func (c *Client) LocatorFor(id int) string {
	return c.baseURL + "/pokemon/" + strconv.Itoa(id) + "/"
}

// FetchIndex fetches the full creature index with lowercase names.
func (c *Client) FetchIndex(ctx context.Context) ([]catalog.IndexEntry, error) {
	reqURL := fmt.Sprintf("%s/pokemon?limit=%d", c.baseURL, c.indexLimit)

	var idx apiIndex
	if err := c.getJSON(ctx, opIndex, reqURL, &idx); err != nil {
		return nil, err
	}
	if idx.Results == nil {
		return nil, catalog.NewError(catalog.ErrProtocol, opIndex, reqURL, errors.New("missing results"))
	}

	entries := mapIndex(*idx.Results)
	c.log.DebugContext(ctx, "index fetched", slog.Int("entries", len(entries)))
	return entries, nil
}

// FetchDetail fetches one creature. ref is either a direct locator (http or
// https URL) or an identifier (numeric id or name) resolved against the base URL.
func (c *Client) FetchDetail(ctx context.Context, ref string) (*catalog.DetailRecord, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return nil, catalog.NewError(catalog.ErrInvalidArgument, opDetail, "", errors.New("empty reference"))
	}

	reqURL := ref
	if !IsLocator(ref) {
		reqURL = c.baseURL + "/pokemon/" + url.PathEscape(strings.ToLower(ref))
	}

	var p apiPokemon
	if err := c.getJSON(ctx, opDetail, reqURL, &p); err != nil {
		return nil, err
	}
	if p.ID <= 0 || p.Name == "" {
		return nil, catalog.NewError(catalog.ErrProtocol, opDetail, reqURL, errors.New("missing id or name"))
	}
	return mapPokemon(p, c.LocatorFor(p.ID)), nil
}

// FetchMove fetches a move by its locator.
func (c *Client) FetchMove(ctx context.Context, locator string) (*catalog.MoveDetail, error) {
	locator = strings.TrimSpace(locator)
	if locator == "" {
		return nil, catalog.NewError(catalog.ErrInvalidArgument, opMove, "", errors.New("empty locator"))
	}

	var m apiMove
	if err := c.getJSON(ctx, opMove, locator, &m); err != nil {
		return nil, err
	}
	if m.Name == "" {
		return nil, catalog.NewError(catalog.ErrProtocol, opMove, locator, errors.New("missing name"))
	}
	return mapMove(m), nil
}

// MoveLocator resolves a move name or locator into a locator.
func (c *Client) MoveLocator(ref string) string {
	ref = strings.TrimSpace(ref)
	if ref == "" || IsLocator(ref) {
		return ref
	}
	return c.baseURL + "/move/" + url.PathEscape(strings.ToLower(ref)) + "/"
}

// IsLocator reports whether ref is a direct resource URL rather than an identifier.
func IsLocator(ref string) bool {
	return strings.HasPrefix(ref, "http://") || strings.HasPrefix(ref, "https://")
}

// getJSON performs one GET and decodes the body into dst.
func (c *Client) getJSON(ctx context.Context, op, reqURL string, dst any) (err error) {
	start := time.Now()
	defer func() { c.metrics.ObserveFetch(op, time.Since(start), err) }()

	c.log.DebugContext(ctx, "pokeapi request", slog.String("op", op), slog.String("url", reqURL))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return catalog.NewError(catalog.ErrInvalidArgument, op, reqURL, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.log.ErrorContext(ctx, "pokeapi request failed", slog.String("op", op), slog.String("url", reqURL), slog.String("error", err.Error()))
		return catalog.NewError(catalog.ErrNetwork, op, reqURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return catalog.NewError(catalog.ErrNotFound, op, reqURL, nil)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		c.log.WarnContext(ctx, "pokeapi unexpected status", slog.String("op", op), slog.String("url", reqURL), slog.Int("status", resp.StatusCode))
		return catalog.NewError(catalog.ErrNetwork, op, reqURL, fmt.Errorf("unexpected status %d", resp.StatusCode))
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return catalog.NewError(catalog.ErrNetwork, op, reqURL, fmt.Errorf("read body: %w", err))
	}
	if err := json.Unmarshal(body, dst); err != nil {
		return catalog.NewError(catalog.ErrProtocol, op, reqURL, fmt.Errorf("decode json: %w", err))
	}

	c.log.DebugContext(ctx, "pokeapi response",
		slog.String("op", op),
		slog.Int("status", resp.StatusCode),
		slog.Duration("elapsed", time.Since(start)),
	)
	return nil
}
