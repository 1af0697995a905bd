package dashboard

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/smileynet/dexterm/internal/cache"
	"github.com/smileynet/dexterm/internal/catalog"
	"github.com/smileynet/dexterm/internal/highlights"
	"github.com/smileynet/dexterm/internal/search"
)

// stripANSI removes ANSI escape sequences from a string.
func stripANSI(s string) string {
	var out []byte
	i := 0
	for i < len(s) {
		if s[i] == '\x1b' && i+1 < len(s) && s[i+1] == '[' {
			j := i + 2
			for j < len(s) && (s[j] < 'A' || s[j] > 'Z') && (s[j] < 'a' || s[j] > 'z') {
				j++
			}
			if j < len(s) {
				j++
			}
			i = j
		} else {
			out = append(out, s[i])
			i++
		}
	}
	return string(out)
}

// containsPlainText checks if s contains sub after stripping ANSI escapes.
func containsPlainText(s, sub string) bool {
	return strings.Contains(stripANSI(s), sub)
}

// execBatch executes a tea.Cmd, handling both single commands and batch
// commands. It returns all resulting messages. Spinner ticks are skipped
// to avoid infinite recursion.
func execBatch(t *testing.T, cmd tea.Cmd) []tea.Msg {
	t.Helper()
	if cmd == nil {
		return nil
	}
	msg := cmd()
	if batch, ok := msg.(tea.BatchMsg); ok {
		var msgs []tea.Msg
		for _, c := range batch {
			if c != nil {
				result := c()
				// Skip spinner ticks to avoid recursion.
				if _, isTick := result.(spinner.TickMsg); !isTick {
					msgs = append(msgs, result)
				}
			}
		}
		return msgs
	}
	return []tea.Msg{msg}
}

// stubSource implements Source over an in-memory catalog. Entries named in
// fail have no record; moves not in moves fail. Highlights resolve against
// records; names in hang block until the context is done.
type stubSource struct {
	index    []catalog.IndexEntry
	indexErr error
	fail     map[string]bool
	moves    map[string]*catalog.MoveDetail
	table    []catalog.Highlight
	tableErr error
	records  map[string]*catalog.DetailRecord
	hang     map[string]bool

	mu        sync.Mutex
	moveCalls int
}

// sampleIndex returns n entries named mon-01, mon-02, ... with ids 1..n.
func sampleIndex(n int) []catalog.IndexEntry {
	entries := make([]catalog.IndexEntry, n)
	for i := range entries {
		entries[i] = catalog.IndexEntry{
			Name:    fmt.Sprintf("mon-%02d", i+1),
			Locator: fmt.Sprintf("https://api.test/pokemon/%d/", i+1),
		}
	}
	return entries
}

// sampleRecord returns a record with a few moves for entry.
func sampleRecord(id int, name string) *catalog.DetailRecord {
	return &catalog.DetailRecord{
		ID:      id,
		Name:    name,
		Locator: fmt.Sprintf("https://api.test/pokemon/%d/", id),
		Types:   []string{"electric"},
		Stats:   []catalog.Stat{{Name: "hp", BaseValue: 35}},
		Moves: []catalog.MoveRef{
			{Name: "thunder-shock", Locator: "https://api.test/move/84/"},
			{Name: "quick-attack", Locator: "https://api.test/move/98/"},
			{Name: "thunderbolt", Locator: "https://api.test/move/85/"},
		},
		Height: 4,
		Weight: 60,
	}
}

func (s *stubSource) Index(context.Context) ([]catalog.IndexEntry, error) {
	return s.index, s.indexErr
}

func (s *stubSource) FetchDetail(_ context.Context, ref string) (*catalog.DetailRecord, error) {
	for i, e := range s.index {
		if e.Locator == ref || e.Name == ref || fmt.Sprint(i+1) == ref {
			if s.fail[e.Name] {
				return nil, catalog.NewError(catalog.ErrNetwork, "detail", ref, errors.New("reset"))
			}
			return sampleRecord(i+1, e.Name), nil
		}
	}
	return nil, catalog.NewError(catalog.ErrNotFound, "detail", ref, errors.New("404"))
}

func (s *stubSource) Page(ctx context.Context, entries []catalog.IndexEntry) []cache.Card {
	return cache.NewDetail(s).FetchAll(ctx, entries, 0)
}

func (s *stubSource) Search(ctx context.Context, raw string, index []catalog.IndexEntry) search.Result {
	return search.Apply(ctx, raw, index, cache.NewDetail(s))
}

func (s *stubSource) Move(_ context.Context, locator string) (*catalog.MoveDetail, error) {
	s.mu.Lock()
	s.moveCalls++
	s.mu.Unlock()
	if mv, ok := s.moves[locator]; ok {
		return mv, nil
	}
	return nil, catalog.NewError(catalog.ErrNetwork, "move", locator, errors.New("timeout"))
}

func (s *stubSource) HighlightTable(context.Context) ([]catalog.Highlight, error) {
	return s.table, s.tableErr
}

func (s *stubSource) ResolveHighlight(ctx context.Context, h catalog.Highlight) highlights.Card {
	if s.hang[h.Name] {
		<-ctx.Done()
		return highlights.Card{Highlight: h, Err: ctx.Err()}
	}
	if rec, ok := s.records[h.Name]; ok {
		return highlights.Card{Highlight: h, Record: rec}
	}
	return highlights.Card{Highlight: h, Err: catalog.NewError(catalog.ErrNotFound, "detail", h.Name, errors.New("404"))}
}

func newStubSource(n int) *stubSource {
	power := 40
	electric, special := "electric", "special"
	return &stubSource{
		index: sampleIndex(n),
		moves: map[string]*catalog.MoveDetail{
			"https://api.test/move/84/": {
				Name:            "thunder-shock",
				TypeName:        &electric,
				DamageClassName: &special,
				Power:           &power,
				EffectEntries:   []catalog.LocalizedText{{Language: "en", Text: "May paralyze the target."}},
			},
		},
	}
}

// runMsgs feeds msg through Update and then every message its commands
// produce, breadth first, returning the final model. Page, index, search,
// move, and highlight chains resolve synchronously against the stub source.
func runMsgs(t *testing.T, m Model, msg tea.Msg) Model {
	t.Helper()
	queue := []tea.Msg{msg}
	for steps := 0; len(queue) > 0; steps++ {
		if steps > 50 {
			t.Fatal("message chain did not settle")
		}
		next := queue[0]
		queue = queue[1:]
		updated, cmd := m.Update(next)
		m = updated.(Model)
		for _, out := range execBatch(t, cmd) {
			switch out.(type) {
			case PageRequestMsg, PageMsg, IndexMsg, SearchMsg, searchTickMsg,
				OpenDetailMsg, CloseDetailMsg, MoveRequestMsg, MoveMsg, HighlightsMsg, HighlightMsg:
				queue = append(queue, out)
			}
		}
	}
	return m
}

// loadedModel returns a sized model whose index and first page are loaded.
func loadedModel(t *testing.T, src *stubSource, opts ...ModelOption) Model {
	t.Helper()
	m := NewModel(context.Background(), src, opts...)
	updated, _ := m.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	m = updated.(Model)
	entries, err := src.Index(context.Background())
	return runMsgs(t, m, IndexMsg{Entries: entries, Err: err})
}

func keyRunes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}
