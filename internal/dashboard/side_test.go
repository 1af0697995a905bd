package dashboard

import (
	"context"
	"errors"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/smileynet/dexterm/internal/catalog"
	"github.com/smileynet/dexterm/internal/highlights"
)

func sampleTable() []catalog.Highlight {
	return []catalog.Highlight{
		{Name: "pikachu", Owner: "Ash", Note: "Refuses the ball."},
		{Name: "missingno", Owner: "Ash", Note: "Glitch."},
	}
}

// resolvedSide returns a pane with pikachu resolved and missingno failed.
func resolvedSide() sideState {
	table := sampleTable()
	ss, _ := newSideState().Update(HighlightsMsg{Entries: table})
	ss, _ = ss.Update(HighlightMsg{Index: 0, Card: highlights.Card{Highlight: table[0], Record: sampleRecord(25, "pikachu")}})
	ss, _ = ss.Update(HighlightMsg{Index: 1, Card: highlights.Card{Highlight: table[1], Err: errors.New("not found")}})
	return ss
}

func TestSideState_TableShowsBeforeEntriesResolve(t *testing.T) {
	ss := newSideState()
	if !containsPlainText(ss.View(40, "*"), "Loading...") {
		t.Error("new pane should show loading")
	}

	// When: only the table has arrived
	ss, _ = ss.Update(HighlightsMsg{Entries: sampleTable()})

	// Then: every card renders its static fields with a pending marker
	view := ss.View(40, "*")
	for _, want := range []string{"pikachu", "Refuses the ball.", "missingno", "Glitch.", "* Loading..."} {
		if !containsPlainText(view, want) {
			t.Errorf("view missing %q", want)
		}
	}
	if containsPlainText(view, "#025") {
		t.Error("unresolved card should not show an id")
	}
}

func TestSideState_EntriesFillInIndependently(t *testing.T) {
	ss := resolvedSide()
	view := ss.View(40, "*")
	for _, want := range []string{"pikachu", "#025", "missingno", "details unavailable"} {
		if !containsPlainText(view, want) {
			t.Errorf("view missing %q", want)
		}
	}
	if containsPlainText(view, "Loading...") {
		t.Error("no card should still be loading")
	}
}

func TestSideState_MismatchedHighlightIgnored(t *testing.T) {
	ss, _ := newSideState().Update(HighlightsMsg{Entries: sampleTable()})

	tests := []struct {
		name string
		msg  HighlightMsg
	}{
		{"index out of range", HighlightMsg{Index: 5, Card: highlights.Card{Highlight: catalog.Highlight{Name: "pikachu"}}}},
		{"negative index", HighlightMsg{Index: -1}},
		{"name mismatch", HighlightMsg{Index: 0, Card: highlights.Card{Highlight: catalog.Highlight{Name: "mew"}, Record: sampleRecord(151, "mew")}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, _ := ss.Update(tt.msg)
			if !got.cards[0].Pending() || !got.cards[1].Pending() {
				t.Errorf("cards = %+v, want both pending", got.cards)
			}
		})
	}
}

func TestSideState_Empty(t *testing.T) {
	ss, _ := newSideState().Update(HighlightsMsg{})
	if !containsPlainText(ss.View(40, "*"), "Nothing curated yet.") {
		t.Error("empty pane should say so")
	}
	if ss.ready() {
		t.Error("empty table has nothing to fetch")
	}
}

func TestSideState_TableError(t *testing.T) {
	ss, _ := newSideState().Update(HighlightsMsg{Err: errors.New("bad yaml")})
	if !containsPlainText(ss.View(40, "*"), "Highlights unavailable.") {
		t.Error("table error should be shown")
	}
}

func TestSideState_EnterOpensResolvedOnly(t *testing.T) {
	// Given: one resolved and one failed highlight
	ss := resolvedSide()

	// When: enter is pressed on the resolved one
	_, cmd := ss.Update(tea.KeyMsg{Type: tea.KeyEnter})

	// Then: its record opens
	msg, ok := cmd().(OpenDetailMsg)
	if !ok || msg.Record.Name != "pikachu" {
		t.Fatalf("msg = %+v", msg)
	}

	// And: the failed one does nothing
	ss, _ = ss.Update(tea.KeyMsg{Type: tea.KeyDown})
	if _, cmd := ss.Update(tea.KeyMsg{Type: tea.KeyEnter}); cmd != nil {
		t.Error("enter on an unresolved highlight should do nothing")
	}
}

func TestSideState_EnterOnPendingDoesNothing(t *testing.T) {
	ss, _ := newSideState().Update(HighlightsMsg{Entries: sampleTable()})
	if _, cmd := ss.Update(tea.KeyMsg{Type: tea.KeyEnter}); cmd != nil {
		t.Error("enter on a pending highlight should do nothing")
	}
}

func TestSideState_CursorWraps(t *testing.T) {
	ss := resolvedSide()
	ss, _ = ss.Update(tea.KeyMsg{Type: tea.KeyUp})
	if ss.cursor != 1 {
		t.Errorf("cursor = %d, want 1", ss.cursor)
	}
}

func highlightSource() *stubSource {
	src := newStubSource(3)
	src.table = []catalog.Highlight{
		{Name: "pikachu", Owner: "Ash"},
		{Name: "charizard", Owner: "Ash"},
		{Name: "squirtle", Owner: "Ash"},
	}
	src.records = map[string]*catalog.DetailRecord{
		"pikachu":   sampleRecord(25, "pikachu"),
		"charizard": sampleRecord(6, "charizard"),
		"squirtle":  sampleRecord(7, "squirtle"),
	}
	return src
}

func TestModel_HighlightsWaitForIndex(t *testing.T) {
	// Given: a sized model whose index has not arrived
	src := highlightSource()
	m := NewModel(context.Background(), src)
	updated, _ := m.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	m = updated.(Model)

	// When: the table arrives first
	updated, cmd := m.Update(HighlightsMsg{Entries: src.table})
	m = updated.(Model)

	// Then: the cards show but nothing is fetched yet
	if cmd != nil || m.side.started {
		t.Fatal("entries should not be fetched before the index settles")
	}
	if len(m.side.cards) != 3 {
		t.Fatalf("cards = %d, want 3", len(m.side.cards))
	}

	// When: the index arrives
	m = runMsgs(t, m, IndexMsg{Entries: src.index})

	// Then: every entry is resolved
	for _, c := range m.side.cards {
		if c.Record == nil {
			t.Errorf("%s not resolved", c.Highlight.Name)
		}
	}
}

func TestModel_HighlightsAfterIndexFetchImmediately(t *testing.T) {
	src := highlightSource()
	m := loadedModel(t, src)
	m = runMsgs(t, m, HighlightsMsg{Entries: src.table})

	if !m.side.started {
		t.Fatal("fetches should start once the table arrives")
	}
	for _, c := range m.side.cards {
		if c.Record == nil {
			t.Errorf("%s not resolved", c.Highlight.Name)
		}
	}
}

func TestModel_HungHighlightDoesNotBlockOthers(t *testing.T) {
	// Given: a loaded model whose source never answers for charizard
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	src := highlightSource()
	src.hang = map[string]bool{"charizard": true}
	m := NewModel(ctx, src)
	updated, _ := m.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	m = runMsgs(t, updated.(Model), IndexMsg{Entries: src.index})

	// When: the table arrives and each entry's command runs concurrently
	updated, cmd := m.Update(HighlightsMsg{Entries: src.table})
	m = updated.(Model)
	if cmd == nil {
		t.Fatal("expected per-entry commands")
	}
	var cmds []tea.Cmd
	switch msg := cmd().(type) {
	case tea.BatchMsg:
		cmds = msg
	default:
		t.Fatalf("msg = %T, want one command per entry", msg)
	}
	results := make(chan tea.Msg, len(cmds))
	for _, c := range cmds {
		go func() { results <- c() }()
	}

	// Then: pikachu and squirtle render while charizard is still loading
	for range 2 {
		select {
		case msg := <-results:
			updated, _ = m.Update(msg)
			m = updated.(Model)
		case <-time.After(2 * time.Second):
			t.Fatal("resolved entries were held back by the hung one")
		}
	}
	view := m.side.View(40, "*")
	for _, want := range []string{"#025", "#007", "* Loading..."} {
		if !containsPlainText(view, want) {
			t.Errorf("view missing %q", want)
		}
	}
	if !m.side.cards[1].Pending() {
		t.Error("charizard should still be pending")
	}

	// And: quitting cancels the hung fetch
	cancel()
	updated, _ = m.Update(<-results)
	m = updated.(Model)
	if !errors.Is(m.side.cards[1].Err, context.Canceled) {
		t.Errorf("charizard err = %v, want context.Canceled", m.side.cards[1].Err)
	}
}

func TestModel_EnterInHighlightsOpensDetail(t *testing.T) {
	src := highlightSource()
	m := loadedModel(t, src)
	m = runMsgs(t, m, HighlightsMsg{Entries: src.table})

	m = runMsgs(t, m, tea.KeyMsg{Type: tea.KeyTab})
	m = runMsgs(t, m, tea.KeyMsg{Type: tea.KeyEnter})

	if m.mode != ModeDetail || m.detail.record.Name != "pikachu" {
		t.Errorf("mode = %d, want detail for pikachu", m.mode)
	}
}
