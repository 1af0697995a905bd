package dashboard

import (
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

func focusedSearch(t *testing.T) searchState {
	t.Helper()
	ss := newSearchState(time.Millisecond)
	ss, _ = ss.Focus()
	if !ss.Focused() {
		t.Fatal("Focus should focus the field")
	}
	return ss
}

func TestSearchState_EditBumpsSeq(t *testing.T) {
	ss := focusedSearch(t)

	ss, cmd := ss.Update(keyRunes("p"))
	if ss.seq != 1 || cmd == nil {
		t.Fatalf("seq = %d cmd = %v, want 1 and a tick", ss.seq, cmd)
	}
	if ss.Value() != "p" {
		t.Errorf("value = %q", ss.Value())
	}
}

func TestSearchState_NonEditKeepsSeq(t *testing.T) {
	ss := focusedSearch(t)
	ss, _ = ss.Update(tea.KeyMsg{Type: tea.KeyLeft})
	if ss.seq != 0 {
		t.Errorf("cursor movement bumped seq to %d", ss.seq)
	}
}

func TestSearchState_EnterFiresImmediately(t *testing.T) {
	ss := focusedSearch(t)
	ss, _ = ss.Update(keyRunes("p"))

	ss, cmd := ss.Update(tea.KeyMsg{Type: tea.KeyEnter})

	if ss.Focused() {
		t.Error("enter should blur the field")
	}
	tick, ok := cmd().(searchTickMsg)
	if !ok || tick.Seq != 2 || ss.seq != 2 {
		t.Errorf("tick = %+v seq = %d, want seq 2", tick, ss.seq)
	}
}

func TestSearchState_EscKeepsText(t *testing.T) {
	ss := focusedSearch(t)
	ss, _ = ss.Update(keyRunes("p"))

	ss, cmd := ss.Update(tea.KeyMsg{Type: tea.KeyEsc})
	if cmd != nil || ss.Focused() || ss.Value() != "p" {
		t.Errorf("esc: cmd=%v focused=%v value=%q", cmd, ss.Focused(), ss.Value())
	}
}

func TestSearchState_DebouncedTickCarriesSeq(t *testing.T) {
	ss := focusedSearch(t)
	ss, _ = ss.Update(keyRunes("a"))
	_, cmd := ss.Update(keyRunes("b"))

	var got []int
	for _, msg := range execBatch(t, cmd) {
		if tick, ok := msg.(searchTickMsg); ok {
			got = append(got, tick.Seq)
		}
	}
	if len(got) != 1 || got[0] != 2 {
		t.Errorf("ticks = %v, want [2]", got)
	}
}
