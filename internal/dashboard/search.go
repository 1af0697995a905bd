package dashboard

import (
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

// searchState wraps the search field and its debounce sequence. Every edit
// bumps seq; only a tick or result carrying the latest seq is acted on.
type searchState struct {
	input    textinput.Model
	seq      int
	debounce time.Duration
}

func newSearchState(debounce time.Duration) searchState {
	ti := textinput.New()
	ti.Prompt = "/ "
	ti.Placeholder = "search by name or #id"
	ti.CharLimit = 64
	return searchState{input: ti, debounce: debounce}
}

// Focused reports whether the search field has keyboard focus.
func (ss searchState) Focused() bool {
	return ss.input.Focused()
}

// Value returns the raw query text.
func (ss searchState) Value() string {
	return ss.input.Value()
}

// Focus gives the field keyboard focus.
func (ss searchState) Focus() (searchState, tea.Cmd) {
	return ss, ss.input.Focus()
}

// Update handles a key while the field is focused. Edits schedule a debounced
// tick; enter fires immediately; esc leaves the field keeping its text.
func (ss searchState) Update(msg tea.KeyMsg) (searchState, tea.Cmd) {
	switch msg.String() {
	case "esc":
		ss.input.Blur()
		return ss, nil

	case "enter":
		ss.input.Blur()
		return ss.fire()
	}

	before := ss.input.Value()
	var cmd tea.Cmd
	ss.input, cmd = ss.input.Update(msg)
	if ss.input.Value() == before {
		return ss, cmd
	}
	ss.seq++
	seq := ss.seq
	tick := tea.Tick(ss.debounce, func(time.Time) tea.Msg { return searchTickMsg{Seq: seq} })
	return ss, tea.Batch(cmd, tick)
}

// fire bumps the sequence and evaluates the query without waiting.
func (ss searchState) fire() (searchState, tea.Cmd) {
	ss.seq++
	seq := ss.seq
	return ss, func() tea.Msg { return searchTickMsg{Seq: seq} }
}

// View renders the search field.
func (ss searchState) View() string {
	return ss.input.View()
}
