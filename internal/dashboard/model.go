package dashboard

import (
	"context"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/smileynet/dexterm/internal/paginate"
)

// helpBarHeight is the number of lines reserved for the help bar at the bottom.
const helpBarHeight = 1

// statusBarHeight is the number of lines reserved for transient notices.
const statusBarHeight = 1

// borderChrome is the number of lines consumed by top + bottom borders.
const borderChrome = 2

// DefaultNoticeTTL is how long a status notice stays visible.
const DefaultNoticeTTL = 4 * time.Second

// Model is the root Bubble Tea model for the catalog browser.
// It routes messages by mode and focus and owns every view state; network
// work runs in commands and comes back as messages.
type Model struct {
	ctx    context.Context
	cancel context.CancelFunc
	source Source

	mode   Mode
	focus  Focus
	width  int
	height int

	browse browseState
	search searchState
	detail detailState
	side   sideState

	help    help.Model
	spinner spinner.Model

	gen       int // Page-load generation; older PageMsgs are discarded.
	notice    string
	noticeSeq int
	noticeTTL time.Duration
}

// ModelOption configures optional Model behavior.
type ModelOption func(*Model)

// WithCancelFunc sets the function called when the user quits, cancelling
// in-flight fetches.
func WithCancelFunc(cancel context.CancelFunc) ModelOption {
	return func(m *Model) { m.cancel = cancel }
}

// WithPageSizes sets the initial page size and the options +/- cycle through.
func WithPageSizes(size int, options []int) ModelOption {
	return func(m *Model) { m.browse = newBrowseState(size, options) }
}

// WithSearchDebounce sets how long typing must pause before a search runs.
func WithSearchDebounce(d time.Duration) ModelOption {
	return func(m *Model) { m.search.debounce = d }
}

// WithNoticeTTL sets how long status notices stay visible.
func WithNoticeTTL(d time.Duration) ModelOption {
	return func(m *Model) { m.noticeTTL = d }
}

// NewModel creates a Model in browse mode with the card pane focused.
func NewModel(ctx context.Context, src Source, opts ...ModelOption) Model {
	s := spinner.New()
	s.Spinner = spinner.Dot

	m := Model{
		ctx:       ctx,
		source:    src,
		mode:      ModeBrowse,
		focus:     PaneCards,
		browse:    newBrowseState(paginate.DefaultPageSize, []int{20, paginate.DefaultPageSize, 100}),
		search:    newSearchState(250 * time.Millisecond),
		side:      newSideState(),
		help:      help.New(),
		spinner:   s,
		noticeTTL: DefaultNoticeTTL,
	}
	for _, opt := range opts {
		opt(&m)
	}
	return m
}

// Init starts the spinner and the index and highlights loads.
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, loadIndex(m.ctx, m.source), loadHighlights(m.ctx, m.source))
}

// Update handles incoming messages with mode-based routing.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		if m.mode == ModeDetail {
			m.detail = m.detail.resize(m.width-borderChrome, m.contentHeight())
		}
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case IndexMsg:
		var cmd tea.Cmd
		m.browse, cmd = m.browse.Update(msg)
		if msg.Err == nil && strings.TrimSpace(m.search.Value()) != "" {
			// A query typed while the index loaded replaces the first page load.
			m.search, cmd = m.search.fire()
		}
		var cmds []tea.Cmd
		m, cmds = m.startHighlights()
		if len(cmds) > 0 {
			return m, tea.Batch(append(cmds, cmd)...)
		}
		return m, cmd

	case PageRequestMsg:
		return m.requestPage()

	case PageMsg:
		if msg.Gen != m.gen {
			return m, nil
		}
		var cmd tea.Cmd
		m.browse, cmd = m.browse.Update(msg)
		return m, cmd

	case searchTickMsg:
		if msg.Seq != m.search.seq || m.browse.loadingIndex || m.browse.indexErr != nil {
			return m, nil
		}
		return m, runSearch(m.ctx, m.source, msg.Seq, m.search.Value(), m.browse.index)

	case SearchMsg:
		if msg.Seq != m.search.seq {
			return m, nil
		}
		var cmd tea.Cmd
		m.browse, cmd = m.browse.Update(msg)
		return m, cmd

	case HighlightsMsg:
		m.side, _ = m.side.Update(msg)
		var cmds []tea.Cmd
		m, cmds = m.startHighlights()
		if len(cmds) == 0 {
			return m, nil
		}
		return m, tea.Batch(cmds...)

	case HighlightMsg:
		m.side, _ = m.side.Update(msg)
		return m, nil

	case OpenDetailMsg:
		m.mode = ModeDetail
		m.detail = newDetailState(msg.Record, m.width-borderChrome, m.contentHeight())
		return m, nil

	case CloseDetailMsg:
		m.mode = ModeBrowse
		return m, nil

	case MoveRequestMsg:
		return m, loadMove(m.ctx, m.source, msg.Row, msg.Locator)

	case MoveMsg:
		var cmd tea.Cmd
		if m.mode == ModeDetail {
			m.detail, cmd = m.detail.Update(msg)
		}
		if msg.Err != nil {
			return m.setNotice("Failed to load move details")
		}
		return m, cmd

	case clearNoticeMsg:
		if msg.Seq == m.noticeSeq {
			m.notice = ""
		}
		return m, nil

	case tea.MouseMsg:
		if m.mode == ModeDetail {
			// The overlay starts inside the pane's top and left border.
			msg.X--
			msg.Y--
			var cmd tea.Cmd
			m.detail, cmd = m.detail.Update(msg)
			return m, cmd
		}
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	return m, nil
}

// handleKey processes key messages with global and mode-specific routing.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		return m.quit()
	}

	var cmd tea.Cmd
	switch {
	case m.mode == ModeDetail:
		m.detail, cmd = m.detail.Update(msg)
		return m, cmd

	case m.search.Focused():
		m.search, cmd = m.search.Update(msg)
		return m, cmd
	}

	switch msg.String() {
	case "q":
		return m.quit()
	case "/":
		m.focus = PaneCards
		m.search, cmd = m.search.Focus()
		return m, cmd
	case "tab":
		if m.focus == PaneCards {
			m.focus = PaneHighlights
		} else {
			m.focus = PaneCards
		}
		return m, nil
	}

	if m.focus == PaneHighlights {
		m.side, cmd = m.side.Update(msg)
		return m, cmd
	}
	m.browse, cmd = m.browse.Update(msg)
	return m, cmd
}

// requestPage starts a new page-load generation for the current page.
func (m Model) requestPage() (tea.Model, tea.Cmd) {
	m.gen++
	m.browse = m.browse.startLoading()
	return m, loadPage(m.ctx, m.source, m.gen, m.browse.visible())
}

// startHighlights issues the per-entry highlight fetches once both the table
// and the index have settled, so name lookups join the page's fetches by
// locator instead of duplicating them.
func (m Model) startHighlights() (Model, []tea.Cmd) {
	if !m.side.ready() || m.browse.loadingIndex {
		return m, nil
	}
	m.side.started = true
	return m, resolveHighlights(m.ctx, m.source, m.side.cards)
}

// setNotice shows text in the status line and schedules its removal.
func (m Model) setNotice(text string) (tea.Model, tea.Cmd) {
	m.noticeSeq++
	m.notice = text
	return m, clearNoticeAfter(m.noticeTTL, m.noticeSeq)
}

func (m Model) quit() (tea.Model, tea.Cmd) {
	if m.cancel != nil {
		m.cancel()
	}
	return m, tea.Quit
}

// contentHeight returns the usable height for pane content,
// accounting for border chrome, the status line, and the help bar.
func (m Model) contentHeight() int {
	h := m.height - borderChrome - statusBarHeight - helpBarHeight
	if h < 1 {
		return 1
	}
	return h
}

// View renders the active mode with the status line and help bar.
func (m Model) View() string {
	if m.width == 0 || m.height == 0 {
		return "Initializing..."
	}

	contentHeight := m.contentHeight()
	var body string
	if m.mode == ModeDetail {
		body = FocusedBorder().
			Width(m.width - borderChrome).
			Height(contentHeight).
			Render(m.detail.View())
	} else {
		body = m.viewBrowse(contentHeight)
	}

	status := noticeText.Render(m.notice)
	helpView := m.help.View(HelpBindings(m.mode, m.search.Focused()))
	return lipgloss.JoinVertical(lipgloss.Left, body, status, helpView)
}

func (m Model) viewBrowse(contentHeight int) string {
	cardsWidth, sideWidth := PaneWidths(m.width)

	var cardsStyle, sideStyle lipgloss.Style
	if m.focus == PaneCards {
		cardsStyle = FocusedBorder()
		sideStyle = UnfocusedBorder()
	} else {
		cardsStyle = UnfocusedBorder()
		sideStyle = FocusedBorder()
	}

	cardsStyle = cardsStyle.
		Width(cardsWidth - borderChrome).
		Height(contentHeight).
		MaxHeight(contentHeight + borderChrome)
	sideStyle = sideStyle.
		Width(sideWidth - borderChrome).
		Height(contentHeight).
		MaxHeight(contentHeight + borderChrome)

	spin := m.spinner.View()
	cards := cardsStyle.Render(m.browse.View(cardsWidth-borderChrome, contentHeight, spin, m.search.View()))
	side := sideStyle.Render(m.side.View(sideWidth-borderChrome, spin))
	return lipgloss.JoinHorizontal(lipgloss.Top, cards, side)
}
