package dashboard

import "github.com/charmbracelet/bubbles/key"

// browseKeys holds key bindings for browse mode.
type browseKeys struct {
	Up      key.Binding
	Down    key.Binding
	Prev    key.Binding
	Next    key.Binding
	Enter   key.Binding
	Search  key.Binding
	Bigger  key.Binding
	Smaller key.Binding
	Tab     key.Binding
	Quit    key.Binding
}

// ShortHelp returns the browse mode bindings for the help bar.
func (k browseKeys) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Prev, k.Next, k.Enter, k.Search, k.Bigger, k.Tab, k.Quit}
}

// FullHelp returns the browse mode bindings grouped for expanded help.
func (k browseKeys) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Enter},
		{k.Prev, k.Next, k.Bigger, k.Smaller},
		{k.Search, k.Tab, k.Quit},
	}
}

// searchKeys holds key bindings while the search field has focus.
type searchKeys struct {
	Submit key.Binding
	Cancel key.Binding
}

// ShortHelp returns the search bindings for the help bar.
func (k searchKeys) ShortHelp() []key.Binding {
	return []key.Binding{k.Submit, k.Cancel}
}

// FullHelp returns the search bindings grouped for expanded help.
func (k searchKeys) FullHelp() [][]key.Binding {
	return [][]key.Binding{{k.Submit, k.Cancel}}
}

// detailKeys holds key bindings for the detail overlay.
type detailKeys struct {
	Up    key.Binding
	Down  key.Binding
	Enter key.Binding
	Close key.Binding
	Quit  key.Binding
}

// ShortHelp returns the detail bindings for the help bar.
func (k detailKeys) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Enter, k.Close, k.Quit}
}

// FullHelp returns the detail bindings grouped for expanded help.
func (k detailKeys) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Enter},
		{k.Close, k.Quit},
	}
}

// BrowseKeyMap returns the key bindings for browse mode.
func BrowseKeyMap() browseKeys {
	return browseKeys{
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "down"),
		),
		Prev: key.NewBinding(
			key.WithKeys("left", "h"),
			key.WithHelp("←/h", "prev page"),
		),
		Next: key.NewBinding(
			key.WithKeys("right", "l"),
			key.WithHelp("→/l", "next page"),
		),
		Enter: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "details"),
		),
		Search: key.NewBinding(
			key.WithKeys("/"),
			key.WithHelp("/", "search"),
		),
		Bigger: key.NewBinding(
			key.WithKeys("+", "="),
			key.WithHelp("+/-", "page size"),
		),
		Smaller: key.NewBinding(
			key.WithKeys("-"),
			key.WithHelp("-", "smaller pages"),
		),
		Tab: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "switch pane"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// SearchKeyMap returns the key bindings while searching.
func SearchKeyMap() searchKeys {
	return searchKeys{
		Submit: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "search now"),
		),
		Cancel: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "done"),
		),
	}
}

// DetailKeyMap returns the key bindings for the detail overlay.
func DetailKeyMap() detailKeys {
	return detailKeys{
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "down"),
		),
		Enter: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "move details"),
		),
		Close: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "close"),
		),
		Quit: key.NewBinding(
			key.WithKeys("ctrl+c"),
			key.WithHelp("ctrl+c", "quit"),
		),
	}
}
