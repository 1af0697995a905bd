package dashboard

import "github.com/charmbracelet/bubbles/help"

// HelpBindings returns the help.KeyMap for the given mode,
// providing context-aware help bar content.
func HelpBindings(mode Mode, searching bool) help.KeyMap {
	switch {
	case mode == ModeDetail:
		return DetailKeyMap()
	case searching:
		return SearchKeyMap()
	default:
		return BrowseKeyMap()
	}
}
