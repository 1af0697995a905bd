package dashboard

import "testing"

func TestTypeBadge_ContainsName(t *testing.T) {
	// Given: known and unknown type names
	// When: TypeBadge renders them
	// Then: the plain text is the name itself
	for _, name := range []string{"electric", "fire", "shadow"} {
		got := TypeBadge(name)
		if stripANSI(got) != name {
			t.Errorf("TypeBadge(%q) plain = %q", name, stripANSI(got))
		}
	}
}

func TestPaneWidths_Normal(t *testing.T) {
	// Given: a normal terminal width of 120
	// When: PaneWidths is computed
	cards, side := PaneWidths(120)

	// Then: the side pane is 1/3 and the cards get the rest
	if side != 40 {
		t.Errorf("side = %d, want 40", side)
	}
	if cards != 80 {
		t.Errorf("cards = %d, want 80", cards)
	}
}

func TestPaneWidths_MinSide(t *testing.T) {
	cards, side := PaneWidths(60)

	if side != MinSideWidth {
		t.Errorf("side = %d, want %d", side, MinSideWidth)
	}
	if cards+side != 60 {
		t.Errorf("cards+side = %d, want 60", cards+side)
	}
}

func TestPaneWidths_VerySmall(t *testing.T) {
	// Given: a width smaller than MinSideWidth
	cards, side := PaneWidths(20)

	// Then: the side pane keeps its minimum and cards clamp to 0
	if side != MinSideWidth || cards != 0 {
		t.Errorf("PaneWidths(20) = (%d, %d), want (0, %d)", cards, side, MinSideWidth)
	}
}

func TestPaneWidths_Zero(t *testing.T) {
	cards, side := PaneWidths(0)
	if cards != 0 || side != 0 {
		t.Errorf("PaneWidths(0) = (%d, %d), want (0, 0)", cards, side)
	}
}
