package detail

import (
	"fmt"
	"slices"
	"testing"

	"github.com/smileynet/dexterm/internal/catalog"
)

func intPtr(n int) *int { return &n }

func TestFormatID(t *testing.T) {
	tests := []struct {
		id   int
		want string
	}{
		{1, "#001"},
		{25, "#025"},
		{151, "#151"},
		{1025, "#1025"},
		{10001, "#10001"},
	}
	for _, tt := range tests {
		if got := FormatID(tt.id); got != tt.want {
			t.Errorf("FormatID(%d) = %q, want %q", tt.id, got, tt.want)
		}
	}
}

func TestSprite_Fallback(t *testing.T) {
	tests := []struct {
		name    string
		sprites catalog.Sprites
		want    string
	}{
		{"official first", catalog.Sprites{OfficialArtwork: "o", Default: "d", DreamWorld: "w"}, "o"},
		{"default second", catalog.Sprites{Default: "d", DreamWorld: "w"}, "d"},
		{"dream world last", catalog.Sprites{DreamWorld: "w"}, "w"},
		{"none", catalog.Sprites{}, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Sprite(tt.sprites); got != tt.want {
				t.Errorf("Sprite() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestBuild_CapsMovesAt200(t *testing.T) {
	// Given: a record with 250 moves
	rec := &catalog.DetailRecord{ID: 25, Name: "pikachu"}
	for i := range 250 {
		rec.Moves = append(rec.Moves, catalog.MoveRef{Name: fmt.Sprintf("move-%d", i)})
	}

	// When: it is built
	v := Build(rec)

	// Then: exactly 200 rows, the first 200 in order, with 50 reported hidden
	if len(v.Moves) != MaxMoves {
		t.Fatalf("len(Moves) = %d, want %d", len(v.Moves), MaxMoves)
	}
	if v.Moves[199].Name != "move-199" {
		t.Errorf("Moves[199] = %q, want move-199", v.Moves[199].Name)
	}
	if v.MovesTruncated != 50 {
		t.Errorf("MovesTruncated = %d, want 50", v.MovesTruncated)
	}
}

func TestBuild_Fields(t *testing.T) {
	rec := &catalog.DetailRecord{
		ID:             6,
		Name:           "charizard",
		Sprites:        catalog.Sprites{Default: "front.png"},
		Types:          []string{"fire", "flying"},
		Abilities:      []catalog.Ability{{Name: "blaze", Slot: 1}, {Name: "solar-power", IsHidden: true, Slot: 3}},
		Stats:          []catalog.Stat{{Name: "hp", BaseValue: 78}, {Name: "speed", BaseValue: 100}},
		Moves:          []catalog.MoveRef{{Name: "ember"}},
		Height:         17,
		Weight:         905,
		BaseExperience: intPtr(267),
	}

	v := Build(rec)

	if v.DisplayID != "#006" || v.Name != "charizard" || v.Sprite != "front.png" {
		t.Errorf("header = %q %q %q", v.DisplayID, v.Name, v.Sprite)
	}
	if !slices.Equal(v.Types, []string{"fire", "flying"}) {
		t.Errorf("Types = %v", v.Types)
	}
	if len(v.Abilities) != 2 || !v.Abilities[1].Hidden || v.Abilities[1].Slot != 3 {
		t.Errorf("Abilities = %+v", v.Abilities)
	}
	if len(v.Stats) != 2 || v.Stats[1] != (StatRow{Name: "speed", Value: 100}) {
		t.Errorf("Stats = %+v", v.Stats)
	}
	if v.Height != "17 decimetres" || v.Weight != "905 hectograms" || v.BaseExperience != "267" {
		t.Errorf("meta = %q %q %q", v.Height, v.Weight, v.BaseExperience)
	}
	if v.MovesTruncated != 0 {
		t.Errorf("MovesTruncated = %d, want 0", v.MovesTruncated)
	}
}

func TestBuild_MissingBaseExperience(t *testing.T) {
	for _, be := range []*int{nil, intPtr(0)} {
		v := Build(&catalog.DetailRecord{ID: 1, Name: "x", BaseExperience: be})
		if v.BaseExperience != Missing {
			t.Errorf("BaseExperience = %q, want %q", v.BaseExperience, Missing)
		}
	}
}
