// Package detail turns fetched records into display-ready views. It has no
// terminal dependencies; the dashboard and the plain report writers share it.
package detail

import (
	"fmt"
	"strconv"

	"github.com/smileynet/dexterm/internal/catalog"
)

// MaxMoves caps the move rows of a detail view.
const MaxMoves = 200

// Missing renders an absent value.
const Missing = "—"

// AbilityRow is one ability line.
type AbilityRow struct {
	Name   string
	Hidden bool
	Slot   int
}

// StatRow is one base-stat line.
type StatRow struct {
	Name  string
	Value int
}

// View is the rendered shape of a DetailRecord.
type View struct {
	ID             int
	DisplayID      string
	Name           string
	Sprite         string // Empty means render a placeholder.
	Types          []string
	Abilities      []AbilityRow
	Stats          []StatRow
	Moves          []catalog.MoveRef
	MovesTruncated int // Moves beyond MaxMoves that were not rendered.
	Height         string
	Weight         string
	BaseExperience string
}

// FormatID renders an id as '#' plus at least three zero-padded digits.
func FormatID(id int) string {
	return fmt.Sprintf("#%03d", id)
}

// Sprite picks official artwork, then the default sprite, then dream-world
// art. Empty when none is present.
func Sprite(s catalog.Sprites) string {
	for _, ref := range []string{s.OfficialArtwork, s.Default, s.DreamWorld} {
		if ref != "" {
			return ref
		}
	}
	return ""
}

// Build renders rec. Types, abilities, stats, and moves keep their source
// order.
func Build(rec *catalog.DetailRecord) View {
	v := View{
		ID:             rec.ID,
		DisplayID:      FormatID(rec.ID),
		Name:           rec.Name,
		Sprite:         Sprite(rec.Sprites),
		Types:          append([]string(nil), rec.Types...),
		Height:         fmt.Sprintf("%d decimetres", rec.Height),
		Weight:         fmt.Sprintf("%d hectograms", rec.Weight),
		BaseExperience: Missing,
	}
	if rec.BaseExperience != nil && *rec.BaseExperience != 0 {
		v.BaseExperience = strconv.Itoa(*rec.BaseExperience)
	}
	for _, a := range rec.Abilities {
		v.Abilities = append(v.Abilities, AbilityRow{Name: a.Name, Hidden: a.IsHidden, Slot: a.Slot})
	}
	for _, s := range rec.Stats {
		v.Stats = append(v.Stats, StatRow{Name: s.Name, Value: s.BaseValue})
	}

	moves := rec.Moves
	if len(moves) > MaxMoves {
		v.MovesTruncated = len(moves) - MaxMoves
		moves = moves[:MaxMoves]
	}
	v.Moves = append([]catalog.MoveRef(nil), moves...)
	return v
}
