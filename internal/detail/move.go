package detail

import (
	"strconv"
	"strings"

	"github.com/smileynet/dexterm/internal/catalog"
)

// PopoverWidth is the popover's preferred width in cells.
const PopoverWidth = 40

const english = "en"

// MoveView is the rendered shape of a MoveDetail.
type MoveView struct {
	Name        string
	TypeName    string
	DamageClass string
	Power       string
	Accuracy    string
	PP          string
	Effect      string
	HasEffect   bool
}

var lineBreaks = strings.NewReplacer("\r\n", " ", "\n", " ", "\f", " ", "\r", " ")

// BuildMove renders mv. The effect is the English effect entry, else the
// English flavor text with line and page breaks flattened to spaces.
func BuildMove(mv *catalog.MoveDetail) MoveView {
	v := MoveView{
		Name:        mv.Name,
		TypeName:    deref(mv.TypeName),
		DamageClass: deref(mv.DamageClassName),
		Power:       number(mv.Power),
		Accuracy:    number(mv.Accuracy),
		PP:          number(mv.PP),
	}
	if text, ok := findLanguage(mv.EffectEntries, english); ok {
		v.Effect, v.HasEffect = text, true
	} else if text, ok := findLanguage(mv.FlavorTextEntries, english); ok {
		v.Effect, v.HasEffect = lineBreaks.Replace(text), true
	}
	return v
}

// Subtitle is the "type • class" line.
func (v MoveView) Subtitle() string {
	return v.TypeName + " • " + v.DamageClass
}

func findLanguage(entries []catalog.LocalizedText, lang string) (string, bool) {
	for _, e := range entries {
		if e.Language == lang {
			return e.Text, true
		}
	}
	return "", false
}

func number(n *int) string {
	if n == nil {
		return Missing
	}
	return strconv.Itoa(*n)
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// PlacePopover returns the left offset for a panel of width anchored at
// anchorX, shifted left as needed to stay inside viewportWidth. Never negative.
func PlacePopover(anchorX, width, viewportWidth int) int {
	return max(0, min(anchorX, viewportWidth-width))
}
