package pokeapi

import (
	"strings"

	"github.com/smileynet/dexterm/internal/catalog"
)

// apiNamedResource is PokeAPI's {name, url} reference shape.
type apiNamedResource struct {
	Name string `json:"name"`
	URL  string `json:"url"`
}

// apiIndex is the paged list returned by /pokemon?limit=N.
type apiIndex struct {
	Count   int                 `json:"count"`
	Results *[]apiNamedResource `json:"results"`
}

type apiSprite struct {
	FrontDefault *string `json:"front_default"`
}

type apiSprites struct {
	FrontDefault *string `json:"front_default"`
	Other        struct {
		OfficialArtwork apiSprite `json:"official-artwork"`
		DreamWorld      apiSprite `json:"dream_world"`
	} `json:"other"`
}

type apiPokemon struct {
	ID             int        `json:"id"`
	Name           string     `json:"name"`
	Height         int        `json:"height"`
	Weight         int        `json:"weight"`
	BaseExperience *int       `json:"base_experience"`
	Sprites        apiSprites `json:"sprites"`
	Types          []struct {
		Slot int              `json:"slot"`
		Type apiNamedResource `json:"type"`
	} `json:"types"`
	Abilities []struct {
		Ability  apiNamedResource `json:"ability"`
		IsHidden bool             `json:"is_hidden"`
		Slot     int              `json:"slot"`
	} `json:"abilities"`
	Stats []struct {
		BaseStat int              `json:"base_stat"`
		Stat     apiNamedResource `json:"stat"`
	} `json:"stats"`
	Moves []struct {
		Move apiNamedResource `json:"move"`
	} `json:"moves"`
}

type apiMove struct {
	Name          string            `json:"name"`
	Power         *int              `json:"power"`
	Accuracy      *int              `json:"accuracy"`
	PP            *int              `json:"pp"`
	Type          *apiNamedResource `json:"type"`
	DamageClass   *apiNamedResource `json:"damage_class"`
	EffectEntries []struct {
		Effect   string           `json:"effect"`
		Language apiNamedResource `json:"language"`
	} `json:"effect_entries"`
	FlavorTextEntries []struct {
		FlavorText string           `json:"flavor_text"`
		Language   apiNamedResource `json:"language"`
	} `json:"flavor_text_entries"`
}

// mapIndex converts the list response, lowercasing names on ingestion.
func mapIndex(results []apiNamedResource) []catalog.IndexEntry {
	entries := make([]catalog.IndexEntry, 0, len(results))
	for _, r := range results {
		entries = append(entries, catalog.IndexEntry{
			Name:    strings.ToLower(r.Name),
			Locator: r.URL,
		})
	}
	return entries
}

// mapPokemon converts a detail response into a DetailRecord stored under locator.
func mapPokemon(p apiPokemon, locator string) *catalog.DetailRecord {
	rec := &catalog.DetailRecord{
		ID:             p.ID,
		Name:           strings.ToLower(p.Name),
		Locator:        locator,
		Height:         p.Height,
		Weight:         p.Weight,
		BaseExperience: p.BaseExperience,
		Sprites: catalog.Sprites{
			OfficialArtwork: deref(p.Sprites.Other.OfficialArtwork.FrontDefault),
			Default:         deref(p.Sprites.FrontDefault),
			DreamWorld:      deref(p.Sprites.Other.DreamWorld.FrontDefault),
		},
		Types:     make([]string, 0, len(p.Types)),
		Abilities: make([]catalog.Ability, 0, len(p.Abilities)),
		Stats:     make([]catalog.Stat, 0, len(p.Stats)),
		Moves:     make([]catalog.MoveRef, 0, len(p.Moves)),
	}
	for _, t := range p.Types {
		rec.Types = append(rec.Types, t.Type.Name)
	}
	for _, a := range p.Abilities {
		rec.Abilities = append(rec.Abilities, catalog.Ability{
			Name:     a.Ability.Name,
			IsHidden: a.IsHidden,
			Slot:     a.Slot,
		})
	}
	for _, s := range p.Stats {
		rec.Stats = append(rec.Stats, catalog.Stat{Name: s.Stat.Name, BaseValue: s.BaseStat})
	}
	for _, m := range p.Moves {
		rec.Moves = append(rec.Moves, catalog.MoveRef{Name: m.Move.Name, Locator: m.Move.URL})
	}
	return rec
}

// mapMove converts a move response into a MoveDetail.
func mapMove(m apiMove) *catalog.MoveDetail {
	mv := &catalog.MoveDetail{
		Name:     m.Name,
		Power:    m.Power,
		Accuracy: m.Accuracy,
		PP:       m.PP,
	}
	if m.Type != nil && m.Type.Name != "" {
		name := m.Type.Name
		mv.TypeName = &name
	}
	if m.DamageClass != nil && m.DamageClass.Name != "" {
		name := m.DamageClass.Name
		mv.DamageClassName = &name
	}
	for _, e := range m.EffectEntries {
		mv.EffectEntries = append(mv.EffectEntries, catalog.LocalizedText{Language: e.Language.Name, Text: e.Effect})
	}
	for _, f := range m.FlavorTextEntries {
		mv.FlavorTextEntries = append(mv.FlavorTextEntries, catalog.LocalizedText{Language: f.Language.Name, Text: f.FlavorText})
	}
	return mv
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
