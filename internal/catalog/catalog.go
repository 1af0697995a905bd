// Package catalog defines the creature catalog's domain types and error kinds.
// Records are immutable once fetched; every package downstream of the client
// treats them as read-only.
package catalog

// IndexEntry is a lightweight reference to a catalog item before its full
// detail is fetched.
type IndexEntry struct {
	Name    string // Lowercase, unique within the index.
	Locator string
}

// Sprites holds the image references offered for a record.
type Sprites struct {
	OfficialArtwork string
	Default         string
	DreamWorld      string
}

// Ability is one ability slot of a creature.
type Ability struct {
	Name     string
	IsHidden bool
	Slot     int
}

// Stat is a named base stat.
type Stat struct {
	Name      string
	BaseValue int
}

// MoveRef references a move sub-resource by name and locator.
type MoveRef struct {
	Name    string
	Locator string
}

// DetailRecord is the fully fetched attribute set for one catalog item.
type DetailRecord struct {
	ID             int
	Name           string
	Locator        string // Canonical locator the record is stored under.
	Sprites        Sprites
	Types          []string
	Abilities      []Ability
	Stats          []Stat
	Moves          []MoveRef
	Height         int // Decimetres.
	Weight         int // Hectograms.
	BaseExperience *int
}

// Entry returns the IndexEntry that refers to this record.
func (r *DetailRecord) Entry() IndexEntry {
	return IndexEntry{Name: r.Name, Locator: r.Locator}
}

// LocalizedText is a text entry tagged with its language code.
type LocalizedText struct {
	Language string
	Text     string
}

// MoveDetail is the extended record of a single move.
type MoveDetail struct {
	Name              string
	TypeName          *string
	DamageClassName   *string
	Power             *int
	Accuracy          *int
	PP                *int
	EffectEntries     []LocalizedText
	FlavorTextEntries []LocalizedText
}

// Highlight is a curated, statically defined cross-reference to a creature.
type Highlight struct {
	Name            string `yaml:"name"`
	Owner           string `yaml:"owner"`
	Note            string `yaml:"note"`
	FirstAppearance string `yaml:"first_appearance"`
}
