package cache

import (
	"strconv"
	"strings"
)

type keyKind int

const (
	kindLocator keyKind = iota + 1
	kindID
	kindName
)

// Key names a creature by one of its aliases. Each alias kind is its own key
// space: ByID(25) never collides with a locator or a name.
type Key struct {
	kind    keyKind
	locator string
	id      int
	name    string
}

// ByLocator keys a record by its resource locator.
func ByLocator(locator string) Key {
	return Key{kind: kindLocator, locator: strings.TrimSpace(locator)}
}

// ByID keys a record by its numeric id.
func ByID(id int) Key {
	return Key{kind: kindID, id: id}
}

// ByName keys a record by its name. Names are case-insensitive.
func ByName(name string) Key {
	return Key{kind: kindName, name: strings.ToLower(strings.TrimSpace(name))}
}

// String returns the key with its kind prefix, e.g. "id:25".
func (k Key) String() string {
	switch k.kind {
	case kindLocator:
		return "locator:" + k.locator
	case kindID:
		return "id:" + strconv.Itoa(k.id)
	case kindName:
		return "name:" + k.name
	default:
		return "invalid"
	}
}

// ref is the reference handed to the fetcher.
func (k Key) ref() string {
	switch k.kind {
	case kindLocator:
		return k.locator
	case kindID:
		return strconv.Itoa(k.id)
	default:
		return k.name
	}
}

func (k Key) valid() bool {
	switch k.kind {
	case kindLocator:
		return k.locator != ""
	case kindID:
		return k.id > 0
	case kindName:
		return k.name != ""
	default:
		return false
	}
}
