package game

import "fmt"

// ZoneKind identifies one of the six per-controller zones. ZoneNone marks
// entities owned directly by a controller (hero, hero power, equipped weapon)
// or in transit during an atomic move.
type ZoneKind int

const (
	ZoneNone ZoneKind = iota
	ZoneDeck
	ZoneHand
	ZoneBoard
	ZoneSecret
	ZoneGraveyard
	ZoneSetaside
)

var zoneNames = map[ZoneKind]string{
	ZoneNone:      "NONE",
	ZoneDeck:      "DECK",
	ZoneHand:      "HAND",
	ZoneBoard:     "BOARD",
	ZoneSecret:    "SECRET",
	ZoneGraveyard: "GRAVEYARD",
	ZoneSetaside:  "SETASIDE",
}

func (k ZoneKind) String() string {
	if name, ok := zoneNames[k]; ok {
		return name
	}
	return fmt.Sprintf("ZONE_%d", int(k))
}

// Zone capacity bounds. Zero means unbounded.
const (
	HandCapacity   = 10
	BoardCapacity  = 7
	SecretCapacity = 5
)

func zoneCapacity(kind ZoneKind) int {
	switch kind {
	case ZoneHand:
		return HandCapacity
	case ZoneBoard:
		return BoardCapacity
	case ZoneSecret:
		return SecretCapacity
	default:
		return 0
	}
}

func zoneOrdered(kind ZoneKind) bool {
	switch kind {
	case ZoneDeck, ZoneHand, ZoneBoard:
		return true
	default:
		return false
	}
}

// Zone is an ordered container of entities belonging to one controller.
// Deck, Hand, and Board are positionally ordered; the remaining kinds keep
// insertion order only, with no semantic meaning attached.
type Zone struct {
	kind         ZoneKind
	controllerID int
	capacity     int
	ordered      bool
	entities     []*Entity
}

func newZone(kind ZoneKind, controllerID int) *Zone {
	return &Zone{
		kind:         kind,
		controllerID: controllerID,
		capacity:     zoneCapacity(kind),
		ordered:      zoneOrdered(kind),
	}
}

// Kind returns the zone's kind.
func (z *Zone) Kind() ZoneKind { return z.kind }

// ControllerID returns the id of the controller owning the zone.
func (z *Zone) ControllerID() int { return z.controllerID }

// Len returns the number of entities in the zone.
func (z *Zone) Len() int { return len(z.entities) }

// Full reports whether the zone is at its capacity bound.
func (z *Zone) Full() bool {
	return z.capacity > 0 && len(z.entities) >= z.capacity
}

// Get returns the entity at position i.
func (z *Zone) Get(i int) *Entity {
	return z.entities[i]
}

// Contains reports whether the zone holds the entity with the given id.
func (z *Zone) Contains(entityID int) bool {
	for _, e := range z.entities {
		if e.id == entityID {
			return true
		}
	}
	return false
}

// Entities returns the zone's contents in positional order. The returned
// slice is a copy; mutating it does not affect the zone.
func (z *Zone) Entities() []*Entity {
	out := make([]*Entity, len(z.entities))
	copy(out, z.entities)
	return out
}

// Each calls fn for every entity in positional order, stopping early if fn
// returns false.
func (z *Zone) Each(fn func(*Entity) bool) {
	for _, e := range z.entities {
		if !fn(e) {
			return
		}
	}
}

// Add inserts the entity at position (or at the end when position is -1 or
// past the end), shifting subsequent indices, and stamps the entity's zone
// membership. Fails with ErrCapacityExceeded when the zone is at its bound,
// leaving the zone and the entity unchanged.
func (z *Zone) Add(e *Entity, position int) error {
	if z.Full() {
		return fmt.Errorf("%w: %s is at capacity %d", ErrCapacityExceeded, z.kind, z.capacity)
	}
	invariant(e.zone == ZoneNone, "entity %d added to %s while still in %s", e.id, z.kind, e.zone)

	if position < 0 || position > len(z.entities) {
		position = len(z.entities)
	}

	z.entities = append(z.entities, nil)
	copy(z.entities[position+1:], z.entities[position:])
	z.entities[position] = e

	e.zone = z.kind
	e.controllerID = z.controllerID
	z.reindex()
	return nil
}

// Remove removes the entity and compacts indices, clearing the entity's zone
// membership. Fails with ErrNotFound if the entity is not a member.
func (z *Zone) Remove(e *Entity) error {
	for i, member := range z.entities {
		if member.id == e.id {
			z.entities = append(z.entities[:i], z.entities[i+1:]...)
			e.zone = ZoneNone
			e.zonePos = -1
			z.reindex()
			return nil
		}
	}
	return fmt.Errorf("%w: entity %d not in %s", ErrNotFound, e.id, z.kind)
}

func (z *Zone) reindex() {
	for i, e := range z.entities {
		if z.ordered {
			e.zonePos = i
		} else {
			e.zonePos = -1
		}
	}
}
