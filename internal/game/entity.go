package game

import (
	"github.com/hearthsim/hearth-server-go/internal/game/cards"
	"github.com/hearthsim/hearth-server-go/internal/game/tags"
)

// Entity is one individually-identified game object: a minion, spell
// instance, weapon, hero, hero power, or enchantment. Its id is unique within
// one Game and preserved verbatim across Clone. Mutable attributes live in
// the tag store; the definition is shared immutable data.
type Entity struct {
	id           int
	def          *cards.Definition
	tags         *tags.Store
	controllerID int

	// Zone membership. ZoneNone means the entity is owned directly (heroes,
	// hero powers, equipped weapons, enchantments) rather than held in one of
	// the six controller zones. zonePos is the positional index within an
	// ordered zone, or -1.
	zone    ZoneKind
	zonePos int

	// enchantTarget is the id of the entity an enchantment modifies. Weak:
	// resolved through the game's entity table, never an owning edge.
	enchantTarget int
}

// ID returns the entity's process-unique id.
func (e *Entity) ID() int { return e.id }

// Def returns the card definition the entity was instantiated from.
func (e *Entity) Def() *cards.Definition { return e.def }

// Tags returns the entity's tag store.
func (e *Entity) Tags() *tags.Store { return e.tags }

// ControllerID returns the id of the controller that owns the entity.
func (e *Entity) ControllerID() int { return e.controllerID }

// Zone returns the kind of zone currently holding the entity, or ZoneNone.
func (e *Entity) Zone() ZoneKind { return e.zone }

// Position returns the entity's index within its zone, or -1.
func (e *Entity) Position() int { return e.zonePos }

// EnchantTarget returns the id of the enchanted entity, or 0.
func (e *Entity) EnchantTarget() int { return e.enchantTarget }

// IsMinion reports whether the entity is a minion.
func (e *Entity) IsMinion() bool { return e.def.Type == cards.TypeMinion }

// IsHero reports whether the entity is a hero.
func (e *Entity) IsHero() bool { return e.def.Type == cards.TypeHero }

// IsCharacter reports whether the entity can take part in combat.
func (e *Entity) IsCharacter() bool { return e.def.IsCharacter() }

// copyEntity deep-copies the entity. The definition pointer is shared (static
// data); the tag store is copied.
func copyEntity(e *Entity) *Entity {
	return &Entity{
		id:            e.id,
		def:           e.def,
		tags:          e.tags.Copy(),
		controllerID:  e.controllerID,
		zone:          e.zone,
		zonePos:       e.zonePos,
		enchantTarget: e.enchantTarget,
	}
}
