package game

import (
	"github.com/hearthsim/hearth-server-go/internal/game/auras"
	"github.com/hearthsim/hearth-server-go/internal/game/targeting"
)

// HookContext carries the state a card script needs at a trigger point.
// Target is nil for untargeted plays. Choose is the selected choose-one
// branch index, ChooseBothBranches when the combined modifier is active, and
// -1 for cards without branches.
type HookContext struct {
	Game   *Game
	Source *Entity
	Target *Entity
	Choose int
}

// ChooseBothBranches is the Choose value meaning every branch of a
// choose-one card applies.
const ChooseBothBranches = -2

// Hooks are the per-card effect scripts, invoked synchronously at
// well-defined trigger points. Any field may be nil. State mutations a hook
// performs are applied before the engine continues its own algorithm (death
// processing, aura recompute).
type Hooks struct {
	// OnPlay runs after the card's entity reaches its destination zone.
	OnPlay func(*HookContext) error
	// OnDeath runs as the entity moves to the graveyard.
	OnDeath func(*HookContext) error
	// OnTurnEnd runs for in-play entities at the end of their controller's
	// turn.
	OnTurnEnd func(*HookContext) error
	// OnEnemyMinionPlayed runs for active secrets when the opposing
	// controller plays a minion. Target is the played minion; the script
	// consumes the secret itself when it fires.
	OnEnemyMinionPlayed func(*HookContext) error
	// PlayRequirement is the static predicate gating play options; a nil
	// requirement always passes.
	PlayRequirement func(g *Game, p *Player) bool
	// TargetPredicate is the card-specific targetable-if-available filter.
	TargetPredicate func(targeting.Candidate) bool
	// Aura builds the aura descriptor contributed while the source is in
	// play. Called on every recompute.
	Aura func(g *Game, source *Entity) auras.Descriptor
}

// HookTable maps card ids to their scripts. It is populated at startup by
// the card catalogue's script packages and shared read-only by every game
// and clone.
type HookTable struct {
	byCard map[string]Hooks
}

// NewHookTable creates an empty hook table.
func NewHookTable() *HookTable {
	return &HookTable{byCard: make(map[string]Hooks)}
}

// Register installs the scripts for a card id, replacing any previous entry.
func (ht *HookTable) Register(cardID string, hooks Hooks) {
	ht.byCard[cardID] = hooks
}

// ForCard returns the scripts for a card id.
func (ht *HookTable) ForCard(cardID string) (Hooks, bool) {
	hooks, ok := ht.byCard[cardID]
	return hooks, ok
}
