package game

import (
	"fmt"

	"github.com/hearthsim/hearth-server-go/internal/game/auras"
	"github.com/hearthsim/hearth-server-go/internal/game/rules"
)

// Clone produces a structurally independent deep copy of the entire game
// graph. Entity ids are preserved so external references by id stay valid
// against the clone; zone contents and ordering are preserved; the aura
// overlay is recomputed fresh in the clone rather than copied, and every
// back-reference (opponent links, enchantment targets) is already id-based,
// so the walk never follows a cycle: owned-forward edges are copied first
// and reverse links resolve by id lookup in the new graph on demand.
//
// Clone is pure: the source game and everything reachable from it is
// unmodified, which is what lets a caller hand each clone to an independent
// simulation worker with zero shared mutable state.
func (g *Game) Clone() *Game {
	ng := &Game{
		id:            g.id,
		registry:      g.registry, // static catalogue, shared
		hooks:         g.hooks,    // immutable script table, shared
		logger:        g.logger,
		entities:      make(map[int]*Entity, len(g.entities)),
		turns:         g.turns.Copy(),
		auraLayer:     nil, // rebuilt below
		nextEntityID:  g.nextEntityID,
		nextPlayIndex: g.nextPlayIndex,
		state:         g.state,
		winnerID:      g.winnerID,
		rngState:      g.rngState,
		startedAt:     g.startedAt,
		logging:       g.logging,
	}

	// Owned-forward pass: copy every entity into the new table.
	for id, e := range g.entities {
		ne := copyEntity(e)
		ng.attachChangeLogger(ne)
		ng.entities[id] = ne
	}

	// Copy controllers and rebuild their zone slices from the new table,
	// preserving order.
	for i, p := range g.players {
		np := copyPlayer(p)
		for kind, z := range p.zones {
			nz := np.zones[kind]
			nz.entities = make([]*Entity, len(z.entities))
			for j, e := range z.entities {
				ne := ng.entities[e.id]
				invariant(ne != nil, "clone: entity %d in %s missing from table", e.id, kind)
				nz.entities[j] = ne
			}
		}
		ng.players[i] = np
	}

	// Fresh transient machinery: listeners do not carry across clones, and
	// derived state is never copied.
	ng.bus = rules.NewEventBus()
	ng.auraLayer = auras.NewLayer()
	ng.RecomputeAuras()

	ng.verifyClone()
	return ng
}

// verifyClone asserts the cloned graph is well-formed: every zone member is
// in the clone's entity table and every directly-owned id resolves. A
// failure here is a core bug, not a recoverable condition.
func (ng *Game) verifyClone() {
	for _, p := range ng.players {
		for kind, z := range p.zones {
			for _, e := range z.entities {
				if ng.entities[e.id] != e {
					panic(fmt.Sprintf("game invariant violated: clone zone %s holds foreign entity %d", kind, e.id))
				}
			}
		}
		if ng.entities[p.heroID] == nil {
			panic(fmt.Sprintf("game invariant violated: clone controller %d hero %d dangling", p.id, p.heroID))
		}
		if p.heroPowerID != 0 && ng.entities[p.heroPowerID] == nil {
			panic(fmt.Sprintf("game invariant violated: clone controller %d hero power %d dangling", p.id, p.heroPowerID))
		}
		if p.weaponID != 0 && ng.entities[p.weaponID] == nil {
			panic(fmt.Sprintf("game invariant violated: clone controller %d weapon %d dangling", p.id, p.weaponID))
		}
	}
	for id, e := range ng.entities {
		if e.enchantTarget != 0 && ng.entities[e.enchantTarget] == nil {
			panic(fmt.Sprintf("game invariant violated: clone enchantment %d targets missing entity %d", id, e.enchantTarget))
		}
	}
}
