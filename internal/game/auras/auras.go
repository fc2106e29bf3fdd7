package auras

import (
	"sort"

	"github.com/hearthsim/hearth-server-go/internal/game/tags"
)

// Subject describes an entity as seen by aura selectors. It carries only the
// characteristics selectors are allowed to inspect, so descriptors stay
// decoupled from the engine's entity type.
type Subject struct {
	EntityID     int
	ControllerID int
	CardID       string
	IsMinion     bool
	IsHero       bool
	IsWeapon     bool
	InPlay       bool
}

// Contribution is a single additive adjustment an aura applies to a matching
// subject.
type Contribution struct {
	Tag   tags.Tag
	Delta int
}

// Descriptor is the uniform interface the card catalogue implements for each
// aura source. The layer is agnostic to what auras exist; it only asks which
// subjects match and what they receive.
type Descriptor interface {
	// SourceID is the entity id of the aura's source. Descriptors are applied
	// in ascending source id order so recomputation is deterministic.
	SourceID() int
	// Matches reports whether the aura applies to the subject.
	Matches(Subject) bool
	// Contributions returns the adjustments granted to a matching subject.
	Contributions(Subject) []Contribution
}

// Layer holds the per-entity overlay of aura contributions. Every attribute
// read goes through base value + overlay; the overlay is derived state and is
// rebuilt from scratch on every recompute rather than incrementally diffed,
// because aura interactions are not commutative in general.
type Layer struct {
	overlay map[int]map[tags.Tag]int
}

// NewLayer creates an empty aura layer.
func NewLayer() *Layer {
	return &Layer{
		overlay: make(map[int]map[tags.Tag]int),
	}
}

// Bonus returns the overlay value for the entity and tag, or 0.
func (l *Layer) Bonus(entityID int, tag tags.Tag) int {
	return l.overlay[entityID][tag]
}

// Recompute clears all overlays and reapplies every active source to every
// matching subject. Sources are ordered by ascending source entity id so two
// identical states always produce identical effective values.
func (l *Layer) Recompute(sources []Descriptor, subjects []Subject) {
	l.overlay = make(map[int]map[tags.Tag]int)

	ordered := make([]Descriptor, len(sources))
	copy(ordered, sources)
	sort.Slice(ordered, func(i, j int) bool {
		return ordered[i].SourceID() < ordered[j].SourceID()
	})

	for _, src := range ordered {
		for _, subj := range subjects {
			if !src.Matches(subj) {
				continue
			}
			for _, c := range src.Contributions(subj) {
				row := l.overlay[subj.EntityID]
				if row == nil {
					row = make(map[tags.Tag]int)
					l.overlay[subj.EntityID] = row
				}
				row[c.Tag] += c.Delta
			}
		}
	}
}

// Clear drops every overlay, e.g. when a clone rebuilds derived state.
func (l *Layer) Clear() {
	l.overlay = make(map[int]map[tags.Tag]int)
}

// static is a Descriptor built from plain values, for catalogue entries that
// do not need custom logic.
type static struct {
	sourceID      int
	selector      func(Subject) bool
	contributions []Contribution
}

func (s *static) SourceID() int { return s.sourceID }

func (s *static) Matches(subj Subject) bool { return s.selector(subj) }

func (s *static) Contributions(Subject) []Contribution { return s.contributions }

// Static builds a descriptor from a selector predicate and a fixed set of
// contributions.
func Static(sourceID int, selector func(Subject) bool, contributions ...Contribution) Descriptor {
	return &static{
		sourceID:      sourceID,
		selector:      selector,
		contributions: contributions,
	}
}

// FriendlyMinions is a selector matching in-play minions controlled by the
// given controller, excluding the source itself.
func FriendlyMinions(sourceID, controllerID int) func(Subject) bool {
	return func(s Subject) bool {
		return s.InPlay && s.IsMinion && s.ControllerID == controllerID && s.EntityID != sourceID
	}
}

// AllMinions is a selector matching every in-play minion except the source.
func AllMinions(sourceID int) func(Subject) bool {
	return func(s Subject) bool {
		return s.InPlay && s.IsMinion && s.EntityID != sourceID
	}
}
