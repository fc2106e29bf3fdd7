package targeting

import "fmt"

// Category is a card's abstract targeting requirement. CategoryNone means
// the card takes no target at all, which is distinct from a category whose
// candidate set filters down to empty.
type Category int

const (
	CategoryNone Category = iota
	CategoryAll
	CategoryFriendlyCharacters
	CategoryEnemyCharacters
	CategoryAllMinions
	CategoryFriendlyMinions
	CategoryEnemyMinions
	CategoryHeroes
)

var categoryNames = map[Category]string{
	CategoryNone:               "NONE",
	CategoryAll:                "ALL",
	CategoryFriendlyCharacters: "FRIENDLY_CHARACTERS",
	CategoryEnemyCharacters:    "ENEMY_CHARACTERS",
	CategoryAllMinions:         "ALL_MINIONS",
	CategoryFriendlyMinions:    "FRIENDLY_MINIONS",
	CategoryEnemyMinions:       "ENEMY_MINIONS",
	CategoryHeroes:             "HEROES",
}

func (c Category) String() string {
	if name, ok := categoryNames[c]; ok {
		return name
	}
	return fmt.Sprintf("CATEGORY_%d", int(c))
}

// Candidate describes one potential target as seen by the filter pipeline.
type Candidate struct {
	EntityID     int
	ControllerID int
	IsHero       bool
	IsMinion     bool
	Stealthed    bool
	Immune       bool
	// SpellUntargetable marks candidates that cannot be targeted by spells or
	// hero powers (but can still be targeted by battlecries).
	SpellUntargetable bool
}

// Request carries everything the pipeline needs to build a legal target set.
type Request struct {
	Category Category
	// ActingControllerID decides which candidates count as friendly.
	ActingControllerID int
	// SourceIsSpell enables the spell-untargetability filter; it is set for
	// spells and hero powers alike.
	SourceIsSpell bool
	// Predicate is the card-specific targetable-if-available check; nil
	// accepts every candidate.
	Predicate func(Candidate) bool
}

// Select resolves the request's category over the candidate list, then runs
// the single filter pipeline: card predicate first, spell-untargetability
// second. Stealthed and immune candidates are never legal targets. The result
// preserves candidate order. A CategoryNone request always yields nil.
func Select(req Request, candidates []Candidate) []Candidate {
	if req.Category == CategoryNone {
		return nil
	}

	var out []Candidate
	for _, c := range candidates {
		if !matchesCategory(req.Category, req.ActingControllerID, c) {
			continue
		}
		if c.Stealthed && c.ControllerID != req.ActingControllerID {
			continue
		}
		if c.Immune {
			continue
		}
		if req.Predicate != nil && !req.Predicate(c) {
			continue
		}
		if req.SourceIsSpell && c.SpellUntargetable {
			continue
		}
		out = append(out, c)
	}
	return out
}

func matchesCategory(category Category, acting int, c Candidate) bool {
	friendly := c.ControllerID == acting
	switch category {
	case CategoryAll:
		return c.IsHero || c.IsMinion
	case CategoryFriendlyCharacters:
		return friendly && (c.IsHero || c.IsMinion)
	case CategoryEnemyCharacters:
		return !friendly && (c.IsHero || c.IsMinion)
	case CategoryAllMinions:
		return c.IsMinion
	case CategoryFriendlyMinions:
		return friendly && c.IsMinion
	case CategoryEnemyMinions:
		return !friendly && c.IsMinion
	case CategoryHeroes:
		return c.IsHero
	default:
		return false
	}
}
