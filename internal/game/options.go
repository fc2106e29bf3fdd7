package game

import (
	"github.com/hearthsim/hearth-server-go/internal/game/cards"
	"github.com/hearthsim/hearth-server-go/internal/game/rules"
	"github.com/hearthsim/hearth-server-go/internal/game/tags"
	"github.com/hearthsim/hearth-server-go/internal/game/targeting"
)

// OptionType discriminates the legal actions the enumerator emits.
type OptionType int

const (
	OptionEndTurn OptionType = iota
	OptionPlayCard
	OptionHeroPower
	OptionAttack
	OptionPick
)

var optionNames = map[OptionType]string{
	OptionEndTurn:   "END_TURN",
	OptionPlayCard:  "PLAY_CARD",
	OptionHeroPower: "HERO_POWER",
	OptionAttack:    "ATTACK",
	OptionPick:      "PICK",
}

func (t OptionType) String() string {
	return optionNames[t]
}

// Option is one legal action available to a controller. SourceID is the hand
// card, attacker, hero power, or offered pick; TargetID is zero for
// untargeted options; Position is the board insertion index for minion plays
// (-1 otherwise); Choose is the choose-one branch index, ChooseBothBranches
// when the combined modifier is active, or -1.
type Option struct {
	Type     OptionType
	SourceID int
	TargetID int
	Position int
	Choose   int
}

// Options enumerates every legal action for the controller. The enumerator
// never emits an illegal action: anything it returns will be accepted by
// Apply against an unchanged game. Used both for presenting choices and for
// simulation branching, so the result order is deterministic.
func (g *Game) Options(playerID int) []Option {
	p := g.Player(playerID)
	if p == nil || g.state == StateComplete {
		return nil
	}

	// A pending choice gates everything else.
	if p.choice != nil {
		options := make([]Option, 0, len(p.choice.Options)+1)
		for _, id := range p.choice.Options {
			options = append(options, Option{Type: OptionPick, SourceID: id, Position: -1, Choose: -1})
		}
		if p.choice.Kind == ChoiceMulligan {
			// Keeping the whole hand is always a legal mulligan pick.
			options = append(options, Option{Type: OptionPick, SourceID: 0, Position: -1, Choose: -1})
		}
		return options
	}

	// Outside the main action phase only choice-driven play exists.
	if g.turns.CurrentStep() != rules.StepMainAction || g.turns.ActivePlayer() != playerID {
		return nil
	}

	options := []Option{{Type: OptionEndTurn, Position: -1, Choose: -1}}
	options = append(options, g.playCardOptions(p)...)
	options = append(options, g.heroPowerOptions(p)...)
	options = append(options, g.attackOptions(p)...)
	return options
}

func (g *Game) playCardOptions(p *Player) []Option {
	var options []Option
	p.Hand().Each(func(e *Entity) bool {
		options = append(options, g.optionsForHandCard(p, e)...)
		return true
	})
	return options
}

func (g *Game) optionsForHandCard(p *Player, e *Entity) []Option {
	if !g.canAfford(p, e) {
		return nil
	}
	if !g.placementAvailable(p, e) {
		return nil
	}

	hooks, _ := g.hooks.ForCard(e.def.ID)
	if hooks.PlayRequirement != nil && !hooks.PlayRequirement(g, p) {
		return nil
	}

	chooses := chooseBranches(p, e.def)

	targets, required := g.legalTargets(p, e.def, hooks)
	if required && len(targets) == 0 {
		// Target required but filtered to empty: zero options for this card.
		return nil
	}

	positions := []int{-1}
	if e.def.Type == cards.TypeMinion {
		board := p.Board()
		positions = positions[:0]
		for pos := 0; pos <= board.Len(); pos++ {
			positions = append(positions, pos)
		}
	}

	var options []Option
	for _, choose := range chooses {
		if len(targets) == 0 {
			for _, pos := range positions {
				options = append(options, Option{Type: OptionPlayCard, SourceID: e.id, Position: pos, Choose: choose})
			}
			continue
		}
		for _, target := range targets {
			for _, pos := range positions {
				options = append(options, Option{Type: OptionPlayCard, SourceID: e.id, TargetID: target.EntityID, Position: pos, Choose: choose})
			}
		}
	}
	return options
}

// chooseBranches returns the choose-one branch indices to enumerate: a
// single -1 for ordinary cards, one index per branch otherwise, or the
// combined marker when the controller's choose-both modifier is active.
func chooseBranches(p *Player, def *cards.Definition) []int {
	if len(def.ChooseOptions) == 0 {
		return []int{-1}
	}
	if p.chooseBoth {
		return []int{ChooseBothBranches}
	}
	branches := make([]int, len(def.ChooseOptions))
	for i := range branches {
		branches[i] = i
	}
	return branches
}

// canAfford checks the card's adjusted cost against remaining resources,
// or against hero health for costs-health cards.
func (g *Game) canAfford(p *Player, e *Entity) bool {
	cost := g.EffectiveCost(e)
	if g.EffectiveBool(e, tags.TagCostsHealth) {
		return g.CurrentHealth(g.Hero(p)) > cost
	}
	return cost <= p.RemainingMana()
}

// placementAvailable checks category-specific capacity: board space for
// minions, secret-zone space and no duplicate for secrets, secret-zone space
// and no active quest for quests.
func (g *Game) placementAvailable(p *Player, e *Entity) bool {
	switch e.def.Type {
	case cards.TypeMinion:
		return !p.Board().Full()
	case cards.TypeSpell:
		if e.def.Secret {
			secrets := p.Zone(ZoneSecret)
			if secrets.Full() {
				return false
			}
			duplicate := false
			secrets.Each(func(s *Entity) bool {
				if s.def.ID == e.def.ID {
					duplicate = true
					return false
				}
				return true
			})
			return !duplicate
		}
		if e.def.Quest {
			return !p.questActive && !p.Zone(ZoneSecret).Full()
		}
		return true
	default:
		return true
	}
}

// legalTargets resolves the card's targeting category through the filter
// pipeline. The second return reports whether the card requires a target.
func (g *Game) legalTargets(p *Player, def *cards.Definition, hooks Hooks) ([]targeting.Candidate, bool) {
	if def.Targeting == targeting.CategoryNone {
		return nil, false
	}
	req := targeting.Request{
		Category:           def.Targeting,
		ActingControllerID: p.id,
		SourceIsSpell:      def.Type == cards.TypeSpell || def.Type == cards.TypeHeroPower,
		Predicate:          hooks.TargetPredicate,
	}
	return targeting.Select(req, g.targetCandidates()), true
}

// targetCandidates builds the candidate list over both heroes and boards,
// in controller then position order.
func (g *Game) targetCandidates() []targeting.Candidate {
	var cands []targeting.Candidate
	for _, p := range g.players {
		hero := g.Hero(p)
		cands = append(cands, targeting.Candidate{
			EntityID:     hero.id,
			ControllerID: p.id,
			IsHero:       true,
			Immune:       g.EffectiveBool(hero, tags.TagImmune),
		})
		p.Board().Each(func(e *Entity) bool {
			cands = append(cands, targeting.Candidate{
				EntityID:          e.id,
				ControllerID:      p.id,
				IsMinion:          true,
				Stealthed:         g.EffectiveBool(e, tags.TagStealth),
				Immune:            g.EffectiveBool(e, tags.TagImmune),
				SpellUntargetable: g.EffectiveBool(e, tags.TagCantBeTargetedBySpells),
			})
			return true
		})
	}
	return cands
}

func (g *Game) heroPowerOptions(p *Player) []Option {
	power := g.HeroPower(p)
	if power == nil {
		return nil
	}
	if power.tags.Bool(tags.TagExhausted) || g.EffectiveBool(power, tags.TagHeroPowerDisabled) {
		return nil
	}
	if g.EffectiveCost(power) > p.RemainingMana() {
		return nil
	}

	hooks, _ := g.hooks.ForCard(power.def.ID)
	if hooks.PlayRequirement != nil && !hooks.PlayRequirement(g, p) {
		return nil
	}

	targets, required := g.legalTargets(p, power.def, hooks)
	if required && len(targets) == 0 {
		return nil
	}
	if len(targets) == 0 {
		return []Option{{Type: OptionHeroPower, SourceID: power.id, Position: -1, Choose: -1}}
	}
	options := make([]Option, 0, len(targets))
	for _, target := range targets {
		options = append(options, Option{Type: OptionHeroPower, SourceID: power.id, TargetID: target.EntityID, Position: -1, Choose: -1})
	}
	return options
}

func (g *Game) attackOptions(p *Player) []Option {
	var options []Option
	emit := func(attacker *Entity) {
		if !g.canAttack(p, attacker) {
			return
		}
		for _, defender := range g.attackTargets(p) {
			options = append(options, Option{
				Type:     OptionAttack,
				SourceID: attacker.id,
				TargetID: defender.id,
				Position: -1,
				Choose:   -1,
			})
		}
	}
	emit(g.Hero(p))
	p.Board().Each(func(e *Entity) bool {
		emit(e)
		return true
	})
	return options
}

// canAttack reports whether the character may attack this turn: positive
// attack power, not frozen, not attack-disabled, and attacks remaining
// (windfury grants two; summoning exhaustion blocks unless charged).
func (g *Game) canAttack(p *Player, e *Entity) bool {
	if !e.IsCharacter() {
		return false
	}
	if g.EffectiveAttack(e) <= 0 {
		return false
	}
	if e.tags.Bool(tags.TagFrozen) || g.EffectiveBool(e, tags.TagCantAttack) {
		return false
	}
	if e.tags.Bool(tags.TagExhausted) && !g.EffectiveBool(e, tags.TagCharge) {
		return false
	}
	maxAttacks := 1
	if g.EffectiveBool(e, tags.TagWindfury) {
		maxAttacks = 2
	}
	if e.tags.Get(tags.TagNumAttacksThisTurn) >= maxAttacks {
		return false
	}
	if e.IsHero() {
		if w := g.Weapon(p); w != nil && w.tags.Get(tags.TagDurability) <= 0 {
			return false
		}
	}
	return true
}

// attackTargets computes the legal defenders against p's attackers. While
// any enemy minion has taunt, only taunted minions are legal; otherwise all
// non-stealthed, non-immune enemy minions plus the enemy hero.
func (g *Game) attackTargets(p *Player) []*Entity {
	opp := g.Opponent(p)

	var taunts []*Entity
	opp.Board().Each(func(e *Entity) bool {
		if g.EffectiveBool(e, tags.TagTaunt) && !g.EffectiveBool(e, tags.TagStealth) && !g.EffectiveBool(e, tags.TagImmune) {
			taunts = append(taunts, e)
		}
		return true
	})
	if len(taunts) > 0 {
		return taunts
	}

	var targets []*Entity
	opp.Board().Each(func(e *Entity) bool {
		if !g.EffectiveBool(e, tags.TagStealth) && !g.EffectiveBool(e, tags.TagImmune) {
			targets = append(targets, e)
		}
		return true
	})
	hero := g.Hero(opp)
	if !g.EffectiveBool(hero, tags.TagImmune) {
		targets = append(targets, hero)
	}
	return targets
}
