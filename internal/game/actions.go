package game

import (
	"fmt"

	"github.com/hearthsim/hearth-server-go/internal/game/cards"
	"github.com/hearthsim/hearth-server-go/internal/game/rules"
	"github.com/hearthsim/hearth-server-go/internal/game/tags"
	"go.uber.org/zap"
)

// Action is a discriminated player request. Actions constructed out-of-band
// (not taken from the enumerator) are re-validated before application and
// rejected with a typed error; a rejected action leaves the game unchanged.
type Action interface {
	isAction()
}

// PlayCard plays a hand entity, optionally with a target, board position,
// and choose-one branch.
type PlayCard struct {
	EntityID int
	TargetID int
	Position int
	Choose   int
}

// Attack attacks DefenderID with AttackerID.
type Attack struct {
	AttackerID int
	DefenderID int
}

// UseHeroPower activates the hero power, optionally with a target.
type UseHeroPower struct {
	TargetID int
}

// EndTurn passes the turn to the opponent.
type EndTurn struct{}

// Pick resolves a pending choice. For a mulligan the ids are the hand cards
// to replace (possibly none); for a discover exactly one offered id.
type Pick struct {
	EntityIDs []int
}

func (PlayCard) isAction()     {}
func (Attack) isAction()       {}
func (UseHeroPower) isAction() {}
func (EndTurn) isAction()      {}
func (Pick) isAction()         {}

// Apply validates the action for the acting controller and applies it.
// Validation happens entirely before any mutation: a returned error
// guarantees the game state is unchanged.
func (g *Game) Apply(playerID int, action Action) error {
	p := g.Player(playerID)
	if p == nil {
		return fmt.Errorf("%w: no controller %d", ErrNotFound, playerID)
	}
	if g.state == StateComplete {
		return fmt.Errorf("%w: game is over", ErrIllegalAction)
	}

	if p.choice != nil {
		pick, ok := action.(Pick)
		if !ok {
			return fmt.Errorf("%w: a pending choice must be resolved first", ErrIllegalAction)
		}
		return g.applyPick(p, pick)
	}

	switch a := action.(type) {
	case Pick:
		return fmt.Errorf("%w: no pending choice", ErrInvalidChoice)
	case EndTurn:
		return g.applyEndTurn(p)
	case PlayCard:
		return g.applyPlayCard(p, a)
	case Attack:
		return g.applyAttack(p, a)
	case UseHeroPower:
		return g.applyHeroPower(p, a)
	default:
		return fmt.Errorf("%w: unknown action type %T", ErrIllegalAction, action)
	}
}

func (g *Game) requireMainAction(p *Player) error {
	if g.turns.CurrentStep() != rules.StepMainAction {
		return fmt.Errorf("%w: not in the action phase (step %s)", ErrIllegalAction, g.turns.CurrentStep())
	}
	if g.turns.ActivePlayer() != p.id {
		return fmt.Errorf("%w: not controller %d's turn", ErrIllegalAction, p.id)
	}
	return nil
}

func (g *Game) applyEndTurn(p *Player) error {
	if err := g.requireMainAction(p); err != nil {
		return err
	}
	g.endActiveTurn()
	return nil
}

func (g *Game) applyPlayCard(p *Player, a PlayCard) error {
	if err := g.requireMainAction(p); err != nil {
		return err
	}

	e := g.Entity(a.EntityID)
	if e == nil || e.controllerID != p.id || e.zone != ZoneHand {
		return fmt.Errorf("%w: entity %d is not in controller %d's hand", ErrNotFound, a.EntityID, p.id)
	}

	// Re-run every enumerator gate: state may have changed between
	// enumeration and application.
	if !g.canAfford(p, e) {
		return fmt.Errorf("%w: cannot afford %s", ErrIllegalAction, e.def.ID)
	}
	if !g.placementAvailable(p, e) {
		return fmt.Errorf("%w: no placement for %s", ErrIllegalAction, e.def.ID)
	}
	hooks, _ := g.hooks.ForCard(e.def.ID)
	if hooks.PlayRequirement != nil && !hooks.PlayRequirement(g, p) {
		return fmt.Errorf("%w: play requirement rejects %s", ErrIllegalAction, e.def.ID)
	}
	if err := validateChoose(p, e.def, a.Choose); err != nil {
		return err
	}

	var target *Entity
	targets, required := g.legalTargets(p, e.def, hooks)
	if a.TargetID != 0 {
		found := false
		for _, c := range targets {
			if c.EntityID == a.TargetID {
				found = true
				break
			}
		}
		if !found {
			return fmt.Errorf("%w: entity %d is not a legal target for %s", ErrIllegalAction, a.TargetID, e.def.ID)
		}
		target = g.Entity(a.TargetID)
	} else if required {
		return fmt.Errorf("%w: %s requires a target", ErrIllegalAction, e.def.ID)
	}

	if e.def.Type == cards.TypeMinion {
		if a.Position < -1 || a.Position > p.Board().Len() {
			return fmt.Errorf("%w: board position %d out of range", ErrIllegalAction, a.Position)
		}
	}

	// Validation complete; mutate.
	g.payCost(p, e)
	if err := p.Hand().Remove(e); err != nil {
		panic(fmt.Sprintf("game invariant violated: hand remove failed: %v", err))
	}

	p.cardsPlayedThisTurn++
	g.bus.Publish(rules.Event{Type: rules.EventCardPlayed, EntityID: e.id, ControllerID: p.id})

	switch e.def.Type {
	case cards.TypeMinion:
		g.placeMinion(p, e, a.Position)
	case cards.TypeSpell:
		g.placeSpell(p, e)
	case cards.TypeWeapon:
		g.equipWeapon(p, e)
	default:
		// Other types are never drawn into hand; treat as spell-like.
		g.placeSpell(p, e)
	}

	g.runOnPlay(hooks, e, target, a.Choose)

	if e.def.Type == cards.TypeMinion {
		g.triggerSecrets(g.Opponent(p), e)
	}

	if e.def.Type == cards.TypeSpell && !e.def.Secret && !e.def.Quest {
		// Resolved spells rest in the graveyard.
		if e.zone == ZoneNone {
			if err := g.Move(e, p, ZoneGraveyard, -1); err != nil {
				panic(fmt.Sprintf("game invariant violated: spell to graveyard: %v", err))
			}
		}
	}

	g.RecomputeAuras()
	g.ProcessDeaths()
	return nil
}

func validateChoose(p *Player, def *cards.Definition, choose int) error {
	if len(def.ChooseOptions) == 0 {
		if choose != -1 {
			return fmt.Errorf("%w: %s has no choose-one branches", ErrIllegalAction, def.ID)
		}
		return nil
	}
	if p.chooseBoth {
		if choose != ChooseBothBranches {
			return fmt.Errorf("%w: choose-both is active for %s", ErrIllegalAction, def.ID)
		}
		return nil
	}
	if choose < 0 || choose >= len(def.ChooseOptions) {
		return fmt.Errorf("%w: branch %d out of range for %s", ErrIllegalAction, choose, def.ID)
	}
	return nil
}

func (g *Game) payCost(p *Player, e *Entity) {
	cost := g.EffectiveCost(e)
	if g.EffectiveBool(e, tags.TagCostsHealth) {
		g.damageCharacter(g.Hero(p), e, cost)
		return
	}
	p.spend(cost)
}

func (g *Game) placeMinion(p *Player, e *Entity, position int) {
	if err := p.Board().Add(e, position); err != nil {
		panic(fmt.Sprintf("game invariant violated: board add failed after capacity check: %v", err))
	}
	p.minionsPlayedThisTurn++
	g.markSummoned(e)
	g.bus.Publish(rules.Event{Type: rules.EventEntityEntered, EntityID: e.id, ControllerID: p.id})
}

func (g *Game) placeSpell(p *Player, e *Entity) {
	switch {
	case e.def.Secret:
		if err := p.Zone(ZoneSecret).Add(e, -1); err != nil {
			panic(fmt.Sprintf("game invariant violated: secret add failed after capacity check: %v", err))
		}
	case e.def.Quest:
		if err := p.Zone(ZoneSecret).Add(e, -1); err != nil {
			panic(fmt.Sprintf("game invariant violated: quest add failed after capacity check: %v", err))
		}
		p.questActive = true
	}
	// Ordinary spells stay zoneless while their effect resolves.
}

// equipWeapon attaches the weapon to the hero, destroying any previous one.
// The replaced weapon goes through the normal death path so its death hook
// fires just as it would on durability loss.
func (g *Game) equipWeapon(p *Player, e *Entity) {
	if old := g.Weapon(p); old != nil {
		g.killEntity(old)
	}
	p.weaponID = e.id
}

func (g *Game) runOnPlay(hooks Hooks, source, target *Entity, choose int) {
	if hooks.OnPlay == nil {
		return
	}
	if len(source.def.ChooseOptions) == 0 {
		choose = -1
	}
	if err := hooks.OnPlay(&HookContext{Game: g, Source: source, Target: target, Choose: choose}); err != nil {
		g.logger.Error("on-play hook failed",
			zap.String("card", source.def.ID),
			zap.Int("entity", source.id),
			zap.Error(err),
		)
	}
}

func (g *Game) applyAttack(p *Player, a Attack) error {
	if err := g.requireMainAction(p); err != nil {
		return err
	}

	attacker := g.Entity(a.AttackerID)
	if attacker == nil || attacker.controllerID != p.id {
		return fmt.Errorf("%w: attacker %d", ErrNotFound, a.AttackerID)
	}
	if attacker.zone != ZoneBoard && attacker.id != p.heroID {
		return fmt.Errorf("%w: attacker %d is not in play", ErrNotFound, a.AttackerID)
	}
	if !g.canAttack(p, attacker) {
		return fmt.Errorf("%w: entity %d cannot attack", ErrIllegalAction, a.AttackerID)
	}

	var defender *Entity
	for _, t := range g.attackTargets(p) {
		if t.id == a.DefenderID {
			defender = t
			break
		}
	}
	if defender == nil {
		return fmt.Errorf("%w: entity %d is not a legal attack target", ErrIllegalAction, a.DefenderID)
	}

	g.resolveAttack(p, attacker, defender)
	return nil
}

func (g *Game) applyHeroPower(p *Player, a UseHeroPower) error {
	if err := g.requireMainAction(p); err != nil {
		return err
	}

	power := g.HeroPower(p)
	if power == nil {
		return fmt.Errorf("%w: controller %d has no hero power", ErrNotFound, p.id)
	}
	if power.tags.Bool(tags.TagExhausted) {
		return fmt.Errorf("%w: hero power already used", ErrIllegalAction)
	}
	if g.EffectiveBool(power, tags.TagHeroPowerDisabled) {
		return fmt.Errorf("%w: hero power disabled", ErrIllegalAction)
	}
	cost := g.EffectiveCost(power)
	if cost > p.RemainingMana() {
		return fmt.Errorf("%w: cannot afford hero power", ErrIllegalAction)
	}

	hooks, _ := g.hooks.ForCard(power.def.ID)
	if hooks.PlayRequirement != nil && !hooks.PlayRequirement(g, p) {
		return fmt.Errorf("%w: hero power requirement rejects", ErrIllegalAction)
	}

	var target *Entity
	targets, required := g.legalTargets(p, power.def, hooks)
	if a.TargetID != 0 {
		found := false
		for _, c := range targets {
			if c.EntityID == a.TargetID {
				found = true
				break
			}
		}
		if !found {
			return fmt.Errorf("%w: entity %d is not a legal hero power target", ErrIllegalAction, a.TargetID)
		}
		target = g.Entity(a.TargetID)
	} else if required {
		return fmt.Errorf("%w: hero power requires a target", ErrIllegalAction)
	}

	p.spend(cost)
	power.tags.SetBool(tags.TagExhausted, true)
	g.runOnPlay(hooks, power, target, -1)
	g.RecomputeAuras()
	g.ProcessDeaths()
	return nil
}

func (g *Game) applyPick(p *Player, a Pick) error {
	choice := p.choice
	for _, id := range a.EntityIDs {
		if !choice.offers(id) {
			return fmt.Errorf("%w: entity %d is not among the offered picks", ErrInvalidChoice, id)
		}
	}

	switch choice.Kind {
	case ChoiceMulligan:
		return g.applyMulligan(p, a.EntityIDs)
	case ChoiceDiscover:
		if len(a.EntityIDs) != 1 {
			return fmt.Errorf("%w: discover requires exactly one pick", ErrInvalidChoice)
		}
		return g.applyDiscover(p, a.EntityIDs[0])
	default:
		return fmt.Errorf("%w: unknown choice kind", ErrInvalidChoice)
	}
}

// applyMulligan replaces the named hand cards: they are shuffled back into
// the deck and an equal number is drawn. When both controllers have
// resolved their mulligan, the first turn begins.
func (g *Game) applyMulligan(p *Player, replace []int) error {
	seen := make(map[int]bool, len(replace))
	for _, id := range replace {
		if seen[id] {
			return fmt.Errorf("%w: entity %d picked twice", ErrInvalidChoice, id)
		}
		seen[id] = true
	}

	for _, id := range replace {
		e := g.Entity(id)
		if err := g.Move(e, p, ZoneDeck, -1); err != nil {
			return err
		}
	}
	g.shuffleDeck(p)
	for range replace {
		g.drawCard(p)
	}
	p.choice = nil

	g.logger.Debug("mulligan resolved",
		zap.Int("controller", p.id),
		zap.Int("replaced", len(replace)),
	)

	if g.Opponent(p).choice == nil && g.state == StateMulligan {
		g.beginFirstTurn()
	}
	return nil
}

// applyDiscover moves the picked entity from setaside to hand; the offers
// not taken stay in setaside for teardown.
func (g *Game) applyDiscover(p *Player, entityID int) error {
	e := g.Entity(entityID)
	if e == nil || e.zone != ZoneSetaside {
		return fmt.Errorf("%w: entity %d is not set aside", ErrInvalidChoice, entityID)
	}
	if err := g.Move(e, p, ZoneHand, -1); err != nil {
		return err
	}
	p.choice = nil
	return nil
}
