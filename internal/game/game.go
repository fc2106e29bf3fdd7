package game

import (
	"fmt"
	"time"

	"github.com/hearthsim/hearth-server-go/internal/game/auras"
	"github.com/hearthsim/hearth-server-go/internal/game/cards"
	"github.com/hearthsim/hearth-server-go/internal/game/rules"
	"github.com/hearthsim/hearth-server-go/internal/game/tags"
	"go.uber.org/zap"
)

// State is the lifecycle state of a game.
type State int

const (
	StateInvalid State = iota
	StateMulligan
	StateRunning
	StateComplete
)

func (s State) String() string {
	switch s {
	case StateMulligan:
		return "MULLIGAN"
	case StateRunning:
		return "RUNNING"
	case StateComplete:
		return "COMPLETE"
	default:
		return fmt.Sprintf("STATE_%d", int(s))
	}
}

// TieWinner is the WinnerID value when both heroes died simultaneously.
const TieWinner = -1

// Controller ids. A game always has exactly two controllers.
const (
	Player1 = 1
	Player2 = 2
)

// PlayerConfig describes one controller at game creation.
type PlayerConfig struct {
	Name        string
	HeroID      string
	HeroPowerID string
	Deck        []string
}

// Config describes a new game.
type Config struct {
	Players [2]PlayerConfig
	// Seed drives the game's deterministic RNG (shuffles). Zero selects a
	// fixed default, which is useful in tests.
	Seed uint64
	// FirstPlayer is 1 or 2; zero lets the RNG decide.
	FirstPlayer int
	// SkipMulligan deals opening hands and goes straight to the first main
	// turn, bypassing the mulligan choices.
	SkipMulligan bool
	// ChangeLog enables tag-change recording for external diff consumers.
	ChangeLog bool
}

// Game owns the complete state of one match: both controllers, every entity
// keyed by id, the turn machine, and the derived aura layer. One Game is
// mutated by exactly one logical thread of control; it carries no locks.
// Simulation parallelism comes from Clone, not from sharing.
type Game struct {
	id       string
	registry *cards.Registry
	hooks    *HookTable
	logger   *zap.Logger

	entities map[int]*Entity
	players  [2]*Player

	turns     *rules.TurnManager
	bus       *rules.EventBus
	auraLayer *auras.Layer

	nextEntityID  int
	nextPlayIndex int

	state    State
	winnerID int

	rngState uint64

	startedAt time.Time

	logging bool
	changes []tags.Change
}

// coinCardID is granted to the second player when present in the catalogue.
const coinCardID = "the_coin"

// NewGame builds and sets up a game: heroes and hero powers are instantiated,
// decks are built and shuffled, opening hands are drawn, and either mulligan
// choices are offered or (with SkipMulligan) the first turn begins.
func NewGame(id string, cfg Config, registry *cards.Registry, hooks *HookTable, logger *zap.Logger) (*Game, error) {
	if registry == nil {
		return nil, fmt.Errorf("nil card registry")
	}
	if hooks == nil {
		hooks = NewHookTable()
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	seed := cfg.Seed
	if seed == 0 {
		seed = 0x9e3779b97f4a7c15
	}

	g := &Game{
		id:           id,
		registry:     registry,
		hooks:        hooks,
		logger:       logger,
		entities:     make(map[int]*Entity),
		nextEntityID: 1,
		state:        StateMulligan,
		rngState:     seed,
		startedAt:    time.Now(),
		logging:      cfg.ChangeLog,
	}

	first := cfg.FirstPlayer
	if first != Player1 && first != Player2 {
		if g.nextRand()%2 == 0 {
			first = Player1
		} else {
			first = Player2
		}
	}
	g.turns = rules.NewTurnManager(first)
	g.bus = rules.NewEventBus()
	g.auraLayer = auras.NewLayer()

	for i, pid := range []int{Player1, Player2} {
		pc := cfg.Players[i]
		p := newPlayer(pid, pc.Name)
		p.opponentID = Player1 + Player2 - pid
		g.players[i] = p

		hero, err := g.instantiate(pc.HeroID, pid)
		if err != nil {
			return nil, fmt.Errorf("player %d hero: %w", pid, err)
		}
		if hero.def.Type != cards.TypeHero {
			return nil, fmt.Errorf("player %d: card %s is not a hero", pid, pc.HeroID)
		}
		p.heroID = hero.id

		if pc.HeroPowerID != "" {
			power, err := g.instantiate(pc.HeroPowerID, pid)
			if err != nil {
				return nil, fmt.Errorf("player %d hero power: %w", pid, err)
			}
			if power.def.Type != cards.TypeHeroPower {
				return nil, fmt.Errorf("player %d: card %s is not a hero power", pid, pc.HeroPowerID)
			}
			p.heroPowerID = power.id
		}

		for _, cardID := range pc.Deck {
			e, err := g.instantiate(cardID, pid)
			if err != nil {
				return nil, fmt.Errorf("player %d deck: %w", pid, err)
			}
			if err := p.Deck().Add(e, -1); err != nil {
				return nil, err
			}
		}
	}

	g.turns.SetStep(rules.StepBeginShuffle)
	for _, p := range g.players {
		g.shuffleDeck(p)
	}

	g.turns.SetStep(rules.StepBeginDraw)
	for _, p := range g.players {
		n := 3
		if p.id != first {
			n = 4
		}
		for i := 0; i < n; i++ {
			g.drawCard(p)
		}
		if p.id != first {
			if _, ok := g.registry.Lookup(coinCardID); ok {
				coin, err := g.instantiate(coinCardID, p.id)
				if err != nil {
					return nil, err
				}
				if err := p.Hand().Add(coin, -1); err != nil {
					return nil, err
				}
			}
		}
	}

	g.bus.Publish(rules.Event{Type: rules.EventGameStarted})

	if cfg.SkipMulligan {
		g.beginFirstTurn()
		return g, nil
	}

	g.turns.SetStep(rules.StepBeginMulligan)
	for _, p := range g.players {
		options := make([]int, 0, p.Hand().Len())
		p.Hand().Each(func(e *Entity) bool {
			if e.def.ID != coinCardID {
				options = append(options, e.id)
			}
			return true
		})
		p.choice = &Choice{PlayerID: p.id, Kind: ChoiceMulligan, Options: options}
	}
	return g, nil
}

// ID returns the game's identifier.
func (g *Game) ID() string { return g.id }

// State returns the game's lifecycle state.
func (g *Game) State() State { return g.state }

// WinnerID returns the winning controller id once the game is complete, or
// TieWinner for a draw. Zero while the game is running.
func (g *Game) WinnerID() int { return g.winnerID }

// Step returns the current turn step.
func (g *Game) Step() rules.Step { return g.turns.CurrentStep() }

// TurnNumber returns the current turn number.
func (g *Game) TurnNumber() int { return g.turns.TurnNumber() }

// ActivePlayerID returns the controller id whose turn it is.
func (g *Game) ActivePlayerID() int { return g.turns.ActivePlayer() }

// Events returns the game's event bus. Listeners registered here see every
// event published by the core; subscriptions are not carried across Clone.
func (g *Game) Events() *rules.EventBus { return g.bus }

// Registry returns the card-definition catalogue the game consumes.
func (g *Game) Registry() *cards.Registry { return g.registry }

// Player returns the controller with the given id.
func (g *Game) Player(id int) *Player {
	switch id {
	case Player1:
		return g.players[0]
	case Player2:
		return g.players[1]
	default:
		return nil
	}
}

// Opponent returns the controller opposing p, resolved by id.
func (g *Game) Opponent(p *Player) *Player {
	return g.Player(p.opponentID)
}

// ActivePlayer returns the controller whose turn it is.
func (g *Game) ActivePlayer() *Player {
	return g.Player(g.turns.ActivePlayer())
}

// Entity returns the entity with the given id, or nil.
func (g *Game) Entity(id int) *Entity {
	return g.entities[id]
}

// Hero returns p's hero entity.
func (g *Game) Hero(p *Player) *Entity {
	hero := g.entities[p.heroID]
	invariant(hero != nil, "controller %d has no hero", p.id)
	return hero
}

// HeroPower returns p's hero power entity, or nil.
func (g *Game) HeroPower(p *Player) *Entity {
	if p.heroPowerID == 0 {
		return nil
	}
	return g.entities[p.heroPowerID]
}

// Weapon returns p's equipped weapon entity, or nil.
func (g *Game) Weapon(p *Player) *Entity {
	if p.weaponID == 0 {
		return nil
	}
	return g.entities[p.weaponID]
}

// ChangeLog returns the recorded tag changes since the game started (empty
// unless the game was created with ChangeLog enabled).
func (g *Game) ChangeLog() []tags.Change {
	return g.changes
}

// Effective returns the entity's attribute after aura overlays: tag-store
// base value plus the aura accumulator.
func (g *Game) Effective(e *Entity, tag tags.Tag) int {
	return e.tags.Get(tag) + g.auraLayer.Bonus(e.id, tag)
}

// EffectiveBool reads an effective attribute as a flag.
func (g *Game) EffectiveBool(e *Entity, tag tags.Tag) bool {
	return g.Effective(e, tag) != 0
}

// EffectiveAttack returns the entity's attack after auras, floored at zero.
func (g *Game) EffectiveAttack(e *Entity) int {
	atk := g.Effective(e, tags.TagAttack)
	if e.IsHero() {
		if w := g.Weapon(g.Player(e.controllerID)); w != nil {
			atk += g.Effective(w, tags.TagAttack)
		}
	}
	if atk < 0 {
		return 0
	}
	return atk
}

// MaxHealth returns the entity's health attribute after auras.
func (g *Game) MaxHealth(e *Entity) int {
	return g.Effective(e, tags.TagHealth)
}

// CurrentHealth returns max health minus damage taken.
func (g *Game) CurrentHealth(e *Entity) int {
	return g.MaxHealth(e) - e.tags.Get(tags.TagDamage)
}

// EffectiveCost returns the card's cost after aura cost modifiers, floored
// at zero.
func (g *Game) EffectiveCost(e *Entity) int {
	cost := g.Effective(e, tags.TagCost)
	if cost < 0 {
		return 0
	}
	return cost
}

// SpellDamage returns the controller's total spell damage bonus from in-play
// entities. Card scripts add it to hook-dealt spell damage.
func (g *Game) SpellDamage(p *Player) int {
	total := 0
	p.Board().Each(func(e *Entity) bool {
		total += g.Effective(e, tags.TagSpellPower)
		return true
	})
	return total
}

// instantiate creates an entity from a card definition with a fresh id and
// default tag values. The entity starts in no zone; the caller places it.
func (g *Game) instantiate(cardID string, controllerID int) (*Entity, error) {
	def, ok := g.registry.Lookup(cardID)
	if !ok {
		return nil, fmt.Errorf("%w: card %s not in catalogue", ErrNotFound, cardID)
	}

	e := &Entity{
		id:           g.nextEntityID,
		def:          def,
		tags:         tags.NewStore(g.nextEntityID),
		controllerID: controllerID,
		zone:         ZoneNone,
		zonePos:      -1,
	}
	g.nextEntityID++
	g.attachChangeLogger(e)

	e.tags.Set(tags.TagCost, def.Cost)
	switch def.Type {
	case cards.TypeMinion:
		e.tags.Set(tags.TagAttack, def.Attack)
		e.tags.Set(tags.TagHealth, def.Health)
	case cards.TypeHero:
		e.tags.Set(tags.TagHealth, def.Health)
		e.tags.Set(tags.TagAttack, def.Attack)
		e.tags.Set(tags.TagArmor, def.Armor)
	case cards.TypeWeapon:
		e.tags.Set(tags.TagAttack, def.Attack)
		e.tags.Set(tags.TagDurability, def.Durability)
	}
	e.tags.SetBool(tags.TagTaunt, def.Taunt)
	e.tags.SetBool(tags.TagCharge, def.Charge)
	e.tags.SetBool(tags.TagStealth, def.Stealth)
	e.tags.SetBool(tags.TagWindfury, def.Windfury)
	e.tags.SetBool(tags.TagDivineShield, def.DivineShield)
	e.tags.SetBool(tags.TagCantAttack, def.CantAttack)
	e.tags.Set(tags.TagSpellPower, def.SpellPower)

	g.entities[e.id] = e
	return e, nil
}

func (g *Game) attachChangeLogger(e *Entity) {
	if !g.logging {
		return
	}
	e.tags.SetLogger(func(c tags.Change) {
		g.changes = append(g.changes, c)
	})
}

// Summon instantiates a minion directly onto p's board, for card scripts.
func (g *Game) Summon(p *Player, cardID string, position int) (*Entity, error) {
	def, ok := g.registry.Lookup(cardID)
	if !ok {
		return nil, fmt.Errorf("%w: card %s not in catalogue", ErrNotFound, cardID)
	}
	if def.Type != cards.TypeMinion {
		return nil, fmt.Errorf("%w: card %s is not a minion", ErrIllegalAction, cardID)
	}
	if p.Board().Full() {
		return nil, fmt.Errorf("%w: board", ErrCapacityExceeded)
	}
	e, err := g.instantiate(cardID, p.id)
	if err != nil {
		return nil, err
	}
	if err := p.Board().Add(e, position); err != nil {
		return nil, err
	}
	g.markSummoned(e)
	g.bus.Publish(rules.Event{Type: rules.EventEntityEntered, EntityID: e.id, ControllerID: p.id})
	g.RecomputeAuras()
	return e, nil
}

func (g *Game) markSummoned(e *Entity) {
	e.tags.Set(tags.TagPlayIndex, g.nextPlayIndex)
	g.nextPlayIndex++
	if !e.tags.Bool(tags.TagCharge) {
		e.tags.SetBool(tags.TagExhausted, true)
	}
}

// Move atomically moves an entity to the given zone of player to at position.
// If either half would fail the entity's membership is left unchanged and no
// partial move is observable.
func (g *Game) Move(e *Entity, to *Player, kind ZoneKind, position int) error {
	dest := to.Zone(kind)
	if dest.Full() {
		return fmt.Errorf("%w: %s", ErrCapacityExceeded, kind)
	}
	if e.zone != ZoneNone {
		src := g.Player(e.controllerID).Zone(e.zone)
		if err := src.Remove(e); err != nil {
			return err
		}
	}
	// Capacity was checked above; Add cannot fail here.
	if err := dest.Add(e, position); err != nil {
		panic(fmt.Sprintf("game invariant violated: move add failed after capacity check: %v", err))
	}
	return nil
}

// drawCard moves the top deck card into hand. Drawing from an empty deck
// deals cumulative fatigue damage to the hero instead. A draw into a full
// hand burns the card to the graveyard.
func (g *Game) drawCard(p *Player) *Entity {
	deck := p.Deck()
	if deck.Len() == 0 {
		p.fatigue++
		g.damageCharacter(g.Hero(p), nil, p.fatigue)
		return nil
	}

	top := deck.Get(deck.Len() - 1)
	if p.Hand().Full() {
		if err := g.Move(top, p, ZoneGraveyard, -1); err != nil {
			panic(fmt.Sprintf("game invariant violated: burn draw failed: %v", err))
		}
		return nil
	}
	if err := g.Move(top, p, ZoneHand, -1); err != nil {
		panic(fmt.Sprintf("game invariant violated: draw failed: %v", err))
	}
	g.bus.Publish(rules.Event{Type: rules.EventCardDrawn, EntityID: top.id, ControllerID: p.id})
	return top
}

// Draw is the script-facing draw operation.
func (g *Game) Draw(p *Player, n int) {
	for i := 0; i < n; i++ {
		g.drawCard(p)
	}
	g.ProcessDeaths()
}

// shuffleDeck permutes p's deck with the game's deterministic RNG.
func (g *Game) shuffleDeck(p *Player) {
	deck := p.Deck()
	for i := deck.Len() - 1; i > 0; i-- {
		j := int(g.nextRand() % uint64(i+1))
		deck.entities[i], deck.entities[j] = deck.entities[j], deck.entities[i]
	}
	deck.reindex()
}

// nextRand advances the game's RNG (xorshift64*). The state is a plain
// integer so clones copy it without sharing.
func (g *Game) nextRand() uint64 {
	x := g.rngState
	x ^= x >> 12
	x ^= x << 25
	x ^= x >> 27
	g.rngState = x
	return x * 0x2545f4914f6cdd1d
}

// DealDamage applies amount damage from source to target, then processes
// deaths. It is the script-facing damage operation.
func (g *Game) DealDamage(target, source *Entity, amount int) int {
	dealt := g.damageCharacter(target, source, amount)
	g.ProcessDeaths()
	return dealt
}

// damageCharacter marks damage without running the death sweep. Returns the
// damage actually dealt (immunity, divine shield, and armor absorb).
func (g *Game) damageCharacter(target, source *Entity, amount int) int {
	if amount <= 0 || target == nil {
		return 0
	}
	if g.EffectiveBool(target, tags.TagImmune) {
		return 0
	}
	if target.IsMinion() && target.tags.Bool(tags.TagDivineShield) {
		target.tags.SetBool(tags.TagDivineShield, false)
		return 0
	}
	if target.IsHero() {
		armor := target.tags.Get(tags.TagArmor)
		if armor > 0 {
			absorbed := amount
			if absorbed > armor {
				absorbed = armor
			}
			target.tags.Add(tags.TagArmor, -absorbed)
			amount -= absorbed
			if amount == 0 {
				return 0
			}
		}
	}
	target.tags.Add(tags.TagDamage, amount)
	sourceID := 0
	if source != nil {
		sourceID = source.id
	}
	g.bus.Publish(rules.Event{
		Type:         rules.EventDamageDealt,
		EntityID:     target.id,
		SourceID:     sourceID,
		ControllerID: target.controllerID,
		Amount:       amount,
	})
	return amount
}

// Heal removes up to amount damage from target.
func (g *Game) Heal(target *Entity, amount int) {
	if amount <= 0 || target == nil {
		return
	}
	damage := target.tags.Get(tags.TagDamage)
	if amount > damage {
		amount = damage
	}
	if amount == 0 {
		return
	}
	target.tags.Add(tags.TagDamage, -amount)
	g.bus.Publish(rules.Event{Type: rules.EventHealed, EntityID: target.id, ControllerID: target.controllerID, Amount: amount})
}

// MarkDestroyed flags an entity for removal in the next death sweep.
func (g *Game) MarkDestroyed(e *Entity) {
	e.tags.SetBool(tags.TagToBeDestroyed, true)
}

// Silence strips an entity's effects: mechanic flags, spell damage, and
// frozen state are cleared, and its scripts stop contributing auras and
// death or turn-end triggers. Printed attack, health, and cost stay.
func (g *Game) Silence(e *Entity) {
	e.tags.SetBool(tags.TagSilenced, true)
	for _, tag := range []tags.Tag{
		tags.TagTaunt, tags.TagCharge, tags.TagStealth, tags.TagWindfury,
		tags.TagDivineShield, tags.TagFrozen, tags.TagCantAttack,
		tags.TagCantBeTargetedBySpells, tags.TagImmune,
	} {
		e.tags.SetBool(tag, false)
	}
	e.tags.Set(tags.TagSpellPower, 0)
	g.RecomputeAuras()
}

// ProcessDeaths runs the death sweep: in-play characters with health <= 0 or
// marked for destruction move to the graveyard in play order, their OnDeath
// hooks fire, and auras are recomputed. The sweep repeats until stable since
// death hooks can kill further entities.
func (g *Game) ProcessDeaths() {
	for {
		dead := g.collectDead()
		if len(dead) == 0 {
			break
		}
		for _, e := range dead {
			g.killEntity(e)
		}
	}
	g.RecomputeAuras()
	g.checkGameOver()
}

func (g *Game) collectDead() []*Entity {
	var dead []*Entity
	for _, p := range g.players {
		p.Board().Each(func(e *Entity) bool {
			if g.CurrentHealth(e) <= 0 || e.tags.Bool(tags.TagToBeDestroyed) {
				dead = append(dead, e)
			}
			return true
		})
		if w := g.Weapon(p); w != nil {
			if w.tags.Get(tags.TagDurability) <= 0 || w.tags.Bool(tags.TagToBeDestroyed) {
				dead = append(dead, w)
			}
		}
	}
	// Deaths resolve in play order for determinism.
	sortByPlayIndex(dead)
	return dead
}

func sortByPlayIndex(entities []*Entity) {
	for i := 1; i < len(entities); i++ {
		for j := i; j > 0; j-- {
			a := entities[j-1].tags.Get(tags.TagPlayIndex)
			b := entities[j].tags.Get(tags.TagPlayIndex)
			if a <= b {
				break
			}
			entities[j-1], entities[j] = entities[j], entities[j-1]
		}
	}
}

func (g *Game) killEntity(e *Entity) {
	p := g.Player(e.controllerID)
	if p.weaponID == e.id {
		p.weaponID = 0
	}
	if e.zone == ZoneBoard {
		g.bus.Publish(rules.Event{Type: rules.EventEntityLeft, EntityID: e.id, ControllerID: p.id})
	}
	if err := g.Move(e, p, ZoneGraveyard, -1); err != nil {
		panic(fmt.Sprintf("game invariant violated: death move failed: %v", err))
	}
	e.tags.SetBool(tags.TagToBeDestroyed, false)
	g.bus.Publish(rules.Event{Type: rules.EventEntityDied, EntityID: e.id, ControllerID: p.id})
	if e.tags.Bool(tags.TagSilenced) {
		return
	}
	if hooks, ok := g.hooks.ForCard(e.def.ID); ok && hooks.OnDeath != nil {
		if err := hooks.OnDeath(&HookContext{Game: g, Source: e, Choose: -1}); err != nil {
			g.logger.Error("on-death hook failed",
				zap.String("card", e.def.ID),
				zap.Int("entity", e.id),
				zap.Error(err),
			)
		}
	}
}

func (g *Game) checkGameOver() {
	if g.state == StateComplete {
		return
	}
	dead1 := g.CurrentHealth(g.Hero(g.players[0])) <= 0
	dead2 := g.CurrentHealth(g.Hero(g.players[1])) <= 0
	if !dead1 && !dead2 {
		return
	}
	g.state = StateComplete
	g.turns.SetStep(rules.StepFinalGameover)
	switch {
	case dead1 && dead2:
		g.winnerID = TieWinner
	case dead1:
		g.winnerID = Player2
	default:
		g.winnerID = Player1
	}
	g.bus.Publish(rules.Event{Type: rules.EventGameEnded, ControllerID: g.winnerID})
}

// RecomputeAuras rebuilds the aura overlay from all in-play aura sources.
// Invoked by the engine whenever play state changes in a way that could
// affect aura applicability; scripts may call it after bulk mutations.
func (g *Game) RecomputeAuras() {
	var sources []auras.Descriptor
	var subjects []auras.Subject

	for _, p := range g.players {
		hero := g.Hero(p)
		subjects = append(subjects, g.auraSubject(hero, true))
		p.Board().Each(func(e *Entity) bool {
			subjects = append(subjects, g.auraSubject(e, true))
			if d := g.auraSource(e); d != nil {
				sources = append(sources, d)
			}
			return true
		})
		if w := g.Weapon(p); w != nil {
			subjects = append(subjects, g.auraSubject(w, true))
			if d := g.auraSource(w); d != nil {
				sources = append(sources, d)
			}
		}
		p.Hand().Each(func(e *Entity) bool {
			// Hand cards are aura subjects (cost modifiers) but never sources.
			subjects = append(subjects, g.auraSubject(e, false))
			return true
		})
	}

	g.auraLayer.Recompute(sources, subjects)
}

// auraSource returns the entity's aura descriptor, or nil when it has no
// aura script or has been silenced.
func (g *Game) auraSource(e *Entity) auras.Descriptor {
	if e.tags.Bool(tags.TagSilenced) {
		return nil
	}
	hooks, ok := g.hooks.ForCard(e.def.ID)
	if !ok || hooks.Aura == nil {
		return nil
	}
	return hooks.Aura(g, e)
}

func (g *Game) auraSubject(e *Entity, inPlay bool) auras.Subject {
	return auras.Subject{
		EntityID:     e.id,
		ControllerID: e.controllerID,
		CardID:       e.def.ID,
		IsMinion:     e.IsMinion(),
		IsHero:       e.IsHero(),
		IsWeapon:     e.def.Type == cards.TypeWeapon,
		InPlay:       inPlay,
	}
}

// beginFirstTurn transitions from setup into the first main turn.
func (g *Game) beginFirstTurn() {
	g.state = StateRunning
	g.turns.BeginFirstTurn()
	g.startTurn(g.ActivePlayer())
}

// startTurn readies the active player: mana, attack counters, card draw.
func (g *Game) startTurn(p *Player) {
	g.turns.SetStep(rules.StepMainReady)
	p.startTurn()

	ready := func(e *Entity) bool {
		e.tags.SetBool(tags.TagExhausted, false)
		e.tags.Set(tags.TagNumAttacksThisTurn, 0)
		if e.IsMinion() {
			e.tags.Add(tags.TagNumTurnsInPlay, 1)
		}
		return true
	}
	p.Board().Each(ready)
	ready(g.Hero(p))
	if power := g.HeroPower(p); power != nil {
		power.tags.SetBool(tags.TagExhausted, false)
	}

	g.turns.SetStep(rules.StepMainStart)
	g.bus.Publish(rules.Event{Type: rules.EventTurnStarted, ControllerID: p.id, Amount: g.turns.TurnNumber()})
	g.drawCard(p)
	g.RecomputeAuras()
	g.ProcessDeaths()
	if g.state == StateRunning {
		g.turns.SetStep(rules.StepMainAction)
	}
}

// endActiveTurn runs end-of-turn effects and hands the turn to the opponent.
func (g *Game) endActiveTurn() {
	p := g.ActivePlayer()
	g.turns.SetStep(rules.StepMainEnd)

	for _, e := range p.Board().Entities() {
		if e.tags.Bool(tags.TagSilenced) {
			continue
		}
		if hooks, ok := g.hooks.ForCard(e.def.ID); ok && hooks.OnTurnEnd != nil {
			if err := hooks.OnTurnEnd(&HookContext{Game: g, Source: e, Choose: -1}); err != nil {
				g.logger.Error("turn-end hook failed",
					zap.String("card", e.def.ID),
					zap.Int("entity", e.id),
					zap.Error(err),
				)
			}
		}
	}
	g.bus.Publish(rules.Event{Type: rules.EventTurnEnded, ControllerID: p.id, Amount: g.turns.TurnNumber()})
	g.ProcessDeaths()
	if g.state != StateRunning {
		return
	}

	g.turns.SetStep(rules.StepMainCleanup)
	thaw := func(e *Entity) bool {
		if e.tags.Bool(tags.TagFrozen) && e.tags.Get(tags.TagNumAttacksThisTurn) == 0 {
			e.tags.SetBool(tags.TagFrozen, false)
		}
		return true
	}
	p.Board().Each(thaw)
	thaw(g.Hero(p))
	p.endTurn()

	g.turns.SetStep(rules.StepMainNext)
	g.turns.NextTurn(p.opponentID)
	g.startTurn(g.ActivePlayer())
}

// ConsumeSecret reveals a triggered secret and moves it to the graveyard,
// for card scripts.
func (g *Game) ConsumeSecret(e *Entity) error {
	if e.zone != ZoneSecret {
		return fmt.Errorf("%w: entity %d is not an active secret", ErrIllegalAction, e.id)
	}
	p := g.Player(e.controllerID)
	if err := g.Move(e, p, ZoneGraveyard, -1); err != nil {
		return err
	}
	g.bus.Publish(rules.Event{Type: rules.EventSecretRevealed, EntityID: e.id, ControllerID: p.id})
	return nil
}

// triggerSecrets fires the opponent's played-minion secret hooks. The played
// minion must still be in play; a battlecry that removed it leaves nothing to
// react to.
func (g *Game) triggerSecrets(owner *Player, played *Entity) {
	if played.zone != ZoneBoard {
		return
	}
	for _, s := range owner.Zone(ZoneSecret).Entities() {
		hooks, ok := g.hooks.ForCard(s.def.ID)
		if !ok || hooks.OnEnemyMinionPlayed == nil {
			continue
		}
		if err := hooks.OnEnemyMinionPlayed(&HookContext{Game: g, Source: s, Target: played, Choose: -1}); err != nil {
			g.logger.Error("secret hook failed",
				zap.String("card", s.def.ID),
				zap.Int("entity", s.id),
				zap.Error(err),
			)
		}
	}
}

// OfferDiscover instantiates the given cards into p's setaside zone and
// opens a discover choice over them, for card scripts.
func (g *Game) OfferDiscover(p *Player, cardIDs []string) error {
	if p.choice != nil {
		return fmt.Errorf("%w: controller %d already has a pending choice", ErrIllegalAction, p.id)
	}
	options := make([]int, 0, len(cardIDs))
	for _, cardID := range cardIDs {
		e, err := g.instantiate(cardID, p.id)
		if err != nil {
			return err
		}
		if err := p.Zone(ZoneSetaside).Add(e, -1); err != nil {
			return err
		}
		options = append(options, e.id)
	}
	p.choice = &Choice{PlayerID: p.id, Kind: ChoiceDiscover, Options: options}
	return nil
}
