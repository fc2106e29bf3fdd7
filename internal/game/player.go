package game

// MaxBaseMana is the cap on a controller's permanent mana crystals.
const MaxBaseMana = 10

// Player is the in-engine representation of one controller: its hero, six
// zones, resource counters, and per-turn counters. The opponent link is kept
// as an id and resolved through the Game on demand, never as a direct edge.
type Player struct {
	id         int
	name       string
	opponentID int

	// Directly owned entities, by id. Zero means none.
	heroID      int
	heroPowerID int
	weaponID    int

	zones map[ZoneKind]*Zone

	// Resource counters.
	baseMana       int
	usedMana       int
	temporaryMana  int
	overloadOwed   int
	overloadLocked int

	// Per-turn counters, reset at turn boundaries.
	cardsPlayedThisTurn   int
	minionsPlayedThisTurn int
	attacksThisTurn       int
	heroAttacksThisTurn   int

	fatigue     int
	questActive bool
	chooseBoth  bool

	choice *Choice
}

func newPlayer(id int, name string) *Player {
	p := &Player{
		id:    id,
		name:  name,
		zones: make(map[ZoneKind]*Zone, 6),
	}
	for _, kind := range []ZoneKind{ZoneDeck, ZoneHand, ZoneBoard, ZoneSecret, ZoneGraveyard, ZoneSetaside} {
		p.zones[kind] = newZone(kind, id)
	}
	return p
}

// ID returns the controller id (1 or 2).
func (p *Player) ID() int { return p.id }

// Name returns the player's display name.
func (p *Player) Name() string { return p.name }

// Zone returns the player's zone of the given kind.
func (p *Player) Zone(kind ZoneKind) *Zone {
	z, ok := p.zones[kind]
	invariant(ok, "controller %d has no %s zone", p.id, kind)
	return z
}

// Deck, Hand, Board are shorthands for the positionally ordered zones.
func (p *Player) Deck() *Zone  { return p.Zone(ZoneDeck) }
func (p *Player) Hand() *Zone  { return p.Zone(ZoneHand) }
func (p *Player) Board() *Zone { return p.Zone(ZoneBoard) }

// RemainingMana returns the mana available this turn. It is never negative
// by construction: actions that would exceed it are illegal, not clamped.
func (p *Player) RemainingMana() int {
	return p.baseMana + p.temporaryMana - (p.usedMana + p.overloadLocked)
}

// BaseMana returns the player's permanent mana crystal count.
func (p *Player) BaseMana() int { return p.baseMana }

// OverloadOwed returns mana that will be locked next turn.
func (p *Player) OverloadOwed() int { return p.overloadOwed }

// OverloadLocked returns mana locked this turn.
func (p *Player) OverloadLocked() int { return p.overloadLocked }

// AddTemporaryMana grants mana that lasts until spent or the turn ends.
func (p *Player) AddTemporaryMana(amount int) {
	if amount > 0 {
		p.temporaryMana += amount
	}
}

// AddOverload adds to the overload owed for the next turn.
func (p *Player) AddOverload(amount int) {
	if amount > 0 {
		p.overloadOwed += amount
	}
}

// Fatigue returns the cumulative empty-deck draw damage counter.
func (p *Player) Fatigue() int { return p.fatigue }

// CardsPlayedThisTurn returns the number of cards played this turn.
func (p *Player) CardsPlayedThisTurn() int { return p.cardsPlayedThisTurn }

// MinionsPlayedThisTurn returns the number of minions played this turn.
func (p *Player) MinionsPlayedThisTurn() int { return p.minionsPlayedThisTurn }

// AttacksThisTurn returns the number of attacks made this turn.
func (p *Player) AttacksThisTurn() int { return p.attacksThisTurn }

// Choice returns the player's pending choice, or nil.
func (p *Player) Choice() *Choice { return p.choice }

// QuestActive reports whether the player has a quest in progress.
func (p *Player) QuestActive() bool { return p.questActive }

// SetChooseBoth toggles the "choose both branches automatically" modifier.
func (p *Player) SetChooseBoth(v bool) { p.chooseBoth = v }

// spend consumes mana for a cost already validated against RemainingMana.
// Temporary mana is consumed first.
func (p *Player) spend(cost int) {
	invariant(cost <= p.RemainingMana(), "controller %d spending %d with %d remaining", p.id, cost, p.RemainingMana())
	fromTemp := cost
	if fromTemp > p.temporaryMana {
		fromTemp = p.temporaryMana
	}
	p.temporaryMana -= fromTemp
	p.usedMana += cost - fromTemp
}

// startTurn readies the player's resources at the beginning of their turn.
func (p *Player) startTurn() {
	if p.baseMana < MaxBaseMana {
		p.baseMana++
	}
	p.usedMana = 0
	p.overloadLocked = p.overloadOwed
	p.overloadOwed = 0
	p.cardsPlayedThisTurn = 0
	p.minionsPlayedThisTurn = 0
	p.attacksThisTurn = 0
	p.heroAttacksThisTurn = 0
}

// endTurn clears per-turn resources at the end of the player's turn.
func (p *Player) endTurn() {
	p.temporaryMana = 0
}

// copyPlayer deep-copies the player's scalar state. Zone contents are
// rebuilt by the clone walk after entities are copied.
func copyPlayer(p *Player) *Player {
	c := *p
	c.zones = make(map[ZoneKind]*Zone, len(p.zones))
	for kind := range p.zones {
		c.zones[kind] = newZone(kind, p.id)
	}
	if p.choice != nil {
		c.choice = p.choice.copy()
	}
	return &c
}
