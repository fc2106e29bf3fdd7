package game

import (
	"testing"

	"github.com/hearthsim/hearth-server-go/internal/game/auras"
	"github.com/hearthsim/hearth-server-go/internal/game/cards"
	"github.com/hearthsim/hearth-server-go/internal/game/tags"
	"github.com/hearthsim/hearth-server-go/internal/game/targeting"
	"go.uber.org/zap/zaptest"
)

// testCatalogue builds a small card set with scripts covering the trigger
// points the core exercises: targeted damage, draw, temporary mana,
// overload, and a board aura.
func testCatalogue(t *testing.T) (*cards.Registry, *HookTable) {
	t.Helper()

	registry := cards.NewRegistry()
	hooks := NewHookTable()

	defs := []*cards.Definition{
		{ID: "hero", Name: "Test Hero", Type: cards.TypeHero, Health: 30},
		{ID: "power", Name: "Test Power", Type: cards.TypeHeroPower, Cost: 2, Targeting: targeting.CategoryAll},
		{ID: "wisp", Name: "Wisp", Type: cards.TypeMinion, Cost: 0, Attack: 1, Health: 1},
		{ID: "bear", Name: "Bear", Type: cards.TypeMinion, Cost: 2, Attack: 3, Health: 2},
		{ID: "ogre", Name: "Ogre", Type: cards.TypeMinion, Cost: 4, Attack: 4, Health: 5},
		{ID: "wall", Name: "Wall", Type: cards.TypeMinion, Cost: 1, Attack: 0, Health: 4, Taunt: true},
		{ID: "sneak", Name: "Sneak", Type: cards.TypeMinion, Cost: 1, Attack: 2, Health: 1, Stealth: true},
		{ID: "rusher", Name: "Rusher", Type: cards.TypeMinion, Cost: 2, Attack: 3, Health: 1, Charge: true},
		{ID: "shielded", Name: "Shielded", Type: cards.TypeMinion, Cost: 1, Attack: 2, Health: 2, DivineShield: true},
		{ID: "leader", Name: "Leader", Type: cards.TypeMinion, Cost: 3, Attack: 2, Health: 2},
		{ID: "husk", Name: "Husk", Type: cards.TypeMinion, Cost: 2, Attack: 2, Health: 1},
		{ID: "shifter", Name: "Shifter", Type: cards.TypeMinion, Cost: 2, Attack: 2, Health: 2, ChooseOptions: []string{"+1 Attack", "Taunt"}},
		{ID: "bolt", Name: "Bolt", Type: cards.TypeSpell, Cost: 1, Targeting: targeting.CategoryAll},
		{ID: "surge", Name: "Surge", Type: cards.TypeSpell, Cost: 2, Targeting: targeting.CategoryAll},
		{ID: "insight", Name: "Insight", Type: cards.TypeSpell, Cost: 2},
		{ID: "the_coin", Name: "The Coin", Type: cards.TypeSpell, Cost: 0},
		{ID: "ward", Name: "Ward", Type: cards.TypeSpell, Cost: 1, Secret: true},
		{ID: "relic_hunt", Name: "Relic Hunt", Type: cards.TypeSpell, Cost: 1, Quest: true},
		{ID: "axe", Name: "Axe", Type: cards.TypeWeapon, Cost: 2, Attack: 3, Durability: 2},
		{ID: "cursed_blade", Name: "Cursed Blade", Type: cards.TypeWeapon, Cost: 1, Attack: 1, Durability: 2},
		{ID: "shade", Name: "Shade", Type: cards.TypeMinion, Cost: 2, Attack: 1, Health: 3},
	}
	for _, def := range defs {
		if err := registry.Register(def); err != nil {
			t.Fatalf("register %s: %v", def.ID, err)
		}
	}

	hooks.Register("power", Hooks{
		OnPlay: func(ctx *HookContext) error {
			ctx.Game.DealDamage(ctx.Target, ctx.Source, 1)
			return nil
		},
	})
	hooks.Register("bolt", Hooks{
		OnPlay: func(ctx *HookContext) error {
			p := ctx.Game.Player(ctx.Source.ControllerID())
			ctx.Game.DealDamage(ctx.Target, ctx.Source, 3+ctx.Game.SpellDamage(p))
			return nil
		},
	})
	hooks.Register("surge", Hooks{
		OnPlay: func(ctx *HookContext) error {
			p := ctx.Game.Player(ctx.Source.ControllerID())
			ctx.Game.DealDamage(ctx.Target, ctx.Source, 4)
			p.AddOverload(1)
			return nil
		},
	})
	hooks.Register("insight", Hooks{
		OnPlay: func(ctx *HookContext) error {
			ctx.Game.Draw(ctx.Game.Player(ctx.Source.ControllerID()), 1)
			return nil
		},
	})
	hooks.Register("the_coin", Hooks{
		OnPlay: func(ctx *HookContext) error {
			ctx.Game.Player(ctx.Source.ControllerID()).AddTemporaryMana(1)
			return nil
		},
	})
	hooks.Register("shifter", Hooks{
		OnPlay: func(ctx *HookContext) error {
			if ctx.Choose == 0 || ctx.Choose == ChooseBothBranches {
				ctx.Source.Tags().Add(tags.TagAttack, 1)
			}
			if ctx.Choose == 1 || ctx.Choose == ChooseBothBranches {
				ctx.Source.Tags().SetBool(tags.TagTaunt, true)
			}
			return nil
		},
	})
	hooks.Register("husk", Hooks{
		OnDeath: func(ctx *HookContext) error {
			ctx.Game.Draw(ctx.Game.Player(ctx.Source.ControllerID()), 1)
			return nil
		},
	})
	hooks.Register("ward", Hooks{
		OnEnemyMinionPlayed: func(ctx *HookContext) error {
			ctx.Game.DealDamage(ctx.Target, ctx.Source, 4)
			return ctx.Game.ConsumeSecret(ctx.Source)
		},
	})
	hooks.Register("cursed_blade", Hooks{
		OnDeath: func(ctx *HookContext) error {
			ctx.Game.Draw(ctx.Game.Player(ctx.Source.ControllerID()), 1)
			return nil
		},
	})
	hooks.Register("shade", Hooks{
		Aura: func(g *Game, source *Entity) auras.Descriptor {
			return auras.Static(source.ID(), auras.FriendlyMinions(source.ID(), source.ControllerID()),
				auras.Contribution{Tag: tags.TagStealth, Delta: 1})
		},
	})
	hooks.Register("leader", Hooks{
		Aura: func(g *Game, source *Entity) auras.Descriptor {
			return auras.Static(source.ID(), auras.FriendlyMinions(source.ID(), source.ControllerID()),
				auras.Contribution{Tag: tags.TagAttack, Delta: 1})
		},
	})

	return registry, hooks
}

func deckOf(cardID string, n int) []string {
	deck := make([]string, n)
	for i := range deck {
		deck[i] = cardID
	}
	return deck
}

// newTestGame starts a running game (mulligan skipped) with wisp decks and
// player 1 on the play.
func newTestGame(t *testing.T) *Game {
	t.Helper()
	registry, hooks := testCatalogue(t)
	g, err := NewGame("test-game", Config{
		Players: [2]PlayerConfig{
			{Name: "Alice", HeroID: "hero", HeroPowerID: "power", Deck: deckOf("wisp", 15)},
			{Name: "Bob", HeroID: "hero", HeroPowerID: "power", Deck: deckOf("wisp", 15)},
		},
		Seed:         42,
		FirstPlayer:  Player1,
		SkipMulligan: true,
	}, registry, hooks, zaptest.NewLogger(t))
	if err != nil {
		t.Fatalf("NewGame: %v", err)
	}
	return g
}

// addToHand puts a fresh instance of the card into p's hand.
func addToHand(t *testing.T, g *Game, p *Player, cardID string) *Entity {
	t.Helper()
	e, err := g.instantiate(cardID, p.id)
	if err != nil {
		t.Fatalf("instantiate %s: %v", cardID, err)
	}
	if err := p.Hand().Add(e, -1); err != nil {
		t.Fatalf("add %s to hand: %v", cardID, err)
	}
	return e
}

// putOnBoard summons a fresh, readied instance of the card onto p's board.
func putOnBoard(t *testing.T, g *Game, p *Player, cardID string) *Entity {
	t.Helper()
	e, err := g.Summon(p, cardID, -1)
	if err != nil {
		t.Fatalf("summon %s: %v", cardID, err)
	}
	e.tags.SetBool(tags.TagExhausted, false)
	return e
}

// giveMana sets p's available mana for the current turn.
func giveMana(p *Player, n int) {
	p.baseMana = n
	p.usedMana = 0
	p.temporaryMana = 0
	p.overloadLocked = 0
}
