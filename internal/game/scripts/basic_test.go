package scripts

import (
	"testing"

	"github.com/hearthsim/hearth-server-go/internal/game"
	"github.com/hearthsim/hearth-server-go/internal/game/tags"
	"go.uber.org/zap/zaptest"
)

func deckOf(cardID string, n int) []string {
	deck := make([]string, n)
	for i := range deck {
		deck[i] = cardID
	}
	return deck
}

// newGame starts a running game over the basic set with single-card decks,
// player 1 on the play.
func newGame(t *testing.T, deck1, deck2 string) *game.Game {
	t.Helper()
	registry, hooks, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	g, err := game.NewGame("scripts-test", game.Config{
		Players: [2]game.PlayerConfig{
			{Name: "Alice", HeroID: "hero_adventurer", HeroPowerID: "power_firelance", Deck: deckOf(deck1, 15)},
			{Name: "Bob", HeroID: "hero_adventurer", HeroPowerID: "power_firelance", Deck: deckOf(deck2, 15)},
		},
		Seed:         11,
		FirstPlayer:  game.Player1,
		SkipMulligan: true,
	}, registry, hooks, zaptest.NewLogger(t))
	if err != nil {
		t.Fatalf("NewGame: %v", err)
	}
	return g
}

func handCard(t *testing.T, g *game.Game, playerID int, cardID string) *game.Entity {
	t.Helper()
	var found *game.Entity
	g.Player(playerID).Hand().Each(func(e *game.Entity) bool {
		if e.Def().ID == cardID {
			found = e
			return false
		}
		return true
	})
	if found == nil {
		t.Fatalf("no %s in controller %d's hand", cardID, playerID)
	}
	return found
}

func TestLoadBasicSet(t *testing.T) {
	registry, hooks, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	for _, id := range []string{"hero_adventurer", "power_firelance", "the_coin", "wisp", "firebolt", "bladed_axe"} {
		if _, ok := registry.Lookup(id); !ok {
			t.Fatalf("card %s missing from basic set", id)
		}
	}
	for _, id := range []string{"the_coin", "firebolt", "captain_valor", "sealed_ward", "cache_seeker"} {
		if _, ok := hooks.ForCard(id); !ok {
			t.Fatalf("card %s has no script", id)
		}
	}
}

func TestCoinGrantsTemporaryMana(t *testing.T) {
	g := newGame(t, "wisp", "wisp")
	if err := g.Apply(game.Player1, game.EndTurn{}); err != nil {
		t.Fatal(err)
	}

	p2 := g.Player(game.Player2)
	before := p2.RemainingMana()
	coin := handCard(t, g, game.Player2, "the_coin")
	if err := g.Apply(game.Player2, game.PlayCard{EntityID: coin.ID(), Position: -1, Choose: -1}); err != nil {
		t.Fatalf("play coin: %v", err)
	}
	if got := p2.RemainingMana(); got != before+1 {
		t.Fatalf("mana %d after coin, want %d", got, before+1)
	}
	if coin.Zone() != game.ZoneGraveyard {
		t.Fatalf("coin in %s, want GRAVEYARD", coin.Zone())
	}
}

func TestFireboltScalesWithSpellDamage(t *testing.T) {
	g := newGame(t, "firebolt", "wisp")
	p1 := g.Player(game.Player1)
	p1.AddTemporaryMana(5)
	hero2 := g.Hero(g.Player(game.Player2))

	bolt := handCard(t, g, game.Player1, "firebolt")
	if err := g.Apply(game.Player1, game.PlayCard{EntityID: bolt.ID(), TargetID: hero2.ID(), Position: -1, Choose: -1}); err != nil {
		t.Fatalf("cast: %v", err)
	}
	if got := g.CurrentHealth(hero2); got != 27 {
		t.Fatalf("hero health %d, want 27", got)
	}

	if _, err := g.Summon(p1, "ember_seer", -1); err != nil {
		t.Fatal(err)
	}
	boosted := handCard(t, g, game.Player1, "firebolt")
	if err := g.Apply(game.Player1, game.PlayCard{EntityID: boosted.ID(), TargetID: hero2.ID(), Position: -1, Choose: -1}); err != nil {
		t.Fatalf("boosted cast: %v", err)
	}
	if got := g.CurrentHealth(hero2); got != 23 {
		t.Fatalf("hero health %d after boosted bolt, want 23", got)
	}
}

func TestNoviceAdeptBattlecryDraws(t *testing.T) {
	g := newGame(t, "novice_adept", "wisp")
	p1 := g.Player(game.Player1)
	p1.AddTemporaryMana(2)

	handBefore := p1.Hand().Len()
	deckBefore := p1.Deck().Len()
	adept := handCard(t, g, game.Player1, "novice_adept")
	if err := g.Apply(game.Player1, game.PlayCard{EntityID: adept.ID(), Position: 0, Choose: -1}); err != nil {
		t.Fatalf("play: %v", err)
	}

	// One card left the hand, one was drawn to replace it.
	if p1.Hand().Len() != handBefore {
		t.Fatalf("hand %d, want %d", p1.Hand().Len(), handBefore)
	}
	if p1.Deck().Len() != deckBefore-1 {
		t.Fatalf("deck %d, want %d", p1.Deck().Len(), deckBefore-1)
	}
}

func TestRattlingHuskDeathrattleDraws(t *testing.T) {
	g := newGame(t, "wisp", "wisp")
	p1 := g.Player(game.Player1)
	husk, err := g.Summon(p1, "rattling_husk", -1)
	if err != nil {
		t.Fatal(err)
	}

	handBefore := p1.Hand().Len()
	g.DealDamage(husk, nil, 1)

	if husk.Zone() != game.ZoneGraveyard {
		t.Fatalf("husk in %s, want GRAVEYARD", husk.Zone())
	}
	if p1.Hand().Len() != handBefore+1 {
		t.Fatalf("hand %d, want %d", p1.Hand().Len(), handBefore+1)
	}
}

func TestCaptainValorBuffsOtherMinions(t *testing.T) {
	g := newGame(t, "wisp", "wisp")
	p1 := g.Player(game.Player1)
	wisp, err := g.Summon(p1, "wisp", -1)
	if err != nil {
		t.Fatal(err)
	}
	valor, err := g.Summon(p1, "captain_valor", -1)
	if err != nil {
		t.Fatal(err)
	}

	if got := g.EffectiveAttack(wisp); got != 2 {
		t.Fatalf("wisp attack %d, want 2", got)
	}
	if got := g.EffectiveAttack(valor); got != 3 {
		t.Fatalf("valor attack %d, want 3", got)
	}
}

func TestHealingIdolHealsAtTurnEnd(t *testing.T) {
	g := newGame(t, "wisp", "wisp")
	p1 := g.Player(game.Player1)
	if _, err := g.Summon(p1, "healing_idol", -1); err != nil {
		t.Fatal(err)
	}
	hero := g.Hero(p1)
	g.DealDamage(hero, nil, 5)

	if err := g.Apply(game.Player1, game.EndTurn{}); err != nil {
		t.Fatal(err)
	}
	if got := g.CurrentHealth(hero); got != 27 {
		t.Fatalf("hero health %d, want 27", got)
	}
}

func TestConeOfFrostFreezesEnemyBoard(t *testing.T) {
	g := newGame(t, "cone_of_frost", "wisp")
	p1, p2 := g.Player(game.Player1), g.Player(game.Player2)
	p1.AddTemporaryMana(3)

	a, err := g.Summon(p2, "wisp", -1)
	if err != nil {
		t.Fatal(err)
	}
	b, err := g.Summon(p2, "river_croc", -1)
	if err != nil {
		t.Fatal(err)
	}
	mine, err := g.Summon(p1, "wisp", -1)
	if err != nil {
		t.Fatal(err)
	}

	cone := handCard(t, g, game.Player1, "cone_of_frost")
	if err := g.Apply(game.Player1, game.PlayCard{EntityID: cone.ID(), Position: -1, Choose: -1}); err != nil {
		t.Fatalf("cast: %v", err)
	}

	if !a.Tags().Bool(tags.TagFrozen) || !b.Tags().Bool(tags.TagFrozen) {
		t.Fatal("enemy minions not frozen")
	}
	if mine.Tags().Bool(tags.TagFrozen) {
		t.Fatal("friendly minion frozen")
	}
}

func TestStormcallerBoltOverloads(t *testing.T) {
	g := newGame(t, "stormcaller_bolt", "wisp")
	p1 := g.Player(game.Player1)
	p1.AddTemporaryMana(2)
	hero2 := g.Hero(g.Player(game.Player2))

	bolt := handCard(t, g, game.Player1, "stormcaller_bolt")
	if err := g.Apply(game.Player1, game.PlayCard{EntityID: bolt.ID(), TargetID: hero2.ID(), Position: -1, Choose: -1}); err != nil {
		t.Fatalf("cast: %v", err)
	}
	if got := g.CurrentHealth(hero2); got != 26 {
		t.Fatalf("hero health %d, want 26", got)
	}
	if p1.OverloadOwed() != 1 {
		t.Fatalf("overload owed %d, want 1", p1.OverloadOwed())
	}
}

func TestKeeperOfFormsBranches(t *testing.T) {
	g := newGame(t, "keeper_of_forms", "wisp")
	p1 := g.Player(game.Player1)
	p1.AddTemporaryMana(6)

	sharp := handCard(t, g, game.Player1, "keeper_of_forms")
	if err := g.Apply(game.Player1, game.PlayCard{EntityID: sharp.ID(), Position: 0, Choose: 0}); err != nil {
		t.Fatalf("play branch 0: %v", err)
	}
	if got := g.EffectiveAttack(sharp); got != 3 {
		t.Fatalf("attack %d after +1 branch, want 3", got)
	}
	if g.EffectiveBool(sharp, tags.TagTaunt) {
		t.Fatal("attack branch granted taunt")
	}

	sturdy := handCard(t, g, game.Player1, "keeper_of_forms")
	if err := g.Apply(game.Player1, game.PlayCard{EntityID: sturdy.ID(), Position: 0, Choose: 1}); err != nil {
		t.Fatalf("play branch 1: %v", err)
	}
	if !g.EffectiveBool(sturdy, tags.TagTaunt) {
		t.Fatal("taunt branch granted no taunt")
	}
	if got := g.EffectiveAttack(sturdy); got != 2 {
		t.Fatalf("attack %d after taunt branch, want 2", got)
	}

	// A branch outside the card's range is rejected.
	third := handCard(t, g, game.Player1, "keeper_of_forms")
	if err := g.Apply(game.Player1, game.PlayCard{EntityID: third.ID(), Position: 0, Choose: 2}); err == nil {
		t.Fatal("out-of-range branch accepted")
	}
}

func TestCacheSeekerDiscoversASpell(t *testing.T) {
	g := newGame(t, "cache_seeker", "wisp")
	p1 := g.Player(game.Player1)
	p1.AddTemporaryMana(3)

	seeker := handCard(t, g, game.Player1, "cache_seeker")
	if err := g.Apply(game.Player1, game.PlayCard{EntityID: seeker.ID(), Position: 0, Choose: -1}); err != nil {
		t.Fatalf("play: %v", err)
	}

	if p1.Choice() == nil {
		t.Fatal("no discover pending")
	}
	options := g.Options(game.Player1)
	if len(options) != 3 {
		t.Fatalf("discover options %d, want 3", len(options))
	}

	picked := options[0].SourceID
	if err := g.Apply(game.Player1, game.Pick{EntityIDs: []int{picked}}); err != nil {
		t.Fatalf("pick: %v", err)
	}
	e := g.Entity(picked)
	if e.Zone() != game.ZoneHand {
		t.Fatalf("picked card in %s, want HAND", e.Zone())
	}
}

func TestSealedWardPunishesEnemyMinion(t *testing.T) {
	g := newGame(t, "sealed_ward", "river_croc")
	p1 := g.Player(game.Player1)
	p1.AddTemporaryMana(3)

	ward := handCard(t, g, game.Player1, "sealed_ward")
	if err := g.Apply(game.Player1, game.PlayCard{EntityID: ward.ID(), Position: -1, Choose: -1}); err != nil {
		t.Fatalf("play secret: %v", err)
	}
	if ward.Zone() != game.ZoneSecret {
		t.Fatalf("ward in %s, want SECRET", ward.Zone())
	}

	if err := g.Apply(game.Player1, game.EndTurn{}); err != nil {
		t.Fatal(err)
	}
	p2 := g.Player(game.Player2)
	p2.AddTemporaryMana(2)
	croc := handCard(t, g, game.Player2, "river_croc")
	if err := g.Apply(game.Player2, game.PlayCard{EntityID: croc.ID(), Position: 0, Choose: -1}); err != nil {
		t.Fatalf("play croc: %v", err)
	}

	// 4 damage kills the 2/3 on entry and consumes the secret.
	if croc.Zone() != game.ZoneGraveyard {
		t.Fatalf("croc in %s, want GRAVEYARD", croc.Zone())
	}
	if ward.Zone() != game.ZoneGraveyard {
		t.Fatalf("ward in %s, want GRAVEYARD", ward.Zone())
	}
}

func TestHeroPowerFirelance(t *testing.T) {
	g := newGame(t, "wisp", "wisp")
	p1 := g.Player(game.Player1)
	p1.AddTemporaryMana(2)
	hero2 := g.Hero(g.Player(game.Player2))

	if err := g.Apply(game.Player1, game.UseHeroPower{TargetID: hero2.ID()}); err != nil {
		t.Fatalf("hero power: %v", err)
	}
	if got := g.CurrentHealth(hero2); got != 29 {
		t.Fatalf("hero health %d, want 29", got)
	}
}
