package game

import (
	"github.com/hearthsim/hearth-server-go/internal/game/rules"
	"github.com/hearthsim/hearth-server-go/internal/game/tags"
)

// resolveAttack runs a validated attack: both characters deal their attack
// value to each other simultaneously, the attacker loses stealth, a hero
// attacker consumes weapon durability, and the death sweep follows.
func (g *Game) resolveAttack(p *Player, attacker, defender *Entity) {
	g.bus.Publish(rules.Event{
		Type:         rules.EventAttackStarted,
		EntityID:     defender.id,
		SourceID:     attacker.id,
		ControllerID: p.id,
	})

	attacker.tags.Add(tags.TagNumAttacksThisTurn, 1)
	p.attacksThisTurn++
	if attacker.IsHero() {
		p.heroAttacksThisTurn++
	}
	if g.EffectiveBool(attacker, tags.TagStealth) && attacker.tags.Bool(tags.TagStealth) {
		attacker.tags.SetBool(tags.TagStealth, false)
	}

	attackerPower := g.EffectiveAttack(attacker)
	defenderPower := g.EffectiveAttack(defender)

	// Simultaneous strikes: both damage marks land before any death sweep.
	g.damageCharacter(defender, attacker, attackerPower)
	if defenderPower > 0 {
		g.damageCharacter(attacker, defender, defenderPower)
	}

	if attacker.IsHero() {
		if w := g.Weapon(p); w != nil {
			w.tags.Add(tags.TagDurability, -1)
		}
	}

	g.ProcessDeaths()
}
