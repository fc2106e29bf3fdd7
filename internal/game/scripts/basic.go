// Package scripts carries the built-in basic set: static definitions in
// basic.yaml and their effect scripts registered against the core's hook
// interface. Expansion sets follow the same shape in their own packages.
package scripts

import (
	"embed"

	"github.com/hearthsim/hearth-server-go/internal/game"
	"github.com/hearthsim/hearth-server-go/internal/game/auras"
	"github.com/hearthsim/hearth-server-go/internal/game/cards"
	"github.com/hearthsim/hearth-server-go/internal/game/tags"
)

//go:embed basic.yaml
var setFiles embed.FS

// Load builds a registry holding the basic set and a hook table with its
// scripts. Callers may load further set files into the returned registry.
func Load() (*cards.Registry, *game.HookTable, error) {
	registry := cards.NewRegistry()
	if err := registry.LoadFS(setFiles); err != nil {
		return nil, nil, err
	}
	hooks := game.NewHookTable()
	RegisterBasic(hooks)
	return registry, hooks, nil
}

// RegisterBasic installs the basic set's scripts into the hook table.
func RegisterBasic(ht *game.HookTable) {
	ht.Register("the_coin", game.Hooks{
		OnPlay: func(ctx *game.HookContext) error {
			ctx.Game.Player(ctx.Source.ControllerID()).AddTemporaryMana(1)
			return nil
		},
	})

	ht.Register("power_firelance", game.Hooks{
		OnPlay: func(ctx *game.HookContext) error {
			ctx.Game.DealDamage(ctx.Target, ctx.Source, 1)
			return nil
		},
	})

	ht.Register("firebolt", game.Hooks{
		OnPlay: func(ctx *game.HookContext) error {
			p := ctx.Game.Player(ctx.Source.ControllerID())
			ctx.Game.DealDamage(ctx.Target, ctx.Source, 3+ctx.Game.SpellDamage(p))
			return nil
		},
	})

	ht.Register("stormcaller_bolt", game.Hooks{
		OnPlay: func(ctx *game.HookContext) error {
			p := ctx.Game.Player(ctx.Source.ControllerID())
			p.AddOverload(1)
			ctx.Game.DealDamage(ctx.Target, ctx.Source, 4+ctx.Game.SpellDamage(p))
			return nil
		},
	})

	ht.Register("cone_of_frost", game.Hooks{
		OnPlay: func(ctx *game.HookContext) error {
			p := ctx.Game.Player(ctx.Source.ControllerID())
			opp := ctx.Game.Opponent(p)
			opp.Board().Each(func(e *game.Entity) bool {
				e.Tags().SetBool(tags.TagFrozen, true)
				return true
			})
			return nil
		},
	})

	ht.Register("novice_adept", game.Hooks{
		OnPlay: func(ctx *game.HookContext) error {
			ctx.Game.Draw(ctx.Game.Player(ctx.Source.ControllerID()), 1)
			return nil
		},
	})

	ht.Register("rattling_husk", game.Hooks{
		OnDeath: func(ctx *game.HookContext) error {
			ctx.Game.Draw(ctx.Game.Player(ctx.Source.ControllerID()), 1)
			return nil
		},
	})

	ht.Register("healing_idol", game.Hooks{
		OnTurnEnd: func(ctx *game.HookContext) error {
			p := ctx.Game.Player(ctx.Source.ControllerID())
			ctx.Game.Heal(ctx.Game.Hero(p), 2)
			return nil
		},
	})

	ht.Register("captain_valor", game.Hooks{
		Aura: func(g *game.Game, source *game.Entity) auras.Descriptor {
			return auras.Static(source.ID(),
				auras.FriendlyMinions(source.ID(), source.ControllerID()),
				auras.Contribution{Tag: tags.TagAttack, Delta: 1},
			)
		},
	})

	ht.Register("keeper_of_forms", game.Hooks{
		OnPlay: func(ctx *game.HookContext) error {
			choseAttack := ctx.Choose == 0 || ctx.Choose == game.ChooseBothBranches
			choseTaunt := ctx.Choose == 1 || ctx.Choose == game.ChooseBothBranches
			if choseAttack {
				ctx.Source.Tags().Add(tags.TagAttack, 1)
			}
			if choseTaunt {
				ctx.Source.Tags().SetBool(tags.TagTaunt, true)
			}
			return nil
		},
	})

	ht.Register("sealed_ward", game.Hooks{
		OnEnemyMinionPlayed: func(ctx *game.HookContext) error {
			ctx.Game.DealDamage(ctx.Target, ctx.Source, 4)
			return ctx.Game.ConsumeSecret(ctx.Source)
		},
	})

	ht.Register("cache_seeker", game.Hooks{
		OnPlay: func(ctx *game.HookContext) error {
			p := ctx.Game.Player(ctx.Source.ControllerID())
			return ctx.Game.OfferDiscover(p, []string{"firebolt", "cone_of_frost", "stormcaller_bolt"})
		},
	})
}
