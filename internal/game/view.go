package game

import (
	"github.com/hearthsim/hearth-server-go/internal/game/tags"
)

// EntityView is the read-only external projection of one entity. Attribute
// values are post-aura effective values; no mutation is possible through a
// view.
type EntityView struct {
	ID           int    `json:"id"`
	CardID       string `json:"card_id"`
	Name         string `json:"name"`
	Type         string `json:"type"`
	Cost         int    `json:"cost"`
	Attack       int    `json:"attack"`
	Health       int    `json:"health"`
	MaxHealth    int    `json:"max_health"`
	Durability   int    `json:"durability,omitempty"`
	Zone         string `json:"zone"`
	Position     int    `json:"position"`
	ControllerID int    `json:"controller_id"`
	Taunt        bool   `json:"taunt,omitempty"`
	Frozen       bool   `json:"frozen,omitempty"`
	Stealth      bool   `json:"stealth,omitempty"`
	DivineShield bool   `json:"divine_shield,omitempty"`
	Exhausted    bool   `json:"exhausted,omitempty"`
}

// PlayerView is the read-only projection of one controller.
type PlayerView struct {
	ID             int          `json:"id"`
	Name           string       `json:"name"`
	Hero           EntityView   `json:"hero"`
	HeroPower      *EntityView  `json:"hero_power,omitempty"`
	Weapon         *EntityView  `json:"weapon,omitempty"`
	RemainingMana  int          `json:"remaining_mana"`
	BaseMana       int          `json:"base_mana"`
	OverloadOwed   int          `json:"overload_owed"`
	OverloadLocked int          `json:"overload_locked"`
	DeckCount      int          `json:"deck_count"`
	HandCount      int          `json:"hand_count"`
	Fatigue        int          `json:"fatigue"`
	Hand           []EntityView `json:"hand,omitempty"`
	Board          []EntityView `json:"board"`
	Secrets        int          `json:"secrets"`
	PendingChoice  bool         `json:"pending_choice"`
}

// GameView is the read-only projection of a whole game, from one player's
// perspective: the opponent's hand is count-only.
type GameView struct {
	GameID       string     `json:"game_id"`
	State        string     `json:"state"`
	Step         string     `json:"step"`
	Turn         int        `json:"turn"`
	ActivePlayer int        `json:"active_player"`
	Winner       int        `json:"winner,omitempty"`
	Viewer       PlayerView `json:"viewer"`
	Opponent     PlayerView `json:"opponent"`
}

// View builds the game projection for the given viewer.
func (g *Game) View(viewerID int) GameView {
	viewer := g.Player(viewerID)
	opp := g.Opponent(viewer)
	return GameView{
		GameID:       g.id,
		State:        g.state.String(),
		Step:         g.turns.CurrentStep().String(),
		Turn:         g.turns.TurnNumber(),
		ActivePlayer: g.turns.ActivePlayer(),
		Winner:       g.winnerID,
		Viewer:       g.playerView(viewer, true),
		Opponent:     g.playerView(opp, false),
	}
}

func (g *Game) playerView(p *Player, showHand bool) PlayerView {
	pv := PlayerView{
		ID:             p.id,
		Name:           p.name,
		Hero:           g.entityView(g.Hero(p)),
		RemainingMana:  p.RemainingMana(),
		BaseMana:       p.baseMana,
		OverloadOwed:   p.overloadOwed,
		OverloadLocked: p.overloadLocked,
		DeckCount:      p.Deck().Len(),
		HandCount:      p.Hand().Len(),
		Fatigue:        p.fatigue,
		Secrets:        p.Zone(ZoneSecret).Len(),
		PendingChoice:  p.choice != nil,
	}
	if power := g.HeroPower(p); power != nil {
		v := g.entityView(power)
		pv.HeroPower = &v
	}
	if w := g.Weapon(p); w != nil {
		v := g.entityView(w)
		pv.Weapon = &v
	}
	if showHand {
		pv.Hand = g.zoneViews(p.Hand())
	}
	pv.Board = g.zoneViews(p.Board())
	return pv
}

func (g *Game) zoneViews(z *Zone) []EntityView {
	views := make([]EntityView, 0, z.Len())
	z.Each(func(e *Entity) bool {
		views = append(views, g.entityView(e))
		return true
	})
	return views
}

func (g *Game) entityView(e *Entity) EntityView {
	return EntityView{
		ID:           e.id,
		CardID:       e.def.ID,
		Name:         e.def.Name,
		Type:         e.def.Type.String(),
		Cost:         g.EffectiveCost(e),
		Attack:       g.EffectiveAttack(e),
		Health:       g.CurrentHealth(e),
		MaxHealth:    g.MaxHealth(e),
		Durability:   e.tags.Get(tags.TagDurability),
		Zone:         e.zone.String(),
		Position:     e.zonePos,
		ControllerID: e.controllerID,
		Taunt:        g.EffectiveBool(e, tags.TagTaunt),
		Frozen:       e.tags.Bool(tags.TagFrozen),
		Stealth:      g.EffectiveBool(e, tags.TagStealth),
		DivineShield: e.tags.Bool(tags.TagDivineShield),
		Exhausted:    e.tags.Bool(tags.TagExhausted),
	}
}
