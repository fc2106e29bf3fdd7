package tags

import "fmt"

// Tag identifies a single integer attribute on an entity.
type Tag int

const (
	TagInvalid Tag = iota
	TagCost
	TagAttack
	TagHealth
	TagDamage
	TagDurability
	TagArmor
	TagTaunt
	TagCharge
	TagStealth
	TagFrozen
	TagImmune
	TagWindfury
	TagDivineShield
	TagExhausted
	TagNumAttacksThisTurn
	TagNumTurnsInPlay
	TagSpellPower
	TagCantAttack
	TagCantBeTargetedBySpells
	TagCostsHealth
	TagToBeDestroyed
	TagSilenced
	TagPlayIndex
	TagHeroPowerDisabled
)

var tagNames = map[Tag]string{
	TagCost:                   "COST",
	TagAttack:                 "ATK",
	TagHealth:                 "HEALTH",
	TagDamage:                 "DAMAGE",
	TagDurability:             "DURABILITY",
	TagArmor:                  "ARMOR",
	TagTaunt:                  "TAUNT",
	TagCharge:                 "CHARGE",
	TagStealth:                "STEALTH",
	TagFrozen:                 "FROZEN",
	TagImmune:                 "IMMUNE",
	TagWindfury:               "WINDFURY",
	TagDivineShield:           "DIVINE_SHIELD",
	TagExhausted:              "EXHAUSTED",
	TagNumAttacksThisTurn:     "NUM_ATTACKS_THIS_TURN",
	TagNumTurnsInPlay:         "NUM_TURNS_IN_PLAY",
	TagSpellPower:             "SPELLPOWER",
	TagCantAttack:             "CANT_ATTACK",
	TagCantBeTargetedBySpells: "CANT_BE_TARGETED_BY_SPELLS",
	TagCostsHealth:            "COSTS_HEALTH",
	TagToBeDestroyed:          "TO_BE_DESTROYED",
	TagSilenced:               "SILENCED",
	TagPlayIndex:              "PLAY_INDEX",
	TagHeroPowerDisabled:      "HERO_POWER_DISABLED",
}

func (t Tag) String() string {
	if name, ok := tagNames[t]; ok {
		return name
	}
	return fmt.Sprintf("TAG_%d", int(t))
}
