package cards

import (
	"fmt"

	"github.com/hearthsim/hearth-server-go/internal/game/targeting"
)

// Type is the category of a card.
type Type int

const (
	TypeInvalid Type = iota
	TypeMinion
	TypeSpell
	TypeWeapon
	TypeHero
	TypeHeroPower
	TypeEnchantment
)

var typeNames = map[Type]string{
	TypeMinion:      "minion",
	TypeSpell:       "spell",
	TypeWeapon:      "weapon",
	TypeHero:        "hero",
	TypeHeroPower:   "hero_power",
	TypeEnchantment: "enchantment",
}

func (t Type) String() string {
	if name, ok := typeNames[t]; ok {
		return name
	}
	return fmt.Sprintf("type_%d", int(t))
}

func parseType(s string) (Type, error) {
	for t, name := range typeNames {
		if name == s {
			return t, nil
		}
	}
	return TypeInvalid, fmt.Errorf("unknown card type %q", s)
}

var targetingNames = map[string]targeting.Category{
	"none":                targeting.CategoryNone,
	"all":                 targeting.CategoryAll,
	"friendly_characters": targeting.CategoryFriendlyCharacters,
	"enemy_characters":    targeting.CategoryEnemyCharacters,
	"all_minions":         targeting.CategoryAllMinions,
	"friendly_minions":    targeting.CategoryFriendlyMinions,
	"enemy_minions":       targeting.CategoryEnemyMinions,
	"heroes":              targeting.CategoryHeroes,
}

// Definition is the static description of a card: everything known before an
// instance of it exists in a game. Definitions are immutable once loaded and
// shared by every game and clone.
type Definition struct {
	ID         string
	Name       string
	Text       string
	Type       Type
	Cost       int
	Attack     int
	Health     int
	Durability int
	Armor      int
	Targeting  targeting.Category

	// Mechanics flags, parsed from the set file's mechanics list.
	Taunt        bool
	Charge       bool
	Stealth      bool
	Windfury     bool
	DivineShield bool
	CantAttack   bool
	Secret       bool
	Quest        bool
	SpellPower   int

	// ChooseOptions names the branches of a choose-one card, in order.
	// Empty for ordinary cards.
	ChooseOptions []string
}

// IsCharacter reports whether instances of the card can attack or be attacked.
func (d *Definition) IsCharacter() bool {
	return d.Type == TypeMinion || d.Type == TypeHero
}

// yamlCard is the on-disk shape of a definition inside a set file.
type yamlCard struct {
	ID            string   `yaml:"id"`
	Name          string   `yaml:"name"`
	Text          string   `yaml:"text"`
	Type          string   `yaml:"type"`
	Cost          int      `yaml:"cost"`
	Attack        int      `yaml:"attack"`
	Health        int      `yaml:"health"`
	Durability    int      `yaml:"durability"`
	Armor         int      `yaml:"armor"`
	Targeting     string   `yaml:"targeting"`
	Mechanics     []string `yaml:"mechanics"`
	SpellPower    int      `yaml:"spell_power"`
	ChooseOptions []string `yaml:"choose_options"`
}

func (y yamlCard) toDefinition() (*Definition, error) {
	if y.ID == "" {
		return nil, fmt.Errorf("card with name %q has no id", y.Name)
	}
	cardType, err := parseType(y.Type)
	if err != nil {
		return nil, fmt.Errorf("card %s: %w", y.ID, err)
	}

	def := &Definition{
		ID:            y.ID,
		Name:          y.Name,
		Text:          y.Text,
		Type:          cardType,
		Cost:          y.Cost,
		Attack:        y.Attack,
		Health:        y.Health,
		Durability:    y.Durability,
		Armor:         y.Armor,
		SpellPower:    y.SpellPower,
		ChooseOptions: append([]string(nil), y.ChooseOptions...),
	}

	if y.Targeting != "" {
		category, ok := targetingNames[y.Targeting]
		if !ok {
			return nil, fmt.Errorf("card %s: unknown targeting category %q", y.ID, y.Targeting)
		}
		def.Targeting = category
	}

	for _, m := range y.Mechanics {
		switch m {
		case "taunt":
			def.Taunt = true
		case "charge":
			def.Charge = true
		case "stealth":
			def.Stealth = true
		case "windfury":
			def.Windfury = true
		case "divine_shield":
			def.DivineShield = true
		case "cant_attack":
			def.CantAttack = true
		case "secret":
			def.Secret = true
		case "quest":
			def.Quest = true
		default:
			return nil, fmt.Errorf("card %s: unknown mechanic %q", y.ID, m)
		}
	}

	return def, nil
}
