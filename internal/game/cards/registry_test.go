package cards

import (
	"strings"
	"testing"

	"github.com/hearthsim/hearth-server-go/internal/game/targeting"
)

const sampleSet = `
- id: river_croc
  name: River Crocolisk
  type: minion
  cost: 2
  attack: 2
  health: 3
- id: sunfury_guard
  name: Sunfury Guardian
  type: minion
  cost: 3
  attack: 3
  health: 3
  mechanics: [taunt]
- id: firebolt
  name: Firebolt
  type: spell
  cost: 1
  targeting: all
  text: Deal 3 damage.
- id: keeper_form
  name: Keeper of Forms
  type: minion
  cost: 2
  attack: 2
  health: 2
  choose_options: ["+1 Attack", "Taunt"]
`

func TestLoadReaderParsesDefinitions(t *testing.T) {
	r := NewRegistry()
	if err := r.LoadReader(strings.NewReader(sampleSet)); err != nil {
		t.Fatalf("LoadReader: %v", err)
	}
	if r.Len() != 4 {
		t.Fatalf("expected 4 cards, got %d", r.Len())
	}

	croc, ok := r.Lookup("river_croc")
	if !ok {
		t.Fatal("river_croc not found")
	}
	if croc.Type != TypeMinion || croc.Cost != 2 || croc.Attack != 2 || croc.Health != 3 {
		t.Fatalf("unexpected definition: %+v", croc)
	}
	if croc.Targeting != targeting.CategoryNone {
		t.Fatalf("expected no targeting by default, got %s", croc.Targeting)
	}

	guard, _ := r.Lookup("sunfury_guard")
	if !guard.Taunt {
		t.Fatal("expected taunt mechanic to parse")
	}

	bolt, _ := r.Lookup("firebolt")
	if bolt.Type != TypeSpell || bolt.Targeting != targeting.CategoryAll {
		t.Fatalf("unexpected spell definition: %+v", bolt)
	}

	keeper, _ := r.Lookup("keeper_form")
	if len(keeper.ChooseOptions) != 2 {
		t.Fatalf("expected 2 choose options, got %d", len(keeper.ChooseOptions))
	}
}

func TestLoadReaderRejectsDuplicateIDs(t *testing.T) {
	r := NewRegistry()
	dup := `
- id: wisp
  name: Wisp
  type: minion
  cost: 0
  attack: 1
  health: 1
- id: wisp
  name: Wisp Again
  type: minion
  cost: 0
  attack: 1
  health: 1
`
	if err := r.LoadReader(strings.NewReader(dup)); err == nil {
		t.Fatal("expected duplicate id error")
	}
}

func TestLoadReaderRejectsUnknownType(t *testing.T) {
	r := NewRegistry()
	bad := `
- id: mystery
  name: Mystery
  type: artifact
  cost: 1
`
	if err := r.LoadReader(strings.NewReader(bad)); err == nil {
		t.Fatal("expected unknown type error")
	}
}

func TestLoadReaderRejectsUnknownMechanic(t *testing.T) {
	r := NewRegistry()
	bad := `
- id: oddball
  name: Oddball
  type: minion
  cost: 1
  attack: 1
  health: 1
  mechanics: [levitation]
`
	if err := r.LoadReader(strings.NewReader(bad)); err == nil {
		t.Fatal("expected unknown mechanic error")
	}
}
