package game

// ChoiceKind distinguishes the two pending-decision flows.
type ChoiceKind int

const (
	// ChoiceMulligan offers the opening hand; the pick names the subset of
	// cards to replace (possibly empty).
	ChoiceMulligan ChoiceKind = iota
	// ChoiceDiscover offers a set of setaside entities; the pick names
	// exactly one, which moves to hand.
	ChoiceDiscover
)

// Choice is a pending decision for one player. While a choice is open, the
// only legal actions for that player are picks belonging to it.
type Choice struct {
	PlayerID int
	Kind     ChoiceKind
	// Options are the entity ids offered.
	Options []int
}

func (c *Choice) offers(entityID int) bool {
	for _, id := range c.Options {
		if id == entityID {
			return true
		}
	}
	return false
}

func (c *Choice) copy() *Choice {
	return &Choice{
		PlayerID: c.PlayerID,
		Kind:     c.Kind,
		Options:  append([]int(nil), c.Options...),
	}
}
