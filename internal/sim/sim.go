// Package sim runs clone-based rollouts for search agents. The core game is
// single-threaded; parallelism comes from handing each worker its own deep
// clone, never from sharing one graph.
package sim

import (
	"sync"

	"github.com/hearthsim/hearth-server-go/internal/game"
)

// Policy picks the next action for the player to act, from the enumerator's
// legal options. Returning false stops the rollout.
type Policy func(g *game.Game, playerID int, options []game.Option) (game.Action, bool)

// Result summarizes one finished rollout.
type Result struct {
	WinnerID int
	Turns    int
	Actions  int
	Complete bool
}

// Rollout clones src and plays it forward with the policy until the game
// completes, the policy stops, or maxActions is reached. The source game is
// never touched.
func Rollout(src *game.Game, policy Policy, maxActions int) Result {
	g := src.Clone()
	result := Result{}

	for result.Actions < maxActions && g.State() != game.StateComplete {
		playerID := actingPlayer(g)
		options := g.Options(playerID)
		if len(options) == 0 {
			break
		}
		action, ok := policy(g, playerID, options)
		if !ok {
			break
		}
		if err := g.Apply(playerID, action); err != nil {
			// The policy emitted an out-of-band illegal action; the game is
			// unchanged, so stop rather than loop forever.
			break
		}
		result.Actions++
	}

	result.WinnerID = g.WinnerID()
	result.Turns = g.TurnNumber()
	result.Complete = g.State() == game.StateComplete
	return result
}

// actingPlayer returns the controller expected to act: a controller with a
// pending choice first, the active player otherwise.
func actingPlayer(g *game.Game) int {
	for _, id := range []int{game.Player1, game.Player2} {
		if p := g.Player(id); p != nil && p.Choice() != nil {
			return id
		}
	}
	return g.ActivePlayerID()
}

// Parallel runs n rollouts concurrently, each on its own clone of src, and
// returns their results in order.
func Parallel(src *game.Game, policy Policy, n, maxActions int) []Result {
	results := make([]Result, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i] = Rollout(src, policy, maxActions)
		}(i)
	}
	wg.Wait()
	return results
}

// FirstOption is the trivial policy: always take the enumerator's first
// option. Deterministic, so identical clones roll out identically.
func FirstOption(g *game.Game, playerID int, options []game.Option) (game.Action, bool) {
	return OptionAction(options[0]), true
}

// OptionAction converts an enumerator option into the action that applies it.
func OptionAction(o game.Option) game.Action {
	switch o.Type {
	case game.OptionEndTurn:
		return game.EndTurn{}
	case game.OptionPlayCard:
		return game.PlayCard{EntityID: o.SourceID, TargetID: o.TargetID, Position: o.Position, Choose: o.Choose}
	case game.OptionHeroPower:
		return game.UseHeroPower{TargetID: o.TargetID}
	case game.OptionAttack:
		return game.Attack{AttackerID: o.SourceID, DefenderID: o.TargetID}
	case game.OptionPick:
		if o.SourceID == 0 {
			return game.Pick{}
		}
		return game.Pick{EntityIDs: []int{o.SourceID}}
	default:
		return game.EndTurn{}
	}
}
