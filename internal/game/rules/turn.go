package rules

import "fmt"

// Step represents the coarse steps of a game. Unlike a phase-per-turn
// structure, a turn here belongs entirely to one player; steps describe where
// in the turn (or in game setup/teardown) control currently sits.
type Step int

const (
	StepInvalid Step = iota
	StepBeginFirst
	StepBeginShuffle
	StepBeginDraw
	StepBeginMulligan
	StepMainBegin
	StepMainReady
	StepMainStart
	StepMainAction
	StepMainEnd
	StepMainCleanup
	StepMainNext
	StepFinalWrapup
	StepFinalGameover
)

var stepNames = map[Step]string{
	StepBeginFirst:    "BEGIN_FIRST",
	StepBeginShuffle:  "BEGIN_SHUFFLE",
	StepBeginDraw:     "BEGIN_DRAW",
	StepBeginMulligan: "BEGIN_MULLIGAN",
	StepMainBegin:     "MAIN_BEGIN",
	StepMainReady:     "MAIN_READY",
	StepMainStart:     "MAIN_START",
	StepMainAction:    "MAIN_ACTION",
	StepMainEnd:       "MAIN_END",
	StepMainCleanup:   "MAIN_CLEANUP",
	StepMainNext:      "MAIN_NEXT",
	StepFinalWrapup:   "FINAL_WRAPUP",
	StepFinalGameover: "FINAL_GAMEOVER",
}

func (s Step) String() string {
	if name, ok := stepNames[s]; ok {
		return name
	}
	return fmt.Sprintf("STEP_%d", int(s))
}

// IsMain reports whether the step is part of a player's main turn.
func (s Step) IsMain() bool {
	return s >= StepMainBegin && s <= StepMainNext
}

// TurnManager tracks the active player, turn number, and current step.
// Controllers are identified by small integer ids.
type TurnManager struct {
	step         Step
	turnNumber   int
	activePlayer int
	firstPlayer  int
}

// NewTurnManager creates a manager positioned before the game starts, with
// the given player due to take the first turn.
func NewTurnManager(firstPlayer int) *TurnManager {
	return &TurnManager{
		step:         StepBeginFirst,
		turnNumber:   0,
		activePlayer: firstPlayer,
		firstPlayer:  firstPlayer,
	}
}

// CurrentStep returns the step currently in progress.
func (tm *TurnManager) CurrentStep() Step {
	return tm.step
}

// SetStep moves the manager to the given step without other side effects.
func (tm *TurnManager) SetStep(step Step) {
	tm.step = step
}

// TurnNumber returns the current turn number. Turns count per player: the
// first player's opening turn is 1, the opponent's reply is 2.
func (tm *TurnManager) TurnNumber() int {
	return tm.turnNumber
}

// ActivePlayer returns the controller id whose turn it is.
func (tm *TurnManager) ActivePlayer() int {
	return tm.activePlayer
}

// FirstPlayer returns the controller id that took the first turn.
func (tm *TurnManager) FirstPlayer() int {
	return tm.firstPlayer
}

// BeginFirstTurn transitions out of setup into the first main turn.
func (tm *TurnManager) BeginFirstTurn() {
	tm.turnNumber = 1
	tm.activePlayer = tm.firstPlayer
	tm.step = StepMainBegin
}

// NextTurn hands the turn to nextActivePlayer, increments the turn number,
// and rewinds the step to the start of the main sequence.
func (tm *TurnManager) NextTurn(nextActivePlayer int) {
	tm.turnNumber++
	tm.activePlayer = nextActivePlayer
	tm.step = StepMainBegin
}

// Copy creates an independent copy of the manager.
func (tm *TurnManager) Copy() *TurnManager {
	c := *tm
	return &c
}
