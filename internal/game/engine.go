package game

import (
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/hearthsim/hearth-server-go/internal/game/cards"
	"go.uber.org/zap"
)

// Engine manages the set of running games for a server process. Each Game is
// single-threaded; the engine serializes access per call so transport
// handlers on different goroutines can share it.
type Engine struct {
	logger   *zap.Logger
	registry *cards.Registry
	hooks    *HookTable

	mu    sync.RWMutex
	games map[string]*Game

	onComplete func(Summary)
}

// Summary describes a finished game for completion handlers.
type Summary struct {
	GameID     string
	Player1    string
	Player2    string
	WinnerID   int
	WinnerName string // empty for a tie
	Turns      int
	StartedAt  time.Time
	FinishedAt time.Time
}

// NewEngine creates an engine over the given catalogue and script table.
func NewEngine(logger *zap.Logger, registry *cards.Registry, hooks *HookTable) *Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	if hooks == nil {
		hooks = NewHookTable()
	}
	return &Engine{
		logger:   logger,
		registry: registry,
		hooks:    hooks,
		games:    make(map[string]*Game),
	}
}

// StartGame creates a new game from the config and returns its id.
func (e *Engine) StartGame(cfg Config) (string, error) {
	gameID := uuid.NewString()
	g, err := NewGame(gameID, cfg, e.registry, e.hooks, e.logger)
	if err != nil {
		return "", fmt.Errorf("start game: %w", err)
	}

	e.mu.Lock()
	e.games[gameID] = g
	e.mu.Unlock()

	e.logger.Info("game started",
		zap.String("game_id", gameID),
		zap.String("player1", cfg.Players[0].Name),
		zap.String("player2", cfg.Players[1].Name),
		zap.Int("first_player", g.turns.ActivePlayer()),
	)
	return gameID, nil
}

// Submit validates and applies an action for the player.
func (e *Engine) Submit(gameID string, playerID int, action Action) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	g, ok := e.games[gameID]
	if !ok {
		return fmt.Errorf("%w: game %s", ErrNotFound, gameID)
	}

	if err := g.Apply(playerID, action); err != nil {
		e.logger.Debug("action rejected",
			zap.String("game_id", gameID),
			zap.Int("player", playerID),
			zap.Error(err),
		)
		return err
	}

	if g.State() == StateComplete {
		e.logger.Info("game complete",
			zap.String("game_id", gameID),
			zap.Int("winner", g.WinnerID()),
			zap.Int("turns", g.TurnNumber()),
		)
		if e.onComplete != nil {
			e.onComplete(e.summarize(g))
		}
	}
	return nil
}

// SetOnComplete installs a handler invoked once when a game finishes.
func (e *Engine) SetOnComplete(fn func(Summary)) {
	e.onComplete = fn
}

func (e *Engine) summarize(g *Game) Summary {
	s := Summary{
		GameID:     g.ID(),
		Player1:    g.Player(Player1).Name(),
		Player2:    g.Player(Player2).Name(),
		WinnerID:   g.WinnerID(),
		Turns:      g.TurnNumber(),
		StartedAt:  g.startedAt,
		FinishedAt: time.Now(),
	}
	if w := g.Player(s.WinnerID); w != nil {
		s.WinnerName = w.Name()
	}
	return s
}

// Options enumerates the legal actions for the player.
func (e *Engine) Options(gameID string, playerID int) ([]Option, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	g, ok := e.games[gameID]
	if !ok {
		return nil, fmt.Errorf("%w: game %s", ErrNotFound, gameID)
	}
	return g.Options(playerID), nil
}

// View returns the read-only projection for the player.
func (e *Engine) View(gameID string, playerID int) (GameView, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	g, ok := e.games[gameID]
	if !ok {
		return GameView{}, fmt.Errorf("%w: game %s", ErrNotFound, gameID)
	}
	return g.View(playerID), nil
}

// CloneGame returns a detached deep copy of the game for simulation. The
// clone is not tracked by the engine; the caller owns it entirely.
func (e *Engine) CloneGame(gameID string) (*Game, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	g, ok := e.games[gameID]
	if !ok {
		return nil, fmt.Errorf("%w: game %s", ErrNotFound, gameID)
	}
	return g.Clone(), nil
}

// Game returns the tracked game, for tests and in-process consumers.
func (e *Engine) Game(gameID string) (*Game, bool) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	g, ok := e.games[gameID]
	return g, ok
}

// RemoveGame drops a finished game from tracking.
func (e *Engine) RemoveGame(gameID string) {
	e.mu.Lock()
	delete(e.games, gameID)
	e.mu.Unlock()
}
