// Package server exposes the engine over a websocket hub: clients join a
// game, submit actions, and receive per-player view pushes after every state
// change.
package server

import (
	"encoding/json"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"
	"github.com/hearthsim/hearth-server-go/internal/auth"
	"github.com/hearthsim/hearth-server-go/internal/game"
	"go.uber.org/zap"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  4096,
	WriteBufferSize: 4096,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// Message is the wire envelope in both directions.
type Message struct {
	Type     string          `json:"type"`
	GameID   string          `json:"game_id,omitempty"`
	PlayerID int             `json:"player_id,omitempty"`
	Error    string          `json:"error,omitempty"`
	Data     json.RawMessage `json:"data,omitempty"`
}

// joinRequest is the payload of a "join" message.
type joinRequest struct {
	Name     string `json:"name"`
	Password string `json:"password"`
	GameID   string `json:"game_id"`
	PlayerID int    `json:"player_id"`
}

// actionRequest is the payload of an "action" message.
type actionRequest struct {
	Kind      string `json:"kind"` // play_card, attack, hero_power, end_turn, pick
	EntityID  int    `json:"entity_id,omitempty"`
	TargetID  int    `json:"target_id,omitempty"`
	Position  int    `json:"position"`
	Choose    int    `json:"choose"`
	EntityIDs []int  `json:"entity_ids,omitempty"`
}

func (a actionRequest) toAction() (game.Action, bool) {
	switch a.Kind {
	case "play_card":
		return game.PlayCard{EntityID: a.EntityID, TargetID: a.TargetID, Position: a.Position, Choose: a.Choose}, true
	case "attack":
		return game.Attack{AttackerID: a.EntityID, DefenderID: a.TargetID}, true
	case "hero_power":
		return game.UseHeroPower{TargetID: a.TargetID}, true
	case "end_turn":
		return game.EndTurn{}, true
	case "pick":
		return game.Pick{EntityIDs: a.EntityIDs}, true
	default:
		return nil, false
	}
}

// Client is one websocket connection.
type Client struct {
	hub      *Hub
	conn     *websocket.Conn
	send     chan []byte
	gameID   string
	playerID int
	name     string
}

// Hub tracks connected clients per game and broadcasts view updates.
type Hub struct {
	engine      *game.Engine
	credentials *auth.Store
	logger      *zap.Logger

	mu      sync.RWMutex
	clients map[*Client]bool
}

// NewHub creates a hub over the engine. A nil credential store disables
// authentication on join.
func NewHub(engine *game.Engine, credentials *auth.Store, logger *zap.Logger) *Hub {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Hub{
		engine:      engine,
		credentials: credentials,
		logger:      logger,
		clients:     make(map[*Client]bool),
	}
}

// ServeWS upgrades the request and runs the client's pumps.
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("websocket upgrade failed", zap.Error(err))
		return
	}
	client := &Client{
		hub:  h,
		conn: conn,
		send: make(chan []byte, 64),
	}
	h.mu.Lock()
	h.clients[client] = true
	h.mu.Unlock()

	go client.writePump()
	client.readPump()
}

func (h *Hub) remove(client *Client) {
	h.mu.Lock()
	if h.clients[client] {
		delete(h.clients, client)
		close(client.send)
	}
	h.mu.Unlock()
}

// broadcastViews pushes each connected client of the game its own view.
func (h *Hub) broadcastViews(gameID string) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for client := range h.clients {
		if client.gameID != gameID || client.playerID == 0 {
			continue
		}
		view, err := h.engine.View(gameID, client.playerID)
		if err != nil {
			continue
		}
		client.sendMessage(Message{Type: "view", GameID: gameID, PlayerID: client.playerID, Data: marshal(view)})
	}
}

func marshal(v any) json.RawMessage {
	data, err := json.Marshal(v)
	if err != nil {
		return nil
	}
	return data
}

func (c *Client) sendMessage(msg Message) {
	data, err := json.Marshal(msg)
	if err != nil {
		return
	}
	select {
	case c.send <- data:
	default:
		// Slow consumer; drop the frame rather than block the hub.
	}
}

func (c *Client) sendError(msgType string, err error) {
	c.sendMessage(Message{Type: msgType, Error: err.Error()})
}

func (c *Client) readPump() {
	defer func() {
		c.hub.remove(c)
		c.conn.Close()
	}()
	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			return
		}
		var msg Message
		if err := json.Unmarshal(data, &msg); err != nil {
			c.sendMessage(Message{Type: "error", Error: "malformed message"})
			continue
		}
		c.handle(msg)
	}
}

func (c *Client) writePump() {
	for data := range c.send {
		if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
			return
		}
	}
	c.conn.WriteMessage(websocket.CloseMessage, []byte{})
}

func (c *Client) handle(msg Message) {
	switch msg.Type {
	case "join":
		c.handleJoin(msg)
	case "options":
		c.handleOptions()
	case "action":
		c.handleAction(msg)
	default:
		c.sendMessage(Message{Type: "error", Error: "unknown message type " + msg.Type})
	}
}

func (c *Client) handleJoin(msg Message) {
	var req joinRequest
	if err := json.Unmarshal(msg.Data, &req); err != nil {
		c.sendMessage(Message{Type: "join", Error: "malformed join"})
		return
	}
	if c.hub.credentials != nil && !c.hub.credentials.Authenticate(req.Name, req.Password) {
		c.sendMessage(Message{Type: "join", Error: "authentication failed"})
		return
	}
	if req.PlayerID != game.Player1 && req.PlayerID != game.Player2 {
		c.sendMessage(Message{Type: "join", Error: "player_id must be 1 or 2"})
		return
	}

	c.name = req.Name
	c.gameID = req.GameID
	c.playerID = req.PlayerID

	view, err := c.hub.engine.View(c.gameID, c.playerID)
	if err != nil {
		c.sendError("join", err)
		return
	}
	c.hub.logger.Info("client joined",
		zap.String("game_id", c.gameID),
		zap.Int("player", c.playerID),
		zap.String("name", c.name),
	)
	c.sendMessage(Message{Type: "view", GameID: c.gameID, PlayerID: c.playerID, Data: marshal(view)})
}

func (c *Client) handleOptions() {
	if c.gameID == "" {
		c.sendMessage(Message{Type: "options", Error: "join a game first"})
		return
	}
	options, err := c.hub.engine.Options(c.gameID, c.playerID)
	if err != nil {
		c.sendError("options", err)
		return
	}
	c.sendMessage(Message{Type: "options", GameID: c.gameID, PlayerID: c.playerID, Data: marshal(options)})
}

func (c *Client) handleAction(msg Message) {
	if c.gameID == "" {
		c.sendMessage(Message{Type: "action", Error: "join a game first"})
		return
	}
	var req actionRequest
	if err := json.Unmarshal(msg.Data, &req); err != nil {
		c.sendMessage(Message{Type: "action", Error: "malformed action"})
		return
	}
	action, ok := req.toAction()
	if !ok {
		c.sendMessage(Message{Type: "action", Error: "unknown action kind " + req.Kind})
		return
	}
	if err := c.hub.engine.Submit(c.gameID, c.playerID, action); err != nil {
		c.sendError("action", err)
		return
	}
	c.sendMessage(Message{Type: "action", GameID: c.gameID})
	c.hub.broadcastViews(c.gameID)
}
