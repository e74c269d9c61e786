package server

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/kbang/bang-server-go/internal/game"
	"go.uber.org/zap"
)

const clientSendBuffer = 256

// maxAutoResponses bounds the disconnect auto-responder. One pass can put the
// same seat straight back on the hook (a lethal hit opens a last-save window),
// so a single auto-response is not always enough.
const maxAutoResponses = 16

var upgrader = websocket.Upgrader{
	ReadBufferSize:  4096,
	WriteBufferSize: 4096,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// Intent is one client request. Type selects the operation; the remaining
// fields are read per operation and ignored otherwise.
type Intent struct {
	Type     string `json:"type"`
	GameID   string `json:"game_id,omitempty"`
	GameName string `json:"game_name,omitempty"`
	Name     string `json:"name,omitempty"`
	CardID   string `json:"card_id,omitempty"`
	Target   *int   `json:"target,omitempty"`
	Count    int    `json:"count,omitempty"`
	Reveal   bool   `json:"reveal,omitempty"`
	AI       bool   `json:"ai,omitempty"`
}

// Reply is one server response or pushed event.
type Reply struct {
	Type  string `json:"type"`
	Seat  *int   `json:"seat,omitempty"`
	Error string `json:"error,omitempty"`
	Data  any    `json:"data,omitempty"`
}

// Gateway is the websocket front door: it upgrades connections, decodes
// intents into manager and game calls, and forwards each game's message
// stream to its subscribers. All JSON lives here; the game packages stay
// wire-format free.
type Gateway struct {
	manager *game.Manager
	logger  *zap.Logger
	server  *http.Server
}

// NewGateway creates a gateway serving the given manager on addr.
func NewGateway(addr string, manager *game.Manager, logger *zap.Logger) *Gateway {
	gw := &Gateway{
		manager: manager,
		logger:  logger,
	}
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", gw.serveWS)
	gw.server = &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}
	return gw
}

// ListenAndServe blocks serving websocket clients until Shutdown.
func (gw *Gateway) ListenAndServe() error {
	gw.logger.Info("gateway listening", zap.String("address", gw.server.Addr))
	err := gw.server.ListenAndServe()
	if err == http.ErrServerClosed {
		return nil
	}
	return err
}

// Shutdown stops accepting connections and drains existing ones.
func (gw *Gateway) Shutdown(ctx context.Context) error {
	return gw.server.Shutdown(ctx)
}

type client struct {
	gw   *Gateway
	conn *websocket.Conn

	mu     sync.Mutex
	send   chan []byte
	closed bool

	// set once the client joins or creates a game
	game   *game.Game
	seat   int
	handle int
}

func (gw *Gateway) serveWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		gw.logger.Warn("websocket upgrade failed", zap.Error(err))
		return
	}
	c := &client{
		gw:   gw,
		conn: conn,
		send: make(chan []byte, clientSendBuffer),
		seat: game.NoOwner,
	}
	go c.writePump()
	go c.readPump()
}

func (c *client) readPump() {
	defer c.teardown()

	for {
		_, raw, err := c.conn.ReadMessage()
		if err != nil {
			return
		}
		var intent Intent
		if err := json.Unmarshal(raw, &intent); err != nil {
			c.reply(Reply{Type: "error", Error: "malformed intent"})
			continue
		}
		c.handleIntent(intent)
	}
}

func (c *client) writePump() {
	defer c.conn.Close()
	for raw := range c.send {
		if err := c.conn.WriteMessage(websocket.TextMessage, raw); err != nil {
			return
		}
	}
}

// teardown runs when the read loop exits. A seated player is handed to the
// AI substitute and any response the seat owes is answered on its behalf, so
// the game keeps moving without them.
func (c *client) teardown() {
	c.conn.Close()
	if c.game != nil {
		c.game.Unsubscribe(c.handle)
		if c.seat != game.NoOwner {
			if err := c.game.SetPlayerAI(c.seat, true); err == nil {
				c.gw.logger.Info("player disconnected, AI substituted",
					zap.String("game_id", c.game.ID()),
					zap.Int("seat", c.seat),
				)
				c.drainResponses()
			}
		}
	}
	c.mu.Lock()
	c.closed = true
	close(c.send)
	c.mu.Unlock()
}

// drainResponses auto-responds for the departed seat until it owes nothing,
// so an open challenge never waits on a disconnected responder.
func (c *client) drainResponses() {
	for i := 0; i < maxAutoResponses; i++ {
		if err := c.game.AutoRespond(c.seat); err != nil {
			return
		}
	}
}

func (c *client) reply(r Reply) {
	raw, err := json.Marshal(r)
	if err != nil {
		c.gw.logger.Error("marshal reply", zap.Error(err))
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	select {
	case c.send <- raw:
	default:
		// slow client, drop the frame rather than stall the game
	}
}

func (c *client) fail(err error) {
	c.reply(Reply{Type: "error", Error: err.Error()})
}

func (c *client) handleIntent(intent Intent) {
	switch intent.Type {
	case "server_info":
		c.reply(Reply{Type: "server_info", Data: c.gw.manager.Info()})

	case "list_games":
		c.reply(Reply{Type: "game_list", Data: c.gw.manager.ListGames()})

	case "create_game":
		g, err := c.gw.manager.CreateGame(intent.GameName, intent.Name)
		if err != nil {
			c.fail(err)
			return
		}
		c.attach(g, 0)

	case "join_game":
		g, seat, err := c.gw.manager.JoinGame(intent.GameID, intent.Name)
		if err != nil {
			c.fail(err)
			return
		}
		c.attach(g, seat)

	case "watch_game":
		g, ok := c.gw.manager.GetGame(intent.GameID)
		if !ok {
			c.fail(&game.BadGameError{GameID: intent.GameID})
			return
		}
		c.attach(g, game.NoOwner)

	case "game_view":
		if c.requireGame() {
			c.reply(Reply{Type: "game_view", Data: c.game.PublicView()})
		}

	case "private_view":
		if c.requireSeat() {
			view, err := c.game.PrivateView(c.seat)
			if err != nil {
				c.fail(err)
				return
			}
			c.reply(Reply{Type: "private_view", Data: view})
		}

	case "start_game":
		c.act(func() error { return c.game.Start(c.seat) })

	case "draw_card":
		c.act(func() error { return c.game.Draw(c.seat, intent.Count, intent.Reveal) })

	case "play_card":
		target := game.NoOwner
		if intent.Target != nil {
			target = *intent.Target
		}
		c.act(func() error { return c.game.Play(c.seat, intent.CardID, target) })

	case "discard_card":
		c.act(func() error { return c.game.Discard(c.seat, intent.CardID) })

	case "pass":
		c.act(func() error { return c.game.Pass(c.seat) })

	case "finish_turn":
		c.act(func() error { return c.game.FinishTurn(c.seat) })

	case "pick_from_selection":
		c.act(func() error { return c.game.PickFromSelection(c.seat, intent.CardID) })

	case "cancel_card":
		c.act(func() error { return c.game.Cancel(c.seat) })

	case "set_ai":
		c.act(func() error { return c.game.SetPlayerAI(c.seat, intent.AI) })

	default:
		c.reply(Reply{Type: "error", Error: "unknown intent type: " + intent.Type})
	}
}

// attach binds this client to a game, replays the history it missed and
// starts forwarding the live stream.
func (c *client) attach(g *game.Game, seat int) {
	if c.game != nil {
		c.game.Unsubscribe(c.handle)
	}
	c.game = g
	c.seat = seat

	for _, msg := range g.History(seat) {
		c.reply(Reply{Type: "event", Data: msg})
	}
	events, handle := g.Subscribe(seat)
	c.handle = handle
	go func() {
		for msg := range events {
			c.reply(Reply{Type: "event", Data: msg})
		}
	}()

	c.reply(Reply{Type: "joined", Seat: &seat, Data: g.PublicView()})
}

func (c *client) requireGame() bool {
	if c.game == nil {
		c.reply(Reply{Type: "error", Error: "not attached to a game"})
		return false
	}
	return true
}

func (c *client) requireSeat() bool {
	if !c.requireGame() {
		return false
	}
	if c.seat == game.NoOwner {
		c.reply(Reply{Type: "error", Error: "spectators cannot act"})
		return false
	}
	return true
}

func (c *client) act(fn func() error) {
	if !c.requireSeat() {
		return
	}
	if err := fn(); err != nil {
		c.fail(err)
		return
	}
	c.reply(Reply{Type: "ok"})
}
