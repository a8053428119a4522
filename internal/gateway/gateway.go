// Package gateway is the boundary between the websocket transport and the
// presence and chat state: it decodes named inbound events, invokes the two
// services, and fans results back out to one connection or to a room.
package gateway

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/zhuravskayyar/cardastica-server/internal/model"
	"github.com/zhuravskayyar/cardastica-server/internal/services/chat"
	"github.com/zhuravskayyar/cardastica-server/internal/services/presence"
)

// Config holds gateway behavior settings
type Config struct {
	// AllowedOrigin restricts browser callers; "*" allows any origin
	AllowedOrigin string
	// BroadcastInterval is the cadence of the full presence refresh sent to
	// every client regardless of activity
	BroadcastInterval time.Duration
	// RemoveOnDisconnect drops a player's presence as soon as their
	// connection closes instead of waiting out the TTL
	RemoveOnDisconnect bool
}

// DefaultConfig returns the standard gateway settings
func DefaultConfig() Config {
	return Config{
		AllowedOrigin:     "*",
		BroadcastInterval: 10 * time.Second,
	}
}

// Gateway wires inbound events to the presence registry and chat buffer and
// owns the periodic presence broadcast.
type Gateway struct {
	hub      *Hub
	presence *presence.Registry
	chat     *chat.Service
	logger   *slog.Logger
	cfg      Config
	upgrader websocket.Upgrader

	done chan struct{}
	wg   sync.WaitGroup
}

// New creates a gateway around the two state services
func New(registry *presence.Registry, chatService *chat.Service, cfg Config, logger *slog.Logger) *Gateway {
	if cfg.BroadcastInterval == 0 {
		cfg.BroadcastInterval = DefaultConfig().BroadcastInterval
	}
	logger = logger.With(slog.String("component", "gateway"))

	g := &Gateway{
		hub:      NewHub(logger),
		presence: registry,
		chat:     chatService,
		logger:   logger,
		cfg:      cfg,
		done:     make(chan struct{}),
	}
	g.upgrader = websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin:     g.checkOrigin,
	}
	return g
}

// Hub exposes the connection hub, mainly for tests and diagnostics
func (g *Gateway) Hub() *Hub {
	return g.hub
}

func (g *Gateway) checkOrigin(r *http.Request) bool {
	if g.cfg.AllowedOrigin == "" || g.cfg.AllowedOrigin == "*" {
		return true
	}
	origin := r.Header.Get("Origin")
	// Non-browser clients send no origin
	return origin == "" || origin == g.cfg.AllowedOrigin
}

// Run starts the periodic presence broadcast. The ticker is best-effort
// background refresh, not a liveness requirement; Stop ends it.
func (g *Gateway) Run() {
	g.wg.Add(1)
	go func() {
		defer g.wg.Done()
		ticker := time.NewTicker(g.cfg.BroadcastInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				g.broadcastPresence(context.Background())
			case <-g.done:
				return
			}
		}
	}()
}

// Stop ends the periodic broadcast and disconnects every client
func (g *Gateway) Stop() {
	close(g.done)
	g.wg.Wait()
	g.hub.CloseAll()
	g.logger.Info("gateway stopped")
}

// ServeWS upgrades an HTTP request to a websocket connection and starts the
// connection's read and write pumps.
func (g *Gateway) ServeWS(w http.ResponseWriter, r *http.Request) {
	conn, err := g.upgrader.Upgrade(w, r, nil)
	if err != nil {
		g.logger.Warn("websocket upgrade failed", slog.Any("error", err))
		return
	}

	client := newClient(g, conn)
	g.hub.Register(client)

	go client.writePump()
	go client.readPump()
}

// handleFrame decodes one inbound envelope and dispatches it. Malformed
// frames are logged and dropped; these are fire-and-forget events with no
// failure acknowledgment.
func (g *Gateway) handleFrame(c *Client, frame []byte) {
	var env Envelope
	if err := json.Unmarshal(frame, &env); err != nil {
		g.logger.Debug("malformed frame dropped", slog.String("conn", c.id))
		return
	}

	ctx := context.Background()

	switch env.Event {
	case EventPresenceHello:
		g.handleHello(ctx, c, env.Data)
	case EventPresencePing:
		g.handlePing(ctx, c, env.Data)
	case EventChatJoin:
		g.handleChatJoin(ctx, c, env.Data)
	case EventChatMsg:
		g.handleChatMsg(ctx, c, env.Data)
	case EventDuelQueue:
		// Matchmaking is not implemented; acknowledge so clients can queue UI
		g.sendEvent(c, EventDuelQueued, map[string]bool{"ok": true})
	case EventDuelPlay:
		g.handleDuelPlay(c, env.Data)
	default:
		g.logger.Debug("unknown event ignored",
			slog.String("event", env.Event),
			slog.String("conn", c.id))
	}
}

func (g *Gateway) handleHello(ctx context.Context, c *Client, data json.RawMessage) {
	var p helloPayload
	if err := json.Unmarshal(data, &p); err != nil {
		return
	}

	err := g.presence.Hello(ctx, presence.HelloInput{
		PlayerID:      p.PlayerID,
		Name:          p.Name,
		Power:         p.Power,
		League:        p.League,
		Profile:       p.Profile,
		ConnectionRef: c.id,
	})
	if err != nil {
		g.logger.Error("presence hello failed", slog.Any("error", err))
		return
	}
	c.setPlayerID(p.PlayerID)

	snap, err := g.presence.Snapshot(ctx)
	if err != nil {
		g.logger.Error("presence snapshot failed", slog.Any("error", err))
		return
	}
	frame, err := marshalEvent(EventPresenceUpdate, snap)
	if err != nil {
		return
	}
	// Reply to the caller first, then refresh everyone
	c.Send(frame)
	g.hub.BroadcastAll(frame)
}

func (g *Gateway) handlePing(ctx context.Context, c *Client, data json.RawMessage) {
	var p pingPayload
	if err := json.Unmarshal(data, &p); err != nil {
		return
	}
	err := g.presence.Ping(ctx, presence.PingInput{
		PlayerID: p.PlayerID,
		Power:    p.Power,
		League:   p.League,
		Profile:  p.Profile,
	})
	if err != nil {
		g.logger.Error("presence ping failed", slog.Any("error", err))
	}
}

func (g *Gateway) handleChatJoin(ctx context.Context, c *Client, data json.RawMessage) {
	var p joinPayload
	if err := json.Unmarshal(data, &p); err != nil {
		return
	}

	room, history, err := g.chat.Join(ctx, p.RoomID)
	if err != nil {
		g.logger.Error("chat join failed", slog.Any("error", err))
		return
	}
	if room == "" {
		return
	}

	g.hub.Subscribe(c, room)
	g.sendEvent(c, EventChatHistory, history)
}

func (g *Gateway) handleChatMsg(ctx context.Context, c *Client, data json.RawMessage) {
	var p msgPayload
	if err := json.Unmarshal(data, &p); err != nil {
		return
	}

	room, msg, err := g.chat.Post(ctx, p.RoomID, p.PlayerID, p.Text)
	if err != nil {
		g.logger.Error("chat post failed", slog.Any("error", err))
		return
	}
	if msg == nil {
		return
	}

	frame, err := marshalEvent(EventChatMsg, msg)
	if err != nil {
		return
	}
	g.hub.BroadcastRoom(room, frame)
}

func (g *Gateway) handleDuelPlay(c *Client, data json.RawMessage) {
	var p playPayload
	if err := json.Unmarshal(data, &p); err != nil {
		return
	}
	if p.MatchID == "" {
		return
	}
	// Duel state is a stub; fan the acknowledgment out to the match room
	frame, err := marshalEvent(EventDuelState, map[string]bool{"ok": true})
	if err != nil {
		return
	}
	g.hub.BroadcastRoom(model.RoomID(p.MatchID), frame)
}

// handleDisconnect runs when a connection's read pump exits
func (g *Gateway) handleDisconnect(c *Client) {
	g.hub.Unregister(c)

	if g.cfg.RemoveOnDisconnect {
		if id := c.PlayerID(); id != "" {
			if err := g.presence.Remove(context.Background(), id); err != nil {
				g.logger.Error("presence removal on disconnect failed", slog.Any("error", err))
			}
		}
	}
}

// broadcastPresence pushes a fresh snapshot to every client so idle views
// self-correct as other players expire.
func (g *Gateway) broadcastPresence(ctx context.Context) {
	if g.hub.ClientCount() == 0 {
		return
	}
	snap, err := g.presence.Snapshot(ctx)
	if err != nil {
		g.logger.Error("periodic snapshot failed", slog.Any("error", err))
		return
	}
	frame, err := marshalEvent(EventPresenceUpdate, snap)
	if err != nil {
		return
	}
	g.hub.BroadcastAll(frame)
}

func (g *Gateway) sendEvent(c *Client, event string, data any) {
	frame, err := marshalEvent(event, data)
	if err != nil {
		g.logger.Error("event marshal failed", slog.String("event", event), slog.Any("error", err))
		return
	}
	c.Send(frame)
}
