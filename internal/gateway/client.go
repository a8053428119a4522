package gateway

import (
	"crypto/rand"
	"encoding/hex"
	"log/slog"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

const (
	// Time allowed to write a frame to the peer
	writeWait = 10 * time.Second

	// Read deadline; reset on every pong
	pongWait = 60 * time.Second

	// Ping interval, inside the pong window
	pingPeriod = 54 * time.Second

	// Largest inbound frame we accept
	maxFrameSize = 16 * 1024

	// Buffer size for outgoing frames
	sendBufferSize = 256
)

// Client is one websocket connection handled by the gateway
type Client struct {
	id      string
	gateway *Gateway
	conn    *websocket.Conn
	send    chan []byte

	mu       sync.Mutex
	playerID string
	closed   bool
}

func newClient(g *Gateway, conn *websocket.Conn) *Client {
	return &Client{
		id:      newConnID(),
		gateway: g,
		conn:    conn,
		send:    make(chan []byte, sendBufferSize),
	}
}

// newConnID generates an opaque connection reference for diagnostics
func newConnID() string {
	buf := make([]byte, 8)
	_, _ = rand.Read(buf)
	return "c_" + hex.EncodeToString(buf)
}

// setPlayerID remembers the last player announced on this connection
func (c *Client) setPlayerID(id string) {
	c.mu.Lock()
	c.playerID = id
	c.mu.Unlock()
}

// PlayerID returns the last player announced on this connection
func (c *Client) PlayerID() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.playerID
}

// Send queues a frame for this client only. It reports false when the frame
// was dropped because the client's buffer is full. Frames queued after the
// client closed are discarded; closeSend sets the flag under the same mutex,
// so a send can never hit a closed channel.
func (c *Client) Send(frame []byte) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return true
	}
	select {
	case c.send <- frame:
		return true
	default:
		return false
	}
}

func (c *Client) closeSend() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	c.closed = true
	close(c.send)
}

// readPump reads inbound frames and dispatches them until the connection
// drops. Runs as the connection's owning goroutine for reads.
func (c *Client) readPump() {
	defer func() {
		c.gateway.handleDisconnect(c)
		_ = c.conn.Close()
	}()

	c.conn.SetReadLimit(maxFrameSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		messageType, frame, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure, websocket.CloseAbnormalClosure) {
				c.gateway.logger.Warn("websocket read error",
					slog.String("conn", c.id),
					slog.Any("error", err))
			}
			return
		}
		if messageType == websocket.TextMessage {
			c.gateway.handleFrame(c, frame)
		}
	}
}

// writePump drains the send channel and keeps the connection alive with
// protocol-level pings.
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()

	for {
		select {
		case frame, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				// Hub closed the channel
				_ = c.conn.WriteMessage(websocket.CloseMessage,
					websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, frame); err != nil {
				return
			}

		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
