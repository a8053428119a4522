package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gorilla/websocket"
	"github.com/spf13/cobra"
)

func newEventsCmd() *cobra.Command {
	var (
		playerID   string
		name       string
		power      int
		league     string
		room       string
		jsonOutput bool
	)

	cmd := &cobra.Command{
		Use:   "events",
		Short: "Stream events from the websocket gateway",
		Long: `Connect to the websocket gateway and stream events in real-time.

With --id the connection announces itself as an online player before
streaming. With --room it also joins a chat room and receives that
room's history and messages.

Events include:
  - presence:update: Online player list changed
  - chat:history: Room history replay after joining
  - chat:msg: Chat message in a joined room
  - duel:queued: Duel queue acknowledgement
  - duel:state: Duel state update

Press Ctrl+C to disconnect.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return streamEvents(playerID, name, power, league, room, jsonOutput)
		},
	}

	cmd.Flags().StringVar(&playerID, "id", "", "Announce presence with this player id")
	cmd.Flags().StringVar(&name, "name", "", "Display name to announce (with --id)")
	cmd.Flags().IntVar(&power, "power", 0, "Power rating to announce (with --id)")
	cmd.Flags().StringVar(&league, "league", "", "League to announce (with --id)")
	cmd.Flags().StringVar(&room, "room", "", "Chat room to join")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output events as JSON lines")

	return cmd
}

// envelope mirrors the gateway's wire format
type envelope struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data"`
}

func streamEvents(playerID, name string, power int, league, room string, jsonOutput bool) error {
	url := websocketURL(cfg.ServerURL) + "/ws"

	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		return fmt.Errorf("connection failed: %w", err)
	}
	defer func() { _ = conn.Close() }()

	if playerID != "" {
		hello := map[string]any{"playerId": playerID}
		if name != "" {
			hello["name"] = name
		}
		if power > 0 {
			hello["power"] = power
		}
		if league != "" {
			hello["league"] = league
		}
		if err := writeEvent(conn, "presence:hello", hello); err != nil {
			return err
		}
	}

	if room != "" {
		if err := writeEvent(conn, "chat:join", map[string]any{"roomId": room}); err != nil {
			return err
		}
	}

	// Handle interrupt
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		_ = conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
			time.Now().Add(time.Second))
		_ = conn.Close()
	}()

	// Keep presence fresh while streaming
	if playerID != "" {
		ticker := time.NewTicker(30 * time.Second)
		defer ticker.Stop()
		go func() {
			for range ticker.C {
				_ = writeEvent(conn, "presence:ping", map[string]any{"playerId": playerID})
			}
		}()
	}

	if !jsonOutput {
		fmt.Println("Connected")
	}

	for {
		var env envelope
		if err := conn.ReadJSON(&env); err != nil {
			if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				if !jsonOutput {
					fmt.Println("\nDisconnected")
				}
				return nil
			}
			if strings.Contains(err.Error(), "use of closed network connection") {
				if !jsonOutput {
					fmt.Println("\nDisconnected")
				}
				return nil
			}
			return fmt.Errorf("stream error: %w", err)
		}
		printEvent(env, jsonOutput)
	}
}

func writeEvent(conn *websocket.Conn, event string, data any) error {
	payload, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("failed to marshal %s: %w", event, err)
	}
	if err := conn.WriteJSON(envelope{Event: event, Data: payload}); err != nil {
		return fmt.Errorf("failed to send %s: %w", event, err)
	}
	return nil
}

func printEvent(env envelope, jsonOutput bool) {
	now := time.Now()

	if jsonOutput {
		line := map[string]any{
			"time":  now,
			"event": env.Event,
			"data":  env.Data,
		}
		data, _ := json.Marshal(line)
		fmt.Println(string(data))
	} else {
		timestamp := now.Format("2006-01-02 15:04:05")
		// Truncate data if it's too long for display
		display := string(env.Data)
		if len(display) > 100 {
			display = display[:100] + "..."
		}
		display = strings.ReplaceAll(display, "\n", " ")
		fmt.Printf("[%s] %s: %s\n", timestamp, env.Event, display)
	}
}

func websocketURL(serverURL string) string {
	url := strings.TrimSuffix(serverURL, "/")
	switch {
	case strings.HasPrefix(url, "https://"):
		return "wss://" + strings.TrimPrefix(url, "https://")
	case strings.HasPrefix(url, "http://"):
		return "ws://" + strings.TrimPrefix(url, "http://")
	default:
		return url
	}
}
