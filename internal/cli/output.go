package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"time"
)

// Output handles formatting output based on the configured format
type Output struct {
	format string
}

// NewOutput creates a new Output formatter
func NewOutput(format string) *Output {
	return &Output{format: format}
}

// Print outputs data in the configured format
func (o *Output) Print(data any) {
	if o.format == "json" {
		o.printJSON(data)
	} else {
		o.printText(data)
	}
}

// PrintError outputs an error
func (o *Output) PrintError(err error) {
	if o.format == "json" {
		errData := map[string]any{
			"error": map[string]string{
				"message": err.Error(),
			},
		}
		data, _ := json.Marshal(errData)
		fmt.Fprintln(os.Stderr, string(data))
	} else {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
	}
}

func (o *Output) printJSON(data any) {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	_ = enc.Encode(data)
}

func (o *Output) printText(data any) {
	switch v := data.(type) {
	case OnlineList:
		o.printOnlineList(v)
	case PlayerResult:
		o.printPlayerResult(v)
	case HealthResult:
		o.printHealthResult(v)
	default:
		// Fallback to JSON for unknown types
		o.printJSON(data)
	}
}

// OnlinePlayer response type (matches API)
type OnlinePlayer struct {
	PlayerID      string  `json:"playerId"`
	Name          string  `json:"name"`
	Power         *int    `json:"power"`
	League        *string `json:"league"`
	Avatar        string  `json:"avatar"`
	Level         int     `json:"level"`
	Title         string  `json:"title"`
	LastSeenMsAgo int64   `json:"lastSeenMsAgo"`
}

// OnlineList response type
type OnlineList struct {
	OK    bool           `json:"ok"`
	Count int            `json:"count"`
	List  []OnlinePlayer `json:"list"`
}

// PlayerDetail extends OnlinePlayer with the full profile
type PlayerDetail struct {
	OnlinePlayer
	Profile json.RawMessage `json:"profile"`
}

// PlayerResult response type
type PlayerResult struct {
	OK     bool          `json:"ok"`
	Player *PlayerDetail `json:"player"`
}

// HealthResult response type
type HealthResult struct {
	Status string `json:"status"`
}

func (o *Output) printOnlineList(l OnlineList) {
	fmt.Printf("Online (%d):\n", l.Count)
	for _, p := range l.List {
		power := "-"
		if p.Power != nil {
			power = fmt.Sprintf("%d", *p.Power)
		}
		league := "-"
		if p.League != nil {
			league = *p.League
		}
		ago := time.Duration(p.LastSeenMsAgo) * time.Millisecond
		fmt.Printf("  - %s (%s) power=%s league=%s seen %s ago\n",
			p.Name, p.PlayerID, power, league, ago.Round(time.Second))
	}
}

func (o *Output) printPlayerResult(r PlayerResult) {
	if r.Player == nil {
		fmt.Println("Player not found")
		return
	}
	p := r.Player
	fmt.Printf("Player: %s (%s)\n", p.Name, p.PlayerID)
	fmt.Printf("Level: %d\n", p.Level)
	if p.Title != "" {
		fmt.Printf("Title: %s\n", p.Title)
	}
	if p.Power != nil {
		fmt.Printf("Power: %d\n", *p.Power)
	}
	if p.League != nil {
		fmt.Printf("League: %s\n", *p.League)
	}
	fmt.Printf("Last seen: %s ago\n",
		(time.Duration(p.LastSeenMsAgo) * time.Millisecond).Round(time.Second))
	if len(p.Profile) > 0 {
		fmt.Println("Profile:")
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("  ", "  ")
		fmt.Print("  ")
		_ = enc.Encode(p.Profile)
	}
}

func (o *Output) printHealthResult(h HealthResult) {
	fmt.Printf("Status: %s\n", h.Status)
}
