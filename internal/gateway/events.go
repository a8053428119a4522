package gateway

import "encoding/json"

// Inbound and outbound event names. The wire format is a JSON envelope
// {"event": name, "data": payload} over a single websocket connection.
const (
	EventPresenceHello  = "presence:hello"
	EventPresencePing   = "presence:ping"
	EventPresenceUpdate = "presence:update"

	EventChatJoin    = "chat:join"
	EventChatMsg     = "chat:msg"
	EventChatHistory = "chat:history"

	EventDuelQueue  = "duel:queue"
	EventDuelQueued = "duel:queued"
	EventDuelPlay   = "duel:play"
	EventDuelState  = "duel:state"
)

// Envelope is the framing for every event in both directions
type Envelope struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data"`
}

// helloPayload carries presence:hello. Display fields stay untyped; the
// normalizer owns coercion of untrusted values.
type helloPayload struct {
	PlayerID string `json:"playerId"`
	Name     any    `json:"name"`
	Power    any    `json:"power"`
	League   any    `json:"league"`
	Profile  any    `json:"profile"`
}

// pingPayload carries presence:ping; absent fields leave the record as-is
type pingPayload struct {
	PlayerID string `json:"playerId"`
	Power    any    `json:"power"`
	League   any    `json:"league"`
	Profile  any    `json:"profile"`
}

type joinPayload struct {
	RoomID string `json:"roomId"`
}

type msgPayload struct {
	RoomID   string `json:"roomId"`
	PlayerID string `json:"playerId"`
	Text     any    `json:"text"`
}

type playPayload struct {
	MatchID string `json:"matchId"`
}

// marshalEvent frames an event for the wire
func marshalEvent(event string, data any) ([]byte, error) {
	raw, err := json.Marshal(data)
	if err != nil {
		return nil, err
	}
	return json.Marshal(Envelope{Event: event, Data: raw})
}
