package model

// ChatMessage is one entry of a room's history. Immutable once created.
// Wire shape matches the broadcast payload: {name, text, ts}.
type ChatMessage struct {
	SenderName string `json:"name"`
	Text       string `json:"text"`
	SentAtMs   int64  `json:"ts"`
}
