package storage

import (
	"context"

	"github.com/zhuravskayyar/cardastica-server/internal/model"
)

// Storage defines the interface for presence and chat state.
// Implementations hold the data exclusively; all mutation goes through the
// presence and chat services, which serialize compound operations.
type Storage interface {
	// Presence operations
	SavePresence(ctx context.Context, record *model.PresenceRecord) error
	GetPresence(ctx context.Context, id model.PlayerID) (*model.PresenceRecord, error)
	DeletePresence(ctx context.Context, id model.PlayerID) error
	ListPresence(ctx context.Context) ([]*model.PresenceRecord, error)

	// Chat operations. AppendMessage appends to the room's history and trims
	// it to the most recent maxLen entries (FIFO eviction). RoomHistory
	// returns the last limit messages oldest-first; a room with no history
	// yields an empty slice, not an error.
	AppendMessage(ctx context.Context, room model.RoomID, msg model.ChatMessage, maxLen int) error
	RoomHistory(ctx context.Context, room model.RoomID, limit int) ([]model.ChatMessage, error)
}
