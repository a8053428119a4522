// Package chat implements the bounded per-room history buffer: join-time
// replay for late joiners and append-and-trim on every post.
package chat

import (
	"context"
	"log/slog"
	"sync"

	"github.com/zhuravskayyar/cardastica-server/internal/dependencies/clock"
	"github.com/zhuravskayyar/cardastica-server/internal/model"
	"github.com/zhuravskayyar/cardastica-server/internal/normalize"
	"github.com/zhuravskayyar/cardastica-server/internal/services/presence"
	"github.com/zhuravskayyar/cardastica-server/internal/storage"
)

const (
	// HistoryCap bounds each room's retained history (FIFO eviction)
	HistoryCap = 200
	// ReplayLimit is how many messages a late joiner receives
	ReplayLimit = 50
	// MaxMessageLen bounds a single message's text
	MaxMessageLen = 240
	// MaxRoomIDLen bounds inbound room identifiers
	MaxRoomIDLen = 64
)

// Service owns the per-room history buffers. Append-and-trim is serialized
// by the service mutex so the cap holds under concurrent posts.
type Service struct {
	storage  storage.Storage
	presence *presence.Registry
	clock    clock.Clock
	logger   *slog.Logger
	mu       sync.Mutex
}

// New creates a new chat service
func New(store storage.Storage, registry *presence.Registry, clk clock.Clock, logger *slog.Logger) *Service {
	return &Service{
		storage:  store,
		presence: registry,
		clock:    clk,
		logger:   logger.With(slog.String("component", "chat")),
	}
}

// Join validates the room id and returns the replay window: the room's most
// recent messages, oldest first. An empty room id yields an empty room id
// and no history; the caller skips the subscription.
func (s *Service) Join(ctx context.Context, roomID string) (model.RoomID, []model.ChatMessage, error) {
	room := normalize.Text(roomID, MaxRoomIDLen)
	if room == "" {
		return "", nil, nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	history, err := s.storage.RoomHistory(ctx, model.RoomID(room), ReplayLimit)
	if err != nil {
		return "", nil, err
	}
	return model.RoomID(room), history, nil
}

// Post appends a message to the room's history, trimming to the cap, and
// returns the stored message for fan-out. Empty room ids or empty text
// (after trimming) are silently ignored and yield a nil message.
func (s *Service) Post(ctx context.Context, roomID, senderID string, text any) (model.RoomID, *model.ChatMessage, error) {
	room := normalize.Text(roomID, MaxRoomIDLen)
	body := normalize.Text(text, MaxMessageLen)
	if room == "" || body == "" {
		return "", nil, nil
	}

	senderName := s.presence.DisplayName(ctx, senderID)

	s.mu.Lock()
	defer s.mu.Unlock()

	msg := model.ChatMessage{
		SenderName: senderName,
		Text:       body,
		SentAtMs:   s.clock.Now().UnixMilli(),
	}
	if err := s.storage.AppendMessage(ctx, model.RoomID(room), msg, HistoryCap); err != nil {
		return "", nil, err
	}

	s.logger.Debug("chat message posted",
		slog.String("room", room),
		slog.String("sender", senderName))
	return model.RoomID(room), &msg, nil
}
