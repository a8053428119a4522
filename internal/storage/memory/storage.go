package memory

import (
	"context"
	"sync"

	"github.com/zhuravskayyar/cardastica-server/internal/model"
	"github.com/zhuravskayyar/cardastica-server/internal/storage"
)

// Storage is an in-memory implementation of the storage interface
type Storage struct {
	mu sync.RWMutex

	presence map[model.PlayerID]*model.PresenceRecord
	rooms    map[model.RoomID][]model.ChatMessage
}

// New creates a new in-memory storage instance
func New() *Storage {
	return &Storage{
		presence: make(map[model.PlayerID]*model.PresenceRecord),
		rooms:    make(map[model.RoomID][]model.ChatMessage),
	}
}

// Ensure Storage implements the interface
var _ storage.Storage = (*Storage)(nil)

// Presence operations

func (s *Storage) SavePresence(ctx context.Context, record *model.PresenceRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.presence[record.PlayerID] = record.Clone()
	return nil
}

func (s *Storage) GetPresence(ctx context.Context, id model.PlayerID) (*model.PresenceRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	record, ok := s.presence[id]
	if !ok {
		return nil, model.ErrPlayerNotFound
	}
	return record.Clone(), nil
}

func (s *Storage) DeletePresence(ctx context.Context, id model.PlayerID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.presence, id)
	return nil
}

func (s *Storage) ListPresence(ctx context.Context) ([]*model.PresenceRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	records := make([]*model.PresenceRecord, 0, len(s.presence))
	for _, record := range s.presence {
		records = append(records, record.Clone())
	}
	return records, nil
}

// Chat operations

func (s *Storage) AppendMessage(ctx context.Context, room model.RoomID, msg model.ChatMessage, maxLen int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	history := append(s.rooms[room], msg)
	if maxLen > 0 && len(history) > maxLen {
		history = history[len(history)-maxLen:]
	}
	s.rooms[room] = history
	return nil
}

func (s *Storage) RoomHistory(ctx context.Context, room model.RoomID, limit int) ([]model.ChatMessage, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	history := s.rooms[room]
	if limit > 0 && len(history) > limit {
		history = history[len(history)-limit:]
	}
	out := make([]model.ChatMessage, len(history))
	copy(out, history)
	return out, nil
}
