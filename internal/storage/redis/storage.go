package redis

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/zhuravskayyar/cardastica-server/internal/model"
	"github.com/zhuravskayyar/cardastica-server/internal/storage"
)

// Storage is a Redis-backed implementation of the storage interface.
// Presence records are JSON values indexed by a set of player ids; room
// histories are native lists trimmed on every append.
type Storage struct {
	client *redis.Client
	cfg    Config
}

// New creates a new Redis storage instance
func New(cfg Config) (*Storage, error) {
	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, err
	}

	opts.PoolSize = cfg.PoolSize
	opts.MinIdleConns = cfg.MinIdleConns

	client := redis.NewClient(opts)

	// Verify connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, err
	}

	return &Storage{
		client: client,
		cfg:    cfg,
	}, nil
}

// NewWithClient creates a Redis storage with an existing client (for testing)
func NewWithClient(client *redis.Client, cfg Config) *Storage {
	return &Storage{
		client: client,
		cfg:    cfg,
	}
}

// Close closes the Redis connection
func (s *Storage) Close() error {
	return s.client.Close()
}

// Ensure Storage implements the interface
var _ storage.Storage = (*Storage)(nil)

// Presence operations

func (s *Storage) SavePresence(ctx context.Context, record *model.PresenceRecord) error {
	data, err := json.Marshal(record)
	if err != nil {
		return err
	}

	pipe := s.client.Pipeline()
	pipe.Set(ctx, presenceKey(record.PlayerID), data, 0)
	pipe.SAdd(ctx, presenceIndexKey(), string(record.PlayerID))
	_, err = pipe.Exec(ctx)
	return err
}

func (s *Storage) GetPresence(ctx context.Context, id model.PlayerID) (*model.PresenceRecord, error) {
	data, err := s.client.Get(ctx, presenceKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, model.ErrPlayerNotFound
		}
		return nil, err
	}

	var record model.PresenceRecord
	if err := json.Unmarshal(data, &record); err != nil {
		return nil, err
	}
	return &record, nil
}

func (s *Storage) DeletePresence(ctx context.Context, id model.PlayerID) error {
	pipe := s.client.Pipeline()
	pipe.Del(ctx, presenceKey(id))
	pipe.SRem(ctx, presenceIndexKey(), string(id))
	_, err := pipe.Exec(ctx)
	return err
}

func (s *Storage) ListPresence(ctx context.Context) ([]*model.PresenceRecord, error) {
	ids, err := s.client.SMembers(ctx, presenceIndexKey()).Result()
	if err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return []*model.PresenceRecord{}, nil
	}

	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = presenceKey(model.PlayerID(id))
	}

	values, err := s.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, err
	}

	records := make([]*model.PresenceRecord, 0, len(values))
	for i, value := range values {
		raw, ok := value.(string)
		if !ok {
			// Index entry without a value key; drop the stale id
			_ = s.client.SRem(ctx, presenceIndexKey(), ids[i]).Err()
			continue
		}
		var record model.PresenceRecord
		if err := json.Unmarshal([]byte(raw), &record); err != nil {
			return nil, err
		}
		records = append(records, &record)
	}
	return records, nil
}

// Chat operations

func (s *Storage) AppendMessage(ctx context.Context, room model.RoomID, msg model.ChatMessage, maxLen int) error {
	data, err := json.Marshal(msg)
	if err != nil {
		return err
	}

	pipe := s.client.Pipeline()
	pipe.RPush(ctx, roomKey(room), data)
	if maxLen > 0 {
		pipe.LTrim(ctx, roomKey(room), int64(-maxLen), -1)
	}
	_, err = pipe.Exec(ctx)
	return err
}

func (s *Storage) RoomHistory(ctx context.Context, room model.RoomID, limit int) ([]model.ChatMessage, error) {
	start := int64(0)
	if limit > 0 {
		start = int64(-limit)
	}

	values, err := s.client.LRange(ctx, roomKey(room), start, -1).Result()
	if err != nil {
		return nil, err
	}

	history := make([]model.ChatMessage, 0, len(values))
	for _, value := range values {
		var msg model.ChatMessage
		if err := json.Unmarshal([]byte(value), &msg); err != nil {
			return nil, err
		}
		history = append(history, msg)
	}
	return history, nil
}
