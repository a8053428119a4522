package factory

import (
	"errors"
	"io"
	"log/slog"

	"github.com/zhuravskayyar/cardastica-server/internal/dependencies/clock"
	"github.com/zhuravskayyar/cardastica-server/internal/gateway"
	"github.com/zhuravskayyar/cardastica-server/internal/services/chat"
	"github.com/zhuravskayyar/cardastica-server/internal/services/presence"
	"github.com/zhuravskayyar/cardastica-server/internal/storage"
	"github.com/zhuravskayyar/cardastica-server/internal/storage/memory"
	redisstorage "github.com/zhuravskayyar/cardastica-server/internal/storage/redis"
)

// Storage type constants
const (
	StorageTypeMemory = "memory"
	StorageTypeRedis  = "redis"
)

// App contains all wired application components
type App struct {
	Storage storage.Storage
	Clock   clock.Clock

	Presence *presence.Registry
	Chat     *chat.Service
	Gateway  *gateway.Gateway
}

// Config holds configuration for the application factory
type Config struct {
	// Logger is the application logger (optional)
	// If nil, a no-op logger is used
	Logger *slog.Logger
	// StorageType selects the storage backend ("memory" or "redis")
	// If empty, defaults to "memory"
	StorageType string
	// RedisConfig holds Redis connection settings (required if StorageType is "redis")
	RedisConfig *redisstorage.Config
	// PresenceConfig holds the registry settings; zero value uses defaults
	PresenceConfig presence.Config
	// GatewayConfig holds the broadcast gateway settings; zero value uses defaults
	GatewayConfig gateway.Config
}

// New creates a new application with all dependencies wired
func New(cfg Config) (*App, error) {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}

	var store storage.Storage
	storageType := cfg.StorageType
	if storageType == "" {
		storageType = StorageTypeMemory
	}

	switch storageType {
	case StorageTypeMemory:
		store = memory.New()
	case StorageTypeRedis:
		if cfg.RedisConfig == nil {
			return nil, errors.New("RedisConfig required when StorageType is redis")
		}
		redisStore, err := redisstorage.New(*cfg.RedisConfig)
		if err != nil {
			return nil, err
		}
		store = redisStore
	default:
		return nil, errors.New("invalid StorageType: must be 'memory' or 'redis'")
	}

	return newWithDependencies(store, clock.New(), cfg.PresenceConfig, cfg.GatewayConfig, logger), nil
}

// newWithDependencies creates an App with the given dependencies (useful for testing)
func newWithDependencies(store storage.Storage, clk clock.Clock, presenceCfg presence.Config, gatewayCfg gateway.Config, logger *slog.Logger) *App {
	registry := presence.New(store, clk, presenceCfg, logger)
	chatService := chat.New(store, registry, clk, logger)
	gw := gateway.New(registry, chatService, gatewayCfg, logger)

	return &App{
		Storage:  store,
		Clock:    clk,
		Presence: registry,
		Chat:     chatService,
		Gateway:  gw,
	}
}
