package redis

import (
	"fmt"

	"github.com/zhuravskayyar/cardastica-server/internal/model"
)

// Key prefix for all presence and chat data
const keyPrefix = "cardastica"

// presenceKey returns the Redis key for one player's presence record
func presenceKey(id model.PlayerID) string {
	return fmt.Sprintf("%s:presence:%s", keyPrefix, id)
}

// presenceIndexKey returns the Redis key for the SET of tracked player ids
func presenceIndexKey() string {
	return fmt.Sprintf("%s:idx:presence", keyPrefix)
}

// roomKey returns the Redis key for a room's history list
func roomKey(room model.RoomID) string {
	return fmt.Sprintf("%s:chat:%s", keyPrefix, room)
}
