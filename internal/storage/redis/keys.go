package redis

import (
	"fmt"

	"github.com/rzclan/warbot/internal/model"
)

// Key prefix for all bot data
const keyPrefix = "warbot"

// playerKey returns the Redis key for a Player document
func playerKey(id model.PlayerID) string {
	return fmt.Sprintf("%s:player:%s", keyPrefix, id)
}

// waIndexKey returns the Redis key for the whatsapp_id -> player_id index
func waIndexKey(waID string) string {
	return fmt.Sprintf("%s:idx:wa:%s", keyPrefix, waID)
}

// playerSetKey returns the Redis key for the SET of all player IDs
func playerSetKey() string {
	return fmt.Sprintf("%s:players", keyPrefix)
}

// hallOfFameKey returns the Redis key for the hall-of-fame sorted set
func hallOfFameKey() string {
	return fmt.Sprintf("%s:hall_of_fame", keyPrefix)
}

// backupKey returns the Redis key for the roster backup snapshot
func backupKey() string {
	return fmt.Sprintf("%s:backup:player_list", keyPrefix)
}
