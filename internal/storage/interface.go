package storage

import (
	"context"

	"github.com/rzclan/warbot/internal/model"
)

// Storage defines the interface for data persistence. Each player is
// one document; batch operations are atomic so a reader never observes
// a half-reset roster.
type Storage interface {
	// Player operations
	SavePlayer(ctx context.Context, player *model.Player) error
	GetPlayer(ctx context.Context, id model.PlayerID) (*model.Player, error)
	GetPlayerByWaID(ctx context.Context, waID string) (*model.Player, error)
	ListPlayers(ctx context.Context) ([]*model.Player, error)
	DeletePlayer(ctx context.Context, id model.PlayerID) error

	// Atomic roster-wide batches
	ResetWarCycle(ctx context.Context) error
	ResetAllWarnings(ctx context.Context) error
	ReplaceAllPlayers(ctx context.Context, players []*model.Player) error

	// Hall of fame
	IncrementHallOfFameWins(ctx context.Context, name string) error
	ListHallOfFame(ctx context.Context) ([]*model.HallOfFameEntry, error)

	// Backup snapshot (single document, overwritten each cycle)
	SaveBackup(ctx context.Context, backup *model.Backup) error
	GetBackup(ctx context.Context) (*model.Backup, error)

	// Ping reports whether the backing store is reachable
	Ping(ctx context.Context) error
}
