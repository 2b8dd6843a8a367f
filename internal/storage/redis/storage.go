package redis

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/rzclan/warbot/internal/model"
	"github.com/rzclan/warbot/internal/storage"
)

// Storage is a Redis-backed implementation of the storage interface
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

// Player operations

func (s *Storage) SavePlayer(ctx context.Context, player *model.Player) error {
	data, err := json.Marshal(player)
	if err != nil {
		return err
	}

	// Pipeline keeps document, index and roster set in sync
	pipe := s.client.TxPipeline()
	pipe.Set(ctx, playerKey(player.ID), data, 0)
	pipe.SAdd(ctx, playerSetKey(), string(player.ID))
	if player.WhatsappID != "" {
		pipe.Set(ctx, waIndexKey(player.WhatsappID), string(player.ID), 0)
	}
	_, err = pipe.Exec(ctx)
	return err
}

func (s *Storage) GetPlayer(ctx context.Context, id model.PlayerID) (*model.Player, error) {
	data, err := s.client.Get(ctx, playerKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, model.ErrPlayerNotFound
		}
		return nil, err
	}

	var player model.Player
	if err := json.Unmarshal(data, &player); err != nil {
		return nil, err
	}
	return &player, nil
}

func (s *Storage) GetPlayerByWaID(ctx context.Context, waID string) (*model.Player, error) {
	idStr, err := s.client.Get(ctx, waIndexKey(waID)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, model.ErrPlayerNotFound
		}
		return nil, err
	}
	return s.GetPlayer(ctx, model.PlayerID(idStr))
}

func (s *Storage) ListPlayers(ctx context.Context) ([]*model.Player, error) {
	players, err := s.readAllPlayers(ctx)
	if err != nil {
		return nil, err
	}
	sortPlayersByName(players)
	return players, nil
}

func (s *Storage) readAllPlayers(ctx context.Context) ([]*model.Player, error) {
	ids, err := s.client.SMembers(ctx, playerSetKey()).Result()
	if err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return []*model.Player{}, nil
	}

	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = playerKey(model.PlayerID(id))
	}

	values, err := s.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, err
	}

	players := make([]*model.Player, 0, len(values))
	for _, val := range values {
		if val == nil {
			continue // stale roster set entry
		}
		var player model.Player
		if err := json.Unmarshal([]byte(val.(string)), &player); err != nil {
			continue // skip invalid data
		}
		players = append(players, &player)
	}
	return players, nil
}

func (s *Storage) DeletePlayer(ctx context.Context, id model.PlayerID) error {
	// Fetch first so the whatsapp index entry can be removed too
	player, err := s.GetPlayer(ctx, id)
	if err != nil && !errors.Is(err, model.ErrPlayerNotFound) {
		return err
	}

	pipe := s.client.TxPipeline()
	pipe.Del(ctx, playerKey(id))
	pipe.SRem(ctx, playerSetKey(), string(id))
	if player != nil && player.WhatsappID != "" {
		pipe.Del(ctx, waIndexKey(player.WhatsappID))
	}
	_, err = pipe.Exec(ctx)
	return err
}

// Atomic roster-wide batches

func (s *Storage) ResetWarCycle(ctx context.Context) error {
	players, err := s.readAllPlayers(ctx)
	if err != nil {
		return err
	}

	pipe := s.client.TxPipeline()
	for _, p := range players {
		p.DailyPoints = [model.WarDays]int{}
		p.WarnedAbsences = nil
		p.NavalDefensePoints = 0
		data, err := json.Marshal(p)
		if err != nil {
			return err
		}
		pipe.Set(ctx, playerKey(p.ID), data, 0)
	}
	_, err = pipe.Exec(ctx)
	return err
}

func (s *Storage) ResetAllWarnings(ctx context.Context) error {
	players, err := s.readAllPlayers(ctx)
	if err != nil {
		return err
	}

	pipe := s.client.TxPipeline()
	for _, p := range players {
		p.Warnings = 0
		data, err := json.Marshal(p)
		if err != nil {
			return err
		}
		pipe.Set(ctx, playerKey(p.ID), data, 0)
	}
	_, err = pipe.Exec(ctx)
	return err
}

func (s *Storage) ReplaceAllPlayers(ctx context.Context, players []*model.Player) error {
	existing, err := s.client.SMembers(ctx, playerSetKey()).Result()
	if err != nil {
		return err
	}

	// One transaction: drop the current roster, write the new one
	pipe := s.client.TxPipeline()
	for _, id := range existing {
		pipe.Del(ctx, playerKey(model.PlayerID(id)))
	}
	pipe.Del(ctx, playerSetKey())

	for _, p := range players {
		data, err := json.Marshal(p)
		if err != nil {
			return err
		}
		pipe.Set(ctx, playerKey(p.ID), data, 0)
		pipe.SAdd(ctx, playerSetKey(), string(p.ID))
		if p.WhatsappID != "" {
			pipe.Set(ctx, waIndexKey(p.WhatsappID), string(p.ID), 0)
		}
	}
	_, err = pipe.Exec(ctx)
	return err
}

// Hall of fame

func (s *Storage) IncrementHallOfFameWins(ctx context.Context, name string) error {
	return s.client.ZIncrBy(ctx, hallOfFameKey(), 1, name).Err()
}

func (s *Storage) ListHallOfFame(ctx context.Context) ([]*model.HallOfFameEntry, error) {
	members, err := s.client.ZRevRangeWithScores(ctx, hallOfFameKey(), 0, -1).Result()
	if err != nil {
		return nil, err
	}

	entries := make([]*model.HallOfFameEntry, 0, len(members))
	for _, m := range members {
		name, ok := m.Member.(string)
		if !ok {
			continue
		}
		entries = append(entries, &model.HallOfFameEntry{
			Name: name,
			Wins: int(m.Score),
		})
	}
	return entries, nil
}

// Backup snapshot

func (s *Storage) SaveBackup(ctx context.Context, backup *model.Backup) error {
	data, err := json.Marshal(backup)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, backupKey(), data, 0).Err()
}

func (s *Storage) GetBackup(ctx context.Context) (*model.Backup, error) {
	data, err := s.client.Get(ctx, backupKey()).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, model.ErrBackupNotFound
		}
		return nil, err
	}

	var backup model.Backup
	if err := json.Unmarshal(data, &backup); err != nil {
		return nil, err
	}
	return &backup, nil
}

func (s *Storage) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}
