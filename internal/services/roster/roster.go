// Package roster owns player lifecycle: registration, profile writes,
// war-cycle bookkeeping and backup snapshots.
package roster

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/rzclan/warbot/internal/dependencies/clock"
	"github.com/rzclan/warbot/internal/model"
	"github.com/rzclan/warbot/internal/storage"
)

type Service struct {
	logger  *slog.Logger
	storage storage.Storage
	clock   clock.Clock
}

func New(logger *slog.Logger, store storage.Storage, clk clock.Clock) *Service {
	return &Service{
		logger:  logger,
		storage: store,
		clock:   clk,
	}
}

// AddPlayer registers a new player. Players created from a WhatsApp
// event reuse their JID as document ID; admin-created records without a
// JID get a generated one. Daily points are pre-seeded so days already
// past in the current war week read as "not yet due".
func (s *Service) AddPlayer(ctx context.Context, whatsappID, name string) (*model.Player, error) {
	taken, err := s.NameTaken(ctx, name)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, model.ErrNameTaken
	}

	id := whatsappID
	if id == "" {
		id = uuid.NewString()
	}
	now := s.clock.Now()
	player := &model.Player{
		ID:           model.PlayerID(id),
		WhatsappID:   whatsappID,
		Name:         name,
		NameLower:    strings.ToLower(name),
		DailyPoints:  model.InitialDailyPoints(now),
		RegisteredAt: now,
	}
	if err := s.storage.SavePlayer(ctx, player); err != nil {
		return nil, fmt.Errorf("adding player %s: %w", name, err)
	}
	s.logger.Debug("player registered", "name", name, "id", id)
	return player, nil
}

// NameTaken reports whether any registered player already uses name,
// case-insensitively
func (s *Service) NameTaken(ctx context.Context, name string) (bool, error) {
	players, err := s.storage.ListPlayers(ctx)
	if err != nil {
		return false, err
	}
	lower := strings.ToLower(name)
	for _, p := range players {
		if p.NameLower == lower {
			return true, nil
		}
	}
	return false, nil
}

// Rename updates a player's display name, rejecting names already in
// use by someone else
func (s *Service) Rename(ctx context.Context, player *model.Player, newName string) error {
	lower := strings.ToLower(newName)
	if lower != player.NameLower {
		taken, err := s.NameTaken(ctx, newName)
		if err != nil {
			return err
		}
		if taken {
			return model.ErrNameTaken
		}
	}
	player.Name = newName
	player.NameLower = lower
	return s.storage.SavePlayer(ctx, player)
}

// ApplyStat validates and persists one stat write on a player. dayIndex
// is only meaningful for war points.
func (s *Service) ApplyStat(ctx context.Context, player *model.Player, kind model.StatKind, value, dayIndex int) error {
	if !kind.Validate(value) {
		return model.ErrInvalidValue
	}
	if err := kind.Apply(player, value, dayIndex); err != nil {
		return err
	}
	return s.storage.SavePlayer(ctx, player)
}

// CreateBackup snapshots the full roster, overwriting the previous
// snapshot
func (s *Service) CreateBackup(ctx context.Context) error {
	players, err := s.storage.ListPlayers(ctx)
	if err != nil {
		return err
	}
	return s.storage.SaveBackup(ctx, &model.Backup{
		Players:   players,
		UpdatedAt: s.clock.Now(),
	})
}

// RestoreBackup atomically replaces the entire roster with the last
// snapshot. Returns how many players were restored.
func (s *Service) RestoreBackup(ctx context.Context) (int, error) {
	backup, err := s.storage.GetBackup(ctx)
	if err != nil {
		return 0, err
	}
	if len(backup.Players) == 0 {
		return 0, model.ErrBackupEmpty
	}
	if err := s.storage.ReplaceAllPlayers(ctx, backup.Players); err != nil {
		return 0, err
	}
	return len(backup.Players), nil
}

// Champions returns the players tied for the highest war total, or nil
// when nobody scored
func (s *Service) Champions(ctx context.Context) ([]*model.Player, int, error) {
	players, err := s.storage.ListPlayers(ctx)
	if err != nil {
		return nil, 0, err
	}
	best := 0
	var champions []*model.Player
	for _, p := range players {
		total := p.TotalWarPoints()
		switch {
		case total > best:
			best = total
			champions = []*model.Player{p}
		case total == best && total > 0:
			champions = append(champions, p)
		}
	}
	return champions, best, nil
}
