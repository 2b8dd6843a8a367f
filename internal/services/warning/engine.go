// Package warning escalates discipline on players: tiered warning
// notifications, removal at the ceiling, and retroactive back-fill of
// un-warned war-day absences.
package warning

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/rzclan/warbot/internal/dependencies/random"
	"github.com/rzclan/warbot/internal/messaging"
	"github.com/rzclan/warbot/internal/model"
	"github.com/rzclan/warbot/internal/storage"
)

// Outcome reports what a single warning application did
type Outcome struct {
	Warnings int
	// Removed is set when the player hit the ceiling and was deleted
	Removed bool
	// FailedGroups lists group IDs the removal could not be applied to
	FailedGroups []string
}

type Engine struct {
	logger      *slog.Logger
	storage     storage.Storage
	client      messaging.Client
	random      random.Random
	leaderJID   string
	minWarScore int

	// sleep paces the full-roster sweep; replaced in tests
	sleep func(time.Duration)
}

func New(logger *slog.Logger, store storage.Storage, client messaging.Client, rnd random.Random, leaderJID string, minWarScore int) *Engine {
	return &Engine{
		logger:      logger,
		storage:     store,
		client:      client,
		random:      rnd,
		leaderJID:   leaderJID,
		minWarScore: minWarScore,
		sleep:       time.Sleep,
	}
}

// Apply increments the player's warning counter by exactly one and
// delivers the tiered notification to chatID. At the ceiling the player
// is notified, removed from every group the bot manages (best-effort)
// and deleted from the roster.
func (e *Engine) Apply(ctx context.Context, player *model.Player, reason, chatID string) (*Outcome, error) {
	newCount := player.Warnings + 1

	if newCount >= model.WarningCeiling {
		if err := e.client.Send(ctx, chatID, e.notification(player, newCount, reason)); err != nil {
			e.logger.Warn("warning notification failed", "player", player.Name, "error", err)
		}
		failed := e.revokeMemberships(ctx, player)
		if err := e.storage.DeletePlayer(ctx, player.ID); err != nil {
			return nil, fmt.Errorf("removing player %s at warning ceiling: %w", player.Name, err)
		}
		e.logger.Info("player removed at warning ceiling",
			"player", player.Name, "reason", reason, "failed_groups", len(failed))
		return &Outcome{Warnings: newCount, Removed: true, FailedGroups: failed}, nil
	}

	player.Warnings = newCount
	if err := e.storage.SavePlayer(ctx, player); err != nil {
		return nil, fmt.Errorf("persisting warning for %s: %w", player.Name, err)
	}
	if err := e.client.Send(ctx, chatID, e.notification(player, newCount, reason)); err != nil {
		e.logger.Warn("warning notification failed", "player", player.Name, "error", err)
	}
	e.logger.Info("warning applied", "player", player.Name, "reason", reason, "warnings", newCount)
	return &Outcome{Warnings: newCount}, nil
}

// revokeMemberships kicks the player from every group the bot is in.
// Failures are collected, never fatal: the roster deletion proceeds
// regardless.
func (e *Engine) revokeMemberships(ctx context.Context, player *model.Player) []string {
	if player.WhatsappID == "" {
		return nil
	}
	groups, err := e.client.ListGroups(ctx)
	if err != nil {
		e.logger.Warn("listing groups for removal failed", "player", player.Name, "error", err)
		return nil
	}
	var failed []string
	for _, groupID := range groups {
		if err := e.client.RemoveFromGroup(ctx, groupID, player.WhatsappID); err != nil {
			e.logger.Warn("group removal failed",
				"player", player.Name, "group", groupID, "error", err)
			failed = append(failed, groupID)
		}
	}
	return failed
}

// BackfillAbsences scans war days strictly before uptoDay for zero
// scores not yet penalized, warning once per newly-found day. Returns
// the player's final state, or nil if the warnings removed them.
func (e *Engine) BackfillAbsences(ctx context.Context, player *model.Player, uptoDay int, chatID string) (*model.Player, error) {
	current := player
	for day := 0; day < uptoDay && day < model.WarDays; day++ {
		if current == nil || current.Warnings >= model.WarningCeiling {
			break
		}
		if current.DailyPoints[day] != 0 || current.HasWarnedAbsence(day) {
			continue
		}

		current.AddWarnedAbsence(day)
		if err := e.storage.SavePlayer(ctx, current); err != nil {
			return current, err
		}

		// re-read so the warning acts on the freshest counter
		reloaded, err := e.storage.GetPlayer(ctx, current.ID)
		if err != nil {
			return nil, err
		}
		outcome, err := e.Apply(ctx, reloaded, absenceReason(day, false), chatID)
		if err != nil {
			return reloaded, err
		}
		if outcome.Removed {
			return nil, nil
		}
		current, err = e.storage.GetPlayer(ctx, reloaded.ID)
		if err != nil {
			return nil, err
		}
	}
	return current, nil
}

// SweepAllAbsences runs the absence back-fill across the whole roster
// and all four war days. Used once at war-cycle close; a small random
// pause between players keeps the storage and messaging layers from
// being hammered.
func (e *Engine) SweepAllAbsences(ctx context.Context, chatID string) error {
	players, err := e.storage.ListPlayers(ctx)
	if err != nil {
		return err
	}
	for _, p := range players {
		if err := e.sweepPlayer(ctx, p, chatID); err != nil {
			e.logger.Error("absence sweep failed for player", "player", p.Name, "error", err)
		}
		e.sleep(time.Duration(200+e.random.Intn(500)) * time.Millisecond)
	}
	return nil
}

func (e *Engine) sweepPlayer(ctx context.Context, player *model.Player, chatID string) error {
	current := player
	for day := 0; day < model.WarDays; day++ {
		if current == nil || current.Warnings >= model.WarningCeiling {
			return nil
		}
		if current.DailyPoints[day] != 0 || current.HasWarnedAbsence(day) {
			continue
		}

		current.AddWarnedAbsence(day)
		if err := e.storage.SavePlayer(ctx, current); err != nil {
			return err
		}
		reloaded, err := e.storage.GetPlayer(ctx, current.ID)
		if err != nil {
			return err
		}
		outcome, err := e.Apply(ctx, reloaded, absenceReason(day, true), chatID)
		if err != nil {
			return err
		}
		if outcome.Removed {
			return nil
		}
		current, err = e.storage.GetPlayer(ctx, reloaded.ID)
		if err != nil {
			return err
		}
	}
	return nil
}

// PostScoreCheck runs after a successful war-point write: a positive
// score below the configured minimum earns a warning. Evaluated once
// per write, independent of the back-fill scan.
func (e *Engine) PostScoreCheck(ctx context.Context, playerID model.PlayerID, points int, chatID string) error {
	if points <= 0 || points >= e.minWarScore {
		return nil
	}
	player, err := e.storage.GetPlayer(ctx, playerID)
	if err != nil {
		return err
	}
	reason := fmt.Sprintf("pontuação abaixo do mínimo (%d)", e.minWarScore)
	_, err = e.Apply(ctx, player, reason, chatID)
	return err
}
