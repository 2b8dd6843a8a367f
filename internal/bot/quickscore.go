package bot

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/rzclan/warbot/internal/messaging"
	"github.com/rzclan/warbot/internal/model"
	"github.com/rzclan/warbot/internal/services/resolver"
)

// quickEntry is a parsed quick-score shorthand. An empty name means the
// sender is scoring for themselves.
type quickEntry struct {
	name   string
	points int
	day    int
	hasDay bool
}

// parseQuickScore recognizes the four shorthand shapes:
//
//	/980            self, day inferred
//	/980 sabado     self, explicit day
//	/Yoda 980       on behalf, day inferred
//	/Yoda 980 sexta on behalf, explicit day
//
// Anything else, including negative or non-numeric points, is not a
// quick score and is dropped silently.
func parseQuickScore(text string) (quickEntry, bool) {
	fields := strings.Fields(strings.TrimPrefix(strings.TrimSpace(text), "/"))
	if len(fields) == 0 {
		return quickEntry{}, false
	}

	if points, err := strconv.Atoi(fields[0]); err == nil {
		e := quickEntry{points: points}
		switch len(fields) {
		case 1:
		case 2:
			day, ok := model.ParseDayKeyword(fields[1])
			if !ok {
				return quickEntry{}, false
			}
			e.day, e.hasDay = day, true
		default:
			return quickEntry{}, false
		}
		return e, points >= 0
	}

	last := len(fields) - 1
	if day, ok := model.ParseDayKeyword(fields[last]); ok && len(fields) >= 3 {
		points, err := strconv.Atoi(fields[last-1])
		if err != nil {
			return quickEntry{}, false
		}
		return quickEntry{
			name:   strings.Join(fields[:last-1], " "),
			points: points,
			day:    day,
			hasDay: true,
		}, points >= 0
	}
	if len(fields) >= 2 {
		points, err := strconv.Atoi(fields[last])
		if err != nil {
			return quickEntry{}, false
		}
		return quickEntry{
			name:   strings.Join(fields[:last], " "),
			points: points,
		}, points >= 0
	}
	return quickEntry{}, false
}

func (d *Dispatcher) handleQuickScore(ctx context.Context, ev messaging.Event, text string) {
	entry, ok := parseQuickScore(text)
	if !ok {
		return
	}

	player, errText := d.quickScoreTarget(ctx, ev.SenderID, entry.name)
	if errText != "" {
		d.reply(ctx, ev.ChatID, errText)
		return
	}
	if player == nil {
		return
	}

	if entry.points > d.navalThreshold {
		if err := d.roster.ApplyStat(ctx, player, model.StatNaval, entry.points, 0); err != nil {
			d.logger.Error("quick naval write failed", "player", player.Name, "error", err)
			d.reply(ctx, ev.ChatID, "❌ Ocorreu um erro ao registrar os pontos.")
			return
		}
		d.reply(ctx, ev.ChatID, fmt.Sprintf(
			"✅ *Defesa Naval* registrada para *%s*: %d pontos.", player.Name, entry.points))
		return
	}

	dayIndex := entry.day
	if !entry.hasDay {
		inferred, open := model.InferredWarDay(d.clock.Now())
		if !open {
			d.reply(ctx, ev.ChatID,
				"❌ Lançamento rápido sem dia só funciona durante os dias de guerra (de Quinta 06:00 a Segunda 05:59, horário do Brasil).")
			return
		}
		dayIndex = inferred
	}

	currentDay := model.CurrentWarDay(d.clock.Now())
	if dayIndex < currentDay {
		today := "A semana de guerra já encerrou."
		if currentDay < model.WarWeekClosed {
			today = fmt.Sprintf("Hoje, para o bot, é *%s*.", model.DayNames[currentDay])
		}
		d.reply(ctx, ev.ChatID, fmt.Sprintf(
			"❌ O prazo para registrar pontos de *%s* já encerrou. %s", model.DayNames[dayIndex], today))
		return
	}

	// reload, then settle earlier unpunished absences before writing
	fresh, err := d.storage.GetPlayer(ctx, player.ID)
	if err != nil {
		d.reply(ctx, ev.ChatID, fmt.Sprintf(
			"❌ O jogador *%s* não foi encontrado no banco de dados. Lançamento cancelado.", player.Name))
		return
	}
	fresh, err = d.warnings.BackfillAbsences(ctx, fresh, dayIndex, ev.ChatID)
	if err != nil {
		d.logger.Error("quick score back-fill failed", "player", player.Name, "error", err)
		d.reply(ctx, ev.ChatID, "❌ Ocorreu um erro ao registrar os pontos.")
		return
	}
	if fresh == nil || fresh.Warnings >= model.WarningCeiling {
		d.reply(ctx, ev.ChatID, fmt.Sprintf(
			"❌ Lançamento cancelado: O jogador *%s* foi removido devido a advertências acumuladas.", player.Name))
		return
	}

	if err := d.roster.ApplyStat(ctx, fresh, model.StatWar, entry.points, dayIndex); err != nil {
		d.logger.Error("quick war write failed", "player", fresh.Name, "error", err)
		d.reply(ctx, ev.ChatID, "❌ Ocorreu um erro ao registrar os pontos.")
		return
	}
	d.reply(ctx, ev.ChatID, fmt.Sprintf(
		"✅ *Guerra* de *%s* registrada para *%s*: %d pontos.",
		model.DayNames[dayIndex], fresh.Name, entry.points))

	if err := d.warnings.PostScoreCheck(ctx, fresh.ID, entry.points, ev.ChatID); err != nil {
		d.logger.Error("quick score post-check failed", "player", fresh.Name, "error", err)
	}
}

// quickScoreTarget resolves the player the entry applies to. Returns a
// user-facing error text when the target cannot be determined.
func (d *Dispatcher) quickScoreTarget(ctx context.Context, senderID, name string) (*model.Player, string) {
	if name == "" {
		player, err := d.storage.GetPlayerByWaID(ctx, senderID)
		if err != nil {
			return nil, "❌ Seu número não está cadastrado. Peça para um líder te adicionar ao banco de dados."
		}
		return player, ""
	}
	result, err := d.resolver.Resolve(ctx, name)
	if err != nil {
		d.logger.Error("quick score resolve failed", "name", name, "error", err)
		return nil, "❌ Ocorreu um erro ao registrar os pontos."
	}
	if result.Status != resolver.StatusExact && result.Status != resolver.StatusSimilar {
		return nil, fmt.Sprintf("Jogador \"%s\" não encontrado.", name)
	}
	return result.Player, ""
}
