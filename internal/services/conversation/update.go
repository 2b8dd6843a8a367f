package conversation

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/rzclan/warbot/internal/model"
	"github.com/rzclan/warbot/internal/services/session"
)

// StartUpdate opens the selective profile-update flow for a registered
// player. Each prompt accepts "." (or "pular") to keep the current
// value.
func (s *Service) StartUpdate(ctx context.Context, userID, chatID string) {
	player, err := s.storage.GetPlayerByWaID(ctx, userID)
	if err != nil {
		if errors.Is(err, model.ErrPlayerNotFound) {
			s.reply(ctx, chatID,
				"❌ Você não está cadastrado no sistema!\n\nUse */nome* para fazer seu primeiro cadastro com todas as informações.")
			return
		}
		s.logger.Error("update lookup failed", "user", userID, "error", err)
		s.reply(ctx, chatID, "❌ Ocorreu um erro ao verificar seu cadastro. Tente novamente.")
		return
	}

	sess, err := s.sessions.Begin(userID, chatID, model.StepUpdateLevel)
	if err != nil {
		return
	}
	sess.Target = player
	sess.UpdateLevel = player.LevelXP
	sess.UpdateTower = player.KingTower
	sess.UpdateTrophies = player.Trophies
	sess.UpdateNaval = player.NavalDefensePoints

	s.reply(ctx, chatID, fmt.Sprintf(
		"📝 *Vamos atualizar suas informações, %s!*\n\n*Nível XP* (atual: %s)\nDigite o novo valor ou \".\" para manter:",
		player.Name, displayStat(player.LevelXP)))
}

func displayStat(v int) string {
	if v == 0 {
		return "Não informado"
	}
	return strconv.Itoa(v)
}

// keepSentinel reports whether the input asks to keep the current value
func keepSentinel(input string) bool {
	return input == "." || strings.EqualFold(input, "pular")
}

func (s *Service) handleUpdateStep(ctx context.Context, sess *session.Session, text string) {
	input := strings.TrimSpace(text)
	if strings.ToLower(input) == "cancelar" {
		s.endWith(ctx, sess, "❌ Atualização cancelada.")
		return
	}

	parse := func(minimum int, retry string) (int, bool) {
		v, err := strconv.Atoi(input)
		if err != nil || v < minimum {
			s.reply(ctx, sess.ChatID, retry)
			return 0, false
		}
		return v, true
	}

	switch sess.Step {
	case model.StepUpdateLevel:
		if !keepSentinel(input) {
			v, ok := parse(1, "❌ Por favor, digite um número válido para o Nível XP ou \".\" para manter o atual:")
			if !ok {
				return
			}
			sess.UpdateLevel = v
		}
		sess.Step = model.StepUpdateTower
		s.reply(ctx, sess.ChatID, fmt.Sprintf(
			"%s Nível XP: %s\n\n*Torre Rei* (atual: %s)\nDigite o novo valor ou \".\" para manter:",
			changeEmoji(sess.UpdateLevel, sess.Target.LevelXP),
			changedValue(sess.UpdateLevel, sess.Target.LevelXP, "mantido"),
			displayStat(sess.Target.KingTower)))

	case model.StepUpdateTower:
		if !keepSentinel(input) {
			v, ok := parse(1, "❌ Por favor, digite um número válido para a Torre Rei ou \".\" para manter o atual:")
			if !ok {
				return
			}
			sess.UpdateTower = v
		}
		sess.Step = model.StepUpdateTrophies
		s.reply(ctx, sess.ChatID, fmt.Sprintf(
			"%s Torre Rei: %s\n\n*Troféus* (atual: %s)\nDigite o novo valor ou \".\" para manter:",
			changeEmoji(sess.UpdateTower, sess.Target.KingTower),
			changedValue(sess.UpdateTower, sess.Target.KingTower, "mantida"),
			displayStat(sess.Target.Trophies)))

	case model.StepUpdateTrophies:
		if !keepSentinel(input) {
			v, ok := parse(0, "❌ Por favor, digite um número válido para os Troféus ou \".\" para manter o atual:")
			if !ok {
				return
			}
			sess.UpdateTrophies = v
		}
		sess.Step = model.StepUpdateNaval
		s.reply(ctx, sess.ChatID, fmt.Sprintf(
			"%s Troféus: %s\n\n*Defesa Naval* (atual: %d)\nDigite o novo valor ou \".\" para manter:",
			changeEmoji(sess.UpdateTrophies, sess.Target.Trophies),
			changedValue(sess.UpdateTrophies, sess.Target.Trophies, "mantidos"),
			sess.Target.NavalDefensePoints))

	case model.StepUpdateNaval:
		if !keepSentinel(input) {
			v, ok := parse(0, "❌ Por favor, digite um número válido para a Defesa Naval ou \".\" para manter o atual:")
			if !ok {
				return
			}
			sess.UpdateNaval = v
		}
		s.finishUpdate(ctx, sess)
	}
}

func (s *Service) finishUpdate(ctx context.Context, sess *session.Session) {
	p := sess.Target
	changed := sess.UpdateLevel != p.LevelXP ||
		sess.UpdateTower != p.KingTower ||
		sess.UpdateTrophies != p.Trophies ||
		sess.UpdateNaval != p.NavalDefensePoints

	summary := fmt.Sprintf("%s Defesa Naval: %s\n\n",
		changeEmoji(sess.UpdateNaval, p.NavalDefensePoints),
		changedValue(sess.UpdateNaval, p.NavalDefensePoints, "mantida"))

	verb := "verificadas"
	if changed {
		verb = "atualizadas"
	}
	summary += fmt.Sprintf("✅ *Informações %s com sucesso!*\n\n", verb)
	summary += fmt.Sprintf("📝 Nível XP: %d%s\n", sess.UpdateLevel, changeSuffix(sess.UpdateLevel, p.LevelXP, "mantido"))
	summary += fmt.Sprintf("📝 Torre Rei: %d%s\n", sess.UpdateTower, changeSuffix(sess.UpdateTower, p.KingTower, "mantida"))
	summary += fmt.Sprintf("📝 Troféus: %d%s\n", sess.UpdateTrophies, changeSuffix(sess.UpdateTrophies, p.Trophies, "mantidos"))
	summary += fmt.Sprintf("⚓ Defesa Naval: %d%s", sess.UpdateNaval, changeSuffix(sess.UpdateNaval, p.NavalDefensePoints, "mantida"))

	if changed {
		p.LevelXP = sess.UpdateLevel
		p.KingTower = sess.UpdateTower
		p.Trophies = sess.UpdateTrophies
		p.NavalDefensePoints = sess.UpdateNaval
		if err := s.storage.SavePlayer(ctx, p); err != nil {
			s.logger.Error("profile update failed", "user", sess.UserID, "error", err)
			s.endWith(ctx, sess, "❌ Ocorreu um erro ao atualizar suas informações. Tente novamente.")
			return
		}
		s.logger.Debug("player profile updated", "player", p.Name)
	}
	s.endWith(ctx, sess, summary)
}

func changeEmoji(newV, oldV int) string {
	if newV != oldV {
		return "✅"
	}
	return "⏭️"
}

func changedValue(newV, oldV int, keptWord string) string {
	if newV == oldV {
		return fmt.Sprintf("%s (%d)", keptWord, newV)
	}
	return strconv.Itoa(newV)
}

func changeSuffix(newV, oldV int, keptWord string) string {
	if newV == oldV {
		return fmt.Sprintf(" (%s)", keptWord)
	}
	return " ✨"
}
