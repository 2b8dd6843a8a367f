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

const menuOptions = "*1.* Guerra\n*2.* Defesa Naval\n*3.* Torre Rei\n*4.* Troféus\n*5.* Nível XP"

const dayOptions = "*Quinta-feira*\n*Sexta-feira*\n*Sábado*\n*Domingo*"

// StartPointsFlow opens the guided points entry for the sender's own
// record
func (s *Service) StartPointsFlow(ctx context.Context, userID, chatID string) {
	player, err := s.storage.GetPlayerByWaID(ctx, userID)
	if err != nil {
		if errors.Is(err, model.ErrPlayerNotFound) {
			s.reply(ctx, chatID,
				"Seu número não está cadastrado no bot. Para começar, use o comando:\n\n*/nome SEU_NICK_NO_JOGO*")
			return
		}
		s.logger.Error("points flow lookup failed", "user", userID, "error", err)
		s.reply(ctx, chatID, "❌ Ocorreu um erro ao processar sua solicitação.")
		return
	}

	sess, err := s.sessions.Begin(userID, chatID, model.StepMenuChoice)
	if err != nil {
		return
	}
	sess.Target = player
	s.reply(ctx, chatID, fmt.Sprintf(
		"Olá, *%s*. Lançar pontos para qual evento?\n\n%s\n\n(Digite /sair para cancelar)",
		player.Name, menuOptions))
}

func (s *Service) handlePointsStep(ctx context.Context, sess *session.Session, text string) {
	input := strings.ToLower(strings.TrimSpace(text))

	switch sess.Step {
	case model.StepMenuChoice:
		s.handleMenuChoice(ctx, sess, input)
	case model.StepDayChoice:
		s.handleDayChoice(ctx, sess, input)
	case model.StepPointsInput:
		s.handlePointsInput(ctx, sess, input)
	case model.StepConfirmation:
		s.handlePointsConfirmation(ctx, sess, input)
	}
}

func (s *Service) handleMenuChoice(ctx context.Context, sess *session.Session, input string) {
	choice, err := strconv.Atoi(input)
	if err != nil || choice < 1 || choice > len(model.MenuStats) {
		s.reply(ctx, sess.ChatID, fmt.Sprintf(
			"Opção inválida. Vamos tentar de novo: Lançar pontos para qual evento?\n\n%s\n\n(Digite /sair para cancelar)",
			menuOptions))
		return
	}
	sess.Stat = model.MenuStats[choice-1]

	if sess.Stat == model.StatWar {
		sess.Step = model.StepDayChoice
		s.reply(ctx, sess.ChatID, fmt.Sprintf(
			"Entendido, *Guerra*. Em qual dia?\n\n%s\n\n(Digite /sair para cancelar)", dayOptions))
		return
	}
	sess.Step = model.StepPointsInput
	s.reply(ctx, sess.ChatID, fmt.Sprintf("Ok, *%s*. %s\n\n(Digite /sair para cancelar)",
		sess.Stat.DisplayName(), pointsQuestion(sess.Stat, sess.Target.Name)))
}

func (s *Service) handleDayChoice(ctx context.Context, sess *session.Session, input string) {
	dayIndex, ok := model.ParseDayKeyword(input)
	if !ok {
		s.reply(ctx, sess.ChatID, "Dia inválido.")
		s.reply(ctx, sess.ChatID, fmt.Sprintf(
			"Vamos tentar de novo: Em qual dia?\n\n%s\n\n(Digite /sair para cancelar)", dayOptions))
		return
	}

	// entries for a day earlier than the bot's current war day are closed
	currentDay := model.CurrentWarDay(s.clock.Now())
	if dayIndex < currentDay {
		today := "A semana de guerra já encerrou."
		if currentDay < model.WarWeekClosed {
			today = fmt.Sprintf("Hoje, para o bot, é *%s*.", model.DayNames[currentDay])
		}
		s.endWith(ctx, sess, fmt.Sprintf(
			"❌ O prazo para registrar pontos de *%s* já encerrou. %s", model.DayNames[dayIndex], today))
		return
	}

	sess.DayIndex = dayIndex
	sess.Step = model.StepPointsInput
	s.reply(ctx, sess.ChatID, fmt.Sprintf(
		"Ok, *%s*. Quantos pontos de *Guerra* para *%s*?\n\n(Digite /sair para cancelar)",
		model.DayNames[dayIndex], sess.Target.Name))
}

func (s *Service) handlePointsInput(ctx context.Context, sess *session.Session, input string) {
	points, err := strconv.Atoi(input)
	if err != nil || points < 0 {
		s.reply(ctx, sess.ChatID, "Valor inválido. Digite apenas números.")
		s.reply(ctx, sess.ChatID, fmt.Sprintf("Vamos tentar de novo: %s", pointsQuestion(sess.Stat, sess.Target.Name)))
		return
	}

	// war entries settle older unpunished absences before anything else
	if sess.Stat == model.StatWar {
		player, err := s.storage.GetPlayer(ctx, sess.Target.ID)
		if err != nil {
			s.endWith(ctx, sess, fmt.Sprintf(
				"❌ O jogador *%s* não foi encontrado no banco de dados. Lançamento cancelado.", sess.Target.Name))
			return
		}
		player, err = s.warnings.BackfillAbsences(ctx, player, sess.DayIndex, sess.ChatID)
		if err != nil {
			s.logger.Error("absence back-fill failed", "player", sess.Target.Name, "error", err)
			s.endWith(ctx, sess, "❌ Ocorreu um erro ao processar sua solicitação.")
			return
		}
		if player == nil || player.Warnings >= model.WarningCeiling {
			s.endWith(ctx, sess, fmt.Sprintf(
				"❌ Lançamento cancelado: O jogador *%s* foi removido devido a advertências acumuladas.", sess.Target.Name))
			return
		}
		sess.Target = player
	}

	sess.PendingPoints = points
	sess.Step = model.StepConfirmation

	conf := "📝 *CONFIRMAÇÃO*\n\n"
	conf += fmt.Sprintf("*Jogador:* %s\n", sess.Target.Name)
	conf += fmt.Sprintf("*Evento:* %s\n", sess.Stat.DisplayName())
	if sess.Stat == model.StatWar {
		conf += fmt.Sprintf("*Dia:* %s\n", model.DayNames[sess.DayIndex])
	}
	conf += fmt.Sprintf("*Pontos:* %d\n\n", points)
	conf += "Está tudo certo? Responda com *sim* para salvar.\n\n(Digite /sair para cancelar)"
	s.reply(ctx, sess.ChatID, conf)
}

func (s *Service) handlePointsConfirmation(ctx context.Context, sess *session.Session, input string) {
	if input != "sim" {
		s.endWith(ctx, sess, "Lançamento de pontos cancelado.")
		return
	}

	player, err := s.storage.GetPlayer(ctx, sess.Target.ID)
	if err != nil {
		s.endWith(ctx, sess, fmt.Sprintf(
			"❌ Erro: O jogador %s não foi encontrado no banco de dados para salvar os pontos.", sess.Target.Name))
		return
	}
	if err := s.roster.ApplyStat(ctx, player, sess.Stat, sess.PendingPoints, sess.DayIndex); err != nil {
		s.logger.Error("points write failed", "player", player.Name, "error", err)
		s.endWith(ctx, sess, "❌ Ocorreu um erro ao salvar os pontos.")
		return
	}

	tip := "\n\n*Dica:* Use */me* para verificar suas informações atualizadas!"
	if sess.Stat == model.StatWar || sess.Stat == model.StatNaval {
		tip = fmt.Sprintf("\n\n*Dica:* Da próxima vez, use o comando rápido: `/%d`", sess.PendingPoints)
	}
	s.endWith(ctx, sess, fmt.Sprintf("✅ Sucesso! Pontos registrados para *%s*.%s", player.Name, tip))

	if sess.Stat == model.StatWar {
		if err := s.warnings.PostScoreCheck(ctx, player.ID, sess.PendingPoints, sess.ChatID); err != nil {
			s.logger.Error("post-score check failed", "player", player.Name, "error", err)
		}
	}
}

func pointsQuestion(kind model.StatKind, name string) string {
	switch kind {
	case model.StatWar:
		return fmt.Sprintf("Quantos pontos de *Guerra* para *%s*?", name)
	case model.StatNaval:
		return fmt.Sprintf("Quantos pontos *%s* fez?", name)
	case model.StatKingTower:
		return fmt.Sprintf("Qual o nível da Torre de *%s*?", name)
	case model.StatTrophies:
		return fmt.Sprintf("Quantos troféus *%s* tem?", name)
	default:
		return fmt.Sprintf("Qual o nível de *%s*?", name)
	}
}
