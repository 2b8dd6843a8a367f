package conversation

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/rzclan/warbot/internal/messaging"
	"github.com/rzclan/warbot/internal/model"
	"github.com/rzclan/warbot/internal/services/session"
)

// StartRegistration begins the full registration flow for a user who
// already provided their nick via /nome. A minimal record is created up
// front; the follow-up prompts fill in the progression stats.
func (s *Service) StartRegistration(ctx context.Context, userID, chatID, name string) {
	if existing, err := s.storage.GetPlayerByWaID(ctx, userID); err == nil {
		s.reply(ctx, chatID, fmt.Sprintf(
			"ℹ️ Você já está cadastrado como *%s*!\n\nUse */cadastro* para atualizar suas informações.",
			existing.Name))
		return
	} else if !errors.Is(err, model.ErrPlayerNotFound) {
		s.logger.Error("registration lookup failed", "user", userID, "error", err)
		s.reply(ctx, chatID, "❌ Ocorreu um erro ao processar seu cadastro. Tente novamente.")
		return
	}

	player, err := s.roster.AddPlayer(ctx, userID, name)
	if err != nil {
		if errors.Is(err, model.ErrNameTaken) {
			s.reply(ctx, chatID, fmt.Sprintf("❌ O nome *%s* já está na lista!", name))
			return
		}
		s.logger.Error("registration create failed", "user", userID, "error", err)
		s.reply(ctx, chatID, "❌ Ocorreu um erro ao processar seu cadastro. Tente novamente.")
		return
	}

	sess, err := s.sessions.Begin(userID, chatID, model.StepNewPlayerLevel)
	if err != nil {
		return
	}
	sess.Target = player
	s.reply(ctx, chatID, fmt.Sprintf(
		"👋 *Bem-vindo! Vamos fazer seu cadastro completo.*\n\n✅ Nome: *%s*\n\nAgora digite seu *Nível XP*:", name))
}

// StartWelcome greets a freshly-joined group member and opens the same
// registration flow, starting from the nick question
func (s *Service) StartWelcome(ctx context.Context, joinedJID, chatID string) {
	if _, err := s.sessions.Begin(joinedJID, chatID, model.StepNewPlayerName); err != nil {
		return
	}
	handle := "@" + strings.SplitN(joinedJID, "@", 2)[0]
	text := fmt.Sprintf("Olá, %s! Seja bem-vindo(a) ao nosso clã! 🥳\n\n", handle)
	text += "Eu sou o bot que registra os pontos da guerra. Vou fazer algumas perguntas para cadastrar você:\n\n"
	text += "📝 Nome no jogo\n📝 Nível XP\n📝 Torre Rei\n📝 Troféus\n⚓ Defesa Naval\n\n"
	text += "Vamos começar! Qual é o seu *nick (nome de usuário) no jogo*?"
	if err := s.client.Send(ctx, chatID, messaging.OutgoingMessage{Text: text, Mentions: []string{joinedJID}}); err != nil {
		s.logger.Error("welcome message failed", "chat", chatID, "error", err)
	}
}

func (s *Service) handleRegistrationStep(ctx context.Context, sess *session.Session, text string) {
	input := strings.TrimSpace(text)
	if strings.ToLower(input) == "cancelar" {
		s.endWith(ctx, sess, "❌ Registro cancelado.")
		return
	}

	if sess.Step == model.StepNewPlayerName {
		s.handleRegistrationName(ctx, sess, input)
		return
	}

	value, err := strconv.Atoi(input)
	if err != nil {
		s.reply(ctx, sess.ChatID, registrationRetryPrompt(sess.Step))
		return
	}

	switch sess.Step {
	case model.StepNewPlayerLevel:
		if s.applyRegistrationStat(ctx, sess, model.StatLevelXP, value) {
			sess.Step = model.StepNewPlayerTower
			s.reply(ctx, sess.ChatID, fmt.Sprintf("✅ Nível XP: *%d*\n\nAgora digite sua *Torre Rei*:", value))
		}
	case model.StepNewPlayerTower:
		if s.applyRegistrationStat(ctx, sess, model.StatKingTower, value) {
			sess.Step = model.StepNewPlayerTrophies
			s.reply(ctx, sess.ChatID, fmt.Sprintf("✅ Torre Rei: *%d*\n\nAgora digite seus *Troféus*:", value))
		}
	case model.StepNewPlayerTrophies:
		if s.applyRegistrationStat(ctx, sess, model.StatTrophies, value) {
			sess.Step = model.StepNewPlayerNaval
			s.reply(ctx, sess.ChatID, fmt.Sprintf(
				"✅ Troféus: *%d*\n\nPor último, digite seus pontos de *Defesa Naval* (ou 0 se não tiver):", value))
		}
	case model.StepNewPlayerNaval:
		if !s.applyRegistrationStat(ctx, sess, model.StatNaval, value) {
			return
		}
		p := sess.Target
		summary := "✅ *Cadastro concluído com sucesso!*\n\n"
		summary += fmt.Sprintf("👤 *%s*\n", p.Name)
		summary += fmt.Sprintf("📝 Nível XP: %d\n", p.LevelXP)
		summary += fmt.Sprintf("📝 Torre Rei: %d\n", p.KingTower)
		summary += fmt.Sprintf("📝 Troféus: %d\n", p.Trophies)
		summary += fmt.Sprintf("⚓ Defesa Naval: %d pontos\n\n", p.NavalDefensePoints)
		summary += "Use */me* para ver seu status completo!"
		s.endWith(ctx, sess, summary)
	}
}

func (s *Service) handleRegistrationName(ctx context.Context, sess *session.Session, name string) {
	if name == "" {
		s.reply(ctx, sess.ChatID, "❌ Por favor, digite um nome válido:")
		return
	}
	player, err := s.roster.AddPlayer(ctx, sess.UserID, name)
	if err != nil {
		if errors.Is(err, model.ErrNameTaken) {
			s.endWith(ctx, sess, fmt.Sprintf("❌ O nome *%s* já está cadastrado na lista!", name))
			return
		}
		s.logger.Error("registration create failed", "user", sess.UserID, "error", err)
		s.endWith(ctx, sess, "❌ Ocorreu um erro ao registrar o jogador. Tente novamente.")
		return
	}
	sess.Target = player
	sess.Step = model.StepNewPlayerLevel
	s.reply(ctx, sess.ChatID, fmt.Sprintf("✅ Nome: *%s*\n\nAgora digite seu *Nível XP*:", name))
}

// applyRegistrationStat persists one stat during registration,
// re-prompting on invalid values. Returns whether the flow may advance.
func (s *Service) applyRegistrationStat(ctx context.Context, sess *session.Session, kind model.StatKind, value int) bool {
	if err := s.roster.ApplyStat(ctx, sess.Target, kind, value, 0); err != nil {
		if errors.Is(err, model.ErrInvalidValue) {
			s.reply(ctx, sess.ChatID, registrationRetryPrompt(sess.Step))
			return false
		}
		s.logger.Error("registration stat write failed", "user", sess.UserID, "error", err)
		s.endWith(ctx, sess, "❌ Ocorreu um erro ao registrar o jogador. Tente novamente.")
		return false
	}
	return true
}

func registrationRetryPrompt(step model.Step) string {
	switch step {
	case model.StepNewPlayerLevel:
		return "❌ Por favor, digite um número válido para o Nível XP (número inteiro positivo):"
	case model.StepNewPlayerTower:
		return "❌ Por favor, digite um número válido para a Torre Rei (número inteiro positivo):"
	case model.StepNewPlayerTrophies:
		return "❌ Por favor, digite um número válido para os Troféus (número inteiro positivo ou zero):"
	default:
		return "❌ Por favor, digite um número válido para a Defesa Naval (número inteiro positivo ou zero):"
	}
}
