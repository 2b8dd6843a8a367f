package conversation

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/rzclan/warbot/internal/model"
	"github.com/rzclan/warbot/internal/services/resolver"
	"github.com/rzclan/warbot/internal/services/session"
	"github.com/rzclan/warbot/internal/services/warning"
)

// StartPunish resolves name and applies a manual warning, opening a
// disambiguation dialog when the name is ambiguous or only close
// matches exist.
func (s *Service) StartPunish(ctx context.Context, userID, chatID, name string) {
	result, err := s.resolver.Resolve(ctx, name)
	if err != nil {
		s.logger.Error("punish resolve failed", "name", name, "error", err)
		s.reply(ctx, chatID, "❌ Ocorreu um erro ao aplicar a advertência.")
		return
	}

	switch result.Status {
	case resolver.StatusEmptyList:
		s.reply(ctx, chatID, "A lista de jogadores está vazia.")
	case resolver.StatusNotFound:
		s.suggestOrGiveUp(ctx, userID, chatID, name, result, model.StepAmbiguousPunish, "")
	case resolver.StatusAmbiguous:
		s.askAmbiguousChoice(ctx, userID, chatID, result.Candidates, model.StepAmbiguousPunish, "")
	case resolver.StatusExact, resolver.StatusSimilar:
		if result.Status == resolver.StatusSimilar {
			s.reply(ctx, chatID, fmt.Sprintf(
				"Aviso: O nome mais próximo encontrado foi *%s*. Aplicando punição.", result.Player.Name))
		}
		s.punishPlayer(ctx, chatID, result.Player)
	}
}

func (s *Service) punishPlayer(ctx context.Context, chatID string, player *model.Player) {
	if _, err := s.warnings.Apply(ctx, player, warning.ReasonManual, chatID); err != nil {
		s.logger.Error("manual warning failed", "player", player.Name, "error", err)
		s.reply(ctx, chatID, "❌ Ocorreu um erro ao aplicar a advertência.")
	}
}

// StartEdit resolves oldName and asks for confirmation before renaming
// to newName
func (s *Service) StartEdit(ctx context.Context, userID, chatID, oldName, newName string) {
	result, err := s.resolver.Resolve(ctx, oldName)
	if err != nil {
		s.logger.Error("edit resolve failed", "name", oldName, "error", err)
		s.reply(ctx, chatID, "❌ Ocorreu um erro ao tentar alterar o nome do jogador.")
		return
	}

	switch result.Status {
	case resolver.StatusEmptyList:
		s.reply(ctx, chatID, "A lista de jogadores está vazia.")
	case resolver.StatusNotFound:
		s.suggestOrGiveUp(ctx, userID, chatID, oldName, result, model.StepAmbiguousEdit, newName)
	case resolver.StatusAmbiguous:
		s.askAmbiguousChoice(ctx, userID, chatID, result.Candidates, model.StepAmbiguousEdit, newName)
	case resolver.StatusExact, resolver.StatusSimilar:
		if result.Status == resolver.StatusSimilar {
			s.reply(ctx, chatID, fmt.Sprintf(
				"Aviso: O nome mais próximo encontrado foi *%s*. Alterando nome.", result.Player.Name))
		}
		s.askEditConfirmation(ctx, userID, chatID, result.Player, newName)
	}
}

func (s *Service) askEditConfirmation(ctx context.Context, userID, chatID string, player *model.Player, newName string) {
	sess, err := s.sessions.Begin(userID, chatID, model.StepEditConfirmation)
	if err != nil {
		return
	}
	sess.Target = player
	sess.NewName = newName
	s.reply(ctx, chatID, fmt.Sprintf(
		"Confirma a alteração de nome de *%s* para *%s*? Responda *sim*.", player.Name, newName))
}

// StartRemove resolves name and asks for confirmation before removing
// the player from the roster and the groups
func (s *Service) StartRemove(ctx context.Context, userID, chatID, name string) {
	result, err := s.resolver.Resolve(ctx, name)
	if err != nil {
		s.logger.Error("remove resolve failed", "name", name, "error", err)
		s.reply(ctx, chatID, "❌ Ocorreu um erro ao remover.")
		return
	}

	switch result.Status {
	case resolver.StatusEmptyList:
		s.reply(ctx, chatID, "A lista está vazia.")
	case resolver.StatusNotFound:
		s.suggestOrGiveUp(ctx, userID, chatID, name, result, model.StepAmbiguousRemove, "")
	case resolver.StatusAmbiguous:
		text := "Qual destes para remover?\n\n"
		for i, p := range result.Candidates {
			text += fmt.Sprintf("%d - %s\n", i+1, p.Name)
		}
		text += "\n(Digite o número ou /cancelar)"
		sess, err := s.sessions.Begin(userID, chatID, model.StepAmbiguousRemove)
		if err != nil {
			return
		}
		sess.Candidates = result.Candidates
		s.reply(ctx, chatID, text)
	case resolver.StatusExact, resolver.StatusSimilar:
		conf := fmt.Sprintf("Remover *%s* da lista e dos grupos?\n\nResponda *sim*.", result.Player.Name)
		if result.Status == resolver.StatusSimilar {
			conf = fmt.Sprintf("Nome próximo: *%s*. Remover?\n\nResponda *sim*.", result.Player.Name)
		}
		sess, err := s.sessions.Begin(userID, chatID, model.StepRemoveConfirmation)
		if err != nil {
			return
		}
		sess.Target = result.Player
		s.reply(ctx, chatID, conf)
	}
}

// suggestOrGiveUp handles not_found: with suggestions it opens the
// disambiguation dialog, otherwise it just reports the miss
func (s *Service) suggestOrGiveUp(ctx context.Context, userID, chatID, name string, result *resolver.Result, step model.Step, newName string) {
	if len(result.Candidates) == 0 {
		s.reply(ctx, chatID, fmt.Sprintf("❌ Jogador *%s* não encontrado.", name))
		return
	}
	text := fmt.Sprintf("❌ Jogador *%s* não encontrado.\n\nVocê quis dizer?\n", name)
	for i, p := range result.Candidates {
		text += fmt.Sprintf("%d - %s\n", i+1, p.Name)
	}
	text += "\n(Digite o número ou /cancelar)"
	sess, err := s.sessions.Begin(userID, chatID, step)
	if err != nil {
		return
	}
	sess.Candidates = result.Candidates
	sess.NewName = newName
	s.reply(ctx, chatID, text)
}

func (s *Service) askAmbiguousChoice(ctx context.Context, userID, chatID string, candidates []*model.Player, step model.Step, newName string) {
	text := "Você quis dizer um destes?\n"
	for i, p := range candidates {
		text += fmt.Sprintf("%d - %s\n", i+1, p.Name)
	}
	text += "\n(Digite o número ou /cancelar)"
	sess, err := s.sessions.Begin(userID, chatID, step)
	if err != nil {
		return
	}
	sess.Candidates = candidates
	sess.NewName = newName
	s.reply(ctx, chatID, text)
}

// handleAmbiguousChoice takes the numeric selection and re-enters the
// originating operation with the chosen player. Out-of-range input
// re-prompts without losing the list.
func (s *Service) handleAmbiguousChoice(ctx context.Context, sess *session.Session, text string) {
	choice, err := strconv.Atoi(strings.TrimSpace(text))
	if err != nil || choice < 1 || choice > len(sess.Candidates) {
		s.reply(ctx, sess.ChatID, "Opção inválida. Por favor, digite um dos números da lista ou /cancelar.")
		return
	}
	selected := sess.Candidates[choice-1]
	step := sess.Step
	newName := sess.NewName
	s.sessions.End(sess.UserID)

	switch step {
	case model.StepAmbiguousPunish:
		s.reply(ctx, sess.ChatID, fmt.Sprintf("%d escolhido: *%s*. Continuando a punição...", choice, selected.Name))
		s.punishPlayer(ctx, sess.ChatID, selected)
	case model.StepAmbiguousEdit:
		s.reply(ctx, sess.ChatID, fmt.Sprintf("%d escolhido: *%s*. Continuando a edição...", choice, selected.Name))
		s.askEditConfirmation(ctx, sess.UserID, sess.ChatID, selected, newName)
	case model.StepAmbiguousRemove:
		s.reply(ctx, sess.ChatID, fmt.Sprintf("%d escolhido: *%s*. Continuando a remoção...", choice, selected.Name))
		sessNew, err := s.sessions.Begin(sess.UserID, sess.ChatID, model.StepRemoveConfirmation)
		if err != nil {
			return
		}
		sessNew.Target = selected
		s.reply(ctx, sess.ChatID, fmt.Sprintf("Remover *%s* da lista e dos grupos?\n\nResponda *sim*.", selected.Name))
	}
}

// handleEditConfirmation is the yes/no gate before a rename; anything
// but "sim" cancels without mutation
func (s *Service) handleEditConfirmation(ctx context.Context, sess *session.Session, text string) {
	if strings.ToLower(strings.TrimSpace(text)) != "sim" {
		s.endWith(ctx, sess, "Ok, a renomeação foi cancelada.")
		return
	}
	oldName := sess.Target.Name
	player, err := s.storage.GetPlayer(ctx, sess.Target.ID)
	if err != nil {
		s.endWith(ctx, sess, fmt.Sprintf("❌ O jogador *%s* não foi encontrado.", oldName))
		return
	}
	if err := s.roster.Rename(ctx, player, sess.NewName); err != nil {
		s.logger.Error("rename failed", "player", oldName, "error", err)
		s.endWith(ctx, sess, "❌ Ocorreu um erro ao renomear o jogador.")
		return
	}
	s.endWith(ctx, sess, fmt.Sprintf("✅ Sucesso! *%s* foi renomeado para *%s*.", oldName, sess.NewName))
}

// handleRemoveConfirmation is the yes/no gate before deleting a player
// and revoking their group memberships
func (s *Service) handleRemoveConfirmation(ctx context.Context, sess *session.Session, text string) {
	if strings.ToLower(strings.TrimSpace(text)) != "sim" {
		s.endWith(ctx, sess, "Ok, remoção cancelada.")
		return
	}
	player, err := s.storage.GetPlayer(ctx, sess.Target.ID)
	if err != nil {
		s.endWith(ctx, sess, fmt.Sprintf("❌ O jogador *%s* não foi encontrado.", sess.Target.Name))
		return
	}

	failed := s.removeFromGroups(ctx, player)
	if err := s.storage.DeletePlayer(ctx, player.ID); err != nil {
		s.logger.Error("player delete failed", "player", player.Name, "error", err)
		s.endWith(ctx, sess, "❌ Ocorreu um erro ao remover o jogador.")
		return
	}

	final := fmt.Sprintf("✅ Sucesso! *%s* foi removido da lista.", player.Name)
	if len(failed) > 0 {
		final += "\n\n⚠️ *Atenção:* Não foi possível remover o usuário dos seguintes grupos (verifique se o bot é admin):\n- "
		final += strings.Join(failed, "\n- ")
	}
	s.endWith(ctx, sess, final)
}

func (s *Service) removeFromGroups(ctx context.Context, player *model.Player) []string {
	if player.WhatsappID == "" {
		return nil
	}
	groups, err := s.client.ListGroups(ctx)
	if err != nil {
		s.logger.Error("listing groups for removal failed", "error", err)
		return nil
	}
	var failed []string
	for _, groupID := range groups {
		if err := s.client.RemoveFromGroup(ctx, groupID, player.WhatsappID); err != nil {
			s.logger.Warn("group removal failed", "player", player.Name, "group", groupID, "error", err)
			failed = append(failed, groupID)
		}
	}
	return failed
}
