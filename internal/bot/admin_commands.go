package bot

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rzclan/warbot/internal/messaging"
	"github.com/rzclan/warbot/internal/model"
)

func (d *Dispatcher) handlePunir(ctx context.Context, c *Context) {
	if c.Args == "" {
		d.reply(ctx, c.ChatID, "Formato incorreto. Use: `/punir [nome]`")
		return
	}
	d.conversations.StartPunish(ctx, c.UserID, c.ChatID, c.Args)
}

func (d *Dispatcher) handleRemover(ctx context.Context, c *Context) {
	if c.Args == "" {
		d.reply(ctx, c.ChatID, "Digite o nome a remover.")
		return
	}
	d.conversations.StartRemove(ctx, c.UserID, c.ChatID, c.Args)
}

// handleVerificar cross-checks the group member list against the
// roster, mentioning unregistered members so they see the report
func (d *Dispatcher) handleVerificar(ctx context.Context, c *Context) {
	d.reply(ctx, c.ChatID, "🔎 Verificando a lista de membros... Isso pode levar um momento.")

	members, err := d.client.GroupMembers(ctx, c.ChatID)
	if err != nil {
		d.logger.Error("member verification failed", "group", c.ChatID, "error", err)
		d.reply(ctx, c.ChatID, "❌ Ocorreu um erro ao tentar verificar os membros.")
		return
	}
	players, err := d.storage.ListPlayers(ctx)
	if err != nil {
		d.logger.Error("member verification failed", "error", err)
		d.reply(ctx, c.ChatID, "❌ Ocorreu um erro ao tentar verificar os membros.")
		return
	}

	inGroup := make(map[string]bool, len(members))
	for _, m := range members {
		inGroup[m.JID] = true
	}
	registered := make(map[string]string, len(players))
	for _, p := range players {
		if p.WhatsappID != "" {
			registered[p.WhatsappID] = p.Name
		}
	}

	var notRegistered, mentions []string
	for _, m := range members {
		if _, ok := registered[m.JID]; !ok {
			notRegistered = append(notRegistered, "@"+jidIdentifier(m.JID))
			mentions = append(mentions, m.JID)
		}
	}
	var notInGroup []string
	for _, p := range players {
		if p.WhatsappID != "" && !inGroup[p.WhatsappID] {
			notInGroup = append(notInGroup, p.Name)
		}
	}

	text := "📋 *Relatório de Verificação de Membros* 📋\n\n"
	if len(notRegistered) > 0 {
		text += "*👤 Membros no grupo que NÃO estão registrados no bot:*\n"
		text += "(Devem usar o comando `/nome [nick]`)\n"
		for _, mention := range notRegistered {
			text += fmt.Sprintf("- %s\n", mention)
		}
	} else {
		text += "✅ Todos os membros do grupo estão registrados no bot.\n"
	}
	text += "\n--------------------\n\n"
	if len(notInGroup) > 0 {
		text += "*👋 Jogadores na lista do bot que NÃO estão mais no grupo:*\n"
		text += "(Considere usar `/remover [nome]` para limpar a lista)\n"
		for _, name := range notInGroup {
			text += fmt.Sprintf("- %s\n", name)
		}
	} else {
		text += "✅ Todos os jogadores registrados no bot estão no grupo.\n"
	}

	d.send(ctx, c.ChatID, messaging.OutgoingMessage{Text: text, Mentions: mentions})
}

func (d *Dispatcher) handleResetarAdvs(ctx context.Context, c *Context) {
	players, err := d.storage.ListPlayers(ctx)
	if err != nil {
		d.logger.Error("warning reset failed", "error", err)
		d.reply(ctx, c.ChatID, "❌ Ocorreu um erro ao resetar as advertências.")
		return
	}
	if len(players) == 0 {
		d.reply(ctx, c.ChatID, "Nenhum jogador na lista.")
		return
	}
	if err := d.storage.ResetAllWarnings(ctx); err != nil {
		d.logger.Error("warning reset failed", "error", err)
		d.reply(ctx, c.ChatID, "❌ Ocorreu um erro ao resetar as advertências.")
		return
	}
	d.reply(ctx, c.ChatID, "✅ Todas as advertências foram zeradas com sucesso.")
}

// handleNovaGuerra closes the war cycle: crowns the champion, runs the
// final absence sweep, resets every scoreboard and snapshots a backup.
// Progress is narrated step by step since the sweep can take a while.
func (d *Dispatcher) handleNovaGuerra(ctx context.Context, c *Context) {
	d.reply(ctx, c.ChatID, "🚨 *Atenção!* Iniciando o processo de fechamento da semana...")

	d.reply(ctx, c.ChatID, "1️⃣ Calculando o campeão da semana... 🏆")
	champions, best, err := d.roster.Champions(ctx)
	if err != nil {
		d.logger.Error("war close failed computing champion", "error", err)
		d.reply(ctx, c.ChatID, "❌ Ocorreu um erro grave ao tentar iniciar a nova guerra.")
		return
	}
	if len(champions) > 0 && best > 0 {
		var msg string
		if len(champions) > 1 {
			names := make([]string, len(champions))
			for i, p := range champions {
				names[i] = p.Name
			}
			msg = fmt.Sprintf("🏆 Tivemos um empate! Os campeões da semana com *%d* pontos são:\n*%s*",
				best, strings.Join(names, " & "))
		} else {
			msg = fmt.Sprintf("🏆 O grande campeão da semana é *%s* com *%d* pontos!", champions[0].Name, best)
		}
		d.reply(ctx, c.ChatID, msg+"\n\nRegistrando no Hall da Fama...")
		for _, p := range champions {
			if err := d.storage.IncrementHallOfFameWins(ctx, p.Name); err != nil {
				d.logger.Error("hall of fame write failed", "player", p.Name, "error", err)
			}
		}
	} else {
		d.reply(ctx, c.ChatID, "⚠️ Ninguém pontuou nesta guerra, então não há campeão esta semana.")
	}

	d.reply(ctx, c.ChatID, "2️⃣ Realizando a verificação final de faltas da guerra anterior... Isso pode levar um momento.")
	if err := d.warnings.SweepAllAbsences(ctx, c.ChatID); err != nil {
		d.logger.Error("war close failed during absence sweep", "error", err)
		d.reply(ctx, c.ChatID, "❌ Ocorreu um erro grave ao tentar iniciar a nova guerra.")
		return
	}

	d.reply(ctx, c.ChatID, "3️⃣ Faltas verificadas! Agora, zerando os placares para a nova guerra...")
	if err := d.storage.ResetWarCycle(ctx); err != nil {
		d.logger.Error("war close failed resetting scores", "error", err)
		d.reply(ctx, c.ChatID, "❌ Ocorreu um erro grave ao tentar iniciar a nova guerra.")
		return
	}
	if err := d.roster.CreateBackup(ctx); err != nil {
		d.logger.Error("post-reset backup failed", "error", err)
	}

	d.reply(ctx, c.ChatID, "✅ *Nova Guerra Iniciada!* O campeão foi coroado, as faltas foram aplicadas e todos os placares foram zerados.")
}

func (d *Dispatcher) handleRestaurarBackup(ctx context.Context, c *Context) {
	count, err := d.roster.RestoreBackup(ctx)
	switch {
	case errors.Is(err, model.ErrBackupNotFound):
		d.reply(ctx, c.ChatID, "❌ Nenhum backup encontrado para restaurar.")
	case errors.Is(err, model.ErrBackupEmpty):
		d.reply(ctx, c.ChatID, "⚠️ O backup está vazio. Nenhuma ação foi tomada.")
	case err != nil:
		d.logger.Error("backup restore failed", "error", err)
		d.reply(ctx, c.ChatID, "❌ Ocorreu um erro crítico ao tentar restaurar o backup.")
	default:
		d.reply(ctx, c.ChatID, fmt.Sprintf(
			"✅ Sucesso! A lista com os dados de *%d* jogadores foi restaurada.", count))
	}
}
