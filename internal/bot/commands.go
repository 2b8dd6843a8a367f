package bot

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/rzclan/warbot/internal/model"
	"github.com/rzclan/warbot/internal/services/resolver"
)

// shortDayNames are the war day names without the "-feira" suffix
var shortDayNames = [model.WarDays]string{"Quinta", "Sexta", "Sábado", "Domingo"}

// handleMe shows a player's battle status: own profile with no args,
// someone else's via @mention or by name
func (d *Dispatcher) handleMe(ctx context.Context, c *Context) {
	players, err := d.storage.ListPlayers(ctx)
	if err != nil {
		d.logger.Error("me listing failed", "error", err)
		d.reply(ctx, c.ChatID, "❌ Ocorreu um erro ao buscar o status.")
		return
	}
	if len(players) == 0 {
		d.reply(ctx, c.ChatID, "A lista de jogadores está vazia.")
		return
	}

	var target *model.Player
	switch {
	case c.Args == "":
		identifier := jidIdentifier(c.UserID)
		for _, p := range players {
			if p.WhatsappID != "" && strings.HasPrefix(p.WhatsappID, identifier) {
				target = p
				break
			}
		}
		if target == nil {
			d.reply(ctx, c.ChatID,
				"ℹ️ Seu número de WhatsApp não está registrado. Use */nome [seu nick no jogo]* para se registrar.")
			return
		}
	case strings.HasPrefix(c.Args, "@"):
		identifier := jidIdentifier(strings.TrimPrefix(c.Args, "@"))
		for _, p := range players {
			if p.WhatsappID != "" && strings.HasPrefix(p.WhatsappID, identifier) {
				target = p
				break
			}
		}
		if target == nil {
			d.reply(ctx, c.ChatID, fmt.Sprintf("❌ Jogador \"%s\" não encontrado.", c.Args))
			return
		}
	default:
		result, err := d.resolver.Resolve(ctx, c.Args)
		if err != nil {
			d.logger.Error("me resolve failed", "name", c.Args, "error", err)
			d.reply(ctx, c.ChatID, "❌ Ocorreu um erro ao buscar o status.")
			return
		}
		if result.Status != resolver.StatusExact && result.Status != resolver.StatusSimilar {
			d.reply(ctx, c.ChatID, fmt.Sprintf("❌ Jogador \"%s\" não encontrado.", c.Args))
			return
		}
		target = result.Player
	}

	d.reply(ctx, c.ChatID, battleStatus(target))
}

// jidIdentifier reduces a JID to its bare phone part, dropping the
// server suffix and device qualifier
func jidIdentifier(jid string) string {
	identifier, _, _ := strings.Cut(jid, "@")
	identifier, _, _ = strings.Cut(identifier, ":")
	return identifier
}

func battleStatus(p *model.Player) string {
	text := fmt.Sprintf("👤 *Status de Batalha: %s*\n\n", p.Name)

	text += "📝 *Informações do Jogador:*\n"
	text += fmt.Sprintf(" › Nível XP: %s\n", orNotInformed(p.LevelXP))
	text += fmt.Sprintf(" › Torre Rei: %s\n", orNotInformed(p.KingTower))
	text += fmt.Sprintf(" › Troféus: %s\n\n", orNotInformed(p.Trophies))

	text += "*Desempenho na Guerra:*\n"
	for i, pts := range p.DailyPoints {
		var status string
		switch {
		case pts == -1:
			status = "⚫ (Aguardando)"
		case pts == 0:
			status = "🔴 (Não atacou)"
		default:
			status = fmt.Sprintf("✅ (%d pts)", pts)
		}
		text += fmt.Sprintf(" › %s: %s\n", shortDayNames[i], status)
	}

	var conduct string
	switch {
	case p.Warnings == 0:
		conduct = "- *Limpa*"
	case p.Warnings <= 2:
		conduct = "- *Requer Atenção*"
	default:
		conduct = "- *Em Risco*"
	}
	text += fmt.Sprintf("\n⚓ *Defesa Naval:* %d pontos\n", p.NavalDefensePoints)
	text += fmt.Sprintf("⚠️ *Conduta:* %d/5 Advertências %s", p.Warnings, conduct)
	return text
}

func orNotInformed(value int) string {
	if value == 0 {
		return "Não informado"
	}
	return fmt.Sprintf("%d", value)
}

func (d *Dispatcher) handleNome(ctx context.Context, c *Context) {
	if c.Args == "" {
		d.reply(ctx, c.ChatID, "Por favor, digite seu nome. Ex: */nome Mestre Yoda*")
		return
	}
	d.conversations.StartRegistration(ctx, c.UserID, c.ChatID, c.Args)
}

func (d *Dispatcher) handleCadastro(ctx context.Context, c *Context) {
	d.conversations.StartUpdate(ctx, c.UserID, c.ChatID)
}

func (d *Dispatcher) handleLista(ctx context.Context, c *Context) {
	d.conversations.StartPointsFlow(ctx, c.UserID, c.ChatID)
}

var editPattern = regexp.MustCompile(`(?i)^(.*?)\s+para\s+(.*)$`)

// handleEdit renames a player. Admins rename anyone with "old para
// new"; everyone else may only rename themselves with "/edit novo nome".
func (d *Dispatcher) handleEdit(ctx context.Context, c *Context) {
	match := editPattern.FindStringSubmatch(c.Args)

	if match != nil && c.IsAdmin {
		oldName := strings.TrimSpace(match[1])
		newName := strings.TrimSpace(match[2])
		if oldName == "" || newName == "" {
			d.reply(ctx, c.ChatID, "Formato incorreto para admins. Use: `/edit [nome_antigo] para [novo_nome]`")
			return
		}
		d.conversations.StartEdit(ctx, c.UserID, c.ChatID, oldName, newName)
		return
	}
	if match != nil {
		d.reply(ctx, c.ChatID, "Formato incorreto para o comando /edit. Verifique o uso correto.")
		return
	}

	newName := c.Args
	if newName == "" {
		d.reply(ctx, c.ChatID, "Formato incorreto. Use: `/edit [seu novo nome]` ou, se for admin, `/edit [nome_antigo] para [nome_novo]`")
		return
	}
	player, err := d.storage.GetPlayerByWaID(ctx, c.UserID)
	if err != nil {
		d.reply(ctx, c.ChatID, "❌ Você não está na lista. Use `/nome [seu nick]` para se registrar.")
		return
	}
	if err := d.roster.Rename(ctx, player, newName); err != nil {
		if errors.Is(err, model.ErrNameTaken) {
			d.reply(ctx, c.ChatID, fmt.Sprintf("❌ O nome *%s* já está na lista!", newName))
			return
		}
		d.logger.Error("self rename failed", "user", c.UserID, "error", err)
		d.reply(ctx, c.ChatID, "❌ Ocorreu um erro ao tentar alterar seu nome.")
		return
	}
	d.reply(ctx, c.ChatID, fmt.Sprintf("✅ Seu nome foi alterado com sucesso para *%s*.", newName))
}

func (d *Dispatcher) handleCampeoes(ctx context.Context, c *Context) {
	entries, err := d.storage.ListHallOfFame(ctx)
	if err != nil {
		d.logger.Error("hall of fame listing failed", "error", err)
		d.reply(ctx, c.ChatID, "❌ Ocorreu um erro ao tentar buscar o Hall da Fama.")
		return
	}
	if len(entries) == 0 {
		d.reply(ctx, c.ChatID, "🏆 O Hall da Fama ainda está vazio. Seja o primeiro a conquistá-lo!")
		return
	}
	sort.SliceStable(entries, func(i, j int) bool { return entries[i].Wins > entries[j].Wins })

	medals := []string{"🥇", "🥈", "🥉"}
	text := "🏆 *Hall da Fama - Maiores Campeões* 🏆\n\n"
	for i, e := range entries {
		medal := "🏅"
		if i < len(medals) {
			medal = medals[i]
		}
		wins := "vitória"
		if e.Wins > 1 {
			wins = "vitórias"
		}
		text += fmt.Sprintf("%s *%s* - %d %s\n", medal, e.Name, e.Wins, wins)
	}
	d.reply(ctx, c.ChatID, text)
}

func (d *Dispatcher) handleStatus(ctx context.Context, c *Context) {
	players, err := d.storage.ListPlayers(ctx)
	if err != nil {
		d.logger.Error("status listing failed", "error", err)
		d.reply(ctx, c.ChatID, "❌ Ocorreu um erro ao buscar o status dos jogadores.")
		return
	}
	if len(players) == 0 {
		d.reply(ctx, c.ChatID, "Nenhum jogador na lista. Use */nome [seu nome]* para se registrar.")
		return
	}
	sort.SliceStable(players, func(i, j int) bool { return players[i].NameLower < players[j].NameLower })

	text := "*📊 Status de Pontos da Guerra 📊*\n\n"
	for _, p := range players {
		days := make([]string, len(p.DailyPoints))
		for i, pts := range p.DailyPoints {
			days[i] = fmt.Sprintf("%d", pts)
		}
		text += fmt.Sprintf("*%s*\n", p.Name)
		text += fmt.Sprintf(" ⚔️ Guerra: %s\n", strings.Join(days, " | "))
		text += fmt.Sprintf(" 🛡️ Def. Naval: %d\n", p.NavalDefensePoints)
		text += "--------------------\n"
	}
	d.reply(ctx, c.ChatID, text)
}

// divisionLabels pair up with the configured division minimums, highest
// first
var divisionLabels = []struct {
	name  string
	emoji string
}{
	{"DIVISÃO DE ELITE", "👑"},
	{"ALTO DESEMPENHO", "🔥"},
	{"EM DIA", "✅"},
	{"ZONA DE ATENÇÃO", "⚠️"},
}

func (d *Dispatcher) handleRanking(ctx context.Context, c *Context) {
	players, err := d.storage.ListPlayers(ctx)
	if err != nil {
		d.logger.Error("ranking listing failed", "error", err)
		d.reply(ctx, c.ChatID, "❌ Ocorreu um erro ao tentar gerar o ranking.")
		return
	}
	if len(players) == 0 {
		d.reply(ctx, c.ChatID, "Nenhum jogador na lista para criar um ranking.")
		return
	}

	type ranked struct {
		name  string
		total int
	}
	var scored []ranked
	for _, p := range players {
		if total := p.TotalWarPoints(); total > 0 {
			scored = append(scored, ranked{p.Name, total})
		}
	}
	if len(scored) == 0 {
		d.reply(ctx, c.ChatID, "Ninguém pontuou na guerra ainda.")
		return
	}
	sort.SliceStable(scored, func(i, j int) bool { return scored[i].total > scored[j].total })

	buckets := make([][]ranked, len(d.divisions))
	for _, r := range scored {
		for i, min := range d.divisions {
			if r.total >= min {
				buckets[i] = append(buckets[i], r)
				break
			}
		}
	}

	text := "🏆 *Ranking de Pontos de Guerra* 🏆\n"
	for i, bucket := range buckets {
		if len(bucket) == 0 {
			continue
		}
		label := divisionLabels[len(divisionLabels)-1]
		if i < len(divisionLabels) {
			label = divisionLabels[i]
		}
		text += fmt.Sprintf("\n%s *%s (%d+)*\n", label.emoji, label.name, d.divisions[i])
		for _, r := range bucket {
			text += fmt.Sprintf("• %s: *%d pts*\n", r.name, r.total)
		}
	}
	d.reply(ctx, c.ChatID, text)
}

func (d *Dispatcher) handleLembrete(ctx context.Context, c *Context) {
	target := strings.ToLower(strings.TrimSpace(c.Args))
	if target == "" {
		d.reply(ctx, c.ChatID, "Uso incorreto. Especifique o dia ou 'naval'.\nEx: */lembrete quinta*")
		return
	}

	players, err := d.storage.ListPlayers(ctx)
	if err != nil {
		d.logger.Error("reminder listing failed", "error", err)
		d.reply(ctx, c.ChatID, "❌ Ocorreu um erro ao buscar a lista de pendentes.")
		return
	}
	if len(players) == 0 {
		d.reply(ctx, c.ChatID, "Nenhum jogador na lista para verificar.")
		return
	}
	sort.SliceStable(players, func(i, j int) bool { return players[i].NameLower < players[j].NameLower })

	var title string
	var pending []string
	if target == "naval" {
		title = "Defesa Naval"
		for _, p := range players {
			if p.NavalDefensePoints == 0 {
				pending = append(pending, p.Name)
			}
		}
	} else {
		dayIndex, ok := model.ParseDayKeyword(target)
		if !ok {
			d.reply(ctx, c.ChatID, "Opção inválida. Use 'quinta', 'sexta', 'sabado', 'domingo' ou 'naval'.")
			return
		}
		title = model.DayNames[dayIndex]
		for _, p := range players {
			if p.DailyPoints[dayIndex] == 0 {
				pending = append(pending, p.Name)
			}
		}
	}

	if len(pending) == 0 {
		d.reply(ctx, c.ChatID, fmt.Sprintf("🎉 Todos já registraram os pontos para *%s*!", title))
		return
	}
	text := fmt.Sprintf("🚨 *Jogadores com pontuação pendente para %s:*\n\n", title)
	for _, name := range pending {
		text += fmt.Sprintf("• %s\n", name)
	}
	text += "\n*Não esqueçam de lançar os pontos!*"
	d.reply(ctx, c.ChatID, text)
}

func (d *Dispatcher) handleAdv(ctx context.Context, c *Context) {
	players, err := d.storage.ListPlayers(ctx)
	if err != nil {
		d.logger.Error("warnings listing failed", "error", err)
		d.reply(ctx, c.ChatID, "❌ Ocorreu um erro ao listar as advertências.")
		return
	}

	var highRisk, riskZone, single []*model.Player
	for _, p := range players {
		switch {
		case p.Warnings >= 3:
			highRisk = append(highRisk, p)
		case p.Warnings == 2:
			riskZone = append(riskZone, p)
		case p.Warnings == 1:
			single = append(single, p)
		}
	}
	if len(highRisk)+len(riskZone)+len(single) == 0 {
		d.reply(ctx, c.ChatID, "🎉 Ninguém possui advertências.")
		return
	}
	sort.SliceStable(highRisk, func(i, j int) bool { return highRisk[i].Warnings > highRisk[j].Warnings })
	sort.SliceStable(riskZone, func(i, j int) bool { return riskZone[i].NameLower < riskZone[j].NameLower })
	sort.SliceStable(single, func(i, j int) bool { return single[i].NameLower < single[j].NameLower })

	text := "⚠ *Lista de Advertências* ⚠\n\n"
	if len(highRisk) > 0 {
		text += "🚨 *RISCO MÁXIMO (3+ ADVs)* 🚨\n"
		for _, p := range highRisk {
			text += fmt.Sprintf("📌 %s (%d/5)\n", p.Name, p.Warnings)
		}
		text += "\n"
	}
	if len(riskZone) > 0 {
		text += "🔥 *ZONA DE RISCO (2 ADVs)* 🔥\n"
		for _, p := range riskZone {
			text += fmt.Sprintf("📌 %s (2/5)\n", p.Name)
		}
		text += "\n"
	}
	if len(single) > 0 {
		text += "⚠️ *1 Advertência*\n"
		for _, p := range single {
			text += fmt.Sprintf("📌 %s (1/5)\n", p.Name)
		}
	}
	d.reply(ctx, c.ChatID, text)
}

// handleAjuda renders the command guide: specific detail when a
// command is named, otherwise the general listing built from the
// command table
func (d *Dispatcher) handleAjuda(ctx context.Context, c *Context) {
	if c.Args != "" {
		name := strings.TrimPrefix(strings.ToLower(strings.Fields(c.Args)[0]), "/")
		if cmd, ok := d.registry[name]; ok {
			meta := cmd.meta
			text := fmt.Sprintf("*Detalhes do Comando: /%s* 🧐\n\n", name)
			text += fmt.Sprintf("*O que faz:*\n%s\n\n", meta.Description)
			text += fmt.Sprintf("*Como usar:*\n%s\n\n", meta.Usage)
			text += fmt.Sprintf("*Exemplo:*\n%s", meta.Example)
			if meta.Admin {
				text += "\n\n*Nota: Este é um comando apenas para administradores.*"
			}
			d.reply(ctx, c.ChatID, text)
			return
		}
	}

	text := "*Guia de Comandos do Bot* 🤖\n\nAqui está o que você pode fazer:\n"
	text += "\n*➡️ Comandos para Todos:*\n"
	for _, meta := range d.metaOrder {
		if !meta.Admin {
			text += fmt.Sprintf("*/%s* - %s\n", meta.Name, meta.Description)
		}
	}

	text += "\n*⚡ Comandos Rápidos de Lançamento de Pontos:*\n"
	text += "*/[pontos] [dia]* - Lança pontos de guerra diretamente (ex: `/980 quinta`).\n"
	text += "*/[pontos]* - Lança pontos de guerra para o dia atual (ex: `/980`).\n"
	text += "*👑 /[nome_do_jogador] [pontos] [dia]* - (Admin) Lança pontos para outro jogador (ex: `/Mestre Yoda 980 sexta`).\n"
	text += "*👑 /[nome_do_jogador] [pontos]* - (Admin) Lança pontos para outro jogador para o dia atual (ex: `/Mestre Yoda 980`).\n"

	if c.IsAdmin {
		text += "\n*👑 Comandos de Administrador:*\n"
		for _, meta := range d.metaOrder {
			if meta.Admin {
				text += fmt.Sprintf("*/%s* - %s\n", meta.Name, meta.Description)
			}
		}
	}
	text += "\nPara saber mais detalhes, digite `/ajuda [comando]`\n(ex: `/ajuda status`)"
	d.reply(ctx, c.ChatID, text)
}
