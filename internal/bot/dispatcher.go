// Package bot routes inbound bridge events: slash commands through a
// static registry with an admin gate, quick-score shorthand, active
// conversations, and a passive keyword matcher for plain messages.
package bot

import (
	"context"
	"log/slog"
	"strings"

	"github.com/rzclan/warbot/internal/config"
	"github.com/rzclan/warbot/internal/dependencies/clock"
	"github.com/rzclan/warbot/internal/messaging"
	"github.com/rzclan/warbot/internal/services/conversation"
	"github.com/rzclan/warbot/internal/services/resolver"
	"github.com/rzclan/warbot/internal/services/roster"
	"github.com/rzclan/warbot/internal/services/warning"
	"github.com/rzclan/warbot/internal/storage"
)

// Context carries the per-message facts a command handler needs
type Context struct {
	UserID    string
	ChatID    string
	MessageID string
	// Text is the full message; Args is what follows the command token
	Text    string
	Args    string
	IsAdmin bool
}

type Dispatcher struct {
	logger        *slog.Logger
	storage       storage.Storage
	client        messaging.Client
	clock         clock.Clock
	conversations *conversation.Service
	resolver      *resolver.Resolver
	roster        *roster.Service
	warnings      *warning.Engine
	admins        *adminCache
	passive       *passiveMatcher

	registry  map[string]command
	metaOrder []CommandMeta

	allowedGroup   string
	navalThreshold int
	divisions      []int
}

func New(
	logger *slog.Logger,
	cfg *config.Config,
	store storage.Storage,
	client messaging.Client,
	clk clock.Clock,
	conversations *conversation.Service,
	res *resolver.Resolver,
	rosterSvc *roster.Service,
	warnings *warning.Engine,
) (*Dispatcher, error) {
	order, byName, err := loadCommandMeta()
	if err != nil {
		return nil, err
	}
	passive, err := newPassiveMatcher(logger, client, clk, cfg.PassiveCooldown, byName)
	if err != nil {
		return nil, err
	}

	d := &Dispatcher{
		logger:         logger,
		storage:        store,
		client:         client,
		clock:          clk,
		conversations:  conversations,
		resolver:       res,
		roster:         rosterSvc,
		warnings:       warnings,
		admins:         newAdminCache(logger, client, clk, cfg.AdminCacheTTL),
		passive:        passive,
		metaOrder:      order,
		allowedGroup:   cfg.AllowedGroupID,
		navalThreshold: cfg.NavalThreshold,
		divisions:      cfg.RankingDivisions,
	}
	d.registry = d.buildRegistry(byName)
	return d, nil
}

// buildRegistry binds handlers to the command table. A table entry
// without a handler here is a programming error caught at startup.
func (d *Dispatcher) buildRegistry(meta map[string]CommandMeta) map[string]command {
	handlers := map[string]func(ctx context.Context, c *Context){
		"me":               d.handleMe,
		"nome":             d.handleNome,
		"cadastro":         d.handleCadastro,
		"edit":             d.handleEdit,
		"lista":            d.handleLista,
		"campeoes":         d.handleCampeoes,
		"status":           d.handleStatus,
		"ranking":          d.handleRanking,
		"lembrete":         d.handleLembrete,
		"adv":              d.handleAdv,
		"ajuda":            d.handleAjuda,
		"punir":            d.handlePunir,
		"remover":          d.handleRemover,
		"verificar":        d.handleVerificar,
		"resetar_advs":     d.handleResetarAdvs,
		"nova_guerra":      d.handleNovaGuerra,
		"restaurar_backup": d.handleRestaurarBackup,
	}
	registry := make(map[string]command, len(handlers))
	for name, run := range handlers {
		registry[name] = command{meta: meta[name], run: run}
	}
	return registry
}

// HandleEvent is the single entry point for inbound bridge events
func (d *Dispatcher) HandleEvent(ctx context.Context, ev messaging.Event) {
	if ev.ChatID != d.allowedGroup {
		return
	}
	switch ev.Kind {
	case messaging.EventMemberJoined:
		d.conversations.StartWelcome(ctx, ev.JoinedJID, ev.ChatID)
	case messaging.EventMessage:
		d.handleMessage(ctx, ev)
	}
}

func (d *Dispatcher) handleMessage(ctx context.Context, ev messaging.Event) {
	text := strings.TrimSpace(ev.Text)
	if text == "" {
		return
	}
	lower := strings.ToLower(text)

	// exit works anywhere, with or without an active conversation
	if lower == "/sair" || lower == "/cancelar" {
		d.conversations.Cancel(ctx, ev.SenderID, ev.ChatID)
		return
	}
	if d.conversations.Active(ev.SenderID) {
		d.conversations.HandleMessage(ctx, ev.SenderID, ev.ChatID, text)
		return
	}
	if !strings.HasPrefix(text, "/") {
		d.passive.Handle(ctx, ev.ChatID, lower)
		return
	}

	fields := strings.Fields(text)
	name := strings.ToLower(strings.TrimPrefix(fields[0], "/"))
	cmd, ok := d.registry[name]
	if !ok {
		// unknown slash input falls through to the quick-score shorthand
		d.handleQuickScore(ctx, ev, text)
		return
	}

	c := &Context{
		UserID:    ev.SenderID,
		ChatID:    ev.ChatID,
		MessageID: ev.MessageID,
		Text:      text,
		Args:      strings.TrimSpace(strings.TrimPrefix(text, fields[0])),
		IsAdmin:   d.admins.IsAdmin(ctx, ev.ChatID, ev.SenderID),
	}
	if cmd.meta.Admin && !c.IsAdmin {
		d.reply(ctx, c.ChatID, "❌ Você não tem permissão para usar este comando.")
		return
	}
	d.logger.Debug("dispatching command", "command", name, "user", c.UserID, "admin", c.IsAdmin)
	cmd.run(ctx, c)
}

func (d *Dispatcher) reply(ctx context.Context, chatID, text string) {
	d.send(ctx, chatID, messaging.OutgoingMessage{Text: text})
}

func (d *Dispatcher) send(ctx context.Context, chatID string, msg messaging.OutgoingMessage) {
	if err := d.client.Send(ctx, chatID, msg); err != nil {
		d.logger.Error("send failed", "chat", chatID, "error", err)
	}
}
