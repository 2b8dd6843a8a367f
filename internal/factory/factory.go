// Package factory wires the application graph from configuration:
// storage backend, messaging client, services, the event dispatcher and
// the ops server.
package factory

import (
	"context"
	"errors"
	"io"
	"log/slog"

	"github.com/rzclan/warbot/internal/bot"
	"github.com/rzclan/warbot/internal/config"
	"github.com/rzclan/warbot/internal/dependencies/clock"
	"github.com/rzclan/warbot/internal/dependencies/random"
	"github.com/rzclan/warbot/internal/messaging"
	"github.com/rzclan/warbot/internal/notify"
	"github.com/rzclan/warbot/internal/ops"
	"github.com/rzclan/warbot/internal/services/conversation"
	"github.com/rzclan/warbot/internal/services/resolver"
	"github.com/rzclan/warbot/internal/services/roster"
	"github.com/rzclan/warbot/internal/services/session"
	"github.com/rzclan/warbot/internal/services/warning"
	"github.com/rzclan/warbot/internal/storage"
	"github.com/rzclan/warbot/internal/storage/memory"
	redisstorage "github.com/rzclan/warbot/internal/storage/redis"
)

// Storage type constants
const (
	StorageTypeMemory = "memory"
	StorageTypeRedis  = "redis"
)

// App contains all wired application components
type App struct {
	Storage storage.Storage
	Clock   clock.Clock
	Random  random.Random

	Sessions      *session.Store
	Resolver      *resolver.Resolver
	Roster        *roster.Service
	Warnings      *warning.Engine
	Conversations *conversation.Service
	Dispatcher    *bot.Dispatcher
	OpsServer     *ops.Server
	Notifier      notify.Notifier
}

// New wires an App from configuration and a messaging client. The
// client is injected so tests can pass a recorder and the command can
// pass the bridge client.
func New(cfg *config.Config, client messaging.Client, logger *slog.Logger) (*App, error) {
	if logger == nil {
		logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}

	var store storage.Storage
	switch cfg.StorageType {
	case StorageTypeMemory, "":
		store = memory.New()
	case StorageTypeRedis:
		redisCfg := redisstorage.DefaultConfig()
		redisCfg.URL = cfg.RedisURL
		redisStore, err := redisstorage.New(redisCfg)
		if err != nil {
			return nil, err
		}
		store = redisStore
	default:
		return nil, errors.New("invalid StorageType: must be 'memory' or 'redis'")
	}

	clk := clock.New()
	rnd := random.New()

	// expired sessions tell the user their dialog was dropped
	sessions := session.NewStore(logger, cfg.SessionTimeout, func(userID, chatID string) {
		if err := client.Send(context.Background(), chatID, messaging.OutgoingMessage{
			Text: "Sua sessão expirou por inatividade.",
		}); err != nil {
			logger.Warn("session expiry notice failed", "user", userID, "error", err)
		}
	})

	res := resolver.New(logger, store, cfg.SearchTolerance)
	rosterSvc := roster.New(logger, store, clk)
	warnings := warning.New(logger, store, client, rnd, cfg.LeaderJID, cfg.MinimumWarScore)
	conversations := conversation.New(logger, store, client, clk, sessions, res, rosterSvc, warnings)

	dispatcher, err := bot.New(logger, cfg, store, client, clk, conversations, res, rosterSvc, warnings)
	if err != nil {
		return nil, err
	}

	var notifier notify.Notifier = notify.Nop{}
	if cfg.WebhookURL != "" {
		notifier = notify.NewWebhook(logger, cfg.WebhookURL)
	}

	return &App{
		Storage:       store,
		Clock:         clk,
		Random:        rnd,
		Sessions:      sessions,
		Resolver:      res,
		Roster:        rosterSvc,
		Warnings:      warnings,
		Conversations: conversations,
		Dispatcher:    dispatcher,
		OpsServer:     ops.NewServer(cfg.OpsAddr, logger, store, sessions, clk),
		Notifier:      notifier,
	}, nil
}

// Close releases backend resources held by the App
func (a *App) Close() error {
	a.Sessions.EndAll()
	if closer, ok := a.Storage.(io.Closer); ok {
		return closer.Close()
	}
	return nil
}
