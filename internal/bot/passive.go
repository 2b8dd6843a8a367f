package bot

import (
	"context"
	_ "embed"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/rzclan/warbot/internal/dependencies/clock"
	"github.com/rzclan/warbot/internal/messaging"
)

//go:embed passive.yaml
var passiveYAML []byte

type intent struct {
	Command  string   `yaml:"command"`
	Priority int      `yaml:"priority"`
	Keywords []string `yaml:"keywords"`
}

// passiveMatcher suggests a command when a plain message mentions a
// known topic. Highest priority wins; on a tie the longer keyword does.
// A per-chat cooldown keeps the hints from becoming spam.
type passiveMatcher struct {
	logger   *slog.Logger
	client   messaging.Client
	clock    clock.Clock
	cooldown time.Duration
	meta     map[string]CommandMeta
	intents  []intent

	mu       sync.Mutex
	lastHint map[string]time.Time
}

func newPassiveMatcher(logger *slog.Logger, client messaging.Client, clk clock.Clock, cooldown time.Duration, meta map[string]CommandMeta) (*passiveMatcher, error) {
	var doc struct {
		Intents []intent `yaml:"intents"`
	}
	if err := yaml.Unmarshal(passiveYAML, &doc); err != nil {
		return nil, fmt.Errorf("parsing intent table: %w", err)
	}
	for _, it := range doc.Intents {
		if _, ok := meta[it.Command]; !ok {
			return nil, fmt.Errorf("intent table references unknown command %q", it.Command)
		}
	}
	return &passiveMatcher{
		logger:   logger,
		client:   client,
		clock:    clk,
		cooldown: cooldown,
		meta:     meta,
		intents:  doc.Intents,
		lastHint: make(map[string]time.Time),
	}, nil
}

// Handle scans a lowercased plain message and replies with a command
// hint when a keyword matches and the chat is off cooldown
func (m *passiveMatcher) Handle(ctx context.Context, chatID, lowerText string) {
	bestCommand, bestKeyword := "", ""
	bestPriority := -1
	for _, it := range m.intents {
		for _, kw := range it.Keywords {
			if !strings.Contains(lowerText, kw) {
				continue
			}
			if it.Priority > bestPriority ||
				(it.Priority == bestPriority && len(kw) > len(bestKeyword)) {
				bestCommand, bestKeyword, bestPriority = it.Command, kw, it.Priority
			}
		}
	}
	if bestCommand == "" {
		return
	}

	m.mu.Lock()
	now := m.clock.Now()
	if last, ok := m.lastHint[chatID]; ok && now.Sub(last) < m.cooldown {
		m.mu.Unlock()
		return
	}
	m.lastHint[chatID] = now
	m.mu.Unlock()

	meta := m.meta[bestCommand]
	intention := strings.TrimSuffix(strings.ToLower(meta.Description), ".")
	text := fmt.Sprintf("Olá! 👋 Parece que você falou sobre \"*%s*\".\n\n", bestKeyword)
	text += fmt.Sprintf("Acho que posso ajudar! Se a sua intenção é \"%s\", o comando é:\n\n➡️ *%s*", intention, meta.Usage)
	if err := m.client.Send(ctx, chatID, messaging.OutgoingMessage{Text: text}); err != nil {
		m.logger.Error("passive hint failed", "chat", chatID, "error", err)
	}
}
