package bot

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/rzclan/warbot/internal/dependencies/clock"
	"github.com/rzclan/warbot/internal/messaging"
)

// adminCache caches the admin set of each group for a short TTL so a
// burst of commands doesn't hammer the bridge with member lookups.
// On lookup failure it answers "not admin": restricted commands stay
// closed rather than open.
type adminCache struct {
	logger *slog.Logger
	client messaging.Client
	clock  clock.Clock
	ttl    time.Duration

	mu      sync.Mutex
	entries map[string]adminEntry
}

type adminEntry struct {
	admins    map[string]bool
	fetchedAt time.Time
}

func newAdminCache(logger *slog.Logger, client messaging.Client, clk clock.Clock, ttl time.Duration) *adminCache {
	return &adminCache{
		logger:  logger,
		client:  client,
		clock:   clk,
		ttl:     ttl,
		entries: make(map[string]adminEntry),
	}
}

// IsAdmin reports whether userID is an admin of groupID
func (a *adminCache) IsAdmin(ctx context.Context, groupID, userID string) bool {
	a.mu.Lock()
	defer a.mu.Unlock()

	entry, ok := a.entries[groupID]
	if !ok || a.clock.Now().Sub(entry.fetchedAt) > a.ttl {
		members, err := a.client.GroupMembers(ctx, groupID)
		if err != nil {
			a.logger.Warn("admin lookup failed", "group", groupID, "error", err)
			return false
		}
		admins := make(map[string]bool, len(members))
		for _, m := range members {
			if m.IsAdmin {
				admins[m.JID] = true
			}
		}
		entry = adminEntry{admins: admins, fetchedAt: a.clock.Now()}
		a.entries[groupID] = entry
	}
	return entry.admins[userID]
}
