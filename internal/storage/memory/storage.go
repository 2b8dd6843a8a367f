package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/rzclan/warbot/internal/model"
	"github.com/rzclan/warbot/internal/storage"
)

// Storage is an in-memory implementation of the storage interface
type Storage struct {
	mu sync.RWMutex

	players map[model.PlayerID]*model.Player
	waIndex map[string]model.PlayerID
	hall    map[string]int
	backup  *model.Backup
}

// New creates a new in-memory storage instance
func New() *Storage {
	return &Storage{
		players: make(map[model.PlayerID]*model.Player),
		waIndex: make(map[string]model.PlayerID),
		hall:    make(map[string]int),
	}
}

// Ensure Storage implements the interface
var _ storage.Storage = (*Storage)(nil)

// Player operations

func (s *Storage) SavePlayer(ctx context.Context, player *model.Player) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.savePlayerLocked(player)
	return nil
}

func (s *Storage) savePlayerLocked(player *model.Player) {
	s.players[player.ID] = player
	if player.WhatsappID != "" {
		s.waIndex[player.WhatsappID] = player.ID
	}
}

func (s *Storage) GetPlayer(ctx context.Context, id model.PlayerID) (*model.Player, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	player, ok := s.players[id]
	if !ok {
		return nil, model.ErrPlayerNotFound
	}
	return player, nil
}

func (s *Storage) GetPlayerByWaID(ctx context.Context, waID string) (*model.Player, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	id, ok := s.waIndex[waID]
	if !ok {
		return nil, model.ErrPlayerNotFound
	}
	player, ok := s.players[id]
	if !ok {
		return nil, model.ErrPlayerNotFound
	}
	return player, nil
}

func (s *Storage) ListPlayers(ctx context.Context) ([]*model.Player, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	players := make([]*model.Player, 0, len(s.players))
	for _, p := range s.players {
		players = append(players, p)
	}
	sort.Slice(players, func(i, j int) bool {
		return players[i].NameLower < players[j].NameLower
	})
	return players, nil
}

func (s *Storage) DeletePlayer(ctx context.Context, id model.PlayerID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if p, ok := s.players[id]; ok && p.WhatsappID != "" {
		delete(s.waIndex, p.WhatsappID)
	}
	delete(s.players, id)
	return nil
}

// Atomic roster-wide batches

func (s *Storage) ResetWarCycle(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, p := range s.players {
		p.DailyPoints = [model.WarDays]int{}
		p.WarnedAbsences = nil
		p.NavalDefensePoints = 0
	}
	return nil
}

func (s *Storage) ResetAllWarnings(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, p := range s.players {
		p.Warnings = 0
	}
	return nil
}

func (s *Storage) ReplaceAllPlayers(ctx context.Context, players []*model.Player) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.players = make(map[model.PlayerID]*model.Player, len(players))
	s.waIndex = make(map[string]model.PlayerID, len(players))
	for _, p := range players {
		s.savePlayerLocked(p)
	}
	return nil
}

// Hall of fame

func (s *Storage) IncrementHallOfFameWins(ctx context.Context, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.hall[name]++
	return nil
}

func (s *Storage) ListHallOfFame(ctx context.Context) ([]*model.HallOfFameEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	entries := make([]*model.HallOfFameEntry, 0, len(s.hall))
	for name, wins := range s.hall {
		entries = append(entries, &model.HallOfFameEntry{Name: name, Wins: wins})
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Wins != entries[j].Wins {
			return entries[i].Wins > entries[j].Wins
		}
		return entries[i].Name < entries[j].Name
	})
	return entries, nil
}

// Backup snapshot

func (s *Storage) SaveBackup(ctx context.Context, backup *model.Backup) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.backup = backup
	return nil
}

func (s *Storage) GetBackup(ctx context.Context) (*model.Backup, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.backup == nil {
		return nil, model.ErrBackupNotFound
	}
	return s.backup, nil
}

func (s *Storage) Ping(ctx context.Context) error {
	return nil
}
