package redis

import (
	"sort"

	"github.com/rzclan/warbot/internal/model"
)

// sortPlayersByName orders players by their lowercase name, matching
// the ordering contract of ListPlayers across backends
func sortPlayersByName(players []*model.Player) {
	sort.Slice(players, func(i, j int) bool {
		return players[i].NameLower < players[j].NameLower
	})
}
