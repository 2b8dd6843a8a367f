package model

import "time"

// HallOfFameEntry records cumulative war-cycle wins for a player name.
// Ties at cycle close share the win.
type HallOfFameEntry struct {
	Name string
	Wins int
}

// Backup is a point-in-time snapshot of the full roster, overwritten at
// each war-cycle close and used only for disaster recovery.
type Backup struct {
	Players   []*Player
	UpdatedAt time.Time
}
